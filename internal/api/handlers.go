package api

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/starford/mealboard/internal/apperr"
	"github.com/starford/mealboard/internal/browser"
	"github.com/starford/mealboard/internal/session"
	"github.com/starford/mealboard/internal/sse"
	"github.com/starford/mealboard/internal/view"
)

// Handler holds the page, event and action handlers.
type Handler struct {
	browser  *browser.Browser
	sessions *session.Manager
	broker   *sse.Broker
	views    *view.Renderer
	logger   *slog.Logger
}

// NewHandler creates a new Handler.
func NewHandler(b *browser.Browser, sessions *session.Manager, broker *sse.Broker, views *view.Renderer, logger *slog.Logger) *Handler {
	return &Handler{
		browser:  b,
		sessions: sessions,
		broker:   broker,
		views:    views,
		logger:   logger,
	}
}

// ChangeEvent converts a document change of session into a stream event.
func ChangeEvent(session string, c view.Change) sse.Event {
	return sse.Event{Session: session, Type: c.Kind, Data: c}
}

// pathParam returns the unescaped URL parameter key.
// Category names may arrive percent-encoded (e.g. Side%20Dish).
func pathParam(r *http.Request, key string) string {
	raw := chi.URLParam(r, key)
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return strings.TrimSpace(raw)
	}
	return strings.TrimSpace(decoded)
}

// detached keeps request values but outlives the request, so fetches
// continue after the action has been acknowledged.
func detached(r *http.Request) context.Context {
	return context.WithoutCancel(r.Context())
}

// Page handles GET /.
//
// It creates a session when the cookie is missing or stale, loads the
// categories and renders the page shell from the current document.
func (h *Handler) Page(w http.ResponseWriter, r *http.Request) {
	doc, ok := lookupSession(h.sessions, r)
	if !ok {
		doc = h.sessions.Create()
		http.SetCookie(w, &http.Cookie{
			Name:     SessionCookie,
			Value:    doc.ID(),
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
		h.logger.Debug("session created", slog.String("session", doc.ID()))
	}

	h.browser.FetchCategories(detached(r), doc)

	var buf bytes.Buffer
	if err := h.views.Page(&buf, view.NewPageData(doc)); err != nil {
		h.logger.Error("render page failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// Events handles GET /events: a snapshot of every target, then live changes.
func (h *Handler) Events(w http.ResponseWriter, r *http.Request) {
	doc := documentFrom(r.Context())
	h.broker.Stream(w, r, doc.ID(), func() []sse.Event {
		changes := doc.Snapshot()
		events := make([]sse.Event, 0, len(changes))
		for _, c := range changes {
			events = append(events, ChangeEvent(doc.ID(), c))
		}
		return events
	})
}

// ToggleMenu handles POST /actions/menu/toggle.
func (h *Handler) ToggleMenu(w http.ResponseWriter, r *http.Request) {
	visible := h.browser.ToggleMenu(documentFrom(r.Context()))
	writeJSON(w, http.StatusOK, MenuResponse{Status: "accepted", Visible: visible})
}

// SelectCategory handles POST /actions/categories/{name}. from=menu marks a
// click on a menu link.
func (h *Handler) SelectCategory(w http.ResponseWriter, r *http.Request) {
	name := pathParam(r, "name")
	if name == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("category is required"))
		return
	}
	fromMenu := r.URL.Query().Get("from") == "menu"

	h.browser.SelectCategory(detached(r), documentFrom(r.Context()), name, fromMenu)
	writeJSON(w, http.StatusAccepted, accepted())
}

// ShowMeal handles POST /actions/meals/{id}.
func (h *Handler) ShowMeal(w http.ResponseWriter, r *http.Request) {
	id := pathParam(r, "id")
	if id == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("meal id is required"))
		return
	}

	h.browser.FetchMealDetails(detached(r), documentFrom(r.Context()), id)
	writeJSON(w, http.StatusAccepted, accepted())
}

// Search handles POST /actions/search. The query is read from a JSON body
// or from the q form field.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	var query string
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var req SearchRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
			return
		}
		query = req.Query
	} else {
		q, err := formValue(w, r, "q")
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody("invalid form body"))
			return
		}
		query = q
	}

	if err := h.browser.SearchRecipes(detached(r), documentFrom(r.Context()), query); err != nil {
		if errors.Is(err, apperr.ErrInvalidInput) {
			writeJSON(w, http.StatusUnprocessableEntity, errorBody(browser.AlertEmptyQuery))
			return
		}
		h.logger.Error("search failed", slog.String("query", query), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusAccepted, accepted())
}
