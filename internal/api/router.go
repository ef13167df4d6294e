package api

import (
	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/starford/mealboard/internal/browser"
	"github.com/starford/mealboard/internal/session"
	"github.com/starford/mealboard/internal/sse"
	"github.com/starford/mealboard/internal/view"
)

// NewRouter creates a chi router with the page, the event stream and the
// action routes mounted. Everything except the page requires a session.
func NewRouter(b *browser.Browser, sessions *session.Manager, broker *sse.Broker, views *view.Renderer, logger *slog.Logger) chi.Router {
	h := NewHandler(b, sessions, broker, views, logger)

	r := chi.NewRouter()
	r.Get("/", h.Page)

	r.Group(func(r chi.Router) {
		r.Use(SessionMiddleware(sessions))

		r.Get("/events", h.Events)

		r.Route("/actions", func(r chi.Router) {
			r.Post("/menu/toggle", h.ToggleMenu)
			r.Post("/categories/{name}", h.SelectCategory)
			r.Post("/meals/{id}", h.ShowMeal)
			r.Post("/search", h.Search)
		})
	})

	return r
}
