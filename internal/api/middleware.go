// Package api implements the mealboard HTTP surface using chi.
package api

import (
	"context"
	"net/http"

	"github.com/starford/mealboard/internal/session"
	"github.com/starford/mealboard/internal/view"
)

// SessionCookie carries the session id of a browser.
const SessionCookie = "mealboard_session"

type documentKey struct{}

// SessionMiddleware resolves the session cookie to its document and stores it
// in the request context. Requests without a live session get a 404.
func SessionMiddleware(sessions *session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			doc, ok := lookupSession(sessions, r)
			if !ok {
				writeJSON(w, http.StatusNotFound, errorBody("session not found"))
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), documentKey{}, doc)))
		})
	}
}

func lookupSession(sessions *session.Manager, r *http.Request) (*view.Document, bool) {
	c, err := r.Cookie(SessionCookie)
	if err != nil {
		return nil, false
	}
	return sessions.Get(c.Value)
}

func documentFrom(ctx context.Context) *view.Document {
	doc, _ := ctx.Value(documentKey{}).(*view.Document)
	return doc
}
