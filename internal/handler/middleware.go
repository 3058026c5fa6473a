package handler

import (
	"context"
	"net/http"

	"japanese-doc-reader/internal/service"

	"github.com/google/uuid"
)

type contextKey string

const sessionIDContextKey contextKey = "session_id"

// newSessionSentinel asks the server to mint a fresh session identifier.
const newSessionSentinel = "new"

// SessionMiddleware resolves the client's session identifier from the
// X-Session-ID header. A missing header maps to the shared default slot so
// single-user clients work without any session handshake; the literal value
// "new" mints a fresh ID. The effective ID is echoed back in the response header.
func SessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Session-ID")
		switch id {
		case "":
			id = service.DefaultSessionID
		case newSessionSentinel:
			id = uuid.NewString()
		}

		w.Header().Set("X-Session-ID", id)
		ctx := context.WithValue(r.Context(), sessionIDContextKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetSessionID extracts the session identifier from request context.
func GetSessionID(r *http.Request) string {
	if id, ok := r.Context().Value(sessionIDContextKey).(string); ok && id != "" {
		return id
	}
	return service.DefaultSessionID
}
