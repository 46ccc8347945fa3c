package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/kozaktomas/face-attendance/internal/attendance"
)

type contextKey string

const sessionContextKey contextKey = "session"

// SessionParam is the URL parameter holding the attendance session ID.
const SessionParam = "sessionId"

// SessionLookup resolves attendance sessions by ID.
type SessionLookup interface {
	Get(id string) (*attendance.Session, error)
}

// WithSession is middleware that resolves the {sessionId} URL parameter and adds the session to the context.
// Unknown or expired sessions get a 404.
func WithSession(sessions SessionLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, err := sessions.Get(chi.URLParam(r, SessionParam))
			if err != nil {
				status := http.StatusInternalServerError
				if errors.Is(err, attendance.ErrSessionNotFound) {
					status = http.StatusNotFound
				}
				writeJSONError(w, status, err.Error())
				return
			}

			ctx := context.WithValue(r.Context(), sessionContextKey, session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetSessionFromContext retrieves the session from the request context
func GetSessionFromContext(ctx context.Context) *attendance.Session {
	session, ok := ctx.Value(sessionContextKey).(*attendance.Session)
	if !ok {
		return nil
	}
	return session
}

// SetSessionInContext adds a session to the context.
// This is primarily for testing - use WithSession middleware in production.
func SetSessionInContext(ctx context.Context, session *attendance.Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, session)
}

// MustGetSession retrieves the session from context.
// If not available, writes an error response and returns nil.
// Handlers should return immediately after receiving nil.
func MustGetSession(ctx context.Context, w http.ResponseWriter) *attendance.Session {
	session := GetSessionFromContext(ctx)
	if session == nil {
		writeJSONError(w, http.StatusInternalServerError, "session not available")
		return nil
	}
	return session
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
