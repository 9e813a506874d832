package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/mcoot/apollo/internal/api/apierr"
	"github.com/mcoot/apollo/internal/model"
)

// SessionCookie is the cookie carrying the session id
const SessionCookie = "sid"

type contextKey string

const (
	usernameContextKey contextKey = "username"
	sessionContextKey  contextKey = "session"
)

// SessionResolver maps a session id to the username it authenticates
type SessionResolver interface {
	WhoAmI(ctx context.Context, sid model.SessionID) (string, error)
}

// Auth creates authentication middleware
func Auth(resolver SessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sid := ExtractSessionID(r)
			if sid == "" {
				apierr.WriteError(w, apierr.NewUnauthorizedError())
				return
			}

			username, err := resolver.WhoAmI(r.Context(), sid)
			if err != nil {
				apierr.WriteError(w, err)
				return
			}

			ctx := r.Context()
			ctx = context.WithValue(ctx, sessionContextKey, sid)
			ctx = context.WithValue(ctx, usernameContextKey, username)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth extracts the session if present and valid but doesn't require it
func OptionalAuth(resolver SessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if sid := ExtractSessionID(r); sid != "" {
				if username, err := resolver.WhoAmI(r.Context(), sid); err == nil {
					ctx := r.Context()
					ctx = context.WithValue(ctx, sessionContextKey, sid)
					ctx = context.WithValue(ctx, usernameContextKey, username)
					r = r.WithContext(ctx)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ExtractSessionID reads the session id from the Authorization header or the sid cookie
func ExtractSessionID(r *http.Request) model.SessionID {
	// Check Authorization header first
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return model.SessionID(strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer ")))
	}

	// Fall back to cookie
	cookie, err := r.Cookie(SessionCookie)
	if err == nil {
		return model.SessionID(cookie.Value)
	}

	return ""
}

// GetUsername returns the authenticated username from the request context
func GetUsername(ctx context.Context) (string, bool) {
	username, ok := ctx.Value(usernameContextKey).(string)
	return username, ok
}

// GetSession returns the session id from the request context
func GetSession(ctx context.Context) model.SessionID {
	sid, _ := ctx.Value(sessionContextKey).(model.SessionID)
	return sid
}
