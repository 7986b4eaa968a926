package middleware

import (
	"context"
	"log/slog"
	"net/http"

	jwtinfra "github.com/procodeli/portal/internal/infrastructure/jwt"
	"github.com/procodeli/portal/internal/pkg/id"
)

type contextKey string

const SessionIDKey contextKey = "session_id"

// CookieOptions configures the browser session cookie.
type CookieOptions struct {
	Name   string
	Secure bool
}

// BrowserSession binds every request to a server-side session id carried in
// a signed cookie. Requests without a valid cookie get a fresh id.
func BrowserSession(provider *jwtinfra.Provider, opts CookieOptions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var sessionID string
			if c, err := r.Cookie(opts.Name); err == nil {
				if claims, err := provider.Verify(c.Value); err == nil {
					sessionID = claims.SessionID
				}
			}
			if sessionID == "" {
				sessionID = id.New()
				token, err := provider.Sign(sessionID)
				if err != nil {
					slog.Error("failed to sign session cookie", "err", err)
					writeJSONError(w, http.StatusInternalServerError, "internal server error")
					return
				}
				http.SetCookie(w, &http.Cookie{
					Name:     opts.Name,
					Value:    token,
					Path:     "/",
					MaxAge:   int(provider.Expiry().Seconds()),
					HttpOnly: true,
					Secure:   opts.Secure,
					SameSite: http.SameSiteLaxMode,
				})
			}
			ctx := context.WithValue(r.Context(), SessionIDKey, sessionID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionIDFromContext extracts the browser session id from the request context.
func SessionIDFromContext(ctx context.Context) (string, bool) {
	s, ok := ctx.Value(SessionIDKey).(string)
	return s, ok && s != ""
}
