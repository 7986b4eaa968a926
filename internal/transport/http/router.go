package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/procodeli/portal/internal/config"
	"github.com/procodeli/portal/internal/transport/http/handler"
	appmiddleware "github.com/procodeli/portal/internal/transport/http/middleware"
	"golang.org/x/time/rate"
)

// NewRouter builds and returns the application router. The returned stop
// func releases the background work of the rate limiter.
func NewRouter(cfg *config.Config, deps *Deps) (http.Handler, func()) {
	r := chi.NewRouter()
	r.Use(appmiddleware.AccessLog(deps.AccessLog))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "HX-Request", "HX-Current-URL", "HX-Target", "HX-Trigger"},
		ExposedHeaders:   []string{"HX-Redirect"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// 5 requests/second, burst of 10 on the form posts.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	healthH := handler.NewHealthHandler()
	resetH := handler.NewPasswordResetHandler(deps.Recovery, deps.Sessions, cfg.PasswordMinLength)

	r.Get("/v1/health-check/{action}", healthH.Ping)
	r.Post("/v1/health-check/{action}", healthH.Ping)

	r.Group(func(r chi.Router) {
		r.Use(appmiddleware.BrowserSession(deps.JWTProvider, appmiddleware.CookieOptions{
			Name:   cfg.SessionCookieName,
			Secure: cfg.AppEnv == "production",
		}))

		r.Get("/reset-password", resetH.Show)
		r.With(sensitiveRL.Limit).Post("/reset-password/request", resetH.Request)
		r.With(sensitiveRL.Limit).Post("/reset-password/update", resetH.Update)
	})
	r.Get(cfg.LoginRoute, resetH.Login)

	return r, sensitiveRL.Stop
}
