package http

import (
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/procodeli/portal/internal/application/recovery"
	jwtinfra "github.com/procodeli/portal/internal/infrastructure/jwt"
	"github.com/procodeli/portal/internal/transport/http/handler"
)

// Deps holds the application services the router serves.
type Deps struct {
	Recovery    recovery.Service
	Sessions    handler.SessionProviders
	JWTProvider *jwtinfra.Provider
	// AccessLog receives one line per request. Nil logs through slog.
	AccessLog chimiddleware.LoggerInterface
}
