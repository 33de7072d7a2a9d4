package server

import (
	"context"
	"net/http"
	"time"

	"github.com/costcraft/recipecost-be/internal/auth"
	"github.com/costcraft/recipecost-be/internal/config"
	"github.com/costcraft/recipecost-be/internal/http/handlers"
	"github.com/costcraft/recipecost-be/internal/middleware"
	"github.com/costcraft/recipecost-be/internal/storage"
)

// Server wraps an http.Server with configured routes.
type Server struct {
	inner *http.Server
}

// New wires up middleware, routes, and returns a ready server.
func New(cfg config.Config, store storage.Store) *Server {
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL)
	return &Server{inner: &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           Routes(cfg, store, tokens),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}}
}

// Routes builds the full handler chain. Split out from New so tests can
// run the exact production routing against an httptest server.
func Routes(cfg config.Config, store storage.Store, tokens *auth.TokenManager) http.Handler {
	mux := http.NewServeMux()

	handlers.NewHealthHandler(time.Now()).Register(mux)
	handlers.NewAuthHandler(store, tokens).Register(mux)
	handlers.NewIngredientHandler(store).Register(mux, tokens)
	handlers.NewRecipeHandler(store).Register(mux, tokens)
	handlers.NewDashboardHandler(store).Register(mux, tokens)

	return middleware.CORS(cfg.CORSOrigins, middleware.Logging(mux))
}

// Start begins serving HTTP traffic.
func (s *Server) Start() error {
	return s.inner.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.inner.Shutdown(ctx)
}
