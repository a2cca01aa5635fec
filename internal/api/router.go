package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/quickdraw-game/quickdraw-go/internal/middleware"
)

// HealthCheck reports whether a dependency is reachable
type HealthCheck func(ctx context.Context) error

// RouterConfig holds dependencies for the router
type RouterConfig struct {
	Logger *slog.Logger

	// Gateway serves the websocket endpoint
	Gateway http.Handler

	// StoreCheck verifies the session store; nil disables the check
	StoreCheck HealthCheck
}

// NewRouter builds the HTTP routing table
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	r.Handle("/ws", cfg.Gateway)
	r.HandleFunc("/healthz", healthHandler(cfg.StoreCheck)).Methods(http.MethodGet)

	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Logging(cfg.Logger))

	return r
}

// healthHandler answers liveness probes, pinging the store when configured
func healthHandler(check HealthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			if err := check(r.Context()); err != nil {
				http.Error(w, "store unavailable", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}
}
