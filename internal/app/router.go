package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rentiva/rentiva/internal/auth"
	"github.com/rentiva/rentiva/internal/bookings"
	"github.com/rentiva/rentiva/internal/franchises"
	"github.com/rentiva/rentiva/internal/observability"
	"github.com/rentiva/rentiva/internal/staff"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger            *slog.Logger
	Config            *Config
	EdgeGuard         *EdgeGuard
	AuthHandler       *auth.Handler
	BookingsHandler   *bookings.Handler
	FranchisesHandler *franchises.Handler
	StaffHandler      *staff.Handler
	Metrics           *observability.Metrics
}

// NewRouter constructs the chi.Router with platform defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	if params.EdgeGuard != nil {
		r.Use(params.EdgeGuard.Middleware)
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", params.AuthHandler.MountRoutes)
		if params.BookingsHandler != nil {
			r.Route("/bookings", params.BookingsHandler.MountRoutes)
		}
		if params.FranchisesHandler != nil {
			r.Route("/franchises", params.FranchisesHandler.MountRoutes)
		}
		if params.StaffHandler != nil {
			r.Route("/staff", params.StaffHandler.MountRoutes)
		}
	})

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
