package franchises

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rentiva/rentiva/internal/auth"
	"github.com/rentiva/rentiva/internal/platform/httpx"
	"github.com/rentiva/rentiva/internal/rbac"
)

// Handler exposes franchise endpoints.
type Handler struct {
	logger *slog.Logger
	repo   *Repository
	gate   *auth.Gate
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, repo *Repository, gate *auth.Gate) *Handler {
	return &Handler{logger: logger, repo: repo, gate: gate}
}

// MountRoutes registers franchise routes. Listing all tenants is the one
// operation reserved to super admins.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.gate.Require(auth.Requirement{MinRole: rbac.RoleSuperAdmin, Permission: rbac.ModuleFranchises}))
		r.Get("/", h.list)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.gate.Require(auth.Requirement{}))
		r.Get("/{franchiseID}", h.get)
	})
}

type franchiseView struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	City     string `json:"city"`
	IsActive bool   `json:"is_active"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	items, err := h.repo.List(r.Context())
	if err != nil {
		h.logger.Error("list franchises", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	views := make([]franchiseView, len(items))
	for i, f := range items {
		views[i] = franchiseView{ID: f.ID, Name: f.Name, City: f.City, IsActive: f.IsActive}
	}
	httpx.JSON(w, http.StatusOK, views)
}

// get returns a single franchise for display. Non-privileged principals can
// only read their own tenant.
func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	authCtx := auth.FromContext(r.Context())
	id := chi.URLParam(r, "franchiseID")

	if failure := auth.Authorize(&authCtx.Principal, auth.Requirement{Target: &auth.Target{FranchiseID: &id}}, h.gate.Policy()); failure != nil {
		auth.RespondFailure(w, failure)
		return
	}

	franchise, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.Problem(w, http.StatusNotFound, "Not Found", "franchise does not exist")
			return
		}
		h.logger.Error("get franchise", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, franchiseView{ID: franchise.ID, Name: franchise.Name, City: franchise.City, IsActive: franchise.IsActive})
}
