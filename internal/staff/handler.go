package staff

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/rentiva/rentiva/internal/auth"
	"github.com/rentiva/rentiva/internal/platform/httpx"
	"github.com/rentiva/rentiva/internal/rbac"
)

// EventRecorder persists staff mutations to the audit trail.
type EventRecorder interface {
	Record(ctx context.Context, actorID, action, entity, entityID string, meta map[string]any) error
}

// Handler manages staff endpoints. Every route demands the staff module
// permission at franchise_admin rank or above.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	gate      *auth.Gate
	audit     EventRecorder
	validator *validator.Validate
}

// NewHandler builds a Handler instance. audit may be nil.
func NewHandler(logger *slog.Logger, service *Service, gate *auth.Gate, audit EventRecorder) *Handler {
	return &Handler{logger: logger, service: service, gate: gate, audit: audit, validator: validator.New()}
}

// MountRoutes registers staff routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.gate.Require(auth.Requirement{MinRole: rbac.RoleFranchiseAdmin, Permission: rbac.ModuleStaff}))
		r.Get("/", h.list)
		r.Post("/", h.create)
		r.Delete("/{memberID}", h.delete)
	})
}

type memberView struct {
	ID          string  `json:"id"`
	Email       string  `json:"email"`
	Name        string  `json:"name"`
	Role        string  `json:"role"`
	FranchiseID *string `json:"franchise_id"`
	IsActive    bool    `json:"is_active"`
}

func toView(m Member) memberView {
	return memberView{ID: m.ID, Email: m.Email, Name: m.Name, Role: m.Role, FranchiseID: m.FranchiseID, IsActive: m.IsActive}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	authCtx := auth.FromContext(r.Context())
	members, err := h.service.List(r.Context(), authCtx.FranchiseID)
	if err != nil {
		h.logger.Error("list staff", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	views := make([]memberView, len(members))
	for i, m := range members {
		views[i] = toView(m)
	}
	httpx.JSON(w, http.StatusOK, views)
}

type createRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"required"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	authCtx := auth.FromContext(r.Context())

	var req createRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "request body must be valid JSON")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	// New members always land in the caller's own franchise. A super admin
	// without a franchise cannot create tenant staff through this endpoint.
	if authCtx.FranchiseID == nil && !authCtx.IsSuperAdmin {
		httpx.Problem(w, http.StatusForbidden, "Forbidden", "no franchise scope")
		return
	}
	franchiseID := authCtx.FranchiseID
	if franchiseID == nil {
		franchiseID = authCtx.Principal.FranchiseID
	}

	member, err := h.service.Create(r.Context(), authCtx, req.Email, req.Name, req.Password, req.Role, franchiseID)
	if err != nil {
		h.logger.Error("create staff", slog.Any("error", err))
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", err.Error())
		return
	}
	h.record(r.Context(), authCtx.Principal.ID, "staff.create", member.ID, map[string]any{"email": member.Email, "role": member.Role})
	httpx.JSON(w, http.StatusCreated, toView(*member))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	authCtx := auth.FromContext(r.Context())
	id := chi.URLParam(r, "memberID")

	target, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.Problem(w, http.StatusNotFound, "Not Found", "member does not exist")
			return
		}
		h.logger.Error("load staff member", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	// Re-check tenant ownership of the specific record.
	if failure := auth.Authorize(&authCtx.Principal, auth.Requirement{
		MinRole:    rbac.RoleFranchiseAdmin,
		Permission: rbac.ModuleStaff,
		Target:     &auth.Target{FranchiseID: target.FranchiseID},
	}, h.gate.Policy()); failure != nil {
		auth.RespondFailure(w, failure)
		return
	}

	if err := h.service.Delete(r.Context(), authCtx, id); err != nil {
		switch {
		case errors.Is(err, ErrSelfDelete):
			httpx.Problem(w, http.StatusConflict, "Conflict", "cannot delete your own account")
		case errors.Is(err, ErrLastAdmin):
			httpx.Problem(w, http.StatusConflict, "Conflict", "cannot delete the last franchise admin")
		case errors.Is(err, ErrNotFound):
			httpx.Problem(w, http.StatusNotFound, "Not Found", "member does not exist")
		default:
			h.logger.Error("delete staff", slog.Any("error", err))
			httpx.RespondError(w, err)
		}
		return
	}
	h.record(r.Context(), authCtx.Principal.ID, "staff.delete", id, nil)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) record(ctx context.Context, actorID, action, entityID string, meta map[string]any) {
	if h.audit == nil {
		return
	}
	if err := h.audit.Record(ctx, actorID, action, "staff", entityID, meta); err != nil {
		h.logger.Warn("audit staff event", slog.Any("error", err))
	}
}
