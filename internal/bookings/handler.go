package bookings

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rentiva/rentiva/internal/auth"
	"github.com/rentiva/rentiva/internal/platform/httpx"
	"github.com/rentiva/rentiva/internal/rbac"
)

// Handler exposes booking endpoints. It is the reference consumer of the
// request gate: list queries are filtered by the resolved franchise scope
// and record-level operations pass the record's tenant back through the
// scope check.
type Handler struct {
	logger *slog.Logger
	repo   RepositoryPort
	gate   *auth.Gate
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, repo RepositoryPort, gate *auth.Gate) *Handler {
	return &Handler{logger: logger, repo: repo, gate: gate}
}

// MountRoutes registers booking routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.gate.Require(auth.Requirement{MinRole: rbac.RoleReadonly, Permission: rbac.ModuleBookings}))
		r.Get("/", h.list)
		r.Get("/{bookingID}", h.get)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.gate.Require(auth.Requirement{MinRole: rbac.RoleStaff, Permission: rbac.ModuleBookings}))
		r.Delete("/{bookingID}", h.delete)
	})
}

type bookingView struct {
	ID           string  `json:"id"`
	FranchiseID  *string `json:"franchise_id"`
	CustomerName string  `json:"customer_name"`
	ItemName     string  `json:"item_name"`
	StartDate    string  `json:"start_date"`
	EndDate      string  `json:"end_date"`
	Status       string  `json:"status"`
	TotalAmount  int64   `json:"total_amount"`
}

func toView(b Booking) bookingView {
	return bookingView{
		ID:           b.ID,
		FranchiseID:  b.FranchiseID,
		CustomerName: b.CustomerName,
		ItemName:     b.ItemName,
		StartDate:    b.StartDate.Format("2006-01-02"),
		EndDate:      b.EndDate.Format("2006-01-02"),
		Status:       b.Status,
		TotalAmount:  b.TotalAmount,
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	authCtx := auth.FromContext(r.Context())
	items, err := h.repo.List(r.Context(), authCtx.FranchiseID)
	if err != nil {
		h.logger.Error("list bookings", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	views := make([]bookingView, len(items))
	for i, b := range items {
		views[i] = toView(b)
	}
	httpx.JSON(w, http.StatusOK, views)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	booking, failure, err := h.loadScoped(r, auth.Requirement{MinRole: rbac.RoleReadonly, Permission: rbac.ModuleBookings})
	if err != nil {
		h.respondLoadError(w, err)
		return
	}
	if failure != nil {
		auth.RespondFailure(w, failure)
		return
	}
	httpx.JSON(w, http.StatusOK, toView(*booking))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	booking, failure, err := h.loadScoped(r, auth.Requirement{MinRole: rbac.RoleStaff, Permission: rbac.ModuleBookings})
	if err != nil {
		h.respondLoadError(w, err)
		return
	}
	if failure != nil {
		auth.RespondFailure(w, failure)
		return
	}
	if err := h.repo.Delete(r.Context(), booking.ID); err != nil {
		h.respondLoadError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// loadScoped fetches the record named in the URL and re-authorizes the
// caller against its tenant ownership.
func (h *Handler) loadScoped(r *http.Request, req auth.Requirement) (*Booking, *auth.Failure, error) {
	authCtx := auth.FromContext(r.Context())
	id := chi.URLParam(r, "bookingID")

	booking, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		return nil, nil, err
	}
	req.Target = &auth.Target{FranchiseID: booking.FranchiseID}
	if failure := auth.Authorize(&authCtx.Principal, req, h.gate.Policy()); failure != nil {
		return nil, failure, nil
	}
	return booking, nil, nil
}

func (h *Handler) respondLoadError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrNotFound) {
		httpx.Problem(w, http.StatusNotFound, "Not Found", "booking does not exist")
		return
	}
	h.logger.Error("bookings storage", slog.Any("error", err))
	httpx.RespondError(w, err)
}
