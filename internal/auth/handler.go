package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/rentiva/rentiva/internal/platform/httpx"
)

// EventRecorder persists auth events for the audit trail.
type EventRecorder interface {
	Record(ctx context.Context, actorID, action, entity, entityID string, meta map[string]any) error
}

// CookieConfig controls how the handler writes session cookies.
type CookieConfig struct {
	ProviderName string
	LegacyName   string
	Secure       bool
}

// Handler exposes the login/logout JSON API.
type Handler struct {
	logger    *slog.Logger
	store     Store
	sessions  *SessionManager
	audit     EventRecorder
	validator *validator.Validate
	cookies   CookieConfig
}

// NewHandler constructs a Handler. audit may be nil.
func NewHandler(logger *slog.Logger, store Store, sessions *SessionManager, audit EventRecorder, cookies CookieConfig) *Handler {
	if cookies.ProviderName == "" {
		cookies.ProviderName = ProviderCookieName
	}
	if cookies.LegacyName == "" {
		cookies.LegacyName = LegacyCookieName
	}
	return &Handler{
		logger:    logger,
		store:     store,
		sessions:  sessions,
		audit:     audit,
		validator: validator.New(),
		cookies:   cookies,
	}
}

// MountRoutes registers auth routes. Login gets its own tight rate limit on
// top of the global one.
func (h *Handler) MountRoutes(r chi.Router) {
	r.With(httprate.LimitByIP(10, time.Minute)).Post("/login", h.handleLogin)
	r.Post("/logout", h.handleLogout)
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type loginResponse struct {
	ID          string  `json:"id"`
	Email       string  `json:"email"`
	Role        string  `json:"role"`
	FranchiseID *string `json:"franchise_id"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "request body must be valid JSON")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "email and password are required")
		return
	}

	user, err := h.store.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			h.recordLogin(r.Context(), "", "auth.login_failed", req.Email)
			httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "invalid email or password")
			return
		}
		h.logger.Error("login user lookup", slog.Any("error", err))
		httpx.Problem(w, http.StatusServiceUnavailable, "Store Unavailable", "try again shortly")
		return
	}
	if !user.IsActive || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		h.recordLogin(r.Context(), user.ID, "auth.login_failed", req.Email)
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "invalid email or password")
		return
	}

	token, err := h.sessions.Issue(r.Context(), user.ID)
	if err != nil {
		h.logger.Error("issue session", slog.Any("error", err))
		httpx.Problem(w, http.StatusServiceUnavailable, "Store Unavailable", "try again shortly")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.cookies.ProviderName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookies.Secure,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(h.sessions.TTL()),
	})
	// A fresh provider session supersedes any lingering legacy cookie.
	clearCookie(w, h.cookies.LegacyName, h.cookies.Secure)

	h.recordLogin(r.Context(), user.ID, "auth.login", user.Email)
	httpx.JSON(w, http.StatusOK, loginResponse{
		ID:          user.ID,
		Email:       user.Email,
		Role:        user.Role,
		FranchiseID: user.FranchiseID,
	})
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(h.cookies.ProviderName); err == nil && cookie.Value != "" {
		if err := h.sessions.Revoke(r.Context(), cookie.Value); err != nil {
			h.logger.Warn("revoke session", slog.Any("error", err))
		}
	}
	clearCookie(w, h.cookies.ProviderName, h.cookies.Secure)
	clearCookie(w, h.cookies.LegacyName, h.cookies.Secure)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) recordLogin(ctx context.Context, actorID, action, email string) {
	if h.audit == nil {
		return
	}
	if err := h.audit.Record(ctx, actorID, action, "user", email, nil); err != nil {
		h.logger.Warn("audit login event", slog.Any("error", err))
	}
}

func clearCookie(w http.ResponseWriter, name string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}
