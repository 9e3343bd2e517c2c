package auth_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/rentiva/rentiva/internal/auth"
)

func newAuthRouter(t *testing.T, store auth.Store) (*chi.Mux, *auth.SessionManager) {
	t.Helper()
	sessions, _ := newSessionManager(t)
	handler := auth.NewHandler(slog.Default(), store, sessions, nil, auth.CookieConfig{})
	router := chi.NewRouter()
	handler.MountRoutes(router)
	return router, sessions
}

func loginUser(t *testing.T, password string) *auth.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	user := activeStaff()
	user.PasswordHash = string(hash)
	return user
}

func postLogin(t *testing.T, router http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func cookieByName(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestLoginSuccess(t *testing.T) {
	store := &stubStore{users: map[string]*auth.User{"u1": loginUser(t, "sup3r-secret")}}
	router, sessions := newAuthRouter(t, store)

	rec := postLogin(t, router, `{"email":"a@b.com","password":"sup3r-secret"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", rec.Code, rec.Body.String())
	}

	provider := cookieByName(rec, auth.ProviderCookieName)
	if provider == nil || provider.Value == "" {
		t.Fatal("provider session cookie not set")
	}
	if !provider.HttpOnly {
		t.Error("provider cookie must be http-only")
	}
	legacy := cookieByName(rec, auth.LegacyCookieName)
	if legacy == nil || legacy.MaxAge != -1 {
		t.Error("legacy cookie not cleared on login")
	}

	if _, err := sessions.Validate(context.Background(), provider.Value); err != nil {
		t.Fatalf("issued token does not validate: %v", err)
	}

	var resp struct {
		ID    string `json:"id"`
		Email string `json:"email"`
		Role  string `json:"role"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.ID != "u1" || resp.Email != "a@b.com" || resp.Role != "staff" {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	store := &stubStore{users: map[string]*auth.User{"u1": loginUser(t, "sup3r-secret")}}
	router, _ := newAuthRouter(t, store)

	rec := postLogin(t, router, `{"email":"a@b.com","password":"wrong-password"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if cookieByName(rec, auth.ProviderCookieName) != nil {
		t.Error("no session cookie expected on failed login")
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	router, _ := newAuthRouter(t, &stubStore{})
	rec := postLogin(t, router, `{"email":"ghost@b.com","password":"sup3r-secret"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestLoginInactiveAccount(t *testing.T) {
	user := loginUser(t, "sup3r-secret")
	user.IsActive = false
	router, _ := newAuthRouter(t, &stubStore{users: map[string]*auth.User{"u1": user}})

	rec := postLogin(t, router, `{"email":"a@b.com","password":"sup3r-secret"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestLoginValidation(t *testing.T) {
	router, _ := newAuthRouter(t, &stubStore{})
	rec := postLogin(t, router, `{"email":"not-an-email","password":"x"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	store := &stubStore{users: map[string]*auth.User{"u1": activeStaff()}}
	router, sessions := newAuthRouter(t, store)

	token, err := sessions.Issue(context.Background(), "u1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.AddCookie(&http.Cookie{Name: auth.ProviderCookieName, Value: token})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
	for _, name := range []string{auth.ProviderCookieName, auth.LegacyCookieName} {
		if c := cookieByName(rec, name); c == nil || c.MaxAge != -1 {
			t.Errorf("cookie %q not cleared", name)
		}
	}
	if _, err := sessions.Validate(context.Background(), token); err == nil {
		t.Error("token still valid after logout")
	}
}
