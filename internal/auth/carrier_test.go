package auth_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/rentiva/rentiva/internal/auth"
	_ "github.com/rentiva/rentiva/testing"
)

func newRequest(t *testing.T) *http.Request {
	t.Helper()
	return httptest.NewRequest(http.MethodGet, "/api/bookings", nil)
}

// legacyCookie mirrors what the old frontend wrote: URL-encoded JSON, since
// raw JSON is not a valid cookie value.
func legacyCookie(id, email string) *http.Cookie {
	payload := url.QueryEscape(`{"id":"` + id + `","email":"` + email + `"}`)
	return &http.Cookie{Name: auth.LegacyCookieName, Value: payload}
}

func TestBearerCarrier(t *testing.T) {
	req := newRequest(t)
	req.Header.Set("Authorization", "Bearer tok-123")

	cred, ok := auth.BearerCarrier{}.Extract(req)
	if !ok {
		t.Fatal("expected bearer credential")
	}
	if cred.Token != "tok-123" || cred.Source != "bearer" {
		t.Fatalf("unexpected credential: %+v", cred)
	}

	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	if _, ok := (auth.BearerCarrier{}).Extract(req); ok {
		t.Fatal("basic auth must not extract")
	}
}

func TestProviderCookieCarrier(t *testing.T) {
	req := newRequest(t)
	req.AddCookie(&http.Cookie{Name: auth.ProviderCookieName, Value: "tok-456"})

	cred, ok := auth.ProviderCookieCarrier{}.Extract(req)
	if !ok || cred.Token != "tok-456" {
		t.Fatalf("unexpected credential: %+v ok=%v", cred, ok)
	}
}

func TestLegacyCookieCarrier(t *testing.T) {
	tests := []struct {
		name  string
		value string
		ok    bool
		id    string
	}{
		{"url encoded", url.QueryEscape(`{"id":"u2","email":"c@d.com"}`), true, "u2"},
		{"missing email", url.QueryEscape(`{"id":"u1"}`), false, ""},
		{"missing id", url.QueryEscape(`{"email":"a@b.com"}`), false, ""},
		{"not json", "garbage", false, ""},
		{"empty", "", false, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := newRequest(t)
			req.AddCookie(&http.Cookie{Name: auth.LegacyCookieName, Value: tc.value})
			cred, ok := auth.LegacyCookieCarrier{}.Extract(req)
			if ok != tc.ok {
				t.Fatalf("ok = %v, want %v", ok, tc.ok)
			}
			if ok && cred.UserID != tc.id {
				t.Fatalf("user id = %q, want %q", cred.UserID, tc.id)
			}
		})
	}
}

func TestLegacyCookieUsable(t *testing.T) {
	if !auth.LegacyCookieUsable(`{"id":"u1","email":"a@b.com"}`) {
		t.Fatal("valid cookie reported unusable")
	}
	if auth.LegacyCookieUsable(`{"id":"u1"}`) {
		t.Fatal("cookie without email reported usable")
	}
	if auth.LegacyCookieUsable("%%%") {
		t.Fatal("undecodable cookie reported usable")
	}
}

func TestHasCredential(t *testing.T) {
	carriers := auth.DefaultCarriers("", "")

	req := newRequest(t)
	if auth.HasCredential(req, carriers) {
		t.Fatal("bare request must have no credential")
	}

	req.AddCookie(&http.Cookie{Name: auth.LegacyCookieName, Value: "broken"})
	if auth.HasCredential(req, carriers) {
		t.Fatal("malformed legacy cookie must not count as a credential")
	}

	req2 := newRequest(t)
	req2.AddCookie(&http.Cookie{Name: auth.ProviderCookieName, Value: "tok"})
	if !auth.HasCredential(req2, carriers) {
		t.Fatal("provider cookie must count as a credential")
	}
}
