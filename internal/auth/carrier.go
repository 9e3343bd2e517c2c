package auth

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
)

// Default cookie names for the two credential carriers. The platform issues
// rentiva-session; rental_session is the plain-JSON cookie written by the
// previous generation of the app and kept readable for existing logins.
const (
	ProviderCookieName = "rentiva-session"
	LegacyCookieName   = "rental_session"
)

// Credential is the raw artifact extracted from a request before any store
// validation. Exactly one of Token or UserID is set: token-bearing carriers
// still need the session store, the legacy cookie names the user directly.
type Credential struct {
	Source string
	Token  string
	UserID string
	Email  string
}

// Carrier extracts one kind of credential from a request. Extract returns
// false when the credential is absent or structurally unusable; it never
// validates anything.
type Carrier interface {
	Extract(r *http.Request) (Credential, bool)
}

// BearerCarrier reads an opaque session token from the Authorization
// header, used for service-to-service calls.
type BearerCarrier struct{}

func (BearerCarrier) Extract(r *http.Request) (Credential, bool) {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	token = strings.TrimSpace(token)
	if !ok || token == "" {
		return Credential{}, false
	}
	return Credential{Source: "bearer", Token: token}, true
}

// ProviderCookieCarrier reads the platform-issued opaque session cookie.
type ProviderCookieCarrier struct {
	Name string
}

func (c ProviderCookieCarrier) Extract(r *http.Request) (Credential, bool) {
	cookie, err := r.Cookie(c.cookieName())
	if err != nil || cookie.Value == "" {
		return Credential{}, false
	}
	return Credential{Source: "provider_cookie", Token: cookie.Value}, true
}

func (c ProviderCookieCarrier) cookieName() string {
	if c.Name != "" {
		return c.Name
	}
	return ProviderCookieName
}

// LegacyCookieCarrier reads the legacy JSON session cookie. A malformed
// value is reported as absent, not as an error, so a concurrently valid
// provider session is still honoured.
type LegacyCookieCarrier struct {
	Name string
}

func (c LegacyCookieCarrier) Extract(r *http.Request) (Credential, bool) {
	cookie, err := r.Cookie(c.cookieName())
	if err != nil {
		return Credential{}, false
	}
	id, email, ok := decodeLegacyCookie(cookie.Value)
	if !ok {
		return Credential{}, false
	}
	return Credential{Source: "legacy_cookie", UserID: id, Email: email}, true
}

func (c LegacyCookieCarrier) cookieName() string {
	if c.Name != "" {
		return c.Name
	}
	return LegacyCookieName
}

type legacySession struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// decodeLegacyCookie parses the legacy JSON payload. Browser code wrote the
// cookie through encodeURIComponent, so a percent-decoded parse is retried
// when the raw value is not valid JSON.
func decodeLegacyCookie(value string) (id, email string, ok bool) {
	var sess legacySession
	if err := json.Unmarshal([]byte(value), &sess); err != nil {
		decoded, derr := url.QueryUnescape(value)
		if derr != nil {
			return "", "", false
		}
		if err := json.Unmarshal([]byte(decoded), &sess); err != nil {
			return "", "", false
		}
	}
	if sess.ID == "" || sess.Email == "" {
		return "", "", false
	}
	return sess.ID, sess.Email, true
}

// LegacyCookieUsable reports whether a legacy cookie value passes the cheap
// structural check. The edge middleware uses it to decide whether to clear
// the cookie; no store access is involved.
func LegacyCookieUsable(value string) bool {
	_, _, ok := decodeLegacyCookie(value)
	return ok
}

// HasCredential reports whether any carrier finds a credential on the
// request. This is a presence check only; validity is the gate's job.
func HasCredential(r *http.Request, carriers []Carrier) bool {
	for _, carrier := range carriers {
		if _, ok := carrier.Extract(r); ok {
			return true
		}
	}
	return false
}

// DefaultCarriers returns the carrier chain in precedence order: a
// store-validated provider credential always wins over the legacy cookie.
func DefaultCarriers(providerCookie, legacyCookie string) []Carrier {
	return []Carrier{
		BearerCarrier{},
		ProviderCookieCarrier{Name: providerCookie},
		LegacyCookieCarrier{Name: legacyCookie},
	}
}
