package app

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/unrolled/secure"

	"github.com/rentiva/rentiva/internal/auth"
	"github.com/rentiva/rentiva/internal/observability"
)

// MiddlewareConfig aggregates dependencies shared by the middleware stack.
type MiddlewareConfig struct {
	Logger  *slog.Logger
	Config  *Config
	Metrics *observability.Metrics
}

// MiddlewareStack installs the base middleware chain.
func MiddlewareStack(cfg MiddlewareConfig) []func(http.Handler) http.Handler {
	secureMiddleware := secure.New(secure.Options{
		FrameDeny:             true,
		ContentTypeNosniff:    true,
		BrowserXssFilter:      true,
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		FeaturePolicy:         "none",
		ContentSecurityPolicy: "default-src 'self'",
		SSLRedirect:           cfg.Config != nil && cfg.Config.IsProduction(),
		SSLProxyHeaders:       map[string]string{"X-Forwarded-Proto": "https"},
	})

	timeout := 30 * time.Second
	if cfg.Config != nil && cfg.Config.AppRequestTimeout > 0 {
		timeout = cfg.Config.AppRequestTimeout
	}

	middlewares := []func(http.Handler) http.Handler{
		middleware.RealIP,
		middleware.RequestID,
		middleware.Recoverer,
		middleware.Timeout(timeout),
		func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if err := secureMiddleware.Process(w, r); err != nil {
					cfg.Logger.Warn("secure headers blocked request", slog.Any("error", err))
					http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
					return
				}
				next.ServeHTTP(w, r)
			})
		},
		middleware.Compress(5),
		httprate.Limit(120, time.Minute, httprate.WithKeyFuncs(httprate.KeyByIP)),
	}
	if cfg.Metrics != nil {
		middlewares = append(middlewares, func(next http.Handler) http.Handler {
			return cfg.Metrics.Middleware(next)
		})
	}
	return middlewares
}

// EdgeGuard is the coarse unauthenticated pre-filter for browser
// navigations. It checks only for the presence of a credential carrier and
// never calls the credential store; the request gate stays the source of
// truth for every real authorization decision.
type EdgeGuard struct {
	Carriers         []auth.Carrier
	LegacyCookieName string
	LoginPath        string
	PublicPaths      []string
	PublicPrefixes   []string
	Secure           bool
	Logger           *slog.Logger
}

// NewEdgeGuard builds an EdgeGuard from config.
func NewEdgeGuard(cfg *Config, logger *slog.Logger) *EdgeGuard {
	return &EdgeGuard{
		Carriers:         auth.DefaultCarriers(cfg.ProviderCookieName, cfg.LegacyCookieName),
		LegacyCookieName: cfg.LegacyCookieName,
		LoginPath:        cfg.LoginPath,
		PublicPaths:      []string{cfg.LoginPath, "/healthz", "/metrics", "/favicon.ico"},
		PublicPrefixes:   []string{"/api/", "/static/"},
		Secure:           cfg.IsProduction(),
		Logger:           logger,
	}
}

// Middleware redirects anonymous navigations to the login path, preserving
// the original path for post-login return. API paths are exempt: their 401s
// come from the gate as JSON, not as redirects.
func (g *EdgeGuard) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if g.isPublic(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		// The only place the legacy cookie is ever mutated: a value that
		// fails the cheap structural check is cleared proactively.
		if cookie, err := r.Cookie(g.LegacyCookieName); err == nil && !auth.LegacyCookieUsable(cookie.Value) {
			if g.Logger != nil {
				g.Logger.Info("clearing malformed legacy session cookie", slog.String("path", r.URL.Path))
			}
			http.SetCookie(w, &http.Cookie{
				Name:     g.LegacyCookieName,
				Value:    "",
				Path:     "/",
				MaxAge:   -1,
				HttpOnly: true,
				Secure:   g.Secure,
				SameSite: http.SameSiteLaxMode,
			})
			if !auth.HasCredential(r, g.Carriers) {
				g.redirectToLogin(w, r)
				return
			}
		}

		if !auth.HasCredential(r, g.Carriers) {
			g.redirectToLogin(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (g *EdgeGuard) isPublic(path string) bool {
	for _, public := range g.PublicPaths {
		if path == public {
			return true
		}
	}
	for _, prefix := range g.PublicPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

func (g *EdgeGuard) redirectToLogin(w http.ResponseWriter, r *http.Request) {
	target := g.LoginPath + "?next=" + url.QueryEscape(r.URL.Path)
	http.Redirect(w, r, target, http.StatusSeeOther)
}
