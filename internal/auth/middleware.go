package auth

import (
	"net/http"

	"github.com/rentiva/rentiva/internal/platform/httpx"
)

// Require returns middleware that authenticates the request against the
// requirement and stores the resulting auth context. Handlers needing a
// per-record tenant check call Gate.Authenticate or Authorize directly with
// a Target instead.
func (g *Gate) Require(req Requirement) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authCtx, failure := g.Authenticate(r, req)
			if failure != nil {
				RespondFailure(w, failure)
				return
			}
			next.ServeHTTP(w, r.WithContext(ContextWith(r.Context(), authCtx)))
		})
	}
}

type failureResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// RespondFailure writes the stable JSON error shape for API callers.
func RespondFailure(w http.ResponseWriter, failure *Failure) {
	httpx.JSON(w, failure.HTTPStatus, failureResponse{
		Error:   string(failure.Kind),
		Message: failure.Message,
	})
}
