package httpx

import (
	"context"
	"errors"
	"net/http"
)

// RespondError is the fallback for storage and infrastructure errors that
// handlers did not map themselves. Context expiry means a backing store
// stalled past its deadline, which the API reports as temporarily
// unavailable rather than as a server fault. Error details never leak to
// the client.
func RespondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		Problem(w, http.StatusServiceUnavailable, "Store Unavailable", "try again shortly")
	default:
		Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
