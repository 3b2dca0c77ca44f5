package ai

import (
	goerrors "errors"
	"net"
	"net/http"
	"time"

	"google.golang.org/api/googleapi"
)

// modelCheckTimeout bounds availability probes so a wedged backend cannot
// stall health checks.
const modelCheckTimeout = 10 * time.Second

// RetryableError reports whether err is worth retrying: network trouble,
// rate limiting, or a transient server-side failure. Auth failures and
// malformed requests are permanent and fail fast.
func RetryableError(err error) bool {
	if err == nil {
		return false
	}

	var netErr net.Error
	if goerrors.As(err, &netErr) {
		// Timeouts and connection failures are both transient.
		return true
	}

	var statusErr *httpStatusError
	if goerrors.As(err, &statusErr) {
		return retryableStatus(statusErr.StatusCode)
	}

	var apiErr *googleapi.Error
	if goerrors.As(err, &apiErr) {
		return retryableStatus(apiErr.Code)
	}

	return false
}

func retryableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}
