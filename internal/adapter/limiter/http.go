package limiter

import (
	"fmt"
	"net/http"

	"golang.org/x/time/rate"
)

// Transport wraps http.RoundTripper and allows round trips with maximum rate limit.
type Transport struct {
	base    http.RoundTripper
	limiter *rate.Limiter
}

var _ http.RoundTripper = &Transport{}

// NewTransport creates Transport instance.
// maxRate - maximum number of round trips per second. If base is nil, http.DefaultTransport is used.
func NewTransport(base http.RoundTripper, maxRate float64) *Transport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &Transport{
		base:    base,
		limiter: rate.NewLimiter(rate.Limit(maxRate), 1),
	}
}

// RoundTrip executes http request. If limit is exceeded, blocks until call rate is within limit.
func (t *Transport) RoundTrip(r *http.Request) (*http.Response, error) {
	if err := t.limiter.Wait(r.Context()); err != nil {
		return nil, fmt.Errorf("waiting for transport limiter: %w", err)
	}

	return t.base.RoundTrip(r)
}
