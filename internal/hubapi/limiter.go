package hubapi

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// DefaultInterval keeps a single client under the content API's per-second
// request limit.
const DefaultInterval = 105 * time.Millisecond

// Limiter gates outgoing requests. Wait blocks until the next request may be
// issued or ctx is done.
type Limiter interface {
	Wait(ctx context.Context) error
}

// NewIntervalLimiter returns a limiter that admits one request per interval
// with no burst. A non-positive interval disables limiting.
func NewIntervalLimiter(interval time.Duration) Limiter {
	if interval <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	return rate.NewLimiter(rate.Every(interval), 1)
}

// Unlimited returns a limiter that never waits.
func Unlimited() Limiter {
	return NewIntervalLimiter(0)
}
