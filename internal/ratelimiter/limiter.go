package ratelimiter

import (
	"context"

	"golang.org/x/time/rate"
)

// Limiter is a token bucket gating outbound push deliveries.
// Burst is set equal to the rate so no extra burst capacity is allowed
// beyond the configured per-second maximum; the push services behind the
// subscription endpoints are a shared external resource.
type Limiter struct {
	limiter *rate.Limiter
}

// New creates a Limiter allowing ratePerSec deliveries per second.
func New(ratePerSec int) *Limiter {
	return &Limiter{
		limiter: rate.NewLimiter(rate.Limit(ratePerSec), ratePerSec),
	}
}

// Wait blocks until the limiter grants a token.
// Called immediately before each push delivery.
// Returns a non-nil error only if ctx is cancelled while waiting.
func (l *Limiter) Wait(ctx context.Context) error {
	return l.limiter.Wait(ctx)
}
