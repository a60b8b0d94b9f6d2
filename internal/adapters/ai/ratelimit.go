package ai

import (
	"context"

	"golang.org/x/time/rate"

	"hermes/pkg/errors"
)

// limiter throttles outbound model calls to stay under provider quotas.
type limiter struct {
	rl *rate.Limiter
}

func newLimiter(requestsPerMinute int) *limiter {
	if requestsPerMinute <= 0 {
		requestsPerMinute = 60
	}
	return &limiter{
		rl: rate.NewLimiter(rate.Limit(float64(requestsPerMinute)/60.0), requestsPerMinute),
	}
}

// wait blocks until a request slot is available or the context is done.
func (l *limiter) wait(ctx context.Context) error {
	if err := l.rl.Wait(ctx); err != nil {
		return errors.Wrap(errors.ErrRateLimitExceeded, err.Error())
	}
	return nil
}
