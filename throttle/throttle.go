// Package throttle provides the gate the compiler passes through between
// stop finder requests.
package throttle

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/atoll101/tfnsw-realtime/config"
)

// Limiter blocks until the next request may be issued.
type Limiter interface {
	Wait(ctx context.Context) error
}

// FixedDelay sleeps for a constant interval on every call.
type FixedDelay struct {
	Delay time.Duration
}

// Wait sleeps for Delay or until ctx is done
func (f FixedDelay) Wait(ctx context.Context) error {
	if f.Delay <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(f.Delay)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TokenBucket admits requests at a steady rate with an optional burst.
type TokenBucket struct {
	l *rate.Limiter
}

// NewTokenBucket creates a bucket refilling perSecond tokens, holding at most burst
func NewTokenBucket(perSecond float64, burst int) *TokenBucket {
	if burst < 1 {
		burst = 1
	}
	return &TokenBucket{l: rate.NewLimiter(rate.Limit(perSecond), burst)}
}

// Wait blocks until a token is available
func (b *TokenBucket) Wait(ctx context.Context) error {
	return b.l.Wait(ctx)
}

// None never blocks. Intended for tests and local fakes.
type None struct{}

// Wait returns ctx.Err()
func (None) Wait(ctx context.Context) error { return ctx.Err() }

// FromConfig builds the limiter selected by cfg
func FromConfig(cfg config.ThrottleConfig) (Limiter, error) {
	switch cfg.Strategy {
	case "", "fixed":
		return FixedDelay{Delay: time.Duration(cfg.DelayMS) * time.Millisecond}, nil
	case "tokenBucket":
		if cfg.RatePerS <= 0 {
			return nil, fmt.Errorf("throttle: tokenBucket needs ratePerSecond > 0")
		}
		return NewTokenBucket(cfg.RatePerS, cfg.Burst), nil
	case "none":
		return None{}, nil
	default:
		return nil, fmt.Errorf("throttle: unknown strategy %q", cfg.Strategy)
	}
}
