package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"
	"go.trai.ch/knowgraph/internal/core/domain"
	"go.trai.ch/knowgraph/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Cache = (*Breaker)(nil)

// BreakerSettings tunes the circuit breaker placed in front of a remote cache.
type BreakerSettings struct {
	Name string
	// MaxRequests is the number of trial calls allowed while half-open.
	MaxRequests uint32
	// Interval clears the failure counts while closed.
	Interval time.Duration
	// Timeout is how long the breaker stays open before probing again.
	Timeout time.Duration
	// MinRequests is the number of calls observed before the ratio is considered.
	MinRequests uint32
	// FailureRatio opens the breaker once reached.
	FailureRatio float64
}

// DefaultBreakerSettings returns the settings used for the redis backend.
func DefaultBreakerSettings(name string) BreakerSettings {
	return BreakerSettings{
		Name:         name,
		MaxRequests:  1,
		Interval:     time.Minute,
		Timeout:      30 * time.Second,
		MinRequests:  3,
		FailureRatio: 0.6,
	}
}

// Breaker stops calling a failing cache for a while so that an unreachable
// server costs one fast error per operation instead of a network timeout.
type Breaker struct {
	inner ports.Cache
	cb    *gobreaker.CircuitBreaker
}

type getResult struct {
	value []byte
	found bool
}

// NewBreaker wraps inner. State changes are reported through logger.
func NewBreaker(inner ports.Cache, logger ports.Logger, s BreakerSettings) *Breaker {
	settings := gobreaker.Settings{
		Name:        s.Name,
		MaxRequests: s.MaxRequests,
		Interval:    s.Interval,
		Timeout:     s.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < s.MinRequests {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return ratio >= s.FailureRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			if logger != nil {
				logger.Warn(fmt.Sprintf("cache breaker %s: %s -> %s", name, from, to))
			}
		},
	}

	return &Breaker{
		inner: inner,
		cb:    gobreaker.NewCircuitBreaker(settings),
	}
}

// State reports the current breaker state.
func (b *Breaker) State() gobreaker.State {
	return b.cb.State()
}

// Get reads through the breaker.
func (b *Breaker) Get(ctx context.Context, key string) ([]byte, bool, error) {
	res, err := b.cb.Execute(func() (any, error) {
		value, found, err := b.inner.Get(ctx, key)
		if err != nil {
			return nil, err
		}
		return getResult{value: value, found: found}, nil
	})
	if err != nil {
		return nil, false, unavailable(err)
	}

	r, _ := res.(getResult)
	return r.value, r.found, nil
}

// Set writes through the breaker.
func (b *Breaker) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	_, err := b.cb.Execute(func() (any, error) {
		return nil, b.inner.Set(ctx, key, value, ttl)
	})
	return unavailable(err)
}

// Delete removes through the breaker.
func (b *Breaker) Delete(ctx context.Context, key string) error {
	_, err := b.cb.Execute(func() (any, error) {
		return nil, b.inner.Delete(ctx, key)
	})
	return unavailable(err)
}

func unavailable(err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return zerr.Wrap(err, domain.ErrCacheUnavailable.Error())
	}
	return err
}
