package store

import (
	"context"
	"errors"
	"time"

	"bakery-be/internal/logger"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

// Guarded routes store calls through a circuit breaker so a dead backend is
// not hit on every cart mutation.
type Guarded struct {
	next Store
	cb   *gobreaker.CircuitBreaker[[]byte]
}

type BreakerSettings struct {
	Name             string
	FailureThreshold uint32
	OpenTimeout      time.Duration
}

func NewGuarded(next Store, s BreakerSettings) *Guarded {
	if s.Name == "" {
		s.Name = "store"
	}
	if s.FailureThreshold == 0 {
		s.FailureThreshold = 5
	}
	if s.OpenTimeout == 0 {
		s.OpenTimeout = 30 * time.Second
	}

	threshold := s.FailureThreshold
	cb := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        s.Name,
		MaxRequests: 1,
		Timeout:     s.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		// A miss is an answer, not a backend failure.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrNotFound)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.L().Warn("store breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return &Guarded{next: next, cb: cb}
}

func (g *Guarded) Get(ctx context.Context, key string) ([]byte, error) {
	return g.cb.Execute(func() ([]byte, error) {
		return g.next.Get(ctx, key)
	})
}

func (g *Guarded) Set(ctx context.Context, key string, value []byte) error {
	_, err := g.cb.Execute(func() ([]byte, error) {
		return nil, g.next.Set(ctx, key, value)
	})
	return err
}

func (g *Guarded) Delete(ctx context.Context, key string) error {
	_, err := g.cb.Execute(func() ([]byte, error) {
		return nil, g.next.Delete(ctx, key)
	})
	return err
}

func (g *Guarded) State() gobreaker.State {
	return g.cb.State()
}
