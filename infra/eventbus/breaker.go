package eventbus

import (
	"context"
	"time"

	"github.com/sony/gobreaker"
)

// BreakerSettings tunes NewBreaker.
type BreakerSettings struct {
	MaxFailures uint32
	OpenTimeout time.Duration
}

// Breaker stops calling a failing publisher until it has had time to recover.
type Breaker struct {
	next Publisher
	cb   *gobreaker.CircuitBreaker
}

var _ Publisher = (*Breaker)(nil)

// NewBreaker trips after MaxFailures consecutive failures and probes again
// after OpenTimeout.
func NewBreaker(name string, next Publisher, s BreakerSettings) *Breaker {
	if s.MaxFailures == 0 {
		s.MaxFailures = 5
	}
	if s.OpenTimeout <= 0 {
		s.OpenTimeout = 30 * time.Second
	}
	return &Breaker{
		next: next,
		cb: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        name,
			MaxRequests: 1,
			Timeout:     s.OpenTimeout,
			ReadyToTrip: func(c gobreaker.Counts) bool {
				return c.ConsecutiveFailures >= s.MaxFailures
			},
		}),
	}
}

// Publish returns gobreaker.ErrOpenState while the circuit is open.
func (b *Breaker) Publish(ctx context.Context, msg Message) error {
	_, err := b.cb.Execute(func() (interface{}, error) {
		return nil, b.next.Publish(ctx, msg)
	})
	return err
}

func (b *Breaker) State() gobreaker.State { return b.cb.State() }

func (b *Breaker) Close() error { return b.next.Close() }
