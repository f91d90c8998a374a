package gateway

import (
	"context"
	"errors"
	"fmt"
	"time"

	domainErrors "github.com/cassiomorais/billing/internal/domain/errors"
	"github.com/cassiomorais/billing/internal/domain/invoice"
	"github.com/sony/gobreaker/v2"
)

// BreakerGateway wraps a Gateway with a circuit breaker. Only transport-level
// failures count against the breaker; business answers (declined, customer not
// found, currency mismatch) pass through without tripping it. An open breaker
// is reported as a network failure so callers treat it as transient.
type BreakerGateway struct {
	inner   Gateway
	breaker *gobreaker.CircuitBreaker[Result]
}

// BreakerSettings tunes when the circuit opens and for how long.
type BreakerSettings struct {
	MinRequests  uint32
	FailureRatio float64
	Interval     time.Duration
	Timeout      time.Duration
}

// DefaultBreakerSettings returns the settings used in production wiring.
func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{
		MinRequests:  10,
		FailureRatio: 0.6,
		Interval:     60 * time.Second,
		Timeout:      30 * time.Second,
	}
}

func NewBreakerGateway(inner Gateway, settings BreakerSettings) *BreakerGateway {
	cb := gobreaker.NewCircuitBreaker[Result](gobreaker.Settings{
		Name:        inner.Name(),
		MaxRequests: 1,
		Interval:    settings.Interval,
		Timeout:     settings.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= settings.MinRequests && failureRatio >= settings.FailureRatio
		},
		IsSuccessful: func(err error) bool {
			// Business-level failures are valid gateway answers.
			if err == nil ||
				errors.Is(err, domainErrors.ErrCustomerNotFound) ||
				errors.Is(err, domainErrors.ErrCurrencyMismatch) {
				return true
			}
			return false
		},
	})

	return &BreakerGateway{inner: inner, breaker: cb}
}

func (g *BreakerGateway) Name() string { return g.inner.Name() }

// State returns the current breaker state, for metrics export.
func (g *BreakerGateway) State() gobreaker.State { return g.breaker.State() }

func (g *BreakerGateway) Charge(ctx context.Context, inv invoice.Invoice) (Result, error) {
	result, err := g.breaker.Execute(func() (Result, error) {
		return g.inner.Charge(ctx, inv)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return "", fmt.Errorf("circuit breaker %s open: %w", g.inner.Name(), domainErrors.ErrNetworkUnavailable)
	}
	return result, err
}
