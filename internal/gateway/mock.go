package gateway

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	domainErrors "github.com/cassiomorais/billing/internal/domain/errors"
	"github.com/cassiomorais/billing/internal/domain/invoice"
)

// MockGateway simulates an external payment provider. Rates are evaluated in
// declaration order; the remainder of the probability mass charges successfully.
type MockGateway struct {
	name                 string
	latency              time.Duration
	declineRate          float64 // 0.0 to 1.0
	notFoundRate         float64
	currencyMismatchRate float64
	networkFailureRate   float64
}

type MockGatewayOption func(*MockGateway)

func WithLatency(d time.Duration) MockGatewayOption {
	return func(g *MockGateway) { g.latency = d }
}

func WithDeclineRate(rate float64) MockGatewayOption {
	return func(g *MockGateway) { g.declineRate = rate }
}

func WithCustomerNotFoundRate(rate float64) MockGatewayOption {
	return func(g *MockGateway) { g.notFoundRate = rate }
}

func WithCurrencyMismatchRate(rate float64) MockGatewayOption {
	return func(g *MockGateway) { g.currencyMismatchRate = rate }
}

func WithNetworkFailureRate(rate float64) MockGatewayOption {
	return func(g *MockGateway) { g.networkFailureRate = rate }
}

func NewMockGateway(name string, opts ...MockGatewayOption) *MockGateway {
	g := &MockGateway{
		name:    name,
		latency: 100 * time.Millisecond,
	}
	for _, o := range opts {
		o(g)
	}
	return g
}

func (g *MockGateway) Name() string { return g.name }

func (g *MockGateway) Charge(ctx context.Context, inv invoice.Invoice) (Result, error) {
	// Simulate latency
	select {
	case <-time.After(g.latency):
	case <-ctx.Done():
		return "", ctx.Err()
	}

	roll := rand.Float64()

	if roll < g.networkFailureRate {
		return "", fmt.Errorf("%s: charge invoice %s: %w", g.name, inv.ID, domainErrors.ErrNetworkUnavailable)
	}
	roll -= g.networkFailureRate

	if roll < g.notFoundRate {
		return "", fmt.Errorf("%s: customer %s: %w", g.name, inv.CustomerID, domainErrors.ErrCustomerNotFound)
	}
	roll -= g.notFoundRate

	if roll < g.currencyMismatchRate {
		return "", fmt.Errorf("%s: invoice %s in %s: %w", g.name, inv.ID, inv.Amount.Currency, domainErrors.ErrCurrencyMismatch)
	}
	roll -= g.currencyMismatchRate

	if roll < g.declineRate {
		return ResultDeclined, nil
	}

	return ResultCharged, nil
}
