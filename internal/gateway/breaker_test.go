package gateway

import (
	"context"
	"testing"
	"time"

	domainErrors "github.com/cassiomorais/billing/internal/domain/errors"
	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBreakerSettings() BreakerSettings {
	return BreakerSettings{
		MinRequests:  3,
		FailureRatio: 0.6,
		Interval:     time.Minute,
		Timeout:      time.Minute,
	}
}

func TestBreakerGateway_PassesThroughSuccess(t *testing.T) {
	g := NewBreakerGateway(NewMockGateway("test", WithLatency(0)), testBreakerSettings())

	result, err := g.Charge(context.Background(), testInvoice())
	require.NoError(t, err)
	assert.Equal(t, ResultCharged, result)
	assert.Equal(t, gobreaker.StateClosed, g.State())
}

func TestBreakerGateway_BusinessErrorsDoNotTrip(t *testing.T) {
	g := NewBreakerGateway(
		NewMockGateway("test", WithLatency(0), WithCustomerNotFoundRate(1.0)),
		testBreakerSettings(),
	)

	for i := 0; i < 20; i++ {
		_, err := g.Charge(context.Background(), testInvoice())
		assert.ErrorIs(t, err, domainErrors.ErrCustomerNotFound)
	}
	assert.Equal(t, gobreaker.StateClosed, g.State())
}

func TestBreakerGateway_NetworkFailuresTrip(t *testing.T) {
	g := NewBreakerGateway(
		NewMockGateway("test", WithLatency(0), WithNetworkFailureRate(1.0)),
		testBreakerSettings(),
	)

	for i := 0; i < 5; i++ {
		_, err := g.Charge(context.Background(), testInvoice())
		assert.ErrorIs(t, err, domainErrors.ErrNetworkUnavailable)
	}

	assert.Equal(t, gobreaker.StateOpen, g.State())

	// Calls while open never reach the provider and still classify as
	// transient network failures.
	_, err := g.Charge(context.Background(), testInvoice())
	assert.ErrorIs(t, err, domainErrors.ErrNetworkUnavailable)
}

func TestBreakerGateway_Name(t *testing.T) {
	g := NewBreakerGateway(NewMockGateway("acme-pay", WithLatency(0)), testBreakerSettings())
	assert.Equal(t, "acme-pay", g.Name())
}
