package gateway

import (
	"context"
	"testing"
	"time"

	domainErrors "github.com/cassiomorais/billing/internal/domain/errors"
	"github.com/cassiomorais/billing/internal/domain/invoice"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testInvoice() invoice.Invoice {
	return invoice.Invoice{
		ID:         uuid.New(),
		CustomerID: uuid.New(),
		Amount:     invoice.Amount{ValueCents: 1000, Currency: "EUR"},
		Status:     invoice.StatusPending,
	}
}

func TestMockGateway_AlwaysCharges(t *testing.T) {
	g := NewMockGateway("test", WithLatency(0))

	for i := 0; i < 20; i++ {
		result, err := g.Charge(context.Background(), testInvoice())
		require.NoError(t, err)
		assert.Equal(t, ResultCharged, result)
	}
}

func TestMockGateway_ForcedFailureModes(t *testing.T) {
	tests := []struct {
		name    string
		opt     MockGatewayOption
		wantErr error
	}{
		{name: "network failure", opt: WithNetworkFailureRate(1.0), wantErr: domainErrors.ErrNetworkUnavailable},
		{name: "customer not found", opt: WithCustomerNotFoundRate(1.0), wantErr: domainErrors.ErrCustomerNotFound},
		{name: "currency mismatch", opt: WithCurrencyMismatchRate(1.0), wantErr: domainErrors.ErrCurrencyMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewMockGateway("test", WithLatency(0), tt.opt)
			_, err := g.Charge(context.Background(), testInvoice())
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestMockGateway_ForcedDecline(t *testing.T) {
	g := NewMockGateway("test", WithLatency(0), WithDeclineRate(1.0))

	result, err := g.Charge(context.Background(), testInvoice())
	require.NoError(t, err)
	assert.Equal(t, ResultDeclined, result)
}

func TestMockGateway_CancelledDuringLatency(t *testing.T) {
	g := NewMockGateway("test", WithLatency(5*time.Second))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := g.Charge(ctx, testInvoice())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
