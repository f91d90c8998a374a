package invoice

import (
	"errors"
	"testing"

	domainErrors "github.com/cassiomorais/billing/internal/domain/errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	customerID := uuid.New()

	t.Run("valid invoice starts pending", func(t *testing.T) {
		inv, err := New(customerID, Amount{ValueCents: 1999, Currency: "EUR"})
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, inv.ID)
		assert.Equal(t, customerID, inv.CustomerID)
		assert.Equal(t, StatusPending, inv.Status)
		assert.False(t, inv.IsTerminal())
	})

	t.Run("rejects nil customer", func(t *testing.T) {
		_, err := New(uuid.Nil, Amount{ValueCents: 100, Currency: "EUR"})
		assert.ErrorIs(t, err, domainErrors.ErrInvalidInput)
	})

	t.Run("rejects invalid amount", func(t *testing.T) {
		_, err := New(customerID, Amount{ValueCents: -1, Currency: "EUR"})
		require.Error(t, err)
		var valErr *domainErrors.ValidationError
		assert.True(t, errors.As(err, &valErr))
	})
}

func TestAmountValidate(t *testing.T) {
	tests := []struct {
		name    string
		amount  Amount
		wantErr bool
	}{
		{name: "valid", amount: Amount{ValueCents: 100, Currency: "DKK"}},
		{name: "zero is allowed", amount: Amount{ValueCents: 0, Currency: "USD"}},
		{name: "negative cents", amount: Amount{ValueCents: -100, Currency: "USD"}, wantErr: true},
		{name: "empty currency", amount: Amount{ValueCents: 100}, wantErr: true},
		{name: "non-ISO currency", amount: Amount{ValueCents: 100, Currency: "EURO"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.amount.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAmountString(t *testing.T) {
	assert.Equal(t, "19.99 EUR", Amount{ValueCents: 1999, Currency: "EUR"}.String())
	assert.Equal(t, "0.05 USD", Amount{ValueCents: 5, Currency: "USD"}.String())
	assert.Equal(t, "-3.50 SEK", Amount{ValueCents: -350, Currency: "SEK"}.String())
}

func TestStatusTransitions(t *testing.T) {
	tests := []struct {
		from    Status
		to      Status
		allowed bool
	}{
		{StatusPending, StatusPaid, true},
		{StatusPending, StatusFailed, true},
		{StatusPaid, StatusPending, false},
		{StatusPaid, StatusFailed, false},
		{StatusFailed, StatusPending, false},
		{StatusFailed, StatusPaid, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"_to_"+string(tt.to), func(t *testing.T) {
			inv := &Invoice{Status: tt.from}
			assert.Equal(t, tt.allowed, inv.CanTransitionTo(tt.to))

			err := inv.TransitionTo(tt.to)
			if tt.allowed {
				require.NoError(t, err)
				assert.Equal(t, tt.to, inv.Status)
			} else {
				assert.ErrorIs(t, err, domainErrors.ErrInvalidStateTransition)
				assert.Equal(t, tt.from, inv.Status, "failed transition must not mutate")
			}
		})
	}
}

func TestIsTerminal(t *testing.T) {
	assert.False(t, (&Invoice{Status: StatusPending}).IsTerminal())
	assert.True(t, (&Invoice{Status: StatusPaid}).IsTerminal())
	assert.True(t, (&Invoice{Status: StatusFailed}).IsTerminal())
}
