package billing

import (
	"context"
	"errors"
	"fmt"
	"testing"

	domainErrors "github.com/cassiomorais/billing/internal/domain/errors"
	"github.com/cassiomorais/billing/internal/gateway"
	"github.com/stretchr/testify/assert"
)

func TestClassifyAttempt(t *testing.T) {
	tests := []struct {
		name     string
		result   gateway.Result
		err      error
		expected Outcome
	}{
		{
			name:     "charged",
			result:   gateway.ResultCharged,
			expected: OutcomeCharged,
		},
		{
			name:     "declined",
			result:   gateway.ResultDeclined,
			expected: OutcomeDeclined,
		},
		{
			name:     "customer not found",
			err:      domainErrors.ErrCustomerNotFound,
			expected: OutcomeCustomerNotFound,
		},
		{
			name:     "wrapped customer not found",
			err:      fmt.Errorf("provider acme: %w", domainErrors.ErrCustomerNotFound),
			expected: OutcomeCustomerNotFound,
		},
		{
			name:     "currency mismatch",
			err:      fmt.Errorf("charge: %w", domainErrors.ErrCurrencyMismatch),
			expected: OutcomeCurrencyMismatch,
		},
		{
			name:     "network unavailable",
			err:      domainErrors.ErrNetworkUnavailable,
			expected: OutcomeNetworkFailure,
		},
		{
			name:     "context cancelled mid-call",
			err:      context.Canceled,
			expected: OutcomeNetworkFailure,
		},
		{
			name:     "deadline exceeded mid-call",
			err:      fmt.Errorf("charge: %w", context.DeadlineExceeded),
			expected: OutcomeNetworkFailure,
		},
		{
			name:     "unclassified error",
			err:      errors.New("malformed response"),
			expected: OutcomeUnknownFailure,
		},
		{
			name:     "no error, unrecognized result",
			result:   gateway.Result("maybe"),
			expected: OutcomeUnknownFailure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, classifyAttempt(tt.result, tt.err))
		})
	}
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "charged", OutcomeCharged.String())
	assert.Equal(t, "declined", OutcomeDeclined.String())
	assert.Equal(t, "customer_not_found", OutcomeCustomerNotFound.String())
	assert.Equal(t, "currency_mismatch", OutcomeCurrencyMismatch.String())
	assert.Equal(t, "network_failure", OutcomeNetworkFailure.String())
	assert.Equal(t, "unknown_failure", OutcomeUnknownFailure.String())
}
