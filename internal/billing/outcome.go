package billing

import (
	"context"
	"errors"

	domainErrors "github.com/cassiomorais/billing/internal/domain/errors"
	"github.com/cassiomorais/billing/internal/gateway"
)

// Outcome is the classified result of one charge attempt. It is transient:
// produced per attempt, switched on by the orchestrator, never persisted.
type Outcome int

const (
	OutcomeCharged Outcome = iota
	OutcomeDeclined
	OutcomeCustomerNotFound
	OutcomeCurrencyMismatch
	OutcomeNetworkFailure
	OutcomeUnknownFailure
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCharged:
		return "charged"
	case OutcomeDeclined:
		return "declined"
	case OutcomeCustomerNotFound:
		return "customer_not_found"
	case OutcomeCurrencyMismatch:
		return "currency_mismatch"
	case OutcomeNetworkFailure:
		return "network_failure"
	default:
		return "unknown_failure"
	}
}

// classifyAttempt maps a gateway response onto the closed outcome set.
// Context cancellation is treated as a network failure: transient, and the
// retry loop's backoff wait observes the cancellation anyway.
func classifyAttempt(result gateway.Result, err error) Outcome {
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrCustomerNotFound):
			return OutcomeCustomerNotFound
		case errors.Is(err, domainErrors.ErrCurrencyMismatch):
			return OutcomeCurrencyMismatch
		case errors.Is(err, domainErrors.ErrNetworkUnavailable),
			errors.Is(err, context.Canceled),
			errors.Is(err, context.DeadlineExceeded):
			return OutcomeNetworkFailure
		default:
			return OutcomeUnknownFailure
		}
	}

	switch result {
	case gateway.ResultCharged:
		return OutcomeCharged
	case gateway.ResultDeclined:
		return OutcomeDeclined
	default:
		return OutcomeUnknownFailure
	}
}
