package gateway

import (
	"context"

	"github.com/cassiomorais/billing/internal/domain/invoice"
)

// Result is the gateway's answer for an attempt that completed without error.
// A decline is a valid business response ("do not pay"), not a failure.
type Result string

const (
	ResultCharged  Result = "charged"
	ResultDeclined Result = "declined"
)

// Gateway is the external payment provider contract.
//
// Charge asks the gateway to charge the invoice amount from the owning
// customer. When the returned error is non-nil it is one of the classified
// failure kinds from the domain errors package (customer not found, currency
// mismatch, network unavailable) or an unclassified error.
type Gateway interface {
	// Name returns the gateway name.
	Name() string
	// Charge attempts to charge the invoice.
	Charge(ctx context.Context, inv invoice.Invoice) (Result, error)
}
