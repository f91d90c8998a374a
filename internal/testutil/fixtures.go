package testutil

import (
	"time"

	"github.com/cassiomorais/billing/internal/domain/customer"
	"github.com/cassiomorais/billing/internal/domain/invoice"
	"github.com/cassiomorais/billing/internal/infrastructure/observability"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
)

// NewTestInvoice creates a pending invoice for tests.
func NewTestInvoice(customerID uuid.UUID, cents int64, currency string) *invoice.Invoice {
	now := time.Now()
	return &invoice.Invoice{
		ID:         uuid.New(),
		CustomerID: customerID,
		Amount:     invoice.Amount{ValueCents: cents, Currency: currency},
		Status:     invoice.StatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// NewTestCustomer creates a customer for tests.
func NewTestCustomer(name, currency string) *customer.Customer {
	return &customer.Customer{
		ID:        uuid.New(),
		Name:      name,
		Currency:  currency,
		CreatedAt: time.Now(),
	}
}

// NewTestMetrics creates a metrics set registered against a fresh registry,
// so parallel tests never collide on the default registerer.
func NewTestMetrics() *observability.Metrics {
	return observability.NewMetrics("billing_test", prometheus.NewRegistry())
}
