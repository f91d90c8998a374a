package invoice

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for invoice persistence.
type Repository interface {
	// Create creates a new invoice
	Create(ctx context.Context, inv *Invoice) error

	// GetByID retrieves an invoice by ID
	GetByID(ctx context.Context, id uuid.UUID) (*Invoice, error)

	// FetchPending retrieves all and only invoices with status pending.
	// The status filter is the store's responsibility, not the caller's.
	FetchPending(ctx context.Context) ([]*Invoice, error)

	// UpdateStatus sets the status of the invoice with the given ID
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error
}
