package customer

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for customer lookup.
type Repository interface {
	// Create creates a new customer
	Create(ctx context.Context, c *Customer) error

	// GetByID retrieves a customer by ID.
	// Returns errors.ErrCustomerNotFound if the customer does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*Customer, error)
}
