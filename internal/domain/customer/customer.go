package customer

import (
	"time"

	"github.com/cassiomorais/billing/internal/domain/errors"
	"github.com/google/uuid"
)

// Customer represents a billable customer with a home currency.
type Customer struct {
	ID        uuid.UUID
	Name      string
	Currency  string
	CreatedAt time.Time
}

// New creates a new customer billed in the given currency.
func New(name, currency string) (*Customer, error) {
	if name == "" {
		return nil, errors.NewValidationError("name", "cannot be empty")
	}
	if len(currency) != 3 {
		return nil, errors.NewValidationError("currency", "must be a 3-letter ISO code")
	}
	return &Customer{
		ID:        uuid.New(),
		Name:      name,
		Currency:  currency,
		CreatedAt: time.Now(),
	}, nil
}
