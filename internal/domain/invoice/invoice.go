package invoice

import (
	"fmt"
	"time"

	"github.com/cassiomorais/billing/internal/domain/errors"
	"github.com/google/uuid"
)

// Status represents the invoice status in the state machine
type Status string

const (
	StatusPending Status = "pending"
	StatusPaid    Status = "paid"
	StatusFailed  Status = "failed"
)

// Amount represents a monetary amount in the smallest currency unit (e.g. cents).
type Amount struct {
	ValueCents int64
	Currency   string
}

// String returns a human-readable representation of the amount.
func (a Amount) String() string {
	whole := a.ValueCents / 100
	frac := a.ValueCents % 100
	if frac < 0 {
		frac = -frac
	}
	return fmt.Sprintf("%d.%02d %s", whole, frac, a.Currency)
}

// Validate checks that the amount is valid.
func (a Amount) Validate() error {
	if a.ValueCents < 0 {
		return errors.NewValidationError("amount", "must not be negative")
	}
	if a.Currency == "" {
		return errors.NewValidationError("currency", "cannot be empty")
	}
	// Simple currency validation (3-letter code)
	if len(a.Currency) != 3 {
		return errors.NewValidationError("currency", "must be a 3-letter ISO code")
	}
	return nil
}

// Invoice represents a billable charge owed by a customer.
type Invoice struct {
	ID         uuid.UUID
	CustomerID uuid.UUID
	Amount     Amount
	Status     Status
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// New creates a new pending invoice for the given customer.
func New(customerID uuid.UUID, amount Amount) (*Invoice, error) {
	if err := amount.Validate(); err != nil {
		return nil, err
	}
	if customerID == uuid.Nil {
		return nil, errors.ErrInvalidInput
	}

	now := time.Now()
	return &Invoice{
		ID:         uuid.New(),
		CustomerID: customerID,
		Amount:     amount,
		Status:     StatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// CanTransitionTo checks if the invoice can transition to the given status.
// Transitions are one-directional: pending to a terminal state, never back.
func (i *Invoice) CanTransitionTo(newStatus Status) bool {
	transitions := map[Status][]Status{
		StatusPending: {StatusPaid, StatusFailed},
		StatusPaid:    {}, // Terminal state
		StatusFailed:  {}, // Terminal state
	}

	allowed, exists := transitions[i.Status]
	if !exists {
		return false
	}
	for _, s := range allowed {
		if s == newStatus {
			return true
		}
	}
	return false
}

// TransitionTo transitions the invoice to a new status.
func (i *Invoice) TransitionTo(newStatus Status) error {
	if !i.CanTransitionTo(newStatus) {
		return errors.NewDomainError(
			"invalid_transition",
			"cannot transition from "+string(i.Status)+" to "+string(newStatus),
			errors.ErrInvalidStateTransition,
		)
	}
	i.Status = newStatus
	i.UpdatedAt = time.Now()
	return nil
}

// IsTerminal checks if the invoice is in a terminal state.
func (i *Invoice) IsTerminal() bool {
	return i.Status == StatusPaid || i.Status == StatusFailed
}
