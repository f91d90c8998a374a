package billing

import (
	"context"

	"github.com/google/uuid"
)

// ChargeLocker guards against two concurrent charge attempts for the same
// invoice. Acquire returns acquired=false when the lock is held elsewhere;
// on success the release func must be called once the charge resolves.
type ChargeLocker interface {
	Acquire(ctx context.Context, invoiceID uuid.UUID) (release func(ctx context.Context) error, acquired bool, err error)
}

// EventPublisher emits invoice lifecycle events for downstream consumers.
// Publish failures never affect the charge flow; they are logged and counted.
type EventPublisher interface {
	PublishInvoiceEvent(ctx context.Context, invoiceID uuid.UUID, eventType string, data map[string]any) error
}
