package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// BillingStream carries terminal invoice dispositions for downstream
// consumers (notifications, reporting).
const BillingStream = "billing:invoices"

type StreamPublisher struct {
	client *redis.Client
}

func NewStreamPublisher(client *redis.Client) *StreamPublisher {
	return &StreamPublisher{client: client}
}

// PublishInvoiceEvent appends an invoice lifecycle event to the billing stream.
func (p *StreamPublisher) PublishInvoiceEvent(ctx context.Context, invoiceID uuid.UUID, eventType string, data map[string]any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal event data: %w", err)
	}

	args := &redis.XAddArgs{
		Stream: BillingStream,
		Values: map[string]any{
			"invoice_id": invoiceID.String(),
			"event_type": eventType,
			"payload":    string(payload),
			"timestamp":  time.Now().Unix(),
		},
	}

	if _, err := p.client.XAdd(ctx, args).Result(); err != nil {
		return fmt.Errorf("failed to publish invoice event: %w", err)
	}

	return nil
}
