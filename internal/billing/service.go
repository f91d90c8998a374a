package billing

import (
	"context"
	"sync"
	"time"

	"github.com/cassiomorais/billing/internal/domain/customer"
	"github.com/cassiomorais/billing/internal/domain/invoice"
	"github.com/cassiomorais/billing/internal/exchange"
	"github.com/cassiomorais/billing/internal/gateway"
	"github.com/cassiomorais/billing/internal/infrastructure/observability"
	"github.com/panjf2000/ants/v2"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Config tunes the charge orchestration policy.
type Config struct {
	// MaxRetries caps network-failure retries per invoice. The first attempt
	// does not count: MaxRetries=3 allows up to 4 gateway calls.
	MaxRetries int
	// RetryBackoff is the fixed delay between network-failure retries.
	RetryBackoff time.Duration
	// ChargeConcurrency is how many invoices a batch pass charges in
	// parallel. 1 means strictly sequential.
	ChargeConcurrency int
}

// Deps are the collaborators the orchestrator drives. The service only ever
// reads invoices and customers and writes invoice statuses.
type Deps struct {
	Invoices  invoice.Repository
	Customers customer.Repository
	Gateway   gateway.Gateway
	Converter exchange.Converter
	Locker    ChargeLocker
	Events    EventPublisher
	Metrics   *observability.Metrics
	Logger    zerolog.Logger
}

// Service drives invoices through charge attempts and owns the
// retry/failure-classification policy.
type Service struct {
	invoices  invoice.Repository
	customers customer.Repository
	gateway   gateway.Gateway
	converter exchange.Converter
	locker    ChargeLocker
	events    EventPublisher
	metrics   *observability.Metrics
	logger    zerolog.Logger
	tracer    trace.Tracer
	cfg       Config
}

// NewService creates a new billing Service.
func NewService(deps Deps, cfg Config) *Service {
	if cfg.ChargeConcurrency < 1 {
		cfg.ChargeConcurrency = 1
	}
	return &Service{
		invoices:  deps.Invoices,
		customers: deps.Customers,
		gateway:   deps.Gateway,
		converter: deps.Converter,
		locker:    deps.Locker,
		events:    deps.Events,
		metrics:   deps.Metrics,
		logger:    deps.Logger,
		tracer:    otel.Tracer("billing"),
		cfg:       cfg,
	}
}

// ChargePending fetches all pending invoices and charges each one
// independently. A failure of any kind on one invoice never prevents the
// remaining invoices from being processed. Cancelling the context lets the
// in-flight charge attempt finish but aborts backoff waits and the invoices
// still queued.
func (s *Service) ChargePending(ctx context.Context) {
	ctx, span := s.tracer.Start(ctx, "billing.charge_pending")
	defer span.End()

	s.metrics.BatchRunsTotal.Inc()
	start := time.Now()
	defer func() {
		s.metrics.BatchDuration.Observe(time.Since(start).Seconds())
	}()

	pending, err := s.invoices.FetchPending(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to fetch pending invoices")
		return
	}

	s.metrics.PendingInvoices.Set(float64(len(pending)))
	s.logger.Info().Int("count", len(pending)).Msg("starting batch pass over pending invoices")

	if s.cfg.ChargeConcurrency > 1 {
		s.chargeConcurrently(ctx, pending)
	} else {
		for _, inv := range pending {
			if ctx.Err() != nil {
				s.logger.Info().Msg("batch pass aborted")
				return
			}
			s.chargeWithLock(ctx, *inv)
		}
	}

	s.logger.Info().Dur("elapsed", time.Since(start)).Msg("batch pass finished")
}

// chargeConcurrently fans the batch out over a bounded worker pool. Each
// invoice is owned start-to-finish by a single task, so per-invoice attempt
// ordering is preserved and a backoff only blocks that invoice.
func (s *Service) chargeConcurrently(ctx context.Context, pending []*invoice.Invoice) {
	pool, err := ants.NewPool(s.cfg.ChargeConcurrency)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to create worker pool, falling back to sequential pass")
		for _, inv := range pending {
			if ctx.Err() != nil {
				return
			}
			s.chargeWithLock(ctx, *inv)
		}
		return
	}
	defer pool.Release()

	var wg sync.WaitGroup
	for _, inv := range pending {
		if ctx.Err() != nil {
			break
		}
		inv := *inv
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			s.chargeWithLock(ctx, inv)
		}); err != nil {
			wg.Done()
			s.logger.Error().Err(err).Stringer("invoice_id", inv.ID).Msg("failed to submit invoice to worker pool")
		}
	}
	wg.Wait()
}

// chargeWithLock guards the charge with the per-invoice lock so the same
// invoice is never charged twice concurrently, even across instances.
func (s *Service) chargeWithLock(ctx context.Context, inv invoice.Invoice) {
	release, acquired, err := s.locker.Acquire(ctx, inv.ID)
	if err != nil {
		s.logger.Error().Err(err).Stringer("invoice_id", inv.ID).Msg("failed to acquire charge lock")
		return
	}
	if !acquired {
		s.metrics.LockedSkipsTotal.Inc()
		s.logger.Warn().Stringer("invoice_id", inv.ID).Msg("charge already in flight, skipping")
		return
	}
	defer func() {
		if err := release(context.WithoutCancel(ctx)); err != nil {
			s.logger.Error().Err(err).Stringer("invoice_id", inv.ID).Msg("failed to release charge lock")
		}
	}()

	s.ChargeInvoice(ctx, inv)
}

// ChargeInvoice drives one invoice through a charge attempt and returns the
// final classified outcome. It never returns an error: every failure is
// absorbed and logged here so one bad invoice cannot abort a batch.
//
// Policy per outcome:
//   - charged: status set to paid
//   - declined: a valid "do not pay" answer, status set to failed
//   - currency mismatch: converted to the customer's currency and reissued
//     immediately, without consuming the network-retry budget
//   - network failure: retried up to MaxRetries with a fixed backoff
//   - customer not found, unknown failure, exhausted retries: logged for
//     remediation, invoice status deliberately left unchanged so a later
//     pass can pick the invoice up again
func (s *Service) ChargeInvoice(ctx context.Context, inv invoice.Invoice) Outcome {
	ctx, span := s.tracer.Start(ctx, "billing.charge_invoice",
		trace.WithAttributes(attribute.String("invoice.id", inv.ID.String())))
	defer span.End()

	start := time.Now()
	log := s.logger.With().
		Stringer("invoice_id", inv.ID).
		Stringer("customer_id", inv.CustomerID).
		Logger()
	log.Info().Str("amount", inv.Amount.String()).Msg("processing invoice")

	retries := 0
	for {
		result, err := s.gateway.Charge(ctx, inv)
		outcome := classifyAttempt(result, err)
		s.metrics.ChargeAttemptsTotal.WithLabelValues(s.gateway.Name(), outcome.String()).Inc()
		span.SetAttributes(attribute.String("billing.outcome", outcome.String()))

		switch outcome {
		case OutcomeCharged:
			s.resolve(ctx, log, inv, invoice.StatusPaid)
			s.observe(start, outcome)
			return outcome

		case OutcomeDeclined:
			log.Info().Msg("charge declined by gateway")
			s.resolve(ctx, log, inv, invoice.StatusFailed)
			s.observe(start, outcome)
			return outcome

		case OutcomeCurrencyMismatch:
			converted, convErr := s.convertToCustomerCurrency(ctx, inv)
			if convErr != nil {
				log.Error().Err(convErr).Msg("could not resolve currency mismatch")
				s.observe(start, outcome)
				return outcome
			}
			log.Info().
				Str("from", inv.Amount.Currency).
				Str("to", converted.Currency).
				Msg("reissuing charge in customer currency")
			s.metrics.ChargeRetriesTotal.WithLabelValues("currency_mismatch").Inc()
			inv.Amount = converted
			continue

		case OutcomeNetworkFailure:
			if retries >= s.cfg.MaxRetries {
				log.Error().Int("retries", retries).Msg("network retries exhausted, giving up on invoice")
				s.observe(start, outcome)
				return outcome
			}
			retries++
			s.metrics.ChargeRetriesTotal.WithLabelValues("network").Inc()
			log.Warn().Err(err).
				Int("attempt", retries).
				Dur("backoff", s.cfg.RetryBackoff).
				Msg("gateway unreachable, retrying after backoff")
			if !s.waitBackoff(ctx) {
				log.Info().Msg("retry backoff aborted by shutdown")
				s.observe(start, outcome)
				return outcome
			}
			continue

		case OutcomeCustomerNotFound:
			log.Error().Err(err).Msg("customer missing on payment gateway, needs manual remediation")
			s.observe(start, outcome)
			return outcome

		default: // OutcomeUnknownFailure
			log.Error().Err(err).Msg("unclassified gateway failure charging invoice")
			s.observe(start, outcome)
			return outcome
		}
	}
}

// resolve persists the terminal status and publishes the matching event.
// The write is detached from cancellation: a charge that went through must
// be recorded even when shutdown started meanwhile.
func (s *Service) resolve(ctx context.Context, log zerolog.Logger, inv invoice.Invoice, status invoice.Status) {
	writeCtx := context.WithoutCancel(ctx)

	if err := s.invoices.UpdateStatus(writeCtx, inv.ID, status); err != nil {
		log.Error().Err(err).Str("status", string(status)).Msg("failed to persist invoice status")
	} else {
		log.Info().Str("status", string(status)).Msg("invoice resolved")
	}
	s.metrics.InvoicesTotal.WithLabelValues(string(status)).Inc()

	eventType := "invoice.paid"
	if status == invoice.StatusFailed {
		eventType = "invoice.failed"
	}
	if err := s.events.PublishInvoiceEvent(writeCtx, inv.ID, eventType, map[string]any{
		"customer_id":  inv.CustomerID.String(),
		"amount_cents": inv.Amount.ValueCents,
		"currency":     inv.Amount.Currency,
	}); err != nil {
		log.Error().Err(err).Str("event_type", eventType).Msg("failed to publish invoice event")
		s.metrics.EventsPublishedTotal.WithLabelValues(eventType, "error").Inc()
	} else {
		s.metrics.EventsPublishedTotal.WithLabelValues(eventType, "ok").Inc()
	}
}

func (s *Service) convertToCustomerCurrency(ctx context.Context, inv invoice.Invoice) (invoice.Amount, error) {
	cust, err := s.customers.GetByID(ctx, inv.CustomerID)
	if err != nil {
		return invoice.Amount{}, err
	}
	return s.converter.Convert(ctx, inv.Amount, cust.Currency)
}

// waitBackoff blocks for the configured backoff. Returns false when the
// context was cancelled before the delay elapsed.
func (s *Service) waitBackoff(ctx context.Context) bool {
	timer := time.NewTimer(s.cfg.RetryBackoff)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func (s *Service) observe(start time.Time, outcome Outcome) {
	s.metrics.ChargeDuration.WithLabelValues(outcome.String()).Observe(time.Since(start).Seconds())
}
