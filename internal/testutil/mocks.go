package testutil

import (
	"context"
	"sync"

	"github.com/cassiomorais/billing/internal/domain/customer"
	domainErrors "github.com/cassiomorais/billing/internal/domain/errors"
	"github.com/cassiomorais/billing/internal/domain/invoice"
	"github.com/cassiomorais/billing/internal/gateway"
	"github.com/google/uuid"
)

// --- Invoice Repository Mock ---

// StatusUpdate records one UpdateStatus call.
type StatusUpdate struct {
	ID     uuid.UUID
	Status invoice.Status
}

// MockInvoiceRepository is a mock implementation of invoice.Repository.
type MockInvoiceRepository struct {
	mu       sync.Mutex
	invoices map[uuid.UUID]*invoice.Invoice
	updates  []StatusUpdate

	CreateFunc       func(ctx context.Context, inv *invoice.Invoice) error
	GetByIDFunc      func(ctx context.Context, id uuid.UUID) (*invoice.Invoice, error)
	FetchPendingFunc func(ctx context.Context) ([]*invoice.Invoice, error)
	UpdateStatusFunc func(ctx context.Context, id uuid.UUID, status invoice.Status) error
}

func NewMockInvoiceRepository() *MockInvoiceRepository {
	return &MockInvoiceRepository{
		invoices: make(map[uuid.UUID]*invoice.Invoice),
	}
}

// AddInvoice pre-populates the mock with an invoice.
func (m *MockInvoiceRepository) AddInvoice(inv *invoice.Invoice) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.invoices[inv.ID] = inv
}

func (m *MockInvoiceRepository) Create(ctx context.Context, inv *invoice.Invoice) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, inv)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.invoices[inv.ID] = inv
	return nil
}

func (m *MockInvoiceRepository) GetByID(ctx context.Context, id uuid.UUID) (*invoice.Invoice, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	inv, ok := m.invoices[id]
	if !ok {
		return nil, domainErrors.ErrInvoiceNotFound
	}
	return inv, nil
}

func (m *MockInvoiceRepository) FetchPending(ctx context.Context) ([]*invoice.Invoice, error) {
	if m.FetchPendingFunc != nil {
		return m.FetchPendingFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var pending []*invoice.Invoice
	for _, inv := range m.invoices {
		if inv.Status == invoice.StatusPending {
			pending = append(pending, inv)
		}
	}
	return pending, nil
}

func (m *MockInvoiceRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status invoice.Status) error {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, id, status)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updates = append(m.updates, StatusUpdate{ID: id, Status: status})
	if inv, ok := m.invoices[id]; ok {
		inv.Status = status
	}
	return nil
}

// StatusUpdates returns a copy of the recorded UpdateStatus calls.
func (m *MockInvoiceRepository) StatusUpdates() []StatusUpdate {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]StatusUpdate, len(m.updates))
	copy(out, m.updates)
	return out
}

// --- Customer Repository Mock ---

// MockCustomerRepository is a mock implementation of customer.Repository.
type MockCustomerRepository struct {
	mu        sync.Mutex
	customers map[uuid.UUID]*customer.Customer
	fetches   []uuid.UUID

	CreateFunc  func(ctx context.Context, c *customer.Customer) error
	GetByIDFunc func(ctx context.Context, id uuid.UUID) (*customer.Customer, error)
}

func NewMockCustomerRepository() *MockCustomerRepository {
	return &MockCustomerRepository{
		customers: make(map[uuid.UUID]*customer.Customer),
	}
}

// AddCustomer pre-populates the mock with a customer.
func (m *MockCustomerRepository) AddCustomer(c *customer.Customer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.customers[c.ID] = c
}

func (m *MockCustomerRepository) Create(ctx context.Context, c *customer.Customer) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, c)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.customers[c.ID] = c
	return nil
}

func (m *MockCustomerRepository) GetByID(ctx context.Context, id uuid.UUID) (*customer.Customer, error) {
	m.mu.Lock()
	m.fetches = append(m.fetches, id)
	m.mu.Unlock()

	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.customers[id]
	if !ok {
		return nil, domainErrors.ErrCustomerNotFound
	}
	return c, nil
}

// Fetches returns the recorded GetByID calls.
func (m *MockCustomerRepository) Fetches() []uuid.UUID {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]uuid.UUID, len(m.fetches))
	copy(out, m.fetches)
	return out
}

// --- Scripted Gateway ---

// ChargeResponse is one scripted gateway answer.
type ChargeResponse struct {
	Result gateway.Result
	Err    error
}

// ScriptedGateway replays a fixed sequence of responses; the last response
// repeats once the script is exhausted. Every request is recorded, so tests
// can assert on attempt counts and on the amounts actually sent.
type ScriptedGateway struct {
	mu        sync.Mutex
	responses []ChargeResponse
	requests  []invoice.Invoice
}

func NewScriptedGateway(responses ...ChargeResponse) *ScriptedGateway {
	return &ScriptedGateway{responses: responses}
}

func (g *ScriptedGateway) Name() string { return "scripted" }

func (g *ScriptedGateway) Charge(ctx context.Context, inv invoice.Invoice) (gateway.Result, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	idx := len(g.requests)
	g.requests = append(g.requests, inv)

	if len(g.responses) == 0 {
		return gateway.ResultCharged, nil
	}
	if idx >= len(g.responses) {
		idx = len(g.responses) - 1
	}
	resp := g.responses[idx]
	return resp.Result, resp.Err
}

// Requests returns a copy of the invoices the gateway was asked to charge.
func (g *ScriptedGateway) Requests() []invoice.Invoice {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]invoice.Invoice, len(g.requests))
	copy(out, g.requests)
	return out
}

// CallCount returns how many charge attempts were made.
func (g *ScriptedGateway) CallCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.requests)
}

// --- Converter Mock ---

// ConvertCall records one Convert invocation.
type ConvertCall struct {
	Amount invoice.Amount
	To     string
}

// MockConverter is a mock currency converter. When Result is zero it echoes
// the input amount in the target currency.
type MockConverter struct {
	mu     sync.Mutex
	calls  []ConvertCall
	Result invoice.Amount
	Err    error
}

func (m *MockConverter) Convert(ctx context.Context, amount invoice.Amount, toCurrency string) (invoice.Amount, error) {
	m.mu.Lock()
	m.calls = append(m.calls, ConvertCall{Amount: amount, To: toCurrency})
	m.mu.Unlock()

	if m.Err != nil {
		return invoice.Amount{}, m.Err
	}
	if m.Result != (invoice.Amount{}) {
		return m.Result, nil
	}
	return invoice.Amount{ValueCents: amount.ValueCents, Currency: toCurrency}, nil
}

// Calls returns the recorded Convert invocations.
func (m *MockConverter) Calls() []ConvertCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]ConvertCall, len(m.calls))
	copy(out, m.calls)
	return out
}

// --- Charge Locker Mock ---

// MockChargeLocker is an in-process charge locker. Pre-holding an invoice ID
// makes Acquire report the charge as already in flight.
type MockChargeLocker struct {
	mu         sync.Mutex
	held       map[uuid.UUID]bool
	AcquireErr error
}

func NewMockChargeLocker() *MockChargeLocker {
	return &MockChargeLocker{held: make(map[uuid.UUID]bool)}
}

// Hold marks the invoice's lock as taken by someone else.
func (m *MockChargeLocker) Hold(id uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.held[id] = true
}

func (m *MockChargeLocker) Acquire(ctx context.Context, invoiceID uuid.UUID) (func(ctx context.Context) error, bool, error) {
	if m.AcquireErr != nil {
		return nil, false, m.AcquireErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.held[invoiceID] {
		return nil, false, nil
	}
	m.held[invoiceID] = true
	release := func(ctx context.Context) error {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.held, invoiceID)
		return nil
	}
	return release, true, nil
}

// --- Event Publisher Mock ---

// PublishedEvent records one published invoice event.
type PublishedEvent struct {
	InvoiceID uuid.UUID
	EventType string
	Data      map[string]any
}

// MockEventPublisher records published events.
type MockEventPublisher struct {
	mu     sync.Mutex
	events []PublishedEvent
	Err    error
}

func (m *MockEventPublisher) PublishInvoiceEvent(ctx context.Context, invoiceID uuid.UUID, eventType string, data map[string]any) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, PublishedEvent{InvoiceID: invoiceID, EventType: eventType, Data: data})
	return nil
}

// Events returns the recorded published events.
func (m *MockEventPublisher) Events() []PublishedEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]PublishedEvent, len(m.events))
	copy(out, m.events)
	return out
}
