package postgres

import (
	"context"
	"errors"
	"fmt"

	domainErrors "github.com/cassiomorais/billing/internal/domain/errors"
	"github.com/cassiomorais/billing/internal/domain/invoice"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// InvoiceRepository implements invoice.Repository using PostgreSQL.
type InvoiceRepository struct {
	pool *pgxpool.Pool
}

// NewInvoiceRepository creates a new InvoiceRepository.
func NewInvoiceRepository(pool *pgxpool.Pool) *InvoiceRepository {
	return &InvoiceRepository{pool: pool}
}

// scanner is satisfied by both pgx.Row and pgx.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// Create inserts a new invoice.
func (r *InvoiceRepository) Create(ctx context.Context, inv *invoice.Invoice) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO invoices (id, customer_id, amount, currency, status, created_at, updated_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		inv.ID, inv.CustomerID, centsToNumericString(inv.Amount.ValueCents), inv.Amount.Currency,
		string(inv.Status), inv.CreatedAt, inv.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

// GetByID retrieves an invoice by its ID.
func (r *InvoiceRepository) GetByID(ctx context.Context, id uuid.UUID) (*invoice.Invoice, error) {
	inv, err := scanInvoice(r.pool.QueryRow(ctx,
		`SELECT id, customer_id, amount, currency, status, created_at, updated_at
		 FROM invoices WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrInvoiceNotFound
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return inv, nil
}

// FetchPending returns all invoices currently in pending status. The filter
// lives in the query, so callers never see invoices in a terminal state.
func (r *InvoiceRepository) FetchPending(ctx context.Context) ([]*invoice.Invoice, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, customer_id, amount, currency, status, created_at, updated_at
		 FROM invoices WHERE status = $1 ORDER BY created_at`, string(invoice.StatusPending))
	if err != nil {
		return nil, fmt.Errorf("fetch pending invoices: %w", err)
	}
	defer rows.Close()

	var invoices []*invoice.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan pending invoice: %w", err)
		}
		invoices = append(invoices, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pending invoices: %w", err)
	}
	return invoices, nil
}

// UpdateStatus sets the status of the invoice with the given ID.
func (r *InvoiceRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status invoice.Status) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE invoices SET status = $1, updated_at = now() WHERE id = $2`,
		string(status), id,
	)
	if err != nil {
		return fmt.Errorf("update invoice status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrInvoiceNotFound
	}
	return nil
}

func scanInvoice(s scanner) (*invoice.Invoice, error) {
	var (
		inv       invoice.Invoice
		amountStr string
		status    string
	)
	if err := s.Scan(
		&inv.ID, &inv.CustomerID, &amountStr, &inv.Amount.Currency,
		&status, &inv.CreatedAt, &inv.UpdatedAt,
	); err != nil {
		return nil, err
	}

	cents, err := numericStringToCents(amountStr)
	if err != nil {
		return nil, fmt.Errorf("invoice amount: %w", err)
	}
	inv.Amount.ValueCents = cents
	inv.Status = invoice.Status(status)
	return &inv, nil
}
