package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/parcelhub/parcelhub/internal/models"
)

// CreateInvoice inserts a new invoice into the database.
func (s *SQLiteStore) CreateInvoice(ctx context.Context, invoice *models.Invoice) error {
	if invoice.IssuedAt == 0 {
		invoice.IssuedAt = time.Now().Unix()
	}
	if invoice.Status == "" {
		invoice.Status = models.InvoicePending
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO invoices (parcel_id, amount, description, issued_at, due_date, status)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		invoice.ParcelID, invoice.Amount, invoice.Description,
		invoice.IssuedAt, invoice.DueDate, invoice.Status,
	)
	if err != nil {
		return fmt.Errorf("failed to create invoice: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get invoice id: %w", err)
	}
	invoice.ID = id

	return nil
}

// GetInvoice retrieves an invoice by ID.
func (s *SQLiteStore) GetInvoice(ctx context.Context, id int64) (*models.Invoice, error) {
	invoice := &models.Invoice{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, parcel_id, amount, description, issued_at, due_date, status
		 FROM invoices WHERE id = ?`,
		id,
	).Scan(&invoice.ID, &invoice.ParcelID, &invoice.Amount, &invoice.Description,
		&invoice.IssuedAt, &invoice.DueDate, &invoice.Status)

	if err == sql.ErrNoRows {
		return nil, nil // Invoice not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}

	return invoice, nil
}

// ListInvoicesByParcel retrieves the invoices issued to a parcel, newest first.
func (s *SQLiteStore) ListInvoicesByParcel(ctx context.Context, parcelID int64) ([]*models.Invoice, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, parcel_id, amount, description, issued_at, due_date, status
		 FROM invoices WHERE parcel_id = ? ORDER BY issued_at DESC`,
		parcelID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	defer rows.Close()

	var invoices []*models.Invoice
	for rows.Next() {
		invoice := &models.Invoice{}
		if err := rows.Scan(&invoice.ID, &invoice.ParcelID, &invoice.Amount, &invoice.Description,
			&invoice.IssuedAt, &invoice.DueDate, &invoice.Status); err != nil {
			return nil, fmt.Errorf("failed to scan invoice: %w", err)
		}
		invoices = append(invoices, invoice)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate invoices: %w", err)
	}

	return invoices, nil
}
