package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/parcelhub/parcelhub/internal/models"
)

const paymentColumns = `id, invoice_id, user_id, amount, method, status,
	token, buy_order, authorization_code, paid_at, created_at`

// CreatePayment persists a new payment to the database.
func (s *SQLiteStore) CreatePayment(ctx context.Context, payment *models.Payment) error {
	if payment.CreatedAt == 0 {
		payment.CreatedAt = time.Now().Unix()
	}

	var token interface{}
	if payment.Token != "" {
		token = payment.Token
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO payments (invoice_id, user_id, amount, method, status, token, buy_order, authorization_code, paid_at, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		payment.InvoiceID, payment.UserID, payment.Amount, payment.Method, payment.Status,
		token, payment.BuyOrder, payment.AuthorizationCode, payment.PaidAt, payment.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert payment: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get payment id: %w", err)
	}
	payment.ID = id

	return nil
}

// UpdatePayment updates a payment's lifecycle fields.
func (s *SQLiteStore) UpdatePayment(ctx context.Context, payment *models.Payment) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE payments SET status = ?, authorization_code = ?, paid_at = ? WHERE id = ?`,
		payment.Status, payment.AuthorizationCode, payment.PaidAt, payment.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update payment: %w", err)
	}
	return nil
}

// GetPayment retrieves a payment by ID.
func (s *SQLiteStore) GetPayment(ctx context.Context, id int64) (*models.Payment, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+paymentColumns+" FROM payments WHERE id = ?", id)
	return scanPayment(row)
}

// GetPaymentByToken retrieves a payment by its gateway token.
func (s *SQLiteStore) GetPaymentByToken(ctx context.Context, token string) (*models.Payment, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+paymentColumns+" FROM payments WHERE token = ?", token)
	return scanPayment(row)
}

// ListPayments retrieves every payment, newest first.
func (s *SQLiteStore) ListPayments(ctx context.Context) ([]*models.Payment, error) {
	return s.listPayments(ctx,
		"SELECT "+paymentColumns+" FROM payments ORDER BY created_at DESC")
}

// ListPaymentsByUser retrieves the payments made by a user, newest first.
func (s *SQLiteStore) ListPaymentsByUser(ctx context.Context, userID int64) ([]*models.Payment, error) {
	return s.listPayments(ctx,
		"SELECT "+paymentColumns+" FROM payments WHERE user_id = ? ORDER BY created_at DESC", userID)
}

// ListPaymentsByInvoice retrieves the payments settling an invoice, newest first.
func (s *SQLiteStore) ListPaymentsByInvoice(ctx context.Context, invoiceID int64) ([]*models.Payment, error) {
	return s.listPayments(ctx,
		"SELECT "+paymentColumns+" FROM payments WHERE invoice_id = ? ORDER BY created_at DESC", invoiceID)
}

func (s *SQLiteStore) listPayments(ctx context.Context, query string, args ...interface{}) ([]*models.Payment, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	var payments []*models.Payment
	for rows.Next() {
		payment, err := scanPaymentRows(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, payment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payments: %w", err)
	}

	return payments, nil
}

func scanPayment(row *sql.Row) (*models.Payment, error) {
	payment := &models.Payment{}
	var token, buyOrder, authCode sql.NullString

	err := row.Scan(&payment.ID, &payment.InvoiceID, &payment.UserID, &payment.Amount,
		&payment.Method, &payment.Status, &token, &buyOrder, &authCode,
		&payment.PaidAt, &payment.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil // Payment not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}

	payment.Token = token.String
	payment.BuyOrder = buyOrder.String
	payment.AuthorizationCode = authCode.String

	return payment, nil
}

func scanPaymentRows(rows *sql.Rows) (*models.Payment, error) {
	payment := &models.Payment{}
	var token, buyOrder, authCode sql.NullString

	if err := rows.Scan(&payment.ID, &payment.InvoiceID, &payment.UserID, &payment.Amount,
		&payment.Method, &payment.Status, &token, &buyOrder, &authCode,
		&payment.PaidAt, &payment.CreatedAt); err != nil {
		return nil, fmt.Errorf("failed to scan payment: %w", err)
	}

	payment.Token = token.String
	payment.BuyOrder = buyOrder.String
	payment.AuthorizationCode = authCode.String

	return payment, nil
}
