package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/parcelhub/parcelhub/internal/models"
	"github.com/parcelhub/parcelhub/internal/storage"
	"github.com/parcelhub/parcelhub/internal/webpay"
)

// Gateway is the slice of the webpay client the payment service needs.
type Gateway interface {
	Create(ctx context.Context, buyOrder, sessionID string, amount float64, returnURL string) (*webpay.CreateResponse, error)
	Commit(ctx context.Context, token string) (*webpay.CommitResponse, error)
}

// PaymentService owns the payment lifecycle: gateway transactions,
// manual registration, and queries.
type PaymentService struct {
	store     storage.Store
	gateway   Gateway
	returnURL string
}

// NewPaymentService creates a new PaymentService.
func NewPaymentService(store storage.Store, gateway Gateway, returnURL string) *PaymentService {
	return &PaymentService{store: store, gateway: gateway, returnURL: returnURL}
}

// StartWebpayPayment initiates a gateway transaction for the given user
// and records the payment as pending. The caller redirects the payer to
// the returned URL.
func (s *PaymentService) StartWebpayPayment(ctx context.Context, req *CreatePaymentRequest, userID int64) (*StartTrxResponse, error) {
	slog.Info("Starting webpay transaction", "invoice_id", req.InvoiceID, "user_id", userID, "amount", req.Amount)

	invoice, err := s.store.GetInvoice(ctx, req.InvoiceID)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, fmt.Errorf("%w: invoice %d", ErrNotFound, req.InvoiceID)
	}

	buyOrder := newBuyOrder("OC", req.InvoiceID)
	sessionID := uuid.New().String()

	trx, err := s.gateway.Create(ctx, buyOrder, sessionID, req.Amount, s.returnURL)
	if err != nil {
		slog.Error("Webpay create failed", "invoice_id", req.InvoiceID, "error", err)
		return nil, err
	}

	payment := &models.Payment{
		InvoiceID: req.InvoiceID,
		UserID:    userID,
		Amount:    req.Amount,
		Method:    models.PaymentMethodWebpay,
		Status:    models.PaymentPending,
		Token:     trx.Token,
		BuyOrder:  buyOrder,
	}
	if err := s.store.CreatePayment(ctx, payment); err != nil {
		return nil, err
	}

	slog.Info("Webpay transaction started", "payment_id", payment.ID, "buy_order", buyOrder)

	return &StartTrxResponse{Token: trx.Token, URL: trx.URL}, nil
}

// CommitWebpayPayment finalizes a gateway transaction. The payment moves
// to committed when the gateway authorizes it, failed otherwise.
func (s *PaymentService) CommitWebpayPayment(ctx context.Context, token string) (*models.Payment, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: missing transaction token", ErrInvalidInput)
	}

	slog.Info("Committing webpay transaction", "token", token)

	result, err := s.gateway.Commit(ctx, token)
	if err != nil {
		slog.Error("Webpay commit failed", "token", token, "error", err)
		return nil, err
	}

	payment, err := s.store.GetPaymentByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, fmt.Errorf("%w: no payment for token", ErrNotFound)
	}

	if result.Approved() {
		payment.Status = models.PaymentCommitted
		payment.AuthorizationCode = result.AuthorizationCode
		payment.PaidAt = time.Now().Unix()
	} else {
		payment.Status = models.PaymentFailed
	}

	if err := s.store.UpdatePayment(ctx, payment); err != nil {
		return nil, err
	}

	slog.Info("Webpay transaction committed",
		"payment_id", payment.ID,
		"status", payment.Status,
		"gateway_status", result.Status,
		"response_code", result.ResponseCode,
	)

	return payment, nil
}

// CreateManualPayment registers a payment made outside the gateway
// (cash, bank transfer). It is committed immediately.
func (s *PaymentService) CreateManualPayment(ctx context.Context, req *CreatePaymentRequest, userID int64) (*models.Payment, error) {
	slog.Info("Creating manual payment", "invoice_id", req.InvoiceID, "recorded_by", userID, "amount", req.Amount)

	invoice, err := s.store.GetInvoice(ctx, req.InvoiceID)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, fmt.Errorf("%w: invoice %d", ErrNotFound, req.InvoiceID)
	}

	payment := &models.Payment{
		InvoiceID: req.InvoiceID,
		UserID:    userID,
		Amount:    req.Amount,
		Method:    models.PaymentMethodManual,
		Status:    models.PaymentCommitted,
		BuyOrder:  newBuyOrder("MAN", req.InvoiceID),
		PaidAt:    time.Now().Unix(),
	}
	if err := s.store.CreatePayment(ctx, payment); err != nil {
		return nil, err
	}

	slog.Info("Manual payment created", "payment_id", payment.ID)

	return payment, nil
}

// newBuyOrder builds a merchant order id from the invoice id and the
// current time. Transbank caps buy_order at 26 characters, so both parts
// are base36-encoded: the worst case ("MAN-" plus a 13-digit id and a
// 7-digit timestamp) is 25 characters.
func newBuyOrder(prefix string, invoiceID int64) string {
	return prefix + "-" + strconv.FormatInt(invoiceID, 36) + "-" + strconv.FormatInt(time.Now().Unix(), 36)
}

// FindAllPayments returns every payment record.
func (s *PaymentService) FindAllPayments(ctx context.Context) ([]*models.Payment, error) {
	return s.store.ListPayments(ctx)
}

// FindPaymentByID returns the payment or (nil, nil) when absent.
func (s *PaymentService) FindPaymentByID(ctx context.Context, id int64) (*models.Payment, error) {
	return s.store.GetPayment(ctx, id)
}

// FindPaymentsByUser returns the payments made by a user.
func (s *PaymentService) FindPaymentsByUser(ctx context.Context, userID int64) ([]*models.Payment, error) {
	return s.store.ListPaymentsByUser(ctx, userID)
}

// FindPaymentsByInvoice returns the payments settling an invoice.
func (s *PaymentService) FindPaymentsByInvoice(ctx context.Context, invoiceID int64) ([]*models.Payment, error) {
	return s.store.ListPaymentsByInvoice(ctx, invoiceID)
}
