package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/parcelhub/parcelhub/internal/models"
	"github.com/parcelhub/parcelhub/internal/storage"
)

// InvoiceService owns invoice creation and lookup.
type InvoiceService struct {
	store storage.Store
}

// NewInvoiceService creates a new InvoiceService.
func NewInvoiceService(store storage.Store) *InvoiceService {
	return &InvoiceService{store: store}
}

// CreateInvoice issues an invoice against a parcel.
func (s *InvoiceService) CreateInvoice(ctx context.Context, req *CreateInvoiceRequest) (*models.Invoice, error) {
	parcel, err := s.store.GetParcel(ctx, req.ParcelID)
	if err != nil {
		return nil, err
	}
	if parcel == nil {
		return nil, fmt.Errorf("%w: parcel %d", ErrNotFound, req.ParcelID)
	}

	invoice := &models.Invoice{
		ParcelID:    req.ParcelID,
		Amount:      req.Amount,
		Description: req.Description,
		DueDate:     req.DueDate,
		Status:      models.InvoicePending,
	}
	if err := s.store.CreateInvoice(ctx, invoice); err != nil {
		return nil, err
	}

	slog.Info("Invoice created", "invoice_id", invoice.ID, "parcel_id", invoice.ParcelID, "amount", invoice.Amount)

	return invoice, nil
}

// FindInvoiceByID returns the invoice or (nil, nil) when absent.
func (s *InvoiceService) FindInvoiceByID(ctx context.Context, id int64) (*models.Invoice, error) {
	return s.store.GetInvoice(ctx, id)
}

// FindInvoicesByParcel returns the invoices issued to a parcel.
func (s *InvoiceService) FindInvoicesByParcel(ctx context.Context, parcelID int64) ([]*models.Invoice, error) {
	return s.store.ListInvoicesByParcel(ctx, parcelID)
}
