// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/parcelhub/parcelhub/internal/models"
)

// ErrDuplicateMeter is returned when a meter with the same
// (meter_type, parcel) pair already exists.
var ErrDuplicateMeter = errors.New("meter of this type already exists for parcel")

// Store defines the interface for persistence operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
//
// Single-record getters return (nil, nil) when the record does not exist;
// callers decide whether absence is an error.
type Store interface {
	// Users

	// CreateUser persists a new user. The user.ID field is populated by
	// the store.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByRUT retrieves a user by login identifier.
	GetUserByRUT(ctx context.Context, rut string) (*models.User, error)

	// GetUserByID retrieves a user by id.
	GetUserByID(ctx context.Context, id int64) (*models.User, error)

	// Parcels

	// CreateParcel persists a new parcel and populates parcel.ID.
	CreateParcel(ctx context.Context, parcel *models.Parcel) error

	// GetParcel retrieves a parcel by id.
	GetParcel(ctx context.Context, id int64) (*models.Parcel, error)

	// ListParcels retrieves all parcels.
	ListParcels(ctx context.Context) ([]*models.Parcel, error)

	// AddParcelOwner links a user to a parcel as an owner.
	AddParcelOwner(ctx context.Context, parcelID, userID int64) error

	// ListParcelOwners retrieves the owner users of a parcel.
	ListParcelOwners(ctx context.Context, parcelID int64) ([]*models.User, error)

	// Meters

	// CreateMeter persists a new meter and populates meter.ID.
	// Returns ErrDuplicateMeter when a meter of the same type already
	// exists for the parcel.
	CreateMeter(ctx context.Context, meter *models.Meter) error

	// GetMeter retrieves a meter by id.
	GetMeter(ctx context.Context, id int64) (*models.Meter, error)

	// ListMetersByParcel retrieves the meters of a parcel. When
	// withReadings is true each meter's reading history is attached.
	ListMetersByParcel(ctx context.Context, parcelID int64, withReadings bool) ([]*models.Meter, error)

	// CreateMeterReading appends a reading to a meter's history and
	// populates reading.ID. Readings are never updated or deleted.
	CreateMeterReading(ctx context.Context, reading *models.MeterReading) error

	// ListMeterReadings retrieves a meter's reading history, oldest first.
	ListMeterReadings(ctx context.Context, meterID int64) ([]*models.MeterReading, error)

	// UpdateMeterSnapshot refreshes a meter's cached consumption fields
	// after a new reading is recorded.
	UpdateMeterSnapshot(ctx context.Context, meter *models.Meter) error

	// Invoices

	// CreateInvoice persists a new invoice and populates invoice.ID.
	CreateInvoice(ctx context.Context, invoice *models.Invoice) error

	// GetInvoice retrieves an invoice by id.
	GetInvoice(ctx context.Context, id int64) (*models.Invoice, error)

	// ListInvoicesByParcel retrieves the invoices issued to a parcel.
	ListInvoicesByParcel(ctx context.Context, parcelID int64) ([]*models.Invoice, error)

	// Payments

	// CreatePayment persists a new payment and populates payment.ID.
	CreatePayment(ctx context.Context, payment *models.Payment) error

	// UpdatePayment updates a payment's lifecycle fields (status,
	// authorization code, paid timestamp).
	UpdatePayment(ctx context.Context, payment *models.Payment) error

	// GetPayment retrieves a payment by id.
	GetPayment(ctx context.Context, id int64) (*models.Payment, error)

	// GetPaymentByToken retrieves a payment by its gateway token.
	GetPaymentByToken(ctx context.Context, token string) (*models.Payment, error)

	// ListPayments retrieves every payment.
	ListPayments(ctx context.Context) ([]*models.Payment, error)

	// ListPaymentsByUser retrieves the payments made by a user.
	ListPaymentsByUser(ctx context.Context, userID int64) ([]*models.Payment, error)

	// ListPaymentsByInvoice retrieves the payments settling an invoice.
	ListPaymentsByInvoice(ctx context.Context, invoiceID int64) ([]*models.Payment, error)

	// Close releases any resources held by the store.
	Close() error
}
