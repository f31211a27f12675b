package service

import "github.com/parcelhub/parcelhub/internal/models"

// CreatePaymentRequest is the payload for starting a webpay transaction
// or recording a manual payment.
type CreatePaymentRequest struct {
	InvoiceID int64   `json:"invoice_id" validate:"required,gt=0"`
	Amount    float64 `json:"amount" validate:"required,gt=0"`
}

// StartTrxResponse is returned when a webpay transaction is initiated.
// The client must redirect the payer to URL with the token.
type StartTrxResponse struct {
	Token string `json:"token"`
	URL   string `json:"url"`
}

// CreateParcelRequest is the payload for registering a parcel.
type CreateParcelRequest struct {
	Name    string  `json:"name" validate:"required"`
	Address string  `json:"address" validate:"required"`
	Area    float64 `json:"area" validate:"gte=0"`
}

// CreateMeterRequest is the payload for attaching a meter to a parcel.
type CreateMeterRequest struct {
	ParcelID  int64  `json:"parcel_id" validate:"required,gt=0"`
	MeterType string `json:"meter_type" validate:"required"`
}

// CreateReadingRequest is the payload for appending a meter reading.
type CreateReadingRequest struct {
	Date    int64   `json:"date" validate:"required,gt=0"`
	Reading float64 `json:"reading" validate:"gte=0"`
}

// CreateInvoiceRequest is the payload for issuing an invoice to a parcel.
type CreateInvoiceRequest struct {
	ParcelID    int64   `json:"parcel_id" validate:"required,gt=0"`
	Amount      float64 `json:"amount" validate:"required,gt=0"`
	Description string  `json:"description"`
	DueDate     int64   `json:"due_date"`
}

// RegisterRequest is the payload for creating an account.
type RegisterRequest struct {
	RUT      string `json:"rut" validate:"required"`
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"required,oneof=admin parcel_owner"`
}

// LoginRequest is the payload for authenticating.
type LoginRequest struct {
	RUT      string `json:"rut" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the session token and the authenticated user.
type LoginResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}
