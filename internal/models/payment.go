package models

// Payment methods.
const (
	PaymentMethodWebpay = "webpay"
	PaymentMethodManual = "manual"
)

// Payment statuses. A webpay payment starts Pending and moves to
// Committed or Failed after the gateway commit. A manual payment is
// created Committed directly.
const (
	PaymentPending   = "pending"
	PaymentCommitted = "committed"
	PaymentFailed    = "failed"
)

// Payment represents a monetary transaction against an invoice.
type Payment struct {
	// ID is the unique identifier for the payment.
	ID int64 `json:"id"`

	// InvoiceID is the invoice this payment settles.
	InvoiceID int64 `json:"invoice_id"`

	// UserID is the paying user for webpay payments, or the admin who
	// recorded the payment for manual ones.
	UserID int64 `json:"user_id"`

	// Amount is the paid amount.
	Amount float64 `json:"amount"`

	// Method is PaymentMethodWebpay or PaymentMethodManual.
	Method string `json:"method"`

	// Status is the lifecycle state (pending, committed, failed).
	Status string `json:"status"`

	// Token is the gateway transaction token. Empty for manual payments.
	Token string `json:"token,omitempty"`

	// BuyOrder is the merchant order id sent to the gateway.
	BuyOrder string `json:"buy_order,omitempty"`

	// AuthorizationCode is the gateway authorization, set on commit.
	AuthorizationCode string `json:"authorization_code,omitempty"`

	// PaidAt is the Unix timestamp when the payment was committed; zero
	// while pending or after a failed commit.
	PaidAt int64 `json:"paid_at,omitempty"`

	// CreatedAt is the Unix timestamp when the payment was created.
	CreatedAt int64 `json:"created_at"`
}
