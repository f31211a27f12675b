package models

// Invoice statuses.
const (
	InvoicePending = "pending"
	InvoicePaid    = "paid"
)

// Invoice represents a charge issued against a parcel.
type Invoice struct {
	// ID is the unique identifier for the invoice.
	ID int64 `json:"id"`

	// ParcelID is the parcel the invoice was issued to.
	ParcelID int64 `json:"parcel_id"`

	// Amount is the charged amount.
	Amount float64 `json:"amount"`

	// Description explains what is being charged.
	Description string `json:"description"`

	// IssuedAt and DueDate are Unix timestamps.
	IssuedAt int64 `json:"issued_at"`
	DueDate  int64 `json:"due_date"`

	// Status is one of InvoicePending or InvoicePaid.
	Status string `json:"status"`
}
