package models

// Role classifies what a user is allowed to do.
type Role string

const (
	// RoleAdmin can manage every parcel, meter, invoice and payment.
	RoleAdmin Role = "admin"

	// RoleParcelOwner can view resources tied to parcels they own.
	RoleParcelOwner Role = "parcel_owner"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleParcelOwner
}

// User represents a registered account.
type User struct {
	// ID is the unique identifier for the user.
	ID int64 `json:"id"`

	// RUT is the national tax identifier used as the login name (unique).
	RUT string `json:"rut"`

	// Name is the display name of the user.
	Name string `json:"name"`

	// Email is the user's contact address.
	Email string `json:"email"`

	// PasswordHash is the bcrypt hash of the user's password.
	// Never serialized in API responses.
	PasswordHash string `json:"-"`

	// Role determines the user's authorization level.
	Role Role `json:"role"`

	// CreatedAt is the Unix timestamp when the account was created.
	CreatedAt int64 `json:"created_at"`
}
