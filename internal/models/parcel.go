package models

// Parcel represents a real-estate unit in the development.
// Ownership is a many-to-many relation kept in its own table; owner
// users are queried by parcel id, never embedded here.
type Parcel struct {
	// ID is the unique identifier for the parcel.
	ID int64 `json:"id"`

	// Name is the human-readable label (e.g. "Parcela 12").
	Name string `json:"name"`

	// Address is the physical location of the parcel.
	Address string `json:"address"`

	// Area is the surface in square meters.
	Area float64 `json:"area"`

	// CreatedAt is the Unix timestamp when the parcel was registered.
	CreatedAt int64 `json:"created_at"`
}
