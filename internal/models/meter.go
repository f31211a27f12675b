package models

// Meter represents a utility meter attached to a parcel.
// A parcel has at most one meter of each type: the (MeterType, ParcelID)
// pair is unique across all meters.
type Meter struct {
	// ID is the unique identifier for the meter.
	ID int64 `json:"id"`

	// ParcelID is the parcel this meter belongs to.
	ParcelID int64 `json:"parcel_id"`

	// MeterType identifies the metered utility (e.g. "water", "electricity").
	MeterType string `json:"meter_type"`

	// CurrentConsumption is the consumption computed from the last two
	// monthly readings.
	CurrentConsumption float64 `json:"current_consumption"`

	// CurrentMonth and PrevMonth are the month numbers of the latest and
	// previous readings; zero when no reading has been recorded yet.
	CurrentMonth int `json:"current_month"`
	PrevMonth    int `json:"prev_month"`

	// CurrentYear is the year of the latest reading.
	CurrentYear int `json:"current_year"`

	// Readings is the reading history, populated only when the caller
	// asks for it explicitly.
	Readings []MeterReading `json:"readings,omitempty"`
}

// MeterReading is a single recorded value for a meter. Readings are
// append-only: once stored they are never updated or deleted.
type MeterReading struct {
	// ID is the unique identifier for the reading.
	ID int64 `json:"id"`

	// MeterID is the meter this reading belongs to.
	MeterID int64 `json:"meter_id"`

	// Date is the reading date as a Unix timestamp, conventionally the
	// first day of the billed month.
	Date int64 `json:"date"`

	// Reading is the meter value at Date.
	Reading float64 `json:"reading"`
}
