package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/parcelhub/parcelhub/internal/models"
	"github.com/parcelhub/parcelhub/internal/storage"
)

// CreateMeter inserts a new meter into the database.
// The (meter_type, parcel_id) pair must be unique; the schema UNIQUE
// constraint rejects duplicates, including concurrent ones, and the
// violation surfaces as storage.ErrDuplicateMeter.
func (s *SQLiteStore) CreateMeter(ctx context.Context, meter *models.Meter) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO meters (parcel_id, meter_type, current_consumption, current_month, prev_month, current_year)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		meter.ParcelID, meter.MeterType, meter.CurrentConsumption,
		meter.CurrentMonth, meter.PrevMonth, meter.CurrentYear,
	)
	if err != nil {
		if isConstraintViolation(err) {
			return storage.ErrDuplicateMeter
		}
		return fmt.Errorf("failed to create meter: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get meter id: %w", err)
	}
	meter.ID = id

	return nil
}

// isConstraintViolation reports whether err is a SQLite constraint
// failure. The driver returns extended result codes, so both the base
// and the unique-specific code are checked.
func isConstraintViolation(err error) bool {
	var serr *sqlite.Error
	if !errors.As(err, &serr) {
		return false
	}
	switch serr.Code() {
	case sqlite3.SQLITE_CONSTRAINT, sqlite3.SQLITE_CONSTRAINT_UNIQUE:
		return true
	}
	return false
}

// GetMeter retrieves a meter by ID.
func (s *SQLiteStore) GetMeter(ctx context.Context, id int64) (*models.Meter, error) {
	meter := &models.Meter{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, parcel_id, meter_type, current_consumption, current_month, prev_month, current_year
		 FROM meters WHERE id = ?`,
		id,
	).Scan(&meter.ID, &meter.ParcelID, &meter.MeterType, &meter.CurrentConsumption,
		&meter.CurrentMonth, &meter.PrevMonth, &meter.CurrentYear)

	if err == sql.ErrNoRows {
		return nil, nil // Meter not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get meter: %w", err)
	}

	return meter, nil
}

// ListMetersByParcel retrieves the meters of a parcel. When withReadings
// is true each meter's reading history is attached.
func (s *SQLiteStore) ListMetersByParcel(ctx context.Context, parcelID int64, withReadings bool) ([]*models.Meter, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, parcel_id, meter_type, current_consumption, current_month, prev_month, current_year
		 FROM meters WHERE parcel_id = ? ORDER BY meter_type`,
		parcelID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list meters: %w", err)
	}
	defer rows.Close()

	var meters []*models.Meter
	for rows.Next() {
		meter := &models.Meter{}
		if err := rows.Scan(&meter.ID, &meter.ParcelID, &meter.MeterType, &meter.CurrentConsumption,
			&meter.CurrentMonth, &meter.PrevMonth, &meter.CurrentYear); err != nil {
			return nil, fmt.Errorf("failed to scan meter: %w", err)
		}
		meters = append(meters, meter)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate meters: %w", err)
	}

	if withReadings {
		for _, meter := range meters {
			readings, err := s.ListMeterReadings(ctx, meter.ID)
			if err != nil {
				return nil, err
			}
			for _, r := range readings {
				meter.Readings = append(meter.Readings, *r)
			}
		}
	}

	return meters, nil
}

// CreateMeterReading appends a reading to a meter's history.
func (s *SQLiteStore) CreateMeterReading(ctx context.Context, reading *models.MeterReading) error {
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO meter_readings (meter_id, date, reading) VALUES (?, ?, ?)",
		reading.MeterID, reading.Date, reading.Reading,
	)
	if err != nil {
		return fmt.Errorf("failed to create meter reading: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get meter reading id: %w", err)
	}
	reading.ID = id

	return nil
}

// ListMeterReadings retrieves a meter's reading history, oldest first.
func (s *SQLiteStore) ListMeterReadings(ctx context.Context, meterID int64) ([]*models.MeterReading, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, meter_id, date, reading FROM meter_readings WHERE meter_id = ? ORDER BY date",
		meterID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list meter readings: %w", err)
	}
	defer rows.Close()

	var readings []*models.MeterReading
	for rows.Next() {
		reading := &models.MeterReading{}
		if err := rows.Scan(&reading.ID, &reading.MeterID, &reading.Date, &reading.Reading); err != nil {
			return nil, fmt.Errorf("failed to scan meter reading: %w", err)
		}
		readings = append(readings, reading)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate meter readings: %w", err)
	}

	return readings, nil
}

// UpdateMeterSnapshot refreshes the meter's cached consumption fields
// after a new reading is recorded.
func (s *SQLiteStore) UpdateMeterSnapshot(ctx context.Context, meter *models.Meter) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE meters
		 SET current_consumption = ?, current_month = ?, prev_month = ?, current_year = ?
		 WHERE id = ?`,
		meter.CurrentConsumption, meter.CurrentMonth, meter.PrevMonth, meter.CurrentYear, meter.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update meter: %w", err)
	}
	return nil
}
