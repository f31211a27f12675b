package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/parcelhub/parcelhub/internal/models"
	"github.com/parcelhub/parcelhub/internal/storage"
)

// MeterService owns meters and their append-only reading history.
type MeterService struct {
	store storage.Store
}

// NewMeterService creates a new MeterService.
func NewMeterService(store storage.Store) *MeterService {
	return &MeterService{store: store}
}

// CreateMeter attaches a meter to a parcel. At most one meter per
// (type, parcel) pair may exist; violations surface as
// storage.ErrDuplicateMeter.
func (s *MeterService) CreateMeter(ctx context.Context, req *CreateMeterRequest) (*models.Meter, error) {
	parcel, err := s.store.GetParcel(ctx, req.ParcelID)
	if err != nil {
		return nil, err
	}
	if parcel == nil {
		return nil, fmt.Errorf("%w: parcel %d", ErrNotFound, req.ParcelID)
	}

	meter := &models.Meter{
		ParcelID:  req.ParcelID,
		MeterType: req.MeterType,
	}
	if err := s.store.CreateMeter(ctx, meter); err != nil {
		return nil, err
	}

	slog.Info("Meter created", "meter_id", meter.ID, "parcel_id", meter.ParcelID, "type", meter.MeterType)

	return meter, nil
}

// FindMetersByParcel returns the meters of a parcel with their reading
// history attached.
func (s *MeterService) FindMetersByParcel(ctx context.Context, parcelID int64) ([]*models.Meter, error) {
	return s.store.ListMetersByParcel(ctx, parcelID, true)
}

// AddReading appends a reading to a meter and refreshes the meter's
// consumption snapshot from the last two readings. Readings are
// immutable once recorded.
func (s *MeterService) AddReading(ctx context.Context, meterID int64, req *CreateReadingRequest) (*models.MeterReading, error) {
	meter, err := s.store.GetMeter(ctx, meterID)
	if err != nil {
		return nil, err
	}
	if meter == nil {
		return nil, fmt.Errorf("%w: meter %d", ErrNotFound, meterID)
	}

	reading := &models.MeterReading{
		MeterID: meterID,
		Date:    req.Date,
		Reading: req.Reading,
	}
	if err := s.store.CreateMeterReading(ctx, reading); err != nil {
		return nil, err
	}

	if err := s.refreshSnapshot(ctx, meter); err != nil {
		return nil, err
	}

	slog.Info("Meter reading recorded", "meter_id", meterID, "reading", req.Reading)

	return reading, nil
}

// FindReadings returns a meter's reading history, oldest first.
func (s *MeterService) FindReadings(ctx context.Context, meterID int64) ([]*models.MeterReading, error) {
	meter, err := s.store.GetMeter(ctx, meterID)
	if err != nil {
		return nil, err
	}
	if meter == nil {
		return nil, fmt.Errorf("%w: meter %d", ErrNotFound, meterID)
	}
	return s.store.ListMeterReadings(ctx, meterID)
}

// refreshSnapshot recomputes the cached consumption fields from the two
// most recent readings.
func (s *MeterService) refreshSnapshot(ctx context.Context, meter *models.Meter) error {
	readings, err := s.store.ListMeterReadings(ctx, meter.ID)
	if err != nil {
		return err
	}
	if len(readings) == 0 {
		return nil
	}

	latest := readings[len(readings)-1]
	latestDate := time.Unix(latest.Date, 0).UTC()
	meter.CurrentMonth = int(latestDate.Month())
	meter.CurrentYear = latestDate.Year()

	if len(readings) >= 2 {
		prev := readings[len(readings)-2]
		meter.PrevMonth = int(time.Unix(prev.Date, 0).UTC().Month())
		meter.CurrentConsumption = latest.Reading - prev.Reading
	} else {
		meter.PrevMonth = 0
		meter.CurrentConsumption = 0
	}

	return s.store.UpdateMeterSnapshot(ctx, meter)
}
