package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/parcelhub/parcelhub/internal/models"
	"github.com/parcelhub/parcelhub/internal/storage"
)

// ParcelService owns parcel registration and ownership resolution.
type ParcelService struct {
	store storage.Store
}

// NewParcelService creates a new ParcelService.
func NewParcelService(store storage.Store) *ParcelService {
	return &ParcelService{store: store}
}

// CreateParcel registers a new parcel.
func (s *ParcelService) CreateParcel(ctx context.Context, req *CreateParcelRequest) (*models.Parcel, error) {
	parcel := &models.Parcel{
		Name:    req.Name,
		Address: req.Address,
		Area:    req.Area,
	}
	if err := s.store.CreateParcel(ctx, parcel); err != nil {
		return nil, err
	}

	slog.Info("Parcel created", "parcel_id", parcel.ID, "name", parcel.Name)

	return parcel, nil
}

// ListParcels returns all parcels.
func (s *ParcelService) ListParcels(ctx context.Context) ([]*models.Parcel, error) {
	return s.store.ListParcels(ctx)
}

// FindParcelByID returns the parcel or (nil, nil) when absent.
func (s *ParcelService) FindParcelByID(ctx context.Context, id int64) (*models.Parcel, error) {
	return s.store.GetParcel(ctx, id)
}

// FindParcelOwners returns the owner users of a parcel.
func (s *ParcelService) FindParcelOwners(ctx context.Context, parcelID int64) ([]*models.User, error) {
	return s.store.ListParcelOwners(ctx, parcelID)
}

// AddParcelOwner links a user to a parcel. Both must exist.
func (s *ParcelService) AddParcelOwner(ctx context.Context, parcelID, userID int64) error {
	parcel, err := s.store.GetParcel(ctx, parcelID)
	if err != nil {
		return err
	}
	if parcel == nil {
		return fmt.Errorf("%w: parcel %d", ErrNotFound, parcelID)
	}

	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("%w: user %d", ErrNotFound, userID)
	}

	if err := s.store.AddParcelOwner(ctx, parcelID, userID); err != nil {
		return err
	}

	slog.Info("Parcel owner added", "parcel_id", parcelID, "user_id", userID)

	return nil
}
