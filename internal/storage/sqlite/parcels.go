package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/parcelhub/parcelhub/internal/models"
)

// CreateParcel inserts a new parcel into the database.
func (s *SQLiteStore) CreateParcel(ctx context.Context, parcel *models.Parcel) error {
	if parcel.CreatedAt == 0 {
		parcel.CreatedAt = time.Now().Unix()
	}

	res, err := s.db.ExecContext(ctx,
		"INSERT INTO parcels (name, address, area, created_at) VALUES (?, ?, ?, ?)",
		parcel.Name, parcel.Address, parcel.Area, parcel.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create parcel: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get parcel id: %w", err)
	}
	parcel.ID = id

	return nil
}

// GetParcel retrieves a parcel by ID.
func (s *SQLiteStore) GetParcel(ctx context.Context, id int64) (*models.Parcel, error) {
	parcel := &models.Parcel{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, address, area, created_at FROM parcels WHERE id = ?",
		id,
	).Scan(&parcel.ID, &parcel.Name, &parcel.Address, &parcel.Area, &parcel.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil // Parcel not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get parcel: %w", err)
	}

	return parcel, nil
}

// ListParcels retrieves all parcels ordered by name.
func (s *SQLiteStore) ListParcels(ctx context.Context) ([]*models.Parcel, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, address, area, created_at FROM parcels ORDER BY name",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list parcels: %w", err)
	}
	defer rows.Close()

	var parcels []*models.Parcel
	for rows.Next() {
		parcel := &models.Parcel{}
		if err := rows.Scan(&parcel.ID, &parcel.Name, &parcel.Address, &parcel.Area, &parcel.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan parcel: %w", err)
		}
		parcels = append(parcels, parcel)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate parcels: %w", err)
	}

	return parcels, nil
}

// AddParcelOwner links a user to a parcel as an owner.
func (s *SQLiteStore) AddParcelOwner(ctx context.Context, parcelID, userID int64) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT OR IGNORE INTO parcel_owners (parcel_id, user_id) VALUES (?, ?)",
		parcelID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to add parcel owner: %w", err)
	}
	return nil
}

// ListParcelOwners retrieves the owner users of a parcel.
func (s *SQLiteStore) ListParcelOwners(ctx context.Context, parcelID int64) ([]*models.User, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT u.id, u.rut, u.name, u.email, u.password_hash, u.role, u.created_at
		 FROM users u
		 JOIN parcel_owners po ON po.user_id = u.id
		 WHERE po.parcel_id = ?
		 ORDER BY u.id`,
		parcelID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list parcel owners: %w", err)
	}
	defer rows.Close()

	var owners []*models.User
	for rows.Next() {
		user := &models.User{}
		if err := rows.Scan(
			&user.ID, &user.RUT, &user.Name, &user.Email,
			&user.PasswordHash, &user.Role, &user.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan parcel owner: %w", err)
		}
		owners = append(owners, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate parcel owners: %w", err)
	}

	return owners, nil
}
