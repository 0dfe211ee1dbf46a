package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/fleetsense/autocare/core/model"
	corestorage "github.com/fleetsense/autocare/core/storage"
)

// HistoryStore implements corestorage.HistoryRepository.
type HistoryStore struct {
	db *sqlx.DB
}

const historyInsert = `INSERT INTO maintenance (
    id, user_id, vehicle_id, service_type, description, cost, mileage,
    service_date, created_at, updated_at
) VALUES (
    :id, :user_id, :vehicle_id, :service_type, :description, :cost, :mileage,
    :service_date, :created_at, :updated_at
)`

// Create inserts a maintenance record.
func (s *HistoryStore) Create(ctx context.Context, r model.ServiceRecord) (model.ServiceRecord, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	now := nowUTC()
	r.CreatedAt, r.UpdatedAt = now, now
	if _, err := s.db.NamedExecContext(ctx, historyInsert, r); err != nil {
		return model.ServiceRecord{}, fmt.Errorf("insert maintenance: %w", err)
	}
	return r, nil
}

// GetByID fetches one maintenance record owned by the given user.
func (s *HistoryStore) GetByID(ctx context.Context, id, userID string) (model.ServiceRecord, error) {
	var r model.ServiceRecord
	err := s.db.GetContext(ctx, &r, `SELECT * FROM maintenance WHERE id = ? AND user_id = ?`, id, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return model.ServiceRecord{}, corestorage.ErrNotFound
	}
	if err != nil {
		return model.ServiceRecord{}, fmt.Errorf("select maintenance: %w", err)
	}
	return r, nil
}

// ListByVehicle returns a vehicle's history, most recent service first.
func (s *HistoryStore) ListByVehicle(ctx context.Context, userID, vehicleID string) ([]model.ServiceRecord, error) {
	var rows []model.ServiceRecord
	err := s.db.SelectContext(ctx, &rows,
		`SELECT * FROM maintenance WHERE user_id = ? AND vehicle_id = ?
         ORDER BY service_date DESC, created_at DESC`, userID, vehicleID)
	if err != nil {
		return nil, fmt.Errorf("select maintenance: %w", err)
	}
	return rows, nil
}

const historyUpdate = `UPDATE maintenance SET
    service_type = :service_type, description = :description, cost = :cost,
    mileage = :mileage, service_date = :service_date, updated_at = :updated_at
WHERE id = :id AND user_id = :user_id`

// Update stores the full record.
func (s *HistoryStore) Update(ctx context.Context, r model.ServiceRecord) (model.ServiceRecord, error) {
	r.UpdatedAt = nowUTC()
	res, err := s.db.NamedExecContext(ctx, historyUpdate, r)
	if err != nil {
		return model.ServiceRecord{}, fmt.Errorf("update maintenance: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.ServiceRecord{}, corestorage.ErrNotFound
	}
	return s.GetByID(ctx, r.ID, r.UserID)
}

// Delete removes a maintenance record.
func (s *HistoryStore) Delete(ctx context.Context, id, userID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM maintenance WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete maintenance: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return corestorage.ErrNotFound
	}
	return nil
}
