package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/fleetsense/autocare/core/estimate"
	corestorage "github.com/fleetsense/autocare/core/storage"
)

// PredictionStore implements corestorage.PredictionRepository. The combined
// prediction is persisted as a JSON document.
type PredictionStore struct {
	db *sqlx.DB
}

type predictionRow struct {
	ID         string    `db:"id"`
	UserID     string    `db:"user_id"`
	VehicleID  string    `db:"vehicle_id"`
	Prediction string    `db:"prediction"`
	CreatedAt  time.Time `db:"created_at"`
}

// Create persists a prediction record with a creation timestamp.
func (s *PredictionStore) Create(ctx context.Context, rec corestorage.PredictionRecord) (corestorage.PredictionRecord, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	rec.CreatedAt = nowUTC()
	blob, err := json.Marshal(rec.Prediction)
	if err != nil {
		return corestorage.PredictionRecord{}, fmt.Errorf("encode prediction: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO predictions (id, user_id, vehicle_id, prediction, created_at) VALUES (?, ?, ?, ?, ?)`,
		rec.ID, rec.UserID, rec.VehicleID, string(blob), rec.CreatedAt)
	if err != nil {
		return corestorage.PredictionRecord{}, fmt.Errorf("insert prediction: %w", err)
	}
	return rec, nil
}

// ListByVehicle returns stored predictions, newest first.
func (s *PredictionStore) ListByVehicle(ctx context.Context, userID, vehicleID string) ([]corestorage.PredictionRecord, error) {
	var rows []predictionRow
	err := s.db.SelectContext(ctx, &rows,
		`SELECT * FROM predictions WHERE user_id = ? AND vehicle_id = ? ORDER BY created_at DESC, id`,
		userID, vehicleID)
	if err != nil {
		return nil, fmt.Errorf("select predictions: %w", err)
	}
	out := make([]corestorage.PredictionRecord, len(rows))
	for i, r := range rows {
		var p estimate.Prediction
		if err := json.Unmarshal([]byte(r.Prediction), &p); err != nil {
			return nil, fmt.Errorf("decode prediction %s: %w", r.ID, err)
		}
		out[i] = corestorage.PredictionRecord{
			ID:         r.ID,
			UserID:     r.UserID,
			VehicleID:  r.VehicleID,
			Prediction: p,
			CreatedAt:  r.CreatedAt,
		}
	}
	return out, nil
}
