// Package storage declares the repository contracts the service relies on.
// Implementations live under infra; the prediction engine itself never touches
// them directly, it only consumes the records the caller resolved.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/fleetsense/autocare/core/estimate"
	"github.com/fleetsense/autocare/core/model"
)

// ErrNotFound is returned when a record does not exist or belongs to another
// user.
var ErrNotFound = errors.New("record not found")

// ErrDuplicate is returned when a uniqueness constraint is violated.
var ErrDuplicate = errors.New("duplicate record")

// VehicleRepository persists vehicles scoped to their owning user.
type VehicleRepository interface {
	Create(ctx context.Context, v model.Vehicle) (model.Vehicle, error)
	GetByID(ctx context.Context, id, userID string) (model.Vehicle, error)
	ListByUser(ctx context.Context, userID string) ([]model.Vehicle, error)
	Update(ctx context.Context, v model.Vehicle) (model.Vehicle, error)
	Delete(ctx context.Context, id, userID string) error
	// AdvanceMileage raises the odometer reading of a vehicle, ignoring
	// readings at or below the stored one. Used by the telemetry ingest.
	AdvanceMileage(ctx context.Context, vehicleID string, odometerKm int) error
}

// HistoryRepository persists maintenance records. Listings are ordered most
// recent service first.
type HistoryRepository interface {
	Create(ctx context.Context, r model.ServiceRecord) (model.ServiceRecord, error)
	GetByID(ctx context.Context, id, userID string) (model.ServiceRecord, error)
	ListByVehicle(ctx context.Context, userID, vehicleID string) ([]model.ServiceRecord, error)
	Update(ctx context.Context, r model.ServiceRecord) (model.ServiceRecord, error)
	Delete(ctx context.Context, id, userID string) error
}

// UserRepository persists accounts.
type UserRepository interface {
	Create(ctx context.Context, u model.User) (model.User, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByID(ctx context.Context, id string) (model.User, error)
}

// CatalogRepository persists the vehicle seed catalog.
type CatalogRepository interface {
	UpsertMany(ctx context.Context, items []model.CatalogVehicle) (inserted int, err error)
	List(ctx context.Context) ([]model.CatalogVehicle, error)
	GetByID(ctx context.Context, id string) (model.CatalogVehicle, error)
}

// PredictionRecord is a persisted prediction with its request context.
type PredictionRecord struct {
	ID         string              `json:"id"`
	UserID     string              `json:"user_id"`
	VehicleID  string              `json:"vehicle_id"`
	Prediction estimate.Prediction `json:"prediction"`
	CreatedAt  time.Time           `json:"created_at"`
}

// PredictionRepository persists prediction results for audit.
type PredictionRepository interface {
	Create(ctx context.Context, rec PredictionRecord) (PredictionRecord, error)
	ListByVehicle(ctx context.Context, userID, vehicleID string) ([]PredictionRecord, error)
}
