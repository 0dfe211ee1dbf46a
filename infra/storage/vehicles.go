package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/fleetsense/autocare/core/model"
	corestorage "github.com/fleetsense/autocare/core/storage"
)

type vehicleRow struct {
	ID                    string    `db:"id"`
	UserID                string    `db:"user_id"`
	CatalogID             string    `db:"catalog_vehicle_id"`
	Make                  string    `db:"make"`
	Model                 string    `db:"model"`
	Year                  int       `db:"year"`
	VehicleType           string    `db:"vehicle_type"`
	FuelType              string    `db:"fuel_type"`
	Cylinders             int       `db:"cylinders"`
	Transmission          string    `db:"transmission"`
	VIN                   string    `db:"vin"`
	LicensePlate          string    `db:"license_plate"`
	Color                 string    `db:"color"`
	CurrentMileage        int       `db:"current_mileage"`
	AverageMileageDaily   int       `db:"average_mileage_daily"`
	AverageMileageWeekly  int       `db:"average_mileage_weekly"`
	AverageMileageMonthly int       `db:"average_mileage_monthly"`
	EngineHours           int       `db:"engine_hours"`
	AcquisitionDate       string    `db:"acquisition_date"`
	UsageType             string    `db:"usage_type"`
	DrivingConditions     string    `db:"driving_conditions"`
	ImageURLs             string    `db:"image_urls"`
	CreatedAt             time.Time `db:"created_at"`
	UpdatedAt             time.Time `db:"updated_at"`
}

func toVehicleRow(v model.Vehicle) vehicleRow {
	urls, _ := json.Marshal(v.ImageURLs)
	if v.ImageURLs == nil {
		urls = []byte("[]")
	}
	return vehicleRow{
		ID:                    v.ID,
		UserID:                v.UserID,
		CatalogID:             v.CatalogID,
		Make:                  v.Make,
		Model:                 v.Model,
		Year:                  v.Year,
		VehicleType:           v.VehicleType,
		FuelType:              v.FuelType,
		Cylinders:             v.Cylinders,
		Transmission:          v.Transmission,
		VIN:                   v.VIN,
		LicensePlate:          v.LicensePlate,
		Color:                 v.Color,
		CurrentMileage:        v.EffectiveMileage(),
		AverageMileageDaily:   v.AverageMileageDaily,
		AverageMileageWeekly:  v.AverageMileageWeekly,
		AverageMileageMonthly: v.AverageMileageMonthly,
		EngineHours:           v.EngineHours,
		AcquisitionDate:       v.AcquisitionDate,
		UsageType:             v.UsageType,
		DrivingConditions:     v.DrivingConditions,
		ImageURLs:             string(urls),
		CreatedAt:             v.CreatedAt,
		UpdatedAt:             v.UpdatedAt,
	}
}

func (r vehicleRow) toModel() model.Vehicle {
	var urls []string
	_ = json.Unmarshal([]byte(r.ImageURLs), &urls)
	return model.Vehicle{
		ID:                    r.ID,
		UserID:                r.UserID,
		CatalogID:             r.CatalogID,
		Make:                  r.Make,
		Model:                 r.Model,
		Year:                  r.Year,
		VehicleType:           r.VehicleType,
		FuelType:              r.FuelType,
		Cylinders:             r.Cylinders,
		Transmission:          r.Transmission,
		VIN:                   r.VIN,
		LicensePlate:          r.LicensePlate,
		Color:                 r.Color,
		CurrentMileage:        r.CurrentMileage,
		AverageMileageDaily:   r.AverageMileageDaily,
		AverageMileageWeekly:  r.AverageMileageWeekly,
		AverageMileageMonthly: r.AverageMileageMonthly,
		EngineHours:           r.EngineHours,
		AcquisitionDate:       r.AcquisitionDate,
		UsageType:             r.UsageType,
		DrivingConditions:     r.DrivingConditions,
		ImageURLs:             urls,
		CreatedAt:             r.CreatedAt,
		UpdatedAt:             r.UpdatedAt,
	}
}

const vehicleInsert = `INSERT INTO vehicles (
    id, user_id, catalog_vehicle_id, make, model, year, vehicle_type, fuel_type,
    cylinders, transmission, vin, license_plate, color, current_mileage,
    average_mileage_daily, average_mileage_weekly, average_mileage_monthly,
    engine_hours, acquisition_date, usage_type, driving_conditions, image_urls,
    created_at, updated_at
) VALUES (
    :id, :user_id, :catalog_vehicle_id, :make, :model, :year, :vehicle_type, :fuel_type,
    :cylinders, :transmission, :vin, :license_plate, :color, :current_mileage,
    :average_mileage_daily, :average_mileage_weekly, :average_mileage_monthly,
    :engine_hours, :acquisition_date, :usage_type, :driving_conditions, :image_urls,
    :created_at, :updated_at
)`

// VehicleStore implements corestorage.VehicleRepository.
type VehicleStore struct {
	db *sqlx.DB
}

// Create inserts a vehicle, assigning an ID and timestamps.
func (s *VehicleStore) Create(ctx context.Context, v model.Vehicle) (model.Vehicle, error) {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	now := nowUTC()
	v.CreatedAt, v.UpdatedAt = now, now
	if _, err := s.db.NamedExecContext(ctx, vehicleInsert, toVehicleRow(v)); err != nil {
		return model.Vehicle{}, fmt.Errorf("insert vehicle: %w", err)
	}
	return s.GetByID(ctx, v.ID, v.UserID)
}

// GetByID fetches a vehicle owned by the given user.
func (s *VehicleStore) GetByID(ctx context.Context, id, userID string) (model.Vehicle, error) {
	var r vehicleRow
	err := s.db.GetContext(ctx, &r, `SELECT * FROM vehicles WHERE id = ? AND user_id = ?`, id, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Vehicle{}, corestorage.ErrNotFound
	}
	if err != nil {
		return model.Vehicle{}, fmt.Errorf("select vehicle: %w", err)
	}
	return r.toModel(), nil
}

// ListByUser returns the user's vehicles, newest first.
func (s *VehicleStore) ListByUser(ctx context.Context, userID string) ([]model.Vehicle, error) {
	var rows []vehicleRow
	err := s.db.SelectContext(ctx, &rows, `SELECT * FROM vehicles WHERE user_id = ? ORDER BY created_at DESC, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("select vehicles: %w", err)
	}
	out := make([]model.Vehicle, len(rows))
	for i, r := range rows {
		out[i] = r.toModel()
	}
	return out, nil
}

const vehicleUpdate = `UPDATE vehicles SET
    catalog_vehicle_id = :catalog_vehicle_id, make = :make, model = :model,
    year = :year, vehicle_type = :vehicle_type, fuel_type = :fuel_type,
    cylinders = :cylinders, transmission = :transmission, vin = :vin,
    license_plate = :license_plate, color = :color,
    current_mileage = :current_mileage,
    average_mileage_daily = :average_mileage_daily,
    average_mileage_weekly = :average_mileage_weekly,
    average_mileage_monthly = :average_mileage_monthly,
    engine_hours = :engine_hours, acquisition_date = :acquisition_date,
    usage_type = :usage_type, driving_conditions = :driving_conditions,
    image_urls = :image_urls, updated_at = :updated_at
WHERE id = :id AND user_id = :user_id`

// Update stores the full vehicle record. Callers merge partial payloads
// before calling.
func (s *VehicleStore) Update(ctx context.Context, v model.Vehicle) (model.Vehicle, error) {
	v.UpdatedAt = nowUTC()
	res, err := s.db.NamedExecContext(ctx, vehicleUpdate, toVehicleRow(v))
	if err != nil {
		return model.Vehicle{}, fmt.Errorf("update vehicle: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.Vehicle{}, corestorage.ErrNotFound
	}
	return s.GetByID(ctx, v.ID, v.UserID)
}

// Delete removes a vehicle owned by the given user.
func (s *VehicleStore) Delete(ctx context.Context, id, userID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM vehicles WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete vehicle: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return corestorage.ErrNotFound
	}
	return nil
}

// AdvanceMileage raises the odometer reading, ignoring stale readings.
func (s *VehicleStore) AdvanceMileage(ctx context.Context, vehicleID string, odometerKm int) error {
	if odometerKm <= 0 {
		return nil
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE vehicles SET current_mileage = ?, updated_at = ? WHERE id = ? AND current_mileage < ?`,
		odometerKm, nowUTC(), vehicleID, odometerKm)
	if err != nil {
		return fmt.Errorf("advance mileage: %w", err)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}
	var exists int
	if err := s.db.GetContext(ctx, &exists, `SELECT COUNT(1) FROM vehicles WHERE id = ?`, vehicleID); err != nil {
		return fmt.Errorf("check vehicle: %w", err)
	}
	if exists == 0 {
		return corestorage.ErrNotFound
	}
	return nil
}
