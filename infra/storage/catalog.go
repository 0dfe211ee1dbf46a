package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/fleetsense/autocare/core/model"
	corestorage "github.com/fleetsense/autocare/core/storage"
)

// CatalogStore implements corestorage.CatalogRepository.
type CatalogStore struct {
	db *sqlx.DB
}

type catalogRow struct {
	ID           string    `db:"id"`
	Make         string    `db:"make"`
	Model        string    `db:"model"`
	VehicleType  string    `db:"vehicle_type"`
	FuelType     string    `db:"fuel_type"`
	Transmission string    `db:"transmission"`
	ImageURLs    string    `db:"image_urls"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func (r catalogRow) toModel() model.CatalogVehicle {
	var urls []string
	_ = json.Unmarshal([]byte(r.ImageURLs), &urls)
	return model.CatalogVehicle{
		ID:           r.ID,
		Make:         r.Make,
		Model:        r.Model,
		VehicleType:  r.VehicleType,
		FuelType:     r.FuelType,
		Transmission: r.Transmission,
		ImageURLs:    urls,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

// UpsertMany inserts or refreshes catalog entries, returning how many were
// newly inserted. Entries without an id are skipped.
func (s *CatalogStore) UpsertMany(ctx context.Context, items []model.CatalogVehicle) (int, error) {
	inserted := 0
	now := nowUTC()
	for _, item := range items {
		id := strings.ToLower(strings.TrimSpace(item.ID))
		if id == "" {
			continue
		}
		urls, _ := json.Marshal(item.ImageURLs)
		if item.ImageURLs == nil {
			urls = []byte("[]")
		}
		var exists int
		if err := s.db.GetContext(ctx, &exists, `SELECT COUNT(1) FROM vehicle_catalog WHERE id = ?`, id); err != nil {
			return inserted, fmt.Errorf("check catalog %s: %w", id, err)
		}
		_, err := s.db.ExecContext(ctx, `INSERT INTO vehicle_catalog
            (id, make, model, vehicle_type, fuel_type, transmission, image_urls, created_at, updated_at)
            VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
            ON CONFLICT(id) DO UPDATE SET
                make = excluded.make, model = excluded.model,
                vehicle_type = excluded.vehicle_type, fuel_type = excluded.fuel_type,
                transmission = excluded.transmission, image_urls = excluded.image_urls,
                updated_at = excluded.updated_at`,
			id, item.Make, item.Model, item.VehicleType, item.FuelType, item.Transmission, string(urls), now, now)
		if err != nil {
			return inserted, fmt.Errorf("upsert catalog %s: %w", id, err)
		}
		if exists == 0 {
			inserted++
		}
	}
	return inserted, nil
}

// List returns the catalog sorted by make then model.
func (s *CatalogStore) List(ctx context.Context) ([]model.CatalogVehicle, error) {
	var rows []catalogRow
	if err := s.db.SelectContext(ctx, &rows, `SELECT * FROM vehicle_catalog ORDER BY make, model, id`); err != nil {
		return nil, fmt.Errorf("select catalog: %w", err)
	}
	out := make([]model.CatalogVehicle, len(rows))
	for i, r := range rows {
		out[i] = r.toModel()
	}
	return out, nil
}

// GetByID fetches one catalog entry.
func (s *CatalogStore) GetByID(ctx context.Context, id string) (model.CatalogVehicle, error) {
	var r catalogRow
	err := s.db.GetContext(ctx, &r, `SELECT * FROM vehicle_catalog WHERE id = ?`, strings.ToLower(strings.TrimSpace(id)))
	if errors.Is(err, sql.ErrNoRows) {
		return model.CatalogVehicle{}, corestorage.ErrNotFound
	}
	if err != nil {
		return model.CatalogVehicle{}, fmt.Errorf("select catalog: %w", err)
	}
	return r.toModel(), nil
}
