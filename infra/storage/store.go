// Package storage implements the repository contracts over an embedded
// SQLite database.
package storage

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// Store owns the database handle and exposes one sub-store per repository
// contract declared in core/storage.
type Store struct {
	db *sqlx.DB

	Vehicles    *VehicleStore
	History     *HistoryStore
	Users       *UserStore
	Catalog     *CatalogStore
	Predictions *PredictionStore
}

const schema = `
CREATE TABLE IF NOT EXISTS users (
    id            TEXT PRIMARY KEY,
    email         TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    name          TEXT NOT NULL DEFAULT '',
    created_at    TIMESTAMP NOT NULL
);
CREATE TABLE IF NOT EXISTS vehicles (
    id                      TEXT PRIMARY KEY,
    user_id                 TEXT NOT NULL,
    catalog_vehicle_id      TEXT NOT NULL DEFAULT '',
    make                    TEXT NOT NULL DEFAULT '',
    model                   TEXT NOT NULL DEFAULT '',
    year                    INTEGER NOT NULL DEFAULT 0,
    vehicle_type            TEXT NOT NULL DEFAULT '',
    fuel_type               TEXT NOT NULL DEFAULT '',
    cylinders               INTEGER NOT NULL DEFAULT 0,
    transmission            TEXT NOT NULL DEFAULT '',
    vin                     TEXT NOT NULL DEFAULT '',
    license_plate           TEXT NOT NULL DEFAULT '',
    color                   TEXT NOT NULL DEFAULT '',
    current_mileage         INTEGER NOT NULL DEFAULT 0,
    average_mileage_daily   INTEGER NOT NULL DEFAULT 0,
    average_mileage_weekly  INTEGER NOT NULL DEFAULT 0,
    average_mileage_monthly INTEGER NOT NULL DEFAULT 0,
    engine_hours            INTEGER NOT NULL DEFAULT 0,
    acquisition_date        TEXT NOT NULL DEFAULT '',
    usage_type              TEXT NOT NULL DEFAULT '',
    driving_conditions      TEXT NOT NULL DEFAULT '',
    image_urls              TEXT NOT NULL DEFAULT '[]',
    created_at              TIMESTAMP NOT NULL,
    updated_at              TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_vehicles_user ON vehicles(user_id);
CREATE TABLE IF NOT EXISTS maintenance (
    id           TEXT PRIMARY KEY,
    user_id      TEXT NOT NULL,
    vehicle_id   TEXT NOT NULL,
    service_type TEXT NOT NULL DEFAULT '',
    description  TEXT NOT NULL DEFAULT '',
    cost         REAL NOT NULL DEFAULT 0,
    mileage      INTEGER NOT NULL DEFAULT 0,
    service_date TEXT NOT NULL DEFAULT '',
    created_at   TIMESTAMP NOT NULL,
    updated_at   TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_maintenance_vehicle ON maintenance(user_id, vehicle_id);
CREATE TABLE IF NOT EXISTS vehicle_catalog (
    id           TEXT PRIMARY KEY,
    make         TEXT NOT NULL DEFAULT '',
    model        TEXT NOT NULL DEFAULT '',
    vehicle_type TEXT NOT NULL DEFAULT '',
    fuel_type    TEXT NOT NULL DEFAULT '',
    transmission TEXT NOT NULL DEFAULT '',
    image_urls   TEXT NOT NULL DEFAULT '[]',
    created_at   TIMESTAMP NOT NULL,
    updated_at   TIMESTAMP NOT NULL
);
CREATE TABLE IF NOT EXISTS predictions (
    id         TEXT PRIMARY KEY,
    user_id    TEXT NOT NULL,
    vehicle_id TEXT NOT NULL,
    prediction TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_predictions_vehicle ON predictions(user_id, vehicle_id);
`

// Open opens or creates the database at path and ensures the schema.
func Open(path string) (*Store, error) {
	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// modernc sqlite serializes writes; a single connection avoids
	// SQLITE_BUSY under concurrent handlers.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return &Store{
		db:          db,
		Vehicles:    &VehicleStore{db: db},
		History:     &HistoryStore{db: db},
		Users:       &UserStore{db: db},
		Catalog:     &CatalogStore{db: db},
		Predictions: &PredictionStore{db: db},
	}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

func nowUTC() time.Time { return time.Now().UTC().Truncate(time.Second) }
