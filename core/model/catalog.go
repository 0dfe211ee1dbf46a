package model

import "time"

// CatalogVehicle is a seed-data entry describing a known make/model, used to
// prefill vehicle registrations.
type CatalogVehicle struct {
	ID           string    `json:"id" db:"id"`
	Make         string    `json:"make,omitempty" db:"make"`
	Model        string    `json:"model,omitempty" db:"model"`
	VehicleType  string    `json:"vehicle_type,omitempty" db:"vehicle_type"`
	FuelType     string    `json:"fuel_type,omitempty" db:"fuel_type"`
	Transmission string    `json:"transmission,omitempty" db:"transmission"`
	ImageURLs    []string  `json:"image_urls,omitempty" db:"-"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}
