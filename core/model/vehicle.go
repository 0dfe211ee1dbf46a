package model

import "time"

// Vehicle represents a vehicle registered by a user, together with the usage
// profile consumed by the prediction engine. Apart from the identity fields,
// everything is optional: the engine substitutes neutral defaults for missing
// values instead of propagating them into arithmetic.
type Vehicle struct {
	ID        string `json:"id" db:"id"`
	UserID    string `json:"user_id" db:"user_id"`
	CatalogID string `json:"catalog_vehicle_id,omitempty" db:"catalog_vehicle_id"`

	Make         string `json:"make,omitempty" db:"make"`
	Model        string `json:"model,omitempty" db:"model"`
	Year         int    `json:"year,omitempty" db:"year"`
	VehicleType  string `json:"vehicle_type,omitempty" db:"vehicle_type"`
	FuelType     string `json:"fuel_type,omitempty" db:"fuel_type"`
	Cylinders    int    `json:"cylinders,omitempty" db:"cylinders"`
	Transmission string `json:"transmission,omitempty" db:"transmission"`
	VIN          string `json:"vin,omitempty" db:"vin"`
	LicensePlate string `json:"license_plate,omitempty" db:"license_plate"`
	Color        string `json:"color,omitempty" db:"color"`

	CurrentMileage int `json:"current_mileage" db:"current_mileage"`
	// Mileage is a deprecated alias kept for old clients. It is only consulted
	// when CurrentMileage is zero.
	Mileage int `json:"mileage,omitempty" db:"-"`

	AverageMileageDaily   int `json:"average_mileage_daily,omitempty" db:"average_mileage_daily"`
	AverageMileageWeekly  int `json:"average_mileage_weekly,omitempty" db:"average_mileage_weekly"`
	AverageMileageMonthly int `json:"average_mileage_monthly,omitempty" db:"average_mileage_monthly"`
	EngineHours           int `json:"engine_hours,omitempty" db:"engine_hours"`

	AcquisitionDate   string `json:"acquisition_date,omitempty" db:"acquisition_date"`
	UsageType         string `json:"usage_type,omitempty" db:"usage_type"`
	DrivingConditions string `json:"driving_conditions,omitempty" db:"driving_conditions"`

	ImageURLs []string `json:"image_urls,omitempty" db:"-"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// EffectiveMileage returns the odometer reading used for estimations:
// CurrentMileage when set, the legacy Mileage field otherwise, zero when both
// are absent.
func (v Vehicle) EffectiveMileage() int {
	if v.CurrentMileage > 0 {
		return v.CurrentMileage
	}
	if v.Mileage > 0 {
		return v.Mileage
	}
	return 0
}

// Age returns the vehicle age in years relative to the given reference year.
// A missing model year yields zero, treating the vehicle as brand-new.
func (v Vehicle) Age(refYear int) int {
	if v.Year <= 0 {
		return 0
	}
	age := refYear - v.Year
	if age < 0 {
		return 0
	}
	return age
}
