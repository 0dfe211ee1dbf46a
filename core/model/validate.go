package model

import (
	"fmt"
	"strings"
)

// Domain vocabularies for vehicle profile fields. Values outside these sets
// are rejected on write; the engine itself never rejects, it defaults.
var (
	ValidVehicleTypes      = set("sedan", "suv", "pickup", "hatchback", "coupe", "van", "wagon", "other")
	ValidFuelTypes         = set("gasoline", "diesel", "electric", "hybrid")
	ValidTransmissions     = set("manual", "automatic")
	ValidUsageTypes        = set("city", "highway", "mixed")
	ValidDrivingConditions = set("severe", "normal", "mild")
)

func set(vals ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(vals))
	for _, v := range vals {
		m[v] = struct{}{}
	}
	return m
}

func keys(m map[string]struct{}) string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	// Deterministic order for error messages.
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j] < out[j-1]; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return strings.Join(out, ", ")
}

// ValidateVehicle checks a vehicle payload. With partial set, required fields
// may be absent (update semantics). It returns a list of human-readable
// problems, empty when the payload is acceptable.
func ValidateVehicle(v Vehicle, partial bool) []string {
	var errs []string
	if !partial {
		if v.Make == "" {
			errs = append(errs, "make is required")
		}
		if v.Model == "" {
			errs = append(errs, "model is required")
		}
		if v.Year == 0 {
			errs = append(errs, "year is required")
		}
		if v.CurrentMileage == 0 && v.Mileage == 0 {
			errs = append(errs, "current_mileage is required")
		}
	}
	if v.Year < 0 {
		errs = append(errs, "year must be a positive integer")
	}
	if v.CurrentMileage < 0 || v.Mileage < 0 {
		errs = append(errs, "current_mileage must be non-negative")
	}
	checkEnum := func(field, val string, allowed map[string]struct{}) {
		if val == "" {
			return
		}
		if _, ok := allowed[strings.ToLower(val)]; !ok {
			errs = append(errs, fmt.Sprintf("%s must be one of: %s", field, keys(allowed)))
		}
	}
	checkEnum("vehicle_type", v.VehicleType, ValidVehicleTypes)
	checkEnum("fuel_type", v.FuelType, ValidFuelTypes)
	checkEnum("transmission", v.Transmission, ValidTransmissions)
	checkEnum("usage_type", v.UsageType, ValidUsageTypes)
	checkEnum("driving_conditions", v.DrivingConditions, ValidDrivingConditions)
	return errs
}

// ValidateServiceRecord checks a maintenance payload before persistence.
func ValidateServiceRecord(r ServiceRecord, partial bool) []string {
	var errs []string
	if !partial {
		if r.VehicleID == "" {
			errs = append(errs, "vehicle_id is required")
		}
		if r.ServiceType == "" {
			errs = append(errs, "service_type is required")
		}
	}
	if r.Cost < 0 {
		errs = append(errs, "cost must be non-negative")
	}
	if r.Mileage < 0 {
		errs = append(errs, "mileage must be non-negative")
	}
	if r.ServiceDate != "" {
		if _, ok := r.ParsedServiceDate(); !ok {
			errs = append(errs, "service_date must be an ISO calendar date (YYYY-MM-DD)")
		}
	}
	return errs
}
