// Package features builds the flat feature sets consumed by the prediction
// tiers. Building is a pure function of its inputs: vehicle and history are
// never mutated, and nothing is cached between calls.
package features

import (
	"strings"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/fleetsense/autocare/core/model"
	"github.com/fleetsense/autocare/core/predictor"
)

// Defaults substituted for absent categorical fields.
const (
	UnknownCategory          = "unknown"
	DefaultUsageType         = "mixed"
	DefaultDrivingConditions = "normal"
	DefaultFuelType          = "gasoline"
	DefaultVehicleType       = "sedan"
)

// CostFeatureSet is the input row for cost estimation.
type CostFeatureSet struct {
	ServiceType           string
	Make                  string
	Model                 string
	FuelType              string
	Transmission          string
	VehicleType           string
	CurrentMileage        int
	AverageMileageMonthly int
	Cylinders             int
	VehicleAge            int
	HistoricalAvgCost     float64
}

// IntervalFeatureSet is the input row for oil-change interval optimization.
type IntervalFeatureSet struct {
	UsageType             string
	DrivingConditions     string
	FuelType              string
	VehicleType           string
	CurrentMileage        int
	AverageMileageMonthly int
	EngineHours           int
}

// BuildCostFeatures derives the cost feature set. The reference time supplies
// the calendar year for the vehicle-age feature; it is the only time
// dependency in the builder.
func BuildCostFeatures(vehicle model.Vehicle, history []model.ServiceRecord, serviceType string, ref time.Time) CostFeatureSet {
	return CostFeatureSet{
		ServiceType:           serviceType,
		Make:                  orUnknown(vehicle.Make),
		Model:                 orUnknown(vehicle.Model),
		FuelType:              orUnknown(vehicle.FuelType),
		Transmission:          orUnknown(vehicle.Transmission),
		VehicleType:           orUnknown(vehicle.VehicleType),
		CurrentMileage:        vehicle.EffectiveMileage(),
		AverageMileageMonthly: nonNegative(vehicle.AverageMileageMonthly),
		Cylinders:             nonNegative(vehicle.Cylinders),
		VehicleAge:            vehicle.Age(ref.UTC().Year()),
		HistoricalAvgCost:     HistoricalAvgCost(history),
	}
}

// BuildIntervalFeatures derives the interval feature set with domain defaults
// for absent categorical fields.
func BuildIntervalFeatures(vehicle model.Vehicle) IntervalFeatureSet {
	return IntervalFeatureSet{
		UsageType:             orDefault(vehicle.UsageType, DefaultUsageType),
		DrivingConditions:     orDefault(vehicle.DrivingConditions, DefaultDrivingConditions),
		FuelType:              orDefault(vehicle.FuelType, DefaultFuelType),
		VehicleType:           orDefault(vehicle.VehicleType, DefaultVehicleType),
		CurrentMileage:        vehicle.EffectiveMileage(),
		AverageMileageMonthly: nonNegative(vehicle.AverageMileageMonthly),
		EngineHours:           nonNegative(vehicle.EngineHours),
	}
}

// HistoricalAvgCost returns the mean of the positive costs in the history,
// zero when none exist. Non-positive and absent costs are excluded from the
// mean, not zeroed into it.
func HistoricalAvgCost(history []model.ServiceRecord) float64 {
	var costs []float64
	for _, r := range history {
		if r.Cost > 0 {
			costs = append(costs, r.Cost)
		}
	}
	if len(costs) == 0 {
		return 0
	}
	return stat.Mean(costs, nil)
}

// Row flattens the cost feature set for a predictor.
func (f CostFeatureSet) Row() predictor.Row {
	return predictor.Row{
		Numeric: map[string]float64{
			"current_mileage":         float64(f.CurrentMileage),
			"average_mileage_monthly": float64(f.AverageMileageMonthly),
			"cylinders":               float64(f.Cylinders),
			"vehicle_age":             float64(f.VehicleAge),
			"historical_avg_cost":     f.HistoricalAvgCost,
		},
		Categorical: map[string]string{
			"service_type": f.ServiceType,
			"make":         f.Make,
			"model":        f.Model,
			"fuel_type":    f.FuelType,
			"transmission": f.Transmission,
			"vehicle_type": f.VehicleType,
		},
	}
}

// Row flattens the interval feature set for a predictor.
func (f IntervalFeatureSet) Row() predictor.Row {
	return predictor.Row{
		Numeric: map[string]float64{
			"current_mileage":         float64(f.CurrentMileage),
			"average_mileage_monthly": float64(f.AverageMileageMonthly),
			"engine_hours":            float64(f.EngineHours),
		},
		Categorical: map[string]string{
			"usage_type":         f.UsageType,
			"driving_conditions": f.DrivingConditions,
			"fuel_type":          f.FuelType,
			"vehicle_type":       f.VehicleType,
		},
	}
}

func orUnknown(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return UnknownCategory
	}
	return s
}

// orDefault normalizes enum-valued fields to their lowercase level so the
// penalty rules and trained encodings see one spelling.
func orDefault(s, def string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	return strings.ToLower(s)
}

func nonNegative(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
