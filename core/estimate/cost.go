package estimate

import (
	"math"
	"strings"

	"github.com/fleetsense/autocare/core/features"
	"github.com/fleetsense/autocare/core/model"
	"github.com/fleetsense/autocare/core/predictor"
)

// Cost estimation constants. Clamp bounds, rounding and blend weights are
// named so tests can assert on them directly.
const (
	// DefaultServiceType is assumed when the caller does not name one.
	DefaultServiceType = "major_service"
	// FallbackModelLabel marks answers produced by the rule-based tier.
	FallbackModelLabel = "rule_based_fallback"
	// DefaultCostModelName labels an unnamed trained cost regressor.
	DefaultCostModelName = "trained_regressor"

	// MinCostEstimate is the floor applied to every cost answer.
	MinCostEstimate = 500.0

	mileageCapKm  = 300000.0
	ageCapYears   = 25.0
	ageFactorStep = 0.015
	// severeCityFactor applies when the vehicle is driven in the city under
	// severe conditions.
	severeCityFactor = 1.12

	baseCostWeight    = 0.7
	historyCostWeight = 0.3
)

// defaultServiceCosts is the fallback base-cost table in MXN.
var defaultServiceCosts = map[string]float64{
	"oil_change":    1400,
	"minor_service": 3200,
	"major_service": 8500,
	"brake_service": 4200,
	"tire_service":  2600,
}

// BaseCost returns the fallback base cost for a service type. Unknown types
// cost the same as a major service.
func BaseCost(serviceType string) float64 {
	if c, ok := defaultServiceCosts[serviceType]; ok {
		return c
	}
	return defaultServiceCosts[DefaultServiceType]
}

// CostEstimate is the cost answer with its provenance label.
type CostEstimate struct {
	EstimatedCost float64 `json:"estimated_cost"`
	ServiceType   string  `json:"service_type"`
	ModelUsed     string  `json:"model_used"`
}

// EstimateCost predicts the cost of the next service of the given type. The
// trained regressor answers when available; otherwise the deterministic
// formula over base cost, mileage, age, usage and service history does.
func (e *Engine) EstimateCost(vehicle model.Vehicle, history []model.ServiceRecord, serviceType string) CostEstimate {
	serviceType = strings.TrimSpace(serviceType)
	if serviceType == "" {
		serviceType = DefaultServiceType
	}
	f := features.BuildCostFeatures(vehicle, history, serviceType, e.now())

	if h, ok := e.gateway.Load(predictor.KindCost); ok {
		if y, err := h.Model.Predict(f.Row()); err == nil {
			name := h.Name
			if name == "" {
				name = DefaultCostModelName
			}
			return CostEstimate{
				EstimatedCost: round2(math.Max(y, MinCostEstimate)),
				ServiceType:   serviceType,
				ModelUsed:     name,
			}
		} else if e.log != nil {
			e.log.Warnf("cost predictor failed, using fallback: %v", err)
		}
	}

	base := BaseCost(serviceType)
	mileageFactor := 1 + math.Min(float64(f.CurrentMileage), mileageCapKm)/mileageCapKm
	ageFactor := 1 + math.Min(float64(f.VehicleAge), ageCapYears)*ageFactorStep
	usageFactor := 1.0
	if strings.EqualFold(vehicle.UsageType, "city") && strings.EqualFold(vehicle.DrivingConditions, "severe") {
		usageFactor = severeCityFactor
	}

	blended := base
	if f.HistoricalAvgCost > 0 {
		blended = baseCostWeight*base + historyCostWeight*f.HistoricalAvgCost
	}
	estimateValue := blended * mileageFactor * ageFactor * usageFactor

	return CostEstimate{
		EstimatedCost: round2(math.Max(estimateValue, MinCostEstimate)),
		ServiceType:   serviceType,
		ModelUsed:     FallbackModelLabel,
	}
}

// round2 rounds to two decimal places, the precision of every cost answer.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
