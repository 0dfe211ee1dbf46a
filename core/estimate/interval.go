package estimate

import (
	"math"

	"github.com/fleetsense/autocare/core/features"
	"github.com/fleetsense/autocare/core/model"
	"github.com/fleetsense/autocare/core/predictor"
)

// Interval optimization constants.
const (
	// DefaultIntervalModelName labels an unnamed trained interval regressor.
	DefaultIntervalModelName = "trained_interval_model"

	// Clamp window for the model tier.
	ModelIntervalMinKm = 4000
	ModelIntervalMaxKm = 15000

	// Clamp window for the fallback tier.
	FallbackIntervalMinKm = 5000
	FallbackIntervalMaxKm = 12000

	cityPenaltyKm   = 1200
	severePenaltyKm = 1800

	highMileageThresholdKm = 120000
	highMileagePenaltyKm   = 800

	highMonthlyThresholdKm = 2500
	highMonthlyPenaltyKm   = 700
)

const (
	modelIntervalReason    = "Interval personalized by trained model"
	cityIntervalQualifier  = " and urban usage"
	fallbackIntervalReason = "Interval adjusted for usage pattern and driving conditions"
)

// IntervalRecommendation is the oil-change interval answer with provenance.
type IntervalRecommendation struct {
	RecommendedOilChangeIntervalKm int    `json:"recommended_oil_change_interval_km"`
	ModelUsed                      string `json:"model_used"`
	Reason                         string `json:"reason"`
}

// OptimizeOilInterval recommends an oil-change distance interval starting from
// the configured default. Both tiers clamp their answer to a fixed window, so
// pathological inputs can never push the recommendation out of physical range.
func (e *Engine) OptimizeOilInterval(vehicle model.Vehicle, defaultIntervalKm int) IntervalRecommendation {
	f := features.BuildIntervalFeatures(vehicle)

	if h, ok := e.gateway.Load(predictor.KindInterval); ok {
		if y, err := h.Model.Predict(f.Row()); err == nil {
			km := clampInt(int(math.Round(y)), ModelIntervalMinKm, ModelIntervalMaxKm)
			name := h.Name
			if name == "" {
				name = DefaultIntervalModelName
			}
			reason := modelIntervalReason
			if f.UsageType == "city" {
				reason += cityIntervalQualifier
			}
			return IntervalRecommendation{
				RecommendedOilChangeIntervalKm: km,
				ModelUsed:                      name,
				Reason:                         reason,
			}
		} else if e.log != nil {
			e.log.Warnf("interval predictor failed, using fallback: %v", err)
		}
	}

	penalty := 0
	if f.UsageType == "city" {
		penalty += cityPenaltyKm
	}
	if f.DrivingConditions == "severe" {
		penalty += severePenaltyKm
	}
	if f.CurrentMileage > highMileageThresholdKm {
		penalty += highMileagePenaltyKm
	}
	if f.AverageMileageMonthly > highMonthlyThresholdKm {
		penalty += highMonthlyPenaltyKm
	}

	recommended := clampInt(defaultIntervalKm-penalty, FallbackIntervalMinKm, FallbackIntervalMaxKm)
	return IntervalRecommendation{
		RecommendedOilChangeIntervalKm: recommended,
		ModelUsed:                      FallbackModelLabel,
		Reason:                         fallbackIntervalReason,
	}
}

func clampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
