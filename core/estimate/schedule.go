package estimate

import (
	"github.com/fleetsense/autocare/core/model"
)

// Schedule composition constants.
const (
	// DefaultOilChangeKm is the built-in oil-change distance.
	DefaultOilChangeKm = 10000
	// DefaultGeneralCheckDays is the built-in general-check period.
	DefaultGeneralCheckDays = 180

	// ScheduleConfidence is attached to every schedule regardless of tier.
	// It is a documented limitation, not derived from model uncertainty.
	ScheduleConfidence = 0.72

	scheduleNotes = "Baseline prediction with personalized interval."
)

// IntervalConfig carries the named maintenance distances and periods. The
// zero value means "use built-in defaults"; an external configuration source
// overrides fields individually.
type IntervalConfig struct {
	OilChangeKm      int `json:"oil_change_km"`
	GeneralCheckDays int `json:"general_check_days"`
}

// DefaultIntervalConfig returns the built-in defaults.
func DefaultIntervalConfig() IntervalConfig {
	return IntervalConfig{OilChangeKm: DefaultOilChangeKm, GeneralCheckDays: DefaultGeneralCheckDays}
}

// withDefaults fills absent fields from the built-ins.
func (c IntervalConfig) withDefaults() IntervalConfig {
	if c.OilChangeKm <= 0 {
		c.OilChangeKm = DefaultOilChangeKm
	}
	if c.GeneralCheckDays <= 0 {
		c.GeneralCheckDays = DefaultGeneralCheckDays
	}
	return c
}

// Schedule is the maintenance schedule answer.
type Schedule struct {
	RecommendedNextOilChangeKm  int                    `json:"recommended_next_oil_change_km"`
	RecommendedGeneralCheckDate string                 `json:"recommended_general_check_date"`
	OptimizedOilInterval        IntervalRecommendation `json:"optimized_oil_interval"`
	Confidence                  float64                `json:"confidence"`
	Notes                       string                 `json:"notes"`
}

// PredictNextMaintenance composes the optimized oil interval with the
// vehicle's odometer and last service date into next-due mileage and date.
// The general check counts from the most recent service when its date parses,
// from the current UTC date otherwise.
func (e *Engine) PredictNextMaintenance(vehicle model.Vehicle, history []model.ServiceRecord, cfg IntervalConfig) Schedule {
	cfg = cfg.withDefaults()

	rec := e.OptimizeOilInterval(vehicle, cfg.OilChangeKm)
	nextOilKm := vehicle.EffectiveMileage() + rec.RecommendedOilChangeIntervalKm

	baseDate := e.now().UTC()
	if len(history) > 0 {
		if d, ok := history[0].ParsedServiceDate(); ok {
			baseDate = d
		}
	}
	nextCheck := baseDate.AddDate(0, 0, cfg.GeneralCheckDays)

	return Schedule{
		RecommendedNextOilChangeKm:  nextOilKm,
		RecommendedGeneralCheckDate: nextCheck.Format(model.ServiceDateLayout),
		OptimizedOilInterval:        rec,
		Confidence:                  ScheduleConfidence,
		Notes:                       scheduleNotes,
	}
}
