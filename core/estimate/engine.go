package estimate

import (
	"time"

	"github.com/fleetsense/autocare/core/logger"
	"github.com/fleetsense/autocare/core/model"
	"github.com/fleetsense/autocare/core/predictor"
)

// Engine runs the two-tier estimators. It is stateless per call; the only
// shared state is the predictor gateway's write-once cache, which is safe for
// concurrent readers.
type Engine struct {
	gateway *predictor.Gateway
	log     logger.Logger
	now     func() time.Time
}

// NewEngine creates an Engine over the given predictor store.
func NewEngine(store predictor.Store, log logger.Logger) *Engine {
	return &Engine{
		gateway: predictor.NewGateway(store),
		log:     log,
		now:     time.Now,
	}
}

// Prediction is the combined record returned for one prediction request.
type Prediction struct {
	MaintenanceSchedule Schedule     `json:"maintenance_schedule"`
	CostPrediction      CostEstimate `json:"cost_prediction"`
}

// Predict composes the maintenance schedule with the cost estimate for the
// requested service type.
func (e *Engine) Predict(vehicle model.Vehicle, history []model.ServiceRecord, cfg IntervalConfig, serviceType string) Prediction {
	return Prediction{
		MaintenanceSchedule: e.PredictNextMaintenance(vehicle, history, cfg),
		CostPrediction:      e.EstimateCost(vehicle, history, serviceType),
	}
}
