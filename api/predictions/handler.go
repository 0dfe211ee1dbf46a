// Package predictions serves the cost and schedule prediction endpoints.
package predictions

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/fleetsense/autocare/api/auth"
	"github.com/fleetsense/autocare/api/httpx"
	"github.com/fleetsense/autocare/core/estimate"
	"github.com/fleetsense/autocare/core/logger"
	"github.com/fleetsense/autocare/core/metrics"
	"github.com/fleetsense/autocare/core/storage"
	"github.com/fleetsense/autocare/internal/eventbus"
)

// Handler runs the prediction engine against stored vehicles and persists
// the results.
type Handler struct {
	engine      *estimate.Engine
	vehicles    storage.VehicleRepository
	history     storage.HistoryRepository
	predictions storage.PredictionRepository
	bus         *eventbus.Bus[metrics.PredictionEvent]
	intervals   estimate.IntervalConfig
	log         logger.Logger
}

// NewHandler creates the predictions handler. bus may be nil when telemetry
// export is disabled.
func NewHandler(
	engine *estimate.Engine,
	vehicles storage.VehicleRepository,
	history storage.HistoryRepository,
	predictions storage.PredictionRepository,
	bus *eventbus.Bus[metrics.PredictionEvent],
	intervals estimate.IntervalConfig,
	log logger.Logger,
) *Handler {
	return &Handler{
		engine:      engine,
		vehicles:    vehicles,
		history:     history,
		predictions: predictions,
		bus:         bus,
		intervals:   intervals,
		log:         log,
	}
}

// Routes registers the endpoints. All of them require authentication.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/predict/{vehicleID}", h.predict)
	r.Get("/predictions/{vehicleID}", h.list)
}

type predictRequest struct {
	ServiceType string `json:"service_type"`
}

func (h *Handler) predict(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	vehicleID := chi.URLParam(r, "vehicleID")

	vehicle, err := h.vehicles.GetByID(r.Context(), vehicleID, userID)
	if errors.Is(err, storage.ErrNotFound) {
		httpx.Error(w, http.StatusNotFound, "vehicle not found")
		return
	}
	if err != nil {
		h.log.Errorf("load vehicle: %v", err)
		httpx.Error(w, http.StatusInternalServerError, "could not load vehicle")
		return
	}

	var req predictRequest
	if r.ContentLength > 0 {
		if err := httpx.Decode(r, &req); err != nil {
			httpx.Error(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	history, err := h.history.ListByVehicle(r.Context(), userID, vehicleID)
	if err != nil {
		h.log.Errorf("load history: %v", err)
		httpx.Error(w, http.StatusInternalServerError, "could not load history")
		return
	}

	prediction := h.engine.Predict(vehicle, history, h.intervals, req.ServiceType)

	rec, err := h.predictions.Create(r.Context(), storage.PredictionRecord{
		UserID:     userID,
		VehicleID:  vehicleID,
		Prediction: prediction,
	})
	if err != nil {
		// The prediction itself succeeded; log the persistence failure and
		// still answer the client.
		h.log.Errorf("persist prediction: %v", err)
	}

	if h.bus != nil {
		h.bus.Publish(metrics.PredictionEvent{
			VehicleID:         vehicleID,
			ServiceType:       prediction.CostPrediction.ServiceType,
			CostModelUsed:     prediction.CostPrediction.ModelUsed,
			IntervalModelUsed: prediction.MaintenanceSchedule.OptimizedOilInterval.ModelUsed,
			EstimatedCost:     prediction.CostPrediction.EstimatedCost,
			IntervalKm:        prediction.MaintenanceSchedule.OptimizedOilInterval.RecommendedOilChangeIntervalKm,
			Confidence:        prediction.MaintenanceSchedule.Confidence,
			Time:              time.Now().UTC(),
		})
	}

	httpx.RespondJSON(w, http.StatusOK, map[string]any{
		"id":                   rec.ID,
		"vehicle_id":           vehicleID,
		"maintenance_schedule": prediction.MaintenanceSchedule,
		"cost_prediction":      prediction.CostPrediction,
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	list, err := h.predictions.ListByVehicle(r.Context(), auth.UserID(r.Context()), chi.URLParam(r, "vehicleID"))
	if err != nil {
		h.log.Errorf("list predictions: %v", err)
		httpx.Error(w, http.StatusInternalServerError, "could not list predictions")
		return
	}
	httpx.RespondJSON(w, http.StatusOK, list)
}
