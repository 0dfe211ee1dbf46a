// Package maintenance serves the service-history CRUD endpoints.
package maintenance

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fleetsense/autocare/api/auth"
	"github.com/fleetsense/autocare/api/httpx"
	"github.com/fleetsense/autocare/core/logger"
	"github.com/fleetsense/autocare/core/model"
	"github.com/fleetsense/autocare/core/storage"
)

// Handler serves maintenance records for the authenticated user.
type Handler struct {
	history  storage.HistoryRepository
	vehicles storage.VehicleRepository
	log      logger.Logger
}

// NewHandler creates the maintenance handler. The vehicle repository is used
// to verify ownership before attaching records.
func NewHandler(history storage.HistoryRepository, vehicles storage.VehicleRepository, log logger.Logger) *Handler {
	return &Handler{history: history, vehicles: vehicles, log: log}
}

// Routes registers the endpoints. All of them require authentication.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/vehicle/{vehicleID}", h.listByVehicle)
	r.Get("/{recordID}", h.get)
	r.Put("/{recordID}", h.update)
	r.Delete("/{recordID}", h.remove)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var rec model.ServiceRecord
	if err := httpx.Decode(r, &rec); err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if problems := model.ValidateServiceRecord(rec, false); len(problems) > 0 {
		httpx.ValidationError(w, problems)
		return
	}
	userID := auth.UserID(r.Context())
	if _, err := h.vehicles.GetByID(r.Context(), rec.VehicleID, userID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			httpx.Error(w, http.StatusNotFound, "vehicle not found")
			return
		}
		h.log.Errorf("verify vehicle: %v", err)
		httpx.Error(w, http.StatusInternalServerError, "could not verify vehicle")
		return
	}
	rec.UserID = userID
	created, err := h.history.Create(r.Context(), rec)
	if err != nil {
		h.log.Errorf("create maintenance: %v", err)
		httpx.Error(w, http.StatusInternalServerError, "could not create record")
		return
	}
	httpx.RespondJSON(w, http.StatusCreated, created)
}

func (h *Handler) listByVehicle(w http.ResponseWriter, r *http.Request) {
	list, err := h.history.ListByVehicle(r.Context(), auth.UserID(r.Context()), chi.URLParam(r, "vehicleID"))
	if err != nil {
		h.log.Errorf("list maintenance: %v", err)
		httpx.Error(w, http.StatusInternalServerError, "could not list records")
		return
	}
	httpx.RespondJSON(w, http.StatusOK, list)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	rec, err := h.history.GetByID(r.Context(), chi.URLParam(r, "recordID"), auth.UserID(r.Context()))
	if errors.Is(err, storage.ErrNotFound) {
		httpx.Error(w, http.StatusNotFound, "record not found")
		return
	}
	if err != nil {
		h.log.Errorf("get maintenance: %v", err)
		httpx.Error(w, http.StatusInternalServerError, "could not load record")
		return
	}
	httpx.RespondJSON(w, http.StatusOK, rec)
}

type patch struct {
	ServiceType *string  `json:"service_type"`
	Description *string  `json:"description"`
	Cost        *float64 `json:"cost"`
	Mileage     *int     `json:"mileage"`
	ServiceDate *string  `json:"service_date"`
}

func (p patch) apply(rec *model.ServiceRecord) {
	if p.ServiceType != nil {
		rec.ServiceType = *p.ServiceType
	}
	if p.Description != nil {
		rec.Description = *p.Description
	}
	if p.Cost != nil {
		rec.Cost = *p.Cost
	}
	if p.Mileage != nil {
		rec.Mileage = *p.Mileage
	}
	if p.ServiceDate != nil {
		rec.ServiceDate = *p.ServiceDate
	}
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	existing, err := h.history.GetByID(r.Context(), chi.URLParam(r, "recordID"), userID)
	if errors.Is(err, storage.ErrNotFound) {
		httpx.Error(w, http.StatusNotFound, "record not found")
		return
	}
	if err != nil {
		h.log.Errorf("load maintenance: %v", err)
		httpx.Error(w, http.StatusInternalServerError, "could not load record")
		return
	}
	var p patch
	if err := httpx.Decode(r, &p); err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	p.apply(&existing)
	if problems := model.ValidateServiceRecord(existing, true); len(problems) > 0 {
		httpx.ValidationError(w, problems)
		return
	}
	updated, err := h.history.Update(r.Context(), existing)
	if err != nil {
		h.log.Errorf("update maintenance: %v", err)
		httpx.Error(w, http.StatusInternalServerError, "could not update record")
		return
	}
	httpx.RespondJSON(w, http.StatusOK, updated)
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	err := h.history.Delete(r.Context(), chi.URLParam(r, "recordID"), auth.UserID(r.Context()))
	if errors.Is(err, storage.ErrNotFound) {
		httpx.Error(w, http.StatusNotFound, "record not found")
		return
	}
	if err != nil {
		h.log.Errorf("delete maintenance: %v", err)
		httpx.Error(w, http.StatusInternalServerError, "could not delete record")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
