// Package vehicles serves the vehicle CRUD endpoints.
package vehicles

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

// Handler serves vehicle CRUD for the authenticated user.
type Handler struct {
	store storage.VehicleRepository
	log   logger.Logger
}

// NewHandler creates the vehicles handler.
func NewHandler(store storage.VehicleRepository, log logger.Logger) *Handler {
	return &Handler{store: store, log: log}
}

// Routes registers the endpoints. All of them require authentication.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{vehicleID}", h.get)
	r.Put("/{vehicleID}", h.update)
	r.Delete("/{vehicleID}", h.remove)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var v model.Vehicle
	if err := httpx.Decode(r, &v); err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if problems := model.ValidateVehicle(v, false); len(problems) > 0 {
		httpx.ValidationError(w, problems)
		return
	}
	v.UserID = auth.UserID(r.Context())
	created, err := h.store.Create(r.Context(), v)
	if err != nil {
		h.log.Errorf("create vehicle: %v", err)
		httpx.Error(w, http.StatusInternalServerError, "could not create vehicle")
		return
	}
	httpx.RespondJSON(w, http.StatusCreated, created)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	list, err := h.store.ListByUser(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		h.log.Errorf("list vehicles: %v", err)
		httpx.Error(w, http.StatusInternalServerError, "could not list vehicles")
		return
	}
	httpx.RespondJSON(w, http.StatusOK, list)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	v, err := h.store.GetByID(r.Context(), chi.URLParam(r, "vehicleID"), auth.UserID(r.Context()))
	if errors.Is(err, storage.ErrNotFound) {
		httpx.Error(w, http.StatusNotFound, "vehicle not found")
		return
	}
	if err != nil {
		h.log.Errorf("get vehicle: %v", err)
		httpx.Error(w, http.StatusInternalServerError, "could not load vehicle")
		return
	}
	httpx.RespondJSON(w, http.StatusOK, v)
}

// patch mirrors the writable vehicle fields with pointers so absent fields
// are distinguishable from zero values.
type patch struct {
	CatalogID             *string   `json:"catalog_vehicle_id"`
	Make                  *string   `json:"make"`
	Model                 *string   `json:"model"`
	Year                  *int      `json:"year"`
	VehicleType           *string   `json:"vehicle_type"`
	FuelType              *string   `json:"fuel_type"`
	Cylinders             *int      `json:"cylinders"`
	Transmission          *string   `json:"transmission"`
	VIN                   *string   `json:"vin"`
	LicensePlate          *string   `json:"license_plate"`
	Color                 *string   `json:"color"`
	CurrentMileage        *int      `json:"current_mileage"`
	Mileage               *int      `json:"mileage"`
	AverageMileageDaily   *int      `json:"average_mileage_daily"`
	AverageMileageWeekly  *int      `json:"average_mileage_weekly"`
	AverageMileageMonthly *int      `json:"average_mileage_monthly"`
	EngineHours           *int      `json:"engine_hours"`
	AcquisitionDate       *string   `json:"acquisition_date"`
	UsageType             *string   `json:"usage_type"`
	DrivingConditions     *string   `json:"driving_conditions"`
	ImageURLs             *[]string `json:"image_urls"`
}

func (p patch) apply(v *model.Vehicle) {
	setStr := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	setInt := func(dst *int, src *int) {
		if src != nil {
			*dst = *src
		}
	}
	setStr(&v.CatalogID, p.CatalogID)
	setStr(&v.Make, p.Make)
	setStr(&v.Model, p.Model)
	setInt(&v.Year, p.Year)
	setStr(&v.VehicleType, p.VehicleType)
	setStr(&v.FuelType, p.FuelType)
	setInt(&v.Cylinders, p.Cylinders)
	setStr(&v.Transmission, p.Transmission)
	setStr(&v.VIN, p.VIN)
	setStr(&v.LicensePlate, p.LicensePlate)
	setStr(&v.Color, p.Color)
	setInt(&v.CurrentMileage, p.CurrentMileage)
	if p.Mileage != nil && p.CurrentMileage == nil {
		v.CurrentMileage = *p.Mileage
	}
	setInt(&v.AverageMileageDaily, p.AverageMileageDaily)
	setInt(&v.AverageMileageWeekly, p.AverageMileageWeekly)
	setInt(&v.AverageMileageMonthly, p.AverageMileageMonthly)
	setInt(&v.EngineHours, p.EngineHours)
	setStr(&v.AcquisitionDate, p.AcquisitionDate)
	setStr(&v.UsageType, p.UsageType)
	setStr(&v.DrivingConditions, p.DrivingConditions)
	if p.ImageURLs != nil {
		v.ImageURLs = *p.ImageURLs
	}
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	existing, err := h.store.GetByID(r.Context(), chi.URLParam(r, "vehicleID"), userID)
	if errors.Is(err, storage.ErrNotFound) {
		httpx.Error(w, http.StatusNotFound, "vehicle not found")
		return
	}
	if err != nil {
		h.log.Errorf("load vehicle: %v", err)
		httpx.Error(w, http.StatusInternalServerError, "could not load vehicle")
		return
	}
	var p patch
	if err := httpx.Decode(r, &p); err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	p.apply(&existing)
	if problems := model.ValidateVehicle(existing, true); len(problems) > 0 {
		httpx.ValidationError(w, problems)
		return
	}
	updated, err := h.store.Update(r.Context(), existing)
	if err != nil {
		h.log.Errorf("update vehicle: %v", err)
		httpx.Error(w, http.StatusInternalServerError, "could not update vehicle")
		return
	}
	httpx.RespondJSON(w, http.StatusOK, updated)
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	err := h.store.Delete(r.Context(), chi.URLParam(r, "vehicleID"), auth.UserID(r.Context()))
	if errors.Is(err, storage.ErrNotFound) {
		httpx.Error(w, http.StatusNotFound, "vehicle not found")
		return
	}
	if err != nil {
		h.log.Errorf("delete vehicle: %v", err)
		httpx.Error(w, http.StatusInternalServerError, "could not delete vehicle")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
