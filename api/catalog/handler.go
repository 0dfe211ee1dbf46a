// Package catalog serves the read-only vehicle catalog used to prefill
// registrations.
package catalog

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fleetsense/autocare/api/httpx"
	"github.com/fleetsense/autocare/core/logger"
	"github.com/fleetsense/autocare/core/model"
	"github.com/fleetsense/autocare/core/storage"
)

// Handler serves catalog listings.
type Handler struct {
	store storage.CatalogRepository
	log   logger.Logger
}

// NewHandler creates the catalog handler.
func NewHandler(store storage.CatalogRepository, log logger.Logger) *Handler {
	return &Handler{store: store, log: log}
}

// Routes registers the read endpoints.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/{catalogID}", h.get)
}

// ProtectedRoutes registers the seed endpoint, which requires a token.
func (h *Handler) ProtectedRoutes(r chi.Router) {
	r.Post("/seed", h.seed)
}

func (h *Handler) seed(w http.ResponseWriter, r *http.Request) {
	var items []model.CatalogVehicle
	if err := httpx.Decode(r, &items); err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(items) == 0 {
		httpx.Error(w, http.StatusBadRequest, "no catalog entries given")
		return
	}
	inserted, err := h.store.UpsertMany(r.Context(), items)
	if err != nil {
		h.log.Errorf("seed catalog: %v", err)
		httpx.Error(w, http.StatusInternalServerError, "could not seed catalog")
		return
	}
	h.log.Infof("catalog seeded over HTTP, %d new entries", inserted)
	httpx.RespondJSON(w, http.StatusOK, map[string]int{"inserted": inserted})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	list, err := h.store.List(r.Context())
	if err != nil {
		h.log.Errorf("list catalog: %v", err)
		httpx.Error(w, http.StatusInternalServerError, "could not list catalog")
		return
	}
	httpx.RespondJSON(w, http.StatusOK, list)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	item, err := h.store.GetByID(r.Context(), chi.URLParam(r, "catalogID"))
	if errors.Is(err, storage.ErrNotFound) {
		httpx.Error(w, http.StatusNotFound, "catalog entry not found")
		return
	}
	if err != nil {
		h.log.Errorf("get catalog: %v", err)
		httpx.Error(w, http.StatusInternalServerError, "could not load catalog entry")
		return
	}
	httpx.RespondJSON(w, http.StatusOK, item)
}
