package catalog_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/fleetsense/autocare/api/catalog"
	"github.com/fleetsense/autocare/core/model"
	"github.com/fleetsense/autocare/infra/logger"
	"github.com/fleetsense/autocare/infra/storage"
)

func newCatalogServer(t *testing.T) *httptest.Server {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	if _, err := store.Catalog.UpsertMany(context.Background(), []model.CatalogVehicle{
		{ID: "toyota-corolla", Make: "Toyota", Model: "Corolla", VehicleType: "sedan", FuelType: "gasoline"},
		{ID: "honda-crv", Make: "Honda", Model: "CR-V", VehicleType: "suv", FuelType: "gasoline"},
	}); err != nil {
		t.Fatalf("seed catalog: %v", err)
	}

	h := catalog.NewHandler(store.Catalog, logger.NopLogger{})
	r := chi.NewRouter()
	r.Route("/api/catalog", func(r chi.Router) {
		h.Routes(r)
		h.ProtectedRoutes(r)
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func TestCatalogSeedEndpoint(t *testing.T) {
	srv := newCatalogServer(t)

	payload := `[{"id": "kia-rio", "make": "Kia", "model": "Rio", "vehicle_type": "sedan"}]`
	resp, err := http.Post(srv.URL+"/api/catalog/seed", "application/json", strings.NewReader(payload))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var out struct {
		Inserted int `json:"inserted"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Inserted != 1 {
		t.Fatalf("inserted = %d, want 1", out.Inserted)
	}

	resp, err = http.Post(srv.URL+"/api/catalog/seed", "application/json", strings.NewReader(`[]`))
	if err != nil {
		t.Fatalf("POST empty: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("empty seed status = %d", resp.StatusCode)
	}
}

func TestCatalogList(t *testing.T) {
	srv := newCatalogServer(t)

	resp, err := http.Get(srv.URL + "/api/catalog/")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var list []model.CatalogVehicle
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(list) != 2 || list[0].Make != "Honda" {
		t.Fatalf("unexpected listing: %+v", list)
	}
}

func TestCatalogGet(t *testing.T) {
	srv := newCatalogServer(t)

	resp, err := http.Get(srv.URL + "/api/catalog/toyota-corolla")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var item model.CatalogVehicle
	if err := json.NewDecoder(resp.Body).Decode(&item); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if item.Model != "Corolla" {
		t.Fatalf("unexpected entry: %+v", item)
	}

	resp, err = http.Get(srv.URL + "/api/catalog/unknown-id")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("missing entry status = %d", resp.StatusCode)
	}
}
