package vehicles_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/fleetsense/autocare/api/auth"
	"github.com/fleetsense/autocare/api/vehicles"
	"github.com/fleetsense/autocare/core/model"
	"github.com/fleetsense/autocare/infra/logger"
	"github.com/fleetsense/autocare/infra/storage"
)

type client struct {
	t     *testing.T
	base  string
	token string
}

func newClient(t *testing.T) client {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	issuer := auth.NewIssuer("test-secret", 60)
	user, err := store.Users.Create(context.Background(), model.User{Email: "u@example.com", PasswordHash: "x"})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	token, err := issuer.Sign(user)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	h := vehicles.NewHandler(store.Vehicles, logger.NopLogger{})
	r := chi.NewRouter()
	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware(issuer))
		r.Route("/api/vehicles", h.Routes)
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return client{t: t, base: srv.URL, token: token}
}

func (c client) do(method, path string, body any) (*http.Response, []byte) {
	c.t.Helper()
	var reader io.Reader
	if body != nil {
		buf, _ := json.Marshal(body)
		reader = bytes.NewReader(buf)
	}
	req, _ := http.NewRequest(method, c.base+path, reader)
	req.Header.Set("Authorization", "Bearer "+c.token)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		c.t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)
	return resp, data
}

func TestVehicleCRUD(t *testing.T) {
	c := newClient(t)

	resp, data := c.do(http.MethodPost, "/api/vehicles/", map[string]any{
		"make":            "Toyota",
		"model":           "Corolla",
		"year":            2015,
		"current_mileage": 85000,
		"usage_type":      "city",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d: %s", resp.StatusCode, data)
	}
	var v model.Vehicle
	if err := json.Unmarshal(data, &v); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if v.ID == "" || v.UserID == "" {
		t.Fatalf("ids not assigned: %+v", v)
	}

	resp, data = c.do(http.MethodGet, "/api/vehicles/", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list status = %d", resp.StatusCode)
	}
	var list []model.Vehicle
	if err := json.Unmarshal(data, &list); err != nil || len(list) != 1 {
		t.Fatalf("list: %v, %d entries", err, len(list))
	}

	resp, data = c.do(http.MethodPut, "/api/vehicles/"+v.ID, map[string]any{
		"current_mileage":    90000,
		"driving_conditions": "severe",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update status = %d: %s", resp.StatusCode, data)
	}
	var updated model.Vehicle
	_ = json.Unmarshal(data, &updated)
	if updated.CurrentMileage != 90000 || updated.DrivingConditions != "severe" {
		t.Fatalf("partial update lost fields: %+v", updated)
	}
	if updated.Make != "Toyota" {
		t.Fatalf("untouched field overwritten: %+v", updated)
	}

	resp, _ = c.do(http.MethodDelete, "/api/vehicles/"+v.ID, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete status = %d", resp.StatusCode)
	}
	resp, _ = c.do(http.MethodGet, "/api/vehicles/"+v.ID, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("get after delete status = %d", resp.StatusCode)
	}
}

func TestVehicleCreateAcceptsLegacyMileage(t *testing.T) {
	c := newClient(t)

	resp, data := c.do(http.MethodPost, "/api/vehicles/", map[string]any{
		"make":    "Honda",
		"model":   "Civic",
		"year":    2018,
		"mileage": 42000,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d: %s", resp.StatusCode, data)
	}
	var v model.Vehicle
	_ = json.Unmarshal(data, &v)
	if v.CurrentMileage != 42000 {
		t.Fatalf("legacy mileage not promoted: %+v", v)
	}
}

func TestVehicleCreateValidation(t *testing.T) {
	c := newClient(t)

	resp, data := c.do(http.MethodPost, "/api/vehicles/", map[string]any{
		"make": "Toyota",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("missing fields status = %d: %s", resp.StatusCode, data)
	}

	resp, data = c.do(http.MethodPost, "/api/vehicles/", map[string]any{
		"make":            "Toyota",
		"model":           "Corolla",
		"year":            2015,
		"current_mileage": 1000,
		"usage_type":      "underwater",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad enum status = %d: %s", resp.StatusCode, data)
	}
}
