package auth_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/fleetsense/autocare/api/auth"
	"github.com/fleetsense/autocare/infra/logger"
	"github.com/fleetsense/autocare/infra/storage"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	issuer := auth.NewIssuer("test-secret", 60)
	h := auth.NewHandler(store.Users, issuer, logger.NopLogger{})

	r := chi.NewRouter()
	r.Route("/api/auth", func(r chi.Router) {
		h.Routes(r)
		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware(issuer))
			h.ProtectedRoutes(r)
		})
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	buf, _ := json.Marshal(body)
	resp, err := http.Post(url, "application/json", bytes.NewReader(buf))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	return resp
}

func TestRegisterLoginProfile(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/auth/register", map[string]string{
		"email":    "driver@example.com",
		"password": "correct-horse",
		"name":     "Driver",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register status = %d", resp.StatusCode)
	}
	var session struct {
		Token string `json:"token"`
		User  struct {
			ID    string `json:"id"`
			Email string `json:"email"`
		} `json:"user"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		t.Fatalf("decode register: %v", err)
	}
	resp.Body.Close()
	if session.Token == "" || session.User.ID == "" {
		t.Fatalf("incomplete session: %+v", session)
	}

	resp = postJSON(t, srv.URL+"/api/auth/login", map[string]string{
		"email":    "Driver@Example.com",
		"password": "correct-horse",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login status = %d", resp.StatusCode)
	}
	resp.Body.Close()

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/api/auth/profile", nil)
	req.Header.Set("Authorization", "Bearer "+session.Token)
	profileResp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET /profile: %v", err)
	}
	defer profileResp.Body.Close()
	if profileResp.StatusCode != http.StatusOK {
		t.Fatalf("profile status = %d", profileResp.StatusCode)
	}
	var profile struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(profileResp.Body).Decode(&profile); err != nil {
		t.Fatalf("decode profile: %v", err)
	}
	if profile.Email != "driver@example.com" {
		t.Fatalf("profile email = %q", profile.Email)
	}
}

func TestRegisterRejectsDuplicatesAndWeakInput(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/auth/register", map[string]string{
		"email": "dup@example.com", "password": "long-enough",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("first register status = %d", resp.StatusCode)
	}

	resp = postJSON(t, srv.URL+"/api/auth/register", map[string]string{
		"email": "dup@example.com", "password": "long-enough",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("duplicate register status = %d, want 409", resp.StatusCode)
	}

	resp = postJSON(t, srv.URL+"/api/auth/register", map[string]string{
		"email": "weak@example.com", "password": "short",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("weak password status = %d, want 400", resp.StatusCode)
	}

	resp = postJSON(t, srv.URL+"/api/auth/register", map[string]string{
		"email": "not-an-email", "password": "long-enough",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad email status = %d, want 400", resp.StatusCode)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/auth/register", map[string]string{
		"email": "user@example.com", "password": "right-password",
	})
	resp.Body.Close()

	resp = postJSON(t, srv.URL+"/api/auth/login", map[string]string{
		"email": "user@example.com", "password": "wrong-password",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("wrong password status = %d, want 401", resp.StatusCode)
	}

	resp = postJSON(t, srv.URL+"/api/auth/login", map[string]string{
		"email": "ghost@example.com", "password": "whatever-password",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("unknown user status = %d, want 401", resp.StatusCode)
	}
}

func TestProtectedRouteRequiresToken(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/auth/profile")
	if err != nil {
		t.Fatalf("GET /profile: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}
}
