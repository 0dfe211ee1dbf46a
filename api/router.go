// Package api assembles the HTTP surface of the service.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/fleetsense/autocare/api/auth"
	"github.com/fleetsense/autocare/api/catalog"
	"github.com/fleetsense/autocare/api/httpx"
	"github.com/fleetsense/autocare/api/maintenance"
	"github.com/fleetsense/autocare/api/predictions"
	"github.com/fleetsense/autocare/api/vehicles"
	"github.com/fleetsense/autocare/core/logger"
)

// Handlers groups the per-concern handlers mounted by the router.
type Handlers struct {
	Auth        *auth.Handler
	Vehicles    *vehicles.Handler
	Maintenance *maintenance.Handler
	Catalog     *catalog.Handler
	Predictions *predictions.Handler
}

// NewRouter mounts the API routes with the shared middleware stack.
func NewRouter(h Handlers, issuer *auth.Issuer, log logger.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(log))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		httpx.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			h.Auth.Routes(r)
			r.Group(func(r chi.Router) {
				r.Use(auth.Middleware(issuer))
				h.Auth.ProtectedRoutes(r)
			})
		})

		r.Route("/catalog", func(r chi.Router) {
			h.Catalog.Routes(r)
			r.Group(func(r chi.Router) {
				r.Use(auth.Middleware(issuer))
				h.Catalog.ProtectedRoutes(r)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware(issuer))
			r.Route("/vehicles", h.Vehicles.Routes)
			r.Route("/maintenance", h.Maintenance.Routes)
			h.Predictions.Routes(r)
		})
	})

	return r
}

func requestLogger(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			log.Debugf("%s %s -> %d (%s)", r.Method, r.URL.Path, ww.Status(), time.Since(start))
		})
	}
}
