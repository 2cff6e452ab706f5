package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/thanhvo/shiftdesk/internal/auth"
	"github.com/thanhvo/shiftdesk/internal/controller"
	"github.com/thanhvo/shiftdesk/internal/metrics"
	"github.com/thanhvo/shiftdesk/internal/schedule"
)

// Backend is the full scheduling backend surface the API needs: everything
// the grid controllers use plus login.
type Backend interface {
	controller.Backend
	Login(ctx context.Context, email, password string) (schedule.Employee, error)
}

// RouterDeps holds all dependencies for the API router.
type RouterDeps struct {
	Backend        Backend
	Sessions       *auth.SessionStore
	Metrics        *metrics.Metrics
	AllowedOrigins []string
}

// NewRouter builds the chi router with all routes and middleware.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	// Global middleware.
	r.Use(chimw.Recoverer)
	r.Use(requestIDMiddleware)
	r.Use(secureHeaders)
	r.Use(corsMiddleware(deps.AllowedOrigins))
	r.Use(slogRequestLogger)
	if deps.Metrics != nil {
		r.Use(metricsMiddleware(deps.Metrics))
	}

	// Handlers.
	grids := newGridRegistry()
	authH := newAuthHandler(deps.Backend, deps.Sessions, grids, deps.Metrics)
	sched := newScheduleHandler(deps.Backend, grids, deps.Metrics)
	admin := newAdminHandler(deps.Backend, grids, deps.Metrics)

	// Health check.
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Metrics exposition.
	if deps.Metrics != nil {
		r.Get("/metrics", promhttp.HandlerFor(deps.Metrics.Registry(), promhttp.HandlerOpts{}).ServeHTTP)
		r.Get("/metrics/summary", deps.Metrics.Handler())
	}

	r.Route("/api/v1", func(v1 chi.Router) {
		v1.Post("/auth/login", authH.Login)
		v1.Post("/auth/logout", authH.Logout)

		// Employee routes (session required).
		v1.Group(func(sr chi.Router) {
			sr.Use(auth.SessionMiddleware(deps.Sessions))

			sr.Get("/auth/me", authH.Me)

			sr.Post("/schedule/load", sched.Load)
			sr.Post("/schedule/toggle", sched.Toggle)
			sr.Post("/schedule/save", sched.Save)
			sr.Get("/schedule/view", sched.View)

			// Leader routes (admin session required).
			sr.Route("/admin", func(ar chi.Router) {
				ar.Use(auth.LeaderMiddleware())

				ar.Post("/schedule/load", admin.Load)
				ar.Post("/schedule/toggle", admin.Toggle)
				ar.Post("/schedule/select", admin.Select)
				ar.Post("/schedule/quick-assign", admin.QuickAssign)
				ar.Post("/schedule/save", admin.Save)
				ar.Post("/schedule/lock", admin.Lock)
				ar.Get("/schedule/view", admin.View)
				ar.Get("/schedule/summary", admin.Summary)
			})
		})
	})

	return r
}

// slogRequestLogger is a simple structured logging middleware using slog.
func slogRequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		slog.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"bytes", ww.BytesWritten(),
			"request_id", RequestIDFromContext(r.Context()),
		)
	})
}

// metricsMiddleware records request counts and latency per route pattern.
func metricsMiddleware(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			pattern := chi.RouteContext(r.Context()).RoutePattern()
			if pattern == "" {
				pattern = "unmatched"
			}
			m.HTTPRequestsTotal.WithLabelValues(r.Method, pattern, fmt.Sprintf("%d", ww.Status())).Inc()
			m.HTTPRequestDuration.WithLabelValues(r.Method, pattern).Observe(time.Since(start).Seconds())
		})
	}
}
