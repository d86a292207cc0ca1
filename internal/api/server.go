package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/mechanio/garage/internal/api/handler"
	mw "github.com/mechanio/garage/internal/api/middleware"
	"github.com/mechanio/garage/internal/config"
	"github.com/mechanio/garage/internal/core"
	"github.com/mechanio/garage/internal/onboarding"
)

type Server struct {
	router     chi.Router
	logger     zerolog.Logger
	services   *core.Services
	onboarding *onboarding.Service
	corePool   *pgxpool.Pool
	cfg        *config.Config
}

func NewServer(logger zerolog.Logger, coreDB *pgxpool.Pool, services *core.Services, onboardingSvc *onboarding.Service, cfg *config.Config) *Server {
	s := &Server{
		router:     chi.NewRouter(),
		logger:     logger,
		services:   services,
		onboarding: onboardingSvc,
		corePool:   coreDB,
		cfg:        cfg,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(mw.RequestLogger(s.logger))
	s.router.Use(middleware.Recoverer)
	s.router.Use(mw.Metrics)
}

func (s *Server) setupRoutes() {
	// Prometheus metrics endpoint
	s.router.Handle("/metrics", promhttp.Handler())

	// Health check endpoints
	s.router.Get("/healthz", s.handleHealthz)
	s.router.Get("/readyz", s.handleReadyz)

	// Platform bootstrap and login are unauthenticated by nature.
	setup := handler.NewSetup(s.services.SuperAdmin)
	s.router.Post("/setup/super-admin", setup.CreateSuperAdmin)

	session := handler.NewSession(s.services.Session, s.onboarding)
	s.router.Post("/api/v1/sessions", session.Login)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Use(mw.Auth(s.services.Session, s.onboarding))

		r.Delete("/sessions", session.Logout)

		// Onboarding workflow
		onb := handler.NewOnboarding(s.onboarding)
		r.Get("/onboarding/state", onb.GetState)
		r.Post("/onboarding/steps/complete", onb.CompleteStep)
		r.Post("/onboarding/reset", onb.Reset)

		// Pricing plans
		plan := handler.NewPlan(s.services.Plan)
		r.Get("/plans", plan.List)
		r.Post("/plans/selection", plan.Select)

		// Admin accounts
		admin := handler.NewAdmin(s.services.Admin)
		r.Post("/admins", admin.Create)
		r.Get("/admins/me", admin.GetCurrent)

		// Organizations
		org := handler.NewOrganization(s.services.Organization)
		r.Post("/organizations", org.Create)
		r.Get("/organizations/current", org.GetCurrent)

		// SMS validation
		sms := handler.NewSMS(s.services.SMS, s.logger)
		r.Post("/sms/request", sms.RequestCode)
		r.Post("/sms/validate", sms.ValidateCode)

		// Garages
		garage := handler.NewGarage(s.services.Garage)
		r.Get("/garages", garage.List)
		r.Post("/garages", garage.Create)
		r.Get("/garages/{id}", garage.Get)
	})
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	checks := map[string]string{}
	healthy := true

	if err := s.corePool.Ping(ctx); err != nil {
		checks["core_db"] = err.Error()
		healthy = false
	} else {
		checks["core_db"] = "ok"
	}

	w.Header().Set("Content-Type", "application/json")
	if healthy {
		w.WriteHeader(http.StatusOK)
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	json.NewEncoder(w).Encode(checks)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
