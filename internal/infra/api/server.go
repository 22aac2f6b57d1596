package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"gym-club-management/internal/config"
	"gym-club-management/internal/domain/model"
	red "gym-club-management/internal/infra/redis"
	"gym-club-management/internal/usecase"
)

// Server owns the HTTP surface: route wiring, auth guards and graceful
// shutdown. All business behavior lives in the use cases it holds.
type Server struct {
	cfg     *config.Config
	log     zerolog.Logger
	auth    *AuthManager
	limiter *red.RateLimiter // nil disables login throttling

	authUC     *usecase.AuthUseCase
	adherentUC *usecase.AdherentUseCase
	planUC     *usecase.PlanUseCase
	subUC      *usecase.SubscriptionUseCase
	reportUC   *usecase.ReportUseCase
}

func NewServer(
	cfg *config.Config,
	logger zerolog.Logger,
	auth *AuthManager,
	limiter *red.RateLimiter,
	authUC *usecase.AuthUseCase,
	adherentUC *usecase.AdherentUseCase,
	planUC *usecase.PlanUseCase,
	subUC *usecase.SubscriptionUseCase,
	reportUC *usecase.ReportUseCase,
) *Server {
	return &Server{
		cfg:        cfg,
		log:        logger.With().Str("component", "api").Logger(),
		auth:       auth,
		limiter:    limiter,
		authUC:     authUC,
		adherentUC: adherentUC,
		planUC:     planUC,
		subUC:      subUC,
		reportUC:   reportUC,
	}
}

// Handler assembles the full route tree.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(
		TraceID(),
		RequestLog(&s.log),
		Recover(&s.log),
		Timeout(s.cfg.Server.RequestTimeout),
	)

	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", s.handleRegister)
			r.Post("/login", s.handleLogin)
			r.Post("/logout", s.handleLogout)
			r.With(RequireAuth(s.auth), RequireAdmin()).
				Post("/admin/register", s.handleAdminRegister)
		})

		r.Group(func(r chi.Router) {
			r.Use(RequireAuth(s.auth))

			r.Route("/adherents", func(r chi.Router) {
				r.With(RequireAdmin()).Post("/", s.handleAdherentCreate)
				r.With(RequireAdmin()).Get("/", s.handleAdherentList)
				r.With(RequireAdmin()).Get("/active", s.handleAdherentListActive)
				r.With(RequireAdmin()).Get("/search", s.handleAdherentSearch)
				r.With(RequireAdmin()).Get("/status/{status}", s.handleAdherentListByStatus)
				r.With(RequireAdmin()).Get("/email/{email}", s.handleAdherentGetByEmail)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", s.handleAdherentGet)
					r.With(RequireAdmin()).Put("/", s.handleAdherentUpdate)
					r.With(RequireAdmin()).Delete("/", s.handleAdherentDeactivate)
					r.With(RequireAdmin()).Post("/suspend", s.handleAdherentSuspend)
					r.With(RequireAdmin()).Post("/reactivate", s.handleAdherentReactivate)

					r.With(RequireAdmin()).Post("/subscription", s.handleSubscriptionAssign)
					r.With(RequireAdmin()).Post("/subscription/{subID}", s.handleSubscriptionLink)
					r.With(RequireAdmin()).Delete("/subscription", s.handleSubscriptionUnlink)

					r.Get("/has-active-subscription", s.handleHasActiveSubscription)
					r.Get("/eligible-for-session", s.handleEligibleForSession)
					r.Get("/weekly-session-limit", s.handleWeeklySessionLimit)

					r.With(RequireAdmin()).Put("/certificate", s.handleCertificateUpdate)
					r.Get("/certificate/valid", s.handleCertificateValid)

					r.Post("/sessions/book", s.handleSessionBook)
					r.Post("/sessions/cancel", s.handleSessionCancel)
					r.Get("/sessions/remaining", s.handleSessionsRemaining)
				})
			})

			r.Route("/plans", func(r chi.Router) {
				r.With(RequireAdmin()).Post("/", s.handlePlanCreate)
				r.Get("/", s.handlePlanList)
				r.Get("/type/{type}", s.handlePlanGetByType)
				r.Get("/{id}", s.handlePlanGet)
				r.With(RequireAdmin()).Put("/{id}", s.handlePlanUpdate)
				r.With(RequireAdmin()).Patch("/{id}/price", s.handlePlanUpdatePrice)
				r.With(RequireAdmin()).Delete("/{id}", s.handlePlanDelete)
			})

			r.Get("/subscriptions/{id}", s.handleSubscriptionGet)
			r.With(RequireAdmin()).Patch("/subscriptions/{id}", s.handleSubscriptionReschedule)

			r.Route("/reports", func(r chi.Router) {
				r.Use(RequireAdmin())
				r.Get("/general-statistics", s.handleReportGeneral)
				r.Get("/subscription-statistics", s.handleReportSubscriptions)
				r.Get("/monthly/{year}/{month}", s.handleReportMonthly)
				r.Get("/adherents-by-status", s.handleReportByStatus)
			})

			r.Route("/profile", func(r chi.Router) {
				r.Get("/", s.handleProfileGet)
				r.Put("/", s.handleProfileUpdate)
				r.Put("/password", s.handleProfilePassword)
			})
		})
	})

	return r
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.cfg.Server.Port),
		Handler:      s.Handler(),
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", srv.Addr).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
	defer cancel()
	s.log.Info().Msg("http server shutting down")
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// canAccessAdherent gates member-facing routes: admins see everyone, a USER
// token only its own adherent row.
func canAccessAdherent(c *Claims, adherentID int64) bool {
	if c == nil {
		return false
	}
	if c.Role == string(model.RoleAdmin) {
		return true
	}
	return c.AdherentID != nil && *c.AdherentID == adherentID
}
