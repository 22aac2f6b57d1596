package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"gym-club-management/internal/config"
	"gym-club-management/internal/infra/api"
	pg "gym-club-management/internal/infra/db/postgres"
	"gym-club-management/internal/infra/logging"
	"gym-club-management/internal/infra/metrics"
	red "gym-club-management/internal/infra/redis"
	"gym-club-management/internal/infra/sched"
	"gym-club-management/internal/usecase"
)

var (
	version = "dev"
	commit  = "none"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Warn().Msg("development mode enabled")
	}

	metrics.MustRegister()
	metrics.SetBuildInfo(version, commit)

	// ---- Postgres ----
	pool := pg.MustConnectPostgres(cfg.Database.URL)
	defer pool.Close()

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	defer redisClient.Close()
	rateLimiter := red.NewRateLimiter(redisClient)
	locker := red.NewLocker(redisClient)

	// ---- Repositories ----
	adherentRepo := pg.NewPostgresAdherentRepo(pool)
	planRepo := pg.NewPlanRepoCacheDecorator(pg.NewPostgresPlanRepo(pool), redisClient)
	subRepo := pg.NewPostgresSubscriptionRepo(pool)
	accountRepo := pg.NewPostgresAccountRepo(pool)

	// ---- Use cases ----
	clock := usecase.SystemClock()
	authUC := usecase.NewAuthUseCase(accountRepo, clock)
	adherentUC := usecase.NewAdherentUseCase(adherentRepo, planRepo, subRepo, accountRepo, clock).
		WithTxManager(pg.NewTxManager(pool))
	planUC := usecase.NewPlanUseCase(planRepo, clock)
	subUC := usecase.NewSubscriptionUseCase(adherentRepo, subRepo, clock, logger)
	reportUC := usecase.NewReportUseCase(adherentRepo, planRepo, clock)

	// ---- Gauge refresh (db pool + membership breakdown) ----
	go func() {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				st := pool.Stat()
				metrics.SetDBPoolStats(st.TotalConns(), st.IdleConns(), st.AcquiredConns())
				if counts, err := reportUC.AdherentsByStatus(ctx); err == nil {
					metrics.SetAdherentsTotal(counts)
				}
			}
		}
	}()

	// ---- Expiry sweep ----
	worker := sched.NewExpiryWorker(cfg.Scheduler.ExpiryCheckInterval, cfg.Scheduler.LockTTL, subUC, locker, logger)
	go func() {
		if err := worker.Run(ctx); err != nil && ctx.Err() == nil {
			logger.Error().Err(err).Msg("expiry worker stopped")
		}
	}()

	// ---- HTTP ----
	authManager := api.NewAuthManager(cfg.Auth.JWTSecret, cfg.Auth.CookieSecure, "", cfg.Auth.TokenTTL)
	server := api.NewServer(cfg, *logger, authManager, rateLimiter, authUC, adherentUC, planUC, subUC, reportUC)
	if err := server.Run(ctx); err != nil {
		logger.Error().Err(err).Msg("http server error")
	}

	logger.Info().Msg("shutdown complete")
}
