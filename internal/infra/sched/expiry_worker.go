package sched

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"gym-club-management/internal/domain"
	"gym-club-management/internal/infra/logging"
	"gym-club-management/internal/infra/metrics"
	red "gym-club-management/internal/infra/redis"
	"gym-club-management/internal/usecase"
)

const sweepLockKey = "lock:expiry_sweep"

// ExpiryWorker periodically expires lapsed memberships via the use case.
// A Redis lock keeps concurrent instances from sweeping at the same time;
// the sweep itself is idempotent, so a lost lock only costs duplicate reads.
type ExpiryWorker struct {
	interval time.Duration
	lockTTL  time.Duration
	subUC    *usecase.SubscriptionUseCase
	locker   red.Locker
	log      *zerolog.Logger
}

func NewExpiryWorker(interval, lockTTL time.Duration, subUC *usecase.SubscriptionUseCase, locker red.Locker, logger *zerolog.Logger) *ExpiryWorker {
	exprLog := logger.With().Str("component", "ExpiryWorker").Logger()
	return &ExpiryWorker{
		interval: interval,
		lockTTL:  lockTTL,
		subUC:    subUC,
		locker:   locker,
		log:      &exprLog,
	}
}

func (w *ExpiryWorker) Run(ctx context.Context) error {
	w.log.Info().Msg("Starting expiry worker")
	// Run once on startup, then on every tick
	w.sweep(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Stopping expiry worker")
			return ctx.Err()
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *ExpiryWorker) sweep(ctx context.Context) {
	defer logging.TraceDuration(w.log, "ExpiryWorker.sweep")()

	token, err := w.locker.TryLock(ctx, sweepLockKey, w.lockTTL)
	if err != nil {
		if errors.Is(err, domain.ErrLockNotAcquired) {
			w.log.Debug().Msg("another instance holds the sweep lock")
		} else {
			w.log.Error().Err(err).Msg("sweep lock error")
		}
		return
	}
	defer func() {
		if err := w.locker.Unlock(ctx, sweepLockKey, token); err != nil {
			w.log.Warn().Err(err).Msg("sweep unlock failed")
		}
	}()

	res, err := w.subUC.ProcessExpired(ctx)
	if err != nil {
		w.log.Error().Err(err).Msg("expiry sweep error")
		return
	}
	metrics.ObserveSweepRun(len(res.Failures))
	if n := len(res.ExpiredIDs); n > 0 {
		metrics.IncSubscriptionsExpired(n)
		w.log.Info().
			Str("run_id", res.RunID).
			Int("checked", res.Checked).
			Int("expired", n).
			Int("failures", len(res.Failures)).
			Msg("expired memberships processed")
	}
}
