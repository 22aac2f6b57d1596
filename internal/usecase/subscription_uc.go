package usecase

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"gym-club-management/internal/domain"
	"gym-club-management/internal/domain/model"
	"gym-club-management/internal/domain/ports/repository"
)

// SubscriptionUseCase implements operations on subscription instances: the
// weekly quota tracker, booking bookkeeping and the expiration sweep.
type SubscriptionUseCase struct {
	adherents repository.AdherentRepository
	subs      repository.SubscriptionRepository
	clock     Clock
	log       *zerolog.Logger
}

func NewSubscriptionUseCase(
	adherents repository.AdherentRepository,
	subs repository.SubscriptionRepository,
	clock Clock,
	logger *zerolog.Logger,
) *SubscriptionUseCase {
	if clock == nil {
		clock = SystemClock()
	}
	l := logger.With().Str("component", "SubscriptionUseCase").Logger()
	return &SubscriptionUseCase{adherents: adherents, subs: subs, clock: clock, log: &l}
}

// Get returns an instance by id. Instances unlinked from their adherent stay
// retrievable here.
func (uc *SubscriptionUseCase) Get(ctx context.Context, id int64) (*model.Subscription, error) {
	return uc.subs.FindByID(ctx, repository.NoTX, id)
}

func (uc *SubscriptionUseCase) List(ctx context.Context, page, size int) ([]*model.Subscription, error) {
	if size <= 0 {
		size = 20
	}
	if page < 0 {
		page = 0
	}
	return uc.subs.List(ctx, repository.NoTX, page*size, size)
}

// Reschedule updates start date and/or duration of an instance; the end date
// is always re-derived.
func (uc *SubscriptionUseCase) Reschedule(ctx context.Context, id int64, start *time.Time, durationMonths *int) (*model.Subscription, error) {
	s, err := uc.subs.FindByID(ctx, repository.NoTX, id)
	if err != nil {
		return nil, err
	}
	if err := s.Reschedule(start, durationMonths, uc.clock.Now()); err != nil {
		return nil, err
	}
	if err := uc.subs.Save(ctx, repository.NoTX, s); err != nil {
		return nil, err
	}
	return s, nil
}

// CanBookSession answers the access-control check for one more session this
// week. The lazy weekly reset may dirty the counter row, so it is persisted.
func (uc *SubscriptionUseCase) CanBookSession(ctx context.Context, adherentID int64) (bool, error) {
	a, sub, err := uc.currentSubscription(ctx, adherentID)
	if err != nil {
		return false, err
	}
	now := uc.clock.Now()
	ok := sub.CanBookSession(now) && a.EligibleForSession(now)
	if err := uc.subs.Save(ctx, repository.NoTX, sub); err != nil {
		return false, err
	}
	return ok, nil
}

// BookSession checks eligibility and quota, then increments the weekly
// counter.
func (uc *SubscriptionUseCase) BookSession(ctx context.Context, adherentID int64) (*model.Subscription, error) {
	a, sub, err := uc.currentSubscription(ctx, adherentID)
	if err != nil {
		return nil, err
	}
	now := uc.clock.Now()
	if !a.EligibleForSession(now) || !sub.CanBookSession(now) {
		return nil, domain.ErrNoActiveSubscription
	}
	sub.IncrementWeeklySessionCount(now)
	if err := uc.subs.Save(ctx, repository.NoTX, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// CancelSession undoes one booked session this week, never below zero.
func (uc *SubscriptionUseCase) CancelSession(ctx context.Context, adherentID int64) (*model.Subscription, error) {
	_, sub, err := uc.currentSubscription(ctx, adherentID)
	if err != nil {
		return nil, err
	}
	sub.DecrementWeeklySessionCount(uc.clock.Now())
	if err := uc.subs.Save(ctx, repository.NoTX, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// RemainingWeeklySessions reports sessions left this week; unlimited is
// (0, false).
func (uc *SubscriptionUseCase) RemainingWeeklySessions(ctx context.Context, adherentID int64) (int, bool, error) {
	_, sub, err := uc.currentSubscription(ctx, adherentID)
	if err != nil {
		return 0, false, err
	}
	remaining, bounded := sub.RemainingWeeklySessions(uc.clock.Now())
	if err := uc.subs.Save(ctx, repository.NoTX, sub); err != nil {
		return 0, false, err
	}
	return remaining, bounded, nil
}

func (uc *SubscriptionUseCase) currentSubscription(ctx context.Context, adherentID int64) (*model.Adherent, *model.Subscription, error) {
	a, err := uc.adherents.FindByID(ctx, repository.NoTX, adherentID)
	if err != nil {
		return nil, nil, err
	}
	if a.CurrentSubscription == nil {
		return nil, nil, domain.ErrNoActiveSubscription
	}
	return a, a.CurrentSubscription, nil
}

// SweepResult is the per-item outcome of one expiration sweep run. Partial
// completion is fine; the run is safe to repeat.
type SweepResult struct {
	RunID      string
	Checked    int
	ExpiredIDs []int64
	Failures   map[int64]string
}

// ProcessExpired demotes ACTIVE adherents whose subscription window has
// lapsed. A failure on one adherent is recorded and the scan continues.
// Running it twice over unchanged data expires nothing the second time.
func (uc *SubscriptionUseCase) ProcessExpired(ctx context.Context) (*SweepResult, error) {
	now := uc.clock.Now()
	res := &SweepResult{
		RunID:    ulid.Make().String(),
		Failures: make(map[int64]string),
	}

	lapsed, err := uc.adherents.ListActiveWithLapsedSubscription(ctx, repository.NoTX, now)
	if err != nil {
		return nil, err
	}
	res.Checked = len(lapsed)

	for _, a := range lapsed {
		if err := a.Expire(now); err != nil {
			// Raced with another transition; skip, the next run settles it.
			res.Failures[a.ID] = err.Error()
			continue
		}
		if err := uc.adherents.Save(ctx, repository.NoTX, a); err != nil {
			uc.log.Error().Err(err).Str("run_id", res.RunID).Int64("adherent_id", a.ID).Msg("sweep: save failed")
			res.Failures[a.ID] = err.Error()
			continue
		}
		res.ExpiredIDs = append(res.ExpiredIDs, a.ID)
	}

	uc.log.Info().
		Str("run_id", res.RunID).
		Int("checked", res.Checked).
		Int("expired", len(res.ExpiredIDs)).
		Int("failed", len(res.Failures)).
		Msg("expiration sweep finished")
	return res, nil
}
