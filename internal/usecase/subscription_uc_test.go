package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"gym-club-management/internal/domain"
	"gym-club-management/internal/domain/model"
)

func testLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

// monday returns a fixed Monday so week arithmetic in tests is predictable.
func monday() time.Time {
	return time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC) // ISO week 1 of 2024
}

type subFixture struct {
	clock    *fixedClock
	plans    *memPlanRepo
	subs     *memSubRepo
	members  *memAdherentRepo
	accounts *memAccountRepo
	adhUC    *AdherentUseCase
	subUC    *SubscriptionUseCase
}

func newSubFixture(t *testing.T) *subFixture {
	t.Helper()
	clock := newFixedClock(monday())
	subs := newMemSubRepo()
	members := newMemAdherentRepo(subs)
	plans := newMemPlanRepo()
	accounts := newMemAccountRepo()
	return &subFixture{
		clock:    clock,
		plans:    plans,
		subs:     subs,
		members:  members,
		accounts: accounts,
		adhUC:    NewAdherentUseCase(members, plans, subs, accounts, clock),
		subUC:    NewSubscriptionUseCase(members, subs, clock, testLogger()),
	}
}

func (f *subFixture) seedMember(t *testing.T, planType string, quota model.WeeklyQuota) *model.Adherent {
	t.Helper()
	ctx := context.Background()
	planUC := NewPlanUseCase(f.plans, f.clock)
	plan, err := planUC.Create(ctx, planType, quota, 29_90, 1)
	if err != nil {
		t.Fatalf("create plan: %v", err)
	}
	a, err := f.adhUC.Create(ctx, NewAdherentInput{
		FirstName:          "Nora",
		LastName:           "Martin",
		Email:              "nora@example.com",
		DateOfBirth:        time.Date(1990, 5, 12, 0, 0, 0, 0, time.UTC),
		MedicalCertificate: []byte("certificate"),
	})
	if err != nil {
		t.Fatalf("create adherent: %v", err)
	}
	a, err = f.adhUC.AssignSubscription(ctx, a.ID, plan.ID, time.Time{}, 0)
	if err != nil {
		t.Fatalf("assign subscription: %v", err)
	}
	return a
}

func TestBookSession_QuotaExhaustion(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newSubFixture(t)
	quota, _ := model.QuotaOf(3)
	a := f.seedMember(t, "BASIC", quota)

	for i := 0; i < 3; i++ {
		ok, err := f.subUC.CanBookSession(ctx, a.ID)
		if err != nil {
			t.Fatalf("CanBookSession #%d: %v", i+1, err)
		}
		if !ok {
			t.Fatalf("expected booking #%d to be allowed", i+1)
		}
		if _, err := f.subUC.BookSession(ctx, a.ID); err != nil {
			t.Fatalf("BookSession #%d: %v", i+1, err)
		}
	}

	ok, err := f.subUC.CanBookSession(ctx, a.ID)
	if err != nil {
		t.Fatalf("CanBookSession after quota: %v", err)
	}
	if ok {
		t.Fatal("expected 4th booking to be rejected")
	}
	remaining, bounded, err := f.subUC.RemainingWeeklySessions(ctx, a.ID)
	if err != nil {
		t.Fatalf("RemainingWeeklySessions: %v", err)
	}
	if !bounded || remaining != 0 {
		t.Fatalf("expected 0 remaining (bounded), got %d bounded=%v", remaining, bounded)
	}
	if _, err := f.subUC.BookSession(ctx, a.ID); !errors.Is(err, domain.ErrNoActiveSubscription) {
		t.Fatalf("expected ErrNoActiveSubscription on over-quota booking, got %v", err)
	}
}

func TestBookSession_WeekBoundaryResetsUsage(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newSubFixture(t)
	quota, _ := model.QuotaOf(3)
	a := f.seedMember(t, "BASIC", quota)

	for i := 0; i < 3; i++ {
		if _, err := f.subUC.BookSession(ctx, a.ID); err != nil {
			t.Fatalf("BookSession #%d: %v", i+1, err)
		}
	}
	if ok, _ := f.subUC.CanBookSession(ctx, a.ID); ok {
		t.Fatal("quota should be exhausted before the week boundary")
	}

	// Next Monday: the counter resets lazily on the first quota query.
	f.clock.Advance(7 * 24 * time.Hour)

	ok, err := f.subUC.CanBookSession(ctx, a.ID)
	if err != nil {
		t.Fatalf("CanBookSession in new week: %v", err)
	}
	if !ok {
		t.Fatal("expected booking to be allowed again after week change")
	}
	remaining, bounded, err := f.subUC.RemainingWeeklySessions(ctx, a.ID)
	if err != nil {
		t.Fatalf("RemainingWeeklySessions: %v", err)
	}
	if !bounded || remaining != 3 {
		t.Fatalf("expected full quota of 3 after reset, got %d", remaining)
	}
}

func TestCancelSession_FloorsAtZero(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newSubFixture(t)
	quota, _ := model.QuotaOf(3)
	a := f.seedMember(t, "BASIC", quota)

	for i := 0; i < 3; i++ {
		if _, err := f.subUC.CancelSession(ctx, a.ID); err != nil {
			t.Fatalf("CancelSession at zero #%d: %v", i+1, err)
		}
	}
	sub, err := f.subUC.Get(ctx, 1)
	if err != nil {
		t.Fatalf("Get subscription: %v", err)
	}
	if sub.WeeklySessionsUsed != 0 {
		t.Fatalf("usage must never go below 0, got %d", sub.WeeklySessionsUsed)
	}

	if _, err := f.subUC.BookSession(ctx, a.ID); err != nil {
		t.Fatalf("BookSession: %v", err)
	}
	if _, err := f.subUC.CancelSession(ctx, a.ID); err != nil {
		t.Fatalf("CancelSession: %v", err)
	}
	remaining, _, err := f.subUC.RemainingWeeklySessions(ctx, a.ID)
	if err != nil {
		t.Fatalf("RemainingWeeklySessions: %v", err)
	}
	if remaining != 3 {
		t.Fatalf("expected cancellation to restore the slot, got remaining=%d", remaining)
	}
}

func TestRemainingWeeklySessions_UnlimitedPlan(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newSubFixture(t)
	a := f.seedMember(t, "PREMIUM", model.UnlimitedQuota())

	for i := 0; i < 25; i++ {
		if _, err := f.subUC.BookSession(ctx, a.ID); err != nil {
			t.Fatalf("BookSession #%d: %v", i+1, err)
		}
	}
	remaining, bounded, err := f.subUC.RemainingWeeklySessions(ctx, a.ID)
	if err != nil {
		t.Fatalf("RemainingWeeklySessions: %v", err)
	}
	if bounded {
		t.Fatalf("expected unlimited sentinel, got bounded remaining=%d", remaining)
	}
	if ok, _ := f.subUC.CanBookSession(ctx, a.ID); !ok {
		t.Fatal("unlimited plan must always allow booking inside the window")
	}
}

func TestBookSession_NoSubscription(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newSubFixture(t)
	a, err := f.adhUC.Create(ctx, NewAdherentInput{
		FirstName:          "Paul",
		LastName:           "Durand",
		Email:              "paul@example.com",
		DateOfBirth:        time.Date(1985, 2, 3, 0, 0, 0, 0, time.UTC),
		MedicalCertificate: []byte("certificate"),
	})
	if err != nil {
		t.Fatalf("create adherent: %v", err)
	}

	if _, err := f.subUC.BookSession(ctx, a.ID); !errors.Is(err, domain.ErrNoActiveSubscription) {
		t.Fatalf("expected ErrNoActiveSubscription, got %v", err)
	}
	hasActive, err := f.adhUC.HasActiveSubscription(ctx, a.ID)
	if err != nil {
		t.Fatalf("HasActiveSubscription: %v", err)
	}
	if hasActive {
		t.Fatal("adherent without subscription must not count as actively subscribed")
	}
	limit, err := f.adhUC.WeeklySessionLimit(ctx, a.ID)
	if err != nil {
		t.Fatalf("WeeklySessionLimit: %v", err)
	}
	if limit.Unlimited() || limit.Limit() != 0 {
		t.Fatalf("expected zero limit, got %+v", limit)
	}
	eligible, err := f.adhUC.EligibleForSession(ctx, a.ID)
	if err != nil {
		t.Fatalf("EligibleForSession: %v", err)
	}
	if eligible {
		t.Fatal("eligibility requires an active subscription even with a certificate on file")
	}
}

func TestProcessExpired_Sweep(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newSubFixture(t)
	quota, _ := model.QuotaOf(3)
	a := f.seedMember(t, "BASIC", quota)

	// Window is one month; jump past it.
	f.clock.Advance(45 * 24 * time.Hour)

	res, err := f.subUC.ProcessExpired(ctx)
	if err != nil {
		t.Fatalf("ProcessExpired: %v", err)
	}
	if res.RunID == "" {
		t.Fatal("expected a run id")
	}
	if len(res.ExpiredIDs) != 1 || res.ExpiredIDs[0] != a.ID {
		t.Fatalf("expected adherent %d expired, got %v", a.ID, res.ExpiredIDs)
	}
	got, err := f.adhUC.Get(ctx, a.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Status != model.AdherentStatusExpired {
		t.Fatalf("expected EXPIRED, got %s", got.Status)
	}

	// Second run over unchanged data is a no-op.
	res2, err := f.subUC.ProcessExpired(ctx)
	if err != nil {
		t.Fatalf("second ProcessExpired: %v", err)
	}
	if len(res2.ExpiredIDs) != 0 || len(res2.Failures) != 0 {
		t.Fatalf("sweep must be idempotent, got expired=%v failures=%v", res2.ExpiredIDs, res2.Failures)
	}
}

func TestProcessExpired_PartialFailureContinues(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newSubFixture(t)
	planUC := NewPlanUseCase(f.plans, f.clock)
	quota, _ := model.QuotaOf(3)
	plan, err := planUC.Create(ctx, "BASIC", quota, 29_90, 1)
	if err != nil {
		t.Fatalf("create plan: %v", err)
	}

	var ids []int64
	for _, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		a, err := f.adhUC.Create(ctx, NewAdherentInput{
			FirstName:          "Member",
			LastName:           "Test",
			Email:              email,
			DateOfBirth:        time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC),
			MedicalCertificate: []byte("certificate"),
		})
		if err != nil {
			t.Fatalf("create %s: %v", email, err)
		}
		if _, err := f.adhUC.AssignSubscription(ctx, a.ID, plan.ID, time.Time{}, 0); err != nil {
			t.Fatalf("assign %s: %v", email, err)
		}
		ids = append(ids, a.ID)
	}

	f.clock.Advance(45 * 24 * time.Hour)
	f.members.saveErr[ids[1]] = errors.New("save conflict")

	res, err := f.subUC.ProcessExpired(ctx)
	if err != nil {
		t.Fatalf("ProcessExpired: %v", err)
	}
	if len(res.ExpiredIDs) != 2 {
		t.Fatalf("expected the other two adherents expired, got %v", res.ExpiredIDs)
	}
	if _, failed := res.Failures[ids[1]]; !failed {
		t.Fatalf("expected a recorded failure for adherent %d, got %v", ids[1], res.Failures)
	}

	// Unblock and re-run: only the failed one remains.
	delete(f.members.saveErr, ids[1])
	res2, err := f.subUC.ProcessExpired(ctx)
	if err != nil {
		t.Fatalf("re-run ProcessExpired: %v", err)
	}
	if len(res2.ExpiredIDs) != 1 || res2.ExpiredIDs[0] != ids[1] {
		t.Fatalf("expected only adherent %d on re-run, got %v", ids[1], res2.ExpiredIDs)
	}
}

func TestReschedule_RecomputesEndDate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newSubFixture(t)
	quota, _ := model.QuotaOf(3)
	f.seedMember(t, "BASIC", quota)

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	months := 3
	sub, err := f.subUC.Reschedule(ctx, 1, &start, &months)
	if err != nil {
		t.Fatalf("Reschedule: %v", err)
	}
	wantEnd := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	if sub.EndDate == nil || !sub.EndDate.Equal(wantEnd) {
		t.Fatalf("expected end date %v, got %v", wantEnd, sub.EndDate)
	}

	bad := 5
	if _, err := f.subUC.Reschedule(ctx, 1, nil, &bad); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for 5 months, got %v", err)
	}
}
