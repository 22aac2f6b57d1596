package model

import (
	"time"

	"gym-club-management/internal/domain"
)

// Subscription is a concrete, time-bounded grant of a plan to one adherent.
// It carries its own weekly-usage counter; the counter is reset lazily by
// comparing the stored ISO week number against the week of "now", never by a
// background timer.
type Subscription struct {
	ID                 int64
	PlanID             int64
	PlanType           string
	WeeklyQuota        WeeklyQuota // effective quota; may override the plan default
	StartDate          *time.Time
	EndDate            *time.Time
	DurationMonths     int
	PriceCents         int64
	WeeklySessionsUsed int
	LastSessionWeek    *int // ISO week of the last counter reset; nil until first use
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// NewSubscription creates an instance from a plan. A zero start defaults to
// "now"; the end date is always derived as start + duration months.
func NewSubscription(plan *Plan, start time.Time, durationMonths int, now time.Time) (*Subscription, error) {
	if plan.IsZero() {
		return nil, domain.ErrInvalidArgument
	}
	if durationMonths == 0 {
		durationMonths = plan.DurationMonths
	}
	if !ValidDurationMonths(durationMonths) {
		return nil, domain.ErrInvalidArgument
	}
	if start.IsZero() {
		start = now
	}
	s := &Subscription{
		PlanID:         plan.ID,
		PlanType:       plan.Type,
		WeeklyQuota:    plan.WeeklyQuota,
		StartDate:      &start,
		DurationMonths: durationMonths,
		PriceCents:     plan.PriceCents,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	s.recomputeEndDate()
	return s, nil
}

// Reschedule changes the start date and/or duration and re-derives the end
// date. The end date is never set directly.
func (s *Subscription) Reschedule(start *time.Time, durationMonths *int, now time.Time) error {
	if start != nil {
		cp := *start
		s.StartDate = &cp
	}
	if durationMonths != nil {
		if !ValidDurationMonths(*durationMonths) {
			return domain.ErrInvalidArgument
		}
		s.DurationMonths = *durationMonths
	}
	s.recomputeEndDate()
	s.UpdatedAt = now
	return nil
}

func (s *Subscription) recomputeEndDate() {
	if s.StartDate == nil {
		return
	}
	end := s.StartDate.AddDate(0, s.DurationMonths, 0)
	s.EndDate = &end
}

// ActiveAt reports whether now falls inside the [start, end] validity window,
// inclusive on both ends. A nil bound leaves that side open.
func (s *Subscription) ActiveAt(now time.Time) bool {
	day := dateOf(now)
	if s.StartDate != nil && day.Before(dateOf(*s.StartDate)) {
		return false
	}
	if s.EndDate != nil && day.After(dateOf(*s.EndDate)) {
		return false
	}
	return true
}

// CanBookSession answers "may one more session be booked this week". It does
// not mutate the usage counter beyond the lazy weekly reset.
func (s *Subscription) CanBookSession(now time.Time) bool {
	if !s.ActiveAt(now) {
		return false
	}
	s.resetWeeklyCounterIfNeeded(now)
	return s.WeeklyQuota.Allows(s.WeeklySessionsUsed)
}

// IncrementWeeklySessionCount records one booked session. Callers are
// expected to have checked CanBookSession first; the limit is not enforced
// here.
func (s *Subscription) IncrementWeeklySessionCount(now time.Time) {
	s.resetWeeklyCounterIfNeeded(now)
	s.WeeklySessionsUsed++
	s.UpdatedAt = now
}

// DecrementWeeklySessionCount undoes a cancelled booking, floored at zero.
// It deliberately skips the weekly reset so a cancellation right after a week
// boundary cannot resurrect last week's counter.
func (s *Subscription) DecrementWeeklySessionCount(now time.Time) {
	if s.WeeklySessionsUsed > 0 {
		s.WeeklySessionsUsed--
	}
	s.UpdatedAt = now
}

// RemainingWeeklySessions reports sessions left this week. The bool is false
// for the unlimited variant.
func (s *Subscription) RemainingWeeklySessions(now time.Time) (int, bool) {
	if s.WeeklyQuota.Unlimited() {
		return 0, false
	}
	s.resetWeeklyCounterIfNeeded(now)
	return s.WeeklyQuota.Remaining(s.WeeklySessionsUsed)
}

func (s *Subscription) resetWeeklyCounterIfNeeded(now time.Time) {
	week := isoWeek(now)
	if s.LastSessionWeek == nil || *s.LastSessionWeek != week {
		s.WeeklySessionsUsed = 0
		s.LastSessionWeek = &week
	}
}

func isoWeek(t time.Time) int {
	_, week := t.ISOWeek()
	return week
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
