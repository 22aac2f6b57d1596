package usecase

import (
	"context"
	"time"

	"gym-club-management/internal/domain"
	"gym-club-management/internal/domain/model"
	"gym-club-management/internal/domain/ports/repository"
)

// ReportUseCase aggregates membership and subscription statistics for the
// admin dashboard.
type ReportUseCase struct {
	adherents repository.AdherentRepository
	plans     repository.PlanRepository
	clock     Clock
}

func NewReportUseCase(adherents repository.AdherentRepository, plans repository.PlanRepository, clock Clock) *ReportUseCase {
	if clock == nil {
		clock = SystemClock()
	}
	return &ReportUseCase{adherents: adherents, plans: plans, clock: clock}
}

// GeneralStatistics is the headline membership breakdown.
type GeneralStatistics struct {
	TotalAdherents       int `json:"totalAdherents"`
	ActiveAdherents      int `json:"activeAdherents"`
	SuspendedAdherents   int `json:"suspendedAdherents"`
	ExpiredAdherents     int `json:"expiredAdherents"`
	DeactivatedAdherents int `json:"deactivatedAdherents"`
}

func (uc *ReportUseCase) GeneralStatistics(ctx context.Context) (*GeneralStatistics, error) {
	counts, err := uc.adherents.CountByStatus(ctx, repository.NoTX)
	if err != nil {
		return nil, err
	}
	stats := &GeneralStatistics{
		ActiveAdherents:      counts[model.AdherentStatusActive],
		SuspendedAdherents:   counts[model.AdherentStatusSuspended],
		ExpiredAdherents:     counts[model.AdherentStatusExpired],
		DeactivatedAdherents: counts[model.AdherentStatusDeactivated],
	}
	for _, n := range counts {
		stats.TotalAdherents += n
	}
	return stats, nil
}

// PlanStatistics is the per-plan slice of the subscription report.
type PlanStatistics struct {
	Type            string  `json:"type"`
	PriceCents      int64   `json:"priceCents"`
	SubscriberCount int     `json:"subscriberCount"`
	RevenueCents    int64   `json:"revenueCents"`
}

// SubscriptionStatistics reports subscriber counts and revenue per plan.
type SubscriptionStatistics struct {
	TotalRevenueCents int64                     `json:"totalRevenueCents"`
	Plans             map[string]PlanStatistics `json:"plans"`
}

func (uc *ReportUseCase) SubscriptionStatistics(ctx context.Context) (*SubscriptionStatistics, error) {
	plans, err := uc.plans.ListAll(ctx, repository.NoTX)
	if err != nil {
		return nil, err
	}
	counts, err := uc.adherents.CountBySubscriptionPlan(ctx, repository.NoTX)
	if err != nil {
		return nil, err
	}
	stats := &SubscriptionStatistics{Plans: make(map[string]PlanStatistics, len(plans))}
	for _, p := range plans {
		n := counts[p.ID]
		revenue := p.PriceCents * int64(n)
		stats.Plans[p.Type] = PlanStatistics{
			Type:            p.Type,
			PriceCents:      p.PriceCents,
			SubscriberCount: n,
			RevenueCents:    revenue,
		}
		stats.TotalRevenueCents += revenue
	}
	return stats, nil
}

// MonthlyReport summarises one calendar month.
type MonthlyReport struct {
	Month         int       `json:"month"`
	Year          int       `json:"year"`
	NewAdherents  int       `json:"newAdherents"`
	ActiveMembers int       `json:"activeMembers"`
	GeneratedAt   time.Time `json:"generatedAt"`
}

func (uc *ReportUseCase) Monthly(ctx context.Context, year, month int) (*MonthlyReport, error) {
	if month < 1 || month > 12 || year < 1 {
		return nil, domain.ErrInvalidArgument
	}
	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)
	created, err := uc.adherents.CountCreatedBetween(ctx, repository.NoTX, from, to)
	if err != nil {
		return nil, err
	}
	counts, err := uc.adherents.CountByStatus(ctx, repository.NoTX)
	if err != nil {
		return nil, err
	}
	return &MonthlyReport{
		Month:         month,
		Year:          year,
		NewAdherents:  created,
		ActiveMembers: counts[model.AdherentStatusActive],
		GeneratedAt:   uc.clock.Now(),
	}, nil
}

// AdherentsByStatus returns the raw status histogram.
func (uc *ReportUseCase) AdherentsByStatus(ctx context.Context) (map[model.AdherentStatus]int, error) {
	return uc.adherents.CountByStatus(ctx, repository.NoTX)
}
