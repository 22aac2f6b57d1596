package model

import (
	"time"

	"gym-club-management/internal/domain"
)

// Plan is a catalog template subscriptions are created from: a unique type
// identifier, a weekly session quota, a price and a default duration.
type Plan struct {
	ID             int64
	Type           string // e.g. BASIC, PREMIUM; unique in the catalog
	WeeklyQuota    WeeklyQuota
	PriceCents     int64
	DurationMonths int // 1, 3 or 12
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (p *Plan) IsZero() bool { return p == nil || p.Type == "" }

// ValidDurationMonths reports whether a subscription duration is one the
// club sells.
func ValidDurationMonths(months int) bool {
	return months == 1 || months == 3 || months == 12
}

// NewPlan validates and constructs a catalog plan.
func NewPlan(planType string, quota WeeklyQuota, priceCents int64, durationMonths int, now time.Time) (*Plan, error) {
	if planType == "" || priceCents < 0 || quota.IsZero() {
		return nil, domain.ErrInvalidArgument
	}
	if !ValidDurationMonths(durationMonths) {
		return nil, domain.ErrInvalidArgument
	}
	return &Plan{
		Type:           planType,
		WeeklyQuota:    quota,
		PriceCents:     priceCents,
		DurationMonths: durationMonths,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}
