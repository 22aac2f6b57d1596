package usecase

import (
	"context"

	"gym-club-management/internal/domain"
	"gym-club-management/internal/domain/model"
	"gym-club-management/internal/domain/ports/repository"
)

// PlanUseCase manages the subscription plan catalog.
type PlanUseCase struct {
	plans repository.PlanRepository
	clock Clock
}

func NewPlanUseCase(plans repository.PlanRepository, clock Clock) *PlanUseCase {
	if clock == nil {
		clock = SystemClock()
	}
	return &PlanUseCase{plans: plans, clock: clock}
}

// Create adds a catalog entry. The type identifier must be unique.
func (uc *PlanUseCase) Create(ctx context.Context, planType string, quota model.WeeklyQuota, priceCents int64, durationMonths int) (*model.Plan, error) {
	exists, err := uc.plans.ExistsByType(ctx, repository.NoTX, planType)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrAlreadyExists
	}
	p, err := model.NewPlan(planType, quota, priceCents, durationMonths, uc.clock.Now())
	if err != nil {
		return nil, err
	}
	if err := uc.plans.Save(ctx, repository.NoTX, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (uc *PlanUseCase) Get(ctx context.Context, id int64) (*model.Plan, error) {
	return uc.plans.FindByID(ctx, repository.NoTX, id)
}

func (uc *PlanUseCase) GetByType(ctx context.Context, planType string) (*model.Plan, error) {
	return uc.plans.FindByType(ctx, repository.NoTX, planType)
}

func (uc *PlanUseCase) List(ctx context.Context, page, size int) ([]*model.Plan, error) {
	if size <= 0 {
		size = 20
	}
	if page < 0 {
		page = 0
	}
	return uc.plans.List(ctx, repository.NoTX, page*size, size)
}

func (uc *PlanUseCase) ListAll(ctx context.Context) ([]*model.Plan, error) {
	return uc.plans.ListAll(ctx, repository.NoTX)
}

// PlanUpdate carries the optional fields of a catalog update; nil means
// "leave unchanged".
type PlanUpdate struct {
	Type           *string
	WeeklyQuota    *model.WeeklyQuota
	PriceCents     *int64
	DurationMonths *int
}

// Update applies a partial update. Renaming onto an existing type identifier
// is a conflict; an out-of-range duration is rejected.
func (uc *PlanUseCase) Update(ctx context.Context, id int64, upd PlanUpdate) (*model.Plan, error) {
	p, err := uc.plans.FindByID(ctx, repository.NoTX, id)
	if err != nil {
		return nil, err
	}
	if upd.Type != nil && *upd.Type != p.Type {
		exists, err := uc.plans.ExistsByType(ctx, repository.NoTX, *upd.Type)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, domain.ErrAlreadyExists
		}
		p.Type = *upd.Type
	}
	if upd.WeeklyQuota != nil {
		if upd.WeeklyQuota.IsZero() {
			return nil, domain.ErrInvalidArgument
		}
		p.WeeklyQuota = *upd.WeeklyQuota
	}
	if upd.PriceCents != nil {
		if *upd.PriceCents < 0 {
			return nil, domain.ErrInvalidArgument
		}
		p.PriceCents = *upd.PriceCents
	}
	if upd.DurationMonths != nil {
		if !model.ValidDurationMonths(*upd.DurationMonths) {
			return nil, domain.ErrInvalidArgument
		}
		p.DurationMonths = *upd.DurationMonths
	}
	p.UpdatedAt = uc.clock.Now()
	if err := uc.plans.Save(ctx, repository.NoTX, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (uc *PlanUseCase) UpdatePrice(ctx context.Context, id int64, priceCents int64) (*model.Plan, error) {
	return uc.Update(ctx, id, PlanUpdate{PriceCents: &priceCents})
}

func (uc *PlanUseCase) Delete(ctx context.Context, id int64) error {
	return uc.plans.Delete(ctx, repository.NoTX, id)
}
