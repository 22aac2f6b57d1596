package repository

import (
	"context"

	"gym-club-management/internal/domain/model"
)

type PlanRepository interface {
	Save(ctx context.Context, tx Tx, p *model.Plan) error
	FindByID(ctx context.Context, tx Tx, id int64) (*model.Plan, error)
	FindByType(ctx context.Context, tx Tx, planType string) (*model.Plan, error)
	ExistsByType(ctx context.Context, tx Tx, planType string) (bool, error)
	List(ctx context.Context, tx Tx, offset, limit int) ([]*model.Plan, error)
	ListAll(ctx context.Context, tx Tx) ([]*model.Plan, error)
	Delete(ctx context.Context, tx Tx, id int64) error
}
