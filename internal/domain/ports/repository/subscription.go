package repository

import (
	"context"

	"gym-club-management/internal/domain/model"
)

// SubscriptionRepository persists subscription instances. Instances unlinked
// from an adherent are kept and stay retrievable by id.
type SubscriptionRepository interface {
	Save(ctx context.Context, tx Tx, s *model.Subscription) error
	FindByID(ctx context.Context, tx Tx, id int64) (*model.Subscription, error)
	List(ctx context.Context, tx Tx, offset, limit int) ([]*model.Subscription, error)
	Delete(ctx context.Context, tx Tx, id int64) error
}
