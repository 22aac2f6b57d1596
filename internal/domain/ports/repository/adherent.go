package repository

import (
	"context"
	"time"

	"gym-club-management/internal/domain/model"
)

// AdherentRepository persists member records together with their owned
// subscription link. Save must make subsequent loads observe the new state.
type AdherentRepository interface {
	Save(ctx context.Context, tx Tx, a *model.Adherent) error
	FindByID(ctx context.Context, tx Tx, id int64) (*model.Adherent, error)
	FindByEmail(ctx context.Context, tx Tx, email string) (*model.Adherent, error)
	ExistsByEmail(ctx context.Context, tx Tx, email string) (bool, error)
	List(ctx context.Context, tx Tx, offset, limit int) ([]*model.Adherent, error)
	ListByStatus(ctx context.Context, tx Tx, status model.AdherentStatus) ([]*model.Adherent, error)
	SearchByName(ctx context.Context, tx Tx, name string) ([]*model.Adherent, error)
	// ListActiveWithLapsedSubscription feeds the expiration sweep: ACTIVE
	// adherents whose current subscription ended before the given day.
	ListActiveWithLapsedSubscription(ctx context.Context, tx Tx, before time.Time) ([]*model.Adherent, error)
	CountByStatus(ctx context.Context, tx Tx) (map[model.AdherentStatus]int, error)
	CountBySubscriptionPlan(ctx context.Context, tx Tx) (map[int64]int, error)
	CountCreatedBetween(ctx context.Context, tx Tx, from, to time.Time) (int, error)
}
