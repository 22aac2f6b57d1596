package repository

import (
	"context"

	"gym-club-management/internal/domain/model"
)

type AccountRepository interface {
	Save(ctx context.Context, tx Tx, acc *model.Account) error
	FindByUsername(ctx context.Context, tx Tx, username string) (*model.Account, error)
	ExistsByUsername(ctx context.Context, tx Tx, username string) (bool, error)
	FindByAdherentID(ctx context.Context, tx Tx, adherentID int64) (*model.Account, error)
}
