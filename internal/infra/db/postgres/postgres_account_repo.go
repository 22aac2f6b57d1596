package postgres

import (
	"context"

	"github.com/jackc/pgx/v4/pgxpool"

	"gym-club-management/internal/domain"
	"gym-club-management/internal/domain/model"
	"gym-club-management/internal/domain/ports/repository"
)

// Ensure interface compliance
var _ repository.AccountRepository = (*PostgresAccountRepo)(nil)

type PostgresAccountRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresAccountRepo(pool *pgxpool.Pool) *PostgresAccountRepo {
	return &PostgresAccountRepo{pool: pool}
}

const accountColumns = `id, username, password_hash, role, adherent_id, created_at, updated_at`

func (r *PostgresAccountRepo) Save(ctx context.Context, tx repository.Tx, acc *model.Account) error {
	if acc.ID == 0 {
		const q = `
INSERT INTO accounts (username, password_hash, role, adherent_id, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6)
RETURNING id;
`
		row, err := pickRow(ctx, r.pool, tx, q,
			acc.Username, acc.PasswordHash, acc.Role, acc.AdherentID, acc.CreatedAt, acc.UpdatedAt)
		if err != nil {
			return err
		}
		if err := row.Scan(&acc.ID); err != nil {
			return wrapExecErr("insert account", err)
		}
		return nil
	}
	const q = `
UPDATE accounts
   SET username=$2, password_hash=$3, role=$4, adherent_id=$5, updated_at=$6
 WHERE id=$1;
`
	ct, err := execSQL(ctx, r.pool, tx, "update account", q,
		acc.ID, acc.Username, acc.PasswordHash, acc.Role, acc.AdherentID, acc.UpdatedAt)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PostgresAccountRepo) FindByUsername(ctx context.Context, tx repository.Tx, username string) (*model.Account, error) {
	row, err := pickRow(ctx, r.pool, tx, `SELECT `+accountColumns+` FROM accounts WHERE username=$1;`, username)
	if err != nil {
		return nil, err
	}
	return scanAccount(row)
}

func (r *PostgresAccountRepo) ExistsByUsername(ctx context.Context, tx repository.Tx, username string) (bool, error) {
	row, err := pickRow(ctx, r.pool, tx, `SELECT EXISTS(SELECT 1 FROM accounts WHERE username=$1);`, username)
	if err != nil {
		return false, err
	}
	var exists bool
	if err := row.Scan(&exists); err != nil {
		return false, wrapScanErr("exists account", err)
	}
	return exists, nil
}

func (r *PostgresAccountRepo) FindByAdherentID(ctx context.Context, tx repository.Tx, adherentID int64) (*model.Account, error) {
	row, err := pickRow(ctx, r.pool, tx, `SELECT `+accountColumns+` FROM accounts WHERE adherent_id=$1;`, adherentID)
	if err != nil {
		return nil, err
	}
	return scanAccount(row)
}

func scanAccount(row rowScanner) (*model.Account, error) {
	var acc model.Account
	if err := row.Scan(&acc.ID, &acc.Username, &acc.PasswordHash, &acc.Role, &acc.AdherentID, &acc.CreatedAt, &acc.UpdatedAt); err != nil {
		return nil, wrapScanErr("scan account", err)
	}
	return &acc, nil
}
