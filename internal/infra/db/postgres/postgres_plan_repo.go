package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"gym-club-management/internal/domain"
	"gym-club-management/internal/domain/model"
	"gym-club-management/internal/domain/ports/repository"
)

// Ensure interface compliance
var _ repository.PlanRepository = (*PostgresPlanRepo)(nil)

type PostgresPlanRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresPlanRepo(pool *pgxpool.Pool) *PostgresPlanRepo {
	return &PostgresPlanRepo{pool: pool}
}

const planColumns = `id, type, weekly_quota, price_cents, duration_months, created_at, updated_at`

func (r *PostgresPlanRepo) Save(ctx context.Context, tx repository.Tx, p *model.Plan) error {
	if p.ID == 0 {
		const q = `
INSERT INTO plans (type, weekly_quota, price_cents, duration_months, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6)
RETURNING id;
`
		row, err := pickRow(ctx, r.pool, tx, q,
			p.Type, p.WeeklyQuota.Ptr(), p.PriceCents, p.DurationMonths, p.CreatedAt, p.UpdatedAt)
		if err != nil {
			return err
		}
		if err := row.Scan(&p.ID); err != nil {
			return wrapExecErr("insert plan", err)
		}
		return nil
	}
	const q = `
UPDATE plans
   SET type=$2, weekly_quota=$3, price_cents=$4, duration_months=$5, updated_at=$6
 WHERE id=$1;
`
	ct, err := execSQL(ctx, r.pool, tx, "update plan", q,
		p.ID, p.Type, p.WeeklyQuota.Ptr(), p.PriceCents, p.DurationMonths, p.UpdatedAt)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PostgresPlanRepo) FindByID(ctx context.Context, tx repository.Tx, id int64) (*model.Plan, error) {
	row, err := pickRow(ctx, r.pool, tx, `SELECT `+planColumns+` FROM plans WHERE id=$1;`, id)
	if err != nil {
		return nil, err
	}
	return scanPlan(row)
}

func (r *PostgresPlanRepo) FindByType(ctx context.Context, tx repository.Tx, planType string) (*model.Plan, error) {
	row, err := pickRow(ctx, r.pool, tx, `SELECT `+planColumns+` FROM plans WHERE type=$1;`, planType)
	if err != nil {
		return nil, err
	}
	return scanPlan(row)
}

func (r *PostgresPlanRepo) ExistsByType(ctx context.Context, tx repository.Tx, planType string) (bool, error) {
	row, err := pickRow(ctx, r.pool, tx, `SELECT EXISTS(SELECT 1 FROM plans WHERE type=$1);`, planType)
	if err != nil {
		return false, err
	}
	var exists bool
	if err := row.Scan(&exists); err != nil {
		return false, wrapScanErr("exists plan", err)
	}
	return exists, nil
}

func (r *PostgresPlanRepo) List(ctx context.Context, tx repository.Tx, offset, limit int) ([]*model.Plan, error) {
	rows, err := queryRows(ctx, r.pool, tx, "list plans",
		`SELECT `+planColumns+` FROM plans ORDER BY id OFFSET $1 LIMIT $2;`, offset, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*model.Plan
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PostgresPlanRepo) ListAll(ctx context.Context, tx repository.Tx) ([]*model.Plan, error) {
	rows, err := queryRows(ctx, r.pool, tx, "list all plans",
		`SELECT `+planColumns+` FROM plans ORDER BY id;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*model.Plan
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PostgresPlanRepo) Delete(ctx context.Context, tx repository.Tx, id int64) error {
	ct, err := execSQL(ctx, r.pool, tx, "delete plan", `DELETE FROM plans WHERE id=$1;`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPlan(row rowScanner) (*model.Plan, error) {
	var (
		p     model.Plan
		quota *int
	)
	if err := row.Scan(&p.ID, &p.Type, &quota, &p.PriceCents, &p.DurationMonths, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, wrapScanErr("scan plan", err)
	}
	q, err := model.QuotaFromPtr(quota)
	if err != nil {
		return nil, fmt.Errorf("scan plan quota: %w", err)
	}
	p.WeeklyQuota = q
	return &p, nil
}
