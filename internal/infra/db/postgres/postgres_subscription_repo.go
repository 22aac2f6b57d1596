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
var _ repository.SubscriptionRepository = (*PostgresSubscriptionRepo)(nil)

type PostgresSubscriptionRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresSubscriptionRepo(pool *pgxpool.Pool) *PostgresSubscriptionRepo {
	return &PostgresSubscriptionRepo{pool: pool}
}

const subscriptionColumns = `id, plan_id, plan_type, weekly_quota, start_date, end_date,
duration_months, price_cents, weekly_sessions_used, last_session_week, created_at, updated_at`

func (r *PostgresSubscriptionRepo) Save(ctx context.Context, tx repository.Tx, s *model.Subscription) error {
	if s.ID == 0 {
		const q = `
INSERT INTO subscriptions (
  plan_id, plan_type, weekly_quota, start_date, end_date,
  duration_months, price_cents, weekly_sessions_used, last_session_week, created_at, updated_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
RETURNING id;
`
		row, err := pickRow(ctx, r.pool, tx, q,
			s.PlanID, s.PlanType, s.WeeklyQuota.Ptr(), s.StartDate, s.EndDate,
			s.DurationMonths, s.PriceCents, s.WeeklySessionsUsed, s.LastSessionWeek, s.CreatedAt, s.UpdatedAt)
		if err != nil {
			return err
		}
		if err := row.Scan(&s.ID); err != nil {
			return wrapExecErr("insert subscription", err)
		}
		return nil
	}
	const q = `
UPDATE subscriptions
   SET plan_id=$2, plan_type=$3, weekly_quota=$4, start_date=$5, end_date=$6,
       duration_months=$7, price_cents=$8, weekly_sessions_used=$9, last_session_week=$10, updated_at=$11
 WHERE id=$1;
`
	ct, err := execSQL(ctx, r.pool, tx, "update subscription", q,
		s.ID, s.PlanID, s.PlanType, s.WeeklyQuota.Ptr(), s.StartDate, s.EndDate,
		s.DurationMonths, s.PriceCents, s.WeeklySessionsUsed, s.LastSessionWeek, s.UpdatedAt)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PostgresSubscriptionRepo) FindByID(ctx context.Context, tx repository.Tx, id int64) (*model.Subscription, error) {
	row, err := pickRow(ctx, r.pool, tx, `SELECT `+subscriptionColumns+` FROM subscriptions WHERE id=$1;`, id)
	if err != nil {
		return nil, err
	}
	return scanSubscription(row)
}

func (r *PostgresSubscriptionRepo) List(ctx context.Context, tx repository.Tx, offset, limit int) ([]*model.Subscription, error) {
	rows, err := queryRows(ctx, r.pool, tx, "list subscriptions",
		`SELECT `+subscriptionColumns+` FROM subscriptions ORDER BY id OFFSET $1 LIMIT $2;`, offset, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*model.Subscription
	for rows.Next() {
		s, err := scanSubscription(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *PostgresSubscriptionRepo) Delete(ctx context.Context, tx repository.Tx, id int64) error {
	ct, err := execSQL(ctx, r.pool, tx, "delete subscription", `DELETE FROM subscriptions WHERE id=$1;`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanSubscription(row rowScanner) (*model.Subscription, error) {
	var (
		s     model.Subscription
		quota *int
	)
	if err := row.Scan(&s.ID, &s.PlanID, &s.PlanType, &quota, &s.StartDate, &s.EndDate,
		&s.DurationMonths, &s.PriceCents, &s.WeeklySessionsUsed, &s.LastSessionWeek, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, wrapScanErr("scan subscription", err)
	}
	q, err := model.QuotaFromPtr(quota)
	if err != nil {
		return nil, fmt.Errorf("scan subscription quota: %w", err)
	}
	s.WeeklyQuota = q
	return &s, nil
}
