package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"

	"gym-club-management/internal/domain"
	"gym-club-management/internal/domain/model"
	"gym-club-management/internal/domain/ports/repository"
)

// Ensure interface compliance
var _ repository.AdherentRepository = (*PostgresAdherentRepo)(nil)

type PostgresAdherentRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresAdherentRepo(pool *pgxpool.Pool) *PostgresAdherentRepo {
	return &PostgresAdherentRepo{pool: pool}
}

// adherentColumns selects the member row joined to its current subscription.
// The join is LEFT so members without a subscription still load.
const adherentColumns = `
a.id, a.first_name, a.last_name, a.email, a.phone_number, a.date_of_birth,
a.address, a.city, a.postal_code, a.country, a.medical_certificate, a.photo,
a.status, a.suspended_reason, a.suspended_at, a.created_at, a.updated_at,
s.id, s.plan_id, s.plan_type, s.weekly_quota, s.start_date, s.end_date,
s.duration_months, s.price_cents, s.weekly_sessions_used, s.last_session_week, s.created_at, s.updated_at`

const adherentFrom = `
  FROM adherents a
  LEFT JOIN subscriptions s ON s.id = a.current_subscription_id`

func (r *PostgresAdherentRepo) Save(ctx context.Context, tx repository.Tx, a *model.Adherent) error {
	var subID *int64
	if a.CurrentSubscription != nil {
		subID = &a.CurrentSubscription.ID
	}
	if a.ID == 0 {
		const q = `
INSERT INTO adherents (
  first_name, last_name, email, phone_number, date_of_birth,
  address, city, postal_code, country, medical_certificate, photo,
  status, current_subscription_id, suspended_reason, suspended_at, created_at, updated_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
RETURNING id;
`
		row, err := pickRow(ctx, r.pool, tx, q,
			a.FirstName, a.LastName, a.Email, a.PhoneNumber, a.DateOfBirth,
			a.Address, a.City, a.PostalCode, a.Country, a.MedicalCertificate, a.Photo,
			a.Status, subID, a.SuspendedReason, a.SuspendedAt, a.CreatedAt, a.UpdatedAt)
		if err != nil {
			return err
		}
		if err := row.Scan(&a.ID); err != nil {
			return wrapExecErr("insert adherent", err)
		}
		return nil
	}
	const q = `
UPDATE adherents
   SET first_name=$2, last_name=$3, email=$4, phone_number=$5, date_of_birth=$6,
       address=$7, city=$8, postal_code=$9, country=$10, medical_certificate=$11, photo=$12,
       status=$13, current_subscription_id=$14, suspended_reason=$15, suspended_at=$16, updated_at=$17
 WHERE id=$1;
`
	ct, err := execSQL(ctx, r.pool, tx, "update adherent", q,
		a.ID, a.FirstName, a.LastName, a.Email, a.PhoneNumber, a.DateOfBirth,
		a.Address, a.City, a.PostalCode, a.Country, a.MedicalCertificate, a.Photo,
		a.Status, subID, a.SuspendedReason, a.SuspendedAt, a.UpdatedAt)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PostgresAdherentRepo) FindByID(ctx context.Context, tx repository.Tx, id int64) (*model.Adherent, error) {
	row, err := pickRow(ctx, r.pool, tx, `SELECT `+adherentColumns+adherentFrom+` WHERE a.id=$1;`, id)
	if err != nil {
		return nil, err
	}
	return scanAdherent(row)
}

func (r *PostgresAdherentRepo) FindByEmail(ctx context.Context, tx repository.Tx, email string) (*model.Adherent, error) {
	row, err := pickRow(ctx, r.pool, tx, `SELECT `+adherentColumns+adherentFrom+` WHERE a.email=$1;`, email)
	if err != nil {
		return nil, err
	}
	return scanAdherent(row)
}

func (r *PostgresAdherentRepo) ExistsByEmail(ctx context.Context, tx repository.Tx, email string) (bool, error) {
	row, err := pickRow(ctx, r.pool, tx, `SELECT EXISTS(SELECT 1 FROM adherents WHERE email=$1);`, email)
	if err != nil {
		return false, err
	}
	var exists bool
	if err := row.Scan(&exists); err != nil {
		return false, wrapScanErr("exists adherent", err)
	}
	return exists, nil
}

func (r *PostgresAdherentRepo) List(ctx context.Context, tx repository.Tx, offset, limit int) ([]*model.Adherent, error) {
	return r.listWhere(ctx, tx, "list adherents", `ORDER BY a.id OFFSET $1 LIMIT $2`, offset, limit)
}

func (r *PostgresAdherentRepo) ListByStatus(ctx context.Context, tx repository.Tx, status model.AdherentStatus) ([]*model.Adherent, error) {
	return r.listWhere(ctx, tx, "list adherents by status", `WHERE a.status=$1 ORDER BY a.id`, status)
}

func (r *PostgresAdherentRepo) SearchByName(ctx context.Context, tx repository.Tx, name string) ([]*model.Adherent, error) {
	pattern := "%" + name + "%"
	return r.listWhere(ctx, tx, "search adherents",
		`WHERE a.first_name ILIKE $1 OR a.last_name ILIKE $1 ORDER BY a.id`, pattern)
}

func (r *PostgresAdherentRepo) ListActiveWithLapsedSubscription(ctx context.Context, tx repository.Tx, before time.Time) ([]*model.Adherent, error) {
	return r.listWhere(ctx, tx, "list lapsed adherents",
		`WHERE a.status=$1 AND s.end_date IS NOT NULL AND s.end_date::date < $2::date ORDER BY a.id`,
		model.AdherentStatusActive, before)
}

func (r *PostgresAdherentRepo) CountByStatus(ctx context.Context, tx repository.Tx) (map[model.AdherentStatus]int, error) {
	rows, err := queryRows(ctx, r.pool, tx, "count adherents by status",
		`SELECT status, COUNT(*) FROM adherents GROUP BY status;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[model.AdherentStatus]int)
	for rows.Next() {
		var (
			status model.AdherentStatus
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, wrapScanErr("scan status count", err)
		}
		out[status] = n
	}
	return out, rows.Err()
}

func (r *PostgresAdherentRepo) CountBySubscriptionPlan(ctx context.Context, tx repository.Tx) (map[int64]int, error) {
	rows, err := queryRows(ctx, r.pool, tx, "count adherents by plan", `
SELECT s.plan_id, COUNT(*)
  FROM adherents a
  JOIN subscriptions s ON s.id = a.current_subscription_id
 GROUP BY s.plan_id;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[int64]int)
	for rows.Next() {
		var (
			planID int64
			n      int
		)
		if err := rows.Scan(&planID, &n); err != nil {
			return nil, wrapScanErr("scan plan count", err)
		}
		out[planID] = n
	}
	return out, rows.Err()
}

func (r *PostgresAdherentRepo) CountCreatedBetween(ctx context.Context, tx repository.Tx, from, to time.Time) (int, error) {
	row, err := pickRow(ctx, r.pool, tx,
		`SELECT COUNT(*) FROM adherents WHERE created_at >= $1 AND created_at < $2;`, from, to)
	if err != nil {
		return 0, err
	}
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, wrapScanErr("count adherents", err)
	}
	return n, nil
}

func (r *PostgresAdherentRepo) listWhere(ctx context.Context, tx repository.Tx, op, clause string, args ...interface{}) ([]*model.Adherent, error) {
	rows, err := queryRows(ctx, r.pool, tx, op, `SELECT `+adherentColumns+adherentFrom+` `+clause+`;`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*model.Adherent
	for rows.Next() {
		a, err := scanAdherent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func scanAdherent(row rowScanner) (*model.Adherent, error) {
	var (
		a model.Adherent

		subID             *int64
		subPlanID         *int64
		subPlanType       *string
		subQuota          *int
		subStart, subEnd  *time.Time
		subMonths         *int
		subPrice          *int64
		subUsed           *int
		subWeek           *int
		subCreated        *time.Time
		subUpdated        *time.Time
	)
	if err := row.Scan(
		&a.ID, &a.FirstName, &a.LastName, &a.Email, &a.PhoneNumber, &a.DateOfBirth,
		&a.Address, &a.City, &a.PostalCode, &a.Country, &a.MedicalCertificate, &a.Photo,
		&a.Status, &a.SuspendedReason, &a.SuspendedAt, &a.CreatedAt, &a.UpdatedAt,
		&subID, &subPlanID, &subPlanType, &subQuota, &subStart, &subEnd,
		&subMonths, &subPrice, &subUsed, &subWeek, &subCreated, &subUpdated,
	); err != nil {
		return nil, wrapScanErr("scan adherent", err)
	}
	if subID != nil {
		quota, err := model.QuotaFromPtr(subQuota)
		if err != nil {
			return nil, fmt.Errorf("scan adherent subscription quota: %w", err)
		}
		a.CurrentSubscription = &model.Subscription{
			ID:                 *subID,
			PlanID:             *subPlanID,
			PlanType:           *subPlanType,
			WeeklyQuota:        quota,
			StartDate:          subStart,
			EndDate:            subEnd,
			DurationMonths:     *subMonths,
			PriceCents:         *subPrice,
			WeeklySessionsUsed: *subUsed,
			LastSessionWeek:    subWeek,
			CreatedAt:          *subCreated,
			UpdatedAt:          *subUpdated,
		}
	}
	return &a, nil
}
