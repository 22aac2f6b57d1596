package model

import (
	"encoding/json"

	"gym-club-management/internal/domain"
)

// WeeklyQuota is the number of sessions a subscription allows per ISO week.
// Unlimited is a tagged variant, not a large-integer placeholder, so
// comparisons and arithmetic never overflow.
type WeeklyQuota struct {
	limit     int
	unlimited bool
}

// UnlimitedQuota returns the quota variant with no weekly cap.
func UnlimitedQuota() WeeklyQuota { return WeeklyQuota{unlimited: true} }

// QuotaOf validates and constructs a bounded weekly quota.
func QuotaOf(n int) (WeeklyQuota, error) {
	if n <= 0 {
		return WeeklyQuota{}, domain.ErrInvalidArgument
	}
	return WeeklyQuota{limit: n}, nil
}

func (q WeeklyQuota) Unlimited() bool { return q.unlimited }

// Limit returns the weekly cap. Only meaningful for bounded quotas.
func (q WeeklyQuota) Limit() int {
	if q.unlimited {
		return 0
	}
	return q.limit
}

// Remaining reports how many sessions are left given usage so far this week.
// The bool is false for the unlimited variant, where the count is meaningless.
func (q WeeklyQuota) Remaining(used int) (int, bool) {
	if q.unlimited {
		return 0, false
	}
	if used >= q.limit {
		return 0, true
	}
	return q.limit - used, true
}

// Allows reports whether one more session fits under the quota.
func (q WeeklyQuota) Allows(used int) bool {
	return q.unlimited || used < q.limit
}

func (q WeeklyQuota) IsZero() bool { return !q.unlimited && q.limit == 0 }

// MarshalJSON encodes a bounded quota as its limit and the unlimited
// variant as null, which is also the database representation.
func (q WeeklyQuota) MarshalJSON() ([]byte, error) {
	if q.unlimited {
		return []byte("null"), nil
	}
	return json.Marshal(q.limit)
}

func (q *WeeklyQuota) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*q = UnlimitedQuota()
		return nil
	}
	var n int
	if err := json.Unmarshal(b, &n); err != nil {
		return domain.ErrInvalidArgument
	}
	parsed, err := QuotaOf(n)
	if err != nil {
		return err
	}
	*q = parsed
	return nil
}

// QuotaFromPtr maps the nullable storage column to the quota variant:
// NULL means unlimited.
func QuotaFromPtr(n *int) (WeeklyQuota, error) {
	if n == nil {
		return UnlimitedQuota(), nil
	}
	return QuotaOf(*n)
}

// Ptr is the inverse of QuotaFromPtr.
func (q WeeklyQuota) Ptr() *int {
	if q.unlimited {
		return nil
	}
	n := q.limit
	return &n
}
