package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"gym-club-management/internal/domain/model"
	"gym-club-management/internal/domain/ports/repository"
	"gym-club-management/internal/infra/metrics"
	red "gym-club-management/internal/infra/redis"
)

var _ repository.PlanRepository = (*planRepoCacheDecorator)(nil)

// planRepoCacheDecorator caches the small, read-heavy plan catalog in Redis.
// Writes invalidate both the per-plan key and the full-list key.
type planRepoCacheDecorator struct {
	inner repository.PlanRepository
	cache red.RedisClient
	ttl   time.Duration
}

func NewPlanRepoCacheDecorator(inner repository.PlanRepository, cache red.RedisClient) repository.PlanRepository {
	return &planRepoCacheDecorator{
		inner: inner,
		cache: cache,
		ttl:   1 * time.Hour,
	}
}

func planKey(id int64) string { return fmt.Sprintf("plan:%d", id) }

const planListKey = "plans:all"

func (d *planRepoCacheDecorator) FindByID(ctx context.Context, tx repository.Tx, id int64) (*model.Plan, error) {
	val, err := d.cache.Get(ctx, planKey(id))
	if err == nil {
		metrics.IncCacheRequest("plan", "hit")
		var plan model.Plan
		if json.Unmarshal([]byte(val), &plan) == nil {
			return &plan, nil
		}
	} else if err != redis.Nil {
		// Redis being down degrades to a plain read.
	}

	metrics.IncCacheRequest("plan", "miss")
	plan, err := d.inner.FindByID(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if plan != nil {
		bytes, _ := json.Marshal(plan)
		d.cache.Set(ctx, planKey(id), bytes, d.ttl)
	}
	return plan, nil
}

func (d *planRepoCacheDecorator) Save(ctx context.Context, tx repository.Tx, plan *model.Plan) error {
	if plan.ID != 0 {
		d.cache.Del(ctx, planKey(plan.ID))
	}
	d.cache.Del(ctx, planListKey)
	return d.inner.Save(ctx, tx, plan)
}

func (d *planRepoCacheDecorator) Delete(ctx context.Context, tx repository.Tx, id int64) error {
	d.cache.Del(ctx, planKey(id))
	d.cache.Del(ctx, planListKey)
	return d.inner.Delete(ctx, tx, id)
}

func (d *planRepoCacheDecorator) ListAll(ctx context.Context, tx repository.Tx) ([]*model.Plan, error) {
	val, err := d.cache.Get(ctx, planListKey)
	if err == nil {
		metrics.IncCacheRequest("plan_list", "hit")
		var plans []*model.Plan
		if json.Unmarshal([]byte(val), &plans) == nil {
			return plans, nil
		}
	}

	metrics.IncCacheRequest("plan_list", "miss")
	plans, err := d.inner.ListAll(ctx, tx)
	if err != nil {
		return nil, err
	}
	if len(plans) > 0 {
		bytes, _ := json.Marshal(plans)
		d.cache.Set(ctx, planListKey, bytes, d.ttl)
	}
	return plans, nil
}

// The remaining reads are uncached pass-throughs; they either hit unique
// indexes or are admin-only listings.

func (d *planRepoCacheDecorator) FindByType(ctx context.Context, tx repository.Tx, planType string) (*model.Plan, error) {
	return d.inner.FindByType(ctx, tx, planType)
}

func (d *planRepoCacheDecorator) ExistsByType(ctx context.Context, tx repository.Tx, planType string) (bool, error) {
	return d.inner.ExistsByType(ctx, tx, planType)
}

func (d *planRepoCacheDecorator) List(ctx context.Context, tx repository.Tx, offset, limit int) ([]*model.Plan, error) {
	return d.inner.List(ctx, tx, offset, limit)
}
