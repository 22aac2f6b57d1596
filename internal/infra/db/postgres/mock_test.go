//go:build !integration

package postgres

import (
	"context"
	"time"

	"gym-club-management/internal/domain/model"
	"gym-club-management/internal/domain/ports/repository"
	red "gym-club-management/internal/infra/redis"
)

// --- Mocks for Cache Decorator Tests ---

// mockInnerPlanRepo mocks the database repository that the plan decorator wraps.
type mockInnerPlanRepo struct {
	SaveFunc         func(ctx context.Context, tx repository.Tx, p *model.Plan) error
	FindByIDFunc     func(ctx context.Context, tx repository.Tx, id int64) (*model.Plan, error)
	FindByTypeFunc   func(ctx context.Context, tx repository.Tx, planType string) (*model.Plan, error)
	ExistsByTypeFunc func(ctx context.Context, tx repository.Tx, planType string) (bool, error)
	ListFunc         func(ctx context.Context, tx repository.Tx, offset, limit int) ([]*model.Plan, error)
	ListAllFunc      func(ctx context.Context, tx repository.Tx) ([]*model.Plan, error)
	DeleteFunc       func(ctx context.Context, tx repository.Tx, id int64) error
}

func (m *mockInnerPlanRepo) Save(ctx context.Context, tx repository.Tx, p *model.Plan) error {
	return m.SaveFunc(ctx, tx, p)
}
func (m *mockInnerPlanRepo) FindByID(ctx context.Context, tx repository.Tx, id int64) (*model.Plan, error) {
	return m.FindByIDFunc(ctx, tx, id)
}
func (m *mockInnerPlanRepo) FindByType(ctx context.Context, tx repository.Tx, planType string) (*model.Plan, error) {
	return m.FindByTypeFunc(ctx, tx, planType)
}
func (m *mockInnerPlanRepo) ExistsByType(ctx context.Context, tx repository.Tx, planType string) (bool, error) {
	return m.ExistsByTypeFunc(ctx, tx, planType)
}
func (m *mockInnerPlanRepo) List(ctx context.Context, tx repository.Tx, offset, limit int) ([]*model.Plan, error) {
	return m.ListFunc(ctx, tx, offset, limit)
}
func (m *mockInnerPlanRepo) ListAll(ctx context.Context, tx repository.Tx) ([]*model.Plan, error) {
	return m.ListAllFunc(ctx, tx)
}
func (m *mockInnerPlanRepo) Delete(ctx context.Context, tx repository.Tx, id int64) error {
	return m.DeleteFunc(ctx, tx, id)
}

// mockRedisClient mocks our Redis client wrapper.
type mockRedisClient struct {
	GetFunc    func(ctx context.Context, key string) (string, error)
	SetFunc    func(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	DelFunc    func(ctx context.Context, keys ...string) error
	PingFunc   func(ctx context.Context) error
	IncrFunc   func(ctx context.Context, key string) (int64, error)
	ExpireFunc func(ctx context.Context, key string, expiration time.Duration) error
	CloseFunc  func() error
}

var _ red.RedisClient = &mockRedisClient{}

func (m *mockRedisClient) Get(ctx context.Context, key string) (string, error) {
	return m.GetFunc(ctx, key)
}
func (m *mockRedisClient) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return m.SetFunc(ctx, key, value, expiration)
}
func (m *mockRedisClient) Del(ctx context.Context, keys ...string) error {
	return m.DelFunc(ctx, keys...)
}
func (m *mockRedisClient) Ping(ctx context.Context) error { return m.PingFunc(ctx) }
func (m *mockRedisClient) Incr(ctx context.Context, key string) (int64, error) {
	return m.IncrFunc(ctx, key)
}
func (m *mockRedisClient) Expire(ctx context.Context, key string, expiration time.Duration) error {
	return m.ExpireFunc(ctx, key, expiration)
}
func (m *mockRedisClient) Close() error { return m.CloseFunc() }
