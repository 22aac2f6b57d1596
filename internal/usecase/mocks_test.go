package usecase

import (
	"context"
	"strings"
	"sync"
	"time"

	"gym-club-management/internal/domain"
	"gym-club-management/internal/domain/model"
	"gym-club-management/internal/domain/ports/repository"
)

// fixedClock lets tests pin or advance "now".
type fixedClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFixedClock(now time.Time) *fixedClock { return &fixedClock{now: now} }

func (c *fixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func (c *fixedClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// memAdherentRepo is a small in-memory implementation used by unit tests.
// It shares a memSubRepo so loads observe subscription saves, the way the
// Postgres repo resolves the owned row through its join.
type memAdherentRepo struct {
	mu      sync.RWMutex
	store   map[int64]*model.Adherent
	subs    *memSubRepo
	nextID  int64
	saveErr map[int64]error // per-id save failures for sweep tests
}

func newMemAdherentRepo(subs *memSubRepo) *memAdherentRepo {
	return &memAdherentRepo{store: make(map[int64]*model.Adherent), subs: subs, saveErr: make(map[int64]error)}
}

func (m *memAdherentRepo) copyAdherent(a *model.Adherent) *model.Adherent {
	cp := *a
	if a.CurrentSubscription != nil {
		if m.subs != nil {
			if fresh, err := m.subs.FindByID(context.Background(), repository.NoTX, a.CurrentSubscription.ID); err == nil {
				cp.CurrentSubscription = fresh
				return &cp
			}
		}
		sub := *a.CurrentSubscription
		cp.CurrentSubscription = &sub
	}
	return &cp
}

func (m *memAdherentRepo) Save(ctx context.Context, tx repository.Tx, a *model.Adherent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.saveErr[a.ID]; err != nil {
		return err
	}
	if a.ID == 0 {
		m.nextID++
		a.ID = m.nextID
	}
	m.store[a.ID] = m.copyAdherent(a)
	return nil
}

func (m *memAdherentRepo) FindByID(ctx context.Context, tx repository.Tx, id int64) (*model.Adherent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return m.copyAdherent(a), nil
}

func (m *memAdherentRepo) FindByEmail(ctx context.Context, tx repository.Tx, email string) (*model.Adherent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, a := range m.store {
		if a.Email == strings.ToLower(email) {
			return m.copyAdherent(a), nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memAdherentRepo) ExistsByEmail(ctx context.Context, tx repository.Tx, email string) (bool, error) {
	_, err := m.FindByEmail(ctx, tx, email)
	if err == domain.ErrNotFound {
		return false, nil
	}
	return err == nil, err
}

func (m *memAdherentRepo) List(ctx context.Context, tx repository.Tx, offset, limit int) ([]*model.Adherent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.Adherent
	for _, a := range m.store {
		out = append(out, m.copyAdherent(a))
	}
	if offset >= len(out) {
		return nil, nil
	}
	end := offset + limit
	if end > len(out) {
		end = len(out)
	}
	return out[offset:end], nil
}

func (m *memAdherentRepo) ListByStatus(ctx context.Context, tx repository.Tx, status model.AdherentStatus) ([]*model.Adherent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.Adherent
	for _, a := range m.store {
		if a.Status == status {
			out = append(out, m.copyAdherent(a))
		}
	}
	return out, nil
}

func (m *memAdherentRepo) SearchByName(ctx context.Context, tx repository.Tx, name string) ([]*model.Adherent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	needle := strings.ToLower(name)
	var out []*model.Adherent
	for _, a := range m.store {
		if strings.Contains(strings.ToLower(a.FullName()), needle) {
			out = append(out, m.copyAdherent(a))
		}
	}
	return out, nil
}

func (m *memAdherentRepo) ListActiveWithLapsedSubscription(ctx context.Context, tx repository.Tx, before time.Time) ([]*model.Adherent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.Adherent
	for _, a := range m.store {
		if a.Status != model.AdherentStatusActive || a.CurrentSubscription == nil {
			continue
		}
		end := a.CurrentSubscription.EndDate
		if end != nil && end.Before(before) {
			out = append(out, m.copyAdherent(a))
		}
	}
	return out, nil
}

func (m *memAdherentRepo) CountByStatus(ctx context.Context, tx repository.Tx) (map[model.AdherentStatus]int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	counts := make(map[model.AdherentStatus]int)
	for _, a := range m.store {
		counts[a.Status]++
	}
	return counts, nil
}

func (m *memAdherentRepo) CountBySubscriptionPlan(ctx context.Context, tx repository.Tx) (map[int64]int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	counts := make(map[int64]int)
	for _, a := range m.store {
		if a.CurrentSubscription != nil {
			counts[a.CurrentSubscription.PlanID]++
		}
	}
	return counts, nil
}

func (m *memAdherentRepo) CountCreatedBetween(ctx context.Context, tx repository.Tx, from, to time.Time) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, a := range m.store {
		if !a.CreatedAt.Before(from) && a.CreatedAt.Before(to) {
			n++
		}
	}
	return n, nil
}

// memPlanRepo provides in-memory plans for tests.
type memPlanRepo struct {
	mu     sync.RWMutex
	store  map[int64]*model.Plan
	nextID int64
}

func newMemPlanRepo() *memPlanRepo {
	return &memPlanRepo{store: make(map[int64]*model.Plan)}
}

func (m *memPlanRepo) Save(ctx context.Context, tx repository.Tx, p *model.Plan) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p.ID == 0 {
		m.nextID++
		p.ID = m.nextID
	}
	cp := *p
	m.store[p.ID] = &cp
	return nil
}

func (m *memPlanRepo) FindByID(ctx context.Context, tx repository.Tx, id int64) (*model.Plan, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memPlanRepo) FindByType(ctx context.Context, tx repository.Tx, planType string) (*model.Plan, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.store {
		if p.Type == planType {
			cp := *p
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memPlanRepo) ExistsByType(ctx context.Context, tx repository.Tx, planType string) (bool, error) {
	_, err := m.FindByType(ctx, tx, planType)
	if err == domain.ErrNotFound {
		return false, nil
	}
	return err == nil, err
}

func (m *memPlanRepo) List(ctx context.Context, tx repository.Tx, offset, limit int) ([]*model.Plan, error) {
	all, _ := m.ListAll(ctx, tx)
	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (m *memPlanRepo) ListAll(ctx context.Context, tx repository.Tx) ([]*model.Plan, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.Plan
	for _, p := range m.store {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (m *memPlanRepo) Delete(ctx context.Context, tx repository.Tx, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.store, id)
	return nil
}

// memSubRepo provides in-memory subscription instances for tests.
type memSubRepo struct {
	mu     sync.RWMutex
	store  map[int64]*model.Subscription
	nextID int64
}

func newMemSubRepo() *memSubRepo {
	return &memSubRepo{store: make(map[int64]*model.Subscription)}
}

func (m *memSubRepo) Save(ctx context.Context, tx repository.Tx, s *model.Subscription) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s.ID == 0 {
		m.nextID++
		s.ID = m.nextID
	}
	cp := *s
	m.store[s.ID] = &cp
	return nil
}

func (m *memSubRepo) FindByID(ctx context.Context, tx repository.Tx, id int64) (*model.Subscription, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *memSubRepo) List(ctx context.Context, tx repository.Tx, offset, limit int) ([]*model.Subscription, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.Subscription
	for _, s := range m.store {
		cp := *s
		out = append(out, &cp)
	}
	if offset >= len(out) {
		return nil, nil
	}
	end := offset + limit
	if end > len(out) {
		end = len(out)
	}
	return out[offset:end], nil
}

func (m *memSubRepo) Delete(ctx context.Context, tx repository.Tx, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.store, id)
	return nil
}

// memAccountRepo provides in-memory login accounts for tests.
type memAccountRepo struct {
	mu     sync.RWMutex
	store  map[string]*model.Account
	nextID int64
}

func newMemAccountRepo() *memAccountRepo {
	return &memAccountRepo{store: make(map[string]*model.Account)}
}

func (m *memAccountRepo) Save(ctx context.Context, tx repository.Tx, acc *model.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if acc.ID == 0 {
		m.nextID++
		acc.ID = m.nextID
	}
	cp := *acc
	m.store[acc.Username] = &cp
	return nil
}

func (m *memAccountRepo) FindByUsername(ctx context.Context, tx repository.Tx, username string) (*model.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	acc, ok := m.store[strings.ToLower(username)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *acc
	return &cp, nil
}

func (m *memAccountRepo) ExistsByUsername(ctx context.Context, tx repository.Tx, username string) (bool, error) {
	_, err := m.FindByUsername(ctx, tx, username)
	if err == domain.ErrNotFound {
		return false, nil
	}
	return err == nil, err
}

func (m *memAccountRepo) FindByAdherentID(ctx context.Context, tx repository.Tx, adherentID int64) (*model.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, acc := range m.store {
		if acc.AdherentID != nil && *acc.AdherentID == adherentID {
			cp := *acc
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}
