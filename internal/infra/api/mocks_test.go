package api

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"gym-club-management/internal/domain"
	"gym-club-management/internal/domain/model"
	"gym-club-management/internal/domain/ports/repository"
)

// In-memory repositories for handler tests. Pointer storage is enough here;
// persistence semantics are covered by the use-case and postgres tests.

type memPlanRepo struct {
	mu    sync.Mutex
	seq   int64
	plans map[int64]*model.Plan
}

func newMemPlanRepo() *memPlanRepo {
	return &memPlanRepo{plans: make(map[int64]*model.Plan)}
}

func (r *memPlanRepo) Save(_ context.Context, _ repository.Tx, p *model.Plan) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID == 0 {
		r.seq++
		p.ID = r.seq
	}
	r.plans[p.ID] = p
	return nil
}

func (r *memPlanRepo) FindByID(_ context.Context, _ repository.Tx, id int64) (*model.Plan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.plans[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func (r *memPlanRepo) FindByType(_ context.Context, _ repository.Tx, planType string) (*model.Plan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.plans {
		if p.Type == planType {
			return p, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memPlanRepo) ExistsByType(ctx context.Context, tx repository.Tx, planType string) (bool, error) {
	_, err := r.FindByType(ctx, tx, planType)
	if err == nil {
		return true, nil
	}
	return false, nil
}

func (r *memPlanRepo) List(_ context.Context, _ repository.Tx, offset, limit int) ([]*model.Plan, error) {
	all, _ := r.ListAll(context.Background(), repository.NoTX)
	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (r *memPlanRepo) ListAll(_ context.Context, _ repository.Tx) ([]*model.Plan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*model.Plan, 0, len(r.plans))
	for _, p := range r.plans {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memPlanRepo) Delete(_ context.Context, _ repository.Tx, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.plans[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.plans, id)
	return nil
}

type memSubRepo struct {
	mu   sync.Mutex
	seq  int64
	subs map[int64]*model.Subscription
}

func newMemSubRepo() *memSubRepo {
	return &memSubRepo{subs: make(map[int64]*model.Subscription)}
}

func (r *memSubRepo) Save(_ context.Context, _ repository.Tx, s *model.Subscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s.ID == 0 {
		r.seq++
		s.ID = r.seq
	}
	r.subs[s.ID] = s
	return nil
}

func (r *memSubRepo) FindByID(_ context.Context, _ repository.Tx, id int64) (*model.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.subs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return s, nil
}

func (r *memSubRepo) List(_ context.Context, _ repository.Tx, offset, limit int) ([]*model.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*model.Subscription, 0, len(r.subs))
	for _, s := range r.subs {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if offset >= len(out) {
		return nil, nil
	}
	end := offset + limit
	if end > len(out) {
		end = len(out)
	}
	return out[offset:end], nil
}

func (r *memSubRepo) Delete(_ context.Context, _ repository.Tx, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.subs[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.subs, id)
	return nil
}

type memAdherentRepo struct {
	mu        sync.Mutex
	seq       int64
	adherents map[int64]*model.Adherent
}

func newMemAdherentRepo() *memAdherentRepo {
	return &memAdherentRepo{adherents: make(map[int64]*model.Adherent)}
}

func (r *memAdherentRepo) Save(_ context.Context, _ repository.Tx, a *model.Adherent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a.ID == 0 {
		r.seq++
		a.ID = r.seq
	}
	r.adherents[a.ID] = a
	return nil
}

func (r *memAdherentRepo) FindByID(_ context.Context, _ repository.Tx, id int64) (*model.Adherent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.adherents[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return a, nil
}

func (r *memAdherentRepo) FindByEmail(_ context.Context, _ repository.Tx, email string) (*model.Adherent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.adherents {
		if a.Email == strings.ToLower(email) {
			return a, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memAdherentRepo) ExistsByEmail(ctx context.Context, tx repository.Tx, email string) (bool, error) {
	_, err := r.FindByEmail(ctx, tx, email)
	return err == nil, nil
}

func (r *memAdherentRepo) all() []*model.Adherent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*model.Adherent, 0, len(r.adherents))
	for _, a := range r.adherents {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *memAdherentRepo) List(_ context.Context, _ repository.Tx, offset, limit int) ([]*model.Adherent, error) {
	all := r.all()
	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (r *memAdherentRepo) ListByStatus(_ context.Context, _ repository.Tx, status model.AdherentStatus) ([]*model.Adherent, error) {
	var out []*model.Adherent
	for _, a := range r.all() {
		if a.Status == status {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *memAdherentRepo) SearchByName(_ context.Context, _ repository.Tx, name string) ([]*model.Adherent, error) {
	needle := strings.ToLower(name)
	var out []*model.Adherent
	for _, a := range r.all() {
		if strings.Contains(strings.ToLower(a.FirstName), needle) ||
			strings.Contains(strings.ToLower(a.LastName), needle) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *memAdherentRepo) ListActiveWithLapsedSubscription(_ context.Context, _ repository.Tx, before time.Time) ([]*model.Adherent, error) {
	var out []*model.Adherent
	for _, a := range r.all() {
		sub := a.CurrentSubscription
		if a.Status == model.AdherentStatusActive && sub != nil &&
			sub.EndDate != nil && sub.EndDate.Before(before) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *memAdherentRepo) CountByStatus(_ context.Context, _ repository.Tx) (map[model.AdherentStatus]int, error) {
	counts := make(map[model.AdherentStatus]int)
	for _, a := range r.all() {
		counts[a.Status]++
	}
	return counts, nil
}

func (r *memAdherentRepo) CountBySubscriptionPlan(_ context.Context, _ repository.Tx) (map[int64]int, error) {
	counts := make(map[int64]int)
	for _, a := range r.all() {
		if a.CurrentSubscription != nil {
			counts[a.CurrentSubscription.PlanID]++
		}
	}
	return counts, nil
}

func (r *memAdherentRepo) CountCreatedBetween(_ context.Context, _ repository.Tx, from, to time.Time) (int, error) {
	n := 0
	for _, a := range r.all() {
		if !a.CreatedAt.Before(from) && a.CreatedAt.Before(to) {
			n++
		}
	}
	return n, nil
}

type memAccountRepo struct {
	mu       sync.Mutex
	seq      int64
	accounts map[string]*model.Account
}

func newMemAccountRepo() *memAccountRepo {
	return &memAccountRepo{accounts: make(map[string]*model.Account)}
}

func (r *memAccountRepo) Save(_ context.Context, _ repository.Tx, acc *model.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if acc.ID == 0 {
		r.seq++
		acc.ID = r.seq
	}
	r.accounts[acc.Username] = acc
	return nil
}

func (r *memAccountRepo) FindByUsername(_ context.Context, _ repository.Tx, username string) (*model.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	acc, ok := r.accounts[strings.ToLower(username)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return acc, nil
}

func (r *memAccountRepo) ExistsByUsername(ctx context.Context, tx repository.Tx, username string) (bool, error) {
	_, err := r.FindByUsername(ctx, tx, username)
	return err == nil, nil
}

func (r *memAccountRepo) FindByAdherentID(_ context.Context, _ repository.Tx, adherentID int64) (*model.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, acc := range r.accounts {
		if acc.AdherentID != nil && *acc.AdherentID == adherentID {
			return acc, nil
		}
	}
	return nil, domain.ErrNotFound
}
