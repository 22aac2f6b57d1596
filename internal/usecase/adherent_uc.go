package usecase

import (
	"context"
	"time"

	"github.com/jackc/pgx/v4"

	"gym-club-management/internal/domain"
	"gym-club-management/internal/domain/model"
	"gym-club-management/internal/domain/ports/repository"
)

// defaultMemberPassword is the initial credential for accounts provisioned
// alongside a new adherent; members are expected to change it.
const defaultMemberPassword = "user123"

// AdherentUseCase implements member management: creation, profile updates,
// the status state machine and eligibility queries.
type AdherentUseCase struct {
	adherents repository.AdherentRepository
	plans     repository.PlanRepository
	subs      repository.SubscriptionRepository
	accounts  repository.AccountRepository
	txm       repository.TransactionManager
	clock     Clock
}

func NewAdherentUseCase(
	adherents repository.AdherentRepository,
	plans repository.PlanRepository,
	subs repository.SubscriptionRepository,
	accounts repository.AccountRepository,
	clock Clock,
) *AdherentUseCase {
	if clock == nil {
		clock = SystemClock()
	}
	return &AdherentUseCase{adherents: adherents, plans: plans, subs: subs, accounts: accounts, clock: clock}
}

// WithTxManager makes multi-write flows (enrollment, subscription linking)
// run inside a database transaction. Without it they run unguarded, which is
// what the in-memory tests use.
func (uc *AdherentUseCase) WithTxManager(txm repository.TransactionManager) *AdherentUseCase {
	uc.txm = txm
	return uc
}

func (uc *AdherentUseCase) inTx(ctx context.Context, fn func(tx repository.Tx) error) error {
	if uc.txm == nil {
		return fn(repository.NoTX)
	}
	return uc.txm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		return fn(tx)
	})
}

// NewAdherentInput carries the member attributes accepted at creation.
type NewAdherentInput struct {
	FirstName          string
	LastName           string
	Email              string
	PhoneNumber        string
	DateOfBirth        time.Time
	Address            string
	City               string
	PostalCode         string
	Country            string
	MedicalCertificate []byte
	Photo              []byte
}

// Create registers a member and provisions a USER login account with a
// default password, mirroring the front-desk enrollment flow.
func (uc *AdherentUseCase) Create(ctx context.Context, in NewAdherentInput) (*model.Adherent, error) {
	exists, err := uc.adherents.ExistsByEmail(ctx, repository.NoTX, in.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrAlreadyExists
	}

	now := uc.clock.Now()
	a, err := model.NewAdherent(in.FirstName, in.LastName, in.Email, in.DateOfBirth, now)
	if err != nil {
		return nil, err
	}
	a.PhoneNumber = in.PhoneNumber
	a.Address = in.Address
	a.City = in.City
	a.PostalCode = in.PostalCode
	a.Country = in.Country
	a.MedicalCertificate = in.MedicalCertificate
	a.Photo = in.Photo

	// The member row and its login account land together or not at all.
	err = uc.inTx(ctx, func(tx repository.Tx) error {
		if err := uc.adherents.Save(ctx, tx, a); err != nil {
			return err
		}
		return uc.provisionAccount(ctx, tx, a)
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (uc *AdherentUseCase) provisionAccount(ctx context.Context, tx repository.Tx, a *model.Adherent) error {
	exists, err := uc.accounts.ExistsByUsername(ctx, tx, a.Email)
	if err != nil || exists {
		return err
	}
	hash, err := hashPassword(defaultMemberPassword)
	if err != nil {
		return err
	}
	id := a.ID
	acc, err := model.NewAccount(a.Email, hash, model.RoleUser, &id, uc.clock.Now())
	if err != nil {
		return err
	}
	return uc.accounts.Save(ctx, tx, acc)
}

func (uc *AdherentUseCase) Get(ctx context.Context, id int64) (*model.Adherent, error) {
	return uc.adherents.FindByID(ctx, repository.NoTX, id)
}

func (uc *AdherentUseCase) GetByEmail(ctx context.Context, email string) (*model.Adherent, error) {
	return uc.adherents.FindByEmail(ctx, repository.NoTX, email)
}

func (uc *AdherentUseCase) List(ctx context.Context, page, size int) ([]*model.Adherent, error) {
	if size <= 0 {
		size = 20
	}
	if page < 0 {
		page = 0
	}
	return uc.adherents.List(ctx, repository.NoTX, page*size, size)
}

func (uc *AdherentUseCase) ListActive(ctx context.Context) ([]*model.Adherent, error) {
	return uc.adherents.ListByStatus(ctx, repository.NoTX, model.AdherentStatusActive)
}

func (uc *AdherentUseCase) ListByStatus(ctx context.Context, status model.AdherentStatus) ([]*model.Adherent, error) {
	return uc.adherents.ListByStatus(ctx, repository.NoTX, status)
}

func (uc *AdherentUseCase) SearchByName(ctx context.Context, name string) ([]*model.Adherent, error) {
	return uc.adherents.SearchByName(ctx, repository.NoTX, name)
}

// AdherentUpdate carries optional profile fields; nil leaves a field as is.
type AdherentUpdate struct {
	FirstName          *string
	LastName           *string
	PhoneNumber        *string
	DateOfBirth        *time.Time
	Address            *string
	City               *string
	PostalCode         *string
	Country            *string
	MedicalCertificate []byte
	Photo              []byte
}

func (uc *AdherentUseCase) Update(ctx context.Context, id int64, upd AdherentUpdate) (*model.Adherent, error) {
	a, err := uc.adherents.FindByID(ctx, repository.NoTX, id)
	if err != nil {
		return nil, err
	}
	if upd.FirstName != nil {
		a.FirstName = *upd.FirstName
	}
	if upd.LastName != nil {
		a.LastName = *upd.LastName
	}
	if upd.PhoneNumber != nil {
		a.PhoneNumber = *upd.PhoneNumber
	}
	if upd.DateOfBirth != nil {
		a.DateOfBirth = *upd.DateOfBirth
	}
	if upd.Address != nil {
		a.Address = *upd.Address
	}
	if upd.City != nil {
		a.City = *upd.City
	}
	if upd.PostalCode != nil {
		a.PostalCode = *upd.PostalCode
	}
	if upd.Country != nil {
		a.Country = *upd.Country
	}
	if upd.MedicalCertificate != nil {
		a.MedicalCertificate = upd.MedicalCertificate
	}
	if upd.Photo != nil {
		a.Photo = upd.Photo
	}
	a.UpdatedAt = uc.clock.Now()
	if err := uc.adherents.Save(ctx, repository.NoTX, a); err != nil {
		return nil, err
	}
	return a, nil
}

// ===== status state machine =====

func (uc *AdherentUseCase) Suspend(ctx context.Context, id int64, reason string) (*model.Adherent, error) {
	a, err := uc.adherents.FindByID(ctx, repository.NoTX, id)
	if err != nil {
		return nil, err
	}
	a.Suspend(reason, uc.clock.Now())
	if err := uc.adherents.Save(ctx, repository.NoTX, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (uc *AdherentUseCase) Reactivate(ctx context.Context, id int64) (*model.Adherent, error) {
	a, err := uc.adherents.FindByID(ctx, repository.NoTX, id)
	if err != nil {
		return nil, err
	}
	if err := a.Reactivate(uc.clock.Now()); err != nil {
		return nil, err
	}
	if err := uc.adherents.Save(ctx, repository.NoTX, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (uc *AdherentUseCase) Deactivate(ctx context.Context, id int64) error {
	a, err := uc.adherents.FindByID(ctx, repository.NoTX, id)
	if err != nil {
		return err
	}
	a.Deactivate(uc.clock.Now())
	return uc.adherents.Save(ctx, repository.NoTX, a)
}

// ===== subscription ownership =====

// AssignSubscription creates a new instance from a plan and links it as the
// member's current subscription. A previously linked instance is unlinked
// but kept.
func (uc *AdherentUseCase) AssignSubscription(ctx context.Context, adherentID, planID int64, start time.Time, durationMonths int) (*model.Adherent, error) {
	a, err := uc.adherents.FindByID(ctx, repository.NoTX, adherentID)
	if err != nil {
		return nil, err
	}
	plan, err := uc.plans.FindByID(ctx, repository.NoTX, planID)
	if err != nil {
		return nil, err
	}
	now := uc.clock.Now()
	sub, err := model.NewSubscription(plan, start, durationMonths, now)
	if err != nil {
		return nil, err
	}
	err = uc.inTx(ctx, func(tx repository.Tx) error {
		if err := uc.subs.Save(ctx, tx, sub); err != nil {
			return err
		}
		a.AssignSubscription(sub, now)
		return uc.adherents.Save(ctx, tx, a)
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

// AssignSubscriptionByID links an existing instance, e.g. one that was
// previously unlinked.
func (uc *AdherentUseCase) AssignSubscriptionByID(ctx context.Context, adherentID, subscriptionID int64) (*model.Adherent, error) {
	a, err := uc.adherents.FindByID(ctx, repository.NoTX, adherentID)
	if err != nil {
		return nil, err
	}
	sub, err := uc.subs.FindByID(ctx, repository.NoTX, subscriptionID)
	if err != nil {
		return nil, err
	}
	a.AssignSubscription(sub, uc.clock.Now())
	if err := uc.adherents.Save(ctx, repository.NoTX, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (uc *AdherentUseCase) RemoveSubscription(ctx context.Context, adherentID int64) (*model.Adherent, error) {
	a, err := uc.adherents.FindByID(ctx, repository.NoTX, adherentID)
	if err != nil {
		return nil, err
	}
	a.RemoveSubscription(uc.clock.Now())
	if err := uc.adherents.Save(ctx, repository.NoTX, a); err != nil {
		return nil, err
	}
	return a, nil
}

// ===== eligibility =====

func (uc *AdherentUseCase) HasActiveSubscription(ctx context.Context, id int64) (bool, error) {
	a, err := uc.adherents.FindByID(ctx, repository.NoTX, id)
	if err != nil {
		return false, err
	}
	return a.HasActiveSubscription(uc.clock.Now()), nil
}

func (uc *AdherentUseCase) EligibleForSession(ctx context.Context, id int64) (bool, error) {
	a, err := uc.adherents.FindByID(ctx, repository.NoTX, id)
	if err != nil {
		return false, err
	}
	return a.EligibleForSession(uc.clock.Now()), nil
}

func (uc *AdherentUseCase) WeeklySessionLimit(ctx context.Context, id int64) (model.WeeklyQuota, error) {
	a, err := uc.adherents.FindByID(ctx, repository.NoTX, id)
	if err != nil {
		return model.WeeklyQuota{}, err
	}
	return a.WeeklySessionLimit(uc.clock.Now()), nil
}

// ===== medical certificate =====

func (uc *AdherentUseCase) UpdateMedicalCertificate(ctx context.Context, id int64, certificate []byte) (*model.Adherent, error) {
	if len(certificate) == 0 {
		return nil, domain.ErrInvalidArgument
	}
	return uc.Update(ctx, id, AdherentUpdate{MedicalCertificate: certificate})
}

func (uc *AdherentUseCase) MedicalCertificateValid(ctx context.Context, id int64) (bool, error) {
	a, err := uc.adherents.FindByID(ctx, repository.NoTX, id)
	if err != nil {
		return false, err
	}
	return len(a.MedicalCertificate) > 0, nil
}
