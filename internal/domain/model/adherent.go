package model

import (
	"strings"
	"time"

	"gym-club-management/internal/domain"
)

type AdherentStatus string

const (
	AdherentStatusActive      AdherentStatus = "ACTIVE"
	AdherentStatusSuspended   AdherentStatus = "SUSPENDED"
	AdherentStatusExpired     AdherentStatus = "EXPIRED"
	AdherentStatusDeactivated AdherentStatus = "DEACTIVATED"
)

// ParseAdherentStatus maps a request string onto the status enum.
func ParseAdherentStatus(s string) (AdherentStatus, error) {
	switch AdherentStatus(strings.ToUpper(s)) {
	case AdherentStatusActive, AdherentStatusSuspended, AdherentStatusExpired, AdherentStatusDeactivated:
		return AdherentStatus(strings.ToUpper(s)), nil
	default:
		return "", domain.ErrInvalidArgument
	}
}

// Adherent is a club member record. It owns at most one current subscription
// instance; replacing or removing it unlinks the old instance without
// deleting its row.
type Adherent struct {
	ID                  int64
	FirstName           string
	LastName            string
	Email               string
	PhoneNumber         string
	DateOfBirth         time.Time
	Address             string
	City                string
	PostalCode          string
	Country             string
	MedicalCertificate  []byte
	Photo               []byte
	Status              AdherentStatus
	CurrentSubscription *Subscription
	SuspendedReason     *string
	SuspendedAt         *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// NewAdherent validates and constructs a member in ACTIVE status.
func NewAdherent(firstName, lastName, email string, dateOfBirth time.Time, now time.Time) (*Adherent, error) {
	if firstName == "" || lastName == "" || email == "" {
		return nil, domain.ErrInvalidArgument
	}
	if dateOfBirth.IsZero() || !dateOfBirth.Before(now) {
		return nil, domain.ErrInvalidArgument
	}
	return &Adherent{
		FirstName:   firstName,
		LastName:    lastName,
		Email:       strings.ToLower(email),
		DateOfBirth: dateOfBirth,
		Status:      AdherentStatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

func (a *Adherent) IsZero() bool { return a == nil || a.Email == "" }

func (a *Adherent) FullName() string { return a.FirstName + " " + a.LastName }

// Suspend moves the adherent to SUSPENDED, recording the reason and the
// moment. Re-suspension is allowed and simply refreshes both.
func (a *Adherent) Suspend(reason string, now time.Time) {
	a.Status = AdherentStatusSuspended
	a.SuspendedReason = &reason
	at := now
	a.SuspendedAt = &at
	a.UpdatedAt = now
}

// Reactivate returns a suspended adherent to ACTIVE and clears the
// suspension fields. Any other starting status is an invalid transition.
func (a *Adherent) Reactivate(now time.Time) error {
	if a.Status != AdherentStatusSuspended {
		return domain.ErrInvalidState
	}
	a.Status = AdherentStatusActive
	a.SuspendedReason = nil
	a.SuspendedAt = nil
	a.UpdatedAt = now
	return nil
}

// Deactivate is terminal; no transition leads out of DEACTIVATED.
func (a *Adherent) Deactivate(now time.Time) {
	a.Status = AdherentStatusDeactivated
	a.UpdatedAt = now
}

// Expire demotes an ACTIVE adherent whose subscription window has lapsed.
// Only the expiration sweep calls this.
func (a *Adherent) Expire(now time.Time) error {
	if a.Status != AdherentStatusActive {
		return domain.ErrInvalidState
	}
	a.Status = AdherentStatusExpired
	a.UpdatedAt = now
	return nil
}

// HasActiveSubscription reports whether the adherent is ACTIVE and owns a
// subscription whose validity window contains now.
func (a *Adherent) HasActiveSubscription(now time.Time) bool {
	return a.Status == AdherentStatusActive &&
		a.CurrentSubscription != nil &&
		a.CurrentSubscription.ActiveAt(now)
}

// EligibleForSession answers "may this person use the facility right now".
// The SUSPENDED check looks redundant next to HasActiveSubscription, but it
// is evaluated independently on purpose: a suspended adherent keeps their
// linked, in-window subscription and must still be turned away.
func (a *Adherent) EligibleForSession(now time.Time) bool {
	return a.HasActiveSubscription(now) &&
		a.Status != AdherentStatusSuspended &&
		len(a.MedicalCertificate) > 0
}

// WeeklySessionLimit reports the effective quota of the current subscription,
// or a zero bounded quota when no active subscription exists.
func (a *Adherent) WeeklySessionLimit(now time.Time) WeeklyQuota {
	if !a.HasActiveSubscription(now) {
		return WeeklyQuota{}
	}
	return a.CurrentSubscription.WeeklyQuota
}

// AssignSubscription replaces the current instance. The previous one is only
// unlinked; its row stays retrievable by id.
func (a *Adherent) AssignSubscription(sub *Subscription, now time.Time) {
	a.CurrentSubscription = sub
	a.UpdatedAt = now
}

// RemoveSubscription soft-unlinks the current instance.
func (a *Adherent) RemoveSubscription(now time.Time) {
	a.CurrentSubscription = nil
	a.UpdatedAt = now
}
