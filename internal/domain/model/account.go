package model

import (
	"strings"
	"time"

	"gym-club-management/internal/domain"
)

type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

// Account is a login credential record. Member accounts reference their
// adherent row; the bootstrap admin account has no adherent.
type Account struct {
	ID           int64
	Username     string // the adherent's email for member accounts
	PasswordHash string
	Role         Role
	AdherentID   *int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func NewAccount(username, passwordHash string, role Role, adherentID *int64, now time.Time) (*Account, error) {
	if username == "" || passwordHash == "" {
		return nil, domain.ErrInvalidArgument
	}
	if role != RoleAdmin && role != RoleUser {
		return nil, domain.ErrInvalidArgument
	}
	return &Account{
		Username:     strings.ToLower(username),
		PasswordHash: passwordHash,
		Role:         role,
		AdherentID:   adherentID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

func (acc *Account) IsZero() bool { return acc == nil || acc.Username == "" }
