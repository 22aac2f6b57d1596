package usecase

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"gym-club-management/internal/domain"
	"gym-club-management/internal/domain/model"
	"gym-club-management/internal/domain/ports/repository"
)

// AuthUseCase manages login accounts. Token minting and verification live at
// the HTTP boundary; this layer only deals with credentials and roles.
type AuthUseCase struct {
	accounts repository.AccountRepository
	clock    Clock
}

func NewAuthUseCase(accounts repository.AccountRepository, clock Clock) *AuthUseCase {
	if clock == nil {
		clock = SystemClock()
	}
	return &AuthUseCase{accounts: accounts, clock: clock}
}

// Register creates an account with the given role. Usernames are unique.
func (uc *AuthUseCase) Register(ctx context.Context, username, password string, role model.Role) (*model.Account, error) {
	username = strings.ToLower(username)
	if username == "" || password == "" {
		return nil, domain.ErrInvalidArgument
	}
	exists, err := uc.accounts.ExistsByUsername(ctx, repository.NoTX, username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrAlreadyExists
	}
	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}
	acc, err := model.NewAccount(username, hash, role, nil, uc.clock.Now())
	if err != nil {
		return nil, err
	}
	if err := uc.accounts.Save(ctx, repository.NoTX, acc); err != nil {
		return nil, err
	}
	return acc, nil
}

// Login verifies the password and returns the account for token minting.
func (uc *AuthUseCase) Login(ctx context.Context, username, password string) (*model.Account, error) {
	acc, err := uc.accounts.FindByUsername(ctx, repository.NoTX, strings.ToLower(username))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if !checkPassword(acc.PasswordHash, password) {
		return nil, domain.ErrInvalidCredentials
	}
	return acc, nil
}

// GetAccount loads an account by username.
func (uc *AuthUseCase) GetAccount(ctx context.Context, username string) (*model.Account, error) {
	return uc.accounts.FindByUsername(ctx, repository.NoTX, strings.ToLower(username))
}

// ChangePassword verifies the current password before storing a new hash.
func (uc *AuthUseCase) ChangePassword(ctx context.Context, username, current, next string) error {
	if next == "" {
		return domain.ErrInvalidArgument
	}
	acc, err := uc.accounts.FindByUsername(ctx, repository.NoTX, strings.ToLower(username))
	if err != nil {
		return err
	}
	if !checkPassword(acc.PasswordHash, current) {
		return domain.ErrInvalidCredentials
	}
	hash, err := hashPassword(next)
	if err != nil {
		return err
	}
	acc.PasswordHash = hash
	acc.UpdatedAt = uc.clock.Now()
	return uc.accounts.Save(ctx, repository.NoTX, acc)
}

func hashPassword(raw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(raw), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func checkPassword(hash, raw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(raw)) == nil
}
