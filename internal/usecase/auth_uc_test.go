package usecase

import (
	"context"
	"errors"
	"testing"

	"gym-club-management/internal/domain"
	"gym-club-management/internal/domain/model"
)

func TestAuth(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	uc := NewAuthUseCase(newMemAccountRepo(), newFixedClock(monday()))

	t.Run("register and login", func(t *testing.T) {
		acc, err := uc.Register(ctx, "admin", "s3cret-pass", model.RoleAdmin)
		if err != nil {
			t.Fatalf("Register: %v", err)
		}
		if acc.PasswordHash == "s3cret-pass" {
			t.Fatal("password must not be stored in clear")
		}
		got, err := uc.Login(ctx, "admin", "s3cret-pass")
		if err != nil {
			t.Fatalf("Login: %v", err)
		}
		if got.Role != model.RoleAdmin {
			t.Fatalf("expected ADMIN role, got %s", got.Role)
		}
	})

	t.Run("duplicate username", func(t *testing.T) {
		if _, err := uc.Register(ctx, "admin", "other-pass", model.RoleUser); !errors.Is(err, domain.ErrAlreadyExists) {
			t.Fatalf("expected ErrAlreadyExists, got %v", err)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		if _, err := uc.Login(ctx, "admin", "wrong"); !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("unknown user does not leak existence", func(t *testing.T) {
		if _, err := uc.Login(ctx, "ghost", "whatever"); !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("change password", func(t *testing.T) {
		if err := uc.ChangePassword(ctx, "admin", "wrong", "new-pass"); !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials for wrong current password, got %v", err)
		}
		if err := uc.ChangePassword(ctx, "admin", "s3cret-pass", "new-pass"); err != nil {
			t.Fatalf("ChangePassword: %v", err)
		}
		if _, err := uc.Login(ctx, "admin", "s3cret-pass"); !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Fatal("old password must stop working")
		}
		if _, err := uc.Login(ctx, "admin", "new-pass"); err != nil {
			t.Fatalf("login with new password: %v", err)
		}
	})
}
