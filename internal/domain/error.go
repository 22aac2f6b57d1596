package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound             = errors.New("entity not found")
	ErrAlreadyExists        = errors.New("entity already exists")
	ErrInvalidArgument      = errors.New("invalid argument")
	ErrInvalidState         = errors.New("invalid state transition")
	ErrNoActiveSubscription = errors.New("no active subscription")
	ErrInvalidCredentials   = errors.New("invalid credentials")

	// Infra-side errors surfaced by repositories
	ErrOperationFailed    = errors.New("storage operation failed")
	ErrReadDatabaseRow    = errors.New("failed to read database row")
	ErrInvalidExecContext = errors.New("invalid execution context")
	ErrLockNotAcquired    = errors.New("lock not acquired")
)
