package repositories

import (
	"context"
	"errors"

	"formsheet/internal/models"
)

var (
	ErrAccountNotFound = errors.New("account not found")
	ErrEmailTaken      = errors.New("email already present")
)

// UserRepository defines the interface for account data access.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.Account, error)
	Create(ctx context.Context, account *models.Account) error
	CreateUnique(ctx context.Context, account *models.Account) error
}
