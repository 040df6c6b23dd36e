package services

import (
	"context"
	"errors"
	"fmt"

	"formsheet/internal/models"
	"formsheet/internal/repositories"

	"go.uber.org/zap"
)

// EventPublisher announces domain events to other systems.
type EventPublisher interface {
	Publish(event string, data map[string]interface{}) error
}

// AuthService handles signup, login and session token checks.
type AuthService struct {
	logs        *zap.SugaredLogger
	userRepo    repositories.UserRepository
	credentials *CredentialService
	publisher   EventPublisher
	uniqueEmail bool
}

// NewAuthService creates a new AuthService. publisher may be nil. When uniqueEmail is set,
// signup rejects an email that already has an account.
func NewAuthService(
	logger *zap.SugaredLogger,
	userRepo repositories.UserRepository,
	credentials *CredentialService,
	publisher EventPublisher,
	uniqueEmail bool,
) *AuthService {
	return &AuthService{
		logs:        logger,
		userRepo:    userRepo,
		credentials: credentials,
		publisher:   publisher,
		uniqueEmail: uniqueEmail,
	}
}

// Signup hashes the password and stores a new account.
func (s *AuthService) Signup(ctx context.Context, username, password, email string) error {
	hashed, err := s.credentials.HashPassword(password)
	if err != nil {
		return err
	}

	account := &models.Account{
		Username:     username,
		PasswordHash: hashed,
		Email:        email,
	}

	if s.uniqueEmail {
		err = s.userRepo.CreateUnique(ctx, account)
	} else {
		err = s.userRepo.Create(ctx, account)
	}
	if err != nil {
		if errors.Is(err, repositories.ErrEmailTaken) {
			return fmt.Errorf("%w: %s", ErrEmailRegistered, email)
		}
		return fmt.Errorf("failed to sign up user: %w", err)
	}

	publish(s.logs, s.publisher, "account.created", map[string]interface{}{
		"username": account.Username,
		"email":    account.Email,
	})
	return nil
}

// Login verifies the credentials and returns a signed session token for the email.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	account, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrAccountNotFound) {
			return "", ErrUserNotFound
		}
		return "", fmt.Errorf("failed to find user: %w", err)
	}

	if !s.credentials.VerifyPassword(password, account.PasswordHash) {
		return "", ErrIncorrectPassword
	}

	return s.credentials.IssueToken(account.Email)
}

// Authenticate returns the email a valid session token was issued for.
func (s *AuthService) Authenticate(token string) (string, error) {
	return s.credentials.VerifyToken(token)
}

func publish(logger *zap.SugaredLogger, publisher EventPublisher, event string, data map[string]interface{}) {
	if publisher == nil {
		return
	}
	if err := publisher.Publish(event, data); err != nil {
		logger.Warnw("failed to publish event", "event", event, "error", err)
	}
}
