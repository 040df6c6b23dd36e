package services_test

import (
	"context"
	"fmt"
	"testing"

	"formsheet/internal/models"
	"formsheet/internal/repositories"
	"formsheet/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockUserRepository is a mock implementation of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, account *models.Account) error {
	args := m.Called(account)
	return args.Error(0)
}

func (m *MockUserRepository) CreateUnique(ctx context.Context, account *models.Account) error {
	args := m.Called(account)
	return args.Error(0)
}

// MockPublisher is a mock implementation of services.EventPublisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(event string, data map[string]interface{}) error {
	args := m.Called(event, data)
	return args.Error(0)
}

func TestAuthService_Signup(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockUserRepository)
	publisher := new(MockPublisher)
	creds := services.NewCredentialService(testJWTSecret)
	authService := services.NewAuthService(zap.NewNop().Sugar(), mockRepo, creds, publisher, true)

	var stored *models.Account
	mockRepo.On("CreateUnique", mock.AnythingOfType("*models.Account")).
		Run(func(args mock.Arguments) { stored = args.Get(0).(*models.Account) }).
		Return(nil).Once()
	publisher.On("Publish", "account.created", map[string]interface{}{
		"username": "testuser",
		"email":    "test@example.com",
	}).Return(nil).Once()

	err := authService.Signup(ctx, "testuser", "password123", "test@example.com")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "testuser", stored.Username)
	assert.Equal(t, "test@example.com", stored.Email)
	assert.True(t, creds.VerifyPassword("password123", stored.PasswordHash))
	mockRepo.AssertExpectations(t)
	publisher.AssertExpectations(t)

	// email already registered
	mockRepo.On("CreateUnique", mock.AnythingOfType("*models.Account")).
		Return(fmt.Errorf("account: %w", repositories.ErrEmailTaken)).Once()
	err = authService.Signup(ctx, "testuser", "password123", "test@example.com")
	assert.ErrorIs(t, err, services.ErrEmailRegistered)

	// upstream failure
	mockRepo.On("CreateUnique", mock.AnythingOfType("*models.Account")).
		Return(fmt.Errorf("sheets down")).Once()
	err = authService.Signup(ctx, "testuser", "password123", "test@example.com")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, services.ErrEmailRegistered)

	mockRepo.AssertExpectations(t)
	publisher.AssertNumberOfCalls(t, "Publish", 1)
}

func TestAuthService_SignupWithoutUniqueness(t *testing.T) {
	mockRepo := new(MockUserRepository)
	creds := services.NewCredentialService(testJWTSecret)
	authService := services.NewAuthService(zap.NewNop().Sugar(), mockRepo, creds, nil, false)

	mockRepo.On("Create", mock.AnythingOfType("*models.Account")).Return(nil).Once()

	err := authService.Signup(context.Background(), "testuser", "password123", "test@example.com")
	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
	mockRepo.AssertNotCalled(t, "CreateUnique", mock.Anything)
}

func TestAuthService_SignupPublishFailureIsIgnored(t *testing.T) {
	mockRepo := new(MockUserRepository)
	publisher := new(MockPublisher)
	creds := services.NewCredentialService(testJWTSecret)
	authService := services.NewAuthService(zap.NewNop().Sugar(), mockRepo, creds, publisher, true)

	mockRepo.On("CreateUnique", mock.Anything).Return(nil).Once()
	publisher.On("Publish", "account.created", mock.Anything).Return(fmt.Errorf("broker gone")).Once()

	err := authService.Signup(context.Background(), "testuser", "password123", "test@example.com")
	assert.NoError(t, err)
	publisher.AssertExpectations(t)
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockUserRepository)
	creds := services.NewCredentialService(testJWTSecret)
	authService := services.NewAuthService(zap.NewNop().Sugar(), mockRepo, creds, nil, true)

	hash, err := creds.HashPassword("password123")
	require.NoError(t, err)
	account := &models.Account{Username: "testuser", PasswordHash: hash, Email: "test@example.com"}

	// successful login
	mockRepo.On("FindByEmail", "test@example.com").Return(account, nil).Once()
	token, err := authService.Login(ctx, "test@example.com", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	subject, err := authService.Authenticate(token)
	require.NoError(t, err)
	assert.Equal(t, "test@example.com", subject)

	// wrong password
	mockRepo.On("FindByEmail", "test@example.com").Return(account, nil).Once()
	_, err = authService.Login(ctx, "test@example.com", "wrongpassword")
	assert.ErrorIs(t, err, services.ErrIncorrectPassword)

	// unknown email
	mockRepo.On("FindByEmail", "nobody@example.com").
		Return(nil, fmt.Errorf("lookup: %w", repositories.ErrAccountNotFound)).Once()
	_, err = authService.Login(ctx, "nobody@example.com", "password123")
	assert.ErrorIs(t, err, services.ErrUserNotFound)

	// upstream failure
	mockRepo.On("FindByEmail", "test@example.com").Return(nil, fmt.Errorf("sheets down")).Once()
	_, err = authService.Login(ctx, "test@example.com", "password123")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, services.ErrUserNotFound)

	mockRepo.AssertExpectations(t)
}
