package services

import (
	"context"
	"sync"
	"testing"

	"github.com/comitanigiacomo/kanso-lift/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

type recordingSeeder struct {
	mu    sync.Mutex
	users []string
}

func (r *recordingSeeder) Enqueue(userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users = append(r.users, userID)
}

func TestAuthService_Register(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("Success: registers and schedules presets", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		seeder := &recordingSeeder{}
		service := NewAuthService(mockRepo, seeder)

		mockRepo.On("Create", ctx, mock.AnythingOfType("*domain.User")).Return(nil)

		user, err := service.Register(ctx, RegisterInput{Email: "Lifter@Gym.app", Password: "StrongPassword123!"})

		require.NoError(t, err)
		assert.Equal(t, "lifter@gym.app", user.Email)
		assert.NotEmpty(t, user.ID)
		assert.NotEmpty(t, user.PasswordHash)
		assert.Equal(t, []string{user.ID}, seeder.users)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Success: nil seeder is allowed", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("Create", ctx, mock.Anything).Return(nil)

		_, err := NewAuthService(mockRepo, nil).Register(ctx, RegisterInput{Email: "a@b.co", Password: "longenough"})
		assert.NoError(t, err)
	})

	t.Run("Fail: invalid email", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		user, err := NewAuthService(mockRepo, nil).Register(ctx, RegisterInput{Email: "not-an-email", Password: "pass"})

		assert.ErrorIs(t, err, domain.ErrInvalidEmail)
		assert.Nil(t, user)
		mockRepo.AssertNotCalled(t, "Create")
	})

	t.Run("Fail: short password", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		_, err := NewAuthService(mockRepo, nil).Register(ctx, RegisterInput{Email: "valid@email.com", Password: "short"})

		assert.ErrorIs(t, err, domain.ErrPasswordTooShort)
		mockRepo.AssertNotCalled(t, "Create")
	})

	t.Run("Fail: duplicate email does not seed", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		seeder := &recordingSeeder{}
		mockRepo.On("Create", ctx, mock.Anything).Return(domain.ErrEmailAlreadyExists)

		_, err := NewAuthService(mockRepo, seeder).Register(ctx, RegisterInput{Email: "dup@email.com", Password: "StrongPassword123!"})

		assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
		assert.Empty(t, seeder.users)
	})
}

func TestAuthService_Login(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	stored, _ := domain.NewUser("u-1", "lifter@gym.app")
	require.NoError(t, stored.SetPassword("benchpress100"))

	t.Run("Success: email lookup is normalized", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("GetByEmail", ctx, "lifter@gym.app").Return(stored, nil)

		user, err := NewAuthService(mockRepo, nil).Login(ctx, LoginInput{Email: "  LIFTER@gym.app ", Password: "benchpress100"})
		require.NoError(t, err)
		assert.Equal(t, "u-1", user.ID)
	})

	t.Run("Fail: wrong password", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("GetByEmail", ctx, "lifter@gym.app").Return(stored, nil)

		_, err := NewAuthService(mockRepo, nil).Login(ctx, LoginInput{Email: "lifter@gym.app", Password: "benchpress101"})
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	t.Run("Fail: unknown user looks like bad credentials", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("GetByEmail", ctx, "ghost@gym.app").Return(nil, domain.ErrUserNotFound)

		_, err := NewAuthService(mockRepo, nil).Login(ctx, LoginInput{Email: "ghost@gym.app", Password: "whatever1"})
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	t.Run("Fail: malformed email never hits the store", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		_, err := NewAuthService(mockRepo, nil).Login(ctx, LoginInput{Email: "nope", Password: "whatever1"})
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
		mockRepo.AssertNotCalled(t, "GetByEmail")
	})
}
