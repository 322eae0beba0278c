package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/comitanigiacomo/kanso-lift/internal/core/domain"
	"github.com/google/uuid"
)

// PresetEnqueuer schedules the preset catalogue for a freshly registered user.
type PresetEnqueuer interface {
	Enqueue(userID string)
}

type AuthService struct {
	repo   domain.UserRepository
	seeder PresetEnqueuer
}

// NewAuthService accepts a nil seeder, in which case new accounts start empty.
func NewAuthService(repo domain.UserRepository, seeder PresetEnqueuer) *AuthService {
	return &AuthService{
		repo:   repo,
		seeder: seeder,
	}
}

type RegisterInput struct {
	Email    string
	Password string
}

type LoginInput struct {
	Email    string
	Password string
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	id := uuid.NewString()
	user, err := domain.NewUser(id, input.Email)
	if err != nil {
		return nil, err
	}

	if err := user.SetPassword(input.Password); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("auth service: failed to create user: %w", err)
	}

	if s.seeder != nil {
		s.seeder.Enqueue(user.ID)
	}

	return user, nil
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (*domain.User, error) {
	probe, err := domain.NewUser("", input.Email)
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.GetByEmail(ctx, probe.Email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("auth service: failed to load user: %w", err)
	}

	if err := user.CheckPassword(input.Password); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	return user, nil
}
