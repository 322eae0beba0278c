package services

import (
	"context"
	"time"

	"github.com/comitanigiacomo/kanso-lift/internal/core/domain"
)

type SettingsService struct {
	repo domain.SettingsRepository
}

func NewSettingsService(repo domain.SettingsRepository) *SettingsService {
	return &SettingsService{repo: repo}
}

type UpdateSettingsInput struct {
	UserID      string
	GymLoginURL *string
}

func (s *SettingsService) Get(ctx context.Context, userID string) (*domain.UserSettings, error) {
	return s.repo.Get(ctx, userID)
}

func (s *SettingsService) Update(ctx context.Context, input UpdateSettingsInput) (*domain.UserSettings, error) {
	url, err := domain.NormalizeGymURL(input.GymLoginURL)
	if err != nil {
		return nil, err
	}

	settings := &domain.UserSettings{
		UserID:      input.UserID,
		GymLoginURL: url,
		UpdatedAt:   time.Now().UTC(),
	}
	if err := s.repo.Upsert(ctx, settings); err != nil {
		return nil, err
	}
	return settings, nil
}

// GymLoginURL returns the configured url or ErrGymURLNotSet.
func (s *SettingsService) GymLoginURL(ctx context.Context, userID string) (string, error) {
	settings, err := s.repo.Get(ctx, userID)
	if err != nil {
		return "", err
	}
	if settings.GymLoginURL == nil || *settings.GymLoginURL == "" {
		return "", domain.ErrGymURLNotSet
	}
	return *settings.GymLoginURL, nil
}
