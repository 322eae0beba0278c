package services

import (
	"context"
	"fmt"

	"github.com/comitanigiacomo/kanso-lift/internal/core/domain"
	"github.com/comitanigiacomo/kanso-lift/internal/core/progress"
	log "github.com/sirupsen/logrus"
)

type ExerciseService struct {
	repo  domain.ExerciseRepository
	cache progress.Cache
}

func NewExerciseService(repo domain.ExerciseRepository, cache progress.Cache) *ExerciseService {
	if cache == nil {
		cache = progress.NopCache{}
	}
	return &ExerciseService{
		repo:  repo,
		cache: cache,
	}
}

// CreateExerciseInput leaves TargetParts nil to have them inferred from the
// name. An empty, non-nil slice means "no parts".
type CreateExerciseInput struct {
	UserID      string
	Name        string
	TargetParts []string
}

type UpdateExerciseInput struct {
	ID          string
	UserID      string
	Name        string
	TargetParts []string
}

func (s *ExerciseService) Create(ctx context.Context, input CreateExerciseInput) (*domain.Exercise, error) {
	parts := input.TargetParts
	if parts == nil {
		parts = domain.InferTargetParts(input.Name)
	}

	exercise, err := domain.NewExercise(input.UserID, input.Name, parts)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, exercise); err != nil {
		return nil, err
	}
	return exercise, nil
}

func (s *ExerciseService) List(ctx context.Context, userID string) ([]*domain.Exercise, error) {
	return s.repo.ListByUserID(ctx, userID)
}

func (s *ExerciseService) Get(ctx context.Context, id, userID string) (*domain.Exercise, error) {
	exercise, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if exercise.UserID != userID {
		return nil, domain.ErrExerciseNotFound
	}
	return exercise, nil
}

func (s *ExerciseService) Update(ctx context.Context, input UpdateExerciseInput) (*domain.Exercise, error) {
	exercise, err := s.Get(ctx, input.ID, input.UserID)
	if err != nil {
		return nil, err
	}

	parts := input.TargetParts
	if parts == nil {
		parts = exercise.TargetParts
	}
	if err := exercise.Update(input.Name, parts); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, exercise); err != nil {
		return nil, err
	}
	return exercise, nil
}

func (s *ExerciseService) Delete(ctx context.Context, id, userID string) error {
	if _, err := s.Get(ctx, id, userID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id, userID); err != nil {
		return err
	}
	s.cache.InvalidateExercise(ctx, userID, id)
	return nil
}

// CreateBestEffort inserts every distinct, valid name the user does not
// already have. Invalid entries are skipped, not reported as errors.
func (s *ExerciseService) CreateBestEffort(ctx context.Context, userID string, items []CreateExerciseInput) (*domain.BulkResult, error) {
	seen := make(map[string]bool, len(items))
	batch := make([]*domain.Exercise, 0, len(items))

	for _, item := range items {
		key := domain.NameKey(item.Name)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true

		parts := item.TargetParts
		if parts == nil {
			parts = domain.InferTargetParts(item.Name)
		}
		exercise, err := domain.NewExercise(userID, item.Name, parts)
		if err != nil {
			log.WithFields(log.Fields{"user_id": userID, "name": item.Name}).
				WithError(err).Debug("skipping invalid exercise in bulk create")
			continue
		}
		batch = append(batch, exercise)
	}

	result := &domain.BulkResult{Attempted: len(seen)}
	if len(batch) == 0 {
		return result, nil
	}

	inserted, err := s.repo.CreateMany(ctx, batch)
	if err != nil {
		return nil, fmt.Errorf("exercise service: bulk create: %w", err)
	}
	result.Inserted = inserted
	return result, nil
}

// SeedPresets adds the gym machine catalogue, unless the user already owns
// every preset.
func (s *ExerciseService) SeedPresets(ctx context.Context, userID string) (*domain.BulkResult, error) {
	existing, err := s.repo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	owned := make(map[string]bool, len(existing))
	for _, e := range existing {
		owned[e.NameKey()] = true
	}

	missing := make([]CreateExerciseInput, 0, len(domain.PresetExercises))
	for _, p := range domain.PresetExercises {
		if owned[domain.NameKey(p.Name)] {
			continue
		}
		parts := p.TargetParts
		if parts == nil {
			parts = []string{}
		}
		missing = append(missing, CreateExerciseInput{Name: p.Name, TargetParts: parts})
	}

	if len(missing) == 0 {
		return &domain.BulkResult{}, nil
	}
	return s.CreateBestEffort(ctx, userID, missing)
}
