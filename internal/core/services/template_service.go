package services

import (
	"context"

	"github.com/comitanigiacomo/kanso-lift/internal/core/domain"
)

type TemplateService struct {
	repo      domain.TemplateRepository
	exercises domain.ExerciseRepository
	workouts  *WorkoutService
}

func NewTemplateService(repo domain.TemplateRepository, exercises domain.ExerciseRepository, workouts *WorkoutService) *TemplateService {
	return &TemplateService{
		repo:      repo,
		exercises: exercises,
		workouts:  workouts,
	}
}

type SaveTemplateInput struct {
	ID          string
	UserID      string
	Name        string
	ExerciseIDs []string
}

func (s *TemplateService) List(ctx context.Context, userID string) ([]*domain.WorkoutTemplate, error) {
	return s.repo.ListByUserID(ctx, userID)
}

func (s *TemplateService) Create(ctx context.Context, input SaveTemplateInput) (*domain.WorkoutTemplate, error) {
	ids, err := s.ownedIDs(ctx, input.UserID, input.ExerciseIDs)
	if err != nil {
		return nil, err
	}
	tpl, err := domain.NewWorkoutTemplate(input.UserID, input.Name, ids)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, tpl); err != nil {
		return nil, err
	}
	return tpl, nil
}

func (s *TemplateService) Update(ctx context.Context, input SaveTemplateInput) (*domain.WorkoutTemplate, error) {
	tpl, err := s.get(ctx, input.ID, input.UserID)
	if err != nil {
		return nil, err
	}
	ids, err := s.ownedIDs(ctx, input.UserID, input.ExerciseIDs)
	if err != nil {
		return nil, err
	}
	if err := tpl.Update(input.Name, ids); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, tpl); err != nil {
		return nil, err
	}
	return tpl, nil
}

func (s *TemplateService) Delete(ctx context.Context, id, userID string) error {
	if _, err := s.get(ctx, id, userID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id, userID)
}

// Apply adds the template's exercises to an existing workout.
func (s *TemplateService) Apply(ctx context.Context, templateID, workoutID, userID string) (*domain.BulkResult, error) {
	tpl, err := s.get(ctx, templateID, userID)
	if err != nil {
		return nil, err
	}
	return s.workouts.AddExercises(ctx, AddExercisesInput{
		WorkoutID:   workoutID,
		UserID:      userID,
		ExerciseIDs: tpl.ExerciseIDs,
	})
}

func (s *TemplateService) get(ctx context.Context, id, userID string) (*domain.WorkoutTemplate, error) {
	tpl, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tpl.UserID != userID {
		return nil, domain.ErrTemplateNotFound
	}
	return tpl, nil
}

// ownedIDs keeps the requested order but drops exercises the user does not own.
func (s *TemplateService) ownedIDs(ctx context.Context, userID string, ids []string) ([]string, error) {
	exercises, err := s.exercises.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	owned := make(map[string]bool, len(exercises))
	for _, e := range exercises {
		owned[e.ID] = true
	}

	out := make([]string, 0, len(ids))
	for _, id := range domain.UniqueIDs(ids) {
		if owned[id] {
			out = append(out, id)
		}
	}
	return out, nil
}
