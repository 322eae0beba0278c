package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/comitanigiacomo/kanso-lift/internal/core/domain"
	"github.com/comitanigiacomo/kanso-lift/internal/core/progress"
	"github.com/comitanigiacomo/kanso-lift/internal/metrics"
	log "github.com/sirupsen/logrus"
)

type WorkoutService struct {
	repo      domain.WorkoutRepository
	exercises domain.ExerciseRepository
	cache     progress.Cache
	metrics   *metrics.Manager
}

func NewWorkoutService(repo domain.WorkoutRepository, exercises domain.ExerciseRepository, cache progress.Cache, m *metrics.Manager) *WorkoutService {
	if cache == nil {
		cache = progress.NopCache{}
	}
	return &WorkoutService{
		repo:      repo,
		exercises: exercises,
		cache:     cache,
		metrics:   m,
	}
}

type CreateWorkoutInput struct {
	UserID string
	Date   string
	Memo   *string
}

type UpdateWorkoutInput struct {
	ID     string
	UserID string
	Date   string
	Memo   *string
}

type AddExercisesInput struct {
	WorkoutID   string
	UserID      string
	ExerciseIDs []string
}

type AddSetInput struct {
	WorkoutID         string
	WorkoutExerciseID string
	UserID            string
	Weight            *float64
	Reps              *int
}

type UpdateSetInput struct {
	SetID  string
	UserID string
	Weight *float64
	Reps   *int
}

func (s *WorkoutService) Create(ctx context.Context, input CreateWorkoutInput) (*domain.Workout, error) {
	workout, err := domain.NewWorkout(input.UserID, input.Date, input.Memo)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, workout); err != nil {
		return nil, err
	}
	return workout, nil
}

func (s *WorkoutService) Get(ctx context.Context, id, userID string) (*domain.Workout, error) {
	workout, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if workout.UserID != userID {
		return nil, domain.ErrUnauthorized
	}
	return workout, nil
}

// Menu loads a workout together with its exercises and sets, in display order.
func (s *WorkoutService) Menu(ctx context.Context, id, userID string) (*domain.WorkoutMenu, error) {
	workout, err := s.Get(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	names, err := s.exerciseNames(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.menu(ctx, workout, names)
}

func (s *WorkoutService) ListByDate(ctx context.Context, userID, date string) ([]*domain.Workout, error) {
	if err := domain.ValidateDate(date); err != nil {
		return nil, err
	}
	return s.repo.ListByDate(ctx, userID, date)
}

// MenusByDate is the day view: every workout on date with its exercises
// and sets.
func (s *WorkoutService) MenusByDate(ctx context.Context, userID, date string) ([]domain.WorkoutMenu, error) {
	workouts, err := s.ListByDate(ctx, userID, date)
	if err != nil {
		return nil, err
	}
	menus := make([]domain.WorkoutMenu, 0, len(workouts))
	if len(workouts) == 0 {
		return menus, nil
	}

	names, err := s.exerciseNames(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, w := range workouts {
		menu, err := s.menu(ctx, w, names)
		if err != nil {
			return nil, err
		}
		menus = append(menus, *menu)
	}
	return menus, nil
}

func (s *WorkoutService) menu(ctx context.Context, workout *domain.Workout, names map[string]string) (*domain.WorkoutMenu, error) {
	wes, err := s.repo.ListExercises(ctx, workout.ID)
	if err != nil {
		return nil, err
	}

	menu := &domain.WorkoutMenu{
		Workout:   *workout,
		Exercises: make([]domain.WorkoutMenuExercise, 0, len(wes)),
	}
	for _, we := range wes {
		sets, err := s.repo.ListSets(ctx, we.ID)
		if err != nil {
			return nil, err
		}
		menu.Exercises = append(menu.Exercises, domain.WorkoutMenuExercise{
			ID:           we.ID,
			ExerciseID:   we.ExerciseID,
			ExerciseName: names[we.ExerciseID],
			SortOrder:    we.SortOrder,
			Sets:         sets,
		})
	}
	return menu, nil
}

func (s *WorkoutService) Update(ctx context.Context, input UpdateWorkoutInput) (*domain.Workout, error) {
	workout, err := s.Get(ctx, input.ID, input.UserID)
	if err != nil {
		return nil, err
	}

	previousDate := workout.WorkoutDate
	if err := workout.Update(input.Date, input.Memo); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, workout); err != nil {
		return nil, err
	}

	if previousDate != workout.WorkoutDate {
		s.invalidateWorkout(ctx, workout)
	}
	return workout, nil
}

func (s *WorkoutService) Delete(ctx context.Context, id, userID string) error {
	workout, err := s.Get(ctx, id, userID)
	if err != nil {
		return err
	}
	wes, listErr := s.repo.ListExercises(ctx, workout.ID)
	if err := s.repo.Delete(ctx, id, userID); err != nil {
		return err
	}
	s.invalidateExercises(ctx, workout, wes, listErr)
	return nil
}

// AddExercises appends the user's own exercises that are not already part
// of the workout. Unknown and foreign ids are silently skipped.
func (s *WorkoutService) AddExercises(ctx context.Context, input AddExercisesInput) (*domain.BulkResult, error) {
	workout, err := s.Get(ctx, input.WorkoutID, input.UserID)
	if err != nil {
		return nil, err
	}

	ids := domain.UniqueIDs(input.ExerciseIDs)
	result := &domain.BulkResult{Attempted: len(ids)}
	if len(ids) == 0 {
		return result, nil
	}

	owned, err := s.exerciseNames(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	current, err := s.repo.ListExercises(ctx, workout.ID)
	if err != nil {
		return nil, err
	}
	present := make(map[string]bool, len(current))
	for _, we := range current {
		present[we.ExerciseID] = true
	}

	for _, exerciseID := range ids {
		if _, ok := owned[exerciseID]; !ok || present[exerciseID] {
			continue
		}
		we := &domain.WorkoutExercise{WorkoutID: workout.ID, ExerciseID: exerciseID}
		if err := s.repo.AddExercise(ctx, we); err != nil {
			log.WithFields(log.Fields{"workout_id": workout.ID, "exercise_id": exerciseID}).
				WithError(err).Warn("failed to add exercise to workout")
			continue
		}
		present[exerciseID] = true
		result.Inserted++
		s.cache.InvalidateExercise(ctx, input.UserID, exerciseID)
	}
	return result, nil
}

func (s *WorkoutService) RemoveExercise(ctx context.Context, workoutID, workoutExerciseID, userID string) error {
	we, err := s.ownedWorkoutExercise(ctx, workoutExerciseID, userID)
	if err != nil {
		return err
	}
	if we.WorkoutID != workoutID {
		return domain.ErrWorkoutExerciseNotFound
	}
	if err := s.repo.RemoveExercise(ctx, we.ID); err != nil {
		return err
	}
	s.cache.InvalidateExercise(ctx, userID, we.ExerciseID)
	return nil
}

func (s *WorkoutService) AddSet(ctx context.Context, input AddSetInput) (*domain.ExerciseSet, error) {
	we, err := s.ownedWorkoutExercise(ctx, input.WorkoutExerciseID, input.UserID)
	if err != nil {
		return nil, err
	}
	if input.WorkoutID != "" && we.WorkoutID != input.WorkoutID {
		return nil, domain.ErrWorkoutExerciseNotFound
	}

	set, err := domain.NewExerciseSet(we.ID, input.Weight, input.Reps)
	if err != nil {
		return nil, err
	}
	if err := s.repo.AddSet(ctx, set); err != nil {
		return nil, err
	}

	s.metrics.SetLogged()
	s.cache.InvalidateExercise(ctx, input.UserID, we.ExerciseID)
	return set, nil
}

func (s *WorkoutService) UpdateSet(ctx context.Context, input UpdateSetInput) (*domain.ExerciseSet, error) {
	set, we, err := s.ownedSet(ctx, input.SetID, input.UserID)
	if err != nil {
		return nil, err
	}
	if err := set.Update(input.Weight, input.Reps); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateSet(ctx, set); err != nil {
		return nil, err
	}
	s.cache.InvalidateExercise(ctx, input.UserID, we.ExerciseID)
	return set, nil
}

func (s *WorkoutService) DeleteSet(ctx context.Context, setID, userID string) error {
	set, we, err := s.ownedSet(ctx, setID, userID)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteSet(ctx, set.ID); err != nil {
		return err
	}
	s.cache.InvalidateExercise(ctx, userID, we.ExerciseID)
	return nil
}

// CopyPreviousSets appends the sets logged for the same exercise in the most
// recent earlier workout. Without one, a single blank set is added so the
// user has a row to fill in.
func (s *WorkoutService) CopyPreviousSets(ctx context.Context, workoutID, workoutExerciseID, userID string) ([]*domain.ExerciseSet, error) {
	workout, err := s.Get(ctx, workoutID, userID)
	if err != nil {
		return nil, err
	}
	we, err := s.ownedWorkoutExercise(ctx, workoutExerciseID, userID)
	if err != nil {
		return nil, err
	}
	if we.WorkoutID != workout.ID {
		return nil, domain.ErrWorkoutExerciseNotFound
	}

	history, err := s.repo.History(ctx, userID, we.ExerciseID, 0)
	if err != nil {
		return nil, err
	}

	source := []domain.HistorySet{{}}
	if prev := previousItem(history, workout); prev != nil && len(prev.Sets) > 0 {
		source = prev.Sets
	}

	created := make([]*domain.ExerciseSet, 0, len(source))
	for _, hs := range source {
		set, err := domain.NewExerciseSet(we.ID, hs.Weight, hs.Reps)
		if err != nil {
			return nil, err
		}
		if err := s.repo.AddSet(ctx, set); err != nil {
			return nil, fmt.Errorf("workout service: copy set: %w", err)
		}
		created = append(created, set)
	}

	s.cache.InvalidateExercise(ctx, userID, we.ExerciseID)
	return created, nil
}

// PreviousTopSets maps every exercise in the workout to its top set in the
// latest earlier workout, or nil when there is none.
func (s *WorkoutService) PreviousTopSets(ctx context.Context, workoutID, userID string) (map[string]*domain.TopSet, error) {
	workout, err := s.Get(ctx, workoutID, userID)
	if err != nil {
		return nil, err
	}
	wes, err := s.repo.ListExercises(ctx, workout.ID)
	if err != nil {
		return nil, err
	}

	out := make(map[string]*domain.TopSet, len(wes))
	for _, we := range wes {
		if _, done := out[we.ExerciseID]; done {
			continue
		}
		history, err := s.repo.History(ctx, userID, we.ExerciseID, 0)
		if err != nil {
			return nil, err
		}
		var top *domain.TopSet
		if prev := previousItem(history, workout); prev != nil {
			top = TopSet(prev.Sets)
		}
		out[we.ExerciseID] = top
	}
	return out, nil
}

// previousItem returns the newest history entry strictly before w.
func previousItem(history []domain.ExerciseHistoryItem, w *domain.Workout) *domain.ExerciseHistoryItem {
	for i := range history {
		item := &history[i]
		if item.WorkoutID == w.ID {
			continue
		}
		probe := domain.Workout{WorkoutDate: item.WorkoutDate, CreatedAt: item.WorkoutCreatedAt}
		if probe.Before(w.WorkoutDate, w.CreatedAt) {
			return item
		}
	}
	return nil
}

func (s *WorkoutService) ownedWorkoutExercise(ctx context.Context, id, userID string) (*domain.WorkoutExercise, error) {
	we, err := s.repo.GetExercise(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.Get(ctx, we.WorkoutID, userID); err != nil {
		if errors.Is(err, domain.ErrWorkoutNotFound) {
			return nil, domain.ErrWorkoutExerciseNotFound
		}
		return nil, err
	}
	return we, nil
}

func (s *WorkoutService) ownedSet(ctx context.Context, id, userID string) (*domain.ExerciseSet, *domain.WorkoutExercise, error) {
	set, err := s.repo.GetSet(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	we, err := s.ownedWorkoutExercise(ctx, set.WorkoutExerciseID, userID)
	if err != nil {
		return nil, nil, err
	}
	return set, we, nil
}

func (s *WorkoutService) exerciseNames(ctx context.Context, userID string) (map[string]string, error) {
	exercises, err := s.exercises.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(exercises))
	for _, e := range exercises {
		names[e.ID] = e.Name
	}
	return names, nil
}

func (s *WorkoutService) invalidateWorkout(ctx context.Context, w *domain.Workout) {
	wes, err := s.repo.ListExercises(ctx, w.ID)
	s.invalidateExercises(ctx, w, wes, err)
}

// invalidateExercises drops cached progress for wes, or for the whole user
// when the exercise list could not be loaded.
func (s *WorkoutService) invalidateExercises(ctx context.Context, w *domain.Workout, wes []*domain.WorkoutExercise, err error) {
	if err != nil {
		log.WithField("workout_id", w.ID).WithError(err).Warn("progress cache: falling back to user-wide invalidation")
		s.cache.InvalidateUser(ctx, w.UserID)
		return
	}
	for _, we := range wes {
		s.cache.InvalidateExercise(ctx, w.UserID, we.ExerciseID)
	}
}
