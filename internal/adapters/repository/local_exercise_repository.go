package repository

import (
	"context"
	"sort"

	"github.com/comitanigiacomo/kanso-lift/internal/core/domain"
)

var _ domain.ExerciseRepository = (*LocalExerciseRepository)(nil)

type LocalExerciseRepository struct {
	store *LocalStore
}

func nameTaken(t *localTables, userID, key, exceptID string) bool {
	for _, e := range t.Exercises {
		if e.UserID == userID && e.ID != exceptID && e.NameKey() == key {
			return true
		}
	}
	return false
}

func (r *LocalExerciseRepository) Create(ctx context.Context, exercise *domain.Exercise) error {
	return r.store.update(func(t *localTables) error {
		if nameTaken(t, exercise.UserID, exercise.NameKey(), "") {
			return domain.ErrExerciseNameConflict
		}
		row := *exercise
		t.Exercises = append(t.Exercises, &row)
		return nil
	})
}

func (r *LocalExerciseRepository) CreateMany(ctx context.Context, exercises []*domain.Exercise) (int, error) {
	if len(exercises) == 0 {
		return 0, nil
	}

	inserted := 0
	err := r.store.update(func(t *localTables) error {
		for _, e := range exercises {
			if nameTaken(t, e.UserID, e.NameKey(), "") {
				continue
			}
			row := *e
			t.Exercises = append(t.Exercises, &row)
			inserted++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}

func (r *LocalExerciseRepository) GetByID(ctx context.Context, id string) (*domain.Exercise, error) {
	var found *domain.Exercise
	err := r.store.view(func(t *localTables) error {
		for _, e := range t.Exercises {
			if e.ID == id {
				found = e
				return nil
			}
		}
		return domain.ErrExerciseNotFound
	})
	return found, err
}

func (r *LocalExerciseRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Exercise, error) {
	out := []*domain.Exercise{}
	err := r.store.view(func(t *localTables) error {
		for _, e := range t.Exercises {
			if e.UserID == userID {
				out = append(out, e)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (r *LocalExerciseRepository) Update(ctx context.Context, exercise *domain.Exercise) error {
	return r.store.update(func(t *localTables) error {
		for i, e := range t.Exercises {
			if e.ID != exercise.ID || e.UserID != exercise.UserID {
				continue
			}
			if nameTaken(t, exercise.UserID, exercise.NameKey(), exercise.ID) {
				return domain.ErrExerciseNameConflict
			}
			row := *exercise
			t.Exercises[i] = &row
			return nil
		}
		return domain.ErrExerciseNotFound
	})
}

// Delete also drops the exercise from every workout, with its sets.
func (r *LocalExerciseRepository) Delete(ctx context.Context, id string, userID string) error {
	return r.store.update(func(t *localTables) error {
		idx := -1
		for i, e := range t.Exercises {
			if e.ID == id && e.UserID == userID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return domain.ErrExerciseNotFound
		}
		t.Exercises = append(t.Exercises[:idx], t.Exercises[idx+1:]...)

		removed := make(map[string]bool)
		kept := t.WorkoutExercises[:0]
		for _, we := range t.WorkoutExercises {
			if we.ExerciseID == id {
				removed[we.ID] = true
				continue
			}
			kept = append(kept, we)
		}
		t.WorkoutExercises = kept
		dropSets(t, removed)
		return nil
	})
}

func dropSets(t *localTables, workoutExerciseIDs map[string]bool) {
	if len(workoutExerciseIDs) == 0 {
		return
	}
	kept := t.ExerciseSets[:0]
	for _, s := range t.ExerciseSets {
		if !workoutExerciseIDs[s.WorkoutExerciseID] {
			kept = append(kept, s)
		}
	}
	t.ExerciseSets = kept
}
