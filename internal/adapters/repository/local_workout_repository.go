package repository

import (
	"context"
	"sort"

	"github.com/comitanigiacomo/kanso-lift/internal/core/domain"
	"github.com/google/uuid"
)

var _ domain.WorkoutRepository = (*LocalWorkoutRepository)(nil)

type LocalWorkoutRepository struct {
	store *LocalStore
}

func (r *LocalWorkoutRepository) Create(ctx context.Context, workout *domain.Workout) error {
	return r.store.update(func(t *localTables) error {
		row := *workout
		t.Workouts = append(t.Workouts, &row)
		return nil
	})
}

func (r *LocalWorkoutRepository) GetByID(ctx context.Context, id string) (*domain.Workout, error) {
	var found *domain.Workout
	err := r.store.view(func(t *localTables) error {
		found = findWorkout(t, id)
		if found == nil {
			return domain.ErrWorkoutNotFound
		}
		return nil
	})
	return found, err
}

func (r *LocalWorkoutRepository) ListByDate(ctx context.Context, userID, date string) ([]*domain.Workout, error) {
	out := []*domain.Workout{}
	err := r.store.view(func(t *localTables) error {
		for _, w := range t.Workouts {
			if w.UserID == userID && w.WorkoutDate == date {
				out = append(out, w)
			}
		}
		return nil
	})
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, err
}

func (r *LocalWorkoutRepository) Update(ctx context.Context, workout *domain.Workout) error {
	return r.store.update(func(t *localTables) error {
		for i, w := range t.Workouts {
			if w.ID == workout.ID && w.UserID == workout.UserID {
				row := *workout
				t.Workouts[i] = &row
				return nil
			}
		}
		return domain.ErrWorkoutNotFound
	})
}

func (r *LocalWorkoutRepository) Delete(ctx context.Context, id string, userID string) error {
	return r.store.update(func(t *localTables) error {
		idx := -1
		for i, w := range t.Workouts {
			if w.ID == id && w.UserID == userID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return domain.ErrWorkoutNotFound
		}
		t.Workouts = append(t.Workouts[:idx], t.Workouts[idx+1:]...)

		removed := make(map[string]bool)
		kept := t.WorkoutExercises[:0]
		for _, we := range t.WorkoutExercises {
			if we.WorkoutID == id {
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

func (r *LocalWorkoutRepository) ListExercises(ctx context.Context, workoutID string) ([]*domain.WorkoutExercise, error) {
	out := []*domain.WorkoutExercise{}
	err := r.store.view(func(t *localTables) error {
		for _, we := range t.WorkoutExercises {
			if we.WorkoutID == workoutID {
				out = append(out, we)
			}
		}
		return nil
	})
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return out[i].ID < out[j].ID
	})
	return out, err
}

func (r *LocalWorkoutRepository) GetExercise(ctx context.Context, id string) (*domain.WorkoutExercise, error) {
	var found *domain.WorkoutExercise
	err := r.store.view(func(t *localTables) error {
		for _, we := range t.WorkoutExercises {
			if we.ID == id {
				found = we
				return nil
			}
		}
		return domain.ErrWorkoutExerciseNotFound
	})
	return found, err
}

func (r *LocalWorkoutRepository) AddExercise(ctx context.Context, we *domain.WorkoutExercise) error {
	return r.store.update(func(t *localTables) error {
		if findWorkout(t, we.WorkoutID) == nil {
			return domain.ErrWorkoutNotFound
		}
		if !exerciseExists(t, we.ExerciseID) {
			return domain.ErrExerciseNotFound
		}

		maxOrder := -1
		for _, existing := range t.WorkoutExercises {
			if existing.WorkoutID == we.WorkoutID && existing.SortOrder > maxOrder {
				maxOrder = existing.SortOrder
			}
		}
		if we.ID == "" {
			we.ID = uuid.NewString()
		}
		we.SortOrder = maxOrder + 1

		row := *we
		t.WorkoutExercises = append(t.WorkoutExercises, &row)
		return nil
	})
}

func (r *LocalWorkoutRepository) RemoveExercise(ctx context.Context, id string) error {
	return r.store.update(func(t *localTables) error {
		for i, we := range t.WorkoutExercises {
			if we.ID == id {
				t.WorkoutExercises = append(t.WorkoutExercises[:i], t.WorkoutExercises[i+1:]...)
				dropSets(t, map[string]bool{id: true})
				return nil
			}
		}
		return domain.ErrWorkoutExerciseNotFound
	})
}

func (r *LocalWorkoutRepository) ListSets(ctx context.Context, workoutExerciseID string) ([]*domain.ExerciseSet, error) {
	out := []*domain.ExerciseSet{}
	err := r.store.view(func(t *localTables) error {
		out = setsOf(t, workoutExerciseID)
		return nil
	})
	return out, err
}

func (r *LocalWorkoutRepository) GetSet(ctx context.Context, id string) (*domain.ExerciseSet, error) {
	var found *domain.ExerciseSet
	err := r.store.view(func(t *localTables) error {
		for _, s := range t.ExerciseSets {
			if s.ID == id {
				found = s
				return nil
			}
		}
		return domain.ErrSetNotFound
	})
	return found, err
}

func (r *LocalWorkoutRepository) AddSet(ctx context.Context, set *domain.ExerciseSet) error {
	return r.store.update(func(t *localTables) error {
		known := false
		for _, we := range t.WorkoutExercises {
			if we.ID == set.WorkoutExerciseID {
				known = true
				break
			}
		}
		if !known {
			return domain.ErrWorkoutExerciseNotFound
		}

		maxOrder := -1
		for _, s := range t.ExerciseSets {
			if s.WorkoutExerciseID == set.WorkoutExerciseID && s.SetOrder > maxOrder {
				maxOrder = s.SetOrder
			}
		}
		if set.ID == "" {
			set.ID = uuid.NewString()
		}
		set.SetOrder = maxOrder + 1

		row := *set
		t.ExerciseSets = append(t.ExerciseSets, &row)
		return nil
	})
}

func (r *LocalWorkoutRepository) UpdateSet(ctx context.Context, set *domain.ExerciseSet) error {
	return r.store.update(func(t *localTables) error {
		for _, s := range t.ExerciseSets {
			if s.ID == set.ID {
				s.Weight = set.Weight
				s.Reps = set.Reps
				return nil
			}
		}
		return domain.ErrSetNotFound
	})
}

func (r *LocalWorkoutRepository) DeleteSet(ctx context.Context, id string) error {
	return r.store.update(func(t *localTables) error {
		for i, s := range t.ExerciseSets {
			if s.ID == id {
				t.ExerciseSets = append(t.ExerciseSets[:i], t.ExerciseSets[i+1:]...)
				return nil
			}
		}
		return domain.ErrSetNotFound
	})
}

func (r *LocalWorkoutRepository) History(ctx context.Context, userID, exerciseID string, limit int) ([]domain.ExerciseHistoryItem, error) {
	items := []domain.ExerciseHistoryItem{}
	err := r.store.view(func(t *localTables) error {
		type entry struct {
			workout *domain.Workout
			weID    string
		}

		var entries []entry
		for _, we := range t.WorkoutExercises {
			if we.ExerciseID != exerciseID {
				continue
			}
			w := findWorkout(t, we.WorkoutID)
			if w == nil || w.UserID != userID {
				continue
			}
			entries = append(entries, entry{workout: w, weID: we.ID})
		}

		sort.SliceStable(entries, func(i, j int) bool {
			a, b := entries[i].workout, entries[j].workout
			return b.Before(a.WorkoutDate, a.CreatedAt)
		})
		if limit > 0 && len(entries) > limit {
			entries = entries[:limit]
		}

		for _, e := range entries {
			sets := setsOf(t, e.weID)
			item := domain.ExerciseHistoryItem{
				WorkoutID:        e.workout.ID,
				WorkoutDate:      e.workout.WorkoutDate,
				WorkoutCreatedAt: e.workout.CreatedAt,
				Sets:             make([]domain.HistorySet, 0, len(sets)),
			}
			for _, s := range sets {
				item.Sets = append(item.Sets, domain.HistorySet{SetOrder: s.SetOrder, Weight: s.Weight, Reps: s.Reps})
			}
			items = append(items, item)
		}
		return nil
	})
	return items, err
}

func (r *LocalWorkoutRepository) ListDates(ctx context.Context, userID, from, to string) ([]string, error) {
	dates := []string{}
	err := r.store.view(func(t *localTables) error {
		seen := make(map[string]bool)
		for _, w := range t.Workouts {
			if w.UserID != userID || w.WorkoutDate < from || w.WorkoutDate > to || seen[w.WorkoutDate] {
				continue
			}
			seen[w.WorkoutDate] = true
			dates = append(dates, w.WorkoutDate)
		}
		return nil
	})
	sort.Strings(dates)
	return dates, err
}

func (r *LocalWorkoutRepository) SetStats(ctx context.Context, userID, from, to string) ([]domain.SetStat, error) {
	stats := []domain.SetStat{}
	err := r.store.view(func(t *localTables) error {
		type key struct{ date, exerciseID string }

		weByID := make(map[string]key)
		for _, we := range t.WorkoutExercises {
			w := findWorkout(t, we.WorkoutID)
			if w == nil || w.UserID != userID || w.WorkoutDate < from || w.WorkoutDate > to {
				continue
			}
			weByID[we.ID] = key{date: w.WorkoutDate, exerciseID: we.ExerciseID}
		}

		counts := make(map[key]int)
		for _, s := range t.ExerciseSets {
			if k, ok := weByID[s.WorkoutExerciseID]; ok {
				counts[k]++
			}
		}
		for k, n := range counts {
			stats = append(stats, domain.SetStat{WorkoutDate: k.date, ExerciseID: k.exerciseID, Sets: n})
		}
		return nil
	})

	sort.Slice(stats, func(i, j int) bool {
		if stats[i].WorkoutDate != stats[j].WorkoutDate {
			return stats[i].WorkoutDate < stats[j].WorkoutDate
		}
		return stats[i].ExerciseID < stats[j].ExerciseID
	})
	return stats, err
}

func findWorkout(t *localTables, id string) *domain.Workout {
	for _, w := range t.Workouts {
		if w.ID == id {
			return w
		}
	}
	return nil
}

func exerciseExists(t *localTables, id string) bool {
	for _, e := range t.Exercises {
		if e.ID == id {
			return true
		}
	}
	return false
}

// setsOf returns a workout exercise's sets ordered by set order.
func setsOf(t *localTables, workoutExerciseID string) []*domain.ExerciseSet {
	out := []*domain.ExerciseSet{}
	for _, s := range t.ExerciseSets {
		if s.WorkoutExerciseID == workoutExerciseID {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].SetOrder != out[j].SetOrder {
			return out[i].SetOrder < out[j].SetOrder
		}
		return out[i].ID < out[j].ID
	})
	return out
}
