package domain

import "context"

type ExerciseRepository interface {
	Create(ctx context.Context, exercise *Exercise) error
	// CreateMany inserts exercises whose name key is not yet taken by the user
	// and returns how many rows were actually written.
	CreateMany(ctx context.Context, exercises []*Exercise) (int, error)
	GetByID(ctx context.Context, id string) (*Exercise, error)
	ListByUserID(ctx context.Context, userID string) ([]*Exercise, error)
	Update(ctx context.Context, exercise *Exercise) error
	Delete(ctx context.Context, id string, userID string) error
}

type WorkoutRepository interface {
	Create(ctx context.Context, workout *Workout) error
	GetByID(ctx context.Context, id string) (*Workout, error)
	ListByDate(ctx context.Context, userID, date string) ([]*Workout, error)
	Update(ctx context.Context, workout *Workout) error
	Delete(ctx context.Context, id string, userID string) error

	ListExercises(ctx context.Context, workoutID string) ([]*WorkoutExercise, error)
	GetExercise(ctx context.Context, id string) (*WorkoutExercise, error)
	// AddExercise assigns SortOrder as one past the current maximum.
	AddExercise(ctx context.Context, we *WorkoutExercise) error
	RemoveExercise(ctx context.Context, id string) error

	ListSets(ctx context.Context, workoutExerciseID string) ([]*ExerciseSet, error)
	GetSet(ctx context.Context, id string) (*ExerciseSet, error)
	// AddSet assigns SetOrder as one past the current maximum.
	AddSet(ctx context.Context, set *ExerciseSet) error
	UpdateSet(ctx context.Context, set *ExerciseSet) error
	DeleteSet(ctx context.Context, id string) error

	// History returns the user's workouts containing the exercise, newest
	// first. A limit <= 0 returns all of them.
	History(ctx context.Context, userID, exerciseID string, limit int) ([]ExerciseHistoryItem, error)
	// ListDates returns the distinct days in [from, to] holding a workout, ascending.
	ListDates(ctx context.Context, userID, from, to string) ([]string, error)
	// SetStats counts sets per day and exercise in [from, to].
	SetStats(ctx context.Context, userID, from, to string) ([]SetStat, error)
}

type TemplateRepository interface {
	Create(ctx context.Context, tpl *WorkoutTemplate) error
	GetByID(ctx context.Context, id string) (*WorkoutTemplate, error)
	ListByUserID(ctx context.Context, userID string) ([]*WorkoutTemplate, error)
	Update(ctx context.Context, tpl *WorkoutTemplate) error
	Delete(ctx context.Context, id string, userID string) error
}

type SettingsRepository interface {
	// Get returns zero-value settings when the user never saved any.
	Get(ctx context.Context, userID string) (*UserSettings, error)
	Upsert(ctx context.Context, settings *UserSettings) error
}
