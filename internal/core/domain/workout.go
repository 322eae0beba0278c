package domain

import (
	"errors"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

var (
	ErrWorkoutNotFound         = errors.New("workout not found")
	ErrWorkoutExerciseNotFound = errors.New("workout exercise not found")
	ErrSetNotFound             = errors.New("set not found")
	ErrInvalidDate             = errors.New("invalid date (must be YYYY-MM-DD)")
	ErrInvalidMonth            = errors.New("invalid month (must be YYYY-MM)")
	ErrMemoTooLong             = errors.New("memo is too long (max 1000 chars)")
	ErrInvalidWeight           = errors.New("weight must be a finite, non-negative number")
	ErrInvalidReps             = errors.New("reps cannot be negative")
)

const (
	DateLayout  = "2006-01-02"
	MonthLayout = "2006-01"
	MaxMemoLen  = 1000
)

// Workout is one training session on a calendar day. A day may hold several.
type Workout struct {
	ID          string    `json:"id" db:"id"`
	UserID      string    `json:"user_id" db:"user_id"`
	WorkoutDate string    `json:"workout_date" db:"workout_date"`
	Memo        *string   `json:"memo" db:"memo"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

type WorkoutExercise struct {
	ID         string `json:"id" db:"id"`
	WorkoutID  string `json:"workout_id" db:"workout_id"`
	ExerciseID string `json:"exercise_id" db:"exercise_id"`
	SortOrder  int    `json:"sort_order" db:"sort_order"`
}

type ExerciseSet struct {
	ID                string   `json:"id" db:"id"`
	WorkoutExerciseID string   `json:"workout_exercise_id" db:"workout_exercise_id"`
	SetOrder          int      `json:"set_order" db:"set_order"`
	Weight            *float64 `json:"weight" db:"weight"`
	Reps              *int     `json:"reps" db:"reps"`
}

func NewWorkout(userID, date string, memo *string) (*Workout, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrUnauthorized
	}
	w := &Workout{
		ID:        uuid.NewString(),
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}
	if err := w.Update(date, memo); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *Workout) Update(date string, memo *string) error {
	if err := ValidateDate(date); err != nil {
		return err
	}
	cleanMemo, err := normalizeMemo(memo)
	if err != nil {
		return err
	}
	w.WorkoutDate = date
	w.Memo = cleanMemo
	return nil
}

// Before reports whether w happened strictly earlier than other, ordering
// by calendar day first and creation time second.
func (w *Workout) Before(date string, createdAt time.Time) bool {
	if w.WorkoutDate != date {
		return w.WorkoutDate < date
	}
	return w.CreatedAt.Before(createdAt)
}

func normalizeMemo(memo *string) (*string, error) {
	if memo == nil {
		return nil, nil
	}
	trimmed := strings.TrimSpace(*memo)
	if trimmed == "" {
		return nil, nil
	}
	if utf8.RuneCountInString(trimmed) > MaxMemoLen {
		return nil, ErrMemoTooLong
	}
	return &trimmed, nil
}

func NewExerciseSet(workoutExerciseID string, weight *float64, reps *int) (*ExerciseSet, error) {
	s := &ExerciseSet{
		ID:                uuid.NewString(),
		WorkoutExerciseID: workoutExerciseID,
	}
	if err := s.Update(weight, reps); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *ExerciseSet) Update(weight *float64, reps *int) error {
	if weight != nil && (math.IsNaN(*weight) || math.IsInf(*weight, 0) || *weight < 0) {
		return ErrInvalidWeight
	}
	if reps != nil && *reps < 0 {
		return ErrInvalidReps
	}
	s.Weight = weight
	s.Reps = reps
	return nil
}

// IsEmpty is true when neither weight nor reps were recorded.
func (s *ExerciseSet) IsEmpty() bool {
	return s.Weight == nil && s.Reps == nil
}

func ValidateDate(date string) error {
	t, err := time.Parse(DateLayout, date)
	if err != nil || t.Format(DateLayout) != date {
		return ErrInvalidDate
	}
	return nil
}

// MonthBounds returns the first and last day of a YYYY-MM month.
func MonthBounds(month string) (string, string, error) {
	start, err := time.Parse(MonthLayout, month)
	if err != nil {
		return "", "", ErrInvalidMonth
	}
	end := start.AddDate(0, 1, -1)
	return start.Format(DateLayout), end.Format(DateLayout), nil
}

// WorkoutMenu is a workout with its exercises and their ordered sets.
type WorkoutMenu struct {
	Workout
	Exercises []WorkoutMenuExercise `json:"exercises"`
}

type WorkoutMenuExercise struct {
	ID           string         `json:"id"`
	ExerciseID   string         `json:"exercise_id"`
	ExerciseName string         `json:"exercise_name"`
	SortOrder    int            `json:"sort_order"`
	Sets         []*ExerciseSet `json:"sets"`
}
