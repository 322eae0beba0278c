package domain

import "time"

// PerformancePoint is one dated observation of an exercise, usually the top
// set of a single workout. Nil Weight or Reps means "not recorded".
type PerformancePoint struct {
	WorkoutID   string    `json:"workout_id"`
	WorkoutDate string    `json:"workout_date"`
	RecordedAt  time.Time `json:"recorded_at"`
	Weight      *float64  `json:"weight"`
	Reps        *float64  `json:"reps"`
}

// IsEmpty is true when the point carries no measurement at all.
func (p PerformancePoint) IsEmpty() bool {
	return p.Weight == nil && p.Reps == nil
}

type HistorySet struct {
	SetOrder int      `json:"set_order" db:"set_order"`
	Weight   *float64 `json:"weight" db:"weight"`
	Reps     *int     `json:"reps" db:"reps"`
}

// ExerciseHistoryItem groups the sets of one exercise performed in one workout.
type ExerciseHistoryItem struct {
	WorkoutID        string       `json:"workout_id"`
	WorkoutDate      string       `json:"workout_date"`
	WorkoutCreatedAt time.Time    `json:"workout_created_at"`
	Sets             []HistorySet `json:"sets"`
}

type TopSet struct {
	Weight *float64 `json:"weight"`
	Reps   *int     `json:"reps"`
}

// SetStat counts the sets of one exercise logged on one day.
type SetStat struct {
	WorkoutDate string `db:"workout_date"`
	ExerciseID  string `db:"exercise_id"`
	Sets        int    `db:"sets"`
}

type MonthSummary struct {
	WorkoutDays int            `json:"workout_days"`
	TotalSets   int            `json:"total_sets"`
	Parts       map[string]int `json:"parts"`
}

type CalendarMonth struct {
	Month        string       `json:"month"`
	StartDate    string       `json:"start_date"`
	EndDate      string       `json:"end_date"`
	WorkoutDates []string     `json:"workout_dates"`
	Summary      MonthSummary `json:"summary"`
}
