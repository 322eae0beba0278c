package services

import (
	"context"

	"github.com/comitanigiacomo/kanso-lift/internal/core/domain"
)

type CalendarService struct {
	workouts  domain.WorkoutRepository
	exercises domain.ExerciseRepository
}

func NewCalendarService(workouts domain.WorkoutRepository, exercises domain.ExerciseRepository) *CalendarService {
	return &CalendarService{
		workouts:  workouts,
		exercises: exercises,
	}
}

// Month lists the days with a workout and summarizes the month. Every set
// counts once for each target part of its exercise.
func (s *CalendarService) Month(ctx context.Context, userID, month string) (*domain.CalendarMonth, error) {
	from, to, err := domain.MonthBounds(month)
	if err != nil {
		return nil, err
	}

	dates, err := s.workouts.ListDates(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	stats, err := s.workouts.SetStats(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	exercises, err := s.exercises.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	partsByExercise := make(map[string][]string, len(exercises))
	for _, e := range exercises {
		partsByExercise[e.ID] = e.TargetParts
	}

	summary := domain.MonthSummary{
		WorkoutDays: len(dates),
		Parts:       make(map[string]int, len(domain.AllTargetParts)),
	}
	for _, p := range domain.AllTargetParts {
		summary.Parts[p] = 0
	}
	for _, st := range stats {
		summary.TotalSets += st.Sets
		for _, p := range partsByExercise[st.ExerciseID] {
			if _, known := summary.Parts[p]; known {
				summary.Parts[p] += st.Sets
			}
		}
	}

	if dates == nil {
		dates = []string{}
	}
	return &domain.CalendarMonth{
		Month:        month,
		StartDate:    from,
		EndDate:      to,
		WorkoutDates: dates,
		Summary:      summary,
	}, nil
}
