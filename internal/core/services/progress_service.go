package services

import (
	"context"
	"fmt"
	"time"

	"github.com/comitanigiacomo/kanso-lift/internal/core/domain"
	"github.com/comitanigiacomo/kanso-lift/internal/core/progress"
	"github.com/comitanigiacomo/kanso-lift/internal/metrics"
	log "github.com/sirupsen/logrus"
)

const (
	DefaultHistoryLimit  = 30
	MaxHistoryLimit      = 200
	progressHistoryLimit = 180
)

type ProgressService struct {
	workouts  domain.WorkoutRepository
	exercises domain.ExerciseRepository
	cache     progress.Cache
	ranges    progress.RangeConfig
	metrics   *metrics.Manager
	now       func() time.Time
}

func NewProgressService(
	workouts domain.WorkoutRepository,
	exercises domain.ExerciseRepository,
	cache progress.Cache,
	ranges progress.RangeConfig,
	m *metrics.Manager,
) *ProgressService {
	if cache == nil {
		cache = progress.NopCache{}
	}
	if ranges == (progress.RangeConfig{}) {
		ranges = progress.DefaultRangeConfig()
	}
	return &ProgressService{
		workouts:  workouts,
		exercises: exercises,
		cache:     cache,
		ranges:    ranges,
		metrics:   m,
		now:       time.Now,
	}
}

// WithClock replaces the reference time used for range filtering.
func (s *ProgressService) WithClock(now func() time.Time) *ProgressService {
	s.now = now
	return s
}

type HistoryInput struct {
	UserID     string
	ExerciseID string
	Limit      int
}

type ProgressInput struct {
	UserID      string
	ExerciseID  string
	Range       progress.RangeWindow
	BucketWidth progress.BucketWidth
	Metric      progress.Metric
}

func (s *ProgressService) History(ctx context.Context, input HistoryInput) ([]domain.ExerciseHistoryItem, error) {
	if err := s.checkOwner(ctx, input.ExerciseID, input.UserID); err != nil {
		return nil, err
	}

	limit := input.Limit
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}
	return s.workouts.History(ctx, input.UserID, input.ExerciseID, limit)
}

func (s *ProgressService) Progress(ctx context.Context, input ProgressInput) (*progress.Result, error) {
	if err := progress.CheckOptions(input.Range, input.BucketWidth, input.Metric); err != nil {
		return nil, err
	}
	if err := s.checkOwner(ctx, input.ExerciseID, input.UserID); err != nil {
		return nil, err
	}

	if input.Range == "" {
		input.Range = progress.DefaultRange
	}
	if input.BucketWidth == 0 {
		input.BucketWidth = progress.DefaultBucketWidth
	}
	if input.Metric == "" {
		input.Metric = progress.MetricAuto
	}

	key := progress.CacheKey{
		UserID:      input.UserID,
		ExerciseID:  input.ExerciseID,
		Range:       input.Range,
		BucketWidth: input.BucketWidth,
		Metric:      input.Metric,
	}
	if cached, ok := s.cache.Get(ctx, key); ok {
		s.metrics.ProgressCacheHit()
		return cached, nil
	}
	s.metrics.ProgressCacheMiss()

	items, err := s.workouts.History(ctx, input.UserID, input.ExerciseID, progressHistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("progress service: load history: %w", err)
	}

	points := PointsFromHistory(items)
	start := time.Now()
	result, err := progress.Aggregate(points, progress.Options{
		Range:       input.Range,
		BucketWidth: input.BucketWidth,
		Metric:      input.Metric,
		Now:         s.now(),
		Ranges:      s.ranges,
	})
	if err != nil {
		return nil, err
	}
	s.metrics.ObserveAggregation(len(points), time.Since(start))

	log.WithFields(log.Fields{
		"exercise_id": input.ExerciseID,
		"points":      len(points),
		"buckets":     len(result.Points),
		"range":       input.Range,
	}).Debug("progress aggregated")

	s.cache.Set(ctx, key, result)
	return result, nil
}

func (s *ProgressService) checkOwner(ctx context.Context, exerciseID, userID string) error {
	exercise, err := s.exercises.GetByID(ctx, exerciseID)
	if err != nil {
		return err
	}
	if exercise.UserID != userID {
		return domain.ErrExerciseNotFound
	}
	return nil
}

// PointsFromHistory turns each workout into its top set. Workouts whose
// sets hold no measurement at all produce no point.
func PointsFromHistory(items []domain.ExerciseHistoryItem) []domain.PerformancePoint {
	points := make([]domain.PerformancePoint, 0, len(items))
	for _, item := range items {
		top := topPoint(item.Sets)
		if top == nil {
			continue
		}
		top.WorkoutID = item.WorkoutID
		top.WorkoutDate = item.WorkoutDate
		top.RecordedAt = item.WorkoutCreatedAt
		points = append(points, *top)
	}
	return points
}

// TopSet picks the heaviest set, breaking ties on reps.
func TopSet(sets []domain.HistorySet) *domain.TopSet {
	top := topPoint(sets)
	if top == nil {
		return nil
	}
	out := &domain.TopSet{Weight: top.Weight}
	if top.Reps != nil {
		reps := int(*top.Reps)
		out.Reps = &reps
	}
	return out
}

func topPoint(sets []domain.HistorySet) *domain.PerformancePoint {
	var best *domain.PerformancePoint
	for _, set := range sets {
		p := domain.PerformancePoint{Weight: set.Weight}
		if set.Reps != nil {
			reps := float64(*set.Reps)
			p.Reps = &reps
		}
		if p.IsEmpty() {
			continue
		}
		picked := progress.PickBetter(best, p)
		best = &picked
	}
	return best
}
