// Package progress turns an exercise's raw performance history into a
// bucketed series and a short numeric summary. Everything here is pure:
// no I/O, no clock, no shared state.
package progress

import (
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/comitanigiacomo/kanso-lift/internal/core/domain"
)

// ValidationError reports input the aggregator refuses to order.
type ValidationError struct {
	Index int
	Field string
	Value string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("point %d: invalid %s %q (must be YYYY-MM-DD)", e.Index, e.Field, e.Value)
}

type SeriesPoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

type Summary struct {
	Latest            *float64 `json:"latest"`
	Best              *float64 `json:"best"`
	DeltaFromPrevious *float64 `json:"delta_from_previous"`
	DeltaFromFirst    *float64 `json:"delta_from_first"`
}

type Options struct {
	Range       RangeWindow
	BucketWidth BucketWidth
	Metric      Metric
	Now         time.Time
	Ranges      RangeConfig
}

type Result struct {
	Metric      Metric                    `json:"metric"`
	Range       RangeWindow               `json:"range"`
	BucketWidth BucketWidth               `json:"bucket_days"`
	Points      []domain.PerformancePoint `json:"points"`
	Series      []SeriesPoint             `json:"series"`
	Summary     Summary                   `json:"summary"`
}

// Aggregate runs the whole pipeline. Points without any finite measurement
// are dropped before bucketing so they never become a representative.
// Unknown range, bucket width or metric values are rejected.
func Aggregate(points []domain.PerformancePoint, opts Options) (*Result, error) {
	if err := CheckOptions(opts.Range, opts.BucketWidth, opts.Metric); err != nil {
		return nil, err
	}
	if err := Validate(points); err != nil {
		return nil, err
	}
	if opts.Range == "" {
		opts.Range = DefaultRange
	}
	if opts.BucketWidth == 0 {
		opts.BucketWidth = DefaultBucketWidth
	}
	if opts.Ranges == (RangeConfig{}) {
		opts.Ranges = DefaultRangeConfig()
	}

	clean := Sanitize(points)
	clean = slices.DeleteFunc(clean, func(p domain.PerformancePoint) bool { return p.IsEmpty() })

	filtered, err := FilterByRange(clean, opts.Range, opts.Now, opts.Ranges)
	if err != nil {
		return nil, err
	}
	bucketed, err := Bucketize(SortChronologically(filtered), opts.BucketWidth.Days())
	if err != nil {
		return nil, err
	}

	metric := opts.Metric
	if metric == "" || metric == MetricAuto {
		metric = SelectMetric(bucketed)
	}

	return &Result{
		Metric:      metric,
		Range:       opts.Range,
		BucketWidth: opts.BucketWidth,
		Points:      bucketed,
		Series:      Series(bucketed, metric),
		Summary:     Summarize(bucketed, metric),
	}, nil
}

func Validate(points []domain.PerformancePoint) error {
	for i, p := range points {
		if _, err := parseDay(p.WorkoutDate); err != nil {
			return &ValidationError{Index: i, Field: "workout_date", Value: p.WorkoutDate}
		}
	}
	return nil
}

// Sanitize returns a copy where NaN and infinite measurements become nil.
func Sanitize(points []domain.PerformancePoint) []domain.PerformancePoint {
	out := make([]domain.PerformancePoint, len(points))
	for i, p := range points {
		p.Weight = finiteOrNil(p.Weight)
		p.Reps = finiteOrNil(p.Reps)
		out[i] = p
	}
	return out
}

func finiteOrNil(v *float64) *float64 {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return nil
	}
	return v
}

// FilterByRange keeps points on or after now minus the range's day count.
// Dates are zero-padded YYYY-MM-DD, so string order is calendar order.
func FilterByRange(points []domain.PerformancePoint, r RangeWindow, now time.Time, cfg RangeConfig) ([]domain.PerformancePoint, error) {
	days, bounded, err := cfg.Days(r)
	if err != nil {
		return nil, err
	}
	out := make([]domain.PerformancePoint, 0, len(points))
	if !bounded {
		return append(out, points...), nil
	}

	y, m, d := now.Date()
	since := time.Date(y, m, d, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -days).Format(domain.DateLayout)
	for _, p := range points {
		if p.WorkoutDate >= since {
			out = append(out, p)
		}
	}
	return out, nil
}

// SortChronologically returns a stably sorted copy ordered by workout date,
// then by RecordedAt.
func SortChronologically(points []domain.PerformancePoint) []domain.PerformancePoint {
	out := slices.Clone(points)
	slices.SortStableFunc(out, compareChronological)
	return out
}

func compareChronological(a, b domain.PerformancePoint) int {
	if a.WorkoutDate != b.WorkoutDate {
		if a.WorkoutDate < b.WorkoutDate {
			return -1
		}
		return 1
	}
	return a.RecordedAt.Compare(b.RecordedAt)
}

// Bucketize walks sorted points once and emits one point per window of
// widthDays, anchored at the first point not yet consumed. The emitted
// point carries the best measurement but the last consumed point's
// identity and date.
func Bucketize(sorted []domain.PerformancePoint, widthDays int) ([]domain.PerformancePoint, error) {
	if len(sorted) <= 1 {
		return slices.Clone(sorted), nil
	}
	if widthDays <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrUnknownBucketWidth, widthDays)
	}

	out := make([]domain.PerformancePoint, 0, len(sorted))
	for i := 0; i < len(sorted); {
		anchor, err := parseDay(sorted[i].WorkoutDate)
		if err != nil {
			return nil, &ValidationError{Index: i, Field: "workout_date", Value: sorted[i].WorkoutDate}
		}
		end := anchor.AddDate(0, 0, widthDays).Format(domain.DateLayout)

		var best *domain.PerformancePoint
		last := sorted[i]
		for ; i < len(sorted) && sorted[i].WorkoutDate < end; i++ {
			picked := PickBetter(best, sorted[i])
			best = &picked
			last = sorted[i]
		}

		out = append(out, domain.PerformancePoint{
			WorkoutID:   last.WorkoutID,
			WorkoutDate: last.WorkoutDate,
			RecordedAt:  last.RecordedAt,
			Weight:      best.Weight,
			Reps:        best.Reps,
		})
	}
	return out, nil
}

// PickBetter returns the stronger of a and b: higher weight first, then
// higher reps. Exact ties keep a. A nil a always yields b.
func PickBetter(a *domain.PerformancePoint, b domain.PerformancePoint) domain.PerformancePoint {
	if a == nil {
		return b
	}
	// missing is only a comparison key, never a stored value.
	const missing = -1.0
	key := func(v *float64) float64 {
		if v == nil {
			return missing
		}
		return *v
	}

	if wa, wb := key(a.Weight), key(b.Weight); wa != wb {
		if wb > wa {
			return b
		}
		return *a
	}
	if key(b.Reps) > key(a.Reps) {
		return b
	}
	return *a
}

// SelectMetric prefers weight whenever any point recorded one.
func SelectMetric(points []domain.PerformancePoint) Metric {
	for _, p := range points {
		if finiteOrNil(p.Weight) != nil {
			return MetricWeight
		}
	}
	return MetricReps
}

func metricValue(p domain.PerformancePoint, metric Metric) *float64 {
	if metric == MetricReps {
		return finiteOrNil(p.Reps)
	}
	return finiteOrNil(p.Weight)
}

// Series projects metric from each point, skipping points that lack it.
func Series(points []domain.PerformancePoint, metric Metric) []SeriesPoint {
	out := make([]SeriesPoint, 0, len(points))
	for _, p := range points {
		if v := metricValue(p, metric); v != nil {
			out = append(out, SeriesPoint{Date: p.WorkoutDate, Value: *v})
		}
	}
	return out
}

func Summarize(series []domain.PerformancePoint, metric Metric) Summary {
	values := make([]float64, 0, len(series))
	for _, p := range series {
		if v := metricValue(p, metric); v != nil {
			values = append(values, *v)
		}
	}

	var s Summary
	if len(values) == 0 {
		return s
	}

	latest := Round1(values[len(values)-1])
	best := Round1(slices.Max(values))
	s.Latest = &latest
	s.Best = &best

	if len(values) >= 2 {
		prev := ComputeDelta(values[len(values)-1], values[len(values)-2])
		first := ComputeDelta(values[len(values)-1], values[0])
		s.DeltaFromPrevious = &prev
		s.DeltaFromFirst = &first
	}
	return s
}

func ComputeDelta(latest, previous float64) float64 {
	return Round1(latest - previous)
}

// Round1 rounds half away from zero at one decimal place.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func parseDay(s string) (time.Time, error) {
	t, err := time.Parse(domain.DateLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	if t.Format(domain.DateLayout) != s {
		return time.Time{}, fmt.Errorf("non canonical date %q", s)
	}
	return t, nil
}
