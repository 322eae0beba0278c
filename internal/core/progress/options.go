package progress

import (
	"errors"
	"fmt"
	"strconv"
)

var (
	ErrUnknownRange       = errors.New("unknown range (must be 12w, 6m or all)")
	ErrUnknownBucketWidth = errors.New("unknown bucket width (must be 14 or 28)")
	ErrUnknownMetric      = errors.New("unknown metric (must be auto, weight or reps)")
)

// RangeWindow is a named lookback period.
type RangeWindow string

const (
	RangeRecent   RangeWindow = "12w"
	RangeHalfYear RangeWindow = "6m"
	RangeAll      RangeWindow = "all"

	DefaultRange = RangeRecent
)

// RangeConfig maps bounded ranges to their day counts.
type RangeConfig struct {
	RecentDays   int
	HalfYearDays int
}

func DefaultRangeConfig() RangeConfig {
	return RangeConfig{RecentDays: 84, HalfYearDays: 183}
}

// Days returns the lookback for r. bounded is false only for RangeAll.
func (c RangeConfig) Days(r RangeWindow) (days int, bounded bool, err error) {
	switch r {
	case RangeRecent:
		return c.RecentDays, true, nil
	case RangeHalfYear:
		return c.HalfYearDays, true, nil
	case RangeAll:
		return 0, false, nil
	}
	return 0, false, fmt.Errorf("%w: %q", ErrUnknownRange, r)
}

func (r RangeWindow) Valid() bool {
	switch r {
	case RangeRecent, RangeHalfYear, RangeAll:
		return true
	}
	return false
}

func (r RangeWindow) Label() string {
	switch r {
	case RangeRecent:
		return "last 12 weeks"
	case RangeHalfYear:
		return "last 6 months"
	case RangeAll:
		return "all time"
	}
	return string(r)
}

// ParseRange maps the empty string to DefaultRange and rejects anything
// outside the closed set.
func ParseRange(s string) (RangeWindow, error) {
	if s == "" {
		return DefaultRange, nil
	}
	if r := RangeWindow(s); r.Valid() {
		return r, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownRange, s)
}

// BucketWidth is the size of an aggregation window in whole days.
type BucketWidth int

const (
	BucketTwoWeeks  BucketWidth = 14
	BucketFourWeeks BucketWidth = 28

	DefaultBucketWidth = BucketTwoWeeks
)

func (w BucketWidth) Days() int {
	return int(w)
}

func (w BucketWidth) Valid() bool {
	return w == BucketTwoWeeks || w == BucketFourWeeks
}

func ParseBucketWidth(s string) (BucketWidth, error) {
	if s == "" {
		return DefaultBucketWidth, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrUnknownBucketWidth, s)
	}
	if w := BucketWidth(n); w.Valid() {
		return w, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownBucketWidth, s)
}

type Metric string

const (
	MetricAuto   Metric = "auto"
	MetricWeight Metric = "weight"
	MetricReps   Metric = "reps"
)

func (m Metric) Valid() bool {
	switch m {
	case MetricAuto, MetricWeight, MetricReps:
		return true
	}
	return false
}

func ParseMetric(s string) (Metric, error) {
	if s == "" {
		return MetricAuto, nil
	}
	if m := Metric(s); m.Valid() {
		return m, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMetric, s)
}

// CheckOptions rejects values outside the closed sets. Zero values are
// accepted and mean the defaults.
func CheckOptions(r RangeWindow, w BucketWidth, m Metric) error {
	if r != "" && !r.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownRange, r)
	}
	if w != 0 && !w.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownBucketWidth, w)
	}
	if m != "" && !m.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownMetric, m)
	}
	return nil
}
