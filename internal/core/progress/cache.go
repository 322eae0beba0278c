package progress

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru"
)

// CacheKey identifies one aggregation request.
type CacheKey struct {
	UserID      string
	ExerciseID  string
	Range       RangeWindow
	BucketWidth BucketWidth
	Metric      Metric
}

func (k CacheKey) String() string {
	return fmt.Sprintf("%s:%s:%s:%d:%s", k.UserID, k.ExerciseID, k.Range, k.BucketWidth, k.Metric)
}

// Cache memoizes aggregation results. Callers own invalidation: any write
// to an exercise's sets or workouts must invalidate that exercise.
type Cache interface {
	Get(ctx context.Context, key CacheKey) (*Result, bool)
	Set(ctx context.Context, key CacheKey, result *Result)
	InvalidateExercise(ctx context.Context, userID, exerciseID string)
	InvalidateUser(ctx context.Context, userID string)
}

// MemoryCache is a bounded in-process LRU.
type MemoryCache struct {
	lru *lru.Cache
}

var _ Cache = (*MemoryCache)(nil)

func NewMemoryCache(size int) (*MemoryCache, error) {
	if size <= 0 {
		size = 512
	}
	c, err := lru.New(size)
	if err != nil {
		return nil, fmt.Errorf("failed to create progress lru: %w", err)
	}
	return &MemoryCache{lru: c}, nil
}

func (c *MemoryCache) Get(_ context.Context, key CacheKey) (*Result, bool) {
	v, ok := c.lru.Get(key)
	if !ok {
		return nil, false
	}
	res, ok := v.(*Result)
	return res, ok
}

func (c *MemoryCache) Set(_ context.Context, key CacheKey, result *Result) {
	c.lru.Add(key, result)
}

func (c *MemoryCache) InvalidateExercise(_ context.Context, userID, exerciseID string) {
	c.removeWhere(func(k CacheKey) bool {
		return k.UserID == userID && k.ExerciseID == exerciseID
	})
}

func (c *MemoryCache) InvalidateUser(_ context.Context, userID string) {
	c.removeWhere(func(k CacheKey) bool { return k.UserID == userID })
}

func (c *MemoryCache) Len() int {
	return c.lru.Len()
}

func (c *MemoryCache) removeWhere(match func(CacheKey) bool) {
	for _, raw := range c.lru.Keys() {
		if k, ok := raw.(CacheKey); ok && match(k) {
			c.lru.Remove(k)
		}
	}
}

// NopCache never stores anything.
type NopCache struct{}

func (NopCache) Get(context.Context, CacheKey) (*Result, bool)      { return nil, false }
func (NopCache) Set(context.Context, CacheKey, *Result)             {}
func (NopCache) InvalidateExercise(context.Context, string, string) {}
func (NopCache) InvalidateUser(context.Context, string)             {}
