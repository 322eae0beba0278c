package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/comitanigiacomo/kanso-lift/internal/core/domain"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

var _ domain.ExerciseRepository = (*CachedExerciseRepository)(nil)

const exerciseListTTL = 30 * time.Minute

// CachedExerciseRepository keeps each user's exercise list in redis. Writes
// go straight to the wrapped repository and drop the cached list.
type CachedExerciseRepository struct {
	next  domain.ExerciseRepository
	cache *redis.Client
}

func NewCachedExerciseRepository(next domain.ExerciseRepository, cache *redis.Client) *CachedExerciseRepository {
	return &CachedExerciseRepository{
		next:  next,
		cache: cache,
	}
}

func (r *CachedExerciseRepository) cacheKey(userID string) string {
	return fmt.Sprintf("exercises:%s", userID)
}

func (r *CachedExerciseRepository) invalidate(ctx context.Context, userID string) {
	if err := r.cache.Del(ctx, r.cacheKey(userID)).Err(); err != nil {
		log.WithField("user_id", userID).WithError(err).Warn("exercise cache: invalidation failed")
	}
}

func (r *CachedExerciseRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Exercise, error) {
	key := r.cacheKey(userID)

	val, err := r.cache.Get(ctx, key).Result()
	if err == nil {
		var exercises []*domain.Exercise
		if err := json.Unmarshal([]byte(val), &exercises); err == nil {
			return exercises, nil
		}

		log.WithField("user_id", userID).Warn("exercise cache: corrupted entry, cleaning up key")
		r.cache.Del(ctx, key)
	} else if !errors.Is(err, redis.Nil) {
		log.WithError(err).Warn("exercise cache: redis read error")
	}

	exercises, err := r.next.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(exercises); err == nil {
		if setErr := r.cache.Set(ctx, key, data, exerciseListTTL).Err(); setErr != nil {
			log.WithError(setErr).Warn("exercise cache: redis set error")
		}
	}

	return exercises, nil
}

func (r *CachedExerciseRepository) GetByID(ctx context.Context, id string) (*domain.Exercise, error) {
	return r.next.GetByID(ctx, id)
}

func (r *CachedExerciseRepository) Create(ctx context.Context, exercise *domain.Exercise) error {
	if err := r.next.Create(ctx, exercise); err != nil {
		return err
	}
	r.invalidate(ctx, exercise.UserID)
	return nil
}

func (r *CachedExerciseRepository) CreateMany(ctx context.Context, exercises []*domain.Exercise) (int, error) {
	n, err := r.next.CreateMany(ctx, exercises)
	if err != nil {
		return n, err
	}

	users := make(map[string]bool)
	for _, e := range exercises {
		if !users[e.UserID] {
			users[e.UserID] = true
			r.invalidate(ctx, e.UserID)
		}
	}
	return n, nil
}

func (r *CachedExerciseRepository) Update(ctx context.Context, exercise *domain.Exercise) error {
	if err := r.next.Update(ctx, exercise); err != nil {
		return err
	}
	r.invalidate(ctx, exercise.UserID)
	return nil
}

func (r *CachedExerciseRepository) Delete(ctx context.Context, id string, userID string) error {
	if err := r.next.Delete(ctx, id, userID); err != nil {
		return err
	}
	r.invalidate(ctx, userID)
	return nil
}
