package services

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/comitanigiacomo/kanso-lift/internal/adapters/repository"
	"github.com/comitanigiacomo/kanso-lift/internal/core/domain"
	"github.com/comitanigiacomo/kanso-lift/internal/core/progress"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func newStore(t *testing.T) *repository.LocalStore {
	t.Helper()
	return repository.NewLocalStore(filepath.Join(t.TempDir(), ".localdb.json"))
}

// spyCache records invalidations on top of a real LRU.
type spyCache struct {
	*progress.MemoryCache

	mu        sync.Mutex
	exercises []string
	users     []string

	onInvalidate func(exerciseID string)
}

func newSpyCache(t *testing.T) *spyCache {
	t.Helper()
	mc, err := progress.NewMemoryCache(64)
	require.NoError(t, err)
	return &spyCache{MemoryCache: mc}
}

func (c *spyCache) InvalidateExercise(ctx context.Context, userID, exerciseID string) {
	if c.onInvalidate != nil {
		c.onInvalidate(exerciseID)
	}
	c.mu.Lock()
	c.exercises = append(c.exercises, exerciseID)
	c.mu.Unlock()
	c.MemoryCache.InvalidateExercise(ctx, userID, exerciseID)
}

func (c *spyCache) InvalidateUser(ctx context.Context, userID string) {
	c.mu.Lock()
	c.users = append(c.users, userID)
	c.mu.Unlock()
	c.MemoryCache.InvalidateUser(ctx, userID)
}

func (c *spyCache) invalidated(exerciseID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range c.exercises {
		if id == exerciseID {
			return true
		}
	}
	return false
}

func createExercise(t *testing.T, svc *ExerciseService, userID, name string) *domain.Exercise {
	t.Helper()
	e, err := svc.Create(context.Background(), CreateExerciseInput{UserID: userID, Name: name})
	require.NoError(t, err)
	return e
}
