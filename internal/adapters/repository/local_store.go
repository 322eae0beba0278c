package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/comitanigiacomo/kanso-lift/internal/core/domain"
	log "github.com/sirupsen/logrus"
)

// localUser mirrors domain.User but keeps the password hash on disk.
type localUser struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type localTables struct {
	Users            []*localUser              `json:"users"`
	Exercises        []*domain.Exercise        `json:"exercises"`
	Workouts         []*domain.Workout         `json:"workouts"`
	WorkoutExercises []*domain.WorkoutExercise `json:"workout_exercises"`
	ExerciseSets     []*domain.ExerciseSet     `json:"exercise_sets"`
	Templates        []*domain.WorkoutTemplate `json:"workout_templates"`
	UserSettings     []*domain.UserSettings    `json:"user_settings"`
}

func (t *localTables) normalize() {
	if t.Users == nil {
		t.Users = []*localUser{}
	}
	if t.Exercises == nil {
		t.Exercises = []*domain.Exercise{}
	}
	if t.Workouts == nil {
		t.Workouts = []*domain.Workout{}
	}
	if t.WorkoutExercises == nil {
		t.WorkoutExercises = []*domain.WorkoutExercise{}
	}
	if t.ExerciseSets == nil {
		t.ExerciseSets = []*domain.ExerciseSet{}
	}
	if t.Templates == nil {
		t.Templates = []*domain.WorkoutTemplate{}
	}
	if t.UserSettings == nil {
		t.UserSettings = []*domain.UserSettings{}
	}
}

// LocalStore keeps every table in a single human-readable JSON file. The
// file is re-read on each operation, so edits made while the server is
// stopped or running are picked up. A missing or corrupt file reads as an
// empty database.
type LocalStore struct {
	path string
	mu   sync.RWMutex
}

func NewLocalStore(path string) *LocalStore {
	return &LocalStore{path: path}
}

func (s *LocalStore) Path() string {
	return s.path
}

func (s *LocalStore) Users() *LocalUserRepository {
	return &LocalUserRepository{store: s}
}

func (s *LocalStore) Exercises() *LocalExerciseRepository {
	return &LocalExerciseRepository{store: s}
}

func (s *LocalStore) Workouts() *LocalWorkoutRepository {
	return &LocalWorkoutRepository{store: s}
}

func (s *LocalStore) Templates() *LocalTemplateRepository {
	return &LocalTemplateRepository{store: s}
}

func (s *LocalStore) Settings() *LocalSettingsRepository {
	return &LocalSettingsRepository{store: s}
}

// view runs fn against a fresh snapshot under the read lock.
func (s *LocalStore) view(fn func(t *localTables) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, err := s.load()
	if err != nil {
		return err
	}
	return fn(t)
}

// update runs fn under the write lock and persists the result when fn
// succeeds.
func (s *LocalStore) update(fn func(t *localTables) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.load()
	if err != nil {
		return err
	}
	if err := fn(t); err != nil {
		return err
	}
	return s.save(t)
}

func (s *LocalStore) load() (*localTables, error) {
	t := &localTables{}

	raw, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.WithField("path", s.path).WithError(err).Warn("local store unreadable, starting empty")
		}
		t.normalize()
		return t, nil
	}

	if err := json.Unmarshal(raw, t); err != nil {
		log.WithField("path", s.path).WithError(err).Warn("local store corrupt, starting empty")
		t = &localTables{}
	}
	t.normalize()
	return t, nil
}

// save writes to a sibling temp file and renames it over the target. When
// the platform refuses the rename the file is written in place.
func (s *LocalStore) save(t *localTables) error {
	payload, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return fmt.Errorf("local store: encode: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("local store: create dir: %w", err)
		}
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o644); err != nil {
		return fmt.Errorf("local store: write temp file: %w", err)
	}

	if err := os.Rename(tmp, s.path); err != nil {
		if !errors.Is(err, fs.ErrExist) && !errors.Is(err, fs.ErrPermission) {
			return fmt.Errorf("local store: rename: %w", err)
		}
		log.WithError(err).Debug("local store rename refused, writing in place")
		if err := os.WriteFile(s.path, payload, 0o644); err != nil {
			return fmt.Errorf("local store: direct write: %w", err)
		}
		_ = os.Remove(tmp)
	}
	return nil
}
