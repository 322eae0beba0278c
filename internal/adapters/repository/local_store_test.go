package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/comitanigiacomo/kanso-lift/internal/core/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *LocalStore {
	t.Helper()
	return NewLocalStore(filepath.Join(t.TempDir(), ".localdb.json"))
}

func ptr[T any](v T) *T { return &v }

func mustExercise(t *testing.T, userID string) *domain.Exercise {
	t.Helper()
	e, err := domain.NewExercise(userID, fmt.Sprintf("%s %s", gofakeit.Adjective(), uuid.NewString()[:8]), []string{domain.PartChest})
	require.NoError(t, err)
	return e
}

func mustWorkout(t *testing.T, userID, date string, createdAt time.Time) *domain.Workout {
	t.Helper()
	w, err := domain.NewWorkout(userID, date, nil)
	require.NoError(t, err)
	w.CreatedAt = createdAt
	return w
}

func TestLocalStore_File(t *testing.T) {
	ctx := context.Background()

	t.Run("Missing file reads as empty", func(t *testing.T) {
		store := newTestStore(t)
		list, err := store.Exercises().ListByUserID(ctx, domain.LocalUserID)
		require.NoError(t, err)
		assert.Empty(t, list)
		assert.NoFileExists(t, store.Path())
	})

	t.Run("Corrupt file reads as empty and is replaced on write", func(t *testing.T) {
		store := newTestStore(t)
		require.NoError(t, os.WriteFile(store.Path(), []byte("{not json"), 0o644))

		list, err := store.Exercises().ListByUserID(ctx, domain.LocalUserID)
		require.NoError(t, err)
		assert.Empty(t, list)

		require.NoError(t, store.Exercises().Create(ctx, mustExercise(t, domain.LocalUserID)))

		raw, err := os.ReadFile(store.Path())
		require.NoError(t, err)
		var tables map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(raw, &tables))
		for _, table := range []string{"exercises", "workouts", "workout_exercises", "exercise_sets", "user_settings"} {
			assert.Contains(t, tables, table)
		}
		assert.NoFileExists(t, store.Path()+".tmp")
	})

	t.Run("Data survives a new store on the same path", func(t *testing.T) {
		store := newTestStore(t)
		e := mustExercise(t, domain.LocalUserID)
		require.NoError(t, store.Exercises().Create(ctx, e))

		reopened := NewLocalStore(store.Path())
		got, err := reopened.Exercises().GetByID(ctx, e.ID)
		require.NoError(t, err)
		assert.Equal(t, e.Name, got.Name)
		assert.Equal(t, e.TargetParts, got.TargetParts)
	})

	t.Run("Nested directory is created", func(t *testing.T) {
		store := NewLocalStore(filepath.Join(t.TempDir(), "data", "db.json"))
		require.NoError(t, store.Settings().Upsert(ctx, &domain.UserSettings{UserID: domain.LocalUserID}))
		assert.FileExists(t, store.Path())
	})
}

func TestLocalExerciseRepository(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	repo := store.Exercises()
	userID := uuid.NewString()

	t.Run("Success: create, list newest first, update", func(t *testing.T) {
		older := mustExercise(t, userID)
		older.CreatedAt = time.Now().Add(-time.Hour).UTC()
		newer := mustExercise(t, userID)
		require.NoError(t, repo.Create(ctx, older))
		require.NoError(t, repo.Create(ctx, newer))

		list, err := repo.ListByUserID(ctx, userID)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, newer.ID, list[0].ID)

		require.NoError(t, older.Update("Renamed", []string{domain.PartLegs}))
		require.NoError(t, repo.Update(ctx, older))
		got, err := repo.GetByID(ctx, older.ID)
		require.NoError(t, err)
		assert.Equal(t, "Renamed", got.Name)
		assert.Equal(t, []string{domain.PartLegs}, got.TargetParts)
	})

	t.Run("Fail: duplicate name ignores case", func(t *testing.T) {
		e, _ := domain.NewExercise(userID, "Bench Press", nil)
		require.NoError(t, repo.Create(ctx, e))
		dup, _ := domain.NewExercise(userID, "  bench press ", nil)
		assert.ErrorIs(t, repo.Create(ctx, dup), domain.ErrExerciseNameConflict)

		other, _ := domain.NewExercise(uuid.NewString(), "Bench Press", nil)
		assert.NoError(t, repo.Create(ctx, other), "names are scoped per user")
	})

	t.Run("CreateMany skips taken names", func(t *testing.T) {
		uid := uuid.NewString()
		a, _ := domain.NewExercise(uid, "Squat", nil)
		require.NoError(t, repo.Create(ctx, a))

		b, _ := domain.NewExercise(uid, "squat", nil)
		c, _ := domain.NewExercise(uid, "Deadlift", nil)
		d, _ := domain.NewExercise(uid, "DEADLIFT", nil)

		n, err := repo.CreateMany(ctx, []*domain.Exercise{b, c, d})
		require.NoError(t, err)
		assert.Equal(t, 1, n)

		list, _ := repo.ListByUserID(ctx, uid)
		assert.Len(t, list, 2)
	})

	t.Run("Error: not found", func(t *testing.T) {
		_, err := repo.GetByID(ctx, uuid.NewString())
		assert.ErrorIs(t, err, domain.ErrExerciseNotFound)

		e := mustExercise(t, userID)
		assert.ErrorIs(t, repo.Update(ctx, e), domain.ErrExerciseNotFound)
		assert.ErrorIs(t, repo.Delete(ctx, e.ID, userID), domain.ErrExerciseNotFound)
	})

	t.Run("Delete checks owner and cascades", func(t *testing.T) {
		uid := uuid.NewString()
		e := mustExercise(t, uid)
		require.NoError(t, repo.Create(ctx, e))

		workouts := store.Workouts()
		w := mustWorkout(t, uid, "2024-05-01", time.Now().UTC())
		require.NoError(t, workouts.Create(ctx, w))
		we := &domain.WorkoutExercise{WorkoutID: w.ID, ExerciseID: e.ID}
		require.NoError(t, workouts.AddExercise(ctx, we))
		set, _ := domain.NewExerciseSet(we.ID, ptr(50.0), ptr(5))
		require.NoError(t, workouts.AddSet(ctx, set))

		assert.ErrorIs(t, repo.Delete(ctx, e.ID, uuid.NewString()), domain.ErrExerciseNotFound)
		require.NoError(t, repo.Delete(ctx, e.ID, uid))

		_, err := workouts.GetExercise(ctx, we.ID)
		assert.ErrorIs(t, err, domain.ErrWorkoutExerciseNotFound)
		_, err = workouts.GetSet(ctx, set.ID)
		assert.ErrorIs(t, err, domain.ErrSetNotFound)
	})
}

func TestLocalWorkoutRepository(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	exercises := store.Exercises()
	repo := store.Workouts()
	userID := uuid.NewString()

	bench := mustExercise(t, userID)
	row := mustExercise(t, userID)
	require.NoError(t, exercises.Create(ctx, bench))
	require.NoError(t, exercises.Create(ctx, row))

	base := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)

	t.Run("Orders start at zero and grow by one", func(t *testing.T) {
		w := mustWorkout(t, userID, "2024-06-01", base)
		require.NoError(t, repo.Create(ctx, w))

		first := &domain.WorkoutExercise{WorkoutID: w.ID, ExerciseID: bench.ID}
		second := &domain.WorkoutExercise{WorkoutID: w.ID, ExerciseID: row.ID}
		require.NoError(t, repo.AddExercise(ctx, first))
		require.NoError(t, repo.AddExercise(ctx, second))
		assert.Equal(t, 0, first.SortOrder)
		assert.Equal(t, 1, second.SortOrder)
		assert.NotEmpty(t, first.ID)

		for i := 0; i < 3; i++ {
			set, _ := domain.NewExerciseSet(first.ID, ptr(60.0+float64(i)), ptr(8))
			require.NoError(t, repo.AddSet(ctx, set))
			assert.Equal(t, i, set.SetOrder)
		}

		sets, err := repo.ListSets(ctx, first.ID)
		require.NoError(t, err)
		require.Len(t, sets, 3)
		assert.Equal(t, 62.0, *sets[2].Weight)

		wes, err := repo.ListExercises(ctx, w.ID)
		require.NoError(t, err)
		require.Len(t, wes, 2)
		assert.Equal(t, bench.ID, wes[0].ExerciseID)
	})

	t.Run("Fail: unknown parents", func(t *testing.T) {
		err := repo.AddExercise(ctx, &domain.WorkoutExercise{WorkoutID: uuid.NewString(), ExerciseID: bench.ID})
		assert.ErrorIs(t, err, domain.ErrWorkoutNotFound)

		set, _ := domain.NewExerciseSet(uuid.NewString(), nil, nil)
		assert.ErrorIs(t, repo.AddSet(ctx, set), domain.ErrWorkoutExerciseNotFound)
	})

	t.Run("Update and delete sets", func(t *testing.T) {
		w := mustWorkout(t, userID, "2024-06-02", base)
		require.NoError(t, repo.Create(ctx, w))
		we := &domain.WorkoutExercise{WorkoutID: w.ID, ExerciseID: bench.ID}
		require.NoError(t, repo.AddExercise(ctx, we))
		set, _ := domain.NewExerciseSet(we.ID, nil, nil)
		require.NoError(t, repo.AddSet(ctx, set))

		require.NoError(t, set.Update(ptr(80.0), ptr(3)))
		require.NoError(t, repo.UpdateSet(ctx, set))
		got, err := repo.GetSet(ctx, set.ID)
		require.NoError(t, err)
		assert.Equal(t, 80.0, *got.Weight)
		assert.Equal(t, 3, *got.Reps)

		require.NoError(t, repo.DeleteSet(ctx, set.ID))
		assert.ErrorIs(t, repo.DeleteSet(ctx, set.ID), domain.ErrSetNotFound)
	})

	t.Run("ListByDate returns the day's workouts in creation order", func(t *testing.T) {
		late := mustWorkout(t, userID, "2024-06-03", base.Add(2*time.Hour))
		early := mustWorkout(t, userID, "2024-06-03", base)
		require.NoError(t, repo.Create(ctx, late))
		require.NoError(t, repo.Create(ctx, early))

		list, err := repo.ListByDate(ctx, userID, "2024-06-03")
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, early.ID, list[0].ID)

		other, err := repo.ListByDate(ctx, uuid.NewString(), "2024-06-03")
		require.NoError(t, err)
		assert.Empty(t, other)
	})

	t.Run("Delete cascades", func(t *testing.T) {
		w := mustWorkout(t, userID, "2024-06-04", base)
		require.NoError(t, repo.Create(ctx, w))
		we := &domain.WorkoutExercise{WorkoutID: w.ID, ExerciseID: row.ID}
		require.NoError(t, repo.AddExercise(ctx, we))
		set, _ := domain.NewExerciseSet(we.ID, ptr(40.0), nil)
		require.NoError(t, repo.AddSet(ctx, set))

		assert.ErrorIs(t, repo.Delete(ctx, w.ID, uuid.NewString()), domain.ErrWorkoutNotFound)
		require.NoError(t, repo.Delete(ctx, w.ID, userID))

		_, err := repo.GetByID(ctx, w.ID)
		assert.ErrorIs(t, err, domain.ErrWorkoutNotFound)
		_, err = repo.GetSet(ctx, set.ID)
		assert.ErrorIs(t, err, domain.ErrSetNotFound)
	})
}

func TestLocalWorkoutRepository_Queries(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	repo := store.Workouts()
	userID := uuid.NewString()

	squat := mustExercise(t, userID)
	press := mustExercise(t, userID)
	require.NoError(t, store.Exercises().Create(ctx, squat))
	require.NoError(t, store.Exercises().Create(ctx, press))

	log := func(date string, createdAt time.Time, exercise *domain.Exercise, weights ...float64) *domain.Workout {
		w := mustWorkout(t, userID, date, createdAt)
		require.NoError(t, repo.Create(ctx, w))
		we := &domain.WorkoutExercise{WorkoutID: w.ID, ExerciseID: exercise.ID}
		require.NoError(t, repo.AddExercise(ctx, we))
		for _, kg := range weights {
			set, _ := domain.NewExerciseSet(we.ID, ptr(kg), ptr(5))
			require.NoError(t, repo.AddSet(ctx, set))
		}
		return w
	}

	morning := time.Date(2024, 3, 10, 7, 0, 0, 0, time.UTC)
	w1 := log("2024-03-01", morning, squat, 100, 105)
	w2 := log("2024-03-10", morning, squat, 110)
	w3 := log("2024-03-10", morning.Add(time.Hour), squat)
	log("2024-03-15", morning, press, 50, 52, 54)
	log("2024-04-02", morning, squat, 120)

	t.Run("History is newest first with ordered sets", func(t *testing.T) {
		items, err := repo.History(ctx, userID, squat.ID, 0)
		require.NoError(t, err)
		require.Len(t, items, 4)
		assert.Equal(t, "2024-04-02", items[0].WorkoutDate)
		assert.Equal(t, w3.ID, items[1].WorkoutID)
		assert.Empty(t, items[1].Sets)
		assert.Equal(t, w2.ID, items[2].WorkoutID)
		assert.Equal(t, w1.ID, items[3].WorkoutID)
		require.Len(t, items[3].Sets, 2)
		assert.Equal(t, 0, items[3].Sets[0].SetOrder)
		assert.Equal(t, 105.0, *items[3].Sets[1].Weight)
	})

	t.Run("History honours the limit and the owner", func(t *testing.T) {
		items, err := repo.History(ctx, userID, squat.ID, 2)
		require.NoError(t, err)
		assert.Len(t, items, 2)

		none, err := repo.History(ctx, uuid.NewString(), squat.ID, 0)
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("ListDates is distinct and bounded", func(t *testing.T) {
		dates, err := repo.ListDates(ctx, userID, "2024-03-01", "2024-03-31")
		require.NoError(t, err)
		assert.Equal(t, []string{"2024-03-01", "2024-03-10", "2024-03-15"}, dates)
	})

	t.Run("SetStats counts per day and exercise", func(t *testing.T) {
		stats, err := repo.SetStats(ctx, userID, "2024-03-01", "2024-03-31")
		require.NoError(t, err)

		counts := map[string]int{}
		for _, st := range stats {
			counts[st.WorkoutDate+"/"+st.ExerciseID] += st.Sets
		}
		assert.Equal(t, 2, counts["2024-03-01/"+squat.ID])
		assert.Equal(t, 1, counts["2024-03-10/"+squat.ID])
		assert.Equal(t, 3, counts["2024-03-15/"+press.ID])
		assert.Len(t, stats, 3)
	})
}

func TestLocalUserTemplateSettings(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	t.Run("Users keep their password hash on disk", func(t *testing.T) {
		users := store.Users()
		u, err := domain.NewUser(uuid.NewString(), gofakeit.Email())
		require.NoError(t, err)
		require.NoError(t, u.SetPassword("password123"))
		require.NoError(t, users.Create(ctx, u))

		got, err := users.GetByEmail(ctx, u.Email)
		require.NoError(t, err)
		assert.NoError(t, got.CheckPassword("password123"))

		dup, _ := domain.NewUser(uuid.NewString(), u.Email)
		assert.ErrorIs(t, users.Create(ctx, dup), domain.ErrEmailAlreadyExists)

		_, err = users.GetByID(ctx, uuid.NewString())
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})

	t.Run("Templates are listed newest first", func(t *testing.T) {
		templates := store.Templates()
		userID := uuid.NewString()

		a, _ := domain.NewWorkoutTemplate(userID, "Push", []string{"x"})
		a.UpdatedAt = time.Now().Add(-time.Minute).UTC()
		b, _ := domain.NewWorkoutTemplate(userID, "", nil)
		require.NoError(t, templates.Create(ctx, a))
		require.NoError(t, templates.Create(ctx, b))

		list, err := templates.ListByUserID(ctx, userID)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, domain.DefaultTemplateName, list[0].Name)

		require.NoError(t, a.Update("Pull", []string{"y", "z"}))
		require.NoError(t, templates.Update(ctx, a))
		got, _ := templates.GetByID(ctx, a.ID)
		assert.Equal(t, []string{"y", "z"}, got.ExerciseIDs)

		assert.ErrorIs(t, templates.Delete(ctx, a.ID, uuid.NewString()), domain.ErrTemplateNotFound)
		require.NoError(t, templates.Delete(ctx, a.ID, userID))
		_, err = templates.GetByID(ctx, a.ID)
		assert.ErrorIs(t, err, domain.ErrTemplateNotFound)
	})

	t.Run("Settings default to empty and upsert", func(t *testing.T) {
		settings := store.Settings()
		userID := uuid.NewString()

		got, err := settings.Get(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, userID, got.UserID)
		assert.Nil(t, got.GymLoginURL)

		url := gofakeit.URL()
		require.NoError(t, settings.Upsert(ctx, &domain.UserSettings{UserID: userID, GymLoginURL: &url}))
		require.NoError(t, settings.Upsert(ctx, &domain.UserSettings{UserID: userID, GymLoginURL: &url}))

		got, err = settings.Get(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, url, *got.GymLoginURL)
	})
}
