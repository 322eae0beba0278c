package services

import (
	"context"
	"testing"
	"time"

	"github.com/comitanigiacomo/kanso-lift/internal/core/domain"
	"github.com/comitanigiacomo/kanso-lift/internal/metrics"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type workoutFixture struct {
	svc       *WorkoutService
	exercises *ExerciseService
	cache     *spyCache
	metrics   *metrics.Manager
	userID    string
}

func newWorkoutFixture(t *testing.T) *workoutFixture {
	store := newStore(t)
	cache := newSpyCache(t)
	m := metrics.NewTestManager()
	return &workoutFixture{
		svc:       NewWorkoutService(store.Workouts(), store.Exercises(), cache, m),
		exercises: NewExerciseService(store.Exercises(), cache),
		cache:     cache,
		metrics:   m,
		userID:    uuid.NewString(),
	}
}

// session creates a workout holding one exercise and the given sets.
func (f *workoutFixture) session(t *testing.T, date string, exercise *domain.Exercise, sets ...[2]float64) (*domain.Workout, *domain.WorkoutExercise) {
	t.Helper()
	ctx := context.Background()

	w, err := f.svc.Create(ctx, CreateWorkoutInput{UserID: f.userID, Date: date})
	require.NoError(t, err)
	res, err := f.svc.AddExercises(ctx, AddExercisesInput{WorkoutID: w.ID, UserID: f.userID, ExerciseIDs: []string{exercise.ID}})
	require.NoError(t, err)
	require.Equal(t, 1, res.Inserted)

	menu, err := f.svc.Menu(ctx, w.ID, f.userID)
	require.NoError(t, err)
	weID := menu.Exercises[0].ID

	for _, s := range sets {
		reps := int(s[1])
		_, err := f.svc.AddSet(ctx, AddSetInput{WorkoutID: w.ID, WorkoutExerciseID: weID, UserID: f.userID, Weight: ptr(s[0]), Reps: &reps})
		require.NoError(t, err)
	}

	we := &domain.WorkoutExercise{ID: weID, WorkoutID: w.ID, ExerciseID: exercise.ID}
	return w, we
}

func TestWorkoutService_Workouts(t *testing.T) {
	ctx := context.Background()
	f := newWorkoutFixture(t)

	t.Run("Success: create trims the memo", func(t *testing.T) {
		w, err := f.svc.Create(ctx, CreateWorkoutInput{UserID: f.userID, Date: "2024-05-01", Memo: ptr("  heavy day ")})
		require.NoError(t, err)
		assert.Equal(t, "heavy day", *w.Memo)

		list, err := f.svc.ListByDate(ctx, f.userID, "2024-05-01")
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, w.ID, list[0].ID)
	})

	t.Run("Day view carries exercises and sets", func(t *testing.T) {
		press := createExercise(t, f.exercises, f.userID, "Overhead Press")
		w, we := f.session(t, "2024-04-20", press, [2]float64{40, 8}, [2]float64{42.5, 6})

		menus, err := f.svc.MenusByDate(ctx, f.userID, "2024-04-20")
		require.NoError(t, err)
		require.Len(t, menus, 1)
		assert.Equal(t, w.ID, menus[0].ID)
		require.Len(t, menus[0].Exercises, 1)
		assert.Equal(t, we.ID, menus[0].Exercises[0].ID)
		assert.Equal(t, "Overhead Press", menus[0].Exercises[0].ExerciseName)
		assert.Len(t, menus[0].Exercises[0].Sets, 2)

		empty, err := f.svc.MenusByDate(ctx, f.userID, "2024-04-21")
		require.NoError(t, err)
		assert.Empty(t, empty)

		_, err = f.svc.MenusByDate(ctx, f.userID, "2024-4-21")
		assert.ErrorIs(t, err, domain.ErrInvalidDate)
	})

	t.Run("Fail: invalid dates", func(t *testing.T) {
		_, err := f.svc.Create(ctx, CreateWorkoutInput{UserID: f.userID, Date: "2024-02-30"})
		assert.ErrorIs(t, err, domain.ErrInvalidDate)

		_, err = f.svc.ListByDate(ctx, f.userID, "yesterday")
		assert.ErrorIs(t, err, domain.ErrInvalidDate)
	})

	t.Run("Error: other users cannot read or change a workout", func(t *testing.T) {
		w, err := f.svc.Create(ctx, CreateWorkoutInput{UserID: f.userID, Date: "2024-05-02"})
		require.NoError(t, err)
		stranger := uuid.NewString()

		_, err = f.svc.Get(ctx, w.ID, stranger)
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
		_, err = f.svc.Update(ctx, UpdateWorkoutInput{ID: w.ID, UserID: stranger, Date: "2024-05-03"})
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
		assert.ErrorIs(t, f.svc.Delete(ctx, w.ID, stranger), domain.ErrUnauthorized)
	})

	t.Run("Moving a workout invalidates its exercises", func(t *testing.T) {
		bench := createExercise(t, f.exercises, f.userID, "Flat Bench Press")
		w, _ := f.session(t, "2024-05-04", bench, [2]float64{60, 8})

		memo := "moved"
		updated, err := f.svc.Update(ctx, UpdateWorkoutInput{ID: w.ID, UserID: f.userID, Date: "2024-05-05", Memo: &memo})
		require.NoError(t, err)
		assert.Equal(t, "2024-05-05", updated.WorkoutDate)
		assert.True(t, f.cache.invalidated(bench.ID))

		require.NoError(t, f.svc.Delete(ctx, w.ID, f.userID))
		_, err = f.svc.Get(ctx, w.ID, f.userID)
		assert.ErrorIs(t, err, domain.ErrWorkoutNotFound)
	})

	t.Run("Delete invalidates after the workout is gone", func(t *testing.T) {
		squat := createExercise(t, f.exercises, f.userID, "Back Squat")
		w, _ := f.session(t, "2024-05-06", squat, [2]float64{100, 5})

		var seen []string
		f.cache.onInvalidate = func(exerciseID string) {
			_, err := f.svc.repo.GetByID(ctx, w.ID)
			assert.ErrorIs(t, err, domain.ErrWorkoutNotFound, "cache invalidated while the workout still existed")
			seen = append(seen, exerciseID)
		}
		defer func() { f.cache.onInvalidate = nil }()

		require.NoError(t, f.svc.Delete(ctx, w.ID, f.userID))
		assert.Equal(t, []string{squat.ID}, seen)
	})
}

func TestWorkoutService_ExercisesAndSets(t *testing.T) {
	ctx := context.Background()
	f := newWorkoutFixture(t)

	squat := createExercise(t, f.exercises, f.userID, "Back Squat")
	row := createExercise(t, f.exercises, f.userID, "Barbell Row")
	foreign := createExercise(t, f.exercises, uuid.NewString(), "Someone Else's Curl")

	w, err := f.svc.Create(ctx, CreateWorkoutInput{UserID: f.userID, Date: "2024-06-01"})
	require.NoError(t, err)

	t.Run("AddExercises is best effort", func(t *testing.T) {
		res, err := f.svc.AddExercises(ctx, AddExercisesInput{
			WorkoutID:   w.ID,
			UserID:      f.userID,
			ExerciseIDs: []string{squat.ID, squat.ID, foreign.ID, "missing", row.ID},
		})
		require.NoError(t, err)
		assert.Equal(t, 4, res.Attempted)
		assert.Equal(t, 2, res.Inserted)

		again, err := f.svc.AddExercises(ctx, AddExercisesInput{WorkoutID: w.ID, UserID: f.userID, ExerciseIDs: []string{row.ID}})
		require.NoError(t, err)
		assert.Equal(t, 0, again.Inserted)
	})

	menu, err := f.svc.Menu(ctx, w.ID, f.userID)
	require.NoError(t, err)
	require.Len(t, menu.Exercises, 2)
	assert.Equal(t, "Back Squat", menu.Exercises[0].ExerciseName)
	assert.Equal(t, 0, menu.Exercises[0].SortOrder)
	assert.Equal(t, 1, menu.Exercises[1].SortOrder)
	squatWE := menu.Exercises[0].ID
	rowWE := menu.Exercises[1].ID

	t.Run("AddSet validates and counts", func(t *testing.T) {
		_, err := f.svc.AddSet(ctx, AddSetInput{WorkoutID: w.ID, WorkoutExerciseID: squatWE, UserID: f.userID, Weight: ptr(-5.0)})
		assert.ErrorIs(t, err, domain.ErrInvalidWeight)

		first, err := f.svc.AddSet(ctx, AddSetInput{WorkoutID: w.ID, WorkoutExerciseID: squatWE, UserID: f.userID, Weight: ptr(100.0), Reps: ptr(5)})
		require.NoError(t, err)
		second, err := f.svc.AddSet(ctx, AddSetInput{WorkoutExerciseID: squatWE, UserID: f.userID})
		require.NoError(t, err)

		assert.Equal(t, 0, first.SetOrder)
		assert.Equal(t, 1, second.SetOrder)
		assert.True(t, second.IsEmpty())
		assert.Equal(t, 2.0, testutil.ToFloat64(f.metrics.CounterSetsLogged))
		assert.True(t, f.cache.invalidated(squat.ID))
	})

	t.Run("AddSet rejects a workout exercise from another workout", func(t *testing.T) {
		other, err := f.svc.Create(ctx, CreateWorkoutInput{UserID: f.userID, Date: "2024-06-02"})
		require.NoError(t, err)
		_, err = f.svc.AddSet(ctx, AddSetInput{WorkoutID: other.ID, WorkoutExerciseID: squatWE, UserID: f.userID})
		assert.ErrorIs(t, err, domain.ErrWorkoutExerciseNotFound)
	})

	t.Run("UpdateSet and DeleteSet check ownership", func(t *testing.T) {
		set, err := f.svc.AddSet(ctx, AddSetInput{WorkoutExerciseID: rowWE, UserID: f.userID, Weight: ptr(40.0)})
		require.NoError(t, err)

		_, err = f.svc.UpdateSet(ctx, UpdateSetInput{SetID: set.ID, UserID: uuid.NewString(), Weight: ptr(1.0)})
		assert.ErrorIs(t, err, domain.ErrUnauthorized)

		updated, err := f.svc.UpdateSet(ctx, UpdateSetInput{SetID: set.ID, UserID: f.userID, Weight: ptr(45.0), Reps: ptr(10)})
		require.NoError(t, err)
		assert.Equal(t, 45.0, *updated.Weight)

		_, err = f.svc.UpdateSet(ctx, UpdateSetInput{SetID: set.ID, UserID: f.userID, Reps: ptr(-1)})
		assert.ErrorIs(t, err, domain.ErrInvalidReps)

		assert.ErrorIs(t, f.svc.DeleteSet(ctx, set.ID, uuid.NewString()), domain.ErrUnauthorized)
		require.NoError(t, f.svc.DeleteSet(ctx, set.ID, f.userID))
		assert.ErrorIs(t, f.svc.DeleteSet(ctx, set.ID, f.userID), domain.ErrSetNotFound)
	})

	t.Run("RemoveExercise", func(t *testing.T) {
		assert.ErrorIs(t, f.svc.RemoveExercise(ctx, uuid.NewString(), rowWE, f.userID), domain.ErrWorkoutExerciseNotFound)
		require.NoError(t, f.svc.RemoveExercise(ctx, w.ID, rowWE, f.userID))

		menu, err := f.svc.Menu(ctx, w.ID, f.userID)
		require.NoError(t, err)
		assert.Len(t, menu.Exercises, 1)
	})
}

func TestWorkoutService_CopyPreviousSets(t *testing.T) {
	ctx := context.Background()

	t.Run("Copies the most recent earlier workout", func(t *testing.T) {
		f := newWorkoutFixture(t)
		press := createExercise(t, f.exercises, f.userID, "Shoulder Press")

		f.session(t, "2024-01-01", press, [2]float64{20, 10})
		f.session(t, "2024-01-08", press, [2]float64{25, 8}, [2]float64{27.5, 6})
		f.session(t, "2024-01-20", press, [2]float64{40, 1})
		current, we := f.session(t, "2024-01-15", press)

		created, err := f.svc.CopyPreviousSets(ctx, current.ID, we.ID, f.userID)
		require.NoError(t, err)
		require.Len(t, created, 2)
		assert.Equal(t, 25.0, *created[0].Weight)
		assert.Equal(t, 27.5, *created[1].Weight)
		assert.Equal(t, 6, *created[1].Reps)
		assert.Equal(t, 1, created[1].SetOrder)
	})

	t.Run("Same day uses creation order", func(t *testing.T) {
		f := newWorkoutFixture(t)
		press := createExercise(t, f.exercises, f.userID, "Shoulder Press")

		f.session(t, "2024-02-01", press, [2]float64{30, 5})
		time.Sleep(2 * time.Millisecond)
		current, we := f.session(t, "2024-02-01", press)

		created, err := f.svc.CopyPreviousSets(ctx, current.ID, we.ID, f.userID)
		require.NoError(t, err)
		require.Len(t, created, 1)
		assert.Equal(t, 30.0, *created[0].Weight)
	})

	t.Run("Without history one blank set is added", func(t *testing.T) {
		f := newWorkoutFixture(t)
		press := createExercise(t, f.exercises, f.userID, "Shoulder Press")
		current, we := f.session(t, "2024-03-01", press)

		created, err := f.svc.CopyPreviousSets(ctx, current.ID, we.ID, f.userID)
		require.NoError(t, err)
		require.Len(t, created, 1)
		assert.True(t, created[0].IsEmpty())
	})

	t.Run("Error: foreign workout", func(t *testing.T) {
		f := newWorkoutFixture(t)
		press := createExercise(t, f.exercises, f.userID, "Shoulder Press")
		current, we := f.session(t, "2024-03-01", press)

		_, err := f.svc.CopyPreviousSets(ctx, current.ID, we.ID, uuid.NewString())
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})
}

func TestWorkoutService_PreviousTopSets(t *testing.T) {
	ctx := context.Background()
	f := newWorkoutFixture(t)

	squat := createExercise(t, f.exercises, f.userID, "Front Squat")
	curl := createExercise(t, f.exercises, f.userID, "Hammer Curl")

	f.session(t, "2024-04-01", squat, [2]float64{80, 5}, [2]float64{90, 3}, [2]float64{90, 4})
	current, _ := f.session(t, "2024-04-10", squat)
	_, err := f.svc.AddExercises(ctx, AddExercisesInput{WorkoutID: current.ID, UserID: f.userID, ExerciseIDs: []string{curl.ID}})
	require.NoError(t, err)

	tops, err := f.svc.PreviousTopSets(ctx, current.ID, f.userID)
	require.NoError(t, err)
	require.Contains(t, tops, squat.ID)
	require.Contains(t, tops, curl.ID)

	require.NotNil(t, tops[squat.ID])
	assert.Equal(t, 90.0, *tops[squat.ID].Weight)
	assert.Equal(t, 4, *tops[squat.ID].Reps)
	assert.Nil(t, tops[curl.ID])
}
