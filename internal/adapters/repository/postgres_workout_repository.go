package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/comitanigiacomo/kanso-lift/internal/core/domain"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var _ domain.WorkoutRepository = (*PostgresWorkoutRepository)(nil)

type PostgresWorkoutRepository struct {
	db *sqlx.DB
}

func NewPostgresWorkoutRepository(db *sqlx.DB) *PostgresWorkoutRepository {
	return &PostgresWorkoutRepository{db: db}
}

// workout_date is a DATE column; casting keeps the YYYY-MM-DD form on scan.
const workoutColumns = `id, user_id, workout_date::text AS workout_date, memo, created_at`

func (r *PostgresWorkoutRepository) Create(ctx context.Context, w *domain.Workout) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		INSERT INTO workouts (id, user_id, workout_date, memo, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	if _, err := r.db.ExecContext(ctx, query, w.ID, w.UserID, w.WorkoutDate, w.Memo, w.CreatedAt); err != nil {
		return fmt.Errorf("repository: insert workout failed: %w", err)
	}
	return nil
}

func (r *PostgresWorkoutRepository) GetByID(ctx context.Context, id string) (*domain.Workout, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var w domain.Workout
	if err := r.db.GetContext(ctx, &w, `SELECT `+workoutColumns+` FROM workouts WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) || pgCode(err) == pgInvalidText {
			return nil, domain.ErrWorkoutNotFound
		}
		return nil, fmt.Errorf("repository: get workout failed: %w", err)
	}
	return &w, nil
}

func (r *PostgresWorkoutRepository) ListByDate(ctx context.Context, userID, date string) ([]*domain.Workout, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		SELECT ` + workoutColumns + `
		FROM workouts
		WHERE user_id = $1 AND workout_date = $2
		ORDER BY created_at ASC`

	workouts := []*domain.Workout{}
	if err := r.db.SelectContext(ctx, &workouts, query, userID, date); err != nil {
		return nil, fmt.Errorf("repository: list workouts failed: %w", err)
	}
	return workouts, nil
}

func (r *PostgresWorkoutRepository) Update(ctx context.Context, w *domain.Workout) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `UPDATE workouts SET workout_date = $1, memo = $2 WHERE id = $3 AND user_id = $4`

	res, err := r.db.ExecContext(ctx, query, w.WorkoutDate, w.Memo, w.ID, w.UserID)
	if err != nil {
		if pgCode(err) == pgInvalidText {
			return domain.ErrWorkoutNotFound
		}
		return fmt.Errorf("repository: update workout failed: %w", err)
	}
	return expectOne(res, domain.ErrWorkoutNotFound)
}

// Delete cascades to the workout's exercises and sets.
func (r *PostgresWorkoutRepository) Delete(ctx context.Context, id string, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `DELETE FROM workouts WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		if pgCode(err) == pgInvalidText {
			return domain.ErrWorkoutNotFound
		}
		return fmt.Errorf("repository: delete workout failed: %w", err)
	}
	return expectOne(res, domain.ErrWorkoutNotFound)
}

func (r *PostgresWorkoutRepository) ListExercises(ctx context.Context, workoutID string) ([]*domain.WorkoutExercise, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		SELECT id, workout_id, exercise_id, sort_order
		FROM workout_exercises
		WHERE workout_id = $1
		ORDER BY sort_order ASC, id ASC`

	wes := []*domain.WorkoutExercise{}
	if err := r.db.SelectContext(ctx, &wes, query, workoutID); err != nil {
		if pgCode(err) == pgInvalidText {
			return wes, nil
		}
		return nil, fmt.Errorf("repository: list workout exercises failed: %w", err)
	}
	return wes, nil
}

func (r *PostgresWorkoutRepository) GetExercise(ctx context.Context, id string) (*domain.WorkoutExercise, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var we domain.WorkoutExercise
	query := `SELECT id, workout_id, exercise_id, sort_order FROM workout_exercises WHERE id = $1`
	if err := r.db.GetContext(ctx, &we, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) || pgCode(err) == pgInvalidText {
			return nil, domain.ErrWorkoutExerciseNotFound
		}
		return nil, fmt.Errorf("repository: get workout exercise failed: %w", err)
	}
	return &we, nil
}

func (r *PostgresWorkoutRepository) AddExercise(ctx context.Context, we *domain.WorkoutExercise) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if we.ID == "" {
		we.ID = uuid.NewString()
	}

	query := `
		INSERT INTO workout_exercises (id, workout_id, exercise_id, sort_order)
		SELECT $1, $2, $3, COALESCE(MAX(sort_order), -1) + 1
		FROM workout_exercises
		WHERE workout_id = $2
		RETURNING sort_order`

	if err := r.db.QueryRowContext(ctx, query, we.ID, we.WorkoutID, we.ExerciseID).Scan(&we.SortOrder); err != nil {
		switch pgCode(err) {
		case pgForeignKeyViolation, pgInvalidText:
			return domain.ErrExerciseNotFound
		}
		return fmt.Errorf("repository: add workout exercise failed: %w", err)
	}
	return nil
}

// RemoveExercise cascades to the sets logged for it.
func (r *PostgresWorkoutRepository) RemoveExercise(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `DELETE FROM workout_exercises WHERE id = $1`, id)
	if err != nil {
		if pgCode(err) == pgInvalidText {
			return domain.ErrWorkoutExerciseNotFound
		}
		return fmt.Errorf("repository: remove workout exercise failed: %w", err)
	}
	return expectOne(res, domain.ErrWorkoutExerciseNotFound)
}

const setColumns = `id, workout_exercise_id, set_order, weight, reps`

func (r *PostgresWorkoutRepository) ListSets(ctx context.Context, workoutExerciseID string) ([]*domain.ExerciseSet, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		SELECT ` + setColumns + `
		FROM exercise_sets
		WHERE workout_exercise_id = $1
		ORDER BY set_order ASC, id ASC`

	sets := []*domain.ExerciseSet{}
	if err := r.db.SelectContext(ctx, &sets, query, workoutExerciseID); err != nil {
		if pgCode(err) == pgInvalidText {
			return sets, nil
		}
		return nil, fmt.Errorf("repository: list sets failed: %w", err)
	}
	return sets, nil
}

func (r *PostgresWorkoutRepository) GetSet(ctx context.Context, id string) (*domain.ExerciseSet, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var set domain.ExerciseSet
	if err := r.db.GetContext(ctx, &set, `SELECT `+setColumns+` FROM exercise_sets WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) || pgCode(err) == pgInvalidText {
			return nil, domain.ErrSetNotFound
		}
		return nil, fmt.Errorf("repository: get set failed: %w", err)
	}
	return &set, nil
}

func (r *PostgresWorkoutRepository) AddSet(ctx context.Context, set *domain.ExerciseSet) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if set.ID == "" {
		set.ID = uuid.NewString()
	}

	query := `
		INSERT INTO exercise_sets (id, workout_exercise_id, set_order, weight, reps)
		SELECT $1, $2, COALESCE(MAX(set_order), -1) + 1, $3, $4
		FROM exercise_sets
		WHERE workout_exercise_id = $2
		RETURNING set_order`

	err := r.db.QueryRowContext(ctx, query, set.ID, set.WorkoutExerciseID, set.Weight, set.Reps).Scan(&set.SetOrder)
	if err != nil {
		switch pgCode(err) {
		case pgForeignKeyViolation, pgInvalidText:
			return domain.ErrWorkoutExerciseNotFound
		}
		return fmt.Errorf("repository: add set failed: %w", err)
	}
	return nil
}

func (r *PostgresWorkoutRepository) UpdateSet(ctx context.Context, set *domain.ExerciseSet) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `UPDATE exercise_sets SET weight = $1, reps = $2 WHERE id = $3`, set.Weight, set.Reps, set.ID)
	if err != nil {
		if pgCode(err) == pgInvalidText {
			return domain.ErrSetNotFound
		}
		return fmt.Errorf("repository: update set failed: %w", err)
	}
	return expectOne(res, domain.ErrSetNotFound)
}

func (r *PostgresWorkoutRepository) DeleteSet(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `DELETE FROM exercise_sets WHERE id = $1`, id)
	if err != nil {
		if pgCode(err) == pgInvalidText {
			return domain.ErrSetNotFound
		}
		return fmt.Errorf("repository: delete set failed: %w", err)
	}
	return expectOne(res, domain.ErrSetNotFound)
}

type historyRow struct {
	WorkoutID        string    `db:"workout_id"`
	WorkoutDate      string    `db:"workout_date"`
	WorkoutCreatedAt time.Time `db:"workout_created_at"`
	SetOrder         *int      `db:"set_order"`
	Weight           *float64  `db:"weight"`
	Reps             *int      `db:"reps"`
}

func (r *PostgresWorkoutRepository) History(ctx context.Context, userID, exerciseID string, limit int) ([]domain.ExerciseHistoryItem, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	args := []any{userID, exerciseID}
	limitClause := ""
	if limit > 0 {
		limitClause = "LIMIT $3"
		args = append(args, limit)
	}

	query := `
		WITH recent AS (
			SELECT w.id, w.workout_date, w.created_at, we.id AS we_id
			FROM workouts w
			JOIN workout_exercises we ON we.workout_id = w.id
			WHERE w.user_id = $1 AND we.exercise_id = $2
			ORDER BY w.workout_date DESC, w.created_at DESC
			` + limitClause + `
		)
		SELECT r.id AS workout_id, r.workout_date::text AS workout_date, r.created_at AS workout_created_at,
		       s.set_order, s.weight, s.reps
		FROM recent r
		LEFT JOIN exercise_sets s ON s.workout_exercise_id = r.we_id
		ORDER BY r.workout_date DESC, r.created_at DESC, r.id, s.set_order ASC, s.id ASC`

	var rows []historyRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		if pgCode(err) == pgInvalidText {
			return []domain.ExerciseHistoryItem{}, nil
		}
		return nil, fmt.Errorf("repository: exercise history failed: %w", err)
	}

	items := []domain.ExerciseHistoryItem{}
	for _, row := range rows {
		if len(items) == 0 || items[len(items)-1].WorkoutID != row.WorkoutID {
			items = append(items, domain.ExerciseHistoryItem{
				WorkoutID:        row.WorkoutID,
				WorkoutDate:      row.WorkoutDate,
				WorkoutCreatedAt: row.WorkoutCreatedAt,
				Sets:             []domain.HistorySet{},
			})
		}
		if row.SetOrder == nil {
			continue
		}
		last := &items[len(items)-1]
		last.Sets = append(last.Sets, domain.HistorySet{
			SetOrder: *row.SetOrder,
			Weight:   row.Weight,
			Reps:     row.Reps,
		})
	}
	return items, nil
}

func (r *PostgresWorkoutRepository) ListDates(ctx context.Context, userID, from, to string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		SELECT DISTINCT workout_date::text
		FROM workouts
		WHERE user_id = $1 AND workout_date BETWEEN $2 AND $3
		ORDER BY 1`

	dates := []string{}
	if err := r.db.SelectContext(ctx, &dates, query, userID, from, to); err != nil {
		return nil, fmt.Errorf("repository: list workout dates failed: %w", err)
	}
	return dates, nil
}

func (r *PostgresWorkoutRepository) SetStats(ctx context.Context, userID, from, to string) ([]domain.SetStat, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		SELECT w.workout_date::text AS workout_date, we.exercise_id, COUNT(s.id) AS sets
		FROM workouts w
		JOIN workout_exercises we ON we.workout_id = w.id
		JOIN exercise_sets s ON s.workout_exercise_id = we.id
		WHERE w.user_id = $1 AND w.workout_date BETWEEN $2 AND $3
		GROUP BY w.workout_date, we.exercise_id
		ORDER BY 1, 2`

	stats := []domain.SetStat{}
	if err := r.db.SelectContext(ctx, &stats, query, userID, from, to); err != nil {
		return nil, fmt.Errorf("repository: set stats failed: %w", err)
	}
	return stats, nil
}
