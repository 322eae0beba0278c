package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/comitanigiacomo/kanso-lift/internal/core/domain"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var _ domain.ExerciseRepository = (*PostgresExerciseRepository)(nil)

type PostgresExerciseRepository struct {
	db *sqlx.DB
}

func NewPostgresExerciseRepository(db *sqlx.DB) *PostgresExerciseRepository {
	return &PostgresExerciseRepository{db: db}
}

type exerciseRow struct {
	ID          string         `db:"id"`
	UserID      string         `db:"user_id"`
	Name        string         `db:"name"`
	TargetParts pq.StringArray `db:"target_parts"`
	CreatedAt   time.Time      `db:"created_at"`
}

func (row exerciseRow) toDomain() *domain.Exercise {
	parts := []string(row.TargetParts)
	if parts == nil {
		parts = []string{}
	}
	return &domain.Exercise{
		ID:          row.ID,
		UserID:      row.UserID,
		Name:        row.Name,
		TargetParts: parts,
		CreatedAt:   row.CreatedAt,
	}
}

const exerciseColumns = `id, user_id, name, target_parts, created_at`

func (r *PostgresExerciseRepository) Create(ctx context.Context, e *domain.Exercise) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		INSERT INTO exercises (id, user_id, name, target_parts, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.ExecContext(ctx, query, e.ID, e.UserID, e.Name, pq.Array(e.TargetParts), e.CreatedAt)
	if err != nil {
		if pgCode(err) == pgUniqueViolation {
			return domain.ErrExerciseNameConflict
		}
		return fmt.Errorf("repository: insert exercise failed: %w", err)
	}
	return nil
}

func (r *PostgresExerciseRepository) CreateMany(ctx context.Context, exercises []*domain.Exercise) (int, error) {
	if len(exercises) == 0 {
		return 0, nil
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("repository: begin bulk insert: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO exercises (id, user_id, name, target_parts, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT DO NOTHING`

	inserted := 0
	for _, e := range exercises {
		res, err := tx.ExecContext(ctx, query, e.ID, e.UserID, e.Name, pq.Array(e.TargetParts), e.CreatedAt)
		if err != nil {
			return 0, fmt.Errorf("repository: bulk insert exercise %q: %w", e.Name, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, err
		}
		inserted += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("repository: commit bulk insert: %w", err)
	}
	return inserted, nil
}

func (r *PostgresExerciseRepository) GetByID(ctx context.Context, id string) (*domain.Exercise, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var row exerciseRow
	err := r.db.GetContext(ctx, &row, `SELECT `+exerciseColumns+` FROM exercises WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || pgCode(err) == pgInvalidText {
			return nil, domain.ErrExerciseNotFound
		}
		return nil, fmt.Errorf("repository: get exercise failed: %w", err)
	}
	return row.toDomain(), nil
}

func (r *PostgresExerciseRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Exercise, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `SELECT ` + exerciseColumns + ` FROM exercises WHERE user_id = $1 ORDER BY created_at DESC, name ASC`

	var rows []exerciseRow
	if err := r.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, fmt.Errorf("repository: list exercises failed: %w", err)
	}

	out := make([]*domain.Exercise, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *PostgresExerciseRepository) Update(ctx context.Context, e *domain.Exercise) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `UPDATE exercises SET name = $1, target_parts = $2 WHERE id = $3 AND user_id = $4`

	res, err := r.db.ExecContext(ctx, query, e.Name, pq.Array(e.TargetParts), e.ID, e.UserID)
	if err != nil {
		switch pgCode(err) {
		case pgUniqueViolation:
			return domain.ErrExerciseNameConflict
		case pgInvalidText:
			return domain.ErrExerciseNotFound
		}
		return fmt.Errorf("repository: update exercise failed: %w", err)
	}
	return expectOne(res, domain.ErrExerciseNotFound)
}

func (r *PostgresExerciseRepository) Delete(ctx context.Context, id string, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `DELETE FROM exercises WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		if pgCode(err) == pgInvalidText {
			return domain.ErrExerciseNotFound
		}
		return fmt.Errorf("repository: delete exercise failed: %w", err)
	}
	return expectOne(res, domain.ErrExerciseNotFound)
}

// expectOne maps a statement that touched no row to notFound.
func expectOne(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}
