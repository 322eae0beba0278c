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

var _ domain.TemplateRepository = (*PostgresTemplateRepository)(nil)

type PostgresTemplateRepository struct {
	db *sqlx.DB
}

func NewPostgresTemplateRepository(db *sqlx.DB) *PostgresTemplateRepository {
	return &PostgresTemplateRepository{db: db}
}

type templateRow struct {
	ID          string         `db:"id"`
	UserID      string         `db:"user_id"`
	Name        string         `db:"name"`
	ExerciseIDs pq.StringArray `db:"exercise_ids"`
	UpdatedAt   time.Time      `db:"updated_at"`
}

func (row templateRow) toDomain() *domain.WorkoutTemplate {
	ids := []string(row.ExerciseIDs)
	if ids == nil {
		ids = []string{}
	}
	return &domain.WorkoutTemplate{
		ID:          row.ID,
		UserID:      row.UserID,
		Name:        row.Name,
		ExerciseIDs: ids,
		UpdatedAt:   row.UpdatedAt,
	}
}

const templateColumns = `id, user_id, name, exercise_ids, updated_at`

func (r *PostgresTemplateRepository) Create(ctx context.Context, t *domain.WorkoutTemplate) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		INSERT INTO workout_templates (id, user_id, name, exercise_ids, updated_at)
		VALUES ($1, $2, $3, $4, $5)`

	if _, err := r.db.ExecContext(ctx, query, t.ID, t.UserID, t.Name, pq.Array(t.ExerciseIDs), t.UpdatedAt); err != nil {
		return fmt.Errorf("repository: insert template failed: %w", err)
	}
	return nil
}

func (r *PostgresTemplateRepository) GetByID(ctx context.Context, id string) (*domain.WorkoutTemplate, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var row templateRow
	if err := r.db.GetContext(ctx, &row, `SELECT `+templateColumns+` FROM workout_templates WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) || pgCode(err) == pgInvalidText {
			return nil, domain.ErrTemplateNotFound
		}
		return nil, fmt.Errorf("repository: get template failed: %w", err)
	}
	return row.toDomain(), nil
}

func (r *PostgresTemplateRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.WorkoutTemplate, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `SELECT ` + templateColumns + ` FROM workout_templates WHERE user_id = $1 ORDER BY updated_at DESC`

	var rows []templateRow
	if err := r.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, fmt.Errorf("repository: list templates failed: %w", err)
	}

	out := make([]*domain.WorkoutTemplate, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *PostgresTemplateRepository) Update(ctx context.Context, t *domain.WorkoutTemplate) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		UPDATE workout_templates
		SET name = $1, exercise_ids = $2, updated_at = $3
		WHERE id = $4 AND user_id = $5`

	res, err := r.db.ExecContext(ctx, query, t.Name, pq.Array(t.ExerciseIDs), t.UpdatedAt, t.ID, t.UserID)
	if err != nil {
		if pgCode(err) == pgInvalidText {
			return domain.ErrTemplateNotFound
		}
		return fmt.Errorf("repository: update template failed: %w", err)
	}
	return expectOne(res, domain.ErrTemplateNotFound)
}

func (r *PostgresTemplateRepository) Delete(ctx context.Context, id string, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `DELETE FROM workout_templates WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		if pgCode(err) == pgInvalidText {
			return domain.ErrTemplateNotFound
		}
		return fmt.Errorf("repository: delete template failed: %w", err)
	}
	return expectOne(res, domain.ErrTemplateNotFound)
}
