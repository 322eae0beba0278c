package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/comitanigiacomo/kanso-lift/internal/core/domain"
	"github.com/jmoiron/sqlx"
)

var _ domain.SettingsRepository = (*PostgresSettingsRepository)(nil)

type PostgresSettingsRepository struct {
	db *sqlx.DB
}

func NewPostgresSettingsRepository(db *sqlx.DB) *PostgresSettingsRepository {
	return &PostgresSettingsRepository{db: db}
}

func (r *PostgresSettingsRepository) Get(ctx context.Context, userID string) (*domain.UserSettings, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var settings domain.UserSettings
	query := `SELECT user_id, gym_login_url, updated_at FROM user_settings WHERE user_id = $1`
	if err := r.db.GetContext(ctx, &settings, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &domain.UserSettings{UserID: userID}, nil
		}
		return nil, fmt.Errorf("repository: get settings failed: %w", err)
	}
	return &settings, nil
}

func (r *PostgresSettingsRepository) Upsert(ctx context.Context, settings *domain.UserSettings) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		INSERT INTO user_settings (user_id, gym_login_url, updated_at)
		VALUES (:user_id, :gym_login_url, :updated_at)
		ON CONFLICT (user_id) DO UPDATE
		SET gym_login_url = EXCLUDED.gym_login_url, updated_at = EXCLUDED.updated_at`

	if _, err := r.db.NamedExecContext(ctx, query, settings); err != nil {
		return fmt.Errorf("repository: upsert settings failed: %w", err)
	}
	return nil
}
