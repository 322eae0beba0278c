package repository

import (
	"context"
	"sort"
	"strings"

	"github.com/comitanigiacomo/kanso-lift/internal/core/domain"
)

var (
	_ domain.UserRepository     = (*LocalUserRepository)(nil)
	_ domain.TemplateRepository = (*LocalTemplateRepository)(nil)
	_ domain.SettingsRepository = (*LocalSettingsRepository)(nil)
)

type LocalUserRepository struct {
	store *LocalStore
}

func (r *LocalUserRepository) Create(ctx context.Context, user *domain.User) error {
	return r.store.update(func(t *localTables) error {
		for _, u := range t.Users {
			if u.ID == user.ID || strings.EqualFold(u.Email, user.Email) {
				return domain.ErrEmailAlreadyExists
			}
		}
		t.Users = append(t.Users, &localUser{
			ID:           user.ID,
			Email:        user.Email,
			PasswordHash: user.PasswordHash,
			CreatedAt:    user.CreatedAt,
			UpdatedAt:    user.UpdatedAt,
		})
		return nil
	})
}

func (r *LocalUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.find(func(u *localUser) bool { return strings.EqualFold(u.Email, email) })
}

func (r *LocalUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.find(func(u *localUser) bool { return u.ID == id })
}

func (r *LocalUserRepository) find(match func(*localUser) bool) (*domain.User, error) {
	var found *domain.User
	err := r.store.view(func(t *localTables) error {
		for _, u := range t.Users {
			if match(u) {
				found = &domain.User{
					ID:           u.ID,
					Email:        u.Email,
					PasswordHash: u.PasswordHash,
					CreatedAt:    u.CreatedAt,
					UpdatedAt:    u.UpdatedAt,
				}
				return nil
			}
		}
		return domain.ErrUserNotFound
	})
	return found, err
}

type LocalTemplateRepository struct {
	store *LocalStore
}

func (r *LocalTemplateRepository) Create(ctx context.Context, tpl *domain.WorkoutTemplate) error {
	return r.store.update(func(t *localTables) error {
		row := *tpl
		t.Templates = append(t.Templates, &row)
		return nil
	})
}

func (r *LocalTemplateRepository) GetByID(ctx context.Context, id string) (*domain.WorkoutTemplate, error) {
	var found *domain.WorkoutTemplate
	err := r.store.view(func(t *localTables) error {
		for _, tpl := range t.Templates {
			if tpl.ID == id {
				found = tpl
				return nil
			}
		}
		return domain.ErrTemplateNotFound
	})
	return found, err
}

func (r *LocalTemplateRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.WorkoutTemplate, error) {
	out := []*domain.WorkoutTemplate{}
	err := r.store.view(func(t *localTables) error {
		for _, tpl := range t.Templates {
			if tpl.UserID == userID {
				out = append(out, tpl)
			}
		}
		return nil
	})
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out, err
}

func (r *LocalTemplateRepository) Update(ctx context.Context, tpl *domain.WorkoutTemplate) error {
	return r.store.update(func(t *localTables) error {
		for i, existing := range t.Templates {
			if existing.ID == tpl.ID && existing.UserID == tpl.UserID {
				row := *tpl
				t.Templates[i] = &row
				return nil
			}
		}
		return domain.ErrTemplateNotFound
	})
}

func (r *LocalTemplateRepository) Delete(ctx context.Context, id string, userID string) error {
	return r.store.update(func(t *localTables) error {
		for i, existing := range t.Templates {
			if existing.ID == id && existing.UserID == userID {
				t.Templates = append(t.Templates[:i], t.Templates[i+1:]...)
				return nil
			}
		}
		return domain.ErrTemplateNotFound
	})
}

type LocalSettingsRepository struct {
	store *LocalStore
}

func (r *LocalSettingsRepository) Get(ctx context.Context, userID string) (*domain.UserSettings, error) {
	settings := &domain.UserSettings{UserID: userID}
	err := r.store.view(func(t *localTables) error {
		for _, s := range t.UserSettings {
			if s.UserID == userID {
				settings = s
				return nil
			}
		}
		return nil
	})
	return settings, err
}

func (r *LocalSettingsRepository) Upsert(ctx context.Context, settings *domain.UserSettings) error {
	return r.store.update(func(t *localTables) error {
		row := *settings
		for i, s := range t.UserSettings {
			if s.UserID == settings.UserID {
				t.UserSettings[i] = &row
				return nil
			}
		}
		t.UserSettings = append(t.UserSettings, &row)
		return nil
	})
}
