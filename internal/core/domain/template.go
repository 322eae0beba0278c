package domain

import (
	"errors"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

var (
	ErrTemplateNotFound    = errors.New("template not found")
	ErrTemplateNameTooLong = errors.New("template name is too long (max 100 chars)")
	ErrInvalidGymURL       = errors.New("gym login url must be an absolute http(s) url")
	ErrGymURLNotSet        = errors.New("gym login url is not configured")
)

const DefaultTemplateName = "Template"

// WorkoutTemplate is a reusable, ordered list of exercises.
type WorkoutTemplate struct {
	ID          string    `json:"id" db:"id"`
	UserID      string    `json:"user_id" db:"user_id"`
	Name        string    `json:"name" db:"name"`
	ExerciseIDs []string  `json:"exercise_ids" db:"exercise_ids"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

func NewWorkoutTemplate(userID, name string, exerciseIDs []string) (*WorkoutTemplate, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrUnauthorized
	}
	t := &WorkoutTemplate{
		ID:     uuid.NewString(),
		UserID: userID,
	}
	if err := t.Update(name, exerciseIDs); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *WorkoutTemplate) Update(name string, exerciseIDs []string) error {
	clean := strings.TrimSpace(name)
	if clean == "" {
		clean = DefaultTemplateName
	}
	if utf8.RuneCountInString(clean) > MaxExerciseNameLen {
		return ErrTemplateNameTooLong
	}
	t.Name = clean
	t.ExerciseIDs = UniqueIDs(exerciseIDs)
	t.UpdatedAt = time.Now().UTC()
	return nil
}

// UniqueIDs trims ids and drops blanks and repeats, keeping first-seen order.
func UniqueIDs(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

type UserSettings struct {
	UserID      string    `json:"user_id" db:"user_id"`
	GymLoginURL *string   `json:"gym_login_url" db:"gym_login_url"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// NormalizeGymURL returns nil for a blank url.
func NormalizeGymURL(raw *string) (*string, error) {
	if raw == nil {
		return nil, nil
	}
	trimmed := strings.TrimSpace(*raw)
	if trimmed == "" {
		return nil, nil
	}
	u, err := url.Parse(trimmed)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, ErrInvalidGymURL
	}
	return &trimmed, nil
}
