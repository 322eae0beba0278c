package domain

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

var (
	ErrExerciseNameEmpty    = errors.New("exercise name cannot be empty")
	ErrExerciseNameTooLong  = errors.New("exercise name is too long (max 100 chars)")
	ErrExerciseInvalidUser  = errors.New("invalid user id")
	ErrInvalidTargetPart    = errors.New("invalid target part (must be chest, back, shoulders, arms, legs or abs)")
	ErrExerciseNotFound     = errors.New("exercise not found")
	ErrExerciseNameConflict = errors.New("exercise with this name already exists")
)

const (
	PartChest     = "chest"
	PartBack      = "back"
	PartShoulders = "shoulders"
	PartArms      = "arms"
	PartLegs      = "legs"
	PartAbs       = "abs"

	MaxExerciseNameLen = 100
)

// AllTargetParts is ordered the way calendar summaries report them.
var AllTargetParts = []string{PartChest, PartBack, PartShoulders, PartArms, PartLegs, PartAbs}

type Exercise struct {
	ID          string    `json:"id" db:"id"`
	UserID      string    `json:"user_id" db:"user_id"`
	Name        string    `json:"name" db:"name"`
	TargetParts []string  `json:"target_parts" db:"target_parts"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

func NewExercise(userID, name string, parts []string) (*Exercise, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrExerciseInvalidUser
	}

	cleanName, cleanParts, err := validateExercise(name, parts)
	if err != nil {
		return nil, err
	}

	return &Exercise{
		ID:          uuid.NewString(),
		UserID:      userID,
		Name:        cleanName,
		TargetParts: cleanParts,
		CreatedAt:   time.Now().UTC(),
	}, nil
}

func (e *Exercise) Update(name string, parts []string) error {
	cleanName, cleanParts, err := validateExercise(name, parts)
	if err != nil {
		return err
	}
	e.Name = cleanName
	e.TargetParts = cleanParts
	return nil
}

// NameKey is the case-insensitive identity used for de-duplication.
func (e *Exercise) NameKey() string {
	return NameKey(e.Name)
}

func NameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func validateExercise(name string, parts []string) (string, []string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", nil, ErrExerciseNameEmpty
	}
	if utf8.RuneCountInString(trimmed) > MaxExerciseNameLen {
		return "", nil, ErrExerciseNameTooLong
	}

	cleanParts, err := NormalizeTargetParts(parts)
	if err != nil {
		return "", nil, err
	}
	return trimmed, cleanParts, nil
}

// NormalizeTargetParts dedups, lower-cases and orders parts as AllTargetParts.
func NormalizeTargetParts(parts []string) ([]string, error) {
	seen := make(map[string]bool, len(parts))
	for _, p := range parts {
		key := strings.ToLower(strings.TrimSpace(p))
		if key == "" {
			continue
		}
		if !isTargetPart(key) {
			return nil, ErrInvalidTargetPart
		}
		seen[key] = true
	}

	out := make([]string, 0, len(seen))
	for _, p := range AllTargetParts {
		if seen[p] {
			out = append(out, p)
		}
	}
	return out, nil
}

func isTargetPart(p string) bool {
	for _, known := range AllTargetParts {
		if p == known {
			return true
		}
	}
	return false
}

var partKeywords = map[string][]string{
	PartChest:     {"bench", "chest", "fly", "push", "press"},
	PartBack:      {"deadlift", "row", "lat", "pull", "chin"},
	PartShoulders: {"shoulder", "lateral", "rear", "upright", "overhead"},
	PartArms:      {"curl", "arm", "tricep", "dip", "bicep"},
	PartLegs:      {"squat", "leg", "bulgarian", "calf", "lunge", "glute", "hip"},
	PartAbs:       {"abdominal", "crunch", "plank", "ab ", "core", "torso"},
}

// InferTargetParts guesses trained parts from an exercise name.
// It returns an empty slice when nothing matches, leaving the choice to the user.
func InferTargetParts(name string) []string {
	n := strings.ToLower(name) + " "

	out := []string{}
	for _, part := range AllTargetParts {
		for _, kw := range partKeywords[part] {
			if strings.Contains(n, kw) {
				out = append(out, part)
				break
			}
		}
	}
	return out
}

type ExercisePreset struct {
	Name        string
	TargetParts []string
}

// PresetExercises is the gym machine catalogue seeded for new users.
var PresetExercises = []ExercisePreset{
	{Name: "Treadmill"},
	{Name: "Cross Trainer"},
	{Name: "Recumbent Bike"},

	{Name: "Chest Press Machine", TargetParts: []string{PartChest}},
	{Name: "Shoulder Press Machine", TargetParts: []string{PartShoulders}},
	{Name: "Abdominal Crunch Machine", TargetParts: []string{PartAbs}},
	{Name: "Assisted Dip/Chin", TargetParts: []string{PartChest, PartBack, PartArms}},
	{Name: "Lat Pulldown", TargetParts: []string{PartBack}},
	{Name: "Pec Fly/Rear Delt", TargetParts: []string{PartChest, PartShoulders}},
	{Name: "Seated Row", TargetParts: []string{PartBack}},
	{Name: "Hip Abduction", TargetParts: []string{PartLegs}},
	{Name: "Hip Adduction", TargetParts: []string{PartLegs}},
	{Name: "Leg Curl", TargetParts: []string{PartLegs}},
	{Name: "Leg Extension", TargetParts: []string{PartLegs}},
	{Name: "Seated Leg Press", TargetParts: []string{PartLegs}},
	{Name: "Torso Rotation", TargetParts: []string{PartAbs}},
	{Name: "Leg Raise", TargetParts: []string{PartAbs}},
	{Name: "45 Degree Back Extension", TargetParts: []string{PartBack}},
	{Name: "Decline/Abdominal Bench", TargetParts: []string{PartAbs}},

	{Name: "Plate Loaded Wide Chest", TargetParts: []string{PartChest}},
	{Name: "Plate Loaded Wide Pulldown", TargetParts: []string{PartBack}},
	{Name: "Plate Loaded Linear Leg Press", TargetParts: []string{PartLegs}},
	{Name: "Plate Loaded Glute Drive", TargetParts: []string{PartLegs}},

	{Name: "Dumbbells 1-50kg"},
	{Name: "Smith Machine"},
	{Name: "Power Rack"},
	{Name: "Dual Adjustable Pulley"},
	{Name: "Adjustable Bench"},
	{Name: "Flat Bench"},
	{Name: "Arm Curl Bench", TargetParts: []string{PartArms}},
	{Name: "Olympic Bench", TargetParts: []string{PartChest}},
}

// BulkResult reports a best-effort batch: how many distinct items were
// attempted and how many were actually written.
type BulkResult struct {
	Attempted int `json:"attempted"`
	Inserted  int `json:"inserted"`
}
