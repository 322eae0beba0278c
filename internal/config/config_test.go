package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("Success: local mode needs no secrets", func(t *testing.T) {
		t.Setenv("GYMAPP_LOCAL_ONLY", "1")
		t.Setenv("JWT_SECRET", "")
		t.Setenv("PROGRESS_RECENT_DAYS", "")

		cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
		require.NoError(t, err)

		assert.True(t, cfg.LocalOnly)
		assert.Equal(t, "8080", cfg.Port)
		assert.Equal(t, 84, cfg.ProgressRecentDays)
		assert.Equal(t, 183, cfg.ProgressHalfYearDays)
		assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	})

	t.Run("Success: values come from env file", func(t *testing.T) {
		t.Setenv("GYMAPP_LOCAL_ONLY", "")
		t.Setenv("JWT_SECRET", "")
		t.Setenv("DB_USER", "")
		t.Setenv("DB_NAME", "")
		t.Setenv("TOKEN_TTL", "")
		t.Setenv("DB_PORT", "")
		t.Setenv("DB_PASSWORD", "")
		t.Setenv("DB_HOST", "")

		file := filepath.Join(t.TempDir(), ".env")
		content := "JWT_SECRET=s3cret\nDB_USER=lifter\nDB_NAME=gym\nTOKEN_TTL=2h\nDB_PORT=6543\n"
		require.NoError(t, os.WriteFile(file, []byte(content), 0o600))
		// godotenv never overrides variables that already exist
		for _, k := range []string{"JWT_SECRET", "DB_USER", "DB_NAME", "TOKEN_TTL", "DB_PORT"} {
			require.NoError(t, os.Unsetenv(k))
		}

		cfg, err := Load(file)
		require.NoError(t, err)
		assert.Equal(t, "s3cret", cfg.JWTSecret)
		assert.Equal(t, 2*time.Hour, cfg.TokenTTL)
		assert.Equal(t, "postgres://lifter:@localhost:6543/gym?sslmode=disable", cfg.PostgresDSN())
	})

	t.Run("Fail: hosted mode without secret", func(t *testing.T) {
		t.Setenv("GYMAPP_LOCAL_ONLY", "0")
		t.Setenv("JWT_SECRET", "")

		_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
		assert.Error(t, err)
	})

	t.Run("Fail: malformed integer", func(t *testing.T) {
		t.Setenv("GYMAPP_LOCAL_ONLY", "1")
		t.Setenv("PROGRESS_RECENT_DAYS", "twelve")

		_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
		assert.ErrorContains(t, err, "PROGRESS_RECENT_DAYS")
	})
}
