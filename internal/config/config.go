package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	DBUser     string
	DBPassword string
	DBName     string
	DBHost     string
	DBPort     string

	RedisHost     string
	RedisPort     string
	RedisPassword string

	JWTSecret string
	JWTIssuer string
	TokenTTL  time.Duration

	// LocalOnly swaps postgres and redis for a single JSON file and
	// disables authentication.
	LocalOnly   bool
	LocalDBPath string

	LogLevel string
	LogFile  string
	LogJSON  bool

	RateLimit int

	ProgressRecentDays   int
	ProgressHalfYearDays int
	ProgressCacheTTL     time.Duration
	ProgressCacheSize    int
}

// Load reads the environment, after merging an optional .env file.
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: failed to load env file: %w", err)
	}

	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		DBUser:        os.Getenv("DB_USER"),
		DBPassword:    os.Getenv("DB_PASSWORD"),
		DBName:        os.Getenv("DB_NAME"),
		DBHost:        getEnv("DB_HOST", "localhost"),
		DBPort:        getEnv("DB_PORT", "5432"),
		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		JWTIssuer:     getEnv("JWT_ISSUER", "kanso-lift"),
		LocalOnly:     getBool("GYMAPP_LOCAL_ONLY", false),
		LocalDBPath:   getEnv("LOCAL_DB_PATH", ".localdb.json"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFile:       os.Getenv("LOG_FILE"),
		LogJSON:       getBool("LOG_JSON", false),
	}

	var err error
	if cfg.TokenTTL, err = getDuration("TOKEN_TTL", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.ProgressCacheTTL, err = getDuration("PROGRESS_CACHE_TTL", 10*time.Minute); err != nil {
		return nil, err
	}
	if cfg.RateLimit, err = getInt("RATE_LIMIT", 100); err != nil {
		return nil, err
	}
	if cfg.ProgressRecentDays, err = getInt("PROGRESS_RECENT_DAYS", 84); err != nil {
		return nil, err
	}
	if cfg.ProgressHalfYearDays, err = getInt("PROGRESS_HALF_YEAR_DAYS", 183); err != nil {
		return nil, err
	}
	if cfg.ProgressCacheSize, err = getInt("PROGRESS_CACHE_SIZE", 512); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.LocalOnly {
		return nil
	}
	if c.JWTSecret == "" {
		return errors.New("config: JWT_SECRET is required unless GYMAPP_LOCAL_ONLY is set")
	}
	if c.DBUser == "" || c.DBName == "" {
		return errors.New("config: DB_USER and DB_NAME are required unless GYMAPP_LOCAL_ONLY is set")
	}
	return nil
}

func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
}

func (c *Config) RedisAddr() string {
	return c.RedisHost + ":" + c.RedisPort
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	switch v {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("config: %s must be a positive integer, got %q", key, v)
	}
	return n, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return d, nil
}
