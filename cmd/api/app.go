package main

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/comitanigiacomo/kanso-lift/internal/adapters/cache"
	adapterHTTP "github.com/comitanigiacomo/kanso-lift/internal/adapters/handler/http"
	"github.com/comitanigiacomo/kanso-lift/internal/adapters/repository"
	"github.com/comitanigiacomo/kanso-lift/internal/config"
	"github.com/comitanigiacomo/kanso-lift/internal/core/domain"
	"github.com/comitanigiacomo/kanso-lift/internal/core/progress"
	"github.com/comitanigiacomo/kanso-lift/internal/core/services"
	"github.com/comitanigiacomo/kanso-lift/internal/core/workers"
	"github.com/comitanigiacomo/kanso-lift/internal/metrics"
)

type repositories struct {
	users     domain.UserRepository
	exercises domain.ExerciseRepository
	workouts  domain.WorkoutRepository
	templates domain.TemplateRepository
	settings  domain.SettingsRepository
}

// app holds everything main needs to serve and shut down.
type app struct {
	router *gin.Engine
	worker *workers.SeedWorker
	db     *sqlx.DB
	redis  *redis.Client
}

func (a *app) Close() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			log.WithError(err).Warn("failed to close redis client")
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			log.WithError(err).Warn("failed to close database")
		}
	}
}

// buildApp wires storage, caches, services and the router. The seed worker
// runs until ctx is cancelled.
func buildApp(ctx context.Context, cfg *config.Config) (*app, error) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.NewManager("kanso", "lift", reg)

	a := &app{}
	var repos repositories

	if cfg.LocalOnly {
		store := repository.NewLocalStore(cfg.LocalDBPath)
		log.WithField("path", store.Path()).Info("running in local-only mode")
		repos = repositories{
			users:     store.Users(),
			exercises: store.Exercises(),
			workouts:  store.Workouts(),
			templates: store.Templates(),
			settings:  store.Settings(),
		}
	} else {
		log.Info("connecting to database...")
		db, err := sqlx.Connect("pgx", cfg.PostgresDSN())
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(25)
		db.SetConnMaxLifetime(5 * time.Minute)
		a.db = db

		if err := repository.Migrate(ctx, db); err != nil {
			a.Close()
			return nil, err
		}
		log.Info("database connected and migrated")

		repos = repositories{
			users:     repository.NewPostgresUserRepository(db),
			exercises: repository.NewPostgresExerciseRepository(db),
			workouts:  repository.NewPostgresWorkoutRepository(db),
			templates: repository.NewPostgresTemplateRepository(db),
			settings:  repository.NewPostgresSettingsRepository(db),
		}

		rdb, err := cache.NewRedisClient(ctx, cfg.RedisAddr(), cfg.RedisPassword, 0)
		if err != nil {
			log.WithError(err).Warn("redis unavailable, continuing with in-process caches")
		} else {
			a.redis = rdb
		}
	}

	var progressCache progress.Cache
	if a.redis != nil {
		repos.exercises = repository.NewCachedExerciseRepository(repos.exercises, a.redis)
		progressCache = cache.NewRedisProgressCache(a.redis, cfg.ProgressCacheTTL)
	} else {
		mem, err := progress.NewMemoryCache(cfg.ProgressCacheSize)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to create progress cache: %w", err)
		}
		progressCache = mem
	}

	exerciseService := services.NewExerciseService(repos.exercises, progressCache)
	workoutService := services.NewWorkoutService(repos.workouts, repos.exercises, progressCache, m)
	progressService := services.NewProgressService(repos.workouts, repos.exercises, progressCache, progress.RangeConfig{
		RecentDays:   cfg.ProgressRecentDays,
		HalfYearDays: cfg.ProgressHalfYearDays,
	}, m)
	templateService := services.NewTemplateService(repos.templates, repos.exercises, workoutService)
	settingsService := services.NewSettingsService(repos.settings)
	calendarService := services.NewCalendarService(repos.workouts, repos.exercises)

	a.worker = workers.NewSeedWorker(exerciseService, m, 100)
	a.worker.Start(ctx)

	authService := services.NewAuthService(repos.users, a.worker)
	tokenService := services.NewTokenService(cfg.JWTSecret, cfg.JWTIssuer, cfg.TokenTTL, repos.users)

	deps := adapterHTTP.RouterDependencies{
		AuthHandler:     adapterHTTP.NewAuthHandler(authService, tokenService),
		ExerciseHandler: adapterHTTP.NewExerciseHandler(exerciseService, progressService),
		WorkoutHandler:  adapterHTTP.NewWorkoutHandler(workoutService),
		PlannerHandler:  adapterHTTP.NewPlannerHandler(calendarService, templateService, settingsService),
		TokenService:    tokenService,
		DB:              a.db,
		Redis:           a.redis,
		Metrics:         m,
		Gatherer:        reg,
		RateLimit:       cfg.RateLimit,
		StartTime:       time.Now(),
	}
	if cfg.LocalOnly {
		deps.LocalUserID = domain.LocalUserID
		a.worker.Enqueue(domain.LocalUserID)
	}

	a.router = adapterHTTP.NewRouter(deps)
	return a, nil
}
