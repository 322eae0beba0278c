package http

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/comitanigiacomo/kanso-lift/docs"
	"github.com/comitanigiacomo/kanso-lift/internal/adapters/handler/http/middleware"
	"github.com/comitanigiacomo/kanso-lift/internal/core/services"
	"github.com/comitanigiacomo/kanso-lift/internal/metrics"
)

type RouterDependencies struct {
	AuthHandler     *AuthHandler
	ExerciseHandler *ExerciseHandler
	WorkoutHandler  *WorkoutHandler
	PlannerHandler  *PlannerHandler
	TokenService    *services.TokenService

	// LocalUserID, when set, replaces bearer authentication and hides the
	// auth routes.
	LocalUserID string

	DB        *sqlx.DB
	Redis     *redis.Client
	Metrics   *metrics.Manager
	Gatherer  prometheus.Gatherer
	RateLimit int
	StartTime time.Time
}

func NewRouter(deps RouterDependencies) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	if gin.Mode() == gin.DebugMode {
		router.Use(gin.Logger())
	} else {
		router.Use(middleware.RequestLogger())
	}

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Content-Length", "Accept-Encoding", "Authorization"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	router.Use(middleware.MetricsMiddleware(deps.Metrics))

	if deps.Redis != nil && deps.RateLimit > 0 {
		router.Use(middleware.RateLimiterMiddleware(deps.Redis, deps.RateLimit, 1*time.Minute))
	}

	router.GET("/health", healthHandler(deps))

	gatherer := deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	apiV1 := router.Group("/api/v1")

	protected := apiV1.Group("")
	if deps.LocalUserID != "" {
		protected.Use(middleware.LocalUserMiddleware(deps.LocalUserID))
	} else {
		deps.AuthHandler.RegisterRoutes(apiV1)
		protected.Use(middleware.AuthMiddleware(deps.TokenService))
	}
	{
		deps.ExerciseHandler.RegisterRoutes(protected)
		deps.WorkoutHandler.RegisterRoutes(protected)
		deps.PlannerHandler.RegisterRoutes(protected)
	}

	return router
}

// healthHandler reports 503 when a configured backend is down. Backends
// that are not configured show up as "disabled".
func healthHandler(deps RouterDependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		dbStatus := "disabled"
		if deps.DB != nil {
			dbStatus = "connected"
			if err := deps.DB.PingContext(ctx); err != nil {
				dbStatus = "unreachable"
			}
		}

		redisStatus := "disabled"
		if deps.Redis != nil {
			redisStatus = "connected"
			if err := deps.Redis.Ping(ctx).Err(); err != nil {
				redisStatus = "unreachable"
			}
		}

		statusCode := http.StatusOK
		status := "ok"
		if dbStatus == "unreachable" || redisStatus == "unreachable" {
			statusCode = http.StatusServiceUnavailable
			status = "degraded"
		}

		mode := "server"
		if deps.LocalUserID != "" {
			mode = "local"
		}

		c.JSON(statusCode, gin.H{
			"status":   status,
			"mode":     mode,
			"database": dbStatus,
			"redis":    redisStatus,
			"uptime":   time.Since(deps.StartTime).String(),
		})
	}
}
