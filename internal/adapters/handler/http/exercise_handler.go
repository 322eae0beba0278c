package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/kanso-lift/internal/core/progress"
	"github.com/comitanigiacomo/kanso-lift/internal/core/services"
)

type ExerciseHandler struct {
	svc      *services.ExerciseService
	progress *services.ProgressService
}

func NewExerciseHandler(svc *services.ExerciseService, progressSvc *services.ProgressService) *ExerciseHandler {
	return &ExerciseHandler{
		svc:      svc,
		progress: progressSvc,
	}
}

type exerciseRequest struct {
	Name        string   `json:"name" binding:"required"`
	TargetParts []string `json:"target_parts"`
}

type bulkExercisesRequest struct {
	Exercises []exerciseRequest `json:"exercises" binding:"required"`
}

func (h *ExerciseHandler) RegisterRoutes(router *gin.RouterGroup) {
	exercises := router.Group("/exercises")
	{
		exercises.GET("", h.List)
		exercises.POST("", h.Create)
		exercises.POST("/bulk", h.CreateBulk)
		exercises.POST("/seed", h.Seed)
		exercises.GET("/:id", h.Get)
		exercises.PUT("/:id", h.Update)
		exercises.DELETE("/:id", h.Delete)
		exercises.GET("/:id/history", h.History)
		exercises.GET("/:id/progress", h.Progress)
	}
}

func (h *ExerciseHandler) List(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	list, err := h.svc.List(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *ExerciseHandler) Create(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req exerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	exercise, err := h.svc.Create(c.Request.Context(), services.CreateExerciseInput{
		UserID:      userID,
		Name:        req.Name,
		TargetParts: req.TargetParts,
	})
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, exercise)
}

// CreateBulk inserts what it can and reports how many rows landed.
func (h *ExerciseHandler) CreateBulk(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req bulkExercisesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	items := make([]services.CreateExerciseInput, 0, len(req.Exercises))
	for _, e := range req.Exercises {
		items = append(items, services.CreateExerciseInput{
			UserID:      userID,
			Name:        e.Name,
			TargetParts: e.TargetParts,
		})
	}

	result, err := h.svc.CreateBestEffort(c.Request.Context(), userID, items)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *ExerciseHandler) Seed(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	result, err := h.svc.SeedPresets(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *ExerciseHandler) Get(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	exercise, err := h.svc.Get(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, exercise)
}

func (h *ExerciseHandler) Update(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req exerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	exercise, err := h.svc.Update(c.Request.Context(), services.UpdateExerciseInput{
		ID:          c.Param("id"),
		UserID:      userID,
		Name:        req.Name,
		TargetParts: req.TargetParts,
	})
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, exercise)
}

func (h *ExerciseHandler) Delete(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), c.Param("id"), userID); err != nil {
		handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// History godoc
// @Summary  Recent workouts containing the exercise, newest first
// @Tags     exercises
// @Produce  json
// @Param    id     path      string  true   "exercise id"
// @Param    limit  query     int     false  "max workouts (default 30, max 200)"
// @Success  200    {array}   domain.ExerciseHistoryItem
// @Router   /exercises/{id}/history [get]
func (h *ExerciseHandler) History(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = n
	}

	items, err := h.progress.History(c.Request.Context(), services.HistoryInput{
		UserID:     userID,
		ExerciseID: c.Param("id"),
		Limit:      limit,
	})
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// Progress godoc
// @Summary  Bucketed progress series and summary for one exercise
// @Tags     exercises
// @Produce  json
// @Param    id      path      string  true   "exercise id"
// @Param    range   query     string  false  "12w, 6m or all"
// @Param    bucket  query     int     false  "bucket width in days, 14 or 28"
// @Param    metric  query     string  false  "auto, weight or reps"
// @Success  200     {object}  progress.Result
// @Failure  400     {object}  map[string]string
// @Router   /exercises/{id}/progress [get]
func (h *ExerciseHandler) Progress(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	rng, err := progress.ParseRange(c.Query("range"))
	if err != nil {
		handleError(c, err)
		return
	}
	width, err := progress.ParseBucketWidth(c.Query("bucket"))
	if err != nil {
		handleError(c, err)
		return
	}
	metric, err := progress.ParseMetric(c.Query("metric"))
	if err != nil {
		handleError(c, err)
		return
	}

	result, err := h.progress.Progress(c.Request.Context(), services.ProgressInput{
		UserID:      userID,
		ExerciseID:  c.Param("id"),
		Range:       rng,
		BucketWidth: width,
		Metric:      metric,
	})
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
