package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/kanso-lift/internal/core/services"
)

type WorkoutHandler struct {
	svc *services.WorkoutService
}

func NewWorkoutHandler(svc *services.WorkoutService) *WorkoutHandler {
	return &WorkoutHandler{svc: svc}
}

type workoutRequest struct {
	Date string  `json:"workout_date" binding:"required"`
	Memo *string `json:"memo"`
}

type addExercisesRequest struct {
	ExerciseIDs []string `json:"exercise_ids" binding:"required"`
}

// Weight and reps stay nil when the client leaves a field blank.
type setRequest struct {
	Weight *float64 `json:"weight"`
	Reps   *int     `json:"reps"`
}

func (h *WorkoutHandler) RegisterRoutes(router *gin.RouterGroup) {
	workouts := router.Group("/workouts")
	{
		workouts.POST("", h.Create)
		workouts.GET("", h.ListByDate)
		workouts.GET("/:id", h.Get)
		workouts.PUT("/:id", h.Update)
		workouts.DELETE("/:id", h.Delete)
		workouts.POST("/:id/exercises", h.AddExercises)
		workouts.DELETE("/:id/exercises/:weId", h.RemoveExercise)
		workouts.POST("/:id/exercises/:weId/sets", h.AddSet)
		workouts.POST("/:id/exercises/:weId/copy-previous", h.CopyPrevious)
		workouts.GET("/:id/previous-top-sets", h.PreviousTopSets)
	}

	sets := router.Group("/sets")
	{
		sets.PUT("/:id", h.UpdateSet)
		sets.DELETE("/:id", h.DeleteSet)
	}
}

func (h *WorkoutHandler) Create(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req workoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	workout, err := h.svc.Create(c.Request.Context(), services.CreateWorkoutInput{
		UserID: userID,
		Date:   req.Date,
		Memo:   req.Memo,
	})
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, workout)
}

// ListByDate returns the day view: each workout on the date as a menu.
func (h *WorkoutHandler) ListByDate(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	date := c.Query("date")
	if date == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date query parameter is required"})
		return
	}

	list, err := h.svc.MenusByDate(c.Request.Context(), userID, date)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// Get returns the workout menu: the workout with its exercises and sets.
func (h *WorkoutHandler) Get(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	menu, err := h.svc.Menu(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, menu)
}

func (h *WorkoutHandler) Update(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req workoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	workout, err := h.svc.Update(c.Request.Context(), services.UpdateWorkoutInput{
		ID:     c.Param("id"),
		UserID: userID,
		Date:   req.Date,
		Memo:   req.Memo,
	})
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, workout)
}

func (h *WorkoutHandler) Delete(c *gin.Context) {
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

func (h *WorkoutHandler) AddExercises(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req addExercisesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	result, err := h.svc.AddExercises(c.Request.Context(), services.AddExercisesInput{
		WorkoutID:   c.Param("id"),
		UserID:      userID,
		ExerciseIDs: req.ExerciseIDs,
	})
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *WorkoutHandler) RemoveExercise(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	if err := h.svc.RemoveExercise(c.Request.Context(), c.Param("id"), c.Param("weId"), userID); err != nil {
		handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *WorkoutHandler) AddSet(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req setRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	set, err := h.svc.AddSet(c.Request.Context(), services.AddSetInput{
		WorkoutID:         c.Param("id"),
		WorkoutExerciseID: c.Param("weId"),
		UserID:            userID,
		Weight:            req.Weight,
		Reps:              req.Reps,
	})
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, set)
}

func (h *WorkoutHandler) CopyPrevious(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	sets, err := h.svc.CopyPreviousSets(c.Request.Context(), c.Param("id"), c.Param("weId"), userID)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sets)
}

func (h *WorkoutHandler) PreviousTopSets(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	tops, err := h.svc.PreviousTopSets(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, tops)
}

func (h *WorkoutHandler) UpdateSet(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req setRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	set, err := h.svc.UpdateSet(c.Request.Context(), services.UpdateSetInput{
		SetID:  c.Param("id"),
		UserID: userID,
		Weight: req.Weight,
		Reps:   req.Reps,
	})
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, set)
}

func (h *WorkoutHandler) DeleteSet(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	if err := h.svc.DeleteSet(c.Request.Context(), c.Param("id"), userID); err != nil {
		handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
