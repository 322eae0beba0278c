package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/kanso-lift/internal/core/services"
)

// PlannerHandler serves the calendar, workout templates, and user settings.
type PlannerHandler struct {
	calendar  *services.CalendarService
	templates *services.TemplateService
	settings  *services.SettingsService
}

func NewPlannerHandler(calendar *services.CalendarService, templates *services.TemplateService, settings *services.SettingsService) *PlannerHandler {
	return &PlannerHandler{
		calendar:  calendar,
		templates: templates,
		settings:  settings,
	}
}

type templateRequest struct {
	Name        string   `json:"name"`
	ExerciseIDs []string `json:"exercise_ids"`
}

type applyTemplateRequest struct {
	WorkoutID string `json:"workout_id" binding:"required"`
}

type settingsRequest struct {
	GymLoginURL *string `json:"gym_login_url"`
}

func (h *PlannerHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/calendar", h.Calendar)

	templates := router.Group("/templates")
	{
		templates.GET("", h.ListTemplates)
		templates.POST("", h.CreateTemplate)
		templates.PUT("/:id", h.UpdateTemplate)
		templates.DELETE("/:id", h.DeleteTemplate)
		templates.POST("/:id/apply", h.ApplyTemplate)
	}

	router.GET("/settings", h.GetSettings)
	router.PUT("/settings", h.UpdateSettings)
	router.GET("/gym", h.Gym)
}

// Calendar defaults to the current UTC month.
func (h *PlannerHandler) Calendar(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	month := c.Query("month")
	if month == "" {
		month = time.Now().UTC().Format("2006-01")
	}

	cal, err := h.calendar.Month(c.Request.Context(), userID, month)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, cal)
}

func (h *PlannerHandler) ListTemplates(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	list, err := h.templates.List(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *PlannerHandler) CreateTemplate(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req templateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	tpl, err := h.templates.Create(c.Request.Context(), services.SaveTemplateInput{
		UserID:      userID,
		Name:        req.Name,
		ExerciseIDs: req.ExerciseIDs,
	})
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, tpl)
}

func (h *PlannerHandler) UpdateTemplate(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req templateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	tpl, err := h.templates.Update(c.Request.Context(), services.SaveTemplateInput{
		ID:          c.Param("id"),
		UserID:      userID,
		Name:        req.Name,
		ExerciseIDs: req.ExerciseIDs,
	})
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, tpl)
}

func (h *PlannerHandler) DeleteTemplate(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	if err := h.templates.Delete(c.Request.Context(), c.Param("id"), userID); err != nil {
		handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *PlannerHandler) ApplyTemplate(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req applyTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	result, err := h.templates.Apply(c.Request.Context(), c.Param("id"), req.WorkoutID, userID)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *PlannerHandler) GetSettings(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	settings, err := h.settings.Get(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

func (h *PlannerHandler) UpdateSettings(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req settingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	settings, err := h.settings.Update(c.Request.Context(), services.UpdateSettingsInput{
		UserID:      userID,
		GymLoginURL: req.GymLoginURL,
	})
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

func (h *PlannerHandler) Gym(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	url, err := h.settings.GymLoginURL(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}
	c.Redirect(http.StatusFound, url)
}
