package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/comitanigiacomo/kanso-lift/internal/adapters/handler/http/middleware"
	"github.com/comitanigiacomo/kanso-lift/internal/core/domain"
	"github.com/comitanigiacomo/kanso-lift/internal/core/progress"
)

var (
	notFoundErrors = []error{
		domain.ErrExerciseNotFound,
		domain.ErrWorkoutNotFound,
		domain.ErrWorkoutExerciseNotFound,
		domain.ErrSetNotFound,
		domain.ErrTemplateNotFound,
		domain.ErrUserNotFound,
		domain.ErrGymURLNotSet,
	}

	conflictErrors = []error{
		domain.ErrExerciseNameConflict,
		domain.ErrEmailAlreadyExists,
	}

	badRequestErrors = []error{
		domain.ErrExerciseNameEmpty,
		domain.ErrExerciseNameTooLong,
		domain.ErrExerciseInvalidUser,
		domain.ErrInvalidTargetPart,
		domain.ErrInvalidDate,
		domain.ErrInvalidMonth,
		domain.ErrMemoTooLong,
		domain.ErrInvalidWeight,
		domain.ErrInvalidReps,
		domain.ErrTemplateNameTooLong,
		domain.ErrInvalidGymURL,
		domain.ErrInvalidEmail,
		domain.ErrPasswordTooShort,
		progress.ErrUnknownRange,
		progress.ErrUnknownBucketWidth,
		progress.ErrUnknownMetric,
	}
)

func isAny(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func handleError(c *gin.Context, err error) {
	var validationErr *progress.ValidationError

	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		c.JSON(http.StatusForbidden, gin.H{"error": "unauthorized access"})

	case errors.Is(err, domain.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})

	case isAny(err, notFoundErrors):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})

	case isAny(err, conflictErrors):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})

	case errors.As(err, &validationErr), isAny(err, badRequestErrors):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

	default:
		_ = c.Error(err)
		log.WithFields(log.Fields{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
		}).WithError(err).Error("request failed")

		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
}

// requireUser aborts with 500 when the auth middleware did not run.
func requireUser(c *gin.Context) (string, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return "", false
	}
	return userID, true
}
