package handlers

import (
	"errors"
	"net/http"

	"github.com/AbbosRakhmonov/espreading/internal/models"
	"github.com/AbbosRakhmonov/espreading/internal/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// StudentContextKey is where the loader middleware stores the authenticated
// student.
const StudentContextKey = "student"

// currentStudent returns the authenticated student from the request context.
func currentStudent(c *gin.Context) (*models.Student, bool) {
	value, exists := c.Get(StudentContextKey)
	if !exists {
		return nil, false
	}
	student, ok := value.(*models.Student)
	return student, ok
}

// respondError maps the error taxonomy onto HTTP statuses. Validation and
// unknown-exercise errors are client faults; missing records are 404; all
// remaining errors are storage failures surfaced as 500.
func respondError(c *gin.Context, log *zap.Logger, err error) {
	var ve *utils.ValidationError
	if errors.As(err, &ve) {
		c.JSON(http.StatusBadRequest, gin.H{"error": ve.Message, "field": ve.Field})
		return
	}
	if utils.IsUnknownExercise(err) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if utils.IsNotFound(err) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	log.Error("Request failed with storage error", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}
