package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/AbbosRakhmonov/espreading/internal/services"
	"github.com/AbbosRakhmonov/espreading/internal/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ReadingHandler struct {
	log         *zap.Logger
	completions *services.CompletionService
}

func NewReadingHandler(log *zap.Logger, completions *services.CompletionService) *ReadingHandler {
	return &ReadingHandler{log: log, completions: completions}
}

// GetCompleted reports whether the student has completed the exercise. A
// missing completion is not an error: the client gets completed=false.
func (h *ReadingHandler) GetCompleted(c *gin.Context) {
	student, ok := currentStudent(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}
	exerciseID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid exercise id"})
		return
	}

	completion, err := h.completions.Get(c.Request.Context(), student.ID, exerciseID)
	if utils.IsNotFound(err) {
		c.JSON(http.StatusOK, gin.H{"completed": false, "score": 0})
		return
	}
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"completed": true, "completion": completion})
}

// Submit grades and stores the student's attempt. Resubmissions return the
// original record with a 200; they are never a conflict.
func (h *ReadingHandler) Submit(c *gin.Context) {
	student, ok := currentStudent(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}
	exerciseID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid exercise id"})
		return
	}

	// Exercise bodies are heterogeneous, so bind loosely and flatten every
	// field to its string form for the grader.
	var body map[string]interface{}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	raw := make(map[string]string, len(body))
	for key, value := range body {
		switch v := value.(type) {
		case string:
			raw[key] = v
		case float64:
			// JSON numbers arrive as float64; submissions use integers.
			raw[key] = strconv.FormatInt(int64(v), 10)
		case bool:
			raw[key] = strconv.FormatBool(v)
		default:
			raw[key] = fmt.Sprint(v)
		}
	}

	completion, created, err := h.completions.Submit(c.Request.Context(), student.ID, exerciseID, raw)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	message := "Reading completed"
	if !created {
		message = "Reading already completed"
	}
	c.JSON(http.StatusOK, gin.H{"message": message, "completion": completion})
}
