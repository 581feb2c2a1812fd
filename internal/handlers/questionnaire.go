package handlers

import (
	"net/http"
	"strconv"

	"github.com/AbbosRakhmonov/espreading/internal/services"
	"github.com/AbbosRakhmonov/espreading/internal/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type QuestionnaireHandler struct {
	log            *zap.Logger
	questionnaires *services.QuestionnaireService
	eligibility    *services.EligibilityEvaluator
}

func NewQuestionnaireHandler(log *zap.Logger, questionnaires *services.QuestionnaireService, eligibility *services.EligibilityEvaluator) *QuestionnaireHandler {
	return &QuestionnaireHandler{log: log, questionnaires: questionnaires, eligibility: eligibility}
}

// Status reports submitted/canTake for both questionnaire types.
func (h *QuestionnaireHandler) Status(c *gin.Context) {
	student, ok := currentStudent(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	status, err := h.eligibility.Status(c.Request.Context(), student.ID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

type questionnaireSubmitRequest struct {
	Type    string         `json:"type"`
	Answers map[string]int `json:"answers"`
}

// Submit stores a questionnaire response. Like readings, a duplicate
// submission is a success carrying the original record; only the message
// distinguishes the two cases.
func (h *QuestionnaireHandler) Submit(c *gin.Context) {
	student, ok := currentStudent(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	var req questionnaireSubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	answers := make(map[int]int, len(req.Answers))
	for key, value := range req.Answers {
		number, err := strconv.Atoi(key)
		if err != nil {
			respondError(c, h.log, utils.NewValidationError("answers", "answer keys must be question numbers"))
			return
		}
		answers[number] = value
	}

	response, created, err := h.questionnaires.Submit(c.Request.Context(), student.ID, req.Type, answers)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	message := "Questionnaire submitted"
	if !created {
		message = "Questionnaire already submitted"
	}
	c.JSON(http.StatusOK, gin.H{"message": message, "response": response})
}
