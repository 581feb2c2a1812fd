package handlers

import (
	"context"
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"

	"github.com/AbbosRakhmonov/espreading/internal/models"
	"github.com/AbbosRakhmonov/espreading/internal/services"
	"github.com/AbbosRakhmonov/espreading/internal/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// StudentDirectory is the admin-facing student store surface.
type StudentDirectory interface {
	List(ctx context.Context) ([]models.Student, error)
	GetByID(ctx context.Context, id uint) (*models.Student, error)
	Update(ctx context.Context, id uint, fields map[string]interface{}) error
	Delete(ctx context.Context, id uint) error
}

// CompletionExporter supplies the full completion set for CSV export.
type CompletionExporter interface {
	ListAll(ctx context.Context) ([]models.Completion, error)
}

type AdminHandler struct {
	log      *zap.Logger
	stats    *services.StatsAggregator
	students StudentDirectory
	export   CompletionExporter
	audit    *services.AuditService
}

func NewAdminHandler(log *zap.Logger, stats *services.StatsAggregator, students StudentDirectory, export CompletionExporter, audit *services.AuditService) *AdminHandler {
	return &AdminHandler{log: log, stats: stats, students: students, export: export, audit: audit}
}

func (h *AdminHandler) ReadingStats(c *gin.Context) {
	stats, err := h.stats.Readings(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *AdminHandler) UniversityStats(c *gin.Context) {
	stats, err := h.stats.Universities(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *AdminHandler) ListStudents(c *gin.Context) {
	students, err := h.students.List(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, students)
}

func (h *AdminHandler) StudentSummary(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid student id"})
		return
	}
	// 404 for unknown students rather than an empty summary.
	if _, err := h.students.GetByID(c.Request.Context(), uint(id)); err != nil {
		respondError(c, h.log, err)
		return
	}

	summary, err := h.stats.StudentSummary(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

type updateStudentRequest struct {
	FirstName  *string `json:"firstName"`
	LastName   *string `json:"lastName"`
	University *string `json:"university"`
}

func (h *AdminHandler) UpdateStudent(c *gin.Context) {
	admin, ok := currentStudent(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid student id"})
		return
	}

	var req updateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	fields := make(map[string]interface{})
	if req.FirstName != nil {
		if *req.FirstName == "" {
			respondError(c, h.log, utils.NewValidationError("firstName", "first name cannot be empty"))
			return
		}
		fields["first_name"] = *req.FirstName
	}
	if req.LastName != nil {
		fields["last_name"] = *req.LastName
	}
	if req.University != nil {
		fields["university"] = *req.University
	}
	if len(fields) == 0 {
		respondError(c, h.log, utils.NewValidationError("", "no fields to update"))
		return
	}

	if err := h.students.Update(c.Request.Context(), uint(id), fields); err != nil {
		respondError(c, h.log, err)
		return
	}

	target := uint(id)
	h.audit.Record(c.Request.Context(), admin.ID, models.ActionStudentUpdated, &target,
		"Updated student record", map[string]interface{}{"fields": fields})
	c.JSON(http.StatusOK, gin.H{"message": "Student updated"})
}

// DeleteStudent removes a student; completions and questionnaire responses
// go with the record.
func (h *AdminHandler) DeleteStudent(c *gin.Context) {
	admin, ok := currentStudent(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid student id"})
		return
	}
	if uint(id) == admin.ID {
		respondError(c, h.log, utils.NewValidationError("id", "cannot delete your own account"))
		return
	}

	if err := h.students.Delete(c.Request.Context(), uint(id)); err != nil {
		respondError(c, h.log, err)
		return
	}

	target := uint(id)
	h.audit.Record(c.Request.Context(), admin.ID, models.ActionStudentDeleted, &target,
		"Deleted student and associated records", nil)
	c.JSON(http.StatusOK, gin.H{"message": "Student deleted"})
}

// ExportCompletions streams the full completion set as CSV.
func (h *AdminHandler) ExportCompletions(c *gin.Context) {
	admin, ok := currentStudent(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	completions, err := h.export.ListAll(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="completions.csv"`)

	writer := csv.NewWriter(c.Writer)
	_ = writer.Write([]string{
		"student_id", "email", "university", "lesson", "lesson_title",
		"category", "exercise_id", "exercise_title", "score", "time_seconds",
		"finished", "completed_at",
	})
	for _, completion := range completions {
		_ = writer.Write([]string{
			strconv.FormatUint(uint64(completion.StudentID), 10),
			completion.Student.Email,
			completion.Student.University,
			strconv.Itoa(completion.LessonNumber),
			completion.LessonTitle,
			completion.Category,
			strconv.Itoa(completion.ExerciseID),
			completion.ExerciseTitle,
			strconv.Itoa(completion.Score),
			strconv.Itoa(completion.TimeSpent),
			strconv.FormatBool(completion.Finished),
			completion.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
		})
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		h.log.Error("CSV export failed mid-stream", zap.Error(err))
		return
	}

	h.audit.Record(c.Request.Context(), admin.ID, models.ActionDataExported, nil,
		fmt.Sprintf("Exported %d completions as CSV", len(completions)), nil)
}

func (h *AdminHandler) Activity(c *gin.Context) {
	limit := 100
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}
		limit = parsed
	}

	entries, err := h.audit.Recent(c.Request.Context(), limit)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}
