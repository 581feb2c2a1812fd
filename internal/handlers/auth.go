package handlers

import (
	"context"
	"net/http"

	"github.com/AbbosRakhmonov/espreading/internal/models"
	"github.com/AbbosRakhmonov/espreading/internal/utils"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SessionStudentKey is the session field carrying the authenticated id.
const SessionStudentKey = "studentID"

// StudentAccounts is the account surface the auth handler needs.
type StudentAccounts interface {
	Create(ctx context.Context, student *models.Student) error
	GetByEmail(ctx context.Context, email string) (*models.Student, error)
}

type AuthHandler struct {
	log      *zap.Logger
	students StudentAccounts
}

func NewAuthHandler(log *zap.Logger, students StudentAccounts) *AuthHandler {
	return &AuthHandler{log: log, students: students}
}

type registerRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	University string `json:"university"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if !utils.IsValidEmail(req.Email) {
		respondError(c, h.log, utils.NewValidationError("email", "a valid email address is required"))
		return
	}
	if !utils.IsComplexPassword(req.Password) {
		respondError(c, h.log, utils.NewValidationError("password", "password must be at least 8 characters with upper, lower and digit"))
		return
	}
	if req.FirstName == "" {
		respondError(c, h.log, utils.NewValidationError("firstName", "first name is required"))
		return
	}

	student := &models.Student{
		Email:      req.Email,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		University: req.University,
		Role:       models.RoleStudent,
	}
	if err := student.SetPassword(req.Password); err != nil {
		respondError(c, h.log, err)
		return
	}
	if err := h.students.Create(c.Request.Context(), student); err != nil {
		if utils.IsDuplicateKey(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "An account with this email already exists"})
			return
		}
		respondError(c, h.log, err)
		return
	}

	h.log.Info("Student registered", zap.Uint("studentID", student.ID))
	c.JSON(http.StatusCreated, student)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	student, err := h.students.GetByEmail(c.Request.Context(), req.Email)
	if err != nil || !student.CheckPassword(req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	session := sessions.Default(c)
	session.Set(SessionStudentKey, student.ID)
	if err := session.Save(); err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, student)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Options(sessions.Options{Path: "/", MaxAge: -1})
	if err := session.Save(); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

func (h *AuthHandler) Me(c *gin.Context) {
	student, ok := currentStudent(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}
	c.JSON(http.StatusOK, student)
}
