package router

import (
	"net/http"

	"github.com/AbbosRakhmonov/espreading/internal/handlers"
	"github.com/AbbosRakhmonov/espreading/internal/models"
	"github.com/AbbosRakhmonov/espreading/internal/repository"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// StudentLoader checks for a student id in the session. If found, it loads
// the student from the database and adds it to the context. This ensures we
// don't have "zombie" sessions for students who no longer exist.
func StudentLoader(log *zap.Logger, students *repository.StudentRepo) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		studentID, ok := session.Get(handlers.SessionStudentKey).(uint)
		if !ok {
			// No student id in session, proceed as a guest.
			c.Next()
			return
		}

		student, err := students.GetByID(c.Request.Context(), studentID)
		if err != nil {
			// Session id is invalid (student was deleted, etc.)
			// Clear the bad session and treat as a guest.
			session.Clear()
			session.Options(sessions.Options{Path: "/", MaxAge: -1})
			if err := session.Save(); err != nil {
				log.Warn("Failed to clear stale session", zap.Error(err))
			}
			c.Next()
			return
		}

		c.Set(handlers.StudentContextKey, student)
		c.Next()
	}
}

// AuthRequired rejects requests without a loaded student.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, exists := c.Get(handlers.StudentContextKey); !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
			return
		}
		c.Next()
	}
}

// AdminRequired rejects requests from non-admin students. It must run after
// AuthRequired.
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		value, exists := c.Get(handlers.StudentContextKey)
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
			return
		}
		student, ok := value.(*models.Student)
		if !ok || !student.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			return
		}
		c.Next()
	}
}
