package router

import (
	"net/http"
	"time"

	"github.com/AbbosRakhmonov/espreading/internal/config"
	"github.com/AbbosRakhmonov/espreading/internal/handlers"
	"github.com/AbbosRakhmonov/espreading/internal/models"
	"github.com/AbbosRakhmonov/espreading/internal/repository"
	"github.com/AbbosRakhmonov/espreading/internal/services"
	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/unrolled/secure"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func keyFunc(c *gin.Context) string {
	return c.ClientIP()
}

func rateLimitExceeded(c *gin.Context, info ratelimit.Info) {
	c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests. Try again later."})
}

// Setup wires repositories, services and handlers onto a gin engine.
func Setup(log *zap.Logger, db *gorm.DB, catalog *models.Catalog) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestID())
	router.Use(RequestLogger(log))

	store := cookie.NewStore([]byte(config.Conf.Server.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		HttpOnly: true,
		Secure:   false, // Set to true in production
		SameSite: http.SameSiteLaxMode,
		MaxAge:   86400 * 7,
	})
	router.Use(sessions.Sessions("espreading_session", store))

	secureMiddleware := secure.New(secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
	})
	router.Use(func(c *gin.Context) {
		if err := secureMiddleware.Process(c.Writer, c.Request); err != nil {
			c.Abort()
			return
		}
		c.Next()
	})

	// Repositories
	studentRepo := repository.NewStudentRepo(db)
	completionRepo := repository.NewCompletionRepo(db)
	questionnaireRepo := repository.NewQuestionnaireRepo(db)
	activityRepo := repository.NewActivityRepo(db)
	statsRepo := repository.NewStatsRepo(db)

	// Services
	completionService := services.NewCompletionService(log, completionRepo, catalog)
	questionnaireService := services.NewQuestionnaireService(log, questionnaireRepo, completionRepo)
	eligibility := services.NewEligibilityEvaluator(log, completionRepo, questionnaireRepo, catalog)
	statsAggregator := services.NewStatsAggregator(log, statsRepo, completionRepo, catalog)
	auditService := services.NewAuditService(log, activityRepo)

	// Handlers
	authHandler := handlers.NewAuthHandler(log, studentRepo)
	readingHandler := handlers.NewReadingHandler(log, completionService)
	questionnaireHandler := handlers.NewQuestionnaireHandler(log, questionnaireService, eligibility)
	adminHandler := handlers.NewAdminHandler(log, statsAggregator, studentRepo, completionRepo, auditService)
	chartsHandler := handlers.NewChartsHandler(log, statsAggregator)

	router.Use(CSRFProtection())
	router.Use(StudentLoader(log, studentRepo))

	rateLimitStore := ratelimit.InMemoryStore(&ratelimit.InMemoryOptions{
		Rate:  time.Minute,
		Limit: 5,
	})
	limiter := ratelimit.RateLimiter(rateLimitStore, &ratelimit.Options{
		ErrorHandler: rateLimitExceeded,
		KeyFunc:      keyFunc,
	})

	api := router.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.GET("/csrf", CSRFToken)
			auth.POST("/register", limiter, authHandler.Register)
			auth.POST("/login", limiter, authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", authHandler.Me)
		}

		authorized := api.Group("/")
		authorized.Use(AuthRequired())
		{
			readings := authorized.Group("/readings")
			{
				readings.GET("/:id/completed", readingHandler.GetCompleted)
				readings.POST("/:id", readingHandler.Submit)
			}

			questionnaire := authorized.Group("/questionnaire")
			{
				questionnaire.GET("/status", questionnaireHandler.Status)
				questionnaire.POST("/submit", questionnaireHandler.Submit)
			}

			admin := authorized.Group("/admin")
			admin.Use(AdminRequired())
			{
				admin.GET("/stats/readings", adminHandler.ReadingStats)
				admin.GET("/stats/universities", adminHandler.UniversityStats)
				admin.GET("/students", adminHandler.ListStudents)
				admin.GET("/students/:id/summary", adminHandler.StudentSummary)
				admin.PUT("/students/:id", adminHandler.UpdateStudent)
				admin.DELETE("/students/:id", adminHandler.DeleteStudent)
				admin.GET("/export/completions.csv", adminHandler.ExportCompletions)
				admin.GET("/charts/readings", chartsHandler.Readings)
				admin.GET("/charts/universities", chartsHandler.Universities)
				admin.GET("/activity", adminHandler.Activity)
			}
		}
	}

	return router
}
