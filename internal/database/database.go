package database

import (
	"fmt"

	"github.com/AbbosRakhmonov/espreading/internal/config"
	"github.com/AbbosRakhmonov/espreading/internal/logging"
	"github.com/AbbosRakhmonov/espreading/internal/models"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func Init(log *zap.Logger) {
	var err error
	dbConf := config.Conf.Database
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		dbConf.Host, dbConf.User, dbConf.Password, dbConf.DBName, dbConf.Port)

	gormLogger := logging.NewGormZapLogger(log)
	gormLogger.LogLevel = logger.Warn

	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormLogger,
		// Translate driver errors so unique violations surface as
		// gorm.ErrDuplicatedKey on top of the raw pq error.
		TranslateError: true,
	})

	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}

	log.Info("Database connection established successfully.")
	runMigrations(log)
}

func runMigrations(log *zap.Logger) {
	// GORM's AutoMigrate will create tables, columns, and foreign keys.
	// It will NOT create the composite unique indexes, so we handle those
	// separately below.
	err := DB.AutoMigrate(
		&models.Student{},
		&models.Completion{},
		&models.QuestionnaireResponse{},
		&models.ActivityLogEntry{},
	)
	if err != nil {
		log.Fatal("Failed to run database migrations", zap.Error(err))
	}
	log.Info("Database migrations completed successfully.")

	// The two write-once constraints. These indexes are the serialization
	// points for concurrent submissions; the repositories rely on the
	// resulting unique-violation errors to resolve create races.
	uniqueIndexes := []string{
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_completions_student_exercise ON completions (student_id, exercise_id);`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_questionnaire_student_type ON questionnaire_responses (student_id, type);`,
	}
	for _, stmt := range uniqueIndexes {
		if err := DB.Exec(stmt).Error; err != nil {
			log.Fatal("Failed to create unique index", zap.Error(err))
		}
	}
	log.Info("Unique indexes ensured successfully.")
}
