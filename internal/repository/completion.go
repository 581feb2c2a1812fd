package repository

import (
	"context"
	"errors"

	"github.com/AbbosRakhmonov/espreading/internal/models"
	"github.com/AbbosRakhmonov/espreading/internal/utils"
	"gorm.io/gorm"
)

// CompletionRepo persists graded attempts. Rows are only ever created or
// read; the unique index on (student_id, exercise_id) is the sole arbiter
// under concurrent creates.
type CompletionRepo struct {
	db *gorm.DB
}

func NewCompletionRepo(db *gorm.DB) *CompletionRepo {
	return &CompletionRepo{db: db}
}

func (r *CompletionRepo) Get(ctx context.Context, studentID uint, exerciseID int) (*models.Completion, error) {
	var completion models.Completion
	err := r.db.WithContext(ctx).
		First(&completion, "student_id = ? AND exercise_id = ?", studentID, exerciseID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &utils.NotFoundError{Resource: "completion"}
	}
	if err != nil {
		return nil, err
	}
	return &completion, nil
}

// Create inserts the completion. A unique-violation error is returned
// unwrapped so the caller can detect the lost race via utils.IsDuplicateKey.
func (r *CompletionRepo) Create(ctx context.Context, completion *models.Completion) error {
	return r.db.WithContext(ctx).Create(completion).Error
}

func (r *CompletionRepo) ListByStudent(ctx context.Context, studentID uint) ([]models.Completion, error) {
	var completions []models.Completion
	err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("created_at ASC").
		Find(&completions).Error
	return completions, err
}

// ListAll returns every completion with its student preloaded, ordered for
// export.
func (r *CompletionRepo) ListAll(ctx context.Context) ([]models.Completion, error) {
	var completions []models.Completion
	err := r.db.WithContext(ctx).
		Preload("Student").
		Order("student_id ASC, exercise_id ASC").
		Find(&completions).Error
	return completions, err
}

func (r *CompletionRepo) CountByStudent(ctx context.Context, studentID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Completion{}).
		Where("student_id = ?", studentID).
		Count(&count).Error
	return count, err
}

// MaxFinishedLesson returns the highest lesson number any student has a
// finished completion for, or 0 if there are none. This is a derived,
// recompute-on-read value; it must not be cached.
func (r *CompletionRepo) MaxFinishedLesson(ctx context.Context) (int, error) {
	var lesson int
	err := r.db.WithContext(ctx).Model(&models.Completion{}).
		Where("finished = ?", true).
		Select("COALESCE(MAX(lesson_number), 0)").
		Scan(&lesson).Error
	return lesson, err
}

// HasFinishedInLesson reports whether the student has a finished completion
// for any exercise in the given lesson.
func (r *CompletionRepo) HasFinishedInLesson(ctx context.Context, studentID uint, lesson int) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Completion{}).
		Where("student_id = ? AND lesson_number = ? AND finished = ?", studentID, lesson, true).
		Count(&count).Error
	return count > 0, err
}

// HasAnyInLesson reports whether the student has any completion, finished or
// not, for the given lesson.
func (r *CompletionRepo) HasAnyInLesson(ctx context.Context, studentID uint, lesson int) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Completion{}).
		Where("student_id = ? AND lesson_number = ?", studentID, lesson).
		Count(&count).Error
	return count > 0, err
}
