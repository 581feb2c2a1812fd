package services

import (
	"context"

	"github.com/AbbosRakhmonov/espreading/internal/grading"
	"github.com/AbbosRakhmonov/espreading/internal/models"
	"github.com/AbbosRakhmonov/espreading/internal/utils"
	"go.uber.org/zap"
)

// CompletionStore is the storage surface the completion service needs. The
// production implementation is repository.CompletionRepo.
type CompletionStore interface {
	Get(ctx context.Context, studentID uint, exerciseID int) (*models.Completion, error)
	Create(ctx context.Context, completion *models.Completion) error
}

// CompletionService grades reading submissions and persists them
// idempotently: at most one completion ever exists per (student, exercise).
type CompletionService struct {
	log     *zap.Logger
	store   CompletionStore
	catalog *models.Catalog
}

func NewCompletionService(log *zap.Logger, store CompletionStore, catalog *models.Catalog) *CompletionService {
	return &CompletionService{log: log, store: store, catalog: catalog}
}

// Get returns the student's completion for the exercise, or a NotFoundError.
func (s *CompletionService) Get(ctx context.Context, studentID uint, exerciseID int) (*models.Completion, error) {
	return s.store.Get(ctx, studentID, exerciseID)
}

// Submit grades the raw submission and stores the result. Resubmissions are
// a no-op returning the original record. The created flag reports whether
// this call stored a new completion.
//
// The local existence check is only a fast path; the unique index is the
// actual serialization point. When a concurrent request wins the create
// race, this request's grading result is discarded and the winning record is
// re-read and returned.
func (s *CompletionService) Submit(ctx context.Context, studentID uint, exerciseID int, raw map[string]string) (*models.Completion, bool, error) {
	if existing, err := s.store.Get(ctx, studentID, exerciseID); err == nil {
		return existing, false, nil
	} else if !utils.IsNotFound(err) {
		return nil, false, err
	}

	result, err := grading.Grade(exerciseID, raw)
	if err != nil {
		return nil, false, err
	}

	completion := &models.Completion{
		StudentID:  studentID,
		ExerciseID: exerciseID,
		TimeSpent:  result.TimeSpent,
		Score:      result.Score,
		Finished:   true,
	}
	if err := completion.SetAnswers(result.Answers); err != nil {
		return nil, false, err
	}
	if labels, ok := s.catalog.Labels(exerciseID); ok {
		completion.LessonNumber = labels.LessonNumber
		completion.LessonTitle = labels.LessonTitle
		completion.Category = labels.Category
		completion.ExerciseTitle = labels.ExerciseTitle
	} else {
		s.log.Warn("Exercise missing from catalog, storing without labels",
			zap.Int("exerciseID", exerciseID))
	}

	if err := s.store.Create(ctx, completion); err != nil {
		if utils.IsDuplicateKey(err) {
			// A concurrent submission committed first. Discard this
			// grading result and return the winner unchanged.
			s.log.Debug("Completion create lost race, returning winner",
				zap.Uint("studentID", studentID),
				zap.Int("exerciseID", exerciseID))
			winner, readErr := s.store.Get(ctx, studentID, exerciseID)
			if readErr != nil {
				return nil, false, readErr
			}
			return winner, false, nil
		}
		return nil, false, err
	}

	s.log.Info("Reading completed",
		zap.Uint("studentID", studentID),
		zap.Int("exerciseID", exerciseID),
		zap.Int("score", completion.Score))
	return completion, true, nil
}
