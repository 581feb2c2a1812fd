package services

import (
	"context"

	"github.com/AbbosRakhmonov/espreading/internal/models"
	"github.com/AbbosRakhmonov/espreading/internal/scoring"
	"github.com/AbbosRakhmonov/espreading/internal/utils"
	"go.uber.org/zap"
)

// QuestionnaireStore is the storage surface the questionnaire service needs.
type QuestionnaireStore interface {
	Get(ctx context.Context, studentID uint, qtype string) (*models.QuestionnaireResponse, error)
	Create(ctx context.Context, response *models.QuestionnaireResponse) error
	Delete(ctx context.Context, id uint) error
}

// CompletionCounter supplies the completion count used by the stale-pre
// reset rule.
type CompletionCounter interface {
	CountByStudent(ctx context.Context, studentID uint) (int64, error)
}

// QuestionnaireService validates, scores and idempotently stores survey
// responses with the same create-then-reconcile pattern as completions.
type QuestionnaireService struct {
	log         *zap.Logger
	store       QuestionnaireStore
	completions CompletionCounter
}

func NewQuestionnaireService(log *zap.Logger, store QuestionnaireStore, completions CompletionCounter) *QuestionnaireService {
	return &QuestionnaireService{log: log, store: store, completions: completions}
}

// Submit stores one questionnaire response per (student, type). A repeat
// submission returns the original record with created=false.
//
// One exception to write-once: a prior "pre" response belonging to a student
// with zero completions is treated as stale (the student restarted before
// doing any coursework) and is deleted before the new response is accepted.
func (s *QuestionnaireService) Submit(ctx context.Context, studentID uint, qtype string, answers map[int]int) (*models.QuestionnaireResponse, bool, error) {
	if !models.IsQuestionnaireType(qtype) {
		return nil, false, utils.NewValidationError("type", "type must be \"pre\" or \"post\"")
	}
	if err := scoring.Validate(answers); err != nil {
		return nil, false, err
	}

	existing, err := s.store.Get(ctx, studentID, qtype)
	if err != nil && !utils.IsNotFound(err) {
		return nil, false, err
	}
	if existing != nil {
		reset, err := s.shouldResetPre(ctx, studentID, qtype)
		if err != nil {
			return nil, false, err
		}
		if !reset {
			return existing, false, nil
		}
		s.log.Info("Deleting stale pre-questionnaire response",
			zap.Uint("studentID", studentID),
			zap.Uint("responseID", existing.ID))
		if err := s.store.Delete(ctx, existing.ID); err != nil {
			return nil, false, err
		}
	}

	scores := scoring.Compute(answers)
	response := &models.QuestionnaireResponse{
		StudentID:       studentID,
		Type:            qtype,
		EngagementScore: scores.Engagement.Sum,
		EngagementAvg:   scores.Engagement.Average,
		EngagementLevel: scores.Engagement.Level,
		ConfidenceScore: scores.Confidence.Sum,
		ConfidenceAvg:   scores.Confidence.Average,
		ConfidenceLevel: scores.Confidence.Level,
		StrategyScore:   scores.Strategy.Sum,
		StrategyAvg:     scores.Strategy.Average,
		StrategyLevel:   scores.Strategy.Level,
		OverallAvg:      scores.OverallAvg,
	}
	if err := response.SetAnswers(answers); err != nil {
		return nil, false, err
	}

	if err := s.store.Create(ctx, response); err != nil {
		if utils.IsDuplicateKey(err) {
			s.log.Debug("Questionnaire create lost race, returning winner",
				zap.Uint("studentID", studentID),
				zap.String("type", qtype))
			winner, readErr := s.store.Get(ctx, studentID, qtype)
			if readErr != nil {
				return nil, false, readErr
			}
			return winner, false, nil
		}
		return nil, false, err
	}

	s.log.Info("Questionnaire submitted",
		zap.Uint("studentID", studentID),
		zap.String("type", qtype),
		zap.Float64("overallAvg", response.OverallAvg))
	return response, true, nil
}

// shouldResetPre reports whether an existing pre response is stale: the
// student has accumulated no completions at all since submitting it.
func (s *QuestionnaireService) shouldResetPre(ctx context.Context, studentID uint, qtype string) (bool, error) {
	if qtype != models.QuestionnairePre {
		return false, nil
	}
	count, err := s.completions.CountByStudent(ctx, studentID)
	if err != nil {
		return false, err
	}
	return count == 0, nil
}
