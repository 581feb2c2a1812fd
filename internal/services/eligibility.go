package services

import (
	"context"

	"github.com/AbbosRakhmonov/espreading/internal/models"
	"github.com/AbbosRakhmonov/espreading/internal/utils"
	"go.uber.org/zap"
)

// CompletionHistory is the completion-store surface the evaluator reads.
type CompletionHistory interface {
	MaxFinishedLesson(ctx context.Context) (int, error)
	HasFinishedInLesson(ctx context.Context, studentID uint, lesson int) (bool, error)
	HasAnyInLesson(ctx context.Context, studentID uint, lesson int) (bool, error)
}

// QuestionnaireReader looks up existing responses.
type QuestionnaireReader interface {
	Get(ctx context.Context, studentID uint, qtype string) (*models.QuestionnaireResponse, error)
}

// TypeStatus is the eligibility state for one questionnaire type. Submitted
// is terminal: once true, CanTake is false forever.
type TypeStatus struct {
	Submitted bool `json:"submitted"`
	CanTake   bool `json:"canTake"`
}

// QuestionnaireStatus is the full per-student eligibility view.
type QuestionnaireStatus struct {
	Pre  TypeStatus `json:"pre"`
	Post TypeStatus `json:"post"`
}

// EligibilityEvaluator derives, per student and per questionnaire type,
// whether the survey may currently be submitted. Everything is recomputed
// from completion history on every call; nothing is cached.
type EligibilityEvaluator struct {
	log            *zap.Logger
	completions    CompletionHistory
	questionnaires QuestionnaireReader
	catalog        *models.Catalog
}

func NewEligibilityEvaluator(log *zap.Logger, completions CompletionHistory, questionnaires QuestionnaireReader, catalog *models.Catalog) *EligibilityEvaluator {
	return &EligibilityEvaluator{
		log:            log,
		completions:    completions,
		questionnaires: questionnaires,
		catalog:        catalog,
	}
}

// Status evaluates both questionnaire types for the student.
func (e *EligibilityEvaluator) Status(ctx context.Context, studentID uint) (*QuestionnaireStatus, error) {
	pre, err := e.preStatus(ctx, studentID)
	if err != nil {
		return nil, err
	}
	post, err := e.postStatus(ctx, studentID)
	if err != nil {
		return nil, err
	}
	return &QuestionnaireStatus{Pre: pre, Post: post}, nil
}

// preStatus: the exposed contract is "eligible unless already submitted".
// The started-coursework check is still computed for observability, but it
// does not gate access.
func (e *EligibilityEvaluator) preStatus(ctx context.Context, studentID uint) (TypeStatus, error) {
	submitted, err := e.hasResponse(ctx, studentID, models.QuestionnairePre)
	if err != nil {
		return TypeStatus{}, err
	}

	if first := e.catalog.FirstLesson(); first > 0 {
		started, err := e.completions.HasAnyInLesson(ctx, studentID, first)
		if err != nil {
			return TypeStatus{}, err
		}
		e.log.Debug("Pre-questionnaire coursework check",
			zap.Uint("studentID", studentID),
			zap.Bool("startedFirstLesson", started))
	}

	return TypeStatus{Submitted: submitted, CanTake: !submitted}, nil
}

// postStatus: the gate is system-wide. The last lesson with content is the
// highest lesson any student has finished an exercise in; a student is
// eligible only with a finished completion in that lesson. Until someone
// finishes the terminal lesson the gate stays closed for everyone.
func (e *EligibilityEvaluator) postStatus(ctx context.Context, studentID uint) (TypeStatus, error) {
	submitted, err := e.hasResponse(ctx, studentID, models.QuestionnairePost)
	if err != nil {
		return TypeStatus{}, err
	}
	if submitted {
		return TypeStatus{Submitted: true, CanTake: false}, nil
	}

	lastLesson, err := e.completions.MaxFinishedLesson(ctx)
	if err != nil {
		return TypeStatus{}, err
	}
	if lastLesson == 0 {
		e.log.Warn("Post-questionnaire gate closed: no finished completions recorded yet")
		return TypeStatus{Submitted: false, CanTake: false}, nil
	}

	reached, err := e.completions.HasFinishedInLesson(ctx, studentID, lastLesson)
	if err != nil {
		return TypeStatus{}, err
	}
	return TypeStatus{Submitted: false, CanTake: reached}, nil
}

func (e *EligibilityEvaluator) hasResponse(ctx context.Context, studentID uint, qtype string) (bool, error) {
	_, err := e.questionnaires.Get(ctx, studentID, qtype)
	if err == nil {
		return true, nil
	}
	if utils.IsNotFound(err) {
		return false, nil
	}
	return false, err
}
