package services

import (
	"context"
	"testing"

	"github.com/AbbosRakhmonov/espreading/internal/models"
	"github.com/AbbosRakhmonov/espreading/internal/scoring"
	"github.com/AbbosRakhmonov/espreading/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func likertAnswers(value int) map[int]int {
	answers := make(map[int]int, scoring.NumQuestions)
	for q := 1; q <= scoring.NumQuestions; q++ {
		answers[q] = value
	}
	return answers
}

func newQuestionnaireFixture() (*QuestionnaireService, *fakeQuestionnaireStore, *fakeCompletionStore) {
	questionnaires := newFakeQuestionnaireStore()
	completions := newFakeCompletionStore()
	svc := NewQuestionnaireService(zap.NewNop(), questionnaires, completions)
	return svc, questionnaires, completions
}

func TestQuestionnaireSubmitScoresOnce(t *testing.T) {
	svc, _, _ := newQuestionnaireFixture()

	response, created, err := svc.Submit(context.Background(), 7, models.QuestionnairePre, likertAnswers(4))
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, 52, response.EngagementScore)
	assert.Equal(t, 32, response.ConfidenceScore)
	assert.Equal(t, 36, response.StrategyScore)
	assert.Equal(t, scoring.LevelHigh, response.EngagementLevel)
	assert.Equal(t, 4.0, response.OverallAvg)
}

func TestQuestionnaireSubmitValidation(t *testing.T) {
	svc, _, _ := newQuestionnaireFixture()
	ctx := context.Background()

	_, _, err := svc.Submit(ctx, 7, "mid", likertAnswers(3))
	require.Error(t, err)
	assert.True(t, utils.IsValidation(err))

	bad := likertAnswers(3)
	bad[15] = 9
	_, _, err = svc.Submit(ctx, 7, models.QuestionnairePre, bad)
	require.Error(t, err)
	assert.True(t, utils.IsValidation(err))

	short := likertAnswers(3)
	delete(short, 22)
	_, _, err = svc.Submit(ctx, 7, models.QuestionnairePost, short)
	require.Error(t, err)
	assert.True(t, utils.IsValidation(err))
}

func TestQuestionnaireSubmitIsIdempotent(t *testing.T) {
	svc, _, completions := newQuestionnaireFixture()
	ctx := context.Background()

	// The student has coursework, so the pre response is not stale.
	completions.seed(&models.Completion{StudentID: 7, ExerciseID: 1, LessonNumber: 1, Finished: true})

	first, created, err := svc.Submit(ctx, 7, models.QuestionnairePre, likertAnswers(2))
	require.NoError(t, err)
	require.True(t, created)

	second, created, err := svc.Submit(ctx, 7, models.QuestionnairePre, likertAnswers(5))
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.OverallAvg, second.OverallAvg)
}

func TestQuestionnaireStalePreIsReset(t *testing.T) {
	svc, questionnaires, _ := newQuestionnaireFixture()
	ctx := context.Background()

	// An old pre response exists, but the student has zero completions:
	// the record predates a restart and is replaced.
	stale := &models.QuestionnaireResponse{StudentID: 7, Type: models.QuestionnairePre, OverallAvg: 1.0}
	questionnaires.seed(stale)

	response, created, err := svc.Submit(ctx, 7, models.QuestionnairePre, likertAnswers(5))
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEqual(t, stale.ID, response.ID)
	assert.Equal(t, 5.0, response.OverallAvg)

	stored, err := questionnaires.Get(ctx, 7, models.QuestionnairePre)
	require.NoError(t, err)
	assert.Equal(t, response.ID, stored.ID)
}

func TestQuestionnairePostIsNeverReset(t *testing.T) {
	svc, questionnaires, _ := newQuestionnaireFixture()
	ctx := context.Background()

	existing := &models.QuestionnaireResponse{StudentID: 7, Type: models.QuestionnairePost, OverallAvg: 2.0}
	questionnaires.seed(existing)

	response, created, err := svc.Submit(ctx, 7, models.QuestionnairePost, likertAnswers(5))
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, existing.ID, response.ID)
	assert.Equal(t, 2.0, response.OverallAvg)
}

func TestQuestionnaireLostRaceReturnsWinner(t *testing.T) {
	svc, questionnaires, completions := newQuestionnaireFixture()
	ctx := context.Background()

	completions.seed(&models.Completion{StudentID: 7, ExerciseID: 1, LessonNumber: 1, Finished: true})
	winner, _, err := svc.Submit(ctx, 7, models.QuestionnairePost, likertAnswers(3))
	require.NoError(t, err)

	// Widen the check window so the second call grades and collides.
	questionnaires.getMisses = 1
	loser, created, err := svc.Submit(ctx, 7, models.QuestionnairePost, likertAnswers(5))
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, winner.ID, loser.ID)
	assert.Equal(t, 3.0, loser.OverallAvg)
}
