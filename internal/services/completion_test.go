package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/AbbosRakhmonov/espreading/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func exercise1Submission(fatima string) map[string]string {
	return map[string]string{
		"emma":   "1",
		"carlos": "2",
		"fatima": fatima,
		"liam":   "4",
		"sofia":  "5",
		"time":   "30",
	}
}

func TestSubmitCreatesGradedCompletion(t *testing.T) {
	store := newFakeCompletionStore()
	svc := NewCompletionService(zap.NewNop(), store, testCatalog())

	completion, created, err := svc.Submit(context.Background(), 7, 1, exercise1Submission("9"))
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, 4, completion.Score)
	assert.Equal(t, 30, completion.TimeSpent)
	assert.True(t, completion.Finished)

	// Denormalized labels come from the catalog.
	assert.Equal(t, 1, completion.LessonNumber)
	assert.Equal(t, "Getting Acquainted", completion.LessonTitle)
	assert.Equal(t, "People and Introductions", completion.Category)
	assert.Equal(t, "Meet the Students", completion.ExerciseTitle)

	answers, err := completion.AnswerMap()
	require.NoError(t, err)
	assert.Equal(t, "9", answers["fatima"])
}

func TestSubmitIsIdempotent(t *testing.T) {
	store := newFakeCompletionStore()
	svc := NewCompletionService(zap.NewNop(), store, testCatalog())
	ctx := context.Background()

	first, created, err := svc.Submit(ctx, 7, 1, exercise1Submission("9"))
	require.NoError(t, err)
	require.True(t, created)

	// A different payload on resubmission changes nothing.
	second, created, err := svc.Submit(ctx, 7, 1, exercise1Submission("3"))
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.Score, second.Score)
	assert.Equal(t, first.CreatedAt, second.CreatedAt)
}

func TestSubmitValidationCreatesNothing(t *testing.T) {
	store := newFakeCompletionStore()
	svc := NewCompletionService(zap.NewNop(), store, testCatalog())

	raw := exercise1Submission("3")
	delete(raw, "time")
	_, _, err := svc.Submit(context.Background(), 7, 1, raw)
	require.Error(t, err)
	assert.True(t, utils.IsValidation(err))

	_, err = svc.Get(context.Background(), 7, 1)
	assert.True(t, utils.IsNotFound(err))
}

func TestSubmitUnknownExercise(t *testing.T) {
	store := newFakeCompletionStore()
	svc := NewCompletionService(zap.NewNop(), store, testCatalog())

	_, _, err := svc.Submit(context.Background(), 7, 999, map[string]string{"time": "30"})
	require.Error(t, err)
	assert.True(t, utils.IsUnknownExercise(err))
}

func TestSubmitStorageFailurePropagates(t *testing.T) {
	store := newFakeCompletionStore()
	store.createErr = errors.New("connection reset")
	svc := NewCompletionService(zap.NewNop(), store, testCatalog())

	_, _, err := svc.Submit(context.Background(), 7, 1, exercise1Submission("3"))
	require.Error(t, err)
	assert.False(t, utils.IsValidation(err))
	assert.False(t, utils.IsNotFound(err))
}

func TestSubmitRaceResolvesToSingleRecord(t *testing.T) {
	store := newFakeCompletionStore()
	svc := NewCompletionService(zap.NewNop(), store, testCatalog())
	ctx := context.Background()

	// Two concurrent submissions with different payloads. The fake's
	// Create enforces uniqueness under a mutex, so exactly one wins and
	// the loser must reconcile by re-reading.
	var wg sync.WaitGroup
	results := make([]uint, 2)
	scores := make([]int, 2)
	errs := make([]error, 2)
	payloads := []string{"3", "9"}
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			completion, _, err := svc.Submit(ctx, 7, 1, exercise1Submission(payloads[i]))
			if err != nil {
				errs[i] = err
				return
			}
			results[i] = completion.ID
			scores[i] = completion.Score
		}(i)
	}
	wg.Wait()
	require.NoError(t, errs[0])
	require.NoError(t, errs[1])

	assert.Equal(t, results[0], results[1], "both calls must observe the same record")
	assert.Equal(t, scores[0], scores[1])

	count, err := store.CountByStudent(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestSubmitLostRaceReturnsWinnerUnchanged(t *testing.T) {
	store := newFakeCompletionStore()
	svc := NewCompletionService(zap.NewNop(), store, testCatalog())
	ctx := context.Background()

	// Simulate the window between the fast-path check and the insert: the
	// winner's row appears after this request has already passed its
	// existence check, so the insert hits the unique index and the
	// reconciliation read must return the winner.
	winner, _, err := svc.Submit(ctx, 7, 1, exercise1Submission("3"))
	require.NoError(t, err)
	store.getMisses = 1

	loser, created, err := svc.Submit(ctx, 7, 1, exercise1Submission("9"))
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, winner.ID, loser.ID)
	assert.Equal(t, 5, loser.Score, "the winning grade is preserved, not overwritten")
}
