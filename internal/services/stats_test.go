package services

import (
	"context"
	"errors"
	"testing"

	"github.com/AbbosRakhmonov/espreading/internal/models"
	"github.com/AbbosRakhmonov/espreading/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeStatsSource struct {
	readings     []repository.ReadingStat
	universities []repository.UniversityStat
	backfillErr  error
	backfills    int
}

func (f *fakeStatsSource) ReadingStats(ctx context.Context) ([]repository.ReadingStat, error) {
	return f.readings, nil
}

func (f *fakeStatsSource) UniversityStats(ctx context.Context) ([]repository.UniversityStat, error) {
	return f.universities, nil
}

func (f *fakeStatsSource) BackfillLabels(ctx context.Context, catalog *models.Catalog) (int64, error) {
	f.backfills++
	return 0, f.backfillErr
}

func TestStudentSummaryReduces(t *testing.T) {
	completions := newFakeCompletionStore()
	completions.seed(&models.Completion{StudentID: 7, ExerciseID: 1, LessonNumber: 1, Score: 5, TimeSpent: 30, Finished: true})
	completions.seed(&models.Completion{StudentID: 7, ExerciseID: 2, LessonNumber: 1, Score: 3, TimeSpent: 50, Finished: true})
	completions.seed(&models.Completion{StudentID: 7, ExerciseID: 4, LessonNumber: 2, Score: 0, TimeSpent: 10, Finished: false})
	completions.seed(&models.Completion{StudentID: 9, ExerciseID: 1, LessonNumber: 1, Score: 4, TimeSpent: 40, Finished: true})

	aggregator := NewStatsAggregator(zap.NewNop(), &fakeStatsSource{}, completions, testCatalog())

	summary, err := aggregator.StudentSummary(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, 2, summary.Completed)
	assert.Equal(t, 1, summary.InProgress)
	assert.Equal(t, 4.0, summary.AverageScore, "average over finished attempts only")
	assert.Equal(t, 90, summary.TotalTime)
	assert.Len(t, summary.History, 3)
}

func TestStudentSummaryEmptyHistory(t *testing.T) {
	aggregator := NewStatsAggregator(zap.NewNop(), &fakeStatsSource{}, newFakeCompletionStore(), testCatalog())

	summary, err := aggregator.StudentSummary(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Total)
	assert.Equal(t, 0.0, summary.AverageScore)
}

func TestAggregationRunsBackfillFirst(t *testing.T) {
	source := &fakeStatsSource{
		readings: []repository.ReadingStat{{ExerciseID: 1, Finished: 2, AverageScore: 4.5}},
	}
	aggregator := NewStatsAggregator(zap.NewNop(), source, newFakeCompletionStore(), testCatalog())

	stats, err := aggregator.Readings(context.Background())
	require.NoError(t, err)
	assert.Len(t, stats, 1)
	assert.Equal(t, 1, source.backfills)
}

func TestBackfillFailureDoesNotBreakAggregation(t *testing.T) {
	source := &fakeStatsSource{
		backfillErr:  errors.New("column missing"),
		universities: []repository.UniversityStat{{University: "TSU", Students: 12}},
	}
	aggregator := NewStatsAggregator(zap.NewNop(), source, newFakeCompletionStore(), testCatalog())

	stats, err := aggregator.Universities(context.Background())
	require.NoError(t, err)
	assert.Len(t, stats, 1)
}
