package services

import (
	"context"

	"github.com/AbbosRakhmonov/espreading/internal/models"
	"github.com/AbbosRakhmonov/espreading/internal/repository"
	"go.uber.org/zap"
)

// StatsSource is the aggregation surface of the completion table.
type StatsSource interface {
	ReadingStats(ctx context.Context) ([]repository.ReadingStat, error)
	UniversityStats(ctx context.Context) ([]repository.UniversityStat, error)
	BackfillLabels(ctx context.Context, catalog *models.Catalog) (int64, error)
}

// CompletionLister supplies a student's full ordered completion history.
type CompletionLister interface {
	ListByStudent(ctx context.Context, studentID uint) ([]models.Completion, error)
}

// StudentSummary is the per-student dashboard rollup.
type StudentSummary struct {
	StudentID    uint                `json:"studentId"`
	Total        int                 `json:"total"`
	Completed    int                 `json:"completed"`
	InProgress   int                 `json:"inProgress"`
	AverageScore float64             `json:"averageScore"`
	TotalTime    int                 `json:"totalTime"`
	History      []models.Completion `json:"history"`
}

// StatsAggregator produces the dashboard rollups. All aggregation is
// group-by-and-reduce over the live tables on every call; there is no cache
// and no incremental maintenance.
type StatsAggregator struct {
	log     *zap.Logger
	stats   StatsSource
	history CompletionLister
	catalog *models.Catalog
}

func NewStatsAggregator(log *zap.Logger, stats StatsSource, history CompletionLister, catalog *models.Catalog) *StatsAggregator {
	return &StatsAggregator{log: log, stats: stats, history: history, catalog: catalog}
}

// Readings returns the per-exercise rollup.
func (a *StatsAggregator) Readings(ctx context.Context) ([]repository.ReadingStat, error) {
	a.backfill(ctx)
	return a.stats.ReadingStats(ctx)
}

// Universities returns the per-institution rollup.
func (a *StatsAggregator) Universities(ctx context.Context) ([]repository.UniversityStat, error) {
	a.backfill(ctx)
	return a.stats.UniversityStats(ctx)
}

// StudentSummary reduces one student's full completion history.
func (a *StatsAggregator) StudentSummary(ctx context.Context, studentID uint) (*StudentSummary, error) {
	a.backfill(ctx)
	history, err := a.history.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	summary := &StudentSummary{StudentID: studentID, History: history}
	scoreSum := 0
	for _, completion := range history {
		summary.Total++
		summary.TotalTime += completion.TimeSpent
		if completion.Finished {
			summary.Completed++
			scoreSum += completion.Score
		} else {
			summary.InProgress++
		}
	}
	if summary.Completed > 0 {
		summary.AverageScore = float64(scoreSum) / float64(summary.Completed)
	}
	return summary, nil
}

// backfill patches labels on legacy rows before aggregating. Failures are
// logged and ignored: stale labels degrade the report, they do not break it.
func (a *StatsAggregator) backfill(ctx context.Context) {
	patched, err := a.stats.BackfillLabels(ctx, a.catalog)
	if err != nil {
		a.log.Warn("Label backfill failed", zap.Error(err))
		return
	}
	if patched > 0 {
		a.log.Info("Backfilled labels on legacy completions", zap.Int64("patched", patched))
	}
}
