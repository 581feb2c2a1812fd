package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/AbbosRakhmonov/espreading/internal/repository"
	"github.com/AbbosRakhmonov/espreading/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"go.uber.org/zap"
)

// ChartsHandler serves echarts option JSON for the admin dashboard. The
// frontend renders the options itself; no HTML is produced here.
type ChartsHandler struct {
	log   *zap.Logger
	stats *services.StatsAggregator
}

func NewChartsHandler(log *zap.Logger, stats *services.StatsAggregator) *ChartsHandler {
	return &ChartsHandler{log: log, stats: stats}
}

// Readings returns a bar chart of average scores per exercise.
func (h *ChartsHandler) Readings(c *gin.Context) {
	stats, err := h.stats.Readings(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	chart := generateReadingChart(stats)
	optionsJSON, err := json.Marshal(chart.JSON())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Data(http.StatusOK, "application/json", optionsJSON)
}

// Universities returns a pie chart of the student share per institution.
func (h *ChartsHandler) Universities(c *gin.Context) {
	stats, err := h.stats.Universities(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	chart := generateUniversityChart(stats)
	optionsJSON, err := json.Marshal(chart.JSON())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Data(http.StatusOK, "application/json", optionsJSON)
}

func generateReadingChart(stats []repository.ReadingStat) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Average Score by Reading",
			Subtitle: "Finished completions only",
		}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
	)

	labels := make([]string, 0, len(stats))
	items := make([]opts.BarData, 0, len(stats))
	for _, stat := range stats {
		labels = append(labels, fmt.Sprintf("%d. %s", stat.ExerciseID, stat.ExerciseTitle))
		items = append(items, opts.BarData{Value: stat.AverageScore})
	}

	bar.SetXAxis(labels).AddSeries("Average score", items)
	return bar
}

func generateUniversityChart(stats []repository.UniversityStat) *charts.Pie {
	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Students by University"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)

	items := make([]opts.PieData, 0, len(stats))
	for _, stat := range stats {
		items = append(items, opts.PieData{Name: stat.University, Value: stat.Students})
	}

	pie.AddSeries("Universities", items)
	return pie
}
