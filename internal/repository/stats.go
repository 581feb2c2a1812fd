package repository

import (
	"context"

	"github.com/AbbosRakhmonov/espreading/internal/models"
	"gorm.io/gorm"
)

// ReadingStat is the per-exercise rollup row.
type ReadingStat struct {
	ExerciseID    int     `json:"exerciseId"`
	ExerciseTitle string  `json:"exerciseTitle"`
	LessonNumber  int     `json:"lessonNumber"`
	LessonTitle   string  `json:"lessonTitle"`
	Category      string  `json:"category"`
	Finished      int64   `json:"finished"`
	Unfinished    int64   `json:"unfinished"`
	AverageScore  float64 `json:"averageScore"`
	AverageTime   float64 `json:"averageTime"`
}

// UniversityStat is the per-institution rollup row.
type UniversityStat struct {
	University   string  `json:"university"`
	Students     int64   `json:"students"`
	Share        float64 `json:"share"`
	AverageScore float64 `json:"averageScore"`
}

// StatsRepo runs the read-side aggregation queries. Everything is a plain
// group-by over the full completion table, computed on demand.
type StatsRepo struct {
	db *gorm.DB
}

func NewStatsRepo(db *gorm.DB) *StatsRepo {
	return &StatsRepo{db: db}
}

// ReadingStats aggregates completions per exercise. Score and time averages
// only consider finished attempts.
func (r *StatsRepo) ReadingStats(ctx context.Context) ([]ReadingStat, error) {
	var stats []ReadingStat
	query := `
		SELECT
			exercise_id,
			MAX(exercise_title) AS exercise_title,
			MAX(lesson_number) AS lesson_number,
			MAX(lesson_title) AS lesson_title,
			MAX(category) AS category,
			COUNT(*) FILTER (WHERE finished) AS finished,
			COUNT(*) FILTER (WHERE NOT finished) AS unfinished,
			COALESCE(AVG(score) FILTER (WHERE finished), 0) AS average_score,
			COALESCE(AVG(time_spent) FILTER (WHERE finished), 0) AS average_time
		FROM completions
		GROUP BY exercise_id
		ORDER BY exercise_id;
	`
	err := r.db.WithContext(ctx).Raw(query).Scan(&stats).Error
	return stats, err
}

// UniversityStats aggregates student counts and finished-completion score
// averages per institution. Share is the percentage of all students.
func (r *StatsRepo) UniversityStats(ctx context.Context) ([]UniversityStat, error) {
	var stats []UniversityStat
	query := `
		SELECT
			s.university,
			COUNT(DISTINCT s.id) AS students,
			COALESCE(COUNT(DISTINCT s.id) * 100.0 / NULLIF((SELECT COUNT(*) FROM students WHERE role = 'student'), 0), 0) AS share,
			COALESCE(AVG(c.score) FILTER (WHERE c.finished), 0) AS average_score
		FROM students s
		LEFT JOIN completions c ON c.student_id = s.id
		WHERE s.role = 'student'
		GROUP BY s.university
		ORDER BY students DESC;
	`
	err := r.db.WithContext(ctx).Raw(query).Scan(&stats).Error
	return stats, err
}

// BackfillLabels patches missing denormalized labels on legacy completion
// rows from the catalog before aggregation. Only label fields are touched;
// score, answers and timestamps are never rewritten.
func (r *StatsRepo) BackfillLabels(ctx context.Context, catalog *models.Catalog) (int64, error) {
	var legacy []models.Completion
	err := r.db.WithContext(ctx).
		Where("exercise_title = '' OR lesson_number = 0").
		Find(&legacy).Error
	if err != nil {
		return 0, err
	}

	var patched int64
	for _, completion := range legacy {
		labels, ok := catalog.Labels(completion.ExerciseID)
		if !ok {
			continue
		}
		err := r.db.WithContext(ctx).Model(&models.Completion{}).
			Where("id = ?", completion.ID).
			Updates(map[string]interface{}{
				"lesson_number":  labels.LessonNumber,
				"lesson_title":   labels.LessonTitle,
				"category":       labels.Category,
				"exercise_title": labels.ExerciseTitle,
			}).Error
		if err != nil {
			return patched, err
		}
		patched++
	}
	return patched, nil
}
