// Package scoring computes questionnaire sub-scale scores. The two surveys
// share one 30-question layout split into three fixed, non-overlapping
// sub-scales; scores are computed once at submission time.
package scoring

import (
	"fmt"

	"github.com/AbbosRakhmonov/espreading/internal/utils"
)

// NumQuestions is the fixed questionnaire length.
const NumQuestions = 30

// Qualitative levels derived from sub-scale averages.
const (
	LevelHigh   = "High"
	LevelMedium = "Medium"
	LevelLow    = "Low"
)

// Sub-scale question ranges, inclusive.
var (
	engagementRange = [2]int{1, 13}  // 13 questions
	confidenceRange = [2]int{14, 21} // 8 questions
	strategyRange   = [2]int{22, 30} // 9 questions
)

// Subscale is one sub-scale's computed score.
type Subscale struct {
	Sum     int
	Average float64
	Level   string
}

// Scores is the full scoring outcome for one questionnaire submission.
type Scores struct {
	Engagement Subscale
	Confidence Subscale
	Strategy   Subscale
	OverallAvg float64
}

// Validate checks that answers has exactly NumQuestions entries keyed 1..30
// with each value in [1,5].
func Validate(answers map[int]int) error {
	if len(answers) != NumQuestions {
		return utils.NewValidationError("answers", fmt.Sprintf("exactly %d answers are required", NumQuestions))
	}
	for q := 1; q <= NumQuestions; q++ {
		value, ok := answers[q]
		if !ok {
			return utils.NewValidationError(fmt.Sprintf("answers.%d", q), "answer is required")
		}
		if value < 1 || value > 5 {
			return utils.NewValidationError(fmt.Sprintf("answers.%d", q), "answer must be between 1 and 5")
		}
	}
	return nil
}

// Compute reduces a validated answer set to its three sub-scale scores and
// the overall average.
func Compute(answers map[int]int) Scores {
	engagement := subscale(answers, engagementRange)
	confidence := subscale(answers, confidenceRange)
	strategy := subscale(answers, strategyRange)

	total := engagement.Sum + confidence.Sum + strategy.Sum

	return Scores{
		Engagement: engagement,
		Confidence: confidence,
		Strategy:   strategy,
		OverallAvg: float64(total) / float64(NumQuestions),
	}
}

func subscale(answers map[int]int, r [2]int) Subscale {
	sum := 0
	for q := r[0]; q <= r[1]; q++ {
		sum += answers[q]
	}
	count := r[1] - r[0] + 1
	avg := float64(sum) / float64(count)
	return Subscale{Sum: sum, Average: avg, Level: Level(avg)}
}

// Level maps a sub-scale average to its qualitative level.
func Level(avg float64) string {
	switch {
	case avg >= 3.5:
		return LevelHigh
	case avg >= 2.5:
		return LevelMedium
	default:
		return LevelLow
	}
}
