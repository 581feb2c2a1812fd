package scoring

import (
	"testing"

	"github.com/AbbosRakhmonov/espreading/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uniformAnswers(value int) map[int]int {
	answers := make(map[int]int, NumQuestions)
	for q := 1; q <= NumQuestions; q++ {
		answers[q] = value
	}
	return answers
}

func TestValidate(t *testing.T) {
	require.NoError(t, Validate(uniformAnswers(3)))

	short := uniformAnswers(3)
	delete(short, 30)
	require.Error(t, Validate(short))

	shifted := uniformAnswers(3)
	delete(shifted, 1)
	shifted[31] = 3
	err := Validate(shifted)
	require.Error(t, err)
	var ve *utils.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "answers.1", ve.Field)

	outOfRange := uniformAnswers(3)
	outOfRange[7] = 6
	require.Error(t, Validate(outOfRange))

	zero := uniformAnswers(3)
	zero[12] = 0
	require.Error(t, Validate(zero))
}

func TestComputeBounds(t *testing.T) {
	low := Compute(uniformAnswers(1))
	assert.Equal(t, 13, low.Engagement.Sum)
	assert.Equal(t, 8, low.Confidence.Sum)
	assert.Equal(t, 9, low.Strategy.Sum)
	assert.Equal(t, 1.0, low.OverallAvg)

	high := Compute(uniformAnswers(5))
	assert.Equal(t, 65, high.Engagement.Sum)
	assert.Equal(t, 40, high.Confidence.Sum)
	assert.Equal(t, 45, high.Strategy.Sum)
	assert.Equal(t, 5.0, high.OverallAvg)
}

func TestComputeMixed(t *testing.T) {
	answers := uniformAnswers(2) // averages of 2.0 everywhere
	// Push the confidence sub-scale (14-21) to the top.
	for q := 14; q <= 21; q++ {
		answers[q] = 5
	}

	scores := Compute(answers)
	assert.Equal(t, 26, scores.Engagement.Sum)
	assert.Equal(t, LevelLow, scores.Engagement.Level)
	assert.Equal(t, 40, scores.Confidence.Sum)
	assert.Equal(t, LevelHigh, scores.Confidence.Level)
	assert.Equal(t, 18, scores.Strategy.Sum)
	assert.InDelta(t, 2.8, scores.OverallAvg, 0.0001)
}

func TestLevelThresholds(t *testing.T) {
	tests := []struct {
		avg   float64
		level string
	}{
		{5.0, LevelHigh},
		{3.5, LevelHigh},
		{3.49, LevelMedium},
		{2.5, LevelMedium},
		{2.49, LevelLow},
		{1.0, LevelLow},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.level, Level(tt.avg), "avg %v", tt.avg)
	}
}
