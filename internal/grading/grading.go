// Package grading holds the answer keys for every reading exercise and the
// pure reduction that turns a raw submission into a normalized answer set and
// an integer score. Adding an exercise is a data change in keys.go, not new
// control flow.
package grading

import (
	"strconv"
	"strings"

	"github.com/AbbosRakhmonov/espreading/internal/utils"
)

// Comparator selects how a submitted value is normalized and compared against
// the expected value. The set is closed: every exercise question is one of
// these three shapes.
type Comparator int

const (
	// CompareExact matches the trimmed submitted value byte-for-byte.
	// Used for multiple-choice codes (letters or digits).
	CompareExact Comparator = iota
	// CompareBoolean matches "true"/"false" ignoring case and stores the
	// lower-cased form.
	CompareBoolean
	// CompareFold matches free-text answers case-insensitively; the value
	// is normalized to upper case before comparison and storage.
	CompareFold
)

// Field is one entry of an exercise's answer key.
type Field struct {
	Key      string
	Expected string
	Compare  Comparator
}

// ExerciseKey is the full answer key for one exercise. Fields are ordered so
// validation reports the first missing field deterministically.
type ExerciseKey struct {
	Fields []Field
}

// Result is the outcome of grading one submission.
type Result struct {
	// Answers holds the normalized value for every answer-key field.
	Answers map[string]string
	// Score is the count of fields whose normalized value matched the key.
	Score int
	// TimeSpent is the student-reported elapsed time in seconds.
	TimeSpent int
}

// Known reports whether an answer key is registered for the exercise.
func Known(exerciseID int) bool {
	_, ok := registry[exerciseID]
	return ok
}

// MaxScore returns the number of answer-key entries for the exercise.
func MaxScore(exerciseID int) (int, bool) {
	key, ok := registry[exerciseID]
	if !ok {
		return 0, false
	}
	return len(key.Fields), true
}

// ExerciseIDs returns all registered exercise ids.
func ExerciseIDs() []int {
	ids := make([]int, 0, len(registry))
	for id := range registry {
		ids = append(ids, id)
	}
	return ids
}

// Grade validates the raw submission against the exercise's answer key and
// reduces it to a normalized answer set and a score. Extra fields outside the
// key are ignored; missing or empty key fields fail validation. There is no
// partial credit: each field contributes exactly 0 or 1.
func Grade(exerciseID int, raw map[string]string) (*Result, error) {
	key, ok := registry[exerciseID]
	if !ok {
		return nil, &utils.UnknownExerciseError{ExerciseID: exerciseID}
	}

	timeSpent, err := parseTime(raw)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Answers:   make(map[string]string, len(key.Fields)),
		TimeSpent: timeSpent,
	}

	for _, field := range key.Fields {
		submitted, ok := raw[field.Key]
		submitted = strings.TrimSpace(submitted)
		if !ok || submitted == "" {
			return nil, utils.NewValidationError(field.Key, "answer is required")
		}

		normalized, match := field.grade(submitted)
		result.Answers[field.Key] = normalized
		if match {
			result.Score++
		}
	}

	return result, nil
}

// grade normalizes the trimmed submitted value per the field's comparator and
// reports whether it matches the expected value.
func (f Field) grade(submitted string) (normalized string, match bool) {
	switch f.Compare {
	case CompareBoolean:
		normalized = strings.ToLower(submitted)
		return normalized, normalized == f.Expected
	case CompareFold:
		normalized = strings.ToUpper(submitted)
		return normalized, normalized == strings.ToUpper(f.Expected)
	default:
		return submitted, submitted == f.Expected
	}
}

func parseTime(raw map[string]string) (int, error) {
	value, ok := raw["time"]
	value = strings.TrimSpace(value)
	if !ok || value == "" {
		return 0, utils.NewValidationError("time", "elapsed time is required")
	}
	seconds, err := strconv.Atoi(value)
	if err != nil || seconds < 0 {
		return 0, utils.NewValidationError("time", "elapsed time must be a non-negative number of seconds")
	}
	return seconds, nil
}
