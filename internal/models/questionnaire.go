package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

const (
	QuestionnairePre  = "pre"
	QuestionnairePost = "post"
)

// IsQuestionnaireType reports whether t is one of the two survey types.
func IsQuestionnaireType(t string) bool {
	return t == QuestionnairePre || t == QuestionnairePost
}

// QuestionnaireResponse is one student's single submission of one survey
// type. The three sub-scale scores and levels are computed once at submission
// time and never recomputed. Rows are write-once under a unique index on
// (student_id, type); the only deletion path besides student cascade is the
// stale-pre reset in the questionnaire service.
type QuestionnaireResponse struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	StudentID uint    `gorm:"not null;index" json:"studentId"`
	Student   Student `gorm:"foreignKey:StudentID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Type      string  `gorm:"size:8;not null" json:"type"`

	// 30 answers keyed "1".."30", each 1-5.
	Answers datatypes.JSON `gorm:"type:jsonb" json:"answers"`

	EngagementScore int     `json:"engagementScore"`
	EngagementAvg   float64 `json:"engagementAvg"`
	EngagementLevel string  `gorm:"size:8" json:"engagementLevel"`

	ConfidenceScore int     `json:"confidenceScore"`
	ConfidenceAvg   float64 `json:"confidenceAvg"`
	ConfidenceLevel string  `gorm:"size:8" json:"confidenceLevel"`

	StrategyScore int     `json:"strategyScore"`
	StrategyAvg   float64 `json:"strategyAvg"`
	StrategyLevel string  `gorm:"size:8" json:"strategyLevel"`

	OverallAvg float64 `json:"overallAvg"`

	CreatedAt time.Time `json:"createdAt"`
}

// SetAnswers stores the answer map as JSON, keyed by question number.
func (q *QuestionnaireResponse) SetAnswers(answers map[int]int) error {
	raw, err := json.Marshal(answers)
	if err != nil {
		return err
	}
	q.Answers = datatypes.JSON(raw)
	return nil
}
