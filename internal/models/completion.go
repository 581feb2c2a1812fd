package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// Completion is the durable record of one student's single graded attempt at
// one reading exercise. Rows are created exactly once per (student, exercise)
// key under a unique index and are never updated afterwards, except for the
// best-effort label backfill on legacy rows and deletion by student cascade.
type Completion struct {
	ID         uint    `gorm:"primaryKey" json:"id"`
	StudentID  uint    `gorm:"not null;index" json:"studentId"`
	Student    Student `gorm:"foreignKey:StudentID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	ExerciseID int     `gorm:"not null" json:"exerciseId"`

	// Student-reported elapsed time in seconds.
	TimeSpent int            `json:"time"`
	Answers   datatypes.JSON `gorm:"type:jsonb" json:"answers"`
	Score     int            `json:"score"`
	Finished  bool           `gorm:"not null;default:true" json:"finished"`

	// Denormalized catalog labels, attached at creation for reporting.
	LessonNumber  int    `json:"lessonNumber"`
	LessonTitle   string `gorm:"size:255" json:"lessonTitle"`
	Category      string `gorm:"size:255" json:"category"`
	ExerciseTitle string `gorm:"size:255" json:"exerciseTitle"`

	CreatedAt time.Time `json:"createdAt"`
}

// SetAnswers stores the normalized answer set as JSON.
func (c *Completion) SetAnswers(answers map[string]string) error {
	raw, err := json.Marshal(answers)
	if err != nil {
		return err
	}
	c.Answers = datatypes.JSON(raw)
	return nil
}

// AnswerMap decodes the stored answer set.
func (c *Completion) AnswerMap() (map[string]string, error) {
	answers := make(map[string]string)
	if len(c.Answers) == 0 {
		return answers, nil
	}
	err := json.Unmarshal(c.Answers, &answers)
	return answers, err
}
