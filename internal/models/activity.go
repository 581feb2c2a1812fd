package models

import (
	"time"

	"gorm.io/datatypes"
)

// Administrative action kinds recorded in the activity log.
const (
	ActionStudentUpdated = "student_updated"
	ActionStudentDeleted = "student_deleted"
	ActionDataExported   = "data_exported"
)

// ActivityLogEntry is an append-only record of one administrative mutation.
type ActivityLogEntry struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	AdminID         uint           `gorm:"not null;index" json:"adminId"`
	Admin           Student        `gorm:"foreignKey:AdminID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Action          string         `gorm:"size:64;not null" json:"action"`
	TargetStudentID *uint          `json:"targetStudentId,omitempty"`
	Detail          string         `gorm:"type:text" json:"detail"`
	Metadata        datatypes.JSON `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt       time.Time      `json:"createdAt"`
}
