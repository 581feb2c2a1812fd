package services

import (
	"context"
	"encoding/json"

	"github.com/AbbosRakhmonov/espreading/internal/models"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// ActivitySink appends to the administrative activity log.
type ActivitySink interface {
	Append(ctx context.Context, entry *models.ActivityLogEntry) error
	List(ctx context.Context, limit int) ([]models.ActivityLogEntry, error)
}

// AuditService records administrative mutations. Recording is best-effort:
// a failed append is logged but never fails the mutation it describes.
type AuditService struct {
	log  *zap.Logger
	sink ActivitySink
}

func NewAuditService(log *zap.Logger, sink ActivitySink) *AuditService {
	return &AuditService{log: log, sink: sink}
}

// Record appends one entry to the log.
func (s *AuditService) Record(ctx context.Context, adminID uint, action string, targetStudentID *uint, detail string, metadata map[string]interface{}) {
	entry := &models.ActivityLogEntry{
		AdminID:         adminID,
		Action:          action,
		TargetStudentID: targetStudentID,
		Detail:          detail,
	}
	if len(metadata) > 0 {
		raw, err := json.Marshal(metadata)
		if err == nil {
			entry.Metadata = datatypes.JSON(raw)
		}
	}

	if err := s.sink.Append(ctx, entry); err != nil {
		s.log.Error("Failed to append activity log entry",
			zap.Error(err),
			zap.Uint("adminID", adminID),
			zap.String("action", action))
	}
}

// Recent lists the newest entries.
func (s *AuditService) Recent(ctx context.Context, limit int) ([]models.ActivityLogEntry, error) {
	return s.sink.List(ctx, limit)
}
