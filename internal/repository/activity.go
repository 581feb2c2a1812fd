package repository

import (
	"context"

	"github.com/AbbosRakhmonov/espreading/internal/models"
	"gorm.io/gorm"
)

// ActivityRepo appends to and reads the administrative activity log. Entries
// are never updated or deleted.
type ActivityRepo struct {
	db *gorm.DB
}

func NewActivityRepo(db *gorm.DB) *ActivityRepo {
	return &ActivityRepo{db: db}
}

func (r *ActivityRepo) Append(ctx context.Context, entry *models.ActivityLogEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *ActivityRepo) List(ctx context.Context, limit int) ([]models.ActivityLogEntry, error) {
	if limit <= 0 {
		limit = 100
	}
	var entries []models.ActivityLogEntry
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}
