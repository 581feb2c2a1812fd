package repository

import (
	"context"
	"errors"

	"github.com/AbbosRakhmonov/espreading/internal/models"
	"github.com/AbbosRakhmonov/espreading/internal/utils"
	"gorm.io/gorm"
)

// QuestionnaireRepo persists survey responses under the unique index on
// (student_id, type).
type QuestionnaireRepo struct {
	db *gorm.DB
}

func NewQuestionnaireRepo(db *gorm.DB) *QuestionnaireRepo {
	return &QuestionnaireRepo{db: db}
}

func (r *QuestionnaireRepo) Get(ctx context.Context, studentID uint, qtype string) (*models.QuestionnaireResponse, error) {
	var response models.QuestionnaireResponse
	err := r.db.WithContext(ctx).
		First(&response, "student_id = ? AND type = ?", studentID, qtype).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &utils.NotFoundError{Resource: "questionnaire response"}
	}
	if err != nil {
		return nil, err
	}
	return &response, nil
}

func (r *QuestionnaireRepo) Create(ctx context.Context, response *models.QuestionnaireResponse) error {
	return r.db.WithContext(ctx).Create(response).Error
}

// Delete removes a response by id. The only caller is the stale-pre reset in
// the questionnaire service.
func (r *QuestionnaireRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.QuestionnaireResponse{}, id).Error
}
