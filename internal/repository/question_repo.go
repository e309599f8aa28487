package repository

import (
	"gorm.io/gorm"

	"github.com/hqlaw/legaldoc_go_server/internal/model"
)

type QuestionRepository struct {
	db *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{db: db}
}

// BatchCreate 批量插入跟进问题
func (r *QuestionRepository) BatchCreate(questions []*model.DocumentQuestion) error {
	if len(questions) == 0 {
		return nil
	}
	return r.db.Create(&questions).Error
}

func (r *QuestionRepository) ListByDocumentID(documentID int64) ([]*model.DocumentQuestion, error) {
	var questions []*model.DocumentQuestion
	err := r.db.Where("document_id = ?", documentID).
		Order("id ASC").Find(&questions).Error
	return questions, err
}

func (r *QuestionRepository) CountByDocumentID(documentID int64) (int64, error) {
	var count int64
	err := r.db.Model(&model.DocumentQuestion{}).
		Where("document_id = ?", documentID).Count(&count).Error
	return count, err
}
