package repository

import (
	"gorm.io/gorm"

	"github.com/hqlaw/legaldoc_go_server/internal/model"
)

type SummaryRepository struct {
	db *gorm.DB
}

func NewSummaryRepository(db *gorm.DB) *SummaryRepository {
	return &SummaryRepository{db: db}
}

// Create 插入摘要记录。重新分析会追加新行，已有行不做更新。
func (r *SummaryRepository) Create(summary *model.Summary) error {
	return r.db.Create(summary).Error
}

// GetLatestByDocumentID 获取文档最新一次分析的摘要
func (r *SummaryRepository) GetLatestByDocumentID(documentID int64) (*model.Summary, error) {
	var summary model.Summary
	err := r.db.Where("document_id = ?", documentID).
		Order("id DESC").First(&summary).Error
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

func (r *SummaryRepository) ListByDocumentID(documentID int64) ([]*model.Summary, error) {
	var summaries []*model.Summary
	err := r.db.Where("document_id = ?", documentID).
		Order("id DESC").Find(&summaries).Error
	return summaries, err
}
