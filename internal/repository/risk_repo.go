package repository

import (
	"gorm.io/gorm"

	"github.com/hqlaw/legaldoc_go_server/internal/model"
)

type RiskFlagRepository struct {
	db *gorm.DB
}

func NewRiskFlagRepository(db *gorm.DB) *RiskFlagRepository {
	return &RiskFlagRepository{db: db}
}

// BatchCreate 批量插入风险标记
func (r *RiskFlagRepository) BatchCreate(flags []*model.RiskFlag) error {
	if len(flags) == 0 {
		return nil
	}
	return r.db.Create(&flags).Error
}

func (r *RiskFlagRepository) ListByDocumentID(documentID int64) ([]*model.RiskFlag, error) {
	var flags []*model.RiskFlag
	err := r.db.Where("document_id = ?", documentID).
		Order("id ASC").Find(&flags).Error
	return flags, err
}

func (r *RiskFlagRepository) CountByDocumentID(documentID int64) (int64, error) {
	var count int64
	err := r.db.Model(&model.RiskFlag{}).
		Where("document_id = ?", documentID).Count(&count).Error
	return count, err
}
