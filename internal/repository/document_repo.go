package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/hqlaw/legaldoc_go_server/internal/model"
)

type DocumentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

func (r *DocumentRepository) Create(doc *model.Document) error {
	return r.db.Create(doc).Error
}

func (r *DocumentRepository) GetByID(id int64) (*model.Document, error) {
	var doc model.Document
	err := r.db.Where("id = ?", id).First(&doc).Error
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *DocumentRepository) Update(doc *model.Document) error {
	return r.db.Save(doc).Error
}

func (r *DocumentRepository) UpdateFields(id int64, fields map[string]interface{}) error {
	return r.db.Model(&model.Document{}).Where("id = ?", id).Updates(fields).Error
}

func (r *DocumentRepository) Delete(id int64) error {
	return r.db.Delete(&model.Document{}, id).Error
}

// List 获取文档列表
func (r *DocumentRepository) List(page, pageSize int, status string) ([]*model.Document, int64, error) {
	var docs []*model.Document
	var total int64

	query := r.db.Model(&model.Document{})

	if status != "" {
		query = query.Where("processing_status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	if err := query.Order("created_at DESC").Offset(offset).Limit(pageSize).Find(&docs).Error; err != nil {
		return nil, 0, err
	}

	return docs, total, nil
}

// ListStaleUnprocessed 获取早于 cutoff 创建且仍未处理的文档，用于补偿重新入队
func (r *DocumentRepository) ListStaleUnprocessed(cutoff time.Time) ([]*model.Document, error) {
	var docs []*model.Document
	err := r.db.Where("processed = ? AND created_at < ?", false, cutoff).
		Find(&docs).Error
	return docs, err
}
