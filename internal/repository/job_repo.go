package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/hqlaw/legaldoc_go_server/internal/model"
)

type JobRepository struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) *JobRepository {
	return &JobRepository{db: db}
}

func (r *JobRepository) Create(job *model.AnalysisJob) error {
	return r.db.Create(job).Error
}

func (r *JobRepository) GetByID(id int64) (*model.AnalysisJob, error) {
	var job model.AnalysisJob
	err := r.db.Where("id = ?", id).First(&job).Error
	if err != nil {
		return nil, err
	}
	return &job, nil
}

// GetLatestByDocumentID 获取文档最新一个分析任务
func (r *JobRepository) GetLatestByDocumentID(documentID int64) (*model.AnalysisJob, error) {
	var job model.AnalysisJob
	err := r.db.Where("document_id = ?", documentID).
		Order("id DESC").First(&job).Error
	if err != nil {
		return nil, err
	}
	return &job, nil
}

func (r *JobRepository) Update(job *model.AnalysisJob) error {
	return r.db.Save(job).Error
}

// ListStaleQueued 获取早于 cutoff 未被触碰且仍在排队的任务
func (r *JobRepository) ListStaleQueued(cutoff time.Time) ([]*model.AnalysisJob, error) {
	var jobs []*model.AnalysisJob
	err := r.db.Where("status = ? AND updated_at < ?", "queued", cutoff).
		Find(&jobs).Error
	return jobs, err
}
