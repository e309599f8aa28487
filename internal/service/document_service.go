package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/hqlaw/legaldoc_go_server/config"
	"github.com/hqlaw/legaldoc_go_server/internal/model"
	"github.com/hqlaw/legaldoc_go_server/internal/model/dto"
	"github.com/hqlaw/legaldoc_go_server/internal/pkg/oss"
	"github.com/hqlaw/legaldoc_go_server/internal/pkg/queue"
	"github.com/hqlaw/legaldoc_go_server/internal/repository"
)

var (
	ErrInvalidFormat   = errors.New("不支持的文件格式")
	ErrFileTooLarge    = errors.New("文件大小超出限制")
	ErrSummaryNotFound = errors.New("摘要不存在")
	ErrJobNotFound     = errors.New("分析任务不存在")
)

// BlobUploader 对象存储上传接口
type BlobUploader interface {
	UploadDocument(objectKey string, data []byte) (string, error)
}

// DocumentService 文档生命周期管理：上传入库、排队分析、结果读取
type DocumentService struct {
	documentRepo *repository.DocumentRepository
	summaryRepo  *repository.SummaryRepository
	riskRepo     *repository.RiskFlagRepository
	questionRepo *repository.QuestionRepository
	jobRepo      *repository.JobRepository
	blobStore    BlobUploader
	queue        *queue.Queue
	cfg          *config.Config
}

func NewDocumentService(
	documentRepo *repository.DocumentRepository,
	summaryRepo *repository.SummaryRepository,
	riskRepo *repository.RiskFlagRepository,
	questionRepo *repository.QuestionRepository,
	jobRepo *repository.JobRepository,
	blobStore BlobUploader,
	q *queue.Queue,
	cfg *config.Config,
) *DocumentService {
	return &DocumentService{
		documentRepo: documentRepo,
		summaryRepo:  summaryRepo,
		riskRepo:     riskRepo,
		questionRepo: questionRepo,
		jobRepo:      jobRepo,
		blobStore:    blobStore,
		queue:        q,
		cfg:          cfg,
	}
}

// Upload 接收文档：校验 → 建档 → 上传对象存储 → 建任务并入队。
// 队列未配置时只建档上传，分析由调用方同步触发。
func (s *DocumentService) Upload(ctx context.Context, filename string, data []byte) (*dto.UploadDocumentResponse, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !s.extensionAllowed(ext) {
		return nil, ErrInvalidFormat
	}
	if int64(len(data)) > s.cfg.Upload.MaxSize {
		return nil, ErrFileTooLarge
	}

	doc := &model.Document{
		Filename:         filename,
		FileSize:         int64(len(data)),
		ProcessingStatus: model.StatusPending,
	}
	if err := s.documentRepo.Create(doc); err != nil {
		return nil, err
	}

	objectKey := oss.SanitizePath(fmt.Sprintf("documents/%d/%s", doc.ID, filename))
	if _, err := s.blobStore.UploadDocument(objectKey, data); err != nil {
		// 上传失败时清掉刚建的档，避免留下无对象的记录
		if delErr := s.documentRepo.Delete(doc.ID); delErr != nil {
			log.Printf("Document %d: cleanup after failed upload: %v", doc.ID, delErr)
		}
		return nil, err
	}

	if err := s.documentRepo.UpdateFields(doc.ID, map[string]interface{}{
		"storage_path": objectKey,
	}); err != nil {
		return nil, err
	}

	resp := &dto.UploadDocumentResponse{
		DocumentID:  doc.ID,
		StoragePath: objectKey,
		Status:      model.StatusPending,
	}

	if s.queue != nil {
		job := &model.AnalysisJob{DocumentID: doc.ID, Status: "queued"}
		if err := s.jobRepo.Create(job); err != nil {
			log.Printf("Document %d: failed to create analysis job: %v", doc.ID, err)
			return resp, nil
		}
		msg := &queue.JobMessage{JobID: job.ID, DocumentID: doc.ID}
		if err := s.queue.Push(ctx, msg); err != nil {
			log.Printf("Document %d: failed to enqueue job %d: %v", doc.ID, job.ID, err)
			// 入队失败的任务留在 queued 状态，由补偿扫描重新入队
		}
		resp.JobID = job.ID
	}

	return resp, nil
}

func (s *DocumentService) extensionAllowed(ext string) bool {
	for _, allowed := range s.cfg.Upload.AllowedExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

func (s *DocumentService) Get(id int64) (*dto.DocumentDetail, error) {
	doc, err := s.documentRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDocumentNotFound
		}
		return nil, err
	}
	return documentDetail(doc), nil
}

func (s *DocumentService) List(page, pageSize int, status string) ([]*dto.DocumentListItem, int64, error) {
	docs, total, err := s.documentRepo.List(page, pageSize, status)
	if err != nil {
		return nil, 0, err
	}
	items := make([]*dto.DocumentListItem, len(docs))
	for i, doc := range docs {
		items[i] = &dto.DocumentListItem{
			ID:               doc.ID,
			Filename:         doc.Filename,
			FileSize:         doc.FileSize,
			Processed:        doc.Processed,
			ProcessingStatus: doc.ProcessingStatus,
			CreatedAt:        doc.CreatedAt.Format(time.RFC3339),
		}
	}
	return items, total, nil
}

// GetSummary 读取文档最新一条摘要
func (s *DocumentService) GetSummary(documentID int64) (*dto.SummaryData, error) {
	if _, err := s.documentRepo.GetByID(documentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDocumentNotFound
		}
		return nil, err
	}
	summary, err := s.summaryRepo.GetLatestByDocumentID(documentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSummaryNotFound
		}
		return nil, err
	}
	return summaryData(summary), nil
}

func (s *DocumentService) GetRiskFlags(documentID int64) ([]*dto.RiskFlagItem, error) {
	if _, err := s.documentRepo.GetByID(documentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDocumentNotFound
		}
		return nil, err
	}
	flags, err := s.riskRepo.ListByDocumentID(documentID)
	if err != nil {
		return nil, err
	}
	items := make([]*dto.RiskFlagItem, len(flags))
	for i, f := range flags {
		items[i] = &dto.RiskFlagItem{
			ID:          f.ID,
			Category:    f.Category,
			Severity:    f.Severity,
			Description: f.Description,
			Excerpt:     f.Excerpt,
		}
	}
	return items, nil
}

func (s *DocumentService) GetQuestions(documentID int64) ([]*dto.QuestionItem, error) {
	if _, err := s.documentRepo.GetByID(documentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDocumentNotFound
		}
		return nil, err
	}
	questions, err := s.questionRepo.ListByDocumentID(documentID)
	if err != nil {
		return nil, err
	}
	items := make([]*dto.QuestionItem, len(questions))
	for i, q := range questions {
		items[i] = &dto.QuestionItem{
			ID:           q.ID,
			QuestionText: q.QuestionText,
			Priority:     q.Priority,
		}
	}
	return items, nil
}

// GetJobStatus 查询文档最新分析任务的进度
func (s *DocumentService) GetJobStatus(documentID int64) (*dto.JobStatusResponse, error) {
	job, err := s.jobRepo.GetLatestByDocumentID(documentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, err
	}
	resp := &dto.JobStatusResponse{
		JobID:          job.ID,
		DocumentID:     job.DocumentID,
		Status:         job.Status,
		CurrentStep:    job.CurrentStep,
		ErrorMessage:   job.ErrorMessage,
		ElapsedSeconds: job.ElapsedSeconds,
	}
	if job.StartedAt != nil {
		resp.StartedAt = job.StartedAt.Format(time.RFC3339)
	}
	return resp, nil
}

func documentDetail(doc *model.Document) *dto.DocumentDetail {
	detail := &dto.DocumentDetail{
		ID:               doc.ID,
		Filename:         doc.Filename,
		StoragePath:      doc.StoragePath,
		FileSize:         doc.FileSize,
		Processed:        doc.Processed,
		ProcessingStatus: doc.ProcessingStatus,
		ErrorMessage:     doc.ErrorMessage,
		CreatedAt:        doc.CreatedAt.Format(time.RFC3339),
		UpdatedAt:        doc.UpdatedAt.Format(time.RFC3339),
	}
	if doc.ExtractedText != nil {
		detail.ExtractedText = *doc.ExtractedText
	}
	if doc.ProcessedAt != nil {
		detail.ProcessedAt = doc.ProcessedAt.Format(time.RFC3339)
	}
	return detail
}
