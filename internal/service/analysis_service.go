package service

import (
	"context"
	"errors"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/hqlaw/legaldoc_go_server/config"
	"github.com/hqlaw/legaldoc_go_server/internal/analysis"
	"github.com/hqlaw/legaldoc_go_server/internal/extract"
	"github.com/hqlaw/legaldoc_go_server/internal/model"
	"github.com/hqlaw/legaldoc_go_server/internal/model/dto"
	"github.com/hqlaw/legaldoc_go_server/internal/pkg/oss"
	"github.com/hqlaw/legaldoc_go_server/internal/pkg/pubsub"
	"github.com/hqlaw/legaldoc_go_server/internal/repository"
)

// 致命错误：中止本次运行，不降级不重试
var (
	ErrDocumentNotFound = errors.New("文档不存在")
	ErrStorageDownload  = errors.New("文档下载失败")
	ErrMissingAIConfig  = errors.New("缺少 AI 服务配置")
)

// Analyzer AI 分析客户端的窄接口，便于替换具体提供方
type Analyzer interface {
	Analyze(ctx context.Context, text string) (*analysis.Result, error)
}

// BlobDownloader 对象存储下载接口
type BlobDownloader interface {
	Download(objectKey string) ([]byte, error)
}

// Extractor 文本提取步骤，可插拔。返回文本和损坏标记，不返回错误。
type Extractor func(data []byte) (text string, corrupted bool)

// ProgressFunc 流水线阶段通知回调，step 取 pubsub 包的阶段常量
type ProgressFunc func(ctx context.Context, documentID int64, step string)

// AnalysisService 分析流水线编排器。
// 串行执行：下载 → 提取 → AI 分析（失败则降级）→ 持久化。
type AnalysisService struct {
	documentRepo *repository.DocumentRepository
	resultStore  *ResultStore
	blobStore    BlobDownloader
	ai           Analyzer
	extractor    Extractor
	progress     ProgressFunc
	cfg          *config.Config
}

func NewAnalysisService(
	documentRepo *repository.DocumentRepository,
	resultStore *ResultStore,
	blobStore BlobDownloader,
	ai Analyzer,
	cfg *config.Config,
) *AnalysisService {
	return &AnalysisService{
		documentRepo: documentRepo,
		resultStore:  resultStore,
		blobStore:    blobStore,
		ai:           ai,
		extractor:    extract.PDF,
		cfg:          cfg,
	}
}

// SetExtractor 替换文本提取实现（测试用）
func (s *AnalysisService) SetExtractor(fn Extractor) {
	s.extractor = fn
}

// SetProgressFunc 安装阶段通知回调。未安装时流水线不发进度。
func (s *AnalysisService) SetProgressFunc(fn ProgressFunc) {
	s.progress = fn
}

func (s *AnalysisService) reportProgress(ctx context.Context, documentID int64, step string) {
	if s.progress != nil {
		s.progress(ctx, documentID, step)
	}
}

// Analyze 对指定文档执行一次完整的分析流水线。
//
// 返回值约定：
//   - 损坏文档返回 Success=false + Message="Corrupted PDF"，error 为 nil
//     （内容性终态，不是故障，不应自动重试）
//   - AI 失败降级后仍返回 Success=true，低可信度内容即为信号
//   - 致命错误（文档缺失、下载失败、配置缺失）返回 error
//
// 对已处理文档重复调用是允许的：追加新的结果行并覆盖提取文本。
func (s *AnalysisService) Analyze(ctx context.Context, documentID int64) (*dto.AnalyzeResult, error) {
	doc, err := s.documentRepo.GetByID(documentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDocumentNotFound
		}
		return nil, err
	}

	s.reportProgress(ctx, documentID, pubsub.StepDownloading)
	data, err := s.blobStore.Download(oss.SanitizePath(doc.StoragePath))
	if err != nil {
		log.Printf("Document %d: download failed: %v", documentID, err)
		return nil, ErrStorageDownload
	}

	s.reportProgress(ctx, documentID, pubsub.StepExtracting)
	text, corrupted := s.extractor(data)

	// 提取进度立即落库，后续步骤失败也要保留
	status := model.StatusExtracted
	if corrupted {
		status = model.StatusCorrupted
	}
	if err := s.documentRepo.UpdateFields(documentID, map[string]interface{}{
		"extracted_text":    text,
		"processing_status": status,
	}); err != nil {
		log.Printf("Document %d: failed to save extraction progress: %v", documentID, err)
	}

	if corrupted {
		summary := s.resultStore.PersistUnreadable(documentID)
		return &dto.AnalyzeResult{
			Success:       false,
			Message:       "Corrupted PDF",
			ExtractedText: text,
			Source:        string(analysis.SourceUnreadable),
			Summary:       summaryData(summary),
		}, nil
	}

	if s.ai == nil || s.cfg.Gemini.APIKey == "" {
		// 部署问题而不是内容问题，整体中止
		return nil, ErrMissingAIConfig
	}

	s.reportProgress(ctx, documentID, pubsub.StepAnalyzing)
	result, err := s.ai.Analyze(ctx, text)
	outcome := analysis.Outcome{Source: analysis.SourceAI, Result: result}
	if err != nil {
		if ctx.Err() != nil {
			// 调用方已取消且持久化未开始：不落任何写
			return nil, ctx.Err()
		}
		// 传输错误、超时、响应不合形状，一律降级，绝不外抛
		log.Printf("Document %d: AI analysis failed, using fallback: %v", documentID, err)
		outcome = analysis.Outcome{Source: analysis.SourceFallback, Result: analysis.Fallback(text)}
	}

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	// 持久化开始后运行到底，不再响应取消
	s.reportProgress(ctx, documentID, pubsub.StepStoring)
	stored := s.resultStore.Persist(documentID, outcome)

	return &dto.AnalyzeResult{
		Success:  true,
		Source:   string(outcome.Source),
		Summary:  summaryData(stored),
		Analysis: outcome.Result,
	}, nil
}

func summaryData(m *model.Summary) *dto.SummaryData {
	if m == nil {
		return nil
	}
	return &dto.SummaryData{
		ID:           m.ID,
		DocumentID:   m.DocumentID,
		PlainSummary: m.PlainSummary,
		KeyPoints:    m.KeyPoints,
		Confidence:   m.Confidence,
		CreatedAt:    m.CreatedAt.Format(time.RFC3339),
	}
}
