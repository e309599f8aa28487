package dto

import (
	"github.com/hqlaw/legaldoc_go_server/internal/analysis"
)

type UploadDocumentResponse struct {
	DocumentID  int64  `json:"document_id"`
	JobID       int64  `json:"job_id,omitempty"`
	StoragePath string `json:"storage_path"`
	Status      string `json:"status"`
}

// SummaryData 返回给调用方的摘要记录
type SummaryData struct {
	ID           int64    `json:"id"`
	DocumentID   int64    `json:"document_id"`
	PlainSummary string   `json:"plain_summary"`
	KeyPoints    []string `json:"key_points"`
	Confidence   float64  `json:"confidence"`
	CreatedAt    string   `json:"created_at,omitempty"`
}

// AnalyzeResult 一次分析调用的结果信封。
// Success=false 且 Message 非空表示"文档损坏"这类内容性终态，不是错误。
type AnalyzeResult struct {
	Success       bool             `json:"success"`
	Message       string           `json:"message,omitempty"`
	ExtractedText string           `json:"extracted_text,omitempty"`
	Source        string           `json:"source,omitempty"` // ai, fallback, unreadable
	Summary       *SummaryData     `json:"summary,omitempty"`
	Analysis      *analysis.Result `json:"analysis,omitempty"`
}

type DocumentDetail struct {
	ID               int64  `json:"id"`
	Filename         string `json:"filename"`
	StoragePath      string `json:"storage_path"`
	FileSize         int64  `json:"file_size"`
	ExtractedText    string `json:"extracted_text,omitempty"`
	Processed        bool   `json:"processed"`
	ProcessingStatus string `json:"processing_status"`
	ErrorMessage     string `json:"error_message,omitempty"`
	CreatedAt        string `json:"created_at"`
	UpdatedAt        string `json:"updated_at"`
	ProcessedAt      string `json:"processed_at,omitempty"`
}

type DocumentListItem struct {
	ID               int64  `json:"id"`
	Filename         string `json:"filename"`
	FileSize         int64  `json:"file_size"`
	Processed        bool   `json:"processed"`
	ProcessingStatus string `json:"processing_status"`
	CreatedAt        string `json:"created_at"`
}

type RiskFlagItem struct {
	ID          int64   `json:"id"`
	Category    string  `json:"category"`
	Severity    string  `json:"severity"`
	Description string  `json:"description"`
	Excerpt     *string `json:"excerpt,omitempty"`
}

type QuestionItem struct {
	ID           int64  `json:"id"`
	QuestionText string `json:"question_text"`
	Priority     string `json:"priority"`
}

type JobStatusResponse struct {
	JobID          int64  `json:"job_id"`
	DocumentID     int64  `json:"document_id"`
	Status         string `json:"status"`
	CurrentStep    string `json:"current_step,omitempty"`
	ErrorMessage   string `json:"error_message,omitempty"`
	StartedAt      string `json:"started_at,omitempty"`
	ElapsedSeconds int    `json:"elapsed_seconds,omitempty"`
}
