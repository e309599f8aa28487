package testutil

import (
	"fmt"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/hqlaw/legaldoc_go_server/internal/model"
)

// TestDocument 创建测试文档
func TestDocument(t *testing.T, db *gorm.DB, opts ...func(*model.Document)) *model.Document {
	t.Helper()

	doc := &model.Document{
		Filename:         fmt.Sprintf("contract_%d.pdf", time.Now().UnixNano()%100000),
		StoragePath:      "documents/1/contract.pdf",
		FileSize:         2048,
		ProcessingStatus: model.StatusPending,
	}

	for _, opt := range opts {
		opt(doc)
	}

	if err := db.Create(doc).Error; err != nil {
		t.Fatalf("Failed to create test document: %v", err)
	}

	return doc
}

// WithFilename 设置文件名
func WithFilename(filename string) func(*model.Document) {
	return func(d *model.Document) {
		d.Filename = filename
	}
}

// WithStoragePath 设置存储路径
func WithStoragePath(path string) func(*model.Document) {
	return func(d *model.Document) {
		d.StoragePath = path
	}
}

// WithStatus 设置处理状态
func WithStatus(status string) func(*model.Document) {
	return func(d *model.Document) {
		d.ProcessingStatus = status
	}
}

// WithProcessed 设置处理完成标记
func WithProcessed(processed bool) func(*model.Document) {
	return func(d *model.Document) {
		d.Processed = processed
	}
}

// WithExtractedText 设置提取文本
func WithExtractedText(text string) func(*model.Document) {
	return func(d *model.Document) {
		d.ExtractedText = &text
	}
}

// TestSummary 创建测试摘要
func TestSummary(t *testing.T, db *gorm.DB, documentID int64, opts ...func(*model.Summary)) *model.Summary {
	t.Helper()

	summary := &model.Summary{
		DocumentID:   documentID,
		PlainSummary: "Test summary of the agreement",
		KeyPoints:    model.StringArray{"Point one", "Point two"},
		Confidence:   0.9,
	}

	for _, opt := range opts {
		opt(summary)
	}

	if err := db.Create(summary).Error; err != nil {
		t.Fatalf("Failed to create test summary: %v", err)
	}

	return summary
}

// WithConfidence 设置可信度
func WithConfidence(confidence float64) func(*model.Summary) {
	return func(s *model.Summary) {
		s.Confidence = confidence
	}
}

// TestRiskFlag 创建测试风险标记
func TestRiskFlag(t *testing.T, db *gorm.DB, documentID int64, category, severity string) *model.RiskFlag {
	t.Helper()

	flag := &model.RiskFlag{
		DocumentID:  documentID,
		Category:    category,
		Severity:    severity,
		Description: "Test risk description",
	}

	if err := db.Create(flag).Error; err != nil {
		t.Fatalf("Failed to create test risk flag: %v", err)
	}

	return flag
}

// TestQuestion 创建测试跟进问题
func TestQuestion(t *testing.T, db *gorm.DB, documentID int64, text, priority string) *model.DocumentQuestion {
	t.Helper()

	question := &model.DocumentQuestion{
		DocumentID:   documentID,
		QuestionText: text,
		Priority:     priority,
	}

	if err := db.Create(question).Error; err != nil {
		t.Fatalf("Failed to create test question: %v", err)
	}

	return question
}

// TestJob 创建测试任务
func TestJob(t *testing.T, db *gorm.DB, documentID int64, status string) *model.AnalysisJob {
	t.Helper()

	job := &model.AnalysisJob{
		DocumentID: documentID,
		Status:     status,
	}

	if err := db.Create(job).Error; err != nil {
		t.Fatalf("Failed to create test job: %v", err)
	}

	return job
}
