package model

import (
	"time"
)

// 文档处理状态
const (
	StatusPending   = "pending"
	StatusExtracted = "extracted"
	StatusCorrupted = "corrupted"
	StatusAnalyzed  = "analyzed"
)

type Document struct {
	ID               int64      `gorm:"primaryKey" json:"id"`
	Filename         string     `gorm:"size:255;not null" json:"filename"`
	StoragePath      string     `gorm:"size:500;not null" json:"storage_path"`
	FileSize         int64      `json:"file_size"`
	ExtractedText    *string    `gorm:"type:text" json:"extracted_text,omitempty"`
	Processed        bool       `gorm:"default:false;index" json:"processed"`
	ProcessingStatus string     `gorm:"size:20;default:pending;index" json:"processing_status"` // pending, extracted, corrupted, analyzed
	ErrorMessage     string     `gorm:"type:text" json:"error_message,omitempty"`
	CreatedAt        time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
	ProcessedAt      *time.Time `json:"processed_at,omitempty"`
}

func (Document) TableName() string {
	return "documents"
}
