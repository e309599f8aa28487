package model

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// StringArray 用于 JSON 数组字段
type StringArray []string

func (s StringArray) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	return json.Marshal(s)
}

func (s *StringArray) Scan(value interface{}) error {
	if value == nil {
		*s = []string{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		if str, isStr := value.(string); isStr {
			bytes = []byte(str)
		} else {
			return nil
		}
	}
	return json.Unmarshal(bytes, s)
}

// Summary 每次分析插入一行，不做更新（重新分析追加新行）
type Summary struct {
	ID           int64       `gorm:"primaryKey" json:"id"`
	DocumentID   int64       `gorm:"not null;index" json:"document_id"`
	PlainSummary string      `gorm:"type:text;not null" json:"plain_summary"`
	KeyPoints    StringArray `gorm:"type:json" json:"key_points"`
	Confidence   float64     `gorm:"not null" json:"confidence"`
	CreatedAt    time.Time   `gorm:"index" json:"created_at"`
}

func (Summary) TableName() string {
	return "summaries"
}

type RiskFlag struct {
	ID          int64     `gorm:"primaryKey" json:"id"`
	DocumentID  int64     `gorm:"not null;index" json:"document_id"`
	Category    string    `gorm:"size:100;not null" json:"category"`
	Severity    string    `gorm:"size:20;not null" json:"severity"` // low, medium, high, critical
	Description string    `gorm:"type:text" json:"description"`
	Excerpt     *string   `gorm:"type:text" json:"excerpt,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func (RiskFlag) TableName() string {
	return "risk_flags"
}

type DocumentQuestion struct {
	ID           int64     `gorm:"primaryKey" json:"id"`
	DocumentID   int64     `gorm:"not null;index" json:"document_id"`
	QuestionText string    `gorm:"type:text;not null" json:"question_text"`
	Priority     string    `gorm:"size:20;not null" json:"priority"` // high, medium
	CreatedAt    time.Time `json:"created_at"`
}

func (DocumentQuestion) TableName() string {
	return "document_questions"
}
