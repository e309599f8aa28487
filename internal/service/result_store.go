package service

import (
	"log"
	"time"

	"github.com/hqlaw/legaldoc_go_server/internal/analysis"
	"github.com/hqlaw/legaldoc_go_server/internal/model"
	"github.com/hqlaw/legaldoc_go_server/internal/repository"
)

// ResultStore 把一次分析结果投影到三张派生表并推进文档状态。
// 各步骤独立提交：底层存储没有跨表事务，写风险失败不应拦住摘要
// 和状态更新——残缺的持久化记录好过没有记录。
type ResultStore struct {
	summaryRepo  *repository.SummaryRepository
	riskRepo     *repository.RiskFlagRepository
	questionRepo *repository.QuestionRepository
	documentRepo *repository.DocumentRepository
}

func NewResultStore(
	summaryRepo *repository.SummaryRepository,
	riskRepo *repository.RiskFlagRepository,
	questionRepo *repository.QuestionRepository,
	documentRepo *repository.DocumentRepository,
) *ResultStore {
	return &ResultStore{
		summaryRepo:  summaryRepo,
		riskRepo:     riskRepo,
		questionRepo: questionRepo,
		documentRepo: documentRepo,
	}
}

// Persist 按固定顺序写入：摘要 → 风险标记 → 跟进问题 → 文档状态。
// 每步失败只记日志不中断。返回已插入的摘要记录（插入失败时为 nil）。
// 可信度由结果来源和内容共同决定，见 Outcome.Confidence。
func (s *ResultStore) Persist(documentID int64, outcome analysis.Outcome) *model.Summary {
	result := outcome.Result
	plainSummary := result.Summary
	if plainSummary == "" {
		plainSummary = "No summary"
	}
	keyPoints := result.KeyPoints
	if keyPoints == nil {
		keyPoints = []string{}
	}

	summary := &model.Summary{
		DocumentID:   documentID,
		PlainSummary: plainSummary,
		KeyPoints:    keyPoints,
		Confidence:   outcome.Confidence(),
	}
	if err := s.summaryRepo.Create(summary); err != nil {
		log.Printf("Document %d: failed to insert summary: %v", documentID, err)
		summary = nil
	}

	if len(result.Risks) > 0 {
		flags := make([]*model.RiskFlag, len(result.Risks))
		for i, r := range result.Risks {
			flags[i] = riskFlagFrom(documentID, r)
		}
		if err := s.riskRepo.BatchCreate(flags); err != nil {
			log.Printf("Document %d: failed to insert risk flags: %v", documentID, err)
		}
	}

	if len(result.Questions) > 0 {
		questions := make([]*model.DocumentQuestion, len(result.Questions))
		for i, q := range result.Questions {
			// 前 3 个问题按位置定为高优先级，与模型无关
			priority := "medium"
			if i < 3 {
				priority = "high"
			}
			questions[i] = &model.DocumentQuestion{
				DocumentID:   documentID,
				QuestionText: q,
				Priority:     priority,
			}
		}
		if err := s.questionRepo.BatchCreate(questions); err != nil {
			log.Printf("Document %d: failed to insert questions: %v", documentID, err)
		}
	}

	now := time.Now()
	err := s.documentRepo.UpdateFields(documentID, map[string]interface{}{
		"processed":         true,
		"processing_status": model.StatusAnalyzed,
		"processed_at":      &now,
	})
	if err != nil {
		log.Printf("Document %d: failed to update status: %v", documentID, err)
	}

	return summary
}

// PersistUnreadable 损坏文档的终态写入：只插入固定的"无法分析"摘要
// （低可信度），不产生风险和问题，processing_status 停在 corrupted。
func (s *ResultStore) PersistUnreadable(documentID int64) *model.Summary {
	outcome := analysis.Outcome{
		Source: analysis.SourceUnreadable,
		Result: analysis.Unreadable(),
	}

	summary := &model.Summary{
		DocumentID:   documentID,
		PlainSummary: outcome.Result.Summary,
		KeyPoints:    outcome.Result.KeyPoints,
		Confidence:   outcome.Confidence(),
	}
	if err := s.summaryRepo.Create(summary); err != nil {
		log.Printf("Document %d: failed to insert unreadable summary: %v", documentID, err)
		summary = nil
	}

	now := time.Now()
	err := s.documentRepo.UpdateFields(documentID, map[string]interface{}{
		"processed":     true,
		"error_message": "Corrupted PDF",
		"processed_at":  &now,
	})
	if err != nil {
		log.Printf("Document %d: failed to update status: %v", documentID, err)
	}

	return summary
}

// riskFlagFrom 缺失字段填默认值：category=general，severity=medium
func riskFlagFrom(documentID int64, r analysis.Risk) *model.RiskFlag {
	category := r.Category
	if category == "" {
		category = "general"
	}
	severity := r.Severity
	if severity == "" {
		severity = "medium"
	}
	return &model.RiskFlag{
		DocumentID:  documentID,
		Category:    category,
		Severity:    severity,
		Description: r.Description,
		Excerpt:     r.Excerpt,
	}
}
