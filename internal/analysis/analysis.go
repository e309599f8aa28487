package analysis

// Risk 单条风险标记。字段允许缺失，入库时统一填默认值。
type Risk struct {
	Category    string  `json:"category,omitempty"`
	Severity    string  `json:"severity,omitempty"`
	Description string  `json:"description,omitempty"`
	Excerpt     *string `json:"excerpt,omitempty"`
}

// Result 一次文档分析的产物，仅存在于内存中，
// 持久化时投影到 summaries / risk_flags / document_questions 三张表。
type Result struct {
	Summary   string   `json:"summary,omitempty"`
	KeyPoints []string `json:"key_points,omitempty"`
	Risks     []Risk   `json:"risks,omitempty"`
	Questions []string `json:"questions,omitempty"`
}

// Source 分析结果来源
type Source string

const (
	SourceAI         Source = "ai"
	SourceFallback   Source = "fallback"
	SourceUnreadable Source = "unreadable"
)

// Outcome 带来源标记的分析结果。编排器根据 Source 决定文档终态，
// 不依赖错误类型判断。
type Outcome struct {
	Source Source
	Result *Result
}

// Confidence 返回结果的可信度评分。
// 不可读文档固定 0.1；有摘要 0.9，否则 0.3。
func (o Outcome) Confidence() float64 {
	if o.Source == SourceUnreadable {
		return 0.1
	}
	return ConfidenceFor(o.Result)
}

// ConfidenceFor 摘要存在时为高可信度
func ConfidenceFor(r *Result) float64 {
	if r != nil && r.Summary != "" {
		return 0.9
	}
	return 0.3
}
