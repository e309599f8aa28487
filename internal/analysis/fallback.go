package analysis

import (
	"fmt"
	"regexp"
	"strings"
)

// unreadablePattern 命中说明提取出的文本本身不可读（加密/损坏/混淆）
var unreadablePattern = regexp.MustCompile(`(?i)failed to load pdf|no readable text|unreadable|corrupt|corrupted|encrypted|obfuscat`)

const unreadableSummary = "This document appears to be a highly obfuscated or encrypted PDF file. It contains a lot of unreadable characters and symbols, making it impossible to extract any meaningful information. Without the ability to decrypt or properly render the content, a comprehensive analysis of its legal implications is not possible. Therefore, I am unable to provide a summary, key points, or risk flags based on the provided input. It is crucial to have a clear and readable document for accurate legal analysis."

var unreadableKeyPoints = []string{
	"The document is unreadable and likely encrypted or corrupted.",
	"No meaningful text or content can be extracted for analysis.",
	"Legal analysis requires a clear and decipherable document.",
	"Summary, key points, and risk flags cannot be generated from the current input.",
}

// Unreadable 返回不可读文档的固定分析结果
func Unreadable() *Result {
	return &Result{
		Summary:   unreadableSummary,
		KeyPoints: append([]string(nil), unreadableKeyPoints...),
		Risks:     []Risk{},
		Questions: []string{},
	}
}

// Fallback 在 AI 分析不可用时生成确定性的降级分析。
// 纯函数，不做 I/O，永不失败。
//
// 两种模式：文本命中不可读特征时返回固定的"无法分析"叙述；
// 否则按词数生成降级摘要，并附带一条 Processing/low 风险提示人工复核。
func Fallback(text string) *Result {
	if unreadablePattern.MatchString(text) {
		return Unreadable()
	}

	wordCount := 0
	if strings.TrimSpace(text) != "" {
		wordCount = len(strings.Fields(text))
	}

	excerpt := "Analysis required manual review"
	return &Result{
		Summary: fmt.Sprintf("Document contains %d words of text. Manual review recommended for detailed analysis.", wordCount),
		KeyPoints: []string{
			"Text extraction successful",
			"AI analysis incomplete",
			"Human review suggested",
		},
		Risks: []Risk{
			{
				Category:    "Processing",
				Severity:    "low",
				Description: "Automatic analysis was incomplete",
				Excerpt:     &excerpt,
			},
		},
		Questions: []string{
			"What is the main purpose of this document?",
			"Are there any deadlines or important dates?",
		},
	}
}
