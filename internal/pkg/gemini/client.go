package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/hqlaw/legaldoc_go_server/config"
	"github.com/hqlaw/legaldoc_go_server/internal/analysis"
)

// 两类失败。编排器只区分这两种：都触发降级分析，自动重试不在本层做。
var (
	ErrTransport = errors.New("gemini transport error")
	ErrSchema    = errors.New("gemini response schema error")
)

// analysisSchema 约束模型必须返回的 JSON 形状。
// 所有字段可缺省，缺省字段在下游按空集合处理。
const analysisSchema = `{
	"type": "object",
	"properties": {
		"summary": {"type": "string"},
		"key_points": {"type": "array", "items": {"type": "string"}},
		"risks": {
			"type": "array",
			"items": {
				"type": "object",
				"properties": {
					"category": {"type": "string"},
					"severity": {"type": "string"},
					"description": {"type": "string"},
					"excerpt": {"type": ["string", "null"]}
				}
			}
		},
		"questions": {"type": "array", "items": {"type": "string"}}
	}
}`

type Client struct {
	cfg        *config.GeminiConfig
	httpClient *http.Client
	schema     *jsonschema.Schema
}

func NewClient(cfg *config.GeminiConfig) *Client {
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
		schema: jsonschema.MustCompileString("analysis.json", analysisSchema),
	}
}

// generateContent 请求/响应的线上格式
type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature      float64 `json:"temperature"`
	ResponseMimeType string  `json:"responseMimeType"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Analyze 调用生成式模型对文档文本做结构化法律分析。
// 输入超过 MaxInputChars 的部分直接截断（接受部分分析，不视为缺陷）。
// 网络失败、超时和非 2xx 返回 ErrTransport；
// 响应体不是合法 JSON 或不符合约定形状返回 ErrSchema。
func (c *Client) Analyze(ctx context.Context, text string) (*analysis.Result, error) {
	if len(text) > c.cfg.MaxInputChars {
		// 回退到字符边界，避免把多字节字符切成半个
		cut := c.cfg.MaxInputChars
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		text = text[:cut]
	}

	prompt := fmt.Sprintf(`Return only valid JSON:
{
  "summary": "...",
  "key_points": [],
  "risks": [],
  "questions": []
}

Document text: %s`, text)

	body, err := json.Marshal(&generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: generationConfig{
			Temperature:      c.cfg.Temperature,
			ResponseMimeType: "application/json",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s",
		c.cfg.Endpoint, c.cfg.Model, c.cfg.APIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// 超时同样按传输错误处理，由编排器降级
		return nil, fmt.Errorf("request failed: %v: %w", err, ErrTransport)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %v: %w", err, ErrTransport)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("status %d: %w", resp.StatusCode, ErrTransport)
	}

	var envelope generateResponse
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("invalid response envelope: %v: %w", err, ErrSchema)
	}

	payload := "{}"
	if len(envelope.Candidates) > 0 && len(envelope.Candidates[0].Content.Parts) > 0 {
		payload = envelope.Candidates[0].Content.Parts[0].Text
	}

	return c.parsePayload(payload)
}

// parsePayload 校验并反序列化模型产出的分析 JSON
func (c *Client) parsePayload(payload string) (*analysis.Result, error) {
	var decoded interface{}
	if err := json.Unmarshal([]byte(payload), &decoded); err != nil {
		return nil, fmt.Errorf("payload is not valid JSON: %v: %w", err, ErrSchema)
	}

	if err := c.schema.Validate(decoded); err != nil {
		return nil, fmt.Errorf("payload violates analysis schema: %v: %w", err, ErrSchema)
	}

	var result analysis.Result
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal analysis: %v: %w", err, ErrSchema)
	}

	return &result, nil
}
