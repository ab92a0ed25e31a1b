package gemini

import (
	"context"
	"fmt"
	"strings"
	"time"

	"recipe-suggester/internal/core/ai/provider"
	"recipe-suggester/internal/infrastructure/config"
	"recipe-suggester/internal/pkg/common"
	"recipe-suggester/internal/pkg/metrics"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const upstreamName = "gemini"

var info = provider.Info{
	Name:          "Gemini",
	Label:         "Google AI Studio Gemini",
	KeyName:       "AI Studio",
	CredentialEnv: "GOOGLE_AI_STUDIO_API_KEY",
}

// Client Google AI Studio Gemini 客戶端。
// 每次 Generate 建立並關閉自己的 genai 連線。
type Client struct {
	apiKey  string
	model   string
	timeout time.Duration
}

// NewClient 創建 Gemini 客戶端
func NewClient(cfg config.GeminiConfig) *Client {
	return &Client{
		apiKey:  strings.TrimSpace(cfg.APIKey),
		model:   cfg.Model,
		timeout: cfg.Timeout,
	}
}

// Generate 呼叫 GenerateContent 並回傳第一段文字
func (c *Client) Generate(ctx context.Context, req *provider.Request) (*provider.Response, error) {
	if !c.Configured() {
		return nil, common.NewConfigError(fmt.Sprintf("Server missing %s.", info.CredentialEnv))
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	text, err := c.generate(ctx, req)
	metrics.ObserveUpstream(upstreamName, start, err)
	common.LogUpstreamCall(upstreamName, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return &provider.Response{Content: text}, nil
}

func (c *Client) generate(ctx context.Context, req *provider.Request) (string, error) {
	cl, err := genai.NewClient(ctx, option.WithAPIKey(c.apiKey))
	if err != nil {
		return "", common.NewUpstreamError("Gemini client init failed", err)
	}
	defer cl.Close()

	m := cl.GenerativeModel(c.model)
	if m == nil {
		return "", common.NewUpstreamError("Gemini model is nil", nil)
	}
	if req.JSON {
		m.ResponseMIMEType = "application/json"
	}
	if req.Temperature > 0 {
		m.SetTemperature(float32(req.Temperature))
	}
	if req.MaxTokens > 0 {
		m.SetMaxOutputTokens(int32(req.MaxTokens))
	}

	parts := make([]genai.Part, 0, len(req.Messages))
	for _, msg := range req.Messages {
		parts = append(parts, genai.Text(msg.Content))
	}

	resp, err := m.GenerateContent(ctx, parts...)
	if err != nil {
		return "", common.NewUpstreamError("Gemini request failed", err)
	}

	text := strings.TrimSpace(firstText(resp))
	if text == "" {
		return "", common.NewUpstreamError("Gemini returned an empty response.", provider.ErrEmptyResponse)
	}
	return text, nil
}

func firstText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	for _, c := range resp.Candidates {
		if c.Content == nil {
			continue
		}
		for _, p := range c.Content.Parts {
			if t, ok := p.(genai.Text); ok {
				return string(t)
			}
		}
	}
	return ""
}

// Configured 是否已設定金鑰
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// Info 提供者描述
func (c *Client) Info() provider.Info {
	return info
}

// GetModel 獲取模型名稱
func (c *Client) GetModel() string {
	return c.model
}

// GetTimeout 獲取超時時間
func (c *Client) GetTimeout() time.Duration {
	return c.timeout
}

// Close 連線在每次呼叫後已關閉
func (c *Client) Close() error {
	return nil
}
