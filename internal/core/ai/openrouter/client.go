package openrouter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"recipe-suggester/internal/core/ai/provider"
	"recipe-suggester/internal/infrastructure/config"
	"recipe-suggester/internal/pkg/common"
	"recipe-suggester/internal/pkg/metrics"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const upstreamName = "openrouter"

var info = provider.Info{
	Name:          "OpenRouter",
	Label:         "OpenRouter",
	KeyName:       "OpenRouter",
	CredentialEnv: "OPENROUTER_API_KEY",
}

// chatRequest OpenRouter chat completions 請求
type chatRequest struct {
	Model          string             `json:"model"`
	Messages       []provider.Message `json:"messages"`
	MaxTokens      int                `json:"max_tokens,omitempty"`
	Temperature    float64            `json:"temperature,omitempty"`
	ResponseFormat *responseFormat    `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type string `json:"type"`
}

// chatResponse OpenRouter 響應結構
type chatResponse struct {
	Choices []struct {
		Message provider.Message `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

// apiError 表示 API 錯誤
type apiError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Client OpenRouter API 客戶端
type Client struct {
	cfg    config.OpenRouterConfig
	client *resty.Client
}

// NewClient 創建新的 OpenRouter 客戶端
func NewClient(cfg config.OpenRouterConfig) *Client {
	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.APIKey)).
		SetHeader("HTTP-Referer", "https://recipe-suggester.local").
		SetHeader("X-Title", "Recipe Suggester")

	return &Client{
		cfg:    cfg,
		client: client,
	}
}

// Generate 生成回應
func (c *Client) Generate(ctx context.Context, req *provider.Request) (*provider.Response, error) {
	if !c.Configured() {
		return nil, common.NewConfigError(fmt.Sprintf("Server missing %s.", info.CredentialEnv))
	}

	body := chatRequest{
		Model:       c.cfg.Model,
		Messages:    req.Messages,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	}
	if body.MaxTokens == 0 {
		body.MaxTokens = c.cfg.MaxTokens
	}
	if req.JSON {
		body.ResponseFormat = &responseFormat{Type: "json_object"}
	}

	start := time.Now()
	resp, err := c.send(ctx, body)
	metrics.ObserveUpstream(upstreamName, start, err)
	common.LogUpstreamCall(upstreamName, time.Since(start), err)
	return resp, err
}

func (c *Client) send(ctx context.Context, body chatRequest) (*provider.Response, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(body).
		Post("/chat/completions")
	if err != nil {
		return nil, common.NewUpstreamError("OpenRouter request failed", err)
	}

	if resp.StatusCode() != http.StatusOK {
		var apiErr apiError
		msg := resp.String()
		if json.Unmarshal(resp.Body(), &apiErr) == nil && apiErr.Error.Message != "" {
			msg = apiErr.Error.Message
		}
		common.LogDebug("OpenRouter API error", zap.Int("status", resp.StatusCode()), zap.String("message", msg))
		if resp.StatusCode() == http.StatusUnauthorized {
			return nil, common.NewAuthError(fmt.Sprintf("Invalid %s (401).", info.CredentialEnv))
		}
		return nil, common.NewUpstreamError(fmt.Sprintf("OpenRouter API returned %d: %s", resp.StatusCode(), msg), nil)
	}

	var result chatResponse
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, common.NewUpstreamError("failed to parse OpenRouter response", err)
	}

	if len(result.Choices) == 0 || strings.TrimSpace(result.Choices[0].Message.Content) == "" {
		return nil, common.NewUpstreamError("OpenRouter returned an empty response.", provider.ErrEmptyResponse)
	}

	out := &provider.Response{Content: strings.TrimSpace(result.Choices[0].Message.Content)}
	out.Usage.PromptTokens = result.Usage.PromptTokens
	out.Usage.CompletionTokens = result.Usage.CompletionTokens
	out.Usage.TotalTokens = result.Usage.TotalTokens
	return out, nil
}

// Configured 是否已設定金鑰
func (c *Client) Configured() bool {
	return strings.TrimSpace(c.cfg.APIKey) != ""
}

// Info 提供者描述
func (c *Client) Info() provider.Info {
	return info
}

// GetModel 獲取當前使用的模型名稱
func (c *Client) GetModel() string {
	return c.cfg.Model
}

// GetTimeout 獲取請求超時時間
func (c *Client) GetTimeout() time.Duration {
	return c.cfg.Timeout
}

// Close 關閉閒置連線
func (c *Client) Close() error {
	c.client.GetClient().CloseIdleConnections()
	return nil
}
