package provider

import (
	"context"
	"errors"
	"time"
)

// ErrEmptyResponse 模型回傳空內容
var ErrEmptyResponse = errors.New("empty response")

// Message 表示與 AI 模型的對話消息
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request 表示發送到 AI 提供者的請求
type Request struct {
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Temperature float64   `json:"temperature,omitempty"`
	// JSON 要求模型只輸出 JSON
	JSON bool `json:"-"`
}

// NewPrompt 以單一 user 訊息建立請求
func NewPrompt(prompt string) *Request {
	return &Request{Messages: []Message{{Role: "user", Content: prompt}}}
}

// Response 表示從 AI 提供者收到的響應
type Response struct {
	Content string `json:"content"`
	Usage   struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

// Info 描述提供者，用於標籤與錯誤訊息
type Info struct {
	Name          string // 簡稱，例如 "Gemini"
	Label         string // 回應中 api_used 使用的名稱
	KeyName       string // 金鑰名稱，例如 "AI Studio"
	CredentialEnv string // 對應的環境變數
}

// Provider 定義 AI 提供者介面
type Provider interface {
	// Generate 生成 AI 響應
	Generate(ctx context.Context, req *Request) (*Response, error)

	// Configured 是否已設定憑證
	Configured() bool

	// Info 提供者描述
	Info() Info

	// GetModel 獲取當前使用的模型名稱
	GetModel() string

	// GetTimeout 獲取請求超時時間
	GetTimeout() time.Duration

	// Close 關閉提供者連接
	Close() error
}
