package service

import (
	"context"
	"fmt"
	"strings"

	"recipe-suggester/internal/core/ai/gemini"
	"recipe-suggester/internal/core/ai/openrouter"
	"recipe-suggester/internal/core/ai/provider"
	"recipe-suggester/internal/core/ai/queue"
	"recipe-suggester/internal/infrastructure/config"
	"recipe-suggester/internal/pkg/common"

	"go.uber.org/zap"
)

// Service AI 文字生成服務，包裝設定所選的提供者
type Service struct {
	provider provider.Provider
}

// NewProvider 依設定建立提供者
func NewProvider(cfg *config.Config) (provider.Provider, error) {
	switch cfg.AI.Provider {
	case config.ProviderGemini, "":
		return gemini.NewClient(cfg.Gemini), nil
	case config.ProviderOpenRouter:
		return openrouter.NewClient(cfg.OpenRouter), nil
	default:
		return nil, fmt.Errorf("unknown ai provider %q", cfg.AI.Provider)
	}
}

// NewService 創建 AI 服務
func NewService(cfg *config.Config) (*Service, error) {
	p, err := NewProvider(cfg)
	if err != nil {
		return nil, err
	}
	if cfg.Queue.Workers > 0 {
		p = queue.NewLimiter(p, cfg.Queue)
	}
	common.LogInfo("AI 服務初始化",
		zap.String("provider", p.Info().Name),
		zap.String("model", p.GetModel()),
		zap.Duration("timeout", p.GetTimeout()),
		zap.Bool("configured", p.Configured()),
		zap.Int("workers", cfg.Queue.Workers),
	)
	return NewServiceWithProvider(p), nil
}

// NewServiceWithProvider 以指定提供者創建 AI 服務
func NewServiceWithProvider(p provider.Provider) *Service {
	return &Service{provider: p}
}

// ProcessRequest 送出單一 prompt，jsonMode 要求模型只輸出 JSON
func (s *Service) ProcessRequest(ctx context.Context, prompt string, jsonMode bool) (string, error) {
	req := provider.NewPrompt(strings.TrimSpace(prompt))
	req.JSON = jsonMode

	resp, err := s.provider.Generate(ctx, req)
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}

// Info 提供者描述
func (s *Service) Info() provider.Info {
	return s.provider.Info()
}

// Configured 是否已設定憑證
func (s *Service) Configured() bool {
	return s.provider.Configured()
}

// Close 釋放提供者資源
func (s *Service) Close() error {
	return s.provider.Close()
}
