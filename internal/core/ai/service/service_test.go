package service

import (
	"context"
	"testing"
	"time"

	"recipe-suggester/internal/core/ai/provider"
	"recipe-suggester/internal/infrastructure/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	last *provider.Request
}

func (p *stubProvider) Generate(_ context.Context, req *provider.Request) (*provider.Response, error) {
	p.last = req
	return &provider.Response{Content: "ok"}, nil
}
func (p *stubProvider) Configured() bool          { return true }
func (p *stubProvider) Info() provider.Info       { return provider.Info{Name: "Stub"} }
func (p *stubProvider) GetModel() string          { return "stub" }
func (p *stubProvider) GetTimeout() time.Duration { return time.Second }
func (p *stubProvider) Close() error              { return nil }

func TestNewProviderSelection(t *testing.T) {
	cfg := &config.Config{AI: config.AIConfig{Provider: config.ProviderGemini}}
	p, err := NewProvider(cfg)
	require.NoError(t, err)
	assert.Equal(t, "Gemini", p.Info().Name)

	cfg.AI.Provider = config.ProviderOpenRouter
	p, err = NewProvider(cfg)
	require.NoError(t, err)
	assert.Equal(t, "OpenRouter", p.Info().Name)

	cfg.AI.Provider = "llama"
	_, err = NewProvider(cfg)
	assert.Error(t, err)
}

func TestProcessRequest(t *testing.T) {
	stub := &stubProvider{}
	svc := NewServiceWithProvider(stub)

	out, err := svc.ProcessRequest(context.Background(), "  describe soup \n", true)
	require.NoError(t, err)
	assert.Equal(t, "ok", out)
	require.NotNil(t, stub.last)
	assert.True(t, stub.last.JSON)
	assert.Equal(t, "describe soup", stub.last.Messages[0].Content)
	assert.True(t, svc.Configured())
}
