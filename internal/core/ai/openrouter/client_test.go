package openrouter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"recipe-suggester/internal/core/ai/provider"
	"recipe-suggester/internal/infrastructure/config"
	"recipe-suggester/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(config.OpenRouterConfig{
		APIKey:    "test-key",
		BaseURL:   server.URL,
		Model:     "test/model",
		MaxTokens: 256,
		Timeout:   5 * time.Second,
	})
}

func TestGenerateSuccess(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var body chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "test/model", body.Model)
		assert.Equal(t, 256, body.MaxTokens)
		require.NotNil(t, body.ResponseFormat)
		assert.Equal(t, "json_object", body.ResponseFormat.Type)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"  {\"title\":\"Soup\"} "}}],"usage":{"total_tokens":12}}`))
	})

	req := provider.NewPrompt("make soup")
	req.JSON = true
	resp, err := c.Generate(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, `{"title":"Soup"}`, resp.Content)
	assert.Equal(t, 12, resp.Usage.TotalTokens)
}

func TestGenerateEmptyResponse(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	})

	_, err := c.Generate(context.Background(), provider.NewPrompt("hi"))
	require.Error(t, err)
	assert.ErrorIs(t, err, provider.ErrEmptyResponse)
	assert.ErrorIs(t, err, common.ErrUpstream)
}

func TestGenerateHTTPErrors(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"bad key"}}`))
	})
	_, err := c.Generate(context.Background(), provider.NewPrompt("hi"))
	assert.ErrorIs(t, err, common.ErrAuth)

	c = newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":{"message":"overloaded"}}`))
	})
	_, err = c.Generate(context.Background(), provider.NewPrompt("hi"))
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrUpstream)
	assert.Contains(t, err.Error(), "overloaded")
}

func TestGenerateWithoutKey(t *testing.T) {
	c := NewClient(config.OpenRouterConfig{BaseURL: "http://127.0.0.1:1"})
	_, err := c.Generate(context.Background(), provider.NewPrompt("hi"))
	assert.ErrorIs(t, err, common.ErrConfig)
}
