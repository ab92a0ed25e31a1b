package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("SPOONACULAR_API_KEY", "")
	t.Setenv("GOOGLE_AI_STUDIO_API_KEY", "")
	t.Setenv("EMPL_ID", "")
	t.Setenv("LAST_NAME", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "00000000", cfg.Identity.EmplID)
	assert.Equal(t, "LastName", cfg.Identity.LastName)
	assert.Equal(t, "gemini-flash-latest", cfg.Gemini.Model)
	assert.Equal(t, 20*time.Second, cfg.Spoonacular.Timeout)
	assert.Equal(t, "https://image.pollinations.ai/prompt/", cfg.Pollinations.BaseURL)
	assert.Equal(t, FlowAuto, cfg.Pipeline.Flow)
	assert.Equal(t, ProviderGemini, cfg.AI.Provider)
	assert.False(t, cfg.Cache.Enabled)
	assert.False(t, cfg.RateLimit.Enabled)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("SPOONACULAR_API_KEY", "spoon-key-123456")
	t.Setenv("GOOGLE_AI_STUDIO_API_KEY", "gemini-key-123456")
	t.Setenv("EMPL_ID", "12345678")
	t.Setenv("LAST_NAME", "Doe")
	t.Setenv("RECIPE_FLOW", "Generate")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "spoon-key-123456", cfg.Spoonacular.APIKey)
	assert.Equal(t, "gemini-key-123456", cfg.Gemini.APIKey)
	assert.Equal(t, "12345678", cfg.Identity.EmplID)
	assert.Equal(t, "Doe", cfg.Identity.LastName)
	assert.Equal(t, FlowGenerate, cfg.Pipeline.Flow)
}

func TestLoadConfigRejectsUnknownFlow(t *testing.T) {
	t.Setenv("RECIPE_FLOW", "scrape")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown pipeline flow")
}

func TestResolvedFlow(t *testing.T) {
	tests := []struct {
		name   string
		flow   string
		apiKey string
		want   string
	}{
		{name: "auto with key", flow: FlowAuto, apiKey: "k", want: FlowSearch},
		{name: "auto without key", flow: FlowAuto, want: FlowGenerate},
		{name: "forced search", flow: FlowSearch, want: FlowSearch},
		{name: "forced generate", flow: FlowGenerate, apiKey: "k", want: FlowGenerate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				Pipeline:    PipelineConfig{Flow: tt.flow},
				Spoonacular: SpoonacularConfig{APIKey: tt.apiKey},
			}
			assert.Equal(t, tt.want, cfg.ResolvedFlow())
		})
	}
}

func TestMaskAPIKey(t *testing.T) {
	assert.Equal(t, "(unset)", maskAPIKey(""))
	assert.Equal(t, "****", maskAPIKey("short"))
	assert.Equal(t, "abcd...wxyz", maskAPIKey("abcdefghijklmnopqrstuvwxyz"))
}
