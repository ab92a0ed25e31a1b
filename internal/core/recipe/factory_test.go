package recipe

import (
	"testing"

	"recipe-suggester/internal/infrastructure/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func factoryConfig(flow, spoonKey string) *config.Config {
	return &config.Config{
		Spoonacular:  config.SpoonacularConfig{APIKey: spoonKey, BaseURL: "http://127.0.0.1:1"},
		AI:           config.AIConfig{Provider: config.ProviderGemini},
		Queue:        config.QueueConfig{Workers: 2, MaxSize: 4},
		Pollinations: config.PollinationsConfig{BaseURL: "https://image.pollinations.ai/prompt/"},
		Pipeline:     config.PipelineConfig{Flow: flow},
	}
}

func TestBuildSelectsFlow(t *testing.T) {
	tests := []struct {
		name     string
		flow     string
		spoonKey string
		want     string
		label    string
	}{
		{
			name:     "auto with key",
			flow:     config.FlowAuto,
			spoonKey: "k",
			want:     "search",
			label:    "Spoonacular (recipes) + Pollinations (image) + Google AI Studio Gemini (blurb)",
		},
		{
			name:  "auto without key",
			flow:  config.FlowAuto,
			want:  "generate",
			label: "Google AI Studio Gemini (recipe) + Pollinations (image)",
		},
		{
			name: "forced search",
			flow: config.FlowSearch,
			want: "search",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, err := Build(factoryConfig(tt.flow, tt.spoonKey), nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, o.Flow())
			if tt.label != "" {
				assert.Equal(t, tt.label, o.source.Label())
			}
		})
	}
}

func TestBuildRejectsUnknownProvider(t *testing.T) {
	cfg := factoryConfig(config.FlowAuto, "")
	cfg.AI.Provider = "llama"
	_, err := Build(cfg, nil)
	assert.Error(t, err)
}
