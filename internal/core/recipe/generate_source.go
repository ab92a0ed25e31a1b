package recipe

import (
	"context"
	"fmt"

	"recipe-suggester/internal/pkg/common"
)

// GenerateSource 以文字生成服務產生完整食譜
type GenerateSource struct {
	text TextGenerator
}

// NewGenerateSource 創建生成來源
func NewGenerateSource(text TextGenerator) *GenerateSource {
	return &GenerateSource{text: text}
}

// Name 流程名稱
func (s *GenerateSource) Name() string {
	return "generate"
}

// Label 回應中的 api_used
func (s *GenerateSource) Label() string {
	return fmt.Sprintf("%s (recipe) + Pollinations (image)", s.text.Info().Label)
}

// Fetch 生成並解析食譜 JSON
func (s *GenerateSource) Fetch(ctx context.Context, req common.RecipeRequest) (*Draft, error) {
	if !s.text.Configured() {
		return nil, common.NewConfigError(fmt.Sprintf("Server missing %s.", s.text.Info().CredentialEnv))
	}

	text, err := s.text.ProcessRequest(ctx, GenerationPrompt(req.Description, req.MaxTime), true)
	if err != nil {
		return nil, err
	}

	generated, err := ParseGeneratedRecipe(text, req)
	if err != nil {
		return nil, err
	}

	return &Draft{
		Title:            generated.Title,
		TotalTimeMinutes: generated.TotalTimeMinutes,
		Ingredients:      generated.Ingredients,
		Instructions:     generated.Instructions,
		Blurb:            generated.Blurb,
	}, nil
}
