package recipe

import (
	"recipe-suggester/internal/core/ai/service"
	"recipe-suggester/internal/core/cache"
	"recipe-suggester/internal/core/image"
	"recipe-suggester/internal/core/spoonacular"
	"recipe-suggester/internal/infrastructure/config"
	"recipe-suggester/internal/pkg/common"

	"go.uber.org/zap"
)

// Build 依設定組裝 Orchestrator；store 可為 nil
func Build(cfg *config.Config, store cache.Store) (*Orchestrator, error) {
	text, err := service.NewService(cfg)
	if err != nil {
		return nil, err
	}
	images := image.NewService(cfg.Pollinations)

	var source Source
	switch cfg.ResolvedFlow() {
	case config.FlowSearch:
		source = NewSearchSource(spoonacular.NewClient(cfg.Spoonacular, store), text, images)
	default:
		source = NewGenerateSource(text)
	}

	common.LogInfo("食譜流程已設定",
		zap.String("flow", source.Name()),
		zap.String("api_used", source.Label()),
	)
	return NewOrchestrator(source, images), nil
}
