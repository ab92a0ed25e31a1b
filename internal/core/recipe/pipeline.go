package recipe

import (
	"context"
	"strings"
	"time"

	"recipe-suggester/internal/pkg/common"
	"recipe-suggester/internal/pkg/metrics"

	"go.uber.org/zap"
)

// Orchestrator 將來源的食譜欄位組裝成回應
type Orchestrator struct {
	source Source
	images ImageService
}

// NewOrchestrator 創建 Orchestrator
func NewOrchestrator(source Source, images ImageService) *Orchestrator {
	return &Orchestrator{source: source, images: images}
}

// Flow 目前使用的流程名稱
func (o *Orchestrator) Flow() string {
	return o.source.Name()
}

// Suggest 處理單一請求；req 須已通過 Normalize
func (o *Orchestrator) Suggest(ctx context.Context, req common.RecipeRequest) (*common.RecipeResponse, error) {
	start := time.Now()
	resp, err := o.suggest(ctx, req)

	outcome := "success"
	if err != nil {
		outcome = common.ToCustomError(err).Code
		common.LogError("食譜產生失敗",
			zap.String("flow", o.source.Name()),
			zap.String("description", req.Description),
			zap.Error(err),
		)
	} else {
		common.LogInfo("食譜產生完成",
			zap.String("flow", o.source.Name()),
			zap.String("title", resp.Title),
			zap.Duration("耗時", time.Since(start)),
		)
	}
	metrics.Suggestions.WithLabelValues(o.source.Name(), outcome).Inc()
	return resp, err
}

func (o *Orchestrator) suggest(ctx context.Context, req common.RecipeRequest) (*common.RecipeResponse, error) {
	draft, err := o.source.Fetch(ctx, req)
	if err != nil {
		return nil, err
	}

	title := resolveTitle(draft.Title, req.Description)
	imageURL, err := o.images.ImageURL(ctx, title)
	if err != nil {
		return nil, err
	}

	totalTime := draft.TotalTimeMinutes
	if totalTime <= 0 {
		totalTime = req.MaxTime
	}

	blurb := strings.TrimSpace(draft.Blurb)
	if blurb == "" {
		blurb = NoBlurbMessage
	}

	return &common.RecipeResponse{
		Title:            title,
		ImageURL:         imageURL,
		TotalTimeMinutes: totalTime,
		SourceURL:        draft.SourceURL,
		Ingredients:      ensureIngredients(draft.Ingredients),
		Instructions:     ensureInstructions(draft.Instructions),
		AIBlurb:          blurb,
		APIUsed:          o.source.Label(),
	}, nil
}
