package recipe

import (
	"context"

	"recipe-suggester/internal/core/ai/provider"
	"recipe-suggester/internal/core/spoonacular"
	"recipe-suggester/internal/pkg/common"
)

// 無資料時使用的固定文字
const (
	NoInstructionsMessage = "No step-by-step instructions were returned by the API for this recipe."
	NoIngredientsName     = "N/A"
	NoIngredientsAmount   = "No ingredients returned by the API."
	DefaultIngredientName = "ingredient"
	NoBlurbMessage        = "No description available."
)

// Draft 來源填好的食譜欄位，圖片 URL 與標籤由 Orchestrator 補上
type Draft struct {
	Title            string
	TotalTimeMinutes int
	SourceURL        *string
	Ingredients      []common.Ingredient
	Instructions     []string
	Blurb            string
}

// Source 食譜來源：搜尋後補充，或完全生成
type Source interface {
	// Name 流程名稱，用於日誌與指標
	Name() string
	// Label 回應中的 api_used
	Label() string
	// Fetch 依請求取得食譜欄位
	Fetch(ctx context.Context, req common.RecipeRequest) (*Draft, error)
}

// RecipeFinder 為每個請求開啟食譜搜尋與詳細資料連線
type RecipeFinder interface {
	Open() spoonacular.Session
}

// TextGenerator 文字生成服務
type TextGenerator interface {
	ProcessRequest(ctx context.Context, prompt string, jsonMode bool) (string, error)
	Info() provider.Info
	Configured() bool
}

// ImageService 圖片提示詞 URL 服務
type ImageService interface {
	ImageURL(ctx context.Context, text string) (string, error)
}
