package common

// 預設與邊界值
const (
	DefaultMaxTime       = 60
	MinMaxTime           = 5
	MaxMaxTime           = 240
	MaxDescriptionLength = 120
)

// RecipeRequest 使用者輸入的餐點描述與時間上限
type RecipeRequest struct {
	Description string `json:"description" binding:"required"`
	MaxTime     int    `json:"max_time"`
}

// Ingredient 食材
type Ingredient struct {
	Name   string `json:"name"`
	Amount string `json:"amount"`
}

// RecipeResponse 正規化後的食譜
type RecipeResponse struct {
	Title            string       `json:"title"`
	ImageURL         string       `json:"image_url"`
	TotalTimeMinutes int          `json:"total_time_minutes"`
	SourceURL        *string      `json:"source_url,omitempty"`
	Ingredients      []Ingredient `json:"ingredients"`
	Instructions     []string     `json:"instructions"`
	AIBlurb          string       `json:"ai_blurb"`
	APIUsed          string       `json:"api_used"`
}

// IdentityResponse 設定中的身分資訊
type IdentityResponse struct {
	EmplID   string `json:"EMPL_ID"`
	LastName string `json:"LAST_NAME"`
}
