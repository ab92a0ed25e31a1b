package spoonacular

// searchResponse complexSearch 回應
type searchResponse struct {
	Results []struct {
		ID    int    `json:"id"`
		Title string `json:"title"`
	} `json:"results"`
	TotalResults int `json:"totalResults"`
}

// Recipe 食譜詳細資料，欄位可能缺漏
type Recipe struct {
	ID                   int                  `json:"id"`
	Title                string               `json:"title"`
	ReadyInMinutes       int                  `json:"readyInMinutes"`
	SourceURL            string               `json:"sourceUrl"`
	Instructions         string               `json:"instructions"`
	AnalyzedInstructions []InstructionGroup   `json:"analyzedInstructions"`
	ExtendedIngredients  []ExtendedIngredient `json:"extendedIngredients"`
}

// InstructionGroup 一組分析後的步驟
type InstructionGroup struct {
	Name  string `json:"name"`
	Steps []Step `json:"steps"`
}

// Step 單一步驟
type Step struct {
	Number int    `json:"number"`
	Step   string `json:"step"`
}

// ExtendedIngredient 食材；Name 為 nil 表示欄位缺漏
type ExtendedIngredient struct {
	Name     *string `json:"name"`
	Original string  `json:"original"`
}
