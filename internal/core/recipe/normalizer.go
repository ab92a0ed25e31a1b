package recipe

import (
	"fmt"
	"math"
	"strings"

	"recipe-suggester/internal/core/spoonacular"
	"recipe-suggester/internal/pkg/common"

	"github.com/xeipuuv/gojsonschema"
	"go.uber.org/zap"
)

// ExtractInstructions 取出步驟：優先使用第一組分析後步驟，其次以句點切分文字說明，
// 都沒有時回傳單一提示訊息
func ExtractInstructions(r *spoonacular.Recipe) []string {
	var steps []string
	if r != nil && len(r.AnalyzedInstructions) > 0 && len(r.AnalyzedInstructions[0].Steps) > 0 {
		for _, s := range r.AnalyzedInstructions[0].Steps {
			if text := strings.TrimSpace(s.Step); text != "" {
				steps = append(steps, text)
			}
		}
	} else if r != nil {
		steps = SplitSentences(r.Instructions)
	}
	return ensureInstructions(steps)
}

// SplitSentences 以句點切分並去除空白段落
func SplitSentences(text string) []string {
	var out []string
	for _, part := range strings.Split(strings.TrimSpace(text), ".") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// ExtractIngredients 轉換食材清單；缺名稱用 "ingredient"，缺份量時以名稱代替
func ExtractIngredients(r *spoonacular.Recipe) []common.Ingredient {
	var out []common.Ingredient
	if r != nil {
		for _, item := range r.ExtendedIngredients {
			name := DefaultIngredientName
			if item.Name != nil {
				name = *item.Name
			}
			out = append(out, newIngredient(name, item.Original))
		}
	}
	return ensureIngredients(out)
}

func newIngredient(name, amount string) common.Ingredient {
	amount = strings.TrimSpace(amount)
	if amount == "" {
		amount = name
	}
	return common.Ingredient{Name: name, Amount: amount}
}

func ensureInstructions(steps []string) []string {
	if len(steps) == 0 {
		return []string{NoInstructionsMessage}
	}
	return steps
}

func ensureIngredients(items []common.Ingredient) []common.Ingredient {
	if len(items) == 0 {
		return []common.Ingredient{{Name: NoIngredientsName, Amount: NoIngredientsAmount}}
	}
	return items
}

// GeneratedRecipe 解析後的生成食譜
type GeneratedRecipe struct {
	Title            string
	TotalTimeMinutes int
	Ingredients      []common.Ingredient
	Instructions     []string
	Blurb            string
}

// generatedPayload 模型輸出的 JSON；指標欄位用於分辨缺漏
type generatedPayload struct {
	Title            *string  `json:"title"`
	TotalTimeMinutes *float64 `json:"total_time_minutes"`
	Ingredients      []struct {
		Name   *string `json:"name"`
		Amount *string `json:"amount"`
	} `json:"ingredients"`
	Instructions []string `json:"instructions"`
	Blurb        *string  `json:"blurb"`
}

var generatedSchema = mustSchema(map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"title":              map[string]interface{}{"type": []string{"string", "null"}},
		"total_time_minutes": map[string]interface{}{"type": []string{"number", "null"}},
		"ingredients": map[string]interface{}{
			"type": []string{"array", "null"},
			"items": map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"name":   map[string]interface{}{"type": []string{"string", "null"}},
					"amount": map[string]interface{}{"type": []string{"string", "null"}},
				},
			},
		},
		"instructions": map[string]interface{}{
			"type":  []string{"array", "null"},
			"items": map[string]interface{}{"type": "string"},
		},
		"blurb": map[string]interface{}{"type": []string{"string", "null"}},
	},
})

func mustSchema(schema map[string]interface{}) *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(schema))
	if err != nil {
		panic(fmt.Sprintf("invalid generated recipe schema: %v", err))
	}
	return s
}

// ParseGeneratedRecipe 去除 code fence、驗證結構並補齊缺漏欄位。
// 非 JSON 或結構不符時回傳 ParseError。
func ParseGeneratedRecipe(text string, req common.RecipeRequest) (*GeneratedRecipe, error) {
	cleaned := common.StripCodeFence(text)

	result, err := generatedSchema.Validate(gojsonschema.NewStringLoader(cleaned))
	if err != nil {
		return nil, common.NewParseError("Generated recipe is not valid JSON", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return nil, common.NewParseError("Generated recipe does not match the expected schema",
			fmt.Errorf("%s", strings.Join(msgs, "; ")))
	}

	var payload generatedPayload
	if err := common.ParseJSON(cleaned, &payload); err != nil {
		return nil, common.NewParseError("Generated recipe is not valid JSON", err)
	}

	out := &GeneratedRecipe{
		Title:            resolveTitle(deref(payload.Title), req.Description),
		TotalTimeMinutes: req.MaxTime,
		Blurb:            strings.TrimSpace(deref(payload.Blurb)),
	}
	if payload.TotalTimeMinutes != nil && *payload.TotalTimeMinutes > 0 {
		out.TotalTimeMinutes = int(math.Round(*payload.TotalTimeMinutes))
	}

	for _, item := range payload.Ingredients {
		name := strings.TrimSpace(deref(item.Name))
		if name == "" {
			name = DefaultIngredientName
		}
		out.Ingredients = append(out.Ingredients, newIngredient(name, deref(item.Amount)))
	}
	out.Ingredients = ensureIngredients(out.Ingredients)

	for _, step := range payload.Instructions {
		if step = strings.TrimSpace(step); step != "" {
			out.Instructions = append(out.Instructions, step)
		}
	}
	out.Instructions = ensureInstructions(out.Instructions)

	common.LogDebug("生成食譜解析完成",
		zap.String("title", out.Title),
		zap.Int("ingredients", len(out.Ingredients)),
		zap.Int("instructions", len(out.Instructions)),
	)
	return out, nil
}

// resolveTitle 標題為空時使用描述的標題格式
func resolveTitle(title, description string) string {
	if t := strings.TrimSpace(title); t != "" {
		return t
	}
	return common.TitleCase(description)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
