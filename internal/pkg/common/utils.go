package common

import (
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// GenerateUUID 生成 UUID
func GenerateUUID() string {
	return uuid.New().String()
}

// TitleCase 將描述轉為英文標題格式，例如 "chicken curry" -> "Chicken Curry"
func TitleCase(s string) string {
	return cases.Title(language.English).String(strings.TrimSpace(s))
}

// StringPtr 返回字串指標
func StringPtr(s string) *string {
	return &s
}

// Normalize 驗證並補齊請求欄位
func (r *RecipeRequest) Normalize() error {
	r.Description = strings.TrimSpace(r.Description)
	n := len([]rune(r.Description))
	if n == 0 {
		return NewValidationError("description must not be empty")
	}
	if n > MaxDescriptionLength {
		return NewValidationError("description must be at most 120 characters")
	}
	if r.MaxTime == 0 {
		r.MaxTime = DefaultMaxTime
	}
	if r.MaxTime < MinMaxTime || r.MaxTime > MaxMaxTime {
		return NewValidationError("max_time must be between 5 and 240 minutes")
	}
	return nil
}
