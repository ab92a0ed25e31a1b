package image

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"recipe-suggester/internal/infrastructure/config"
)

const promptTemplate = "high quality food photography of %s, plated, natural lighting"

// pathEscaper 使空白編碼為 %20 並保留 "/"
var pathEscaper = strings.NewReplacer("+", "%20", "%2F", "/")

// Service Pollinations 圖片提示詞 URL 服務
type Service struct {
	baseURL string
}

// NewService 創建圖片服務
func NewService(cfg config.PollinationsConfig) *Service {
	base := cfg.BaseURL
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return &Service{baseURL: base}
}

// Prompt 產生食物攝影提示詞
func Prompt(text string) string {
	return fmt.Sprintf(promptTemplate, text)
}

// URL 回傳 text 對應的圖片 URL，只做字串組合
func (s *Service) URL(text string) string {
	return s.baseURL + pathEscaper.Replace(url.QueryEscape(Prompt(text)))
}

// ImageURL 以可取消的工作單元產生 URL
func (s *Service) ImageURL(ctx context.Context, text string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return s.URL(text), nil
}
