package recipe

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"recipe-suggester/internal/core/ai/provider"
	"recipe-suggester/internal/core/spoonacular"
	"recipe-suggester/internal/pkg/common"
	"recipe-suggester/internal/pkg/metrics"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// SearchSource 搜尋食譜後以生成的簡介補充
type SearchSource struct {
	finder RecipeFinder
	text   TextGenerator
	images ImageService
}

// NewSearchSource 創建搜尋來源
func NewSearchSource(finder RecipeFinder, text TextGenerator, images ImageService) *SearchSource {
	return &SearchSource{finder: finder, text: text, images: images}
}

// Name 流程名稱
func (s *SearchSource) Name() string {
	return "search"
}

// Label 回應中的 api_used
func (s *SearchSource) Label() string {
	return fmt.Sprintf("Spoonacular (recipes) + Pollinations (image) + %s (blurb)", s.text.Info().Label)
}

// Fetch 搜尋第一筆食譜，並行取得詳細資料與暫時圖片，再產生簡介
func (s *SearchSource) Fetch(ctx context.Context, req common.RecipeRequest) (*Draft, error) {
	sess := s.finder.Open()
	defer sess.Close()

	id, err := sess.Search(ctx, req.Description, req.MaxTime)
	if err != nil {
		return nil, err
	}

	var (
		detail      *spoonacular.Recipe
		provisional string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		detail, err = sess.Information(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		provisional, err = s.images.ImageURL(gctx, req.Description)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	common.LogDebug("暫時圖片已產生", zap.String("image_url", provisional))

	title := resolveTitle(detail.Title, req.Description)
	draft := &Draft{
		Title:            title,
		TotalTimeMinutes: detail.ReadyInMinutes,
		Ingredients:      ExtractIngredients(detail),
		Instructions:     ExtractInstructions(detail),
	}
	if u := strings.TrimSpace(detail.SourceURL); u != "" {
		draft.SourceURL = common.StringPtr(u)
	}

	draft.Blurb = s.blurb(ctx, title).OrElse(s.blurbPlaceholder)
	return draft, nil
}

// blurb 呼叫文字生成服務，失敗以 Result 回傳而不中斷請求
func (s *SearchSource) blurb(ctx context.Context, title string) common.Result[string] {
	if !s.text.Configured() {
		return common.Fail[string](common.NewConfigError("text generation key not set"))
	}
	text, err := s.text.ProcessRequest(ctx, BlurbPrompt(title), false)
	if err != nil {
		return common.Fail[string](err)
	}
	if text = strings.TrimSpace(text); text == "" {
		return common.Fail[string](common.NewUpstreamError("empty blurb", provider.ErrEmptyResponse))
	}
	return common.Ok(text)
}

// blurbPlaceholder 依失敗原因選擇替代文字
func (s *SearchSource) blurbPlaceholder(err error) string {
	info := s.text.Info()
	reason := "error"
	var msg string
	switch {
	case errors.Is(err, common.ErrConfig):
		reason = "missing_key"
		msg = fmt.Sprintf("%s key not set. (Set %s to enable %s blurb.)", info.KeyName, info.CredentialEnv, info.Name)
	case errors.Is(err, provider.ErrEmptyResponse):
		reason = "empty"
		msg = fmt.Sprintf("%s returned an empty response.", info.Name)
	default:
		msg = fmt.Sprintf("%s error: %v", info.Name, err)
	}

	metrics.BlurbFallbacks.WithLabelValues(reason).Inc()
	common.LogWarn("簡介生成失敗，使用替代文字", zap.String("reason", reason), zap.Error(err))
	return msg
}
