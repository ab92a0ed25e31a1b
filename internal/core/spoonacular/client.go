package spoonacular

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"recipe-suggester/internal/core/cache"
	"recipe-suggester/internal/infrastructure/config"
	"recipe-suggester/internal/pkg/common"
	"recipe-suggester/internal/pkg/metrics"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const (
	upstreamName  = "spoonacular"
	credentialEnv = "SPOONACULAR_API_KEY"
)

// Client Spoonacular 食譜搜尋與詳細資料客戶端，每個請求以 Open 取得自己的連線
type Client struct {
	cfg    config.SpoonacularConfig
	apiKey string
	cache  cache.Store
}

// Session 單一請求使用的上游連線，Close 後釋放
type Session interface {
	Search(ctx context.Context, query string, maxTime int) (int, error)
	Information(ctx context.Context, id int) (*Recipe, error)
	Close() error
}

// ErrSessionClosed 連線已釋放
var ErrSessionClosed = errors.New("spoonacular session closed")

// NewClient 創建客戶端；store 可為 nil
func NewClient(cfg config.SpoonacularConfig, store cache.Store) *Client {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Client{
		cfg:    cfg,
		apiKey: strings.TrimSpace(cfg.APIKey),
		cache:  store,
	}
}

// Configured 是否已設定金鑰
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// Open 開啟新的連線，呼叫者須在請求結束時 Close
func (c *Client) Open() Session {
	return &session{
		client: c,
		http: resty.New().
			SetBaseURL(c.cfg.BaseURL).
			SetTimeout(c.cfg.Timeout).
			SetHeader("Accept", "application/json"),
	}
}

type session struct {
	client *Client
	http   *resty.Client
	closed atomic.Bool
}

// Close 釋放閒置連線，可重複呼叫
func (s *session) Close() error {
	if s.closed.CompareAndSwap(false, true) {
		s.http.GetClient().CloseIdleConnections()
	}
	return nil
}

func (s *session) ready() error {
	if !s.client.Configured() {
		return common.NewConfigError(fmt.Sprintf("Server missing %s.", credentialEnv))
	}
	if s.closed.Load() {
		return ErrSessionClosed
	}
	return nil
}

// Search 以描述與時間上限搜尋，回傳第一筆結果的 id
func (s *session) Search(ctx context.Context, query string, maxTime int) (int, error) {
	if err := s.ready(); err != nil {
		return 0, err
	}

	start := time.Now()
	id, err := s.search(ctx, query, maxTime)
	metrics.ObserveUpstream(upstreamName+"_search", start, err)
	common.LogUpstreamCall(upstreamName+"_search", time.Since(start), err)
	return id, err
}

func (s *session) search(ctx context.Context, query string, maxTime int) (int, error) {
	resp, err := s.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"query":        query,
			"maxReadyTime": strconv.Itoa(maxTime),
			"number":       "1",
			"apiKey":       s.client.apiKey,
		}).
		Get("/recipes/complexSearch")
	if err != nil {
		return 0, common.NewUpstreamError("Spoonacular search request failed", err)
	}
	if err := checkStatus(resp, "search"); err != nil {
		return 0, err
	}

	var result searchResponse
	if err := common.ParseJSONBytes(resp.Body(), &result); err != nil {
		return 0, common.NewUpstreamError("failed to parse Spoonacular search response", err)
	}
	common.LogDebug("Spoonacular 搜尋結果",
		zap.String("query", query),
		zap.Int("total_results", result.TotalResults),
	)
	if len(result.Results) == 0 {
		return 0, common.NewNotFoundError("No recipes found for that query/time.")
	}
	return result.Results[0].ID, nil
}

// Information 取得食譜詳細資料，啟用快取時先查快取
func (s *session) Information(ctx context.Context, id int) (*Recipe, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}

	key := cache.Key("spoonacular:information", strconv.Itoa(id))
	var cached Recipe
	if cache.GetJSON(ctx, s.client.cache, key, &cached) {
		return &cached, nil
	}

	start := time.Now()
	recipe, err := s.information(ctx, id)
	metrics.ObserveUpstream(upstreamName+"_information", start, err)
	common.LogUpstreamCall(upstreamName+"_information", time.Since(start), err)
	if err != nil {
		return nil, err
	}

	cache.SetJSON(ctx, s.client.cache, key, recipe)
	return recipe, nil
}

func (s *session) information(ctx context.Context, id int) (*Recipe, error) {
	resp, err := s.http.R().
		SetContext(ctx).
		SetPathParam("id", strconv.Itoa(id)).
		SetQueryParams(map[string]string{
			"includeNutrition": "false",
			"apiKey":           s.client.apiKey,
		}).
		Get("/recipes/{id}/information")
	if err != nil {
		return nil, common.NewUpstreamError("Spoonacular information request failed", err)
	}
	if err := checkStatus(resp, "information"); err != nil {
		return nil, err
	}

	var recipe Recipe
	if err := json.Unmarshal(resp.Body(), &recipe); err != nil {
		return nil, common.NewUpstreamError("failed to parse Spoonacular recipe", err)
	}
	return &recipe, nil
}

// checkStatus 將非 2xx 回應分類：401 為憑證錯誤，其餘為上游錯誤
func checkStatus(resp *resty.Response, op string) error {
	if resp.IsSuccess() {
		return nil
	}
	common.LogDebug("Spoonacular API error",
		zap.String("op", op),
		zap.Int("status", resp.StatusCode()),
	)
	if resp.StatusCode() == http.StatusUnauthorized {
		return common.NewAuthError(fmt.Sprintf("Invalid %s (401).", credentialEnv))
	}
	return common.NewUpstreamError(
		fmt.Sprintf("Spoonacular %s returned %d: %s", op, resp.StatusCode(), strings.TrimSpace(resp.String())), nil)
}
