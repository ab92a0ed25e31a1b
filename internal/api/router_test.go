package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"recipe-suggester/internal/core/recipe"
	"recipe-suggester/internal/infrastructure/config"
	"recipe-suggester/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSuggester struct {
	mu    sync.Mutex
	calls []common.RecipeRequest
	resp  *common.RecipeResponse
	err   error
	block bool
}

func (f *fakeSuggester) Suggest(ctx context.Context, req common.RecipeRequest) (*common.RecipeResponse, error) {
	f.mu.Lock()
	f.calls = append(f.calls, req)
	f.mu.Unlock()
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return f.resp, f.err
}

func testConfig() *config.Config {
	return &config.Config{
		App:      config.AppConfig{Version: "test"},
		Server:   config.ServerConfig{RequestTimeout: 5 * time.Second, MaxBodyBytes: 1 << 10},
		Identity: config.IdentityConfig{EmplID: "12345678", LastName: "Doe"},
		AI:       config.AIConfig{Provider: config.ProviderGemini},
		Pipeline: config.PipelineConfig{Flow: config.FlowAuto},
		CORS:     config.CORSConfig{AllowedOrigins: []string{"*"}},
	}
}

func sampleResponse() *common.RecipeResponse {
	return &common.RecipeResponse{
		Title:            "Garlic Pasta",
		ImageURL:         "https://image.pollinations.ai/prompt/x",
		TotalTimeMinutes: 25,
		Ingredients:      []common.Ingredient{{Name: "garlic", Amount: "2 cloves"}},
		Instructions:     []string{"Boil pasta."},
		AIBlurb:          "Tasty.",
		APIUsed:          "Google AI Studio Gemini (recipe) + Pollinations (image)",
	}
}

func doRequest(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) common.ErrorResponse {
	t.Helper()
	var body common.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestSuggestRoutes(t *testing.T) {
	for _, path := range []string{"/recipe", "/api/v1/recipe"} {
		t.Run(path, func(t *testing.T) {
			s := &fakeSuggester{resp: sampleResponse()}
			router := SetupRouter(testConfig(), s)

			w := doRequest(t, router, http.MethodPost, path, `{"description":"  garlic pasta ","max_time":30}`)
			require.Equal(t, http.StatusOK, w.Code)
			assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

			var got map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
			assert.Equal(t, "Garlic Pasta", got["title"])
			assert.Equal(t, float64(25), got["total_time_minutes"])
			assert.NotContains(t, got, "source_url")

			require.Len(t, s.calls, 1)
			assert.Equal(t, "garlic pasta", s.calls[0].Description)
			assert.Equal(t, 30, s.calls[0].MaxTime)
		})
	}
}

func TestSuggestDefaultsMaxTime(t *testing.T) {
	s := &fakeSuggester{resp: sampleResponse()}
	router := SetupRouter(testConfig(), s)

	w := doRequest(t, router, http.MethodPost, "/recipe", `{"description":"soup"}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, s.calls, 1)
	assert.Equal(t, common.DefaultMaxTime, s.calls[0].MaxTime)
}

func TestSuggestValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "missing description", body: `{"max_time":30}`},
		{name: "blank description", body: `{"description":"   "}`},
		{name: "description too long", body: `{"description":"` + strings.Repeat("a", 121) + `"}`},
		{name: "max time too small", body: `{"description":"soup","max_time":4}`},
		{name: "max time too large", body: `{"description":"soup","max_time":241}`},
		{name: "max time not a number", body: `{"description":"soup","max_time":"fast"}`},
		{name: "malformed json", body: `{"description":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &fakeSuggester{resp: sampleResponse()}
			router := SetupRouter(testConfig(), s)

			w := doRequest(t, router, http.MethodPost, "/recipe", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, common.ErrCodeInvalidRequest, decodeError(t, w).Code)
			assert.Empty(t, s.calls)
		})
	}
}

func TestSuggestErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		status   int
		code     string
		detailIs string
	}{
		{
			name:     "config",
			err:      common.NewConfigError("Server missing SPOONACULAR_API_KEY."),
			status:   http.StatusInternalServerError,
			code:     common.ErrCodeConfig,
			detailIs: "Server missing SPOONACULAR_API_KEY.",
		},
		{
			name:     "auth",
			err:      common.NewAuthError("Invalid SPOONACULAR_API_KEY (401)."),
			status:   http.StatusInternalServerError,
			code:     common.ErrCodeAuth,
			detailIs: "Invalid SPOONACULAR_API_KEY (401).",
		},
		{
			name:     "not found",
			err:      common.NewNotFoundError("No recipes found for that query/time."),
			status:   http.StatusNotFound,
			code:     common.ErrCodeNotFound,
			detailIs: "No recipes found for that query/time.",
		},
		{
			name:     "upstream",
			err:      common.NewUpstreamError("Spoonacular information request failed", assert.AnError),
			status:   http.StatusBadGateway,
			code:     common.ErrCodeUpstream,
			detailIs: "Spoonacular information request failed: " + assert.AnError.Error(),
		},
		{
			name:     "upstream call timeout",
			err:      common.NewUpstreamError("Gemini request failed", fmt.Errorf("generate: %w", context.DeadlineExceeded)),
			status:   http.StatusBadGateway,
			code:     common.ErrCodeUpstream,
			detailIs: "Gemini request failed: generate: context deadline exceeded",
		},
		{
			name:     "parse",
			err:      common.NewParseError("Generated recipe is not valid JSON", errors.New("unexpected EOF")),
			status:   http.StatusInternalServerError,
			code:     common.ErrCodeParse,
			detailIs: "Generated recipe is not valid JSON: unexpected EOF",
		},
		{
			name:     "unclassified",
			err:      assert.AnError,
			status:   http.StatusInternalServerError,
			code:     common.ErrCodeInternalError,
			detailIs: assert.AnError.Error(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := SetupRouter(testConfig(), &fakeSuggester{err: tt.err})

			w := doRequest(t, router, http.MethodPost, "/recipe", `{"description":"soup"}`)
			assert.Equal(t, tt.status, w.Code)
			body := decodeError(t, w)
			assert.Equal(t, tt.code, body.Code)
			assert.Equal(t, tt.detailIs, body.Detail)
		})
	}
}

func TestSuggestParseErrorKeepsDiagnostic(t *testing.T) {
	req := common.RecipeRequest{Description: "soup", MaxTime: 30}
	_, parseErr := recipe.ParseGeneratedRecipe(`{"title": "Soup", `, req)
	require.Error(t, parseErr)

	router := SetupRouter(testConfig(), &fakeSuggester{err: parseErr})
	w := doRequest(t, router, http.MethodPost, "/recipe", `{"description":"soup","max_time":30}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decodeError(t, w)
	assert.Equal(t, common.ErrCodeParse, body.Code)
	assert.Equal(t, parseErr.Error(), body.Detail)
	assert.NotEqual(t, body.Message, body.Detail)
	assert.True(t, strings.HasPrefix(body.Detail, body.Message+": "))
}

func TestSuggestTimeout(t *testing.T) {
	cfg := testConfig()
	cfg.Server.RequestTimeout = 20 * time.Millisecond
	router := SetupRouter(cfg, &fakeSuggester{block: true})

	w := doRequest(t, router, http.MethodPost, "/recipe", `{"description":"soup"}`)
	assert.Equal(t, http.StatusGatewayTimeout, w.Code)
	assert.Equal(t, common.ErrCodeTimeout, decodeError(t, w).Code)
}

func TestSuggestBodyTooLarge(t *testing.T) {
	router := SetupRouter(testConfig(), &fakeSuggester{resp: sampleResponse()})

	body := `{"description":"` + strings.Repeat("a", 2<<10) + `"}`
	w := doRequest(t, router, http.MethodPost, "/recipe", body)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Equal(t, common.ErrCodeBodyTooLarge, decodeError(t, w).Code)
}

func TestIdentityRoutes(t *testing.T) {
	router := SetupRouter(testConfig(), &fakeSuggester{})

	for _, path := range []string{"/id", "/api/v1/id"} {
		w := doRequest(t, router, http.MethodGet, path, "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"EMPL_ID":"12345678","LAST_NAME":"Doe"}`, w.Body.String())
	}
}

func TestHealthRoutes(t *testing.T) {
	cfg := testConfig()
	cfg.Spoonacular.APIKey = "spoon"
	router := SetupRouter(cfg, &fakeSuggester{})

	w := doRequest(t, router, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)

	w = doRequest(t, router, http.MethodGet, "/ready", "")
	require.Equal(t, http.StatusOK, w.Code)
	var ready map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ready))
	assert.Equal(t, config.FlowSearch, ready["flow"])
	assert.Equal(t, map[string]interface{}{"spoonacular": true, "gemini": false, "openrouter": false}, ready["credentials"])

	w = doRequest(t, router, http.MethodGet, "/live", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMetricsRoute(t *testing.T) {
	router := SetupRouter(testConfig(), &fakeSuggester{})

	w := doRequest(t, router, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}

func TestStaticRoutes(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>recipes</h1>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.js"), []byte("console.log(1)"), 0o644))

	cfg := testConfig()
	cfg.Static.Dir = dir
	router := SetupRouter(cfg, &fakeSuggester{})

	w := doRequest(t, router, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "recipes")

	w = doRequest(t, router, http.MethodGet, "/static/app.js", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestStaticMissingDir(t *testing.T) {
	cfg := testConfig()
	cfg.Static.Dir = filepath.Join(t.TempDir(), "missing")
	router := SetupRouter(cfg, &fakeSuggester{})

	w := doRequest(t, router, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRateLimitEnabled(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit = config.RateLimitConfig{Enabled: true, RPS: 0.001, Burst: 1}
	router := SetupRouter(cfg, &fakeSuggester{})

	w := doRequest(t, router, http.MethodGet, "/id", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, router, http.MethodGet, "/id", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, common.ErrCodeTooManyRequests, decodeError(t, w).Code)
}

func TestCORSPreflight(t *testing.T) {
	router := SetupRouter(testConfig(), &fakeSuggester{})

	req := httptest.NewRequest(http.MethodOptions, "/recipe", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
