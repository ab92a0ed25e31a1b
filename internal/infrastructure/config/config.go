package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// 食譜流程
const (
	FlowAuto     = "auto"
	FlowSearch   = "search"
	FlowGenerate = "generate"
)

// 文字生成服務
const (
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
)

// Config 應用配置，載入後不再修改
type Config struct {
	App          AppConfig          `mapstructure:"app"`
	Server       ServerConfig       `mapstructure:"server"`
	Identity     IdentityConfig     `mapstructure:"identity"`
	Spoonacular  SpoonacularConfig  `mapstructure:"spoonacular"`
	Gemini       GeminiConfig       `mapstructure:"gemini"`
	OpenRouter   OpenRouterConfig   `mapstructure:"openrouter"`
	AI           AIConfig           `mapstructure:"ai"`
	Queue        QueueConfig        `mapstructure:"queue"`
	Pollinations PollinationsConfig `mapstructure:"pollinations"`
	Pipeline     PipelineConfig     `mapstructure:"pipeline"`
	Cache        CacheConfig        `mapstructure:"cache"`
	RateLimit    RateLimitConfig    `mapstructure:"rate_limit"`
	CORS         CORSConfig         `mapstructure:"cors"`
	Static       StaticConfig       `mapstructure:"static"`
	Log          LogConfig          `mapstructure:"log"`
}

// AppConfig 應用程式設定
type AppConfig struct {
	Env     string `mapstructure:"env"`
	Debug   bool   `mapstructure:"debug"`
	Version string `mapstructure:"version"`
	Name    string `mapstructure:"name"`
}

// ServerConfig 服務器配置
type ServerConfig struct {
	Port           int           `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	MaxBodyBytes   int64         `mapstructure:"max_body_bytes"`
}

// IdentityConfig /id 端點回傳的身分資訊
type IdentityConfig struct {
	EmplID   string `mapstructure:"empl_id"`
	LastName string `mapstructure:"last_name"`
}

// SpoonacularConfig 食譜搜尋服務設定
type SpoonacularConfig struct {
	APIKey  string        `mapstructure:"api_key"`
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// GeminiConfig Google AI Studio 設定
type GeminiConfig struct {
	APIKey  string        `mapstructure:"api_key"`
	Model   string        `mapstructure:"model"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// OpenRouterConfig OpenRouter 配置
type OpenRouterConfig struct {
	APIKey    string        `mapstructure:"api_key"`
	BaseURL   string        `mapstructure:"base_url"`
	Model     string        `mapstructure:"model"`
	MaxTokens int           `mapstructure:"max_tokens"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// AIConfig 文字生成服務選擇
type AIConfig struct {
	Provider string `mapstructure:"provider"`
}

// QueueConfig 文字生成並行限制；Workers 為 0 時不限制
type QueueConfig struct {
	Workers int `mapstructure:"workers"`
	MaxSize int `mapstructure:"max_size"`
}

// PollinationsConfig 圖片服務設定
type PollinationsConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

// PipelineConfig 食譜流程設定
type PipelineConfig struct {
	Flow string `mapstructure:"flow"`
}

// CacheConfig 緩存配置
type CacheConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	MaxSize         int           `mapstructure:"max_size"`
	TTL             time.Duration `mapstructure:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
	RedisAddr       string        `mapstructure:"redis_addr"`
	RedisPassword   string        `mapstructure:"redis_password"`
	RedisDB         int           `mapstructure:"redis_db"`
}

// RateLimitConfig 速率限制配置
type RateLimitConfig struct {
	Enabled bool    `mapstructure:"enabled"`
	RPS     float64 `mapstructure:"rps"`
	Burst   int     `mapstructure:"burst"`
}

// CORSConfig 跨域設定
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// StaticConfig 靜態頁面設定
type StaticConfig struct {
	Dir string `mapstructure:"dir"`
}

// LogConfig 日誌設定
type LogConfig struct {
	Level string `mapstructure:"level"`
	Dir   string `mapstructure:"dir"`
}

// LoadConfig 載入設定
func LoadConfig() (*Config, error) {
	// .env 不存在時直接使用環境變數
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 綁定環境變量
	bindings := map[string]string{
		"identity.empl_id":      "EMPL_ID",
		"identity.last_name":    "LAST_NAME",
		"spoonacular.api_key":   "SPOONACULAR_API_KEY",
		"gemini.api_key":        "GOOGLE_AI_STUDIO_API_KEY",
		"gemini.model":          "GEMINI_MODEL",
		"openrouter.api_key":    "OPENROUTER_API_KEY",
		"openrouter.model":      "OPENROUTER_MODEL",
		"openrouter.max_tokens": "MODEL_MAX_TOKENS",
		"ai.provider":           "AI_PROVIDER",
		"queue.workers":         "AI_MAX_CONCURRENCY",
		"pipeline.flow":         "RECIPE_FLOW",
		"server.port":           "PORT",
		"cache.enabled":         "CACHE_ENABLED",
		"cache.redis_addr":      "REDIS_ADDR",
		"cache.redis_password":  "REDIS_PASSWORD",
		"rate_limit.enabled":    "RATE_LIMIT_ENABLED",
		"rate_limit.rps":        "RATE_LIMIT_RPS",
		"rate_limit.burst":      "RATE_LIMIT_BURST",
		"static.dir":            "STATIC_DIR",
		"log.level":             "LOG_LEVEL",
		"log.dir":               "LOG_DIR",
	}
	for key, env := range bindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	// 添加調試日誌（logger 尚未初始化，改用 fmt.Println）
	fmt.Println("Loading configuration",
		"spoonacular_api_key:", maskAPIKey(v.GetString("spoonacular.api_key")),
		"gemini_api_key:", maskAPIKey(v.GetString("gemini.api_key")),
		"ai_provider:", v.GetString("ai.provider"),
		"flow:", v.GetString("pipeline.flow"))

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	config.Pipeline.Flow = strings.ToLower(strings.TrimSpace(config.Pipeline.Flow))
	config.AI.Provider = strings.ToLower(strings.TrimSpace(config.AI.Provider))

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// ResolvedFlow 決定實際使用的流程；auto 在有 Spoonacular 金鑰時走搜尋流程
func (c *Config) ResolvedFlow() string {
	switch c.Pipeline.Flow {
	case FlowSearch, FlowGenerate:
		return c.Pipeline.Flow
	}
	if c.Spoonacular.APIKey != "" {
		return FlowSearch
	}
	return FlowGenerate
}

// maskAPIKey 遮罩 API Key，只顯示前後各 4 個字符
func maskAPIKey(key string) string {
	if key == "" {
		return "(unset)"
	}
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

// setDefaults 設定預設值
func setDefaults(v *viper.Viper) {
	// 應用程式設定
	v.SetDefault("app.env", "development")
	v.SetDefault("app.debug", false)
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.name", "recipe-suggester")

	// 伺服器設定
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "90s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.request_timeout", "75s")
	v.SetDefault("server.max_body_bytes", 1<<20)

	// 身分資訊
	v.SetDefault("identity.empl_id", "00000000")
	v.SetDefault("identity.last_name", "LastName")

	// 上游服務
	v.SetDefault("spoonacular.base_url", "https://api.spoonacular.com")
	v.SetDefault("spoonacular.timeout", "20s")
	v.SetDefault("gemini.model", "gemini-flash-latest")
	v.SetDefault("gemini.timeout", "30s")
	v.SetDefault("openrouter.base_url", "https://openrouter.ai/api/v1")
	v.SetDefault("openrouter.model", "google/gemini-2.0-flash-exp:free")
	v.SetDefault("openrouter.max_tokens", 1000)
	v.SetDefault("openrouter.timeout", "60s")
	v.SetDefault("ai.provider", ProviderGemini)
	v.SetDefault("queue.workers", 4)
	v.SetDefault("queue.max_size", 32)
	v.SetDefault("pollinations.base_url", "https://image.pollinations.ai/prompt/")
	v.SetDefault("pipeline.flow", FlowAuto)

	// 快取設定
	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.max_size", 500)
	v.SetDefault("cache.ttl", "1h")
	v.SetDefault("cache.cleanup_interval", "10m")
	v.SetDefault("cache.redis_db", 0)

	// 限流設定
	v.SetDefault("rate_limit.enabled", false)
	v.SetDefault("rate_limit.rps", 5)
	v.SetDefault("rate_limit.burst", 10)

	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("static.dir", "static")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.dir", "logs")
}

// validateConfig 驗證設定
func validateConfig(config *Config) error {
	if config.Server.Port <= 0 {
		return fmt.Errorf("server port is required")
	}

	switch config.Pipeline.Flow {
	case FlowAuto, FlowSearch, FlowGenerate:
	default:
		return fmt.Errorf("unknown pipeline flow %q", config.Pipeline.Flow)
	}

	switch config.AI.Provider {
	case ProviderGemini, ProviderOpenRouter:
	default:
		return fmt.Errorf("unknown ai provider %q", config.AI.Provider)
	}

	if config.Queue.Workers < 0 || (config.Queue.Workers > 0 && config.Queue.MaxSize <= 0) {
		return fmt.Errorf("invalid queue settings")
	}

	if config.Pollinations.BaseURL == "" {
		return fmt.Errorf("pollinations base url is required")
	}

	if config.Cache.Enabled {
		if config.Cache.MaxSize <= 0 {
			return fmt.Errorf("invalid cache max size")
		}
		if config.Cache.TTL <= 0 {
			return fmt.Errorf("invalid cache ttl")
		}
		if config.Cache.CleanupInterval <= 0 {
			return fmt.Errorf("invalid cache cleanup interval")
		}
	}

	if config.RateLimit.Enabled && (config.RateLimit.RPS <= 0 || config.RateLimit.Burst <= 0) {
		return fmt.Errorf("invalid rate limit settings")
	}

	return nil
}
