package health

import (
	"net/http"
	"runtime"
	"time"

	"recipe-suggester/internal/infrastructure/config"
	"recipe-suggester/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HealthResponse 健康檢查響應
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Runtime   map[string]interface{} `json:"runtime"`
}

// ReadinessResponse 就緒檢查響應
type ReadinessResponse struct {
	Status      string          `json:"status"`
	Flow        string          `json:"flow"`
	Provider    string          `json:"provider"`
	Credentials map[string]bool `json:"credentials"`
}

// Handler 健康檢查處理器
type Handler struct {
	cfg *config.Config
}

// NewHandler 創建健康檢查處理器
func NewHandler(cfg *config.Config) *Handler {
	return &Handler{cfg: cfg}
}

// HealthCheck 健康檢查處理器
func (h *Handler) HealthCheck(c *gin.Context) {
	// 獲取運行時信息
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	response := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   h.cfg.App.Version,
		Runtime: map[string]interface{}{
			"goroutines": runtime.NumGoroutine(),
			"memory": map[string]interface{}{
				"alloc":       m.Alloc,
				"total_alloc": m.TotalAlloc,
				"sys":         m.Sys,
				"num_gc":      m.NumGC,
			},
		},
	}

	common.LogDebug("Health check request",
		zap.String("client_ip", c.ClientIP()),
		zap.String("path", c.Request.URL.Path),
	)

	c.JSON(http.StatusOK, response)
}

// ReadinessCheck 就緒檢查處理器，回報已設定的上游憑證與實際流程
func (h *Handler) ReadinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, ReadinessResponse{
		Status:   "ready",
		Flow:     h.cfg.ResolvedFlow(),
		Provider: h.cfg.AI.Provider,
		Credentials: map[string]bool{
			"spoonacular": h.cfg.Spoonacular.APIKey != "",
			"gemini":      h.cfg.Gemini.APIKey != "",
			"openrouter":  h.cfg.OpenRouter.APIKey != "",
		},
	})
}

// LivenessCheck 存活檢查處理器
func (h *Handler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}
