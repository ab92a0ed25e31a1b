package api

import (
	"os"
	"path/filepath"
	"time"

	"recipe-suggester/internal/api/handlers/health"
	recipeHandler "recipe-suggester/internal/api/handlers/recipe"
	"recipe-suggester/internal/api/middleware"
	"recipe-suggester/internal/infrastructure/config"
	"recipe-suggester/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, suggester recipeHandler.Suggester) *gin.Engine {
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	// 設置 gin 模式
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// 註冊基礎中間件；request id 須先於 Logger 產生
	router.Use(requestid.New(requestid.WithGenerator(common.GenerateUUID)))
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(cors.New(corsConfig(cfg.CORS.AllowedOrigins)))
	router.Use(middleware.BodySizeLimit(cfg.Server.MaxBodyBytes))
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
	}
	router.Use(middleware.Timeout(cfg.Server.RequestTimeout))

	healthHandler := health.NewHandler(cfg)
	router.GET("/health", healthHandler.HealthCheck)
	router.GET("/ready", healthHandler.ReadinessCheck)
	router.GET("/live", healthHandler.LivenessCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	h := recipeHandler.NewHandler(suggester, cfg.Identity)
	router.POST("/recipe", h.HandleSuggest)
	router.GET("/id", h.HandleIdentity)

	// API 路由組
	api := router.Group("/api/v1")
	{
		api.POST("/recipe", h.HandleSuggest)
		api.GET("/id", h.HandleIdentity)
	}

	mountStatic(router, cfg.Static.Dir)

	common.LogInfo("Router setup completed successfully",
		zap.Bool("rate_limit", cfg.RateLimit.Enabled),
		zap.Duration("timeout", cfg.Server.RequestTimeout),
		zap.Int64("max_body_size", cfg.Server.MaxBodyBytes),
	)

	return router
}

// corsConfig 允許所有來源時不可同時允許憑證
func corsConfig(origins []string) cors.Config {
	conf := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders: []string{"Content-Length", "X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		conf.AllowAllOrigins = true
		return conf
	}
	conf.AllowOrigins = origins
	conf.AllowCredentials = true
	return conf
}

// mountStatic 目錄存在時提供首頁與靜態檔案
func mountStatic(router *gin.Engine, dir string) {
	if dir == "" {
		return
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		common.LogDebug("靜態目錄不存在，略過", zap.String("dir", dir))
		return
	}

	router.Static("/static", dir)
	index := filepath.Join(dir, "index.html")
	if _, err := os.Stat(index); err == nil {
		router.StaticFile("/", index)
	}
}
