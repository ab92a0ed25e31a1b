package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strings"

	"recipe-suggester/internal/infrastructure/config"
	"recipe-suggester/internal/pkg/common"
	"recipe-suggester/internal/pkg/metrics"

	"go.uber.org/zap"
)

// ErrCacheMiss 快取中沒有此鍵或已過期
var ErrCacheMiss = errors.New("cache miss")

// Store 快取介面
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}

// New 依設定建立快取；停用時回傳 nil
func New(cfg config.CacheConfig) (Store, error) {
	if !cfg.Enabled {
		common.LogInfo("Cache disabled")
		return nil, nil
	}
	if cfg.RedisAddr != "" {
		rs, err := NewRedisStore(cfg)
		if err != nil {
			return nil, err
		}
		return rs, nil
	}
	return NewManager(cfg), nil
}

// Key 以 SHA-256 產生命名空間下的快取鍵
func Key(namespace string, parts ...string) string {
	hash := sha256.Sum256([]byte(strings.Join(parts, "\x00")))
	return namespace + ":" + hex.EncodeToString(hash[:])
}

func logCacheError(op string, err error) {
	common.LogWarn("快取操作失敗", zap.String("op", op), zap.Error(err))
}

// GetJSON 讀取並解碼快取，任何錯誤都視為未命中
func GetJSON(ctx context.Context, s Store, key string, v interface{}) bool {
	if s == nil {
		return false
	}
	data, err := s.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			logCacheError("get", err)
		}
		metrics.CacheLookups.WithLabelValues("miss").Inc()
		common.LogCacheMiss("recipe", key)
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		logCacheError("decode", err)
		metrics.CacheLookups.WithLabelValues("miss").Inc()
		return false
	}
	metrics.CacheLookups.WithLabelValues("hit").Inc()
	common.LogCacheHit("recipe", key)
	return true
}

// SetJSON 編碼並寫入快取，失敗只記錄日誌
func SetJSON(ctx context.Context, s Store, key string, v interface{}) {
	if s == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		logCacheError("encode", err)
		return
	}
	if err := s.Set(ctx, key, data); err != nil {
		logCacheError("set", err)
	}
}
