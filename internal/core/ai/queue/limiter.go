package queue

import (
	"context"
	"net/http"
	"sync/atomic"

	"recipe-suggester/internal/core/ai/provider"
	"recipe-suggester/internal/infrastructure/config"
	"recipe-suggester/internal/pkg/common"
	"recipe-suggester/internal/pkg/metrics"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

// ErrQueueFull 等待中的生成請求已達上限
var ErrQueueFull = common.NewError(common.ErrCodeTooManyRequests, "AI request queue is full", http.StatusTooManyRequests, nil)

// Status 隊列狀態
type Status struct {
	Waiting        int   `json:"waiting"`
	InFlight       int   `json:"in_flight"`
	ProcessedCount int64 `json:"processed_count"`
	MaxQueueSize   int   `json:"max_queue_size"`
	Workers        int   `json:"workers"`
}

// Limiter 限制同時進行的生成請求數量，其餘方法直接委派給內部提供者
type Limiter struct {
	provider.Provider

	sem       *semaphore.Weighted
	workers   int
	maxSize   int
	waiting   atomic.Int64
	inFlight  atomic.Int64
	processed atomic.Int64
}

// NewLimiter 以 Workers 個並行槽包裝提供者；MaxSize 為可等待的請求數
func NewLimiter(p provider.Provider, cfg config.QueueConfig) *Limiter {
	return &Limiter{
		Provider: p,
		sem:      semaphore.NewWeighted(int64(cfg.Workers)),
		workers:  cfg.Workers,
		maxSize:  cfg.MaxSize,
	}
}

// Generate 取得並行槽後呼叫提供者
func (l *Limiter) Generate(ctx context.Context, req *provider.Request) (*provider.Response, error) {
	if l.waiting.Add(1) > int64(l.maxSize) {
		l.waiting.Add(-1)
		common.LogWarn("AI request queue is full",
			zap.String("provider", l.Info().Name),
			zap.Int("max_queue_size", l.maxSize),
		)
		return nil, ErrQueueFull
	}
	l.report()

	err := l.sem.Acquire(ctx, 1)
	l.waiting.Add(-1)
	if err != nil {
		l.report()
		return nil, err
	}

	l.inFlight.Add(1)
	l.report()
	defer func() {
		l.inFlight.Add(-1)
		l.processed.Add(1)
		l.sem.Release(1)
		l.report()
	}()

	return l.Provider.Generate(ctx, req)
}

// Status 獲取隊列狀態
func (l *Limiter) Status() Status {
	return Status{
		Waiting:        int(l.waiting.Load()),
		InFlight:       int(l.inFlight.Load()),
		ProcessedCount: l.processed.Load(),
		MaxQueueSize:   l.maxSize,
		Workers:        l.workers,
	}
}

func (l *Limiter) report() {
	name := l.Info().Name
	metrics.AIQueueWaiting.WithLabelValues(name).Set(float64(l.waiting.Load()))
	metrics.AIInFlight.WithLabelValues(name).Set(float64(l.inFlight.Load()))
}
