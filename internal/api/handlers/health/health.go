package health

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"recipe-planner/internal/core/ai/queue"
	"recipe-planner/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const pingTimeout = 2 * time.Second

// Pinger 檢查資料庫連線
type Pinger interface {
	Ping(ctx context.Context) error
}

// QueueReporter 回報生成隊列狀態
type QueueReporter interface {
	QueueStatus() *queue.Status
}

// StatsReporter 回報快取統計
type StatsReporter interface {
	GetStats() map[string]interface{}
}

// HealthResponse 健康檢查響應
type HealthResponse struct {
	Status    string                 `json:"status"`
	Database  string                 `json:"database"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Runtime   map[string]interface{} `json:"runtime"`
	Queue     *queue.Status          `json:"queue,omitempty"`
	Cache     map[string]interface{} `json:"cache,omitempty"`
}

// Handler 健康檢查處理程序
type Handler struct {
	db      Pinger
	queue   QueueReporter
	cache   StatsReporter
	version string
}

// NewHandler 創建健康檢查處理程序，queue 與 cache 可為 nil
func NewHandler(db Pinger, queue QueueReporter, cache StatsReporter, version string) *Handler {
	return &Handler{db: db, queue: queue, cache: cache, version: version}
}

func (h *Handler) databaseStatus(ctx context.Context) string {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := h.db.Ping(ctx); err != nil {
		common.LogWarn("Database ping failed", zap.Error(err))
		return "disconnected"
	}
	return "connected"
}

// HealthCheck 健康檢查處理器
func (h *Handler) HealthCheck(c *gin.Context) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	response := HealthResponse{
		Status:    "ok",
		Database:  h.databaseStatus(c.Request.Context()),
		Timestamp: time.Now(),
		Version:   h.version,
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
	if h.queue != nil {
		response.Queue = h.queue.QueueStatus()
	}
	if h.cache != nil {
		response.Cache = h.cache.GetStats()
	}

	c.JSON(http.StatusOK, response)
}

// ReadinessCheck 資料庫可用時才就緒
func (h *Handler) ReadinessCheck(c *gin.Context) {
	if h.databaseStatus(c.Request.Context()) != "connected" {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "not ready",
			"database": "disconnected",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":   "ready",
		"database": "connected",
	})
}

// LivenessCheck 存活檢查處理器
func (h *Handler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}
