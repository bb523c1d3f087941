package queue

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"recipe-planner/internal/core/ai/provider"
	"recipe-planner/internal/infrastructure/config"
	"recipe-planner/internal/pkg/common"

	"go.uber.org/zap"
)

var (
	// ErrQueueFull 隊列已滿
	ErrQueueFull = errors.New("queue is full")
	// ErrQueueClosed 隊列已關閉
	ErrQueueClosed = errors.New("queue manager is closed")
)

// Request 隊列請求
type Request struct {
	Context context.Context
	Request *provider.Request
	Result  chan Result
}

// Result 處理結果
type Result struct {
	Response *provider.Response
	Error    error
}

// Status 隊列狀態
type Status struct {
	QueueLength    int `json:"queue_length"`
	ProcessedCount int `json:"processed_count"`
	MaxQueueSize   int `json:"max_queue_size"`
	Workers        int `json:"workers"`
}

// Manager 隊列管理器，以固定數量的 worker 呼叫模型提供者
type Manager struct {
	config    *config.QueueConfig
	provider  provider.Provider
	queue     chan *Request
	done      chan struct{}
	processed int64
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewManager 創建並啟動隊列管理器
func NewManager(cfg *config.QueueConfig, p provider.Provider) *Manager {
	m := &Manager{
		config:   cfg,
		provider: p,
		queue:    make(chan *Request, cfg.MaxSize),
		done:     make(chan struct{}),
	}

	for i := 0; i < cfg.Workers; i++ {
		m.wg.Add(1)
		go m.worker(i)
	}

	common.LogInfo("Generation queue started",
		zap.Int("workers", cfg.Workers),
		zap.Int("max_queue_size", cfg.MaxSize),
	)

	return m
}

// worker 處理隊列中的請求
func (m *Manager) worker(id int) {
	defer m.wg.Done()
	for {
		select {
		case <-m.done:
			return
		case req := <-m.queue:
			// 呼叫端已放棄的請求不再送出
			if err := req.Context.Err(); err != nil {
				req.Result <- Result{Error: err}
				continue
			}
			resp, err := m.provider.Generate(req.Context, req.Request)
			atomic.AddInt64(&m.processed, 1)
			req.Result <- Result{Response: resp, Error: err}
			common.LogDebug("Generation request processed",
				zap.Int("worker", id),
				zap.Bool("failed", err != nil),
			)
		}
	}
}

// Enqueue 將請求加入隊列，隊列已滿時立即失敗
func (m *Manager) Enqueue(ctx context.Context, req *provider.Request) (<-chan Result, error) {
	queueReq := &Request{
		Context: ctx,
		Request: req,
		Result:  make(chan Result, 1),
	}

	select {
	case <-m.done:
		return nil, ErrQueueClosed
	default:
	}

	select {
	case m.queue <- queueReq:
		return queueReq.Result, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-m.done:
		return nil, ErrQueueClosed
	default:
		common.LogWarn("Generation queue full", zap.Int("max_queue_size", m.config.MaxSize))
		return nil, ErrQueueFull
	}
}

// Do 加入隊列並等待結果
func (m *Manager) Do(ctx context.Context, req *provider.Request) (*provider.Response, error) {
	resultCh, err := m.Enqueue(ctx, req)
	if err != nil {
		return nil, err
	}
	select {
	case res := <-resultCh:
		return res.Response, res.Error
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// GetQueueStatus 獲取隊列狀態
func (m *Manager) GetQueueStatus() *Status {
	return &Status{
		QueueLength:    len(m.queue),
		ProcessedCount: int(atomic.LoadInt64(&m.processed)),
		MaxQueueSize:   m.config.MaxSize,
		Workers:        m.config.Workers,
	}
}

// Close 停止所有 worker
func (m *Manager) Close() {
	m.closeOnce.Do(func() {
		close(m.done)
	})
	m.wg.Wait()
}
