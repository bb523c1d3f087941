package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"recipe-planner/internal/core/ai/provider"
	"recipe-planner/internal/core/ai/queue"
	"recipe-planner/internal/pkg/common"

	"go.uber.org/zap"
)

// Service AI 服務：經由隊列限制同時送往模型的請求數
type Service struct {
	provider provider.Provider
	queue    *queue.Manager
}

// NewService 創建 AI 服務
func NewService(p provider.Provider, q *queue.Manager) (*Service, error) {
	if p == nil {
		return nil, fmt.Errorf("provider is required")
	}
	if q == nil {
		return nil, fmt.Errorf("queue manager is required")
	}
	return &Service{
		provider: p,
		queue:    q,
	}, nil
}

// ProcessRequest 統一對外方法：套用提供者逾時、排入隊列並等待回應
func (s *Service) ProcessRequest(ctx context.Context, req *provider.Request) (*provider.Response, error) {
	if timeout := s.provider.GetTimeout(); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := s.queue.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("AI service error: %w", err)
	}
	if resp == nil || strings.TrimSpace(resp.Content) == "" {
		return nil, fmt.Errorf("empty AI response")
	}

	common.LogDebug("AI response received",
		zap.String("model", s.provider.GetModel()),
		zap.Int("content_length", len(resp.Content)),
		zap.Duration("duration", time.Since(start)),
	)

	return resp, nil
}

// QueueStatus 回傳隊列狀態供健康檢查使用
func (s *Service) QueueStatus() *queue.Status {
	return s.queue.GetQueueStatus()
}

// Model 回傳目前使用的模型
func (s *Service) Model() string {
	return s.provider.GetModel()
}
