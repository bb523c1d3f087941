package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"recipe-planner/internal/core/ai/provider"
	"recipe-planner/internal/infrastructure/config"
	"recipe-planner/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// LLMService 與 OpenAI 相容的 chat completions 服務
type LLMService struct {
	config *config.LLMConfig
	client *resty.Client
}

var _ provider.Provider = (*LLMService)(nil)

// chatRequest chat completions 請求
type chatRequest struct {
	Model       string             `json:"model"`
	Messages    []provider.Message `json:"messages"`
	MaxTokens   int                `json:"max_tokens,omitempty"`
	Temperature float64            `json:"temperature"`
}

// chatResponse chat completions 回應
type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage provider.Usage `json:"usage"`
}

// apiError API 錯誤回應
type apiError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// NewLLMService 創建 LLM 服務
func NewLLMService(cfg *config.LLMConfig) *LLMService {
	client := resty.New().
		SetBaseURL(strings.TrimSuffix(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json").
		SetAuthToken(cfg.APIKey)

	return &LLMService{
		config: cfg,
		client: client,
	}
}

// Generate 呼叫 /chat/completions 並回傳第一個選項的內容
func (s *LLMService) Generate(ctx context.Context, req *provider.Request) (*provider.Response, error) {
	body := chatRequest{
		Model:       s.config.Model,
		Messages:    req.Messages,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	}
	if body.MaxTokens == 0 {
		body.MaxTokens = s.config.MaxTokens
	}
	if body.Temperature == 0 {
		body.Temperature = s.config.Temperature
	}

	start := time.Now()
	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(body).
		Post("/chat/completions")
	if err != nil {
		common.LogAICall(s.config.Model, time.Since(start), err)
		return nil, fmt.Errorf("failed to send request to LLM: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		var apiErr apiError
		msg := resp.String()
		if json.Unmarshal(resp.Body(), &apiErr) == nil && apiErr.Error.Message != "" {
			msg = apiErr.Error.Message
		}
		err := fmt.Errorf("LLM API returned status %d: %s", resp.StatusCode(), msg)
		common.LogAICall(s.config.Model, time.Since(start), err)
		return nil, err
	}

	var result chatResponse
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("failed to parse LLM response: %w", err)
	}

	if len(result.Choices) == 0 {
		return nil, fmt.Errorf("no choices in LLM response")
	}

	common.LogAICall(s.config.Model, time.Since(start), nil)
	common.LogDebug("LLM usage",
		zap.Int("prompt_tokens", result.Usage.PromptTokens),
		zap.Int("completion_tokens", result.Usage.CompletionTokens),
	)

	return &provider.Response{
		Content: result.Choices[0].Message.Content,
		Usage:   result.Usage,
	}, nil
}

// GetModel 獲取當前使用的模型名稱
func (s *LLMService) GetModel() string {
	return s.config.Model
}

// GetTimeout 獲取請求超時時間
func (s *LLMService) GetTimeout() time.Duration {
	return s.config.Timeout
}

// Close 關閉閒置連線
func (s *LLMService) Close() error {
	s.client.GetClient().CloseIdleConnections()
	return nil
}
