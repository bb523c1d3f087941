package provider

import (
	"context"
	"time"
)

// 對話角色
const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// Message 對話訊息
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request chat completion 請求；零值欄位由提供者的設定補上
type Request struct {
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Temperature float64   `json:"temperature,omitempty"`
}

// NewChatRequest 以 system 與 user 兩則訊息建立請求
func NewChatRequest(system, user string) *Request {
	return &Request{
		Messages: []Message{
			{Role: RoleSystem, Content: system},
			{Role: RoleUser, Content: user},
		},
	}
}

// LastUserMessage 回傳最後一則 user 訊息，沒有時回傳空字串
func (r *Request) LastUserMessage() string {
	for i := len(r.Messages) - 1; i >= 0; i-- {
		if r.Messages[i].Role == RoleUser {
			return r.Messages[i].Content
		}
	}
	return ""
}

// Usage token 用量
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response 模型回應，只保留第一個選項的內容
type Response struct {
	Content string `json:"content"`
	Usage   Usage  `json:"usage"`
}

// Provider 生成結構化食譜所用的模型提供者
type Provider interface {
	Generate(ctx context.Context, req *Request) (*Response, error)
	GetModel() string
	GetTimeout() time.Duration
	Close() error
}
