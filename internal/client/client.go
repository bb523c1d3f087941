package client

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"recipe-planner/internal/core/grocery"
	"recipe-planner/internal/pkg/common"

	"github.com/go-resty/resty/v2"
)

// Client 食譜 API 用戶端
type Client struct {
	http    *resty.Client
	timeout time.Duration
}

// New 創建新的 API 用戶端；token 為 session token 或 Google access token
func New(baseURL, token string, timeout time.Duration) *Client {
	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetHeader("Accept", "application/json").
		SetHeader("Content-Type", "application/json")
	if token != "" {
		httpClient.SetAuthToken(token)
	}
	return &Client{http: httpClient, timeout: timeout}
}

// request 建立帶逾時與請求 ID 的請求
func (c *Client) request(ctx context.Context) (*resty.Request, context.CancelFunc) {
	cancel := context.CancelFunc(func() {})
	if c.timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
	}
	req := c.http.R().
		SetContext(ctx).
		SetHeader("X-Request-ID", common.GenerateUUID()).
		SetError(&common.ErrorResponse{})
	return req, cancel
}

// Search 搜尋食譜
func (c *Client) Search(ctx context.Context, query string) ([]common.Recipe, error) {
	var recipes []common.Recipe
	req, cancel := c.request(ctx)
	defer cancel()

	resp, err := req.SetQueryParam("q", query).SetResult(&recipes).Get("/api/recipes/search")
	if err := checkResponse(resp, err); err != nil {
		return nil, err
	}
	return recipes, nil
}

// GetByID 取得食譜
func (c *Client) GetByID(ctx context.Context, id string) (*common.Recipe, error) {
	var recipe common.Recipe
	req, cancel := c.request(ctx)
	defer cancel()

	resp, err := req.SetPathParam("id", id).SetResult(&recipe).Get("/api/recipes/{id}")
	if err := checkResponse(resp, err); err != nil {
		return nil, err
	}
	return &recipe, nil
}

// FetchDetail 取得尚未正規化的食譜詳情
func (c *Client) FetchDetail(ctx context.Context, id string) (*grocery.RawRecipe, error) {
	var raw grocery.RawRecipe
	req, cancel := c.request(ctx)
	defer cancel()

	resp, err := req.SetPathParam("id", id).SetResult(&raw).Get("/api/recipes/{id}")
	if err := checkResponse(resp, err); err != nil {
		return nil, err
	}
	return &raw, nil
}

// Create 建立食譜
func (c *Client) Create(ctx context.Context, in *common.RecipeInput) (*common.Recipe, error) {
	var recipe common.Recipe
	req, cancel := c.request(ctx)
	defer cancel()

	resp, err := req.SetBody(in).SetResult(&recipe).Post("/api/recipes")
	if err := checkResponse(resp, err); err != nil {
		return nil, err
	}
	return &recipe, nil
}

// ListAll 列出食譜，limit <= 0 時由伺服器決定
func (c *Client) ListAll(ctx context.Context, limit int) ([]common.Recipe, error) {
	var recipes []common.Recipe
	req, cancel := c.request(ctx)
	defer cancel()

	if limit > 0 {
		req.SetQueryParam("limit", strconv.Itoa(limit))
	}
	resp, err := req.SetResult(&recipes).Get("/api/recipes")
	if err := checkResponse(resp, err); err != nil {
		return nil, err
	}
	return recipes, nil
}

// Generate 依菜名生成食譜（不儲存）
func (c *Client) Generate(ctx context.Context, dishName string) (*common.RecipeInput, error) {
	var result common.RecipeInput
	req, cancel := c.request(ctx)
	defer cancel()

	resp, err := req.SetBody(map[string]string{"recipeName": dishName}).SetResult(&result).Post("/api/recipes/generate")
	if err := checkResponse(resp, err); err != nil {
		return nil, err
	}
	return &result, nil
}

// checkResponse 將傳輸錯誤與 HTTP 錯誤轉成 CustomError
func checkResponse(resp *resty.Response, err error) error {
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	if !resp.IsError() {
		return nil
	}

	message := strings.TrimSpace(string(resp.Body()))
	code := ""
	if apiErr, ok := resp.Error().(*common.ErrorResponse); ok && apiErr.Message != "" {
		message, code = apiErr.Message, apiErr.Code
	}

	if message == "" {
		message = http.StatusText(resp.StatusCode())
	}

	switch resp.StatusCode() {
	case http.StatusUnauthorized:
		return common.ErrAuthRequired.WithMessage(message)
	case http.StatusNotFound:
		return common.ErrNotFound.WithMessage(message)
	}
	if code == "" {
		code = common.ErrCodeInternalError
	}
	return common.NewError(code, message, resp.StatusCode(), nil)
}
