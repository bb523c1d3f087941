package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"recipe-planner/internal/infrastructure/config"
	"recipe-planner/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Verifier 驗證外部身分提供者的 access token
type Verifier interface {
	Verify(ctx context.Context, accessToken string) (*common.GoogleUser, error)
}

// GoogleVerifier 以 Google userinfo 端點驗證 access token
type GoogleVerifier struct {
	client *resty.Client
	url    string
}

// NewGoogleVerifier 創建新的 Google 驗證器
func NewGoogleVerifier(cfg *config.AuthConfig) *GoogleVerifier {
	client := resty.New().
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json")

	return &GoogleVerifier{
		client: client,
		url:    cfg.GoogleUserInfoURL,
	}
}

// Verify 呼叫 userinfo，回應必須包含 email
func (v *GoogleVerifier) Verify(ctx context.Context, accessToken string) (*common.GoogleUser, error) {
	accessToken = strings.TrimSpace(accessToken)
	if accessToken == "" {
		return nil, common.ErrAuthRequired
	}

	var user common.GoogleUser
	resp, err := v.client.R().
		SetContext(ctx).
		SetAuthToken(accessToken).
		SetResult(&user).
		Get(v.url)
	if err != nil {
		common.LogWarn("Google userinfo request failed", zap.Error(err))
		return nil, common.ErrAuthRequired.WithMessage("invalid Google token").Wrap(err)
	}

	if resp.StatusCode() != http.StatusOK {
		common.LogWarn("Google userinfo rejected token", zap.Int("status", resp.StatusCode()))
		return nil, common.ErrAuthRequired.WithMessage("invalid Google token").
			Wrap(fmt.Errorf("userinfo returned status %d", resp.StatusCode()))
	}

	if user.Email == "" {
		return nil, common.ErrAuthRequired.WithMessage("invalid user data received from Google")
	}

	return &user, nil
}
