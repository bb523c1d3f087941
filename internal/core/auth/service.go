package auth

import (
	"context"
	"errors"
	"strings"

	"recipe-planner/internal/pkg/common"

	"go.uber.org/zap"
)

// Identity 已驗證的呼叫者
type Identity struct {
	UserID string `json:"id"`
	Email  string `json:"email"`
	Name   string `json:"name,omitempty"`
}

// UserRepository 使用者儲存介面
type UserRepository interface {
	FindByGoogleID(ctx context.Context, googleID string) (*common.User, error)
	Create(ctx context.Context, user *common.User) (*common.User, error)
}

// Service 驗證 bearer token 並處理登入
type Service struct {
	verifier Verifier
	tokens   *TokenIssuer
	users    UserRepository
}

// NewService 創建新的驗證服務
func NewService(verifier Verifier, tokens *TokenIssuer, users UserRepository) *Service {
	return &Service{
		verifier: verifier,
		tokens:   tokens,
		users:    users,
	}
}

// BearerToken 從 Authorization header 取出 token
func BearerToken(header string) (string, error) {
	const prefix = "Bearer "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", common.ErrAuthRequired
	}
	token := strings.TrimSpace(header[len(prefix):])
	if token == "" {
		return "", common.ErrAuthRequired
	}
	return token, nil
}

// Authenticate 先嘗試本服務簽發的 session token，失敗再向 Google 驗證
func (s *Service) Authenticate(ctx context.Context, token string) (*Identity, error) {
	if s.tokens != nil {
		if claims, err := s.tokens.Parse(token); err == nil {
			return &Identity{UserID: claims.ID, Email: claims.Email}, nil
		}
	}

	user, err := s.verifier.Verify(ctx, token)
	if err != nil {
		return nil, err
	}
	return &Identity{UserID: user.Sub, Email: user.Email, Name: user.Name}, nil
}

// Login 驗證 Google token，找不到使用者時建立，並簽發 session token
func (s *Service) Login(ctx context.Context, googleToken string) (*common.User, string, error) {
	if strings.TrimSpace(googleToken) == "" {
		return nil, "", common.NewValidationError("token is required")
	}

	googleUser, err := s.verifier.Verify(ctx, googleToken)
	if err != nil {
		return nil, "", err
	}

	user, err := s.users.FindByGoogleID(ctx, googleUser.Sub)
	if errors.Is(err, common.ErrNotFound) {
		user, err = s.users.Create(ctx, &common.User{
			GoogleID: googleUser.Sub,
			Email:    googleUser.Email,
			Name:     googleUser.Name,
			Picture:  googleUser.Picture,
		})
		if err == nil {
			common.LogInfo("User created", zap.String("user_id", user.ID))
		}
	}
	if err != nil {
		return nil, "", err
	}

	signed, err := s.tokens.Issue(user)
	if err != nil {
		return nil, "", err
	}
	return user, signed, nil
}
