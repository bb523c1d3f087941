package middleware

import (
	"context"
	"errors"

	"recipe-planner/internal/core/auth"
	"recipe-planner/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const identityKey = "identity"

// Authenticator 驗證 bearer token
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*auth.Identity, error)
}

// RequireAuth 驗證 Authorization header 並將呼叫者寫入 context
func RequireAuth(authenticator Authenticator, debug bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := auth.BearerToken(c.GetHeader("Authorization"))
		if err != nil {
			common.RespondError(c, err, debug)
			return
		}

		identity, err := authenticator.Authenticate(c.Request.Context(), token)
		if err != nil {
			common.LogWarn("Authentication failed",
				zap.String("path", c.Request.URL.Path),
				zap.Error(err),
			)
			if !errors.Is(err, common.ErrAuthRequired) {
				err = common.ErrAuthRequired.Wrap(err)
			}
			common.RespondError(c, err, debug)
			return
		}

		c.Set(identityKey, identity)
		c.Next()
	}
}

// CurrentIdentity 取得已驗證的呼叫者，未驗證時回傳 nil
func CurrentIdentity(c *gin.Context) *auth.Identity {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil
	}
	identity, _ := v.(*auth.Identity)
	return identity
}
