package auth

import (
	"net/http"

	"recipe-planner/internal/api/middleware"
	authService "recipe-planner/internal/core/auth"
	"recipe-planner/internal/pkg/common"

	"github.com/gin-gonic/gin"
)

// LoginRequest Google 登入請求
type LoginRequest struct {
	Token string `json:"token"`
}

// UserView 回傳給用戶端的使用者資料
type UserView struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Picture string `json:"picture,omitempty"`
}

// LoginResponse 登入回應
type LoginResponse struct {
	Token string   `json:"token"`
	User  UserView `json:"user"`
}

// Handler 驗證處理程序
type Handler struct {
	auth  *authService.Service
	debug bool
}

// NewHandler 創建驗證處理程序
func NewHandler(auth *authService.Service, debug bool) *Handler {
	return &Handler{auth: auth, debug: debug}
}

// GoogleLogin POST /api/auth/google
func (h *Handler) GoogleLogin(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondError(c, common.ErrInvalidRequest.Wrap(err), h.debug)
		return
	}

	user, token, err := h.auth.Login(c.Request.Context(), req.Token)
	if err != nil {
		common.RespondError(c, err, h.debug)
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		Token: token,
		User: UserView{
			ID:      user.ID,
			Name:    user.Name,
			Email:   user.Email,
			Picture: user.Picture,
		},
	})
}

// Me GET /api/auth/me
func (h *Handler) Me(c *gin.Context) {
	identity := middleware.CurrentIdentity(c)
	if identity == nil {
		common.RespondError(c, common.ErrAuthRequired, h.debug)
		return
	}
	c.JSON(http.StatusOK, identity)
}
