package recipe

import (
	"strconv"

	"recipe-planner/internal/api/middleware"
	"recipe-planner/internal/pkg/common"

	"github.com/gin-gonic/gin"
)

// bindJSON 解析請求體，格式錯誤時回傳 ErrInvalidRequest
func bindJSON(c *gin.Context, obj interface{}) error {
	if err := c.ShouldBindJSON(obj); err != nil {
		return common.ErrInvalidRequest.Wrap(err)
	}
	return nil
}

// ownerID 取得目前呼叫者的 ID
func ownerID(c *gin.Context) string {
	if identity := middleware.CurrentIdentity(c); identity != nil {
		return identity.UserID
	}
	return ""
}

// queryLimit 解析 limit 參數，無效時回傳 0
func queryLimit(c *gin.Context) int {
	limit, err := strconv.Atoi(c.Query("limit"))
	if err != nil || limit < 0 {
		return 0
	}
	return limit
}
