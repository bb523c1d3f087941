package middleware

import (
	"fmt"
	"net/http"

	"recipe-planner/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrPayloadTooLarge 請求體超過上限
var ErrPayloadTooLarge = common.NewError("PAYLOAD_TOO_LARGE", "request body too large", http.StatusRequestEntityTooLarge, nil)

// BodySizeLimit 拒絕宣告長度超過 maxBytes 的請求，並限制實際讀取量
func BodySizeLimit(maxBytes int64) gin.HandlerFunc {
	if maxBytes <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	tooLarge := ErrPayloadTooLarge.WithMessage(fmt.Sprintf("request body exceeds %d bytes", maxBytes))

	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			common.LogWarn("Request body rejected",
				zap.Int64("content_length", c.Request.ContentLength),
				zap.Int64("max_bytes", maxBytes),
				zap.String("path", c.Request.URL.Path),
			)
			common.RespondError(c, tooLarge, false)
			return
		}
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}
