package middleware

import (
	"net/http"

	"recipe-suggester/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BodySizeLimit 拒絕宣告長度超過 limit 的請求，並限制實際讀取量；limit <= 0 時不限制。
// 未宣告長度的請求在讀取超量時由 handler 收到 *http.MaxBytesError。
func BodySizeLimit(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limit <= 0 || c.Request.Body == nil || c.Request.Body == http.NoBody {
			c.Next()
			return
		}

		if declared := c.Request.ContentLength; declared > limit {
			common.LogWarn("請求內容過大",
				zap.String("request_id", requestid.Get(c)),
				zap.String("path", c.Request.URL.Path),
				zap.Int64("content_length", declared),
				zap.Int64("limit", limit),
			)
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, common.ErrBodyTooLarge.Response())
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		c.Next()
	}
}
