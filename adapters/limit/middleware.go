package limit

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// GinFormLimit 限制表單請求的大小，超過時回應 413
// 表單在這裡先解析，之後的 c.PostForm 會直接使用解析結果
func GinFormLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body == nil || c.Request.Method == http.MethodGet || c.Request.Method == http.MethodHead {
			c.Next()
			return
		}
		c.Request.Body = NewReadCloser(c.Request.Body, maxBytes)
		if err := c.Request.ParseForm(); err != nil {
			var reachLimit *ReachLimitError
			if errors.As(err, &reachLimit) {
				c.String(http.StatusRequestEntityTooLarge, "Request body exceeds %s", FormatBytes(maxBytes))
			} else {
				c.String(http.StatusBadRequest, "Malformed form body")
			}
			c.Abort()
			return
		}
		c.Next()
	}
}
