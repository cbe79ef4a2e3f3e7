package httpx

import (
	"time"

	"github.com/Gunvolt24/shop_checkout/internal/ports"
	"github.com/gin-gonic/gin"
)

// RequestLogger — middleware для логирования HTTP-запросов.
// request_id / caller_id / trace_id логгер берёт из контекста запроса.
func RequestLogger(log ports.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		// не логируем /metrics, /ping
		switch c.FullPath() {
		case "/metrics", "/ping":
			return
		}

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		log.Infof(
			c.Request.Context(),
			"request method=%s path=%s status=%d ip=%s duration=%s size=%d",
			c.Request.Method,
			path,
			c.Writer.Status(),
			c.ClientIP(),
			time.Since(start),
			c.Writer.Size(),
		)
	}
}
