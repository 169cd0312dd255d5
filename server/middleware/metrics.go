package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/mddapi/observability"
)

// Metrics records request count, duration and in-flight gauge per route.
func Metrics(m *observability.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil || isProbe(c.Request.URL.Path) {
			c.Next()
			return
		}
		ctx := c.Request.Context()
		start := time.Now()
		m.RecordRequestStart(ctx)
		defer func() {
			route := c.FullPath()
			if route == "" {
				route = "unmatched"
			}
			m.RecordRequestEnd(ctx, c.Request.Method, route, c.Writer.Status(), time.Since(start))
		}()
		c.Next()
	}
}
