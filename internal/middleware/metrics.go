package middleware

import (
	"strconv"
	"time"

	"github.com/SscSPs/avec_backend/pkg/metrics"
	"github.com/gin-gonic/gin"
)

// PrometheusMiddleware records request latency by route template, so ids do not explode label cardinality.
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metrics.HTTPRequestDuration.
			WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}
