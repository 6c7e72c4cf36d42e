package http

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hinote/backend/internal/metrics"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	// MetricsPath serves the Prometheus exposition format
	MetricsPath = "/metrics"

	notFoundPath = "/not-found"
)

// MetricsMiddleware records request durations by status code, method and
// route template. Unmatched paths share one label to bound cardinality.
func MetricsMiddleware() gin.HandlerFunc {
	durations, err := metrics.HistogramVec(
		"http_request_duration_seconds",
		"Time spent processing a route",
		"code", "method", "path",
	)
	if err != nil {
		panic(err)
	}

	return func(c *gin.Context) {
		if c.Request.URL.Path == MetricsPath {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = notFoundPath
		}
		durations.WithLabelValues(strconv.Itoa(c.Writer.Status()), c.Request.Method, path).
			Observe(time.Since(start).Seconds())
	}
}

// MetricsHandler exposes the default Prometheus registry
func MetricsHandler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
