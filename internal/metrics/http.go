package metrics

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	resultSuccess = "success"
	resultFailure = "failure"

	unmatchedRoute = "unknown"
)

// Scrape, health and docs routes are not recorded.
var (
	unrecordedPaths    = map[string]bool{"/metrics": true, "/health": true}
	unrecordedPrefixes = []string{"/swagger/"}
)

// HTTPMetricsMiddleware counts requests by route pattern and status and
// observes their latency. A disabled Recorder yields a pass-through handler.
func HTTPMetricsMiddleware(r Recorder) gin.HandlerFunc {
	m, ok := r.(*Metrics)
	if !ok {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		if !recorded(c.Request.URL.Path) {
			c.Next()
			return
		}

		m.HTTPRequestsInFlight.Inc()
		start := time.Now()
		c.Next()
		m.HTTPRequestsInFlight.Dec()

		route := normalizePath(c.FullPath())
		m.HTTPRequestsTotal.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Inc()
		m.HTTPRequestDuration.
			WithLabelValues(c.Request.Method, route).
			Observe(time.Since(start).Seconds())
	}
}

func recorded(path string) bool {
	if unrecordedPaths[path] {
		return false
	}
	for _, prefix := range unrecordedPrefixes {
		if strings.HasPrefix(path, prefix) {
			return false
		}
	}
	return true
}

// normalizePath labels a request by its route pattern. Requests that matched
// no route share one label.
func normalizePath(fullPath string) string {
	if fullPath == "" {
		return unmatchedRoute
	}
	return fullPath
}
