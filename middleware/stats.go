package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/content-audit/backend/logging"
)

// Context key the analyze handler uses to expose the focus keyword.
const FocusKeywordKey = "focusKeyword"

// Stats tracks visitors, analysis latency and focus-keyword popularity.
func Stats(stats *logging.Statistics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		stats.TrackVisitor(c.ClientIP())

		c.Next()

		if c.Request.URL.Path == "/api/analyze" && c.Request.Method == "POST" {
			analyzeTime := float64(time.Since(start).Microseconds()) / 1000.0
			stats.TrackAnalysis(c.GetString(FocusKeywordKey), analyzeTime, c.Writer.Status() >= 400)
		}

		// Persist asynchronously every 100 requests.
		if total := stats.RequestTotal(); total > 0 && total%100 == 0 {
			go stats.Save()
		}
	}
}
