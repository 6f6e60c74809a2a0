package middleware

import (
	"context" // Request deadlines
	"time"    // Durations

	"github.com/gin-gonic/gin" // Gin web framework
)

// TimeoutMiddleware bounds every request's context by d
func TimeoutMiddleware(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx) // Handlers and stores see the deadline
		c.Next()
	}
}
