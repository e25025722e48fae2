package server

import (
	"time"

	"github.com/YuminosukeSato/biketrip/pkg/log"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDHeader carries the request ID in both directions.
const RequestIDHeader = "X-Request-ID"

const requestIDKey = "requestID"

// RequestID reuses a valid incoming X-Request-ID or generates a new one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// AccessLog writes one record per request after it completes.
func AccessLog(logger log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request",
			log.RequestIDKey, c.GetString(requestIDKey),
			log.MethodKey, c.Request.Method,
			log.PathKey, c.Request.URL.Path,
			log.StatusKey, c.Writer.Status(),
			log.ClientIPKey, c.ClientIP(),
			log.DurationMsKey, time.Since(start).Milliseconds(),
		)
	}
}
