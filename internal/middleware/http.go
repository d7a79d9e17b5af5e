package middleware

import (
	"time"

	"github.com/fekuna/omnipos-billing-service/internal/auth"
	"github.com/fekuna/omnipos-billing-service/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// GinContext copies the caller identity headers onto the request context.
func GinContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		u := auth.UserContext{
			PropertyID: c.GetHeader(auth.HeaderPropertyID),
			UserID:     c.GetHeader(auth.HeaderUserID),
		}
		c.Request = c.Request.WithContext(auth.WithUser(c.Request.Context(), u))
		c.Next()
	}
}

func GinLogger(log logger.ZapLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		switch {
		case c.Writer.Status() >= 500:
			log.Error("http request", fields...)
		case c.Writer.Status() >= 400:
			log.Warn("http request", fields...)
		default:
			log.Info("http request", fields...)
		}
	}
}
