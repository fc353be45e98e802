package logger

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/BruksfildServices01/tenant-scheduler/internal/config"
)

const (
	ContextLogger = "logger"
	RequestIDKey  = "X-Request-ID"
)

// New builds the process logger: JSON in production, console otherwise.
func New(cfg *config.Config) (*zap.Logger, error) {
	var logConfig zap.Config
	if cfg.IsProduction() {
		logConfig = zap.NewProductionConfig()
	} else {
		logConfig = zap.NewDevelopmentConfig()
		logConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	logConfig.Level.SetLevel(ParseLevel(cfg.LogLevel))
	return logConfig.Build()
}

// ParseLevel falls back to info for unknown names.
func ParseLevel(s string) zapcore.Level {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return zapcore.InfoLevel
	}
	return level
}

// FromContext returns the request-scoped logger set by Middleware, or a
// no-op logger outside a request.
func FromContext(c *gin.Context) *zap.Logger {
	if l, ok := c.Get(ContextLogger); ok {
		if zl, ok := l.(*zap.Logger); ok {
			return zl
		}
	}
	return zap.NewNop()
}

// Middleware stores a request-scoped logger and writes one access line
// per request.
func Middleware(base *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetString(RequestIDKey)
		if requestID == "" {
			requestID = c.GetHeader(RequestIDKey)
		}

		reqLogger := base.With(zap.String("request_id", requestID))
		c.Set(ContextLogger, reqLogger)

		c.Next()

		fields := []zapcore.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.ClientIP()),
			zap.String("user_agent", c.Request.UserAgent()),
		}

		switch {
		case len(c.Errors) > 0:
			fields = append(fields, zap.String("errors", c.Errors.String()))
			reqLogger.Error("HTTP request failed", fields...)
		case c.Writer.Status() >= 500:
			reqLogger.Error("HTTP request failed", fields...)
		default:
			reqLogger.Info("HTTP request completed", fields...)
		}
	}
}
