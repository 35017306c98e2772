// Package middleware 提供 HTTP 中间件
package middleware

import (
	"bytes"
	"io"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/injapanfood/injapanfood-backend/internal/common/logger"
)

// LoggingConfig 访问日志配置
type LoggingConfig struct {
	Logger          *zap.Logger
	SkipPaths       []string      // 不记录日志的路径
	SkipHealthCheck bool          // 跳过健康检查探针
	LogRequestBody  bool          // 记录请求体（券码校验等 POST 接口排障用）
	LogResponseBody bool          // 记录响应体
	MaxBodySize     int           // body 截断长度
	SlowThreshold   time.Duration // 超过该耗时的请求升级为 Warn
}

// DefaultLoggingConfig 默认访问日志配置
func DefaultLoggingConfig(log *zap.Logger) *LoggingConfig {
	return &LoggingConfig{
		Logger:          log,
		SkipHealthCheck: true,
		MaxBodySize:     1024,
		SlowThreshold:   time.Second,
	}
}

// 健康检查与文档路径不进访问日志
var probePaths = map[string]struct{}{
	"/health": {},
	"/ping":   {},
	"/ready":  {},
}

// teeWriter 同时写响应与缓冲，用于响应体采样
type teeWriter struct {
	gin.ResponseWriter
	buf *bytes.Buffer
}

func (w *teeWriter) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

func truncateBody(b []byte, max int) string {
	if len(b) > max {
		return string(b[:max]) + "...(truncated)"
	}
	return string(b)
}

// Logging 访问日志中间件。每个请求记录一行结构化日志，
// 级别按状态码与耗时选择：5xx=Error，4xx=Warn，慢请求=Warn，其余=Info。
func Logging(cfg *LoggingConfig) gin.HandlerFunc {
	skip := make(map[string]struct{}, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		skip[p] = struct{}{}
	}

	return func(c *gin.Context) {
		path := c.Request.URL.Path

		if _, ok := skip[path]; ok {
			c.Next()
			return
		}
		if cfg.SkipHealthCheck {
			if _, ok := probePaths[path]; ok {
				c.Next()
				return
			}
		}

		start := time.Now()

		var reqBody string
		if cfg.LogRequestBody && c.Request.Body != nil {
			raw, _ := io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewBuffer(raw))
			if len(raw) > 0 {
				reqBody = truncateBody(raw, cfg.MaxBodySize)
			}
		}

		var tee *teeWriter
		if cfg.LogResponseBody {
			tee = &teeWriter{ResponseWriter: c.Writer, buf: &bytes.Buffer{}}
			c.Writer = tee
		}

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		fields := []zap.Field{
			logger.RequestID(GetRequestID(c)),
			logger.Method(c.Request.Method),
			logger.Path(path),
			logger.StatusCode(status),
			logger.Latency(latency),
			logger.IP(c.ClientIP()),
		}
		if q := c.Request.URL.RawQuery; q != "" {
			fields = append(fields, logger.String("query", q))
		}
		if ua := c.Request.UserAgent(); ua != "" {
			fields = append(fields, logger.String("user_agent", ua))
		}
		if userID := GetUserID(c); userID > 0 {
			fields = append(fields, logger.UserID(userID))
		}
		if adminID := GetAdminID(c); adminID > 0 {
			fields = append(fields, logger.AdminID(adminID))
		}
		if reqBody != "" {
			fields = append(fields, logger.String("request_body", reqBody))
		}
		if tee != nil {
			fields = append(fields, logger.String("response_body", truncateBody(tee.buf.Bytes(), cfg.MaxBodySize)))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, logger.String("errors", c.Errors.String()))
		}

		switch {
		case status >= 500:
			cfg.Logger.Error("http access", fields...)
		case status >= 400:
			cfg.Logger.Warn("http access", fields...)
		case cfg.SlowThreshold > 0 && latency > cfg.SlowThreshold:
			cfg.Logger.Warn("http access slow", fields...)
		default:
			cfg.Logger.Info("http access", fields...)
		}
	}
}

// AccessLog 以默认配置记录访问日志
func AccessLog(log *zap.Logger) gin.HandlerFunc {
	return Logging(DefaultLoggingConfig(log))
}
