package middleware

import (
	"bytes"
	"club-management-system/internal/global/jwt"
	"club-management-system/internal/global/response"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// maxResponseLogSize 日志中记录的响应体最大大小（10KB）
const maxResponseLogSize = 10 * 1024

// responseBodyWriter 包装 gin.ResponseWriter 以捕获响应体内容
type responseBodyWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *responseBodyWriter) Write(b []byte) (int, error) {
	if remaining := maxResponseLogSize - w.body.Len(); remaining > 0 {
		if len(b) <= remaining {
			w.body.Write(b)
		} else {
			w.body.Write(b[:remaining])
		}
	}
	return w.ResponseWriter.Write(b)
}

// Logger 记录请求日志，只有失败的请求才附带响应体
func Logger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		blw := &responseBodyWriter{ResponseWriter: c.Writer, body: &bytes.Buffer{}}
		c.Writer = blw

		c.Next()

		status := c.Writer.Status()
		attrs := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"query", c.Request.URL.RawQuery,
			"status", status,
			"latency", time.Since(start).String(),
			"client_ip", c.ClientIP(),
		}
		if claims, ok := jwt.GetUserPayload(c); ok {
			attrs = append(attrs, "user_id", claims.UserID.String())
		}

		switch {
		case status >= http.StatusInternalServerError:
			attrs = append(attrs, "response_body", blw.body.String())
			if e, ok := c.Get(response.ErrorContextKey); ok {
				attrs = append(attrs, "error", e)
			}
			log.Error("HTTP Request", attrs...)
		case status >= http.StatusBadRequest:
			attrs = append(attrs, "response_body", blw.body.String())
			log.Warn("HTTP Request", attrs...)
		default:
			log.Info("HTTP Request", attrs...)
		}
	}
}
