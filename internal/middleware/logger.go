// Package middleware 提供 HTTP 请求的中间件
package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
)

// LoggerMiddleware 创建请求日志中间件
// 记录每个请求的方法、路径、状态码、耗时和请求ID
// 返回:
//   - gin.HandlerFunc: Gin 中间件函数
func LoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 记录请求开始时间
		start := time.Now()

		// 获取请求路径
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery
		if raw != "" {
			path = path + "?" + raw
		}

		// 处理请求
		c.Next()

		// 计算请求耗时
		latency := time.Since(start)

		statusCode := c.Writer.Status()
		clientIP := c.ClientIP()
		method := c.Request.Method
		requestID := RequestID(c)

		// 获取错误信息（如果有）
		errorMessage := c.Errors.ByType(gin.ErrorTypePrivate).String()

		logLine := formatLogLine(statusCode, latency, clientIP, method, path, requestID, errorMessage)

		// 根据状态码选择日志级别
		if statusCode >= 500 {
			log.Printf("[ERROR] %s", logLine)
		} else if statusCode >= 400 {
			log.Printf("[WARN] %s", logLine)
		} else {
			log.Printf("[INFO] %s", logLine)
		}
	}
}

// formatLogLine 格式化日志行
func formatLogLine(statusCode int, latency time.Duration, clientIP, method, path, requestID, errorMessage string) string {
	// 格式化耗时
	// 小于 1ms 显示微秒，小于 1s 显示毫秒，否则显示秒
	var latencyStr string
	if latency < time.Millisecond {
		latencyStr = latency.String()
	} else if latency < time.Second {
		latencyStr = latency.Truncate(time.Microsecond).String()
	} else {
		latencyStr = latency.Truncate(time.Millisecond).String()
	}

	logLine := statusCodeTag(statusCode) + " | " +
		padRight(latencyStr, 12) + " | " +
		padRight(clientIP, 15) + " | " +
		padRight(method, 7) + " | " +
		path + " | " +
		requestID

	// 如果有错误信息，追加到日志
	if errorMessage != "" {
		logLine += " | " + errorMessage
	}

	return logLine
}

// statusCodeTag 根据状态码返回日志标记
func statusCodeTag(code int) string {
	switch {
	case code >= 200 && code < 300:
		return "[" + itoa(code) + " OK]"
	case code >= 300 && code < 400:
		return "[" + itoa(code) + " REDIRECT]"
	case code >= 400 && code < 500:
		return "[" + itoa(code) + " CLIENT_ERR]"
	default:
		return "[" + itoa(code) + " SERVER_ERR]"
	}
}

// padRight 右填充字符串到指定长度
func padRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	padding := length - len(s)
	for i := 0; i < padding; i++ {
		s += " "
	}
	return s
}
