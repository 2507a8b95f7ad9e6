// Package middleware 提供 HTTP 请求的中间件
package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDHeader 请求ID的 HTTP 头名称
const RequestIDHeader = "X-Request-ID"

// requestIDKey 请求ID在 gin.Context 中的键名
const requestIDKey = "request_id"

// RequestIDMiddleware 创建请求ID中间件
// 为每个请求分配一个 UUID，写入响应头并供日志中间件使用
// 客户端已携带 X-Request-ID 时沿用客户端的值
// 返回:
//   - gin.HandlerFunc: Gin 中间件函数
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		c.Set(requestIDKey, requestID)
		c.Header(RequestIDHeader, requestID)

		c.Next()
	}
}

// RequestID 从上下文中取出当前请求的ID
// 中间件未启用时返回空字符串
func RequestID(c *gin.Context) string {
	if id, ok := c.Get(requestIDKey); ok {
		if s, ok := id.(string); ok {
			return s
		}
	}
	return ""
}
