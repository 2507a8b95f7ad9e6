// Package middleware 提供 HTTP 请求的中间件
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// CORSConfig CORS 跨域配置
type CORSConfig struct {
	AllowOrigins     []string // 允许的来源，如 ["http://localhost:5173"]
	AllowMethods     []string // 允许的 HTTP 方法
	AllowHeaders     []string // 允许的请求头
	ExposeHeaders    []string // 允许暴露的响应头
	AllowCredentials bool     // 是否允许携带凭据（Cookie）
	MaxAge           int      // 预检请求结果的缓存时间（秒）
}

// DefaultCORSConfig 返回默认的 CORS 配置
// 参数:
//   - origins: 允许的来源列表，为空时允许所有来源（开发环境）
func DefaultCORSConfig(origins []string) CORSConfig {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return CORSConfig{
		AllowOrigins: origins,
		AllowMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPatch,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Accept",
			"X-Requested-With",
			RequestIDHeader,
		},
		ExposeHeaders: []string{
			"Content-Length",
			RequestIDHeader,
		},
		AllowCredentials: true,
		MaxAge:           86400, // 24 小时
	}
}

// CORSMiddleware 创建 CORS 跨域中间件
// 参数:
//   - cfg: CORS 配置，通常由 DefaultCORSConfig 构建
//
// 返回:
//   - gin.HandlerFunc: Gin 中间件函数
func CORSMiddleware(cfg CORSConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		// 检查来源是否被允许
		allowOrigin := ""
		if len(cfg.AllowOrigins) == 1 && cfg.AllowOrigins[0] == "*" {
			allowOrigin = "*"
		} else {
			for _, o := range cfg.AllowOrigins {
				if o == origin {
					allowOrigin = origin
					break
				}
			}
		}

		// 如果来源被允许，设置 CORS 响应头
		if allowOrigin != "" {
			c.Header("Access-Control-Allow-Origin", allowOrigin)

			if cfg.AllowCredentials {
				c.Header("Access-Control-Allow-Credentials", "true")
			}

			if len(cfg.ExposeHeaders) > 0 {
				c.Header("Access-Control-Expose-Headers", strings.Join(cfg.ExposeHeaders, ", "))
			}
		}

		// 处理预检请求（OPTIONS）
		if c.Request.Method == http.MethodOptions {
			c.Header("Access-Control-Allow-Methods", strings.Join(cfg.AllowMethods, ", "))
			c.Header("Access-Control-Allow-Headers", strings.Join(cfg.AllowHeaders, ", "))
			if cfg.MaxAge > 0 {
				c.Header("Access-Control-Max-Age", itoa(cfg.MaxAge))
			}

			// 预检请求直接返回 204，不继续处理
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// itoa 将整数转换为字符串（简单实现）
func itoa(n int) string {
	if n == 0 {
		return "0"
	}

	result := ""
	negative := n < 0
	if negative {
		n = -n
	}

	for n > 0 {
		result = string(rune('0'+n%10)) + result
		n /= 10
	}

	if negative {
		result = "-" + result
	}
	return result
}
