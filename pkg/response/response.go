// Package response 提供统一的 HTTP 响应格式
// 成功时直接返回资源本身（对象或数组），失败时返回 {"message": "..."}，
// 与前端数据层约定的契约保持一致
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorResponse 错误响应结构
type ErrorResponse struct {
	Message string `json:"message"` // 错误信息
}

// OK 返回 200 成功响应
// 参数:
//   - c: Gin 上下文
//   - data: 响应数据，可以是任意类型
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Created 返回 201 创建成功响应
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// NoContent 返回 204 无内容响应（用于删除操作）
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// BadRequest 返回 400 错误（请求参数错误）
func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Message: message})
}

// NotFound 返回 404 错误（资源不存在）
func NotFound(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, ErrorResponse{Message: message})
}

// InternalError 返回 500 错误（服务器内部错误）
func InternalError(c *gin.Context, message string) {
	c.JSON(http.StatusInternalServerError, ErrorResponse{Message: message})
}
