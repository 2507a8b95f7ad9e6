// Package handler 提供 HTTP 请求处理器
package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"chatpad-server/internal/service"
	"chatpad-server/pkg/response"
)

// ChatHandler 聊天请求处理器
// 负责把一条用户消息交给 ChatService 生成助手回复
type ChatHandler struct {
	chatService *service.ChatService
}

// NewChatHandler 创建 ChatHandler 实例
func NewChatHandler(chatService *service.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// SendMessageRequest 发送消息请求
type SendMessageRequest struct {
	Content string `json:"content"` // 消息内容，不能为空
}

// SendMessage 发送消息并生成回复
// @Summary 发送消息
// @Description 向对话追加一条用户消息，同步调用补全服务生成并持久化助手回复
// @Tags 聊天
// @Accept json
// @Produce json
// @Param id path int true "对话ID"
// @Param body body SendMessageRequest true "消息内容"
// @Success 201 {object} model.Message "生成的助手消息"
// @Failure 400 {object} response.ErrorResponse "消息内容为空"
// @Failure 404 {object} response.ErrorResponse "对话不存在"
// @Failure 500 {object} response.ErrorResponse "补全服务调用失败"
// @Router /api/conversations/{id}/messages [post]
func (h *ChatHandler) SendMessage(c *gin.Context) {
	conversationID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.NotFound(c, "对话不存在")
		return
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "无效的请求参数")
		return
	}

	message, err := h.chatService.SendMessage(c.Request.Context(), conversationID, req.Content)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyContent):
			response.BadRequest(c, "消息内容不能为空")
		case errors.Is(err, service.ErrConversationNotFound):
			response.NotFound(c, "对话不存在")
		case errors.Is(err, service.ErrGenerationFailed):
			// 错误信息中带上补全服务返回的失败原因，便于前端展示和手动重试
			response.InternalError(c, err.Error())
		default:
			response.InternalError(c, "发送消息失败")
		}
		return
	}

	response.Created(c, message)
}
