// Package handler 提供 HTTP 请求处理器
package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"chatpad-server/internal/service"
	"chatpad-server/pkg/response"
)

// ConversationHandler 对话请求处理器
type ConversationHandler struct {
	conversationService *service.ConversationService
}

// NewConversationHandler 创建 ConversationHandler 实例
func NewConversationHandler(conversationService *service.ConversationService) *ConversationHandler {
	return &ConversationHandler{
		conversationService: conversationService,
	}
}

// CreateConversationRequest 创建对话请求
type CreateConversationRequest struct {
	Title string `json:"title"` // 标题（可选，默认 "New Chat"）
}

// ListConversations 获取对话列表
// @Summary 获取对话列表
// @Description 获取所有对话，按最后更新时间倒序
// @Tags 对话
// @Produce json
// @Success 200 {array} model.Conversation
// @Router /api/conversations [get]
func (h *ConversationHandler) ListConversations(c *gin.Context) {
	conversations, err := h.conversationService.ListConversations(c.Request.Context())
	if err != nil {
		response.InternalError(c, "获取对话列表失败")
		return
	}

	response.OK(c, conversations)
}

// CreateConversation 创建新对话
// @Summary 创建对话
// @Description 创建一个新对话，标题可选
// @Tags 对话
// @Accept json
// @Produce json
// @Param body body CreateConversationRequest true "对话标题"
// @Success 201 {object} model.Conversation
// @Router /api/conversations [post]
func (h *ConversationHandler) CreateConversation(c *gin.Context) {
	var req CreateConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "无效的请求参数")
		return
	}

	conversation, err := h.conversationService.CreateConversation(c.Request.Context(), req.Title)
	if err != nil {
		response.InternalError(c, "创建对话失败")
		return
	}

	response.Created(c, conversation)
}

// GetConversation 获取对话详情
// @Summary 获取对话详情
// @Description 获取指定对话及其全部消息（按时间正序）
// @Tags 对话
// @Produce json
// @Param id path int true "对话ID"
// @Success 200 {object} service.ConversationDetail
// @Failure 404 {object} response.ErrorResponse
// @Router /api/conversations/{id} [get]
func (h *ConversationHandler) GetConversation(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.NotFound(c, "对话不存在")
		return
	}

	conversation, err := h.conversationService.GetConversation(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrConversationNotFound) {
			response.NotFound(c, "对话不存在")
			return
		}
		response.InternalError(c, "获取对话详情失败")
		return
	}

	response.OK(c, conversation)
}

// DeleteConversation 删除对话
// @Summary 删除对话
// @Description 删除指定对话及其所有消息；对话不存在时同样返回 204
// @Tags 对话
// @Produce json
// @Param id path int true "对话ID"
// @Success 204 "删除成功"
// @Failure 404 {object} response.ErrorResponse
// @Router /api/conversations/{id} [delete]
func (h *ConversationHandler) DeleteConversation(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.NotFound(c, "对话不存在")
		return
	}

	if err := h.conversationService.DeleteConversation(c.Request.Context(), id); err != nil {
		response.InternalError(c, "删除对话失败")
		return
	}

	response.NoContent(c)
}
