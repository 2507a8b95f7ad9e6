// Package handler 提供 HTTP 请求处理器
package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"chatpad-server/internal/service"
	"chatpad-server/pkg/response"
)

// SettingsHandler 全局设置请求处理器
type SettingsHandler struct {
	settingsService *service.SettingsService
}

// NewSettingsHandler 创建 SettingsHandler 实例
func NewSettingsHandler(settingsService *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

// GetSettings 获取全局设置
// @Summary 获取设置
// @Description 获取全局设置，首次读取时以默认值创建
// @Tags 设置
// @Produce json
// @Success 200 {object} model.Settings
// @Router /api/settings [get]
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	settings, err := h.settingsService.GetSettings(c.Request.Context())
	if err != nil {
		response.InternalError(c, "获取设置失败")
		return
	}

	response.OK(c, settings)
}

// UpdateSettings 部分更新全局设置
// @Summary 更新设置
// @Description 只修改请求中提供的字段，未提供的字段保持原值
// @Tags 设置
// @Accept json
// @Produce json
// @Param body body service.UpdateSettingsRequest true "要修改的字段"
// @Success 200 {object} model.Settings
// @Failure 400 {object} response.ErrorResponse
// @Router /api/settings [patch]
func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	var req service.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "无效的请求参数")
		return
	}

	settings, err := h.settingsService.UpdateSettings(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidTemperature) {
			response.BadRequest(c, "温度必须在 0 到 2 之间")
			return
		}
		response.InternalError(c, "更新设置失败")
		return
	}

	response.OK(c, settings)
}
