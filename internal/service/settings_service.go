// Package service 提供业务逻辑层的实现
package service

import (
	"context"
	"errors"

	"chatpad-server/internal/model"
	"chatpad-server/internal/repository"
)

// 设置服务相关错误
var (
	ErrInvalidTemperature = errors.New("温度必须在 0 到 2 之间")
)

// UpdateSettingsRequest 部分更新设置的请求
// 所有字段均可选，为 nil 的字段保持原值
type UpdateSettingsRequest struct {
	SystemPrompt *string  `json:"systemPrompt"` // 人设提示词
	Model        *string  `json:"model"`        // 模型标识
	Temperature  *float64 `json:"temperature"`  // 采样温度，范围 0-2
}

// SettingsService 全局设置服务
// 设置是进程级单例配置，每次请求从存储中新鲜读取，
// 不在内存中缓存，避免隐藏的共享可变状态
type SettingsService struct {
	settingsRepo *repository.SettingsRepository // 设置数据访问层
}

// NewSettingsService 创建 SettingsService 实例
func NewSettingsService(settingsRepo *repository.SettingsRepository) *SettingsService {
	return &SettingsService{settingsRepo: settingsRepo}
}

// GetSettings 获取全局设置
// 首次读取时若不存在则以默认值创建
func (s *SettingsService) GetSettings(ctx context.Context) (*model.Settings, error) {
	return s.settingsRepo.Get(ctx)
}

// UpdateSettings 部分更新全局设置
// 只修改请求中提供的字段，温度超出 0-2 范围时返回 ErrInvalidTemperature
func (s *SettingsService) UpdateSettings(ctx context.Context, req *UpdateSettingsRequest) (*model.Settings, error) {
	if req.Temperature != nil {
		if *req.Temperature < model.TemperatureMin || *req.Temperature > model.TemperatureMax {
			return nil, ErrInvalidTemperature
		}
	}

	updates := make(map[string]interface{})
	if req.SystemPrompt != nil {
		updates["system_prompt"] = *req.SystemPrompt
	}
	if req.Model != nil {
		updates["model"] = *req.Model
	}
	if req.Temperature != nil {
		updates["temperature"] = *req.Temperature
	}

	return s.settingsRepo.Update(ctx, updates)
}
