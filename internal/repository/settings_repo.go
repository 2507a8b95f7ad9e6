// Package repository 提供数据访问层的实现
package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"chatpad-server/internal/model"
)

// SettingsRepository 全局设置数据访问层
// settings 表是单例行：首次读取时若不存在则以默认值创建
type SettingsRepository struct {
	db *gorm.DB
}

// NewSettingsRepository 创建 SettingsRepository 实例
func NewSettingsRepository(db *gorm.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Get 获取全局设置
// 若设置行不存在，先以默认值插入再重新读取
// 并发的首次读取可能各自插入一行，读取时固定按 id 正序取第一行，
// 保证所有请求收敛到同一行
// 参数:
//   - ctx: 上下文
//
// 返回:
//   - *model.Settings: 设置对象
//   - error: 数据库错误
func (r *SettingsRepository) Get(ctx context.Context) (*model.Settings, error) {
	settings, err := r.first(ctx)
	if err == nil {
		return settings, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// insert-if-absent，然后重新读取
	if err := r.db.WithContext(ctx).Create(model.DefaultSettings()).Error; err != nil {
		return nil, err
	}
	return r.first(ctx)
}

// Update 部分更新全局设置
// 只修改 updates 中出现的字段，未出现的字段保持原值
// 参数:
//   - ctx: 上下文
//   - updates: 字段名到新值的映射（gorm 列名）
//
// 返回:
//   - *model.Settings: 更新后的设置对象
//   - error: 数据库错误
func (r *SettingsRepository) Update(ctx context.Context, updates map[string]interface{}) (*model.Settings, error) {
	current, err := r.Get(ctx)
	if err != nil {
		return nil, err
	}

	if len(updates) > 0 {
		err = r.db.WithContext(ctx).
			Model(&model.Settings{}).
			Where("id = ?", current.ID).
			Updates(updates).Error
		if err != nil {
			return nil, err
		}
	}

	return r.first(ctx)
}

// first 读取 id 最小的设置行
func (r *SettingsRepository) first(ctx context.Context) (*model.Settings, error) {
	var settings model.Settings
	err := r.db.WithContext(ctx).Order("id ASC").First(&settings).Error
	if err != nil {
		return nil, err
	}
	return &settings, nil
}
