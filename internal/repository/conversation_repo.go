// Package repository 提供数据访问层的实现
package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"chatpad-server/internal/model"
)

// ConversationRepository 对话数据访问层
// 负责对话相关的所有数据库操作
type ConversationRepository struct {
	db *gorm.DB
}

// NewConversationRepository 创建 ConversationRepository 实例
func NewConversationRepository(db *gorm.DB) *ConversationRepository {
	return &ConversationRepository{db: db}
}

// Create 创建新对话
// 参数:
//   - ctx: 上下文
//   - conversation: 对话对象，ID 和时间字段会被自动填充
//
// 返回:
//   - error: 数据库错误
func (r *ConversationRepository) Create(ctx context.Context, conversation *model.Conversation) error {
	return r.db.WithContext(ctx).Create(conversation).Error
}

// GetByID 根据 ID 获取对话（不含消息）
// 参数:
//   - ctx: 上下文
//   - id: 对话ID
//
// 返回:
//   - *model.Conversation: 对话对象，未找到返回 nil
//   - error: 数据库错误
func (r *ConversationRepository) GetByID(ctx context.Context, id int64) (*model.Conversation, error) {
	var conversation model.Conversation
	err := r.db.WithContext(ctx).First(&conversation, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &conversation, nil
}

// GetByIDWithMessages 根据 ID 获取对话及其所有消息
// 用于加载对话历史
// 参数:
//   - ctx: 上下文
//   - id: 对话ID
//
// 返回:
//   - *model.Conversation: 包含 Messages 字段的对话对象，未找到返回 nil
//   - error: 数据库错误
func (r *ConversationRepository) GetByIDWithMessages(ctx context.Context, id int64) (*model.Conversation, error) {
	var conversation model.Conversation
	// Preload 预加载消息，并按创建时间排序
	// created_at 相同（同一事务内写入）时再按 id 排序，保证插入顺序稳定
	err := r.db.WithContext(ctx).
		Preload("Messages", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, id ASC")
		}).
		First(&conversation, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &conversation, nil
}

// List 获取所有对话
// 参数:
//   - ctx: 上下文
//
// 返回:
//   - []model.Conversation: 对话列表，按最后更新时间倒序（最近活跃的在前）
//   - error: 数据库错误
func (r *ConversationRepository) List(ctx context.Context) ([]model.Conversation, error) {
	conversations := make([]model.Conversation, 0)
	err := r.db.WithContext(ctx).
		Order("updated_at DESC").
		Find(&conversations).Error
	return conversations, err
}

// Delete 删除对话及其所有消息
// 在同一个事务内先删除消息再删除对话，保证不会留下孤儿消息
// 对话不存在时不报错（幂等）
// 参数:
//   - ctx: 上下文
//   - id: 对话ID
//
// 返回:
//   - error: 数据库错误
func (r *ConversationRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("conversation_id = ?", id).Delete(&model.Message{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Conversation{}, id).Error
	})
}

// Count 统计对话数量
// 用于启动时判断是否需要写入种子数据
// 参数:
//   - ctx: 上下文
//
// 返回:
//   - int64: 对话数量
//   - error: 数据库错误
func (r *ConversationRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Conversation{}).Count(&count).Error
	return count, err
}
