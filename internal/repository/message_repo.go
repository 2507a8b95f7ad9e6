// Package repository 提供数据访问层的实现
package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"chatpad-server/internal/model"
)

// MessageRepository 消息数据访问层
// 负责消息相关的所有数据库操作
type MessageRepository struct {
	db *gorm.DB
}

// NewMessageRepository 创建 MessageRepository 实例
func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// Create 创建新消息并刷新所属对话的更新时间
// 两个写操作在同一个事务内完成：
//  1. 校验对话存在（不存在返回 gorm.ErrRecordNotFound）
//  2. 插入消息
//  3. 刷新 conversations.updated_at
//
// 参数:
//   - ctx: 上下文
//   - message: 消息对象，ID 和 CreatedAt 会被自动填充
//
// 返回:
//   - error: 对话不存在时为 gorm.ErrRecordNotFound，否则为数据库错误
func (r *MessageRepository) Create(ctx context.Context, message *model.Message) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 显式校验外键，避免依赖各驱动不一致的约束报错
		var conversation model.Conversation
		if err := tx.Select("id").First(&conversation, message.ConversationID).Error; err != nil {
			return err
		}

		if err := tx.Create(message).Error; err != nil {
			return err
		}

		return tx.Model(&model.Conversation{}).
			Where("id = ?", message.ConversationID).
			Update("updated_at", time.Now()).Error
	})
}

// GetByConversationID 获取对话的所有消息
// 按创建时间正序排列（最早的在前），时间相同按 id 排序
// 参数:
//   - ctx: 上下文
//   - conversationID: 对话ID
//
// 返回:
//   - []model.Message: 消息列表，没有消息时返回空切片
//   - error: 数据库错误
func (r *MessageRepository) GetByConversationID(ctx context.Context, conversationID int64) ([]model.Message, error) {
	messages := make([]model.Message, 0)
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at ASC, id ASC").
		Find(&messages).Error
	return messages, err
}

// CountByConversationID 统计对话的消息数量
// 参数:
//   - ctx: 上下文
//   - conversationID: 对话ID
//
// 返回:
//   - int64: 消息数量
//   - error: 数据库错误
func (r *MessageRepository) CountByConversationID(ctx context.Context, conversationID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Message{}).
		Where("conversation_id = ?", conversationID).
		Count(&count).Error
	return count, err
}
