// Package model 定义了与数据库表对应的数据结构
package model

import (
	"time"
)

// DefaultConversationTitle 创建对话时未提供标题使用的默认标题
const DefaultConversationTitle = "New Chat"

// Conversation 对话模型
// 对应数据库表 conversations
// 表示用户与 AI 的一个对话线程，拥有按时间排序的消息序列
type Conversation struct {
	// ID 对话唯一标识，自增主键
	ID int64 `gorm:"primaryKey" json:"id"`

	// Title 对话标题
	// 创建时未指定则使用 DefaultConversationTitle
	Title string `gorm:"size:255;not null" json:"title"`

	// CreatedAt 创建时间
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`

	// UpdatedAt 最后更新时间
	// 每次向对话追加消息时刷新，对话列表按此字段倒序排列
	UpdatedAt time.Time `gorm:"autoUpdateTime;index" json:"updatedAt"`

	// Messages 对话中的所有消息（一对多关系）
	// 列表接口不返回消息，详情接口通过 service.ConversationDetail 暴露
	Messages []Message `gorm:"foreignKey:ConversationID" json:"-"`
}

// TableName 指定表名
func (Conversation) TableName() string {
	return "conversations"
}
