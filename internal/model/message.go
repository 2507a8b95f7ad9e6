// Package model 定义了与数据库表对应的数据结构
package model

import (
	"time"
)

// MessageRole 消息角色常量
const (
	MessageRoleUser      = "user"      // 用户消息
	MessageRoleAssistant = "assistant" // AI 助手响应
	MessageRoleSystem    = "system"    // 系统消息
)

// ValidRole 判断角色是否合法
func ValidRole(role string) bool {
	switch role {
	case MessageRoleUser, MessageRoleAssistant, MessageRoleSystem:
		return true
	}
	return false
}

// Message 消息模型
// 对应数据库表 messages
// 存储对话中的每一条消息，创建后不再修改
type Message struct {
	// ID 消息唯一标识，自增主键
	ID int64 `gorm:"primaryKey" json:"id"`

	// ConversationID 所属对话ID，外键关联 conversations.id
	ConversationID int64 `gorm:"index;not null" json:"conversationId"`

	// Role 消息角色
	// user: 用户发送的消息
	// assistant: AI 助手的响应
	// system: 系统消息
	Role string `gorm:"size:20;not null" json:"role"`

	// Content 消息内容
	// 使用 TEXT 类型存储，可以存储较长的内容
	Content string `gorm:"type:text;not null" json:"content"`

	// CreatedAt 消息创建时间
	// 同一对话内的消息按此字段全序排列
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"createdAt"`

	// Conversation 所属对话（多对一关系）
	Conversation *Conversation `gorm:"foreignKey:ConversationID" json:"-"`
}

// TableName 指定表名
func (Message) TableName() string {
	return "messages"
}
