// Package service 提供业务逻辑层的实现
package service

import (
	"context"
	"errors"
	"strings"

	"chatpad-server/internal/model"
	"chatpad-server/internal/repository"
)

// 对话服务相关错误
var (
	ErrConversationNotFound = errors.New("对话不存在")
)

// 启动种子数据：数据库为空时创建的欢迎对话
const (
	seedConversationTitle = "Welcome to ChatPad"
	seedGreeting          = "Hello! I'm your AI assistant. Ask me anything to get started."
)

// ConversationService 对话服务
// 处理对话的增删查和启动种子数据
type ConversationService struct {
	conversationRepo *repository.ConversationRepository // 对话数据访问层
	messageRepo      *repository.MessageRepository      // 消息数据访问层
}

// NewConversationService 创建 ConversationService 实例
func NewConversationService(
	conversationRepo *repository.ConversationRepository,
	messageRepo *repository.MessageRepository,
) *ConversationService {
	return &ConversationService{
		conversationRepo: conversationRepo,
		messageRepo:      messageRepo,
	}
}

// ListConversations 获取所有对话
// 按最后更新时间倒序排列，最近有消息的对话在前
func (s *ConversationService) ListConversations(ctx context.Context) ([]model.Conversation, error) {
	return s.conversationRepo.List(ctx)
}

// CreateConversation 创建新对话
// 标题为空白时使用默认标题
func (s *ConversationService) CreateConversation(ctx context.Context, title string) (*model.Conversation, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		title = model.DefaultConversationTitle
	}

	conversation := &model.Conversation{
		Title: title,
	}
	if err := s.conversationRepo.Create(ctx, conversation); err != nil {
		return nil, err
	}
	return conversation, nil
}

// ConversationDetail 对话详情响应
// 对话字段加上按时间正序排列的全部消息
type ConversationDetail struct {
	model.Conversation
	Messages []model.Message `json:"messages"`
}

// GetConversation 获取对话详情（含全部消息，按时间正序）
// 对话不存在时返回 ErrConversationNotFound
func (s *ConversationService) GetConversation(ctx context.Context, id int64) (*ConversationDetail, error) {
	conversation, err := s.conversationRepo.GetByIDWithMessages(ctx, id)
	if err != nil {
		return nil, err
	}
	if conversation == nil {
		return nil, ErrConversationNotFound
	}

	messages := conversation.Messages
	// 没有消息时序列化为空数组而不是 null
	if messages == nil {
		messages = make([]model.Message, 0)
	}

	return &ConversationDetail{
		Conversation: *conversation,
		Messages:     messages,
	}, nil
}

// DeleteConversation 删除对话及其所有消息
// 对话不存在时静默成功（幂等）
func (s *ConversationService) DeleteConversation(ctx context.Context, id int64) error {
	return s.conversationRepo.Delete(ctx, id)
}

// EnsureSeedData 启动时写入种子数据
// 数据库中没有任何对话时，创建一个带欢迎消息的对话
func (s *ConversationService) EnsureSeedData(ctx context.Context) error {
	count, err := s.conversationRepo.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	conversation := &model.Conversation{Title: seedConversationTitle}
	if err := s.conversationRepo.Create(ctx, conversation); err != nil {
		return err
	}

	return s.messageRepo.Create(ctx, &model.Message{
		ConversationID: conversation.ID,
		Role:           model.MessageRoleAssistant,
		Content:        seedGreeting,
	})
}
