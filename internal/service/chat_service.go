// Package service 提供业务逻辑层的实现
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"chatpad-server/internal/model"
	"chatpad-server/internal/repository"
	"chatpad-server/pkg/openai"
)

// 聊天服务相关错误
var (
	ErrEmptyContent     = errors.New("消息内容不能为空")
	ErrGenerationFailed = errors.New("生成回复失败")
)

// reasoningModelPrefix 推理型模型的命名前缀
// 这类模型不接受温度参数，请求时整个省略该字段
const reasoningModelPrefix = "gpt-5"

// CompletionClient 补全服务客户端接口
// 生产实现为 pkg/openai.Client，测试中可用假实现替换
type CompletionClient interface {
	CreateChatCompletion(ctx context.Context, req *openai.ChatCompletionRequest) (string, error)
}

// ChatService 聊天服务
// 把一条用户消息变成一条持久化的助手回复：
// 保存用户消息 → 组装历史为提示 → 调用一次补全服务 → 保存助手回复
type ChatService struct {
	messageRepo  *repository.MessageRepository  // 消息数据访问层
	settingsRepo *repository.SettingsRepository // 设置数据访问层
	client       CompletionClient               // 补全服务客户端
}

// NewChatService 创建 ChatService 实例
func NewChatService(
	messageRepo *repository.MessageRepository,
	settingsRepo *repository.SettingsRepository,
	client CompletionClient,
) *ChatService {
	return &ChatService{
		messageRepo:  messageRepo,
		settingsRepo: settingsRepo,
		client:       client,
	}
}

// SendMessage 处理一次用户发送
// 流程:
//  1. 校验内容非空
//  2. 持久化 user 消息（对话不存在则失败，不再继续）
//  3. 读取完整历史（含刚插入的消息）和当前设置
//  4. 组装提示：首条 system 人设 + 按序历史
//  5. 同步调用一次补全服务
//  6. 成功则持久化并返回 assistant 消息
//
// 补全失败时不写入任何 assistant 消息，但第 2 步的 user 消息保留，
// 调用方可以手动重试；本方法不具备幂等性，重复调用会产生新的消息和新的调用
// 参数:
//   - ctx: 上下文
//   - conversationID: 对话ID
//   - content: 用户输入的文本
//
// 返回:
//   - *model.Message: 持久化后的 assistant 消息
//   - error: ErrEmptyContent / ErrConversationNotFound / ErrGenerationFailed
func (s *ChatService) SendMessage(ctx context.Context, conversationID int64, content string) (*model.Message, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyContent
	}

	userMessage := &model.Message{
		ConversationID: conversationID,
		Role:           model.MessageRoleUser,
		Content:        content,
	}
	if err := s.messageRepo.Create(ctx, userMessage); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConversationNotFound
		}
		return nil, err
	}

	history, err := s.messageRepo.GetByConversationID(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, err
	}

	reply, err := s.client.CreateChatCompletion(ctx, buildCompletionRequest(settings, history))
	if err != nil {
		// user 消息已提交，不做补偿删除
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	assistantMessage := &model.Message{
		ConversationID: conversationID,
		Role:           model.MessageRoleAssistant,
		Content:        reply,
	}
	if err := s.messageRepo.Create(ctx, assistantMessage); err != nil {
		return nil, err
	}

	return assistantMessage, nil
}

// buildCompletionRequest 由设置和对话历史组装补全请求
// 首条为 system 人设消息，其后为按存储顺序逐条保留角色和内容的历史
func buildCompletionRequest(settings *model.Settings, history []model.Message) *openai.ChatCompletionRequest {
	messages := make([]openai.Message, 0, len(history)+1)
	messages = append(messages, openai.Message{
		Role:    model.MessageRoleSystem,
		Content: settings.SystemPrompt,
	})
	for _, m := range history {
		messages = append(messages, openai.Message{
			Role:    m.Role,
			Content: m.Content,
		})
	}

	modelID := settings.Model
	if modelID == "" {
		modelID = model.DefaultModel
	}

	req := &openai.ChatCompletionRequest{
		Model:    modelID,
		Messages: messages,
	}
	// 推理型模型不接受温度参数
	if !strings.HasPrefix(modelID, reasoningModelPrefix) {
		req.Temperature = settings.Temperature
	}
	return req
}
