package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"chatpad-server/internal/model"
)

func TestSendMessagePersistsUserAndAssistant(t *testing.T) {
	client := &fakeCompletionClient{reply: "Hi there!"}
	chatService, conversationService, messageRepo, _ := newChatFixture(t, client)
	ctx := context.Background()

	conversation, err := conversationService.CreateConversation(ctx, "greeting")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assistant, err := chatService.SendMessage(ctx, conversation.ID, "hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if assistant.Role != model.MessageRoleAssistant || assistant.Content != "Hi there!" {
		t.Fatalf("unexpected assistant message: %+v", assistant)
	}
	if assistant.ID == 0 {
		t.Fatalf("expected assistant message to be persisted")
	}

	messages, err := messageRepo.GetByConversationID(ctx, conversation.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(messages) != 2 {
		t.Fatalf("expected exactly 2 messages, got %d", len(messages))
	}
	if messages[0].Role != model.MessageRoleUser || messages[0].Content != "hello" {
		t.Fatalf("unexpected first message: %+v", messages[0])
	}
	if messages[1].Role != model.MessageRoleAssistant || messages[1].Content != "Hi there!" {
		t.Fatalf("unexpected second message: %+v", messages[1])
	}
	if client.calls != 1 {
		t.Fatalf("expected exactly one provider call, got %d", client.calls)
	}
}

func TestSendMessagePromptAssembly(t *testing.T) {
	client := &fakeCompletionClient{reply: "ok"}
	chatService, conversationService, _, _ := newChatFixture(t, client)
	ctx := context.Background()

	conversation, err := conversationService.CreateConversation(ctx, "prompt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := chatService.SendMessage(ctx, conversation.ID, "first question"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := chatService.SendMessage(ctx, conversation.ID, "second question"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	req := client.lastReq
	if req == nil {
		t.Fatalf("expected provider request to be captured")
	}
	// 首条为 system 人设，其后是完整历史（user/assistant/user）
	if len(req.Messages) != 4 {
		t.Fatalf("expected 4 prompt messages, got %d: %+v", len(req.Messages), req.Messages)
	}
	if req.Messages[0].Role != model.MessageRoleSystem || req.Messages[0].Content != model.DefaultSystemPrompt {
		t.Fatalf("expected leading system persona, got %+v", req.Messages[0])
	}
	if req.Messages[1].Content != "first question" ||
		req.Messages[2].Content != "ok" ||
		req.Messages[3].Content != "second question" {
		t.Fatalf("history not preserved in order: %+v", req.Messages)
	}
}

func TestSendMessageOmitsTemperatureForReasoningModel(t *testing.T) {
	client := &fakeCompletionClient{reply: "ok"}
	chatService, conversationService, _, settingsRepo := newChatFixture(t, client)
	ctx := context.Background()

	conversation, err := conversationService.CreateConversation(ctx, "temp")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 默认模型 gpt-5 属于推理型，温度字段整个省略
	if _, err := chatService.SendMessage(ctx, conversation.ID, "hello"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if client.lastReq.Model != model.DefaultModel {
		t.Fatalf("unexpected model: %q", client.lastReq.Model)
	}
	if client.lastReq.Temperature != nil {
		t.Fatalf("expected temperature to be omitted for %q, got %v", client.lastReq.Model, *client.lastReq.Temperature)
	}

	// 普通模型则携带配置的温度
	if _, err := settingsRepo.Update(ctx, map[string]interface{}{"model": "gpt-4o", "temperature": 0.5}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := chatService.SendMessage(ctx, conversation.ID, "again"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if client.lastReq.Temperature == nil || *client.lastReq.Temperature != 0.5 {
		t.Fatalf("expected temperature 0.5, got %v", client.lastReq.Temperature)
	}
}

func TestSendMessageEmptyContent(t *testing.T) {
	client := &fakeCompletionClient{reply: "never"}
	chatService, conversationService, messageRepo, _ := newChatFixture(t, client)
	ctx := context.Background()

	conversation, err := conversationService.CreateConversation(ctx, "empty")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, content := range []string{"", "   ", "\n\t"} {
		if _, err := chatService.SendMessage(ctx, conversation.ID, content); !errors.Is(err, ErrEmptyContent) {
			t.Fatalf("expected ErrEmptyContent for %q, got %v", content, err)
		}
	}

	count, err := messageRepo.CountByConversationID(ctx, conversation.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected no persisted messages, got %d", count)
	}
	if client.calls != 0 {
		t.Fatalf("expected no provider calls, got %d", client.calls)
	}
}

func TestSendMessageConversationNotFound(t *testing.T) {
	client := &fakeCompletionClient{reply: "never"}
	chatService, _, messageRepo, _ := newChatFixture(t, client)
	ctx := context.Background()

	_, err := chatService.SendMessage(ctx, 404404, "hello")
	if !errors.Is(err, ErrConversationNotFound) {
		t.Fatalf("expected ErrConversationNotFound, got %v", err)
	}

	count, err := messageRepo.CountByConversationID(ctx, 404404)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected no persisted messages, got %d", count)
	}
	if client.calls != 0 {
		t.Fatalf("expected no provider calls, got %d", client.calls)
	}
}

func TestSendMessageProviderFailureKeepsUserMessage(t *testing.T) {
	client := &fakeCompletionClient{err: errors.New("upstream exploded")}
	chatService, conversationService, messageRepo, _ := newChatFixture(t, client)
	ctx := context.Background()

	conversation, err := conversationService.CreateConversation(ctx, "failure")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = chatService.SendMessage(ctx, conversation.ID, "hello")
	if !errors.Is(err, ErrGenerationFailed) {
		t.Fatalf("expected ErrGenerationFailed, got %v", err)
	}
	if !strings.Contains(err.Error(), "upstream exploded") {
		t.Fatalf("expected provider detail in error, got %q", err.Error())
	}

	// user 消息保留，没有 assistant 消息
	messages, err := messageRepo.GetByConversationID(ctx, conversation.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(messages) != 1 {
		t.Fatalf("expected exactly 1 message, got %d", len(messages))
	}
	if messages[0].Role != model.MessageRoleUser || messages[0].Content != "hello" {
		t.Fatalf("unexpected surviving message: %+v", messages[0])
	}
}

func TestSendMessageEmptyReplyPersisted(t *testing.T) {
	client := &fakeCompletionClient{reply: ""}
	chatService, conversationService, _, _ := newChatFixture(t, client)
	ctx := context.Background()

	conversation, err := conversationService.CreateConversation(ctx, "quiet")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assistant, err := chatService.SendMessage(ctx, conversation.ID, "hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if assistant.Content != "" {
		t.Fatalf("expected empty assistant content, got %q", assistant.Content)
	}
}
