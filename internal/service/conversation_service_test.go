package service

import (
	"context"
	"errors"
	"testing"

	"chatpad-server/internal/model"
	"chatpad-server/internal/repository"
)

func TestCreateConversationDefaultTitle(t *testing.T) {
	_, conversationService, _, _ := newChatFixture(t, &fakeCompletionClient{})
	ctx := context.Background()

	for _, title := range []string{"", "   "} {
		conversation, err := conversationService.CreateConversation(ctx, title)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if conversation.Title != model.DefaultConversationTitle {
			t.Fatalf("expected default title, got %q", conversation.Title)
		}
	}

	conversation, err := conversationService.CreateConversation(ctx, "My Chat")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if conversation.Title != "My Chat" {
		t.Fatalf("expected provided title, got %q", conversation.Title)
	}
}

func TestGetConversationNotFound(t *testing.T) {
	_, conversationService, _, _ := newChatFixture(t, &fakeCompletionClient{})

	_, err := conversationService.GetConversation(context.Background(), 9999)
	if !errors.Is(err, ErrConversationNotFound) {
		t.Fatalf("expected ErrConversationNotFound, got %v", err)
	}
}

func TestGetConversationEmptyMessagesIsNotNil(t *testing.T) {
	_, conversationService, _, _ := newChatFixture(t, &fakeCompletionClient{})
	ctx := context.Background()

	created, err := conversationService.CreateConversation(ctx, "fresh")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := conversationService.GetConversation(ctx, created.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Messages == nil {
		t.Fatalf("expected messages to be an empty slice, got nil")
	}
	if len(got.Messages) != 0 {
		t.Fatalf("expected no messages, got %d", len(got.Messages))
	}
}

func TestEnsureSeedData(t *testing.T) {
	db := newTestDB(t)
	conversationRepo := repository.NewConversationRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	conversationService := NewConversationService(conversationRepo, messageRepo)
	ctx := context.Background()

	if err := conversationService.EnsureSeedData(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	list, err := conversationRepo.List(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 seeded conversation, got %d", len(list))
	}

	messages, err := messageRepo.GetByConversationID(ctx, list[0].ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(messages) != 1 || messages[0].Role != model.MessageRoleAssistant {
		t.Fatalf("expected one assistant greeting, got %+v", messages)
	}

	// 已有对话时不再重复播种
	if err := conversationService.EnsureSeedData(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	list, err = conversationRepo.List(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected seeding to be skipped, got %d conversations", len(list))
	}
}
