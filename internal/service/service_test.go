package service

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"chatpad-server/internal/model"
	"chatpad-server/internal/repository"
	"chatpad-server/pkg/openai"
)

var testDBCounter int64

// newTestDB 创建一个独立的内存数据库并完成迁移
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	n := atomic.AddInt64(&testDBCounter, 1)
	dsn := fmt.Sprintf("file:service_test_%d?mode=memory&cache=shared", n)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(&model.Conversation{}, &model.Message{}, &model.Settings{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// fakeCompletionClient 测试用的补全客户端
// 记录最后一次请求，按配置返回固定回复或错误
type fakeCompletionClient struct {
	reply   string
	err     error
	lastReq *openai.ChatCompletionRequest
	calls   int
}

func (f *fakeCompletionClient) CreateChatCompletion(_ context.Context, req *openai.ChatCompletionRequest) (string, error) {
	f.calls++
	f.lastReq = req
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

// newChatFixture 组装一套围绕同一个内存数据库的服务
func newChatFixture(t *testing.T, client *fakeCompletionClient) (*ChatService, *ConversationService, *repository.MessageRepository, *repository.SettingsRepository) {
	t.Helper()

	db := newTestDB(t)
	conversationRepo := repository.NewConversationRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)

	chatService := NewChatService(messageRepo, settingsRepo, client)
	conversationService := NewConversationService(conversationRepo, messageRepo)
	return chatService, conversationService, messageRepo, settingsRepo
}
