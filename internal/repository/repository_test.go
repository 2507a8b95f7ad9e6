package repository

import (
	"fmt"
	"sync/atomic"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"chatpad-server/internal/model"
)

var testDBCounter int64

// newTestDB 创建一个独立的内存数据库并完成迁移
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	n := atomic.AddInt64(&testDBCounter, 1)
	dsn := fmt.Sprintf("file:repo_test_%d?mode=memory&cache=shared", n)

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
