// Package main 是服务端的入口点
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"chatpad-server/internal/config"
	"chatpad-server/internal/handler"
	"chatpad-server/internal/middleware"
	"chatpad-server/internal/model"
	"chatpad-server/internal/repository"
	"chatpad-server/internal/service"
	"chatpad-server/pkg/openai"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func main() {
	// 加载配置
	cfg, err := config.Load("./configs")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 初始化数据库
	db, err := initDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to init database: %v", err)
	}

	// 自动迁移数据库表
	if err := autoMigrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// 初始化补全服务客户端
	completionClient := openai.NewClient(cfg.OpenAI.BaseURL, cfg.OpenAI.APIKey, cfg.OpenAI.Timeout)

	// 初始化 Repository 层
	conversationRepo := repository.NewConversationRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)

	// 初始化 Service 层
	conversationService := service.NewConversationService(conversationRepo, messageRepo)
	settingsService := service.NewSettingsService(settingsRepo)
	chatService := service.NewChatService(messageRepo, settingsRepo, completionClient)

	// 写入种子数据（数据库为空时创建欢迎对话）
	if err := conversationService.EnsureSeedData(context.Background()); err != nil {
		log.Printf("Failed to seed database: %v", err)
	}

	// 初始化 Handler 层
	conversationHandler := handler.NewConversationHandler(conversationService)
	chatHandler := handler.NewChatHandler(chatService)
	settingsHandler := handler.NewSettingsHandler(settingsService)

	// 设置 Gin 模式
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 创建 Gin 引擎
	router := gin.New()

	// 全局中间件
	corsConfig := middleware.DefaultCORSConfig(cfg.Server.CORS)
	router.Use(gin.Recovery())                   // 恢复 panic
	router.Use(middleware.RequestIDMiddleware()) // 请求ID
	router.Use(middleware.LoggerMiddleware())    // 请求日志
	router.Use(middleware.CORSMiddleware(corsConfig))

	// 注册路由
	registerRoutes(router, conversationHandler, chatHandler, settingsHandler)

	// 创建 HTTP 服务器
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	server := &http.Server{
		Addr:    addr,
		Handler: router,
		// 补全调用是同步阻塞的，写超时要覆盖补全服务的超时时间
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.OpenAI.Timeout + 10*time.Second,
	}

	// 在 goroutine 中启动服务器
	go func() {
		log.Printf("Server starting on %s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// 创建关闭上下文，设置超时
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// 关闭 HTTP 服务器
	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

// initDatabase 初始化数据库连接
// 根据配置的 driver 选择 SQLite（默认，零依赖部署）或 MySQL
func initDatabase(cfg *config.Config) (*gorm.DB, error) {
	// 配置 GORM logger
	gormLogger := logger.Default.LogMode(logger.Info)
	if cfg.Server.Mode == "release" {
		gormLogger = logger.Default.LogMode(logger.Warn)
	}

	gormConfig := &gorm.Config{
		Logger: gormLogger,
	}

	switch cfg.Database.Driver {
	case "mysql":
		// 构建 DSN (Data Source Name)
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=True&loc=Local",
			cfg.Database.Username,
			cfg.Database.Password,
			cfg.Database.Host,
			cfg.Database.Port,
			cfg.Database.Database,
			cfg.Database.Charset,
		)

		db, err := gorm.Open(mysql.Open(dsn), gormConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to connect database: %w", err)
		}

		// 获取底层 sql.DB 并配置连接池
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get sql.DB: %w", err)
		}
		sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
		sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
		sqlDB.SetConnMaxLifetime(time.Duration(cfg.Database.MaxLifetime) * time.Second)

		log.Println("Database connected successfully (mysql)")
		return db, nil

	case "sqlite", "":
		db, err := gorm.Open(sqlite.Open(cfg.Database.Path), gormConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}

		log.Printf("Database opened successfully (sqlite: %s)", cfg.Database.Path)
		return db, nil

	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Database.Driver)
	}
}

// autoMigrate 自动迁移数据库表
func autoMigrate(db *gorm.DB) error {
	log.Println("Running database migrations...")

	if err := db.AutoMigrate(
		&model.Conversation{},
		&model.Message{},
		&model.Settings{},
	); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}

	log.Println("Database migrations completed")
	return nil
}

// registerRoutes 注册所有路由
func registerRoutes(
	router *gin.Engine,
	conversationHandler *handler.ConversationHandler,
	chatHandler *handler.ChatHandler,
	settingsHandler *handler.SettingsHandler,
) {
	// 健康检查
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API 路由组
	api := router.Group("/api")

	// 对话相关
	conversations := api.Group("/conversations")
	{
		conversations.GET("", conversationHandler.ListConversations)
		conversations.POST("", conversationHandler.CreateConversation)
		conversations.GET("/:id", conversationHandler.GetConversation)
		conversations.DELETE("/:id", conversationHandler.DeleteConversation)
		conversations.POST("/:id/messages", chatHandler.SendMessage)
	}

	// 设置相关
	settings := api.Group("/settings")
	{
		settings.GET("", settingsHandler.GetSettings)
		settings.PATCH("", settingsHandler.UpdateSettings)
	}
}
