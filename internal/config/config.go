// Package config 负责加载和管理应用程序的配置
// 使用 viper 库支持 YAML 配置文件和环境变量覆盖
package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 是应用程序的根配置结构
// 包含所有子配置模块
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`   // 服务器配置
	Database DatabaseConfig `mapstructure:"database"` // 数据库配置
	OpenAI   OpenAIConfig   `mapstructure:"openai"`   // 补全服务配置
	Log      LogConfig      `mapstructure:"log"`      // 日志配置
}

// ServerConfig 服务器相关配置
type ServerConfig struct {
	Port int      `mapstructure:"port"` // 监听端口，默认 8080
	Mode string   `mapstructure:"mode"` // 运行模式: debug / release
	CORS []string `mapstructure:"cors"` // CORS 允许的域名
}

// DatabaseConfig 数据库连接配置
// Driver 为 sqlite 时只使用 Path；为 mysql 时使用其余字段
type DatabaseConfig struct {
	Driver       string `mapstructure:"driver"`         // 数据库驱动: sqlite / mysql
	Path         string `mapstructure:"path"`           // SQLite 数据库文件路径
	Host         string `mapstructure:"host"`           // MySQL 主机地址
	Port         int    `mapstructure:"port"`           // MySQL 端口
	Username     string `mapstructure:"username"`       // MySQL 用户名
	Password     string `mapstructure:"password"`       // MySQL 密码
	Database     string `mapstructure:"database"`       // MySQL 数据库名称
	Charset      string `mapstructure:"charset"`        // 字符集
	MaxIdleConns int    `mapstructure:"max_idle_conns"` // 最大空闲连接数
	MaxOpenConns int    `mapstructure:"max_open_conns"` // 最大打开连接数
	MaxLifetime  int    `mapstructure:"max_lifetime"`   // 连接最大生命周期（秒）
}

// OpenAIConfig 补全服务配置
// 指向任意 OpenAI 兼容的 chat completions 端点
type OpenAIConfig struct {
	BaseURL string        `mapstructure:"base_url"` // API 基础地址
	APIKey  string        `mapstructure:"api_key"`  // API Key
	Timeout time.Duration `mapstructure:"timeout"`  // 单次调用超时时间
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `mapstructure:"level"`  // 日志级别: debug/info/warn/error
	Format string `mapstructure:"format"` // 日志格式: json/text
}

// Load 从指定路径加载配置文件
// 支持环境变量覆盖配置项
// 参数:
//   - configPath: 配置文件目录路径 (如 "./configs")
//
// 返回:
//   - *Config: 配置对象
//   - error: 如果加载失败则返回错误
func Load(configPath string) (*Config, error) {
	// 创建新的 viper 实例
	v := viper.New()

	// 设置配置文件
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)

	// 启用环境变量
	v.AutomaticEnv()
	// 将环境变量中的 _ 映射到配置的 .
	// 例如: DATABASE_HOST -> database.host
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 绑定环境变量
	bindEnvVariables(v)

	// 设置默认值（当配置文件中未指定时使用）
	setDefaults(v)

	// 读取配置文件（如果不存在则使用默认值和环境变量）
	if err := v.ReadInConfig(); err != nil {
		// 如果配置文件不存在，继续使用默认值和环境变量
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	// 将配置解析到结构体
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// bindEnvVariables 绑定环境变量到配置项
func bindEnvVariables(v *viper.Viper) {
	// 服务器配置
	v.BindEnv("server.port", "SERVER_PORT")
	v.BindEnv("server.mode", "SERVER_MODE")

	// 数据库配置
	v.BindEnv("database.driver", "DATABASE_DRIVER")
	v.BindEnv("database.path", "DATABASE_PATH")
	v.BindEnv("database.host", "DATABASE_HOST")
	v.BindEnv("database.port", "DATABASE_PORT")
	v.BindEnv("database.username", "DATABASE_USERNAME")
	v.BindEnv("database.password", "DATABASE_PASSWORD")
	v.BindEnv("database.database", "DATABASE_DATABASE")

	// 补全服务配置
	v.BindEnv("openai.base_url", "OPENAI_BASE_URL")
	v.BindEnv("openai.api_key", "OPENAI_API_KEY")
}

// setDefaults 设置配置项的默认值
// 当配置文件中没有指定某个值时，将使用这里设置的默认值
func setDefaults(v *viper.Viper) {
	// 服务器默认配置
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.cors", []string{"http://localhost:3000", "http://localhost:5173"})

	// 数据库默认配置
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "chatpad.db")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.charset", "utf8mb4")
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.max_open_conns", 100)
	v.SetDefault("database.max_lifetime", 3600)

	// 补全服务默认配置
	v.SetDefault("openai.base_url", "https://api.openai.com/v1")
	v.SetDefault("openai.timeout", "30s")

	// 日志默认配置
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}
