// Package model 定义了与数据库表对应的数据结构
package model

// 设置默认值常量
const (
	// DefaultSystemPrompt 默认的人设提示词
	DefaultSystemPrompt = "You are a friendly and knowledgeable AI assistant. " +
		"You answer questions directly and conversationally, are comfortable discussing " +
		"a wide range of topics, and keep your replies natural and helpful."

	// DefaultModel 默认使用的模型
	DefaultModel = "gpt-5"

	// DefaultTemperature 默认采样温度
	DefaultTemperature = 1.0

	// TemperatureMin 温度下限
	TemperatureMin = 0.0
	// TemperatureMax 温度上限
	TemperatureMax = 2.0
)

// Settings 全局设置模型
// 对应数据库表 settings
// 全局单例行：整个系统只存在一行，首次读取时若不存在则以默认值创建
// 控制每次补全调用使用的人设提示词、模型和温度
type Settings struct {
	// ID 主键，自增（实际只会有 id=1 一行）
	ID int64 `gorm:"primaryKey" json:"id"`

	// SystemPrompt 人设提示词
	// 每次补全调用时作为首条 system 消息发送
	SystemPrompt string `gorm:"type:text;not null" json:"systemPrompt"`

	// Model 模型标识，如 gpt-5、gpt-4o
	Model string `gorm:"size:100;not null" json:"model"`

	// Temperature 采样温度，范围 0-2，支持小数（如 0.5）
	// 使用指针以区分"未设置"和 0
	Temperature *float64 `json:"temperature"`
}

// TableName 指定表名
func (Settings) TableName() string {
	return "settings"
}

// DefaultSettings 返回带默认值的设置对象
func DefaultSettings() *Settings {
	temperature := float64(DefaultTemperature)
	return &Settings{
		SystemPrompt: DefaultSystemPrompt,
		Model:        DefaultModel,
		Temperature:  &temperature,
	}
}
