// Package config 提供应用程序配置加载功能
// 基于viper实现，支持yaml配置文件、环境变量覆盖和默认值回退
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/snapnote/snapnote/internal/logger"
)

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	// Driver 数据库驱动，目前仅支持sqlite
	Driver string `mapstructure:"driver"`
	// DSN 数据库文件路径
	DSN string `mapstructure:"dsn"`
	// MaxIdleConns 最大空闲连接数
	MaxIdleConns int `mapstructure:"max_idle_conns"`
	// MaxOpenConns 最大打开连接数
	MaxOpenConns int `mapstructure:"max_open_conns"`
	// ConnMaxLifetime 连接最大存活时间(秒)
	ConnMaxLifetime int `mapstructure:"conn_max_lifetime"`
}

// NoteConfig 笔记字段限制配置
type NoteConfig struct {
	// MaxTitleLength 标题最大长度(字符数)
	MaxTitleLength int `mapstructure:"max_title_length"`
	// MaxBodyLength 正文最大长度(字符数)
	MaxBodyLength int `mapstructure:"max_body_length"`
	// MaxFolderNameLength 文件夹名最大长度(字符数)
	MaxFolderNameLength int `mapstructure:"max_folder_name_length"`
}

// SchedulerConfig 提醒调度器配置
type SchedulerConfig struct {
	// TickIntervalMillis 调度器检查到期任务的周期(毫秒)
	TickIntervalMillis int `mapstructure:"tick_interval_millis"`
	// Language 解析提醒日期时间所用的语言(如en-US、zh-CN)
	Language string `mapstructure:"language"`
}

// SearchConfig 搜索配置
type SearchConfig struct {
	// DebounceMillis 关键词防抖静默期(毫秒)
	DebounceMillis int `mapstructure:"debounce_millis"`
}

// PreferenceConfig 用户偏好存储配置
type PreferenceConfig struct {
	// FilePath 偏好键值文件路径
	FilePath string `mapstructure:"file_path"`
}

// Config 应用程序总配置
type Config struct {
	Database   DatabaseConfig   `mapstructure:"database"`
	Note       NoteConfig       `mapstructure:"note"`
	Scheduler  SchedulerConfig  `mapstructure:"scheduler"`
	Search     SearchConfig     `mapstructure:"search"`
	Preference PreferenceConfig `mapstructure:"preference"`
	Logger     logger.Config    `mapstructure:"logger"`
}

// setDefaults 注册所有配置项的默认值
func setDefaults(v *viper.Viper) {
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "snapnote.db")
	v.SetDefault("database.max_idle_conns", 1)
	v.SetDefault("database.max_open_conns", 1)
	v.SetDefault("database.conn_max_lifetime", 3600)

	v.SetDefault("note.max_title_length", 100)
	v.SetDefault("note.max_body_length", 1000)
	v.SetDefault("note.max_folder_name_length", 50)

	v.SetDefault("scheduler.tick_interval_millis", 1000)
	v.SetDefault("scheduler.language", "en-US")

	v.SetDefault("search.debounce_millis", 500)

	v.SetDefault("preference.file_path", "user_preferences.yaml")

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "text")
	v.SetDefault("logger.output", "both")
	v.SetDefault("logger.file_path", "logs/app.log")
}

// Load 加载应用程序配置
// 查找顺序: ./config.yaml -> ./config/config.yaml -> 环境变量 -> 默认值
// 返回:
//
//	*Config - 配置实例
//	error - 配置文件存在但无法解析时返回错误
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetEnvPrefix("SNAPNOTE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// 配置文件缺失时使用默认值，其他错误视为致命
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}
