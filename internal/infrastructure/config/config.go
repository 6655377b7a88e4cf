package config

import (
	"os"
	"path/filepath"
)

const (
	// EnvSourcePath 消息数据库路径环境变量名
	EnvSourcePath = "IMESSAGE_EXPORT_SOURCE"
	// EnvOutputPath 导出目录环境变量名
	EnvOutputPath = "IMESSAGE_EXPORT_OUTPUT"
	// EnvLogPath 诊断日志路径环境变量名
	EnvLogPath = "IMESSAGE_EXPORT_LOG"

	// DebugLogName 诊断日志默认文件名（位于导出目录下）
	DebugLogName = "debug_log.txt"
)

// Config 应用配置
type Config struct {
	Source SourceConfig `yaml:"source"`
	Output OutputConfig `yaml:"output"`
	Export ExportConfig `yaml:"export"`
}

// SourceConfig 消息数据库配置
type SourceConfig struct {
	// Path chat.db 路径，支持 ~ 前缀
	Path string `yaml:"path"`

	// Snapshot 是否先把数据库（含 -wal/-shm）复制到临时目录再读取
	// Messages 正在运行时可避免文件锁
	Snapshot bool `yaml:"snapshot"`
}

// OutputConfig 导出目录配置
type OutputConfig struct {
	// Path 导出根目录
	Path string `yaml:"path"`

	// LogPath 诊断日志路径，留空表示 <Path>/debug_log.txt
	LogPath string `yaml:"log_path"`
}

// ExportConfig 导出行为开关
type ExportConfig struct {
	// PreserveSourceExtension 附件使用源文件扩展名，而不是按 MIME 固定为 .png/.mp4
	PreserveSourceExtension bool `yaml:"preserve_source_extension"`

	// CollapseAttachmentRows 同一消息的多附件行只写一次文本行
	CollapseAttachmentRows bool `yaml:"collapse_attachment_rows"`
}

// NewConfig 创建配置（默认值 + 环境变量覆盖）
func NewConfig() *Config {
	cfg := defaultConfig()
	applyEnv(cfg)
	expandPaths(cfg)
	return cfg
}

// defaultConfig 与原始导出脚本保持一致的默认路径
func defaultConfig() *Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return &Config{
		Source: SourceConfig{
			Path: filepath.Join(home, "Library", "Messages", "chat.db"),
		},
		Output: OutputConfig{
			Path: filepath.Join(home, "Desktop", "iMessages_Export"),
		},
	}
}

// applyEnv 用非空环境变量覆盖配置
func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvSourcePath); v != "" {
		cfg.Source.Path = v
	}
	if v := os.Getenv(EnvOutputPath); v != "" {
		cfg.Output.Path = v
	}
	if v := os.Getenv(EnvLogPath); v != "" {
		cfg.Output.LogPath = v
	}
}

// DebugLogPath 返回诊断日志的实际路径
func (c *OutputConfig) DebugLogPath() string {
	if c.LogPath != "" {
		return c.LogPath
	}
	return filepath.Join(c.Path, DebugLogName)
}

// NewSourceConfig 创建数据库配置
func NewSourceConfig(cfg *Config) *SourceConfig {
	return &cfg.Source
}

// NewOutputConfig 创建导出目录配置
func NewOutputConfig(cfg *Config) *OutputConfig {
	return &cfg.Output
}

// NewExportConfig 创建导出行为配置
func NewExportConfig(cfg *Config) *ExportConfig {
	return &cfg.Export
}
