package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// EnvDataDir 数据目录环境变量名
	EnvDataDir = "IMESSAGE_EXPORT_DATA_DIR"
	// DefaultDataDirName 默认数据目录名
	DefaultDataDirName = ".imessage-export"
	// EnvConfigFile 配置文件路径环境变量名
	EnvConfigFile = "IMESSAGE_EXPORT_CONFIG"
	// ConfigFileName 数据目录下的默认配置文件名
	ConfigFileName = "config.yaml"
)

// DataDir 数据根目录，存放 config.yaml
// 优先读取 IMESSAGE_EXPORT_DATA_DIR，默认 ~/.imessage-export
func DataDir() string {
	if dir := os.Getenv(EnvDataDir); dir != "" {
		return dir
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return DefaultDataDirName
	}
	return filepath.Join(homeDir, DefaultDataDirName)
}

// Load 加载配置：默认值 < 配置文件 < 环境变量
// 未指定配置文件且默认位置不存在时只使用默认值
func Load() (*Config, error) {
	path := os.Getenv(EnvConfigFile)
	explicit := path != ""
	if !explicit {
		path = filepath.Join(DataDir(), ConfigFileName)
	}

	cfg := defaultConfig()
	if err := mergeFile(cfg, path); err != nil {
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}
	applyEnv(cfg)
	expandPaths(cfg)
	return cfg, nil
}

// LoadFile 从指定文件加载配置，环境变量仍然优先
func LoadFile(path string) (*Config, error) {
	cfg := defaultConfig()
	if err := mergeFile(cfg, path); err != nil {
		return nil, err
	}
	applyEnv(cfg)
	expandPaths(cfg)
	return cfg, nil
}

// mergeFile 把 YAML 文件中出现的字段覆盖到 cfg 上
func mergeFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	resolveRelativePaths(cfg, filepath.Dir(path))
	return nil
}

// resolveRelativePaths 相对路径以配置文件所在目录为基准，~ 开头的保持原样由使用方展开
func resolveRelativePaths(cfg *Config, base string) {
	for _, p := range []*string{&cfg.Source.Path, &cfg.Output.Path, &cfg.Output.LogPath} {
		if *p == "" || filepath.IsAbs(*p) || (*p)[0] == '~' {
			continue
		}
		*p = filepath.Join(base, *p)
	}
}

// ExpandHome 展开 ~ 和 ~/ 开头的路径
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// expandPaths 展开配置中的 ~ 前缀
func expandPaths(cfg *Config) {
	cfg.Source.Path = ExpandHome(cfg.Source.Path)
	cfg.Output.Path = ExpandHome(cfg.Output.Path)
	cfg.Output.LogPath = ExpandHome(cfg.Output.LogPath)
}
