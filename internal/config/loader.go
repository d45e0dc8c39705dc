// Package config loads the memos-mcp configuration.
//
// 読み込み順（後のものが優先）: デフォルト値 → YAML設定ファイル → .env → 環境変数
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/brbranch/memos_mcp/internal/model"
)

// デフォルト値
const (
	DefaultTimeout        = 10 * time.Second
	DefaultUserAgent      = "Memos-MCP-Server/1.0"
	DefaultHost           = "127.0.0.1"
	DefaultPort           = 8765
	DefaultMaxConcurrency = 8
	DefaultLogLevel       = "info"
)

// Load は設定を一度だけ読み込んで返す
// configPathが空文字の場合、デフォルトパス（~/.memos-mcp/config.yaml）を使用
// 設定ファイルが存在しない場合はデフォルト設定を使用（エラーなし）
// URLやトークンの妥当性は検証しない
func Load(configPath string) (*model.Config, error) {
	if configPath == "" {
		defaultPath, err := GetDefaultConfigPath()
		if err != nil {
			return nil, fmt.Errorf("failed to get default config path: %w", err)
		}
		configPath = defaultPath
	}

	configPath, err := ExpandTilde(configPath)
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig(configPath)

	if err := loadFile(configPath, cfg); err != nil {
		return nil, err
	}

	if err := LoadDotEnv(DefaultDotEnvFile); err != nil {
		return nil, err
	}

	if err := ApplyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	normalize(cfg)
	return cfg, nil
}

// loadFile はYAML設定ファイルをcfgに上書きで読み込む
func loadFile(path string, cfg *model.Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}

// normalize はゼロ値をデフォルトに戻し、URL末尾の "/" を除去する
func normalize(cfg *model.Config) {
	cfg.Memos.URL = strings.TrimRight(cfg.Memos.URL, "/")
	if cfg.Memos.Timeout <= 0 {
		cfg.Memos.Timeout = DefaultTimeout
	}
	if cfg.Memos.UserAgent == "" {
		cfg.Memos.UserAgent = DefaultUserAgent
	}
	if cfg.Server.Transport == "" {
		cfg.Server.Transport = model.TransportStdio
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = DefaultHost
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultPort
	}
	if cfg.Server.MaxConcurrency <= 0 {
		cfg.Server.MaxConcurrency = DefaultMaxConcurrency
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = model.LogFormatJSON
	}
}

// DefaultConfig はデフォルト設定を返す
func DefaultConfig(configPath string) *model.Config {
	return &model.Config{
		Memos: model.MemosConfig{
			Timeout:   DefaultTimeout,
			UserAgent: DefaultUserAgent,
		},
		Server: model.ServerConfig{
			Transport:      model.TransportStdio,
			Host:           DefaultHost,
			Port:           DefaultPort,
			MaxConcurrency: DefaultMaxConcurrency,
		},
		Log: model.LogConfig{
			Level:  DefaultLogLevel,
			Format: model.LogFormatJSON,
		},
		Paths: model.PathsConfig{
			ConfigPath: configPath,
		},
	}
}
