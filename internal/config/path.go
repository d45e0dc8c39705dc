package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	// DefaultConfigDir はデフォルトの設定ディレクトリ名
	DefaultConfigDir = ".memos-mcp"
	// DefaultConfigFile はデフォルトの設定ファイル名
	DefaultConfigFile = "config.yaml"
	// DefaultDotEnvFile はカレントディレクトリから読み込む.envファイル名
	DefaultDotEnvFile = ".env"
)

// ExpandTilde は"~"をホームディレクトリに展開する
// "~/" で始まる場合のみ展開し、それ以外はそのまま返す
func ExpandTilde(path string) (string, error) {
	if path == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		return home, nil
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		return filepath.Join(home, path[2:]), nil
	}

	// それ以外（"~user" など）はそのまま返す
	return path, nil
}

// GetDefaultConfigPath はデフォルトの設定ファイルパスを返す
// ~/.memos-mcp/config.yaml
func GetDefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, DefaultConfigDir, DefaultConfigFile), nil
}
