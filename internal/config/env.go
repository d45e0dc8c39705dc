package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/brbranch/memos_mcp/internal/model"
)

// 環境変数名の定数
const (
	EnvMemosURL     = "MEMOS_URL"
	EnvMemosToken   = "MEMOS_TOKEN"
	EnvMemosTimeout = "MEMOS_TIMEOUT"
	EnvLogLevel     = "MEMOS_LOG_LEVEL"
)

// LoadDotEnv は.envファイルを読み込んで環境変数に反映する
// 既に設定されている環境変数は上書きしない。ファイルが無い場合は何もしない
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// ApplyEnvOverrides は環境変数による設定上書きを適用する
// config を直接変更する（Load の中でのみ呼ばれる）
func ApplyEnvOverrides(config *model.Config) error {
	if url, ok := os.LookupEnv(EnvMemosURL); ok {
		config.Memos.URL = url
	}
	if token, ok := os.LookupEnv(EnvMemosToken); ok {
		config.Memos.Token = token
	}
	if raw := os.Getenv(EnvMemosTimeout); raw != "" {
		timeout, err := ParseTimeout(raw)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvMemosTimeout, err)
		}
		config.Memos.Timeout = timeout
	}
	if level := os.Getenv(EnvLogLevel); level != "" {
		config.Log.Level = level
	}
	return nil
}

// ParseTimeout は "10s" のようなDuration表記か、秒数（"10", "2.5"）を受け付ける
func ParseTimeout(raw string) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if secs, err := strconv.ParseFloat(raw, 64); err == nil {
		return time.Duration(secs * float64(time.Second)), nil
	}
	return time.ParseDuration(raw)
}
