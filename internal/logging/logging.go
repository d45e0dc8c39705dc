// Package logging builds the zerolog logger used by memos-mcp.
//
// stdoutはstdio transportが使うため、ログは常にstderr（またはテスト用のwriter）に出す。
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/brbranch/memos_mcp/internal/model"
)

// New はログ設定からloggerを生成する
// 不明なレベルはinfoとして扱う
func New(cfg model.LogConfig, w io.Writer) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}

	if cfg.Format == model.LogFormatConsole {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339, NoColor: true}
	}

	return zerolog.New(w).
		Level(ParseLevel(cfg.Level)).
		With().
		Timestamp().
		Str("app", "memos-mcp").
		Logger()
}

// ParseLevel はレベル文字列をzerolog.Levelに変換する
func ParseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}
