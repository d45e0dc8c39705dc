package model

import "time"

// Config はサーバー全体の設定を表す
// config.Load で一度だけ構築され、以降は変更しない
type Config struct {
	Memos  MemosConfig  `yaml:"memos"`
	Server ServerConfig `yaml:"server"`
	Log    LogConfig    `yaml:"log"`
	Paths  PathsConfig  `yaml:"-"`
}

// MemosConfig はリモートMemos APIへの接続設定
type MemosConfig struct {
	URL       string        `yaml:"url"`       // 末尾の "/" は除去済み
	Token     string        `yaml:"token"`     // Bearerトークン
	Timeout   time.Duration `yaml:"timeout"`   // 1回の呼び出しのタイムアウト
	UserAgent string        `yaml:"userAgent"` // 固定のUser-Agent
}

// ServerConfig はtransport設定
type ServerConfig struct {
	Transport      string   `yaml:"transport"`      // "stdio" | "http"
	Host           string   `yaml:"host"`           // HTTP用
	Port           int      `yaml:"port"`           // HTTP用
	CORSOrigins    []string `yaml:"corsOrigins"`    // 空ならCORS無効
	MaxConcurrency int      `yaml:"maxConcurrency"` // stdioで同時に処理するリクエスト数
}

// LogConfig はログ設定
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug" | "info" | "warn" | "error"
	Format string `yaml:"format"` // "json" | "console"
}

// PathsConfig はファイルパス情報（設定ファイルには書かない）
type PathsConfig struct {
	ConfigPath string
}

// Transport定数
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// ログフォーマット定数
const (
	LogFormatJSON    = "json"
	LogFormatConsole = "console"
)
