// Package service implements the memo tool adapters exposed over MCP.
//
// アダプタは全ての失敗を表示用の文字列に変換して返し、errorを呼び出し元に伝播しない。
package service

import (
	"context"

	"github.com/brbranch/memos_mcp/internal/memos"
)

// MemoService はMCPツール/リソースの実体
type MemoService interface {
	// CreateMemo はメモを1件作成し、結果メッセージを返す
	CreateMemo(ctx context.Context, content, visibility string) Result
	// RecentMemos は最近のメモをlimit件まで1行ずつ整形して返す
	RecentMemos(ctx context.Context, limit int) Result
	// RecentResource は memos://recent リソースの内容を返す
	RecentResource(ctx context.Context) Result
}

// MemoClient はリモートMemos APIへのアクセスを抽象化する
type MemoClient interface {
	CreateMemo(ctx context.Context, content, visibility string) (memos.Memo, error)
	ListMemos(ctx context.Context, limit int) ([]memos.Memo, error)
}

// デフォルト値
const (
	DefaultVisibility   = "PRIVATE"
	DefaultRecentLimit  = 5
	ResourceRecentLimit = 10
	ContentPreviewRunes = 100
)

// 表示用メッセージ
const (
	msgCreated      = "✅ 成功存入 Memos！ID: %s"
	msgCreateFailed = "❌ 失败: %d"
	msgCreateError  = "⚠️ 错误: %s"
	msgNoMemos      = "没有找到笔记。"
	msgListFailed   = "❌ 获取失败"
	msgListError    = "⚠️ 错误"
	unknownID       = "(unknown)"
)
