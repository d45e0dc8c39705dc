package jsonrpc

import (
	"context"

	"github.com/brbranch/memos_mcp/internal/service"
)

// MCP以外のJSON-RPCクライアント向けの直接メソッド
// 引数不正はJSON-RPCのinvalid paramsとして返す

// handleCreateMemo は memos.create_memo を処理
func (h *Handler) handleCreateMemo(ctx context.Context, params any) (any, error) {
	var p CreateMemoParams
	if err := mapParams(params, &p); err != nil {
		return nil, err
	}
	content, visibility, err := p.Validate()
	if err != nil {
		return nil, err
	}

	return textResult(h.memoService.CreateMemo(ctx, content, visibility)), nil
}

// handleGetRecentMemos は memos.get_recent_memos を処理
func (h *Handler) handleGetRecentMemos(ctx context.Context, params any) (any, error) {
	var p RecentMemosParams
	if err := mapParams(params, &p); err != nil {
		return nil, err
	}

	return textResult(h.memoService.RecentMemos(ctx, p.LimitOrDefault())), nil
}

// textResult はアダプタの結果を {"text": ...} にする
func textResult(res service.Result) map[string]any {
	return map[string]any{
		"text": res.String(),
	}
}
