package jsonrpc

import (
	"context"

	"github.com/brbranch/memos_mcp/internal/model"
	"github.com/brbranch/memos_mcp/internal/service"
)

// ツール名・リソースURI
const (
	ToolCreateMemo      = "create_memo"
	ToolGetRecentMemos  = "get_recent_memos"
	ResourceRecentMemos = "memos://recent"
)

// toolFunc はツール引数を受け取りアダプタを呼び出す
// errorを返すのは引数が不正な場合のみ
type toolFunc func(h *Handler, ctx context.Context, args map[string]any) (service.Result, error)

// toolFuncs はツール名から実装への対応
var toolFuncs = map[string]toolFunc{
	ToolCreateMemo:     (*Handler).callCreateMemo,
	ToolGetRecentMemos: (*Handler).callGetRecentMemos,
}

// mcpTools は tools/list で公開するツール定義
var mcpTools = []model.Tool{
	{
		Name:        ToolCreateMemo,
		Description: "在 Memos 中创建一条新笔记。",
		InputSchema: model.JSONSchema{
			Type: "object",
			Properties: map[string]model.JSONSchema{
				"content": {
					Type:        "string",
					Title:       "Content",
					Description: "笔记内容（Markdown）",
				},
				"visibility": {
					Type:        "string",
					Title:       "Visibility",
					Description: "可见性，例如 PRIVATE / PROTECTED / PUBLIC（不区分大小写）",
					Default:     service.DefaultVisibility,
				},
			},
			Required: []string{"content"},
		},
	},
	{
		Name:        ToolGetRecentMemos,
		Description: "获取最近创建的笔记列表。",
		InputSchema: model.JSONSchema{
			Type: "object",
			Properties: map[string]model.JSONSchema{
				"limit": {
					Type:        "integer",
					Title:       "Limit",
					Description: "返回的笔记数量",
					Default:     service.DefaultRecentLimit,
				},
			},
		},
	},
}

// mcpResources は resources/list で公開するリソース定義
// ホストによってはリソースが1つも無いと探索時にエラーを表示するため、最低1つ公開する
var mcpResources = []model.Resource{
	{
		URI:         ResourceRecentMemos,
		Name:        "recent_memos",
		Description: "以资源形式返回最近的笔记",
		MimeType:    "text/plain",
	},
}

func (h *Handler) callCreateMemo(ctx context.Context, args map[string]any) (service.Result, error) {
	var p CreateMemoParams
	if err := mapParams(args, &p); err != nil {
		return service.Result{}, err
	}
	content, visibility, err := p.Validate()
	if err != nil {
		return service.Result{}, err
	}
	return h.memoService.CreateMemo(ctx, content, visibility), nil
}

func (h *Handler) callGetRecentMemos(ctx context.Context, args map[string]any) (service.Result, error) {
	var p RecentMemosParams
	if err := mapParams(args, &p); err != nil {
		return service.Result{}, err
	}
	return h.memoService.RecentMemos(ctx, p.LimitOrDefault()), nil
}
