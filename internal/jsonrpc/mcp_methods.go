package jsonrpc

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/brbranch/memos_mcp/internal/model"
)

// ServerName はinitializeで返すサーバー名
const ServerName = "Memos-Manager"

// ServerVersion はサーバーのバージョン（ビルド時に設定可能）
var ServerVersion = "0.1.0"

// handleInitialize は initialize メソッドを処理
func (h *Handler) handleInitialize(ctx context.Context, params any) (any, error) {
	// パラメータをパース（検証は最小限）
	var p model.InitializeParams
	if err := mapParams(params, &p); err != nil {
		return nil, err
	}

	h.logger.Info().
		Str("client", p.ClientInfo.Name).
		Str("client_version", p.ClientInfo.Version).
		Str("protocol_version", p.ProtocolVersion).
		Msg("initialize")

	return &model.InitializeResult{
		ProtocolVersion: model.ProtocolVersion,
		ServerInfo: model.ServerInfo{
			Name:    ServerName,
			Version: ServerVersion,
		},
		Capabilities: model.Capabilities{
			Tools:     &model.ToolsCapability{},
			Resources: &model.ResourcesCapability{},
		},
	}, nil
}

// handleToolsList は tools/list メソッドを処理
func (h *Handler) handleToolsList(ctx context.Context) (any, error) {
	return &model.ToolsListResult{
		Tools: mcpTools,
	}, nil
}

// handleToolsCall は tools/call メソッドを処理
// アダプタの失敗は本文の文字列で表し、isErrorは立てない
// isErrorはツール名や引数が不正な場合のみ
func (h *Handler) handleToolsCall(ctx context.Context, params any) (any, error) {
	var p model.ToolsCallParams
	if err := mapParams(params, &p); err != nil {
		return nil, err
	}

	// ツール名必須チェック
	if p.Name == "" {
		return toolError("Error: tool name is required"), nil
	}

	fn, ok := toolFuncs[p.Name]
	if !ok {
		return toolError(fmt.Sprintf("Tool not found: %s", p.Name)), nil
	}

	logger := h.logger.With().
		Str("call_id", uuid.NewString()).
		Str("tool", p.Name).
		Logger()
	ctx = logger.WithContext(ctx)

	start := time.Now()
	res, err := fn(h, ctx, p.Arguments)
	if err != nil {
		logger.Warn().Err(err).Msg("invalid tool arguments")
		return toolError(fmt.Sprintf("Error: %s", err.Error())), nil
	}

	logger.Info().
		Bool("failed", res.IsErr()).
		Dur("elapsed", time.Since(start)).
		Msg("tool call")

	return &model.ToolsCallResult{
		Content: []model.ContentItem{
			model.NewTextContent(res.String()),
		},
	}, nil
}

// handleResourcesList は resources/list メソッドを処理
func (h *Handler) handleResourcesList(ctx context.Context) (any, error) {
	return &model.ResourcesListResult{
		Resources: mcpResources,
	}, nil
}

// handleResourcesRead は resources/read メソッドを処理
func (h *Handler) handleResourcesRead(ctx context.Context, params any) (any, error) {
	var p model.ResourcesReadParams
	if err := mapParams(params, &p); err != nil {
		return nil, err
	}
	if p.URI == "" {
		return nil, fmt.Errorf("%w: uri is required", errInvalidParams)
	}
	if p.URI != ResourceRecentMemos {
		return nil, &resourceNotFoundError{uri: p.URI}
	}

	logger := h.logger.With().
		Str("call_id", uuid.NewString()).
		Str("resource", p.URI).
		Logger()
	res := h.memoService.RecentResource(logger.WithContext(ctx))
	logger.Info().Bool("failed", res.IsErr()).Msg("resource read")

	return &model.ResourcesReadResult{
		Contents: []model.ResourceContents{
			{
				URI:      ResourceRecentMemos,
				MimeType: "text/plain",
				Text:     res.String(),
			},
		},
	}, nil
}

func toolError(text string) *model.ToolsCallResult {
	return &model.ToolsCallResult{
		Content: []model.ContentItem{
			model.NewTextContent(text),
		},
		IsError: true,
	}
}
