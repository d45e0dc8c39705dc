// Package jsonrpc implements JSON-RPC 2.0 and MCP handlers for memos-mcp.
package jsonrpc

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/rs/zerolog"

	"github.com/brbranch/memos_mcp/internal/model"
	"github.com/brbranch/memos_mcp/internal/service"
)

// Handler はJSON-RPCリクエストを処理する
// 状態を持たないため、複数のリクエストを同時に処理できる
type Handler struct {
	memoService service.MemoService
	logger      zerolog.Logger
}

// Option はHandlerのオプション
type Option func(*Handler)

// WithLogger はloggerを設定
func WithLogger(logger zerolog.Logger) Option {
	return func(h *Handler) {
		h.logger = logger
	}
}

// New は新しいHandlerを生成
func New(memoService service.MemoService, opts ...Option) *Handler {
	h := &Handler{
		memoService: memoService,
		logger:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Handle はJSON-RPCリクエストをパースしてディスパッチ
// 戻り値は *model.Response または *model.ErrorResponse のJSON bytes
// 通知（IDなし）の場合はnilを返す
func (h *Handler) Handle(ctx context.Context, requestBytes []byte) []byte {
	// 1. パース
	var req model.Request
	if err := json.Unmarshal(requestBytes, &req); err != nil {
		return h.encodeError(model.NewParseError(err.Error()))
	}

	// 2. バージョン確認
	if req.JSONRPC != "2.0" {
		return h.encodeError(model.NewInvalidRequest(req.ID, "jsonrpc must be 2.0"))
	}

	// 3. method確認
	if req.Method == "" {
		return h.encodeError(model.NewInvalidRequest(req.ID, "method is required"))
	}

	// 4. 通知にはレスポンスを返さない
	if req.IsNotification() {
		h.logger.Debug().Str("method", req.Method).Msg("notification received")
		return nil
	}

	// 5. ディスパッチ
	result, err := h.dispatch(ctx, req.Method, req.Params)
	if err != nil {
		return h.encodeError(h.mapError(req.ID, err))
	}

	return h.encodeResponse(model.NewResponse(req.ID, result))
}

// dispatch はメソッドに応じて適切なハンドラーを呼び出す
func (h *Handler) dispatch(ctx context.Context, method string, params any) (any, error) {
	switch method {
	case "initialize":
		return h.handleInitialize(ctx, params)
	case "ping":
		return map[string]any{}, nil
	case "tools/list":
		return h.handleToolsList(ctx)
	case "tools/call":
		return h.handleToolsCall(ctx, params)
	case "resources/list":
		return h.handleResourcesList(ctx)
	case "resources/templates/list":
		return &model.ResourceTemplatesListResult{ResourceTemplates: []any{}}, nil
	case "resources/read":
		return h.handleResourcesRead(ctx, params)
	case "prompts/list":
		return &model.PromptsListResult{Prompts: []any{}}, nil
	case "memos.create_memo":
		return h.handleCreateMemo(ctx, params)
	case "memos.get_recent_memos":
		return h.handleGetRecentMemos(ctx, params)
	default:
		return nil, &methodNotFoundError{method: method}
	}
}

// mapError はエラーをJSON-RPCエラーに変換
func (h *Handler) mapError(id any, err error) *model.ErrorResponse {
	var mnfErr *methodNotFoundError
	if errors.As(err, &mnfErr) {
		return model.NewMethodNotFound(id, mnfErr.method)
	}

	var rnfErr *resourceNotFoundError
	if errors.As(err, &rnfErr) {
		return model.NewResourceNotFound(id, rnfErr.uri)
	}

	if errors.Is(err, errInvalidParams) {
		return model.NewInvalidParams(id, err.Error())
	}

	return model.NewInternalError(id, err.Error())
}

func (h *Handler) encodeResponse(resp *model.Response) []byte {
	b, _ := json.Marshal(resp)
	return b
}

func (h *Handler) encodeError(resp *model.ErrorResponse) []byte {
	b, _ := json.Marshal(resp)
	return b
}

// methodNotFoundError はメソッド未検出エラー
type methodNotFoundError struct {
	method string
}

func (e *methodNotFoundError) Error() string {
	return "method not found: " + e.method
}

// resourceNotFoundError は未知のリソースURIエラー
type resourceNotFoundError struct {
	uri string
}

func (e *resourceNotFoundError) Error() string {
	return "resource not found: " + e.uri
}

// errInvalidParams はパラメータ不正エラー（%wでラップして使う）
var errInvalidParams = errors.New("invalid params")
