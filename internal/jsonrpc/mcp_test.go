package jsonrpc

import (
	"bytes"
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brbranch/memos_mcp/internal/model"
	"github.com/brbranch/memos_mcp/internal/service"
)

// === MCP initialize テスト ===

func TestHandle_Initialize_Success(t *testing.T) {
	h, _ := newTestHandler()
	req := []byte(`{
		"jsonrpc": "2.0",
		"id": 1,
		"method": "initialize",
		"params": {
			"protocolVersion": "2024-11-05",
			"clientInfo": {"name": "test-client", "version": "1.0.0"},
			"capabilities": {}
		}
	}`)
	resp := parseResponse(t, h.Handle(context.Background(), req))
	require.Nil(t, resp["error"])

	result := resp["result"].(map[string]any)
	assert.Equal(t, "2024-11-05", result["protocolVersion"])

	serverInfo := result["serverInfo"].(map[string]any)
	assert.Equal(t, "Memos-Manager", serverInfo["name"])
	assert.NotEmpty(t, serverInfo["version"])

	capabilities := result["capabilities"].(map[string]any)
	assert.NotNil(t, capabilities["tools"])
	assert.NotNil(t, capabilities["resources"])
}

// === MCP tools/list テスト ===

func TestHandle_ToolsList(t *testing.T) {
	h, _ := newTestHandler()
	resp := parseResponse(t, h.Handle(context.Background(), makeRequest("tools/list", nil)))
	require.Nil(t, resp["error"])

	tools := resp["result"].(map[string]any)["tools"].([]any)
	require.Len(t, tools, 2)

	byName := make(map[string]map[string]any)
	for _, tool := range tools {
		m := tool.(map[string]any)
		byName[m["name"].(string)] = m
	}

	create := byName["create_memo"]
	require.NotNil(t, create)
	schema := create["inputSchema"].(map[string]any)
	assert.Equal(t, []any{"content"}, schema["required"])
	props := schema["properties"].(map[string]any)
	assert.Equal(t, "PRIVATE", props["visibility"].(map[string]any)["default"])

	recent := byName["get_recent_memos"]
	require.NotNil(t, recent)
	props = recent["inputSchema"].(map[string]any)["properties"].(map[string]any)
	limit := props["limit"].(map[string]any)
	assert.Equal(t, "integer", limit["type"])
	assert.Equal(t, float64(5), limit["default"])
}

// === MCP tools/call テスト ===

func callTool(t *testing.T, h *Handler, name string, args map[string]any) map[string]any {
	t.Helper()
	params := map[string]any{"name": name}
	if args != nil {
		params["arguments"] = args
	}
	resp := parseResponse(t, h.Handle(context.Background(), makeRequest("tools/call", params)))
	require.Nil(t, resp["error"], "unexpected JSON-RPC error")
	return resp["result"].(map[string]any)
}

func contentText(t *testing.T, result map[string]any) string {
	t.Helper()
	content := result["content"].([]any)
	require.Len(t, content, 1)
	item := content[0].(map[string]any)
	assert.Equal(t, "text", item["type"])
	return item["text"].(string)
}

func TestHandle_ToolsCall_CreateMemo(t *testing.T) {
	h, svc := newTestHandler()

	result := callTool(t, h, "create_memo", map[string]any{"content": "hello", "visibility": "public"})

	assert.Equal(t, "✅ 成功存入 Memos！ID: memos/1", contentText(t, result))
	_, hasIsError := result["isError"]
	assert.False(t, hasIsError)
	require.Len(t, svc.creates, 1)
	assert.Equal(t, createCall{content: "hello", visibility: "public"}, svc.creates[0])
}

func TestHandle_ToolsCall_CreateMemo_DefaultVisibility(t *testing.T) {
	h, svc := newTestHandler()

	callTool(t, h, "create_memo", map[string]any{"content": "hello"})

	require.Len(t, svc.creates, 1)
	assert.Equal(t, "PRIVATE", svc.creates[0].visibility)
}

// アダプタの失敗は本文のみで表し、isErrorは立てない
func TestHandle_ToolsCall_AdapterFailureIsPlainText(t *testing.T) {
	h, svc := newTestHandler()
	svc.createFunc = func(ctx context.Context, content, visibility string) service.Result {
		return service.Err("❌ 失败: 404")
	}

	result := callTool(t, h, "create_memo", map[string]any{"content": "hello"})

	assert.Equal(t, "❌ 失败: 404", contentText(t, result))
	_, hasIsError := result["isError"]
	assert.False(t, hasIsError)
}

func TestHandle_ToolsCall_GetRecentMemos(t *testing.T) {
	tests := []struct {
		name      string
		args      map[string]any
		wantLimit int
	}{
		{name: "default limit", args: nil, wantLimit: 5},
		{name: "explicit limit", args: map[string]any{"limit": 20}, wantLimit: 20},
		// 上限はローカルで制限しない
		{name: "large limit", args: map[string]any{"limit": 5000}, wantLimit: 5000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, svc := newTestHandler()

			result := callTool(t, h, "get_recent_memos", tt.args)

			assert.Equal(t, "- [a]: hello", contentText(t, result))
			assert.Equal(t, []int{tt.wantLimit}, svc.limits)
		})
	}
}

func TestHandle_ToolsCall_InvalidArguments(t *testing.T) {
	tests := []struct {
		name string
		tool string
		args map[string]any
	}{
		{name: "missing content", tool: "create_memo", args: map[string]any{}},
		{name: "content not string", tool: "create_memo", args: map[string]any{"content": 12}},
		{name: "limit not integer", tool: "get_recent_memos", args: map[string]any{"limit": "five"}},
		{name: "limit fractional", tool: "get_recent_memos", args: map[string]any{"limit": 1.5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, svc := newTestHandler()

			result := callTool(t, h, tt.tool, tt.args)

			assert.Equal(t, true, result["isError"])
			assert.Contains(t, contentText(t, result), "Error:")
			assert.Empty(t, svc.creates)
			assert.Empty(t, svc.limits)
		})
	}
}

func TestHandle_ToolsCall_ToolNotFound(t *testing.T) {
	h, _ := newTestHandler()

	result := callTool(t, h, "delete_memo", map[string]any{})

	assert.Equal(t, true, result["isError"])
	assert.Equal(t, "Tool not found: delete_memo", contentText(t, result))
}

func TestHandle_ToolsCall_MissingName(t *testing.T) {
	h, _ := newTestHandler()
	resp := parseResponse(t, h.Handle(context.Background(), makeRequest("tools/call", map[string]any{
		"arguments": map[string]any{},
	})))

	require.Nil(t, resp["error"])
	assert.Equal(t, true, resp["result"].(map[string]any)["isError"])
}

// ツール呼び出しごとにcall_id付きのloggerがcontextに入る
func TestHandle_ToolsCall_LoggerInContext(t *testing.T) {
	var buf bytes.Buffer
	svc := &mockMemoService{}
	svc.createFunc = func(ctx context.Context, content, visibility string) service.Result {
		zerolog.Ctx(ctx).Info().Msg("inside adapter")
		return service.OK("ok")
	}
	h := New(svc, WithLogger(zerolog.New(&buf)))

	callTool(t, h, "create_memo", map[string]any{"content": "hello"})

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.NotEmpty(t, lines)

	var first map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &first))
	assert.Equal(t, "inside adapter", first["message"])
	assert.Equal(t, "create_memo", first["tool"])
	assert.NotEmpty(t, first["call_id"])
}

// === MCP resources テスト ===

func TestHandle_ResourcesList(t *testing.T) {
	h, _ := newTestHandler()
	resp := parseResponse(t, h.Handle(context.Background(), makeRequest("resources/list", nil)))
	require.Nil(t, resp["error"])

	resources := resp["result"].(map[string]any)["resources"].([]any)
	require.Len(t, resources, 1)
	res := resources[0].(map[string]any)
	assert.Equal(t, "memos://recent", res["uri"])
	assert.Equal(t, "text/plain", res["mimeType"])
}

func TestHandle_ResourcesRead(t *testing.T) {
	h, svc := newTestHandler()
	resp := parseResponse(t, h.Handle(context.Background(), makeRequest("resources/read", map[string]any{
		"uri": "memos://recent",
	})))
	require.Nil(t, resp["error"])

	contents := resp["result"].(map[string]any)["contents"].([]any)
	require.Len(t, contents, 1)
	item := contents[0].(map[string]any)
	assert.Equal(t, "memos://recent", item["uri"])
	assert.Equal(t, "- [a]: hello", item["text"])
	assert.Equal(t, []int{10}, svc.limits)
}

func TestHandle_ResourcesRead_UnknownURI(t *testing.T) {
	h, _ := newTestHandler()
	resp := parseErrorResponse(t, h.Handle(context.Background(), makeRequest("resources/read", map[string]any{
		"uri": "memos://all",
	})))

	assert.Equal(t, model.ErrCodeResourceNotFound, resp.Error.Code)
}

func TestHandle_ResourcesRead_MissingURI(t *testing.T) {
	h, _ := newTestHandler()
	resp := parseErrorResponse(t, h.Handle(context.Background(), makeRequest("resources/read", map[string]any{})))

	assert.Equal(t, model.ErrCodeInvalidParams, resp.Error.Code)
}

// 複数のツール呼び出しを同時に処理できる
func TestHandle_ConcurrentCalls(t *testing.T) {
	svc := &lockedMemoService{}
	h := New(svc)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out := h.Handle(context.Background(), makeRequest("tools/call", map[string]any{
				"name":      "get_recent_memos",
				"arguments": map[string]any{"limit": 1},
			}))
			var resp map[string]any
			if assert.NoError(t, json.Unmarshal(out, &resp)) {
				assert.Nil(t, resp["error"])
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 20, svc.count())
}

// lockedMemoService は並行呼び出し用のモック
type lockedMemoService struct {
	mu    sync.Mutex
	calls int
}

func (s *lockedMemoService) CreateMemo(ctx context.Context, content, visibility string) service.Result {
	return service.OK("ok")
}

func (s *lockedMemoService) RecentMemos(ctx context.Context, limit int) service.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return service.OK("没有找到笔记。")
}

func (s *lockedMemoService) RecentResource(ctx context.Context) service.Result {
	return s.RecentMemos(ctx, service.ResourceRecentLimit)
}

func (s *lockedMemoService) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}
