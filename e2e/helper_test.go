//go:build e2e

package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/brbranch/memos_mcp/internal/jsonrpc"
	"github.com/brbranch/memos_mcp/internal/memos"
	"github.com/brbranch/memos_mcp/internal/model"
	"github.com/brbranch/memos_mcp/internal/service"
	"github.com/brbranch/memos_mcp/internal/transport/stdio"
)

const testToken = "e2e-token"

// fakeMemos はMemos APIを模したテスト用サーバー
// 作成されたメモを新しい順に返す
type fakeMemos struct {
	mu       sync.Mutex
	memos    []map[string]any
	nextID   int
	status   int // 0以外ならこのステータスを返す
	wrapList bool

	gotLimits []string
}

func newFakeMemos(t *testing.T) (*fakeMemos, *httptest.Server) {
	t.Helper()
	f := &fakeMemos{nextID: 1}
	srv := httptest.NewServer(http.HandlerFunc(f.serveHTTP))
	t.Cleanup(srv.Close)
	return f, srv
}

func (f *fakeMemos) serveHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if r.URL.Path != memos.MemosPath {
		http.NotFound(w, r)
		return
	}
	if r.Header.Get("Authorization") != "Bearer "+testToken {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	if f.status != 0 {
		w.WriteHeader(f.status)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	switch r.Method {
	case http.MethodPost:
		var body struct {
			Content    string `json:"content"`
			Visibility string `json:"visibility"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		memo := map[string]any{
			"name":       fmt.Sprintf("memos/%d", f.nextID),
			"content":    body.Content,
			"visibility": body.Visibility,
		}
		f.nextID++
		f.memos = append([]map[string]any{memo}, f.memos...)
		json.NewEncoder(w).Encode(memo)
	case http.MethodGet:
		limitParam := r.URL.Query().Get("limit")
		f.gotLimits = append(f.gotLimits, limitParam)
		limit, _ := strconv.Atoi(limitParam)
		list := f.memos
		if limit > 0 && limit < len(list) {
			list = list[:limit]
		}
		if list == nil {
			list = []map[string]any{}
		}
		if f.wrapList {
			json.NewEncoder(w).Encode(map[string]any{"memos": list})
			return
		}
		json.NewEncoder(w).Encode(list)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (f *fakeMemos) setStatus(status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.status = status
}

// stored は保存済みのメモを新しい順に返す
func (f *fakeMemos) stored() []map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]map[string]any(nil), f.memos...)
}

func (f *fakeMemos) limits() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.gotLimits...)
}

// setupTestHandler は実際のクライアント・サービスでHandlerを構築
func setupTestHandler(t *testing.T, baseURL string) *jsonrpc.Handler {
	t.Helper()

	client := memos.NewClient(model.MemosConfig{
		URL:   baseURL + "/",
		Token: testToken,
	})
	t.Cleanup(client.Close)

	return jsonrpc.New(service.NewMemoService(client), jsonrpc.WithLogger(zerolog.Nop()))
}

// RawResponse はエラーの有無を確認するためのレスポンス
type RawResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      any             `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *model.RPCError `json:"error,omitempty"`
}

// runStdio はリクエストを1行ずつstdio transportに流し、応答行を返す
func runStdio(t *testing.T, h *jsonrpc.Handler, requests ...string) []RawResponse {
	t.Helper()

	var out bytes.Buffer
	server := stdio.New(h,
		stdio.WithReader(strings.NewReader(strings.Join(requests, "\n")+"\n")),
		stdio.WithWriter(&out),
		stdio.WithMaxConcurrency(1),
	)
	require.NoError(t, server.Run(context.Background()))

	var responses []RawResponse
	for _, line := range strings.Split(strings.TrimSpace(out.String()), "\n") {
		if line == "" {
			continue
		}
		var resp RawResponse
		require.NoError(t, json.Unmarshal([]byte(line), &resp), line)
		responses = append(responses, resp)
	}
	return responses
}

// toolText はtools/callの結果からテキストとisErrorを取り出す
func toolText(t *testing.T, resp RawResponse) (string, bool) {
	t.Helper()
	require.Nil(t, resp.Error)

	var result model.ToolsCallResult
	require.NoError(t, json.Unmarshal(resp.Result, &result))
	require.Len(t, result.Content, 1)
	return result.Content[0].Text, result.IsError
}

func toolCall(id int, name string, args string) string {
	return fmt.Sprintf(`{"jsonrpc":"2.0","id":%d,"method":"tools/call","params":{"name":%q,"arguments":%s}}`, id, name, args)
}
