// Package memos implements a minimal client for the Memos HTTP API.
//
// 1回の呼び出しにつき1リクエストのみ発行する。リトライ・キャッシュ・ページングは行わない。
package memos

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/brbranch/memos_mcp/internal/model"
)

const (
	// MemosPath はメモAPIのエンドポイント
	MemosPath = "/api/v1/memos"

	DefaultTimeout   = 10 * time.Second
	DefaultUserAgent = "Memos-MCP-Server/1.0"
)

// Client はMemos APIクライアント
// 状態を持たないため、複数goroutineから同時に使用できる
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	userAgent  string
	timeout    time.Duration
	logger     zerolog.Logger
}

// Option はClientのオプション
type Option func(*Client)

// WithHTTPClient はHTTPクライアントを設定
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithTimeout は1回の呼び出しのタイムアウトを設定
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithUserAgent はUser-Agentを設定
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithLogger はloggerを設定
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient は新しいClientを作成
// URLやトークンが空でもエラーにはしない（最初の呼び出しで失敗として現れる）
func NewClient(cfg model.MemosConfig, opts ...Option) *Client {
	c := &Client{
		httpClient: http.DefaultClient,
		baseURL:    strings.TrimRight(cfg.URL, "/"),
		token:      cfg.Token,
		userAgent:  DefaultUserAgent,
		timeout:    DefaultTimeout,
		logger:     zerolog.Nop(),
	}

	WithTimeout(cfg.Timeout)(c)
	WithUserAgent(cfg.UserAgent)(c)

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Close はアイドル状態のコネクションを閉じる
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}

// createMemoRequest は POST /api/v1/memos のリクエストボディ
type createMemoRequest struct {
	Content    string `json:"content"`
	Visibility string `json:"visibility"`
}

// CreateMemo はメモを1件作成する
// visibilityは大文字化して送信する。値の妥当性はリモート側が判断する
func (c *Client) CreateMemo(ctx context.Context, content, visibility string) (Memo, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	// Markdown中の "<" などをエスケープせずに送る
	enc.SetEscapeHTML(false)
	if err := enc.Encode(createMemoRequest{
		Content:    content,
		Visibility: strings.ToUpper(visibility),
	}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRequestFailed, err)
	}

	body, err := c.do(ctx, http.MethodPost, c.baseURL+MemosPath, &buf)
	if err != nil {
		return nil, err
	}

	var memo Memo
	if err := decode(body, &memo); err != nil {
		return nil, err
	}
	if memo == nil {
		return nil, fmt.Errorf("%w: response body is null", ErrInvalidResponse)
	}
	return memo, nil
}

// ListMemos は最近のメモを最大limit件取得する
// レスポンスは配列そのもの、または {"memos": [...]} のどちらも受け付ける
func (c *Client) ListMemos(ctx context.Context, limit int) ([]Memo, error) {
	query := url.Values{}
	query.Set("limit", strconv.Itoa(limit))

	body, err := c.do(ctx, http.MethodGet, c.baseURL+MemosPath+"?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}

	var data any
	if err := decode(body, &data); err != nil {
		return nil, err
	}

	if obj, ok := data.(map[string]any); ok {
		data = obj["memos"]
	}

	switch items := data.(type) {
	case nil:
		return nil, nil
	case []any:
		memos := make([]Memo, 0, len(items))
		for i, item := range items {
			m, ok := item.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("%w: memo at index %d is not an object", ErrInvalidResponse, i)
			}
			memos = append(memos, Memo(m))
		}
		return memos, nil
	default:
		return nil, fmt.Errorf("%w: unexpected memos payload of type %T", ErrInvalidResponse, data)
	}
}

// do はリクエストを1回だけ実行し、HTTP 200のボディを返す
// コネクションは呼び出しごとに閉じる
func (c *Client) do(ctx context.Context, method, endpoint string, body io.Reader) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRequestFailed, err)
	}
	req.Close = true
	c.setHeaders(req)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug().Err(err).Str("method", method).Str("url", endpoint).Msg("memos request failed")
		return nil, fmt.Errorf("%w: %w", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %w", ErrRequestFailed, err)
	}

	c.logger.Debug().
		Str("method", method).
		Str("url", endpoint).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("memos request")

	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Body:       string(respBody),
		}
	}

	return respBody, nil
}

// setHeaders は全リクエスト共通の固定ヘッダーを設定
func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
}

// decode は数値を json.Number のまま保持してデコードする
func decode(body []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidResponse, err)
	}
	return nil
}
