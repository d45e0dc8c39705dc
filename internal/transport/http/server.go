// Package http implements HTTP transport for memos-mcp.
package http

import (
	"context"
	"errors"
	"io"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// MaxBodySize はリクエストボディの上限（1MB、stdioの行上限と揃える）
const MaxBodySize = 1024 * 1024

// DefaultAddr はAddr未設定時のlisten address
const DefaultAddr = "127.0.0.1:8765"

// shutdownTimeout はGraceful shutdownの待ち時間
const shutdownTimeout = 5 * time.Second

// Handler はJSON-RPCリクエストを処理する
// 通知の場合はnilを返す
type Handler interface {
	Handle(ctx context.Context, requestBytes []byte) []byte
}

// Config はHTTPサーバー設定
type Config struct {
	Addr        string   // listen address (例: "127.0.0.1:8765")
	CORSOrigins []string // 許可するオリジンリスト、空ならCORS無効
}

// Server はHTTP JSON-RPCサーバー
type Server struct {
	handler Handler
	config  Config
	logger  zerolog.Logger
	srv     *http.Server
}

// Option はサーバーオプション
type Option func(*Server)

// WithLogger はloggerを設定
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// New は新しいServerを生成
func New(handler Handler, config Config, opts ...Option) *Server {
	s := &Server{
		handler: handler,
		config:  config,
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.config.Addr == "" {
		s.config.Addr = DefaultAddr
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/rpc", s.handleRPC)

	s.srv = &http.Server{
		Addr:              s.config.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s
}

// Run はサーバーを起動し、contextがキャンセルされるまで実行
func (s *Server) Run(ctx context.Context) error {
	// contextキャンセル時にShutdownを呼ぶ
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Warn().Err(err).Msg("http shutdown")
		}
	}()

	s.logger.Info().Str("addr", s.config.Addr).Msg("http transport listening")

	err := s.srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		// Graceful shutdownはエラーではない
		return nil
	}
	return err
}

// handleRPC はJSON-RPCリクエストを処理
func (s *Server) handleRPC(w http.ResponseWriter, r *http.Request) {
	// CORS処理
	s.handleCORS(w, r)

	// Preflightリクエスト
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	// POSTのみ許可
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// Content-Type確認
	contentType := r.Header.Get("Content-Type")
	if !strings.Contains(contentType, "application/json") {
		http.Error(w, "Unsupported Media Type", http.StatusUnsupportedMediaType)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodySize))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			http.Error(w, "Request Entity Too Large", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	respBytes := s.handler.Handle(r.Context(), body)

	// 通知は202で本文なし
	if respBytes == nil {
		w.WriteHeader(http.StatusAccepted)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(respBytes); err != nil {
		s.logger.Debug().Err(err).Msg("failed to write http response")
	}
}

// handleCORS はCORSヘッダーを設定
func (s *Server) handleCORS(w http.ResponseWriter, r *http.Request) {
	// CORS無効ならスキップ
	if len(s.config.CORSOrigins) == 0 {
		return
	}

	origin := r.Header.Get("Origin")
	if origin == "" || !slices.Contains(s.config.CORSOrigins, origin) {
		return
	}

	w.Header().Set("Access-Control-Allow-Origin", origin)
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.Header().Set("Vary", "Origin")
}
