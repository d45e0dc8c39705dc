// Package stdio implements stdio transport for memos-mcp.
package stdio

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// MaxBufferSize はScannerの最大バッファサイズ（1MB）
const MaxBufferSize = 1024 * 1024

// DefaultMaxConcurrency は同時に処理するリクエスト数のデフォルト
const DefaultMaxConcurrency = 8

// Handler はJSON-RPCリクエストを処理するインターフェース
// 通知の場合はnilを返す
type Handler interface {
	Handle(ctx context.Context, requestBytes []byte) []byte
}

// Server はstdio JSON-RPCサーバー
type Server struct {
	handler        Handler
	reader         io.Reader
	writer         io.Writer
	maxConcurrency int
	logger         zerolog.Logger

	// writeMu はレスポンス1行の書き込みを排他する
	writeMu sync.Mutex
}

// Option はサーバーオプション
type Option func(*Server)

// WithReader はreaderを設定（テスト用）
func WithReader(r io.Reader) Option {
	return func(s *Server) {
		s.reader = r
	}
}

// WithWriter はwriterを設定（テスト用）
func WithWriter(w io.Writer) Option {
	return func(s *Server) {
		s.writer = w
	}
}

// WithMaxConcurrency は同時に処理するリクエスト数を設定
// 1なら受信順に1件ずつ処理する
func WithMaxConcurrency(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxConcurrency = n
		}
	}
}

// WithLogger はloggerを設定
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// New は新しいServerを生成
func New(handler Handler, opts ...Option) *Server {
	s := &Server{
		handler:        handler,
		reader:         os.Stdin,
		writer:         os.Stdout,
		maxConcurrency: DefaultMaxConcurrency,
		logger:         zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run はサーバーを起動し、EOFまたはcontextがキャンセルされるまで実行
// 処理中のリクエストは全て完了してから戻る
func (s *Server) Run(ctx context.Context) error {
	scanner := bufio.NewScanner(s.reader)
	// バッファサイズを1MBに拡張
	buf := make([]byte, MaxBufferSize)
	scanner.Buffer(buf, MaxBufferSize)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxConcurrency)

	readErr := s.readLoop(gctx, scanner, g)
	writeErr := g.Wait()

	if err := ctx.Err(); err != nil {
		return err
	}
	if writeErr != nil {
		return writeErr
	}
	return readErr
}

// readLoop は1行ずつ読み取り、リクエストごとにgoroutineで処理する
// 同時実行数の上限に達している間は読み取りを止める
func (s *Server) readLoop(ctx context.Context, scanner *bufio.Scanner, g *errgroup.Group) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		if !scanner.Scan() {
			// EOF: nil、それ以外は読み取りエラー
			return scanner.Err()
		}

		line := bytes.TrimSpace(scanner.Bytes())
		// 空行はスキップ
		if len(line) == 0 {
			continue
		}

		// Scannerのバッファは再利用されるのでコピーする
		req := append([]byte(nil), line...)
		g.Go(func() error {
			return s.handle(ctx, req)
		})
	}
}

func (s *Server) handle(ctx context.Context, req []byte) error {
	resp := s.handler.Handle(ctx, req)
	if resp == nil {
		return nil
	}
	if err := s.writeLine(resp); err != nil {
		s.logger.Error().Err(err).Msg("failed to write response")
		return err
	}
	return nil
}

// writeLine はレスポンスを1行（改行付き）でまとめて書き込む
func (s *Server) writeLine(resp []byte) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	_, err := s.writer.Write(append(resp, '\n'))
	return err
}
