// Package bootstrap provides common initialization logic for memos-mcp.
package bootstrap

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/brbranch/memos_mcp/internal/config"
	"github.com/brbranch/memos_mcp/internal/logging"
	"github.com/brbranch/memos_mcp/internal/memos"
	"github.com/brbranch/memos_mcp/internal/model"
	"github.com/brbranch/memos_mcp/internal/service"
)

// Services は初期化されたサービス群を保持
type Services struct {
	MemoService service.MemoService
	Config      *model.Config
	Logger      zerolog.Logger
}

// Option はInitializeのオプション
type Option func(*options)

type options struct {
	logWriter io.Writer
}

// WithLogWriter はログの出力先を設定（デフォルトはstderr）
func WithLogWriter(w io.Writer) Option {
	return func(o *options) {
		o.logWriter = w
	}
}

// Initialize は設定を読み込み、必要なサービスを初期化する
// 設定はここで一度だけ読み込み、以降は変更しない
func Initialize(ctx context.Context, configPath string, opts ...Option) (*Services, func(), error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	// 1. 設定読み込み
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	// 2. Logger初期化
	logger := logging.New(cfg.Log, o.logWriter)
	logger.Debug().
		Str("config_path", cfg.Paths.ConfigPath).
		Str("memos_url", cfg.Memos.URL).
		Bool("token_set", cfg.Memos.Token != "").
		Dur("timeout", cfg.Memos.Timeout).
		Msg("config loaded")
	if cfg.Memos.URL == "" {
		logger.Warn().Msg("MEMOS_URL is not set; every call will fail")
	}

	// 3. Memosクライアント初期化
	client := memos.NewClient(cfg.Memos, memos.WithLogger(logger))

	// 4. Service初期化
	memoService := service.NewMemoService(client)

	cleanup := func() {
		client.Close()
	}

	return &Services{
		MemoService: memoService,
		Config:      cfg,
		Logger:      logger,
	}, cleanup, nil
}
