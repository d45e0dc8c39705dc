package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/brbranch/memos_mcp/internal/bootstrap"
	"github.com/brbranch/memos_mcp/internal/jsonrpc"
	"github.com/brbranch/memos_mcp/internal/model"
	"github.com/brbranch/memos_mcp/internal/transport/http"
	"github.com/brbranch/memos_mcp/internal/transport/stdio"
)

// ビルド時変数（-ldflags で変更可能）
var version = "dev"

// errCommandFailed はワンショットコマンドの結果が失敗だったことを表す
// 結果の文字列は出力済みなので、終了コードだけを変える
var errCommandFailed = errors.New("command failed")

// Options はserveコマンドのオプション
// 空文字・0の項目は設定ファイルの値を使う
type Options struct {
	Transport  string
	Host       string
	Port       int
	ConfigPath string
}

func main() {
	if version != "dev" {
		jsonrpc.ServerVersion = version
	}

	var err error

	// 引数なしの場合はserveをデフォルト実行
	if len(os.Args) < 2 {
		err = run([]string{})
	} else {
		switch os.Args[1] {
		case "serve":
			err = run(os.Args[1:])
		case "recent":
			err = runRecentCmd(os.Args[2:])
		case "create":
			err = runCreateCmd(os.Args[2:])
		case "version", "-v", "--version":
			printVersion()
			return
		case "help", "-h", "--help":
			printUsage()
			return
		default:
			fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", os.Args[1])
			printUsage()
			os.Exit(1)
		}
	}

	if errors.Is(err, errCommandFailed) {
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// printUsage prints the usage information
func printUsage() {
	fmt.Println(`memos-mcp - MCP server for Memos

Usage:
  memos-mcp <command> [options]

Commands:
  serve     Start the MCP server (stdio or HTTP)
  recent    List recent memos (oneshot command)
  create    Create a memo (oneshot command)
  version   Print version information
  help      Print this help message

Serve Options:
  -t, --transport string   Transport type: stdio, http (default: from config, stdio)
  --host string            HTTP host (default: 127.0.0.1)
  -p, --port int           HTTP port (default: 8765)
  -c, --config string      Config file path (default: ~/.memos-mcp/config.yaml)

Recent Options:
  -n, --limit int          Number of memos (default: 5)
  -c, --config string      Config file path

Create Options:
  -v, --visibility string  Visibility (default: PRIVATE)
  -c, --config string      Config file path
  --stdin                  Read content from stdin

Environment:
  MEMOS_URL        Base URL of the Memos instance
  MEMOS_TOKEN      Access token
  MEMOS_TIMEOUT    Per-call timeout (seconds or duration, default: 10s)
  MEMOS_LOG_LEVEL  Log level (default: info)

Examples:
  memos-mcp serve
  memos-mcp serve -t http -p 8080
  memos-mcp recent -n 10
  memos-mcp create -v public "hello from the terminal"
  echo "note" | memos-mcp create --stdin`)
}

// printVersion prints the version information
func printVersion() {
	fmt.Printf("memos-mcp version %s\n", version)
}

// run は実際の処理を行う（テスト容易性のため分離）
func run(args []string) error {
	opts, err := parseFlags(args)
	if err != nil {
		return err
	}

	ctx, cancel := setupSignalHandler()
	defer cancel()

	return runServe(ctx, opts)
}

// parseFlags は引数をパースしてOptionsを返す
func parseFlags(args []string) (*Options, error) {
	fs := flag.NewFlagSet("memos-mcp", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	opts := &Options{}
	fs.StringVar(&opts.Transport, "transport", "", "Transport type: stdio, http")
	fs.StringVar(&opts.Transport, "t", "", "Transport type (shorthand)")
	fs.StringVar(&opts.Host, "host", "", "HTTP host")
	fs.IntVar(&opts.Port, "port", 0, "HTTP port")
	fs.IntVar(&opts.Port, "p", 0, "HTTP port (shorthand)")
	fs.StringVar(&opts.ConfigPath, "config", "", "Config file path")
	fs.StringVar(&opts.ConfigPath, "c", "", "Config file path (shorthand)")

	// 引数なしまたは"serve"で始まる場合のみ許可
	var flagArgs []string
	if len(args) == 0 {
		flagArgs = []string{}
	} else if args[0] == "serve" {
		flagArgs = args[1:]
	} else {
		return nil, fmt.Errorf("usage: memos-mcp serve [options]")
	}

	if err := fs.Parse(flagArgs); err != nil {
		return nil, err
	}

	// バリデーション（未指定は設定ファイルの値を使うので通す）
	if opts.Transport != "" && opts.Transport != model.TransportStdio && opts.Transport != model.TransportHTTP {
		return nil, fmt.Errorf("invalid transport: %s (must be stdio or http)", opts.Transport)
	}
	if opts.Port < 0 || opts.Port > 65535 {
		return nil, fmt.Errorf("invalid port: %d (must be 1-65535)", opts.Port)
	}

	return opts, nil
}

// applyOptions はコマンドラインで指定された値で設定を上書きしたコピーを返す
func applyOptions(cfg model.ServerConfig, opts *Options) model.ServerConfig {
	if opts.Transport != "" {
		cfg.Transport = opts.Transport
	}
	if opts.Host != "" {
		cfg.Host = opts.Host
	}
	if opts.Port != 0 {
		cfg.Port = opts.Port
	}
	return cfg
}

// setupSignalHandler はSIGINT/SIGTERMを受けてcontextをキャンセルする
func setupSignalHandler() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case <-sigCh:
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()

	return ctx, cancel
}

// runServe はserveコマンドを実行
func runServe(ctx context.Context, opts *Options) error {
	services, cleanup, err := bootstrap.Initialize(ctx, opts.ConfigPath)
	if err != nil {
		return err
	}
	defer cleanup()

	logger := services.Logger
	serverCfg := applyOptions(services.Config.Server, opts)

	handler := jsonrpc.New(services.MemoService, jsonrpc.WithLogger(logger))

	logger.Info().
		Str("transport", serverCfg.Transport).
		Str("version", jsonrpc.ServerVersion).
		Msg("starting memos-mcp")

	switch serverCfg.Transport {
	case model.TransportStdio:
		server := stdio.New(handler,
			stdio.WithMaxConcurrency(serverCfg.MaxConcurrency),
			stdio.WithLogger(logger),
		)
		err = server.Run(ctx)
	case model.TransportHTTP:
		server := http.New(handler, http.Config{
			Addr:        fmt.Sprintf("%s:%d", serverCfg.Host, serverCfg.Port),
			CORSOrigins: serverCfg.CORSOrigins,
		}, http.WithLogger(logger))
		err = server.Run(ctx)
	default:
		return fmt.Errorf("unknown transport: %s", serverCfg.Transport)
	}

	// シグナルによる終了はエラーとしない
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
