package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/brbranch/memos_mcp/internal/bootstrap"
	"github.com/brbranch/memos_mcp/internal/service"
)

// RecentOptions holds parsed recent command options
type RecentOptions struct {
	Limit      int
	ConfigPath string
}

// parseRecentFlags parses command line arguments for recent command
func parseRecentFlags(args []string) (*RecentOptions, error) {
	fs := flag.NewFlagSet("recent", flag.ContinueOnError)
	fs.SetOutput(io.Discard) // suppress default error output

	opts := &RecentOptions{}

	fs.IntVar(&opts.Limit, "limit", service.DefaultRecentLimit, "Number of memos")
	fs.StringVar(&opts.ConfigPath, "config", "", "Config file path")

	fs.IntVar(&opts.Limit, "n", service.DefaultRecentLimit, "Number of memos")
	fs.StringVar(&opts.ConfigPath, "c", "", "Config file path")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	return opts, nil
}

// runRecentCmd is the entry point for recent command
func runRecentCmd(args []string) error {
	opts, err := parseRecentFlags(args)
	if err != nil {
		return err
	}

	ctx := context.Background()
	services, cleanup, err := bootstrap.Initialize(ctx, opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	defer cleanup()

	ctx = services.Logger.WithContext(ctx)
	return executeRecent(ctx, services.MemoService, opts.Limit, os.Stdout)
}

// executeRecent prints the listing text and reports a failed result as errCommandFailed
func executeRecent(ctx context.Context, memoService service.MemoService, limit int, w io.Writer) error {
	result := memoService.RecentMemos(ctx, limit)
	fmt.Fprintln(w, result.String())
	if result.IsErr() {
		return errCommandFailed
	}
	return nil
}
