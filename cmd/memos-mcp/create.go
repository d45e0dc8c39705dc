package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/brbranch/memos_mcp/internal/bootstrap"
	"github.com/brbranch/memos_mcp/internal/service"
)

// CreateOptions holds parsed create command options
type CreateOptions struct {
	Visibility string
	ConfigPath string
	UseStdin   bool
	Content    string
}

// parseCreateFlags parses command line arguments for create command
func parseCreateFlags(args []string) (*CreateOptions, error) {
	fs := flag.NewFlagSet("create", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	opts := &CreateOptions{}

	fs.StringVar(&opts.Visibility, "visibility", service.DefaultVisibility, "Visibility")
	fs.StringVar(&opts.ConfigPath, "config", "", "Config file path")
	fs.BoolVar(&opts.UseStdin, "stdin", false, "Read content from stdin")

	fs.StringVar(&opts.Visibility, "v", service.DefaultVisibility, "Visibility")
	fs.StringVar(&opts.ConfigPath, "c", "", "Config file path")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	opts.Content = strings.Join(fs.Args(), " ")

	if opts.UseStdin && opts.Content != "" {
		return nil, fmt.Errorf("content must be given either as arguments or with --stdin, not both")
	}
	if !opts.UseStdin && opts.Content == "" {
		return nil, fmt.Errorf("content is required (or use --stdin)")
	}

	return opts, nil
}

// runCreateCmd is the entry point for create command
func runCreateCmd(args []string) error {
	opts, err := parseCreateFlags(args)
	if err != nil {
		return err
	}

	if opts.UseStdin {
		content, err := readContent(os.Stdin)
		if err != nil {
			return fmt.Errorf("failed to read content from stdin: %w", err)
		}
		opts.Content = content
	}

	ctx := context.Background()
	services, cleanup, err := bootstrap.Initialize(ctx, opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	defer cleanup()

	ctx = services.Logger.WithContext(ctx)
	return executeCreate(ctx, services.MemoService, opts.Content, opts.Visibility, os.Stdout)
}

// executeCreate prints the creation text and reports a failed result as errCommandFailed
func executeCreate(ctx context.Context, memoService service.MemoService, content, visibility string, w io.Writer) error {
	result := memoService.CreateMemo(ctx, content, visibility)
	fmt.Fprintln(w, result.String())
	if result.IsErr() {
		return errCommandFailed
	}
	return nil
}

// readContent reads the whole memo body; only the final newline is dropped
// so that Markdown line breaks inside the memo survive
func readContent(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	content := strings.TrimSuffix(string(data), "\n")
	content = strings.TrimSuffix(content, "\r")
	if strings.TrimSpace(content) == "" {
		return "", fmt.Errorf("no input received")
	}
	return content, nil
}
