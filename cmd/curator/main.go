package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/samvad-hq/samvad-post-curator/internal/app"
	"github.com/samvad-hq/samvad-post-curator/internal/config"
	"github.com/samvad-hq/samvad-post-curator/internal/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	m := NewMain()
	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Config is loaded from the environment when nil.
	Config *config.Config

	// Workspace options, overridable in tests.
	WorkspaceOptions app.WorkspaceOptions

	// Location interprets scheduled times given without an offset.
	Location *time.Location

	Workspace *app.Workspace
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{Location: time.Local}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.Workspace != nil {
		err := m.Workspace.Close()
		m.Workspace = nil
		return err
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:      ctx,
		Stdout:   stdout,
		Stderr:   stderr,
		Location: m.Location,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("curator"),
		kong.Description("Scrape pages, curate the extraction and schedule social posts."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		fmt.Fprintln(stderr, "error: no command specified. Run 'curator --help' to see available commands")
		return fmt.Errorf("no command specified")
	}
	if cmd := args[0]; cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		fmt.Fprintf(stderr, "error: %s\n", err)
		return err
	}

	cfg := m.Config
	if cfg == nil {
		if cfg, err = config.Load(); err != nil {
			fmt.Fprintf(stderr, "error: %s\n", err)
			return err
		}
	}
	log, err := logger.InitTo(cfg, stderr)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	ws, err := app.OpenWorkspace(ctx, cfg, log, m.WorkspaceOptions)
	if err != nil {
		fmt.Fprintln(stderr, "Hint: stop the dispatcher or set BBOLT_PATH if the store is locked")
		fmt.Fprintf(stderr, "error: %s\n", err)
		return err
	}
	m.Workspace = ws
	defer m.Close()
	deps.Workspace = ws

	return kongCtx.Run(deps)
}
