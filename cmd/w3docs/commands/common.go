package commands

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/lmittmann/w3docs/internal/config"
	"github.com/lmittmann/w3docs/internal/site"
)

// LogLevelEnv overrides the log level when set (debug, info, warn, error).
const LogLevelEnv = "W3DOCS_LOG_LEVEL"

// Global is shared state passed to every subcommand.
type Global struct {
	Logger *slog.Logger
	// Out receives command output meant for the user, as opposed to logs.
	Out io.Writer
}

func (g *Global) out() io.Writer {
	if g == nil || g.Out == nil {
		return os.Stdout
	}
	return g.Out
}

func (g *Global) logger() *slog.Logger {
	if g == nil || g.Logger == nil {
		return slog.Default()
	}
	return g.Logger
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"w3docs.yaml" type:"path"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build   BuildCmd   `cmd:"" help:"Build the site into the output directory"`
	Check   CheckCmd   `cmd:"" help:"Validate navigation and references without writing anything"`
	Resolve ResolveCmd `cmd:"" help:"Print the documentation URL of symbol references"`
	Menu    MenuCmd    `cmd:"" help:"Print the composed menu of a section"`
	Preview PreviewCmd `cmd:"" help:"Serve the site locally and rebuild on changes"`
	Init    InitCmd    `cmd:"" help:"Write a starter configuration file"`
	Migrate MigrateCmd `cmd:"" help:"Convert DocLink and RefLink components to ref: links"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: parseLogLevel(c.Verbose)})))
	return nil
}

// parseLogLevel honors LogLevelEnv first, then the verbose flag.
func parseLogLevel(verbose bool) slog.Level {
	if v := strings.TrimSpace(os.Getenv(LogLevelEnv)); v != "" {
		var level slog.Level
		if err := level.UnmarshalText([]byte(v)); err == nil {
			return level
		}
	}
	if verbose {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

// signalContext is canceled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

// loadBuilder loads the configuration at path and returns a builder for it.
func loadBuilder(path string, logger *slog.Logger, opts ...site.Option) (*site.Builder, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	resolver, err := cfg.NewResolver()
	if err != nil {
		return nil, err
	}
	opts = append([]site.Option{site.WithLogger(logger)}, opts...)
	return site.NewBuilder(cfg, resolver, opts...), nil
}
