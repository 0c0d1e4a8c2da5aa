package commands

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
)

// Global holds state shared across subcommands.
type Global struct {
	Logger *slog.Logger
}

// CLI defines the command tree and global flags.
type CLI struct {
	Site    string           `short:"s" default:"." help:"Site root directory (holds site.yaml and content)."`
	Verbose bool             `short:"v" help:"Enable verbose logging."`
	Version kong.VersionFlag `name:"version" help:"Show version and exit."`

	Build   BuildCmd   `cmd:"" help:"Generate the site once."`
	Init    InitCmd    `cmd:"" help:"Initialize a new site."`
	Serve   ServeCmd   `cmd:"" help:"Serve the generated site and rebuild on changes."`
	Scan    ScanCmd    `cmd:"" help:"List discovered content without generating."`
	History HistoryCmd `cmd:"" help:"Show past generation runs."`
}

// AfterApply runs after flag parsing; sets up logging once.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}
