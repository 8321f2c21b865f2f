package commands

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/lmstudios/lmsite/internal/cli/config"
	"github.com/lmstudios/lmsite/internal/cli/output"
	"github.com/lmstudios/lmsite/internal/content"
	"github.com/lmstudios/lmsite/internal/state"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Content  *content.Content
	Store    state.Store
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext with the quote store opened.
// Returns the context and a cleanup function that must be called (typically via defer).
func NewCommandContext(cmd *cobra.Command) (*CommandContext, func(), error) {
	cmdCtx, err := NewCommandContextWithoutStore(cmd)
	if err != nil {
		return nil, nil, err
	}

	store, err := openStore(cmd, cmdCtx.Cfg)
	if err != nil {
		return nil, nil, err
	}
	cmdCtx.Store = store

	cleanup := func() {
		_ = store.Close()
	}
	return cmdCtx, cleanup, nil
}

// NewCommandContextWithoutStore creates a CommandContext without a store.
// Useful for commands that only read site content.
func NewCommandContextWithoutStore(cmd *cobra.Command) (*CommandContext, error) {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())

	c, err := content.Resolve(cfg.Content.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to load content: %w", err)
	}

	mode := output.Mode(cfg.OutputFormat)
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Content:  c,
		Renderer: r,
	}, nil
}

// getConfig returns the current configuration, or defaults when none was loaded.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}
	return config.Default()
}

func openStore(cmd *cobra.Command, cfg *config.Config) (state.Store, error) {
	driver := cfg.State.SQLDriver()
	if driver == state.DriverSQLite && cfg.State.DSN != ":memory:" {
		// Ensure state directory exists
		if dir := filepath.Dir(cfg.State.DSN); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return nil, fmt.Errorf("failed to create state directory: %w", err)
			}
		}
	}

	store, err := state.Open(cmd.Context(), driver, cfg.State.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open quote store: %w", err)
	}
	return store, nil
}
