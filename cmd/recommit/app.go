package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/4thel00z/recommit/internal"
	"github.com/spf13/cobra"
)

type app struct {
	workspace   *internal.WorkspaceResolver
	clipboard   internal.Clipboard
	stdin       io.Reader
	interactive func() bool
}

func newApp() *app {
	return &app{
		workspace:   internal.NewWorkspaceResolver(),
		stdin:       os.Stdin,
		interactive: func() bool { return internal.IsInteractive(os.Stdin) },
	}
}

// session is everything a command needs once flags are parsed.
type session struct {
	cfg      *internal.Config
	logger   *slog.Logger
	root     string
	registry *internal.Registry
	fetcher  *internal.HistoryFetcher
}

func (s *session) repos(root string) []internal.RepositoryContext {
	return s.registry.Repositories(root)
}

func (a *app) session(cmd *cobra.Command) *session {
	configPath, _ := cmd.Flags().GetString("config")
	rootHint, _ := cmd.Flags().GetString("root")
	verbose, _ := cmd.Flags().GetBool("verbose")

	if configPath == "" {
		configPath = internal.DefaultConfigPath()
	}

	cfg, cfgErr := internal.LoadConfig(configPath)
	if cfgErr != nil {
		cfg = internal.DefaultConfig()
	}

	level, _ := cfg.Level()
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	if cfgErr != nil {
		logger.Warn("using default config", "path", configPath, "err", cfgErr)
	}

	root, err := a.workspace.Resolve(rootHint)
	if err != nil {
		logger.Debug("resolve workspace", "err", err)
		root = ""
	}

	return &session{
		cfg:      cfg,
		logger:   logger,
		root:     root,
		registry: internal.NewRegistry(cfg.Repositories, logger),
		fetcher:  internal.NewHistoryFetcher(cfg.HistorySource(), logger),
	}
}

func (a *app) clipboardFor(cfg *internal.Config) internal.Clipboard {
	if !cfg.Clipboard.Enabled {
		return internal.NoClipboard{}
	}
	if a.clipboard != nil {
		return a.clipboard
	}
	return internal.SystemClipboard{}
}
