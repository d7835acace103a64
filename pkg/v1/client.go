package v1

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/4thel00z/recommit/internal"
)

// ErrCommitNotFound is returned by Apply when the identifier is not among the
// recent commits.
var ErrCommitNotFound = errors.New("commit not in recent history")

// Client provides programmatic access to recent commits and pending messages.
type Client struct {
	root     string
	fetcher  *internal.HistoryFetcher
	registry *internal.Registry
	pending  *internal.PendingUseCase
	logger   *slog.Logger
}

// New creates a new Client with the given options.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		backend: internal.BackendCLI,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	logger := cfg.logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	settings := internal.DefaultConfig()
	settings.Backend = cfg.backend
	if cfg.gitBinary != "" {
		settings.GitBinary = cfg.gitBinary
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	root, err := internal.NewWorkspaceResolver().Resolve(cfg.root)
	if err != nil {
		return nil, err
	}

	registry := internal.NewRegistry(cfg.repositories, logger)

	c := &Client{
		root:     root,
		fetcher:  internal.NewHistoryFetcher(settings.HistorySource(), logger),
		registry: registry,
		logger:   logger,
	}
	c.pending = internal.NewPendingUseCase(registry.Repositories)

	return c, nil
}

// Root returns the workspace root the client acts on.
func (c *Client) Root() string {
	return c.root
}

// Recent returns up to 20 recent commits, most recent first. A failing git
// invocation yields an empty slice and is reported on the logger.
func (c *Client) Recent(ctx context.Context) []Commit {
	records := c.fetcher.Recent(ctx, c.root)

	commits := make([]Commit, 0, len(records))
	for _, r := range records {
		commits = append(commits, Commit(r))
	}
	return commits
}

// Apply writes the message of the commit with the given identifier (or an
// unambiguous prefix of it) into the pending slot of contextRoot, or of every
// known repository when contextRoot is empty.
func (c *Client) Apply(ctx context.Context, identifier, contextRoot string) (*Delivery, error) {
	record, ok := findCommit(c.fetcher.Recent(ctx, c.root), identifier)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCommitNotFound, identifier)
	}

	if contextRoot != "" {
		abs, err := filepath.Abs(contextRoot)
		if err != nil {
			return nil, fmt.Errorf("resolve context: %w", err)
		}
		contextRoot = abs
	}

	d := internal.Deliver(
		internal.TargetFor(contextRoot),
		c.registry.Repositories(c.root),
		strings.TrimSpace(record.Message),
		c.logger,
	)

	written := d.Written
	if written == nil {
		written = []string{}
	}
	return &Delivery{Written: written, Matched: d.Matched}, nil
}

// Pending returns the non-empty pending messages of the known repositories.
func (c *Client) Pending(ctx context.Context) ([]Pending, error) {
	out, err := c.pending.Show(ctx, internal.PendingInput{Root: c.root})
	if err != nil {
		return nil, fmt.Errorf("pending: %w", err)
	}

	pending := make([]Pending, 0, len(out.Entries))
	for _, e := range out.Entries {
		pending = append(pending, Pending{Root: e.Root, Message: e.Message})
	}
	return pending, nil
}

// Close releases any resources held by the client.
func (c *Client) Close() error {
	return nil
}

func findCommit(records []internal.CommitRecord, identifier string) (internal.CommitRecord, bool) {
	if identifier == "" {
		return internal.CommitRecord{}, false
	}

	var found internal.CommitRecord
	matches := 0
	for _, r := range records {
		if r.Identifier == identifier {
			return r, true
		}
		if strings.HasPrefix(r.Identifier, identifier) {
			found = r
			matches++
		}
	}
	return found, matches == 1
}
