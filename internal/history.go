package internal

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"
)

const DefaultGitBinary = "git"

var _ HistorySource = (*GitCLIHistory)(nil)

// GitCLIHistory fetches history by running the git binary inside root.
type GitCLIHistory struct {
	binary string
}

func NewGitCLIHistory(binary string) *GitCLIHistory {
	if binary == "" {
		binary = DefaultGitBinary
	}
	return &GitCLIHistory{binary: binary}
}

func (h *GitCLIHistory) FetchRecentHistory(ctx context.Context, root string, count int) (string, error) {
	cmd := exec.CommandContext(ctx, h.binary,
		"-c", "log.showSignature=false",
		"log",
		"-n", strconv.Itoa(count),
		"--date=short",
		"--format="+HistoryFormat,
	)
	cmd.Dir = root

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("git log: %w: %s", err, msg)
		}
		return "", fmt.Errorf("git log: %w", err)
	}

	return stdout.String(), nil
}

// HistoryFetcher turns a HistorySource into parsed records. Failures are
// reported on the logger and collapse into an empty result.
type HistoryFetcher struct {
	source HistorySource
	logger *slog.Logger
}

func NewHistoryFetcher(source HistorySource, logger *slog.Logger) *HistoryFetcher {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &HistoryFetcher{source: source, logger: logger}
}

func (f *HistoryFetcher) Recent(ctx context.Context, root string) []CommitRecord {
	if root == "" {
		f.logger.Error("fetch history", "err", ErrNoWorkspace)
		return []CommitRecord{}
	}

	f.logger.Debug("fetching history", "root", root, "limit", HistoryLimit)

	raw, err := f.source.FetchRecentHistory(ctx, root, HistoryLimit)
	if err != nil {
		f.logger.Error("fetch history", "root", root, "err", err)
		return []CommitRecord{}
	}

	records, malformed := ParseHistory(raw)
	for _, m := range malformed {
		f.logger.Warn("dropped history entry", "root", root, "err", m)
	}

	return records
}
