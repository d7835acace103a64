package main

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/4thel00z/recommit/internal"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"
)

type fakeClipboard struct {
	text string
}

func (c *fakeClipboard) WriteText(text string) error {
	c.text = text
	return nil
}

func testApp(stdin string, interactive bool) (*app, *fakeClipboard) {
	cb := &fakeClipboard{}
	return &app{
		workspace:   internal.NewWorkspaceResolver(),
		clipboard:   cb,
		stdin:       strings.NewReader(stdin),
		interactive: func() bool { return interactive },
	}, cb
}

// initRepo creates a repository with the given messages, oldest first.
func initRepo(t *testing.T, messages ...string) string {
	t.Helper()
	dir := t.TempDir()

	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)

	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	for i, msg := range messages {
		_, err := wt.Commit(msg, &git.CommitOptions{
			Author:            &object.Signature{Name: "Test Author", Email: "test@example.com", When: base.Add(time.Duration(i) * time.Minute)},
			AllowEmptyCommits: true,
		})
		require.NoError(t, err)
	}
	return dir
}

// writeConfig uses the go-git backend so tests do not depend on a git binary.
func writeConfig(t *testing.T, extra string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("backend: gogit\n"+extra), 0644))
	return path
}

func run(t *testing.T, a *app, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCmd("test", a)

	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func readPending(t *testing.T, root string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(root, ".git", internal.PendingFilename))
	if os.IsNotExist(err) {
		return ""
	}
	require.NoError(t, err)
	return string(data)
}

func testLogger(sb *strings.Builder) *slog.Logger {
	return slog.New(slog.NewTextHandler(sb, nil))
}
