package internal

import (
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"
)

// initFixtureRepo creates a repository whose commits carry messages in the
// given order, oldest first, one minute apart.
func initFixtureRepo(t *testing.T, messages ...string) string {
	t.Helper()
	dir := t.TempDir()

	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	wt, err := repo.Worktree()
	require.NoError(t, err)

	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	for i, msg := range messages {
		_, err := wt.Commit(msg, &git.CommitOptions{
			Author: &object.Signature{
				Name:  "Test Author",
				Email: "test@example.com",
				When:  base.Add(time.Duration(i) * time.Minute),
			},
			AllowEmptyCommits: true,
		})
		require.NoError(t, err)
	}

	return dir
}

// entry renders one record the way git log does with HistoryFormat.
func entry(id, author, date, message string) string {
	return recordSeparator +
		labelCommit + " " + id + "\n" +
		labelAuthor + " " + author + "\n" +
		labelDate + " " + date + "\n" +
		labelMessage + " " + message + "\n"
}

func bufferLogger(sb *strings.Builder) *slog.Logger {
	return slog.New(slog.NewTextHandler(sb, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

type fakeSource struct {
	raw   string
	err   error
	calls int
	root  string
	count int
}

func (f *fakeSource) FetchRecentHistory(_ context.Context, root string, count int) (string, error) {
	f.calls++
	f.root = root
	f.count = count
	return f.raw, f.err
}

type fakeRepo struct {
	root    string
	pending string
	err     error
	writes  int
}

func (r *fakeRepo) Root() string { return r.root }

func (r *fakeRepo) PendingMessage() (string, error) { return r.pending, nil }

func (r *fakeRepo) SetPendingMessage(message string) error {
	if r.err != nil {
		return r.err
	}
	r.writes++
	r.pending = message
	return nil
}

func (r *fakeRepo) ClearPendingMessage() error {
	r.pending = ""
	return nil
}

func reposOf(repos ...*fakeRepo) func(string) []RepositoryContext {
	return func(string) []RepositoryContext {
		out := make([]RepositoryContext, len(repos))
		for i, r := range repos {
			out[i] = r
		}
		return out
	}
}
