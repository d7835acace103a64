package internal

import (
	"context"
	"errors"
)

var (
	ErrNoWorkspace      = errors.New("no workspace opened")
	ErrMalformedEntry   = errors.New("malformed history entry")
	ErrNotGitRepository = errors.New("not a git repository (no .git found)")
	ErrHookExists       = errors.New("hook already exists")
	ErrNoSelection      = errors.New("no commit selected")
)

// HistoryLimit is the fixed size of the recent-history window.
const HistoryLimit = 20

// CommitRecord is one parsed entry of git history.
type CommitRecord struct {
	Identifier string `json:"identifier"`
	Author     string `json:"author"`
	Date       string `json:"date"`
	Message    string `json:"message"`
}

// HistorySource renders the most recent count commits of the repository at
// root in the history template understood by ParseHistory.
type HistorySource interface {
	FetchRecentHistory(ctx context.Context, root string, count int) (string, error)
}
