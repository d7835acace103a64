package internal

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/cache"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/storage/filesystem"
)

var _ HistorySource = (*GoGitHistory)(nil)

// GoGitHistory renders history from the object database directly, without a
// git binary. Its output is byte-compatible with GitCLIHistory for the fields
// the parser reads.
type GoGitHistory struct{}

func NewGoGitHistory() *GoGitHistory {
	return &GoGitHistory{}
}

func (h *GoGitHistory) FetchRecentHistory(ctx context.Context, root string, count int) (string, error) {
	repo, err := openRepository(root)
	if err != nil {
		return "", err
	}

	iter, err := repo.Log(&git.LogOptions{Order: git.LogOrderCommitterTime})
	if err != nil {
		return "", fmt.Errorf("get log: %w", err)
	}
	defer iter.Close()

	var buf strings.Builder
	n := 0

	err = iter.ForEach(func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if count > 0 && n >= count {
			return io.EOF
		}
		renderEntry(&buf, c)
		n++
		return nil
	})
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("walk log: %w", err)
	}

	return buf.String(), nil
}

// HeadMessage returns the message of the commit HEAD points to.
func HeadMessage(root string) (string, error) {
	repo, err := openRepository(root)
	if err != nil {
		return "", err
	}

	head, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("get HEAD: %w", err)
	}

	commit, err := repo.CommitObject(head.Hash())
	if err != nil {
		return "", fmt.Errorf("get HEAD commit: %w", err)
	}

	return strings.TrimSpace(commit.Message), nil
}

func openRepository(root string) (*git.Repository, error) {
	worktree, gitDir, err := locateGitDir(root)
	if err != nil {
		return nil, err
	}

	// linked worktrees keep their objects in the common dir
	if _, err := os.Stat(filepath.Join(gitDir, "commondir")); err == nil {
		repo, err := git.PlainOpenWithOptions(worktree, &git.PlainOpenOptions{
			DetectDotGit:          true,
			EnableDotGitCommonDir: true,
		})
		if err != nil {
			return nil, fmt.Errorf("open repository: %w", err)
		}
		return repo, nil
	}

	storage := filesystem.NewStorage(osfs.New(gitDir), cache.NewObjectLRUDefault())

	repo, err := git.Open(storage, osfs.New(worktree))
	if err != nil {
		return nil, fmt.Errorf("open repository: %w", err)
	}

	return repo, nil
}

func renderEntry(buf *strings.Builder, c *object.Commit) {
	buf.WriteString(recordSeparator)
	fmt.Fprintf(buf, "%s %s\n", labelCommit, c.Hash)
	fmt.Fprintf(buf, "%s %s <%s>\n", labelAuthor, c.Author.Name, c.Author.Email)
	fmt.Fprintf(buf, "%s %s\n", labelDate, c.Author.When.Format(time.DateOnly))
	fmt.Fprintf(buf, "%s %s\n", labelMessage, c.Message)
}
