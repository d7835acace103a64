package internal

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// PendingFilename is the pending-message slot inside a repository's git dir.
const PendingFilename = "RECOMMIT_MSG"

// RepositoryContext is a repository that can hold a pending commit message.
type RepositoryContext interface {
	Root() string
	PendingMessage() (string, error)
	SetPendingMessage(message string) error
	ClearPendingMessage() error
}

var _ RepositoryContext = (*GitRepositoryContext)(nil)

type GitRepositoryContext struct {
	root   string
	gitDir string
}

func NewGitRepositoryContext(dir string) (*GitRepositoryContext, error) {
	root, gitDir, err := locateGitDir(dir)
	if err != nil {
		return nil, err
	}
	return &GitRepositoryContext{root: root, gitDir: gitDir}, nil
}

func (r *GitRepositoryContext) Root() string {
	return r.root
}

func (r *GitRepositoryContext) GitDir() string {
	return r.gitDir
}

func (r *GitRepositoryContext) PendingPath() string {
	return filepath.Join(r.gitDir, PendingFilename)
}

func (r *GitRepositoryContext) PendingMessage() (string, error) {
	data, err := os.ReadFile(r.PendingPath())
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read pending message: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

func (r *GitRepositoryContext) SetPendingMessage(message string) error {
	if err := os.WriteFile(r.PendingPath(), []byte(message+"\n"), 0644); err != nil {
		return fmt.Errorf("write pending message: %w", err)
	}
	return nil
}

func (r *GitRepositoryContext) ClearPendingMessage() error {
	err := os.Remove(r.PendingPath())
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("clear pending message: %w", err)
	}
	return nil
}

// FindGitDir walks up from dir looking for a .git directory or gitdir file.
func FindGitDir(dir string) (string, error) {
	_, gitDir, err := locateGitDir(dir)
	return gitDir, err
}

func locateGitDir(dir string) (root, gitDir string, err error) {
	dir, err = filepath.Abs(dir)
	if err != nil {
		return "", "", fmt.Errorf("resolve path: %w", err)
	}

	for {
		candidate := filepath.Join(dir, ".git")
		info, statErr := os.Stat(candidate)
		if statErr == nil {
			if info.IsDir() {
				return dir, candidate, nil
			}
			target, err := readGitFile(candidate)
			if err != nil {
				return "", "", err
			}
			return dir, target, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", "", ErrNotGitRepository
		}
		dir = parent
	}
}

// CommonGitDir returns the git dir shared by all worktrees of the repository
// enclosing dir. Hooks and config live there.
func CommonGitDir(dir string) (string, error) {
	gitDir, err := FindGitDir(dir)
	if err != nil {
		return "", err
	}
	return commonDirOf(gitDir)
}

func commonDirOf(gitDir string) (string, error) {
	data, err := os.ReadFile(filepath.Join(gitDir, "commondir"))
	if os.IsNotExist(err) {
		return gitDir, nil
	}
	if err != nil {
		return "", fmt.Errorf("read commondir: %w", err)
	}

	common := strings.TrimSpace(string(data))
	if !filepath.IsAbs(common) {
		common = filepath.Join(gitDir, common)
	}
	return filepath.Clean(common), nil
}

// readGitFile resolves the "gitdir: <path>" pointer written by worktrees and
// submodules.
func readGitFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read gitdir file: %w", err)
	}

	target, ok := strings.CutPrefix(strings.TrimSpace(string(data)), "gitdir:")
	if !ok {
		return "", fmt.Errorf("invalid gitdir file: %s", path)
	}

	target = strings.TrimSpace(target)
	if !filepath.IsAbs(target) {
		target = filepath.Join(filepath.Dir(path), target)
	}
	return filepath.Clean(target), nil
}

// Registry knows which repositories are open alongside the workspace.
type Registry struct {
	extra  []string
	logger *slog.Logger
}

func NewRegistry(extra []string, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Registry{extra: extra, logger: logger}
}

// Repositories returns the workspace repository followed by the configured
// ones, deduplicated by root. Paths that are not repositories are skipped.
func (r *Registry) Repositories(workspaceRoot string) []RepositoryContext {
	var repos []RepositoryContext
	seen := make(map[string]bool)

	candidates := make([]string, 0, len(r.extra)+1)
	if workspaceRoot != "" {
		candidates = append(candidates, workspaceRoot)
	}
	candidates = append(candidates, r.extra...)

	for _, path := range candidates {
		repo, err := NewGitRepositoryContext(expandHome(path))
		if err != nil {
			r.logger.Warn("skipping repository", "path", path, "err", err)
			continue
		}
		if seen[repo.Root()] {
			continue
		}
		seen[repo.Root()] = true
		repos = append(repos, repo)
	}

	return repos
}

func expandHome(path string) string {
	rest, ok := strings.CutPrefix(path, "~/")
	if !ok {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, rest)
}
