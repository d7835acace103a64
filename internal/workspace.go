package internal

import (
	"os"
	"path/filepath"
)

const EnvRoot = "RECOMMIT_ROOT"

// WorkspaceResolver decides which repository root recommit acts on.
type WorkspaceResolver struct {
	getwd  func() (string, error)
	getenv func(string) string
}

func NewWorkspaceResolver() *WorkspaceResolver {
	return &WorkspaceResolver{getwd: os.Getwd, getenv: os.Getenv}
}

// Resolve prefers an explicit root, then RECOMMIT_ROOT, then the repository
// enclosing the working directory.
func (r *WorkspaceResolver) Resolve(explicit string) (string, error) {
	if explicit != "" {
		return filepath.Abs(explicit)
	}
	if env := r.getenv(EnvRoot); env != "" {
		return filepath.Abs(env)
	}

	cwd, err := r.getwd()
	if err != nil {
		return "", ErrNoWorkspace
	}

	root, _, err := locateGitDir(cwd)
	if err != nil {
		return "", ErrNoWorkspace
	}
	return root, nil
}

