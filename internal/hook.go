package internal

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

const (
	HookType      = "prepare-commit-msg"
	HookMarker    = "# recommit: managed prepare-commit-msg hook"
	HookBackupExt = ".recommit-backup"
)

// HookScript returns the shell shim content for a given hook type.
func HookScript(hookType string) string {
	return fmt.Sprintf("#!/bin/sh\n%s\nexec recommit hook run %s \"$@\"\n", HookMarker, hookType)
}

// IsManagedHook checks if the given script content was written by recommit.
func IsManagedHook(content string) bool {
	return strings.Contains(content, HookMarker)
}

// hookPath expects the common git dir: linked worktrees share its hooks.
func hookPath(gitDir string) string {
	return filepath.Join(gitDir, "hooks", HookType)
}

type InstallHookInput struct {
	Root  string
	Force bool
}

type InstallHookUseCase struct{}

func NewInstallHookUseCase() *InstallHookUseCase {
	return &InstallHookUseCase{}
}

func (uc *InstallHookUseCase) Execute(_ context.Context, input InstallHookInput) (string, error) {
	gitDir, err := CommonGitDir(input.Root)
	if err != nil {
		return "", err
	}

	path := hookPath(gitDir)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("create hooks directory: %w", err)
	}

	existing, err := os.ReadFile(path)
	switch {
	case err == nil && IsManagedHook(string(existing)):
		// reinstall over our own shim
	case err == nil && !input.Force:
		return "", fmt.Errorf("%w: %s (use --force to back it up and replace it)", ErrHookExists, path)
	case err == nil:
		if err := os.WriteFile(path+HookBackupExt, existing, 0755); err != nil {
			return "", fmt.Errorf("back up hook: %w", err)
		}
	case !os.IsNotExist(err):
		return "", fmt.Errorf("read hook: %w", err)
	}

	if err := os.WriteFile(path, []byte(HookScript(HookType)), 0755); err != nil {
		return "", fmt.Errorf("write hook: %w", err)
	}

	return path, nil
}

type UninstallHookInput struct {
	Root string
}

type UninstallHookUseCase struct{}

func NewUninstallHookUseCase() *UninstallHookUseCase {
	return &UninstallHookUseCase{}
}

// Execute removes the managed hook and restores a backed-up original. It
// reports whether a managed hook was found.
func (uc *UninstallHookUseCase) Execute(_ context.Context, input UninstallHookInput) (bool, error) {
	gitDir, err := CommonGitDir(input.Root)
	if err != nil {
		return false, err
	}

	path := hookPath(gitDir)
	content, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read hook: %w", err)
	}
	if !IsManagedHook(string(content)) {
		return false, nil
	}

	if err := os.Remove(path); err != nil {
		return false, fmt.Errorf("remove hook: %w", err)
	}

	backup := path + HookBackupExt
	if _, err := os.Stat(backup); err == nil {
		if err := os.Rename(backup, path); err != nil {
			return true, fmt.Errorf("restore hook backup: %w", err)
		}
	}

	return true, nil
}

type ApplyPendingInput struct {
	Root    string
	MsgFile string
	Source  string
}

// ApplyPendingUseCase runs inside prepare-commit-msg and moves the pending
// message into git's commit message file.
type ApplyPendingUseCase struct {
	logger *slog.Logger
}

func NewApplyPendingUseCase(logger *slog.Logger) *ApplyPendingUseCase {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &ApplyPendingUseCase{logger: logger}
}

// Execute reports whether the message file was rewritten. Messages given
// with -m/-F, merges, squashes and amends are left alone.
func (uc *ApplyPendingUseCase) Execute(_ context.Context, input ApplyPendingInput) (bool, error) {
	if input.Source != "" && input.Source != "template" {
		uc.logger.Debug("skipping pending message", "source", input.Source)
		return false, nil
	}

	repo, err := NewGitRepositoryContext(input.Root)
	if err != nil {
		return false, err
	}

	pending, err := repo.PendingMessage()
	if err != nil {
		return false, err
	}
	if pending == "" {
		return false, nil
	}

	current, err := os.ReadFile(input.MsgFile)
	if err != nil && !os.IsNotExist(err) {
		return false, fmt.Errorf("read message file: %w", err)
	}

	if err := os.WriteFile(input.MsgFile, []byte(mergeCommitMessage(pending, string(current))), 0644); err != nil {
		return false, fmt.Errorf("write message file: %w", err)
	}

	if err := repo.ClearPendingMessage(); err != nil {
		return true, err
	}

	uc.logger.Debug("applied pending message", "root", repo.Root())
	return true, nil
}

// mergeCommitMessage puts message in front of git's comment lines, dropping
// any non-comment text already in the file.
func mergeCommitMessage(message, current string) string {
	var comments []string
	for _, line := range strings.Split(current, "\n") {
		if strings.HasPrefix(line, "#") {
			comments = append(comments, line)
		}
	}

	if len(comments) == 0 {
		return message + "\n"
	}
	return message + "\n\n" + strings.Join(comments, "\n") + "\n"
}
