package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"time"

	"github.com/4thel00z/recommit/internal"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

type pendingEvent struct {
	Root    string `json:"root"`
	Message string `json:"message"`
	Cleared bool   `json:"cleared"`
}

func NewWatchCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Stream pending message changes",
		Long: `Watch the pending-message slot of every known repository and print one
JSON object per change. Editor integrations read this stream to fill their
commit input box.`,
		Args: cobra.NoArgs,
		RunE: makeWatchRunner(a),
	}

	cmd.Flags().Duration("debounce", 200*time.Millisecond, "Debounce window for batching changes")
	return cmd
}

func makeWatchRunner(a *app) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		debounce, _ := cmd.Flags().GetDuration("debounce")

		s := a.session(cmd)
		repos := s.repos(s.root)
		if len(repos) == 0 {
			return fmt.Errorf("watch: %w", internal.ErrNoWorkspace)
		}

		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return fmt.Errorf("create watcher: %w", err)
		}
		defer watcher.Close()

		byGitDir := make(map[string]internal.RepositoryContext, len(repos))
		for _, repo := range repos {
			gitDir, err := internal.FindGitDir(repo.Root())
			if err != nil {
				return err
			}
			if err := watcher.Add(gitDir); err != nil {
				return fmt.Errorf("watch %s: %w", gitDir, err)
			}
			byGitDir[gitDir] = repo
			s.logger.Debug("watching", "root", repo.Root(), "git_dir", gitDir)
		}

		enc := json.NewEncoder(cmd.OutOrStdout())

		timer := time.NewTimer(0)
		if !timer.Stop() {
			<-timer.C
		}
		changed := make(map[string]internal.RepositoryContext)

		for {
			select {
			case <-cmd.Context().Done():
				return nil
			case event, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				repo, ok := repoForEvent(event, byGitDir)
				if !ok {
					continue
				}
				if len(changed) == 0 {
					timer.Reset(debounce)
				}
				changed[repo.Root()] = repo
			case err, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				s.logger.Error("watch", "err", err)
			case <-timer.C:
				for _, ev := range collectPendingEvents(changed, s.logger) {
					if err := enc.Encode(ev); err != nil {
						return fmt.Errorf("write event: %w", err)
					}
				}
				clear(changed)
			}
		}
	}
}

func repoForEvent(event fsnotify.Event, byGitDir map[string]internal.RepositoryContext) (internal.RepositoryContext, bool) {
	if filepath.Base(event.Name) != internal.PendingFilename {
		return nil, false
	}
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return nil, false
	}
	repo, ok := byGitDir[filepath.Dir(event.Name)]
	return repo, ok
}

func collectPendingEvents(changed map[string]internal.RepositoryContext, logger *slog.Logger) []pendingEvent {
	roots := make([]string, 0, len(changed))
	for root := range changed {
		roots = append(roots, root)
	}
	sort.Strings(roots)

	events := make([]pendingEvent, 0, len(roots))
	for _, root := range roots {
		msg, err := changed[root].PendingMessage()
		if err != nil {
			logger.Error("read pending message", "root", root, "err", err)
			continue
		}
		events = append(events, pendingEvent{Root: root, Message: msg, Cleared: msg == ""})
	}
	return events
}
