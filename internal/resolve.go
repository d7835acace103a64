package internal

import (
	"log/slog"
	"path/filepath"
	"strings"
)

type TargetKind int

const (
	// TargetAll writes to every known repository.
	TargetAll TargetKind = iota
	// TargetRepository writes only to the repository whose root matches.
	TargetRepository
)

type Target struct {
	Kind TargetKind
	Root string
}

func Broadcast() Target {
	return Target{Kind: TargetAll}
}

func Targeted(root string) Target {
	return Target{Kind: TargetRepository, Root: root}
}

// TargetFor maps an optional caller-supplied context path to a Target.
func TargetFor(contextRoot string) Target {
	if contextRoot == "" {
		return Broadcast()
	}
	return Targeted(contextRoot)
}

func (t Target) String() string {
	if t.Kind == TargetRepository {
		return t.Root
	}
	return "all repositories"
}

// Delivery records which pending-message slots received a message.
type Delivery struct {
	Target  Target
	Written []string
	Matched bool
}

// Labels projects records to the text shown in the picker.
func Labels(records []CommitRecord) []string {
	labels := make([]string, len(records))
	for i, r := range records {
		labels[i] = strings.TrimSpace(r.Message)
	}
	return labels
}

// Choose returns the first record, in history order, whose label equals label.
func Choose(records []CommitRecord, label string) (CommitRecord, bool) {
	for _, r := range records {
		if strings.TrimSpace(r.Message) == label {
			return r, true
		}
	}
	return CommitRecord{}, false
}

// Deliver writes message into the pending slots selected by target. A slot
// that fails to write is logged and left out of Written.
func Deliver(target Target, repos []RepositoryContext, message string, logger *slog.Logger) Delivery {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	d := Delivery{Target: target}

	switch target.Kind {
	case TargetRepository:
		want := filepath.Clean(target.Root)
		for _, repo := range repos {
			if filepath.Clean(repo.Root()) != want {
				continue
			}
			d.Matched = true
			d.Written = writeSlot(d.Written, repo, message, logger)
			break
		}
	default:
		d.Matched = len(repos) > 0
		for _, repo := range repos {
			d.Written = writeSlot(d.Written, repo, message, logger)
		}
	}

	return d
}

func writeSlot(written []string, repo RepositoryContext, message string, logger *slog.Logger) []string {
	if err := repo.SetPendingMessage(message); err != nil {
		logger.Error("write pending message", "root", repo.Root(), "err", err)
		return written
	}
	logger.Debug("wrote pending message", "root", repo.Root())
	return append(written, repo.Root())
}
