package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Use case input/output DTOs

type Outcome string

const (
	OutcomeNoWorkspace Outcome = "no-workspace"
	OutcomeNoCommits   Outcome = "no-commits"
	OutcomeCancelled   Outcome = "cancelled"
	OutcomeApplied     Outcome = "applied"
)

const (
	MsgNoWorkspace   = "No workspace opened. Please open a workspace with a Git repository."
	MsgNoCommits     = "No commits found or failed to retrieve commits."
	MsgCopiedMessage = "Commit message copied to clipboard."
	MsgCopiedID      = "Commit identifier copied to clipboard."
	MsgNoClipboard   = "Commit message applied; the clipboard is unavailable."
	MsgUnmatchedFmt  = "No repository matches context %s."
	MsgNoTerminal    = "Interactive selection requires a terminal; use --select."
)

type RecommitInput struct {
	Root    string
	Context string
}

type RecommitOutput struct {
	Outcome  Outcome
	Record   *CommitRecord
	Copied   string
	Delivery Delivery
}

type ListHistoryInput struct {
	Root string
}

type ListHistoryOutput struct {
	Root    string
	Commits []CommitRecord
}

type PendingInput struct {
	Root string
}

type PendingEntry struct {
	Root    string `json:"root"`
	Message string `json:"message"`
	Diff    string `json:"diff,omitempty"`
}

type PendingOutput struct {
	Entries []PendingEntry
}

// Use cases

type RecommitOptions struct {
	CopyMode               string
	NotifyUnmatchedContext bool
}

// RecommitUseCase is the single user-invocable action: fetch recent history,
// let the user pick a commit and reuse its message as the pending message.
type RecommitUseCase struct {
	fetcher   *HistoryFetcher
	repos     func(root string) []RepositoryContext
	picker    Picker
	clipboard Clipboard
	notifier  Notifier
	opts      RecommitOptions
	logger    *slog.Logger
}

func NewRecommitUseCase(
	fetcher *HistoryFetcher,
	repos func(root string) []RepositoryContext,
	picker Picker,
	clipboard Clipboard,
	notifier Notifier,
	opts RecommitOptions,
	logger *slog.Logger,
) *RecommitUseCase {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if opts.CopyMode == "" {
		opts.CopyMode = CopyMessage
	}
	return &RecommitUseCase{
		fetcher:   fetcher,
		repos:     repos,
		picker:    picker,
		clipboard: clipboard,
		notifier:  notifier,
		opts:      opts,
		logger:    logger,
	}
}

// Execute never fails: every problem is reported to the notifier or the
// logger and reflected in the Outcome.
func (uc *RecommitUseCase) Execute(ctx context.Context, input RecommitInput) *RecommitOutput {
	if input.Root == "" {
		uc.notifier.Notify(LevelError, MsgNoWorkspace)
		return &RecommitOutput{Outcome: OutcomeNoWorkspace}
	}

	records := uc.fetcher.Recent(ctx, input.Root)
	if len(records) == 0 {
		uc.notifier.Notify(LevelInfo, MsgNoCommits)
		return &RecommitOutput{Outcome: OutcomeNoCommits}
	}

	label, err := uc.picker.Pick(ctx, Labels(records))
	if err != nil {
		if !errors.Is(err, ErrNoSelection) {
			uc.logger.Error("pick commit", "err", err)
		}
		return &RecommitOutput{Outcome: OutcomeCancelled}
	}

	record, ok := Choose(records, label)
	if !ok {
		uc.logger.Error("pick commit", "label", label, "err", ErrNoSelection)
		return &RecommitOutput{Outcome: OutcomeCancelled}
	}

	message := strings.TrimSpace(record.Message)

	copied := message
	notice := MsgCopiedMessage
	if uc.opts.CopyMode == CopyIdentifier {
		copied = record.Identifier
		notice = MsgCopiedID
	}

	if err := uc.clipboard.WriteText(copied); err != nil {
		uc.logger.Warn("copy to clipboard", "err", err)
		notice = MsgNoClipboard
	}

	target := TargetFor(input.Context)
	delivery := Deliver(target, uc.repos(input.Root), message, uc.logger)

	uc.notifier.Notify(LevelInfo, notice)
	if !delivery.Matched && target.Kind == TargetRepository {
		uc.logger.Debug("no repository matches context", "context", input.Context)
		if uc.opts.NotifyUnmatchedContext {
			uc.notifier.Notify(LevelWarn, fmt.Sprintf(MsgUnmatchedFmt, input.Context))
		}
	}

	return &RecommitOutput{
		Outcome:  OutcomeApplied,
		Record:   &record,
		Copied:   copied,
		Delivery: delivery,
	}
}

// ListHistoryUseCase exposes the parsed history to editor bridges.
type ListHistoryUseCase struct {
	fetcher *HistoryFetcher
}

func NewListHistoryUseCase(fetcher *HistoryFetcher) *ListHistoryUseCase {
	return &ListHistoryUseCase{fetcher: fetcher}
}

func (uc *ListHistoryUseCase) Execute(ctx context.Context, input ListHistoryInput) (*ListHistoryOutput, error) {
	if input.Root == "" {
		return nil, ErrNoWorkspace
	}

	return &ListHistoryOutput{
		Root:    input.Root,
		Commits: uc.fetcher.Recent(ctx, input.Root),
	}, nil
}

// PendingUseCase inspects and clears pending-message slots.
type PendingUseCase struct {
	repos      func(root string) []RepositoryContext
	headReader func(root string) (string, error)
}

func NewPendingUseCase(repos func(root string) []RepositoryContext) *PendingUseCase {
	return &PendingUseCase{repos: repos, headReader: HeadMessage}
}

func (uc *PendingUseCase) Show(_ context.Context, input PendingInput) (*PendingOutput, error) {
	out := &PendingOutput{}
	for _, repo := range uc.repos(input.Root) {
		msg, err := repo.PendingMessage()
		if err != nil {
			return nil, err
		}
		if msg == "" {
			continue
		}
		out.Entries = append(out.Entries, PendingEntry{Root: repo.Root(), Message: msg})
	}
	return out, nil
}

func (uc *PendingUseCase) Clear(_ context.Context, input PendingInput) (*PendingOutput, error) {
	out := &PendingOutput{}
	for _, repo := range uc.repos(input.Root) {
		msg, err := repo.PendingMessage()
		if err != nil {
			return nil, err
		}
		if msg == "" {
			continue
		}
		if err := repo.ClearPendingMessage(); err != nil {
			return nil, err
		}
		out.Entries = append(out.Entries, PendingEntry{Root: repo.Root(), Message: msg})
	}
	return out, nil
}

// Diff compares each pending message with the message of the repository's
// HEAD commit.
func (uc *PendingUseCase) Diff(ctx context.Context, input PendingInput) (*PendingOutput, error) {
	shown, err := uc.Show(ctx, input)
	if err != nil {
		return nil, err
	}

	for i, entry := range shown.Entries {
		head, err := uc.headReader(entry.Root)
		if err != nil {
			return nil, fmt.Errorf("read HEAD of %s: %w", entry.Root, err)
		}
		shown.Entries[i].Diff = WordDiff(head, entry.Message)
	}
	return shown, nil
}

// WordDiff renders the change from old to new in git's --word-diff=plain
// notation.
func WordDiff(old, new string) string {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(old, new, false)
	diffs = dmp.DiffCleanupSemantic(diffs)

	var sb strings.Builder
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			sb.WriteString("{+" + d.Text + "+}")
		case diffmatchpatch.DiffDelete:
			sb.WriteString("[-" + d.Text + "-]")
		default:
			sb.WriteString(d.Text)
		}
	}
	return sb.String()
}
