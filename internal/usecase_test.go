package internal

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePicker struct {
	choice string
	err    error
	calls  int
	labels []string
}

func (p *fakePicker) Pick(_ context.Context, labels []string) (string, error) {
	p.calls++
	p.labels = labels
	return p.choice, p.err
}

type fakeClipboard struct {
	text string
	err  error
}

func (c *fakeClipboard) WriteText(text string) error {
	if c.err != nil {
		return c.err
	}
	c.text = text
	return nil
}

type notice struct {
	level   Level
	message string
}

type recordingNotifier struct {
	notices []notice
}

func (n *recordingNotifier) Notify(level Level, message string) {
	n.notices = append(n.notices, notice{level, message})
}

type recommitFixture struct {
	source    *fakeSource
	picker    *fakePicker
	clipboard *fakeClipboard
	notifier  *recordingNotifier
	logs      *strings.Builder
}

func newRecommitFixture(raw string, choice string) *recommitFixture {
	return &recommitFixture{
		source:    &fakeSource{raw: raw},
		picker:    &fakePicker{choice: choice},
		clipboard: &fakeClipboard{},
		notifier:  &recordingNotifier{},
		logs:      &strings.Builder{},
	}
}

func (f *recommitFixture) useCase(repos func(string) []RepositoryContext, opts RecommitOptions) *RecommitUseCase {
	logger := bufferLogger(f.logs)
	return NewRecommitUseCase(NewHistoryFetcher(f.source, logger), repos, f.picker, f.clipboard, f.notifier, opts, logger)
}

var twoCommits = entry("a1", "Ann <ann@x>", "2024-01-02", "feat: add x") +
	entry("b2", "Ben <ben@x>", "2024-01-01", "fix typo")

func TestRecommitTargetedContext(t *testing.T) {
	f := newRecommitFixture(twoCommits, "fix typo")
	a := &fakeRepo{root: "/repo/a"}
	b := &fakeRepo{root: "/repo/b"}

	out := f.useCase(reposOf(a, b), RecommitOptions{}).Execute(context.Background(), RecommitInput{Root: "/repo/a", Context: "/repo/a"})

	assert.Equal(t, OutcomeApplied, out.Outcome)
	require.NotNil(t, out.Record)
	assert.Equal(t, "b2", out.Record.Identifier)
	assert.Equal(t, []string{"feat: add x", "fix typo"}, f.picker.labels)
	assert.Equal(t, "fix typo", f.clipboard.text)
	assert.Equal(t, "fix typo", a.pending)
	assert.Empty(t, b.pending)
	assert.Equal(t, []notice{{LevelInfo, MsgCopiedMessage}}, f.notifier.notices)
}

func TestRecommitBroadcastWithoutContext(t *testing.T) {
	f := newRecommitFixture(twoCommits, "feat: add x")
	a := &fakeRepo{root: "/repo/a"}
	b := &fakeRepo{root: "/repo/b"}

	out := f.useCase(reposOf(a, b), RecommitOptions{}).Execute(context.Background(), RecommitInput{Root: "/repo/a"})

	assert.Equal(t, OutcomeApplied, out.Outcome)
	assert.Equal(t, "feat: add x", a.pending)
	assert.Equal(t, "feat: add x", b.pending)
	assert.Equal(t, []string{"/repo/a", "/repo/b"}, out.Delivery.Written)
	assert.Equal(t, []notice{{LevelInfo, MsgCopiedMessage}}, f.notifier.notices)
}

func TestRecommitUnmatchedContextStillNotifiesSuccess(t *testing.T) {
	f := newRecommitFixture(twoCommits, "fix typo")
	a := &fakeRepo{root: "/repo/a"}
	b := &fakeRepo{root: "/repo/b"}

	out := f.useCase(reposOf(a, b), RecommitOptions{}).Execute(context.Background(), RecommitInput{Root: "/repo/a", Context: "/repo/c"})

	assert.Equal(t, OutcomeApplied, out.Outcome)
	assert.False(t, out.Delivery.Matched)
	assert.Equal(t, 0, a.writes)
	assert.Equal(t, 0, b.writes)
	assert.Equal(t, "fix typo", f.clipboard.text)
	assert.Equal(t, []notice{{LevelInfo, MsgCopiedMessage}}, f.notifier.notices)
}

func TestRecommitUnmatchedContextWarnsWhenEnabled(t *testing.T) {
	f := newRecommitFixture(twoCommits, "fix typo")
	a := &fakeRepo{root: "/repo/a"}

	f.useCase(reposOf(a), RecommitOptions{NotifyUnmatchedContext: true}).Execute(context.Background(), RecommitInput{Root: "/repo/a", Context: "/repo/c"})

	require.Len(t, f.notifier.notices, 2)
	assert.Equal(t, notice{LevelWarn, "No repository matches context /repo/c."}, f.notifier.notices[1])
}

func TestRecommitHistoryFailure(t *testing.T) {
	f := newRecommitFixture("", "")
	f.source.err = errors.New("exit status 128: fatal: not a git repository")
	a := &fakeRepo{root: "/repo/a"}

	out := f.useCase(reposOf(a), RecommitOptions{}).Execute(context.Background(), RecommitInput{Root: "/repo/a"})

	assert.Equal(t, OutcomeNoCommits, out.Outcome)
	assert.Equal(t, 0, f.picker.calls)
	assert.Equal(t, 0, a.writes)
	assert.Empty(t, f.clipboard.text)
	assert.Equal(t, []notice{{LevelInfo, MsgNoCommits}}, f.notifier.notices)
	assert.Contains(t, f.logs.String(), "not a git repository")
}

func TestRecommitNoWorkspace(t *testing.T) {
	f := newRecommitFixture(twoCommits, "fix typo")

	out := f.useCase(reposOf(), RecommitOptions{}).Execute(context.Background(), RecommitInput{})

	assert.Equal(t, OutcomeNoWorkspace, out.Outcome)
	assert.Equal(t, 0, f.source.calls)
	assert.Equal(t, []notice{{LevelError, MsgNoWorkspace}}, f.notifier.notices)
}

func TestRecommitDismissedPicker(t *testing.T) {
	f := newRecommitFixture(twoCommits, "")
	f.picker.err = ErrNoSelection
	a := &fakeRepo{root: "/repo/a"}

	out := f.useCase(reposOf(a), RecommitOptions{}).Execute(context.Background(), RecommitInput{Root: "/repo/a"})

	assert.Equal(t, OutcomeCancelled, out.Outcome)
	assert.Empty(t, f.notifier.notices)
	assert.Empty(t, f.clipboard.text)
	assert.Equal(t, 0, a.writes)
	assert.NotContains(t, f.logs.String(), "level=ERROR")
}

func TestRecommitPickerFailureIsLogged(t *testing.T) {
	f := newRecommitFixture(twoCommits, "")
	f.picker.err = errors.New("selection 9 out of range 1-2")

	out := f.useCase(reposOf(), RecommitOptions{}).Execute(context.Background(), RecommitInput{Root: "/repo/a"})

	assert.Equal(t, OutcomeCancelled, out.Outcome)
	assert.Contains(t, f.logs.String(), "out of range")
}

func TestRecommitCopiesIdentifier(t *testing.T) {
	f := newRecommitFixture(twoCommits, "fix typo")
	a := &fakeRepo{root: "/repo/a"}

	out := f.useCase(reposOf(a), RecommitOptions{CopyMode: CopyIdentifier}).Execute(context.Background(), RecommitInput{Root: "/repo/a"})

	assert.Equal(t, "b2", out.Copied)
	assert.Equal(t, "b2", f.clipboard.text)
	assert.Equal(t, "fix typo", a.pending)
	assert.Equal(t, []notice{{LevelInfo, MsgCopiedID}}, f.notifier.notices)
}

func TestRecommitClipboardFailureStillWritesSlots(t *testing.T) {
	f := newRecommitFixture(twoCommits, "fix typo")
	f.clipboard.err = ErrClipboardUnsupported
	a := &fakeRepo{root: "/repo/a"}

	out := f.useCase(reposOf(a), RecommitOptions{}).Execute(context.Background(), RecommitInput{Root: "/repo/a"})

	assert.Equal(t, OutcomeApplied, out.Outcome)
	assert.Equal(t, "fix typo", a.pending)
	assert.Equal(t, []notice{{LevelInfo, MsgNoClipboard}}, f.notifier.notices)
}

func TestRecommitDuplicateMessagesResolveToNewest(t *testing.T) {
	raw := entry("n1", "A <a@x>", "2024-01-03", "fix typo") +
		entry("m2", "A <a@x>", "2024-01-02", "other") +
		entry("o3", "A <a@x>", "2024-01-01", "fix typo")
	f := newRecommitFixture(raw, "fix typo")

	out := f.useCase(reposOf(), RecommitOptions{}).Execute(context.Background(), RecommitInput{Root: "/repo/a"})

	require.NotNil(t, out.Record)
	assert.Equal(t, "n1", out.Record.Identifier)
}

func TestRecommitMultilineMessage(t *testing.T) {
	msg := "feat: thing\n\n- one\n- two"
	f := newRecommitFixture(entry("a1", "A <a@x>", "2024-01-02", msg+"\n"), msg)
	a := &fakeRepo{root: "/repo/a"}

	f.useCase(reposOf(a), RecommitOptions{}).Execute(context.Background(), RecommitInput{Root: "/repo/a"})

	assert.Equal(t, msg, a.pending)
	assert.Equal(t, msg, f.clipboard.text)
}

func TestListHistory(t *testing.T) {
	uc := NewListHistoryUseCase(NewHistoryFetcher(&fakeSource{raw: twoCommits}, nil))

	out, err := uc.Execute(context.Background(), ListHistoryInput{Root: "/repo/a"})
	require.NoError(t, err)
	require.Len(t, out.Commits, 2)
	assert.Equal(t, "a1", out.Commits[0].Identifier)

	_, err = uc.Execute(context.Background(), ListHistoryInput{})
	assert.ErrorIs(t, err, ErrNoWorkspace)
}

func TestPendingShowAndClear(t *testing.T) {
	a := &fakeRepo{root: "/repo/a", pending: "fix typo"}
	b := &fakeRepo{root: "/repo/b"}
	uc := NewPendingUseCase(reposOf(a, b))

	shown, err := uc.Show(context.Background(), PendingInput{Root: "/repo/a"})
	require.NoError(t, err)
	assert.Equal(t, []PendingEntry{{Root: "/repo/a", Message: "fix typo"}}, shown.Entries)

	cleared, err := uc.Clear(context.Background(), PendingInput{Root: "/repo/a"})
	require.NoError(t, err)
	assert.Len(t, cleared.Entries, 1)
	assert.Empty(t, a.pending)

	shown, err = uc.Show(context.Background(), PendingInput{Root: "/repo/a"})
	require.NoError(t, err)
	assert.Empty(t, shown.Entries)
}

func TestPendingDiffAgainstHead(t *testing.T) {
	a := &fakeRepo{root: "/repo/a", pending: "fix the typo"}
	uc := NewPendingUseCase(reposOf(a))
	uc.headReader = func(root string) (string, error) {
		assert.Equal(t, "/repo/a", root)
		return "fix typo", nil
	}

	out, err := uc.Diff(context.Background(), PendingInput{Root: "/repo/a"})
	require.NoError(t, err)
	require.Len(t, out.Entries, 1)
	assert.Equal(t, "fix {+the +}typo", out.Entries[0].Diff)
}

func TestPendingDiffHeadFailure(t *testing.T) {
	uc := NewPendingUseCase(reposOf(&fakeRepo{root: "/repo/a", pending: "x"}))
	uc.headReader = func(string) (string, error) { return "", errors.New("reference not found") }

	_, err := uc.Diff(context.Background(), PendingInput{Root: "/repo/a"})
	assert.ErrorContains(t, err, "reference not found")
}

func TestWordDiff(t *testing.T) {
	assert.Equal(t, "same", WordDiff("same", "same"))
	assert.Equal(t, "{+new+}", WordDiff("", "new"))
	assert.Equal(t, "[-old-]", WordDiff("old", ""))
}
