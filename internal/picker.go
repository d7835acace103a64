package internal

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"
)

const maxLabelWidth = 72

// Picker asks the user to choose one of labels. It returns ErrNoSelection
// when the user dismisses the choice.
type Picker interface {
	Pick(ctx context.Context, labels []string) (string, error)
}

var (
	_ Picker = (*PromptPicker)(nil)
	_ Picker = IndexPicker(0)
)

// PromptPicker prints a numbered list and reads the chosen number.
type PromptPicker struct {
	in  *bufio.Reader
	out io.Writer
}

func NewPromptPicker(in io.Reader, out io.Writer) *PromptPicker {
	return &PromptPicker{in: bufio.NewReader(in), out: out}
}

func (p *PromptPicker) Pick(ctx context.Context, labels []string) (string, error) {
	if len(labels) == 0 {
		return "", ErrNoSelection
	}

	for i, label := range labels {
		fmt.Fprintf(p.out, "%3d  %s\n", i+1, displayLabel(label))
	}

	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		fmt.Fprintf(p.out, "Select a commit [1-%d, empty to cancel]: ", len(labels))

		line, err := p.in.ReadString('\n')
		if err != nil && err != io.EOF {
			return "", fmt.Errorf("read selection: %w", err)
		}

		answer := strings.TrimSpace(line)
		if answer == "" || answer == "q" {
			return "", ErrNoSelection
		}

		n, convErr := strconv.Atoi(answer)
		if convErr == nil && n >= 1 && n <= len(labels) {
			return labels[n-1], nil
		}

		if err == io.EOF {
			return "", ErrNoSelection
		}
		fmt.Fprintf(p.out, "invalid selection %q\n", answer)
	}
}

// IndexPicker picks a fixed 1-based position without prompting.
type IndexPicker int

func (p IndexPicker) Pick(_ context.Context, labels []string) (string, error) {
	n := int(p)
	if n < 1 || n > len(labels) {
		return "", fmt.Errorf("selection %d out of range 1-%d", n, len(labels))
	}
	return labels[n-1], nil
}

// IsInteractive reports whether f is attached to a terminal.
func IsInteractive(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func displayLabel(label string) string {
	if label == "" {
		return "(no message)"
	}

	first, rest, multiline := strings.Cut(label, "\n")
	first = strings.TrimSpace(first)

	runes := []rune(first)
	if len(runes) > maxLabelWidth {
		return string(runes[:maxLabelWidth-1]) + "…"
	}
	if multiline && strings.TrimSpace(rest) != "" {
		return first + " …"
	}
	return first
}
