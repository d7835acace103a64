package internal

import (
	"fmt"
	"io"
)

type Level string

const (
	LevelInfo  Level = "info"
	LevelWarn  Level = "warning"
	LevelError Level = "error"
)

// Notifier shows short user-facing messages.
type Notifier interface {
	Notify(level Level, message string)
}

var _ Notifier = (*WriterNotifier)(nil)

type WriterNotifier struct {
	w io.Writer
}

func NewWriterNotifier(w io.Writer) *WriterNotifier {
	return &WriterNotifier{w: w}
}

func (n *WriterNotifier) Notify(level Level, message string) {
	if level == LevelInfo {
		fmt.Fprintln(n.w, message)
		return
	}
	fmt.Fprintf(n.w, "%s: %s\n", level, message)
}
