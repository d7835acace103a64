package internal

import (
	"errors"
	"fmt"

	"github.com/atotto/clipboard"
)

var ErrClipboardUnsupported = errors.New("clipboard not supported on this system")

type Clipboard interface {
	WriteText(text string) error
}

var _ Clipboard = (*SystemClipboard)(nil)

// SystemClipboard writes through xclip/xsel/wl-copy, pbcopy or the Windows API.
type SystemClipboard struct{}

func (SystemClipboard) WriteText(text string) error {
	if clipboard.Unsupported {
		return ErrClipboardUnsupported
	}
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("write clipboard: %w", err)
	}
	return nil
}

// NoClipboard discards writes. Used when the clipboard is disabled in config.
type NoClipboard struct{}

func (NoClipboard) WriteText(string) error { return nil }
