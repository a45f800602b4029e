package terminal

import (
	"errors"

	"github.com/atotto/clipboard"
)

// ErrClipboardUnsupported is returned when no system clipboard tool is
// available, typically a headless Linux session without xclip or xsel.
var ErrClipboardUnsupported = errors.New("system clipboard unsupported")

// SystemClipboard is the OS clipboard.
type SystemClipboard struct{}

// ReadText implements editor.Clipboard.
func (SystemClipboard) ReadText() (string, error) {
	if clipboard.Unsupported {
		return "", ErrClipboardUnsupported
	}
	return clipboard.ReadAll()
}

// WriteText implements editor.Clipboard.
func (SystemClipboard) WriteText(text string) error {
	if clipboard.Unsupported {
		return ErrClipboardUnsupported
	}
	return clipboard.WriteAll(text)
}
