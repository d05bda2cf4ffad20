package editor

import (
	"strings"

	"github.com/atotto/clipboard"
	"github.com/pkg/errors"
)

// Clipboard provides editor-level clipboard integration.
//
// Errors must not crash the UI; failures are logged and otherwise ignored.
type Clipboard interface {
	ReadText() (string, error)
	WriteText(s string) error
}

// SystemClipboard uses the operating system clipboard.
type SystemClipboard struct{}

func (SystemClipboard) ReadText() (string, error) {
	s, err := clipboard.ReadAll()
	return s, errors.Wrap(err, "read system clipboard")
}

func (SystemClipboard) WriteText(s string) error {
	return errors.Wrap(clipboard.WriteAll(s), "write system clipboard")
}

// normalizeNewlines converts CRLF and lone CR line endings from external
// sources to '\n'.
func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}
