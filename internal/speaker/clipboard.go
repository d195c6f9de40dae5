package speaker

import "github.com/atotto/clipboard"

// SystemClipboard reads the desktop clipboard
type SystemClipboard struct{}

// ReadText implements Clipboard
func (SystemClipboard) ReadText() (string, error) {
	if clipboard.Unsupported {
		return "", errClipboardUnsupported
	}
	return clipboard.ReadAll()
}
