package ui

import (
	"github.com/atotto/clipboard"
)

// SystemClipboard is the desktop clipboard.
type SystemClipboard struct{}

func (SystemClipboard) ReadText() (string, error) {
	return clipboard.ReadAll()
}

func (SystemClipboard) WriteText(text string) error {
	return clipboard.WriteAll(text)
}

// Available reports whether a clipboard utility was found on this system.
// On Linux this needs xclip, xsel or wl-clipboard.
func (SystemClipboard) Available() bool {
	return !clipboard.Unsupported
}
