package cli

import (
	"io"
	"os"

	"golang.org/x/term"
)

// getTerminalWidth returns the terminal width in columns for the given io.Writer.
// A positive override wins. Otherwise, if the writer is an *os.File, it queries
// the terminal size using GetSize, and falls back to fallback when that fails.
func getTerminalWidth(w io.Writer, override, fallback int) int {
	if override > 0 {
		return override
	}
	if f, ok := w.(*os.File); ok {
		width, _, err := term.GetSize(int(f.Fd()))
		if err == nil && width > 0 {
			return width
		}
	}
	return fallback
}
