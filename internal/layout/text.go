package layout

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Width is the number of terminal cells s occupies.
func Width(s string) int {
	return lipgloss.Width(s)
}

// Center pads s with spaces to w cells. The odd cell of padding goes to the
// right. Strings already at least w cells wide are returned unchanged.
func Center(s string, w int) string {
	pad := w - Width(s)
	if pad <= 0 {
		return s
	}
	left := pad / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", pad-left)
}

// Wrap breaks text into lines of at most w cells, filling each line greedily
// word by word. Runs of whitespace collapse to one space and a word longer
// than w is split across lines.
func Wrap(text string, w int) []string {
	w = max(w, 1)

	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	for _, line := range strings.Split(ansi.Wrap(strings.Join(words, " "), w, ""), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
