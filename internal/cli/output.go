package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/rshade/weathr/internal/forecast"
	"github.com/rshade/weathr/internal/layout"
)

const noObservation = "No current weather observations."

// renderReport writes the location heading, the observation line and the
// forecast columns to w. Styling is applied only when w is a color-capable
// terminal.
func renderReport(w io.Writer, r *forecast.Report, columnWidth, terminalWidth int) error {
	heading := lipgloss.NewRenderer(w).NewStyle().Bold(true)

	if r.Location.City != "" || r.Location.State != "" {
		if _, err := fmt.Fprintln(w, heading.Render(r.Location.City+", "+r.Location.State)); err != nil {
			return err
		}
	}

	line := noObservation
	if r.Current != nil {
		line = r.Current.String()
	}
	if _, err := fmt.Fprintln(w, line); err != nil {
		return err
	}

	for _, row := range layout.Render(r.Periods, columnWidth, terminalWidth) {
		if _, err := fmt.Fprintln(w, row); err != nil {
			return err
		}
	}
	return nil
}
