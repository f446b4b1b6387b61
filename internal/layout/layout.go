// Package layout renders forecast periods as fixed-width side-by-side columns.
// It does no I/O; the caller decides where the rows go.
package layout

import (
	"strconv"
	"strings"

	"github.com/rshade/weathr/internal/nws"
)

// Supported column widths.
const (
	NarrowColumn = 20
	MediumColumn = 30
	WideColumn   = 40
)

// MaxDescriptionLines caps the wrapped short forecast per column. Lines past
// the cap are dropped.
const MaxDescriptionLines = 6

// ColumnWidthForLevel maps the -w count to a column width.
func ColumnWidthForLevel(level int) int {
	switch {
	case level <= 0:
		return NarrowColumn
	case level == 1:
		return MediumColumn
	default:
		return WideColumn
	}
}

// Columns returns how many whole columns fit in terminalWidth.
func Columns(columnWidth, terminalWidth int) int {
	if columnWidth <= 0 || terminalWidth <= 0 {
		return 0
	}
	return terminalWidth / columnWidth
}

// Render lays out the leading periods that fit in terminalWidth.
//
// The result is one name row, one row per description line actually used by
// the tallest column, one temperature row and one wind row. Periods that do
// not fit are dropped, and missing periods leave no blank column behind.
// Render returns nil when not even one column fits.
func Render(periods []nws.Period, columnWidth, terminalWidth int) []string {
	cols := Columns(columnWidth, terminalWidth)
	if cols == 0 {
		return nil
	}

	var (
		names     strings.Builder
		desc      [MaxDescriptionLines]strings.Builder
		temps     strings.Builder
		winds     strings.Builder
		descLines int
	)

	for n := range cols {
		if n >= len(periods) {
			break
		}
		p := periods[n]

		names.WriteString(Center(p.Name, columnWidth))

		lines := Wrap(p.ShortForecast, columnWidth-1)
		if len(lines) > MaxDescriptionLines {
			lines = lines[:MaxDescriptionLines]
		}
		descLines = max(descLines, len(lines))
		for i := range MaxDescriptionLines {
			cell := ""
			if i < len(lines) {
				cell = lines[i]
			}
			desc[i].WriteString(Center(cell, columnWidth))
		}

		temps.WriteString(Center(TemperatureLabel(p), columnWidth))
		winds.WriteString(Center(WindLabel(p), columnWidth))
	}

	rows := make([]string, 0, descLines+3)
	rows = append(rows, names.String())
	for i := range descLines {
		rows = append(rows, desc[i].String())
	}
	rows = append(rows, temps.String(), winds.String())
	return rows
}

// TemperatureLabel formats "High near 71°F" for day periods and
// "Low near 45°F" for night periods.
func TemperatureLabel(p nws.Period) string {
	label := "Low near"
	if p.IsDaytime {
		label = "High near"
	}
	return label + " " + strconv.FormatFloat(p.Temperature, 'f', -1, 64) + "°" + p.TemperatureUnit
}

// WindLabel formats "<speed> <direction>".
func WindLabel(p nws.Period) string {
	return p.WindSpeed + " " + p.WindDirection
}
