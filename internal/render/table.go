package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// Table writes aligned columns with a highlighted header.
type Table struct {
	writer  io.Writer
	headers []string
	rows    [][]string
	opts    Options
}

// NewTable creates a table with the given headers.
func NewTable(w io.Writer, headers []string, opts Options) *Table {
	return &Table{
		writer:  w,
		headers: headers,
		rows:    make([][]string, 0),
		opts:    opts,
	}
}

// AddRow adds a row to the table.
func (t *Table) AddRow(cells ...string) {
	t.rows = append(t.rows, cells)
}

// Render writes the table. The last column is not padded.
func (t *Table) Render() {
	if len(t.headers) == 0 {
		return
	}

	widths := make([]int, len(t.headers))
	for i, header := range t.headers {
		widths[i] = len([]rune(header))
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], len([]rune(cell)))
			}
		}
	}

	bold := t.opts.paint(color.Bold, color.FgCyan)
	gray := t.opts.paint(color.FgHiBlack)

	last := len(t.headers) - 1
	for i, header := range t.headers {
		if i < last {
			bold.Fprint(t.writer, padRight(header, widths[i])+"  ")
		} else {
			bold.Fprint(t.writer, header)
		}
	}
	fmt.Fprintln(t.writer)

	seps := make([]string, len(widths))
	for i, width := range widths {
		seps[i] = strings.Repeat("─", width)
	}
	gray.Fprintln(t.writer, strings.Join(seps, "  "))

	for _, row := range t.rows {
		var line strings.Builder
		for i, cell := range row {
			if i > last {
				break
			}
			if i < last && i < len(row)-1 {
				line.WriteString(padRight(cell, widths[i]) + "  ")
			} else {
				line.WriteString(cell)
			}
		}
		fmt.Fprintln(t.writer, line.String())
	}
}

func padRight(s string, width int) string {
	n := len([]rune(s))
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}
