package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/vk/cookcli/internal/report"
)

// Report writes a report result in the given format.
func Report(w io.Writer, res *report.Result, f Format, opts Options) error {
	switch f {
	case FormatJSON:
		return JSON(w, res)
	case FormatMarkdown:
		return Markdown(w, res)
	default:
		return Text(w, res, opts)
	}
}

// Text writes the title, underlined, followed by one line per output line.
func Text(w io.Writer, res *report.Result, opts Options) error {
	var b strings.Builder
	if res.Title != "" {
		title := opts.paint(color.Bold, color.FgCyan)
		gray := opts.paint(color.FgHiBlack)
		b.WriteString(title.Sprint(res.Title))
		b.WriteByte('\n')
		b.WriteString(gray.Sprint(strings.Repeat("─", len([]rune(res.Title)))))
		b.WriteByte('\n')
	}
	for _, l := range res.Lines {
		b.WriteString(l.Text)
		b.WriteByte('\n')
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// Markdown writes the title as a heading and the lines as paragraphs.
// Lines that already look like list items are kept together as a list.
func Markdown(w io.Writer, res *report.Result) error {
	var b strings.Builder
	if res.Title != "" {
		fmt.Fprintf(&b, "# %s\n\n", res.Title)
	}
	inList := false
	for _, l := range res.Lines {
		item := isListItem(l.Text)
		if inList && !item {
			b.WriteByte('\n')
		}
		b.WriteString(l.Text)
		b.WriteByte('\n')
		if !item {
			b.WriteByte('\n')
		}
		inList = item
	}
	_, err := io.WriteString(w, strings.TrimRight(b.String(), "\n")+"\n")
	return err
}

func isListItem(s string) bool {
	return strings.HasPrefix(s, "- ") || strings.HasPrefix(s, "* ")
}
