// Package render writes report results, recipes and shopping lists as
// plain text, JSON or Markdown.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// Format selects an output representation.
type Format string

const (
	FormatText     Format = "text"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
)

// ParseFormat accepts "text", "json", "markdown" and "md".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text", "txt":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want text, json or markdown)", s)
	}
}

// Options tune text output.
type Options struct {
	// Color enables ANSI colors in text output.
	Color bool
}

func (o Options) paint(attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if !o.Color {
		c.DisableColor()
	} else {
		c.EnableColor()
	}
	return c
}

// JSON writes v as indented JSON followed by a newline.
func JSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
