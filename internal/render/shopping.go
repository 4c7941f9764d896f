package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/vk/cookcli/internal/shopping"
)

// ShoppingList writes a shopping list in the given format.
func ShoppingList(w io.Writer, list *shopping.List, f Format, opts Options) error {
	switch f {
	case FormatJSON:
		return JSON(w, list)
	case FormatMarkdown:
		var b strings.Builder
		for i, c := range list.Categories {
			if i > 0 {
				b.WriteByte('\n')
			}
			fmt.Fprintf(&b, "## %s\n\n", c.Name)
			for _, it := range c.Items {
				fmt.Fprintf(&b, "- [ ] %s\n", itemText(it))
			}
		}
		_, err := io.WriteString(w, b.String())
		return err
	default:
		heading := opts.paint(color.Bold, color.FgCyan)
		var b strings.Builder
		for i, c := range list.Categories {
			if i > 0 {
				b.WriteByte('\n')
			}
			b.WriteString(heading.Sprint(strings.ToUpper(c.Name)))
			b.WriteByte('\n')
			width := 0
			for _, it := range c.Items {
				width = max(width, len([]rune(it.Name)))
			}
			for _, it := range c.Items {
				fmt.Fprintf(&b, "  %s  %s\n", padRight(it.Name, width), it.Quantity())
			}
		}
		_, err := io.WriteString(w, b.String())
		return err
	}
}

func itemText(it shopping.Item) string {
	if q := it.Quantity(); q != "" {
		return it.Name + ": " + q
	}
	return it.Name
}
