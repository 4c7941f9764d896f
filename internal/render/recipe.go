package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/vk/cookcli/internal/quantity"
	"github.com/vk/cookcli/internal/recipe"
)

// Recipe writes a recipe document in the given format.
func Recipe(w io.Writer, doc *recipe.Document, f Format, opts Options) error {
	switch f {
	case FormatJSON:
		return JSON(w, RecipeView(doc))
	case FormatMarkdown:
		return recipeMarkdown(w, doc)
	default:
		return recipeText(w, doc, opts)
	}
}

type ingredientJSON struct {
	Name     string   `json:"name"`
	Amounts  []string `json:"amounts,omitempty"`
	Fixed    bool     `json:"fixed,omitempty"`
	Note     string   `json:"note,omitempty"`
	Optional bool     `json:"optional,omitempty"`
}

type stepJSON struct {
	Section string `json:"section,omitempty"`
	Text    string `json:"text"`
}

// RecipeJSON is the JSON shape of a recipe document.
type RecipeJSON struct {
	Title       string            `json:"title"`
	Servings    float64           `json:"servings,omitempty"`
	Tags        []string          `json:"tags,omitempty"`
	Aliases     []string          `json:"aliases,omitempty"`
	Source      string            `json:"source,omitempty"`
	Description string            `json:"description,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	Ingredients []ingredientJSON  `json:"ingredients"`
	Cookware    []string          `json:"cookware"`
	Timers      []string          `json:"timers,omitempty"`
	Steps       []stepJSON        `json:"steps"`
}

// RecipeView converts a document for JSON output.
func RecipeView(doc *recipe.Document) RecipeJSON {
	m := doc.Metadata
	out := RecipeJSON{
		Title:       m.Title,
		Servings:    m.Servings,
		Tags:        m.Tags,
		Aliases:     m.Aliases,
		Source:      m.Source,
		Description: m.Description,
		Metadata:    m.Extra,
		Ingredients: make([]ingredientJSON, 0, len(doc.Ingredients)),
		Cookware:    doc.CookwareNames(),
		Steps:       make([]stepJSON, 0, len(doc.Steps)),
	}
	for _, ing := range doc.Ingredients {
		j := ingredientJSON{Name: ing.Name, Note: ing.Note, Optional: ing.Optional}
		for _, a := range ing.Amounts {
			j.Amounts = append(j.Amounts, a.String())
			j.Fixed = j.Fixed || a.Fixed
		}
		out.Ingredients = append(out.Ingredients, j)
	}
	for _, t := range doc.Timers {
		out.Timers = append(out.Timers, strings.TrimSpace(t.Name+" "+t.Quantity.String()))
	}
	for _, s := range doc.Steps {
		out.Steps = append(out.Steps, stepJSON{Section: s.Section, Text: s.Text})
	}
	return out
}

func amounts(ing recipe.Ingredient) string {
	parts := make([]string, 0, len(ing.Amounts))
	for _, a := range ing.Amounts {
		parts = append(parts, a.String())
	}
	return strings.Join(parts, ", ")
}

func ingredientLine(ing recipe.Ingredient) (string, string) {
	name := ing.Name
	if ing.Optional {
		name += " (optional)"
	}
	detail := amounts(ing)
	if ing.Note != "" {
		detail = strings.TrimSpace(detail + " (" + ing.Note + ")")
	}
	return name, detail
}

func recipeText(w io.Writer, doc *recipe.Document, opts Options) error {
	heading := opts.paint(color.Bold, color.FgCyan)
	gray := opts.paint(color.FgHiBlack)
	m := doc.Metadata

	var b strings.Builder
	b.WriteString(heading.Sprint(m.Title))
	b.WriteByte('\n')
	if m.Description != "" {
		b.WriteString(m.Description + "\n")
	}
	if m.Servings > 0 {
		fmt.Fprintf(&b, "%s %s\n", gray.Sprint("Servings:"), quantity.FormatNumber(m.Servings))
	}
	if len(m.Tags) > 0 {
		fmt.Fprintf(&b, "%s %s\n", gray.Sprint("Tags:"), strings.Join(m.Tags, ", "))
	}
	if m.Source != "" {
		fmt.Fprintf(&b, "%s %s\n", gray.Sprint("Source:"), m.Source)
	}

	if len(doc.Ingredients) > 0 {
		b.WriteString("\n" + heading.Sprint("Ingredients") + "\n")
		rows := make([][2]string, 0, len(doc.Ingredients))
		width := 0
		for _, ing := range doc.Ingredients {
			name, detail := ingredientLine(ing)
			rows = append(rows, [2]string{name, detail})
			width = max(width, len([]rune(name)))
		}
		for _, r := range rows {
			fmt.Fprintf(&b, "  %s  %s\n", padRight(r[0], width), r[1])
		}
	}

	if len(doc.Cookware) > 0 {
		b.WriteString("\n" + heading.Sprint("Cookware") + "\n")
		for _, name := range doc.CookwareNames() {
			fmt.Fprintf(&b, "  %s\n", name)
		}
	}

	if len(doc.Steps) > 0 {
		b.WriteString("\n" + heading.Sprint("Steps") + "\n")
		section := ""
		for i, s := range doc.Steps {
			if s.Section != section && s.Section != "" {
				fmt.Fprintf(&b, "  %s\n", gray.Sprint(s.Section))
			}
			section = s.Section
			fmt.Fprintf(&b, "  %d. %s\n", i+1, s.Text)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func recipeMarkdown(w io.Writer, doc *recipe.Document) error {
	m := doc.Metadata
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n", m.Title)
	if m.Description != "" {
		fmt.Fprintf(&b, "\n%s\n", m.Description)
	}

	var facts []string
	if m.Servings > 0 {
		facts = append(facts, "**Servings:** "+quantity.FormatNumber(m.Servings))
	}
	if len(m.Tags) > 0 {
		facts = append(facts, "**Tags:** "+strings.Join(m.Tags, ", "))
	}
	if m.Source != "" {
		facts = append(facts, "**Source:** "+m.Source)
	}
	if len(facts) > 0 {
		b.WriteString("\n" + strings.Join(facts, "  \n") + "\n")
	}

	if len(doc.Ingredients) > 0 {
		b.WriteString("\n## Ingredients\n\n")
		for _, ing := range doc.Ingredients {
			name, detail := ingredientLine(ing)
			if detail == "" {
				fmt.Fprintf(&b, "- %s\n", name)
				continue
			}
			fmt.Fprintf(&b, "- %s: %s\n", name, detail)
		}
	}

	if len(doc.Cookware) > 0 {
		b.WriteString("\n## Cookware\n\n")
		for _, name := range doc.CookwareNames() {
			fmt.Fprintf(&b, "- %s\n", name)
		}
	}

	if len(doc.Steps) > 0 {
		b.WriteString("\n## Steps\n\n")
		section := ""
		for i, s := range doc.Steps {
			if s.Section != section && s.Section != "" {
				fmt.Fprintf(&b, "### %s\n\n", s.Section)
			}
			section = s.Section
			fmt.Fprintf(&b, "%d. %s\n", i+1, s.Text)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}
