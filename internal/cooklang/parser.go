package cooklang

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/vk/cookcli/internal/quantity"
	"github.com/vk/cookcli/internal/recipe"
)

// Parser converts recipe text into documents. A Parser is stateless and
// safe for concurrent use.
type Parser struct {
	units *quantity.Table
}

// Option configures a Parser.
type Option func(*Parser)

// WithUnits sets the table used to decide whether repeated mentions of an
// ingredient share a unit and can be summed.
func WithUnits(t *quantity.Table) Option {
	return func(p *Parser) { p.units = t }
}

// New creates a Parser.
func New(opts ...Option) *Parser {
	p := &Parser{units: quantity.DefaultTable()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse parses src. The name is used as the title when the recipe does
// not declare one.
func (p *Parser) Parse(name string, src []byte) (*recipe.Document, error) {
	text := normalizeNewlines(string(src))

	front, body, err := splitFrontMatter(text)
	if err != nil {
		return nil, err
	}

	doc := &recipe.Document{}
	if err := applyFrontMatter(&doc.Metadata, front); err != nil {
		return nil, err
	}

	body, err = stripBlockComments(body)
	if err != nil {
		return nil, err
	}

	b := &builder{doc: doc, units: p.units, ingredientIdx: map[string]int{}, cookwareIdx: map[string]int{}}
	var (
		section   string
		paragraph []string
		startLine int
	)
	flush := func() error {
		if len(paragraph) == 0 {
			return nil
		}
		err := b.addStep(section, strings.Join(paragraph, " "), startLine)
		paragraph = nil
		return err
	}

	for i, line := range strings.Split(body, "\n") {
		lineNo := i + 1
		// Metadata values are taken verbatim, so "--" inside a URL survives.
		if key, value, ok := metadataLine(line); ok {
			applyMeta(&doc.Metadata, key, value)
			continue
		}
		if idx := strings.Index(line, "--"); idx >= 0 {
			line = line[:idx]
		}
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			if err := flush(); err != nil {
				return nil, err
			}
		case strings.HasPrefix(trimmed, "="):
			if err := flush(); err != nil {
				return nil, err
			}
			section = strings.TrimSpace(strings.Trim(trimmed, "="))
		default:
			if len(paragraph) == 0 {
				startLine = lineNo
			}
			paragraph = append(paragraph, trimmed)
		}
	}
	if err := flush(); err != nil {
		return nil, err
	}

	if doc.Metadata.Title == "" {
		doc.Metadata.Title = name
	}
	return doc, nil
}

// stripBlockComments removes [- ... -] comments, keeping their newlines.
func stripBlockComments(text string) (string, error) {
	var sb strings.Builder
	for {
		start := strings.Index(text, "[-")
		if start < 0 {
			sb.WriteString(text)
			return sb.String(), nil
		}
		end := strings.Index(text[start+2:], "-]")
		if end < 0 {
			line := strings.Count(sb.String(), "\n") + strings.Count(text[:start], "\n") + 1
			return "", syntaxErrorf(line, "block comment is not closed with -]")
		}
		sb.WriteString(text[:start])
		comment := text[start : start+2+end+2]
		sb.WriteString(strings.Repeat("\n", strings.Count(comment, "\n")))
		text = text[start+2+end+2:]
	}
}

type builder struct {
	doc           *recipe.Document
	units         *quantity.Table
	ingredientIdx map[string]int
	cookwareIdx   map[string]int
}

// multiWordStop lists characters that cannot appear inside a braced
// multi-word name, so "@salt and @pepper{}" reads as two components.
const multiWordStop = "@#~{}.,;:!?()[]"

func (b *builder) addStep(section, text string, line int) error {
	step := recipe.Step{Section: section}
	var plain strings.Builder
	var literal strings.Builder

	flushLiteral := func() {
		if literal.Len() > 0 {
			step.Items = append(step.Items, recipe.Item{Kind: recipe.ItemText, Text: literal.String()})
			literal.Reset()
		}
	}

	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		if r != '@' && r != '#' && r != '~' {
			literal.WriteRune(r)
			plain.WriteRune(r)
			i += size
			continue
		}

		c, consumed, err := scanComponent(text[i:], line)
		if err != nil {
			return err
		}
		if consumed == 0 {
			literal.WriteRune(r)
			plain.WriteRune(r)
			i += size
			continue
		}
		flushLiteral()

		item := recipe.Item{Text: c.display()}
		switch r {
		case '@':
			item.Kind = recipe.ItemIngredient
			item.Index = b.addIngredient(c)
		case '#':
			item.Kind = recipe.ItemCookware
			item.Index = b.addCookware(c)
		case '~':
			item.Kind = recipe.ItemTimer
			b.doc.Timers = append(b.doc.Timers, recipe.Timer{Name: c.name, Quantity: c.quantity()})
			item.Index = len(b.doc.Timers) - 1
		}
		step.Items = append(step.Items, item)
		plain.WriteString(item.Text)
		i += consumed
	}
	flushLiteral()

	step.Text = strings.TrimSpace(plain.String())
	if step.Text == "" {
		return nil
	}
	b.doc.Steps = append(b.doc.Steps, step)
	return nil
}

func (b *builder) addIngredient(c component) int {
	key := recipe.NameKey(c.name)
	amount, hasAmount := c.amount()

	if idx, ok := b.ingredientIdx[key]; ok {
		ing := &b.doc.Ingredients[idx]
		if ing.Note == "" {
			ing.Note = c.note
		}
		ing.Optional = ing.Optional && c.optional
		if hasAmount {
			ing.Amounts = mergeAmount(b.units, ing.Amounts, amount)
		}
		return idx
	}

	ing := recipe.Ingredient{
		Name:      c.name,
		Note:      c.note,
		Optional:  c.optional,
		Reference: c.reference,
	}
	if hasAmount {
		ing.Amounts = []recipe.Amount{amount}
	}
	b.doc.Ingredients = append(b.doc.Ingredients, ing)
	b.ingredientIdx[key] = len(b.doc.Ingredients) - 1
	return len(b.doc.Ingredients) - 1
}

// mergeAmount adds a to the first amount sharing its unit and fixedness,
// or appends it.
func mergeAmount(units *quantity.Table, amounts []recipe.Amount, a recipe.Amount) []recipe.Amount {
	if a.IsNumeric() {
		for i, existing := range amounts {
			if !existing.IsNumeric() || existing.Fixed != a.Fixed {
				continue
			}
			if units.Canonical(existing.Unit) != units.Canonical(a.Unit) {
				continue
			}
			amounts[i].Amount += a.Amount
			return amounts
		}
	}
	return append(amounts, a)
}

func (b *builder) addCookware(c component) int {
	key := recipe.NameKey(c.name)
	if idx, ok := b.cookwareIdx[key]; ok {
		return idx
	}
	b.doc.Cookware = append(b.doc.Cookware, recipe.Cookware{Name: c.name, Quantity: c.quantity()})
	b.cookwareIdx[key] = len(b.doc.Cookware) - 1
	return len(b.doc.Cookware) - 1
}

// component is one @, # or ~ reference found in a step.
type component struct {
	name      string
	rawAmount string
	hasBraces bool
	note      string
	optional  bool
	reference bool
}

func (c component) amount() (recipe.Amount, bool) {
	raw := strings.TrimSpace(c.rawAmount)
	if raw == "" {
		return recipe.Amount{}, false
	}
	fixed := strings.HasPrefix(raw, "=")
	raw = strings.TrimSpace(strings.TrimPrefix(raw, "="))
	value, unit, _ := strings.Cut(raw, "%")
	return recipe.Amount{Quantity: quantity.Parse(value, unit), Fixed: fixed}, true
}

func (c component) quantity() quantity.Quantity {
	a, ok := c.amount()
	if !ok {
		return quantity.Quantity{}
	}
	return a.Quantity
}

func (c component) display() string {
	if c.name != "" {
		return c.name
	}
	if q := c.quantity(); q != (quantity.Quantity{}) {
		return q.String()
	}
	return ""
}

// scanComponent reads a component starting at the sigil in s. It returns
// the number of bytes consumed, or zero when the sigil is plain text.
func scanComponent(s string, line int) (component, int, error) {
	var c component
	sigil := s[0]
	pos := 1

	if sigil == '@' && strings.HasPrefix(s[pos:], "?") {
		c.optional = true
		pos++
	}

	rest := s[pos:]
	brace := strings.IndexByte(rest, '{')

	switch {
	case sigil == '@' && (strings.HasPrefix(rest, "./") || strings.HasPrefix(rest, "../")) && brace > 0:
		c.name = strings.TrimSpace(rest[:brace])
		c.reference = true
		pos += brace
	case brace == 0 && sigil == '~':
		// anonymous timer
	case brace > 0 && !strings.ContainsAny(rest[:brace], multiWordStop+"\n") && strings.TrimSpace(rest[:brace]) != "":
		c.name = strings.TrimSpace(rest[:brace])
		pos += brace
	default:
		n := wordLength(rest)
		if n == 0 {
			return component{}, 0, nil
		}
		c.name = rest[:n]
		pos += n
	}

	if strings.HasPrefix(s[pos:], "{") {
		end := strings.IndexByte(s[pos:], '}')
		if end < 0 {
			return component{}, 0, syntaxErrorf(line, "unclosed { after %q", string(sigil)+c.name)
		}
		c.hasBraces = true
		c.rawAmount = s[pos+1 : pos+end]
		pos += end + 1
	} else if sigil == '~' && c.name == "" {
		return component{}, 0, nil
	}

	if sigil == '@' && strings.HasPrefix(s[pos:], "(") {
		end := strings.IndexByte(s[pos:], ')')
		if end < 0 {
			return component{}, 0, syntaxErrorf(line, "unclosed ( after ingredient %q", c.name)
		}
		c.note = strings.TrimSpace(s[pos+1 : pos+end])
		pos += end + 1
	}

	if sigil == '~' && !c.hasBraces {
		return component{}, 0, nil
	}
	return c, pos, nil
}

func wordLength(s string) int {
	n := 0
	for n < len(s) {
		r, size := utf8.DecodeRuneInString(s[n:])
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' && r != '-' {
			break
		}
		n += size
	}
	return n
}

var defaultParser = New()

// Parse parses src with the default unit table.
func Parse(name string, src []byte) (*recipe.Document, error) {
	return defaultParser.Parse(name, src)
}
