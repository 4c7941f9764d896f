package recipe

import (
	"strings"

	"github.com/vk/cookcli/internal/quantity"
)

// Document is one parsed recipe.
type Document struct {
	Metadata    Metadata
	Steps       []Step
	Ingredients []Ingredient
	Cookware    []Cookware
	Timers      []Timer
}

// Metadata holds the recipe header. Servings is zero when the recipe does
// not declare it.
type Metadata struct {
	Title       string
	Tags        []string
	Servings    float64
	Aliases     []string
	Source      string
	Description string
	// Extra keeps any other header keys, verbatim.
	Extra map[string]string
}

// Step is one paragraph of the method.
type Step struct {
	Section string
	Text    string
	Items   []Item
}

// ItemKind tells what a step item refers to.
type ItemKind int

const (
	ItemText ItemKind = iota
	ItemIngredient
	ItemCookware
	ItemTimer
)

// Item is a piece of a step: literal text or a reference to an ingredient,
// cookware or timer (by index into the document's lists).
type Item struct {
	Kind  ItemKind
	Text  string
	Index int
}

// Amount is a quantity of an ingredient. Fixed amounts do not scale.
type Amount struct {
	quantity.Quantity
	Fixed bool
}

// Ingredient is the merged view of every mention of one ingredient, in
// order of first appearance.
type Ingredient struct {
	Name     string
	Amounts  []Amount
	Note     string
	Optional bool
	// Reference is set for ingredients that point at another recipe file.
	Reference bool
}

// Quantities returns the ingredient amounts as plain quantities.
func (i Ingredient) Quantities() []quantity.Quantity {
	out := make([]quantity.Quantity, len(i.Amounts))
	for n, a := range i.Amounts {
		out[n] = a.Quantity
	}
	return out
}

// Cookware is an item of equipment mentioned by the method.
type Cookware struct {
	Name     string
	Quantity quantity.Quantity
}

// Timer is a duration mentioned by the method.
type Timer struct {
	Name     string
	Quantity quantity.Quantity
}

// Ingredient finds an ingredient by name, ignoring case and surrounding
// whitespace.
func (d *Document) Ingredient(name string) (Ingredient, bool) {
	key := NameKey(name)
	for _, ing := range d.Ingredients {
		if NameKey(ing.Name) == key {
			return ing, true
		}
	}
	return Ingredient{}, false
}

// HasTag reports whether the recipe carries the tag.
func (d *Document) HasTag(tag string) bool {
	key := NameKey(tag)
	for _, t := range d.Metadata.Tags {
		if NameKey(t) == key {
			return true
		}
	}
	return false
}

// CookwareNames lists cookware names in order of first mention.
func (d *Document) CookwareNames() []string {
	names := make([]string, len(d.Cookware))
	for i, c := range d.Cookware {
		names[i] = c.Name
	}
	return names
}

// Scale returns a copy of the document with every non-fixed ingredient
// amount multiplied by factor. Declared servings scale along.
func (d *Document) Scale(factor float64) *Document {
	out := *d
	out.Metadata = d.Metadata
	out.Metadata.Tags = append([]string(nil), d.Metadata.Tags...)
	out.Metadata.Aliases = append([]string(nil), d.Metadata.Aliases...)
	if d.Metadata.Extra != nil {
		out.Metadata.Extra = make(map[string]string, len(d.Metadata.Extra))
		for k, v := range d.Metadata.Extra {
			out.Metadata.Extra[k] = v
		}
	}
	out.Metadata.Servings = d.Metadata.Servings * factor

	out.Ingredients = make([]Ingredient, len(d.Ingredients))
	for i, ing := range d.Ingredients {
		scaled := ing
		scaled.Amounts = make([]Amount, len(ing.Amounts))
		for n, a := range ing.Amounts {
			if !a.Fixed {
				a.Quantity = a.Quantity.Scale(factor)
			}
			scaled.Amounts[n] = a
		}
		out.Ingredients[i] = scaled
	}

	out.Steps = append([]Step(nil), d.Steps...)
	out.Cookware = append([]Cookware(nil), d.Cookware...)
	out.Timers = append([]Timer(nil), d.Timers...)
	return &out
}

// NameKey is the comparison key for ingredient, tag and cookware names.
// Underscores count as spaces, so olive_oil matches "olive oil".
func NameKey(name string) string {
	name = strings.ReplaceAll(name, "_", " ")
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}
