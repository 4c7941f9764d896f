// Package shopping merges the ingredients of several recipes into one
// shopping list grouped by aisle.
package shopping

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/vk/cookcli/internal/aisle"
	"github.com/vk/cookcli/internal/quantity"
	"github.com/vk/cookcli/internal/recipe"
)

// Input is one (already scaled) recipe contributing to the list.
type Input struct {
	Label    string
	Document *recipe.Document
}

// Item is one ingredient to buy. Quantities holds one entry per group of
// compatible amounts; incompatible amounts are never coerced.
type Item struct {
	Name       string              `json:"name"`
	Quantities []quantity.Quantity `json:"-"`
	Amounts    []string            `json:"amounts"`
	Recipes    []string            `json:"recipes"`
	Optional   bool                `json:"optional,omitempty"`
}

// Quantity renders every group of the item, comma separated.
func (i Item) Quantity() string {
	return strings.Join(i.Amounts, ", ")
}

// Category groups the items of one aisle.
type Category struct {
	Name  string `json:"name"`
	Items []Item `json:"items"`
}

// List is a shopping list. Categories follow the aisle configuration with
// the catch-all category last.
type List struct {
	Categories []Category `json:"categories"`
}

// Len returns the number of items on the list.
func (l *List) Len() int {
	n := 0
	for _, c := range l.Categories {
		n += len(c.Items)
	}
	return n
}

// Build merges the ingredients of all inputs by normalized name.
func Build(inputs []Input, units *quantity.Table, aisles *aisle.Config) *List {
	if units == nil {
		units = quantity.DefaultTable()
	}

	type entry struct {
		item Item
		key  string
	}
	var entries []*entry
	byKey := make(map[string]*entry)

	for _, in := range inputs {
		for _, ing := range in.Document.Ingredients {
			key := recipe.NameKey(ing.Name)
			e, ok := byKey[key]
			if !ok {
				e = &entry{key: key, item: Item{Name: ing.Name, Optional: ing.Optional}}
				byKey[key] = e
				entries = append(entries, e)
			} else {
				e.item.Optional = e.item.Optional && ing.Optional
			}
			e.item.Quantities = append(e.item.Quantities, ing.Quantities()...)
			if n := len(e.item.Recipes); n == 0 || e.item.Recipes[n-1] != in.Label {
				e.item.Recipes = append(e.item.Recipes, in.Label)
			}
		}
	}

	byCategory := make(map[string][]Item)
	for _, e := range entries {
		e.item.Quantities = units.Group(e.item.Quantities)
		e.item.Amounts = make([]string, 0, len(e.item.Quantities))
		for _, q := range e.item.Quantities {
			e.item.Amounts = append(e.item.Amounts, q.String())
		}
		cat := aisles.Category(e.item.Name)
		byCategory[cat] = append(byCategory[cat], e.item)
	}

	names := make([]string, 0, len(byCategory))
	for name := range byCategory {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		ri, rj := aisles.Rank(names[i]), aisles.Rank(names[j])
		if ri != rj {
			return ri < rj
		}
		return names[i] < names[j]
	})

	list := &List{Categories: make([]Category, 0, len(names))}
	for _, name := range names {
		items := byCategory[name]
		sort.SliceStable(items, func(i, j int) bool {
			return recipe.NameKey(items[i].Name) < recipe.NameKey(items[j].Name)
		})
		list.Categories = append(list.Categories, Category{Name: name, Items: items})
	}
	return list
}

// ParseRef splits a command line reference of the form "ref:factor". A
// suffix that is not a number is part of the reference.
func ParseRef(arg string) (string, float64, error) {
	ref, suffix, ok := cutLast(arg, ":")
	if !ok {
		return arg, 1, nil
	}
	factor, err := strconv.ParseFloat(strings.TrimSpace(suffix), 64)
	if err != nil {
		return arg, 1, nil
	}
	if factor <= 0 {
		return "", 0, fmt.Errorf("scale factor in %q must be positive", arg)
	}
	return strings.TrimSpace(ref), factor, nil
}

func cutLast(s, sep string) (string, string, bool) {
	i := strings.LastIndex(s, sep)
	if i < 0 {
		return s, "", false
	}
	return s[:i], s[i+len(sep):], true
}
