// Package aisle maps ingredient names to shopping categories.
//
// The configuration uses the aisle.conf layout: one [category] section per
// aisle, then one ingredient per line, with synonyms separated by "|".
//
//	[produce]
//	tomato|tomatoes
//	onion
//
//	[dairy]
//	milk
package aisle

import (
	"fmt"
	"strings"

	"github.com/vk/cookcli/internal/recipe"
	"gopkg.in/ini.v1"
)

// Other is the category of ingredients no aisle lists.
const Other = "other"

// Config is an immutable ingredient to category mapping.
type Config struct {
	categories []string
	byName     map[string]string
}

// Empty returns a configuration that puts everything in Other.
func Empty() *Config {
	return &Config{byName: map[string]string{}}
}

// Load reads an aisle file.
func Load(path string) (*Config, error) {
	cfg, err := load(path)
	if err != nil {
		return nil, fmt.Errorf("loading aisle config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse reads aisle configuration from memory.
func Parse(src []byte) (*Config, error) {
	return load(src)
}

func load(source any) (*Config, error) {
	file, err := ini.LoadSources(ini.LoadOptions{
		AllowBooleanKeys:         true,
		KeyValueDelimiters:       "=",
		SpaceBeforeInlineComment: true,
	}, source)
	if err != nil {
		return nil, err
	}

	c := Empty()
	for _, section := range file.Sections() {
		if section.Name() == ini.DefaultSection {
			if len(section.Keys()) > 0 {
				return nil, fmt.Errorf("ingredient %q is listed before any [category]", section.Keys()[0].Name())
			}
			continue
		}
		category := strings.TrimSpace(section.Name())
		c.categories = append(c.categories, category)
		for _, key := range section.Keys() {
			for _, name := range strings.Split(key.Name(), "|") {
				k := recipe.NameKey(name)
				if k == "" {
					continue
				}
				if _, dup := c.byName[k]; !dup {
					c.byName[k] = category
				}
			}
		}
	}
	return c, nil
}

// Category returns the category of an ingredient, or Other.
func (c *Config) Category(ingredient string) string {
	if c == nil {
		return Other
	}
	if cat, ok := c.byName[recipe.NameKey(ingredient)]; ok {
		return cat
	}
	return Other
}

// Categories returns the categories in file order. Other is not included.
func (c *Config) Categories() []string {
	if c == nil {
		return nil
	}
	return append([]string(nil), c.categories...)
}

// Rank orders categories for display: file order first, Other last, then
// unknown categories.
func (c *Config) Rank(category string) int {
	for i, cat := range c.Categories() {
		if cat == category {
			return i
		}
	}
	if category == Other {
		return len(c.Categories())
	}
	return len(c.Categories()) + 1
}
