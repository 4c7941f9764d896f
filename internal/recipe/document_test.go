package recipe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/cookcli/internal/quantity"
)

func sampleDocument() *Document {
	return &Document{
		Metadata: Metadata{Title: "Tomato Soup", Servings: 4, Tags: []string{"Vegan", "soup"}},
		Ingredients: []Ingredient{
			{Name: "tomato", Amounts: []Amount{{Quantity: quantity.New(800, "g")}}},
			{Name: "salt", Amounts: []Amount{{Quantity: quantity.New(1, "tsp"), Fixed: true}}},
			{Name: "basil", Amounts: []Amount{{Quantity: quantity.Parse("a few", "leaves")}}},
		},
		Cookware: []Cookware{{Name: "pot"}, {Name: "blender"}},
	}
}

func TestDocument_Scale(t *testing.T) {
	doc := sampleDocument()
	scaled := doc.Scale(2)

	assert.Equal(t, 8.0, scaled.Metadata.Servings)

	tomato, ok := scaled.Ingredient("tomato")
	require.True(t, ok)
	assert.Equal(t, "1600 g", tomato.Amounts[0].String())

	salt, ok := scaled.Ingredient("salt")
	require.True(t, ok)
	assert.Equal(t, "1 tsp", salt.Amounts[0].String(), "fixed amounts stay put")

	basil, ok := scaled.Ingredient("basil")
	require.True(t, ok)
	assert.Equal(t, "a few leaves", basil.Amounts[0].String())

	original, _ := doc.Ingredient("tomato")
	assert.Equal(t, 800.0, original.Amounts[0].Amount, "scaling must not touch the source document")
	assert.Equal(t, 4.0, doc.Metadata.Servings)
}

func TestDocument_Lookups(t *testing.T) {
	doc := sampleDocument()

	_, ok := doc.Ingredient("  TOMATO ")
	assert.True(t, ok)
	_, ok = doc.Ingredient("potato")
	assert.False(t, ok)

	assert.True(t, doc.HasTag("vegan"))
	assert.False(t, doc.HasTag("meat"))
	assert.Equal(t, []string{"pot", "blender"}, doc.CookwareNames())
}

func TestNameKey(t *testing.T) {
	testCases := []struct {
		in   string
		want string
	}{
		{"Olive Oil", "olive oil"},
		{"  olive   oil ", "olive oil"},
		{"olive_oil", "olive oil"},
		{"OLIVE__OIL", "olive oil"},
	}
	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, NameKey(tc.in))
		})
	}

	doc := &Document{Ingredients: []Ingredient{{Name: "olive oil"}}}
	_, ok := doc.Ingredient("olive_oil")
	assert.True(t, ok)
}
