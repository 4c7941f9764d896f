package cooklang

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/cookcli/internal/quantity"
	"github.com/vk/cookcli/internal/recipe"
)

const pancakes = `---
title: Pancakes
servings: 4
tags: [breakfast, sweet]
aliases:
  - flapjacks
---
-- a comment line
Crack @eggs{3} into a #large bowl{}. Add @flour{125%g} and @milk{250%ml}.

Whisk for ~{2%minutes}, then add @flour{25%g} and a pinch of @salt.
= Serving
Top with @maple syrup{=2%tbsp}(optional, warmed) and @?berries{a handful}.
`

func TestParse_Pancakes(t *testing.T) {
	doc, err := New().Parse("fallback", []byte(pancakes))
	require.NoError(t, err)

	assert.Equal(t, "Pancakes", doc.Metadata.Title)
	assert.Equal(t, 4.0, doc.Metadata.Servings)
	assert.Equal(t, []string{"breakfast", "sweet"}, doc.Metadata.Tags)
	assert.Equal(t, []string{"flapjacks"}, doc.Metadata.Aliases)

	t.Run("ingredients are merged by name", func(t *testing.T) {
		names := make([]string, 0, len(doc.Ingredients))
		for _, ing := range doc.Ingredients {
			names = append(names, ing.Name)
		}
		assert.Equal(t, []string{"eggs", "flour", "milk", "salt", "maple syrup", "berries"}, names)

		flour, ok := doc.Ingredient("flour")
		require.True(t, ok)
		require.Len(t, flour.Amounts, 1)
		assert.Equal(t, quantity.New(150, "g"), flour.Amounts[0].Quantity)

		salt, ok := doc.Ingredient("salt")
		require.True(t, ok)
		assert.Empty(t, salt.Amounts)
	})

	t.Run("fixed amounts and notes", func(t *testing.T) {
		syrup, ok := doc.Ingredient("maple syrup")
		require.True(t, ok)
		require.Len(t, syrup.Amounts, 1)
		assert.True(t, syrup.Amounts[0].Fixed)
		assert.Equal(t, quantity.New(2, "tbsp"), syrup.Amounts[0].Quantity)
		assert.Equal(t, "optional, warmed", syrup.Note)
	})

	t.Run("optional and text amounts", func(t *testing.T) {
		berries, ok := doc.Ingredient("berries")
		require.True(t, ok)
		assert.True(t, berries.Optional)
		require.Len(t, berries.Amounts, 1)
		assert.False(t, berries.Amounts[0].IsNumeric())
		assert.Equal(t, "a handful", berries.Amounts[0].Text)
	})

	t.Run("cookware and timers", func(t *testing.T) {
		assert.Equal(t, []string{"large bowl"}, doc.CookwareNames())
		require.Len(t, doc.Timers, 1)
		assert.Equal(t, quantity.New(2, "minutes"), doc.Timers[0].Quantity)
	})

	t.Run("steps and sections", func(t *testing.T) {
		require.Len(t, doc.Steps, 3)
		assert.Equal(t, "", doc.Steps[0].Section)
		assert.Equal(t, "Crack eggs into a large bowl. Add flour and milk.", doc.Steps[0].Text)
		assert.Equal(t, "Serving", doc.Steps[2].Section)

		var kinds []recipe.ItemKind
		for _, it := range doc.Steps[0].Items {
			kinds = append(kinds, it.Kind)
		}
		assert.Equal(t, []recipe.ItemKind{
			recipe.ItemText, recipe.ItemIngredient, recipe.ItemText, recipe.ItemCookware,
			recipe.ItemText, recipe.ItemIngredient, recipe.ItemText, recipe.ItemIngredient, recipe.ItemText,
		}, kinds)
	})
}

func TestParse_TitleFallsBackToName(t *testing.T) {
	doc, err := Parse("Toast", []byte("Toast @bread{2%slices}."))
	require.NoError(t, err)
	assert.Equal(t, "Toast", doc.Metadata.Title)
}

func TestParse_MetadataLines(t *testing.T) {
	src := ">> servings: 2\n>> source: https://example.com/soup\n>> course: dinner\n\nHeat @water{1%l}."
	doc, err := Parse("Soup", []byte(src))
	require.NoError(t, err)
	assert.Equal(t, 2.0, doc.Metadata.Servings)
	assert.Equal(t, "https://example.com/soup", doc.Metadata.Source)
	assert.Equal(t, map[string]string{"course": "dinner"}, doc.Metadata.Extra)
	require.Len(t, doc.Steps, 1)
}

func TestParse_MetadataKeepsDoubleDash(t *testing.T) {
	src := ">> source: https://x.test/a--b\n>> aliases: soup--classic\n\nHeat @water{1%l}. -- until warm\n"
	doc, err := Parse("Soup", []byte(src))
	require.NoError(t, err)
	assert.Equal(t, "https://x.test/a--b", doc.Metadata.Source)
	assert.Equal(t, []string{"soup--classic"}, doc.Metadata.Aliases)
	require.Len(t, doc.Steps, 1)
	assert.Equal(t, "Heat water.", doc.Steps[0].Text)
}

func TestParse_RecipeReference(t *testing.T) {
	doc, err := Parse("Lasagna", []byte("Spread @./sauces/Tomato Sauce{200%g} over the pasta."))
	require.NoError(t, err)
	require.Len(t, doc.Ingredients, 1)
	ing := doc.Ingredients[0]
	assert.True(t, ing.Reference)
	assert.Equal(t, "./sauces/Tomato Sauce", ing.Name)
	assert.Equal(t, quantity.New(200, "g"), ing.Amounts[0].Quantity)
}

func TestParse_IncompatibleMentionsStaySeparate(t *testing.T) {
	doc, err := Parse("Mix", []byte("Add @sugar{100%g}, then @sugar{2%tbsp} and @sugar{50%grams}."))
	require.NoError(t, err)
	sugar, ok := doc.Ingredient("sugar")
	require.True(t, ok)
	require.Len(t, sugar.Amounts, 2)
	assert.Equal(t, 150.0, sugar.Amounts[0].Amount)
	assert.Equal(t, "tbsp", sugar.Amounts[1].Unit)
}

func TestParse_LiteralSigils(t *testing.T) {
	doc, err := Parse("Mail", []byte("Email me @ home or use # and ~ freely."))
	require.NoError(t, err)
	assert.Empty(t, doc.Ingredients)
	assert.Empty(t, doc.Cookware)
	assert.Empty(t, doc.Timers)
	require.Len(t, doc.Steps, 1)
	assert.Equal(t, "Email me @ home or use # and ~ freely.", doc.Steps[0].Text)
}

func TestParse_BlockComments(t *testing.T) {
	doc, err := Parse("C", []byte("Boil @water{1%l}. [- not\nan @ingredient{1} -]Done."))
	require.NoError(t, err)
	assert.Len(t, doc.Ingredients, 1)
}

func TestParse_SyntaxErrors(t *testing.T) {
	cases := map[string]struct {
		src  string
		line int
	}{
		"unclosed brace":         {src: "Intro.\n\nAdd @flour{100%g and stir.", line: 3},
		"unclosed block comment": {src: "Step one.\n[- forgotten", line: 2},
		"unclosed front matter":  {src: "---\ntitle: x\n", line: 1},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse("x", []byte(tc.src))
			var syn *SyntaxError
			require.True(t, errors.As(err, &syn), "got %v", err)
			assert.Equal(t, tc.line, syn.Line)
		})
	}
}

func TestReadAliases(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Pancakes.cook")
	require.NoError(t, os.WriteFile(path, []byte(pancakes), 0o644))

	aliases, err := ReadAliases(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"flapjacks"}, aliases)

	_, err = ReadAliases(filepath.Join(t.TempDir(), "missing.cook"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
