package aisle

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/cookcli/internal/testutil"
)

const conf = `
; shop layout
[produce]
tomato|tomatoes
onion
Olive Oil|extra virgin olive oil

[dairy]
milk
butter

[baking]
flour
`

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(conf))
	require.NoError(t, err)

	assert.Equal(t, []string{"produce", "dairy", "baking"}, cfg.Categories())

	cases := [][2]string{
		{"tomato", "produce"},
		{"Tomatoes", "produce"},
		{"olive oil", "produce"},
		{"extra  virgin olive oil", "produce"},
		{"milk", "dairy"},
		{"flour", "baking"},
		{"saffron", Other},
	}
	for _, tc := range cases {
		assert.Equal(t, tc[1], cfg.Category(tc[0]), tc[0])
	}

	assert.Equal(t, 0, cfg.Rank("produce"))
	assert.Equal(t, 2, cfg.Rank("baking"))
	assert.Equal(t, 3, cfg.Rank(Other))
	assert.Equal(t, 4, cfg.Rank("mystery"))
}

func TestParse_IngredientBeforeSection(t *testing.T) {
	_, err := Parse([]byte("salt\n[spices]\npepper\n"))
	assert.ErrorContains(t, err, `"salt"`)
}

func TestLoad(t *testing.T) {
	dir := testutil.WriteTree(t, map[string]string{"aisle.conf": conf})
	cfg, err := Load(filepath.Join(dir, "aisle.conf"))
	require.NoError(t, err)
	assert.Equal(t, "dairy", cfg.Category("butter"))

	_, err = Load(filepath.Join(dir, "missing.conf"))
	assert.ErrorContains(t, err, "loading aisle config")
}

func TestNilConfig(t *testing.T) {
	var cfg *Config
	assert.Equal(t, Other, cfg.Category("anything"))
	assert.Equal(t, 0, cfg.Rank(Other))
	assert.Equal(t, Other, Empty().Category("anything"))
}
