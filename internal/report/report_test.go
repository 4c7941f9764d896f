package report

import (
	"errors"
	"testing"

	"github.com/hashicorp/hcl/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/cookcli/internal/quantity"
)

func TestValue_Render(t *testing.T) {
	testCases := []struct {
		name  string
		value Value
		want  string
		fixed string
	}{
		{"string", String("soup"), "soup", "soup"},
		{"number", Number(4.0 / 3), "1.333", "1.33"},
		{"whole number", Number(8), "8", "8.00"},
		{"quantity", Quantity(quantity.New(1.6, "kg")), "1.6 kg", "1.60 kg"},
		{"unitless quantity", Quantity(quantity.New(2, "")), "2", "2.00"},
		{"text quantity", Quantity(quantity.Parse("a pinch", "")), "a pinch", "a pinch"},
		{"bool", Bool(true), "true", "true"},
		{"list", Strings([]string{"vegan", "soup"}), "vegan, soup", "vegan, soup"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.value.Render())
			assert.Equal(t, tc.fixed, tc.value.RenderFixed(2))
		})
	}
}

func TestQuantity_Kinds(t *testing.T) {
	assert.Equal(t, KindQuantity, Quantity(quantity.New(1, "g")).Kind)
	assert.Equal(t, KindNumber, Quantity(quantity.Number(3)).Kind)
	assert.Equal(t, KindString, Quantity(quantity.Parse("some", "")).Kind)
}

func TestEvalError(t *testing.T) {
	cause := errors.New("boom")
	err := &EvalError{
		Kind:    IncompatibleUnits,
		Range:   hcl.Range{Filename: "plan.hcl", Start: hcl.Pos{Line: 3, Column: 1}, End: hcl.Pos{Line: 3, Column: 9}},
		Subject: "recipe.soup.ingredient.salt",
		Err:     cause,
	}

	require.ErrorIs(t, err, ErrIncompatibleUnits)
	assert.NotErrorIs(t, err, ErrTypeMismatch)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "plan.hcl:3")
	assert.Contains(t, err.Error(), "incompatible units recipe.soup.ingredient.salt: boom")
	assert.Equal(t, "IncompatibleUnits", err.Kind.String())

	bare := &EvalError{Kind: DepthExceeded}
	assert.Equal(t, "expression nesting too deep", bare.Error())
}
