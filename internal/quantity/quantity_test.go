package quantity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"2", 2, true},
		{"1.5", 1.5, true},
		{"1,5", 1.5, true},
		{"1/2", 0.5, true},
		{"1 1/2", 1.5, true},
		{" 3 ", 3, true},
		{"", 0, false},
		{"some", 0, false},
		{"1/0", 0, false},
		{"a 1/2", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseAmount(tt.in)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.InDelta(t, tt.want, got, 1e-9)
			}
		})
	}
}

func TestParse(t *testing.T) {
	q := Parse("800", "g")
	assert.True(t, q.IsNumeric())
	assert.Equal(t, "800 g", q.String())

	text := Parse("a pinch", "")
	assert.False(t, text.IsNumeric())
	assert.Equal(t, "a pinch", text.String())
	assert.Equal(t, text, text.Scale(3), "text quantities do not scale")
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "1600", FormatNumber(1600))
	assert.Equal(t, "0.333", FormatNumber(1.0/3))
	assert.Equal(t, "0.8", FormatNumber(0.8000000000000002))
	assert.Equal(t, "0", FormatNumber(-0.0001))
}

func TestFormatFixed(t *testing.T) {
	assert.Equal(t, "1.60", FormatFixed(1.6, 2))
	assert.Equal(t, "2", FormatFixed(1.6, 0))
	assert.Equal(t, "0.0", FormatFixed(-0.01, 1))
}

func TestTable_Convert(t *testing.T) {
	table := DefaultTable()

	kg, err := table.Convert(New(800, "g"), "kg")
	require.NoError(t, err)
	assert.Equal(t, "0.8 kg", kg.String())

	grams, err := table.Convert(New(1, "Kilograms"), "g")
	require.NoError(t, err)
	assert.InDelta(t, 1000, grams.Amount, 1e-9)

	_, err = table.Convert(New(1, "g"), "ml")
	assert.ErrorIs(t, err, ErrIncompatibleUnits)

	_, err = table.Convert(Parse("some", ""), "g")
	assert.ErrorIs(t, err, ErrNotNumeric)
}

func TestTable_Add(t *testing.T) {
	table := DefaultTable()

	t.Run("converts into the left unit", func(t *testing.T) {
		sum, err := table.Add(New(500, "g"), New(1, "kg"))
		require.NoError(t, err)
		assert.Equal(t, "1500 g", sum.String())
	})

	t.Run("mass and volume never mix", func(t *testing.T) {
		_, err := table.Add(New(500, "g"), New(100, "ml"))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrIncompatibleUnits)

		var unitsErr *IncompatibleUnitsError
		require.ErrorAs(t, err, &unitsErr)
		assert.Equal(t, "g", unitsErr.From)
		assert.Equal(t, "ml", unitsErr.To)
	})

	t.Run("unknown units only combine with themselves", func(t *testing.T) {
		sum, err := table.Add(New(2, "cloves"), New(1, "Cloves"))
		require.NoError(t, err)
		assert.Equal(t, 3.0, sum.Amount)

		_, err = table.Add(New(2, "cloves"), New(1, "heads"))
		assert.ErrorIs(t, err, ErrIncompatibleUnits)
	})

	t.Run("unitless counts combine with pieces", func(t *testing.T) {
		sum, err := table.Add(Number(2), New(1, "dozen"))
		require.NoError(t, err)
		assert.Equal(t, 14.0, sum.Amount)
	})
}

func TestTable_Ratio(t *testing.T) {
	table := DefaultTable()

	r, err := table.Ratio(New(1, "kg"), New(250, "g"))
	require.NoError(t, err)
	assert.InDelta(t, 4, r, 1e-9)

	_, err = table.Ratio(New(1, "kg"), New(0, "g"))
	assert.ErrorIs(t, err, ErrDivideByZero)
}

func TestTable_Sum(t *testing.T) {
	table := DefaultTable()

	total, err := table.Sum([]Quantity{New(1, "tbsp"), New(3, "tsp")})
	require.NoError(t, err)
	assert.InDelta(t, 2, total.Amount, 1e-9)
	assert.Equal(t, "tbsp", total.Unit)

	zero, err := table.Sum(nil)
	require.NoError(t, err)
	assert.Equal(t, Number(0), zero)
}

func TestTable_Extend(t *testing.T) {
	table, err := DefaultTable().Extend(map[string]map[string]float64{
		"mass": {"stone": 6350.29318},
	})
	require.NoError(t, err)

	kg, err := table.Convert(New(1, "stone"), "kg")
	require.NoError(t, err)
	assert.InDelta(t, 6.35029318, kg.Amount, 1e-9)

	_, ok := DefaultTable().Lookup("stone")
	assert.False(t, ok, "extending must not modify the source table")

	_, err = DefaultTable().Extend(map[string]map[string]float64{"colour": {"red": 1}})
	assert.ErrorContains(t, err, "unknown unit dimension")

	_, err = DefaultTable().Extend(map[string]map[string]float64{"mass": {"nothing": 0}})
	assert.ErrorContains(t, err, "factor must be positive")
}

func TestTable_Canonical(t *testing.T) {
	table := DefaultTable()
	assert.Equal(t, "g", table.Canonical("Grams"))
	assert.Equal(t, "tbsp", table.Canonical("tablespoons"))
	assert.Equal(t, "cloves", table.Canonical(" Cloves "))
	assert.True(t, table.Compatible("cup", "ml"))
	assert.False(t, table.Compatible("cup", "g"))
}

func TestTable_Group(t *testing.T) {
	units := DefaultTable()
	got := units.Group([]Quantity{
		New(100, "g"),
		New(2, "tbsp"),
		Parse("a pinch", ""),
		New(0.5, "kg"),
		New(1, "tablespoon"),
		Parse("some", ""),
	})
	assert.Equal(t, []Quantity{
		New(600, "g"),
		New(3, "tbsp"),
		{Text: "a pinch"},
		{Text: "some"},
	}, got)

	assert.Empty(t, units.Group(nil))
}
