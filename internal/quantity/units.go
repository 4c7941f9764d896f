package quantity

import (
	"fmt"
	"sort"
	"strings"
)

// Dimension groups units that convert into each other.
type Dimension int

const (
	DimensionUnknown Dimension = iota
	DimensionMass
	DimensionVolume
	DimensionCount
	DimensionTime
)

func (d Dimension) String() string {
	switch d {
	case DimensionMass:
		return "mass"
	case DimensionVolume:
		return "volume"
	case DimensionCount:
		return "count"
	case DimensionTime:
		return "time"
	default:
		return "unknown"
	}
}

// ParseDimension maps a configuration key onto a Dimension.
func ParseDimension(s string) (Dimension, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "mass", "weight":
		return DimensionMass, nil
	case "volume":
		return DimensionVolume, nil
	case "count":
		return DimensionCount, nil
	case "time":
		return DimensionTime, nil
	default:
		return DimensionUnknown, fmt.Errorf("unknown unit dimension %q", s)
	}
}

// Unit is one entry of a Table. Factor converts an amount in this unit into
// the dimension's base unit (g, ml, pieces, seconds).
type Unit struct {
	Name      string
	Dimension Dimension
	Factor    float64
}

// Table is an immutable unit conversion table. Use Extend to derive a table
// with additional units.
type Table struct {
	units map[string]Unit
}

type unitDef struct {
	name    string
	factor  float64
	aliases []string
}

var defaultUnits = map[Dimension][]unitDef{
	DimensionMass: {
		{"g", 1, []string{"gram", "grams", "gr"}},
		{"kg", 1000, []string{"kilogram", "kilograms", "kilo", "kilos"}},
		{"mg", 0.001, []string{"milligram", "milligrams"}},
		{"oz", 28.349523125, []string{"ounce", "ounces"}},
		{"lb", 453.59237, []string{"lbs", "pound", "pounds"}},
	},
	DimensionVolume: {
		{"ml", 1, []string{"milliliter", "milliliters", "millilitre", "millilitres"}},
		{"cl", 10, []string{"centiliter", "centiliters", "centilitre", "centilitres"}},
		{"dl", 100, []string{"deciliter", "deciliters", "decilitre", "decilitres"}},
		{"l", 1000, []string{"liter", "liters", "litre", "litres"}},
		{"tsp", 4.92892159375, []string{"teaspoon", "teaspoons"}},
		{"tbsp", 14.78676478125, []string{"tbs", "tablespoon", "tablespoons"}},
		{"fl oz", 29.5735295625, []string{"floz", "fluid ounce", "fluid ounces"}},
		{"cup", 236.5882365, []string{"cups"}},
		{"pint", 473.176473, []string{"pints", "pt"}},
		{"quart", 946.352946, []string{"quarts", "qt"}},
		{"gallon", 3785.411784, []string{"gallons", "gal"}},
	},
	DimensionCount: {
		{"", 1, nil},
		{"pc", 1, []string{"pcs", "piece", "pieces"}},
		{"dozen", 12, nil},
	},
	DimensionTime: {
		{"s", 1, []string{"sec", "secs", "second", "seconds"}},
		{"min", 60, []string{"mins", "minute", "minutes"}},
		{"h", 3600, []string{"hr", "hrs", "hour", "hours"}},
		{"d", 86400, []string{"day", "days"}},
	},
}

// DefaultTable returns the built-in metric and US customary units.
func DefaultTable() *Table {
	t := &Table{units: make(map[string]Unit)}
	for dim, defs := range defaultUnits {
		for _, def := range defs {
			u := Unit{Name: def.name, Dimension: dim, Factor: def.factor}
			t.units[unitKey(def.name)] = u
			for _, alias := range def.aliases {
				t.units[unitKey(alias)] = u
			}
		}
	}
	return t
}

// Extend returns a copy of the table with the given units added or
// replaced. The map is keyed by dimension name, then unit name.
func (t *Table) Extend(extra map[string]map[string]float64) (*Table, error) {
	out := &Table{units: make(map[string]Unit, len(t.units))}
	for k, v := range t.units {
		out.units[k] = v
	}

	dims := make([]string, 0, len(extra))
	for dim := range extra {
		dims = append(dims, dim)
	}
	sort.Strings(dims)

	for _, dimName := range dims {
		dim, err := ParseDimension(dimName)
		if err != nil {
			return nil, err
		}
		for name, factor := range extra[dimName] {
			if factor <= 0 {
				return nil, fmt.Errorf("unit %q: factor must be positive, got %v", name, factor)
			}
			out.units[unitKey(name)] = Unit{Name: strings.TrimSpace(name), Dimension: dim, Factor: factor}
		}
	}
	return out, nil
}

// Lookup finds a unit by name or alias, case-insensitively.
func (t *Table) Lookup(unit string) (Unit, bool) {
	u, ok := t.units[unitKey(unit)]
	return u, ok
}

// Canonical returns the table's canonical name for a unit. Units the table
// does not know are returned lower-cased and trimmed.
func (t *Table) Canonical(unit string) string {
	if u, ok := t.Lookup(unit); ok {
		return u.Name
	}
	return unitKey(unit)
}

// Compatible reports whether amounts in the two units can be combined.
func (t *Table) Compatible(a, b string) bool {
	_, _, err := t.factors(a, b)
	return err == nil
}

// factors returns the conversion factors of both units into their shared
// base unit. Unknown units are only compatible with themselves.
func (t *Table) factors(a, b string) (float64, float64, error) {
	ua, okA := t.Lookup(a)
	ub, okB := t.Lookup(b)
	switch {
	case okA && okB && ua.Dimension == ub.Dimension:
		return ua.Factor, ub.Factor, nil
	case !okA && !okB && unitKey(a) == unitKey(b):
		return 1, 1, nil
	default:
		return 0, 0, &IncompatibleUnitsError{From: a, To: b}
	}
}

func unitKey(unit string) string {
	return strings.ToLower(strings.Join(strings.Fields(unit), " "))
}
