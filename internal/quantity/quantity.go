package quantity

import (
	"math"
	"strconv"
	"strings"
)

// Quantity is an immutable amount. A quantity with a non-empty Text is
// non-numeric and carries no Amount.
type Quantity struct {
	Amount float64
	Unit   string
	Text   string
}

// New returns a numeric quantity.
func New(amount float64, unit string) Quantity {
	return Quantity{Amount: amount, Unit: strings.TrimSpace(unit)}
}

// Number returns a unitless numeric quantity.
func Number(amount float64) Quantity {
	return Quantity{Amount: amount}
}

// Parse builds a quantity from the raw value and unit parts of a recipe
// amount. Values that are not numbers are kept verbatim as text.
func Parse(value, unit string) Quantity {
	value = strings.TrimSpace(value)
	if v, ok := ParseAmount(value); ok {
		return New(v, unit)
	}
	return Quantity{Text: value, Unit: strings.TrimSpace(unit)}
}

// IsNumeric reports whether the quantity has a usable magnitude.
func (q Quantity) IsNumeric() bool {
	return q.Text == ""
}

// Scale multiplies the magnitude. Text quantities are returned unchanged.
func (q Quantity) Scale(factor float64) Quantity {
	if !q.IsNumeric() {
		return q
	}
	q.Amount *= factor
	return q
}

// String renders the quantity, e.g. "1600 g", "2" or "a pinch".
func (q Quantity) String() string {
	var value string
	if q.IsNumeric() {
		value = FormatNumber(q.Amount)
	} else {
		value = q.Text
	}
	if q.Unit == "" {
		return value
	}
	return value + " " + q.Unit
}

// FormatNumber renders a number with at most three decimals and no
// trailing zeros.
func FormatNumber(v float64) string {
	r := math.Round(v*1000) / 1000
	if r == 0 {
		r = 0 // normalizes -0
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}

// FormatFixed renders a number with exactly the given number of decimals.
func FormatFixed(v float64, decimals int) string {
	if decimals < 0 {
		decimals = 0
	}
	s := strconv.FormatFloat(v, 'f', decimals, 64)
	if strings.Trim(s, "-0.") == "" {
		s = strings.TrimPrefix(s, "-")
	}
	return s
}

// ParseAmount parses the numeric forms used in recipes: "2", "1.5", "1,5",
// "1/2" and mixed fractions like "1 1/2".
func ParseAmount(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	if whole, frac, ok := strings.Cut(s, " "); ok {
		w, okW := parseSimple(whole)
		f, okF := parseFraction(strings.TrimSpace(frac))
		if !okW || !okF || w < 0 {
			return 0, false
		}
		return w + f, true
	}

	if strings.Contains(s, "/") {
		return parseFraction(s)
	}
	return parseSimple(s)
}

func parseSimple(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

func parseFraction(s string) (float64, bool) {
	num, den, ok := strings.Cut(s, "/")
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(num), 64)
	if err != nil {
		return 0, false
	}
	d, err := strconv.ParseFloat(strings.TrimSpace(den), 64)
	if err != nil || d == 0 {
		return 0, false
	}
	return n / d, true
}
