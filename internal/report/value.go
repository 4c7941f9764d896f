package report

import (
	"strings"

	"github.com/vk/cookcli/internal/quantity"
)

// ValueKind is the dynamic type of a Value.
type ValueKind int

const (
	KindString ValueKind = iota
	KindNumber
	KindQuantity
	KindBool
	KindList
)

func (k ValueKind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindQuantity:
		return "quantity"
	case KindBool:
		return "bool"
	case KindList:
		return "list"
	default:
		return "string"
	}
}

// Value is the result of evaluating an expression. Only the field matching
// Kind is meaningful.
type Value struct {
	Kind     ValueKind
	Str      string
	Num      float64
	Quantity quantity.Quantity
	Bool     bool
	List     []Value
}

// String returns a string value.
func String(s string) Value { return Value{Kind: KindString, Str: s} }

// Number returns a number value.
func Number(n float64) Value { return Value{Kind: KindNumber, Num: n} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{Kind: KindBool, Bool: b} }

// List returns a list value.
func List(items ...Value) Value { return Value{Kind: KindList, List: items} }

// Strings returns a list of strings.
func Strings(items []string) Value {
	out := make([]Value, 0, len(items))
	for _, s := range items {
		out = append(out, String(s))
	}
	return List(out...)
}

// Quantity returns a quantity value. Unitless numeric quantities become
// numbers and non-numeric ones become strings.
func Quantity(q quantity.Quantity) Value {
	switch {
	case !q.IsNumeric():
		return String(q.String())
	case q.Unit == "":
		return Number(q.Amount)
	default:
		return Value{Kind: KindQuantity, Quantity: q}
	}
}

// Render formats the value for output. Numbers use up to three decimals,
// quantities are followed by their unit and lists are comma separated.
func (v Value) Render() string {
	switch v.Kind {
	case KindNumber:
		return quantity.FormatNumber(v.Num)
	case KindQuantity:
		return v.Quantity.String()
	case KindBool:
		if v.Bool {
			return "true"
		}
		return "false"
	case KindList:
		parts := make([]string, 0, len(v.List))
		for _, item := range v.List {
			parts = append(parts, item.Render())
		}
		return strings.Join(parts, ", ")
	default:
		return v.Str
	}
}

// RenderFixed formats numbers and quantities with exactly the given
// number of decimals. Other values render as usual.
func (v Value) RenderFixed(decimals int) string {
	switch v.Kind {
	case KindNumber:
		return quantity.FormatFixed(v.Num, decimals)
	case KindQuantity:
		s := quantity.FormatFixed(v.Quantity.Amount, decimals)
		if v.Quantity.Unit != "" {
			s += " " + v.Quantity.Unit
		}
		return s
	default:
		return v.Render()
	}
}
