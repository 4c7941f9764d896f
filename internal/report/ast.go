package report

import (
	"github.com/hashicorp/hcl/v2"
)

// Node is an expression or body item of a report definition. The set of
// node types is closed; evaluators switch over it exhaustively.
type Node interface {
	SrcRange() hcl.Range
	node()
}

// Pos is embedded by every node to carry its source range.
type Pos struct {
	Range hcl.Range
}

// SrcRange returns where the node was written.
func (p Pos) SrcRange() hcl.Range { return p.Range }

func (Pos) node() {}

// Literal is a constant value.
type Literal struct {
	Pos
	Value Value
}

// RecipeRef names a bound recipe. On its own it evaluates to the recipe's
// title.
type RecipeRef struct {
	Pos
	Label string
}

// FieldKind enumerates the recipe fields a report can read.
type FieldKind int

const (
	FieldTitle FieldKind = iota
	FieldServings
	FieldTags
	FieldTag        // tag.<name>: whether the tag is present
	FieldIngredient // ingredient.<name>: total quantity
	FieldIngredients
	FieldCookware
	FieldSteps
	FieldSource
	FieldDescription
)

var fieldNames = map[string]FieldKind{
	"title":       FieldTitle,
	"servings":    FieldServings,
	"tags":        FieldTags,
	"tag":         FieldTag,
	"ingredient":  FieldIngredient,
	"ingredients": FieldIngredients,
	"cookware":    FieldCookware,
	"steps":       FieldSteps,
	"source":      FieldSource,
	"description": FieldDescription,
}

// LookupField maps a field name to its kind.
func LookupField(name string) (FieldKind, bool) {
	k, ok := fieldNames[name]
	return k, ok
}

// Keyed reports whether the field takes a name, as in ingredient.<name>.
func (k FieldKind) Keyed() bool {
	return k == FieldTag || k == FieldIngredient
}

func (k FieldKind) String() string {
	for name, kind := range fieldNames {
		if kind == k {
			return name
		}
	}
	return "unknown"
}

// Field is a recipe field, with the key for keyed fields.
type Field struct {
	Kind FieldKind
	Key  string
}

func (f Field) String() string {
	if f.Kind.Keyed() {
		return f.Kind.String() + "." + f.Key
	}
	return f.Kind.String()
}

// FieldAccess reads a field of a bound recipe. Unknown fields are kept as
// Raw with Known set to false so the evaluator can report them.
type FieldAccess struct {
	Pos
	Recipe string
	Field  Field
	Known  bool
	Raw    string
}

// ArithOp is an arithmetic operator.
type ArithOp int

const (
	OpAdd ArithOp = iota
	OpSub
	OpMul
	OpDiv
)

func (o ArithOp) String() string {
	return [...]string{"+", "-", "*", "/"}[o]
}

// Arithmetic combines two numbers or quantities.
type Arithmetic struct {
	Pos
	Op          ArithOp
	Left, Right Node
}

// CompareOp is a comparison operator.
type CompareOp int

const (
	OpEq CompareOp = iota
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
)

func (o CompareOp) String() string {
	return [...]string{"==", "!=", "<", "<=", ">", ">="}[o]
}

// Compare compares two values.
type Compare struct {
	Pos
	Op          CompareOp
	Left, Right Node
}

// LogicalOp is && or ||.
type LogicalOp int

const (
	OpAnd LogicalOp = iota
	OpOr
)

func (o LogicalOp) String() string {
	if o == OpAnd {
		return "&&"
	}
	return "||"
}

// Logical is a short-circuit boolean operator.
type Logical struct {
	Pos
	Op          LogicalOp
	Left, Right Node
}

// Not negates a boolean.
type Not struct {
	Pos
	Operand Node
}

// UnitConversion converts a quantity into another unit.
type UnitConversion struct {
	Pos
	Operand Node
	Unit    string
}

// Aggregate totals one ingredient across every bound recipe.
type Aggregate struct {
	Pos
	Ingredient string
}

// LocalRef reads a value declared in the locals block.
type LocalRef struct {
	Pos
	Name string
}

// LoopField enumerates the per-ingredient loop variables.
type LoopField int

const (
	LoopName LoopField = iota
	LoopQuantity
	LoopAmount
	LoopUnit
	LoopNote
	LoopCategory
	LoopOptional
)

var loopFieldNames = map[string]LoopField{
	"name":     LoopName,
	"quantity": LoopQuantity,
	"amount":   LoopAmount,
	"unit":     LoopUnit,
	"note":     LoopNote,
	"category": LoopCategory,
	"optional": LoopOptional,
}

// LookupLoopField maps a loop variable attribute to its kind.
func LookupLoopField(name string) (LoopField, bool) {
	f, ok := loopFieldNames[name]
	return f, ok
}

// LoopVar reads an attribute of the current loop ingredient. Unknown
// attributes are kept as Raw with Known set to false.
type LoopVar struct {
	Pos
	Field LoopField
	Known bool
	Raw   string
}

// AllRecipes is the LoopIngredients target that iterates the merged
// ingredients of every bound recipe.
const AllRecipes = "*"

// LoopIngredients renders Text once per ingredient of a recipe, in
// document order, skipping those for which Filter is false.
type LoopIngredients struct {
	Pos
	Recipe string
	Filter Node // may be nil
	Text   Node
}

// Conditional picks Then or Else. Else may be nil for a line's when
// clause.
type Conditional struct {
	Pos
	Cond       Node
	Then, Else Node
}

// TemplatePart is literal text or an interpolated expression.
type TemplatePart struct {
	Literal  string
	Expr     Node
	Decimals int // for Expr; negative means the default format
}

// Template renders its parts into one string.
type Template struct {
	Pos
	Parts []TemplatePart
}

// Line emits one output line when When is nil or true.
type Line struct {
	Pos
	When Node
	Text Node
}

var (
	_ Node = (*Literal)(nil)
	_ Node = (*RecipeRef)(nil)
	_ Node = (*FieldAccess)(nil)
	_ Node = (*Arithmetic)(nil)
	_ Node = (*Compare)(nil)
	_ Node = (*Logical)(nil)
	_ Node = (*Not)(nil)
	_ Node = (*UnitConversion)(nil)
	_ Node = (*Aggregate)(nil)
	_ Node = (*LocalRef)(nil)
	_ Node = (*LoopVar)(nil)
	_ Node = (*LoopIngredients)(nil)
	_ Node = (*Conditional)(nil)
	_ Node = (*Template)(nil)
	_ Node = (*Line)(nil)
)
