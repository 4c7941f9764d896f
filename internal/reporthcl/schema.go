package reporthcl

import (
	"github.com/hashicorp/hcl/v2"
)

// rootSchema lists the top-level blocks of a report file. Body blocks are
// read through hcl.Body.Content so their source order is preserved.
var rootSchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "title"},
	},
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "recipe", LabelNames: []string{"label"}},
		{Type: "locals"},
		{Type: "line"},
		{Type: "each_ingredient", LabelNames: []string{"recipe"}},
	},
}

// recipeBlock is the body of a `recipe "label" { ... }` block.
type recipeBlock struct {
	Ref      string   `hcl:"ref"`
	Servings *float64 `hcl:"servings,optional"`
	Scale    *float64 `hcl:"scale,optional"`
	Fuzzy    bool     `hcl:"fuzzy,optional"`
}

// lineBlock is the body of a `line { ... }` block.
type lineBlock struct {
	Text hcl.Expression `hcl:"text"`
	When hcl.Expression `hcl:"when,optional"`
}

// eachBlock is the body of an `each_ingredient "label" { ... }` block.
type eachBlock struct {
	Text   hcl.Expression `hcl:"text"`
	Filter hcl.Expression `hcl:"filter,optional"`
}
