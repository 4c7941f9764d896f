package report

// Provenance records which recipes, files and ingredient produced a line.
type Provenance struct {
	Recipes    []string `json:"recipes,omitempty"`
	Paths      []string `json:"paths,omitempty"`
	Ingredient string   `json:"ingredient,omitempty"`
}

// OutputLine is one rendered line of a report.
type OutputLine struct {
	Text       string     `json:"text"`
	Provenance Provenance `json:"provenance"`
}

// Result is the output of evaluating a Definition.
type Result struct {
	Title string       `json:"title,omitempty"`
	Lines []OutputLine `json:"lines"`
}
