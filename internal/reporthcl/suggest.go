package reporthcl

import (
	"fmt"
	"sort"

	"github.com/agext/levenshtein"
)

// suggestion returns a " Did you mean ...?" hint naming the closest known
// name, or an empty string when none is close.
func suggestion(given string, known []string) string {
	sorted := append([]string(nil), known...)
	sort.Strings(sorted)
	for _, name := range sorted {
		if levenshtein.Distance(given, name, nil) < 3 {
			return fmt.Sprintf(" Did you mean %q?", name)
		}
	}
	return ""
}

func keys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
