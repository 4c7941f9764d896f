package index

import (
	"strings"

	"golang.org/x/text/cases"
)

// Normalize folds a reference or name into its lookup key: backslashes
// become slashes, underscores and hyphens become spaces, case is folded and
// runs of whitespace collapse to one space. It does not strip extensions.
func Normalize(s string) string {
	s = strings.NewReplacer(`\`, "/", "_", " ", "-", " ").Replace(s)
	s = cases.Fold().String(s)
	return strings.Join(strings.Fields(s), " ")
}

// stripExtension removes ext from the end of s, ignoring case.
func stripExtension(s, ext string) string {
	if len(s) > len(ext) && strings.EqualFold(s[len(s)-len(ext):], ext) {
		return s[:len(s)-len(ext)]
	}
	return s
}

// pathSegments normalizes every segment of a slash or backslash separated
// path fragment. Empty and "." segments are dropped.
func pathSegments(fragment, ext string) []string {
	fragment = strings.ReplaceAll(stripExtension(strings.TrimSpace(fragment), ext), `\`, "/")
	var out []string
	for _, seg := range strings.Split(fragment, "/") {
		if seg == "" || seg == "." {
			continue
		}
		if n := Normalize(seg); n != "" {
			out = append(out, n)
		}
	}
	return out
}

// HasSeparator reports whether a reference names a path rather than a
// bare recipe name.
func HasSeparator(ref string) bool {
	return strings.ContainsAny(ref, `/\`)
}
