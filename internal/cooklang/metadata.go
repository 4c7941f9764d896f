package cooklang

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/vk/cookcli/internal/recipe"
	"gopkg.in/yaml.v3"
)

// ReadAliases reads only the metadata of a recipe file and returns its
// declared aliases.
func ReadAliases(path string) ([]string, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	meta, err := ParseMetadata(src)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return meta.Aliases, nil
}

// ParseMetadata extracts the front matter and ">>" metadata lines without
// tokenizing the method.
func ParseMetadata(src []byte) (recipe.Metadata, error) {
	var meta recipe.Metadata
	lines, body, err := splitFrontMatter(normalizeNewlines(string(src)))
	if err != nil {
		return meta, err
	}
	if err := applyFrontMatter(&meta, lines); err != nil {
		return meta, err
	}
	for _, line := range strings.Split(body, "\n") {
		if key, value, ok := metadataLine(line); ok {
			applyMeta(&meta, key, value)
		}
	}
	return meta, nil
}

func normalizeNewlines(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "\r\n", "\n"), "\r", "\n")
}

// splitFrontMatter returns the YAML front matter (nil when absent) and the
// remaining text. The front matter lines are replaced by empty lines in the
// body so line numbers stay accurate.
func splitFrontMatter(text string) ([]string, string, error) {
	lines := strings.Split(text, "\n")
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != "---" {
		return nil, text, nil
	}
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			front := lines[1:i]
			rest := make([]string, len(lines))
			copy(rest[i+1:], lines[i+1:])
			return front, strings.Join(rest, "\n"), nil
		}
	}
	return nil, "", syntaxErrorf(1, "front matter is not closed with ---")
}

func applyFrontMatter(meta *recipe.Metadata, lines []string) error {
	if len(lines) == 0 {
		return nil
	}
	var raw map[string]any
	if err := yaml.Unmarshal([]byte(strings.Join(lines, "\n")), &raw); err != nil {
		return syntaxErrorf(2, "invalid front matter: %v", err)
	}
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		applyMeta(meta, k, raw[k])
	}
	return nil
}

// metadataLine recognizes ">> key: value".
func metadataLine(line string) (string, string, bool) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, ">>") {
		return "", "", false
	}
	key, value, ok := strings.Cut(strings.TrimSpace(trimmed[2:]), ":")
	if !ok {
		return "", "", false
	}
	return strings.TrimSpace(key), strings.TrimSpace(value), true
}

func applyMeta(meta *recipe.Metadata, key string, value any) {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "title":
		meta.Title = scalar(value)
	case "tags", "tag":
		meta.Tags = list(value)
	case "servings", "serves", "yield":
		meta.Servings = leadingNumber(scalar(value))
	case "aliases", "alias":
		meta.Aliases = list(value)
	case "source":
		meta.Source = sourceValue(value)
	case "description", "introduction":
		meta.Description = scalar(value)
	default:
		if meta.Extra == nil {
			meta.Extra = make(map[string]string)
		}
		meta.Extra[key] = scalar(value)
	}
}

func scalar(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	default:
		return strings.TrimSpace(fmt.Sprint(val))
	}
}

func list(v any) []string {
	var items []string
	switch val := v.(type) {
	case []any:
		for _, item := range val {
			if s := scalar(item); s != "" {
				items = append(items, s)
			}
		}
	default:
		for _, part := range strings.Split(scalar(val), ",") {
			if s := strings.TrimSpace(part); s != "" {
				items = append(items, s)
			}
		}
	}
	return items
}

func sourceValue(v any) string {
	if m, ok := v.(map[string]any); ok {
		if url := scalar(m["url"]); url != "" {
			return url
		}
		return scalar(m["name"])
	}
	return scalar(v)
}

// leadingNumber reads "4", "4-6" or "4 people" as 4.
func leadingNumber(s string) float64 {
	end := strings.IndexFunc(s, func(r rune) bool {
		return !unicode.IsDigit(r) && r != '.' && r != ','
	})
	if end >= 0 {
		s = s[:end]
	}
	if v, err := strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64); err == nil && v > 0 {
		return v
	}
	return 0
}
