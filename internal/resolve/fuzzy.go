package resolve

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/agext/levenshtein"
	"github.com/vk/cookcli/internal/index"
)

const (
	// DefaultThreshold is the similarity a fuzzy candidate must exceed.
	DefaultThreshold = 0.6
	// DefaultTieMargin is the lead the best fuzzy candidate needs over the
	// runner-up to be picked on its own.
	DefaultTieMargin = 0.05
)

// similarity is 1 - editDistance/maxLength over runes.
func similarity(a, b string) float64 {
	la, lb := utf8.RuneCountInString(a), utf8.RuneCountInString(b)
	longest := max(la, lb)
	if longest == 0 {
		return 1
	}
	return 1 - float64(levenshtein.Distance(a, b, nil))/float64(longest)
}

// tokenSubset scores a query whose every token appears in the key. Keys
// with fewer extra tokens score higher.
func tokenSubset(query, key string) float64 {
	qt := strings.Fields(query)
	kt := strings.Fields(key)
	if len(qt) == 0 || len(kt) == 0 {
		return 0
	}
	have := make(map[string]bool, len(kt))
	for _, t := range kt {
		have[t] = true
	}
	for _, t := range qt {
		if !have[t] {
			return 0
		}
	}
	return 0.8 + 0.2*float64(len(qt))/float64(max(len(qt), len(kt)))
}

// score rates one key against the query.
func score(query, key string) float64 {
	return max(similarity(query, key), tokenSubset(query, key))
}

// rank scores every entry of the snapshot against the normalized query.
// The result is ordered by descending score, then by index order.
func rank(entries []*index.Entry, query string) []Candidate {
	pathQuery := strings.Contains(query, "/")
	out := make([]Candidate, 0, len(entries))
	for _, e := range entries {
		best := Candidate{Entry: e}
		consider := func(key, by string) {
			if s := score(query, key); s > best.Score {
				best.Score = s
				best.MatchedBy = by
			}
		}
		if pathQuery {
			consider(e.PathKey(), "path")
		} else {
			consider(e.Key, "name")
			for _, alias := range e.AliasKeys() {
				consider(alias, "alias:"+alias)
			}
		}
		if best.Score > 0 {
			out = append(out, best)
		}
	}
	// entries arrive in index order, so a stable sort keeps it for ties
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

// pick applies the threshold and tie margin to ranked candidates. It
// returns the single winner, or the candidates a caller must choose from.
func pick(ranked []Candidate, threshold, margin float64) (*Candidate, []Candidate) {
	if len(ranked) == 0 || ranked[0].Score <= threshold {
		return nil, nil
	}
	best := ranked[0]
	if len(ranked) == 1 || best.Score-ranked[1].Score > margin {
		return &best, nil
	}
	var out []Candidate
	for _, c := range ranked {
		if c.Score > threshold || best.Score-c.Score <= margin {
			out = append(out, c)
		}
	}
	return nil, out
}
