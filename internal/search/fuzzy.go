package search

import (
	"sort"
	"strings"

	lfuzzy "github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/sahilm/fuzzy"
)

// Match is a filtered entry
type Match struct {
	Index          int   // index in the source slice
	Score          int   // higher is better
	MatchedIndexes []int // byte offsets in the title, for highlighting
}

// titles implements fuzzy.Source over lowercase titles
type titles []string

func (t titles) String(i int) string { return t[i] }
func (t titles) Len() int { return len(t) }

// Filter ranks titles against pattern. A single word is matched as a
// subsequence; several words must each match, in any order.
func Filter(pattern string, source []string) []Match {
	words := strings.Fields(strings.ToLower(pattern))
	if len(words) == 0 {
		return nil
	}
	lower := make(titles, len(source))
	for i, s := range source {
		lower[i] = strings.ToLower(s)
	}

	if len(words) == 1 {
		found := fuzzy.FindFrom(words[0], lower)
		out := make([]Match, len(found))
		for i, m := range found {
			out[i] = Match{Index: m.Index, Score: m.Score, MatchedIndexes: m.MatchedIndexes}
		}
		return out
	}

	var out []Match
	for i, title := range lower {
		if !matchesAll(words, title) {
			continue
		}
		m := Match{Index: i}
		for _, w := range words {
			// accented titles pass the prefilter but may not score here
			found := fuzzy.Find(w, []string{title})
			if len(found) == 0 {
				continue
			}
			m.Score += found[0].Score
			m.MatchedIndexes = append(m.MatchedIndexes, found[0].MatchedIndexes...)
		}
		m.MatchedIndexes = dedupeSorted(m.MatchedIndexes)
		out = append(out, m)
	}
	sort.SliceStable(out, func(a, b int) bool {
		if out[a].Score != out[b].Score {
			return out[a].Score > out[b].Score
		}
		return len(lower[out[a].Index]) < len(lower[out[b].Index])
	})
	return out
}

// matchesAll reports whether every word matches title as a folded,
// normalized subsequence
func matchesAll(words []string, title string) bool {
	for _, w := range words {
		if !lfuzzy.MatchNormalizedFold(w, title) {
			return false
		}
	}
	return true
}

func dedupeSorted(idx []int) []int {
	if len(idx) == 0 {
		return idx
	}
	sort.Ints(idx)
	out := idx[:1]
	for _, v := range idx[1:] {
		if v != out[len(out)-1] {
			out = append(out, v)
		}
	}
	return out
}
