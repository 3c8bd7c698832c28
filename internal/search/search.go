// Package search implements the fuzzy filter re-evaluated on every
// query keystroke. Matching is case-insensitive subsequence matching:
// a candidate matches iff every query character appears in order.
// Scores reward contiguous runs and early positions; ties keep the
// entries' original (recency) order.
package search

import (
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"
)

// Item is one searchable candidate. Bonus is added to a matching
// item's score; the launcher feeds launch-frequency counts through it.
type Item struct {
	Title    string
	Subtitle string
	Bonus    int
}

type titleSource []Item

func (s titleSource) String(i int) string { return s[i].Title }
func (s titleSource) Len() int            { return len(s) }

type subtitleSource []Item

func (s subtitleSource) String(i int) string { return s[i].Subtitle }
func (s subtitleSource) Len() int            { return len(s) }

// Filter returns the indices of matching items, best first. An empty
// query returns every index in original order. Subtitle matches count
// half; a title match always wins over a subtitle-only match at equal
// raw score.
func Filter(items []Item, query string) []int {
	if strings.TrimSpace(query) == "" {
		out := make([]int, len(items))
		for i := range items {
			out[i] = i
		}
		return out
	}

	scores := make(map[int]int, len(items))

	for _, m := range fuzzy.FindFrom(query, titleSource(items)) {
		scores[m.Index] = m.Score
	}
	for _, m := range fuzzy.FindFrom(query, subtitleSource(items)) {
		half := m.Score / 2
		if prev, ok := scores[m.Index]; !ok || half > prev {
			scores[m.Index] = half
		}
	}

	matched := make([]int, 0, len(scores))
	for idx := range scores {
		scores[idx] += items[idx].Bonus
		matched = append(matched, idx)
	}

	// Descending score; original order breaks ties. Sorting ascending
	// indices first makes the tie-break deterministic.
	sort.Ints(matched)
	sort.SliceStable(matched, func(a, b int) bool {
		return scores[matched[a]] > scores[matched[b]]
	})
	return matched
}
