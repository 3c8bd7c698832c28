package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterEmptyQuery(t *testing.T) {
	items := []Item{
		{Title: "Firefox"},
		{Title: "Files"},
		{Title: "Terminal"},
	}

	// An empty query keeps every item in its original order.
	idx := Filter(items, "")
	assert.Equal(t, []int{0, 1, 2}, idx)
}

func TestFilterExcludesNonMatches(t *testing.T) {
	items := []Item{
		{Title: "Firefox"},
		{Title: "Terminal"},
		{Title: "Files"},
	}

	idx := Filter(items, "fi")
	require.Len(t, idx, 2)
	for _, i := range idx {
		assert.NotEqual(t, "Terminal", items[i].Title)
	}
}

func TestFilterPrefersTighterMatch(t *testing.T) {
	items := []Item{
		{Title: "snapple"},
		{Title: "apple"},
	}

	idx := Filter(items, "apple")
	require.Len(t, idx, 2)
	assert.Equal(t, "apple", items[idx[0]].Title)
}

func TestFilterEarlierMatchRanksHigher(t *testing.T) {
	items := []Item{
		{Title: "apple"},
		{Title: "snapple"},
		{Title: "banana"},
	}

	idx := Filter(items, "ap")
	require.Len(t, idx, 2, "banana has no 'ap' subsequence")
	assert.Equal(t, 0, idx[0], "the earlier match outranks the later one")
	assert.Equal(t, 1, idx[1])
}

func TestFilterSubtitleWeighsLess(t *testing.T) {
	items := []Item{
		{Title: "Editor", Subtitle: "gimp image tool"},
		{Title: "gimp", Subtitle: ""},
	}

	idx := Filter(items, "gimp")
	require.Len(t, idx, 2)
	assert.Equal(t, "gimp", items[idx[0]].Title)
}

func TestFilterBonusBreaksOrder(t *testing.T) {
	items := []Item{
		{Title: "Terminal", Bonus: 0},
		{Title: "Terminal", Bonus: 500},
	}

	idx := Filter(items, "term")
	require.Len(t, idx, 2)
	assert.Equal(t, 1, idx[0], "the higher bonus wins between equal matches")
}

func TestFilterStableOnTies(t *testing.T) {
	items := []Item{
		{Title: "alpha"},
		{Title: "alpha"},
		{Title: "alpha"},
	}

	idx := Filter(items, "alpha")
	assert.Equal(t, []int{0, 1, 2}, idx, "equal scores keep snapshot order")
}

func TestFilterNoMatches(t *testing.T) {
	items := []Item{
		{Title: "Firefox"},
		{Title: "Files"},
	}

	idx := Filter(items, "zzz")
	assert.Empty(t, idx)
}

func TestFilterSubtitleOnlyMatch(t *testing.T) {
	items := []Item{
		{Title: "Shotwell", Subtitle: "Photo manager"},
		{Title: "Calculator", Subtitle: ""},
	}

	idx := Filter(items, "photo")
	require.Len(t, idx, 1)
	assert.Equal(t, 0, idx[0])
}
