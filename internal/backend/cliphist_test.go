package backend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseList(t *testing.T) {
	out := []byte("42\thello world\n43\t[[ binary data 1.2 MiB png 800x600 ]]\n44\tline two\n")

	entries := ParseList(out)
	require.Len(t, entries, 3)

	assert.Equal(t, "42", entries[0].ID)
	assert.Equal(t, "hello world", entries[0].Preview)
	assert.Equal(t, "42\thello world", entries[0].Line)
	assert.False(t, entries[0].IsBinary)

	assert.Equal(t, "43", entries[1].ID)
	assert.True(t, entries[1].IsBinary)
}

func TestParseListEmpty(t *testing.T) {
	assert.Empty(t, ParseList(nil))
	assert.Empty(t, ParseList([]byte("\n\n")))
}

func TestParseListNoTab(t *testing.T) {
	entries := ParseList([]byte("lonely line\n"))
	require.Len(t, entries, 1)
	assert.Equal(t, "lonely line", entries[0].ID)
	assert.Equal(t, "lonely line", entries[0].Preview)
}

func TestParseListPreviewKeepsEmbeddedTabs(t *testing.T) {
	entries := ParseList([]byte("7\tcol1\tcol2\n"))
	require.Len(t, entries, 1)
	assert.Equal(t, "7", entries[0].ID)
	assert.Equal(t, "col1\tcol2", entries[0].Preview)
}
