package freq

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountAndBump(t *testing.T) {
	s := Open(t.TempDir())

	assert.Equal(t, 0, s.Count("Firefox"))

	require.NoError(t, s.Bump("Firefox"))
	require.NoError(t, s.Bump("Firefox"))
	require.NoError(t, s.Bump("Files"))

	assert.Equal(t, 2, s.Count("Firefox"))
	assert.Equal(t, 1, s.Count("Files"))
}

func TestPersistsAcrossOpens(t *testing.T) {
	dir := t.TempDir()

	s := Open(dir)
	require.NoError(t, s.Bump("Terminal"))

	s2 := Open(dir)
	assert.Equal(t, 1, s2.Count("Terminal"))
}

func TestAwkwardNames(t *testing.T) {
	s := Open(t.TempDir())

	// Names with separators and spaces must not leak into file paths.
	name := "My App / Editor (beta)"
	require.NoError(t, s.Bump(name))
	assert.Equal(t, 1, s.Count(name))
}

func TestAll(t *testing.T) {
	s := Open(t.TempDir())
	require.NoError(t, s.Bump("A"))
	require.NoError(t, s.Bump("B"))
	require.NoError(t, s.Bump("B"))

	counts := s.All()
	assert.Equal(t, map[string]int{"A": 1, "B": 2}, counts)
}
