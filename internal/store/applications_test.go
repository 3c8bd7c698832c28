package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vib1240n/overlayd/internal/backend"
	"github.com/vib1240n/overlayd/internal/entry"
)

func TestApplicationsProviderFetch(t *testing.T) {
	p := NewApplicationsProvider()
	p.load = func() []backend.DesktopEntry {
		return []backend.DesktopEntry{
			{Name: "Files", Exec: "nautilus", Description: "File Manager"},
			{Name: "Firefox", Exec: "firefox", Description: "Web Browser"},
		}
	}

	entries, err := p.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, entry.App, entries[0].Kind)
	assert.Equal(t, "Files", entries[0].ID)
	assert.Equal(t, "File Manager", entries[0].Subtitle)
	assert.Equal(t, "nautilus", entries[0].Raw)

	app, ok := p.Lookup("Firefox")
	require.True(t, ok)
	assert.Equal(t, "firefox", app.Exec)

	_, ok = p.Lookup("Nope")
	assert.False(t, ok)
}

func TestApplicationsProviderConcurrentLookup(t *testing.T) {
	p := NewApplicationsProvider()
	p.load = func() []backend.DesktopEntry {
		return []backend.DesktopEntry{
			{Name: "Files", Exec: "nautilus"},
			{Name: "Firefox", Exec: "firefox"},
		}
	}

	// Lookup runs on the select hook while Fetch rebuilds the map on
	// the refresh goroutine; both must be safe at once.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			_, err := p.Fetch(context.Background())
			assert.NoError(t, err)
		}
	}()
	for i := 0; i < 200; i++ {
		p.Lookup("Firefox")
	}
	<-done

	app, ok := p.Lookup("Firefox")
	require.True(t, ok)
	assert.Equal(t, "firefox", app.Exec)
}

func TestApplicationsProviderNoDeletion(t *testing.T) {
	p := NewApplicationsProvider()
	assert.False(t, p.CanDelete())
}
