package store

import (
	"context"
	"sync"

	"github.com/vib1240n/overlayd/internal/backend"
	"github.com/vib1240n/overlayd/internal/entry"
)

// ApplicationsProvider adapts the XDG desktop entry database into APP
// entries for the launcher.
type ApplicationsProvider struct {
	load func() []backend.DesktopEntry

	// mu guards apps: Fetch rebuilds it on the refresh goroutine while
	// Lookup reads it from the select hook.
	mu   sync.RWMutex
	apps map[string]backend.DesktopEntry
}

func NewApplicationsProvider() *ApplicationsProvider {
	return &ApplicationsProvider{
		load: backend.LoadDesktopEntries,
		apps: make(map[string]backend.DesktopEntry),
	}
}

func (p *ApplicationsProvider) Fetch(ctx context.Context) ([]entry.Entry, error) {
	apps := p.load()
	byName := make(map[string]backend.DesktopEntry, len(apps))

	entries := make([]entry.Entry, 0, len(apps))
	for _, app := range apps {
		byName[app.Name] = app
		entries = append(entries, entry.Entry{
			ID:       app.Name,
			Kind:     entry.App,
			Title:    app.Name,
			Subtitle: app.Description,
			Raw:      app.Exec,
		})
	}

	p.mu.Lock()
	p.apps = byName
	p.mu.Unlock()
	return entries, nil
}

// Lookup returns the full desktop entry for a store entry id.
func (p *ApplicationsProvider) Lookup(id string) (backend.DesktopEntry, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	app, ok := p.apps[id]
	return app, ok
}

// Delete is never called: the launcher has nothing to delete.
func (p *ApplicationsProvider) Delete(ctx context.Context, e entry.Entry) error { return nil }

func (p *ApplicationsProvider) CanDelete() bool { return false }

func (p *ApplicationsProvider) WatchPaths() []string { return backend.DataDirs() }
