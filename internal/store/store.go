// Package store holds the ordered, classified entry snapshot each
// daemon renders from. The store itself is synchronous and owned by
// the daemon's event loop; anything slow (backend queries, thumbnail
// renders) happens elsewhere and lands back here as a replacement
// snapshot or an in-place entry update.
package store

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/vib1240n/overlayd/internal/entry"
)

// Provider sources the backend's entries, already classified and in
// recency order.
type Provider interface {
	Fetch(ctx context.Context) ([]entry.Entry, error)
	// Delete removes an entry at the backend. Providers without
	// deletion (the launcher) report CanDelete false and Delete is
	// never called.
	Delete(ctx context.Context, e entry.Entry) error
	CanDelete() bool
	// WatchPaths lists filesystem locations whose changes signal new
	// backend content; empty means no incremental notification.
	WatchPaths() []string
}

// Store is the in-memory snapshot of backend entries.
type Store struct {
	provider Provider
	logger   *zap.Logger

	entries []entry.Entry
	byID    map[string]int
}

func New(provider Provider, logger *zap.Logger) *Store {
	return &Store{
		provider: provider,
		logger:   logger,
		byID:     make(map[string]int),
	}
}

// Refresh re-queries the backend and replaces the snapshot. The
// previous snapshot survives a failed fetch so a transient backend
// error degrades to stale entries instead of an empty list.
func (s *Store) Refresh(ctx context.Context) ([]entry.Entry, error) {
	fetched, err := s.provider.Fetch(ctx)
	if err != nil {
		return s.entries, fmt.Errorf("backend fetch failed: %w", err)
	}
	s.replace(fetched)
	return s.entries, nil
}

// SetSnapshot installs a snapshot fetched elsewhere (the event loop
// runs fetches off-loop and applies the result here).
func (s *Store) SetSnapshot(entries []entry.Entry) {
	s.replace(entries)
}

// Fetch runs the provider query without touching the snapshot, so the
// caller can do it off the event loop.
func (s *Store) Fetch(ctx context.Context) ([]entry.Entry, error) {
	return s.provider.Fetch(ctx)
}

// RemoveLocal drops an entry from the snapshot only, for optimistic
// deletes whose backend side completes asynchronously. Unknown ids
// are a no-op.
func (s *Store) RemoveLocal(id string) {
	if i, ok := s.byID[id]; ok {
		s.removeLocal(i)
	}
}

// BackendDelete issues only the backend-side delete.
func (s *Store) BackendDelete(ctx context.Context, e entry.Entry) error {
	if !s.provider.CanDelete() {
		return nil
	}
	return s.provider.Delete(ctx, e)
}

func (s *Store) replace(entries []entry.Entry) {
	s.byID = make(map[string]int, len(entries))
	for i := range entries {
		entries[i].Rank = i
		s.byID[entries[i].ID] = i
	}
	s.entries = entries
}

// Entries returns the current snapshot in backend recency order.
func (s *Store) Entries() []entry.Entry { return s.entries }

// Len returns the snapshot size.
func (s *Store) Len() int { return len(s.entries) }

// Get looks an entry up by its backend identifier.
func (s *Store) Get(id string) (entry.Entry, bool) {
	i, ok := s.byID[id]
	if !ok {
		return entry.Entry{}, false
	}
	return s.entries[i], true
}

// Delete removes the entry at the backend, then locally. Deleting an
// unknown identifier is a no-op, not an error.
func (s *Store) Delete(ctx context.Context, id string) error {
	i, ok := s.byID[id]
	if !ok {
		return nil
	}
	e := s.entries[i]
	if s.provider.CanDelete() {
		if err := s.provider.Delete(ctx, e); err != nil {
			return fmt.Errorf("backend delete failed: %w", err)
		}
	}
	s.removeLocal(i)
	return nil
}

func (s *Store) removeLocal(i int) {
	s.entries = append(s.entries[:i], s.entries[i+1:]...)
	s.byID = make(map[string]int, len(s.entries))
	for j := range s.entries {
		s.entries[j].Rank = j
		s.byID[s.entries[j].ID] = j
	}
}

// AddExternal inserts a backend-pushed entry at the top of the
// snapshot without a full refresh. An entry whose identifier is
// already present is ignored; the next refresh reconciles ordering.
func (s *Store) AddExternal(e entry.Entry) {
	if _, ok := s.byID[e.ID]; ok {
		return
	}
	s.entries = append([]entry.Entry{e}, s.entries...)
	s.byID = make(map[string]int, len(s.entries))
	for i := range s.entries {
		s.entries[i].Rank = i
		s.byID[s.entries[i].ID] = i
	}
}

// Apply replaces the entry at e.ID with e, preserving its position.
// It reports false when the identifier is gone, which is how late
// thumbnail results for deleted entries get dropped.
func (s *Store) Apply(e entry.Entry) bool {
	i, ok := s.byID[e.ID]
	if !ok {
		return false
	}
	e.Rank = s.entries[i].Rank
	s.entries[i] = e
	return true
}

// PendingThumbs lists image entries still waiting for a render.
func (s *Store) PendingThumbs() []entry.Entry {
	var pending []entry.Entry
	for _, e := range s.entries {
		if e.Kind == entry.Image && e.ThumbPending {
			pending = append(pending, e)
		}
	}
	return pending
}

// WatchPaths exposes the provider's notification locations.
func (s *Store) WatchPaths() []string { return s.provider.WatchPaths() }

// CanDelete reports whether the backend supports deletion.
func (s *Store) CanDelete() bool { return s.provider.CanDelete() }
