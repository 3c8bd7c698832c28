package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vib1240n/overlayd/internal/entry"
)

// fakeProvider is a scriptable Provider for store tests.
type fakeProvider struct {
	entries   []entry.Entry
	fetchErr  error
	deleted   []string
	canDelete bool
	deleteErr error
}

func (p *fakeProvider) Fetch(ctx context.Context) ([]entry.Entry, error) {
	if p.fetchErr != nil {
		return nil, p.fetchErr
	}
	out := make([]entry.Entry, len(p.entries))
	copy(out, p.entries)
	return out, nil
}

func (p *fakeProvider) Delete(ctx context.Context, e entry.Entry) error {
	if p.deleteErr != nil {
		return p.deleteErr
	}
	p.deleted = append(p.deleted, e.ID)
	return nil
}

func (p *fakeProvider) CanDelete() bool      { return p.canDelete }
func (p *fakeProvider) WatchPaths() []string { return nil }

func threeEntries() []entry.Entry {
	return []entry.Entry{
		{ID: "1", Kind: entry.Text, Title: "first"},
		{ID: "2", Kind: entry.Image, Title: "Image", ThumbPending: true},
		{ID: "3", Kind: entry.URL, Title: "https://example.com"},
	}
}

func newTestStore(p Provider) *Store {
	return New(p, zap.NewNop())
}

func TestRefresh(t *testing.T) {
	p := &fakeProvider{entries: threeEntries(), canDelete: true}
	s := newTestStore(p)

	entries, err := s.Refresh(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 3)

	// Ranks follow backend recency order.
	assert.Equal(t, 0, entries[0].Rank)
	assert.Equal(t, 2, entries[2].Rank)

	e, ok := s.Get("2")
	require.True(t, ok)
	assert.Equal(t, entry.Image, e.Kind)
}

func TestRefreshFailureKeepsSnapshot(t *testing.T) {
	p := &fakeProvider{entries: threeEntries()}
	s := newTestStore(p)
	_, err := s.Refresh(context.Background())
	require.NoError(t, err)

	p.fetchErr = errors.New("backend down")
	entries, err := s.Refresh(context.Background())
	require.Error(t, err)
	assert.Len(t, entries, 3, "stale snapshot survives the failure")
}

func TestDelete(t *testing.T) {
	p := &fakeProvider{entries: threeEntries(), canDelete: true}
	s := newTestStore(p)
	_, err := s.Refresh(context.Background())
	require.NoError(t, err)

	require.NoError(t, s.Delete(context.Background(), "2"))
	assert.Equal(t, []string{"2"}, p.deleted)
	assert.Equal(t, 2, s.Len())

	// Ranks compact after removal.
	e, ok := s.Get("3")
	require.True(t, ok)
	assert.Equal(t, 1, e.Rank)
}

func TestDeleteUnknownIsNoop(t *testing.T) {
	p := &fakeProvider{entries: threeEntries(), canDelete: true}
	s := newTestStore(p)
	_, _ = s.Refresh(context.Background())

	require.NoError(t, s.Delete(context.Background(), "99"))
	assert.Empty(t, p.deleted)
	assert.Equal(t, 3, s.Len())
}

func TestDeleteBackendFailureKeepsEntry(t *testing.T) {
	p := &fakeProvider{entries: threeEntries(), canDelete: true, deleteErr: errors.New("nope")}
	s := newTestStore(p)
	_, _ = s.Refresh(context.Background())

	require.Error(t, s.Delete(context.Background(), "1"))
	assert.Equal(t, 3, s.Len())
}

func TestRemoveLocalAndBackendDelete(t *testing.T) {
	p := &fakeProvider{entries: threeEntries(), canDelete: true}
	s := newTestStore(p)
	_, _ = s.Refresh(context.Background())

	e, _ := s.Get("1")
	s.RemoveLocal("1")
	assert.Equal(t, 2, s.Len())
	assert.Empty(t, p.deleted, "local removal does not touch the backend")

	require.NoError(t, s.BackendDelete(context.Background(), e))
	assert.Equal(t, []string{"1"}, p.deleted)
}

func TestApply(t *testing.T) {
	p := &fakeProvider{entries: threeEntries()}
	s := newTestStore(p)
	_, _ = s.Refresh(context.Background())

	e, _ := s.Get("2")
	updated := e.WithThumb("/tmp/thumb.png")
	assert.True(t, s.Apply(updated))

	got, _ := s.Get("2")
	assert.Equal(t, "/tmp/thumb.png", got.ThumbPath)
	assert.False(t, got.ThumbPending)
	assert.Equal(t, 1, got.Rank, "position is preserved")
}

func TestApplyAfterDeleteReportsGone(t *testing.T) {
	p := &fakeProvider{entries: threeEntries(), canDelete: true}
	s := newTestStore(p)
	_, _ = s.Refresh(context.Background())

	e, _ := s.Get("2")
	s.RemoveLocal("2")

	assert.False(t, s.Apply(e.WithThumb("/tmp/late.png")),
		"a late thumbnail for a deleted entry is dropped")
}

func TestAddExternal(t *testing.T) {
	p := &fakeProvider{entries: threeEntries()}
	s := newTestStore(p)
	_, _ = s.Refresh(context.Background())

	s.AddExternal(entry.Entry{ID: "0", Kind: entry.Text, Title: "newest"})
	require.Equal(t, 4, s.Len())
	assert.Equal(t, "0", s.Entries()[0].ID)
	assert.Equal(t, 0, s.Entries()[0].Rank)

	// Duplicate ids are ignored.
	s.AddExternal(entry.Entry{ID: "1", Title: "imposter"})
	assert.Equal(t, 4, s.Len())
}

func TestPendingThumbs(t *testing.T) {
	p := &fakeProvider{entries: threeEntries()}
	s := newTestStore(p)
	_, _ = s.Refresh(context.Background())

	pending := s.PendingThumbs()
	require.Len(t, pending, 1)
	assert.Equal(t, "2", pending[0].ID)
}
