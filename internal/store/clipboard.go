package store

import (
	"context"
	"fmt"

	"github.com/vib1240n/overlayd/internal/backend"
	"github.com/vib1240n/overlayd/internal/entry"
	"github.com/vib1240n/overlayd/pkg/format"
)

const previewWidth = 80

// ClipboardProvider adapts the cliphist backend into classified
// entries.
type ClipboardProvider struct {
	hist     backend.History
	maxItems int
}

func NewClipboardProvider(hist backend.History, maxItems int) *ClipboardProvider {
	return &ClipboardProvider{hist: hist, maxItems: maxItems}
}

// Fetch lists the backend and classifies each line. Binary entries
// become IMAGE with a pending thumbnail; textual entries classify on
// their preview, which for cliphist text entries is the content
// itself.
func (p *ClipboardProvider) Fetch(ctx context.Context) ([]entry.Entry, error) {
	raws, err := p.hist.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list clipboard history: %w", err)
	}
	if p.maxItems > 0 && len(raws) > p.maxItems {
		raws = raws[:p.maxItems]
	}

	entries := make([]entry.Entry, 0, len(raws))
	for _, raw := range raws {
		entries = append(entries, classifyRaw(raw))
	}
	return entries, nil
}

func classifyRaw(raw backend.RawEntry) entry.Entry {
	e := entry.Entry{
		ID:  raw.ID,
		Raw: raw.Line,
	}
	if raw.IsBinary {
		e.Kind = entry.Image
		e.Title = "Image"
		e.Subtitle = entry.ParseImageMeta(raw.Preview)
		e.ThumbPending = true
		return e
	}

	e.Kind = entry.Classify([]byte(raw.Preview))
	e.Title = format.PreviewLine(raw.Preview, previewWidth)
	return e
}

func (p *ClipboardProvider) Delete(ctx context.Context, e entry.Entry) error {
	return p.hist.Delete(ctx, e.Raw)
}

func (p *ClipboardProvider) CanDelete() bool { return true }

func (p *ClipboardProvider) WatchPaths() []string {
	if path := p.hist.DBPath(); path != "" {
		return []string{path}
	}
	return nil
}

// Decode fetches the raw content bytes for an entry, used for both
// thumbnail rendering and clipboard write-back.
func (p *ClipboardProvider) Decode(ctx context.Context, e entry.Entry) ([]byte, error) {
	return p.hist.Decode(ctx, e.Raw)
}
