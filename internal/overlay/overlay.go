// Package overlay is the boundary to the window-overlay toolkit. The
// runtime core only ever asks it to render rows and hands it nothing
// else; key events flow back the other way. The real toolkit bridge
// lives outside this repository; Headless stands in for it in tests
// and unbridged builds.
package overlay

import (
	"github.com/vib1240n/overlayd/internal/keys"
)

// Row is one rendered list entry.
type Row struct {
	ID        string
	Title     string
	Subtitle  string
	Badge     string
	ThumbPath string
	// Pending marks an image row whose thumbnail has not resolved;
	// the toolkit shows a spinner in place of the render.
	Pending bool
}

// Renderer is everything the runtime core may ask of the toolkit.
// Implementations must tolerate calls in any visibility state.
type Renderer interface {
	SetVisible(visible bool)
	ShowRows(rows []Row, selected int)
	SetQuery(query string)
	SetMode(label string, show bool)
	SetStatus(status string)
}

// KeySource delivers raw key chords from the toolkit's input layer.
type KeySource interface {
	Keys() <-chan keys.Chord
}
