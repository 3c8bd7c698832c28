package overlay

import (
	"sync"

	"github.com/vib1240n/overlayd/internal/keys"
)

// Headless is a Renderer that records what it was asked to draw. The
// binaries fall back to it when no toolkit bridge is attached, and the
// controller tests assert against it.
type Headless struct {
	mu sync.Mutex

	Visible  bool
	Rows     []Row
	Selected int
	Query    string
	Mode     string
	ModeOn   bool
	Status   string

	keyC chan keys.Chord
}

// NewHeadless returns a Headless renderer with a buffered key channel
// for injecting input.
func NewHeadless() *Headless {
	return &Headless{keyC: make(chan keys.Chord, 64)}
}

func (h *Headless) SetVisible(visible bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Visible = visible
}

func (h *Headless) ShowRows(rows []Row, selected int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Rows = rows
	h.Selected = selected
}

func (h *Headless) SetQuery(query string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Query = query
}

func (h *Headless) SetMode(label string, show bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Mode = label
	h.ModeOn = show
}

func (h *Headless) SetStatus(status string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Status = status
}

// Keys implements KeySource.
func (h *Headless) Keys() <-chan keys.Chord { return h.keyC }

// Press injects a chord, as the toolkit's input layer would.
func (h *Headless) Press(c keys.Chord) { h.keyC <- c }

// State returns a copy of the recorded render state.
func (h *Headless) State() (visible bool, rows []Row, selected int, query string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	rowsCopy := make([]Row, len(h.Rows))
	copy(rowsCopy, h.Rows)
	return h.Visible, rowsCopy, h.Selected, h.Query
}
