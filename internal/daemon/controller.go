// Package daemon holds the shared runtime shape of both helper
// daemons: the single-instance lock, the signal-driven visibility
// state machine, and the event loop every other component reports
// into. All daemon state lives on one goroutine; signals, key input,
// backend refreshes, and thumbnail results arrive as discrete events
// and are processed one at a time.
package daemon

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/vib1240n/overlayd/internal/config"
	"github.com/vib1240n/overlayd/internal/entry"
	"github.com/vib1240n/overlayd/internal/keys"
	"github.com/vib1240n/overlayd/internal/overlay"
	"github.com/vib1240n/overlayd/internal/search"
	"github.com/vib1240n/overlayd/internal/store"
	"github.com/vib1240n/overlayd/internal/thumbs"
)

// pageStep is how far page-up/page-down and the half-page vim motions
// move the selection.
const pageStep = 10

// Visibility is the daemon's window state.
type Visibility int

const (
	Hidden Visibility = iota
	Visible
)

// ExitReason tells main how the event loop ended.
type ExitReason int

const (
	ReasonQuit ExitReason = iota
	ReasonReload
)

// Hooks are the per-daemon behaviors the shared controller delegates.
type Hooks struct {
	// Select acts on the chosen entry: copy it back to the clipboard,
	// or launch the application. Runs off the event loop.
	Select func(ctx context.Context, e entry.Entry) error

	// Decode fetches the raw bytes for an IMAGE entry so its
	// thumbnail can be rendered. Nil when the backend has no images.
	Decode func(ctx context.Context, e entry.Entry) ([]byte, error)

	// Bonus feeds extra score (launch frequency) into the search
	// ranking. Nil means no bonus.
	Bonus func(e entry.Entry) int

	// QueryRows lets a daemon inject synthetic entries for a query,
	// e.g. the launcher's calculator result. Runs off the event loop;
	// nil means none.
	QueryRows func(ctx context.Context, query string) []entry.Entry

	// AllowDelete enables the delete action and the dd sequence.
	AllowDelete bool
}

// Controller owns DaemonState and runs the event loop.
type Controller struct {
	cfg      *config.Config
	logger   *zap.Logger
	store    *store.Store
	cache    *thumbs.Cache // nil when the daemon has no thumbnails
	renderer overlay.Renderer
	keysrc   overlay.KeySource
	dispatch *keys.Dispatcher
	hooks    Hooks

	// mu guards the fields below for the read-only accessors; all
	// mutation happens on the Run goroutine.
	mu         sync.RWMutex
	visibility Visibility
	query      string
	selected   int
	filtered   []entry.Entry
	extra      []entry.Entry
	flushGen   int

	// searchRuns counts filter re-evaluations; exercised by tests.
	searchRuns int

	events chan event
}

type event interface{}

type (
	toggleEvent  struct{}
	quitEvent    struct{}
	flushEvent   struct{ gen int }
	refreshEvent struct {
		entries []entry.Entry
		err     error
	}
	thumbEvent struct {
		id   string
		hash string
		path string
		err  error
	}
	queryRowsEvent struct {
		query string
		rows  []entry.Entry
	}
)

// New wires a controller. The dispatcher is built from the config's
// keybinds and vim flag.
func New(cfg *config.Config, st *store.Store, cache *thumbs.Cache,
	renderer overlay.Renderer, keysrc overlay.KeySource, hooks Hooks,
	logger *zap.Logger) *Controller {
	return &Controller{
		cfg:      cfg,
		logger:   logger,
		store:    st,
		cache:    cache,
		renderer: renderer,
		keysrc:   keysrc,
		dispatch: keys.NewDispatcher(cfg.Keybinds, keys.Options{
			VimMode:     cfg.Behavior.VimMode,
			AllowDelete: hooks.AllowDelete,
		}),
		hooks:  hooks,
		events: make(chan event, 64),
	}
}

// Visibility returns the current window state.
func (c *Controller) Visibility() Visibility {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.visibility
}

// Query returns the current search query.
func (c *Controller) Query() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.query
}

// Mode returns the current modal input state.
func (c *Controller) Mode() keys.Mode {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.dispatch.Mode()
}

// Run enters the event loop and blocks until quit or reload. The
// initial state is HIDDEN with a warm refresh already underway.
func (c *Controller) Run(ctx context.Context) (ExitReason, error) {
	sigC := notifySignals()

	var watchC <-chan struct{}
	if paths := c.store.WatchPaths(); len(paths) > 0 {
		if ch, err := store.Watch(ctx, paths, c.logger); err == nil {
			watchC = ch
		} else {
			c.logger.Info("backend watch unavailable, refreshing on show only", zap.Error(err))
		}
	}

	c.refreshAsync(ctx)
	c.syncMode()

	for {
		select {
		case <-ctx.Done():
			return ReasonQuit, ctx.Err()

		case sig := <-sigC:
			// Handled in place, never forwarded into c.events: the
			// loop must not send to the channel only it drains.
			switch sig {
			case SigToggle:
				c.mu.Lock()
				c.toggle(ctx)
				c.mu.Unlock()
			case SigReload:
				c.logger.Info("reload requested")
				return ReasonReload, nil
			default:
				c.logger.Info("shutdown requested")
				return ReasonQuit, nil
			}

		case <-watchC:
			c.refreshAsync(ctx)

		case chord := <-c.keysrc.Keys():
			c.mu.Lock()
			if c.visibility == Visible {
				c.handleKey(ctx, chord)
			}
			c.mu.Unlock()

		case ev := <-c.events:
			if _, ok := ev.(quitEvent); ok {
				c.logger.Info("shutdown requested")
				return ReasonQuit, nil
			}
			c.mu.Lock()
			c.apply(ctx, ev)
			c.mu.Unlock()
		}
	}
}

// apply processes one state-changing event under the lock.
func (c *Controller) apply(ctx context.Context, ev event) {
	switch ev := ev.(type) {
	case toggleEvent:
		c.toggle(ctx)
	case flushEvent:
		if ev.gen == c.flushGen {
			c.applyResult(ctx, c.dispatch.FlushTimeout())
		}
	case refreshEvent:
		c.applyRefresh(ctx, ev)
	case thumbEvent:
		c.applyThumb(ev)
	case queryRowsEvent:
		c.applyQueryRows(ev)
	}
}

// toggle flips visibility. The external signal and the in-process
// close action both land here.
func (c *Controller) toggle(ctx context.Context) {
	if c.visibility == Visible {
		c.hide()
	} else {
		c.show(ctx)
	}
}

// show makes the window visible with a clean slate and kicks a
// refresh so stale entries are replaced as soon as the backend
// answers. Idempotent.
func (c *Controller) show(ctx context.Context) {
	if c.visibility == Visible {
		return
	}
	c.visibility = Visible
	c.query = ""
	c.selected = 0
	c.dispatch.Reset()
	c.flushGen++
	c.refilter(ctx)
	c.syncMode()
	c.renderer.SetQuery("")
	c.renderer.SetVisible(true)
	c.refreshAsync(ctx)
}

// hide makes the window invisible and resets the modal state: mode
// back to NORMAL, query and key buffer cleared, so reopening always
// starts clean. Idempotent.
func (c *Controller) hide() {
	c.visibility = Hidden
	c.query = ""
	c.selected = 0
	c.dispatch.Reset()
	c.flushGen++
	c.syncMode()
	c.renderer.SetQuery("")
	c.renderer.SetVisible(false)
}

// handleKey is reachable only while visible: hidden daemons ignore
// input entirely.
func (c *Controller) handleKey(ctx context.Context, chord keys.Chord) {
	res := c.dispatch.Handle(chord)
	if res.Pending {
		c.flushGen++
		gen := c.flushGen
		time.AfterFunc(c.dispatch.Timeout(), func() {
			c.events <- flushEvent{gen}
		})
		return
	}
	c.flushGen++
	c.applyResult(ctx, res)
}

func (c *Controller) applyResult(ctx context.Context, res keys.Result) {
	if res.Literal != "" {
		c.query += res.Literal
		c.selected = 0
		c.refilter(ctx)
		c.renderer.SetQuery(c.query)
		return
	}
	if res.Action != keys.ActionNone {
		c.runAction(ctx, res.Action)
	}
}

func (c *Controller) runAction(ctx context.Context, action keys.Action) {
	switch action {
	case keys.ActionClose:
		c.hide()

	case keys.ActionSelect:
		e, ok := c.selectedEntry()
		if !ok {
			return
		}
		go func() {
			if err := c.hooks.Select(ctx, e); err != nil {
				c.logger.Error("select failed", zap.String("id", e.ID), zap.Error(err))
			}
		}()
		if c.cfg.Behavior.CloseOnSelect {
			c.hide()
		}

	case keys.ActionDelete:
		if !c.hooks.AllowDelete {
			return
		}
		e, ok := c.selectedEntry()
		if !ok {
			return
		}
		// Optimistic removal; the backend delete completes off-loop
		// and the next refresh reconciles.
		c.store.RemoveLocal(e.ID)
		go func() {
			if err := c.store.BackendDelete(ctx, e); err != nil {
				c.logger.Error("delete failed", zap.String("id", e.ID), zap.Error(err))
			}
		}()
		c.refilter(ctx)

	case keys.ActionClearSearch:
		c.query = ""
		c.selected = 0
		c.refilter(ctx)
		c.renderer.SetQuery("")

	case keys.ActionBackspace:
		if c.query == "" {
			return
		}
		r := []rune(c.query)
		c.query = string(r[:len(r)-1])
		c.selected = 0
		c.refilter(ctx)
		c.renderer.SetQuery(c.query)

	case keys.ActionNext:
		c.moveSelection(1)
	case keys.ActionPrev:
		c.moveSelection(-1)
	case keys.ActionPageDown:
		c.moveSelection(pageStep)
	case keys.ActionPageUp:
		c.moveSelection(-pageStep)
	case keys.ActionFirst:
		c.setSelection(0)
	case keys.ActionLast:
		c.setSelection(len(c.filtered) + len(c.extra) - 1)

	case keys.ActionEnterInsert:
		c.dispatch.EnterInsert()
		c.syncMode()

	case keys.ActionExitInsert:
		// Esc in INSERT: clear the query, or hide when it is already
		// empty (double-Esc closes).
		if c.query == "" {
			c.hide()
			return
		}
		c.query = ""
		c.selected = 0
		c.dispatch.ExitInsert()
		c.refilter(ctx)
		c.syncMode()
		c.renderer.SetQuery("")
	}
}

func (c *Controller) moveSelection(delta int) {
	c.setSelection(c.selected + delta)
}

func (c *Controller) setSelection(i int) {
	total := len(c.extra) + len(c.filtered)
	if total == 0 {
		c.selected = 0
		return
	}
	if i < 0 {
		i = 0
	}
	if i >= total {
		i = total - 1
	}
	c.selected = i
	c.render()
}

// selectedEntry resolves the selection across the synthetic rows and
// the filtered entries.
func (c *Controller) selectedEntry() (entry.Entry, bool) {
	if c.selected < len(c.extra) {
		return c.extra[c.selected], true
	}
	i := c.selected - len(c.extra)
	if i < len(c.filtered) {
		return c.filtered[i], true
	}
	return entry.Entry{}, false
}

// refilter recomputes the visible list from the snapshot and the
// query, then renders.
func (c *Controller) refilter(ctx context.Context) {
	c.searchRuns++
	entries := c.store.Entries()

	items := make([]search.Item, len(entries))
	for i, e := range entries {
		items[i] = search.Item{Title: e.Title, Subtitle: e.Subtitle}
		if c.hooks.Bonus != nil {
			items[i].Bonus = c.hooks.Bonus(e)
		}
	}

	idx := search.Filter(items, c.query)
	c.filtered = make([]entry.Entry, len(idx))
	for i, j := range idx {
		c.filtered[i] = entries[j]
	}

	// Synthetic rows are evaluated off-loop; they land later as an
	// event, so a slow helper cannot stall input or the toggle.
	c.extra = nil
	if c.hooks.QueryRows != nil && c.query != "" {
		c.queryRowsAsync(ctx, c.query)
	}

	if max := len(c.extra) + len(c.filtered); c.selected >= max {
		c.selected = 0
	}
	c.render()
}

func (c *Controller) queryRowsAsync(ctx context.Context, query string) {
	go func() {
		rows := c.hooks.QueryRows(ctx, query)
		if len(rows) > 0 {
			c.events <- queryRowsEvent{query: query, rows: rows}
		}
	}()
}

// applyQueryRows installs synthetic rows if the query they answered is
// still current; stale results are dropped.
func (c *Controller) applyQueryRows(ev queryRowsEvent) {
	if c.visibility != Visible || ev.query != c.query {
		return
	}
	c.extra = ev.rows
	c.render()
}

func (c *Controller) render() {
	rows := make([]overlay.Row, 0, len(c.extra)+len(c.filtered))
	pinned := make(map[string]bool)

	for _, e := range append(append([]entry.Entry{}, c.extra...), c.filtered...) {
		rows = append(rows, overlay.Row{
			ID:        e.ID,
			Title:     e.Title,
			Subtitle:  e.Subtitle,
			Badge:     e.Kind.Badge(),
			ThumbPath: e.ThumbPath,
			Pending:   e.ThumbPending,
		})
		if e.Hash != "" && e.ThumbPath != "" {
			pinned[e.Hash] = true
		}
	}

	c.renderer.ShowRows(rows, c.selected)
	c.renderer.SetStatus(fmt.Sprintf("%d items", len(rows)))
	if c.cache != nil {
		c.cache.SetPinned(pinned)
	}
}

func (c *Controller) syncMode() {
	c.renderer.SetMode(c.dispatch.Mode().String(), c.dispatch.VimMode())
}

// refreshAsync queries the backend off-loop and posts the snapshot
// back as an event.
func (c *Controller) refreshAsync(ctx context.Context) {
	go func() {
		entries, err := c.store.Fetch(ctx)
		c.events <- refreshEvent{entries: entries, err: err}
	}()
}

func (c *Controller) applyRefresh(ctx context.Context, ev refreshEvent) {
	if ev.err != nil {
		// Transient backend failure: keep the stale snapshot.
		c.logger.Warn("refresh failed", zap.Error(ev.err))
		return
	}
	c.store.SetSnapshot(ev.entries)
	c.refilter(ctx)
	c.requestThumbs(ctx)
}

// requestThumbs asks the cache for every unresolved image entry.
// Entries stay usable as placeholders until their event lands.
func (c *Controller) requestThumbs(ctx context.Context) {
	if c.cache == nil || c.hooks.Decode == nil {
		return
	}
	for _, e := range c.store.PendingThumbs() {
		e := e
		go func() {
			raw, err := c.hooks.Decode(ctx, e)
			if err != nil {
				c.events <- thumbEvent{id: e.ID, err: err}
				return
			}
			hash := thumbs.Hash(raw)
			path, err := c.cache.GetOrRender(ctx, hash, raw)
			c.events <- thumbEvent{id: e.ID, hash: hash, path: path, err: err}
		}()
	}
}

func (c *Controller) applyThumb(ev thumbEvent) {
	e, ok := c.store.Get(ev.id)
	if !ok {
		// The entry was deleted while the render was in flight; the
		// result is discarded, never applied.
		return
	}
	if ev.err != nil {
		c.store.Apply(e.WithoutThumb())
	} else {
		updated := e.WithThumb(ev.path)
		updated.Hash = ev.hash
		c.store.Apply(updated)
	}

	// Update the visible list in place; ordering is untouched.
	for i := range c.filtered {
		if c.filtered[i].ID == ev.id {
			refreshed, _ := c.store.Get(ev.id)
			c.filtered[i] = refreshed
		}
	}
	if c.visibility == Visible {
		c.render()
	}
}

// post delivers an event to the loop; exported via small typed
// helpers so the toolkit bridge and tests never see the event types.
func (c *Controller) post(ev event) { c.events <- ev }

// RequestToggle posts a toggle, as the signal handler would.
func (c *Controller) RequestToggle() { c.post(toggleEvent{}) }

// RequestQuit posts a clean shutdown.
func (c *Controller) RequestQuit() { c.post(quitEvent{}) }

// SearchRuns reports how many times the filter has been re-evaluated.
func (c *Controller) SearchRuns() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.searchRuns
}
