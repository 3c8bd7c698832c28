package keys

import (
	"time"
)

// Mode is the modal input state.
type Mode int

const (
	ModeNormal Mode = iota
	ModeInsert
)

func (m Mode) String() string {
	if m == ModeInsert {
		return "INSERT"
	}
	return "NORMAL"
}

// Sequence is an ordered run of chords bound to one action. Config
// bindings are single-chord sequences; the vim layer adds multi-chord
// ones (gg, dd).
type Sequence []Chord

type binding struct {
	seq    Sequence
	action Action
}

// DefaultTimeout bounds how long a strict-prefix buffer waits for the
// next chord before it is flushed.
const DefaultTimeout = 600 * time.Millisecond

// Options configures a Dispatcher.
type Options struct {
	VimMode bool
	// AllowDelete enables the dd sequence; the launcher has nothing to
	// delete, so it stays off there.
	AllowDelete bool
	Timeout     time.Duration
}

// Dispatcher is the modal keybinding state machine. It owns the
// current mode and the pending multi-key buffer; the caller owns the
// timeout clock and calls FlushTimeout when Result.Pending expires.
type Dispatcher struct {
	vim     bool
	timeout time.Duration

	normal []binding
	insert []binding

	mode Mode
	buf  Sequence
}

// Result is what one key event (or a timeout flush) produced.
type Result struct {
	Action  Action // ActionNone if no bound sequence completed
	Literal string // text to append to the search query
	Pending bool   // buffer holds a strict prefix; (re)arm the timeout
}

// NewDispatcher compiles the configured action->chords map plus the
// vim built-ins into a dispatcher. With vim off the mode is pinned to
// INSERT and multi-key sequences are unavailable.
func NewDispatcher(binds map[string]string, opts Options) *Dispatcher {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	d := &Dispatcher{
		vim:     opts.VimMode,
		timeout: opts.Timeout,
	}

	var configured []binding
	for name, chords := range binds {
		action := ParseAction(name)
		if action == ActionNone {
			continue
		}
		for _, c := range ParseChords(chords) {
			configured = append(configured, binding{seq: Sequence{c}, action: action})
		}
	}

	if !opts.VimMode {
		d.insert = append(configured,
			binding{seq: Sequence{{Key: "backspace"}}, action: ActionBackspace})
		d.mode = ModeInsert
		return d
	}

	// NORMAL: configured bindings plus the vim motions. Escape closes
	// in NORMAL regardless of the configured close chord.
	d.normal = append(d.normal, configured...)
	for _, k := range []string{"i", "a", "A", "I", "/"} {
		d.normal = append(d.normal, binding{seq: Sequence{{Key: k}}, action: ActionEnterInsert})
	}
	d.normal = append(d.normal,
		binding{seq: Sequence{{Key: "j"}}, action: ActionNext},
		binding{seq: Sequence{{Key: "k"}}, action: ActionPrev},
		binding{seq: Sequence{{Key: "g"}, {Key: "g"}}, action: ActionFirst},
		binding{seq: Sequence{{Key: "G"}}, action: ActionLast},
		binding{seq: Sequence{{Key: "d", Mods: ModCtrl}}, action: ActionPageDown},
		binding{seq: Sequence{{Key: "u", Mods: ModCtrl}}, action: ActionPageUp},
		binding{seq: Sequence{{Key: "escape"}}, action: ActionClose},
	)
	if opts.AllowDelete {
		d.normal = append(d.normal,
			binding{seq: Sequence{{Key: "d"}, {Key: "d"}}, action: ActionDelete})
	}

	// INSERT: navigation and selection chords stay live and win over
	// literal insertion; Escape leaves insert, Backspace edits the
	// query.
	for _, b := range configured {
		switch b.action {
		case ActionSelect, ActionNext, ActionPrev, ActionPageDown, ActionPageUp,
			ActionFirst, ActionLast, ActionClearSearch, ActionBackspace:
			d.insert = append(d.insert, b)
		}
	}
	d.insert = append(d.insert,
		binding{seq: Sequence{{Key: "escape"}}, action: ActionExitInsert},
		binding{seq: Sequence{{Key: "backspace"}}, action: ActionBackspace})

	d.mode = ModeNormal
	return d
}

// Timeout returns the prefix-flush window the caller should arm when a
// result is Pending.
func (d *Dispatcher) Timeout() time.Duration { return d.timeout }

// Mode returns the current modal state.
func (d *Dispatcher) Mode() Mode { return d.mode }

// VimMode reports whether modal dispatch is enabled.
func (d *Dispatcher) VimMode() bool { return d.vim }

// Reset returns the dispatcher to its clean state: NORMAL mode (INSERT
// with vim off) and an empty buffer. Called whenever the window hides.
func (d *Dispatcher) Reset() {
	d.buf = nil
	if d.vim {
		d.mode = ModeNormal
	} else {
		d.mode = ModeInsert
	}
}

// EnterInsert switches to INSERT mode and clears the buffer.
func (d *Dispatcher) EnterInsert() {
	if d.vim {
		d.mode = ModeInsert
		d.buf = nil
	}
}

// ExitInsert switches back to NORMAL mode and clears the buffer.
func (d *Dispatcher) ExitInsert() {
	if d.vim {
		d.mode = ModeNormal
		d.buf = nil
	}
}

func (d *Dispatcher) bindings() []binding {
	if d.mode == ModeInsert {
		return d.insert
	}
	return d.normal
}

// Handle runs one incoming chord through the dispatch algorithm:
// append to the buffer; exact match executes, strict prefix waits,
// anything else falls through to literal input (INSERT) or is
// discarded (NORMAL).
func (d *Dispatcher) Handle(c Chord) Result {
	d.buf = append(d.buf, c)
	binds := d.bindings()

	if action, ok := exactMatch(binds, d.buf); ok {
		d.buf = nil
		return Result{Action: action}
	}

	if hasStrictPrefix(binds, d.buf) {
		return Result{Pending: true}
	}

	d.buf = nil
	if d.mode == ModeInsert {
		// Only the triggering key becomes literal input, not the
		// stale prefix characters.
		return Result{Literal: c.Text()}
	}
	return Result{}
}

// FlushTimeout resolves an expired pending buffer: INSERT appends its
// literal text to the query, NORMAL discards it.
func (d *Dispatcher) FlushTimeout() Result {
	buf := d.buf
	d.buf = nil
	if d.mode != ModeInsert {
		return Result{}
	}
	var text string
	for _, c := range buf {
		text += c.Text()
	}
	return Result{Literal: text}
}

func exactMatch(binds []binding, buf Sequence) (Action, bool) {
	for _, b := range binds {
		if seqEqual(b.seq, buf) {
			return b.action, true
		}
	}
	return ActionNone, false
}

func hasStrictPrefix(binds []binding, buf Sequence) bool {
	for _, b := range binds {
		if len(buf) < len(b.seq) && seqEqual(b.seq[:len(buf)], buf) {
			return true
		}
	}
	return false
}

func seqEqual(a, b Sequence) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].equal(b[i]) {
			return false
		}
	}
	return true
}
