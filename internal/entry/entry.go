package entry

// Kind is the closed set of content types an entry can carry. Every
// consumption site switches over all four values.
type Kind int

const (
	Text Kind = iota
	Image
	URL
	App
)

func (k Kind) String() string {
	switch k {
	case Text:
		return "TEXT"
	case Image:
		return "IMAGE"
	case URL:
		return "URL"
	case App:
		return "APP"
	}
	return "TEXT"
}

// Badge is the fallback icon label shown when no thumbnail is
// available for the entry.
func (k Kind) Badge() string {
	switch k {
	case Text:
		return "txt"
	case Image:
		return "img"
	case URL:
		return "url"
	case App:
		return "app"
	}
	return "txt"
}

// Entry is one clipboard or launcher item. Entries are immutable: a
// change (e.g. a resolved thumbnail) produces a new Entry at the same
// ID.
type Entry struct {
	// ID is the stable identifier issued by the backend: the cliphist
	// numeric id, or the desktop entry name for the launcher.
	ID string

	Kind     Kind
	Title    string
	Subtitle string

	// ThumbPath points at a cached render; empty while the thumbnail
	// is unresolved or for non-image entries.
	ThumbPath string

	// ThumbPending marks an IMAGE entry whose render has been
	// requested but has not arrived yet.
	ThumbPending bool

	// Hash is the content hash of the raw bytes; set for IMAGE entries
	// once the raw content has been decoded.
	Hash string

	// Raw carries the backend-native representation needed to act on
	// the entry (the full cliphist line, or the launcher Exec string).
	Raw string

	// Rank is the backend-reported recency position: 0 is the most
	// recent. It breaks ties when a search query is active.
	Rank int
}

// WithThumb returns a copy of the entry with the thumbnail resolved.
func (e Entry) WithThumb(path string) Entry {
	e.ThumbPath = path
	e.ThumbPending = false
	return e
}

// WithoutThumb returns a copy with the pending thumbnail cleared, used
// when a render fails and the entry falls back to its type badge.
func (e Entry) WithoutThumb() Entry {
	e.ThumbPath = ""
	e.ThumbPending = false
	return e
}
