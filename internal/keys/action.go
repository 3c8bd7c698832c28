package keys

// Action is a command the dispatcher can emit toward the store, the
// search engine, or the daemon controller.
type Action int

const (
	ActionNone Action = iota
	ActionSelect
	ActionDelete
	ActionClearSearch
	ActionClose
	ActionNext
	ActionPrev
	ActionPageDown
	ActionPageUp
	ActionFirst
	ActionLast
	ActionEnterInsert
	// ActionExitInsert is emitted for Esc in INSERT mode. The
	// controller clears the query, or hides when it is already empty.
	ActionExitInsert
	// ActionBackspace removes the last query rune.
	ActionBackspace
)

func (a Action) String() string {
	switch a {
	case ActionSelect:
		return "select"
	case ActionDelete:
		return "delete"
	case ActionClearSearch:
		return "clear_search"
	case ActionClose:
		return "close"
	case ActionNext:
		return "next"
	case ActionPrev:
		return "prev"
	case ActionPageDown:
		return "page_down"
	case ActionPageUp:
		return "page_up"
	case ActionFirst:
		return "first"
	case ActionLast:
		return "last"
	case ActionEnterInsert:
		return "enter_insert"
	case ActionExitInsert:
		return "exit_insert"
	case ActionBackspace:
		return "backspace"
	}
	return "none"
}

// ParseAction maps a config action name to its Action. Unknown names
// return ActionNone and are ignored by the caller.
func ParseAction(name string) Action {
	switch name {
	case "select":
		return ActionSelect
	case "delete":
		return ActionDelete
	case "clear_search":
		return ActionClearSearch
	case "close":
		return ActionClose
	case "next":
		return ActionNext
	case "prev":
		return ActionPrev
	case "page_down":
		return ActionPageDown
	case "page_up":
		return ActionPageUp
	case "first":
		return ActionFirst
	case "last":
		return ActionLast
	case "backspace":
		return ActionBackspace
	}
	return ActionNone
}
