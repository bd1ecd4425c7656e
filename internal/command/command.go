// Package command defines the abstract input commands the editor consumes.
// Key decoding produces these; the editor routes them to the document view
// or to the active prompt without ever seeing raw key codes.
package command

// Command is one decoded input command. The concrete types are Move, Edit,
// System, and Resize; consumers switch on the type.
type Command interface {
	isCommand()
}

// Move is a caret movement command.
type Move uint8

const (
	MoveUp Move = iota
	MoveDown
	MoveLeft
	MoveRight
	MovePageUp
	MovePageDown
	MoveStartOfLine
	MoveEndOfLine
)

func (Move) isCommand() {}

func (m Move) String() string {
	switch m {
	case MoveUp:
		return "up"
	case MoveDown:
		return "down"
	case MoveLeft:
		return "left"
	case MoveRight:
		return "right"
	case MovePageUp:
		return "page-up"
	case MovePageDown:
		return "page-down"
	case MoveStartOfLine:
		return "start-of-line"
	case MoveEndOfLine:
		return "end-of-line"
	default:
		return "unknown"
	}
}

// EditKind discriminates the Edit variants.
type EditKind uint8

const (
	EditInsert EditKind = iota
	EditInsertTab
	EditInsertNewline
	EditDelete
	EditDeleteBackward
)

func (k EditKind) String() string {
	switch k {
	case EditInsert:
		return "insert"
	case EditInsertTab:
		return "insert-tab"
	case EditInsertNewline:
		return "insert-newline"
	case EditDelete:
		return "delete"
	case EditDeleteBackward:
		return "delete-backward"
	default:
		return "unknown"
	}
}

// Edit is a text mutation command. Ch carries the character for EditInsert
// and is unset otherwise.
type Edit struct {
	Kind EditKind
	Ch   rune
}

func (Edit) isCommand() {}

func (e Edit) String() string { return e.Kind.String() }

// Insert builds the edit command for typing ch.
func Insert(ch rune) Edit {
	return Edit{Kind: EditInsert, Ch: ch}
}

// System is an editor-level command with no payload.
type System uint8

const (
	SystemSave System = iota
	SystemSearch
	SystemSearchNext
	SystemSearchPrevious
	SystemDismiss
	SystemQuit
)

func (System) isCommand() {}

func (s System) String() string {
	switch s {
	case SystemSave:
		return "save"
	case SystemSearch:
		return "search"
	case SystemSearchNext:
		return "search-next"
	case SystemSearchPrevious:
		return "search-previous"
	case SystemDismiss:
		return "dismiss"
	case SystemQuit:
		return "quit"
	default:
		return "unknown"
	}
}

// Resize reports a new terminal size in cells.
type Resize struct {
	Width  int
	Height int
}

func (Resize) isCommand() {}
