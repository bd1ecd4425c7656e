package terminal

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/edvik/inkwell/internal/command"
	"github.com/edvik/inkwell/internal/config"
)

// Bindings resolves chord keys to editor commands. Only complete-key
// chords (ctrl+letter, esc) are bindable; typing keys are fixed.
type Bindings map[tcell.Key]command.Command

// CompileKeymap translates configured chord strings into a binding table.
// A chord that does not parse, or that is bound twice, fails the whole
// keymap; callers fall back to the defaults.
func CompileKeymap(km config.Keymap) (Bindings, error) {
	entries := []struct {
		name  string
		chord string
		cmd   command.Command
	}{
		{"quit", km.Quit, command.SystemQuit},
		{"save", km.Save, command.SystemSave},
		{"search", km.Search, command.SystemSearch},
		{"search-next", km.SearchNext, command.SystemSearchNext},
		{"search-previous", km.SearchPrevious, command.SystemSearchPrevious},
		{"dismiss", km.Dismiss, command.SystemDismiss},
	}
	b := make(Bindings, len(entries))
	for _, e := range entries {
		key, err := parseChord(e.chord)
		if err != nil {
			return nil, fmt.Errorf("binding %s: %w", e.name, err)
		}
		if _, dup := b[key]; dup {
			return nil, fmt.Errorf("binding %s: chord %q already bound", e.name, e.chord)
		}
		b[key] = e.cmd
	}
	return b, nil
}

// DefaultBindings compiles the built-in keymap, which always parses.
func DefaultBindings() Bindings {
	b, err := CompileKeymap(config.DefaultKeymap())
	if err != nil {
		panic(err)
	}
	return b
}

// parseChord maps "ctrl+x" and "esc" chords onto the tcell keys that
// terminals deliver them as. ctrl+h, ctrl+i and ctrl+m share byte codes
// with backspace, tab and enter, so binding them would shadow typing.
func parseChord(chord string) (tcell.Key, error) {
	switch chord {
	case "esc", "escape":
		return tcell.KeyEscape, nil
	}
	rest, ok := strings.CutPrefix(chord, "ctrl+")
	if !ok || len(rest) != 1 {
		return 0, fmt.Errorf("unsupported chord %q", chord)
	}
	ch := rest[0]
	if ch < 'a' || ch > 'z' {
		return 0, fmt.Errorf("unsupported chord %q", chord)
	}
	switch ch {
	case 'h', 'i', 'm':
		return 0, fmt.Errorf("chord %q collides with backspace/tab/enter", chord)
	}
	return tcell.KeyCtrlA + tcell.Key(ch-'a'), nil
}

// Decode translates one terminal event into an editor command. The second
// return reports whether the event maps to anything; the loop skips events
// that do not.
func Decode(ev tcell.Event, bindings Bindings) (command.Command, bool) {
	switch e := ev.(type) {
	case *tcell.EventResize:
		w, h := e.Size()
		return command.Resize{Width: w, Height: h}, true
	case *tcell.EventKey:
		return decodeKey(e, bindings)
	}
	return nil, false
}

func decodeKey(e *tcell.EventKey, bindings Bindings) (command.Command, bool) {
	if cmd, ok := bindings[e.Key()]; ok {
		return cmd, true
	}
	switch e.Key() {
	case tcell.KeyRune:
		// Shift is already folded into the rune; any other modifier makes
		// this a chord the editor does not handle.
		if e.Modifiers()&^tcell.ModShift == 0 {
			return command.Insert(e.Rune()), true
		}
	case tcell.KeyTab:
		return command.Edit{Kind: command.EditInsertTab}, true
	case tcell.KeyEnter:
		return command.Edit{Kind: command.EditInsertNewline}, true
	case tcell.KeyDelete:
		return command.Edit{Kind: command.EditDelete}, true
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return command.Edit{Kind: command.EditDeleteBackward}, true
	case tcell.KeyUp:
		if e.Modifiers() == tcell.ModNone {
			return command.MoveUp, true
		}
	case tcell.KeyDown:
		if e.Modifiers() == tcell.ModNone {
			return command.MoveDown, true
		}
	case tcell.KeyLeft:
		if e.Modifiers() == tcell.ModNone {
			return command.MoveLeft, true
		}
	case tcell.KeyRight:
		if e.Modifiers() == tcell.ModNone {
			return command.MoveRight, true
		}
	case tcell.KeyPgUp:
		if e.Modifiers() == tcell.ModNone {
			return command.MovePageUp, true
		}
	case tcell.KeyPgDn:
		if e.Modifiers() == tcell.ModNone {
			return command.MovePageDown, true
		}
	case tcell.KeyHome:
		if e.Modifiers() == tcell.ModNone {
			return command.MoveStartOfLine, true
		}
	case tcell.KeyEnd:
		if e.Modifiers() == tcell.ModNone {
			return command.MoveEndOfLine, true
		}
	}
	return nil, false
}
