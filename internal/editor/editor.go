// Package editor owns the top-level session state: mode routing between the
// document view and the prompt input, the status and message bars, quit
// confirmation, and the per-turn screen refresh.
package editor

import (
	"errors"
	"fmt"
	"strings"

	"github.com/edvik/inkwell/internal/command"
	"github.com/edvik/inkwell/internal/config"
	"github.com/edvik/inkwell/internal/terminal"
	"github.com/edvik/inkwell/internal/view"
)

// ErrQuit reports that the user asked to leave and the session should shut
// down cleanly.
var ErrQuit = errors.New("quit requested")

// Mode selects where input commands are routed.
type Mode uint8

const (
	// ModeNormal routes edits and movement to the document view.
	ModeNormal Mode = iota
	// ModeSavePrompt collects a filename for an unassociated buffer.
	ModeSavePrompt
	// ModeSearchPrompt collects a live search query.
	ModeSearchPrompt
)

const (
	savePrompt   = "Save as: "
	searchPrompt = "Search (Esc to cancel, Arrows to navigate): "

	savedMessage      = "File saved successfully."
	saveFailedMessage = "Error writing file!"
	saveAbortedMsg    = "Save aborted."
	noSearchMessage   = "Nothing to search for."
)

// Options configures a new editor session.
type Options struct {
	// Welcome is the banner shown while the buffer is empty.
	Welcome string
	// Theme colors search matches and the status bar.
	Theme terminal.Theme
	// Keymap supplies the chord labels for help and warning messages.
	Keymap config.Keymap
	// QuitConfirmations is how many quit presses a dirty buffer absorbs
	// before the session ends anyway.
	QuitConfirmations int
}

// Editor routes decoded commands by mode and repaints the screen once per
// processed event. It owns the document view, the two bars, and the prompt
// input; everything runs on the event-loop goroutine.
type Editor struct {
	device *terminal.Device
	view   *view.View
	theme  terminal.Theme

	mode    Mode
	bar     CommandBar
	status  StatusBar
	message MessageBar

	quitLabel     string
	quitThreshold int
	quitCount     int

	size view.Size
}

// New wires an editor session over an initialized terminal device.
func New(device *terminal.Device, opts Options) *Editor {
	e := &Editor{
		device:        device,
		view:          view.New(opts.Welcome),
		theme:         opts.Theme,
		quitLabel:     chordLabel(opts.Keymap.Quit),
		quitThreshold: opts.QuitConfirmations,
	}
	e.message.Update(HelpMessage(opts.Keymap))
	width, height := device.Size()
	e.resize(view.Size{Width: width, Height: height})
	return e
}

// Load opens path in the document view. A missing file becomes an empty
// dirty buffer associated with the path.
func (e *Editor) Load(path string) {
	e.view.Load(path)
}

// Mode returns the active input mode.
func (e *Editor) Mode() Mode { return e.mode }

// View exposes the document view.
func (e *Editor) View() *view.View { return e.view }

// Message returns the current message bar text.
func (e *Editor) Message() string { return e.message.Message() }

// PromptValue returns the text typed into the active prompt.
func (e *Editor) PromptValue() string { return e.bar.Value() }

// SetTheme swaps display colors and forces a full repaint.
func (e *Editor) SetTheme(theme terminal.Theme) {
	e.theme = theme
	e.resize(e.size)
}

// SetQuitConfirmations updates the quit threshold, restarting any
// confirmation sequence in progress.
func (e *Editor) SetQuitConfirmations(n int) {
	e.quitThreshold = n
	e.quitCount = 0
}

// resize distributes a new terminal size: the view gets everything above
// the status and message rows.
func (e *Editor) resize(size view.Size) {
	e.size = size
	viewHeight := size.Height - 2
	if viewHeight < 0 {
		viewHeight = 0
	}
	e.view.Resize(view.Size{Width: size.Width, Height: viewHeight})
	e.status.Resize(size.Width)
	e.message.Resize(size.Width)
	e.bar.Resize(size.Width)
}

// ============================================================================
// Command routing
// ============================================================================

// Process applies one decoded command. It returns ErrQuit when the session
// should end; every other outcome shows up in editor state and the next
// Refresh.
func (e *Editor) Process(cmd command.Command) error {
	if r, ok := cmd.(command.Resize); ok {
		e.resize(view.Size{Width: r.Width, Height: r.Height})
		return nil
	}
	switch e.mode {
	case ModeSavePrompt:
		e.processSavePrompt(cmd)
	case ModeSearchPrompt:
		e.processSearchPrompt(cmd)
	default:
		return e.processNormal(cmd)
	}
	return nil
}

func (e *Editor) processNormal(cmd command.Command) error {
	if sys, ok := cmd.(command.System); ok && sys == command.SystemQuit {
		return e.handleQuit()
	}
	e.resetQuitCount()

	switch c := cmd.(type) {
	case command.Move:
		e.view.HandleMove(c)
	case command.Edit:
		e.view.HandleEdit(c)
	case command.System:
		switch c {
		case command.SystemSave:
			e.handleSave()
		case command.SystemSearch:
			e.enterPrompt(ModeSearchPrompt)
		case command.SystemSearchNext, command.SystemSearchPrevious:
			e.message.Update(noSearchMessage)
		case command.SystemDismiss:
			// nothing to dismiss outside a prompt
		}
	}
	return nil
}

// processSavePrompt routes commands while naming an unassociated buffer.
// Movement means nothing here; quit, save, and search are swallowed so the
// prompt cannot be re-entered from inside itself.
func (e *Editor) processSavePrompt(cmd command.Command) {
	switch c := cmd.(type) {
	case command.System:
		if c == command.SystemDismiss {
			e.leavePrompt()
			e.message.Update(saveAbortedMsg)
		}
	case command.Edit:
		if c.Kind == command.EditInsertNewline {
			e.reportSave(e.view.SaveAs(e.bar.Value()))
			e.leavePrompt()
			return
		}
		e.bar.HandleEdit(c)
	}
}

// processSearchPrompt routes commands while a search session is live. Edits
// retype the query, which restarts the scan from where search began; arrows
// and the next/previous chords step between matches.
func (e *Editor) processSearchPrompt(cmd command.Command) {
	switch c := cmd.(type) {
	case command.System:
		switch c {
		case command.SystemDismiss:
			e.view.DismissSearch()
			e.leavePrompt()
		case command.SystemSearchNext:
			e.view.SearchNext()
		case command.SystemSearchPrevious:
			e.view.SearchPrevious()
		}
	case command.Edit:
		if c.Kind == command.EditInsertNewline {
			e.view.ConfirmSearch()
			e.leavePrompt()
			return
		}
		e.bar.HandleEdit(c)
		e.view.UpdateSearch(e.bar.Value())
	case command.Move:
		switch c {
		case command.MoveRight, command.MoveDown:
			e.view.SearchNext()
		case command.MoveUp, command.MoveLeft:
			e.view.SearchPrevious()
		}
	}
}

func (e *Editor) enterPrompt(mode Mode) {
	switch mode {
	case ModeSavePrompt:
		e.bar.SetPrompt(savePrompt)
	case ModeSearchPrompt:
		e.view.EnterSearch()
		e.bar.SetPrompt(searchPrompt)
	}
	e.mode = mode
}

// leavePrompt returns to normal mode. The message bar repaints because it
// shares the bottom row with the command bar.
func (e *Editor) leavePrompt() {
	e.mode = ModeNormal
	e.message.MarkDirty()
}

// ============================================================================
// Save and quit
// ============================================================================

func (e *Editor) handleSave() {
	if e.view.IsFileLoaded() {
		e.reportSave(e.view.Save())
		return
	}
	e.enterPrompt(ModeSavePrompt)
}

// reportSave surfaces a write outcome on the message bar. Failures leave
// the buffer dirty so the user can fix the problem and retry.
func (e *Editor) reportSave(err error) {
	if err != nil {
		e.message.Update(saveFailedMessage)
		return
	}
	e.message.Update(savedMessage)
}

// handleQuit ends the session immediately for a clean buffer. A dirty
// buffer soaks up quitThreshold presses in a row before quitting anyway.
func (e *Editor) handleQuit() error {
	if !e.view.Status().Modified || e.quitCount+1 >= e.quitThreshold {
		return ErrQuit
	}
	remaining := e.quitThreshold - e.quitCount - 1
	e.message.Update(fmt.Sprintf(
		"WARNING! File has unsaved changes. Press %s %d more times to quit.",
		e.quitLabel, remaining))
	e.quitCount++
	return nil
}

// resetQuitCount abandons a quit confirmation sequence. Clearing the
// message removes the warning from the bottom row.
func (e *Editor) resetQuitCount() {
	if e.quitCount > 0 {
		e.quitCount = 0
		e.message.Update("")
	}
}

// ============================================================================
// Drawing
// ============================================================================

// Refresh repaints everything that changed since the last call and places
// the caret. With fewer than three rows the bars win over the document.
func (e *Editor) Refresh() {
	if e.size.Width == 0 || e.size.Height == 0 {
		return
	}
	e.device.HideCaret()

	bottom := e.size.Height - 1
	if e.mode == ModeNormal {
		if e.message.NeedsRedraw() {
			e.device.PrintRow(bottom, e.message.Line())
			e.message.MarkDrawn()
		}
	} else if e.bar.NeedsRedraw() {
		e.device.PrintRow(bottom, e.bar.Line())
		e.bar.MarkDrawn()
	}

	if e.size.Height > 1 {
		e.status.Update(e.view.Status())
		if e.status.NeedsRedraw() {
			e.device.PrintStatusRow(e.size.Height-2, e.status.Line(), e.theme)
			e.status.MarkDrawn()
		}
	}

	if e.size.Height > 2 && e.view.NeedsRedraw() {
		for row := 0; row < e.view.Size().Height; row++ {
			r := e.view.Row(row)
			if r.Text != nil {
				e.device.PrintAnnotatedRow(row, r.Text, e.theme)
			} else {
				e.device.PrintRow(row, r.Filler)
			}
		}
		e.view.MarkDrawn()
	}

	caret := e.caretPosition()
	e.device.MoveCaretTo(caret.Col, caret.Row)
	e.device.Show()
}

// caretPosition is screen-relative: in a prompt the caret sits on the
// bottom row after the typed value.
func (e *Editor) caretPosition() view.Position {
	if e.mode == ModeNormal {
		return e.view.CaretPosition()
	}
	return view.Position{Row: e.size.Height - 1, Col: e.bar.CaretCol()}
}

// ============================================================================
// Messages
// ============================================================================

// HelpMessage renders the startup help line for the active key bindings.
func HelpMessage(km config.Keymap) string {
	return fmt.Sprintf("HELP: %s = find | %s = save | %s = quit",
		chordLabel(km.Search), chordLabel(km.Save), chordLabel(km.Quit))
}

// chordLabel formats a keymap chord the way messages spell keys, so
// "ctrl+t" reads as "Ctrl-T".
func chordLabel(chord string) string {
	if rest, ok := strings.CutPrefix(chord, "ctrl+"); ok {
		return "Ctrl-" + strings.ToUpper(rest)
	}
	if chord == "esc" || chord == "escape" {
		return "Esc"
	}
	return chord
}
