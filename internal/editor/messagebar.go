package editor

import "github.com/mattn/go-runewidth"

// MessageBar renders one-line feedback on the bottom row: the startup help
// text, save results, quit warnings.
type MessageBar struct {
	message     string
	width       int
	needsRedraw bool
}

// Update replaces the displayed message. Setting the same message again
// does not force a repaint.
func (m *MessageBar) Update(message string) {
	if message != m.message {
		m.message = message
		m.needsRedraw = true
	}
}

// Message returns the current message text.
func (m *MessageBar) Message() string { return m.message }

// Resize sets the bar width.
func (m *MessageBar) Resize(width int) {
	m.width = width
	m.needsRedraw = true
}

// MarkDirty forces a repaint of an unchanged message. The bar shares the
// bottom row with the command bar and must repaint when a prompt closes.
func (m *MessageBar) MarkDirty() { m.needsRedraw = true }

// NeedsRedraw reports whether the bar changed since it was last drawn.
func (m *MessageBar) NeedsRedraw() bool { return m.needsRedraw }

// MarkDrawn resets the redraw flag.
func (m *MessageBar) MarkDrawn() { m.needsRedraw = false }

// Line returns the message clipped to the bar width.
func (m *MessageBar) Line() string {
	return runewidth.Truncate(m.message, m.width, "")
}
