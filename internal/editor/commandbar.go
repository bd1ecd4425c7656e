package editor

import (
	"github.com/mattn/go-runewidth"

	"github.com/edvik/inkwell/internal/command"
	"github.com/edvik/inkwell/internal/segment"
)

// CommandBar is the one-line input used by the save and search prompts. The
// caret always sits at the end of the value; when the value outgrows the
// row, the visible window slides so the tail stays on screen.
type CommandBar struct {
	prompt      string
	value       *segment.Line
	width       int
	needsRedraw bool
}

// SetPrompt replaces the prompt label and clears any previously typed value.
func (c *CommandBar) SetPrompt(prompt string) {
	c.prompt = prompt
	c.value = segment.NewLine("")
	c.needsRedraw = true
}

// HandleEdit applies an edit command to the value. Newline and forward
// delete have no meaning in a one-line input and are ignored.
func (c *CommandBar) HandleEdit(e command.Edit) {
	if c.value == nil {
		c.value = segment.NewLine("")
	}
	switch e.Kind {
	case command.EditInsert:
		c.value.AppendChar(e.Ch)
	case command.EditInsertTab:
		c.value.AppendChar('\t')
	case command.EditDeleteBackward:
		c.value.DeleteLast()
	default:
		return
	}
	c.needsRedraw = true
}

// Value returns the text typed so far.
func (c *CommandBar) Value() string {
	if c.value == nil {
		return ""
	}
	return c.value.String()
}

// CaretCol is the screen column for the caret, clamped to the bar width.
func (c *CommandBar) CaretCol() int {
	col := runewidth.StringWidth(c.prompt)
	if c.value != nil {
		col += c.value.GraphemeCount()
	}
	if col > c.width {
		col = c.width
	}
	return col
}

// Resize sets the bar width.
func (c *CommandBar) Resize(width int) {
	c.width = width
	c.needsRedraw = true
}

// NeedsRedraw reports whether the bar changed since it was last drawn.
func (c *CommandBar) NeedsRedraw() bool { return c.needsRedraw }

// MarkDrawn resets the redraw flag.
func (c *CommandBar) MarkDrawn() { c.needsRedraw = false }

// Line composes the prompt plus the visible tail of the value.
func (c *CommandBar) Line() string {
	if c.value == nil {
		return c.prompt
	}
	area := c.width - runewidth.StringWidth(c.prompt)
	if area < 0 {
		area = 0
	}
	end := c.value.Width()
	start := end - area
	if start < 0 {
		start = 0
	}
	return c.prompt + c.value.VisibleGraphemes(start, end)
}
