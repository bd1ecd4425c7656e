package editor

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/edvik/inkwell/internal/view"
)

// StatusBar renders the document summary row: filename and modified marker
// on the left, caret line position on the right.
type StatusBar struct {
	status      view.Status
	width       int
	needsRedraw bool
}

// Update replaces the displayed status. An unchanged status does not force
// a repaint.
func (s *StatusBar) Update(status view.Status) {
	if status != s.status {
		s.status = status
		s.needsRedraw = true
	}
}

// Resize sets the bar width.
func (s *StatusBar) Resize(width int) {
	s.width = width
	s.needsRedraw = true
}

// NeedsRedraw reports whether the bar changed since it was last drawn.
func (s *StatusBar) NeedsRedraw() bool { return s.needsRedraw }

// MarkDrawn resets the redraw flag.
func (s *StatusBar) MarkDrawn() { s.needsRedraw = false }

// Line composes the bar content at the current width. When both halves do
// not fit the left half wins and is truncated.
func (s *StatusBar) Line() string {
	left := s.status.Filename + " "
	if s.status.Modified {
		left += "[+] "
	}
	right := fmt.Sprintf("Ln %d of %d", s.status.CurrentLine+1, s.status.TotalLines)

	leftWidth := runewidth.StringWidth(left)
	rightWidth := runewidth.StringWidth(right)
	if leftWidth+rightWidth > s.width {
		return runewidth.Truncate(left, s.width, "")
	}
	return left + strings.Repeat(" ", s.width-leftWidth-rightWidth) + right
}
