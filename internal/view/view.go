// Package view owns the cursor and viewport over a document buffer. It
// translates movement and edit commands into buffer mutations, keeps the
// scroll offset positioned so the caret stays visible, and produces the
// exact annotated text slice each viewport row must draw.
package view

import (
	"strings"

	"github.com/edvik/inkwell/internal/annotate"
	"github.com/edvik/inkwell/internal/command"
	"github.com/edvik/inkwell/internal/document"
	"github.com/edvik/inkwell/internal/segment"
)

// Position is a rendered screen position: row and column in cells. Distinct
// from document.Location, which counts lines and graphemes.
type Position struct {
	Row int
	Col int
}

// Size is a viewport size in cells.
type Size struct {
	Width  int
	Height int
}

// Status summarizes the document for the status bar.
type Status struct {
	Filename    string
	TotalLines  int
	CurrentLine int
	Modified    bool
}

// Row is the content of one viewport row: a document slice, or a filler
// string (tilde or welcome banner) when the row is past the document.
type Row struct {
	Text   *annotate.Text
	Filler string
}

type searchDirection uint8

const (
	dirForward searchDirection = iota
	dirBackward
)

// searchSession exists between entering and leaving search. It remembers
// where the caret was so dismissing can restore it, and holds the live
// query as a line so grapheme math is available.
type searchSession struct {
	previous document.Location
	query    *segment.Line
}

// View is the cursor and viewport controller for one document buffer.
type View struct {
	buffer       *document.Buffer
	size         Size
	location     document.Location
	scrollOffset Position
	search       *searchSession
	welcome      string
	needsRedraw  bool
}

// New returns a view over an empty, unassociated buffer. The welcome text is
// shown centered in the viewport while the buffer has no content at all.
func New(welcome string) *View {
	return &View{
		buffer:      document.NewBuffer(),
		welcome:     welcome,
		needsRedraw: true,
	}
}

// Load replaces the buffer with the file at path.
func (v *View) Load(path string) {
	v.buffer = document.Load(path)
	v.location = document.Location{}
	v.scrollOffset = Position{}
	v.needsRedraw = true
}

// Buffer exposes the underlying document buffer.
func (v *View) Buffer() *document.Buffer { return v.buffer }

// IsFileLoaded reports whether a file path is associated.
func (v *View) IsFileLoaded() bool { return v.buffer.IsFileLoaded() }

// Save writes the buffer to its associated path.
func (v *View) Save() error { return v.buffer.Save() }

// SaveAs writes the buffer to path, associating it on success.
func (v *View) SaveAs(path string) error { return v.buffer.SaveAs(path) }

// Location returns the caret's (line, grapheme) address.
func (v *View) Location() document.Location { return v.location }

// ScrollOffset returns the viewport's top-left document position.
func (v *View) ScrollOffset() Position { return v.scrollOffset }

// Size returns the viewport size.
func (v *View) Size() Size { return v.size }

// NeedsRedraw reports whether viewport content changed since MarkDrawn.
func (v *View) NeedsRedraw() bool { return v.needsRedraw }

// MarkDrawn resets the redraw flag after the renderer has caught up.
func (v *View) MarkDrawn() { v.needsRedraw = false }

// Resize sets the viewport size and re-scrolls so the caret stays visible,
// which covers terminals resized mid-session.
func (v *View) Resize(size Size) {
	v.size = size
	v.scrollIntoView()
	v.needsRedraw = true
}

// Status reports the state the status bar displays.
func (v *View) Status() Status {
	return Status{
		Filename:    v.buffer.FileInfo().Name(),
		TotalLines:  v.buffer.Height(),
		CurrentLine: v.location.Line,
		Modified:    v.buffer.Dirty(),
	}
}

// ============================================================================
// Movement
// ============================================================================

// HandleMove applies one movement command and re-scrolls the caret into
// view. Vertical movement clamps the grapheme index to the target line
// instead of preserving the column.
func (v *View) HandleMove(m command.Move) {
	switch m {
	case command.MoveUp:
		v.moveUp(1)
	case command.MoveDown:
		v.moveDown(1)
	case command.MoveLeft:
		v.moveLeft()
	case command.MoveRight:
		v.moveRight()
	case command.MovePageUp:
		v.moveUp(pageStep(v.size.Height))
	case command.MovePageDown:
		v.moveDown(pageStep(v.size.Height))
	case command.MoveStartOfLine:
		v.location.Grapheme = 0
	case command.MoveEndOfLine:
		v.location.Grapheme = v.lineCount(v.location.Line)
	}
	v.scrollIntoView()
}

func pageStep(height int) int {
	if height <= 1 {
		return 0
	}
	return height - 1
}

func (v *View) lineCount(lineIdx int) int {
	if line, ok := v.buffer.Line(lineIdx); ok {
		return line.GraphemeCount()
	}
	return 0
}

func (v *View) moveUp(step int) {
	v.location.Line -= step
	if v.location.Line < 0 {
		v.location.Line = 0
	}
	v.snapGrapheme()
}

func (v *View) moveDown(step int) {
	v.location.Line += step
	v.snapGrapheme()
	v.snapLine()
}

func (v *View) moveLeft() {
	if v.location.Grapheme == 0 && v.location.Line > 0 {
		v.moveUp(1)
		v.location.Grapheme = v.lineCount(v.location.Line)
		return
	}
	if v.location.Grapheme > 0 {
		v.location.Grapheme--
	}
	v.snapGrapheme()
}

func (v *View) moveRight() {
	count := v.lineCount(v.location.Line)
	if v.location.Grapheme < count {
		v.location.Grapheme++
		return
	}
	// At line end: start of the next line when one exists, otherwise stay
	// clamped at the end.
	if v.location.Line < v.buffer.Height()-1 {
		v.location.Line++
		v.location.Grapheme = 0
	}
}

// snapGrapheme clamps the grapheme index to the current line. Rows below
// the document clamp to 0.
func (v *View) snapGrapheme() {
	if count := v.lineCount(v.location.Line); v.location.Grapheme > count {
		v.location.Grapheme = count
	}
}

// snapLine clamps the line index. One row past the last line is legal so
// edits can append below the document.
func (v *View) snapLine() {
	if height := v.buffer.Height(); v.location.Line > height {
		v.location.Line = height
	}
}

// ============================================================================
// Editing
// ============================================================================

// HandleEdit applies one edit command at the caret.
func (v *View) HandleEdit(e command.Edit) {
	switch e.Kind {
	case command.EditInsert:
		v.insertChar(e.Ch)
	case command.EditInsertTab:
		v.insertChar('\t')
	case command.EditInsertNewline:
		v.insertNewline()
	case command.EditDelete:
		v.deleteForward()
	case command.EditDeleteBackward:
		v.deleteBackward()
	}
}

func (v *View) insertChar(ch rune) {
	oldCount := v.lineCount(v.location.Line)
	v.buffer.InsertChar(ch, v.location)
	// The caret advances only when a new cluster appeared; a combining
	// mark can fuse into the previous cluster and leave the count as-is.
	if v.lineCount(v.location.Line) > oldCount {
		v.HandleMove(command.MoveRight)
	}
	v.needsRedraw = true
}

func (v *View) insertNewline() {
	v.buffer.InsertNewline(v.location)
	v.HandleMove(command.MoveRight)
	v.needsRedraw = true
}

func (v *View) deleteForward() {
	v.buffer.Delete(v.location)
	v.needsRedraw = true
}

func (v *View) deleteBackward() {
	// Top-left corner: nothing to the left to delete.
	if v.location.Line == 0 && v.location.Grapheme == 0 {
		return
	}
	v.HandleMove(command.MoveLeft)
	v.deleteForward()
}

// ============================================================================
// Search
// ============================================================================

// EnterSearch starts a search session, snapshotting the caret so a dismiss
// can restore it.
func (v *View) EnterSearch() {
	v.search = &searchSession{previous: v.location}
}

// DismissSearch aborts the session and restores the pre-search caret,
// re-scrolling in case the viewport was resized mid-search.
func (v *View) DismissSearch() {
	if v.search == nil {
		return
	}
	v.location = v.search.previous
	v.search = nil
	v.scrollIntoView()
	v.needsRedraw = true
}

// ConfirmSearch ends the session keeping the caret on the found match.
func (v *View) ConfirmSearch() {
	v.search = nil
	v.needsRedraw = true
}

// UpdateSearch replaces the live query and re-runs the search from the
// location where the session began: every keystroke restarts the search
// rather than continuing from the last match.
func (v *View) UpdateSearch(query string) {
	if v.search == nil {
		return
	}
	v.search.query = segment.NewLine(query)
	v.searchFrom(v.search.previous, dirForward)
}

// SearchNext advances to the next match, stepping the anchor past the
// current one so the same match is not returned twice. It reports false
// when there is nothing to search for.
func (v *View) SearchNext() bool {
	query, ok := v.activeQuery()
	if !ok {
		return false
	}
	step := query.GraphemeCount()
	if step < 1 {
		step = 1
	}
	from := document.Location{Line: v.location.Line, Grapheme: v.location.Grapheme + step}
	v.searchFrom(from, dirForward)
	return true
}

// SearchPrevious moves to the closest match strictly before the caret. It
// reports false when there is nothing to search for.
func (v *View) SearchPrevious() bool {
	if _, ok := v.activeQuery(); !ok {
		return false
	}
	v.searchFrom(v.location, dirBackward)
	return true
}

// SearchActive reports whether a search session is in progress.
func (v *View) SearchActive() bool { return v.search != nil }

func (v *View) activeQuery() (*segment.Line, bool) {
	if v.search == nil || v.search.query == nil || v.search.query.GraphemeCount() == 0 {
		return nil, false
	}
	return v.search.query, true
}

// searchFrom moves the caret to the nearest match in the given direction.
// No match leaves caret and scroll offset untouched.
func (v *View) searchFrom(from document.Location, dir searchDirection) {
	query, ok := v.activeQuery()
	if !ok {
		v.needsRedraw = true
		return
	}
	var loc document.Location
	var found bool
	if dir == dirForward {
		loc, found = v.buffer.SearchForward(query.String(), from)
	} else {
		loc, found = v.buffer.SearchBackward(query.String(), from)
	}
	if found {
		v.location = loc
		v.scrollIntoView()
	}
	v.needsRedraw = true
}

// ============================================================================
// Scrolling
// ============================================================================

func (v *View) scrollIntoView() {
	pos := v.locationToPosition()
	v.scrollVertically(pos.Row)
	v.scrollHorizontally(pos.Col)
}

// locationToPosition converts the caret location into document-absolute
// (row, col) cells via the line's width prefix sums.
func (v *View) locationToPosition() Position {
	row := v.location.Line
	col := 0
	if line, ok := v.buffer.Line(row); ok {
		col = line.WidthUntil(v.location.Grapheme)
	}
	return Position{Row: row, Col: col}
}

func (v *View) scrollVertically(to int) {
	switch {
	case to < v.scrollOffset.Row:
		v.scrollOffset.Row = to
		v.needsRedraw = true
	case to >= v.scrollOffset.Row+v.size.Height:
		v.scrollOffset.Row = to - v.size.Height + 1
		v.needsRedraw = true
	}
}

func (v *View) scrollHorizontally(to int) {
	switch {
	case to < v.scrollOffset.Col:
		v.scrollOffset.Col = to
		v.needsRedraw = true
	case to >= v.scrollOffset.Col+v.size.Width:
		v.scrollOffset.Col = to - v.size.Width + 1
		v.needsRedraw = true
	}
}

// CaretPosition returns the caret's viewport-relative position for the
// terminal caret.
func (v *View) CaretPosition() Position {
	pos := v.locationToPosition()
	row := pos.Row - v.scrollOffset.Row
	if row < 0 {
		row = 0
	}
	col := pos.Col - v.scrollOffset.Col
	if col < 0 {
		col = 0
	}
	return Position{Row: row, Col: col}
}

// ============================================================================
// Rendering
// ============================================================================

// Row produces the content for one viewport row. Document rows carry the
// visible annotated slice for the current scroll offset and search state;
// rows past the document show a tilde, or the welcome banner on a fresh
// session with no content at all.
func (v *View) Row(screenRow int) Row {
	lineIdx := v.scrollOffset.Row + screenRow
	if line, ok := v.buffer.Line(lineIdx); ok {
		left := v.scrollOffset.Col
		right := left + v.size.Width
		query := ""
		selected := -1
		if v.search != nil && v.search.query != nil {
			query = v.search.query.String()
			if v.location.Line == lineIdx {
				selected = v.location.Grapheme
			}
		}
		return Row{Text: line.AnnotatedVisibleSubstr(left, right, query, selected)}
	}
	if v.buffer.IsEmpty() && screenRow == welcomeRow(v.size.Height) {
		return Row{Filler: v.welcomeMessage()}
	}
	return Row{Filler: "~"}
}

// welcomeRow is a third of the way down the viewport.
func welcomeRow(height int) int {
	return height / 3
}

// welcomeMessage centers the welcome text after a leading tilde, or falls
// back to a bare tilde when the viewport is too narrow.
func (v *View) welcomeMessage() string {
	width := v.size.Width
	if width == 0 {
		return ""
	}
	remaining := width - 1
	if remaining <= len(v.welcome) {
		return "~"
	}
	pad := remaining - len(v.welcome)
	left := pad / 2
	return "~" + strings.Repeat(" ", left) + v.welcome + strings.Repeat(" ", pad-left)
}
