package segment

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/rivo/uniseg"

	"github.com/edvik/inkwell/internal/annotate"
)

// Width is the number of terminal cells a grapheme cluster occupies.
type Width uint8

const (
	// Half occupies one cell.
	Half Width = 1
	// Full occupies two cells, as East Asian wide characters and most
	// emoji do.
	Full Width = 2
)

// Replacement glyphs for clusters a terminal cannot render directly.
const (
	controlGlyph    = '▯'
	whitespaceGlyph = '␣'
	zeroWidthGlyph  = '·'
	ellipsisGlyph   = '⋯'
)

// Fragment is one grapheme cluster of a line.
type Fragment struct {
	// StartByte is the cluster's offset in the line's raw string.
	StartByte int
	// Grapheme is the cluster's raw text.
	Grapheme string
	// Width is the rendered width. Clusters drawn through a replacement
	// glyph always report Half.
	Width Width
	// Replacement is a display-only substitute glyph, or 0 if the raw
	// cluster is drawn as-is. It never alters the underlying text.
	Replacement rune
}

// strictChecks makes index-contract violations panic instead of degrading to
// a safe default. Tests enable it to surface logic errors; an interactive
// session prefers a display glitch over losing unsaved edits.
var strictChecks = false

func violation(format string, args ...any) {
	if strictChecks {
		panic(fmt.Sprintf(format, args...))
	}
}

// Line is one document line: a raw string without newlines and its derived
// fragment list.
type Line struct {
	raw       string
	fragments []Fragment
}

// NewLine builds a line from text. The text must not contain a newline.
func NewLine(text string) *Line {
	if strings.ContainsRune(text, '\n') {
		violation("line text contains newline: %q", text)
	}
	return &Line{raw: text, fragments: fragmentsOf(text)}
}

func fragmentsOf(text string) []Fragment {
	var frags []Fragment
	state := -1
	byteIdx := 0
	for rest := text; len(rest) > 0; {
		var cluster string
		var cells int
		cluster, rest, cells, state = uniseg.FirstGraphemeClusterInString(rest, state)

		frag := Fragment{StartByte: byteIdx, Grapheme: cluster, Width: Half}
		if repl, ok := replacementFor(cluster, cells); ok {
			frag.Replacement = repl
		} else if cells >= 2 {
			frag.Width = Full
		}
		frags = append(frags, frag)
		byteIdx += len(cluster)
	}
	return frags
}

// replacementFor decides the display substitute for a cluster: plain spaces
// and ordinary text need none, tabs become a space, control clusters a
// placeholder box, other whitespace a visible marker, and zero-width
// clusters a middle dot.
func replacementFor(cluster string, cells int) (rune, bool) {
	switch {
	case cluster == " ":
		return 0, false
	case cluster == "\t":
		return ' ', true
	case allControl(cluster):
		return controlGlyph, true
	case cells > 0 && strings.TrimSpace(cluster) == "":
		return whitespaceGlyph, true
	case cells == 0:
		return zeroWidthGlyph, true
	default:
		return 0, false
	}
}

func allControl(cluster string) bool {
	for _, r := range cluster {
		if !unicode.IsControl(r) {
			return false
		}
	}
	return true
}

func (l *Line) rebuild() {
	l.fragments = fragmentsOf(l.raw)
}

// String returns the raw line text.
func (l *Line) String() string {
	return l.raw
}

// Fragments returns the derived fragment list.
func (l *Line) Fragments() []Fragment {
	return l.fragments
}

// GraphemeCount returns the number of grapheme clusters in the line.
func (l *Line) GraphemeCount() int {
	return len(l.fragments)
}

// Width returns the rendered width of the whole line in cells.
func (l *Line) Width() int {
	return l.WidthUntil(len(l.fragments))
}

// WidthUntil returns the rendered width of the first n fragments. It is the
// bridge from a grapheme-indexed cursor to a terminal column.
func (l *Line) WidthUntil(n int) int {
	if n > len(l.fragments) {
		n = len(l.fragments)
	}
	width := 0
	for _, frag := range l.fragments[:n] {
		width += int(frag.Width)
	}
	return width
}

// InsertChar inserts ch before the grapheme at index at, or appends it when
// at points past the last grapheme. Indices beyond count+1 are a contract
// violation and append.
func (l *Line) InsertChar(ch rune, at int) {
	if at < 0 || at > len(l.fragments)+1 {
		violation("insert index %d beyond grapheme count %d", at, len(l.fragments))
	}
	if at < 0 {
		at = 0
	}
	if at < len(l.fragments) {
		byteIdx := l.fragments[at].StartByte
		l.raw = l.raw[:byteIdx] + string(ch) + l.raw[byteIdx:]
	} else {
		l.raw += string(ch)
	}
	l.rebuild()
}

// AppendChar appends ch to the end of the line.
func (l *Line) AppendChar(ch rune) {
	l.InsertChar(ch, len(l.fragments))
}

// Delete removes the grapheme at index at. Out-of-range indices are a no-op.
func (l *Line) Delete(at int) {
	if at < 0 || at >= len(l.fragments) {
		return
	}
	frag := l.fragments[at]
	l.raw = l.raw[:frag.StartByte] + l.raw[frag.StartByte+len(frag.Grapheme):]
	l.rebuild()
}

// DeleteLast removes the final grapheme, if any.
func (l *Line) DeleteLast() {
	l.Delete(len(l.fragments) - 1)
}

// Append concatenates other onto the line.
func (l *Line) Append(other *Line) {
	l.raw += other.raw
	l.rebuild()
}

// Split cuts the line at grapheme index at. The receiver keeps the left
// part; the returned line holds the right part, whose first grapheme is the
// one previously at index at. Splitting at or past the end returns an empty
// line.
func (l *Line) Split(at int) *Line {
	if at < 0 || at >= len(l.fragments) {
		return NewLine("")
	}
	byteIdx := l.fragments[at].StartByte
	right := l.raw[byteIdx:]
	l.raw = l.raw[:byteIdx]
	l.rebuild()
	return NewLine(right)
}

// SearchForward returns the grapheme index of the first occurrence of query
// at or after the byte offset of grapheme fromGrapheme. Matching is raw
// substring matching, not grapheme-aware. The second result is false when
// the line is empty, the start is out of range, or nothing matches. A start
// past the end is not an error: advancing a search anchor beyond the line is
// how a document-level search moves on to the next line.
func (l *Line) SearchForward(query string, fromGrapheme int) (int, bool) {
	if l.raw == "" || fromGrapheme < 0 || fromGrapheme >= len(l.fragments) {
		return 0, false
	}
	start := l.graphemeToByte(fromGrapheme)
	rel := strings.Index(l.raw[start:], query)
	if rel < 0 {
		return 0, false
	}
	return l.byteToGrapheme(start + rel), true
}

// SearchBackward returns the grapheme index of the last occurrence of query
// that starts strictly before the byte offset of grapheme fromGrapheme.
func (l *Line) SearchBackward(query string, fromGrapheme int) (int, bool) {
	if fromGrapheme > len(l.fragments) {
		violation("search start %d beyond grapheme count %d", fromGrapheme, len(l.fragments))
		return 0, false
	}
	if l.raw == "" || fromGrapheme <= 0 {
		return 0, false
	}
	end := l.graphemeToByte(fromGrapheme)
	idx := strings.LastIndex(l.raw[:end], query)
	if idx < 0 {
		return 0, false
	}
	return l.byteToGrapheme(idx), true
}

// lineMatch is one raw occurrence of a query within the line.
type lineMatch struct {
	byteIdx     int
	graphemeIdx int
}

// findAll returns every non-overlapping occurrence of query, left to right.
func (l *Line) findAll(query string) []lineMatch {
	if query == "" {
		return nil
	}
	var matches []lineMatch
	off := 0
	for off <= len(l.raw) {
		rel := strings.Index(l.raw[off:], query)
		if rel < 0 {
			break
		}
		abs := off + rel
		matches = append(matches, lineMatch{byteIdx: abs, graphemeIdx: l.byteToGrapheme(abs)})
		off = abs + len(query)
	}
	return matches
}

// byteToGrapheme converts a byte offset to the index of the grapheme
// containing it. Offsets inside a cluster map to the following grapheme;
// the offset one past the end maps to the grapheme count. Offsets beyond
// the string are a contract violation and yield 0.
func (l *Line) byteToGrapheme(byteIdx int) int {
	if byteIdx < 0 || byteIdx > len(l.raw) {
		violation("byte index %d beyond line length %d", byteIdx, len(l.raw))
		return 0
	}
	for i, frag := range l.fragments {
		if frag.StartByte >= byteIdx {
			return i
		}
	}
	return len(l.fragments)
}

// graphemeToByte converts a grapheme index to its starting byte offset. The
// grapheme count maps to the string length. Larger indices are a contract
// violation and yield 0.
func (l *Line) graphemeToByte(graphemeIdx int) int {
	if graphemeIdx < 0 || graphemeIdx > len(l.fragments) {
		violation("grapheme index %d beyond grapheme count %d", graphemeIdx, len(l.fragments))
		return 0
	}
	if graphemeIdx == len(l.fragments) {
		return len(l.raw)
	}
	return l.fragments[graphemeIdx].StartByte
}

// VisibleGraphemes renders the fragments covering the half-open column
// range [left, right) as a plain string: edge-straddling fragments become a
// single ellipsis, replaced fragments their substitute glyph, everything
// else its raw cluster.
func (l *Line) VisibleGraphemes(left, right int) string {
	var b strings.Builder
	pos := 0
	for _, frag := range l.fragments {
		if pos >= right {
			break
		}
		fragEnd := pos + int(frag.Width)
		if fragEnd > left {
			switch {
			case fragEnd > right || pos < left:
				b.WriteRune(ellipsisGlyph)
			case frag.Replacement != 0:
				b.WriteRune(frag.Replacement)
			default:
				b.WriteString(frag.Grapheme)
			}
		}
		pos = fragEnd
	}
	return b.String()
}

// AnnotatedVisibleSubstr produces exactly the text a renderer must draw for
// the half-open column range [left, right), annotated with search matches.
// Every raw occurrence of a non-empty query is tagged as a match; the
// occurrence starting at grapheme index selectedMatch (pass a negative
// value for none) is tagged as the selected match. Fragments fully outside
// the range are dropped, fragments straddling a range edge collapse to an
// ellipsis, and fragments inside the range are swapped for their
// replacement glyph when they have one.
//
// Trimming walks fragments right to left so byte offsets of untouched
// fragments stay valid while earlier (left) ranges are still pending.
func (l *Line) AnnotatedVisibleSubstr(left, right int, query string, selectedMatch int) *annotate.Text {
	if left >= right {
		return annotate.New("")
	}

	result := annotate.New(l.raw)
	if query != "" {
		for _, m := range l.findAll(query) {
			typ := annotate.TypeMatch
			if selectedMatch >= 0 && m.graphemeIdx == selectedMatch {
				typ = annotate.TypeSelectedMatch
			}
			result.Add(typ, m.byteIdx, m.byteIdx+len(query))
		}
	}

	fragStart := l.Width()
	for i := len(l.fragments) - 1; i >= 0; i-- {
		frag := l.fragments[i]
		fragEnd := fragStart
		fragStart -= int(frag.Width)

		switch {
		case fragStart > right:
			// Not yet inside the visible range; removed together
			// with the fragment on the right boundary.
			continue
		case fragStart < right && fragEnd > right:
			result.Replace(frag.StartByte, len(l.raw), string(ellipsisGlyph))
			continue
		case fragStart == right:
			result.Replace(frag.StartByte, len(l.raw), "")
			continue
		}

		if fragEnd <= left {
			// Fully left of the range: everything up to and
			// including this fragment goes.
			result.Replace(0, frag.StartByte+len(frag.Grapheme), "")
			return result
		}
		if fragStart < left {
			result.Replace(0, frag.StartByte+len(frag.Grapheme), string(ellipsisGlyph))
			return result
		}

		if frag.Replacement != 0 {
			result.Replace(frag.StartByte, frag.StartByte+len(frag.Grapheme), string(frag.Replacement))
		}
	}
	return result
}
