// Package annotate provides strings decorated with half-open byte-range
// tags. The view layer uses it to clip a document line for display without
// losing the positions of search-match highlights that remain visible.
package annotate

import "slices"

// Type identifies what an annotated span represents.
type Type uint8

const (
	// TypeNone marks un-annotated text.
	TypeNone Type = iota
	// TypeMatch marks an occurrence of the current search query.
	TypeMatch
	// TypeSelectedMatch marks the occurrence the cursor is on.
	TypeSelectedMatch
)

// String returns the annotation type name.
func (t Type) String() string {
	switch t {
	case TypeNone:
		return "none"
	case TypeMatch:
		return "match"
	case TypeSelectedMatch:
		return "selected-match"
	default:
		return "unknown"
	}
}

// Annotation tags the byte range [Start, End) of a Text.
type Annotation struct {
	Type  Type
	Start int
	End   int
}

// Text is a string plus the annotations over its bytes. Replace keeps the
// annotations aligned with the surviving text, so callers may freely trim
// or substitute ranges after tagging.
type Text struct {
	raw         string
	annotations []Annotation
}

// New creates an annotated text over s with no annotations.
func New(s string) *Text {
	return &Text{raw: s}
}

// String returns the current raw string.
func (t *Text) String() string {
	return t.raw
}

// Annotations returns the stored annotations in insertion order.
func (t *Text) Annotations() []Annotation {
	return t.annotations
}

// Add appends an annotation over [start, end). Ranges are clamped to the
// current string; an empty result is ignored.
func (t *Text) Add(typ Type, start, end int) {
	if start < 0 {
		start = 0
	}
	if end > len(t.raw) {
		end = len(t.raw)
	}
	if start >= end {
		return
	}
	t.annotations = append(t.annotations, Annotation{Type: typ, Start: start, End: end})
}

// Replace substitutes the byte range [start, end) with repl and shifts every
// stored annotation accordingly. Annotations entirely left of the range are
// untouched; annotations entirely right of it move by the length delta; an
// annotation boundary inside the range is shifted and then clamped into the
// replacement span. Annotations that end up empty are dropped (clamp and
// keep if non-empty).
func (t *Text) Replace(start, end int, repl string) {
	if start < 0 {
		start = 0
	}
	if end > len(t.raw) {
		end = len(t.raw)
	}
	if start > end {
		return
	}

	delta := len(repl) - (end - start)
	replEnd := start + len(repl)

	t.raw = t.raw[:start] + repl + t.raw[end:]

	kept := t.annotations[:0]
	for _, a := range t.annotations {
		a.Start = shiftBoundary(a.Start, start, end, delta, replEnd)
		a.End = shiftBoundary(a.End, start, end, delta, replEnd)
		if a.Start < a.End && a.Start < len(t.raw) {
			kept = append(kept, a)
		}
	}
	t.annotations = kept
}

// shiftBoundary maps one annotation boundary through a replacement of
// [start, end) whose new span is [start, replEnd) and whose length delta is
// delta.
func shiftBoundary(pos, start, end, delta, replEnd int) int {
	switch {
	case pos <= start:
		return pos
	case pos >= end:
		return pos + delta
	default:
		// Inside the replaced range: shift, then clamp into the
		// replacement span.
		pos += delta
		if pos < start {
			return start
		}
		if pos > replEnd {
			return replEnd
		}
		return pos
	}
}

// Part is a maximal run of text sharing one annotation type.
type Part struct {
	Text string
	Type Type
}

// Parts splits the text into contiguous runs by annotation. Where
// annotations overlap, the one added last wins, so callers layer the
// more specific tag on top (matches first, then the selected match).
func (t *Text) Parts() []Part {
	if t.raw == "" {
		return nil
	}
	if len(t.annotations) == 0 {
		return []Part{{Text: t.raw, Type: TypeNone}}
	}

	// Gather the boundaries of every annotation, then classify each
	// resulting segment by the last annotation covering it.
	cuts := map[int]struct{}{0: {}, len(t.raw): {}}
	for _, a := range t.annotations {
		cuts[clampIdx(a.Start, len(t.raw))] = struct{}{}
		cuts[clampIdx(a.End, len(t.raw))] = struct{}{}
	}
	offsets := make([]int, 0, len(cuts))
	for off := range cuts {
		offsets = append(offsets, off)
	}
	slices.Sort(offsets)

	var parts []Part
	for i := 0; i+1 < len(offsets); i++ {
		lo, hi := offsets[i], offsets[i+1]
		if lo == hi {
			continue
		}
		typ := TypeNone
		for _, a := range t.annotations {
			if a.Start <= lo && hi <= a.End {
				typ = a.Type
			}
		}
		if n := len(parts); n > 0 && parts[n-1].Type == typ {
			parts[n-1].Text += t.raw[lo:hi]
			continue
		}
		parts = append(parts, Part{Text: t.raw[lo:hi], Type: typ})
	}
	return parts
}

func clampIdx(i, max int) int {
	if i < 0 {
		return 0
	}
	if i > max {
		return max
	}
	return i
}
