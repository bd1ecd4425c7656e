// Package document maintains the in-memory document: an ordered sequence of
// lines, the dirty flag, and the file association. Edits address a (line,
// grapheme) location; persistence is whole-file and synchronous.
package document

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/edvik/inkwell/internal/segment"
)

// ErrNoFileName indicates a save was requested on a buffer that has no file
// association yet.
var ErrNoFileName = errors.New("buffer has no file name")

// FileError wraps a failed file operation with its path.
type FileError struct {
	Op   string
	Path string
	Err  error
}

func (e *FileError) Error() string {
	if e.Err == nil {
		return e.Op + " " + e.Path
	}
	return e.Op + " " + e.Path + ": " + e.Err.Error()
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// Location addresses a cursor position by line index and grapheme index
// within that line. It is valid only against the buffer state it was derived
// from; after an edit it must be re-clamped, never cached.
type Location struct {
	Line     int
	Grapheme int
}

// FileInfo is a buffer's file association.
type FileInfo struct {
	path string
}

// HasPath reports whether a file path is associated.
func (fi FileInfo) HasPath() bool { return fi.path != "" }

// Path returns the associated path, or "" when unset.
func (fi FileInfo) Path() string { return fi.path }

// Name returns the base name for display, or a placeholder when no file is
// associated yet.
func (fi FileInfo) Name() string {
	if fi.path == "" {
		return "[No Name]"
	}
	return filepath.Base(fi.path)
}

func (fi FileInfo) String() string { return fi.Name() }

// Buffer is an ordered collection of lines plus dirty and file-association
// state. A buffer with no lines is displayed as a single empty line; edits
// below the last line append to it.
type Buffer struct {
	lines []*segment.Line
	info  FileInfo
	dirty bool
}

// NewBuffer returns an empty buffer with no file association.
func NewBuffer() *Buffer {
	return &Buffer{}
}

// Load reads the file at path into a new buffer, one line per text line. A
// path that cannot be read is treated as a file to be created there: the
// buffer starts as one empty dirty line with the path kept for the eventual
// save.
func Load(path string) *Buffer {
	data, err := os.ReadFile(path)
	if err != nil {
		return &Buffer{
			lines: []*segment.Line{segment.NewLine("")},
			info:  FileInfo{path: path},
			dirty: true,
		}
	}

	var lines []*segment.Line
	for _, text := range splitLines(string(data)) {
		lines = append(lines, segment.NewLine(text))
	}
	return &Buffer{lines: lines, info: FileInfo{path: path}}
}

// splitLines splits file content on newlines. The final line ending is
// optional, and a carriage return before a newline is stripped.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

// Height returns the number of lines.
func (b *Buffer) Height() int { return len(b.lines) }

// IsEmpty reports whether the buffer holds no lines at all.
func (b *Buffer) IsEmpty() bool { return len(b.lines) == 0 }

// Dirty reports whether content differs from the last successful save.
func (b *Buffer) Dirty() bool { return b.dirty }

// IsFileLoaded reports whether a file path is associated with the buffer.
func (b *Buffer) IsFileLoaded() bool { return b.info.HasPath() }

// FileInfo returns the buffer's file association.
func (b *Buffer) FileInfo() FileInfo { return b.info }

// Line returns the line at idx.
func (b *Buffer) Line(idx int) (*segment.Line, bool) {
	if idx < 0 || idx >= len(b.lines) {
		return nil, false
	}
	return b.lines[idx], true
}

// Save writes the buffer to its associated path and clears the dirty flag.
// It fails with ErrNoFileName when no path is associated.
func (b *Buffer) Save() error {
	if !b.info.HasPath() {
		return ErrNoFileName
	}
	if err := b.writeTo(b.info.Path()); err != nil {
		return err
	}
	b.dirty = false
	return nil
}

// SaveAs writes the buffer to path. The file association is updated only
// after a successful write, so a failed save keeps the old association for
// retry.
func (b *Buffer) SaveAs(path string) error {
	if err := b.writeTo(path); err != nil {
		return err
	}
	b.info = FileInfo{path: path}
	b.dirty = false
	return nil
}

// writeTo persists every line followed by exactly one newline.
func (b *Buffer) writeTo(path string) error {
	var sb strings.Builder
	for _, line := range b.lines {
		sb.WriteString(line.String())
		sb.WriteByte('\n')
	}
	if err := os.WriteFile(path, []byte(sb.String()), 0644); err != nil {
		return &FileError{Op: "save", Path: path, Err: err}
	}
	return nil
}

// InsertChar inserts ch at the location, or starts a new final line when the
// location is below the last line.
func (b *Buffer) InsertChar(ch rune, at Location) {
	if line, ok := b.Line(at.Line); ok {
		line.InsertChar(ch, at.Grapheme)
	} else {
		b.lines = append(b.lines, segment.NewLine(string(ch)))
	}
	b.dirty = true
}

// InsertNewline splits the addressed line at the location, inserting the
// right part below it. Below the last line it appends a fresh empty line.
func (b *Buffer) InsertNewline(at Location) {
	if line, ok := b.Line(at.Line); ok {
		right := line.Split(at.Grapheme)
		b.lines = append(b.lines, nil)
		copy(b.lines[at.Line+2:], b.lines[at.Line+1:])
		b.lines[at.Line+1] = right
	} else {
		b.lines = append(b.lines, segment.NewLine(""))
	}
	b.dirty = true
}

// Delete removes the grapheme at the location. At the end of a line it
// merges the next line into the current one instead, when one exists. At the
// very end of the buffer, or below the last line, it is a no-op and the
// dirty flag stays as it was.
func (b *Buffer) Delete(at Location) {
	line, ok := b.Line(at.Line)
	if !ok {
		return
	}
	switch {
	case at.Grapheme >= line.GraphemeCount() && at.Line < len(b.lines)-1:
		next := b.lines[at.Line+1]
		b.lines = append(b.lines[:at.Line+1], b.lines[at.Line+2:]...)
		line.Append(next)
	case at.Grapheme < line.GraphemeCount():
		line.Delete(at.Grapheme)
	default:
		return
	}
	b.dirty = true
}

// SearchForward scans lines from the location to the end of the buffer,
// starting at the location's grapheme on the first line and at 0 on
// subsequent lines, returning the first match.
func (b *Buffer) SearchForward(query string, from Location) (Location, bool) {
	for lineIdx := from.Line; lineIdx >= 0 && lineIdx < len(b.lines); lineIdx++ {
		fromGrapheme := 0
		if lineIdx == from.Line {
			fromGrapheme = from.Grapheme
		}
		if graphemeIdx, ok := b.lines[lineIdx].SearchForward(query, fromGrapheme); ok {
			return Location{Line: lineIdx, Grapheme: graphemeIdx}, true
		}
	}
	return Location{}, false
}

// SearchBackward scans lines from the location to the start of the buffer,
// matching strictly before the location's grapheme on the first line and
// anywhere on earlier lines, returning the last match before the location.
func (b *Buffer) SearchBackward(query string, from Location) (Location, bool) {
	start := from.Line
	if start >= len(b.lines) {
		start = len(b.lines) - 1
	}
	for lineIdx := start; lineIdx >= 0; lineIdx-- {
		line := b.lines[lineIdx]
		fromGrapheme := line.GraphemeCount()
		if lineIdx == from.Line {
			fromGrapheme = from.Grapheme
		}
		if graphemeIdx, ok := line.SearchBackward(query, fromGrapheme); ok {
			return Location{Line: lineIdx, Grapheme: graphemeIdx}, true
		}
	}
	return Location{}, false
}
