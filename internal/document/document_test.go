package document

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/edvik/inkwell/internal/segment"
)

func bufferOf(lines ...string) *Buffer {
	b := NewBuffer()
	for _, text := range lines {
		b.lines = append(b.lines, segment.NewLine(text))
	}
	return b
}

func lineText(t *testing.T, b *Buffer, idx int) string {
	t.Helper()
	line, ok := b.Line(idx)
	if !ok {
		t.Fatalf("line %d missing, height %d", idx, b.Height())
	}
	return line.String()
}

func TestLoadMissingFileStartsEmptyAndDirty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "new.txt")
	b := Load(path)

	if got := b.Height(); got != 1 {
		t.Fatalf("height = %d, want 1", got)
	}
	if got := lineText(t, b, 0); got != "" {
		t.Errorf("line 0 = %q, want empty", got)
	}
	if !b.Dirty() {
		t.Errorf("buffer not dirty after loading missing file")
	}
	if !b.IsFileLoaded() {
		t.Errorf("file association missing, want %q kept", path)
	}
	if got := b.FileInfo().Name(); got != "new.txt" {
		t.Errorf("file name = %q, want %q", got, "new.txt")
	}
}

func TestLoadSplitsLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.txt")
	if err := os.WriteFile(path, []byte("alpha\nbeta\r\ngamma\n"), 0644); err != nil {
		t.Fatal(err)
	}

	b := Load(path)
	if got := b.Height(); got != 3 {
		t.Fatalf("height = %d, want 3", got)
	}
	want := []string{"alpha", "beta", "gamma"}
	for i, text := range want {
		if got := lineText(t, b, i); got != text {
			t.Errorf("line %d = %q, want %q", i, got, text)
		}
	}
	if b.Dirty() {
		t.Errorf("freshly loaded buffer is dirty")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.txt")
	b := bufferOf("one", "二", "three")

	if err := b.SaveAs(path); err != nil {
		t.Fatalf("SaveAs: %v", err)
	}
	if b.Dirty() {
		t.Errorf("buffer dirty after successful save")
	}

	loaded := Load(path)
	if loaded.Dirty() {
		t.Errorf("reloaded buffer is dirty")
	}
	if got, want := loaded.Height(), b.Height(); got != want {
		t.Fatalf("height = %d, want %d", got, want)
	}
	for i := 0; i < b.Height(); i++ {
		if got, want := lineText(t, loaded, i), lineText(t, b, i); got != want {
			t.Errorf("line %d = %q, want %q", i, got, want)
		}
	}
}

func TestSaveWithoutFileName(t *testing.T) {
	b := bufferOf("text")
	if err := b.Save(); !errors.Is(err, ErrNoFileName) {
		t.Errorf("Save() error = %v, want ErrNoFileName", err)
	}
}

func TestSaveAsKeepsAssociationOnFailure(t *testing.T) {
	goodPath := filepath.Join(t.TempDir(), "doc.txt")
	b := bufferOf("text")
	if err := b.SaveAs(goodPath); err != nil {
		t.Fatalf("SaveAs: %v", err)
	}

	b.InsertChar('!', Location{Line: 0, Grapheme: 0})
	badPath := filepath.Join(t.TempDir(), "missing-dir", "doc.txt")
	err := b.SaveAs(badPath)
	if err == nil {
		t.Fatalf("SaveAs into missing directory succeeded")
	}
	var fileErr *FileError
	if !errors.As(err, &fileErr) {
		t.Errorf("error = %T, want *FileError", err)
	}
	if !b.Dirty() {
		t.Errorf("dirty flag cleared by failed save")
	}
	if got := b.FileInfo().Path(); got != goodPath {
		t.Errorf("file path = %q, want old association %q", got, goodPath)
	}
}

func TestInsertChar(t *testing.T) {
	b := bufferOf("ab")
	b.InsertChar('x', Location{Line: 0, Grapheme: 1})
	if got := lineText(t, b, 0); got != "axb" {
		t.Errorf("line = %q, want %q", got, "axb")
	}
	if !b.Dirty() {
		t.Errorf("buffer not dirty after insert")
	}

	// Below the last line, the character starts a new line.
	b.InsertChar('z', Location{Line: 1, Grapheme: 0})
	if got := b.Height(); got != 2 {
		t.Fatalf("height = %d, want 2", got)
	}
	if got := lineText(t, b, 1); got != "z" {
		t.Errorf("line 1 = %q, want %q", got, "z")
	}
}

func TestInsertNewline(t *testing.T) {
	b := bufferOf("hello", "world")
	b.InsertNewline(Location{Line: 0, Grapheme: 2})

	want := []string{"he", "llo", "world"}
	if got := b.Height(); got != len(want) {
		t.Fatalf("height = %d, want %d", got, len(want))
	}
	for i, text := range want {
		if got := lineText(t, b, i); got != text {
			t.Errorf("line %d = %q, want %q", i, got, text)
		}
	}

	// Below the last line, a fresh empty line is appended.
	b.InsertNewline(Location{Line: 3, Grapheme: 0})
	if got := b.Height(); got != 4 {
		t.Fatalf("height = %d, want 4", got)
	}
	if got := lineText(t, b, 3); got != "" {
		t.Errorf("line 3 = %q, want empty", got)
	}
}

func TestDeleteMergesNextLine(t *testing.T) {
	b := bufferOf("foo", "bar")
	b.Delete(Location{Line: 0, Grapheme: 3})

	if got := b.Height(); got != 1 {
		t.Fatalf("height = %d, want 1", got)
	}
	if got := lineText(t, b, 0); got != "foobar" {
		t.Errorf("line = %q, want %q", got, "foobar")
	}
}

func TestDeleteWithinLine(t *testing.T) {
	b := bufferOf("foo")
	b.Delete(Location{Line: 0, Grapheme: 1})
	if got := lineText(t, b, 0); got != "fo" {
		t.Errorf("line = %q, want %q", got, "fo")
	}
}

func TestDeleteBelowBufferIsNoop(t *testing.T) {
	b := bufferOf("foo")
	b.Delete(Location{Line: 5, Grapheme: 0})
	if got := b.Height(); got != 1 {
		t.Errorf("height = %d, want 1", got)
	}
	if b.Dirty() {
		t.Errorf("no-op delete marked the buffer dirty")
	}
}

func TestDeleteAtBufferEndIsNoop(t *testing.T) {
	b := bufferOf("foo")
	b.Delete(Location{Line: 0, Grapheme: 3})
	if got := lineText(t, b, 0); got != "foo" {
		t.Errorf("line = %q, want %q", got, "foo")
	}
	if b.Dirty() {
		t.Errorf("no-op delete marked the buffer dirty")
	}
}

func searchFixture() *Buffer {
	return bufferOf(
		"0_234567890",
		"foo345foo90",
		"2_234567890",
		"3_234567890",
		"4_2foo67890",
		"5_234567890",
		"6_234567foo",
		"7_234barfoo",
		"8_234567890",
		"9_234567890",
	)
}

func TestSearchForward(t *testing.T) {
	b := searchFixture()
	tests := []struct {
		name  string
		from  Location
		want  Location
		found bool
	}{
		{"from beginning", Location{0, 0}, Location{1, 0}, true},
		{"second occurrence on same line", Location{1, 1}, Location{1, 6}, true},
		{"past line end rolls to next line", Location{6, 11}, Location{7, 8}, true},
		{"from middle", Location{3, 9}, Location{4, 3}, true},
		{"no match after last occurrence", Location{8, 0}, Location{}, false},
	}
	for _, tt := range tests {
		got, ok := b.SearchForward("foo", tt.from)
		if ok != tt.found || got != tt.want {
			t.Errorf("%s: SearchForward = (%v, %v), want (%v, %v)", tt.name, got, ok, tt.want, tt.found)
		}
	}
}

func TestSearchForwardSecondOccurrenceByteOffsets(t *testing.T) {
	b := bufferOf("foo345foo90")
	got, ok := b.SearchForward("foo", Location{Line: 0, Grapheme: 1})
	want := Location{Line: 0, Grapheme: 6}
	if !ok || got != want {
		t.Errorf("SearchForward = (%v, %v), want (%v, true)", got, ok, want)
	}
}

func TestSearchBackward(t *testing.T) {
	b := searchFixture()
	tests := []struct {
		name  string
		from  Location
		want  Location
		found bool
	}{
		{"nothing before first occurrence", Location{1, 0}, Location{}, false},
		{"skips the match at the location", Location{4, 3}, Location{1, 6}, true},
		{"match earlier on same line", Location{7, 11}, Location{7, 8}, true},
		{"from below the buffer", Location{10, 0}, Location{7, 8}, true},
	}
	for _, tt := range tests {
		got, ok := b.SearchBackward("foo", tt.from)
		if ok != tt.found || got != tt.want {
			t.Errorf("%s: SearchBackward = (%v, %v), want (%v, %v)", tt.name, got, ok, tt.want, tt.found)
		}
	}
}

func TestSearchForwardThenBackwardFindsSameMatch(t *testing.T) {
	b := searchFixture()
	from := Location{}
	for {
		fwd, ok := b.SearchForward("foo", from)
		if !ok {
			break
		}
		back, ok := b.SearchBackward("foo", Location{Line: fwd.Line, Grapheme: fwd.Grapheme + 3})
		if !ok {
			t.Fatalf("SearchBackward found nothing right after a hit at %v", fwd)
		}
		if back != fwd {
			t.Errorf("SearchBackward = %v, want %v", back, fwd)
		}
		from = Location{Line: fwd.Line, Grapheme: fwd.Grapheme + 3}
	}
}
