package annotate

import (
	"reflect"
	"testing"
)

func TestAddClampsRange(t *testing.T) {
	txt := New("hello")
	txt.Add(TypeMatch, -2, 3)
	txt.Add(TypeMatch, 2, 99)
	txt.Add(TypeMatch, 4, 4)
	txt.Add(TypeMatch, 5, 2)

	got := txt.Annotations()
	want := []Annotation{
		{Type: TypeMatch, Start: 0, End: 3},
		{Type: TypeMatch, Start: 2, End: 5},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("annotations = %v, want %v", got, want)
	}
}

func TestReplaceShiftsLaterAnnotations(t *testing.T) {
	txt := New("foo bar baz")
	txt.Add(TypeMatch, 0, 3)  // foo
	txt.Add(TypeMatch, 8, 11) // baz

	txt.Replace(4, 7, "b") // "foo b baz"

	if got, want := txt.String(), "foo b baz"; got != want {
		t.Fatalf("string = %q, want %q", got, want)
	}
	got := txt.Annotations()
	want := []Annotation{
		{Type: TypeMatch, Start: 0, End: 3},
		{Type: TypeMatch, Start: 6, End: 9},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("annotations = %v, want %v", got, want)
	}
}

func TestReplaceClampsStraddlingAnnotation(t *testing.T) {
	txt := New("abcdefgh")
	txt.Add(TypeMatch, 2, 6) // cdef

	// Cut the tail including half the annotation.
	txt.Replace(4, 8, "")

	if got, want := txt.String(), "abcd"; got != want {
		t.Fatalf("string = %q, want %q", got, want)
	}
	got := txt.Annotations()
	want := []Annotation{{Type: TypeMatch, Start: 2, End: 4}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("annotations = %v, want %v", got, want)
	}
}

func TestReplaceDropsEmptiedAnnotation(t *testing.T) {
	txt := New("abcdefgh")
	txt.Add(TypeMatch, 2, 6)

	txt.Replace(0, 8, "")

	if got, want := txt.String(), ""; got != want {
		t.Fatalf("string = %q, want %q", got, want)
	}
	if got := txt.Annotations(); len(got) != 0 {
		t.Errorf("annotations = %v, want none", got)
	}
}

func TestReplaceWithEllipsisKeepsVisibleMatch(t *testing.T) {
	// Trimming the left edge for horizontal scroll: the match survives,
	// shifted onto the remaining text.
	txt := New("0123match89")
	txt.Add(TypeMatch, 4, 9)

	txt.Replace(0, 4, "⋯") // 3-byte ellipsis replaces 4 bytes

	if got, want := txt.String(), "⋯match89"; got != want {
		t.Fatalf("string = %q, want %q", got, want)
	}
	got := txt.Annotations()
	want := []Annotation{{Type: TypeMatch, Start: 3, End: 8}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("annotations = %v, want %v", got, want)
	}
}

func TestPartsLastAnnotationWins(t *testing.T) {
	txt := New("say hello twice: hello")
	txt.Add(TypeMatch, 4, 9)
	txt.Add(TypeMatch, 17, 22)
	txt.Add(TypeSelectedMatch, 17, 22)

	got := txt.Parts()
	want := []Part{
		{Text: "say ", Type: TypeNone},
		{Text: "hello", Type: TypeMatch},
		{Text: " twice: ", Type: TypeNone},
		{Text: "hello", Type: TypeSelectedMatch},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("parts = %v, want %v", got, want)
	}
}

func TestPartsNoAnnotations(t *testing.T) {
	got := New("plain").Parts()
	want := []Part{{Text: "plain", Type: TypeNone}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("parts = %v, want %v", got, want)
	}
	if got := New("").Parts(); got != nil {
		t.Errorf("parts of empty = %v, want nil", got)
	}
}

func TestPartsMergesAdjacentSameType(t *testing.T) {
	txt := New("aabb")
	txt.Add(TypeMatch, 0, 2)
	txt.Add(TypeMatch, 2, 4)

	got := txt.Parts()
	want := []Part{{Text: "aabb", Type: TypeMatch}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("parts = %v, want %v", got, want)
	}
}
