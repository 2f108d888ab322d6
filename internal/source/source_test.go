package source

import "testing"

func TestAddAssignsSequentialIDs(t *testing.T) {
	fs := NewFileSet()
	id1 := fs.Add("a.rmp", []byte("abort"), 0)
	id2 := fs.Add("b.rmp", []byte("abort \"bye\""), 0)
	if id1 != 0 || id2 != 1 {
		t.Fatalf("expected ids 0 and 1, got %d and %d", id1, id2)
	}
	if got := fs.Get(id2); string(got.Content) != "abort \"bye\"" {
		t.Fatalf("unexpected content: %q", got.Content)
	}
}

func TestAddVirtualNormalizesCRLF(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("stdin", []byte("if true {\r\n\tabort\r\n}"))
	f := fs.Get(id)
	if f.Flags&FileNormalizedCRLF == 0 {
		t.Fatalf("expected CRLF normalization flag")
	}
	if string(f.Content) != "if true {\n\tabort\n}" {
		t.Fatalf("content not normalized: %q", f.Content)
	}
}

func TestPositionResolvesLinesAndColumns(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("stdin", []byte("abc\ndef\nghi"))

	cases := []struct {
		off  uint32
		want LineCol
	}{
		{0, LineCol{Line: 1, Col: 1}},
		{2, LineCol{Line: 1, Col: 3}},
		{4, LineCol{Line: 2, Col: 1}},
		{6, LineCol{Line: 2, Col: 3}},
		{8, LineCol{Line: 3, Col: 1}},
		{10, LineCol{Line: 3, Col: 3}},
	}
	for _, tc := range cases {
		got := fs.Position(id, tc.off)
		if got != tc.want {
			t.Fatalf("offset %d: expected %+v, got %+v", tc.off, tc.want, got)
		}
	}
}

func TestLineReturnsContent(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("stdin", []byte("first\nsecond\nthird"))
	if got := fs.Line(id, 2); string(got) != "second" {
		t.Fatalf("expected %q, got %q", "second", got)
	}
	if got := fs.Line(id, 3); string(got) != "third" {
		t.Fatalf("expected %q, got %q", "third", got)
	}
}

func TestSpanCover(t *testing.T) {
	a := Span{File: 1, Start: 4, End: 9}
	b := Span{File: 1, Start: 2, End: 6}
	got := a.Cover(b)
	if got.Start != 2 || got.End != 9 {
		t.Fatalf("unexpected cover: %+v", got)
	}
	other := Span{File: 2, Start: 0, End: 100}
	if got = a.Cover(other); got != a {
		t.Fatalf("cross-file cover must be a no-op")
	}
}
