package buffer

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"testing/quick"
	"unicode/utf8"

	"github.com/ishibashi-futos/notepad-macos/internal/engine/coreerr"
)

func mustBuffer(t *testing.T, s string) *Buffer {
	t.Helper()
	b, err := NewBufferFromString(s)
	if err != nil {
		t.Fatalf("NewBufferFromString(%q) error = %v", s, err)
	}
	return b
}

func TestNewBuffer(t *testing.T) {
	b := NewBuffer()

	if !b.IsEmpty() {
		t.Error("new buffer should be empty")
	}
	if b.Len() != 0 {
		t.Errorf("expected length 0, got %d", b.Len())
	}
	if b.LineCount() != 1 {
		t.Errorf("expected 1 line, got %d", b.LineCount())
	}
}

func TestNewBufferFromString(t *testing.T) {
	b := mustBuffer(t, "Hello, 世界!")

	if b.Text() != "Hello, 世界!" {
		t.Errorf("unexpected text %q", b.Text())
	}
	if b.Len() != 10 {
		t.Errorf("expected length 10, got %d", b.Len())
	}
}

func TestNewBufferFromStringInvalidUTF8(t *testing.T) {
	_, err := NewBufferFromString("bad \xff byte")
	if !errors.Is(err, coreerr.ErrInvalidOperation) {
		t.Errorf("expected InvalidOperation, got %v", err)
	}
}

func TestNewBufferFromReader(t *testing.T) {
	text := strings.Repeat("line\n", 1000)
	b, err := NewBufferFromReader(strings.NewReader(text))
	if err != nil {
		t.Fatalf("NewBufferFromReader() error = %v", err)
	}
	if b.LineCount() != 1001 {
		t.Errorf("expected 1001 lines, got %d", b.LineCount())
	}
}

func TestNewBufferFromReaderInvalidUTF8(t *testing.T) {
	for _, text := range []string{
		"bad\xff",
		strings.Repeat("line\n", 1000) + "\xe6\x97",
		"\x80" + strings.Repeat("日本", 500),
	} {
		_, err := NewBufferFromReader(strings.NewReader(text))
		if !errors.Is(err, coreerr.ErrInvalidOperation) {
			t.Errorf("NewBufferFromReader(%.10q) error = %v, want InvalidOperation", text, err)
		}
	}
}

func TestBufferInsert(t *testing.T) {
	tests := []struct {
		name     string
		initial  string
		offset   Offset
		text     string
		expected string
		end      Offset
	}{
		{"middle", "Hello World", 5, ",", "Hello, World", 6},
		{"start", "World", 0, "Hello ", "Hello World", 6},
		{"end", "Hello", 5, "!", "Hello!", 6},
		{"after multibyte", "日本", 1, "の", "日の本", 2},
		{"empty text", "abc", 1, "", "abc", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := mustBuffer(t, tt.initial)
			end, err := b.Insert(tt.offset, tt.text)
			if err != nil {
				t.Fatalf("Insert() error = %v", err)
			}
			if b.Text() != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, b.Text())
			}
			if end != tt.end {
				t.Errorf("expected end %d, got %d", tt.end, end)
			}
		})
	}
}

func TestBufferInsertOutOfRange(t *testing.T) {
	b := mustBuffer(t, "Hello")

	for _, offset := range []Offset{-1, 6, 100} {
		_, err := b.Insert(offset, "x")
		if !errors.Is(err, coreerr.ErrOutOfRange) {
			t.Errorf("Insert(%d) expected OutOfRange, got %v", offset, err)
		}
		if coreerr.IsRetriable(err) {
			t.Error("domain errors must not be retriable")
		}
	}
	if b.Text() != "Hello" {
		t.Errorf("failed insert modified buffer: %q", b.Text())
	}
}

func TestBufferInsertInvalidUTF8(t *testing.T) {
	b := mustBuffer(t, "Hello")
	_, err := b.Insert(0, "\xc3")
	if !errors.Is(err, coreerr.ErrInvalidOperation) {
		t.Errorf("expected InvalidOperation, got %v", err)
	}
}

func TestBufferDelete(t *testing.T) {
	b := mustBuffer(t, "Hello, 世界")

	removed, err := b.Delete(NewRange(5, 7))
	if err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if removed != ", " {
		t.Errorf("expected removed %q, got %q", ", ", removed)
	}
	if b.Text() != "Hello世界" {
		t.Errorf("unexpected text %q", b.Text())
	}
}

func TestBufferDeleteInvalidRange(t *testing.T) {
	b := mustBuffer(t, "Hello")

	tests := []Range{
		{Start: 3, End: 1},
		{Start: -1, End: 2},
		{Start: 2, End: 6},
	}
	for _, r := range tests {
		if _, err := b.Delete(r); !errors.Is(err, coreerr.ErrOutOfRange) {
			t.Errorf("Delete(%v) expected OutOfRange, got %v", r, err)
		}
	}
}

func TestBufferReplace(t *testing.T) {
	b := mustBuffer(t, "hello")

	removed, err := b.Replace(NewRange(0, 5), "hi")
	if err != nil {
		t.Fatalf("Replace() error = %v", err)
	}
	if removed != "hello" || b.Text() != "hi" {
		t.Errorf("Replace() removed %q, text %q", removed, b.Text())
	}
}

func TestBufferApplyEdit(t *testing.T) {
	b := mustBuffer(t, "Hello World")

	res, err := b.ApplyEdit(NewEdit(NewRange(6, 11), "Gophers"))
	if err != nil {
		t.Fatalf("ApplyEdit() error = %v", err)
	}
	if b.Text() != "Hello Gophers" {
		t.Errorf("unexpected text %q", b.Text())
	}
	if res.OldText != "World" {
		t.Errorf("expected old text World, got %q", res.OldText)
	}
	if res.NewRange != NewRange(6, 13) {
		t.Errorf("expected new range [6:13), got %v", res.NewRange)
	}
	if res.Delta != 2 {
		t.Errorf("expected delta 2, got %d", res.Delta)
	}
}

func TestBufferSlice(t *testing.T) {
	b := mustBuffer(t, "héllo wörld")

	got, err := b.Slice(NewRange(6, 11))
	if err != nil || got != "wörld" {
		t.Errorf("Slice() = %q, %v", got, err)
	}
	if _, err := b.Slice(NewRange(6, 12)); !errors.Is(err, coreerr.ErrOutOfRange) {
		t.Errorf("expected OutOfRange, got %v", err)
	}
}

func TestBufferLineOperations(t *testing.T) {
	b := mustBuffer(t, "first\nsecond\n\nfourth")

	if b.LineCount() != 4 {
		t.Fatalf("expected 4 lines, got %d", b.LineCount())
	}

	lines := []string{"first", "second", "", "fourth"}
	for i, want := range lines {
		got, err := b.LineText(i)
		if err != nil || got != want {
			t.Errorf("LineText(%d) = %q, %v; want %q", i, got, err, want)
		}
	}

	if _, err := b.LineText(4); !errors.Is(err, coreerr.ErrOutOfRange) {
		t.Errorf("LineText(4) expected OutOfRange, got %v", err)
	}

	r, err := b.LineRange(1)
	if err != nil || r != NewRange(6, 12) {
		t.Errorf("LineRange(1) = %v, %v", r, err)
	}
}

func TestBufferLineAt(t *testing.T) {
	b := mustBuffer(t, "ab\ncd")

	tests := []struct {
		offset Offset
		line   int
	}{
		{0, 0}, {2, 0}, {3, 1}, {5, 1},
	}
	for _, tt := range tests {
		got, err := b.LineAt(tt.offset)
		if err != nil || got != tt.line {
			t.Errorf("LineAt(%d) = %d, %v; want %d", tt.offset, got, err, tt.line)
		}
	}

	if _, err := b.LineAt(6); !errors.Is(err, coreerr.ErrOutOfRange) {
		t.Errorf("LineAt(6) expected OutOfRange, got %v", err)
	}
}

func TestBufferOffsetAt(t *testing.T) {
	b := mustBuffer(t, "日本\nhello\n")

	tests := []struct {
		line, column int
		offset       Offset
		ok           bool
	}{
		{0, 0, 0, true},
		{0, 2, 2, true},
		{0, 3, 0, false},
		{1, 5, 8, true},
		{2, 0, 9, true},
		{3, 0, 0, false},
		{-1, 0, 0, false},
	}

	for _, tt := range tests {
		got, err := b.OffsetAt(tt.line, tt.column)
		if tt.ok {
			if err != nil || got != tt.offset {
				t.Errorf("OffsetAt(%d, %d) = %d, %v; want %d", tt.line, tt.column, got, err, tt.offset)
			}
			continue
		}
		if !errors.Is(err, coreerr.ErrOutOfRange) {
			t.Errorf("OffsetAt(%d, %d) expected OutOfRange, got %v", tt.line, tt.column, err)
		}
	}
}

func TestBufferPointAt(t *testing.T) {
	b := mustBuffer(t, "日本\nhello")

	p, err := b.PointAt(5)
	if err != nil || p != (Point{Line: 1, Column: 2}) {
		t.Errorf("PointAt(5) = %+v, %v", p, err)
	}
	if FormatPoint(p) != "2:3" {
		t.Errorf("FormatPoint() = %q", FormatPoint(p))
	}
	if _, err := b.PointAt(100); !errors.Is(err, coreerr.ErrOutOfRange) {
		t.Errorf("expected OutOfRange, got %v", err)
	}
}

func TestBufferRuneAt(t *testing.T) {
	b := mustBuffer(t, "a🌍")

	r, err := b.RuneAt(1)
	if err != nil || r != '🌍' {
		t.Errorf("RuneAt(1) = %q, %v", r, err)
	}
	if _, err := b.RuneAt(2); !errors.Is(err, coreerr.ErrOutOfRange) {
		t.Errorf("RuneAt(2) expected OutOfRange, got %v", err)
	}
}

func TestBufferSnapshot(t *testing.T) {
	b := mustBuffer(t, "Hello")
	snap := b.Snapshot()

	if _, err := b.Insert(5, " World"); err != nil {
		t.Fatal(err)
	}

	if snap.Text() != "Hello" {
		t.Errorf("snapshot should still be Hello, got %q", snap.Text())
	}
	if b.Text() != "Hello World" {
		t.Errorf("buffer should be Hello World, got %q", b.Text())
	}
	if snap.RevisionID() == b.RevisionID() {
		t.Error("revision should change after an edit")
	}
}

func TestBufferSnapshotOperations(t *testing.T) {
	b := mustBuffer(t, "line1\nline2\nline3")
	snap := b.Snapshot()

	if snap.LineCount() != 3 {
		t.Errorf("expected 3 lines, got %d", snap.LineCount())
	}
	if off, err := snap.OffsetAt(2, 0); err != nil || off != 12 {
		t.Errorf("OffsetAt(2, 0) = %d, %v", off, err)
	}
	if line, err := snap.LineAt(7); err != nil || line != 1 {
		t.Errorf("LineAt(7) = %d, %v", line, err)
	}
	if s, err := snap.Slice(NewRange(6, 11)); err != nil || s != "line2" {
		t.Errorf("Slice() = %q, %v", s, err)
	}

	var lines []string
	it := snap.Lines()
	for it.Next() {
		lines = append(lines, it.Text())
	}
	if strings.Join(lines, ",") != "line1,line2,line3" {
		t.Errorf("lines = %v", lines)
	}
}

func TestBufferReset(t *testing.T) {
	b := mustBuffer(t, "old")
	other := mustBuffer(t, "new content")
	rev := b.RevisionID()

	b.Reset(other.Rope())
	if b.Text() != "new content" {
		t.Errorf("unexpected text %q", b.Text())
	}
	if b.RevisionID() == rev {
		t.Error("Reset should create a new revision")
	}
}

func TestBufferRevisionID(t *testing.T) {
	b := NewBuffer()
	rev1 := b.RevisionID()

	b.Insert(0, "Hello")
	rev2 := b.RevisionID()
	if rev1 == rev2 {
		t.Error("revision should change after insert")
	}

	b.Insert(0, "")
	if b.RevisionID() != rev2 {
		t.Error("empty insert should not create a revision")
	}
}

func TestBufferConcurrentReadWrite(t *testing.T) {
	b := mustBuffer(t, strings.Repeat("x", 100))

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				snap := b.Snapshot()
				if !utf8.ValidString(snap.Text()) {
					t.Error("snapshot text invalid")
					return
				}
			}
		}()
	}
	for i := 0; i < 100; i++ {
		if _, err := b.Insert(b.Len()/2, "é"); err != nil {
			t.Fatal(err)
		}
	}
	wg.Wait()

	if b.Len() != 200 {
		t.Errorf("expected 200 characters, got %d", b.Len())
	}
}

func TestDeleteInsertRoundTripProperty(t *testing.T) {
	f := func(s string, a, c uint16) bool {
		b, err := NewBufferFromString(s)
		if err != nil {
			return true
		}
		n := b.Len()
		start, end := int(a)%(n+1), int(c)%(n+1)
		if start > end {
			start, end = end, start
		}

		removed, err := b.Delete(NewRange(start, end))
		if err != nil {
			return false
		}
		if _, err := b.Insert(start, removed); err != nil {
			return false
		}
		return b.Text() == s
	}

	if err := quick.Check(f, nil); err != nil {
		t.Error(err)
	}
}

func TestRangeOperations(t *testing.T) {
	r1 := Range{Start: 0, End: 10}
	r2 := Range{Start: 5, End: 15}
	r3 := Range{Start: 20, End: 30}

	if !r1.Overlaps(r2) {
		t.Error("r1 should overlap r2")
	}
	if r1.Overlaps(r3) {
		t.Error("r1 should not overlap r3")
	}
	if !r1.Contains(5) {
		t.Error("r1 should contain 5")
	}
	if r1.Contains(10) {
		t.Error("r1 should not contain 10 (exclusive end)")
	}
	if !r1.Adjacent(Range{Start: 10, End: 12}) {
		t.Error("[0:10) and [10:12) should be adjacent")
	}

	union := r1.Union(r2)
	if union.Start != 0 || union.End != 15 {
		t.Errorf("union should be [0:15), got %v", union)
	}
	if r1.Shift(3) != (Range{Start: 3, End: 13}) {
		t.Errorf("Shift(3) = %v", r1.Shift(3))
	}
}

func TestEditString(t *testing.T) {
	tests := []struct {
		edit Edit
		want string
	}{
		{NewInsert(5, "Hi"), `Insert(5, "Hi")`},
		{NewDelete(0, 5), "Delete[0:5)"},
		{NewEdit(NewRange(0, 5), "World"), `Replace[0:5) with "World"`},
	}
	for _, tt := range tests {
		if got := tt.edit.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
	if !NewInsert(3, "").IsNoOp() {
		t.Error("empty insert should be a no-op")
	}
}
