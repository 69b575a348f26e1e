package rope

import (
	"math/rand"
	"strings"
	"testing"
	"testing/quick"
	"unicode/utf8"
)

// checkTree verifies that every internal node has children of one height and
// that cached summaries match the text below them.
func checkTree(t *testing.T, r Rope) {
	t.Helper()
	if r.root == nil {
		return
	}
	var walk func(n *Node) TextSummary
	walk = func(n *Node) TextSummary {
		sum := TextSummary{Flags: FlagASCII}
		if n.IsLeaf() {
			for _, c := range n.chunks {
				if c.IsEmpty() {
					t.Fatalf("empty chunk in leaf")
				}
				sum = sum.Add(ComputeSummary(c.String()))
			}
		} else {
			for _, child := range n.children {
				if child.height+1 != n.height {
					t.Fatalf("child height %d under node height %d", child.height, n.height)
				}
				sum = sum.Add(walk(child))
			}
		}
		if sum != n.summary {
			t.Fatalf("summary = %+v, want %+v", n.summary, sum)
		}
		return sum
	}
	walk(r.root)
}

func TestNew(t *testing.T) {
	r := New()
	if r.Len() != 0 {
		t.Errorf("New rope should have length 0, got %d", r.Len())
	}
	if !r.IsEmpty() {
		t.Error("New rope should be empty")
	}
	if r.String() != "" {
		t.Errorf("New rope String() should be empty, got %q", r.String())
	}
	if r.LineCount() != 1 {
		t.Errorf("New rope should have 1 line, got %d", r.LineCount())
	}
}

func TestFromString(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"single char", "a"},
		{"short string", "hello"},
		{"with newline", "hello\nworld"},
		{"multiple newlines", "a\nb\nc\nd"},
		{"unicode", "hello 世界 🌍"},
		{"long string", strings.Repeat("abcdefghij", 100)},
		{"very long string", strings.Repeat("x", 10000)},
		{"long multibyte", strings.Repeat("日本語テキスト\n", 500)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := FromString(tt.input)
			if r.String() != tt.input {
				t.Errorf("String() = %q, want %q", r.String(), tt.input)
			}
			if r.Len() != utf8.RuneCountInString(tt.input) {
				t.Errorf("Len() = %d, want %d", r.Len(), utf8.RuneCountInString(tt.input))
			}
			if r.LenBytes() != len(tt.input) {
				t.Errorf("LenBytes() = %d, want %d", r.LenBytes(), len(tt.input))
			}
			checkTree(t, r)
		})
	}
}

func TestInsert(t *testing.T) {
	tests := []struct {
		name     string
		initial  string
		offset   Offset
		text     string
		expected string
	}{
		{"insert at start", "world", 0, "hello ", "hello world"},
		{"insert at end", "hello", 5, " world", "hello world"},
		{"insert in middle", "helloworld", 5, " ", "hello world"},
		{"insert into empty", "", 0, "hello", "hello"},
		{"insert empty string", "hello", 3, "", "hello"},
		{"insert unicode", "hello", 5, " 世界", "hello 世界"},
		{"insert between code points", "世界", 1, "!", "世!界"},
		{"offset past end clamps", "abc", 10, "!", "abc!"},
		{"negative offset clamps", "abc", -4, "!", "!abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := FromString(tt.initial)
			r = r.Insert(tt.offset, tt.text)
			if got := r.String(); got != tt.expected {
				t.Errorf("got %q, want %q", got, tt.expected)
			}
			checkTree(t, r)
		})
	}
}

func TestDelete(t *testing.T) {
	tests := []struct {
		name       string
		initial    string
		start, end Offset
		expected   string
	}{
		{"delete prefix", "hello world", 0, 6, "world"},
		{"delete suffix", "hello world", 5, 11, "hello"},
		{"delete middle", "hello world", 4, 7, "hellorld"},
		{"delete all", "hello", 0, 5, ""},
		{"empty range", "hello", 2, 2, "hello"},
		{"reversed range", "hello", 3, 1, "hello"},
		{"delete code points", "日本語", 1, 2, "日語"},
		{"range past end clamps", "hello", 3, 100, "hel"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := FromString(tt.initial).Delete(tt.start, tt.end)
			if got := r.String(); got != tt.expected {
				t.Errorf("got %q, want %q", got, tt.expected)
			}
			checkTree(t, r)
		})
	}
}

func TestReplace(t *testing.T) {
	tests := []struct {
		name       string
		initial    string
		start, end Offset
		text       string
		expected   string
	}{
		{"replace word", "hello world", 6, 11, "there", "hello there"},
		{"replace with empty", "hello world", 5, 11, "", "hello"},
		{"replace empty range", "hello", 5, 5, "!", "hello!"},
		{"replace all", "hello", 0, 5, "hi", "hi"},
		{"replace multibyte", "日本語", 0, 2, "英", "英語"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := FromString(tt.initial).Replace(tt.start, tt.end, tt.text)
			if got := r.String(); got != tt.expected {
				t.Errorf("got %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestSplit(t *testing.T) {
	text := strings.Repeat("line of text\n", 200)
	r := FromString(text)

	for _, at := range []Offset{0, 1, 13, 256, 1000, r.Len() - 1, r.Len()} {
		left, right := r.Split(at)
		if left.String() != text[:at] {
			t.Errorf("Split(%d) left mismatch", at)
		}
		if right.String() != text[at:] {
			t.Errorf("Split(%d) right mismatch", at)
		}
		checkTree(t, left)
		checkTree(t, right)
	}
}

func TestConcat(t *testing.T) {
	short := FromString("ab")
	long := FromString(strings.Repeat("0123456789", 500))

	tests := []struct {
		name        string
		left, right Rope
	}{
		{"short short", short, short},
		{"short long", short, long},
		{"long short", long, short},
		{"long long", long, long},
		{"empty long", New(), long},
		{"long empty", long, New()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := tt.left.Concat(tt.right)
			if r.String() != tt.left.String()+tt.right.String() {
				t.Error("concat content mismatch")
			}
			checkTree(t, r)
		})
	}
}

func TestSlice(t *testing.T) {
	r := FromString("héllo wörld")

	tests := []struct {
		start, end Offset
		expected   string
	}{
		{0, 5, "héllo"},
		{6, 11, "wörld"},
		{1, 2, "é"},
		{3, 3, ""},
		{8, 4, ""},
		{-5, 2, "hé"},
		{9, 50, "ld"},
	}

	for _, tt := range tests {
		if got := r.Slice(tt.start, tt.end); got != tt.expected {
			t.Errorf("Slice(%d, %d) = %q, want %q", tt.start, tt.end, got, tt.expected)
		}
	}
}

func TestRuneAt(t *testing.T) {
	r := FromString("a日🌍")

	for i, want := range []rune{'a', '日', '🌍'} {
		got, ok := r.RuneAt(i)
		if !ok || got != want {
			t.Errorf("RuneAt(%d) = %q, %v; want %q", i, got, ok, want)
		}
	}
	if _, ok := r.RuneAt(3); ok {
		t.Error("RuneAt(Len()) should report false")
	}
	if _, ok := r.RuneAt(-1); ok {
		t.Error("RuneAt(-1) should report false")
	}
}

func TestLineCount(t *testing.T) {
	tests := []struct {
		input string
		lines int
	}{
		{"", 1},
		{"hello", 1},
		{"hello\n", 2},
		{"a\nb\nc", 3},
		{"\n\n\n", 4},
		{"a\r\nb", 2},
	}

	for _, tt := range tests {
		if got := FromString(tt.input).LineCount(); got != tt.lines {
			t.Errorf("LineCount(%q) = %d, want %d", tt.input, got, tt.lines)
		}
	}
}

func TestLineAt(t *testing.T) {
	r := FromString("ab\ncd\n\nef")

	tests := []struct {
		offset Offset
		line   int
	}{
		{0, 0}, {2, 0}, {3, 1}, {5, 1}, {6, 2}, {7, 3}, {9, 3}, {100, 3},
	}

	for _, tt := range tests {
		if got := r.LineAt(tt.offset); got != tt.line {
			t.Errorf("LineAt(%d) = %d, want %d", tt.offset, got, tt.line)
		}
	}
}

func TestLineStartEnd(t *testing.T) {
	r := FromString("ab\ncd\n\nef")

	tests := []struct {
		line       int
		start, end Offset
		text       string
	}{
		{0, 0, 2, "ab"},
		{1, 3, 5, "cd"},
		{2, 6, 6, ""},
		{3, 7, 9, "ef"},
	}

	for _, tt := range tests {
		start, ok := r.LineStart(tt.line)
		if !ok || start != tt.start {
			t.Errorf("LineStart(%d) = %d, %v; want %d", tt.line, start, ok, tt.start)
		}
		end, ok := r.LineEnd(tt.line)
		if !ok || end != tt.end {
			t.Errorf("LineEnd(%d) = %d, %v; want %d", tt.line, end, ok, tt.end)
		}
		text, _ := r.LineText(tt.line)
		if text != tt.text {
			t.Errorf("LineText(%d) = %q, want %q", tt.line, text, tt.text)
		}
	}

	if _, ok := r.LineStart(4); ok {
		t.Error("LineStart past last line should report false")
	}
	if _, ok := r.LineLen(-1); ok {
		t.Error("LineLen(-1) should report false")
	}
}

func TestOffsetAt(t *testing.T) {
	r := FromString("héllo\nwörld\n")

	tests := []struct {
		p      Point
		offset Offset
		ok     bool
	}{
		{Point{0, 0}, 0, true},
		{Point{0, 5}, 5, true},
		{Point{0, 6}, 0, false},
		{Point{1, 1}, 7, true},
		{Point{2, 0}, 12, true},
		{Point{2, 1}, 0, false},
		{Point{3, 0}, 0, false},
		{Point{0, -1}, 0, false},
	}

	for _, tt := range tests {
		got, ok := r.OffsetAt(tt.p)
		if ok != tt.ok || (ok && got != tt.offset) {
			t.Errorf("OffsetAt(%+v) = %d, %v; want %d, %v", tt.p, got, ok, tt.offset, tt.ok)
		}
	}
}

func TestPointAt(t *testing.T) {
	r := FromString("héllo\nwörld")

	tests := []struct {
		offset Offset
		p      Point
	}{
		{0, Point{0, 0}},
		{5, Point{0, 5}},
		{6, Point{1, 0}},
		{8, Point{1, 2}},
		{11, Point{1, 5}},
	}

	for _, tt := range tests {
		if got := r.PointAt(tt.offset); got != tt.p {
			t.Errorf("PointAt(%d) = %+v, want %+v", tt.offset, got, tt.p)
		}
		if back, ok := r.OffsetAt(tt.p); !ok || back != tt.offset {
			t.Errorf("OffsetAt(PointAt(%d)) = %d, %v", tt.offset, back, ok)
		}
	}
}

func TestByteOffset(t *testing.T) {
	r := FromString("aé日🌍b")
	want := []int{0, 1, 3, 6, 10, 11}
	for i, w := range want {
		if got := r.ByteOffset(i); got != w {
			t.Errorf("ByteOffset(%d) = %d, want %d", i, got, w)
		}
	}
}

func TestSummary(t *testing.T) {
	r := FromString("a🌍\r\nb")
	sum := r.Summary()
	if sum.Chars != 5 || sum.Bytes != 8 || sum.Lines != 1 || sum.UTF16Units != 6 {
		t.Errorf("Summary() = %+v", sum)
	}
	if sum.IsASCII() {
		t.Error("summary should not be ASCII")
	}
	if sum.Flags&FlagHasCR == 0 {
		t.Error("summary should record CR")
	}
}

func TestImmutability(t *testing.T) {
	original := FromString("hello world")
	_ = original.Insert(5, ",")
	_ = original.Delete(0, 6)
	_, _ = original.Split(3)
	if original.String() != "hello world" {
		t.Errorf("original modified: %q", original.String())
	}
}

func TestLargeRope(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 10000; i++ {
		sb.WriteString("line of moderately long text with ünïcödé\n")
	}
	text := sb.String()
	r := FromString(text)

	if r.LineCount() != 10001 {
		t.Errorf("LineCount() = %d, want 10001", r.LineCount())
	}
	if r.Height() > 6 {
		t.Errorf("Height() = %d, tree is not balanced", r.Height())
	}
	line, _ := r.LineText(5000)
	if line != "line of moderately long text with ünïcödé" {
		t.Errorf("LineText(5000) = %q", line)
	}
	checkTree(t, r)
}

func TestRandomEdits(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	alphabet := []rune("ab\nç日🌍")
	model := []rune{}
	r := New()

	for i := 0; i < 2000; i++ {
		if len(model) > 0 && rng.Intn(3) == 0 {
			start := rng.Intn(len(model))
			end := start + rng.Intn(min(len(model)-start, 300)+1)
			r = r.Delete(start, end)
			model = append(model[:start:start], model[end:]...)
		} else {
			n := rng.Intn(400)
			ins := make([]rune, n)
			for j := range ins {
				ins[j] = alphabet[rng.Intn(len(alphabet))]
			}
			at := rng.Intn(len(model) + 1)
			r = r.Insert(at, string(ins))
			model = append(model[:at:at], append(ins, model[at:]...)...)
		}
		if r.Len() != len(model) {
			t.Fatalf("step %d: Len() = %d, want %d", i, r.Len(), len(model))
		}
	}
	if r.String() != string(model) {
		t.Fatal("content diverged from model")
	}
	checkTree(t, r)
}

func TestChunkIterator(t *testing.T) {
	text := strings.Repeat("ab日\n", 300)
	r := FromString(text)

	var sb strings.Builder
	expected := 0
	it := r.Chunks()
	for it.Next() {
		if it.Offset() != expected {
			t.Fatalf("chunk offset = %d, want %d", it.Offset(), expected)
		}
		expected += it.Chunk().Chars()
		sb.WriteString(it.Chunk().String())
	}
	if sb.String() != text {
		t.Error("chunks do not reproduce text")
	}
	if r.ChunkCount() < 2 {
		t.Errorf("ChunkCount() = %d, want several", r.ChunkCount())
	}
}

func TestLineIterator(t *testing.T) {
	r := FromString("one\ntwo\n\nfour")
	want := []string{"one", "two", "", "four"}

	var got []string
	it := r.Lines()
	for it.Next() {
		if it.Line() != len(got) {
			t.Errorf("Line() = %d, want %d", it.Line(), len(got))
		}
		got = append(got, it.Text())
	}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("lines = %q, want %q", got, want)
	}

	it = New().Lines()
	if !it.Next() || it.Text() != "" || it.Next() {
		t.Error("empty rope should yield one empty line")
	}
}

func TestRuneIterator(t *testing.T) {
	text := strings.Repeat("xé🌍", 200)
	r := FromString(text)

	want := []rune(text)
	i := 0
	it := r.Runes()
	for it.Next() {
		if it.Rune() != want[i] || it.Offset() != i {
			t.Fatalf("rune %d = %q at %d, want %q", i, it.Rune(), it.Offset(), want[i])
		}
		i++
	}
	if i != len(want) {
		t.Errorf("iterated %d runes, want %d", i, len(want))
	}

	from := r.RunesFrom(301)
	if !from.Next() || from.Offset() != 301 || from.Rune() != want[301] {
		t.Errorf("RunesFrom(301) = %q at %d", from.Rune(), from.Offset())
	}
}

func TestBuilder(t *testing.T) {
	var b Builder
	text := strings.Repeat("日本語🌍", 400)
	data := []byte(text)

	// Feed bytes in odd-sized pieces so writes split code points.
	for i := 0; i < len(data); i += 7 {
		b.Write(data[i:min(i+7, len(data))])
	}
	if b.Len() != len(data) {
		t.Errorf("Len() = %d, want %d", b.Len(), len(data))
	}

	r := b.Build()
	if r.String() != text {
		t.Error("builder content mismatch")
	}
	checkTree(t, r)

	it := r.Chunks()
	for it.Next() {
		if !utf8.ValidString(it.Chunk().String()) {
			t.Fatal("chunk split a code point")
		}
	}
}

func TestFromReader(t *testing.T) {
	text := strings.Repeat("hello, wörld\n", 1000)
	r, err := FromReader(strings.NewReader(text))
	if err != nil {
		t.Fatalf("FromReader() error = %v", err)
	}
	if r.String() != text {
		t.Error("FromReader content mismatch")
	}

	var sb strings.Builder
	n, err := r.WriteTo(&sb)
	if err != nil || int(n) != len(text) || sb.String() != text {
		t.Errorf("WriteTo() = %d, %v", n, err)
	}
}

func TestFromLines(t *testing.T) {
	r := FromLines([]string{"a", "b", "c"})
	if r.String() != "a\nb\nc" {
		t.Errorf("FromLines() = %q", r.String())
	}
}

func TestEquals(t *testing.T) {
	text := strings.Repeat("abc日", 300)
	r1 := FromString(text)
	r2 := FromString(text[:600]).Concat(FromString(text[600:]))
	r3 := FromString(strings.Replace(text, "c", "d", 1))

	if !r1.Equals(r2) {
		t.Error("equal ropes should be equal")
	}
	if r1.Equals(r3) {
		t.Error("different ropes should not be equal")
	}
}

// Property-based tests

func clampIndex(i, n int) int {
	if i < 0 {
		i = -i
	}
	if i < 0 {
		return 0
	}
	return i % (n + 1)
}

func TestInsertDeleteProperty(t *testing.T) {
	f := func(s string, offset int, insert string) bool {
		offset = clampIndex(offset, utf8.RuneCountInString(s))

		r := FromString(s)
		r = r.Insert(offset, insert)
		r = r.Delete(offset, offset+utf8.RuneCountInString(insert))
		return r.String() == s
	}

	if err := quick.Check(f, nil); err != nil {
		t.Error(err)
	}
}

func TestConcatSplitProperty(t *testing.T) {
	f := func(s string, offset int) bool {
		offset = clampIndex(offset, utf8.RuneCountInString(s))

		left, right := FromString(s).Split(offset)
		return left.Concat(right).String() == s
	}

	if err := quick.Check(f, nil); err != nil {
		t.Error(err)
	}
}

func TestLineCountProperty(t *testing.T) {
	f := func(s string) bool {
		return FromString(s).LineCount() == strings.Count(s, "\n")+1
	}

	if err := quick.Check(f, nil); err != nil {
		t.Error(err)
	}
}

func TestComputeSummary(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		bytes    int
		chars    int
		lines    int
		hasASCII bool
	}{
		{"empty", "", 0, 0, 0, true},
		{"ascii", "hello", 5, 5, 0, true},
		{"with newline", "hello\n", 6, 6, 1, true},
		{"unicode", "世界", 6, 2, 0, false},
		{"mixed", "hello 世界", 12, 8, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sum := ComputeSummary(tt.input)
			if sum.Bytes != tt.bytes {
				t.Errorf("Bytes = %d, want %d", sum.Bytes, tt.bytes)
			}
			if sum.Chars != tt.chars {
				t.Errorf("Chars = %d, want %d", sum.Chars, tt.chars)
			}
			if sum.Lines != tt.lines {
				t.Errorf("Lines = %d, want %d", sum.Lines, tt.lines)
			}
			if sum.IsASCII() != tt.hasASCII {
				t.Errorf("ASCII flag = %v, want %v", sum.IsASCII(), tt.hasASCII)
			}
		})
	}
}

func TestSummaryAdd(t *testing.T) {
	combined := ComputeSummary("hello\n").Add(ComputeSummary("wörld"))

	if combined.Bytes != 12 || combined.Chars != 11 || combined.Lines != 1 {
		t.Errorf("combined = %+v", combined)
	}
	if combined.IsASCII() {
		t.Error("combined summary should not be ASCII")
	}
	if combined.Flags&FlagHasNewlines == 0 {
		t.Error("combined summary lost newline flag")
	}
}
