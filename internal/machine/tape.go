package machine

import (
	"iter"
	"strings"
)

// minSpare is the head-room kept on each side of the content when the backing
// buffer is reallocated.
const minSpare = 16

// Tape is the two-way infinite tape of a Turing machine, including the
// position of the head.
//
// Only the content span is stored: the smallest range of cells holding every
// non-whitespace symbol. Both ends of the span are trimmed after every write,
// so Leftmost and Rightmost never point at whitespace. Cells live in
// buf[lo:hi]; buf[i] is the cell at position base+i.
type Tape struct {
	buf    []rune
	lo, hi int
	base   int

	head       int
	whitespace rune
}

// NewTape creates a tape holding content from position 0 onward, with the
// head at the given position.
func NewTape(whitespace rune, head int, content string) *Tape {
	t := &Tape{
		head:       head,
		whitespace: whitespace,
	}

	runes := []rune(content)
	if len(runes) > 0 {
		t.buf = make([]rune, minSpare+len(runes)+minSpare)
		copy(t.buf[minSpare:], runes)
		t.lo, t.hi = minSpare, minSpare+len(runes)
		t.base = -minSpare
		t.trim()
	}

	return t
}

// Head returns the head position.
func (t *Tape) Head() int {
	return t.head
}

// Whitespace returns the blank symbol of the tape.
func (t *Tape) Whitespace() rune {
	return t.whitespace
}

// Len returns the number of cells in the content span.
func (t *Tape) Len() int {
	return t.hi - t.lo
}

// Empty reports whether every cell holds whitespace.
func (t *Tape) Empty() bool {
	return t.lo == t.hi
}

// Leftmost returns the position of the first content cell. An empty tape
// reports 0, with Rightmost at -1.
func (t *Tape) Leftmost() int {
	if t.Empty() {
		return 0
	}
	return t.base + t.lo
}

// Rightmost returns the position of the last content cell.
func (t *Tape) Rightmost() int {
	if t.Empty() {
		return -1
	}
	return t.base + t.hi - 1
}

// Read returns the symbol under the head.
func (t *Tape) Read() rune {
	return t.ReadAt(t.head)
}

// ReadAt returns the symbol at pos; cells never written hold whitespace.
func (t *Tape) ReadAt(pos int) rune {
	i := pos - t.base
	if t.Empty() || i < t.lo || i >= t.hi {
		return t.whitespace
	}
	return t.buf[i]
}

// Write writes r under the head.
func (t *Tape) Write(r rune) {
	t.WriteAt(t.head, r)
}

// WriteAt writes r at pos. Writing whitespace never grows the content span.
func (t *Tape) WriteAt(pos int, r rune) {
	if r == t.whitespace {
		i := pos - t.base
		if t.Empty() || i < t.lo || i >= t.hi {
			return
		}
		t.buf[i] = r
		t.trim()
		return
	}

	t.buf[t.reserve(pos)] = r
}

// Move moves the head one cell in the given direction, or not at all for Stay.
func (t *Tape) Move(d Direction) {
	t.head += d.Offset()
}

// Cells yields every (position, symbol) pair of the content span from left
// to right.
func (t *Tape) Cells() iter.Seq2[int, rune] {
	return func(yield func(int, rune) bool) {
		for i := t.lo; i < t.hi; i++ {
			if !yield(t.base+i, t.buf[i]) {
				return
			}
		}
	}
}

// SymbolCounts returns how many times each non-whitespace symbol occurs.
func (t *Tape) SymbolCounts() map[rune]int {
	counts := make(map[rune]int)
	for _, r := range t.Cells() {
		if r != t.whitespace {
			counts[r]++
		}
	}
	return counts
}

// String returns the content span as text.
func (t *Tape) String() string {
	var sb strings.Builder
	for _, r := range t.Cells() {
		sb.WriteRune(r)
	}
	return sb.String()
}

// reserve extends the content span to cover pos, filling new cells with
// whitespace, and returns the buffer index of pos.
func (t *Tape) reserve(pos int) int {
	if t.Empty() {
		if len(t.buf) == 0 {
			t.buf = make([]rune, 2*minSpare)
		}
		t.lo = len(t.buf) / 2
		t.hi = t.lo + 1
		t.base = pos - t.lo
		return t.lo
	}

	i := pos - t.base
	switch {
	case i < 0:
		t.realloc(t.lo-i, 0)
		i = pos - t.base
	case i >= len(t.buf):
		t.realloc(0, i-t.hi+1)
		i = pos - t.base
	}

	for t.lo > i {
		t.lo--
		t.buf[t.lo] = t.whitespace
	}
	for t.hi <= i {
		t.buf[t.hi] = t.whitespace
		t.hi++
	}

	return i
}

// realloc moves the content into a new buffer with room for needLeft more
// cells before it and needRight more cells after it, plus spare room on both
// sides proportional to the content size.
func (t *Tape) realloc(needLeft, needRight int) {
	size := t.hi - t.lo
	spare := max(size, minSpare)
	left := spare + needLeft
	right := spare + needRight

	buf := make([]rune, left+size+right)
	copy(buf[left:], t.buf[t.lo:t.hi])

	t.base += t.lo - left
	t.buf, t.lo, t.hi = buf, left, left+size
}

// trim drops whitespace from both ends of the content span.
func (t *Tape) trim() {
	for t.lo < t.hi && t.buf[t.lo] == t.whitespace {
		t.lo++
	}
	for t.hi > t.lo && t.buf[t.hi-1] == t.whitespace {
		t.hi--
	}
	if t.lo == t.hi {
		t.lo, t.hi = 0, 0
	}
}
