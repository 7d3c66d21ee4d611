package region

import "sort"

// LineIndex answers line queries against a host document. Lines are 0-based.
type LineIndex interface {
	// OffsetOfLine returns the offset of the first byte of line n. Lines past
	// the end of the document map to its length.
	OffsetOfLine(n int) int
	// LineOf returns the line containing offset.
	LineOf(offset int) int
}

// TextIndex is a LineIndex over an in-memory document.
type TextIndex struct {
	starts []int
	size   int
}

var _ LineIndex = (*TextIndex)(nil)

// NewTextIndex indexes the line starts of text.
func NewTextIndex(text string) *TextIndex {
	starts := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &TextIndex{starts: starts, size: len(text)}
}

// OffsetOfLine implements LineIndex.
func (x *TextIndex) OffsetOfLine(n int) int {
	switch {
	case n < 0:
		return 0
	case n >= len(x.starts):
		return x.size
	}
	return x.starts[n]
}

// LineOf implements LineIndex.
func (x *TextIndex) LineOf(offset int) int {
	if offset < 0 {
		return 0
	}
	return sort.Search(len(x.starts), func(i int) bool { return x.starts[i] > offset }) - 1
}

// LineCount returns the number of lines in the document.
func (x *TextIndex) LineCount() int {
	return len(x.starts)
}
