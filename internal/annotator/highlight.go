package annotator

import (
	"cmp"
	"slices"
	"strings"
)

const separators = "\"'[]()= \t\r\n"

// Highlight returns the host ranges of every occurrence of words in text that
// is delimited by separators or the text boundaries, so "COS" is not found
// inside "COSH". Matching is case-sensitive. Ranges are sorted by position.
func Highlight(text string, hostStart int, words []string) []Range {
	seen := make(map[Range]struct{})
	var out []Range
	for _, w := range words {
		if w == "" {
			continue
		}
		for from := 0; from <= len(text)-len(w); {
			i := strings.Index(text[from:], w)
			if i < 0 {
				break
			}
			at := from + i
			if standalone(text, at, len(w)) {
				r := Range{Start: hostStart + at, End: hostStart + at + len(w)}
				if _, dup := seen[r]; !dup {
					seen[r] = struct{}{}
					out = append(out, r)
				}
			}
			from = at + 1
		}
	}
	slices.SortFunc(out, func(a, b Range) int {
		if c := cmp.Compare(a.Start, b.Start); c != 0 {
			return c
		}
		return cmp.Compare(a.End, b.End)
	})
	return out
}

func standalone(text string, at, n int) bool {
	if at > 0 && !strings.ContainsRune(separators, rune(text[at-1])) {
		return false
	}
	end := at + n
	return end >= len(text) || strings.ContainsRune(separators, rune(text[end]))
}
