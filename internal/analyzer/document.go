package analyzer

import (
	"fmt"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/woxQAQ/esql-lsp/internal/region"
	"github.com/woxQAQ/esql-lsp/pkg/protocol"
)

// Document is a host source file held in memory.
type Document struct {
	Path     string
	Text     string
	Language region.HostLanguage
	index    *region.TextIndex
}

// NewDocument wraps text, detecting the host language from path.
func NewDocument(path, text string) (*Document, error) {
	lang, ok := region.DetectLanguage(path)
	if !ok {
		return nil, fmt.Errorf("unsupported host file '%s'", path)
	}
	return NewDocumentFor(path, text, lang), nil
}

// NewDocumentFor wraps text written in lang.
func NewDocumentFor(path, text string, lang region.HostLanguage) *Document {
	return &Document{Path: path, Text: text, Language: lang, index: region.NewTextIndex(text)}
}

// Index returns the line index of the document.
func (d *Document) Index() *region.TextIndex {
	return d.index
}

// PositionAt converts a byte offset into an LSP position. Offsets inside a
// multi-byte character resolve to the character start.
func (d *Document) PositionAt(offset int) protocol.Position {
	offset = min(max(offset, 0), len(d.Text))
	line := d.index.LineOf(offset)
	start := d.index.OffsetOfLine(line)
	character := 0
	for i := start; i < offset; {
		r, size := utf8.DecodeRuneInString(d.Text[i:])
		if i+size > offset {
			break
		}
		character += utf16.RuneLen(r)
		i += size
	}
	return protocol.Position{Line: line, Character: character}
}

// OffsetAt converts an LSP position into a byte offset, clamping to the line
// end and the document bounds.
func (d *Document) OffsetAt(pos protocol.Position) int {
	if pos.Line < 0 {
		return 0
	}
	if pos.Line >= d.index.LineCount() {
		return len(d.Text)
	}
	i := d.index.OffsetOfLine(pos.Line)
	for units := 0; i < len(d.Text) && units < pos.Character; {
		r, size := utf8.DecodeRuneInString(d.Text[i:])
		if r == '\n' {
			break
		}
		units += utf16.RuneLen(r)
		i += size
	}
	return i
}

// RangeOf converts a byte span into an LSP range.
func (d *Document) RangeOf(start, end int) protocol.Range {
	return protocol.Range{Start: d.PositionAt(start), End: d.PositionAt(end)}
}
