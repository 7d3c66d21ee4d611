// Package region locates embedded queries in host source files and maps
// positions between query coordinates and host document offsets.
package region

import (
	"path/filepath"
	"strings"
)

// Marker must start the trimmed line above an eligible literal.
const Marker = "// ES|QL"

// HostLanguage identifies the language of the host document.
type HostLanguage string

const (
	Java   HostLanguage = "java"
	Kotlin HostLanguage = "kotlin"
	Go     HostLanguage = "go"
)

// HostRule describes how a host language spells multi-line literals.
type HostRule struct {
	// Delimiter opens and closes the literal.
	Delimiter string
	// MarkerLookback is how many lines above the literal's first line may
	// hold the marker. Kotlin templates report their first line after the
	// leading newline, so the marker can sit two lines up.
	MarkerLookback int
}

var hostRules = map[HostLanguage]HostRule{
	Java:   {Delimiter: `"""`, MarkerLookback: 1},
	Kotlin: {Delimiter: `"""`, MarkerLookback: 2},
	Go:     {Delimiter: "`", MarkerLookback: 1},
}

// RuleFor returns the literal rule of lang.
func RuleFor(lang HostLanguage) (HostRule, bool) {
	r, ok := hostRules[lang]
	return r, ok
}

// DetectLanguage infers the host language from a file name.
func DetectLanguage(path string) (HostLanguage, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".java":
		return Java, true
	case ".kt", ".kts":
		return Kotlin, true
	case ".go":
		return Go, true
	}
	return "", false
}

// Span is a half-open byte range [Start, End) of the host document.
type Span struct {
	Start int
	End   int
}

// QueryRegion is an embedded query and its placement in the host document.
type QueryRegion struct {
	RawText         string
	InnerText       string
	HostStartOffset int
	HostEndOffset   int
	Language        HostLanguage
}

// Contains reports whether offset lies within [HostStartOffset, HostEndOffset].
func (r QueryRegion) Contains(offset int) bool {
	return offset >= r.HostStartOffset && offset <= r.HostEndOffset
}

// Locate returns the query region of the literal at span, if the literal is
// eligible: it is delimited the way lang spells literals, the marker sits on
// the line above it, and it holds non-blank text.
func Locate(doc string, idx LineIndex, span Span, lang HostLanguage) (QueryRegion, bool) {
	rule, ok := hostRules[lang]
	if !ok || !validSpan(doc, span) {
		return QueryRegion{}, false
	}

	raw := doc[span.Start:span.End]
	d := len(rule.Delimiter)
	if len(raw) < 2*d || !strings.HasPrefix(raw, rule.Delimiter) || !strings.HasSuffix(raw, rule.Delimiter) {
		return QueryRegion{}, false
	}
	if !HasMarker(doc, idx, span.Start, rule) {
		return QueryRegion{}, false
	}

	content := raw[d : len(raw)-d]
	inner := strings.TrimSpace(content)
	if inner == "" {
		return QueryRegion{}, false
	}

	lead := len(content) - len(strings.TrimLeft(content, " \t\r\n\v\f"))
	start := span.Start + d + lead
	return QueryRegion{
		RawText:         raw,
		InnerText:       inner,
		HostStartOffset: start,
		HostEndOffset:   start + len(inner),
		Language:        lang,
	}, true
}

// HasMarker reports whether one of the rule's lookback lines above the line
// holding offset starts with the marker.
func HasMarker(doc string, idx LineIndex, offset int, rule HostRule) bool {
	first := idx.LineOf(offset)
	for back := 1; back <= rule.MarkerLookback; back++ {
		line := first - back
		if line < 0 {
			break
		}
		text := doc[idx.OffsetOfLine(line):idx.OffsetOfLine(line+1)]
		if strings.HasPrefix(strings.TrimSpace(text), Marker) {
			return true
		}
	}
	return false
}

// MapForward converts a recognizer position (1-based line, 0-based column,
// relative to the region's inner text) into a host document offset. Lines
// after the first are anchored on the host line holding the first query
// character, so blank lines between the delimiter and the query do not shift
// the result.
func MapForward(r QueryRegion, idx LineIndex, line, column int) int {
	if line <= 1 {
		return r.HostStartOffset + column
	}
	return idx.OffsetOfLine(idx.LineOf(r.HostStartOffset)+line-1) + column
}

// Prefix is the text of a literal up to a cursor.
type Prefix struct {
	Text            string
	HostStartOffset int
}

// PrefixAt returns the literal content between its opening delimiter and
// cursor, for completion. Unlike Locate it accepts literals that are still
// empty.
func PrefixAt(doc string, idx LineIndex, span Span, lang HostLanguage, cursor int) (Prefix, bool) {
	rule, ok := hostRules[lang]
	if !ok || !validSpan(doc, span) {
		return Prefix{}, false
	}

	raw := doc[span.Start:span.End]
	d := len(rule.Delimiter)
	if len(raw) < d || !strings.HasPrefix(raw, rule.Delimiter) {
		return Prefix{}, false
	}
	contentStart := span.Start + d
	contentEnd := span.End
	if len(raw) >= 2*d && strings.HasSuffix(raw, rule.Delimiter) {
		contentEnd -= d
	}
	if cursor < contentStart || cursor > contentEnd {
		return Prefix{}, false
	}
	if !HasMarker(doc, idx, span.Start, rule) {
		return Prefix{}, false
	}
	return Prefix{Text: doc[contentStart:cursor], HostStartOffset: contentStart}, true
}

func validSpan(doc string, span Span) bool {
	return span.Start >= 0 && span.Start <= span.End && span.End <= len(doc)
}
