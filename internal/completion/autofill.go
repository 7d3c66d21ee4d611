package completion

import (
	"regexp"
	"strings"
)

// RequestKind is the kind of metadata a query position asks for.
type RequestKind int

const (
	RequestNone RequestKind = iota
	// RequestMetadata asks for the fixed metadata field names.
	RequestMetadata
	// RequestIndices asks for the known index names.
	RequestIndices
	// RequestFields asks for the fields of Request.Index.
	RequestFields
)

// Request is what the autofill pass needs from the schema gateway.
type Request struct {
	Kind  RequestKind
	Index string
}

var wordSeparators = regexp.MustCompile(`[\s()="',|\[\]]+`)

// Keywords after which the next word names a field.
var fieldKeywords = map[string]struct{}{
	"SORT":      {},
	"EVAL":      {},
	"WHERE":     {},
	"KEEP":      {},
	"DROP":      {},
	"BY":        {},
	"MV_EXPAND": {},
	"RENAME":    {},
}

const (
	indexKeyword    = "FROM"
	metadataKeyword = "METADATA"
)

// Words splits query text at whitespace and punctuation.
func Words(text string) []string {
	var out []string
	for _, w := range wordSeparators.Split(text, -1) {
		if w != "" {
			out = append(out, w)
		}
	}
	return out
}

// RequestFor maps the words of a query to the metadata its last word asks
// for. A field request carries the source named after the nearest preceding
// FROM; without one no request is made.
func RequestFor(words []string) Request {
	if len(words) == 0 {
		return Request{}
	}
	last := strings.ToUpper(words[len(words)-1])
	switch {
	case last == metadataKeyword:
		return Request{Kind: RequestMetadata}
	case last == indexKeyword:
		return Request{Kind: RequestIndices}
	}
	if _, ok := fieldKeywords[last]; !ok {
		return Request{}
	}
	for i := len(words) - 2; i >= 0; i-- {
		if strings.ToUpper(words[i]) == indexKeyword && i+1 < len(words)-1 {
			return Request{Kind: RequestFields, Index: words[i+1]}
		}
	}
	return Request{}
}
