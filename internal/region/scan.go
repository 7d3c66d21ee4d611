package region

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/java"
	"github.com/smacker/go-tree-sitter/kotlin"
)

func grammarFor(lang HostLanguage) (*sitter.Language, bool) {
	switch lang {
	case Java:
		return java.GetLanguage(), true
	case Kotlin:
		return kotlin.GetLanguage(), true
	case Go:
		return golang.GetLanguage(), true
	}
	return nil, false
}

// Scan returns the spans of every literal in content that uses the host
// rule's delimiter. Spans are in document order and never nest.
func Scan(ctx context.Context, content []byte, lang HostLanguage) ([]Span, error) {
	rule, ok := hostRules[lang]
	if !ok {
		return nil, fmt.Errorf("unsupported host language %q", lang)
	}
	grammar, _ := grammarFor(lang)

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(grammar)

	tree, err := parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("parse %s source: %w", lang, err)
	}
	defer tree.Close()

	var spans []Span
	stack := []*sitter.Node{tree.RootNode()}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if isLiteral(n, content, rule) {
			spans = append(spans, Span{Start: int(n.StartByte()), End: int(n.EndByte())})
			continue
		}
		for i := int(n.ChildCount()) - 1; i >= 0; i-- {
			stack = append(stack, n.Child(i))
		}
	}
	return spans, nil
}

func isLiteral(n *sitter.Node, content []byte, rule HostRule) bool {
	typ := n.Type()
	if !strings.Contains(typ, "string") && typ != "text_block" {
		return false
	}
	text := string(content[n.StartByte():n.EndByte()])
	d := len(rule.Delimiter)
	return len(text) >= 2*d && strings.HasPrefix(text, rule.Delimiter) && strings.HasSuffix(text, rule.Delimiter)
}

// Regions returns the eligible query regions of a host document.
func Regions(ctx context.Context, doc string, lang HostLanguage) ([]QueryRegion, error) {
	spans, err := Scan(ctx, []byte(doc), lang)
	if err != nil {
		return nil, err
	}
	idx := NewTextIndex(doc)
	var out []QueryRegion
	for _, s := range spans {
		if r, ok := Locate(doc, idx, s, lang); ok {
			out = append(out, r)
		}
	}
	return out, nil
}

// SpanAt returns the literal span containing offset.
func SpanAt(ctx context.Context, doc string, lang HostLanguage, offset int) (Span, bool, error) {
	spans, err := Scan(ctx, []byte(doc), lang)
	if err != nil {
		return Span{}, false, err
	}
	for _, s := range spans {
		if offset > s.Start && offset <= s.End {
			return s, true, nil
		}
	}
	return Span{}, false, nil
}
