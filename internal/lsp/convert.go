package lsp

import (
	protocol "github.com/tliron/glsp/protocol_3_16"
	"k8s.io/utils/ptr"

	types "github.com/woxQAQ/esql-lsp/pkg/protocol"
)

func position(p types.Position) protocol.Position {
	return protocol.Position{
		Line:      protocol.UInteger(p.Line),
		Character: protocol.UInteger(p.Character),
	}
}

func diagnostics(in []types.Diagnostic) []protocol.Diagnostic {
	out := make([]protocol.Diagnostic, 0, len(in))
	for _, d := range in {
		out = append(out, protocol.Diagnostic{
			Range: protocol.Range{
				Start: position(d.Range.Start),
				End:   position(d.Range.End),
			},
			Severity: ptr.To(protocol.DiagnosticSeverity(d.Severity)),
			Source:   ptr.To(d.Source),
			Message:  d.Message,
		})
	}
	return out
}

var itemKinds = map[types.CompletionItemKind]protocol.CompletionItemKind{
	types.CompletionItemKindKeyword:  protocol.CompletionItemKindKeyword,
	types.CompletionItemKindFunction: protocol.CompletionItemKindFunction,
	types.CompletionItemKindValue:    protocol.CompletionItemKindValue,
	types.CompletionItemKindOperator: protocol.CompletionItemKindOperator,
	types.CompletionItemKindField:    protocol.CompletionItemKindField,
	types.CompletionItemKindModule:   protocol.CompletionItemKindModule,
}

func completionItems(in []types.CompletionItem) []protocol.CompletionItem {
	out := make([]protocol.CompletionItem, 0, len(in))
	for _, item := range in {
		c := protocol.CompletionItem{
			Label:    item.Label,
			SortText: ptr.To(item.SortText),
		}
		if kind, ok := itemKinds[item.Kind]; ok {
			c.Kind = ptr.To(kind)
		}
		if item.Detail != "" {
			c.Detail = ptr.To(item.Detail)
		}
		out = append(out, c)
	}
	return out
}
