package protocol

import (
	"encoding/json"
	"testing"
)

func TestCompletionItemKind(t *testing.T) {
	kinds := []CompletionItemKind{
		CompletionItemKindKeyword,
		CompletionItemKindFunction,
		CompletionItemKindValue,
		CompletionItemKindOperator,
		CompletionItemKindField,
		CompletionItemKindModule,
	}

	for i, kind := range kinds {
		if kind != CompletionItemKind(i+1) {
			t.Errorf("Kind mismatch: got %d, want %d", kind, i+1)
		}
	}
}

func TestDiagnosticSeverityString(t *testing.T) {
	tests := map[DiagnosticSeverity]string{
		SeverityError:          "error",
		SeverityWarning:        "warning",
		SeverityInformation:    "information",
		SeverityHint:           "hint",
		DiagnosticSeverity(42): "unknown",
	}
	for s, want := range tests {
		if got := s.String(); got != want {
			t.Errorf("String() mismatch for %d: got %s, want %s", s, got, want)
		}
	}
}

func TestFileReportJSON(t *testing.T) {
	report := FileReport{
		Path:     "Query.java",
		Language: "java",
		Regions:  1,
		Diagnostics: []Diagnostic{{
			Range:    Range{Start: Position{Line: 3, Character: 2}, End: Position{Line: 3, Character: 6}},
			Span:     Span{Start: 40, End: 44},
			Severity: SeverityError,
			Source:   "esql",
			Message:  "mismatched input 'WHEE'",
		}},
	}

	data, err := json.Marshal(report)
	if err != nil {
		t.Fatalf("Marshal() failed: %v", err)
	}

	want := `{"path":"Query.java","language":"java","regions":1,"diagnostics":[{"range":{"start":{"line":3,"character":2},"end":{"line":3,"character":6}},"span":{"start":40,"end":44},"severity":1,"source":"esql","message":"mismatched input 'WHEE'"}]}`
	if string(data) != want {
		t.Errorf("JSON mismatch:\ngot  %s\nwant %s", data, want)
	}
}
