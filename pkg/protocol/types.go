package protocol

// Output types shared by the language server and the command line tools.
// Positions follow LSP conventions: zero-based lines and UTF-16 characters.

// Position represents a position in a text document
type Position struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

// Range represents a range in a text document
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// Span is a half-open byte range of a document.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// DiagnosticSeverity mirrors the LSP severity scale.
type DiagnosticSeverity int

const (
	SeverityError DiagnosticSeverity = iota + 1
	SeverityWarning
	SeverityInformation
	SeverityHint
)

func (s DiagnosticSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInformation:
		return "information"
	case SeverityHint:
		return "hint"
	}
	return "unknown"
}

// Diagnostic is one problem found in an embedded query.
type Diagnostic struct {
	Range    Range              `json:"range"`
	Span     Span               `json:"span"`
	Severity DiagnosticSeverity `json:"severity"`
	Source   string             `json:"source"`
	Message  string             `json:"message"`
}

// FileReport is the result of checking one host file.
type FileReport struct {
	Path        string       `json:"path"`
	Language    string       `json:"language"`
	Regions     int          `json:"regions"`
	Diagnostics []Diagnostic `json:"diagnostics"`
	Highlights  []Range      `json:"highlights,omitempty"`
}

// CompletionItemKind represents the kind of completion item
type CompletionItemKind int

const (
	CompletionItemKindKeyword CompletionItemKind = iota + 1
	CompletionItemKindFunction
	CompletionItemKindValue
	CompletionItemKindOperator
	CompletionItemKindField
	CompletionItemKindModule
)

// CompletionItem represents a completion item
type CompletionItem struct {
	Label    string             `json:"label"`
	Kind     CompletionItemKind `json:"kind"`
	Detail   string             `json:"detail,omitempty"`
	SortText string             `json:"sortText,omitempty"`
	Priority int                `json:"priority"`
}
