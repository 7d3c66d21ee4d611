package analyzer

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/woxQAQ/esql-lsp/internal/completion"
	"github.com/woxQAQ/esql-lsp/internal/esql"
	"github.com/woxQAQ/esql-lsp/internal/metrics"
	"github.com/woxQAQ/esql-lsp/internal/region"
	"github.com/woxQAQ/esql-lsp/pkg/protocol"
)

const goSource = "package q\n\n" +
	"// ES|QL\n" +
	"const bad = `FROM logs | WHEE x`\n\n" +
	"// ES|QL\n" +
	"const good = `FROM logs | LIMIT 1`\n"

func newAnalyzer(t *testing.T) *Analyzer {
	t.Helper()
	return New(esql.New(esql.DefaultConfig()),
		WithMetrics(metrics.New(nil)),
		WithLogger(zaptest.NewLogger(t)),
	)
}

func TestNewDocument(t *testing.T) {
	doc, err := NewDocument("Query.java", "class Q {}")
	require.NoError(t, err)
	assert.Equal(t, region.Java, doc.Language)

	_, err = NewDocument("query.py", "")
	assert.Error(t, err)
}

func TestDiagnose(t *testing.T) {
	doc := NewDocumentFor("q.go", goSource, region.Go)

	got, err := newAnalyzer(t).Diagnose(context.Background(), doc)
	require.NoError(t, err)
	require.NotEmpty(t, got)

	assert.Contains(t, got[0].Message, "mismatched input 'WHEE'")
	assert.Equal(t, protocol.Position{Line: 3, Character: 25}, got[0].Range.Start)
	assert.Equal(t, protocol.Position{Line: 3, Character: 29}, got[0].Range.End)
	assert.Equal(t, strings.Index(goSource, "WHEE"), got[0].Span.Start)
	for _, d := range got {
		assert.Equal(t, DiagnosticSource, d.Source)
		assert.Equal(t, protocol.SeverityError, d.Severity)
		assert.Equal(t, 3, d.Range.Start.Line, "only the first literal is invalid")
	}
}

func TestDiagnoseCleanDocument(t *testing.T) {
	doc := NewDocumentFor("q.go", "package q\n\n// ES|QL\nconst q = `SHOW INFO`\n", region.Go)

	got, err := newAnalyzer(t).Diagnose(context.Background(), doc)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestHighlights(t *testing.T) {
	doc := NewDocumentFor("q.go", goSource, region.Go)

	got, err := newAnalyzer(t).Highlights(context.Background(), doc)
	require.NoError(t, err)

	var words []string
	for _, r := range got {
		words = append(words, goSource[doc.OffsetAt(r.Start):doc.OffsetAt(r.End)])
	}
	assert.Equal(t, []string{"FROM", "FROM", "LIMIT"}, words)
}

func TestReport(t *testing.T) {
	doc := NewDocumentFor("q.go", goSource, region.Go)
	a := newAnalyzer(t)

	report, err := a.Report(context.Background(), doc, false)
	require.NoError(t, err)
	assert.Equal(t, "q.go", report.Path)
	assert.Equal(t, "go", report.Language)
	assert.Equal(t, 2, report.Regions)
	assert.NotEmpty(t, report.Diagnostics)
	assert.Nil(t, report.Highlights)

	report, err = a.Report(context.Background(), doc, true)
	require.NoError(t, err)
	assert.Len(t, report.Highlights, 3)
}

func TestComplete(t *testing.T) {
	text := "package q\n\n// ES|QL\nconst q = `FROM logs | `\n"
	doc := NewDocumentFor("q.go", text, region.Go)
	a := newAnalyzer(t)

	got, err := a.Complete(context.Background(), doc, strings.LastIndex(text, "`"))
	require.NoError(t, err)
	assert.Len(t, got, 17)
	assert.Equal(t, a.CompleteQuery("FROM logs | "), got)

	got, err = a.Complete(context.Background(), doc, 3)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestCompleteUnmarkedLiteral(t *testing.T) {
	text := "package q\n\nconst q = `FROM logs | `\n"
	doc := NewDocumentFor("q.go", text, region.Go)

	got, err := newAnalyzer(t).Complete(context.Background(), doc, strings.LastIndex(text, "`"))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestCompletionItems(t *testing.T) {
	items := CompletionItems([]completion.Suggestion{
		{Text: "logs", Priority: completion.PrioritySchema, Category: completion.SchemaName, Marked: true},
		{Text: "_id", Priority: completion.PrioritySchema, Category: completion.Keyword, Marked: true},
		{Text: "|", Priority: completion.PriorityPipe, Category: completion.Pipe},
		{Text: "{var}", Priority: completion.PriorityGrammar, Category: completion.Placeholder},
		{Text: "ABS()", Priority: completion.PriorityGrammar, Category: completion.FunctionCall},
		{Text: "WHERE", Priority: completion.PriorityGrammar, Category: completion.Keyword},
	})

	want := []protocol.CompletionItem{
		{Label: "logs", Kind: protocol.CompletionItemKindField, Detail: "schema", SortText: "0000", Priority: 10},
		{Label: "_id", Kind: protocol.CompletionItemKindKeyword, Detail: "metadata", SortText: "0001", Priority: 10},
		{Label: "|", Kind: protocol.CompletionItemKindOperator, SortText: "0002", Priority: 6},
		{Label: "{var}", Kind: protocol.CompletionItemKindValue, SortText: "0003", Priority: 5},
		{Label: "ABS()", Kind: protocol.CompletionItemKindFunction, SortText: "0004", Priority: 5},
		{Label: "WHERE", Kind: protocol.CompletionItemKindKeyword, SortText: "0005", Priority: 5},
	}
	assert.Equal(t, want, items)
}
