package lsp

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"go.uber.org/zap"

	"github.com/woxQAQ/esql-lsp/internal/analyzer"
	"github.com/woxQAQ/esql-lsp/internal/esql"
	types "github.com/woxQAQ/esql-lsp/pkg/protocol"
)

const (
	testURI = protocol.DocumentUri("file:///work/q.go")
	badText = "package q\n\n// ES|QL\nconst q = `FROM logs | WHEE x`\n"
)

type notifications struct {
	mu   sync.Mutex
	sent []*protocol.PublishDiagnosticsParams
}

func (n *notifications) context() *glsp.Context {
	return &glsp.Context{Notify: func(method string, params any) {
		if method != methodPublishDiagnostics {
			return
		}
		n.mu.Lock()
		defer n.mu.Unlock()
		n.sent = append(n.sent, params.(*protocol.PublishDiagnosticsParams))
	}}
}

func (n *notifications) last(t *testing.T) *protocol.PublishDiagnosticsParams {
	t.Helper()
	n.mu.Lock()
	defer n.mu.Unlock()
	require.NotEmpty(t, n.sent)
	return n.sent[len(n.sent)-1]
}

func newServer(opts ...Option) *Server {
	return NewServer(analyzer.New(esql.New(esql.DefaultConfig())), zap.NewNop(), opts...)
}

func open(t *testing.T, s *Server, ctx *glsp.Context, uri protocol.DocumentUri, text string) {
	t.Helper()
	require.NoError(t, s.didOpen(ctx, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: uri, LanguageID: "go", Version: 1, Text: text},
	}))
}

func TestInitialize(t *testing.T) {
	s := newServer(WithVersion("1.2.3"))

	got, err := s.initialize(nil, &protocol.InitializeParams{})
	require.NoError(t, err)

	result := got.(protocol.InitializeResult)
	assert.Equal(t, serverName, result.ServerInfo.Name)
	assert.Equal(t, "1.2.3", *result.ServerInfo.Version)

	syncOptions := result.Capabilities.TextDocumentSync.(*protocol.TextDocumentSyncOptions)
	assert.Equal(t, protocol.TextDocumentSyncKindFull, *syncOptions.Change)
	assert.True(t, *syncOptions.OpenClose)
	assert.Contains(t, result.Capabilities.CompletionProvider.TriggerCharacters, "|")
}

func TestDidOpenPublishesDiagnostics(t *testing.T) {
	var n notifications
	s := newServer()

	open(t, s, n.context(), testURI, badText)

	params := n.last(t)
	assert.Equal(t, testURI, params.URI)
	require.NotEmpty(t, params.Diagnostics)
	d := params.Diagnostics[0]
	assert.Contains(t, d.Message, "mismatched input 'WHEE'")
	assert.Equal(t, protocol.Position{Line: 3, Character: 23}, d.Range.Start)
	assert.Equal(t, protocol.DiagnosticSeverityError, *d.Severity)
	assert.Equal(t, "esql", *d.Source)
}

func TestDidChangeReplacesText(t *testing.T) {
	var n notifications
	s := newServer()
	ctx := n.context()
	open(t, s, ctx, testURI, badText)

	fixed := strings.Replace(badText, "WHEE", "WHERE", 1)
	require.NoError(t, s.didChange(ctx, &protocol.DidChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: testURI},
			Version:                2,
		},
		ContentChanges: []any{protocol.TextDocumentContentChangeEventWhole{Text: fixed}},
	}))

	assert.Empty(t, n.last(t).Diagnostics)
	doc, ok := s.docs.get(testURI)
	require.True(t, ok)
	assert.Equal(t, fixed, doc.Text)
}

func TestDidSaveWithoutTextRepublishes(t *testing.T) {
	var n notifications
	s := newServer()
	ctx := n.context()
	open(t, s, ctx, testURI, badText)

	require.NoError(t, s.didSave(ctx, &protocol.DidSaveTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: testURI},
	}))

	assert.Len(t, n.sent, 2)
	assert.Equal(t, n.sent[0].Diagnostics, n.sent[1].Diagnostics)
}

func TestDidCloseClearsDiagnostics(t *testing.T) {
	var n notifications
	s := newServer()
	ctx := n.context()
	open(t, s, ctx, testURI, badText)

	require.NoError(t, s.didClose(ctx, &protocol.DidCloseTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: testURI},
	}))

	assert.Empty(t, n.last(t).Diagnostics)
	_, ok := s.docs.get(testURI)
	assert.False(t, ok)
}

func TestUnsupportedDocumentIsIgnored(t *testing.T) {
	var n notifications
	s := newServer()

	open(t, s, n.context(), "file:///work/q.py", badText)

	assert.Empty(t, n.sent)
	assert.Equal(t, 0, s.docs.len())
}

func TestCompletion(t *testing.T) {
	var n notifications
	s := newServer()
	text := "package q\n\n// ES|QL\nconst q = `FROM logs | `\n"
	open(t, s, n.context(), testURI, text)

	got, err := s.completion(nil, &protocol.CompletionParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: testURI},
			Position:     protocol.Position{Line: 3, Character: 23},
		},
	})
	require.NoError(t, err)

	items := got.([]protocol.CompletionItem)
	require.Len(t, items, 17)
	var labels []string
	for _, item := range items {
		labels = append(labels, item.Label)
		assert.Equal(t, protocol.CompletionItemKindKeyword, *item.Kind)
	}
	assert.Contains(t, labels, "WHERE")
}

func TestCompletionUnknownDocument(t *testing.T) {
	got, err := newServer().completion(nil, &protocol.CompletionParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: testURI},
		},
	})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestExitCallsHandler(t *testing.T) {
	called := false
	s := newServer(WithExitHandler(func() { called = true }))

	require.NoError(t, s.shutdown(nil))
	require.NoError(t, s.exit(nil))
	assert.True(t, called)
	assert.NoError(t, s.Close())
}

func TestConvertCompletionItems(t *testing.T) {
	got := completionItems([]types.CompletionItem{
		{Label: "logs", Kind: types.CompletionItemKindField, Detail: "schema", SortText: "0000"},
		{Label: "ABS()", Kind: types.CompletionItemKindFunction, SortText: "0001"},
	})

	require.Len(t, got, 2)
	assert.Equal(t, protocol.CompletionItemKindField, *got[0].Kind)
	assert.Equal(t, "schema", *got[0].Detail)
	assert.Equal(t, "0000", *got[0].SortText)
	assert.Nil(t, got[1].Detail)
	assert.Equal(t, protocol.CompletionItemKindFunction, *got[1].Kind)
}

func TestURIPath(t *testing.T) {
	assert.Equal(t, "/work/q.go", uriPath("file:///work/q.go"))
	assert.Equal(t, "/work/my query.kt", uriPath("file:///work/my%20query.kt"))
	assert.Equal(t, "q.java", uriPath("q.java"))
}
