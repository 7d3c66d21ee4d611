// Package lsp serves diagnostics and completions for embedded queries over
// the Language Server Protocol.
package lsp

import (
	"context"
	"fmt"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"
	"go.uber.org/zap"
	"k8s.io/utils/ptr"

	"github.com/woxQAQ/esql-lsp/internal/analyzer"
	types "github.com/woxQAQ/esql-lsp/pkg/protocol"
)

const (
	serverName = "esql-lsp"

	methodPublishDiagnostics = "textDocument/publishDiagnostics"
)

// Server is the language server.
type Server struct {
	protocol.Handler

	analyzer *analyzer.Analyzer
	docs     *documentStore
	logger   *zap.Logger
	version  string
	debug    bool
	onExit   func()
}

// Option configures a Server.
type Option func(*Server)

// WithVersion sets the version reported to clients.
func WithVersion(v string) Option {
	return func(s *Server) { s.version = v }
}

// WithDebug enables protocol tracing in the transport.
func WithDebug(debug bool) Option {
	return func(s *Server) { s.debug = debug }
}

// WithExitHandler is called when the client sends exit.
func WithExitHandler(f func()) Option {
	return func(s *Server) { s.onExit = f }
}

// NewServer creates a language server backed by a.
func NewServer(a *analyzer.Analyzer, logger *zap.Logger, opts ...Option) *Server {
	s := &Server{
		analyzer: a,
		docs:     newDocumentStore(),
		logger:   logger.With(zap.String("component", "lsp")),
		version:  "dev",
	}
	for _, opt := range opts {
		opt(s)
	}

	s.Handler = protocol.Handler{
		Initialize:             s.initialize,
		Initialized:            s.initialized,
		Shutdown:               s.shutdown,
		Exit:                   s.exit,
		TextDocumentDidOpen:    s.didOpen,
		TextDocumentDidChange:  s.didChange,
		TextDocumentDidSave:    s.didSave,
		TextDocumentDidClose:   s.didClose,
		TextDocumentCompletion: s.completion,
	}

	s.logger.Info("LSP server initialized", zap.String("version", s.version))
	return s
}

// ServeStdio serves a single client over stdin and stdout until the client
// disconnects or ctx is cancelled.
func (s *Server) ServeStdio(ctx context.Context) error {
	return s.run(ctx, func(srv *server.Server) error { return srv.RunStdio() })
}

// ServeTCP listens on port and serves clients until ctx is cancelled.
func (s *Server) ServeTCP(ctx context.Context, port int) error {
	address := fmt.Sprintf("127.0.0.1:%d", port)
	s.logger.Info("Listening for LSP clients", zap.String("address", address))
	return s.run(ctx, func(srv *server.Server) error { return srv.RunTCP(address) })
}

// run blocks until serve returns or ctx is done. The glsp transport has no
// stop hook, so on cancellation the serving goroutine ends with the process.
func (s *Server) run(ctx context.Context, serve func(*server.Server) error) error {
	srv := server.NewServer(s, serverName, s.debug)
	errCh := make(chan error, 1)
	go func() { errCh <- serve(srv) }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return nil
	}
}

// Close drops the open documents.
func (s *Server) Close() error {
	s.logger.Info("Shutting down LSP server", zap.Int("open_documents", s.docs.len()))
	s.docs.clear()
	return nil
}

func (s *Server) initialize(_ *glsp.Context, params *protocol.InitializeParams) (any, error) {
	if params.ClientInfo != nil {
		s.logger.Info("Client connected", zap.String("client", params.ClientInfo.Name))
	}

	capabilities := protocol.ServerCapabilities{
		TextDocumentSync: &protocol.TextDocumentSyncOptions{
			OpenClose: ptr.To(true),
			Change:    ptr.To(protocol.TextDocumentSyncKindFull),
			Save:      &protocol.SaveOptions{IncludeText: ptr.To(true)},
		},
		CompletionProvider: &protocol.CompletionOptions{
			TriggerCharacters: []string{" ", "|", "(", ","},
		},
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    serverName,
			Version: ptr.To(s.version),
		},
	}, nil
}

func (s *Server) initialized(*glsp.Context, *protocol.InitializedParams) error {
	return nil
}

func (s *Server) shutdown(*glsp.Context) error {
	s.logger.Info("Client requested shutdown")
	return nil
}

func (s *Server) exit(*glsp.Context) error {
	if s.onExit != nil {
		s.onExit()
	}
	return nil
}

func (s *Server) didOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	s.update(ctx, params.TextDocument.URI, params.TextDocument.Text)
	return nil
}

func (s *Server) didChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	text, ok := fullText(params.ContentChanges)
	if !ok {
		return nil
	}
	s.update(ctx, params.TextDocument.URI, text)
	return nil
}

func (s *Server) didSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	if params.Text != nil {
		s.update(ctx, params.TextDocument.URI, *params.Text)
		return nil
	}
	if doc, ok := s.docs.get(params.TextDocument.URI); ok {
		s.publish(ctx, params.TextDocument.URI, doc)
	}
	return nil
}

func (s *Server) didClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	s.docs.remove(params.TextDocument.URI)
	ctx.Notify(methodPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         params.TextDocument.URI,
		Diagnostics: []protocol.Diagnostic{},
	})
	return nil
}

func (s *Server) completion(_ *glsp.Context, params *protocol.CompletionParams) (any, error) {
	doc, ok := s.docs.get(params.TextDocument.URI)
	if !ok {
		return []protocol.CompletionItem{}, nil
	}
	offset := doc.OffsetAt(types.Position{
		Line:      int(params.Position.Line),
		Character: int(params.Position.Character),
	})
	suggestions, err := s.analyzer.Complete(context.Background(), doc, offset)
	if err != nil {
		s.logger.Warn("Completion failed", zap.String("uri", string(params.TextDocument.URI)), zap.Error(err))
		return []protocol.CompletionItem{}, nil
	}
	return completionItems(analyzer.CompletionItems(suggestions)), nil
}

// update stores text for uri and publishes its diagnostics.
func (s *Server) update(ctx *glsp.Context, uri protocol.DocumentUri, text string) {
	doc, ok := s.docs.put(uri, text)
	if !ok {
		s.logger.Debug("Ignoring unsupported document", zap.String("uri", string(uri)))
		return
	}
	s.publish(ctx, uri, doc)
}

func (s *Server) publish(ctx *glsp.Context, uri protocol.DocumentUri, doc *analyzer.Document) {
	found, err := s.analyzer.Diagnose(context.Background(), doc)
	if err != nil {
		s.logger.Warn("Validation failed", zap.String("uri", string(uri)), zap.Error(err))
		return
	}
	ctx.Notify(methodPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics(found),
	})
}

// fullText returns the document text of a full-sync change notification.
func fullText(changes []any) (string, bool) {
	var text string
	found := false
	for _, change := range changes {
		switch v := change.(type) {
		case protocol.TextDocumentContentChangeEvent:
			text, found = v.Text, true
		case protocol.TextDocumentContentChangeEventWhole:
			text, found = v.Text, true
		}
	}
	return text, found
}
