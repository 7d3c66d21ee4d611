package lsp

import (
	"net/url"
	"sync"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/woxQAQ/esql-lsp/internal/analyzer"
)

// documentStore holds the open documents of supported host languages.
type documentStore struct {
	mu   sync.RWMutex
	docs map[protocol.DocumentUri]*analyzer.Document
}

func newDocumentStore() *documentStore {
	return &documentStore{docs: make(map[protocol.DocumentUri]*analyzer.Document)}
}

// put replaces the text of uri. It reports false when the host language of
// uri is not supported.
func (s *documentStore) put(uri protocol.DocumentUri, text string) (*analyzer.Document, bool) {
	doc, err := analyzer.NewDocument(uriPath(uri), text)
	if err != nil {
		return nil, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[uri] = doc
	return doc, true
}

func (s *documentStore) get(uri protocol.DocumentUri) (*analyzer.Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[uri]
	return doc, ok
}

func (s *documentStore) remove(uri protocol.DocumentUri) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, uri)
}

func (s *documentStore) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.docs)
}

func (s *documentStore) len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}

// uriPath returns the file path of a file URI, or uri itself when it does
// not parse.
func uriPath(uri protocol.DocumentUri) string {
	u, err := url.Parse(string(uri))
	if err != nil || u.Path == "" {
		return string(uri)
	}
	return u.Path
}
