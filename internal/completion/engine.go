// Package completion proposes the tokens that may follow a partial query,
// optionally enriched with index and field names from a schema gateway.
package completion

import (
	"sort"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"github.com/woxQAQ/esql-lsp/internal/esql"
	"github.com/woxQAQ/esql-lsp/internal/metrics"
	"github.com/woxQAQ/esql-lsp/internal/vocab"
)

// Category is the visual treatment of a suggestion.
type Category int

const (
	Keyword Category = iota
	Placeholder
	FunctionCall
	Pipe
	SchemaName
)

func (c Category) String() string {
	switch c {
	case Keyword:
		return "keyword"
	case Placeholder:
		return "placeholder"
	case FunctionCall:
		return "function"
	case Pipe:
		return "pipe"
	case SchemaName:
		return "schema"
	}
	return "unknown"
}

// Suggestion priorities. Higher ranks first.
const (
	PriorityGrammar  = 5
	PriorityPipe     = 6
	PrioritySchema   = 10
	PriorityFallback = 20
)

// shortPrefix is the length below which a query without predictions is
// matched against the source commands.
const shortPrefix = 5

// Suggestion is one completion item.
type Suggestion struct {
	Text     string
	Priority int
	Category Category
	// Marked suggestions come from metadata rather than the grammar and are
	// rendered distinctly.
	Marked bool
}

// SchemaGateway supplies live index and field names. Unknown indices yield
// no fields.
type SchemaGateway interface {
	Enabled() bool
	ListIndices() []string
	ListFields(index string) []string
}

// Engine computes completions. It is safe for concurrent use.
type Engine struct {
	recognizer esql.Recognizer
	words      func() vocab.Set
	gateway    SchemaGateway
	metrics    *metrics.Metrics
	logger     *zap.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithGateway enables schema suggestions.
func WithGateway(g SchemaGateway) Option {
	return func(e *Engine) { e.gateway = g }
}

// WithVocabulary sets the source of function, metadata and command names.
// It is consulted on every call so reloaded vocabularies take effect.
func WithVocabulary(words func() vocab.Set) Option {
	return func(e *Engine) { e.words = words }
}

// WithMetrics counts completion requests.
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithLogger sets the engine logger.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// NewEngine creates a completion engine over r using the built-in
// vocabulary unless configured otherwise.
func NewEngine(r esql.Recognizer, opts ...Option) *Engine {
	e := &Engine{recognizer: r, words: vocab.Builtin, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.With(zap.String("component", "completion"))
	return e
}

// Complete returns the suggestions for the query prefix text, which ends at
// the cursor. Suggestions are unique by text and ordered by descending
// priority, ties in the order they were produced.
func (e *Engine) Complete(text string) []Suggestion {
	e.metrics.ObserveCompletion()
	words := e.words()

	var c collector
	e.autofill(&c, text, words)

	expected := esql.Expected(e.recognizer, text)
	trimmed := strings.TrimSpace(text)
	switch {
	case len(expected) > 0:
		e.fromTokens(&c, expected, words, "")
	case len(trimmed) < shortPrefix:
		upper := strings.ToUpper(trimmed)
		for _, source := range words.SourceCommands {
			if strings.HasPrefix(source, upper) {
				c.add(Suggestion{Text: source, Priority: PriorityFallback, Category: Keyword})
			}
		}
	default:
		if frag := trailingFragment(text); frag != "" {
			before := esql.Expected(e.recognizer, text[:len(text)-len(frag)])
			e.fromTokens(&c, before, words, strings.ToUpper(frag))
		}
	}

	e.logger.Debug("Completed query",
		zap.Int("expected", len(expected)),
		zap.Int("suggestions", len(c.items)),
	)
	return c.sorted()
}

// autofill adds the suggestions the last word of text asks for.
func (e *Engine) autofill(c *collector, text string, words vocab.Set) {
	req := RequestFor(Words(text))
	var names []string
	switch req.Kind {
	case RequestMetadata:
		for _, f := range words.MetadataFields {
			c.add(Suggestion{Text: f, Priority: PrioritySchema, Category: Keyword, Marked: true})
		}
		return
	case RequestIndices:
		if e.schemaEnabled() {
			names = e.gateway.ListIndices()
		}
	case RequestFields:
		if e.schemaEnabled() {
			names = e.gateway.ListFields(req.Index)
		}
	}
	for _, n := range names {
		c.add(Suggestion{Text: n, Priority: PrioritySchema, Category: SchemaName, Marked: true})
	}
}

func (e *Engine) schemaEnabled() bool {
	return e.gateway != nil && e.gateway.Enabled()
}

// fromTokens maps expected token types to suggestions. A non-empty prefix
// keeps only suggestions whose text starts with it.
func (e *Engine) fromTokens(c *collector, expected esql.TokenSet, words vocab.Set, prefix string) {
	vocabulary := e.recognizer.Vocabulary()
	add := func(s Suggestion) {
		if strings.HasPrefix(s.Text, prefix) {
			c.add(s)
		}
	}
	for _, t := range expected.Sorted() {
		switch vocabulary.Category(t) {
		case esql.CategorySuppressed:
		case esql.CategoryString:
			add(Suggestion{Text: "{string}", Priority: PriorityGrammar, Category: Placeholder})
		case esql.CategoryIdentifier:
			add(Suggestion{Text: "{var}", Priority: PriorityGrammar, Category: Placeholder})
		case esql.CategoryParameter:
			add(Suggestion{Text: "{param}", Priority: PriorityGrammar, Category: Placeholder})
		case esql.CategoryNumber:
			add(Suggestion{Text: "{num}", Priority: PriorityGrammar, Category: Placeholder})
		case esql.CategoryFunctionCall:
			for _, f := range words.Functions {
				add(Suggestion{Text: f + "()", Priority: PriorityGrammar, Category: FunctionCall})
			}
		case esql.CategoryPipe:
			add(Suggestion{Text: vocabulary.SurfaceText(t), Priority: PriorityPipe, Category: Pipe})
		default:
			add(Suggestion{Text: vocabulary.SurfaceText(t), Priority: PriorityGrammar, Category: Keyword})
		}
	}
}

// trailingFragment returns the identifier characters at the end of text.
func trailingFragment(text string) string {
	i := len(text)
	for i > 0 {
		r := rune(text[i-1])
		if r >= 0x80 || !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_') {
			break
		}
		i--
	}
	return text[i:]
}

// collector keeps the first suggestion for each text.
type collector struct {
	items []Suggestion
	seen  map[string]struct{}
}

func (c *collector) add(s Suggestion) {
	if c.seen == nil {
		c.seen = make(map[string]struct{})
	}
	if _, ok := c.seen[s.Text]; ok {
		return
	}
	c.seen[s.Text] = struct{}{}
	c.items = append(c.items, s)
}

func (c *collector) sorted() []Suggestion {
	out := append([]Suggestion(nil), c.items...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Priority > out[j].Priority })
	return out
}
