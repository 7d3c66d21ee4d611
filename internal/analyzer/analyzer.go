// Package analyzer runs validation, highlighting and completion over the
// queries embedded in a host document.
package analyzer

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/woxQAQ/esql-lsp/internal/annotator"
	"github.com/woxQAQ/esql-lsp/internal/completion"
	"github.com/woxQAQ/esql-lsp/internal/esql"
	"github.com/woxQAQ/esql-lsp/internal/metrics"
	"github.com/woxQAQ/esql-lsp/internal/region"
	"github.com/woxQAQ/esql-lsp/internal/vocab"
	"github.com/woxQAQ/esql-lsp/pkg/protocol"
)

// DiagnosticSource tags every diagnostic produced by the analyzer.
const DiagnosticSource = "esql"

// Analyzer is safe for concurrent use.
type Analyzer struct {
	validator *annotator.Validator
	engine    *completion.Engine
	words     func() vocab.Set
	logger    *zap.Logger
}

type options struct {
	words   func() vocab.Set
	gateway completion.SchemaGateway
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// Option configures an Analyzer.
type Option func(*options)

// WithVocabulary sets the source of keyword and function names.
func WithVocabulary(words func() vocab.Set) Option {
	return func(o *options) { o.words = words }
}

// WithGateway enables index and field suggestions.
func WithGateway(g completion.SchemaGateway) Option {
	return func(o *options) { o.gateway = g }
}

// WithMetrics records validation and completion counters.
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithLogger sets the analyzer logger.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// New creates an analyzer over the recognizer r.
func New(r esql.Recognizer, opts ...Option) *Analyzer {
	o := options{words: vocab.Builtin, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}

	engineOpts := []completion.Option{
		completion.WithVocabulary(o.words),
		completion.WithMetrics(o.metrics),
		completion.WithLogger(o.logger),
	}
	if o.gateway != nil {
		engineOpts = append(engineOpts, completion.WithGateway(o.gateway))
	}

	return &Analyzer{
		validator: annotator.NewValidator(r,
			annotator.WithMetrics(o.metrics),
			annotator.WithLogger(o.logger),
		),
		engine: completion.NewEngine(r, engineOpts...),
		words:  o.words,
		logger: o.logger.With(zap.String("component", "analyzer")),
	}
}

// Regions returns the eligible query regions of doc.
func (a *Analyzer) Regions(ctx context.Context, doc *Document) ([]region.QueryRegion, error) {
	regions, err := region.Regions(ctx, doc.Text, doc.Language)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", doc.Path, err)
	}
	return regions, nil
}

// Diagnose validates every region of doc.
func (a *Analyzer) Diagnose(ctx context.Context, doc *Document) ([]protocol.Diagnostic, error) {
	regions, err := a.Regions(ctx, doc)
	if err != nil {
		return nil, err
	}
	return a.diagnose(doc, regions), nil
}

func (a *Analyzer) diagnose(doc *Document, regions []region.QueryRegion) []protocol.Diagnostic {
	diagnostics := []protocol.Diagnostic{}
	for _, r := range regions {
		for _, e := range a.validator.Validate(r, doc.index) {
			diagnostics = append(diagnostics, protocol.Diagnostic{
				Range:    doc.RangeOf(e.Range.Start, e.Range.End),
				Span:     protocol.Span{Start: e.Range.Start, End: e.Range.End},
				Severity: protocol.SeverityError,
				Source:   DiagnosticSource,
				Message:  e.Message,
			})
		}
	}
	return diagnostics
}

// Highlights returns the keyword and function name ranges of every region.
func (a *Analyzer) Highlights(ctx context.Context, doc *Document) ([]protocol.Range, error) {
	regions, err := a.Regions(ctx, doc)
	if err != nil {
		return nil, err
	}
	return a.highlights(doc, regions), nil
}

func (a *Analyzer) highlights(doc *Document, regions []region.QueryRegion) []protocol.Range {
	keywords := a.words().Keywords()
	var out []protocol.Range
	for _, r := range regions {
		for _, h := range annotator.Highlight(r.InnerText, r.HostStartOffset, keywords) {
			out = append(out, doc.RangeOf(h.Start, h.End))
		}
	}
	return out
}

// Report checks doc, optionally including highlight ranges.
func (a *Analyzer) Report(ctx context.Context, doc *Document, withHighlights bool) (protocol.FileReport, error) {
	regions, err := a.Regions(ctx, doc)
	if err != nil {
		return protocol.FileReport{}, err
	}
	report := protocol.FileReport{
		Path:        doc.Path,
		Language:    string(doc.Language),
		Regions:     len(regions),
		Diagnostics: a.diagnose(doc, regions),
	}
	if withHighlights {
		report.Highlights = a.highlights(doc, regions)
	}
	a.logger.Debug("Checked document",
		zap.String("path", doc.Path),
		zap.Int("regions", report.Regions),
		zap.Int("diagnostics", len(report.Diagnostics)),
	)
	return report, nil
}

// Complete returns the suggestions for the cursor at offset. A cursor
// outside an eligible literal yields no suggestions.
func (a *Analyzer) Complete(ctx context.Context, doc *Document, offset int) ([]completion.Suggestion, error) {
	span, ok, err := region.SpanAt(ctx, doc.Text, doc.Language, offset)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", doc.Path, err)
	}
	if !ok {
		return nil, nil
	}
	prefix, ok := region.PrefixAt(doc.Text, doc.index, span, doc.Language, offset)
	if !ok {
		return nil, nil
	}
	return a.engine.Complete(prefix.Text), nil
}

// CompleteQuery returns the suggestions for a bare query prefix.
func (a *Analyzer) CompleteQuery(text string) []completion.Suggestion {
	return a.engine.Complete(text)
}

// CompletionItems converts suggestions into protocol items. Sort text keeps
// the suggestion order.
func CompletionItems(suggestions []completion.Suggestion) []protocol.CompletionItem {
	items := make([]protocol.CompletionItem, 0, len(suggestions))
	for i, s := range suggestions {
		item := protocol.CompletionItem{
			Label:    s.Text,
			Kind:     itemKind(s.Category),
			SortText: fmt.Sprintf("%04d", i),
			Priority: s.Priority,
		}
		switch {
		case s.Category == completion.SchemaName:
			item.Detail = "schema"
		case s.Marked:
			item.Detail = "metadata"
		}
		items = append(items, item)
	}
	return items
}

func itemKind(c completion.Category) protocol.CompletionItemKind {
	switch c {
	case completion.Placeholder:
		return protocol.CompletionItemKindValue
	case completion.FunctionCall:
		return protocol.CompletionItemKindFunction
	case completion.Pipe:
		return protocol.CompletionItemKindOperator
	case completion.SchemaName:
		return protocol.CompletionItemKindField
	}
	return protocol.CompletionItemKindKeyword
}
