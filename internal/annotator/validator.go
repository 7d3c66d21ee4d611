// Package annotator validates embedded queries and reports normalized
// diagnostics in host document coordinates.
package annotator

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/woxQAQ/esql-lsp/internal/esql"
	"github.com/woxQAQ/esql-lsp/internal/metrics"
	"github.com/woxQAQ/esql-lsp/internal/region"
)

// Range is a half-open host document byte range.
type Range struct {
	Start int
	End   int
}

// NormalizedError is a syntax error with a user-facing message and its host
// document range.
type NormalizedError struct {
	esql.SyntaxError
	Range Range
}

// Validator checks query syntax. It holds no per-call state.
type Validator struct {
	recognizer esql.Recognizer
	metrics    *metrics.Metrics
	logger     *zap.Logger
}

// Option configures a Validator.
type Option func(*Validator)

// WithMetrics records validation outcomes.
func WithMetrics(m *metrics.Metrics) Option {
	return func(v *Validator) { v.metrics = m }
}

// WithLogger sets the logger used for recognizer failures.
func WithLogger(logger *zap.Logger) Option {
	return func(v *Validator) { v.logger = logger }
}

// NewValidator creates a validator over r.
func NewValidator(r esql.Recognizer, opts ...Option) *Validator {
	v := &Validator{recognizer: r, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(v)
	}
	v.logger = v.logger.With(zap.String("component", "validator"))
	return v
}

// Check runs the recognizer over text and returns its raw diagnostics in
// emission order. A failing recognizer yields a *RecognizerFailure.
func (v *Validator) Check(text string) (errs []esql.SyntaxError, err error) {
	defer func() {
		if r := recover(); r != nil {
			errs = nil
			err = panicFailure(r)
		}
	}()

	listener := &esql.CollectingListener{}
	tokens, err := v.recognizer.Tokenize(text, listener)
	if err != nil {
		return nil, &RecognizerFailure{Kind: fmt.Sprintf("%T", err), Err: err}
	}
	v.recognizer.Parse(tokens, listener)
	return listener.Errors, nil
}

func panicFailure(r any) *RecognizerFailure {
	if err, ok := r.(error); ok {
		return &RecognizerFailure{Kind: fmt.Sprintf("%T", err), Err: err}
	}
	return &RecognizerFailure{Kind: "panic", Err: fmt.Errorf("%v", r)}
}

// Validate checks the region's query and maps every diagnostic into host
// coordinates. Ranges always lie within the region.
func (v *Validator) Validate(r region.QueryRegion, idx region.LineIndex) []NormalizedError {
	errs, err := v.Check(r.InnerText)
	v.metrics.ObserveValidation()

	if err != nil {
		failure, ok := err.(*RecognizerFailure)
		if !ok {
			failure = &RecognizerFailure{Kind: fmt.Sprintf("%T", err), Err: err}
		}
		v.logger.Warn("Recognizer failed",
			zap.String("kind", failure.Kind),
			zap.Error(failure.Err),
		)
		v.metrics.ObserveRecognizerFailure()
		return []NormalizedError{{
			SyntaxError: esql.SyntaxError{Message: failure.Message(), Line: 1},
			Range:       Range{Start: r.HostStartOffset, End: r.HostEndOffset},
		}}
	}

	out := make([]NormalizedError, 0, len(errs))
	for _, e := range errs {
		e.Message = Normalize(e.Message)
		out = append(out, NormalizedError{SyntaxError: e, Range: errorRange(r, idx, e)})
	}
	v.metrics.ObserveSyntaxErrors(len(out))
	return out
}

// errorRange places e in the host document. EOF diagnostics cover one
// character, token diagnostics cover the token, and lexer diagnostics run to
// the end of the region. The result is clamped to the region; a diagnostic at
// the very end is pulled back onto the last character.
func errorRange(r region.QueryRegion, idx region.LineIndex, e esql.SyntaxError) Range {
	start := region.MapForward(r, idx, e.Line, e.Column)
	var end int
	switch {
	case e.OffendingToken == nil:
		end = r.HostEndOffset
	case *e.OffendingToken == "<EOF>":
		end = start + 1
	default:
		end = start + len(*e.OffendingToken)
	}

	if start >= r.HostEndOffset && r.HostEndOffset > r.HostStartOffset {
		width := end - start
		start = r.HostEndOffset - 1
		if width < 1 {
			width = 1
		}
		end = start + width
	}
	start = clamp(start, r.HostStartOffset, r.HostEndOffset)
	end = clamp(end, start, r.HostEndOffset)
	return Range{Start: start, End: end}
}

func clamp(x, lo, hi int) int {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
