package esql

import (
	"fmt"
	"strings"
)

// Token is a lexed terminal. Line is 1-based, Column is the 0-based byte
// column within that line, Offset is the byte offset into the query text.
type Token struct {
	Type   TokenType
	Text   string
	Offset int
	Line   int
	Column int
}

// IsEOF reports whether the token is the end-of-input marker.
func (t Token) IsEOF() bool {
	return t.Type == EOF
}

// SyntaxError is one diagnostic emitted by the recognizer, in its own
// coordinates. OffendingToken is nil when the problem was found while lexing.
type SyntaxError struct {
	Message        string
	Line           int
	Column         int
	OffendingToken *string
}

func (e SyntaxError) String() string {
	return fmt.Sprintf("line %d:%d %s", e.Line, e.Column, e.Message)
}

// ErrorListener receives diagnostics in emission order.
type ErrorListener interface {
	SyntaxError(offending *Token, line, column int, msg string)
}

// CollectingListener records every diagnostic it receives.
type CollectingListener struct {
	Errors []SyntaxError
}

// SyntaxError implements ErrorListener.
func (l *CollectingListener) SyntaxError(offending *Token, line, column int, msg string) {
	e := SyntaxError{Message: msg, Line: line, Column: column}
	if offending != nil {
		text := offending.Text
		e.OffendingToken = &text
	}
	l.Errors = append(l.Errors, e)
}

// Recognizer is the lexer and parser pair for the query grammar.
type Recognizer interface {
	// Tokenize lexes text, reporting unrecognized characters to listener.
	// The returned slice always ends with an EOF token.
	Tokenize(text string, listener ErrorListener) ([]Token, error)
	// Parse checks tokens against the statement rule, reporting syntax
	// errors to listener. No tree is built.
	Parse(tokens []Token, listener ErrorListener)
	// ExpectedTokens returns the token types that may follow tokens, which
	// must end with the EOF token marking the caret.
	ExpectedTokens(tokens []Token) TokenSet
	Vocabulary() *Vocabulary
}

// tokenDisplay renders a token the way diagnostics quote it.
func tokenDisplay(t *Token) string {
	if t.IsEOF() {
		return "'<EOF>'"
	}
	return "'" + escapeWS(t.Text) + "'"
}

func escapeWS(s string) string {
	return strings.NewReplacer("\n", `\n`, "\r", `\r`, "\t", `\t`).Replace(s)
}
