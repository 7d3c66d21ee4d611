package esql

import "fmt"

// EncodingError occurs when the query text is not valid UTF-8.
type EncodingError struct {
	Offset int
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("invalid UTF-8 encoding at offset %d", e.Offset)
}

// LexerError occurs when the tokenizer cannot make progress.
type LexerError struct {
	Offset int
	Err    error
}

func (e *LexerError) Error() string {
	return fmt.Sprintf("lexer failed at offset %d: %v", e.Offset, e.Err)
}

func (e *LexerError) Unwrap() error {
	return e.Err
}
