// Package esql implements the recognizer for the ES|QL piped query language:
// a modal tokenizer, the statement grammar, syntax error reporting, and the
// expected-token analysis used by completion.
package esql

// Config selects the grammar variant.
type Config struct {
	// DevVersion enables development-only commands.
	DevVersion bool
}

// DefaultConfig enables development commands, matching an unconfigured parser.
func DefaultConfig() Config {
	return Config{DevVersion: true}
}

// Language is the built-in Recognizer. It is immutable and safe for
// concurrent use; every call works on its own state.
type Language struct {
	cfg       Config
	tokenizer *tokenizer
	grammar   *Grammar
}

var (
	devLanguage     = &Language{cfg: Config{DevVersion: true}, tokenizer: newTokenizer(true), grammar: queryGrammar(true)}
	releaseLanguage = &Language{cfg: Config{DevVersion: false}, tokenizer: newTokenizer(false), grammar: queryGrammar(false)}
)

var _ Recognizer = (*Language)(nil)

// New returns the recognizer for cfg.
func New(cfg Config) *Language {
	if cfg.DevVersion {
		return devLanguage
	}
	return releaseLanguage
}

// Config returns the configuration the recognizer was built with.
func (l *Language) Config() Config {
	return l.cfg
}

// Tokenize implements Recognizer.
func (l *Language) Tokenize(text string, listener ErrorListener) ([]Token, error) {
	return l.tokenizer.tokenize(text, listener)
}

// Parse implements Recognizer.
func (l *Language) Parse(tokens []Token, listener ErrorListener) {
	p := &parser{g: l.grammar, vocab: DefaultVocabulary, listener: listener}
	p.parse(tokens)
}

// ExpectedTokens implements Recognizer.
func (l *Language) ExpectedTokens(tokens []Token) TokenSet {
	return expectedTokens(l.grammar, tokens)
}

// Vocabulary implements Recognizer.
func (l *Language) Vocabulary() *Vocabulary {
	return DefaultVocabulary
}

// discardListener drops diagnostics.
type discardListener struct{}

func (discardListener) SyntaxError(*Token, int, int, string) {}

// Expected tokenizes text and returns the token types that may follow it.
// Tokenizer failures yield an empty set.
func Expected(r Recognizer, text string) TokenSet {
	tokens, err := r.Tokenize(text, discardListener{})
	if err != nil {
		return TokenSet{}
	}
	return r.ExpectedTokens(tokens)
}
