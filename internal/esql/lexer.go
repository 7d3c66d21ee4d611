package esql

import (
	"fmt"
	"sort"
	"unicode/utf8"

	"github.com/alecthomas/participle/v2/lexer"
)

// Lexer states. Source patterns after FROM, name patterns after KEEP, DROP
// and RENAME, and the policy name after ENRICH need their own token shapes.
const (
	stateRoot    = "Root"
	stateFrom    = "From"
	stateProject = "Project"
	stateEnrich  = "Enrich"
)

const (
	ruleWS               = "WS"
	ruleLineComment      = "LINE_COMMENT"
	ruleMultilineComment = "MULTILINE_COMMENT"
	ruleUnrecognized     = "UNRECOGNIZED"
)

const (
	identifierPattern       = `[a-zA-Z][a-zA-Z0-9_]*|[_@][a-zA-Z0-9_]+`
	quotedIdentifierPattern = "`(?:[^`]|``)*`"
	policyNameBody          = `[^\\/?"<>| ,#\t\r\n:]+`
	paramNamePattern        = `(?:[a-zA-Z_][a-zA-Z0-9_]*|[0-9]+)`
)

var hiddenRules = []lexer.Rule{
	{Name: ruleLineComment, Pattern: `//[^\r\n]*`},
	{Name: ruleMultilineComment, Pattern: `/\*(?s:.*?)\*/`},
	{Name: ruleWS, Pattern: `\s+`},
}

var unrecognizedRule = lexer.Rule{Name: ruleUnrecognized, Pattern: `(?s).`}

func rule(t TokenType, pattern string, action lexer.Action) lexer.Rule {
	return lexer.Rule{Name: tokenTable[t].name, Pattern: pattern, Action: action}
}

func keyword(t TokenType, word string, action lexer.Action) lexer.Rule {
	return rule(t, `(?i)`+word+`\b`, action)
}

func literalKeyword(t TokenType) lexer.Rule {
	return keyword(t, tokenTable[t].literal, nil)
}

func paramRules() []lexer.Rule {
	return []lexer.Rule{
		rule(NamedOrPositionalDoubleParams, `\?\?`+paramNamePattern, nil),
		rule(NamedOrPositionalParam, `\?`+paramNamePattern, nil),
		rule(DoubleParams, `\?\?`, nil),
		rule(Param, `\?`, nil),
	}
}

func rootRules(devVersion bool) []lexer.Rule {
	rules := append([]lexer.Rule{}, hiddenRules...)

	rules = append(rules,
		literalKeyword(ChangePoint),
		literalKeyword(Completion),
		literalKeyword(Dissect),
		keyword(Drop, "drop", lexer.Push(stateProject)),
		keyword(Enrich, "enrich", lexer.Push(stateEnrich)),
		literalKeyword(Eval),
		literalKeyword(Fork),
		keyword(From, "from", lexer.Push(stateFrom)),
		literalKeyword(Grok),
		keyword(Keep, "keep", lexer.Push(stateProject)),
		literalKeyword(Limit),
		literalKeyword(Lookup),
		literalKeyword(MvExpand),
		keyword(Rename, "rename", lexer.Push(stateProject)),
		literalKeyword(Row),
		literalKeyword(Sample),
		literalKeyword(Show),
		literalKeyword(Sort),
		literalKeyword(Stats),
		literalKeyword(Where),
	)
	if devVersion {
		rules = append(rules,
			keyword(DevInlinestats, "inlinestats", nil),
			keyword(DevInsist, "insist", lexer.Push(stateProject)),
		)
	}

	for _, t := range []TokenType{
		And, As, Asc, By, Desc, False, First, In, Info, Is, Join, Last,
		Like, Not, Nulls, Null, On, Or, Rlike, True, With,
	} {
		rules = append(rules, literalKeyword(t))
	}

	rules = append(rules,
		rule(DecimalLiteral, `[0-9]+\.[0-9]*(?:[eE][+-]?[0-9]+)?|\.[0-9]+(?:[eE][+-]?[0-9]+)?|[0-9]+[eE][+-]?[0-9]+`, nil),
		rule(IntegerLiteral, `[0-9]+`, nil),
		rule(QuotedString, `"""(?s:.*?)"""|"(?:[^"\\\r\n]|\\.)*"`, nil),
	)
	rules = append(rules, paramRules()...)
	rules = append(rules,
		rule(CastOp, `::`, nil),
		rule(Eq, `==`, nil),
		rule(CIEq, `=~`, nil),
		rule(NEq, `!=`, nil),
		rule(LTE, `<=`, nil),
		rule(GTE, `>=`, nil),
		rule(Assign, `=`, nil),
		rule(LT, `<`, nil),
		rule(GT, `>`, nil),
		rule(Colon, `:`, nil),
		rule(Comma, `,`, nil),
		rule(Dot, `\.`, nil),
		rule(Plus, `\+`, nil),
		rule(Minus, `-`, nil),
		rule(Asterisk, `\*`, nil),
		rule(Slash, `/`, nil),
		rule(Percent, `%`, nil),
		rule(Pipe, `\|`, nil),
		rule(LP, `\(`, nil),
		rule(RP, `\)`, nil),
		rule(OpeningBracket, `\[`, nil),
		rule(ClosingBracket, `\]`, nil),
		rule(UnquotedIdentifier, identifierPattern, nil),
		rule(QuotedIdentifier, quotedIdentifierPattern, nil),
		unrecognizedRule,
	)
	return rules
}

func fromRules() []lexer.Rule {
	rules := append([]lexer.Rule{}, hiddenRules...)
	return append(rules,
		rule(Pipe, `\|`, lexer.Pop()),
		rule(Comma, `,`, nil),
		rule(Colon, `:`, nil),
		rule(OpeningBracket, `\[`, nil),
		rule(ClosingBracket, `\]`, nil),
		literalKeyword(Metadata),
		rule(QuotedString, `"""(?s:.*?)"""|"(?:[^"\\\r\n]|\\.)*"`, nil),
		rule(UnquotedSource, `[^\s,|:\[\]"()/]+`, nil),
		unrecognizedRule,
	)
}

func projectRules() []lexer.Rule {
	rules := append([]lexer.Rule{}, hiddenRules...)
	rules = append(rules,
		rule(Pipe, `\|`, lexer.Pop()),
		rule(RP, `\)`, lexer.Pop()),
		rule(Comma, `,`, nil),
		rule(Dot, `\.`, nil),
		rule(Assign, `=`, nil),
		literalKeyword(As),
	)
	rules = append(rules, paramRules()...)
	return append(rules,
		rule(IDPattern, "(?:[a-zA-Z_@*][a-zA-Z0-9_*]*|"+quotedIdentifierPattern+")+", nil),
		unrecognizedRule,
	)
}

// enrichRules lex the policy name, optionally cluster qualified, and return
// to the root state after it.
func enrichRules() []lexer.Rule {
	rules := append([]lexer.Rule{}, hiddenRules...)
	return append(rules,
		rule(Pipe, `\|`, lexer.Pop()),
		rule(EnrichPolicyName, `(?:`+policyNameBody+`:)?`+policyNameBody, lexer.Pop()),
		unrecognizedRule,
	)
}

// tokenizer wraps a participle lexer definition and translates its symbol
// table into grammar token types.
type tokenizer struct {
	def     *lexer.StatefulDefinition
	types   map[lexer.TokenType]TokenType
	hidden  map[lexer.TokenType]bool
	unknown lexer.TokenType
}

func newTokenizer(devVersion bool) *tokenizer {
	def := lexer.MustStateful(lexer.Rules{
		stateRoot:    rootRules(devVersion),
		stateFrom:    fromRules(),
		stateProject: projectRules(),
		stateEnrich:  enrichRules(),
	})

	t := &tokenizer{
		def:    def,
		types:  make(map[lexer.TokenType]TokenType),
		hidden: make(map[lexer.TokenType]bool),
	}
	for name, sym := range def.Symbols() {
		switch name {
		case "EOF":
		case ruleWS, ruleLineComment, ruleMultilineComment:
			t.hidden[sym] = true
		case ruleUnrecognized:
			t.unknown = sym
		default:
			tt, ok := tokenByName[name]
			if !ok {
				panic(fmt.Sprintf("lexer rule %q has no token type", name))
			}
			t.types[sym] = tt
		}
	}
	return t
}

func (t *tokenizer) tokenize(text string, listener ErrorListener) ([]Token, error) {
	if !utf8.ValidString(text) {
		return nil, &EncodingError{Offset: invalidUTF8Offset(text)}
	}

	lx, err := t.def.LexString("", text)
	if err != nil {
		return nil, &LexerError{Err: err}
	}

	lines := newLineTable(text)
	var out []Token
	for {
		tok, err := lx.Next()
		if err != nil {
			return nil, &LexerError{Offset: tok.Pos.Offset, Err: err}
		}
		if tok.EOF() {
			break
		}
		if t.hidden[tok.Type] {
			continue
		}

		line, col := lines.position(tok.Pos.Offset)
		if tok.Type == t.unknown {
			listener.SyntaxError(nil, line, col, "token recognition error at: '"+escapeWS(tok.Value)+"'")
			continue
		}
		out = append(out, Token{
			Type:   t.types[tok.Type],
			Text:   tok.Value,
			Offset: tok.Pos.Offset,
			Line:   line,
			Column: col,
		})
	}

	line, col := lines.position(len(text))
	out = append(out, Token{Type: EOF, Text: "<EOF>", Offset: len(text), Line: line, Column: col})
	return out, nil
}

func invalidUTF8Offset(s string) int {
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			return i
		}
		i += size
	}
	return len(s)
}

// lineTable converts byte offsets into 1-based lines and 0-based columns.
type lineTable []int

func newLineTable(text string) lineTable {
	starts := lineTable{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

func (l lineTable) position(offset int) (line, column int) {
	i := sort.Search(len(l), func(i int) bool { return l[i] > offset }) - 1
	return i + 1, offset - l[i]
}
