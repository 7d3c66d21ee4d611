package esql

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const wheeQuery = "FROM ul_logs, apps METADATA _index, _version\n" +
	"| WHEE id IN (13, 14) AND _version == 1\n" +
	"| EVAL key = CONCAT(_index, \"_\", TO_STR(id)) |\n"

func tokenTypes(t *testing.T, text string) []TokenType {
	t.Helper()
	tokens, err := New(DefaultConfig()).Tokenize(text, discardListener{})
	require.NoError(t, err)
	out := make([]TokenType, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.Type
	}
	return out
}

func check(t *testing.T, l *Language, text string) []SyntaxError {
	t.Helper()
	listener := &CollectingListener{}
	tokens, err := l.Tokenize(text, listener)
	require.NoError(t, err)
	l.Parse(tokens, listener)
	return listener.Errors
}

func TestTokenizeModes(t *testing.T) {
	assert.Equal(t,
		[]TokenType{From, UnquotedSource, Comma, UnquotedSource, Colon, UnquotedSource, Metadata, UnquotedSource, Pipe, Keep, IDPattern, Comma, IDPattern, Pipe, Where, UnquotedIdentifier, GT, IntegerLiteral, EOF},
		tokenTypes(t, "from logs-*, remote:web METADATA _id | keep a*, b | WHERE x > 1"),
	)
}

func TestTokenizeEnrichPolicyName(t *testing.T) {
	assert.Equal(t,
		[]TokenType{From, UnquotedSource, Pipe, Enrich, EnrichPolicyName, On, UnquotedIdentifier, Pipe, Limit, IntegerLiteral, EOF},
		tokenTypes(t, "FROM logs | ENRICH my-policy ON host | LIMIT 1"),
	)

	tokens, err := New(DefaultConfig()).Tokenize("ROW a = 1 | enrich remote:hosts.policy-v2", discardListener{})
	require.NoError(t, err)
	require.Len(t, tokens, 8)
	assert.Equal(t, EnrichPolicyName, tokens[6].Type)
	assert.Equal(t, "remote:hosts.policy-v2", tokens[6].Text)
}

func TestTokenizeHidesCommentsAndWhitespace(t *testing.T) {
	assert.Equal(t,
		[]TokenType{Row, UnquotedIdentifier, Assign, DecimalLiteral, EOF},
		tokenTypes(t, "ROW // one\n  a = /* two */ 1.5\n"),
	)
}

func TestTokenizePositions(t *testing.T) {
	tokens, err := New(DefaultConfig()).Tokenize("FROM a\n| LIMIT 5", discardListener{})
	require.NoError(t, err)
	require.Len(t, tokens, 6)

	limit := tokens[3]
	assert.Equal(t, Limit, limit.Type)
	assert.Equal(t, 2, limit.Line)
	assert.Equal(t, 2, limit.Column)

	eof := tokens[5]
	assert.True(t, eof.IsEOF())
	assert.Equal(t, 2, eof.Line)
	assert.Equal(t, 9, eof.Column)
}

func TestTokenizeUnrecognizedCharacter(t *testing.T) {
	listener := &CollectingListener{}
	tokens, err := New(DefaultConfig()).Tokenize("ROW a = #1", listener)
	require.NoError(t, err)

	require.Len(t, listener.Errors, 1)
	assert.Equal(t, "token recognition error at: '#'", listener.Errors[0].Message)
	assert.Nil(t, listener.Errors[0].OffendingToken)
	assert.Equal(t, 1, listener.Errors[0].Line)
	assert.Equal(t, 8, listener.Errors[0].Column)
	assert.Len(t, tokens, 5)
}

func TestTokenizeInvalidEncoding(t *testing.T) {
	_, err := New(DefaultConfig()).Tokenize("FROM a\xff", discardListener{})
	require.Error(t, err)

	encErr, ok := err.(*EncodingError)
	require.True(t, ok, "expected *EncodingError, got %T", err)
	assert.Equal(t, 6, encErr.Offset)
}

func TestTokenizeReleaseVersionTreatsDevCommandsAsIdentifiers(t *testing.T) {
	tokens, err := New(Config{DevVersion: false}).Tokenize("inlinestats", discardListener{})
	require.NoError(t, err)
	assert.Equal(t, UnquotedIdentifier, tokens[0].Type)

	tokens, err = New(Config{DevVersion: true}).Tokenize("inlinestats", discardListener{})
	require.NoError(t, err)
	assert.Equal(t, DevInlinestats, tokens[0].Type)
}

func TestParseValidQueries(t *testing.T) {
	queries := []string{
		"FROM logs",
		"from logs-*, remote:web, \"quoted\" METADATA _index, _id",
		"FROM logs [METADATA _id]",
		"ROW a = 1, b = \"x\", c = [1, 2, 3]",
		"SHOW INFO",
		"FROM logs | WHERE status >= 400 AND NOT host LIKE \"web*\" | LIMIT 10",
		"FROM logs | WHERE a IS NOT NULL OR b IN (1, 2) | SORT a DESC NULLS LAST, b",
		"FROM logs | EVAL x = TO_STRING(a) :: keyword, y = ?p | KEEP x, y*",
		"FROM logs | STATS c = COUNT(*) BY host | RENAME c AS total, h = host",
		"FROM logs | DROP a.b, c | MV_EXPAND tags",
		"FROM logs | DISSECT message \"%{a} %{b}\" append_separator = \",\"",
		"FROM logs | GROK message \"%{IP:ip}\"",
		"FROM logs | ENRICH languages_policy ON lang WITH name = language_name",
		"FROM logs | ENRICH my-policy ON host",
		"FROM logs | ENRICH remote:hosts.policy-v2 ON host WITH name, ip = address",
		"FROM logs | WHERE a > 1 OR NOT b",
		"FROM a | WHERE a OR b OR NOT c",
		"FROM logs | WHERE x == 1 AND (y == 2 OR NOT z)",
		"FROM logs | WHERE NOT a AND NOT b OR NOT c AND d",
		"FROM logs | EVAL ok = NOT a OR b | SORT NOT ok",
		"FROM logs | LOOKUP JOIN langs ON code",
		"FROM logs | CHANGE_POINT value ON ts AS type, pvalue",
		"FROM logs | COMPLETION answer = prompt WITH model",
		"FROM logs | SAMPLE 0.5",
		"FROM logs | FORK (WHERE a > 1 | KEEP a) (LIMIT 5)",
		"FROM logs | WHERE message : \"error\"",
		"FROM logs | INLINESTATS m = MAX(a) BY b",
	}
	l := New(DefaultConfig())
	for _, q := range queries {
		t.Run(q, func(t *testing.T) {
			assert.Empty(t, check(t, l, q))
		})
	}
}

func TestParseMismatchedInputRecovery(t *testing.T) {
	errs := check(t, New(DefaultConfig()), wheeQuery)

	require.Len(t, errs, 2)
	assert.Contains(t, errs[0].Message, "mismatched input 'WHEE'")
	assert.Equal(t, 2, errs[0].Line)
	assert.Equal(t, 2, errs[0].Column)
	require.NotNil(t, errs[0].OffendingToken)
	assert.Equal(t, "WHEE", *errs[0].OffendingToken)

	assert.Contains(t, errs[1].Message, "mismatched input '<EOF>'")
	require.NotNil(t, errs[1].OffendingToken)
	assert.Equal(t, "<EOF>", *errs[1].OffendingToken)
}

func TestParseReportsEveryBrokenCommand(t *testing.T) {
	query := "FROM logs" + strings.Repeat(" | WHEE x", 100)

	errs := check(t, New(DefaultConfig()), query)

	require.Len(t, errs, 100)
	for _, e := range errs {
		assert.Contains(t, e.Message, "mismatched input 'WHEE'")
	}
	assert.Equal(t, len(query)-len("WHEE x"), errs[99].Column)
}

func TestParseMissingToken(t *testing.T) {
	errs := check(t, New(DefaultConfig()), "SHOW")

	require.Len(t, errs, 1)
	assert.Equal(t, "missing 'info' at '<EOF>'", errs[0].Message)
}

func TestParseExtraneousToken(t *testing.T) {
	errs := check(t, New(DefaultConfig()), "FROM logs | LIMIT 10 10")

	require.Len(t, errs, 1)
	assert.Equal(t, "extraneous input '10' expecting {<EOF>, '|', UNQUOTED_IDENTIFIER}", errs[0].Message)
}

func TestExpected(t *testing.T) {
	l := New(DefaultConfig())

	tests := []struct {
		name string
		text string
		want []TokenType
	}{
		{"empty", "", []TokenType{From, Row, Show}},
		{"after from", "FROM ", []TokenType{QuotedString, UnquotedSource}},
		{"after source", "FROM {string} ", []TokenType{EOF, Pipe, Colon, Comma, Metadata, OpeningBracket}},
		{"after show", "SHOW ", []TokenType{Info}},
		{"not a prefix", "FR", []TokenType{}},
		{"after enrich", "FROM logs | ENRICH ", []TokenType{EnrichPolicyName}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Expected(l, tt.text).Sorted())
		})
	}
}

func TestExpectedNegationAfterOr(t *testing.T) {
	l := New(DefaultConfig())
	for _, text := range []string{
		"FROM logs | WHERE a OR ",
		"FROM logs | WHERE a AND ",
		"FROM logs | WHERE ",
		"FROM logs | WHERE (a == 1 OR ",
	} {
		assert.True(t, Expected(l, text).Contains(Not), text)
	}
}

func TestExpectedAfterPipe(t *testing.T) {
	set := Expected(New(DefaultConfig()), "FROM {string} | ")

	for _, want := range []TokenType{Eval, Where, Keep, Limit, Stats, Sort, Drop, Rename, Dissect, Grok, Enrich, MvExpand, Lookup, ChangePoint, Completion, Sample, Fork, DevInlinestats, DevInsist} {
		assert.True(t, set.Contains(want), "missing %s", DefaultVocabulary.SymbolicName(want))
	}
	assert.Len(t, set, 19)

	release := Expected(New(Config{DevVersion: false}), "FROM {string} | ")
	assert.Len(t, release, 17)
}

func TestTokenSetFormat(t *testing.T) {
	set := TokenSet{}
	set.Add(Pipe)
	assert.Equal(t, "'|'", set.Format(DefaultVocabulary))

	set.Add(EOF)
	set.Add(LP)
	assert.Equal(t, "{<EOF>, '|', LP}", set.Format(DefaultVocabulary))
}

func TestVocabularyNames(t *testing.T) {
	v := DefaultVocabulary
	assert.Equal(t, "'from'", v.DisplayName(From))
	assert.Equal(t, "FROM", v.SurfaceText(From))
	assert.Equal(t, "QUOTED_STRING", v.DisplayName(QuotedString))
	assert.Equal(t, "EOF", v.DisplayName(EOF))
	assert.Equal(t, "<EOF>", v.ElementName(EOF))
	assert.Equal(t, "[", v.SurfaceText(OpeningBracket))
	assert.Equal(t, CategoryFunctionCall, v.Category(LP))

	tt, ok := v.Lookup("MV_EXPAND")
	require.True(t, ok)
	assert.Equal(t, MvExpand, tt)
}
