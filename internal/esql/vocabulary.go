package esql

import (
	"sort"
	"strings"
)

// TokenType identifies a terminal of the query grammar. Values are stable
// across builds of the recognizer; EOF is the logical end-of-input marker.
type TokenType int

// EOF is the end-of-input token type.
const EOF TokenType = -1

// Token types, ordered the way expected-token sets are rendered.
const (
	ChangePoint TokenType = iota
	Completion
	Dissect
	Drop
	Enrich
	Eval
	Fork
	From
	Grok
	Keep
	Limit
	Lookup
	MvExpand
	Rename
	Row
	Sample
	Show
	Sort
	Stats
	DevInlinestats
	DevInsist
	Where
	Pipe
	QuotedString
	UnquotedSource
	IntegerLiteral
	DecimalLiteral
	And
	As
	Asc
	Assign
	By
	CastOp
	Colon
	Comma
	Desc
	Dot
	False
	First
	In
	Info
	Is
	Join
	Last
	Like
	Metadata
	Not
	Null
	Nulls
	On
	Or
	Param
	Rlike
	True
	With
	Eq
	CIEq
	NEq
	LT
	LTE
	GT
	GTE
	Plus
	Minus
	Asterisk
	Slash
	Percent
	DoubleParams
	NamedOrPositionalParam
	NamedOrPositionalDoubleParams
	OpeningBracket
	ClosingBracket
	LP
	RP
	UnquotedIdentifier
	QuotedIdentifier
	IDPattern
	EnrichPolicyName
	tokenCount
)

// Category groups tokens that share a completion surface form.
type Category int

const (
	CategoryKeyword Category = iota
	CategoryString
	CategoryIdentifier
	CategoryParameter
	CategoryNumber
	CategoryFunctionCall
	CategoryPipe
	CategorySuppressed
)

func (c Category) String() string {
	switch c {
	case CategoryString:
		return "string"
	case CategoryIdentifier:
		return "identifier"
	case CategoryParameter:
		return "parameter"
	case CategoryNumber:
		return "number"
	case CategoryFunctionCall:
		return "function-call"
	case CategoryPipe:
		return "pipe"
	case CategorySuppressed:
		return "suppressed"
	default:
		return "keyword"
	}
}

type tokenInfo struct {
	name     string
	literal  string // empty when the token has no fixed spelling in diagnostics
	text     string // surface form offered by completion
	category Category
}

var tokenTable = [tokenCount]tokenInfo{
	ChangePoint:    {name: "CHANGE_POINT", literal: "change_point"},
	Completion:     {name: "COMPLETION", literal: "completion"},
	Dissect:        {name: "DISSECT", literal: "dissect"},
	Drop:           {name: "DROP", literal: "drop"},
	Enrich:         {name: "ENRICH", literal: "enrich"},
	Eval:           {name: "EVAL", literal: "eval"},
	Fork:           {name: "FORK", literal: "fork"},
	From:           {name: "FROM", literal: "from"},
	Grok:           {name: "GROK", literal: "grok"},
	Keep:           {name: "KEEP", literal: "keep"},
	Limit:          {name: "LIMIT", literal: "limit"},
	Lookup:         {name: "LOOKUP", literal: "lookup"},
	MvExpand:       {name: "MV_EXPAND", literal: "mv_expand"},
	Rename:         {name: "RENAME", literal: "rename"},
	Row:            {name: "ROW", literal: "row"},
	Sample:         {name: "SAMPLE", literal: "sample"},
	Show:           {name: "SHOW", literal: "show"},
	Sort:           {name: "SORT", literal: "sort"},
	Stats:          {name: "STATS", literal: "stats"},
	DevInlinestats: {name: "DEV_INLINESTATS", category: CategorySuppressed},
	DevInsist:      {name: "DEV_INSIST", category: CategorySuppressed},
	Where:          {name: "WHERE", literal: "where"},
	Pipe:           {name: "PIPE", literal: "|", category: CategoryPipe},
	QuotedString:   {name: "QUOTED_STRING", category: CategoryString},
	UnquotedSource: {name: "UNQUOTED_SOURCE", category: CategoryString},
	IntegerLiteral: {name: "INTEGER_LITERAL", category: CategoryNumber},
	DecimalLiteral: {name: "DECIMAL_LITERAL", category: CategoryNumber},
	And:            {name: "AND", literal: "and"},
	As:             {name: "AS", literal: "as"},
	Asc:            {name: "ASC", literal: "asc"},
	Assign:         {name: "ASSIGN", literal: "="},
	By:             {name: "BY", literal: "by"},
	CastOp:         {name: "CAST_OP", literal: "::"},
	Colon:          {name: "COLON", literal: ":"},
	Comma:          {name: "COMMA", literal: ","},
	Desc:           {name: "DESC", literal: "desc"},
	Dot:            {name: "DOT", literal: "."},
	False:          {name: "FALSE", literal: "false"},
	First:          {name: "FIRST", literal: "first"},
	In:             {name: "IN", literal: "in"},
	Info:           {name: "INFO", literal: "info"},
	Is:             {name: "IS", literal: "is"},
	Join:           {name: "JOIN", literal: "join"},
	Last:           {name: "LAST", literal: "last"},
	Like:           {name: "LIKE", literal: "like"},
	Metadata:       {name: "METADATA", literal: "metadata"},
	Not:            {name: "NOT", literal: "not"},
	Null:           {name: "NULL", literal: "null"},
	Nulls:          {name: "NULLS", literal: "nulls"},
	On:             {name: "ON", literal: "on"},
	Or:             {name: "OR", literal: "or"},
	Param:          {name: "PARAM", literal: "?", category: CategorySuppressed},
	Rlike:          {name: "RLIKE", literal: "rlike"},
	True:           {name: "TRUE", literal: "true"},
	With:           {name: "WITH", literal: "with"},
	Eq:             {name: "EQ", literal: "=="},
	CIEq:           {name: "CIEQ", literal: "=~"},
	NEq:            {name: "NEQ", literal: "!="},
	LT:             {name: "LT", literal: "<"},
	LTE:            {name: "LTE", literal: "<="},
	GT:             {name: "GT", literal: ">"},
	GTE:            {name: "GTE", literal: ">="},
	Plus:           {name: "PLUS", literal: "+"},
	Minus:          {name: "MINUS", literal: "-"},
	Asterisk:       {name: "ASTERISK", literal: "*"},
	Slash:          {name: "SLASH", literal: "/"},
	Percent:        {name: "PERCENT", literal: "%"},
	DoubleParams:   {name: "DOUBLE_PARAMS", literal: "??", category: CategorySuppressed},

	NamedOrPositionalParam:        {name: "NAMED_OR_POSITIONAL_PARAM", category: CategoryParameter},
	NamedOrPositionalDoubleParams: {name: "NAMED_OR_POSITIONAL_DOUBLE_PARAMS", category: CategoryParameter},

	// Brackets and parentheses are defined in several lexer modes and carry
	// no literal name, so diagnostics spell them symbolically.
	OpeningBracket: {name: "OPENING_BRACKET", text: "["},
	ClosingBracket: {name: "CLOSING_BRACKET", text: "]"},
	LP:             {name: "LP", text: "(", category: CategoryFunctionCall},
	RP:             {name: "RP", literal: ")"},

	UnquotedIdentifier: {name: "UNQUOTED_IDENTIFIER", category: CategoryIdentifier},
	QuotedIdentifier:   {name: "QUOTED_IDENTIFIER", category: CategoryIdentifier},
	IDPattern:          {name: "ID_PATTERN", category: CategoryParameter},
	EnrichPolicyName:   {name: "ENRICH_POLICY_NAME", category: CategoryString},
}

// Vocabulary maps token types to display strings and completion categories.
type Vocabulary struct{}

// DefaultVocabulary is the vocabulary of the built-in grammar.
var DefaultVocabulary = &Vocabulary{}

func valid(t TokenType) bool {
	return t >= 0 && t < tokenCount
}

// SymbolicName returns the grammar name of t, "EOF" for the end marker.
func (v *Vocabulary) SymbolicName(t TokenType) string {
	if t == EOF {
		return "EOF"
	}
	if !valid(t) {
		return ""
	}
	return tokenTable[t].name
}

// DisplayName returns the quoted literal of t when it has one, otherwise its
// symbolic name.
func (v *Vocabulary) DisplayName(t TokenType) string {
	if valid(t) && tokenTable[t].literal != "" {
		return "'" + tokenTable[t].literal + "'"
	}
	return v.SymbolicName(t)
}

// ElementName is DisplayName with the end marker spelled as <EOF>, the form
// used inside diagnostic messages.
func (v *Vocabulary) ElementName(t TokenType) string {
	if t == EOF {
		return "<EOF>"
	}
	return v.DisplayName(t)
}

// SurfaceText returns the uppercase text a completion shows for t.
func (v *Vocabulary) SurfaceText(t TokenType) string {
	if !valid(t) {
		return v.SymbolicName(t)
	}
	info := tokenTable[t]
	switch {
	case info.text != "":
		return info.text
	case info.literal != "":
		return strings.ToUpper(info.literal)
	default:
		return info.name
	}
}

// Category classifies t for completion.
func (v *Vocabulary) Category(t TokenType) Category {
	if !valid(t) {
		return CategorySuppressed
	}
	return tokenTable[t].category
}

// Lookup resolves a symbolic name to its token type.
func (v *Vocabulary) Lookup(name string) (TokenType, bool) {
	if name == "EOF" {
		return EOF, true
	}
	t, ok := tokenByName[name]
	return t, ok
}

var tokenByName = func() map[string]TokenType {
	m := make(map[string]TokenType, tokenCount)
	for t := TokenType(0); t < tokenCount; t++ {
		m[tokenTable[t].name] = t
	}
	return m
}()

// TokenSet is a set of token types.
type TokenSet map[TokenType]struct{}

// Add inserts t.
func (s TokenSet) Add(t TokenType) {
	s[t] = struct{}{}
}

// Contains reports whether t is in the set.
func (s TokenSet) Contains(t TokenType) bool {
	_, ok := s[t]
	return ok
}

// Sorted returns the members ordered by token type, EOF first.
func (s TokenSet) Sorted() []TokenType {
	out := make([]TokenType, 0, len(s))
	for t := range s {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Format renders the set the way diagnostics spell it: a single element bare,
// several elements between braces.
func (s TokenSet) Format(v *Vocabulary) string {
	sorted := s.Sorted()
	if len(sorted) == 0 {
		return "{}"
	}
	names := make([]string, len(sorted))
	for i, t := range sorted {
		names[i] = v.ElementName(t)
	}
	if len(names) == 1 {
		return names[0]
	}
	return "{" + strings.Join(names, ", ") + "}"
}
