package annotator

import (
	"regexp"
	"strings"
)

// devTokenPattern matches development-only token names in expected-token
// lists, up to the next separator.
var devTokenPattern = regexp.MustCompile(`DEV_.*?,`)

type replacement struct {
	from string
	to   string
}

// replacements are applied in order. Entries that are substrings of earlier
// ones come later so each fragment is rewritten once.
var replacements = []replacement{
	{"'??', ", ""},
	{"'?', ", ""},
	{"mismatched input '<EOF>'", "unexpected end of line,"},
	{"expecting {<EOF>", ", expecting {end of line"},
	{"expecting <EOF>", ", expecting end of line or processor/function arguments"},
	{"at '<EOF>'", "at end of line"},
	{"QUOTED_STRING, UNQUOTED_SOURCE", "string"},
	{"QUOTED_STRING", "string"},
	{"INTEGER_LITERAL, DECIMAL_LITERAL", "num"},
	{"NAMED_OR_POSITIONAL_PARAM, NAMED_OR_POSITIONAL_DOUBLE_PARAMS", "parameter"},
	{"UNQUOTED_IDENTIFIER, QUOTED_IDENTIFIER", "var"},
	{"LP", "any function"},
	{"OPENING_BRACKET", "brackets"},
}

// Normalize rewrites a raw recognizer message into user-facing wording.
// Normalizing an already normalized message returns it unchanged.
func Normalize(msg string) string {
	msg = devTokenPattern.ReplaceAllString(msg, "")
	for _, r := range replacements {
		msg = strings.ReplaceAll(msg, r.from, r.to)
	}
	return msg
}
