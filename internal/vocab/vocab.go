// Package vocab holds the word lists the query tooling depends on: function
// names, metadata fields and command keywords. The built-in lists can be
// extended by vocabulary packs loaded from disk.
package vocab

// Set is one complete vocabulary.
type Set struct {
	Functions          []string
	MetadataFields     []string
	SourceCommands     []string
	ProcessingCommands []string
}

// Builtin returns a copy of the built-in vocabulary.
func Builtin() Set {
	return Set{
		Functions:          append([]string(nil), builtinFunctions...),
		MetadataFields:     append([]string(nil), builtinMetadataFields...),
		SourceCommands:     append([]string(nil), builtinSourceCommands...),
		ProcessingCommands: append([]string(nil), builtinProcessingCommands...),
	}
}

// Merge returns s extended with the entries of other it does not already
// hold. Order is preserved, entries of s first.
func (s Set) Merge(other Set) Set {
	return Set{
		Functions:          union(s.Functions, other.Functions),
		MetadataFields:     union(s.MetadataFields, other.MetadataFields),
		SourceCommands:     union(s.SourceCommands, other.SourceCommands),
		ProcessingCommands: union(s.ProcessingCommands, other.ProcessingCommands),
	}
}

// Keywords returns the words highlighted in a query: commands, then
// functions.
func (s Set) Keywords() []string {
	out := make([]string, 0, len(s.SourceCommands)+len(s.ProcessingCommands)+len(s.Functions))
	out = append(out, s.SourceCommands...)
	out = append(out, s.ProcessingCommands...)
	return append(out, s.Functions...)
}

func union(a, b []string) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, list := range [][]string{a, b} {
		for _, w := range list {
			if _, ok := seen[w]; ok {
				continue
			}
			seen[w] = struct{}{}
			out = append(out, w)
		}
	}
	return out
}

var builtinMetadataFields = []string{"_id", "_ignored", "_index", "_index_mode", "_score", "_source", "_version"}

var builtinSourceCommands = []string{"FROM", "ROW", "SHOW"}

var builtinProcessingCommands = []string{
	"DISSECT", "DROP", "ENRICH", "EVAL", "GROK", "LOOKUP JOIN", "KEEP",
	"LIMIT", "MV_EXPAND", "RENAME", "SORT", "STATS", "WHERE",
}

var builtinFunctions = []string{
	"ABS", "ACOS", "ASIN", "ATAN", "ATAN2", "BIT_LENGTH", "BUCKET", "BYTE_LENGTH",
	"CASE", "CATEGORIZE", "CBRT", "CEIL", "CIDR_MATCH", "COALESCE", "CONCAT",
	"COS", "COSH", "DATE_DIFF", "DATE_EXTRACT", "DATE_FORMAT", "DATE_PARSE",
	"DATE_TRUNC", "E", "ENDS_WITH", "EXP", "FLOOR", "FROM_BASE64", "GREATEST",
	"HASH", "HYPOT", "IP_PREFIX", "LEAST", "LEFT", "LENGTH", "LOCATE", "LOG",
	"LOG10", "LTRIM", "MATCH", "MV_APPEND", "MV_AVG", "MV_CONCAT", "MV_COUNT",
	"MV_DEDUPE", "MV_FIRST", "MV_LAST", "MV_MAX", "MV_MEDIAN",
	"MV_MEDIAN_ABSOLUTE_DEVIATION", "MV_MIN", "MV_PERCENTILE",
	"MV_PSERIES_WEIGHTED_SUM", "MV_SLICE", "MV_SORT", "MV_SUM", "MV_ZIP", "NOW",
	"PI", "POW", "QSTR", "REPEAT", "REPLACE", "REVERSE", "RIGHT", "ROUND",
	"RTRIM", "SIGNUM", "SIN", "SINH", "SPACE", "SPLIT", "SQRT", "ST_CONTAINS",
	"ST_DISJOINT", "ST_DISTANCE", "ST_ENVELOPE", "ST_INTERSECTS", "ST_WITHIN",
	"ST_X", "ST_XMAX", "ST_XMIN", "ST_Y", "ST_YMAX", "ST_YMIN", "STARTS_WITH",
	"SUBSTRING", "TAN", "TANH", "TAU", "TO_BASE64", "TO_BOOLEAN",
	"TO_CARTESIANPOINT", "TO_CARTESIANSHAPE", "TO_DATE_NANOS", "TO_DATEPERIOD",
	"TO_DATETIME", "TO_DEGREES", "TO_DOUBLE", "TO_GEOPOINT", "TO_GEOSHAPE",
	"TO_INTEGER", "TO_IP", "TO_LONG", "TO_LOWER", "TO_RADIANS", "TO_STRING",
	"TO_TIMEDURATION", "TO_UNSIGNED_LONG", "TO_UPPER", "TO_VERSION", "TRIM",
}
