package esql

import "fmt"

type nodeKind uint8

const (
	nodeToken nodeKind = iota
	nodeRef
	nodeSeq
	nodeAlt
	nodeOpt
	nodeMany
)

// node is one element of a rule body.
type node struct {
	kind  nodeKind
	token TokenType
	name  string // rule name for nodeRef
	rule  int    // resolved index for nodeRef
	kids  []*node
}

func tok(t TokenType) *node { return &node{kind: nodeToken, token: t} }

func ref(name string) *node { return &node{kind: nodeRef, name: name} }

func seq(kids ...*node) *node {
	if len(kids) == 1 {
		return kids[0]
	}
	return &node{kind: nodeSeq, kids: kids}
}

func alt(kids ...*node) *node { return &node{kind: nodeAlt, kids: kids} }

func opt(kids ...*node) *node { return &node{kind: nodeOpt, kids: []*node{seq(kids...)}} }

func many(kids ...*node) *node { return &node{kind: nodeMany, kids: []*node{seq(kids...)}} }

func some(kids ...*node) *node {
	body := seq(kids...)
	return seq(body, &node{kind: nodeMany, kids: []*node{body}})
}

func toks(ts ...TokenType) *node {
	kids := make([]*node, len(ts))
	for i, t := range ts {
		kids[i] = tok(t)
	}
	return alt(kids...)
}

// list matches elem (sep elem)*.
func list(elem *node, sep TokenType) *node {
	return seq(elem, many(tok(sep), elem))
}

// Grammar is an immutable set of resolved rules.
type Grammar struct {
	names []string
	index map[string]int
	rules []*node
}

func newGrammar(defs map[string]*node) *Grammar {
	g := &Grammar{index: make(map[string]int, len(defs))}
	for name, body := range defs {
		g.index[name] = len(g.rules)
		g.names = append(g.names, name)
		g.rules = append(g.rules, body)
	}
	for _, body := range g.rules {
		g.resolve(body)
	}
	return g
}

func (g *Grammar) resolve(n *node) {
	if n.kind == nodeRef {
		i, ok := g.index[n.name]
		if !ok {
			panic(fmt.Sprintf("grammar references undefined rule %q", n.name))
		}
		n.rule = i
	}
	for _, k := range n.kids {
		g.resolve(k)
	}
}

func (g *Grammar) rule(name string) *node {
	i, ok := g.index[name]
	if !ok {
		panic(fmt.Sprintf("undefined rule %q", name))
	}
	return g.rules[i]
}

const (
	ruleSingleStatement = "singleStatement"
	rulePipelineTail    = "pipelineTail"
)

func queryGrammar(devVersion bool) *Grammar {
	processing := []*node{
		ref("evalCommand"),
		ref("whereCommand"),
		ref("keepCommand"),
		ref("limitCommand"),
		ref("statsCommand"),
		ref("sortCommand"),
		ref("dropCommand"),
		ref("renameCommand"),
		ref("dissectCommand"),
		ref("grokCommand"),
		ref("enrichCommand"),
		ref("mvExpandCommand"),
		ref("joinCommand"),
		ref("changePointCommand"),
		ref("completionCommand"),
		ref("sampleCommand"),
		ref("forkCommand"),
	}
	if devVersion {
		processing = append(processing, ref("inlinestatsCommand"), ref("insistCommand"))
	}

	defs := map[string]*node{
		ruleSingleStatement: seq(ref("query"), tok(EOF)),
		rulePipelineTail:    seq(many(tok(Pipe), ref("processingCommand")), tok(EOF)),

		"query":             seq(ref("sourceCommand"), many(tok(Pipe), ref("processingCommand"))),
		"sourceCommand":     alt(ref("fromCommand"), ref("rowCommand"), ref("showCommand")),
		"processingCommand": alt(processing...),

		// source commands
		"fromCommand":  seq(tok(From), list(ref("indexPattern"), Comma), opt(ref("metadata"))),
		"indexPattern": seq(opt(tok(UnquotedSource), tok(Colon)), toks(UnquotedSource, QuotedString)),
		"metadata": alt(
			seq(tok(Metadata), list(tok(UnquotedSource), Comma)),
			seq(tok(OpeningBracket), tok(Metadata), list(tok(UnquotedSource), Comma), tok(ClosingBracket)),
		),
		"rowCommand":  seq(tok(Row), ref("fields")),
		"showCommand": seq(tok(Show), tok(Info)),

		// processing commands
		"evalCommand":  seq(tok(Eval), ref("fields")),
		"whereCommand": seq(tok(Where), ref("booleanExpression")),
		"keepCommand":  seq(tok(Keep), ref("qualifiedNamePatterns")),
		"dropCommand":  seq(tok(Drop), ref("qualifiedNamePatterns")),
		"renameCommand": seq(tok(Rename), list(ref("renameClause"), Comma)),
		"renameClause": alt(
			seq(ref("qualifiedNamePattern"), tok(As), ref("qualifiedNamePattern")),
			seq(ref("qualifiedNamePattern"), tok(Assign), ref("qualifiedNamePattern")),
		),
		"limitCommand": seq(tok(Limit), ref("constant")),
		"statsCommand": seq(tok(Stats), opt(ref("aggFields")), opt(tok(By), ref("fields"))),
		"sortCommand":  seq(tok(Sort), list(ref("orderExpression"), Comma)),
		"orderExpression": seq(
			ref("booleanExpression"),
			opt(toks(Asc, Desc)),
			opt(tok(Nulls), toks(First, Last)),
		),
		"dissectCommand": seq(tok(Dissect), ref("primaryExpression"), ref("string"), opt(ref("commandOptions"))),
		"commandOptions": list(seq(ref("identifier"), tok(Assign), ref("constant")), Comma),
		"grokCommand":    seq(tok(Grok), ref("primaryExpression"), ref("string")),
		"enrichCommand": seq(
			tok(Enrich),
			tok(EnrichPolicyName),
			opt(tok(On), ref("qualifiedName")),
			opt(tok(With), list(ref("enrichWithClause"), Comma)),
		),
		"enrichWithClause": seq(opt(ref("qualifiedName"), tok(Assign)), ref("qualifiedName")),
		"mvExpandCommand":  seq(tok(MvExpand), ref("qualifiedName")),
		"joinCommand": seq(
			tok(Lookup), tok(Join),
			opt(ref("identifier"), tok(Colon)), ref("identifier"),
			tok(On), list(ref("qualifiedName"), Comma),
		),
		"changePointCommand": seq(
			tok(ChangePoint), ref("qualifiedName"),
			opt(tok(On), ref("qualifiedName")),
			opt(tok(As), ref("qualifiedName"), tok(Comma), ref("qualifiedName")),
		),
		"completionCommand": seq(
			tok(Completion),
			opt(ref("qualifiedName"), tok(Assign)),
			ref("primaryExpression"),
			tok(With), ref("identifierOrParameter"),
		),
		"sampleCommand": seq(tok(Sample), ref("constant")),
		"forkCommand": seq(tok(Fork), some(
			tok(LP), list(ref("processingCommand"), Pipe), tok(RP),
		)),
		"inlinestatsCommand": seq(tok(DevInlinestats), ref("aggFields"), opt(tok(By), ref("fields"))),
		"insistCommand":      seq(tok(DevInsist), ref("qualifiedNamePatterns")),

		// fields
		"fields":    list(ref("field"), Comma),
		"field":     seq(opt(ref("qualifiedName"), tok(Assign)), ref("booleanExpression")),
		"aggFields": list(ref("aggField"), Comma),
		"aggField":  seq(ref("field"), opt(tok(Where), ref("booleanExpression"))),

		// expressions
		"booleanExpression": list(ref("andExpression"), Or),
		"andExpression":     list(ref("booleanTerm"), And),
		"booleanTerm": alt(
			seq(tok(Not), ref("booleanTerm")),
			ref("predicate"),
		),
		"predicate": seq(ref("valueExpression"), opt(ref("predicateTail"))),
		"predicateTail": alt(
			seq(opt(tok(Not)), tok(In), tok(LP), list(ref("valueExpression"), Comma), tok(RP)),
			seq(opt(tok(Not)), tok(Like), alt(ref("string"), seq(tok(LP), list(ref("string"), Comma), tok(RP)))),
			seq(opt(tok(Not)), tok(Rlike), ref("string")),
			seq(tok(Is), opt(tok(Not)), tok(Null)),
			seq(tok(Colon), ref("constant")),
		),
		"valueExpression":    seq(ref("operatorExpression"), opt(ref("comparisonOperator"), ref("operatorExpression"))),
		"comparisonOperator": toks(Eq, CIEq, NEq, LT, LTE, GT, GTE),
		"operatorExpression": seq(ref("unaryExpression"), many(toks(Plus, Minus, Asterisk, Slash, Percent), ref("unaryExpression"))),
		"unaryExpression": alt(
			seq(toks(Plus, Minus), ref("unaryExpression")),
			ref("primaryExpression"),
		),
		"primaryExpression": seq(ref("primaryAtom"), opt(tok(CastOp), ref("identifier"))),
		"primaryAtom": alt(
			ref("constant"),
			ref("functionExpression"),
			ref("qualifiedName"),
			seq(tok(LP), ref("booleanExpression"), tok(RP)),
		),
		"functionExpression": seq(
			ref("identifierOrParameter"), tok(LP),
			opt(alt(tok(Asterisk), list(ref("booleanExpression"), Comma))),
			tok(RP),
		),

		// names
		"qualifiedName":         list(ref("identifierOrParameter"), Dot),
		"qualifiedNamePatterns": list(ref("qualifiedNamePattern"), Comma),
		"qualifiedNamePattern":  list(ref("identifierPattern"), Dot),
		"identifierPattern":     alt(tok(IDPattern), ref("parameter"), ref("doubleParameter")),
		"identifier":            toks(UnquotedIdentifier, QuotedIdentifier),
		"identifierOrParameter": alt(ref("identifier"), ref("parameter"), ref("doubleParameter")),
		"parameter":             toks(Param, NamedOrPositionalParam),
		"doubleParameter":       toks(DoubleParams, NamedOrPositionalDoubleParams),

		// constants
		"constant": alt(
			tok(Null),
			seq(tok(IntegerLiteral), tok(UnquotedIdentifier)),
			ref("numericValue"),
			ref("booleanValue"),
			ref("parameter"),
			ref("string"),
			seq(tok(OpeningBracket), list(ref("listValue"), Comma), tok(ClosingBracket)),
		),
		"listValue":    alt(ref("numericValue"), ref("booleanValue"), ref("string")),
		"numericValue": seq(opt(toks(Plus, Minus)), toks(IntegerLiteral, DecimalLiteral)),
		"booleanValue": toks(True, False),
		"string":       tok(QuotedString),
	}
	return newGrammar(defs)
}
