package esql

// minRecoveries is the repair budget of short statements. Longer statements
// get two repairs per token, so every broken command is reported.
const minRecoveries = 64

func recoveryBudget(tokens int) int {
	return max(minRecoveries, 2*tokens)
}

// parser reports syntax errors the way an ANTLR default error strategy does:
// single-token deletion, single-token insertion, and otherwise a mismatch
// followed by resynchronisation at the next pipe.
type parser struct {
	g        *Grammar
	vocab    *Vocabulary
	listener ErrorListener
}

func (p *parser) parse(tokens []Token) {
	rule := ruleSingleStatement
	start := 0
	tokens = append([]Token(nil), tokens...)

	budget := recoveryBudget(len(tokens))
	for i := 0; i < budget; i++ {
		rec := newRecognition(p.g, tokens)
		if rec.run(rule, start).contains(len(tokens)) {
			return
		}

		at := rec.furthest
		if at < start {
			at = start
		}
		if at >= len(tokens) {
			at = len(tokens) - 1
		}
		expected := rec.expectedAt(at)
		offending := tokens[at]

		if !offending.IsEOF() && at+1 < len(tokens) && expected.Contains(tokens[at+1].Type) {
			p.report(&offending, "extraneous input "+tokenDisplay(&offending)+" expecting "+expected.Format(p.vocab))
			tokens = append(tokens[:at:at], tokens[at+1:]...)
			continue
		}

		if missing, ok := p.insertion(rule, start, tokens, at, expected); ok {
			p.report(&offending, "missing "+p.vocab.ElementName(missing)+" at "+tokenDisplay(&offending))
			synthetic := Token{Type: missing, Text: p.vocab.DisplayName(missing), Offset: offending.Offset, Line: offending.Line, Column: offending.Column}
			tokens = append(tokens[:at:at], append([]Token{synthetic}, tokens[at:]...)...)
			continue
		}

		p.report(&offending, "mismatched input "+tokenDisplay(&offending)+" expecting "+expected.Format(p.vocab))

		resume := -1
		if offending.Type == Pipe && at > start {
			resume = at
		} else {
			for j := at + 1; j < len(tokens); j++ {
				if tokens[j].Type == Pipe {
					resume = j
					break
				}
			}
		}
		if resume < 0 {
			return
		}
		rule, start = rulePipelineTail, resume
	}
}

// insertion reports the single token whose insertion before at lets the
// match get past at.
func (p *parser) insertion(rule string, start int, tokens []Token, at int, expected TokenSet) (TokenType, bool) {
	var candidate TokenType
	n := 0
	for t := range expected {
		if t != EOF {
			candidate = t
			n++
		}
	}
	if n != 1 {
		return 0, false
	}

	patched := append(append(append([]Token(nil), tokens[:at]...), Token{Type: candidate}), tokens[at:]...)
	rec := newRecognition(p.g, patched)
	if rec.run(rule, start).contains(len(patched)) || rec.furthest > at+1 {
		return candidate, true
	}
	return 0, false
}

func (p *parser) report(offending *Token, msg string) {
	p.listener.SyntaxError(offending, offending.Line, offending.Column, msg)
}

// expectedTokens returns the terminals tried at the final EOF index, i.e. the
// tokens that may legally follow every token before it. The result is empty
// when the tokens are not a viable prefix of a statement.
func expectedTokens(g *Grammar, tokens []Token) TokenSet {
	if len(tokens) == 0 || !tokens[len(tokens)-1].IsEOF() {
		tokens = append(append([]Token(nil), tokens...), Token{Type: EOF})
	}
	rec := newRecognition(g, tokens)
	rec.run(ruleSingleStatement, 0)
	return rec.expectedAt(len(tokens) - 1)
}
