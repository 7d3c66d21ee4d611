package esql

import "sort"

// positions is a sorted set of token indexes.
type positions []int

func (p positions) add(i int) positions {
	k := sort.SearchInts(p, i)
	if k < len(p) && p[k] == i {
		return p
	}
	p = append(p, 0)
	copy(p[k+1:], p[k:])
	p[k] = i
	return p
}

func (p positions) union(q positions) positions {
	for _, i := range q {
		p = p.add(i)
	}
	return p
}

func (p positions) contains(i int) bool {
	k := sort.SearchInts(p, i)
	return k < len(p) && p[k] == i
}

type memoKey struct {
	rule int
	pos  int
}

// recognition runs one all-paths match of a grammar rule over a token
// sequence. It is single use and never shared between calls.
type recognition struct {
	g      *Grammar
	types  []TokenType
	memo   map[memoKey]positions
	active map[memoKey]bool

	// furthest is the greatest index at which a terminal was tried.
	furthest int
	// attempts holds the terminals tried at each index.
	attempts map[int]TokenSet
}

func newRecognition(g *Grammar, tokens []Token) *recognition {
	types := make([]TokenType, len(tokens))
	for i, t := range tokens {
		types[i] = t.Type
	}
	return &recognition{
		g:        g,
		types:    types,
		memo:     make(map[memoKey]positions),
		active:   make(map[memoKey]bool),
		furthest: -1,
		attempts: make(map[int]TokenSet),
	}
}

// run matches rule from start and reports the end positions reached.
func (r *recognition) run(rule string, start int) positions {
	return r.match(r.g.rule(rule), start)
}

func (r *recognition) attempt(pos int, t TokenType) {
	set, ok := r.attempts[pos]
	if !ok {
		set = make(TokenSet)
		r.attempts[pos] = set
	}
	set.Add(t)
	if pos > r.furthest {
		r.furthest = pos
	}
}

// expectedAt returns the terminals tried at pos.
func (r *recognition) expectedAt(pos int) TokenSet {
	out := make(TokenSet)
	for t := range r.attempts[pos] {
		out.Add(t)
	}
	return out
}

func (r *recognition) match(n *node, pos int) positions {
	switch n.kind {
	case nodeToken:
		r.attempt(pos, n.token)
		if pos < len(r.types) && r.types[pos] == n.token {
			return positions{pos + 1}
		}
		return nil

	case nodeRef:
		key := memoKey{rule: n.rule, pos: pos}
		if res, ok := r.memo[key]; ok {
			return res
		}
		if r.active[key] {
			return nil
		}
		r.active[key] = true
		res := r.match(r.g.rules[n.rule], pos)
		delete(r.active, key)
		r.memo[key] = res
		return res

	case nodeSeq:
		current := positions{pos}
		for _, k := range n.kids {
			var next positions
			for _, p := range current {
				next = next.union(r.match(k, p))
			}
			if len(next) == 0 {
				return nil
			}
			current = next
		}
		return current

	case nodeAlt:
		var out positions
		for _, k := range n.kids {
			out = out.union(r.match(k, pos))
		}
		return out

	case nodeOpt:
		return positions{pos}.union(r.match(n.kids[0], pos))

	case nodeMany:
		out := positions{pos}
		frontier := positions{pos}
		for len(frontier) > 0 {
			var next positions
			for _, p := range frontier {
				for _, q := range r.match(n.kids[0], p) {
					if !out.contains(q) {
						out = out.add(q)
						next = next.add(q)
					}
				}
			}
			frontier = next
		}
		return out
	}
	return nil
}
