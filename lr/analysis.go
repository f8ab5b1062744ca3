package lr

import (
	"sort"

	"github.com/pylite/pylite"
)

// symset is a small helper type for sets of symbol names.
type symset map[string]struct{}

var exists = struct{}{}

func (set symset) add(sym string) bool {
	if _, ok := set[sym]; ok {
		return false
	}
	set[sym] = exists
	return true
}

func (set symset) has(sym string) bool {
	_, ok := set[sym]
	return ok
}

func (set symset) values() []string {
	syms := make([]string, 0, len(set))
	for sym := range set {
		syms = append(syms, sym)
	}
	sort.Strings(syms)
	return syms
}

// LRAnalysis is the static analysis of a grammar: FIRST and FOLLOW
// sets for every non-terminal, computed once at construction.
//
// FIRST(A) is the set of terminals which may begin a derivation of A;
// an epsilon-derivable A also carries the EMPTY marker. FOLLOW(A) is
// the set of terminals which may appear immediately after a derivation
// of A, seeded with END for the start symbol. Both are computed as a
// fixed point over the rule list; memoised results are served from the
// analysis maps afterwards.
type LRAnalysis struct {
	g       *Grammar
	firsts  map[string]symset
	follows map[string]symset
}

// Analysis analyses a grammar.
func Analysis(g *Grammar) *LRAnalysis {
	ga := &LRAnalysis{
		g:       g,
		firsts:  make(map[string]symset),
		follows: make(map[string]symset),
	}
	ga.initFirsts()
	ga.initFollows()
	return ga
}

// Grammar returns the analysed grammar.
func (ga *LRAnalysis) Grammar() *Grammar {
	return ga.g
}

// First returns FIRST(sym) as a sorted slice. For a terminal this is
// the terminal itself.
func (ga *LRAnalysis) First(sym string) []string {
	if ga.g.IsTerminal(sym) {
		return []string{sym}
	}
	return ga.firsts[sym].values()
}

// Follow returns FOLLOW(sym) as a sorted slice.
func (ga *LRAnalysis) Follow(sym string) []string {
	return ga.follows[sym].values()
}

func (ga *LRAnalysis) firstOf(sym string) symset {
	if ga.g.IsTerminal(sym) {
		return symset{sym: exists}
	}
	return ga.firsts[sym]
}

// initFirsts iterates the standard FIRST construction until no set
// changes: for each rule A -> s1 … sn, FIRST(A) grows by the first
// sets of the nullable prefix of the RHS; an entirely nullable RHS
// (including the empty one) contributes EMPTY.
func (ga *LRAnalysis) initFirsts() {
	for nt := range ga.g.nonterms {
		ga.firsts[nt] = make(symset)
	}
	for changed := true; changed; {
		changed = false
		for _, r := range ga.g.rules {
			F := ga.firsts[r.LHS]
			nullable := true
			for _, sym := range r.rhs {
				Fs := ga.firstOf(sym)
				for t := range Fs {
					if t != pylite.EmptyTok && F.add(t) {
						changed = true
					}
				}
				if !Fs.has(pylite.EmptyTok) {
					nullable = false
					break
				}
			}
			if nullable && F.add(pylite.EmptyTok) {
				changed = true
			}
		}
	}
	for nt, F := range ga.firsts {
		tracer().Debugf("FIRST(%s) = %v", nt, F.values())
	}
}

// initFollows seeds FOLLOW(start) with END and iterates to a fixed
// point: every occurrence of a non-terminal A at position i of some
// RHS contributes FIRST of the tail behind it; if the tail is empty or
// fully nullable, FOLLOW(lhs) flows into FOLLOW(A).
func (ga *LRAnalysis) initFollows() {
	for nt := range ga.g.nonterms {
		ga.follows[nt] = make(symset)
	}
	ga.follows[ga.g.Start().LHS].add(pylite.EndTok)
	for changed := true; changed; {
		changed = false
		for _, r := range ga.g.rules {
			for i, sym := range r.rhs {
				if ga.g.IsTerminal(sym) {
					continue
				}
				F := ga.follows[sym]
				nullableTail := true
				for _, tail := range r.rhs[i+1:] {
					Ft := ga.firstOf(tail)
					for t := range Ft {
						if t != pylite.EmptyTok && F.add(t) {
							changed = true
						}
					}
					if !Ft.has(pylite.EmptyTok) {
						nullableTail = false
						break
					}
				}
				if nullableTail {
					for t := range ga.follows[r.LHS] {
						if F.add(t) {
							changed = true
						}
					}
				}
			}
		}
	}
	for nt, F := range ga.follows {
		tracer().Debugf("FOLLOW(%s) = %v", nt, F.values())
	}
}
