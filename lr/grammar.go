package lr

import (
	"fmt"
	"strings"

	"github.com/pylite/pylite"
	"github.com/pylite/pylite/lr/iteratable"
)

// SemanticAction is a reduction callback. It receives exactly one
// semantic value per right-hand-side symbol, in RHS order, and returns
// the semantic value for the left-hand side. Terminal values arrive as
// pylite.LexToken.
type SemanticAction func(values []interface{}) interface{}

// Rule is a single production A -> s1 … sn. Rule identity for
// de-duplication is (LHS, RHS); the action is not compared.
type Rule struct {
	Serial int    // index of this rule in the grammar, 0 = start rule
	LHS    string // left-hand side symbol
	rhs    []string
	Action SemanticAction
}

// NewRule creates a production rule. The serial number is assigned by
// NewGrammar.
func NewRule(lhs string, rhs []string, action SemanticAction) *Rule {
	return &Rule{
		LHS:    lhs,
		rhs:    rhs,
		Action: action,
	}
}

// RHS returns the right-hand side symbols. Callers must not mutate the
// returned slice.
func (r *Rule) RHS() []string {
	return r.rhs
}

func (r *Rule) String() string {
	if len(r.rhs) == 0 {
		return r.LHS + " ->"
	}
	return r.LHS + " -> " + strings.Join(r.rhs, " ")
}

// GrammarError signals an ill-formed grammar at construction time.
type GrammarError struct {
	Msg string
}

func (e *GrammarError) Error() string {
	return "grammar error: " + e.Msg
}

// Grammar is a validated list of production rules together with the
// token set classifying terminals. Grammars are immutable after
// construction; callers must not mutate the rule list afterwards.
type Grammar struct {
	Name       string
	rules      []*Rule
	tokens     pylite.TokenSet
	nonterms   map[string]bool
	symIDs     map[string]int // dense symbol numbering for the parse tables
	symNames   []string       // inverse of symIDs
	startItems map[string]*iteratable.Set
}

// NewGrammar validates and indexes a rule list. Duplicate rules (same
// LHS and RHS) are collapsed onto the first occurrence. The first rule
// is the start rule. An RHS symbol which is neither a terminal nor the
// LHS of some rule makes the grammar ill-formed.
func NewGrammar(name string, rules []*Rule, tokens pylite.TokenSet) (*Grammar, error) {
	if len(rules) == 0 {
		return nil, &GrammarError{Msg: "grammar has no rules"}
	}
	g := &Grammar{
		Name:       name,
		tokens:     tokens,
		nonterms:   make(map[string]bool),
		symIDs:     make(map[string]int),
		startItems: make(map[string]*iteratable.Set),
	}
	seen := make(map[string]bool)
	for _, r := range rules {
		key := r.String()
		if seen[key] {
			tracer().Infof("duplicate rule dropped: %s", key)
			continue
		}
		seen[key] = true
		r.Serial = len(g.rules)
		g.rules = append(g.rules, r)
		g.nonterms[r.LHS] = true
	}
	// terminals get the low symbol numbers, in token-set order
	for _, def := range tokens {
		g.intern(def.Symbol)
	}
	for _, reserved := range []string{
		pylite.EndTok, pylite.NewlineTok, pylite.IndentTok, pylite.DedentTok, pylite.EmptyTok,
	} {
		g.intern(reserved)
	}
	for _, r := range g.rules {
		g.intern(r.LHS)
	}
	for _, r := range g.rules {
		for _, sym := range r.rhs {
			if !g.IsTerminal(sym) && !g.nonterms[sym] {
				return nil, &GrammarError{
					Msg: fmt.Sprintf("symbol %q in rule %q is neither a terminal nor a non-terminal", sym, r),
				}
			}
		}
	}
	for _, r := range g.rules {
		S := g.startItems[r.LHS]
		if S == nil {
			S = newItemSet()
			g.startItems[r.LHS] = S
		}
		S.Add(StartItem(r))
	}
	return g, nil
}

func (g *Grammar) intern(sym string) int {
	if id, ok := g.symIDs[sym]; ok {
		return id
	}
	id := len(g.symNames)
	g.symIDs[sym] = id
	g.symNames = append(g.symNames, sym)
	return id
}

// symbolID returns the dense table index for a symbol.
func (g *Grammar) symbolID(sym string) (int, bool) {
	id, ok := g.symIDs[sym]
	return id, ok
}

func (g *Grammar) symbolCount() int {
	return len(g.symNames)
}

// IsTerminal reports whether sym is a terminal of this grammar.
func (g *Grammar) IsTerminal(sym string) bool {
	return g.tokens.IsTerminal(sym)
}

// Size returns the number of rules.
func (g *Grammar) Size() int {
	return len(g.rules)
}

// Rule returns rule no. n, or nil if out of range.
func (g *Grammar) Rule(n int) *Rule {
	if n < 0 || n >= len(g.rules) {
		return nil
	}
	return g.rules[n]
}

// Start returns the start rule.
func (g *Grammar) Start() *Rule {
	return g.rules[0]
}

// EachSymbol calls f for every symbol of the grammar, terminals first,
// in a stable order.
func (g *Grammar) EachSymbol(f func(sym string)) {
	for _, sym := range g.symNames {
		f(sym)
	}
}

// startItemsFor returns the set of fresh items [A -> . γ] for every
// rule of non-terminal A. The returned set is shared and must not be
// mutated.
func (g *Grammar) startItemsFor(A string) *iteratable.Set {
	if S := g.startItems[A]; S != nil {
		return S
	}
	return newItemSet()
}

// Dump is a debugging helper, tracing all rules of the grammar.
func (g *Grammar) Dump() {
	tracer().Debugf("Grammar %q:", g.Name)
	for _, r := range g.rules {
		tracer().Debugf("%4d: %s", r.Serial, r)
	}
}
