/*
Package lr implements prerequisites for LR parsing: a grammar model
over plain string symbols, FIRST- and FOLLOW-set computation, the
LR(0) item-set automaton, and SLR(1) parse tables with
precedence-directed conflict resolution.

Building a Grammar

Grammars are plain data: an ordered list of production rules over
symbol names. A symbol is a terminal iff it is defined in the lexer's
token set; every other symbol must appear as the left-hand side of at
least one rule. The first rule is the start rule.

    rules := []*lr.Rule{
        lr.NewRule("expr", []string{"expr", "ADD", "expr"}, reduceAdd),
        lr.NewRule("expr", []string{"INT"}, reduceInt),
    }
    g, err := lr.NewGrammar("expressions", rules, tokens)

Static Grammar Analysis

After the grammar is complete, it is subjected to an LRAnalysis
object, which computes FIRST and FOLLOW sets for all non-terminals.
Although these sets are mainly input for the table construction,
accessors for FIRST(N) and FOLLOW(N) are public.

    ga := lr.Analysis(g)
    first := ga.First("expr")     // e.g. [INT NAME]

Parser Construction

Using grammar analysis as input, a bottom-up parser can be
constructed. First the characteristic finite state machine (CFSM) is
built from the grammar, i.e. the LR(0) state diagram. The CFSM is then
transformed into a GOTO table and an SLR(1) ACTION table, with
shift/reduce collisions resolved by an operator precedence table.
The CFSM is not thrown away, but available to clients for debugging;
it can be exported to Graphviz's Dot format.

    lrgen := lr.NewTableGenerator(ga, precedence)
    lrgen.CreateTables()
    if lrgen.HasConflicts { ... }   // collisions precedence could not resolve

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2023–2025 The pylite authors
*/
package lr

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'pylite.lr'.
func tracer() tracing.Trace {
	return tracing.Select("pylite.lr")
}
