/*
Package slr provides an SLR(1) shift/reduce parser. The parser is
assembled at runtime from three plain data structures: an ordered
token set (fed to the indentation-aware lexer), an ordered list of
production rules with reduction callbacks, and a precedence table for
resolving shift/reduce collisions during table construction.

This parser is intended for small to moderate grammars, e.g. for
configuration input or small domain-specific languages. The main focus
is on-the-fly usage: no code-generation or compile step is involved,
so a grammar assembled from user input can be parsed a couple of lines
later.

Usage

Clients hand the three structures to the constructor and parse:

    p, err := slr.NewParser(tokens, rules, precedence)
    if err != nil { ... }            // ill-formed grammar
    if len(p.Conflicts()) > 0 { ... } // policy decision, non-fatal by default
    root, err := p.Parse("def f():\n    1\n")

The semantic value returned by Parse is whatever the reduction
callbacks build, typically the root of an abstract syntax tree.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2023–2025 The pylite authors
*/
package slr

import (
	"fmt"
	"io"
	"strings"

	"github.com/npillmayer/schuko/tracing"

	"github.com/pylite/pylite"
	"github.com/pylite/pylite/lexer"
	"github.com/pylite/pylite/lr"
)

// tracer traces with key 'pylite.slr'.
func tracer() tracing.Trace {
	return tracing.Select("pylite.slr")
}

// ParseError is returned when the action table holds no entry for the
// current state and lookahead. StateDump carries the full listing of
// the offending state.
type ParseError struct {
	State     int
	Lookahead string
	StateDump string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("unable to handle lookahead %q in state %d\n\n%s", e.Lookahead, e.State, e.StateDump)
}

// Parser is an SLR(1) parser. Create and initialize one with
// NewParser; construction builds the lexer DFA, the grammar analysis,
// the item-set automaton and the parse tables exactly once. A Parser
// may be reused for any number of (sequential) Parse calls.
type Parser struct {
	G     *lr.Grammar
	ga    *lr.LRAnalysis
	lrgen *lr.TableGenerator
	lex   *lexer.Lexer
	stack []stackitem // parser stack
}

// We store triples of (symbol, semantic value, state-ID) on the parse
// stack.
type stackitem struct {
	sym     string
	value   interface{}
	stateID int
}

// NewParser creates an SLR(1) parser from token definitions, a rule
// list (the first rule is the start rule) and a precedence table.
func NewParser(tokens pylite.TokenSet, rules []*lr.Rule, prec lr.Precedence) (*Parser, error) {
	lex, err := lexer.New(tokens)
	if err != nil {
		return nil, err
	}
	var name string
	if len(rules) > 0 {
		name = rules[0].LHS
	}
	g, err := lr.NewGrammar(name, rules, tokens)
	if err != nil {
		return nil, err
	}
	ga := lr.Analysis(g)
	lrgen := lr.NewTableGenerator(ga, prec)
	lrgen.CreateTables()
	if lrgen.HasConflicts {
		tracer().Infof("grammar %q has %d unresolved conflicts", name, len(lrgen.Conflicts()))
	}
	return &Parser{
		G:     g,
		ga:    ga,
		lrgen: lrgen,
		lex:   lex,
		stack: make([]stackitem, 0, 512),
	}, nil
}

// Conflicts returns the table collisions precedence could not resolve.
// They are non-fatal; callers may escalate.
func (p *Parser) Conflicts() []lr.Conflict {
	return p.lrgen.Conflicts()
}

// DumpGrammar writes the rule list, all automaton states and the
// conflict list to w.
func (p *Parser) DumpGrammar(w io.Writer) {
	p.lrgen.DumpGrammar(w)
}

// Tables returns the table generator, e.g. for exporting the CFSM.
func (p *Parser) Tables() *lr.TableGenerator {
	return p.lrgen
}

// Parse consumes the source string to completion and returns the
// semantic value of the start rule. Lexical, indentation and parse
// errors abort immediately. The source is scanned in full before the
// parse starts, so a lexical or indentation error anywhere in the input
// is reported ahead of a parse error.
func (p *Parser) Parse(source string) (interface{}, error) {
	tracer().Debugf("~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~")
	if err := p.lex.Input(source); err != nil {
		return nil, err
	}
	for {
		tok, err := p.lex.Token()
		if err != nil {
			return nil, err
		}
		if tok.Symbol == pylite.EndTok {
			break
		}
	}
	if err := p.lex.Input(source); err != nil { // restart for the parse
		return nil, err
	}
	p.stack = p.stack[:0]
	state := p.lrgen.StartState()
	for {
		lookahead, err := p.lex.Peek()
		if err != nil {
			return nil, err
		}
		instr, ok := p.lrgen.Instruction(state, lookahead.Symbol)
		if !ok {
			return nil, p.parseError(state, lookahead.Symbol)
		}
		tracer().Debugf("action(%d,%s) = %v", state, lookahead.Symbol, instr)
		switch instr.Op {
		case lr.Shift:
			token, err := p.lex.Token() // consume the lookahead
			if err != nil {
				return nil, err
			}
			p.stack = append(p.stack, stackitem{sym: token.Symbol, value: token, stateID: instr.Value})
			state = instr.Value
			tracer().Debugf("shifted %s, go to state %d", token.Symbol, state)
		case lr.Reduce:
			rule := p.G.Rule(instr.Value)
			value := p.reduce(rule)
			tos := p.lrgen.StartState()
			if len(p.stack) > 0 {
				tos = p.stack[len(p.stack)-1].stateID
			}
			jump, ok := p.lrgen.Instruction(tos, rule.LHS)
			if !ok || jump.Op != lr.Goto {
				return nil, fmt.Errorf("no goto for %q in state %d: corrupt parse table", rule.LHS, tos)
			}
			p.stack = append(p.stack, stackitem{sym: rule.LHS, value: value, stateID: jump.Value})
			state = jump.Value
			tracer().Debugf("reduced rule %d, go to state %d", rule.Serial, state)
		case lr.Accept:
			if _, err := p.lex.Token(); err != nil { // consume END
				return nil, err
			}
			value := p.reduce(p.G.Start())
			tracer().Debugf("accept")
			return value, nil
		case lr.Goto:
			// never a top-level dispatch
			return nil, fmt.Errorf("goto as dispatch for %q in state %d: corrupt parse table", lookahead.Symbol, state)
		}
	}
}

// reduce pops |RHS| frames off the stack and invokes the rule's
// reduction callback with the semantic values in RHS order. A rule
// without a callback passes its first value through.
func (p *Parser) reduce(rule *lr.Rule) interface{} {
	tracer().Infof("reduce %v", rule)
	n := len(rule.RHS())
	values := make([]interface{}, n)
	for k := n - 1; k >= 0; k-- {
		tos := p.stack[len(p.stack)-1]
		p.stack = p.stack[:len(p.stack)-1]
		if tos.sym != rule.RHS()[k] {
			tracer().Errorf("expected %s on top of stack, got %s", rule.RHS()[k], tos.sym)
		}
		values[k] = tos.value
	}
	if rule.Action == nil {
		if n > 0 {
			return values[0]
		}
		return nil
	}
	return rule.Action(values)
}

func (p *Parser) parseError(state int, lookahead string) error {
	var dump strings.Builder
	p.lrgen.DumpState(&dump, state)
	return &ParseError{
		State:     state,
		Lookahead: lookahead,
		StateDump: dump.String(),
	}
}
