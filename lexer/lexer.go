/*
Package lexer implements an indentation-aware tokenizer on top of
lexmachine.

Token definitions are regular expressions, compiled once into a single
DFA. Scanning is maximal munch: the longest match wins, with ties
broken in favor of the earlier definition. Space and tab runs are
skipped (they still advance the column, which is what the indentation
measurement relies on).

Indentation follows the usual stack protocol of off-side-rule
languages: after every NEWLINE token the column of the next
non-whitespace character is compared against the top of a stack of
open indentation levels. A deeper column pushes a level and emits one
synthetic INDENT; a shallower column pops levels, emitting one DEDENT
per pop, and must land exactly on a previously open level. At end of
input all open levels are closed with DEDENTs before the END sentinel,
which is then returned forever.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2023–2025 The pylite authors
*/
package lexer

import (
	"fmt"
	"sort"

	"github.com/npillmayer/schuko/tracing"
	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"

	"github.com/pylite/pylite"
)

// tracer traces with key 'pylite.lexer'.
func tracer() tracing.Trace {
	return tracing.Select("pylite.lexer")
}

// LexicalError is returned when no token pattern matches at the
// current position.
type LexicalError struct {
	Lineno int
	Colno  int
	Char   rune
}

func (e *LexicalError) Error() string {
	return fmt.Sprintf("unexpected character %q at line %d, column %d", e.Char, e.Lineno, e.Colno)
}

// IndentationError is returned when a dedent does not align with any
// open indentation level.
type IndentationError struct {
	Lineno int
}

func (e *IndentationError) Error() string {
	return fmt.Sprintf("misaligned indentation at line %d", e.Lineno)
}

// Lexer tokenizes one source string at a time. Create one with New,
// feed it with Input, and pull tokens with Token or Peek. A Lexer is
// not safe for concurrent use.
type Lexer struct {
	tokens  pylite.TokenSet
	symbols []string // token id -> symbol name
	lm      *lexmachine.Lexer

	src       []byte
	lineIndex []int // byte offset of each line start
	scan      *lexmachine.Scanner
	levels    []int // indentation stack, always starts with 1
	pending   []pylite.LexToken
	nexttok   pylite.LexToken // scanned one ahead, for indentation measurement
	haveNext  bool
	primed    bool
	flushed   bool // trailing DEDENTs emitted
	endtok    pylite.LexToken
	fatal     error
	indentErr error
	peeked    *pylite.LexToken
}

var _ pylite.Scanner = (*Lexer)(nil)

// New compiles the token definitions into a scanner DFA. Definitions
// with an empty pattern (INDENT, DEDENT) declare synthesised terminals
// and are not compiled.
func New(tokens pylite.TokenSet) (*Lexer, error) {
	l := &Lexer{
		tokens:  tokens,
		symbols: make([]string, len(tokens)),
		lm:      lexmachine.NewLexer(),
		endtok:  pylite.LexToken{Symbol: pylite.EndTok, Pos: 1, Lineno: 1, Colno: 1},
		flushed: true,
	}
	for id, def := range tokens {
		l.symbols[id] = def.Symbol
		if def.Pattern == "" {
			continue
		}
		l.lm.Add([]byte(def.Pattern), makeToken(id))
	}
	l.lm.Add([]byte(`( |\t)+`), skip)
	if err := l.lm.Compile(); err != nil {
		tracer().Errorf("error compiling DFA: %v", err)
		return nil, err
	}
	return l, nil
}

// makeToken is the scanner action wrapping a match into a token.
func makeToken(id int) lexmachine.Action {
	return func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
		return s.Token(id, string(m.Bytes), m), nil
	}
}

// skip is the scanner action which ignores the scanned match.
func skip(*lexmachine.Scanner, *machines.Match) (interface{}, error) {
	return nil, nil
}

// Input resets the lexer to the start of a new source string.
func (l *Lexer) Input(source string) error {
	l.src = []byte(source)
	l.lineIndex = []int{0}
	for pos, b := range l.src {
		if b == '\n' {
			l.lineIndex = append(l.lineIndex, pos+1)
		}
	}
	scan, err := l.lm.Scanner(l.src)
	if err != nil {
		return err
	}
	l.scan = scan
	l.levels = []int{1}
	l.pending = nil
	l.haveNext = false
	l.primed = false
	l.flushed = false
	l.fatal = nil
	l.indentErr = nil
	l.peeked = nil
	eline, ecol := l.coords(len(l.src))
	l.endtok = pylite.LexToken{
		Symbol: pylite.EndTok,
		Pos:    len(l.src) + 1,
		Lineno: eline,
		Colno:  ecol,
	}
	return nil
}

// coords translates a 0-based byte offset into 1-based line and
// column numbers.
func (l *Lexer) coords(tc int) (int, int) {
	if len(l.lineIndex) == 0 {
		return 1, 1
	}
	line := sort.Search(len(l.lineIndex), func(i int) bool {
		return l.lineIndex[i] > tc
	})
	return line, tc - l.lineIndex[line-1] + 1
}

// Token returns the next token, advancing the lexer. After the input
// is exhausted (and all open indentation levels are closed), it
// returns the END sentinel forever.
func (l *Lexer) Token() (pylite.LexToken, error) {
	if l.peeked != nil {
		t := *l.peeked
		l.peeked = nil
		return t, nil
	}
	return l.advance()
}

// Peek returns the next token without consuming it.
func (l *Lexer) Peek() (pylite.LexToken, error) {
	if l.peeked == nil {
		t, err := l.advance()
		if err != nil {
			return t, err
		}
		l.peeked = &t
	}
	return *l.peeked, nil
}

func (l *Lexer) advance() (pylite.LexToken, error) {
	if !l.primed {
		l.primed = true
		if l.scan != nil {
			tok, eof, err := l.scanRaw()
			if err != nil {
				l.fatal = err
			} else if !eof {
				l.nexttok = tok
				l.haveNext = true
			}
		}
	}
	if len(l.pending) > 0 {
		t := l.pending[0]
		l.pending = l.pending[1:]
		tracer().Debugf("emit %v", t)
		return t, nil
	}
	if l.indentErr != nil {
		l.fatal = l.indentErr
	}
	if l.fatal != nil {
		return pylite.LexToken{}, l.fatal
	}
	if !l.haveNext { // input exhausted
		if !l.flushed {
			l.flushed = true
			for len(l.levels) > 1 {
				l.levels = l.levels[:len(l.levels)-1]
				l.pending = append(l.pending, l.synthetic(pylite.DedentTok, l.endtok.Lineno))
			}
			if len(l.pending) > 0 {
				return l.advance()
			}
		}
		return l.endtok, nil
	}
	cur := l.nexttok
	nxt, eof, err := l.scanRaw()
	if err != nil {
		// cur is still good; the error surfaces on the next call
		l.fatal = err
		l.haveNext = false
	} else if eof {
		l.haveNext = false
	} else {
		l.nexttok = nxt
	}
	if cur.Symbol == pylite.NewlineTok && err == nil && l.haveNext {
		l.measureIndent()
	}
	tracer().Debugf("emit %v", cur)
	return cur, nil
}

// measureIndent compares the column of the upcoming token against the
// indentation stack and queues synthetic INDENT/DEDENT tokens. Blank
// lines (the upcoming token is another NEWLINE) leave the stack alone.
func (l *Lexer) measureIndent() {
	if l.nexttok.Symbol == pylite.NewlineTok {
		return
	}
	col := l.nexttok.Colno
	top := l.levels[len(l.levels)-1]
	switch {
	case col > top:
		l.levels = append(l.levels, col)
		l.pending = append(l.pending, l.synthetic(pylite.IndentTok, l.nexttok.Lineno))
	case col < top:
		for len(l.levels) > 1 && l.levels[len(l.levels)-1] > col {
			l.levels = l.levels[:len(l.levels)-1]
			l.pending = append(l.pending, l.synthetic(pylite.DedentTok, l.nexttok.Lineno))
		}
		if l.levels[len(l.levels)-1] != col {
			l.indentErr = &IndentationError{Lineno: l.nexttok.Lineno}
		}
	}
}

// synthetic builds an INDENT/DEDENT token at column 1 of a line.
func (l *Lexer) synthetic(symbol string, lineno int) pylite.LexToken {
	pos := 1
	if lineno-1 < len(l.lineIndex) {
		pos = l.lineIndex[lineno-1] + 1
	}
	return pylite.LexToken{
		Symbol: symbol,
		Value:  "",
		Pos:    pos,
		Lineno: lineno,
		Colno:  1,
	}
}

// scanRaw pulls the next real token from the scanner DFA and applies
// the definition's rewrite callback, if any.
func (l *Lexer) scanRaw() (pylite.LexToken, bool, error) {
	t, err, eof := l.scan.Next()
	if err != nil {
		if ui, is := err.(*machines.UnconsumedInput); is {
			line, col := l.coords(ui.StartTC)
			ch := rune('?')
			if ui.StartTC >= 0 && ui.StartTC < len(l.src) {
				ch = rune(l.src[ui.StartTC])
			}
			return pylite.LexToken{}, false, &LexicalError{Lineno: line, Colno: col, Char: ch}
		}
		return pylite.LexToken{}, false, err
	}
	if eof {
		return pylite.LexToken{}, true, nil
	}
	token := t.(*lexmachine.Token)
	sym := l.symbols[token.Type]
	lt := pylite.LexToken{
		Symbol: sym,
		Value:  string(token.Lexeme),
		Pos:    token.TC + 1,
	}
	lt.Lineno, lt.Colno = l.coords(token.TC)
	if def, ok := l.tokens.Def(sym); ok && def.Rewrite != nil {
		lt = def.Rewrite(l, lt)
	}
	return lt, false, nil
}
