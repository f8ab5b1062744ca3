package lexer

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"

	"github.com/pylite/pylite"
)

func testTokens() pylite.TokenSet {
	reserved := map[string]string{"def": "DEF"}
	return pylite.TokenSet{
		{Symbol: "INT", Pattern: `[0-9]+`},
		{Symbol: "NAME", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`, Rewrite: func(_ pylite.Scanner, tok pylite.LexToken) pylite.LexToken {
			if sym, ok := reserved[tok.Value]; ok {
				tok.Symbol = sym
			}
			return tok
		}},
		{Symbol: "ADD", Pattern: `\+`},
		{Symbol: "SUB", Pattern: `-`},
		{Symbol: pylite.NewlineTok, Pattern: `\n+`},
		{Symbol: pylite.IndentTok},
		{Symbol: pylite.DedentTok},
	}
}

func makeLexer(t *testing.T, input string) *Lexer {
	l, err := New(testTokens())
	if err != nil {
		t.Fatalf("cannot compile token set: %v", err)
	}
	if err := l.Input(input); err != nil {
		t.Fatalf("cannot set input: %v", err)
	}
	return l
}

func expectToken(t *testing.T, l *Lexer, symbol, value string, lineno, colno int) {
	t.Helper()
	tok, err := l.Token()
	if err != nil {
		t.Fatalf("unexpected lexer error: %v", err)
	}
	if tok.Symbol != symbol {
		t.Errorf("expected symbol %s, have %s (%v)", symbol, tok.Symbol, tok)
	}
	if tok.Value != value {
		t.Errorf("expected value %q, have %q (%v)", value, tok.Value, tok)
	}
	if tok.Lineno != lineno || tok.Colno != colno {
		t.Errorf("expected %s at %d:%d, have %d:%d", symbol, lineno, colno, tok.Lineno, tok.Colno)
	}
}

// A fresh lexer without input behaves like one at end of input: it
// hands out the END sentinel forever.
func TestLexerCreation(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "pylite.lexer")
	defer teardown()
	//
	l, err := New(testTokens())
	if err != nil {
		t.Fatalf("cannot compile token set: %v", err)
	}
	for i := 0; i < 2; i++ {
		tok, err := l.Token()
		if err != nil {
			t.Fatalf("unexpected lexer error: %v", err)
		}
		if tok.Symbol != pylite.EndTok || tok.Value != "" {
			t.Errorf("expected END sentinel, have %v", tok)
		}
		if tok.Lineno != 1 || tok.Colno != 1 {
			t.Errorf("expected END at 1:1, have %d:%d", tok.Lineno, tok.Colno)
		}
	}
}

func TestLexerInput(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "pylite.lexer")
	defer teardown()
	//
	l := makeLexer(t, "x + y\n4-3")
	expectToken(t, l, "NAME", "x", 1, 1)
	expectToken(t, l, "ADD", "+", 1, 3)
	expectToken(t, l, "NAME", "y", 1, 5)
	expectToken(t, l, pylite.NewlineTok, "\n", 1, 6)
	expectToken(t, l, "INT", "4", 2, 1)
	expectToken(t, l, "SUB", "-", 2, 2)
	expectToken(t, l, "INT", "3", 2, 3)
	expectToken(t, l, pylite.EndTok, "", 2, 4)
}

func TestLexerPositions(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "pylite.lexer")
	defer teardown()
	//
	l := makeLexer(t, "x + y\n4-3")
	positions := []int{1, 3, 5, 6, 7, 8, 9}
	for _, pos := range positions {
		tok, err := l.Token()
		if err != nil {
			t.Fatalf("unexpected lexer error: %v", err)
		}
		if tok.Pos != pos {
			t.Errorf("expected %v at byte offset %d, have %d", tok, pos, tok.Pos)
		}
	}
}

func TestPeek(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "pylite.lexer")
	defer teardown()
	//
	l := makeLexer(t, "_92")
	peeked, err := l.Peek()
	if err != nil {
		t.Fatalf("unexpected lexer error: %v", err)
	}
	if peeked.Symbol != "NAME" || peeked.Value != "_92" {
		t.Errorf("expected to peek NAME(_92), have %v", peeked)
	}
	tok, err := l.Token()
	if err != nil {
		t.Fatalf("unexpected lexer error: %v", err)
	}
	if tok != peeked {
		t.Errorf("expected Token to return the peeked token, have %v", tok)
	}
	expectToken(t, l, pylite.EndTok, "", 1, 4)
}

func TestReservedName(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "pylite.lexer")
	defer teardown()
	//
	l := makeLexer(t, "def deff")
	expectToken(t, l, "DEF", "def", 1, 1)
	expectToken(t, l, "NAME", "deff", 1, 5)
}

func TestIndentation(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "pylite.lexer")
	defer teardown()
	//
	l := makeLexer(t, "x\n\n    a\n      b\n\n    d\n\n    e\n6\n7")
	expectToken(t, l, "NAME", "x", 1, 1)
	expectToken(t, l, pylite.NewlineTok, "\n\n", 1, 2)
	expectToken(t, l, pylite.IndentTok, "", 3, 1)
	expectToken(t, l, "NAME", "a", 3, 5)
	expectToken(t, l, pylite.NewlineTok, "\n", 3, 6)
	expectToken(t, l, pylite.IndentTok, "", 4, 1)
	expectToken(t, l, "NAME", "b", 4, 7)
	expectToken(t, l, pylite.NewlineTok, "\n\n", 4, 8)
	expectToken(t, l, pylite.DedentTok, "", 6, 1)
	expectToken(t, l, "NAME", "d", 6, 5)
	expectToken(t, l, pylite.NewlineTok, "\n\n", 6, 6)
	expectToken(t, l, "NAME", "e", 8, 5)
	expectToken(t, l, pylite.NewlineTok, "\n", 8, 6)
	expectToken(t, l, pylite.DedentTok, "", 9, 1)
	expectToken(t, l, "INT", "6", 9, 1)
	expectToken(t, l, pylite.NewlineTok, "\n", 9, 2)
	expectToken(t, l, "INT", "7", 10, 1)
	expectToken(t, l, pylite.EndTok, "", 10, 2)
}

// Open blocks are closed with synthetic DEDENTs before the final END.
func TestTrailingDedents(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "pylite.lexer")
	defer teardown()
	//
	l := makeLexer(t, "x\n  y\n    z\n")
	expectToken(t, l, "NAME", "x", 1, 1)
	expectToken(t, l, pylite.NewlineTok, "\n", 1, 2)
	expectToken(t, l, pylite.IndentTok, "", 2, 1)
	expectToken(t, l, "NAME", "y", 2, 3)
	expectToken(t, l, pylite.NewlineTok, "\n", 2, 4)
	expectToken(t, l, pylite.IndentTok, "", 3, 1)
	expectToken(t, l, "NAME", "z", 3, 5)
	expectToken(t, l, pylite.NewlineTok, "\n", 3, 6)
	expectToken(t, l, pylite.DedentTok, "", 4, 1)
	expectToken(t, l, pylite.DedentTok, "", 4, 1)
	expectToken(t, l, pylite.EndTok, "", 4, 1)
}

func TestIndentationError(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "pylite.lexer")
	defer teardown()
	//
	l := makeLexer(t, "x\n  y\n z\n")
	for _, symbol := range []string{"NAME", pylite.NewlineTok, pylite.IndentTok, "NAME", pylite.NewlineTok, pylite.DedentTok} {
		tok, err := l.Token()
		if err != nil {
			t.Fatalf("premature lexer error: %v", err)
		}
		if tok.Symbol != symbol {
			t.Fatalf("expected %s, have %v", symbol, tok)
		}
	}
	_, err := l.Token()
	ierr, ok := err.(*IndentationError)
	if !ok {
		t.Fatalf("expected an indentation error, have %v", err)
	}
	if ierr.Lineno != 3 {
		t.Errorf("expected the indentation error on line 3, have %d", ierr.Lineno)
	}
}

func TestLexicalError(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "pylite.lexer")
	defer teardown()
	//
	l := makeLexer(t, "@\n")
	_, err := l.Token()
	lerr, ok := err.(*LexicalError)
	if !ok {
		t.Fatalf("expected a lexical error, have %v", err)
	}
	if lerr.Lineno != 1 || lerr.Colno != 1 || lerr.Char != '@' {
		t.Errorf("expected '@' to fail at 1:1, have %v", lerr)
	}
	if _, err2 := l.Token(); err2 == nil {
		t.Errorf("expected the lexer to stay in its error state")
	}
}

func TestNewlinesOnly(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "pylite.lexer")
	defer teardown()
	//
	l := makeLexer(t, "\n\n\n")
	expectToken(t, l, pylite.NewlineTok, "\n\n\n", 1, 1)
	expectToken(t, l, pylite.EndTok, "", 4, 1)
	expectToken(t, l, pylite.EndTok, "", 4, 1)
}

// For any successful lex, the INDENT and DEDENT counts balance, and
// the token stream ends in (and stays at) END.
func TestIndentDedentBalance(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "pylite.lexer")
	defer teardown()
	//
	inputs := []string{
		"",
		"x\n",
		"\n\n",
		"def f\n  1\n",
		"a\n  b\n    c\n  d\ne\n",
		"a\n  b\n    c",
	}
	for _, input := range inputs {
		l := makeLexer(t, input)
		indents, dedents := 0, 0
		for i := 0; i < 1000; i++ {
			tok, err := l.Token()
			if err != nil {
				t.Fatalf("unexpected lexer error for %q: %v", input, err)
			}
			if tok.Symbol == pylite.IndentTok {
				indents++
			}
			if tok.Symbol == pylite.DedentTok {
				dedents++
			}
			if tok.Symbol == pylite.EndTok {
				break
			}
		}
		if indents != dedents {
			t.Errorf("input %q: %d INDENTs vs %d DEDENTs", input, indents, dedents)
		}
		tok, err := l.Token()
		if err != nil || tok.Symbol != pylite.EndTok {
			t.Errorf("input %q: expected to stay at END, have %v/%v", input, tok, err)
		}
	}
}
