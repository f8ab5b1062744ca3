package slr_test

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"

	"github.com/pylite/pylite/lang"
	"github.com/pylite/pylite/lexer"
	"github.com/pylite/pylite/lr"
	"github.com/pylite/pylite/lr/slr"
)

func makeParser(t *testing.T) *slr.Parser {
	p, err := lang.NewParser()
	if err != nil {
		t.Fatalf("cannot construct parser: %v", err)
	}
	if len(p.Conflicts()) != 0 {
		t.Fatalf("expected a conflict-free grammar, have %v", p.Conflicts())
	}
	return p
}

func parseModule(t *testing.T, p *slr.Parser, input string) *lang.Module {
	t.Helper()
	root, err := p.Parse(input)
	if err != nil {
		t.Fatalf("cannot parse %q: %v", input, err)
	}
	module, ok := root.(*lang.Module)
	if !ok {
		t.Fatalf("expected parse of %q to yield a module, have %T", input, root)
	}
	return module
}

func TestParseNameStmt(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "pylite.slr")
	defer teardown()
	//
	p := makeParser(t)
	module := parseModule(t, p, "x\n")
	if len(module.Body) != 1 {
		t.Fatalf("expected a module with 1 statement, have %d", len(module.Body))
	}
	stmt, ok := module.Body[0].(*lang.ExprStmt)
	if !ok {
		t.Fatalf("expected an expression statement, have %T", module.Body[0])
	}
	name, ok := stmt.X.(*lang.NameExpr)
	if !ok || name.Name != "x" {
		t.Errorf("expected a reference to x, have %v", stmt.X)
	}
}

func TestParsePrecedence(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "pylite.slr")
	defer teardown()
	//
	p := makeParser(t)
	module := parseModule(t, p, "1+2*3\n")
	stmt := module.Body[0].(*lang.ExprStmt)
	add, ok := stmt.X.(*lang.BinExpr)
	if !ok || add.Op != lang.Add {
		t.Fatalf("expected an addition at the root, have %v", stmt.X)
	}
	if lit, ok := add.L.(*lang.IntLit); !ok || lit.Value != 1 {
		t.Errorf("expected 1 as left operand, have %v", add.L)
	}
	mul, ok := add.R.(*lang.BinExpr)
	if !ok || mul.Op != lang.Mul {
		t.Fatalf("expected the multiplication to bind tighter, have %v", add.R)
	}
	if lit, ok := mul.L.(*lang.IntLit); !ok || lit.Value != 2 {
		t.Errorf("expected 2 as left factor, have %v", mul.L)
	}
	if lit, ok := mul.R.(*lang.IntLit); !ok || lit.Value != 3 {
		t.Errorf("expected 3 as right factor, have %v", mul.R)
	}
}

func TestParseAssociativity(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "pylite.slr")
	defer teardown()
	//
	p := makeParser(t)
	module := parseModule(t, p, "1-2-3\n")
	stmt := module.Body[0].(*lang.ExprStmt)
	// SUB is left-associative: (1 - 2) - 3
	outer, ok := stmt.X.(*lang.BinExpr)
	if !ok || outer.Op != lang.Sub {
		t.Fatalf("expected a subtraction at the root, have %v", stmt.X)
	}
	if _, ok := outer.L.(*lang.BinExpr); !ok {
		t.Errorf("expected left-associative grouping, have %s", lang.Str(stmt))
	}
	if lit, ok := outer.R.(*lang.IntLit); !ok || lit.Value != 3 {
		t.Errorf("expected 3 as right operand, have %v", outer.R)
	}
}

// Swapping the two precedence levels flips the resolution: the
// additive operators now bind tighter than the multiplicative ones.
func TestPrecedenceMonotonicity(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "pylite.slr")
	defer teardown()
	//
	swapped := lr.Precedence{
		{Assoc: lr.RightAssoc, Terminals: []string{"MUL", "DIV"}},
		{Assoc: lr.LeftAssoc, Terminals: []string{"ADD", "SUB"}},
	}
	p, err := slr.NewParser(lang.Tokens(), lang.Rules(), swapped)
	if err != nil {
		t.Fatalf("cannot construct parser: %v", err)
	}
	module := parseModule(t, p, "1+2*3\n")
	stmt := module.Body[0].(*lang.ExprStmt)
	mul, ok := stmt.X.(*lang.BinExpr)
	if !ok || mul.Op != lang.Mul {
		t.Fatalf("expected the multiplication at the root, have %v", stmt.X)
	}
	if add, ok := mul.L.(*lang.BinExpr); !ok || add.Op != lang.Add {
		t.Errorf("expected the addition to bind tighter now, have %v", mul.L)
	}
}

func TestParseFuncDef(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "pylite.slr")
	defer teardown()
	//
	p := makeParser(t)
	module := parseModule(t, p, "def f():\n    1\n")
	if len(module.Body) != 1 {
		t.Fatalf("expected a module with 1 statement, have %d", len(module.Body))
	}
	def, ok := module.Body[0].(*lang.FuncDef)
	if !ok {
		t.Fatalf("expected a function definition, have %T", module.Body[0])
	}
	if def.Name != "f" {
		t.Errorf("expected function name f, have %q", def.Name)
	}
	if len(def.Suite) != 1 {
		t.Fatalf("expected a suite with 1 statement, have %d", len(def.Suite))
	}
	stmt, ok := def.Suite[0].(*lang.ExprStmt)
	if !ok {
		t.Fatalf("expected an expression statement, have %T", def.Suite[0])
	}
	if lit, ok := stmt.X.(*lang.IntLit); !ok || lit.Value != 1 {
		t.Errorf("expected the literal 1, have %v", stmt.X)
	}
}

func TestParseMixedModule(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "pylite.slr")
	defer teardown()
	//
	p := makeParser(t)
	module := parseModule(t, p, "def f():\n    1\n    x+2\nf\n")
	if len(module.Body) != 2 {
		t.Fatalf("expected a module with 2 statements, have %d", len(module.Body))
	}
	def := module.Body[0].(*lang.FuncDef)
	if len(def.Suite) != 2 {
		t.Errorf("expected a suite with 2 statements, have %d", len(def.Suite))
	}
}

func TestParseIndentationError(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "pylite.slr")
	defer teardown()
	//
	p := makeParser(t)
	_, err := p.Parse("x\n  y\n z\n")
	ierr, ok := err.(*lexer.IndentationError)
	if !ok {
		t.Fatalf("expected an indentation error, have %v", err)
	}
	if ierr.Lineno != 3 {
		t.Errorf("expected the indentation error on line 3, have %d", ierr.Lineno)
	}
}

func TestParseLexicalError(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "pylite.slr")
	defer teardown()
	//
	p := makeParser(t)
	_, err := p.Parse("@\n")
	lerr, ok := err.(*lexer.LexicalError)
	if !ok {
		t.Fatalf("expected a lexical error, have %v", err)
	}
	if lerr.Lineno != 1 || lerr.Colno != 1 {
		t.Errorf("expected the lexical error at 1:1, have %d:%d", lerr.Lineno, lerr.Colno)
	}
}

func TestParseError(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "pylite.slr")
	defer teardown()
	//
	p := makeParser(t)
	_, err := p.Parse("1++\n")
	perr, ok := err.(*slr.ParseError)
	if !ok {
		t.Fatalf("expected a parse error, have %v", err)
	}
	if perr.Lookahead != "ADD" {
		t.Errorf("expected the parse error on lookahead ADD, have %q", perr.Lookahead)
	}
	if perr.StateDump == "" {
		t.Errorf("expected the parse error to carry a state dump")
	}
}

// The grammar does not accept empty input: the very first lookahead is
// END, for which the start state has no entry.
func TestParseEmptyInput(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "pylite.slr")
	defer teardown()
	//
	p := makeParser(t)
	_, err := p.Parse("")
	perr, ok := err.(*slr.ParseError)
	if !ok {
		t.Fatalf("expected a parse error, have %v", err)
	}
	if perr.Lookahead != "END" {
		t.Errorf("expected the parse error on lookahead END, have %q", perr.Lookahead)
	}
}

// A parser instance is reusable for sequential parses.
func TestParserReuse(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "pylite.slr")
	defer teardown()
	//
	p := makeParser(t)
	if _, err := p.Parse("1++\n"); err == nil {
		t.Fatalf("expected a parse error")
	}
	module := parseModule(t, p, "x\n")
	if len(module.Body) != 1 {
		t.Errorf("expected a working parser after an error, have %v", module)
	}
}
