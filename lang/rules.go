package lang

import (
	"strconv"

	"github.com/pylite/pylite"
	"github.com/pylite/pylite/lr"
	"github.com/pylite/pylite/lr/slr"
)

// tokval extracts the lexeme of a shifted terminal.
func tokval(v interface{}) string {
	return v.(pylite.LexToken).Value
}

func binExpr(op BinOp) lr.SemanticAction {
	return func(v []interface{}) interface{} {
		return &BinExpr{L: v[0].(Expr), Op: op, R: v[2].(Expr)}
	}
}

// Rules returns the production rules of the language. The first rule
// is the start rule.
func Rules() []*lr.Rule {
	return []*lr.Rule{
		// entry point
		lr.NewRule("module", []string{"module_stmt_list"}, func(v []interface{}) interface{} {
			return &Module{Body: v[0].([]ModuleStmt)}
		}),
		lr.NewRule("module_stmt_list", []string{"module_stmt"}, func(v []interface{}) interface{} {
			return []ModuleStmt{v[0].(ModuleStmt)}
		}),
		lr.NewRule("module_stmt_list", []string{"module_stmt_list", "module_stmt"}, func(v []interface{}) interface{} {
			return append(v[0].([]ModuleStmt), v[1].(ModuleStmt))
		}),
		lr.NewRule("module_stmt", []string{"func_def"}, nil),
		lr.NewRule("module_stmt", []string{"func_stmt"}, nil),
		lr.NewRule("module_stmt", []string{pylite.NewlineTok}, func(v []interface{}) interface{} {
			return &NewlineStmt{}
		}),

		// functions
		lr.NewRule("func_def", []string{"DEF", "NAME", "LPAR", "RPAR", "COLON", "func_suite"}, func(v []interface{}) interface{} {
			return &FuncDef{Name: tokval(v[1]), Suite: v[5].([]FuncStmt)}
		}),
		lr.NewRule("func_suite", []string{pylite.NewlineTok, pylite.IndentTok, "func_stmts", pylite.DedentTok}, func(v []interface{}) interface{} {
			return v[2]
		}),
		lr.NewRule("func_stmts", []string{"func_stmt"}, func(v []interface{}) interface{} {
			return []FuncStmt{v[0].(FuncStmt)}
		}),
		lr.NewRule("func_stmts", []string{"func_stmts", "func_stmt"}, func(v []interface{}) interface{} {
			return append(v[0].([]FuncStmt), v[1].(FuncStmt))
		}),
		lr.NewRule("func_stmt", []string{"simple_func_stmt", pylite.NewlineTok}, nil),
		lr.NewRule("simple_func_stmt", []string{"expr_stmt"}, nil),

		// simple statements, one line each
		lr.NewRule("expr_stmt", []string{"expr"}, func(v []interface{}) interface{} {
			return &ExprStmt{X: v[0].(Expr)}
		}),

		// binary expressions
		lr.NewRule("expr", []string{"expr", "SUB", "expr"}, binExpr(Sub)),
		lr.NewRule("expr", []string{"expr", "ADD", "expr"}, binExpr(Add)),
		lr.NewRule("expr", []string{"expr", "MUL", "expr"}, binExpr(Mul)),
		lr.NewRule("expr", []string{"expr", "DIV", "expr"}, binExpr(Div)),

		// atoms
		lr.NewRule("expr", []string{"NAME"}, func(v []interface{}) interface{} {
			return &NameExpr{Name: tokval(v[0])}
		}),
		lr.NewRule("expr", []string{"INT"}, func(v []interface{}) interface{} {
			n, _ := strconv.Atoi(tokval(v[0]))
			return &IntLit{Value: n}
		}),
	}
}

// Precedence returns the operator precedence table: additive operators
// on the lower, left-associative level, multiplicative operators on
// the higher, right-associative one.
func Precedence() lr.Precedence {
	return lr.Precedence{
		{Assoc: lr.LeftAssoc, Terminals: []string{"ADD", "SUB"}},
		{Assoc: lr.RightAssoc, Terminals: []string{"MUL", "DIV"}},
	}
}

// NewParser assembles a parser for the language.
func NewParser() (*slr.Parser, error) {
	return slr.NewParser(Tokens(), Rules(), Precedence())
}
