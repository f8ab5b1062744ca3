/*
Package lang defines a small Python-like surface language — function
definitions containing arithmetic expression statements — and wires it
to the runtime parser generator: token definitions for the lexer,
production rules with AST-building reduction callbacks, and the
operator precedence table.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2023–2025 The pylite authors
*/
package lang

import (
	"fmt"
	"strconv"
	"strings"
)

// Node is an AST node. Lines returns the source-like textual
// representation, one line per element; nested blocks are indented.
type Node interface {
	Lines() []string
}

// Str renders a node as a multi-line string.
func Str(n Node) string {
	return strings.Join(n.Lines(), "\n")
}

// ModuleStmt is a top-level statement.
type ModuleStmt interface {
	Node
	moduleStmt()
}

// FuncStmt is a statement within a function body.
type FuncStmt interface {
	Node
	funcStmt()
}

// Expr is an expression node.
type Expr interface {
	Node
	valueStr() string
}

// Module is the root node of a parse: a list of top-level statements.
type Module struct {
	Body []ModuleStmt
}

func (m *Module) Lines() []string {
	var lines []string
	for _, stmt := range m.Body {
		lines = append(lines, stmt.Lines()...)
	}
	return lines
}

// FuncDef is a function definition with its indented suite.
type FuncDef struct {
	Name  string
	Suite []FuncStmt
}

func (f *FuncDef) moduleStmt() {}

func (f *FuncDef) Lines() []string {
	lines := []string{fmt.Sprintf("def %s():", f.Name)}
	for _, stmt := range f.Suite {
		for _, line := range stmt.Lines() {
			lines = append(lines, "    "+line)
		}
	}
	return lines
}

// NewlineStmt is a blank top-level line, kept so that a module dumps
// back to roughly its source shape.
type NewlineStmt struct{}

func (n *NewlineStmt) moduleStmt() {}

func (n *NewlineStmt) Lines() []string {
	return []string{""}
}

// ExprStmt is an expression used as a statement.
type ExprStmt struct {
	X Expr
}

func (s *ExprStmt) funcStmt()   {}
func (s *ExprStmt) moduleStmt() {}

func (s *ExprStmt) Lines() []string {
	return []string{s.X.valueStr()}
}

// BinOp is a binary operator tag.
type BinOp int

// The binary operators of the language.
const (
	Add BinOp = iota
	Sub
	Mul
	Div
)

// Symbol returns the operator's source form.
func (op BinOp) Symbol() string {
	switch op {
	case Add:
		return "+"
	case Sub:
		return "-"
	case Mul:
		return "*"
	}
	return "/"
}

// BinExpr is a binary expression.
type BinExpr struct {
	L  Expr
	Op BinOp
	R  Expr
}

func (e *BinExpr) valueStr() string {
	return "(" + e.L.valueStr() + " " + e.Op.Symbol() + " " + e.R.valueStr() + ")"
}

func (e *BinExpr) Lines() []string {
	return []string{e.valueStr()}
}

// NameExpr is an identifier reference.
type NameExpr struct {
	Name string
}

func (e *NameExpr) valueStr() string {
	return e.Name
}

func (e *NameExpr) Lines() []string {
	return []string{e.valueStr()}
}

// IntLit is an integer literal.
type IntLit struct {
	Value int
}

func (e *IntLit) valueStr() string {
	return strconv.Itoa(e.Value)
}

func (e *IntLit) Lines() []string {
	return []string{e.valueStr()}
}
