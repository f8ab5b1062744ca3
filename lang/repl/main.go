package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/pterm/pterm"

	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"

	"github.com/pylite/pylite/lang"
	"github.com/pylite/pylite/lr/slr"
)

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2023–2025 The pylite authors
*/

// traceKeys are the tracing selectors of the toolkit.
var traceKeys = []string{"pylite.lr", "pylite.lexer", "pylite.slr"}

// main() builds the parser for the toy language at startup. Without
// -repl it prints the grammar report (numbered rules, automaton
// states, conflicts) to stdout and exits 0 — the yacc-like "show me
// my grammar" mode. With -repl it starts an interactive loop which
// parses entered source and renders the AST as a tree.
func main() {
	initDisplay()
	gtrace.SyntaxTracer = gologadapter.New()
	tlevel := flag.String("trace", "Error", "Trace level [Debug|Info|Error]")
	repl := flag.Bool("repl", false, "Start an interactive parse loop")
	dotfile := flag.String("dot", "", "Export the parser automaton to a Graphviz dot file")
	flag.Parse()
	for _, key := range traceKeys {
		tracing.Select(key).SetTraceLevel(tracing.TraceLevelFromString(*tlevel))
	}
	parser, err := lang.NewParser()
	if err != nil {
		pterm.Error.Println(err.Error())
		os.Exit(1)
	}
	if *dotfile != "" {
		if err := parser.Tables().CFSM().CFSM2GraphViz(*dotfile); err != nil {
			pterm.Error.Println(err.Error())
			os.Exit(1)
		}
		pterm.Info.Println("CFSM written to " + *dotfile)
	}
	if !*repl {
		parser.DumpGrammar(os.Stdout)
		return
	}
	pterm.Info.Println("Welcome to the pylite REPL")
	pterm.Info.Println("Enter a statement, or a def-block terminated by an empty line")
	rl, err := readline.New("pylite> ")
	if err != nil {
		pterm.Error.Println(err.Error())
		os.Exit(3)
	}
	intp := &Intp{parser: parser, repl: rl}
	intp.REPL()
}

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.EnableDebugMessages()
	pterm.Info.Prefix = pterm.Prefix{
		Text:  "  >>",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  "  Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

// Intp is our interpreter object
type Intp struct {
	parser *slr.Parser
	repl   *readline.Instance
}

// REPL starts interactive mode.
func (intp *Intp) REPL() {
	for {
		line, err := intp.repl.Readline()
		if err != nil { // io.EOF
			break
		}
		if line = strings.TrimRight(line, " \t"); strings.TrimSpace(line) == "" {
			continue
		}
		source, err := intp.readBlock(line)
		if err != nil {
			break
		}
		root, err := intp.parser.Parse(source)
		if err != nil {
			pterm.Error.Println(err.Error())
			continue
		}
		renderAST(root.(lang.Node))
	}
	println("Good bye!")
}

// readBlock collects the lines of a def-block: whenever a line opens a
// suite (ends in a colon), further lines are read until an empty one.
func (intp *Intp) readBlock(first string) (string, error) {
	var b strings.Builder
	b.WriteString(first)
	b.WriteString("\n")
	line := first
	for strings.HasSuffix(line, ":") || strings.HasPrefix(line, " ") {
		next, err := intp.repl.Readline()
		if err != nil {
			return "", err
		}
		if strings.TrimSpace(next) == "" {
			break
		}
		b.WriteString(next)
		b.WriteString("\n")
		line = next
	}
	return b.String(), nil
}

// renderAST displays a parse result as a tree on the terminal.
func renderAST(root lang.Node) {
	ll := leveledNode(root, pterm.LeveledList{}, 0)
	tree := pterm.NewTreeFromLeveledList(ll)
	pterm.DefaultTree.WithRoot(tree).Render()
}

func leveledNode(n lang.Node, ll pterm.LeveledList, level int) pterm.LeveledList {
	add := func(text string) {
		ll = append(ll, pterm.LeveledListItem{Level: level, Text: text})
	}
	switch node := n.(type) {
	case *lang.Module:
		add("Module")
		for _, stmt := range node.Body {
			ll = leveledNode(stmt, ll, level+1)
		}
	case *lang.FuncDef:
		add("FuncDef " + node.Name)
		for _, stmt := range node.Suite {
			ll = leveledNode(stmt, ll, level+1)
		}
	case *lang.ExprStmt:
		add("ExprStmt")
		ll = leveledNode(node.X, ll, level+1)
	case *lang.BinExpr:
		add("BinExpr " + node.Op.Symbol())
		ll = leveledNode(node.L, ll, level+1)
		ll = leveledNode(node.R, ll, level+1)
	case *lang.NameExpr:
		add("Name " + node.Name)
	case *lang.IntLit:
		add(fmt.Sprintf("Int %d", node.Value))
	case *lang.NewlineStmt:
		add("Newline")
	default:
		add(fmt.Sprintf("%T", n))
	}
	return ll
}
