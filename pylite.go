/*
Package pylite is the root package of a small runtime parser-generator
toolkit: an indentation-aware lexer plus an SLR(1) table generator and
shift/reduce driver, assembled at runtime from token definitions, a
rule list and a precedence table.

This package holds the shared token model. The machinery lives in the
subpackages: package lexer produces tokens (including synthetic INDENT
and DEDENT), package lr builds the item-set DFA and the parse tables,
and package lr/slr drives the parse and invokes reduction callbacks.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2023–2025 The pylite authors
*/
package pylite

import "fmt"

// Reserved terminal names. Only NEWLINE carries a pattern; the others
// are synthesised by the lexer (or, in the case of EMPTY, stand for
// epsilon during grammar analysis).
const (
	EndTok     = "END"
	NewlineTok = "NEWLINE"
	IndentTok  = "INDENT"
	DedentTok  = "DEDENT"
	EmptyTok   = "EMPTY"
)

// LexToken is a single input token. Pos is a 1-based byte offset into
// the source; Lineno and Colno are 1-based source coordinates of the
// token's first character.
type LexToken struct {
	Symbol string
	Value  string
	Pos    int
	Lineno int
	Colno  int
}

func (t LexToken) String() string {
	return fmt.Sprintf("%s(%q)@%d:%d", t.Symbol, t.Value, t.Lineno, t.Colno)
}

// Scanner is implemented by token sources handing out LexTokens.
// Token advances, Peek does not.
type Scanner interface {
	Token() (LexToken, error)
	Peek() (LexToken, error)
}

// RewriteFunc may reclassify a freshly matched token, e.g. turn a NAME
// whose lexeme is a reserved word into the corresponding keyword
// terminal. It receives the running scanner and must return the token
// to emit.
type RewriteFunc func(Scanner, LexToken) LexToken

// TokenDef couples a terminal name with its pattern. A def with an
// empty pattern declares a terminal that is synthesised rather than
// matched (INDENT, DEDENT).
type TokenDef struct {
	Symbol  string
	Pattern string
	Rewrite RewriteFunc
}

// TokenSet is an ordered list of token definitions. Order is
// significant: the lexer breaks equal-length match ties in favor of
// the earlier definition.
type TokenSet []TokenDef

// Contains reports whether sym is defined in the set.
func (ts TokenSet) Contains(sym string) bool {
	for _, def := range ts {
		if def.Symbol == sym {
			return true
		}
	}
	return false
}

// Def returns the definition for sym.
func (ts TokenSet) Def(sym string) (TokenDef, bool) {
	for _, def := range ts {
		if def.Symbol == sym {
			return def, true
		}
	}
	return TokenDef{}, false
}

// IsTerminal reports whether sym names a terminal: either a member of
// the token set or one of the reserved terminals.
func (ts TokenSet) IsTerminal(sym string) bool {
	switch sym {
	case EndTok, NewlineTok, IndentTok, DedentTok, EmptyTok:
		return true
	}
	return ts.Contains(sym)
}
