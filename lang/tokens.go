package lang

import (
	"github.com/pylite/pylite"
)

// ReservedNames maps identifier lexemes to keyword terminals.
var ReservedNames = map[string]string{
	"def": "DEF",
}

// reservedName reclassifies a NAME token whose lexeme is a reserved
// word.
func reservedName(_ pylite.Scanner, tok pylite.LexToken) pylite.LexToken {
	if sym, ok := ReservedNames[tok.Value]; ok {
		tok.Symbol = sym
	}
	return tok
}

// Tokens returns the token definitions of the language. Order is
// significant: equal-length matches resolve to the earlier entry.
// INDENT and DEDENT carry no pattern; the lexer synthesises them.
func Tokens() pylite.TokenSet {
	return pylite.TokenSet{
		// values
		{Symbol: "INT", Pattern: `[0-9]+`},
		{Symbol: "NAME", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`, Rewrite: reservedName},

		// binary operators
		{Symbol: "ADD", Pattern: `\+`},
		{Symbol: "SUB", Pattern: `-`},
		{Symbol: "MUL", Pattern: `\*`},
		{Symbol: "DIV", Pattern: `/`},

		// containers
		{Symbol: "LPAR", Pattern: `\(`},
		{Symbol: "RPAR", Pattern: `\)`},

		// misc
		{Symbol: "DEF", Pattern: `def`},
		{Symbol: "COLON", Pattern: `:`},
		{Symbol: pylite.NewlineTok, Pattern: `\n+`},
		{Symbol: pylite.IndentTok},
		{Symbol: pylite.DedentTok},
	}
}
