// Package grammar is the secondary, lint-only front end: a participle/v2
// struct-tag grammar mirroring spec.md §6's surface syntax, used by
// cmd/spim-check for quick syntax checking without running a simulation.
// Grounded on kanso-lang-kanso/grammar/lexer.go's stateful-lexer-rule-list
// style and grammar.go's struct-tag shape, scaled down from a contract
// language's token set to this language's much smaller one.
package grammar

import (
	"github.com/alecthomas/participle/v2/lexer"
)

var SpimLexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		{"Comment", `//[^\n]*`, nil},
		{"Ident", `[a-zA-Z_][a-zA-Z0-9_]*`, nil},
		{"Float", `[0-9]+\.[0-9]+`, nil},
		{"Int", `[0-9]+`, nil},
		{"Operator", `(->|==|!=|<=|>=|[@?!;,=+\-*/<>.|])`, nil},
		{"Punctuation", `[()]`, nil},
		{"Whitespace", `[ \t\r\n]+`, nil},
	},
})
