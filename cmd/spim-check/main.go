// Command spim-check runs only the participle-based grammar over a source
// file and reports syntax errors, without building a simulator or running
// it. Grounded on kanso-lang-kanso/main.go's separate participle-driven
// entrypoint, kept apart from the real compiler's CLI (cmd/kanso-cli).
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"

	"spim/grammar"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("usage: spim-check <file.spim>")
		os.Exit(1)
	}

	path := os.Args[1]
	if _, err := grammar.ParseFile(path); err != nil {
		// grammar.ParseFile has already printed a diagnostic (a caret
		// diagnostic for a syntax error, a one-line message for a read
		// failure).
		os.Exit(1)
	}

	color.Green("%s: syntax OK", path)
}
