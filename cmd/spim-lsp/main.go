// Command spim-lsp runs the diagnostics-only language server over stdio.
// Grounded on kanso-lang-kanso/cmd/kanso-lsp/main.go's handler wiring,
// trimmed to the methods internal/lsp.Handler actually implements.
package main

import (
	"log"
	"os"

	"github.com/tliron/commonlog"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"spim/internal/lsp"
)

const lsName = "spim"

func main() {
	commonlog.Configure(1, nil)

	h := lsp.NewHandler()
	handler := protocol.Handler{
		Initialize:            h.Initialize,
		Initialized:           h.Initialized,
		Shutdown:              h.Shutdown,
		TextDocumentDidOpen:   h.TextDocumentDidOpen,
		TextDocumentDidChange: h.TextDocumentDidChange,
		TextDocumentDidClose:  h.TextDocumentDidClose,
	}

	s := server.NewServer(&handler, lsName, false)

	log.Println("starting spim language server...")
	if err := s.RunStdio(); err != nil {
		log.Println("spim-lsp:", err)
		os.Exit(1)
	}
}
