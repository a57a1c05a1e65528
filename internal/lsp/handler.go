// Package lsp is a diagnostics-only language server for the spi-calculus
// surface syntax: it reparses on every open/change and republishes
// diagnostics, nothing more. Grounded on
// kanso-lang-kanso/internal/lsp/handler.go's Initialize/didOpen/didChange
// wiring and mutex-guarded per-document map, trimmed of completion and
// semantic-token support — spec.md promises neither, and a stub
// implementation of either would be dead code under the adapt-don't-hoard
// rule (see DESIGN.md).
package lsp

import (
	"fmt"
	"log"
	"sync"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"spim/internal/parser"
	"spim/internal/symgen"
)

// Handler implements the subset of the LSP server interface this language
// server supports.
type Handler struct {
	mu      sync.RWMutex
	content map[string]string
	sg      *symgen.Generator
}

// NewHandler returns a Handler with its own symbol generator, isolated from
// internal/parser's shared Default so repeated reparses of live-edited
// documents don't exhaust or collide with any other run's fresh names.
func NewHandler() *Handler {
	return &Handler{
		content: make(map[string]string),
		sg:      symgen.New(),
	}
}

func (h *Handler) Initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	log.Println("spim-lsp: Initialize")
	return &protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			TextDocumentSync: &protocol.TextDocumentSyncOptions{
				OpenClose: ptrBool(true),
				Change:    ptrSyncKind(protocol.TextDocumentSyncKindFull),
			},
		},
	}, nil
}

func (h *Handler) Initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	return nil
}

func (h *Handler) Shutdown(ctx *glsp.Context) error {
	return nil
}

func (h *Handler) TextDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	h.mu.Lock()
	h.content[string(params.TextDocument.URI)] = params.TextDocument.Text
	h.mu.Unlock()
	return h.republish(ctx, params.TextDocument.URI, params.TextDocument.Text)
}

func (h *Handler) TextDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	if len(params.ContentChanges) == 0 {
		return nil
	}
	// TextDocumentSyncKindFull means each change event carries the whole
	// document; only the last one matters.
	last := params.ContentChanges[len(params.ContentChanges)-1]
	full, ok := last.(protocol.TextDocumentContentChangeEventWhole)
	if !ok {
		return fmt.Errorf("spim-lsp: unexpected incremental content change for %s", params.TextDocument.URI)
	}

	h.mu.Lock()
	h.content[string(params.TextDocument.URI)] = full.Text
	h.mu.Unlock()
	return h.republish(ctx, params.TextDocument.URI, full.Text)
}

func (h *Handler) TextDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	h.mu.Lock()
	delete(h.content, string(params.TextDocument.URI))
	h.mu.Unlock()
	return nil
}

// republish reparses source and sends the resulting diagnostics (an empty
// slice clears any diagnostics from a previously broken edit).
func (h *Handler) republish(ctx *glsp.Context, uri protocol.DocumentUri, source string) error {
	h.sg.Reset()
	var diagnostics []protocol.Diagnostic
	if _, err := parser.ParseWithGenerator(source, h.sg); err != nil {
		if pe, ok := err.(parser.ParseError); ok {
			diagnostics = []protocol.Diagnostic{convertParseError(pe)}
		} else {
			diagnostics = []protocol.Diagnostic{{
				Range:    protocol.Range{},
				Severity: ptrSeverity(protocol.DiagnosticSeverityError),
				Source:   ptrString("spim-parser"),
				Message:  err.Error(),
			}}
		}
	}

	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
	return nil
}

func ptrSyncKind(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind { return &k }
