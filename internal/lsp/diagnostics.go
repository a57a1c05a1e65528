package lsp

import (
	protocol "github.com/tliron/glsp/protocol_3_16"

	"spim/internal/parser"
)

// convertParseError turns a parser.ParseError into a single-range LSP
// diagnostic. Grounded on kanso-lang-kanso/internal/lsp/diagnostics.go's
// ConvertParseErrors, trimmed to this language's single-error-per-parse
// shape (internal/parser stops at the first failure; see parser.go).
func convertParseError(err parser.ParseError) protocol.Diagnostic {
	line := uint32(0)
	if err.Position.Line > 0 {
		line = uint32(err.Position.Line - 1)
	}
	col := uint32(0)
	if err.Position.Column > 0 {
		col = uint32(err.Position.Column - 1)
	}

	return protocol.Diagnostic{
		Range: protocol.Range{
			Start: protocol.Position{Line: line, Character: col},
			End:   protocol.Position{Line: line, Character: col + 1},
		},
		Severity: ptrSeverity(protocol.DiagnosticSeverityError),
		Source:   ptrString("spim-parser"),
		Message:  err.Message,
	}
}

func ptrSeverity(s protocol.DiagnosticSeverity) *protocol.DiagnosticSeverity { return &s }
func ptrString(s string) *string                                           { return &s }
func ptrBool(b bool) *bool                                                 { return &b }
