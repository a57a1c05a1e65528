// Package parser is the hand-written recursive-descent front end for the
// surface syntax of spec.md §6. Grounded on
// kanso-lang-kanso/internal/parser's Scanner+Parser split and its
// token-stream-with-lookahead style (parser_helper.go's peek/check/match),
// adapted from a Pratt expression parser over a contract language to a
// precedence-climbing parser over the small value-expression language of
// spec.md §4.2.
package parser

import (
	"fmt"

	"spim/internal/ast"
	"spim/internal/symgen"
	"spim/internal/value"
)

// ParseError is a single recoverable-or-fatal parse failure, carrying enough
// position information for internal/errors to render a caret diagnostic.
type ParseError struct {
	Message  string
	Position Position
}

func (e ParseError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Position.Line, e.Position.Column, e.Message)
}

// Parser walks a token slice produced by Scanner and builds an ast.Program.
// It stops at the first error: spec.md §7.1 treats surface syntax issues as
// user errors reported with source context, not a candidate for
// recovery-and-continue.
type Parser struct {
	tokens []Token
	pos    int
	sg     *symgen.Generator
}

// Parse scans and parses source in one call, using the package's Default
// symbol generator for any pattern-destructuring desugaring.
func Parse(source string) (*ast.Program, error) {
	return ParseWithGenerator(source, symgen.Default)
}

// ParseWithGenerator is Parse with an explicit fresh-symbol source, so
// callers that need deterministic output (tests, the LSP, which reparses
// continuously) can supply their own Generator instead of sharing the
// package default.
func ParseWithGenerator(source string, sg *symgen.Generator) (*ast.Program, error) {
	scanner := NewScanner(source)
	tokens := scanner.ScanTokens()
	if errs := scanner.Errors(); len(errs) > 0 {
		first := errs[0]
		return nil, ParseError{Message: first.Message, Position: first.Position}
	}

	p := &Parser{tokens: tokens, sg: sg}
	return p.parseProgram()
}

func (p *Parser) peek() Token  { return p.tokens[p.pos] }
func (p *Parser) previous() Token {
	return p.tokens[p.pos-1]
}

func (p *Parser) isAtEnd() bool { return p.peek().Type == EOF }

func (p *Parser) check(t TokenType) bool {
	if p.isAtEnd() {
		return t == EOF
	}
	return p.peek().Type == t
}

func (p *Parser) advance() Token {
	if !p.isAtEnd() {
		p.pos++
	}
	return p.previous()
}

func (p *Parser) match(types ...TokenType) bool {
	for _, t := range types {
		if p.check(t) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) expect(t TokenType, context string) (Token, error) {
	if p.check(t) {
		return p.advance(), nil
	}
	return Token{}, p.errorf("expected %s %s, found %s", t, context, p.peek().Type)
}

func (p *Parser) errorf(format string, args ...interface{}) error {
	tok := p.peek()
	return ParseError{
		Message:  fmt.Sprintf(format, args...),
		Position: tok.Position,
	}
}

// binOpFor maps a binary-operator token to its value.BinOp, for
// parser_expr.go's precedence chain.
func binOpFor(t TokenType) (value.BinOp, bool) {
	switch t {
	case PLUS:
		return value.Plus, true
	case MINUS:
		return value.Sub, true
	case STAR:
		return value.Times, true
	case SLASH:
		return value.Div, true
	case EQUAL_EQUAL:
		return value.Equal, true
	case BANG_EQUAL:
		return value.NotEqual, true
	case LESS:
		return value.Less, true
	case GREATER:
		return value.Greater, true
	case LESS_EQUAL:
		return value.LEq, true
	case GREATER_EQUAL:
		return value.GEq, true
	default:
		return 0, false
	}
}
