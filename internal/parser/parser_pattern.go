package parser

import "spim/internal/ast"

// parsePattern parses `pattern := "_" | ident | "(" pattern,* ")"` (spec.md
// §6).
func (p *Parser) parsePattern() (ast.Pattern, error) {
	switch {
	case p.check(UNDERSCORE):
		p.advance()
		return ast.Wildcard{}, nil

	case p.check(IDENTIFIER):
		tok := p.advance()
		return ast.NamePattern{Name: tok.Lexeme}, nil

	case p.check(LEFT_PAREN):
		p.advance()
		var elems []ast.Pattern
		if !p.check(RIGHT_PAREN) {
			for {
				elem, err := p.parsePattern()
				if err != nil {
					return nil, err
				}
				elems = append(elems, elem)
				if !p.match(COMMA) {
					break
				}
			}
		}
		if _, err := p.expect(RIGHT_PAREN, "to close tuple pattern"); err != nil {
			return nil, err
		}
		return ast.TuplePattern{Elems: elems}, nil

	default:
		return nil, p.errorf("expected a pattern, found %s", p.peek().Type)
	}
}

// parsePatternList parses a comma-separated, possibly empty list of patterns
// up to (not consuming) the closing RIGHT_PAREN.
func (p *Parser) parsePatternList() ([]ast.Pattern, error) {
	var pats []ast.Pattern
	if p.check(RIGHT_PAREN) {
		return pats, nil
	}
	for {
		pat, err := p.parsePattern()
		if err != nil {
			return nil, err
		}
		pats = append(pats, pat)
		if !p.match(COMMA) {
			break
		}
	}
	return pats, nil
}
