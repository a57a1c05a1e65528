package parser

import "spim/internal/ast"

// parseProgram implements `program := declaration+` (spec.md §6).
func (p *Parser) parseProgram() (*ast.Program, error) {
	var decls []ast.Declaration
	for !p.isAtEnd() {
		decl, err := p.parseDeclaration()
		if err != nil {
			return nil, err
		}
		decls = append(decls, decl)
	}
	if len(decls) == 0 {
		return nil, p.errorf("empty program: expected at least one declaration")
	}
	return &ast.Program{Decls: decls}, nil
}

// parseDeclaration implements spec.md §6's `declaration` production:
//
//	declaration := "new"  ident "@" float
//	             | "val"  pattern "=" expr
//	             | "let"  ident "(" pattern,* ")" "=" process
//	             | "run"  process
func (p *Parser) parseDeclaration() (ast.Declaration, error) {
	switch {
	case p.check(NEW):
		return p.parseNewChannelDecl()
	case p.check(VAL):
		return p.parseValDecl()
	case p.check(LET):
		return p.parseDefDecl()
	case p.check(RUN):
		return p.parseRunDecl()
	default:
		return nil, p.errorf("expected a declaration ('new', 'val', 'let', or 'run'), found %s", p.peek().Type)
	}
}

func (p *Parser) parseNewChannelDecl() (ast.Declaration, error) {
	p.advance() // "new"
	nameTok, err := p.expect(IDENTIFIER, "as a channel's name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(AT, "before a channel's rate"); err != nil {
		return nil, err
	}
	rate, err := p.parseRate()
	if err != nil {
		return nil, err
	}
	return ast.NewChannel{Name: nameTok.Lexeme, Rate: rate}, nil
}

// parseValDecl parses a top-level `val pattern = expr`. Per spec.md §7.1 and
// §9's first open question, this is accepted syntactically but rejected as a
// user error at load time (internal/sim.Load) rather than silently executed
// — top-level value bindings are reserved for future use.
func (p *Parser) parseValDecl() (ast.Declaration, error) {
	p.advance() // "val"
	pat, err := p.parsePattern()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(EQUAL, "after a top-level val-binding pattern"); err != nil {
		return nil, err
	}
	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return ast.ValDecl{Pattern: pat, Expr: expr}, nil
}

func (p *Parser) parseDefDecl() (ast.Declaration, error) {
	p.advance() // "let"
	nameTok, err := p.expect(IDENTIFIER, "as a definition's name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(LEFT_PAREN, "after a definition's name"); err != nil {
		return nil, err
	}
	formals, err := p.parsePatternList()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(RIGHT_PAREN, "to close a definition's formal parameter list"); err != nil {
		return nil, err
	}
	if _, err := p.expect(EQUAL, "after a definition's formal parameter list"); err != nil {
		return nil, err
	}
	body, err := p.parseProcess()
	if err != nil {
		return nil, err
	}
	return ast.Def{Name: nameTok.Lexeme, Formals: formals, Body: body}, nil
}

func (p *Parser) parseRunDecl() (ast.Declaration, error) {
	p.advance() // "run"
	body, err := p.parseProcess()
	if err != nil {
		return nil, err
	}
	return ast.Run{Body: body}, nil
}
