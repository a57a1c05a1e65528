package parser

import (
	"strconv"

	"spim/internal/ast"
)

// parseProcess implements spec.md §6's `process` production:
//
//	process := "let new" ident "@" float "in" process
//	         | "val" pattern "=" expr "in" process
//	         | "(" process ("|" process)+ ")"
//	         | action process
//	         | "do" (action process) ("or" action process)+
//	         | ident "(" expr,* ")"
//	         | integer "of" process
//	         | "replicate" action process
//	         | "end"
func (p *Parser) parseProcess() (ast.Process, error) {
	switch {
	case p.check(LET):
		return p.parseLetNew()

	case p.check(VAL):
		return p.parseValIn()

	case p.check(LEFT_PAREN):
		return p.parseParenParallel()

	case p.check(DO):
		return p.parseChoice()

	case p.check(QUESTION), p.check(BANG):
		return p.parseGuardedProcess()

	case p.check(REPLICATE):
		p.advance()
		act, err := p.parseAction()
		if err != nil {
			return nil, err
		}
		body, err := p.parseProcess()
		if err != nil {
			return nil, err
		}
		return ast.Replication{Act: act, Body: body}, nil

	case p.check(INTEGER):
		tok := p.advance()
		k, err := strconv.Atoi(tok.Lexeme)
		if err != nil {
			return nil, p.errorf("invalid repetition count %q", tok.Lexeme)
		}
		if _, err := p.expect(OF, "after a repetition count"); err != nil {
			return nil, err
		}
		body, err := p.parseProcess()
		if err != nil {
			return nil, err
		}
		return ast.Repetition{K: k, Body: body}, nil

	case p.check(END):
		p.advance()
		return ast.Termination{}, nil

	case p.check(IDENTIFIER):
		return p.parseInstance()

	default:
		return nil, p.errorf("expected a process, found %s", p.peek().Type)
	}
}

// parseLetNew parses `"let new" ident "@" float "in" process`, the
// process-level restriction form (distinct from the top-level `new`
// declaration, which has no enclosing scope).
func (p *Parser) parseLetNew() (ast.Process, error) {
	p.advance() // "let"
	if _, err := p.expect(NEW, "after 'let' introducing a scoped channel"); err != nil {
		return nil, err
	}
	nameTok, err := p.expect(IDENTIFIER, "as the new channel's name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(AT, "before the new channel's rate"); err != nil {
		return nil, err
	}
	rate, err := p.parseRate()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(IN, "after 'let new c@r'"); err != nil {
		return nil, err
	}
	body, err := p.parseProcess()
	if err != nil {
		return nil, err
	}
	return ast.Restriction{Chan: nameTok.Lexeme, Rate: rate, Body: body}, nil
}

// parseValIn parses `"val" pattern "=" expr "in" process`, desugaring any
// non-trivial pattern into a chain of indexed LetVals around a fresh tuple
// binder (ast.BindPattern; spec.md §3's destructuring rule).
func (p *Parser) parseValIn() (ast.Process, error) {
	p.advance() // "val"
	pat, err := p.parsePattern()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(EQUAL, "after a val-binding pattern"); err != nil {
		return nil, err
	}
	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(IN, "after 'val pattern = expr'"); err != nil {
		return nil, err
	}
	rest, err := p.parseProcess()
	if err != nil {
		return nil, err
	}

	if name, ok := pat.(ast.NamePattern); ok {
		return ast.LetVal{Var: name.Name, Expr: expr, Body: rest}, nil
	}
	if _, ok := pat.(ast.Wildcard); ok {
		return rest, nil
	}
	fresh := p.sg.Next()
	return ast.LetVal{Var: fresh, Expr: expr, Body: ast.BindPattern(pat, fresh, rest)}, nil
}

// parseParenParallel parses `"(" process ("|" process)+ ")"`, building a
// right-associated chain (spec.md §3: "Parallel(P, Q) — binary,
// right-associated after parsing").
func (p *Parser) parseParenParallel() (ast.Process, error) {
	p.advance() // "("
	first, err := p.parseProcess()
	if err != nil {
		return nil, err
	}
	procs := []ast.Process{first}
	for p.match(PIPE) {
		next, err := p.parseProcess()
		if err != nil {
			return nil, err
		}
		procs = append(procs, next)
	}
	if _, err := p.expect(RIGHT_PAREN, "to close a parallel composition"); err != nil {
		return nil, err
	}
	if len(procs) < 2 {
		// A parenthesised process with no '|' is just grouping.
		return procs[0], nil
	}
	result := procs[len(procs)-1]
	for i := len(procs) - 2; i >= 0; i-- {
		result = ast.Parallel{Left: procs[i], Right: result}
	}
	return result, nil
}

// parseAction parses `action := ("?"|"!") ident ";"`.
func (p *Parser) parseAction() (ast.Act, error) {
	var kind ast.ActKind
	switch {
	case p.check(QUESTION):
		p.advance()
		kind = ast.Input
	case p.check(BANG):
		p.advance()
		kind = ast.Output
	default:
		return ast.Act{}, p.errorf("expected '?' or '!' to start an action, found %s", p.peek().Type)
	}
	nameTok, err := p.expect(IDENTIFIER, "as the action's channel name")
	if err != nil {
		return ast.Act{}, err
	}
	if _, err := p.expect(SEMICOLON, "after an action's channel name"); err != nil {
		return ast.Act{}, err
	}
	return ast.Act{Kind: kind, Channel: nameTok.Lexeme}, nil
}

// parseGuardedProcess parses the bare `action process` form into a
// single-alternative Summation — the minimal choice (spec.md §3: a
// Summation is "a nonempty ordered list of guarded alternatives").
func (p *Parser) parseGuardedProcess() (ast.Process, error) {
	act, err := p.parseAction()
	if err != nil {
		return nil, err
	}
	cont, err := p.parseProcess()
	if err != nil {
		return nil, err
	}
	return ast.Summation{Alts: []ast.Alt{{Act: act, Cont: cont}}}, nil
}

// parseChoice parses `"do" (action process) ("or" action process)+`.
func (p *Parser) parseChoice() (ast.Process, error) {
	p.advance() // "do"
	var alts []ast.Alt
	act, err := p.parseAction()
	if err != nil {
		return nil, err
	}
	cont, err := p.parseProcess()
	if err != nil {
		return nil, err
	}
	alts = append(alts, ast.Alt{Act: act, Cont: cont})

	for p.match(OR) {
		act, err := p.parseAction()
		if err != nil {
			return nil, err
		}
		cont, err := p.parseProcess()
		if err != nil {
			return nil, err
		}
		alts = append(alts, ast.Alt{Act: act, Cont: cont})
	}
	if len(alts) < 2 {
		return nil, p.errorf("'do' requires at least one 'or' alternative")
	}
	return ast.Summation{Alts: alts}, nil
}

// parseInstance parses `ident "(" expr,* ")"`.
func (p *Parser) parseInstance() (ast.Process, error) {
	nameTok := p.advance()
	if _, err := p.expect(LEFT_PAREN, "after an instance name"); err != nil {
		return nil, err
	}
	args, err := p.parseExprList(RIGHT_PAREN)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(RIGHT_PAREN, "to close an instance's argument list"); err != nil {
		return nil, err
	}
	return ast.Instance{Name: nameTok.Lexeme, Args: args}, nil
}

// parseRate parses a channel rate, accepting either an INTEGER or FLOAT
// token (spec.md §6 writes the grammar slot as `float`, but `new a@1` with
// an integer literal rate is unambiguous and common enough to accept).
func (p *Parser) parseRate() (float64, error) {
	switch {
	case p.check(FLOAT):
		tok := p.advance()
		f, err := strconv.ParseFloat(tok.Lexeme, 64)
		if err != nil {
			return 0, p.errorf("invalid rate %q", tok.Lexeme)
		}
		return f, nil
	case p.check(INTEGER):
		tok := p.advance()
		n, err := strconv.ParseInt(tok.Lexeme, 10, 64)
		if err != nil {
			return 0, p.errorf("invalid rate %q", tok.Lexeme)
		}
		return float64(n), nil
	default:
		return 0, p.errorf("expected a rate (a number), found %s", p.peek().Type)
	}
}
