package parser

import (
	"strconv"

	"spim/internal/value"
)

// parseExpr parses the value-expression surface syntax (spec.md §4.2's
// "pure, eagerly evaluable" language given a concrete grammar): a top-level
// if/then/else, then a standard precedence-climbing binary chain, then
// left-associative juxtaposition application, then primaries.
//
//	expr       := "if" expr "then" expr "else" expr | equality
//	equality   := comparison (("==" | "!=") comparison)*
//	comparison := additive (("<" | ">" | "<=" | ">=") additive)*
//	additive   := multiplicative (("+" | "-") multiplicative)*
//	multiplicative := application (("*" | "/") application)*
//	application := primary primary*
//	primary    := INTEGER | FLOAT | "true" | "false" | IDENTIFIER
//	            | "fun" IDENTIFIER "->" expr
//	            | "(" expr ("," expr)* ")"
//	            | primary "." INTEGER
func (p *Parser) parseExpr() (value.Expr, error) {
	if p.check(IF) {
		return p.parseIfExpr()
	}
	return p.parseEquality()
}

func (p *Parser) parseIfExpr() (value.Expr, error) {
	p.advance() // "if"
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(THEN, "after if-condition"); err != nil {
		return nil, err
	}
	then, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(ELSE, "after if-then branch"); err != nil {
		return nil, err
	}
	els, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return value.IfExpr{Cond: cond, Then: then, Else: els}, nil
}

func (p *Parser) parseEquality() (value.Expr, error) {
	return p.parseBinaryLevel([]TokenType{EQUAL_EQUAL, BANG_EQUAL}, p.parseComparison)
}

func (p *Parser) parseComparison() (value.Expr, error) {
	return p.parseBinaryLevel([]TokenType{LESS, GREATER, LESS_EQUAL, GREATER_EQUAL}, p.parseAdditive)
}

func (p *Parser) parseAdditive() (value.Expr, error) {
	return p.parseBinaryLevel([]TokenType{PLUS, MINUS}, p.parseMultiplicative)
}

func (p *Parser) parseMultiplicative() (value.Expr, error) {
	return p.parseBinaryLevel([]TokenType{STAR, SLASH}, p.parseApplication)
}

func (p *Parser) parseBinaryLevel(ops []TokenType, next func() (value.Expr, error)) (value.Expr, error) {
	left, err := next()
	if err != nil {
		return nil, err
	}
	for p.peekIsOneOf(ops) {
		opTok := p.advance()
		op, ok := binOpFor(opTok.Type)
		if !ok {
			return nil, p.errorf("internal: unhandled binary operator token %s", opTok.Type)
		}
		right, err := next()
		if err != nil {
			return nil, err
		}
		left = value.BinExpr{Op: op, L: left, R: right}
	}
	return left, nil
}

func (p *Parser) peekIsOneOf(types []TokenType) bool {
	for _, t := range types {
		if p.check(t) {
			return true
		}
	}
	return false
}

// parseApplication handles left-associative juxtaposition: `f x y` parses as
// `(f x) y` (spec.md §4.2's "application" former has no explicit surface
// delimiter, unlike Instance's `name(args)` form).
func (p *Parser) parseApplication() (value.Expr, error) {
	fn, err := p.parsePostfix()
	if err != nil {
		return nil, err
	}
	for p.startsPrimary() {
		arg, err := p.parsePostfix()
		if err != nil {
			return nil, err
		}
		fn = value.AppExpr{Fn: fn, Arg: arg}
	}
	return fn, nil
}

func (p *Parser) startsPrimary() bool {
	switch p.peek().Type {
	case INTEGER, FLOAT, TRUE, FALSE, IDENTIFIER, FUN, LEFT_PAREN:
		return true
	default:
		return false
	}
}

// parsePostfix handles tuple-index projection: `e.0`.
func (p *Parser) parsePostfix() (value.Expr, error) {
	e, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for p.check(DOT) {
		p.advance()
		idxTok, err := p.expect(INTEGER, "tuple index after '.'")
		if err != nil {
			return nil, err
		}
		i, convErr := strconv.ParseInt(idxTok.Lexeme, 10, 64)
		if convErr != nil {
			return nil, p.errorf("invalid tuple index %q", idxTok.Lexeme)
		}
		e = value.IndexExpr{I: i, E: e}
	}
	return e, nil
}

func (p *Parser) parsePrimary() (value.Expr, error) {
	switch {
	case p.check(INTEGER):
		tok := p.advance()
		n, err := strconv.ParseInt(tok.Lexeme, 10, 64)
		if err != nil {
			return nil, p.errorf("invalid integer literal %q", tok.Lexeme)
		}
		return value.IntLit{I: n}, nil

	case p.check(FLOAT):
		tok := p.advance()
		f, err := strconv.ParseFloat(tok.Lexeme, 64)
		if err != nil {
			return nil, p.errorf("invalid float literal %q", tok.Lexeme)
		}
		return value.FloatLit{F: f}, nil

	case p.check(TRUE):
		p.advance()
		return value.BoolLit{B: true}, nil

	case p.check(FALSE):
		p.advance()
		return value.BoolLit{B: false}, nil

	case p.check(FUN):
		p.advance()
		nameTok, err := p.expect(IDENTIFIER, "as the parameter of a fun-abstraction")
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(ARROW, "after fun parameter"); err != nil {
			return nil, err
		}
		body, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return value.AbsExpr{Param: nameTok.Lexeme, Body: body}, nil

	case p.check(IDENTIFIER):
		tok := p.advance()
		return value.Var{Name: tok.Lexeme}, nil

	case p.check(LEFT_PAREN):
		p.advance()
		first, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if !p.check(COMMA) {
			if _, err := p.expect(RIGHT_PAREN, "to close parenthesised expression"); err != nil {
				return nil, err
			}
			return first, nil
		}
		elems := []value.Expr{first}
		for p.match(COMMA) {
			next, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			elems = append(elems, next)
		}
		if _, err := p.expect(RIGHT_PAREN, "to close tuple expression"); err != nil {
			return nil, err
		}
		return value.TupleExpr{Elems: elems}, nil

	default:
		return nil, p.errorf("expected an expression, found %s", p.peek().Type)
	}
}

// parseExprList parses a comma-separated, possibly empty list of
// expressions up to (not consuming) the closing delimiter check supplied by
// the caller via stop.
func (p *Parser) parseExprList(stop TokenType) ([]value.Expr, error) {
	var exprs []value.Expr
	if p.check(stop) {
		return exprs, nil
	}
	for {
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, e)
		if !p.match(COMMA) {
			break
		}
	}
	return exprs, nil
}
