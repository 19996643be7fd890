package parser

import (
	"github.com/blendsdk/blend65/internal/ast"
	"github.com/blendsdk/blend65/internal/lexer"
)

type precedence int

const (
	precLowest precedence = iota
	precAssign
	precTernary
	precOr
	precAnd
	precEquality
	precRelational
	precAdditive
	precMultiplicative
	precUnary
	precPostfix
)

var binaryPrec = map[lexer.TokenType]precedence{
	lexer.OR:      precOr,
	lexer.AND:     precAnd,
	lexer.EQ:      precEquality,
	lexer.NEQ:     precEquality,
	lexer.LT:      precRelational,
	lexer.LTE:     precRelational,
	lexer.GT:      precRelational,
	lexer.GTE:     precRelational,
	lexer.PLUS:    precAdditive,
	lexer.MINUS:   precAdditive,
	lexer.STAR:    precMultiplicative,
	lexer.SLASH:   precMultiplicative,
	lexer.PERCENT: precMultiplicative,
}

// parseExpr implements precedence climbing over the binary/ternary/
// assignment operator surface; prefix forms (unary, calls, indexing,
// member access) are handled by parsePrefix and parsePostfix.
func (p *Parser) parseExpr(min precedence) ast.Expr {
	left := p.parseAssign(min)
	return left
}

func (p *Parser) parseAssign(min precedence) ast.Expr {
	left := p.parseTernary(min)
	if p.at(lexer.ASSIGN) && min <= precAssign {
		start := p.cur
		p.next()
		value := p.parseAssign(precAssign)
		return &ast.AssignmentExpr{Target: left, Value: value, Span: p.span(start)}
	}
	return left
}

func (p *Parser) parseTernary(min precedence) ast.Expr {
	cond := p.parseBinary(min)
	if p.at(lexer.QUESTION) && min <= precTernary {
		start := p.cur
		p.next()
		then := p.parseAssign(precLowest)
		p.expect(lexer.COLON)
		elseExpr := p.parseAssign(precLowest)
		return &ast.TernaryExpr{Cond: cond, Then: then, Else: elseExpr, Span: p.span(start)}
	}
	return cond
}

// parseBinary is precedence-climbing over left-associative binary
// operators: each iteration consumes one operator at or above min, then
// recurses with min raised by one so a same-or-lower-precedence operator
// stops the recursive call and gets picked up by the loop instead.
func (p *Parser) parseBinary(min precedence) ast.Expr {
	left := p.parseUnary()
	for {
		prec, ok := binaryPrec[p.cur.Type]
		if !ok || prec < min {
			break
		}
		op := p.cur
		p.next()
		right := p.parseBinary(prec + 1)
		left = &ast.BinaryExpr{Left: left, Right: right, Op: op.Literal, Span: p.span(op)}
	}
	return left
}

func (p *Parser) parseUnary() ast.Expr {
	if p.at(lexer.MINUS) || p.at(lexer.NOT) {
		start := p.cur
		op := p.cur.Literal
		p.next()
		operand := p.parseUnary()
		return &ast.UnaryExpr{Op: op, Expr: operand, Span: p.span(start)}
	}
	return p.parsePostfix(p.parsePrimary())
}

func (p *Parser) parsePostfix(e ast.Expr) ast.Expr {
	for {
		switch p.cur.Type {
		case lexer.LPAREN:
			start := p.cur
			p.next()
			var args []ast.Expr
			for !p.at(lexer.RPAREN) && !p.at(lexer.EOF) {
				args = append(args, p.parseAssign(precLowest))
				if p.at(lexer.COMMA) {
					p.next()
				}
			}
			p.expect(lexer.RPAREN)
			e = &ast.CallExpr{Callee: e, Args: args, Span: p.span(start)}
		case lexer.LBRACKET:
			start := p.cur
			p.next()
			idx := p.parseExpr(precLowest)
			p.expect(lexer.RBRACKET)
			e = &ast.IndexExpr{Object: e, Index: idx, Span: p.span(start)}
		case lexer.DOT:
			start := p.cur
			p.next()
			field := p.expect(lexer.IDENT).Literal
			e = &ast.MemberExpr{Object: e, Field: field, Span: p.span(start)}
		default:
			return e
		}
	}
}

func (p *Parser) parsePrimary() ast.Expr {
	start := p.cur
	switch p.cur.Type {
	case lexer.IDENT:
		p.next()
		return &ast.Identifier{Name: start.Literal, Span: p.span(start)}
	case lexer.INT:
		p.next()
		v, _ := parseIntLiteral(start.Literal)
		base, lit := 10, start.Literal
		if lit[0] == '$' || len(lit) > 1 && (lit[1] == 'x' || lit[1] == 'X') {
			base = 16
		} else if len(lit) > 1 && (lit[1] == 'b' || lit[1] == 'B') {
			base = 2
		}
		return &ast.Literal{LKind: ast.IntLiteral, Value: v, IntBase: base, Span: p.span(start)}
	case lexer.STRING:
		p.next()
		return &ast.Literal{LKind: ast.StringLiteral, Value: start.Literal, Span: p.span(start)}
	case lexer.TRUE:
		p.next()
		return &ast.Literal{LKind: ast.BoolLiteral, Value: true, Span: p.span(start)}
	case lexer.FALSE:
		p.next()
		return &ast.Literal{LKind: ast.BoolLiteral, Value: false, Span: p.span(start)}
	case lexer.LPAREN:
		p.next()
		e := p.parseExpr(precLowest)
		p.expect(lexer.RPAREN)
		return e
	case lexer.LBRACKET:
		p.next()
		var elems []ast.Expr
		for !p.at(lexer.RBRACKET) && !p.at(lexer.EOF) {
			elems = append(elems, p.parseAssign(precLowest))
			if p.at(lexer.COMMA) {
				p.next()
			}
		}
		p.expect(lexer.RBRACKET)
		return &ast.ArrayLiteralExpr{Elements: elems, Span: p.span(start)}
	default:
		p.errorf("unexpected token %q in expression", p.cur.Literal)
		p.next()
		return &ast.Identifier{Name: "<error>", Span: p.span(start)}
	}
}
