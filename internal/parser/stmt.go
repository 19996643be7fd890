package parser

import (
	"github.com/blendsdk/blend65/internal/ast"
	"github.com/blendsdk/blend65/internal/lexer"
)

func (p *Parser) parseBlockStmt() *ast.BlockStmt {
	start := p.cur
	p.expect(lexer.LBRACE)
	var stmts []ast.Stmt
	for !p.at(lexer.RBRACE) && !p.at(lexer.EOF) {
		stmts = append(stmts, p.parseStmt())
	}
	p.expect(lexer.RBRACE)
	return &ast.BlockStmt{Stmts: stmts, Span: p.span(start)}
}

func (p *Parser) parseStmt() ast.Stmt {
	switch p.cur.Type {
	case lexer.LBRACE:
		return p.parseBlockStmt()
	case lexer.LET, lexer.CONST:
		start := p.cur
		d := p.parseVariableDecl(false)
		return &ast.DeclStmt{Decl: d, Span: p.span(start)}
	case lexer.RETURN:
		return p.parseReturnStmt()
	case lexer.IF:
		return p.parseIfStmt()
	case lexer.WHILE:
		return p.parseWhileStmt()
	case lexer.DO:
		return p.parseDoWhileStmt()
	case lexer.FOR:
		return p.parseForStmt()
	case lexer.SWITCH:
		return p.parseSwitchStmt()
	case lexer.MATCH:
		return p.parseMatchStmt()
	case lexer.BREAK:
		tok := p.cur
		p.next()
		p.expect(lexer.SEMI)
		return &ast.BreakStmt{Span: p.span(tok)}
	case lexer.CONTINUE:
		tok := p.cur
		p.next()
		p.expect(lexer.SEMI)
		return &ast.ContinueStmt{Span: p.span(tok)}
	default:
		start := p.cur
		e := p.parseExpr(precLowest)
		p.expect(lexer.SEMI)
		return &ast.ExpressionStmt{Expr: e, Span: p.span(start)}
	}
}

func (p *Parser) parseReturnStmt() *ast.ReturnStmt {
	start := p.cur
	p.next() // 'return'
	var value ast.Expr
	if !p.at(lexer.SEMI) {
		value = p.parseExpr(precLowest)
	}
	p.expect(lexer.SEMI)
	return &ast.ReturnStmt{Value: value, Span: p.span(start)}
}

func (p *Parser) parseIfStmt() *ast.IfStmt {
	start := p.cur
	p.next() // 'if'
	p.expect(lexer.LPAREN)
	cond := p.parseExpr(precLowest)
	p.expect(lexer.RPAREN)
	then := p.parseStmt()
	var elseStmt ast.Stmt
	if p.at(lexer.ELSE) {
		p.next()
		elseStmt = p.parseStmt()
	}
	return &ast.IfStmt{Condition: cond, Then: then, Else: elseStmt, Span: p.span(start)}
}

func (p *Parser) parseWhileStmt() *ast.WhileStmt {
	start := p.cur
	p.next() // 'while'
	p.expect(lexer.LPAREN)
	cond := p.parseExpr(precLowest)
	p.expect(lexer.RPAREN)
	body := p.parseStmt()
	return &ast.WhileStmt{Condition: cond, Body: body, Span: p.span(start)}
}

func (p *Parser) parseDoWhileStmt() *ast.DoWhileStmt {
	start := p.cur
	p.next() // 'do'
	body := p.parseStmt()
	p.expect(lexer.WHILE)
	p.expect(lexer.LPAREN)
	cond := p.parseExpr(precLowest)
	p.expect(lexer.RPAREN)
	p.expect(lexer.SEMI)
	return &ast.DoWhileStmt{Body: body, Condition: cond, Span: p.span(start)}
}

func (p *Parser) parseForStmt() *ast.ForStmt {
	start := p.cur
	p.next() // 'for'
	name := p.expect(lexer.IDENT).Literal
	p.expect(lexer.ASSIGN)
	from := p.parseExpr(precLowest)

	dir := ast.ForTo
	switch p.cur.Type {
	case lexer.TO:
		p.next()
	case lexer.DOWNTO:
		dir = ast.ForDownto
		p.next()
	default:
		p.errorf("expected 'to' or 'downto', got %q", p.cur.Literal)
	}
	to := p.parseExpr(precLowest)

	var step ast.Expr
	if p.at(lexer.STEP) {
		p.next()
		step = p.parseExpr(precLowest)
	}

	body := p.parseStmt()
	return &ast.ForStmt{
		Variable: name, Start: from, End: to, Step: step, Direction: dir,
		Body: body, Span: p.span(start),
	}
}

func (p *Parser) parseSwitchStmt() *ast.SwitchStmt {
	start := p.cur
	p.next() // 'switch'
	p.expect(lexer.LPAREN)
	subject := p.parseExpr(precLowest)
	p.expect(lexer.RPAREN)
	p.expect(lexer.LBRACE)

	var cases []*ast.SwitchCase
	for !p.at(lexer.RBRACE) && !p.at(lexer.EOF) {
		cstart := p.cur
		c := &ast.SwitchCase{}
		if p.at(lexer.DEFAULT) {
			p.next()
			c.IsDefault = true
		} else {
			p.expect(lexer.CASE)
			c.Values = append(c.Values, p.parseExpr(precLowest))
			for p.at(lexer.COMMA) {
				p.next()
				c.Values = append(c.Values, p.parseExpr(precLowest))
			}
		}
		p.expect(lexer.COLON)
		for !p.at(lexer.CASE) && !p.at(lexer.DEFAULT) && !p.at(lexer.RBRACE) && !p.at(lexer.EOF) {
			c.Body = append(c.Body, p.parseStmt())
		}
		c.Span = p.span(cstart)
		cases = append(cases, c)
	}
	p.expect(lexer.RBRACE)
	return &ast.SwitchStmt{Subject: subject, Cases: cases, Span: p.span(start)}
}

func (p *Parser) parseMatchStmt() *ast.MatchStmt {
	start := p.cur
	p.next() // 'match'
	p.expect(lexer.LPAREN)
	subject := p.parseExpr(precLowest)
	p.expect(lexer.RPAREN)
	p.expect(lexer.LBRACE)

	var arms []*ast.MatchArm
	for !p.at(lexer.RBRACE) && !p.at(lexer.EOF) {
		astart := p.cur
		arm := &ast.MatchArm{}
		if p.cur.Type == lexer.IDENT && p.cur.Literal == "_" {
			p.next()
			arm.IsWildcard = true
		} else {
			arm.Pattern = p.parseExpr(precLowest)
		}
		p.expect(lexer.ARROW)
		if p.at(lexer.LBRACE) {
			arm.Body = p.parseBlockStmt().Stmts
		} else {
			arm.Body = []ast.Stmt{p.parseStmt()}
		}
		if p.at(lexer.COMMA) {
			p.next()
		}
		arm.Span = p.span(astart)
		arms = append(arms, arm)
	}
	p.expect(lexer.RBRACE)
	return &ast.MatchStmt{Subject: subject, Arms: arms, Span: p.span(start)}
}
