// Package parser implements a recursive-descent parser over the lexer's
// token stream, producing an *ast.Program. It exists to drive the
// semantic analyzer from literal source text in tests.
package parser

import (
	"fmt"

	"github.com/blendsdk/blend65/internal/ast"
	"github.com/blendsdk/blend65/internal/lexer"
	"github.com/blendsdk/blend65/internal/typesys"
)

// Parser holds a one-token lookahead buffer over a Lexer.
type Parser struct {
	l    *lexer.Lexer
	file string

	cur  lexer.Token
	peek lexer.Token

	errors []error
}

// New creates a Parser over already-normalized source bytes.
func New(src []byte, file string) *Parser {
	p := &Parser{l: lexer.New(src, file), file: file}
	p.next()
	p.next()
	return p
}

// Errors returns every syntax error accumulated during Parse.
func (p *Parser) Errors() []error { return p.errors }

func (p *Parser) next() {
	p.cur = p.peek
	p.peek = p.l.Next()
}

func (p *Parser) span(start lexer.Token) ast.Span {
	return ast.Span{
		Start: ast.Pos{Line: start.Line, Column: start.Column, Offset: start.Offset, File: p.file},
		End:   ast.Pos{Line: p.cur.Line, Column: p.cur.Column, Offset: p.cur.Offset, File: p.file},
	}
}

func (p *Parser) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Errorf("%s:%d:%d: %s", p.file, p.cur.Line, p.cur.Column, fmt.Sprintf(format, args...)))
}

func (p *Parser) expect(tt lexer.TokenType) lexer.Token {
	tok := p.cur
	if p.cur.Type != tt {
		p.errorf("unexpected token %q", p.cur.Literal)
	} else {
		p.next()
	}
	return tok
}

func (p *Parser) at(tt lexer.TokenType) bool { return p.cur.Type == tt }

// Parse parses one compilation unit.
func (p *Parser) Parse() (*ast.Program, []error) {
	start := p.cur
	prog := &ast.Program{}

	if p.at(lexer.MODULE) {
		prog.Module = p.parseModuleDecl()
	}

	for p.at(lexer.IMPORT) {
		prog.Imports = append(prog.Imports, p.parseImportDecl())
	}

	for !p.at(lexer.EOF) {
		if d := p.parseTopLevelDecl(); d != nil {
			prog.Decls = append(prog.Decls, d)
		} else {
			p.next() // avoid infinite loop on unrecoverable token
		}
	}

	prog.Span = p.span(start)
	return prog, p.errors
}

func (p *Parser) parseModuleDecl() *ast.ModuleDecl {
	start := p.cur
	p.next() // 'module'
	name := p.expect(lexer.IDENT).Literal
	for p.at(lexer.DOT) {
		p.next()
		name += "." + p.expect(lexer.IDENT).Literal
	}
	p.expect(lexer.SEMI)
	return &ast.ModuleDecl{Name: name, Span: p.span(start)}
}

func (p *Parser) parseImportDecl() *ast.ImportDecl {
	start := p.cur
	p.next() // 'import'
	var names []string
	p.expect(lexer.LBRACE)
	for !p.at(lexer.RBRACE) && !p.at(lexer.EOF) {
		names = append(names, p.expect(lexer.IDENT).Literal)
		if p.at(lexer.COMMA) {
			p.next()
		}
	}
	p.expect(lexer.RBRACE)
	p.expect(lexer.FROM)
	module := p.expect(lexer.STRING).Literal
	p.expect(lexer.SEMI)
	return &ast.ImportDecl{Module: module, Names: names, Span: p.span(start)}
}

func (p *Parser) parseTopLevelDecl() ast.Decl {
	start := p.cur
	exported := false
	if p.at(lexer.EXPORT) {
		exported = true
		p.next()
	}

	var d ast.Decl
	switch p.cur.Type {
	case lexer.FUNCTION:
		d = p.parseFunctionDecl(exported)
	case lexer.LET, lexer.CONST:
		d = p.parseVariableDecl(exported)
	case lexer.TYPE:
		d = p.parseTypeDecl(exported)
	case lexer.ENUM:
		d = p.parseEnumDecl(exported)
	case lexer.ATSIGN:
		d = p.parseMapDecl()
	default:
		p.errorf("expected a top-level declaration, got %q", p.cur.Literal)
		return nil
	}

	if exported {
		return &ast.ExportDecl{Inner: d, Span: p.span(start)}
	}
	return d
}

func (p *Parser) parseTypeAnnotation() ast.TypeAnnotation {
	start := p.cur
	name := p.expect(lexer.IDENT).Literal
	var t ast.TypeAnnotation = &ast.NamedTypeAnnotation{Name: name, Span: p.span(start)}
	for p.at(lexer.LBRACKET) {
		p.next()
		length := -1
		if p.at(lexer.INT) {
			if v, ok := parseIntLiteral(p.cur.Literal); ok {
				length = int(v)
			}
			p.next()
		}
		p.expect(lexer.RBRACKET)
		t = &ast.ArrayTypeAnnotation{Element: t, Length: length, Span: p.span(start)}
	}
	return t
}

func (p *Parser) parseParams() []*ast.Param {
	p.expect(lexer.LPAREN)
	var params []*ast.Param
	for !p.at(lexer.RPAREN) && !p.at(lexer.EOF) {
		start := p.cur
		name := p.expect(lexer.IDENT).Literal
		p.expect(lexer.COLON)
		typ := p.parseTypeAnnotation()
		params = append(params, &ast.Param{Name: name, Type: typ, Span: p.span(start)})
		if p.at(lexer.COMMA) {
			p.next()
		}
	}
	p.expect(lexer.RPAREN)
	return params
}

func (p *Parser) parseFunctionDecl(exported bool) *ast.FunctionDecl {
	start := p.cur
	p.next() // 'function'
	name := p.expect(lexer.IDENT).Literal
	params := p.parseParams()
	var ret ast.TypeAnnotation
	if p.at(lexer.COLON) {
		p.next()
		ret = p.parseTypeAnnotation()
	} else {
		ret = &ast.NamedTypeAnnotation{Name: "void", Span: p.span(start)}
	}

	fn := &ast.FunctionDecl{Name: name, Params: params, ReturnType: ret, IsExported: exported}
	if p.at(lexer.SEMI) {
		fn.IsCallback = true
		p.next()
	} else {
		fn.Body = p.parseBlockStmt()
	}
	fn.Span = p.span(start)
	return fn
}

func (p *Parser) parseVariableDecl(exported bool) *ast.VariableDecl {
	start := p.cur
	isConst := p.at(lexer.CONST)
	p.next() // 'let'/'const'
	name := p.expect(lexer.IDENT).Literal

	var typ ast.TypeAnnotation
	if p.at(lexer.COLON) {
		p.next()
		typ = p.parseTypeAnnotation()
	}

	var init ast.Expr
	if p.at(lexer.ASSIGN) {
		p.next()
		init = p.parseExpr(precLowest)
	}
	p.expect(lexer.SEMI)

	return &ast.VariableDecl{
		Name: name, Type: typ, Init: init, IsConst: isConst, IsExported: exported,
		Span: p.span(start),
	}
}

func (p *Parser) parseTypeDecl(exported bool) *ast.TypeDecl {
	start := p.cur
	p.next() // 'type'
	name := p.expect(lexer.IDENT).Literal
	p.expect(lexer.ASSIGN)
	underlying := p.parseTypeAnnotation()
	p.expect(lexer.SEMI)
	return &ast.TypeDecl{Name: name, Underlying: underlying, IsExported: exported, Span: p.span(start)}
}

func (p *Parser) parseEnumDecl(exported bool) *ast.EnumDecl {
	start := p.cur
	p.next() // 'enum'
	name := p.expect(lexer.IDENT).Literal
	var underlying ast.TypeAnnotation
	if p.at(lexer.COLON) {
		p.next()
		underlying = p.parseTypeAnnotation()
	}
	p.expect(lexer.LBRACE)
	var members []*ast.EnumMember
	for !p.at(lexer.RBRACE) && !p.at(lexer.EOF) {
		mstart := p.cur
		mname := p.expect(lexer.IDENT).Literal
		var value ast.Expr
		if p.at(lexer.ASSIGN) {
			p.next()
			value = p.parseExpr(precLowest)
		}
		members = append(members, &ast.EnumMember{Name: mname, Value: value, Span: p.span(mstart)})
		if p.at(lexer.COMMA) {
			p.next()
		}
	}
	p.expect(lexer.RBRACE)
	return &ast.EnumDecl{Name: name, Underlying: underlying, Members: members, IsExported: exported, Span: p.span(start)}
}

// parseMapDecl covers all four `@map` forms: Simple (`@map name at $ADDR:
// Type;`), Range (`@map name at $LO..$HI: Type;`), SequentialStruct
// (`@map name at $ADDR { field: Type, ... };`, offsets assigned in
// declaration order), and ExplicitStruct (`@map name { field at $ADDR:
// Type, ... };`, no base address — each field names its own).
func (p *Parser) parseMapDecl() ast.Decl {
	start := p.cur
	p.next() // '@'
	p.expect(lexer.MAP)
	name := p.expect(lexer.IDENT).Literal

	if p.at(lexer.LBRACE) {
		p.next()
		var fields []*ast.MapStructField
		for !p.at(lexer.RBRACE) && !p.at(lexer.EOF) {
			fstart := p.cur
			fname := p.expect(lexer.IDENT).Literal
			p.expect(lexer.AT)
			addrTok := p.expect(lexer.INT)
			addr, _ := parseIntLiteral(addrTok.Literal)
			p.expect(lexer.COLON)
			ftype := p.parseTypeAnnotation()
			fields = append(fields, &ast.MapStructField{Name: fname, Type: ftype, Offset: uint16(addr), Span: p.span(fstart)})
			if p.at(lexer.COMMA) {
				p.next()
			}
		}
		p.expect(lexer.RBRACE)
		p.expect(lexer.SEMI)
		return &ast.MapExplicitStructDecl{Name: name, Fields: fields, Span: p.span(start)}
	}

	p.expect(lexer.AT)
	addrTok := p.expect(lexer.INT)
	base, _ := parseIntLiteral(addrTok.Literal)

	if p.at(lexer.DOTDOT) {
		p.next()
		endTok := p.expect(lexer.INT)
		end, _ := parseIntLiteral(endTok.Literal)
		p.expect(lexer.COLON)
		elemType := p.parseTypeAnnotation()
		p.expect(lexer.SEMI)
		return &ast.MapRangeDecl{Name: name, BaseAddress: uint16(base), EndAddress: uint16(end), ElementType: elemType, Span: p.span(start)}
	}

	if p.at(lexer.LBRACE) {
		p.next()
		var fields []*ast.MapStructField
		offset := uint16(0)
		for !p.at(lexer.RBRACE) && !p.at(lexer.EOF) {
			fstart := p.cur
			fname := p.expect(lexer.IDENT).Literal
			p.expect(lexer.COLON)
			ftype := p.parseTypeAnnotation()
			fields = append(fields, &ast.MapStructField{Name: fname, Type: ftype, Offset: offset, Span: p.span(fstart)})
			offset++
			if p.at(lexer.COMMA) {
				p.next()
			}
		}
		p.expect(lexer.RBRACE)
		p.expect(lexer.SEMI)
		return &ast.MapSequentialStructDecl{Name: name, BaseAddress: uint16(base), Fields: fields, Span: p.span(start)}
	}

	p.expect(lexer.COLON)
	typ := p.parseTypeAnnotation()
	p.expect(lexer.SEMI)
	return &ast.MapSimpleDecl{Name: name, Address: uint16(base), Type: typ, Span: p.span(start)}
}

func parseIntLiteral(text string) (int64, bool) {
	v, _, ok := typesys.ParseIntLiteral(text)
	return v, ok
}
