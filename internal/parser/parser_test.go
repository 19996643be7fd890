package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blendsdk/blend65/internal/ast"
	"github.com/blendsdk/blend65/internal/parser"
)

func parseOK(t *testing.T, src string) *ast.Program {
	t.Helper()
	p := parser.New([]byte(src), "t.blend")
	prog, errs := p.Parse()
	require.Empty(t, errs, "unexpected parse errors for %q", src)
	return prog
}

func TestParse_ModuleAndImportHeader(t *testing.T) {
	prog := parseOK(t, `module Game.Main; import { draw, clear } from "Gfx"; `)
	require.NotNil(t, prog.Module)
	assert.Equal(t, "Game.Main", prog.Module.Name)
	require.Len(t, prog.Imports, 1)
	assert.Equal(t, "Gfx", prog.Imports[0].Module)
	assert.Equal(t, []string{"draw", "clear"}, prog.Imports[0].Names)
}

func TestParse_ExportedFunctionWrapsInExportDecl(t *testing.T) {
	prog := parseOK(t, `module t; export function f(): void { }`)
	require.Len(t, prog.Decls, 1)
	ed, ok := prog.Decls[0].(*ast.ExportDecl)
	require.True(t, ok, "expected *ast.ExportDecl, got %T", prog.Decls[0])
	fn, ok := ed.Inner.(*ast.FunctionDecl)
	require.True(t, ok)
	assert.True(t, fn.IsExported)
	assert.Equal(t, "f", ed.DeclName())
}

func TestParse_FunctionCallbackStubHasNilBody(t *testing.T) {
	prog := parseOK(t, `module t; function onIRQ(): void;`)
	fn := prog.Decls[0].(*ast.FunctionDecl)
	assert.True(t, fn.IsCallback)
	assert.Nil(t, fn.Body)
}

func TestParse_ArrayTypeAnnotationWithAndWithoutLength(t *testing.T) {
	prog := parseOK(t, `module t; let xs: byte[10] = [1, 2, 3]; let ys: byte[] = [];`)
	fixed := prog.Decls[0].(*ast.VariableDecl)
	arr, ok := fixed.Type.(*ast.ArrayTypeAnnotation)
	require.True(t, ok)
	assert.Equal(t, 10, arr.Length)

	unspec := prog.Decls[1].(*ast.VariableDecl)
	arr2 := unspec.Type.(*ast.ArrayTypeAnnotation)
	assert.Equal(t, -1, arr2.Length)
}

func TestParse_BinaryPrecedence_MultiplyBindsTighterThanAdd(t *testing.T) {
	prog := parseOK(t, `module t; let x: byte = 1 + 2 * 3;`)
	decl := prog.Decls[0].(*ast.VariableDecl)
	bin := decl.Init.(*ast.BinaryExpr)
	assert.Equal(t, "+", bin.Op)
	rhs, ok := bin.Right.(*ast.BinaryExpr)
	require.True(t, ok, "2*3 should be grouped as the right operand of +")
	assert.Equal(t, "*", rhs.Op)
}

func TestParse_BinaryIsLeftAssociative(t *testing.T) {
	prog := parseOK(t, `module t; let x: byte = 1 - 2 - 3;`)
	decl := prog.Decls[0].(*ast.VariableDecl)
	top := decl.Init.(*ast.BinaryExpr)
	assert.Equal(t, "-", top.Op)
	lhs, ok := top.Left.(*ast.BinaryExpr)
	require.True(t, ok, "(1-2)-3 should group the left pair first")
	assert.Equal(t, "-", lhs.Op)
}

func TestParse_TernaryAssociatesRightOfAssignment(t *testing.T) {
	prog := parseOK(t, `module t; function f(): void { x = a ? b : c; }`)
	fn := prog.Decls[0].(*ast.FunctionDecl)
	exprStmt := fn.Body.Stmts[0].(*ast.ExpressionStmt)
	assign := exprStmt.Expr.(*ast.AssignmentExpr)
	_, ok := assign.Value.(*ast.TernaryExpr)
	assert.True(t, ok, "assignment value should be a ternary expression")
}

func TestParse_CallIndexMemberChainPostfix(t *testing.T) {
	prog := parseOK(t, `module t; function f(): void { a.b[0](1, 2); }`)
	fn := prog.Decls[0].(*ast.FunctionDecl)
	exprStmt := fn.Body.Stmts[0].(*ast.ExpressionStmt)
	call, ok := exprStmt.Expr.(*ast.CallExpr)
	require.True(t, ok)
	assert.Len(t, call.Args, 2)
	idx, ok := call.Callee.(*ast.IndexExpr)
	require.True(t, ok)
	member, ok := idx.Object.(*ast.MemberExpr)
	require.True(t, ok)
	assert.Equal(t, "b", member.Field)
}

func TestParse_ForStmtDirectionAndStep(t *testing.T) {
	prog := parseOK(t, `module t; function f(): void { for i = 10 downto 0 step 2 { } }`)
	fn := prog.Decls[0].(*ast.FunctionDecl)
	forStmt := fn.Body.Stmts[0].(*ast.ForStmt)
	assert.Equal(t, ast.ForDownto, forStmt.Direction)
	assert.Equal(t, "i", forStmt.Variable)
	require.NotNil(t, forStmt.Step)
}

func TestParse_MatchStmtWildcardArm(t *testing.T) {
	prog := parseOK(t, `module t; function f(): void { match (x) { 1 -> { } _ -> { } } }`)
	fn := prog.Decls[0].(*ast.FunctionDecl)
	m := fn.Body.Stmts[0].(*ast.MatchStmt)
	require.Len(t, m.Arms, 2)
	assert.False(t, m.Arms[0].IsWildcard)
	assert.True(t, m.Arms[1].IsWildcard)
}

func TestParse_SwitchStmtDefaultCase(t *testing.T) {
	prog := parseOK(t, `module t; function f(): void { switch (x) { case 1, 2: break; default: break; } }`)
	fn := prog.Decls[0].(*ast.FunctionDecl)
	sw := fn.Body.Stmts[0].(*ast.SwitchStmt)
	require.Len(t, sw.Cases, 2)
	assert.Len(t, sw.Cases[0].Values, 2)
	assert.True(t, sw.Cases[1].IsDefault)
}

func TestParse_MapSimpleDecl(t *testing.T) {
	prog := parseOK(t, `module t; @map border at $D020: byte;`)
	m := prog.Decls[0].(*ast.MapSimpleDecl)
	assert.Equal(t, uint16(0xD020), m.Address)
}

func TestParse_MapRangeDecl(t *testing.T) {
	prog := parseOK(t, `module t; @map screen at $0400..$07E7: byte;`)
	m := prog.Decls[0].(*ast.MapRangeDecl)
	assert.Equal(t, uint16(0x0400), m.BaseAddress)
	assert.Equal(t, uint16(0x07E7), m.EndAddress)
}

func TestParse_MapSequentialStructDeclAssignsOffsetsInOrder(t *testing.T) {
	prog := parseOK(t, `module t; @map sprite at $D000 { x: byte, y: byte, color: byte };`)
	m := prog.Decls[0].(*ast.MapSequentialStructDecl)
	require.Len(t, m.Fields, 3)
	assert.Equal(t, uint16(0), m.Fields[0].Offset)
	assert.Equal(t, uint16(1), m.Fields[1].Offset)
	assert.Equal(t, uint16(2), m.Fields[2].Offset)
}

func TestParse_MapExplicitStructDeclEachFieldOwnAddress(t *testing.T) {
	prog := parseOK(t, `module t; @map vic { border at $D020: byte, background at $D021: byte };`)
	m := prog.Decls[0].(*ast.MapExplicitStructDecl)
	require.Len(t, m.Fields, 2)
	assert.Equal(t, uint16(0xD020), m.Fields[0].Offset)
	assert.Equal(t, uint16(0xD021), m.Fields[1].Offset)
}

func TestParse_EnumDeclWithExplicitValues(t *testing.T) {
	prog := parseOK(t, `module t; enum Color : byte { Red = 0, Green = 1, Blue = 2 }`)
	e := prog.Decls[0].(*ast.EnumDecl)
	require.Len(t, e.Members, 3)
	assert.Equal(t, "Red", e.Members[0].Name)
}

func TestParse_SyntaxErrorIsReportedNotPanicked(t *testing.T) {
	p := parser.New([]byte(`module t; let x: byte = ;`), "t.blend")
	_, errs := p.Parse()
	assert.NotEmpty(t, errs)
}
