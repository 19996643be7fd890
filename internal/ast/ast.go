// Package ast defines the immutable tree produced by the parser.
//
// Node shape is closed: every concrete type below is one of the kinds
// named in the language surface (module header, declarations, statements,
// expressions, map bindings). The tree is never mutated after parsing;
// the type checker records each expression's type in a sidecar map
// (analysis.Result.TypeOf), not on the node.
package ast

import "fmt"

// Pos is a single point in source text.
type Pos struct {
	Line   int
	Column int
	Offset int
	File   string
}

func (p Pos) String() string {
	if p.File == "" {
		return fmt.Sprintf("%d:%d", p.Line, p.Column)
	}
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}

// Span is a half-open source range; End is the position of the first
// token after the node, not of the node's last character.
type Span struct {
	Start Pos
	End   Pos
}

// Node is implemented by every AST node.
type Node interface {
	Position() Span
	Kind() NodeKind
}

// NodeKind discriminates AST nodes for walkers, without requiring type
// assertions to know "what am I looking at" before dispatch.
type NodeKind int

const (
	KindProgram NodeKind = iota
	KindModuleDecl
	KindImportDecl
	KindExportDecl
	KindFunctionDecl
	KindVariableDecl
	KindTypeDecl
	KindEnumDecl
	KindMapSimpleDecl
	KindMapRangeDecl
	KindMapSequentialStructDecl
	KindMapExplicitStructDecl

	KindBinaryExpr
	KindUnaryExpr
	KindTernaryExpr
	KindLiteralExpr
	KindIdentifierExpr
	KindCallExpr
	KindIndexExpr
	KindMemberExpr
	KindAssignmentExpr
	KindArrayLiteralExpr

	KindReturnStmt
	KindIfStmt
	KindWhileStmt
	KindForStmt
	KindDoWhileStmt
	KindSwitchStmt
	KindMatchStmt
	KindBreakStmt
	KindContinueStmt
	KindExpressionStmt
	KindBlockStmt
	KindMatchArm
)

func (k NodeKind) String() string {
	switch k {
	case KindProgram:
		return "Program"
	case KindModuleDecl:
		return "ModuleDecl"
	case KindImportDecl:
		return "ImportDecl"
	case KindExportDecl:
		return "ExportDecl"
	case KindFunctionDecl:
		return "FunctionDecl"
	case KindVariableDecl:
		return "VariableDecl"
	case KindTypeDecl:
		return "TypeDecl"
	case KindEnumDecl:
		return "EnumDecl"
	case KindMapSimpleDecl:
		return "MapSimpleDecl"
	case KindMapRangeDecl:
		return "MapRangeDecl"
	case KindMapSequentialStructDecl:
		return "MapSequentialStructDecl"
	case KindMapExplicitStructDecl:
		return "MapExplicitStructDecl"
	case KindBinaryExpr:
		return "BinaryExpr"
	case KindUnaryExpr:
		return "UnaryExpr"
	case KindTernaryExpr:
		return "TernaryExpr"
	case KindLiteralExpr:
		return "LiteralExpr"
	case KindIdentifierExpr:
		return "IdentifierExpr"
	case KindCallExpr:
		return "CallExpr"
	case KindIndexExpr:
		return "IndexExpr"
	case KindMemberExpr:
		return "MemberExpr"
	case KindAssignmentExpr:
		return "AssignmentExpr"
	case KindArrayLiteralExpr:
		return "ArrayLiteralExpr"
	case KindReturnStmt:
		return "ReturnStmt"
	case KindIfStmt:
		return "IfStmt"
	case KindWhileStmt:
		return "WhileStmt"
	case KindForStmt:
		return "ForStmt"
	case KindDoWhileStmt:
		return "DoWhileStmt"
	case KindSwitchStmt:
		return "SwitchStmt"
	case KindMatchStmt:
		return "MatchStmt"
	case KindBreakStmt:
		return "BreakStmt"
	case KindContinueStmt:
		return "ContinueStmt"
	case KindExpressionStmt:
		return "ExpressionStmt"
	case KindBlockStmt:
		return "BlockStmt"
	case KindMatchArm:
		return "MatchArm"
	default:
		return "Unknown"
	}
}

// Expr is implemented by all expression nodes.
type Expr interface {
	Node
	exprNode()
}

// Stmt is implemented by all statement nodes.
type Stmt interface {
	Node
	stmtNode()
}

// Decl is implemented by all top-level and nested declaration nodes.
type Decl interface {
	Node
	declNode()
	DeclName() string
}

// StorageClass names the memory region a global variable or map binding
// lives in.
type StorageClass int

const (
	StorageDefault StorageClass = iota
	StorageZeroPage
	StorageData
	StorageRam
	StorageMap
)

func (s StorageClass) String() string {
	switch s {
	case StorageZeroPage:
		return "zeropage"
	case StorageData:
		return "data"
	case StorageRam:
		return "ram"
	case StorageMap:
		return "map"
	default:
		return "default"
	}
}

// Program is the root of one compilation unit: one module header, its
// imports/exports, and the ordered top-level declarations.
type Program struct {
	Module  *ModuleDecl
	Imports []*ImportDecl
	Decls   []Decl
	Span    Span
}

func (p *Program) Position() Span { return p.Span }
func (p *Program) Kind() NodeKind { return KindProgram }

// ModuleDecl is the `module Name.Qualified;` header.
type ModuleDecl struct {
	Name string
	Span Span
}

func (m *ModuleDecl) Position() Span { return m.Span }
func (m *ModuleDecl) Kind() NodeKind { return KindModuleDecl }

// ImportDecl is `import { names } from "Module";`.
type ImportDecl struct {
	Module string
	Names  []string
	Span   Span
}

func (i *ImportDecl) Position() Span { return i.Span }
func (i *ImportDecl) Kind() NodeKind { return KindImportDecl }

// ExportDecl wraps exactly one declaration with `export`.
type ExportDecl struct {
	Inner Decl
	Span  Span
}

func (e *ExportDecl) Position() Span    { return e.Span }
func (e *ExportDecl) Kind() NodeKind    { return KindExportDecl }
func (e *ExportDecl) declNode()         {}
func (e *ExportDecl) DeclName() string  { return e.Inner.DeclName() }

// Param is one function parameter.
type Param struct {
	Name string
	Type TypeAnnotation
	Span Span
}

// FunctionDecl is `function name(params): ReturnType { body }`.
//
// Body is nil for a callback stub (a declared-but-unimplemented
// hardware-callback signature).
type FunctionDecl struct {
	Name       string
	Params     []*Param
	ReturnType TypeAnnotation
	Body       *BlockStmt
	IsCallback bool
	IsExported bool
	Span       Span
}

func (f *FunctionDecl) Position() Span   { return f.Span }
func (f *FunctionDecl) Kind() NodeKind   { return KindFunctionDecl }
func (f *FunctionDecl) declNode()        {}
func (f *FunctionDecl) DeclName() string { return f.Name }

// VariableDecl is `let`/`const` with optional type and initializer.
type VariableDecl struct {
	Name        string
	Type        TypeAnnotation // may be nil if inferred from Init
	Init        Expr           // may be nil (const requires non-nil, checked in TypeResolution)
	IsConst     bool
	IsExported  bool
	Storage     StorageClass
	Span        Span
}

func (v *VariableDecl) Position() Span   { return v.Span }
func (v *VariableDecl) Kind() NodeKind   { return KindVariableDecl }
func (v *VariableDecl) declNode()        {}
func (v *VariableDecl) DeclName() string { return v.Name }

// TypeDecl is a named type alias: `type Name = Underlying;`.
type TypeDecl struct {
	Name       string
	Underlying TypeAnnotation
	IsExported bool
	Span       Span
}

func (t *TypeDecl) Position() Span   { return t.Span }
func (t *TypeDecl) Kind() NodeKind   { return KindTypeDecl }
func (t *TypeDecl) declNode()        {}
func (t *TypeDecl) DeclName() string { return t.Name }

// EnumMember is one named member of an enum, with an optional explicit
// value expression (must fold to a literal in range for its underlying
// type; see Pass 2).
type EnumMember struct {
	Name  string
	Value Expr // nil if implicit (auto-incremented)
	Span  Span
}

// EnumDecl is `enum Name : UnderlyingType { members };` (UnderlyingType
// defaults to byte).
type EnumDecl struct {
	Name       string
	Underlying TypeAnnotation // nil means byte
	Members    []*EnumMember
	IsExported bool
	Span       Span
}

func (e *EnumDecl) Position() Span   { return e.Span }
func (e *EnumDecl) Kind() NodeKind   { return KindEnumDecl }
func (e *EnumDecl) declNode()        {}
func (e *EnumDecl) DeclName() string { return e.Name }

// MapSimpleDecl is `@map name at $ADDR: Type;`.
type MapSimpleDecl struct {
	Name    string
	Address uint16
	Type    TypeAnnotation
	Span    Span
}

func (m *MapSimpleDecl) Position() Span   { return m.Span }
func (m *MapSimpleDecl) Kind() NodeKind   { return KindMapSimpleDecl }
func (m *MapSimpleDecl) declNode()        {}
func (m *MapSimpleDecl) DeclName() string { return m.Name }

// MapRangeDecl is `@map name at $START..$END: Type;`.
type MapRangeDecl struct {
	Name         string
	BaseAddress  uint16
	EndAddress   uint16
	ElementType  TypeAnnotation
	Span         Span
}

func (m *MapRangeDecl) Position() Span   { return m.Span }
func (m *MapRangeDecl) Kind() NodeKind   { return KindMapRangeDecl }
func (m *MapRangeDecl) declNode()        {}
func (m *MapRangeDecl) DeclName() string { return m.Name }

// MapStructField is one field of a `@map` struct binding.
type MapStructField struct {
	Name    string
	Type    TypeAnnotation
	Offset  uint16 // explicit for ExplicitStruct, computed for SequentialStruct
	Span    Span
}

// MapSequentialStructDecl binds consecutive addresses starting at
// BaseAddress to fields in declaration order.
type MapSequentialStructDecl struct {
	Name        string
	BaseAddress uint16
	Fields      []*MapStructField
	Span        Span
}

func (m *MapSequentialStructDecl) Position() Span   { return m.Span }
func (m *MapSequentialStructDecl) Kind() NodeKind   { return KindMapSequentialStructDecl }
func (m *MapSequentialStructDecl) declNode()        {}
func (m *MapSequentialStructDecl) DeclName() string { return m.Name }

// MapExplicitStructDecl binds each field to its own explicit address.
type MapExplicitStructDecl struct {
	Name   string
	Fields []*MapStructField
	Span   Span
}

func (m *MapExplicitStructDecl) Position() Span   { return m.Span }
func (m *MapExplicitStructDecl) Kind() NodeKind   { return KindMapExplicitStructDecl }
func (m *MapExplicitStructDecl) declNode()        {}
func (m *MapExplicitStructDecl) DeclName() string { return m.Name }
