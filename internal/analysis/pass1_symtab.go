package analysis

import (
	"fmt"

	"github.com/blendsdk/blend65/internal/ast"
	"github.com/blendsdk/blend65/internal/diag"
	"github.com/blendsdk/blend65/internal/typesys"
	"github.com/blendsdk/blend65/internal/walker"
)

// runPass1SymbolTableBuild walks the whole program once, declaring every
// name (top-level and nested) into the scope it is lexically introduced
// in. Types are left unresolved here (Builtins.Unknown, including every
// function's Params/Return) — TypeResolution fills them in during Pass 2
// once every name is already known to exist.
func runPass1SymbolTableBuild(r *Result, opts Options) {
	v := &symtabVisitor{r: r, opts: opts}
	walker.New(v).Walk(r.Program)
}

type symtabVisitor struct {
	walker.BaseVisitor
	r    *Result
	opts Options
}

func (v *symtabVisitor) Enter(n ast.Node, parents []ast.Node) (skip, cont bool) {
	if v.r.stopped {
		return false, false
	}
	switch d := n.(type) {
	case *ast.FunctionDecl:
		params := make([]typesys.Type, len(d.Params))
		for i := range params {
			params[i] = typesys.Builtins.Unknown
		}
		_, ok := v.r.Symbols.DeclareFunction(d.Name, d.Span, typesys.Builtins.Unknown, params, d.IsCallback, parentExported(parents))
		if !ok {
			v.duplicateDecl(d.Name, d.Span)
		}
		v.r.Scopes[d] = v.r.Symbols.PushScope()
		for _, p := range d.Params {
			if _, ok := v.r.Symbols.DeclareVariable(p.Name, p.Span, typesys.Builtins.Unknown, false, false); !ok {
				v.duplicateDecl(p.Name, p.Span)
			}
		}

	case *ast.VariableDecl:
		if _, ok := v.r.Symbols.DeclareVariable(d.Name, d.Span, typesys.Builtins.Unknown, d.IsConst, parentExported(parents)); !ok {
			v.duplicateDecl(d.Name, d.Span)
		}

	case *ast.TypeDecl:
		if _, ok := v.r.Symbols.DeclareType(d.Name, d.Span, typesys.Builtins.Unknown, parentExported(parents)); !ok {
			v.duplicateDecl(d.Name, d.Span)
		}

	case *ast.EnumDecl:
		if _, ok := v.r.Symbols.DeclareEnum(d.Name, d.Span, typesys.Builtins.Unknown, parentExported(parents)); !ok {
			v.duplicateDecl(d.Name, d.Span)
		}

	case *ast.MapSimpleDecl:
		v.declareMapBinding(d.Name, d.Span)
	case *ast.MapRangeDecl:
		v.declareMapBinding(d.Name, d.Span)
	case *ast.MapSequentialStructDecl:
		v.declareMapBinding(d.Name, d.Span)
	case *ast.MapExplicitStructDecl:
		v.declareMapBinding(d.Name, d.Span)

	case *ast.ImportDecl:
		for _, name := range d.Names {
			if _, ok := v.r.Symbols.DeclareImport(name, d.Module, name, d.Span); !ok {
				v.duplicateDecl(name, d.Span)
			}
		}

	case *ast.BlockStmt:
		v.r.Scopes[n] = v.r.Symbols.PushScope()

	case *ast.ForStmt:
		v.r.Scopes[n] = v.r.Symbols.PushScope()
		if _, ok := v.r.Symbols.DeclareVariable(d.Variable, d.Span, typesys.Builtins.Unknown, false, false); !ok {
			v.duplicateDecl(d.Variable, d.Span)
		}

	case *ast.MatchArm:
		v.r.Scopes[n] = v.r.Symbols.PushScope()
	}
	return false, true
}

func (v *symtabVisitor) Leave(n ast.Node, _ []ast.Node) {
	switch n.(type) {
	case *ast.FunctionDecl:
		v.r.Symbols.PopScope()
	case *ast.BlockStmt:
		v.r.Symbols.PopScope()
	case *ast.ForStmt:
		v.r.Symbols.PopScope()
	case *ast.MatchArm:
		v.r.Symbols.PopScope()
	}
}

func (v *symtabVisitor) declareMapBinding(name string, span ast.Span) {
	if _, ok := v.r.Symbols.DeclareVariable(name, span, typesys.Builtins.Unknown, true, false); !ok {
		v.duplicateDecl(name, span)
	}
}

func (v *symtabVisitor) duplicateDecl(name string, span ast.Span) {
	v.r.errorf(v.opts, diag.CodeDuplicateDeclaration, span,
		fmt.Sprintf("%q is already declared in this scope", name),
		map[string]any{"name": name})
}

// parentExported reports whether the nearest declaration-shaped ancestor
// is an ExportDecl — used because `export` wraps the declaration rather
// than being a flag the declaration visits itself with.
func parentExported(parents []ast.Node) bool {
	if len(parents) == 0 {
		return false
	}
	_, ok := parents[len(parents)-1].(*ast.ExportDecl)
	return ok
}
