package analysis

import (
	"fmt"

	"github.com/blendsdk/blend65/internal/ast"
	"github.com/blendsdk/blend65/internal/diag"
	"github.com/blendsdk/blend65/internal/symtab"
	"github.com/blendsdk/blend65/internal/walker"
)

// runPass7AdvancedAnalysis runs only when Options.RunAdvancedAnalysis is
// set: unused-variable and use-before-assignment detection. Every finding
// here is a warning; this pass never touches Result's error count.
func runPass7AdvancedAnalysis(r *Result, opts Options) {
	v := &advancedVisitor{r: r, opts: opts}
	walker.New(v).Walk(r.Program)
}

type advancedVisitor struct {
	walker.BaseVisitor
	r    *Result
	opts Options

	prevScopes []*symtab.Scope
}

func (v *advancedVisitor) Enter(n ast.Node, _ []ast.Node) (skip, cont bool) {
	switch d := n.(type) {
	case *ast.FunctionDecl:
		v.pushScope(d)
	case *ast.BlockStmt:
		v.pushScope(d)
		v.checkUseBeforeAssignment(d)
	case *ast.ForStmt:
		v.pushScope(d)
	case *ast.MatchArm:
		v.pushScope(d)
	case *ast.VariableDecl:
		v.checkUnused(d)
	}
	return false, true
}

func (v *advancedVisitor) Leave(n ast.Node, _ []ast.Node) {
	switch n.(type) {
	case *ast.FunctionDecl, *ast.BlockStmt, *ast.ForStmt, *ast.MatchArm:
		v.popScope()
	}
}

func (v *advancedVisitor) pushScope(n ast.Node) {
	v.prevScopes = append(v.prevScopes, v.r.Symbols.Current)
	if scope, ok := v.r.Scopes[n]; ok {
		v.r.Symbols.Current = scope
	}
}

func (v *advancedVisitor) popScope() {
	last := len(v.prevScopes) - 1
	v.r.Symbols.Current = v.prevScopes[last]
	v.prevScopes = v.prevScopes[:last]
}

func (v *advancedVisitor) checkUnused(d *ast.VariableDecl) {
	if d.IsExported {
		return // exported bindings are part of the module's public surface
	}
	sym, ok := v.r.Symbols.Current.LookupLocal(d.Name)
	if !ok || v.r.UsedSymbols[sym] {
		return
	}
	v.r.warnf(v.opts, diag.CodeUnusedVariable, d.Span, fmt.Sprintf("%q is never used", d.Name),
		map[string]any{"name": d.Name})
}

// checkUseBeforeAssignment is a conservative, block-local approximation of
// definite assignment: it only tracks initializer-less locals declared
// directly in this block and flags a read that textually precedes the
// first assignment to that name within the same block. Reads that only
// happen after a branch (if/while/...) that might assign are not
// tracked — this undercounts rather than risks false positives.
func (v *advancedVisitor) checkUseBeforeAssignment(block *ast.BlockStmt) {
	pending := make(map[string]bool)
	for _, stmt := range block.Stmts {
		if decl, ok := stmt.(*ast.DeclStmt); ok {
			if vd, ok := decl.Decl.(*ast.VariableDecl); ok && vd.Init == nil && !vd.IsConst {
				pending[vd.Name] = true
			}
			continue
		}
		if len(pending) == 0 {
			continue
		}
		walker.New(&useBeforeAssignScanner{v: v, pending: pending}).Walk(stmt)
	}
}

type useBeforeAssignScanner struct {
	walker.BaseVisitor
	v       *advancedVisitor
	pending map[string]bool
}

func (s *useBeforeAssignScanner) Enter(n ast.Node, _ []ast.Node) (skip, cont bool) {
	if assign, ok := n.(*ast.AssignmentExpr); ok {
		if ident, ok := assign.Target.(*ast.Identifier); ok {
			delete(s.pending, ident.Name)
		}
		return false, true
	}
	if ident, ok := n.(*ast.Identifier); ok {
		if _, ok := s.pending[ident.Name]; ok {
			s.v.r.warnf(s.v.opts, diag.CodeUseBeforeAssignment, ident.Span,
				fmt.Sprintf("%q may be used before it is assigned", ident.Name),
				map[string]any{"name": ident.Name})
			delete(s.pending, ident.Name)
		}
	}
	return false, true
}
