// Package walker provides generic AST traversal: a side-effecting Walker,
// a node-replacing Transformer, Collector/Finder/Counter accumulators, and
// a ContextWalker that tracks scope-kind nesting.
//
// A bare `switch v := node.(type)` dispatch at every call site doesn't
// scale past a couple of passes; this package factors that recurring
// dispatch into one generalized traversal so the seven-pass analyzer
// (internal/analysis) can share one notion of "visit every node" instead
// of re-deriving it per pass.
package walker

import "github.com/blendsdk/blend65/internal/ast"

// Visitor is implemented by callers of Walk. Enter returns true for skip
// to suppress recursion into that node's children; it returns false for
// cont to abort the remainder of the traversal entirely.
type Visitor interface {
	Enter(node ast.Node, parents []ast.Node) (skip, cont bool)
	Leave(node ast.Node, parents []ast.Node)
}

// BaseVisitor gives callers a zero-value Visitor they can embed and
// override only the Enter/Leave hooks they care about.
type BaseVisitor struct{}

func (BaseVisitor) Enter(ast.Node, []ast.Node) (bool, bool) { return false, true }
func (BaseVisitor) Leave(ast.Node, []ast.Node)              {}

// Walker performs a side-effecting, parent-tracked traversal of a Program.
// Walk resets all state, so one Walker is reusable across many calls —
// repeated calls on the same tree produce identical visitation sequences.
type Walker struct {
	visitor Visitor
	parents []ast.Node
	stopped bool
}

// New creates a Walker that reports to visitor.
func New(visitor Visitor) *Walker {
	return &Walker{visitor: visitor}
}

// Ancestor returns the ancestor `level` steps up from the node currently
// being visited (0 = immediate parent), or nil if level exceeds the
// current depth. O(1): parents is a slice, not a linked walk.
func (w *Walker) Ancestor(level int) ast.Node {
	idx := len(w.parents) - 1 - level
	if idx < 0 || idx >= len(w.parents) {
		return nil
	}
	return w.parents[idx]
}

// Walk traverses root and everything reachable from it in source order.
func (w *Walker) Walk(root ast.Node) {
	w.parents = nil
	w.stopped = false
	w.walk(root)
}

func (w *Walker) walk(n ast.Node) {
	if n == nil || w.stopped {
		return
	}
	skip, cont := w.visitor.Enter(n, w.parents)
	if !cont {
		w.stopped = true
		return
	}
	if !skip {
		w.parents = append(w.parents, n)
		for _, child := range children(n) {
			w.walk(child)
			if w.stopped {
				break
			}
		}
		w.parents = w.parents[:len(w.parents)-1]
	}
	if !w.stopped {
		w.visitor.Leave(n, w.parents)
	}
}

// children returns n's direct AST children in source order. Walker, and
// through it ContextWalker and the Collector/Finder/Counter helpers, build
// on it; Transformer has its own per-kind rebuild in transformer.go.
func children(n ast.Node) []ast.Node {
	switch v := n.(type) {
	case *ast.Program:
		out := make([]ast.Node, 0, len(v.Decls)+len(v.Imports)+1)
		if v.Module != nil {
			out = append(out, v.Module)
		}
		for _, imp := range v.Imports {
			out = append(out, imp)
		}
		for _, d := range v.Decls {
			out = append(out, d)
		}
		return out
	case *ast.ExportDecl:
		return []ast.Node{v.Inner}
	case *ast.FunctionDecl:
		var out []ast.Node
		if v.Body != nil {
			out = append(out, v.Body)
		}
		return out
	case *ast.VariableDecl:
		if v.Init != nil {
			return []ast.Node{v.Init}
		}
		return nil
	case *ast.EnumDecl:
		var out []ast.Node
		for _, m := range v.Members {
			if m.Value != nil {
				out = append(out, m.Value)
			}
		}
		return out
	case *ast.BlockStmt:
		out := make([]ast.Node, len(v.Stmts))
		for i, s := range v.Stmts {
			out[i] = s
		}
		return out
	case *ast.DeclStmt:
		return []ast.Node{v.Decl}
	case *ast.ExpressionStmt:
		return []ast.Node{v.Expr}
	case *ast.ReturnStmt:
		if v.Value != nil {
			return []ast.Node{v.Value}
		}
		return nil
	case *ast.IfStmt:
		out := []ast.Node{v.Condition, v.Then}
		if v.Else != nil {
			out = append(out, v.Else)
		}
		return out
	case *ast.WhileStmt:
		return []ast.Node{v.Condition, v.Body}
	case *ast.DoWhileStmt:
		return []ast.Node{v.Body, v.Condition}
	case *ast.ForStmt:
		out := []ast.Node{v.Start, v.End}
		if v.Step != nil {
			out = append(out, v.Step)
		}
		out = append(out, v.Body)
		return out
	case *ast.SwitchStmt:
		out := []ast.Node{v.Subject}
		for _, c := range v.Cases {
			out = append(out, c.Values...)
			for _, s := range c.Body {
				out = append(out, s)
			}
		}
		return out
	case *ast.MatchStmt:
		out := []ast.Node{v.Subject}
		for _, a := range v.Arms {
			out = append(out, a)
		}
		return out
	case *ast.MatchArm:
		var out []ast.Node
		if v.Pattern != nil {
			out = append(out, v.Pattern)
		}
		for _, s := range v.Body {
			out = append(out, s)
		}
		return out
	case *ast.BinaryExpr:
		return []ast.Node{v.Left, v.Right}
	case *ast.UnaryExpr:
		return []ast.Node{v.Expr}
	case *ast.TernaryExpr:
		return []ast.Node{v.Cond, v.Then, v.Else}
	case *ast.CallExpr:
		out := []ast.Node{v.Callee}
		for _, a := range v.Args {
			out = append(out, a)
		}
		return out
	case *ast.IndexExpr:
		return []ast.Node{v.Object, v.Index}
	case *ast.MemberExpr:
		return []ast.Node{v.Object}
	case *ast.AssignmentExpr:
		return []ast.Node{v.Target, v.Value}
	case *ast.ArrayLiteralExpr:
		out := make([]ast.Node, len(v.Elements))
		for i, e := range v.Elements {
			out[i] = e
		}
		return out
	default:
		// Identifier, Literal, BreakStmt, ContinueStmt, ModuleDecl,
		// ImportDecl, TypeDecl, and the @map decls are leaves.
		return nil
	}
}
