package walker

import "github.com/blendsdk/blend65/internal/ast"

// Rule is one rewrite rule tried against every node during a Transform.
// It returns the replacement node and true if it matched, or (nil, false)
// to fall through to the default identity/shallow-rebuild behavior.
type Rule func(n ast.Node) (ast.Node, bool)

// Transformer rewrites an AST bottom-up: children are transformed first,
// then Rule is tried on the (possibly already-rewritten) node. The default
// when no rule matches is identity for leaves and a shallow rebuild for
// composites — if every transformed child compares reference-equal to the
// original, the original node is returned unchanged, preserving
// structural sharing.
type Transformer struct {
	rule Rule
}

// NewTransformer creates a Transformer that tries rule at every node.
func NewTransformer(rule Rule) *Transformer {
	return &Transformer{rule: rule}
}

// Transform rewrites root and returns the (possibly new) root.
func (t *Transformer) Transform(root ast.Node) ast.Node {
	if root == nil {
		return nil
	}
	rebuilt := t.rebuildChildren(root)
	if t.rule != nil {
		if replaced, ok := t.rule(rebuilt); ok {
			return replaced
		}
	}
	return rebuilt
}

// rebuildChildren transforms every child of n and, if any child actually
// changed, allocates a shallow copy of n with the new children; otherwise
// it returns n itself.
func (t *Transformer) rebuildChildren(n ast.Node) ast.Node {
	switch v := n.(type) {
	case *ast.Program:
		decls, changed := t.transformDecls(v.Decls)
		if !changed {
			return v
		}
		cp := *v
		cp.Decls = decls
		return &cp

	case *ast.ExportDecl:
		inner := t.Transform(v.Inner)
		if inner == ast.Node(v.Inner) {
			return v
		}
		cp := *v
		cp.Inner = inner.(ast.Decl)
		return &cp

	case *ast.FunctionDecl:
		if v.Body == nil {
			return v
		}
		body := t.Transform(v.Body)
		if body == ast.Node(v.Body) {
			return v
		}
		cp := *v
		cp.Body = body.(*ast.BlockStmt)
		return &cp

	case *ast.VariableDecl:
		if v.Init == nil {
			return v
		}
		init := t.Transform(v.Init)
		if init == ast.Node(v.Init) {
			return v
		}
		cp := *v
		cp.Init = init.(ast.Expr)
		return &cp

	case *ast.BlockStmt:
		stmts, changed := t.transformStmts(v.Stmts)
		if !changed {
			return v
		}
		cp := *v
		cp.Stmts = stmts
		return &cp

	case *ast.DeclStmt:
		inner := t.Transform(v.Decl)
		if inner == ast.Node(v.Decl) {
			return v
		}
		cp := *v
		cp.Decl = inner.(ast.Decl)
		return &cp

	case *ast.ExpressionStmt:
		e := t.Transform(v.Expr)
		if e == ast.Node(v.Expr) {
			return v
		}
		cp := *v
		cp.Expr = e.(ast.Expr)
		return &cp

	case *ast.ReturnStmt:
		if v.Value == nil {
			return v
		}
		val := t.Transform(v.Value)
		if val == ast.Node(v.Value) {
			return v
		}
		cp := *v
		cp.Value = val.(ast.Expr)
		return &cp

	case *ast.IfStmt:
		cond := t.Transform(v.Condition)
		then := t.Transform(v.Then)
		var els ast.Node
		if v.Else != nil {
			els = t.Transform(v.Else)
		}
		if cond == ast.Node(v.Condition) && then == ast.Node(v.Then) && els == v.Else {
			return v
		}
		cp := *v
		cp.Condition = cond.(ast.Expr)
		cp.Then = then.(ast.Stmt)
		if els != nil {
			cp.Else = els.(ast.Stmt)
		}
		return &cp

	case *ast.WhileStmt:
		cond := t.Transform(v.Condition)
		body := t.Transform(v.Body)
		if cond == ast.Node(v.Condition) && body == ast.Node(v.Body) {
			return v
		}
		cp := *v
		cp.Condition = cond.(ast.Expr)
		cp.Body = body.(ast.Stmt)
		return &cp

	case *ast.DoWhileStmt:
		body := t.Transform(v.Body)
		cond := t.Transform(v.Condition)
		if body == ast.Node(v.Body) && cond == ast.Node(v.Condition) {
			return v
		}
		cp := *v
		cp.Body = body.(ast.Stmt)
		cp.Condition = cond.(ast.Expr)
		return &cp

	case *ast.ForStmt:
		start := t.Transform(v.Start)
		end := t.Transform(v.End)
		var step ast.Node
		if v.Step != nil {
			step = t.Transform(v.Step)
		}
		body := t.Transform(v.Body)
		if start == ast.Node(v.Start) && end == ast.Node(v.End) && step == v.Step && body == ast.Node(v.Body) {
			return v
		}
		cp := *v
		cp.Start = start.(ast.Expr)
		cp.End = end.(ast.Expr)
		if step != nil {
			cp.Step = step.(ast.Expr)
		}
		cp.Body = body.(ast.Stmt)
		return &cp

	case *ast.BinaryExpr:
		left := t.Transform(v.Left)
		right := t.Transform(v.Right)
		if left == ast.Node(v.Left) && right == ast.Node(v.Right) {
			return v
		}
		cp := *v
		cp.Left = left.(ast.Expr)
		cp.Right = right.(ast.Expr)
		return &cp

	case *ast.UnaryExpr:
		e := t.Transform(v.Expr)
		if e == ast.Node(v.Expr) {
			return v
		}
		cp := *v
		cp.Expr = e.(ast.Expr)
		return &cp

	case *ast.TernaryExpr:
		cond := t.Transform(v.Cond)
		then := t.Transform(v.Then)
		els := t.Transform(v.Else)
		if cond == ast.Node(v.Cond) && then == ast.Node(v.Then) && els == ast.Node(v.Else) {
			return v
		}
		cp := *v
		cp.Cond = cond.(ast.Expr)
		cp.Then = then.(ast.Expr)
		cp.Else = els.(ast.Expr)
		return &cp

	case *ast.CallExpr:
		callee := t.Transform(v.Callee)
		args, changed := t.transformExprs(v.Args)
		if callee == ast.Node(v.Callee) && !changed {
			return v
		}
		cp := *v
		cp.Callee = callee.(ast.Expr)
		cp.Args = args
		return &cp

	case *ast.IndexExpr:
		obj := t.Transform(v.Object)
		idx := t.Transform(v.Index)
		if obj == ast.Node(v.Object) && idx == ast.Node(v.Index) {
			return v
		}
		cp := *v
		cp.Object = obj.(ast.Expr)
		cp.Index = idx.(ast.Expr)
		return &cp

	case *ast.MemberExpr:
		obj := t.Transform(v.Object)
		if obj == ast.Node(v.Object) {
			return v
		}
		cp := *v
		cp.Object = obj.(ast.Expr)
		return &cp

	case *ast.AssignmentExpr:
		target := t.Transform(v.Target)
		value := t.Transform(v.Value)
		if target == ast.Node(v.Target) && value == ast.Node(v.Value) {
			return v
		}
		cp := *v
		cp.Target = target.(ast.Expr)
		cp.Value = value.(ast.Expr)
		return &cp

	case *ast.ArrayLiteralExpr:
		elems, changed := t.transformExprs(v.Elements)
		if !changed {
			return v
		}
		cp := *v
		cp.Elements = elems
		return &cp

	case *ast.EnumDecl:
		changed := false
		members := make([]*ast.EnumMember, len(v.Members))
		for i, m := range v.Members {
			if m.Value == nil {
				members[i] = m
				continue
			}
			r := t.Transform(m.Value)
			if r == ast.Node(m.Value) {
				members[i] = m
				continue
			}
			changed = true
			mc := *m
			mc.Value = r.(ast.Expr)
			members[i] = &mc
		}
		if !changed {
			return v
		}
		cp := *v
		cp.Members = members
		return &cp

	case *ast.SwitchStmt:
		changed := false
		subject := t.Transform(v.Subject)
		if subject != ast.Node(v.Subject) {
			changed = true
		}
		cases := make([]*ast.SwitchCase, len(v.Cases))
		for i, c := range v.Cases {
			values, vchanged := t.transformExprs(c.Values)
			body, bchanged := t.transformStmts(c.Body)
			if !vchanged && !bchanged {
				cases[i] = c
				continue
			}
			changed = true
			cc := *c
			cc.Values = values
			cc.Body = body
			cases[i] = &cc
		}
		if !changed {
			return v
		}
		cp := *v
		cp.Subject = subject.(ast.Expr)
		cp.Cases = cases
		return &cp

	case *ast.MatchStmt:
		changed := false
		subject := t.Transform(v.Subject)
		if subject != ast.Node(v.Subject) {
			changed = true
		}
		arms := make([]*ast.MatchArm, len(v.Arms))
		for i, a := range v.Arms {
			var pattern ast.Node
			patternChanged := false
			if a.Pattern != nil {
				pattern = t.Transform(a.Pattern)
				patternChanged = pattern != ast.Node(a.Pattern)
			}
			body, bchanged := t.transformStmts(a.Body)
			if !patternChanged && !bchanged {
				arms[i] = a
				continue
			}
			changed = true
			ac := *a
			if pattern != nil {
				ac.Pattern = pattern.(ast.Expr)
			}
			ac.Body = body
			arms[i] = &ac
		}
		if !changed {
			return v
		}
		cp := *v
		cp.Subject = subject.(ast.Expr)
		cp.Arms = arms
		return &cp

	default:
		// Leaves (Identifier, Literal, BreakStmt, ContinueStmt, decls
		// with no expression children) are identity under rebuild.
		return n
	}
}

func (t *Transformer) transformDecls(decls []ast.Decl) ([]ast.Decl, bool) {
	changed := false
	out := make([]ast.Decl, len(decls))
	for i, d := range decls {
		r := t.Transform(d)
		out[i] = r.(ast.Decl)
		if r != ast.Node(d) {
			changed = true
		}
	}
	if !changed {
		return decls, false
	}
	return out, true
}

func (t *Transformer) transformStmts(stmts []ast.Stmt) ([]ast.Stmt, bool) {
	changed := false
	out := make([]ast.Stmt, len(stmts))
	for i, s := range stmts {
		r := t.Transform(s)
		out[i] = r.(ast.Stmt)
		if r != ast.Node(s) {
			changed = true
		}
	}
	if !changed {
		return stmts, false
	}
	return out, true
}

func (t *Transformer) transformExprs(exprs []ast.Expr) ([]ast.Expr, bool) {
	changed := false
	out := make([]ast.Expr, len(exprs))
	for i, e := range exprs {
		r := t.Transform(e)
		out[i] = r.(ast.Expr)
		if r != ast.Node(e) {
			changed = true
		}
	}
	if !changed {
		return exprs, false
	}
	return out, true
}
