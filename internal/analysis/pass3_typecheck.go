package analysis

import (
	"fmt"

	"github.com/blendsdk/blend65/internal/ast"
	"github.com/blendsdk/blend65/internal/diag"
	"github.com/blendsdk/blend65/internal/symtab"
	"github.com/blendsdk/blend65/internal/typesys"
	"github.com/blendsdk/blend65/internal/walker"
)

// runPass3TypeCheck walks the program a third time, now that every name has
// a resolved Type (Pass 2), checking every expression and statement:
// assignability, arity, operator operand kinds, break/continue placement,
// and return shape. It re-enters the exact scopes Pass 1 built (via
// Result.Scopes) instead of declaring fresh ones.
func runPass3TypeCheck(r *Result, opts Options) {
	v := &typeCheckVisitor{r: r, opts: opts}
	walker.New(v).Walk(r.Program)
}

type typeCheckVisitor struct {
	walker.BaseVisitor
	r    *Result
	opts Options

	prevScopes []*symtab.Scope
	funcStack  []typesys.Type // current function's declared return type
	loopDepth  int
}

func (v *typeCheckVisitor) Enter(n ast.Node, parents []ast.Node) (skip, cont bool) {
	if v.r.stopped {
		return false, false
	}
	switch d := n.(type) {
	case *ast.FunctionDecl:
		v.pushScope(d)
		sym, _ := v.r.Symbols.Lookup(d.Name)
		ret := typesys.Builtins.Unknown
		if sym != nil {
			ret = sym.Return
		}
		v.funcStack = append(v.funcStack, ret)

	case *ast.BlockStmt:
		v.pushScope(d)

	case *ast.ForStmt:
		v.pushScope(d)
		v.checkExpr(d.Start)
		v.checkExpr(d.End)
		if d.Step != nil {
			v.checkExpr(d.Step)
		}
		v.loopDepth++

	case *ast.WhileStmt:
		v.checkBoolOrNumeric(d.Condition)
		v.loopDepth++

	case *ast.DoWhileStmt:
		v.checkBoolOrNumeric(d.Condition)
		v.loopDepth++

	case *ast.MatchStmt:
		v.checkExpr(d.Subject)
		v.loopDepth++

	case *ast.MatchArm:
		v.pushScope(d)
		if d.Pattern != nil {
			v.checkExpr(d.Pattern)
		}

	case *ast.SwitchStmt:
		v.checkExpr(d.Subject)
		for _, c := range d.Cases {
			for _, val := range c.Values {
				v.checkExpr(val)
			}
		}

	case *ast.IfStmt:
		v.checkBoolOrNumeric(d.Condition)

	case *ast.VariableDecl:
		v.checkVariableDecl(d)

	case *ast.ReturnStmt:
		v.checkReturn(d)

	case *ast.BreakStmt:
		if v.loopDepth == 0 {
			v.r.errorf(v.opts, diag.CodeBreakOutsideLoop, d.Span, "break outside a loop or match",
				map[string]any{"loopDepth": v.loopDepth})
		}

	case *ast.ContinueStmt:
		if v.loopDepth == 0 {
			v.r.errorf(v.opts, diag.CodeContinueOutsideLoop, d.Span, "continue outside a loop",
				map[string]any{"loopDepth": v.loopDepth})
		}

	case *ast.ExpressionStmt:
		v.checkExpr(d.Expr)
	}
	return false, true
}

func (v *typeCheckVisitor) Leave(n ast.Node, _ []ast.Node) {
	switch n.(type) {
	case *ast.FunctionDecl:
		v.popScope()
		v.funcStack = v.funcStack[:len(v.funcStack)-1]
	case *ast.BlockStmt, *ast.ForStmt, *ast.MatchArm:
		v.popScope()
	}
	switch n.(type) {
	case *ast.ForStmt, *ast.WhileStmt, *ast.DoWhileStmt, *ast.MatchStmt:
		v.loopDepth--
	}
}

func (v *typeCheckVisitor) pushScope(n ast.Node) {
	v.prevScopes = append(v.prevScopes, v.r.Symbols.Current)
	if scope, ok := v.r.Scopes[n]; ok {
		v.r.Symbols.Current = scope
	}
}

func (v *typeCheckVisitor) popScope() {
	last := len(v.prevScopes) - 1
	v.r.Symbols.Current = v.prevScopes[last]
	v.prevScopes = v.prevScopes[:last]
}

func (v *typeCheckVisitor) checkBoolOrNumeric(e ast.Expr) {
	t := v.checkExpr(e)
	if t == typesys.Builtins.Unknown {
		return
	}
	if t != typesys.Builtins.Bool && !typesys.IsNumeric(t) {
		v.r.errorf(v.opts, diag.CodeExpectedBoolOrNumeric, e.Position(),
			fmt.Sprintf("expected bool or numeric, got %s", t),
			map[string]any{"got": t.String()})
	}
}

func (v *typeCheckVisitor) checkVariableDecl(d *ast.VariableDecl) {
	if d.Init == nil {
		return
	}
	initType := v.checkExpr(d.Init)
	sym, ok := v.r.Symbols.Current.LookupLocal(d.Name)
	if !ok {
		return
	}
	if d.Type == nil {
		// No annotation: the declared type is whatever the initializer
		// produced (Pass 2 left this symbol's Type as Unknown).
		sym.Type = initType
		return
	}
	if sym.Type != typesys.Builtins.Unknown && initType != typesys.Builtins.Unknown &&
		!v.isAssignable(d.Init, initType, sym.Type) {
		v.r.errorf(v.opts, diag.CodeTypeMismatch, d.Init.Position(),
			fmt.Sprintf("cannot assign %s to %s %q", initType, sym.Type, d.Name),
			map[string]any{"name": d.Name, "from": initType.String(), "to": sym.Type.String()})
	}
}

func (v *typeCheckVisitor) checkReturn(d *ast.ReturnStmt) {
	if len(v.funcStack) == 0 {
		return // malformed AST (return outside a function); nothing to check against
	}
	want := v.funcStack[len(v.funcStack)-1]
	if d.Value == nil {
		if want != typesys.Builtins.Void && want != typesys.Builtins.Unknown {
			v.r.errorf(v.opts, diag.CodeReturnMissingValue, d.Span,
				fmt.Sprintf("missing return value, function returns %s", want),
				map[string]any{"want": want.String()})
		}
		return
	}
	got := v.checkExpr(d.Value)
	if want == typesys.Builtins.Void {
		v.r.errorf(v.opts, diag.CodeReturnValueInVoid, d.Value.Position(), "void function must not return a value",
			map[string]any{"got": got.String()})
		return
	}
	if want != typesys.Builtins.Unknown && got != typesys.Builtins.Unknown && !v.isAssignable(d.Value, got, want) {
		v.r.errorf(v.opts, diag.CodeReturnTypeMismatch, d.Value.Position(),
			fmt.Sprintf("cannot return %s, function declares %s", got, want),
			map[string]any{"got": got.String(), "want": want.String()})
	}
}

// isAssignable is IsAssignable plus the literal-widening special case: an
// int literal is checked against target's range rather than its natural
// (minimal-fit) type.
func (v *typeCheckVisitor) isAssignable(src ast.Expr, srcType, target typesys.Type) bool {
	if lit, ok := src.(*ast.Literal); ok && lit.LKind == ast.IntLiteral {
		if v.r.Types.IsAssignableLiteral(lit.Value.(int64), target) {
			return true
		}
	}
	return v.r.Types.IsAssignable(srcType, target)
}

// checkExpr type-checks e, records its type in Result.TypeOf, and returns
// that type. Errors leave Unknown recorded so callers don't cascade.
func (v *typeCheckVisitor) checkExpr(e ast.Expr) typesys.Type {
	if e == nil {
		return typesys.Builtins.Unknown
	}
	v.r.Stats.ExpressionsChecked++
	t := v.inferExpr(e)
	v.r.TypeOf[e] = t
	return t
}

func (v *typeCheckVisitor) inferExpr(e ast.Expr) typesys.Type {
	switch n := e.(type) {
	case *ast.Literal:
		switch n.LKind {
		case ast.IntLiteral:
			val := n.Value.(int64)
			if val >= 0 && val <= 255 {
				return typesys.Builtins.Byte
			}
			return typesys.Builtins.Word
		case ast.StringLiteral:
			return typesys.Builtins.String
		case ast.BoolLiteral:
			return typesys.Builtins.Bool
		}
		return typesys.Builtins.Unknown

	case *ast.Identifier:
		sym, ok := v.r.Symbols.Lookup(n.Name)
		if !ok {
			v.r.errorf(v.opts, diag.CodeUndefinedSymbol, n.Span, fmt.Sprintf("undefined symbol %q", n.Name),
				map[string]any{"name": n.Name})
			return typesys.Builtins.Unknown
		}
		v.r.UsedSymbols[sym] = true
		if sym.Type != nil {
			return sym.Type
		}
		return typesys.Builtins.Unknown

	case *ast.BinaryExpr:
		return v.inferBinary(n)

	case *ast.UnaryExpr:
		t := v.checkExpr(n.Expr)
		if n.Op == "!" {
			return typesys.Builtins.Bool
		}
		if t != typesys.Builtins.Unknown && !typesys.IsNumeric(t) {
			v.r.errorf(v.opts, diag.CodeExpectedNumeric, n.Span, fmt.Sprintf("expected numeric, got %s", t),
				map[string]any{"op": n.Op, "got": t.String()})
			return typesys.Builtins.Unknown
		}
		return t

	case *ast.TernaryExpr:
		v.checkBoolOrNumeric(n.Cond)
		thenT := v.checkExpr(n.Then)
		elseT := v.checkExpr(n.Else)
		if thenT == typesys.Builtins.Unknown {
			return elseT
		}
		return thenT

	case *ast.CallExpr:
		return v.inferCall(n)

	case *ast.IndexExpr:
		objType := v.checkExpr(n.Object)
		v.checkExpr(n.Index)
		if arr, ok := typesys.Underlying(objType).(*typesys.Array); ok {
			return arr.Element
		}
		if objType != typesys.Builtins.Unknown {
			v.r.errorf(v.opts, diag.CodeNotIndexable, n.Object.Position(), fmt.Sprintf("%s is not indexable", objType),
				map[string]any{"type": objType.String()})
		}
		return typesys.Builtins.Unknown

	case *ast.MemberExpr:
		return v.inferMember(n)

	case *ast.AssignmentExpr:
		return v.inferAssignment(n)

	case *ast.ArrayLiteralExpr:
		var elem typesys.Type = typesys.Builtins.Unknown
		for i, el := range n.Elements {
			t := v.checkExpr(el)
			if i == 0 {
				elem = t
			}
		}
		return v.r.Types.CreateArrayType(elem, len(n.Elements))
	}
	return typesys.Builtins.Unknown
}

func (v *typeCheckVisitor) inferBinary(n *ast.BinaryExpr) typesys.Type {
	left := v.checkExpr(n.Left)
	right := v.checkExpr(n.Right)
	switch n.Op {
	case "&&", "||":
		return typesys.Builtins.Bool
	case "==", "!=", "<", "<=", ">", ">=":
		return typesys.Builtins.Bool
	default: // + - * / %
		bad := false
		if left != typesys.Builtins.Unknown && !typesys.IsNumeric(left) {
			v.r.errorf(v.opts, diag.CodeExpectedNumeric, n.Left.Position(), fmt.Sprintf("expected numeric, got %s", left),
				map[string]any{"op": n.Op, "side": "left", "got": left.String()})
			bad = true
		}
		if right != typesys.Builtins.Unknown && !typesys.IsNumeric(right) {
			v.r.errorf(v.opts, diag.CodeExpectedNumeric, n.Right.Position(), fmt.Sprintf("expected numeric, got %s", right),
				map[string]any{"op": n.Op, "side": "right", "got": right.String()})
			bad = true
		}
		if bad || left == typesys.Builtins.Unknown || right == typesys.Builtins.Unknown {
			return typesys.Builtins.Unknown
		}
		return v.r.Types.CommonArithmeticType(left, right)
	}
}

func (v *typeCheckVisitor) inferCall(n *ast.CallExpr) typesys.Type {
	ident, ok := n.Callee.(*ast.Identifier)
	if !ok {
		v.r.errorf(v.opts, diag.CodeNotCallable, n.Callee.Position(), "callee is not callable",
			map[string]any{"calleeKind": fmt.Sprintf("%T", n.Callee)})
		for _, a := range n.Args {
			v.checkExpr(a)
		}
		return typesys.Builtins.Unknown
	}
	sym, ok := v.r.Symbols.Lookup(ident.Name)
	if !ok {
		v.r.errorf(v.opts, diag.CodeUndefinedSymbol, ident.Span, fmt.Sprintf("undefined symbol %q", ident.Name),
			map[string]any{"name": ident.Name})
		for _, a := range n.Args {
			v.checkExpr(a)
		}
		return typesys.Builtins.Unknown
	}
	if sym.Kind == symtab.KindImport {
		// A single module's Pass 3 cannot see the exporting module's
		// signature yet (internal/module backfills Type/Params/Return
		// only after both modules have analyzed); treat the call as
		// callable but unchecked rather than cascade a spurious
		// NOT_CALLABLE, per the tolerant-pass-on-missing-info policy.
		v.r.UsedSymbols[sym] = true
		for _, a := range n.Args {
			v.checkExpr(a)
		}
		return typesys.Builtins.Unknown
	}
	if sym.Kind != symtab.KindFunction {
		v.r.errorf(v.opts, diag.CodeNotCallable, ident.Span, fmt.Sprintf("%q is not a function", ident.Name),
			map[string]any{"name": ident.Name, "kind": sym.Kind.String()})
		for _, a := range n.Args {
			v.checkExpr(a)
		}
		return typesys.Builtins.Unknown
	}
	v.r.UsedSymbols[sym] = true
	if len(n.Args) != len(sym.Params) {
		v.r.errorf(v.opts, diag.CodeArgCountMismatch, n.Span,
			fmt.Sprintf("%q expects %d argument(s), got %d", ident.Name, len(sym.Params), len(n.Args)),
			map[string]any{"name": ident.Name, "want": len(sym.Params), "got": len(n.Args)})
	}
	for i, a := range n.Args {
		argType := v.checkExpr(a)
		if i >= len(sym.Params) {
			continue
		}
		want := sym.Params[i]
		if want != typesys.Builtins.Unknown && argType != typesys.Builtins.Unknown && !v.isAssignable(a, argType, want) {
			v.r.errorf(v.opts, diag.CodeTypeMismatch, a.Position(),
				fmt.Sprintf("argument %d: cannot pass %s as %s", i+1, argType, want),
				map[string]any{"argIndex": i, "from": argType.String(), "to": want.String()})
		}
	}
	return sym.Return
}

func (v *typeCheckVisitor) inferMember(n *ast.MemberExpr) typesys.Type {
	if ident, ok := n.Object.(*ast.Identifier); ok {
		if sym, ok := v.r.Symbols.Lookup(ident.Name); ok {
			v.r.UsedSymbols[sym] = true
			if enum, ok := typesys.Underlying(sym.Type).(*typesys.Enum); ok {
				if _, ok := enum.Members[n.Field]; ok {
					return sym.Type
				}
				v.r.errorf(v.opts, diag.CodeUnknownMember, n.Span,
					fmt.Sprintf("%s has no member %q", enum.Name, n.Field),
					map[string]any{"type": enum.Name, "field": n.Field})
				return typesys.Builtins.Unknown
			}
			if fields, ok := v.r.MapStructFields[ident.Name]; ok {
				if t, ok := fields[n.Field]; ok {
					return t
				}
				v.r.errorf(v.opts, diag.CodeUnknownMember, n.Span,
					fmt.Sprintf("%s has no field %q", ident.Name, n.Field),
					map[string]any{"binding": ident.Name, "field": n.Field})
				return typesys.Builtins.Unknown
			}
			v.r.errorf(v.opts, diag.CodeUnknownMember, n.Span,
				fmt.Sprintf("%s is not an enum or struct-map binding", ident.Name),
				map[string]any{"name": ident.Name, "field": n.Field})
			return typesys.Builtins.Unknown
		}
		v.r.errorf(v.opts, diag.CodeUndefinedSymbol, ident.Span, fmt.Sprintf("undefined symbol %q", ident.Name),
			map[string]any{"name": ident.Name})
		return typesys.Builtins.Unknown
	}
	v.checkExpr(n.Object)
	return typesys.Builtins.Unknown
}

func (v *typeCheckVisitor) inferAssignment(n *ast.AssignmentExpr) typesys.Type {
	targetType := v.checkExpr(n.Target)
	valueType := v.checkExpr(n.Value)

	if ident, ok := n.Target.(*ast.Identifier); ok {
		if sym, ok := v.r.Symbols.Lookup(ident.Name); ok && sym.IsConst {
			v.r.errorf(v.opts, diag.CodeAssignToConst, n.Span, fmt.Sprintf("cannot assign to const %q", ident.Name),
				map[string]any{"name": ident.Name})
		}
	}
	if targetType != typesys.Builtins.Unknown && valueType != typesys.Builtins.Unknown &&
		!v.isAssignable(n.Value, valueType, targetType) {
		v.r.errorf(v.opts, diag.CodeTypeMismatch, n.Value.Position(),
			fmt.Sprintf("cannot assign %s to %s", valueType, targetType),
			map[string]any{"from": valueType.String(), "to": targetType.String()})
	}
	return targetType
}
