package analysis

import (
	"fmt"

	"github.com/blendsdk/blend65/internal/ast"
	"github.com/blendsdk/blend65/internal/diag"
	"github.com/blendsdk/blend65/internal/symtab"
	"github.com/blendsdk/blend65/internal/typesys"
	"github.com/blendsdk/blend65/internal/walker"
)

// runPass2TypeResolution re-walks the whole program, now resolving every
// type annotation to a concrete typesys.Type, registering `type`/`enum`
// declarations with the type system, and writing the resolved types back
// onto the symbols Pass 1 created — at whatever scope depth they were
// declared, local or global. It re-enters Pass 1's scopes (Result.Scopes)
// the same way Pass 3 does, so a local `let`/`const`/`type`/`enum` resolves
// against its own nested symbol, not a same-named global.
func runPass2TypeResolution(r *Result, opts Options) {
	v := &typeResVisitor{r: r, opts: opts}
	walker.New(v).Walk(r.Program)
}

type typeResVisitor struct {
	walker.BaseVisitor
	r    *Result
	opts Options

	prevScopes []*symtab.Scope
}

func (p *typeResVisitor) Enter(n ast.Node, _ []ast.Node) (skip, cont bool) {
	if p.r.stopped {
		return false, false
	}
	switch d := n.(type) {
	case *ast.FunctionDecl:
		p.pushScope(d)
		p.resolveFunction(d)
	case *ast.BlockStmt:
		p.pushScope(d)
	case *ast.ForStmt:
		p.pushScope(d)
	case *ast.MatchArm:
		p.pushScope(d)

	case *ast.TypeDecl:
		underlying := p.resolveAnnotation(d.Underlying)
		alias := &typesys.Alias{Name: d.Name, Underlying: underlying}
		p.r.Types.DeclareAlias(d.Name, alias)
		p.updateSymbolType(d.Name, alias)

	case *ast.EnumDecl:
		p.resolveEnum(d)

	case *ast.VariableDecl:
		p.resolveVariable(d)

	case *ast.MapSimpleDecl:
		p.updateSymbolType(d.Name, p.resolveAnnotation(d.Type))

	case *ast.MapRangeDecl:
		elem := p.resolveAnnotation(d.ElementType)
		p.updateSymbolType(d.Name, p.r.Types.CreateArrayType(elem, -1))

	case *ast.MapSequentialStructDecl:
		p.r.MapStructFields[d.Name] = p.resolveMapFields(d.Fields)

	case *ast.MapExplicitStructDecl:
		p.r.MapStructFields[d.Name] = p.resolveMapFields(d.Fields)
	}
	return false, true
}

func (p *typeResVisitor) Leave(n ast.Node, _ []ast.Node) {
	switch n.(type) {
	case *ast.FunctionDecl, *ast.BlockStmt, *ast.ForStmt, *ast.MatchArm:
		p.popScope()
	}
}

func (p *typeResVisitor) pushScope(n ast.Node) {
	p.prevScopes = append(p.prevScopes, p.r.Symbols.Current)
	if scope, ok := p.r.Scopes[n]; ok {
		p.r.Symbols.Current = scope
	}
}

func (p *typeResVisitor) popScope() {
	last := len(p.prevScopes) - 1
	p.r.Symbols.Current = p.prevScopes[last]
	p.prevScopes = p.prevScopes[:last]
}

// resolveMapFields resolves each field's annotation and returns them keyed
// by field name. The struct binding's own symbol type stays Unknown; field
// access is resolved by TypeCheck via Result.MapStructFields (see pass3's
// handling of MemberExpr).
func (p *typeResVisitor) resolveMapFields(fields []*ast.MapStructField) map[string]typesys.Type {
	out := make(map[string]typesys.Type, len(fields))
	for _, f := range fields {
		out[f.Name] = p.resolveAnnotation(f.Type)
	}
	return out
}

func (p *typeResVisitor) resolveEnum(d *ast.EnumDecl) {
	underlying := typesys.Builtins.Byte
	if d.Underlying != nil {
		underlying = p.resolveAnnotation(d.Underlying)
	}

	members := make(map[string]int64, len(d.Members))
	next := int64(0)
	for _, m := range d.Members {
		val := next
		if m.Value != nil {
			if lit, ok := m.Value.(*ast.Literal); ok && lit.LKind == ast.IntLiteral {
				val = lit.Value.(int64)
			}
		}
		if !p.r.Types.IsAssignableLiteral(val, underlying) {
			p.r.errorf(p.opts, diag.CodeEnumValueOutOfRange, m.Span,
				fmt.Sprintf("enum member %q value %d does not fit %s", m.Name, val, underlying),
				map[string]any{"member": m.Name, "value": val, "underlying": underlying.String()})
		}
		members[m.Name] = val
		next = val + 1
	}

	enum := &typesys.Enum{Name: d.Name, Underlying: underlying, Members: members}
	p.r.Types.DeclareAlias(d.Name, enum)
	p.updateSymbolType(d.Name, enum)
}

func (p *typeResVisitor) resolveFunction(d *ast.FunctionDecl) {
	// The function's own symbol lives in its enclosing scope, one level up
	// from the scope just pushed for its parameters/body.
	outer := p.prevScopes[len(p.prevScopes)-1]
	sym, ok := outer.LookupLocal(d.Name)
	if !ok {
		return // duplicate declaration already reported by Pass 1
	}
	sym.Return = p.resolveAnnotation(d.ReturnType)
	for i, param := range d.Params {
		sym.Params[i] = p.resolveAnnotation(param.Type)
	}
}

func (p *typeResVisitor) resolveVariable(d *ast.VariableDecl) {
	if d.Type == nil && d.Init == nil {
		p.r.errorf(p.opts, diag.CodeMissingTypeOrInit, d.Span,
			fmt.Sprintf("%q needs a type annotation or an initializer", d.Name),
			map[string]any{"name": d.Name})
		return
	}
	if d.IsConst && d.Init == nil {
		p.r.errorf(p.opts, diag.CodeConstWithoutInit, d.Span,
			fmt.Sprintf("const %q must have an initializer", d.Name),
			map[string]any{"name": d.Name})
	}
	if d.Type != nil {
		p.updateSymbolType(d.Name, p.resolveAnnotation(d.Type))
	}
	// No annotation: the symbol's type stays Unknown until Pass 3 infers it
	// from Init and writes it back.
}

func (p *typeResVisitor) resolveAnnotation(ann ast.TypeAnnotation) typesys.Type {
	if ann == nil {
		return typesys.Builtins.Unknown
	}
	switch a := ann.(type) {
	case *ast.NamedTypeAnnotation:
		t := p.r.Types.ResolveTypeAnnotation(a.Name)
		if t == typesys.Builtins.Unknown {
			p.r.errorf(p.opts, diag.CodeUnknownType, a.Span, fmt.Sprintf("unknown type %q", a.Name),
				map[string]any{"name": a.Name})
		}
		return t
	case *ast.ArrayTypeAnnotation:
		elem := p.resolveAnnotation(a.Element)
		return p.r.Types.CreateArrayType(elem, a.Length)
	case *ast.FunctionTypeAnnotation:
		params := make([]typesys.Type, len(a.Params))
		for i, pa := range a.Params {
			params[i] = p.resolveAnnotation(pa)
		}
		return p.r.Types.CreateFunctionType(params, p.resolveAnnotation(a.Return))
	default:
		return typesys.Builtins.Unknown
	}
}

func (p *typeResVisitor) updateSymbolType(name string, t typesys.Type) {
	if sym, ok := p.r.Symbols.Current.LookupLocal(name); ok {
		sym.Type = t
	}
}
