package analysis

import (
	"strings"

	"github.com/blendsdk/blend65/internal/ast"
	"github.com/blendsdk/blend65/internal/diag"
	"github.com/blendsdk/blend65/internal/symtab"
	"github.com/blendsdk/blend65/internal/walker"
)

// runPass6CallGraph collects every call site reachable from each function
// body into Result.CallGraph, then runs Tarjan's SCC algorithm to flag
// direct and indirect recursion — a hard error under static, non-reentrant
// frame allocation, since two activations of the same function would
// alias the same storage.
func runPass6CallGraph(r *Result, opts Options) {
	for _, d := range r.Program.Decls {
		fn, ok := unwrapDecl(d).(*ast.FunctionDecl)
		if !ok {
			continue
		}
		r.CallGraph.AddFunction(fn.Name)
		if fn.Body == nil {
			continue
		}
		collector := &callCollector{r: r, caller: fn.Name}
		walker.New(collector).Walk(fn.Body)
	}

	for _, component := range r.CallGraph.SCCs() {
		if !r.CallGraph.IsRecursive(component) {
			continue
		}
		loc := functionSpan(r, component[0])
		details := map[string]any{
			"function":    component[0],
			"restriction": "static frame allocation",
			"cycle":       component,
		}
		if len(component) == 1 {
			r.errorf(opts, diag.CodeRecursionDetected, loc,
				component[0]+" calls itself, which static frame allocation cannot support", details)
		} else {
			r.errorf(opts, diag.CodeIndirectRecursionDetected, loc,
				"indirect recursion across "+strings.Join(component, " -> "), details)
		}
		if r.stopped {
			return
		}
	}
}

type callCollector struct {
	walker.BaseVisitor
	r      *Result
	caller string
}

func (c *callCollector) Enter(n ast.Node, _ []ast.Node) (skip, cont bool) {
	call, ok := n.(*ast.CallExpr)
	if !ok {
		return false, true
	}
	ident, ok := call.Callee.(*ast.Identifier)
	if !ok {
		return false, true
	}
	if sym, ok := c.r.Symbols.GetRootScope().LookupLocal(ident.Name); ok && sym.Kind == symtab.KindFunction {
		c.r.CallGraph.AddCall(c.caller, ident.Name)
	}
	return false, true
}

func functionSpan(r *Result, name string) ast.Span {
	if info, ok := r.Functions[name]; ok {
		return info.Decl.Span
	}
	if sym, ok := r.Symbols.GetRootScope().LookupLocal(name); ok {
		return sym.Location
	}
	return ast.Span{}
}
