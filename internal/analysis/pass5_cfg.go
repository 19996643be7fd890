package analysis

import (
	"github.com/blendsdk/blend65/internal/ast"
	"github.com/blendsdk/blend65/internal/cfg"
	"github.com/blendsdk/blend65/internal/diag"
	"github.com/blendsdk/blend65/internal/typesys"
)

// runPass5ControlFlowAnalysis builds one cfg.Graph per function body,
// records it on Result.Functions, and raises MISSING_RETURN for a
// non-void function whose body can fall off the end, and
// UNREACHABLE_CODE for any block the entry block cannot reach and for the
// first statement following a return/break/continue in a block.
//
// MISSING_RETURN is a warning, not an error: it never prevents a
// downstream IL lowering pass from running.
func runPass5ControlFlowAnalysis(r *Result, opts Options) {
	for _, d := range r.Program.Decls {
		fn, ok := unwrapDecl(d).(*ast.FunctionDecl)
		if !ok || fn.Body == nil {
			continue
		}
		graph := cfg.Build(fn.Body)
		r.Functions[fn.Name] = &FunctionInfo{Decl: fn, CFG: graph}

		checkMissingReturn(r, opts, fn, graph)
		checkUnreachable(r, opts, graph)

		if r.stopped {
			return
		}
	}
}

func checkMissingReturn(r *Result, opts Options, fn *ast.FunctionDecl, graph *cfg.Graph) {
	sym, ok := r.Symbols.GetRootScope().LookupLocal(fn.Name)
	if !ok || sym.Return == nil {
		return
	}
	underlying := typesys.Underlying(sym.Return)
	if underlying == typesys.Builtins.Void || underlying == typesys.Builtins.Unknown {
		return
	}
	for _, id := range graph.Order {
		b := graph.Blocks[id]
		if len(b.Succs) == 0 && !b.HasTerminator() {
			r.warnf(opts, diag.CodeMissingReturn, fn.Span,
				"function "+fn.Name+" does not return a value on every path",
				map[string]any{"function": fn.Name})
			return
		}
	}
}

func checkUnreachable(r *Result, opts Options, graph *cfg.Graph) {
	reachable := graph.Reachable()
	for _, id := range graph.Order {
		b := graph.Blocks[id]
		if len(b.Stmts) == 0 {
			continue
		}
		if reachable[id] {
			// The builder keeps statements after a terminator in its block.
			for i, s := range b.Stmts[:len(b.Stmts)-1] {
				switch s.(type) {
				case *ast.ReturnStmt, *ast.BreakStmt, *ast.ContinueStmt:
					r.warnf(opts, diag.CodeUnreachableCode, b.Stmts[i+1].Position(), "unreachable code",
						map[string]any{"block": id})
				default:
					continue
				}
				break
			}
			continue
		}
		r.warnf(opts, diag.CodeUnreachableCode, b.Stmts[0].Position(), "unreachable code",
			map[string]any{"block": id})
	}
}
