package analysis

import (
	"time"

	"github.com/blendsdk/blend65/internal/ast"
)

// Analyze runs the full seven-pass pipeline over prog and returns the
// accumulated result. Each pass runs in order; once Result.stopped is set
// (StopOnFirstError or MaxErrors was hit) every remaining pass is skipped.
// Pass 4 (Statement Validation) is folded into Pass 3 and contributes no
// separate PassResult entry.
func Analyze(prog *ast.Program, opts Options) *Result {
	r := newResult(prog)
	start := time.Now()
	r.Stats.TotalDeclarations = len(prog.Decls)

	r.runPass(opts, "SymbolTableBuild", runPass1SymbolTableBuild)
	if r.stopped {
		return r.finish(start)
	}
	r.runPass(opts, "TypeResolution", runPass2TypeResolution)
	if r.stopped {
		return r.finish(start)
	}
	r.runPass(opts, "TypeCheck", runPass3TypeCheck)
	if r.stopped {
		return r.finish(start)
	}
	r.runPass(opts, "ControlFlowAnalysis", runPass5ControlFlowAnalysis)
	if r.stopped {
		return r.finish(start)
	}
	r.runPass(opts, "CallGraph", runPass6CallGraph)
	if r.stopped {
		return r.finish(start)
	}
	if opts.RunAdvancedAnalysis {
		r.runPass(opts, "AdvancedAnalysis", runPass7AdvancedAnalysis)
	}
	return r.finish(start)
}

// runPass runs one pass, then records a PassResult from the diagnostics it
// added relative to what was already present.
func (r *Result) runPass(opts Options, name string, fn func(*Result, Options)) {
	errBefore := r.Diagnostics.ErrorCount()
	warnBefore := r.Diagnostics.WarningCount()
	fn(r, opts)
	r.PassResults = append(r.PassResults, PassResult{
		Name:         name,
		Succeeded:    r.Diagnostics.ErrorCount() == errBefore,
		ErrorCount:   r.Diagnostics.ErrorCount() - errBefore,
		WarningCount: r.Diagnostics.WarningCount() - warnBefore,
	})
}

// finish stamps the aggregate counters that only make sense once the
// pipeline has stopped, successfully or not.
func (r *Result) finish(start time.Time) *Result {
	r.Stats.FunctionsAnalyzed = len(r.Functions)
	r.Stats.ErrorCount = r.Diagnostics.ErrorCount()
	r.Stats.WarningCount = r.Diagnostics.WarningCount()
	r.Stats.AnalysisTimeMs = time.Since(start).Milliseconds()
	return r
}

// unwrapDecl strips an ExportDecl to the declaration it wraps, so passes
// that switch on concrete declaration kinds don't need an ExportDecl case
// at every call site.
func unwrapDecl(d ast.Decl) ast.Decl {
	if ed, ok := d.(*ast.ExportDecl); ok {
		return ed.Inner
	}
	return d
}
