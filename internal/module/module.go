// Package module coordinates analysis across more than one source file:
// it orders modules by their import dependencies, detects import cycles,
// runs the seven-pass analyzer (internal/analysis) over each module in
// that order, and resolves each module's imports against the exports
// already published by the modules compiled before it.
//
// Dependency ordering reuses internal/callgraph's Tarjan SCC the same way
// Pass 6 uses it for call-graph recursion: an edge A -> B here means
// "module A imports module B", so a component closes (in SCCs() order)
// only once every module it depends on has already closed, which is
// exactly dependency-first compilation order. A cycle does not abort
// compilation — per the coordinator's contract every module still gets
// analyzed and appears in Order exactly once, broken deterministically by
// lexicographic module name within the cycle.
package module

import (
	"fmt"
	"sort"

	"github.com/blendsdk/blend65/internal/analysis"
	"github.com/blendsdk/blend65/internal/ast"
	"github.com/blendsdk/blend65/internal/callgraph"
	"github.com/blendsdk/blend65/internal/diag"
	"github.com/blendsdk/blend65/internal/symtab"
)

// Result is the output of analyzing a whole program made of multiple
// modules: one analysis.Result per module, a shared diagnostic list in
// compilation order, and the GlobalTable every module's exports were
// published into.
type Result struct {
	// Order is the compilation order: every input module exactly once,
	// dependencies before dependents, cycles broken lexicographically.
	Order   []string
	Modules map[string]*analysis.Result
	Global  *symtab.GlobalTable

	// Diagnostics aggregates every module's diagnostics plus the
	// coordinator's own (CIRCULAR_IMPORT, IMPORT_UNRESOLVED,
	// IMPORT_NOT_EXPORTED), in compilation order.
	Diagnostics *diag.List

	// ImportResolutionOK is false if any import failed to resolve to an
	// existing, exported symbol. Tracked separately from Succeeded
	// because a cycle or a missing import does not necessarily mean any
	// single module analyzed with an ERROR of its own.
	ImportResolutionOK bool
}

// Succeeded is the conjunction of every per-module success and import
// resolution success, per the coordinator's contract.
func (r *Result) Succeeded() bool {
	if !r.ImportResolutionOK {
		return false
	}
	for _, mr := range r.Modules {
		if !mr.Succeeded() {
			return false
		}
	}
	return true
}

// Analyze orders programs by import dependency, then runs the seven-pass
// analyzer over each in turn, resolving its imports against the exports
// of the modules already analyzed. programs is keyed by canonical module
// name, matching each Program's Module.Name.
func Analyze(programs map[string]*ast.Program, opts analysis.Options) *Result {
	r := &Result{
		Modules:            make(map[string]*analysis.Result),
		Global:             symtab.NewGlobal(),
		Diagnostics:        &diag.List{},
		ImportResolutionOK: true,
	}

	r.Order = compilationOrder(programs, r.Diagnostics)

	for _, name := range r.Order {
		prog := programs[name]
		mr := analysis.Analyze(prog, opts)
		r.Modules[name] = mr
		if !resolveImports(name, prog, mr, r.Global, programs) {
			r.ImportResolutionOK = false
		}
		r.Global.Register(name, mr.Symbols.Exports())
		r.Diagnostics.Extend(mr.Diagnostics)
	}
	return r
}

// compilationOrder builds the A-imports-B dependency graph, runs Tarjan's
// SCC over it, and flattens the result (sorted within each component) into
// a single dependency-first order. Every SCC of size > 1, or of size 1
// with a self-import, gets a CIRCULAR_IMPORT diagnostic per participant.
func compilationOrder(programs map[string]*ast.Program, diags *diag.List) []string {
	g := callgraph.New()
	names := make([]string, 0, len(programs))
	for name := range programs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		g.AddFunction(name)
	}
	for _, name := range names {
		for _, imp := range programs[name].Imports {
			if _, ok := programs[imp.Module]; ok {
				g.AddCall(name, imp.Module)
			}
		}
	}

	var order []string
	for _, component := range g.SCCs() {
		sort.Strings(component)
		if g.IsRecursive(component) {
			for _, name := range component {
				diags.Errorf(diag.CodeCircularImport, ast.Span{},
					fmt.Sprintf("module %q participates in an import cycle: %v", name, component),
					map[string]any{"module": name, "cycle": component})
			}
		}
		order = append(order, component...)
	}
	return order
}

// resolveImports checks every import of prog against modules already
// published to global (its dependencies, by construction of order), and
// backfills the local import symbol's Type/Params/Return from the
// exporting module's symbol so an IL generator can see through the
// import boundary without re-deriving cross-module types itself. An
// import of a module later in the same cycle is not published yet; it
// fails without an IMPORT_UNRESOLVED, since CIRCULAR_IMPORT covers it.
// Returns false if any import failed to resolve.
func resolveImports(name string, prog *ast.Program, mr *analysis.Result, global *symtab.GlobalTable, programs map[string]*ast.Program) bool {
	ok := true
	for _, imp := range prog.Imports {
		if _, inProgram := programs[imp.Module]; inProgram && !global.HasModule(imp.Module) {
			ok = false
			continue
		}
		if !global.HasModule(imp.Module) {
			mr.Diagnostics.Errorf(diag.CodeImportUnresolved, imp.Span,
				fmt.Sprintf("module %q imports unknown module %q", name, imp.Module),
				map[string]any{"module": name, "imports": imp.Module})
			ok = false
			continue
		}
		for _, localName := range imp.Names {
			exported, found := global.Lookup(imp.Module, localName)
			if !found {
				mr.Diagnostics.Errorf(diag.CodeImportNotExported, imp.Span,
					fmt.Sprintf("%q does not export %q", imp.Module, localName),
					map[string]any{"module": imp.Module, "name": localName})
				ok = false
				continue
			}
			local, declared := mr.Symbols.GetRootScope().LookupLocal(localName)
			if !declared {
				continue
			}
			local.Type = exported.Type
			local.Params = exported.Params
			local.Return = exported.Return
		}
	}
	return ok
}
