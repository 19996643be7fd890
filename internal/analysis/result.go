// Package analysis implements the seven-pass semantic analyzer:
// SymbolTableBuild, TypeResolution, TypeCheck (with StatementValidation
// folded in), ControlFlowAnalysis, CallGraph+RecursionDetection, and an
// optional AdvancedAnalysis pass. Analyze drives all seven over one
// *ast.Program and returns an AnalysisResult an IL generator can consume.
package analysis

import (
	"github.com/blendsdk/blend65/internal/ast"
	"github.com/blendsdk/blend65/internal/callgraph"
	"github.com/blendsdk/blend65/internal/cfg"
	"github.com/blendsdk/blend65/internal/diag"
	"github.com/blendsdk/blend65/internal/symtab"
	"github.com/blendsdk/blend65/internal/typesys"
)

// Options controls pass behavior shared across Analyze and module.Analyze.
type Options struct {
	// StopOnFirstError halts the pipeline as soon as any pass records an
	// ERROR diagnostic, skipping every later pass. Later passes generally
	// assume the AST is well-formed enough that skipping is the safe
	// choice rather than risking cascades of derived nonsense errors.
	StopOnFirstError bool
	// MaxErrors caps the number of ERROR diagnostics collected before the
	// pipeline stops. Zero means unlimited.
	MaxErrors int
	// RunAdvancedAnalysis enables Pass 7, which is skipped by default.
	RunAdvancedAnalysis bool
}

// FunctionInfo is the per-function output of the control-flow and
// call-graph passes.
type FunctionInfo struct {
	Decl *ast.FunctionDecl
	CFG  *cfg.Graph
}

// PassResult records one pass's outcome: whether it introduced any new
// ERROR diagnostics, and how many ERROR/WARNING diagnostics it added.
type PassResult struct {
	Name         string
	Succeeded    bool
	ErrorCount   int
	WarningCount int
}

// Stats summarizes one Analyze run as a handful of counters alongside the
// diagnostic totals, so a caller can report analysis progress without
// walking Diagnostics or Program itself.
type Stats struct {
	TotalDeclarations  int
	ExpressionsChecked int
	FunctionsAnalyzed  int
	ErrorCount         int
	WarningCount       int
	AnalysisTimeMs     int64
}

// Result is the output of Analyze: everything an IL generator or a
// downstream tool needs, plus every diagnostic raised along the way.
type Result struct {
	Program     *ast.Program
	Symbols     *symtab.Table
	Types       *typesys.System
	Diagnostics *diag.List
	CallGraph   *callgraph.Graph
	Functions   map[string]*FunctionInfo

	// PassResults records one entry per pass that actually ran, in pass
	// order. Pass 7 contributes an entry only when Options.RunAdvancedAnalysis
	// is set.
	PassResults []PassResult

	// Stats is finalized once Analyze's last pass returns; reading it
	// mid-pipeline only sees whatever fields that point in time has filled.
	Stats Stats

	// TypeOf records the resolved type of every expression node visited by
	// TypeCheck. The AST itself is never mutated; this sidecar map is the
	// single place a type annotation lives.
	TypeOf map[ast.Expr]typesys.Type

	// Scopes records the *symtab.Scope Pass 1 created for each
	// scope-introducing node (FunctionDecl, BlockStmt, ForStmt, MatchArm),
	// so later passes re-enter the same lexical scope instead of declaring
	// a fresh, empty one under the same node.
	Scopes map[ast.Node]*symtab.Scope

	// UsedSymbols records every *symtab.Symbol TypeCheck resolved an
	// Identifier to. Pass 7's unused-variable check is the only reader.
	UsedSymbols map[*symtab.Symbol]bool

	// MapStructFields records the resolved field types of every @map
	// struct binding (SequentialStruct and ExplicitStruct), keyed by
	// binding name then field name, so TypeCheck can validate and type
	// `binding.field` member access.
	MapStructFields map[string]map[string]typesys.Type

	stopped bool
}

func newResult(prog *ast.Program) *Result {
	return &Result{
		Program:         prog,
		Symbols:         symtab.New(),
		Types:           typesys.New(),
		Diagnostics:     &diag.List{},
		CallGraph:       callgraph.New(),
		Functions:       make(map[string]*FunctionInfo),
		TypeOf:          make(map[ast.Expr]typesys.Type),
		Scopes:          make(map[ast.Node]*symtab.Scope),
		UsedSymbols:     make(map[*symtab.Symbol]bool),
		MapStructFields: make(map[string]map[string]typesys.Type),
	}
}

// Succeeded reports whether the analysis produced zero ERROR diagnostics.
func (r *Result) Succeeded() bool { return r.Diagnostics.ErrorCount() == 0 }

// emit appends a diagnostic and marks the pipeline stopped (r.stopped)
// when MaxErrors is reached, or StopOnFirstError is set and this
// diagnostic is an ERROR.
func (r *Result) emit(opts Options, sev diag.Severity, code string, loc ast.Span, msg string, details map[string]any) {
	r.Diagnostics.Add(diag.Diagnostic{Severity: sev, Code: code, Message: msg, Location: loc, Details: details})
	if opts.MaxErrors > 0 && r.Diagnostics.ErrorCount() >= opts.MaxErrors {
		r.stopped = true
	}
	if opts.StopOnFirstError && sev == diag.SeverityError {
		r.stopped = true
	}
}

func (r *Result) errorf(opts Options, code string, loc ast.Span, msg string, details map[string]any) {
	r.emit(opts, diag.SeverityError, code, loc, msg, details)
}

func (r *Result) warnf(opts Options, code string, loc ast.Span, msg string, details map[string]any) {
	r.emit(opts, diag.SeverityWarning, code, loc, msg, details)
}
