package analysis_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/blendsdk/blend65/internal/analysis"
	"github.com/blendsdk/blend65/internal/diag"
	"github.com/blendsdk/blend65/internal/parser"
)

func mustParseAdvanced(t *testing.T, src string) *analysis.Result {
	t.Helper()
	p := parser.New([]byte(src), "t.blend")
	prog, errs := p.Parse()
	if len(errs) != 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	return analysis.Analyze(prog, analysis.Options{RunAdvancedAnalysis: true})
}

func TestPass7_SkippedByDefault(t *testing.T) {
	r := mustParse(t, `module t; function f(): void { let x: byte = 1; }`)
	assert.False(t, hasCode(r.Diagnostics.Items(), diag.SeverityWarning, diag.CodeUnusedVariable),
		"pass 7 must not run unless RunAdvancedAnalysis is set")
}

func TestPass7_UnusedLocalIsWarned(t *testing.T) {
	r := mustParseAdvanced(t, `module t; function f(): void { let x: byte = 1; }`)
	assert.True(t, r.Succeeded(), "warnings must not affect Succeeded()")
	assert.True(t, hasCode(r.Diagnostics.Items(), diag.SeverityWarning, diag.CodeUnusedVariable))
}

func TestPass7_UsedLocalIsNotWarned(t *testing.T) {
	r := mustParseAdvanced(t, `module t; function f(): byte { let x: byte = 1; return x; }`)
	assert.False(t, hasCode(r.Diagnostics.Items(), diag.SeverityWarning, diag.CodeUnusedVariable))
}

func TestPass7_ExportedBindingNeverWarnedUnused(t *testing.T) {
	r := mustParseAdvanced(t, `module t; export let x: byte = 1;`)
	assert.False(t, hasCode(r.Diagnostics.Items(), diag.SeverityWarning, diag.CodeUnusedVariable),
		"an exported module-level binding is part of the public surface, not dead")
}

func TestPass7_UseBeforeAssignmentIsWarned(t *testing.T) {
	r := mustParseAdvanced(t, `module t; function f(): byte { let x: byte; return x; }`)
	assert.True(t, hasCode(r.Diagnostics.Items(), diag.SeverityWarning, diag.CodeUseBeforeAssignment))
}

func TestPass7_AssignmentBeforeReadSuppressesWarning(t *testing.T) {
	r := mustParseAdvanced(t, `module t; function f(): byte { let x: byte; x = 5; return x; }`)
	assert.False(t, hasCode(r.Diagnostics.Items(), diag.SeverityWarning, diag.CodeUseBeforeAssignment))
}

func TestPass7_InitializedLocalNeverFlaggedUseBeforeAssignment(t *testing.T) {
	r := mustParseAdvanced(t, `module t; function f(): byte { let x: byte = 0; return x; }`)
	assert.False(t, hasCode(r.Diagnostics.Items(), diag.SeverityWarning, diag.CodeUseBeforeAssignment))
}
