package module_test

import (
	"testing"

	"github.com/blendsdk/blend65/internal/analysis"
	"github.com/blendsdk/blend65/internal/ast"
	"github.com/blendsdk/blend65/internal/diag"
	"github.com/blendsdk/blend65/internal/module"
	"github.com/blendsdk/blend65/internal/parser"
)

func parseModule(t *testing.T, src string) *ast.Program {
	t.Helper()
	p := parser.New([]byte(src), "t.blend")
	prog, errs := p.Parse()
	if len(errs) != 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	return prog
}

// Scenario 5: circular import between modules A and B.
func TestScenario_CircularImport(t *testing.T) {
	a := parseModule(t, `module A; import { b } from "B"; export function a(): void { b(); }`)
	b := parseModule(t, `module B; import { a } from "A"; export function b(): void { a(); }`)

	r := module.Analyze(map[string]*ast.Program{"A": a, "B": b}, analysis.Options{})

	if r.ImportResolutionOK {
		t.Fatal("expected import resolution to fail on a cycle")
	}

	found := 0
	for _, d := range r.Diagnostics.Items() {
		if d.Code == diag.CodeCircularImport {
			found++
		}
	}
	if found < 2 {
		t.Fatalf("expected at least one CIRCULAR_IMPORT diagnostic per module, got %d: %v",
			found, r.Diagnostics.Items())
	}

	if len(r.Order) != 2 {
		t.Fatalf("compilationOrder should contain every input module exactly once, got %v", r.Order)
	}
	seen := map[string]bool{}
	for _, name := range r.Order {
		if seen[name] {
			t.Fatalf("module %q appears more than once in compilation order %v", name, r.Order)
		}
		seen[name] = true
	}
	if !seen["A"] || !seen["B"] {
		t.Fatalf("compilation order %v missing a module", r.Order)
	}
}

func TestImportUnresolved(t *testing.T) {
	a := parseModule(t, `module A; import { x } from "Missing"; export function f(): void { }`)
	r := module.Analyze(map[string]*ast.Program{"A": a}, analysis.Options{})
	if r.ImportResolutionOK {
		t.Fatal("expected import resolution to fail on a missing module")
	}
	found := false
	for _, d := range r.Diagnostics.Items() {
		if d.Code == diag.CodeImportUnresolved {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected IMPORT_UNRESOLVED, got %v", r.Diagnostics.Items())
	}
}

func TestImportNotExported(t *testing.T) {
	a := parseModule(t, `module A; function hidden(): void { }`)
	b := parseModule(t, `module B; import { hidden } from "A"; export function f(): void { hidden(); }`)
	r := module.Analyze(map[string]*ast.Program{"A": a, "B": b}, analysis.Options{})
	if r.ImportResolutionOK {
		t.Fatal("expected import resolution to fail: A does not export hidden")
	}
	found := false
	for _, d := range r.Diagnostics.Items() {
		if d.Code == diag.CodeImportNotExported {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected IMPORT_NOT_EXPORTED, got %v", r.Diagnostics.Items())
	}
}

func TestValidImportResolves(t *testing.T) {
	a := parseModule(t, `module A; export function shared(): void { }`)
	b := parseModule(t, `module B; import { shared } from "A"; function f(): void { shared(); }`)
	r := module.Analyze(map[string]*ast.Program{"A": a, "B": b}, analysis.Options{})
	if !r.ImportResolutionOK {
		t.Fatalf("expected import resolution to succeed, got %v", r.Diagnostics.Items())
	}
	if r.Order[0] != "A" || r.Order[1] != "B" {
		t.Fatalf("expected dependency-first order [A B], got %v", r.Order)
	}
}
