package walker_test

import (
	"testing"

	"github.com/blendsdk/blend65/internal/ast"
	"github.com/blendsdk/blend65/internal/parser"
	"github.com/blendsdk/blend65/internal/walker"
)

func parseProgram(t *testing.T, src string) *ast.Program {
	t.Helper()
	p := parser.New([]byte(src), "t.blend")
	prog, errs := p.Parse()
	if len(errs) != 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	return prog
}

type recordingVisitor struct {
	walker.BaseVisitor
	kinds []ast.NodeKind
}

func (r *recordingVisitor) Enter(n ast.Node, _ []ast.Node) (bool, bool) {
	r.kinds = append(r.kinds, n.Kind())
	return false, true
}

func TestWalker_IdempotentAcrossRepeatedCalls(t *testing.T) {
	prog := parseProgram(t, `module t; function f(n: byte): byte { return n; }`)
	v := &recordingVisitor{}
	w := walker.New(v)

	w.Walk(prog)
	first := append([]ast.NodeKind(nil), v.kinds...)

	v.kinds = nil
	w.Walk(prog)
	second := v.kinds

	if len(first) != len(second) {
		t.Fatalf("walk visited %d nodes first, %d second", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("walk order diverged at index %d: %v vs %v", i, first[i], second[i])
		}
	}
}

type skippingVisitor struct {
	walker.BaseVisitor
	visited []ast.NodeKind
	skipAt  ast.NodeKind
}

func (s *skippingVisitor) Enter(n ast.Node, _ []ast.Node) (skip, cont bool) {
	s.visited = append(s.visited, n.Kind())
	return n.Kind() == s.skipAt, true
}

func TestWalker_SkipSuppressesChildren(t *testing.T) {
	prog := parseProgram(t, `module t; function f(): void { { let x: byte = 1; } }`)
	v := &skippingVisitor{skipAt: ast.KindBlockStmt}
	walker.New(v).Walk(prog)

	for _, k := range v.visited {
		if k == ast.KindDeclStmt {
			t.Fatalf("skip() on BlockStmt should have suppressed its DeclStmt child, got %v", v.visited)
		}
	}
}

type stoppingEarlyVisitor struct {
	walker.BaseVisitor
	count  int
	stopAt int
}

func (s *stoppingEarlyVisitor) Enter(ast.Node, []ast.Node) (skip, cont bool) {
	s.count++
	return false, s.count < s.stopAt
}

func TestWalker_StopAbortsTraversal(t *testing.T) {
	prog := parseProgram(t, `module t; function f(): void { } function g(): void { }`)
	v := &stoppingEarlyVisitor{stopAt: 2}
	walker.New(v).Walk(prog)
	if v.count != 2 {
		t.Fatalf("stop() should abort after the 2nd Enter call, got %d calls", v.count)
	}
}

func TestNodeFinder_FindsEveryMatch(t *testing.T) {
	prog := parseProgram(t, `module t;
function f(): void { }
function g(): void { }
function h(): void { }`)
	matches := walker.NodeFinder{}.Find(prog, func(n ast.Node) bool {
		_, ok := n.(*ast.FunctionDecl)
		return ok
	})
	if len(matches) != 3 {
		t.Fatalf("expected 3 function decls, got %d", len(matches))
	}
}

func TestNodeCounter_Histogram(t *testing.T) {
	prog := parseProgram(t, `module t; function f(): void { } function g(): void { }`)
	counts := walker.NodeCounter{}.Count(prog)
	if counts[ast.KindFunctionDecl] != 2 {
		t.Fatalf("expected 2 FunctionDecl, got %d", counts[ast.KindFunctionDecl])
	}
}

func TestTransformer_IdentityProducesEqualTree(t *testing.T) {
	prog := parseProgram(t, `module t; function f(n: byte): byte { return n; }`)
	tr := walker.NewTransformer(func(ast.Node) (ast.Node, bool) { return nil, false })
	out := tr.Transform(prog)

	beforeCount := walker.NodeCounter{}.Count(prog)
	afterCount := walker.NodeCounter{}.Count(out)
	if len(beforeCount) != len(afterCount) {
		t.Fatalf("identity transform changed the node-kind histogram shape")
	}
	for k, v := range beforeCount {
		if afterCount[k] != v {
			t.Errorf("kind %v: before=%d after=%d", k, v, afterCount[k])
		}
	}
}

func TestTransformer_PreservesSharingWhenNoRuleMatches(t *testing.T) {
	prog := parseProgram(t, `module t; function f(): void { }`)
	tr := walker.NewTransformer(func(ast.Node) (ast.Node, bool) { return nil, false })
	out := tr.Transform(prog)
	if out != ast.Node(prog) {
		t.Fatalf("transform with no matching rule should return the original root unchanged")
	}
}
