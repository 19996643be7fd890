package symtab_test

import (
	"testing"

	"github.com/blendsdk/blend65/internal/ast"
	"github.com/blendsdk/blend65/internal/symtab"
	"github.com/blendsdk/blend65/internal/typesys"
)

func TestDeclareVariable_DuplicateInSameScopeFails(t *testing.T) {
	tab := symtab.New()
	if _, ok := tab.DeclareVariable("x", ast.Span{}, typesys.Builtins.Byte, false, false); !ok {
		t.Fatal("first declaration should succeed")
	}
	if _, ok := tab.DeclareVariable("x", ast.Span{}, typesys.Builtins.Byte, false, false); ok {
		t.Fatal("redeclaration in the same scope should fail")
	}
}

func TestShadowingAcrossScopesIsPermitted(t *testing.T) {
	tab := symtab.New()
	if _, ok := tab.DeclareVariable("x", ast.Span{}, typesys.Builtins.Byte, false, false); !ok {
		t.Fatal("outer declaration should succeed")
	}
	tab.PushScope()
	if _, ok := tab.DeclareVariable("x", ast.Span{}, typesys.Builtins.Word, false, false); !ok {
		t.Fatal("shadowing in a nested scope should be permitted")
	}
	sym, _ := tab.Lookup("x")
	if sym.Type != typesys.Builtins.Word {
		t.Fatalf("innermost lookup should see the shadowing declaration, got %v", sym.Type)
	}
	tab.PopScope()
	sym, _ = tab.Lookup("x")
	if sym.Type != typesys.Builtins.Byte {
		t.Fatalf("lookup after popping the shadow scope should see the outer declaration, got %v", sym.Type)
	}
}

func TestLookup_InnermostFirstWithParentFallback(t *testing.T) {
	tab := symtab.New()
	tab.DeclareVariable("outer", ast.Span{}, typesys.Builtins.Byte, false, false)
	tab.PushScope()
	tab.DeclareVariable("inner", ast.Span{}, typesys.Builtins.Word, false, false)

	if _, ok := tab.Lookup("inner"); !ok {
		t.Error("inner symbol should resolve from the nested scope")
	}
	if _, ok := tab.Lookup("outer"); !ok {
		t.Error("outer symbol should resolve by falling back to the parent scope")
	}
	if _, ok := tab.Lookup("nonexistent"); ok {
		t.Error("unknown name should not resolve")
	}
}

func TestPopRootScopePanics(t *testing.T) {
	tab := symtab.New()
	defer func() {
		if recover() == nil {
			t.Fatal("popping the root scope should panic")
		}
	}()
	tab.PopScope()
}

func TestExports_OnlyModuleLevelExported(t *testing.T) {
	tab := symtab.New()
	tab.DeclareVariable("visible", ast.Span{}, typesys.Builtins.Byte, false, true)
	tab.DeclareVariable("hidden", ast.Span{}, typesys.Builtins.Byte, false, false)

	exports := tab.Exports()
	if _, ok := exports["visible"]; !ok {
		t.Error("exported symbol should appear in Exports()")
	}
	if _, ok := exports["hidden"]; ok {
		t.Error("non-exported symbol should not appear in Exports()")
	}
}

func TestGlobalTable_RegisterAndLookup(t *testing.T) {
	g := symtab.NewGlobal()
	if g.HasModule("A") {
		t.Fatal("unregistered module should report HasModule=false")
	}
	g.Register("A", map[string]*symtab.Symbol{
		"f": {Name: "f", Kind: symtab.KindFunction},
	})
	if !g.HasModule("A") {
		t.Fatal("registered module should report HasModule=true")
	}
	if _, ok := g.Lookup("A", "f"); !ok {
		t.Fatal("exported symbol should resolve from the global table")
	}
	if _, ok := g.Lookup("A", "g"); ok {
		t.Fatal("non-exported symbol should not resolve")
	}
	if _, ok := g.Lookup("B", "f"); ok {
		t.Fatal("lookup against an unregistered module should fail")
	}
}
