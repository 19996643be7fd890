package il_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blendsdk/blend65/internal/ast"
	"github.com/blendsdk/blend65/internal/il"
	"github.com/blendsdk/blend65/internal/typesys"
)

func TestILModule_AddFunctionRejectsNameCollisionWithGlobal(t *testing.T) {
	m := il.NewModule("m")
	require.NoError(t, m.CreateGlobal(&il.Global{Name: "x", Type: typesys.Builtins.Byte}))
	err := m.AddFunction(il.NewILFunction("x", nil, typesys.Builtins.Void))
	assert.Error(t, err)
}

func TestILModule_CreateGlobal_MapStorageRequiresAddress(t *testing.T) {
	m := il.NewModule("m")
	err := m.CreateGlobal(&il.Global{Name: "border", Type: typesys.Builtins.Byte, Storage: ast.StorageMap})
	assert.Error(t, err)

	addr := uint16(0xD020)
	err = m.CreateGlobal(&il.Global{Name: "border", Type: typesys.Builtins.Byte, Storage: ast.StorageMap, Address: &addr})
	assert.NoError(t, err)
}

func TestILModule_ResolveSymbol_PriorityFunctionThenGlobalThenImport(t *testing.T) {
	m := il.NewModule("m")
	require.NoError(t, m.AddFunction(il.NewILFunction("shared", nil, typesys.Builtins.Void)))
	require.NoError(t, m.CreateGlobal(&il.Global{Name: "onlyGlobal", Type: typesys.Builtins.Byte}))
	m.DeclareImport("onlyImport", "orig", "Other", false)
	m.DeclareImport("shared", "orig", "Other", false) // shadowed by the function

	ref, ok := m.ResolveSymbol("shared")
	require.True(t, ok)
	assert.Equal(t, il.SymbolFunction, ref.Kind)

	ref, ok = m.ResolveSymbol("onlyGlobal")
	require.True(t, ok)
	assert.Equal(t, il.SymbolGlobal, ref.Kind)

	ref, ok = m.ResolveSymbol("onlyImport")
	require.True(t, ok)
	assert.Equal(t, il.SymbolImport, ref.Kind)

	_, ok = m.ResolveSymbol("nope")
	assert.False(t, ok)
}

func TestILModule_SetEntryPoint_RejectsUnknownFunction(t *testing.T) {
	m := il.NewModule("m")
	assert.Error(t, m.SetEntryPoint("missing"))

	require.NoError(t, m.AddFunction(il.NewILFunction("main", nil, typesys.Builtins.Void)))
	assert.NoError(t, m.SetEntryPoint("main"))
}

func TestILModule_Validate_DanglingExportIsReported(t *testing.T) {
	m := il.NewModule("m")
	m.DeclareExport(il.ExportFunction, "missing", "Missing")
	errs := m.Validate()
	require.Len(t, errs, 1)
}

func TestILModule_Validate_NonTerminatedNonEmptyBlockIsReported(t *testing.T) {
	m := il.NewModule("m")
	fn := il.NewILFunction("f", nil, typesys.Builtins.Void)
	fn.Entry().Instructions = append(fn.Entry().Instructions, &il.Instruction{Op: il.OpAdd})
	require.NoError(t, m.AddFunction(fn))

	errs := m.Validate()
	require.Len(t, errs, 1)
}

func TestILModule_Validate_CleanModuleHasNoErrors(t *testing.T) {
	m := il.NewModule("m")
	fn := il.NewILFunction("main", nil, typesys.Builtins.Void)
	require.NoError(t, fn.Entry().AddInstruction(&il.Instruction{Op: il.OpReturn}))
	require.NoError(t, m.AddFunction(fn))
	require.NoError(t, m.SetEntryPoint("main"))
	m.DeclareExport(il.ExportFunction, "main", "Main")

	assert.Empty(t, m.Validate())
}

func TestILModule_FunctionsAndGlobalsPreserveCreationOrder(t *testing.T) {
	m := il.NewModule("m")
	require.NoError(t, m.AddFunction(il.NewILFunction("b", nil, typesys.Builtins.Void)))
	require.NoError(t, m.AddFunction(il.NewILFunction("a", nil, typesys.Builtins.Void)))
	names := []string{}
	for _, fn := range m.Functions() {
		names = append(names, fn.Name)
	}
	assert.Equal(t, []string{"b", "a"}, names)
}
