package il

import (
	"fmt"
	"sort"

	"github.com/blendsdk/blend65/internal/ast"
	"github.com/blendsdk/blend65/internal/typesys"
)

// Global is one module-level storage slot: a variable, a constant, or a
// `@map` hardware binding. Address is required when Storage is
// ast.StorageMap (it names the absolute or base hardware address); it is
// nil otherwise.
type Global struct {
	Name         string
	Type         typesys.Type
	Storage      ast.StorageClass
	InitialValue any
	Address      *uint16
	IsExported   bool
	IsConstant   bool
}

// ExportKind discriminates what an Export names.
type ExportKind int

const (
	ExportFunction ExportKind = iota
	ExportVariable
	ExportType
)

// Export renames a local function/variable/type as the name other modules
// import it by.
type Export struct {
	Kind         ExportKind
	LocalName    string
	ExportedName string
}

// Import declares a binding this module consumes from another module.
// TypeOnly is set for a type-only import (no runtime symbol to link).
type Import struct {
	LocalName    string
	OriginalName string
	Module       string
	TypeOnly     bool
}

// SymbolKind discriminates what ResolveSymbol found.
type SymbolKind int

const (
	SymbolFunction SymbolKind = iota
	SymbolGlobal
	SymbolImport
)

// SymbolRef is what ResolveSymbol returns: enough to tell the caller what
// it found without exposing ILModule's internal maps.
type SymbolRef struct {
	Kind     SymbolKind
	Function *ILFunction
	Global   *Global
	Import   *Import
}

// ILModule is one compiled module's IL: its functions, globals, imports,
// and exports, plus an optional entry point and free-form metadata.
type ILModule struct {
	Name string

	functions map[string]*ILFunction
	funcOrder []string

	globals     map[string]*Global
	globalOrder []string

	Imports []*Import
	Exports []*Export

	EntryPoint string // empty means none declared
	Metadata   map[string]any
}

// NewModule creates an empty module with the given name.
func NewModule(name string) *ILModule {
	return &ILModule{
		Name:      name,
		functions: make(map[string]*ILFunction),
		globals:   make(map[string]*Global),
		Metadata:  make(map[string]any),
	}
}

// AddFunction registers fn under its own name, failing if that name is
// already taken by a function or a global.
func (m *ILModule) AddFunction(fn *ILFunction) error {
	if _, ok := m.functions[fn.Name]; ok {
		return fmt.Errorf("il: function %q already exists in module %q", fn.Name, m.Name)
	}
	if _, ok := m.globals[fn.Name]; ok {
		return fmt.Errorf("il: %q is already declared as a global in module %q", fn.Name, m.Name)
	}
	m.functions[fn.Name] = fn
	m.funcOrder = append(m.funcOrder, fn.Name)
	return nil
}

// GetFunction looks up a function by name.
func (m *ILModule) GetFunction(name string) (*ILFunction, bool) {
	fn, ok := m.functions[name]
	return fn, ok
}

// RemoveFunction deletes a function by name; if it was the entry point,
// the entry point is cleared too.
func (m *ILModule) RemoveFunction(name string) {
	delete(m.functions, name)
	for i, n := range m.funcOrder {
		if n == name {
			m.funcOrder = append(m.funcOrder[:i], m.funcOrder[i+1:]...)
			break
		}
	}
	if m.EntryPoint == name {
		m.EntryPoint = ""
	}
}

// Functions returns the module's functions in creation order.
func (m *ILModule) Functions() []*ILFunction {
	out := make([]*ILFunction, len(m.funcOrder))
	for i, n := range m.funcOrder {
		out[i] = m.functions[n]
	}
	return out
}

// CreateGlobal registers a new global, failing if the name collides with
// an existing global or function, or if a @map global has no address.
func (m *ILModule) CreateGlobal(g *Global) error {
	if _, ok := m.globals[g.Name]; ok {
		return fmt.Errorf("il: global %q already exists in module %q", g.Name, m.Name)
	}
	if _, ok := m.functions[g.Name]; ok {
		return fmt.Errorf("il: %q is already declared as a function in module %q", g.Name, m.Name)
	}
	if g.Storage == ast.StorageMap && g.Address == nil {
		return fmt.Errorf("il: @map global %q requires an address", g.Name)
	}
	m.globals[g.Name] = g
	m.globalOrder = append(m.globalOrder, g.Name)
	return nil
}

// GetGlobal looks up a global by name.
func (m *ILModule) GetGlobal(name string) (*Global, bool) {
	g, ok := m.globals[name]
	return g, ok
}

// Globals returns the module's globals in creation order.
func (m *ILModule) Globals() []*Global {
	out := make([]*Global, len(m.globalOrder))
	for i, n := range m.globalOrder {
		out[i] = m.globals[n]
	}
	return out
}

// DeclareImport records an imported binding.
func (m *ILModule) DeclareImport(localName, originalName, module string, typeOnly bool) {
	m.Imports = append(m.Imports, &Import{LocalName: localName, OriginalName: originalName, Module: module, TypeOnly: typeOnly})
}

// DeclareExport records a local-to-exported rename.
func (m *ILModule) DeclareExport(kind ExportKind, localName, exportedName string) {
	m.Exports = append(m.Exports, &Export{Kind: kind, LocalName: localName, ExportedName: exportedName})
}

// SetEntryPoint sets the module's entry point, failing if name does not
// name an existing function.
func (m *ILModule) SetEntryPoint(name string) error {
	if _, ok := m.functions[name]; !ok {
		return fmt.Errorf("il: entry point %q does not reference an existing function", name)
	}
	m.EntryPoint = name
	return nil
}

// ResolveSymbol resolves name with priority function > global > import,
// matching the order a use site would shadow in.
func (m *ILModule) ResolveSymbol(name string) (*SymbolRef, bool) {
	if fn, ok := m.functions[name]; ok {
		return &SymbolRef{Kind: SymbolFunction, Function: fn}, true
	}
	if g, ok := m.globals[name]; ok {
		return &SymbolRef{Kind: SymbolGlobal, Global: g}, true
	}
	for _, imp := range m.Imports {
		if imp.LocalName == name {
			return &SymbolRef{Kind: SymbolImport, Import: imp}, true
		}
	}
	return nil, false
}

// Validate checks structural invariants: a declared entry point must
// exist, every export must name a real local function or global, and no
// non-empty block of any function may lack both a terminator and a
// successor.
func (m *ILModule) Validate() []error {
	var errs []error

	if m.EntryPoint != "" {
		if _, ok := m.functions[m.EntryPoint]; !ok {
			errs = append(errs, fmt.Errorf("il: entry point %q does not reference an existing function", m.EntryPoint))
		}
	}

	for _, exp := range m.Exports {
		switch exp.Kind {
		case ExportFunction:
			if _, ok := m.functions[exp.LocalName]; !ok {
				errs = append(errs, fmt.Errorf("il: dangling export %q: no function named %q", exp.ExportedName, exp.LocalName))
			}
		case ExportVariable:
			if _, ok := m.globals[exp.LocalName]; !ok {
				errs = append(errs, fmt.Errorf("il: dangling export %q: no global named %q", exp.ExportedName, exp.LocalName))
			}
		}
	}

	for _, fn := range m.Functions() {
		for _, b := range fn.GetBlocks() {
			if len(b.Succs) == 0 && !b.HasTerminator() && len(b.Instructions) > 0 {
				errs = append(errs, fmt.Errorf("il: function %q block %q has no terminator and no successor", fn.Name, b.Label))
			}
		}
	}

	sort.Slice(errs, func(i, j int) bool { return errs[i].Error() < errs[j].Error() })
	return errs
}
