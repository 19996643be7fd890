// Package symtab implements lexically nested scopes and the per-module
// and global symbol tables used by the semantic analyzer.
package symtab

import (
	"github.com/blendsdk/blend65/internal/ast"
	"github.com/blendsdk/blend65/internal/typesys"
)

// Kind discriminates the declaration kinds a Symbol can carry.
type Kind int

const (
	KindVariable Kind = iota
	KindFunction
	KindTypeAlias
	KindEnum
	KindImport
)

func (k Kind) String() string {
	switch k {
	case KindVariable:
		return "variable"
	case KindFunction:
		return "function"
	case KindTypeAlias:
		return "type"
	case KindEnum:
		return "enum"
	case KindImport:
		return "import"
	default:
		return "unknown"
	}
}

// Symbol is one declared name: a variable, function, type alias, enum, or
// import binding.
type Symbol struct {
	Name       string
	Kind       Kind
	Type       typesys.Type // Builtins.Unknown until Pass 2 resolves it (nil for imports until the module coordinator fills it)
	Location   ast.Span
	IsConst    bool
	IsExported bool
	IsCallback bool // functions only

	// Params/Return are populated for KindFunction so call sites can check
	// arity and per-position assignability without a second lookup.
	Params []typesys.Type
	Return typesys.Type

	// ImportModule/ImportOriginal are populated for KindImport.
	ImportModule   string
	ImportOriginal string
}

// Scope is one lexical block: module, function, nested block, loop body,
// or match case. Lookup is innermost-first with fallback to Parent.
type Scope struct {
	Parent  *Scope
	symbols map[string]*Symbol
}

// NewScope creates a scope nested under parent (nil for a root scope).
func NewScope(parent *Scope) *Scope {
	return &Scope{Parent: parent, symbols: make(map[string]*Symbol)}
}

// DeclareLocal declares a name directly in this scope, failing if the name
// already exists in this scope (not ancestors — shadowing is permitted
// across scope boundaries).
func (s *Scope) DeclareLocal(sym *Symbol) (*Symbol, bool) {
	if existing, ok := s.symbols[sym.Name]; ok {
		return existing, false
	}
	s.symbols[sym.Name] = sym
	return sym, true
}

// LookupLocal looks up a name in this scope only, without consulting
// ancestors.
func (s *Scope) LookupLocal(name string) (*Symbol, bool) {
	sym, ok := s.symbols[name]
	return sym, ok
}

// Lookup resolves name innermost-first, walking Parent links.
func (s *Scope) Lookup(name string) (*Symbol, bool) {
	for cur := s; cur != nil; cur = cur.Parent {
		if sym, ok := cur.symbols[name]; ok {
			return sym, true
		}
	}
	return nil, false
}

// Table is the per-module symbol table: a tree of scopes rooted at the
// module scope, plus a cursor (Current) used while a pass walks the tree.
type Table struct {
	Root    *Scope
	Current *Scope
}

// New creates a Table whose root scope is Current.
func New() *Table {
	root := NewScope(nil)
	return &Table{Root: root, Current: root}
}

// PushScope enters a new child scope of Current and makes it Current.
func (t *Table) PushScope() *Scope {
	t.Current = NewScope(t.Current)
	return t.Current
}

// PopScope leaves the current scope, returning to its parent. Popping the
// root scope is an invariant violation and panics.
func (t *Table) PopScope() {
	if t.Current.Parent == nil {
		panic("symtab: pop of root scope")
	}
	t.Current = t.Current.Parent
}

// GetRootScope returns the module's root scope.
func (t *Table) GetRootScope() *Scope { return t.Root }

// DeclareVariable declares a variable in the current scope. ok is false
// with DUPLICATE_DECLARATION semantics left to the caller (Pass 1 attaches
// the diagnostic; this method only reports the collision).
func (t *Table) DeclareVariable(name string, loc ast.Span, typ typesys.Type, isConst, isExported bool) (*Symbol, bool) {
	return t.Current.DeclareLocal(&Symbol{
		Name: name, Kind: KindVariable, Type: typ, Location: loc,
		IsConst: isConst, IsExported: isExported,
	})
}

// DeclareFunction declares a function in the current scope. returnType and
// params may be nil/unset at Pass 1 time (pending, resolved in Pass 2).
func (t *Table) DeclareFunction(name string, loc ast.Span, returnType typesys.Type, params []typesys.Type, isCallback, isExported bool) (*Symbol, bool) {
	return t.Current.DeclareLocal(&Symbol{
		Name: name, Kind: KindFunction, Location: loc, IsCallback: isCallback,
		IsExported: isExported, Return: returnType, Params: params,
	})
}

// DeclareType declares a type alias in the current scope.
func (t *Table) DeclareType(name string, loc ast.Span, typ typesys.Type, isExported bool) (*Symbol, bool) {
	return t.Current.DeclareLocal(&Symbol{
		Name: name, Kind: KindTypeAlias, Type: typ, Location: loc, IsExported: isExported,
	})
}

// DeclareEnum declares an enum type in the current scope.
func (t *Table) DeclareEnum(name string, loc ast.Span, typ typesys.Type, isExported bool) (*Symbol, bool) {
	return t.Current.DeclareLocal(&Symbol{
		Name: name, Kind: KindEnum, Type: typ, Location: loc, IsExported: isExported,
	})
}

// DeclareImport declares an imported binding in the current scope.
func (t *Table) DeclareImport(localName, module, original string, loc ast.Span) (*Symbol, bool) {
	return t.Current.DeclareLocal(&Symbol{
		Name: localName, Kind: KindImport, Location: loc,
		ImportModule: module, ImportOriginal: original,
	})
}

// Lookup resolves a name from the current scope outward.
func (t *Table) Lookup(name string) (*Symbol, bool) {
	return t.Current.Lookup(name)
}

// Exports returns every symbol marked exported, directly in the root
// (module) scope — export is only meaningful at module level.
func (t *Table) Exports() map[string]*Symbol {
	out := make(map[string]*Symbol)
	for name, sym := range t.Root.symbols {
		if sym.IsExported {
			out[name] = sym
		}
	}
	return out
}

// GlobalTable aggregates the exported symbols of every analyzed module,
// keyed by qualified module name.
type GlobalTable struct {
	modules map[string]map[string]*Symbol
}

// NewGlobal creates an empty GlobalTable.
func NewGlobal() *GlobalTable {
	return &GlobalTable{modules: make(map[string]map[string]*Symbol)}
}

// Register publishes a module's exports into the global table. Called
// once per module as soon as its own analysis completes.
func (g *GlobalTable) Register(moduleName string, exports map[string]*Symbol) {
	g.modules[moduleName] = exports
}

// Lookup resolves name from the exports of moduleName.
func (g *GlobalTable) Lookup(moduleName, name string) (*Symbol, bool) {
	exports, ok := g.modules[moduleName]
	if !ok {
		return nil, false
	}
	sym, ok := exports[name]
	return sym, ok
}

// HasModule reports whether moduleName has been registered yet.
func (g *GlobalTable) HasModule(moduleName string) bool {
	_, ok := g.modules[moduleName]
	return ok
}
