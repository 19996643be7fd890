package il

import "github.com/blendsdk/blend65/internal/typesys"

// Param is one IL function parameter: a name and its type, mirroring the
// analyzer's resolved ast.Param without carrying source position.
type Param struct {
	Name string
	Type typesys.Type
}

// ILFunction is one function's IL body: a graph of basic blocks, the
// registers allocated within it, and the declared signature the call
// sites outside the function see.
type ILFunction struct {
	Name       string
	Params     []Param
	ReturnType typesys.Type

	Blocks  map[int]*BasicBlock
	Order   []int // block ids in creation order
	EntryID int

	Registers []*VirtualRegister
	Metadata  map[string]any

	nextBlockID int
	nextRegID   int
	nextInstrID int
}

// NewILFunction creates a function with a single, unique entry block
// already allocated.
func NewILFunction(name string, params []Param, returnType typesys.Type) *ILFunction {
	f := &ILFunction{
		Name:       name,
		Params:     params,
		ReturnType: returnType,
		Blocks:     make(map[int]*BasicBlock),
		Metadata:   make(map[string]any),
	}
	entry := f.CreateBlock("entry")
	f.EntryID = entry.ID
	return f
}

// CreateBlock allocates and registers a fresh block with the given label.
func (f *ILFunction) CreateBlock(label string) *BasicBlock {
	b := &BasicBlock{ID: f.nextBlockID, Label: label}
	f.nextBlockID++
	f.Blocks[b.ID] = b
	f.Order = append(f.Order, b.ID)
	return b
}

// CreateRegister allocates a fresh virtual register of type t. name may be
// empty, in which case the register prints by id alone.
func (f *ILFunction) CreateRegister(t typesys.Type, name string) *VirtualRegister {
	r := &VirtualRegister{ID: f.nextRegID, Type: t, Name: name}
	f.nextRegID++
	f.Registers = append(f.Registers, r)
	return r
}

// NewInstruction allocates an Instruction with a fresh id, unique within
// this function, ready to be appended to a block.
func (f *ILFunction) NewInstruction(op Opcode, operands []Operand, result *VirtualRegister) *Instruction {
	instr := &Instruction{ID: f.nextInstrID, Op: op, Operands: operands, Result: result}
	f.nextInstrID++
	return instr
}

// GetBlocks returns the function's blocks in creation order.
func (f *ILFunction) GetBlocks() []*BasicBlock {
	out := make([]*BasicBlock, len(f.Order))
	for i, id := range f.Order {
		out[i] = f.Blocks[id]
	}
	return out
}

// GetBlockCount returns the number of blocks in the function.
func (f *ILFunction) GetBlockCount() int { return len(f.Order) }

// Entry returns the function's unique entry block.
func (f *ILFunction) Entry() *BasicBlock { return f.Blocks[f.EntryID] }

// ilDomView adapts *ILFunction to ssa.BlockGraph, mirroring
// internal/cfg.Graph's DomView so the same dominator/frontier code in
// internal/ssa serves both the pre-IL cfg.Graph and the lowered IL.
type ilDomView struct{ f *ILFunction }

func (v ilDomView) EntryID() int    { return v.f.EntryID }
func (v ilDomView) BlockIDs() []int { return append([]int(nil), v.f.Order...) }
func (v ilDomView) Succs(id int) []int {
	if b, ok := v.f.Blocks[id]; ok {
		return b.Succs
	}
	return nil
}
func (v ilDomView) Preds(id int) []int {
	if b, ok := v.f.Blocks[id]; ok {
		return b.Preds
	}
	return nil
}

// DomView exposes f through the small interface internal/ssa's dominator
// and dominance-frontier builders consume.
func (f *ILFunction) DomView() ilDomView { return ilDomView{f: f} }
