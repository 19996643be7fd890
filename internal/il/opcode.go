// Package il implements the typed Intermediate Language the semantic
// analyzer's output is lowered into: a module of functions, each a graph
// of basic blocks of instructions over typed virtual registers. The
// shapes here mirror internal/cfg's block/graph vocabulary (integer ids,
// reciprocal Preds/Succs, a single entry) one level up, now carrying real
// opcodes and operands instead of bare *ast.Stmt.
package il

// Opcode identifies one IL instruction kind. The side-effect and
// terminator bits are derived per opcode rather than stored, so they can
// never drift out of sync with the opcode itself.
type Opcode int

const (
	// Arithmetic / logic
	OpAdd Opcode = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpAnd
	OpOr
	OpXor
	OpNot
	OpNeg

	// Compare
	OpEq
	OpNeq
	OpLt
	OpLe
	OpGt
	OpGe

	// Memory
	OpLoad
	OpStore
	OpAlloc

	// Control flow
	OpCall
	OpReturn
	OpJump
	OpBranch

	// @map hardware access
	OpHardwareRead
	OpHardwareWrite
	OpMapLoadField
	OpMapStoreField
	OpMapLoadRange
	OpMapStoreRange
)

var opcodeNames = map[Opcode]string{
	OpAdd: "ADD", OpSub: "SUB", OpMul: "MUL", OpDiv: "DIV", OpMod: "MOD",
	OpAnd: "AND", OpOr: "OR", OpXor: "XOR", OpNot: "NOT", OpNeg: "NEG",
	OpEq: "EQ", OpNeq: "NEQ", OpLt: "LT", OpLe: "LE", OpGt: "GT", OpGe: "GE",
	OpLoad: "LOAD", OpStore: "STORE", OpAlloc: "ALLOC",
	OpCall: "CALL", OpReturn: "RETURN", OpJump: "JUMP", OpBranch: "BRANCH",
	OpHardwareRead: "HARDWARE_READ", OpHardwareWrite: "HARDWARE_WRITE",
	OpMapLoadField: "MAP_LOAD_FIELD", OpMapStoreField: "MAP_STORE_FIELD",
	OpMapLoadRange: "MAP_LOAD_RANGE", OpMapStoreRange: "MAP_STORE_RANGE",
}

func (op Opcode) String() string {
	if n, ok := opcodeNames[op]; ok {
		return n
	}
	return "UNKNOWN_OPCODE"
}

// Family groups opcodes the way callers that care about "what kind of
// thing is this" (a printer, a register allocator) want to switch on,
// without re-listing every individual opcode at each call site.
type Family int

const (
	FamilyArithmetic Family = iota
	FamilyCompare
	FamilyMemory
	FamilyControlFlow
	FamilyMap
)

func (op Opcode) Family() Family {
	switch op {
	case OpAdd, OpSub, OpMul, OpDiv, OpMod, OpAnd, OpOr, OpXor, OpNot, OpNeg:
		return FamilyArithmetic
	case OpEq, OpNeq, OpLt, OpLe, OpGt, OpGe:
		return FamilyCompare
	case OpLoad, OpStore, OpAlloc:
		return FamilyMemory
	case OpCall, OpReturn, OpJump, OpBranch:
		return FamilyControlFlow
	case OpHardwareRead, OpHardwareWrite, OpMapLoadField, OpMapStoreField, OpMapLoadRange, OpMapStoreRange:
		return FamilyMap
	default:
		return FamilyArithmetic
	}
}

// IsTerminator reports whether op ends a basic block.
func (op Opcode) IsTerminator() bool {
	switch op {
	case OpReturn, OpJump, OpBranch:
		return true
	default:
		return false
	}
}

// HasSideEffect reports whether op's execution can be observed other than
// through its declared Result register: all @map and memory writes are
// side-effecting, all reads are not (per the hardware-access contract);
// CALL is conservatively side-effecting since its callee is opaque here.
func (op Opcode) HasSideEffect() bool {
	switch op {
	case OpStore, OpCall, OpHardwareWrite, OpMapStoreField, OpMapStoreRange:
		return true
	default:
		return false
	}
}
