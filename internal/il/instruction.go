package il

import (
	"fmt"
	"strconv"

	"github.com/blendsdk/blend65/internal/typesys"
)

// OperandKind discriminates the shapes an Instruction operand can take.
type OperandKind int

const (
	OperandRegister OperandKind = iota
	OperandImmediate
	OperandGlobal
	OperandBlock // a block id, used by jump/branch targets
)

// Operand is one instruction input. Exactly one of Reg/Imm/Global/Block is
// meaningful, selected by Kind.
type Operand struct {
	Kind   OperandKind
	Reg    *VirtualRegister
	Imm    int64
	ImmTyp typesys.Type
	Global string
	Block  int
}

func RegOperand(r *VirtualRegister) Operand { return Operand{Kind: OperandRegister, Reg: r} }

func ImmOperand(v int64, t typesys.Type) Operand {
	return Operand{Kind: OperandImmediate, Imm: v, ImmTyp: t}
}

func GlobalOperand(name string) Operand { return Operand{Kind: OperandGlobal, Global: name} }

func BlockOperand(id int) Operand { return Operand{Kind: OperandBlock, Block: id} }

func (o Operand) String() string {
	switch o.Kind {
	case OperandRegister:
		return o.Reg.String()
	case OperandImmediate:
		return strconv.FormatInt(o.Imm, 10)
	case OperandGlobal:
		return "@" + o.Global
	case OperandBlock:
		return "bb" + strconv.Itoa(o.Block)
	default:
		return "?"
	}
}

// Instruction is one IL operation: an opcode, its operands, and an
// optional result register. @map instructions additionally carry the
// struct/field or range identity the opcode needs (MapName/Field for the
// field variants, BaseAddress/EndAddress for the range variants).
type Instruction struct {
	ID       int
	Op       Opcode
	Operands []Operand
	Result   *VirtualRegister
	Metadata map[string]any

	// @map-family fields; zero-valued and unused for every other opcode.
	MapName     string
	Field       string
	BaseAddress uint16
	EndAddress  uint16
}

// GetOperands returns the instruction's operand list, for liveness and
// printing callers that don't want to know the instruction's shape.
func (i *Instruction) GetOperands() []Operand { return i.Operands }

// GetUsedRegisters returns every register this instruction reads, in
// operand order. The Result register is written, not read, so it is
// never included here.
func (i *Instruction) GetUsedRegisters() []*VirtualRegister {
	var out []*VirtualRegister
	for _, op := range i.Operands {
		if op.Kind == OperandRegister {
			out = append(out, op.Reg)
		}
	}
	return out
}

// String renders the instruction in a readable textual form; addresses
// render in uppercase hex as the hardware-access contract requires
// (e.g. $D020).
func (i *Instruction) String() string {
	lhs := ""
	if i.Result != nil {
		lhs = i.Result.String() + " = "
	}
	switch i.Op {
	case OpMapLoadField, OpMapStoreField:
		return fmt.Sprintf("%s%s %s.%s%s", lhs, i.Op, i.MapName, i.Field, operandSuffix(i.Operands))
	case OpMapLoadRange, OpMapStoreRange:
		return fmt.Sprintf("%s%s %s[$%04X..$%04X]%s", lhs, i.Op, i.MapName, i.BaseAddress, i.EndAddress, operandSuffix(i.Operands))
	case OpHardwareRead, OpHardwareWrite:
		return fmt.Sprintf("%s%s $%04X%s", lhs, i.Op, i.BaseAddress, operandSuffix(i.Operands))
	default:
		return fmt.Sprintf("%s%s%s", lhs, i.Op, operandSuffix(i.Operands))
	}
}

func operandSuffix(ops []Operand) string {
	if len(ops) == 0 {
		return ""
	}
	s := " "
	for idx, op := range ops {
		if idx > 0 {
			s += ", "
		}
		s += op.String()
	}
	return s
}
