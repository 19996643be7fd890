package il

import "fmt"

// BasicBlock is one maximal straight-line instruction sequence with a
// single entry and, once complete, a single terminator as its last
// instruction.
type BasicBlock struct {
	ID           int
	Label        string
	Instructions []*Instruction

	Preds []int
	Succs []int
}

// HasTerminator reports whether the block's last instruction is a
// terminator opcode.
func (b *BasicBlock) HasTerminator() bool {
	n := len(b.Instructions)
	return n > 0 && b.Instructions[n-1].Op.IsTerminator()
}

// AddInstruction appends instr, refusing to append after a terminator:
// at most one terminator per block, and it is always last.
func (b *BasicBlock) AddInstruction(instr *Instruction) error {
	if b.HasTerminator() {
		return fmt.Errorf("il: block %q already terminated, cannot append %s", b.Label, instr.Op)
	}
	b.Instructions = append(b.Instructions, instr)
	return nil
}

// LinkTo registers other as a successor of b, keeping Preds/Succs
// reciprocal, matching internal/cfg.Graph.Link.
func (b *BasicBlock) LinkTo(other *BasicBlock) {
	for _, s := range b.Succs {
		if s == other.ID {
			return
		}
	}
	b.Succs = append(b.Succs, other.ID)
	other.Preds = append(other.Preds, b.ID)
}
