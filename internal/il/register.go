package il

import (
	"strconv"

	"github.com/blendsdk/blend65/internal/typesys"
)

// VirtualRegister is one SSA-friendly value slot: an integer identity
// unique within its owning ILFunction, a type, and an optional
// human-readable name carried through for IL printing.
type VirtualRegister struct {
	ID   int
	Type typesys.Type
	Name string
}

func (r *VirtualRegister) String() string {
	if r.Name != "" {
		return "%" + r.Name
	}
	return "%r" + strconv.Itoa(r.ID)
}
