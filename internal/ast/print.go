package ast

import (
	"fmt"
	"strings"
)

// Print renders a node as a short, human-readable form for diagnostic
// messages. It is not a source-fidelity pretty printer.
func Print(n Node) string {
	switch v := n.(type) {
	case *Identifier:
		return v.Name
	case *Literal:
		return fmt.Sprintf("%v", v.Value)
	case *BinaryExpr:
		return fmt.Sprintf("(%s %s %s)", Print(v.Left), v.Op, Print(v.Right))
	case *UnaryExpr:
		return fmt.Sprintf("(%s%s)", v.Op, Print(v.Expr))
	case *CallExpr:
		args := make([]string, len(v.Args))
		for i, a := range v.Args {
			args[i] = Print(a)
		}
		return fmt.Sprintf("%s(%s)", Print(v.Callee), strings.Join(args, ", "))
	case *MemberExpr:
		return fmt.Sprintf("%s.%s", Print(v.Object), v.Field)
	case *IndexExpr:
		return fmt.Sprintf("%s[%s]", Print(v.Object), Print(v.Index))
	case *FunctionDecl:
		return fmt.Sprintf("function %s", v.Name)
	case *VariableDecl:
		return fmt.Sprintf("%s %s", map[bool]string{true: "const", false: "let"}[v.IsConst], v.Name)
	default:
		return n.Kind().String()
	}
}
