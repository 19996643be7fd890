package typesys

import (
	"strconv"
	"strings"
)

// System resolves type annotations and implements assignability and
// arithmetic-promotion rules. A System is cheap to share: its only
// mutable state is the alias/enum table built up during type resolution,
// and the builtin types it hands out are the shared Builtins singletons.
type System struct {
	aliases map[string]Type // user-declared `type` and `enum` names
}

// New creates a System with no user-declared types registered yet.
func New() *System {
	return &System{aliases: make(map[string]Type)}
}

// GetBuiltinType looks up one of the fixed primitive type names. The
// second return is false for any name that isn't a builtin (including
// user-declared aliases — use Resolve for the full annotation grammar).
func (s *System) GetBuiltinType(name string) (Type, bool) {
	switch name {
	case "byte":
		return Builtins.Byte, true
	case "word":
		return Builtins.Word, true
	case "bool":
		return Builtins.Bool, true
	case "void":
		return Builtins.Void, true
	case "string":
		return Builtins.String, true
	default:
		return nil, false
	}
}

// DeclareAlias registers a user type/enum under name, for later lookup by
// Resolve. Pass 2 calls this once per TypeDecl/EnumDecl.
func (s *System) DeclareAlias(name string, t Type) {
	s.aliases[name] = t
}

// LookupAlias returns a previously declared alias or enum type by name.
func (s *System) LookupAlias(name string) (Type, bool) {
	t, ok := s.aliases[name]
	return t, ok
}

// CreateArrayType builds `Element[Length]`; pass length < 0 for an
// unspecified-length parameter array type.
func (s *System) CreateArrayType(element Type, length int) Type {
	return &Array{Element: element, Length: length}
}

// CreateFunctionType builds `(Params...) -> Return`.
func (s *System) CreateFunctionType(params []Type, ret Type) Type {
	return &Func{Params: params, Return: ret}
}

// ResolveTypeAnnotation resolves a dotted/bracketed annotation string
// (as produced by ast.TypeAnnotation.AnnotationString, or directly by a
// caller) to a concrete Type. Unknown names resolve to Builtins.Unknown;
// callers are expected to have already raised UNKNOWN_TYPE in that case.
func (s *System) ResolveTypeAnnotation(name string) Type {
	if t, ok := s.GetBuiltinType(name); ok {
		return t
	}
	if t, ok := s.LookupAlias(name); ok {
		return t
	}
	return Builtins.Unknown
}

// IsAssignable implements the widening assignability rules:
//   - identical types
//   - byte widens to word
//   - enum value assignable to its underlying type
//   - a literal integer is assignable if it fits the target's range
//     (handled separately by IsAssignableLiteral)
//
// No implicit narrowing: word is never assignable to byte.
func (s *System) IsAssignable(source, target Type) bool {
	return s.isAssignable(source, target, nil)
}

// IsAssignableLiteral is IsAssignable for the case where source is an
// integer literal with the given value, which can widen/narrow purely by
// range-fit.
func (s *System) IsAssignableLiteral(value int64, target Type) bool {
	switch Underlying(target).Kind() {
	case KindByte:
		return value >= 0 && value <= 255
	case KindWord:
		return value >= 0 && value <= 65535
	default:
		return false
	}
}

func (s *System) isAssignable(source, target Type, seen map[[2]Type]bool) bool {
	if source == nil || target == nil {
		return false
	}
	if source == Builtins.Unknown || target == Builtins.Unknown {
		// Conservative: unknown types compare as assignable-to-anything
		// only to avoid cascading spurious errors from an earlier failure.
		return true
	}
	if sameType(source, target) {
		return true
	}

	// aliases are transparent: compare the types they name.
	if us, ut := Underlying(source), Underlying(target); us != source || ut != target {
		return s.isAssignable(us, ut, seen)
	}

	// byte widens to word.
	if Underlying(source).Kind() == KindByte && Underlying(target).Kind() == KindWord {
		return true
	}

	// enum value assignable to its underlying type.
	if en, ok := Underlying(source).(*Enum); ok {
		if s.isAssignable(en.Underlying, target, seen) {
			return true
		}
	}

	// arrays: element-wise identical element type; length must match
	// unless target length is unspecified (parameter position).
	sa, sok := Underlying(source).(*Array)
	ta, tok := Underlying(target).(*Array)
	if sok && tok {
		if !sameType(sa.Element, ta.Element) {
			return false
		}
		return ta.Length < 0 || sa.Length == ta.Length
	}

	return false
}

func sameType(a, b Type) bool {
	if a == b {
		return true
	}
	// Primitive singletons are interned, but defensively compare kind in
	// case a caller constructed a duplicate.
	ap, aok := a.(*Primitive)
	bp, bok := b.(*Primitive)
	if aok && bok {
		return ap.kind == bp.kind
	}
	aa, aok := a.(*Array)
	ba, bok := b.(*Array)
	if aok && bok {
		return sameType(aa.Element, ba.Element) && aa.Length == ba.Length
	}
	af, aok := a.(*Func)
	bf, bok := b.(*Func)
	if aok && bok {
		if len(af.Params) != len(bf.Params) || !sameType(af.Return, bf.Return) {
			return false
		}
		for i := range af.Params {
			if !sameType(af.Params[i], bf.Params[i]) {
				return false
			}
		}
		return true
	}
	ae, aok := a.(*Enum)
	be, bok := b.(*Enum)
	if aok && bok {
		return ae.Name == be.Name
	}
	al, aok := a.(*Alias)
	bl, bok := b.(*Alias)
	if aok && bok {
		return al.Name == bl.Name
	}
	return false
}

// CommonArithmeticType implements the byte/word promotion rule: mixed
// byte/word arithmetic promotes to word; two bytes stay byte.
func (s *System) CommonArithmeticType(a, b Type) Type {
	ua, ub := Underlying(a), Underlying(b)
	if ua.Kind() == KindWord || ub.Kind() == KindWord {
		return Builtins.Word
	}
	return Builtins.Byte
}

// ParseIntLiteral parses the source forms `0x…`, `$…`, `0b…`, and decimal
// into an int64, returning the literal's natural (minimal-fit) type.
func ParseIntLiteral(text string) (int64, Type, bool) {
	var (
		base int
		body string
	)
	switch {
	case strings.HasPrefix(text, "0x"), strings.HasPrefix(text, "0X"):
		base, body = 16, text[2:]
	case strings.HasPrefix(text, "$"):
		base, body = 16, text[1:]
	case strings.HasPrefix(text, "0b"), strings.HasPrefix(text, "0B"):
		base, body = 2, text[2:]
	default:
		base, body = 10, text
	}
	v, err := strconv.ParseInt(body, base, 64)
	if err != nil {
		return 0, Builtins.Unknown, false
	}
	if v >= 0 && v <= 255 {
		return v, Builtins.Byte, true
	}
	if v >= 0 && v <= 65535 {
		return v, Builtins.Word, true
	}
	return v, Builtins.Word, true
}
