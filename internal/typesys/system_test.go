package typesys_test

import (
	"testing"

	"github.com/blendsdk/blend65/internal/typesys"
)

func TestBuiltinIdentityIsStableAcrossSystems(t *testing.T) {
	s1 := typesys.New()
	s2 := typesys.New()
	b1, _ := s1.GetBuiltinType("byte")
	b2, _ := s2.GetBuiltinType("byte")
	if b1 != b2 {
		t.Fatal("builtin type identity must be stable across independent System instances")
	}
}

func TestIsAssignable_ByteWidensToWord(t *testing.T) {
	s := typesys.New()
	if !s.IsAssignable(typesys.Builtins.Byte, typesys.Builtins.Word) {
		t.Error("byte should widen to word")
	}
	if s.IsAssignable(typesys.Builtins.Word, typesys.Builtins.Byte) {
		t.Error("word must not narrow to byte")
	}
}

func TestIsAssignable_IdenticalTypes(t *testing.T) {
	s := typesys.New()
	if !s.IsAssignable(typesys.Builtins.Bool, typesys.Builtins.Bool) {
		t.Error("identical types should be assignable")
	}
}

func TestIsAssignable_UnknownIsConservativelyAssignable(t *testing.T) {
	s := typesys.New()
	if !s.IsAssignable(typesys.Builtins.Unknown, typesys.Builtins.Byte) {
		t.Error("Unknown should compare as assignable-to-anything to avoid cascading errors")
	}
	if !s.IsAssignable(typesys.Builtins.Byte, typesys.Builtins.Unknown) {
		t.Error("anything should compare as assignable-to-Unknown")
	}
}

func TestIsAssignable_EnumWidensToUnderlying(t *testing.T) {
	s := typesys.New()
	e := &typesys.Enum{Name: "Color", Underlying: typesys.Builtins.Byte, Members: map[string]int64{"Red": 0}}
	if !s.IsAssignable(e, typesys.Builtins.Byte) {
		t.Error("enum value should be assignable to its underlying type")
	}
}

func TestIsAssignable_ArraysRequireMatchingElementAndLength(t *testing.T) {
	s := typesys.New()
	a3 := s.CreateArrayType(typesys.Builtins.Byte, 3)
	a5 := s.CreateArrayType(typesys.Builtins.Byte, 5)
	aUnspec := s.CreateArrayType(typesys.Builtins.Byte, -1)

	if s.IsAssignable(a3, a5) {
		t.Error("arrays of different fixed length should not be assignable")
	}
	if !s.IsAssignable(a3, aUnspec) {
		t.Error("a fixed-length array should be assignable to an unspecified-length parameter array")
	}
}

func TestIsAssignableLiteral_RangeFit(t *testing.T) {
	s := typesys.New()
	if !s.IsAssignableLiteral(200, typesys.Builtins.Byte) {
		t.Error("200 fits in a byte")
	}
	if s.IsAssignableLiteral(300, typesys.Builtins.Byte) {
		t.Error("300 does not fit in a byte")
	}
	if !s.IsAssignableLiteral(300, typesys.Builtins.Word) {
		t.Error("300 fits in a word")
	}
}

func TestCommonArithmeticType_Promotion(t *testing.T) {
	s := typesys.New()
	if got := s.CommonArithmeticType(typesys.Builtins.Byte, typesys.Builtins.Byte); got != typesys.Builtins.Byte {
		t.Errorf("byte+byte should stay byte, got %v", got)
	}
	if got := s.CommonArithmeticType(typesys.Builtins.Byte, typesys.Builtins.Word); got != typesys.Builtins.Word {
		t.Errorf("byte+word should promote to word, got %v", got)
	}
}

func TestParseIntLiteral_Forms(t *testing.T) {
	cases := []struct {
		text string
		want int64
	}{
		{"42", 42},
		{"0x2A", 42},
		{"$2A", 42},
		{"0b101010", 42},
	}
	for _, tc := range cases {
		v, typ, ok := typesys.ParseIntLiteral(tc.text)
		if !ok {
			t.Errorf("%q: expected successful parse", tc.text)
			continue
		}
		if v != tc.want {
			t.Errorf("%q: got %d, want %d", tc.text, v, tc.want)
		}
		if typ != typesys.Builtins.Byte {
			t.Errorf("%q: expected byte-range literal type, got %v", tc.text, typ)
		}
	}
}

func TestParseIntLiteral_WordRange(t *testing.T) {
	v, typ, ok := typesys.ParseIntLiteral("1000")
	if !ok || v != 1000 || typ != typesys.Builtins.Word {
		t.Errorf("1000 should parse as word, got %d, %v, %v", v, typ, ok)
	}
}

func TestResolveTypeAnnotation_UnknownNameIsUnknown(t *testing.T) {
	s := typesys.New()
	if got := s.ResolveTypeAnnotation("NotAType"); got != typesys.Builtins.Unknown {
		t.Errorf("unresolvable annotation should resolve to Unknown, got %v", got)
	}
}

func TestResolveTypeAnnotation_UserAlias(t *testing.T) {
	s := typesys.New()
	s.DeclareAlias("Score", typesys.Builtins.Word)
	if got := s.ResolveTypeAnnotation("Score"); got != typesys.Builtins.Word {
		t.Errorf("declared alias should resolve to its underlying type, got %v", got)
	}
}
