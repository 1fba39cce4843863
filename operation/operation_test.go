package operation

import (
	"testing"

	"github.com/kbukum/iocapture/errors"
	"github.com/kbukum/iocapture/types"
)

func TestSignature(t *testing.T) {
	tests := []struct {
		name string
		op   *Operation
		want string
	}{
		{"free function", New("", "add", []string{"int", "int"}, "int"), "add(int,int)->int"},
		{"method", New("demo.Calculator", "add", []string{"demo.Calculator", "long"}, "long"), "demo.Calculator.add(demo.Calculator,long)->long"},
		{"void", New("Log", "flush", nil), "Log.flush()->void"},
		{"multiple outputs", New("", "divmod", []string{"int", "int"}, "int", "int"), "divmod(int,int)->(int,int)"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.op.Signature(); got != tc.want {
				t.Errorf("Signature() = %q, want %q", got, tc.want)
			}
			if tc.op.String() != tc.want {
				t.Errorf("String() = %q, want %q", tc.op.String(), tc.want)
			}
		})
	}
}

func TestEqualIsBySignature(t *testing.T) {
	a := New("", "add", []string{"int", "int"}, "int")
	b := New("", "add", []string{"int", "int"}, "int")
	c := New("", "add", []string{"long", "long"}, "long")

	if !a.Equal(b) {
		t.Error("operations with the same signature must be equal")
	}
	if a.Equal(c) {
		t.Error("overloads must not be equal")
	}
	if a.Equal(nil) {
		t.Error("non-nil operation is not equal to nil")
	}
	var n *Operation
	if !n.Equal(nil) {
		t.Error("nil equals nil")
	}
}

func TestDeclaredTypes(t *testing.T) {
	op := New("", "add", []string{"int", "short"}, "Integer")
	if typ, ok := op.ParamType(1); !ok || typ.Kind() != types.Short {
		t.Errorf("expected short at position 1, got %v %v", typ, ok)
	}
	if _, ok := op.ParamType(2); ok {
		t.Error("expected no type past the declared params")
	}
	if typ, ok := op.OutputType(0); !ok || typ.Kind() != types.Int {
		t.Errorf("expected Integer output, got %v %v", typ, ok)
	}
	if _, ok := op.OutputType(-1); ok {
		t.Error("negative index has no type")
	}
}

func TestMatcher(t *testing.T) {
	add := New("demo.Calculator", "add", []string{"int", "int"}, "int")
	free := New("", "add", []string{"int", "int"}, "int")
	sub := New("demo.Calculator", "subtract", []string{"int", "int"}, "int")

	tests := []struct {
		pattern string
		op      *Operation
		want    bool
	}{
		{"add", add, true},
		{"add", sub, false},
		{"demo.Calculator.add", add, true},
		{"*.add", free, false},
		{"*.Calculator.add", add, true},
		{"**.add", add, true},
		{"demo.*", add, false},
		{"demo.**", add, true},
		{"add(int,int)->int", free, true},
		{"demo.Calculator.add(int,int)->long", add, false},
		{"{add,subtract}", sub, true},
		{"re:.*\\.(add|subtract)", sub, true},
		{"re:add", add, true},
		{"re:ad", add, false},
		{"add", nil, false},
		{"add", &Operation{}, false},
	}
	for _, tc := range tests {
		name := tc.pattern
		t.Run(name, func(t *testing.T) {
			m, err := NewMatcher(tc.pattern)
			if err != nil {
				t.Fatalf("NewMatcher(%q): %v", tc.pattern, err)
			}
			if got := m.Matches(tc.op); got != tc.want {
				t.Errorf("Matches(%v) = %v, want %v", tc.op, got, tc.want)
			}
		})
	}
}

func TestMatcherInvalidPatterns(t *testing.T) {
	for _, p := range []string{"", "   ", "re:", "re:(", "[unclosed"} {
		t.Run(p, func(t *testing.T) {
			_, err := NewMatcher(p)
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("expected INVALID_CONFIG for %q, got %v", p, err)
			}
		})
	}
}

func TestNilMatcher(t *testing.T) {
	var m *Matcher
	if m.Matches(New("", "add", nil)) {
		t.Error("nil matcher matches nothing")
	}
}

func TestParse(t *testing.T) {
	tests := []string{
		"Calc.add(int,int)->int",
		"Counter.reset(Counter)->void",
		"pair(int)->(int,int)",
		"java.util.List.size(java.util.List)->int",
		"Cache.put(Cache,java.util.Map<String,Integer>)->void",
		"now()->long",
	}
	for _, sig := range tests {
		t.Run(sig, func(t *testing.T) {
			op, err := Parse(sig)
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if op.Signature() != sig {
				t.Errorf("round trip = %q", op.Signature())
			}
		})
	}

	op, _ := Parse("java.util.List.size(java.util.List)->int")
	if op.Class != "java.util.List" || op.Name != "size" {
		t.Errorf("class %q name %q", op.Class, op.Name)
	}
	op, _ = Parse("Cache.put(Cache,java.util.Map<String,Integer>)->void")
	if len(op.Params) != 2 || len(op.Outputs) != 0 {
		t.Errorf("params %v outputs %v", op.Params, op.Outputs)
	}
}

func TestParseRejects(t *testing.T) {
	for _, sig := range []string{
		"",
		"add",
		"(int)->int",
		"add(int,)->int",
		"add(int)->",
		"add(Map<K,V)->int",
		"Calc.(int)->int",
	} {
		if _, err := Parse(sig); !errors.Is(err, errors.ErrCodeDecodeFailed) {
			t.Errorf("Parse(%q): expected DECODE_FAILED, got %v", sig, err)
		}
	}
}
