// Package types models the declared static types of captured values and the
// closed set of primitive kinds their runtime representations can take.
//
// Captured primitives are carried as fixed-width Go values:
//
//	byte    int8
//	short   int16
//	char    uint16
//	int     int32
//	long    int64
//	float   float32
//	double  float64
//	boolean bool
//
// Any other Go value (including int and uint) has kind Invalid and is treated
// as a reference value.
package types

import "strings"

// Kind is a primitive kind. Numeric kinds are ordered from narrowest to widest.
type Kind int

const (
	Invalid Kind = iota
	Byte
	Short
	Char
	Int
	Long
	Float
	Double
	Boolean
)

var kindNames = [...]string{
	Invalid: "invalid",
	Byte:    "byte",
	Short:   "short",
	Char:    "char",
	Int:     "int",
	Long:    "long",
	Float:   "float",
	Double:  "double",
	Boolean: "boolean",
}

// String returns the primitive name of the kind.
func (k Kind) String() string {
	if k < Invalid || k > Boolean {
		return "invalid"
	}
	return kindNames[k]
}

// Numeric reports whether k takes part in widening.
func (k Kind) Numeric() bool {
	return k >= Byte && k <= Double
}

// ParseKind returns the kind named by a primitive name, or Invalid.
func ParseKind(name string) Kind {
	for k, n := range kindNames {
		if k != int(Invalid) && n == name {
			return Kind(k)
		}
	}
	return Invalid
}

// KindOf returns the kind of a captured runtime value.
func KindOf(v any) Kind {
	switch v.(type) {
	case int8:
		return Byte
	case int16:
		return Short
	case uint16:
		return Char
	case int32:
		return Int
	case int64:
		return Long
	case float32:
		return Float
	case float64:
		return Double
	case bool:
		return Boolean
	default:
		return Invalid
	}
}

var boxedNames = map[string]Kind{
	"Byte":      Byte,
	"Short":     Short,
	"Character": Char,
	"Integer":   Int,
	"Long":      Long,
	"Float":     Float,
	"Double":    Double,
	"Boolean":   Boolean,
}

// Type is a declared static type, identified by its name as reported by the
// generation engine (for example "int", "java.lang.Integer" or "Point").
type Type struct {
	Name string `yaml:"name" json:"name"`
}

// Named returns the type with the given name.
func Named(name string) Type {
	return Type{Name: strings.TrimSpace(name)}
}

// Of returns the primitive type of kind k.
func Of(k Kind) Type {
	return Type{Name: k.String()}
}

// String returns the type name.
func (t Type) String() string { return t.Name }

// Primitive reports whether t names a primitive type.
func (t Type) Primitive() bool {
	return ParseKind(t.Name) != Invalid
}

// Boxed reports whether t names the boxed counterpart of a primitive type.
func (t Type) Boxed() bool {
	_, ok := boxedNames[strings.TrimPrefix(t.Name, "java.lang.")]
	return ok
}

// Kind resolves primitive and boxed names to their kind. Reference types
// resolve to Invalid.
func (t Type) Kind() Kind {
	if k := ParseKind(t.Name); k != Invalid {
		return k
	}
	if k, ok := boxedNames[strings.TrimPrefix(t.Name, "java.lang.")]; ok {
		return k
	}
	return Invalid
}
