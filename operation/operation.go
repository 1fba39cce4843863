// Package operation describes the callables a generation engine invokes and
// selects the single target operation whose tuples are captured.
package operation

import (
	"strings"

	"github.com/kbukum/iocapture/types"
)

// Operation is the identity of a callable under test. It is immutable once
// built; two operations are the same when their signatures are equal.
type Operation struct {
	// Class is the declaring type, empty for free functions.
	Class string
	// Name is the bare callable name.
	Name string
	// Params are the declared parameter types, receiver first for instance methods.
	Params []types.Type
	// Outputs are the declared output types; empty for void.
	Outputs []types.Type
}

// New builds an operation from type names.
func New(class, name string, params []string, outputs ...string) *Operation {
	op := &Operation{Class: class, Name: name}
	for _, p := range params {
		op.Params = append(op.Params, types.Named(p))
	}
	for _, o := range outputs {
		op.Outputs = append(op.Outputs, types.Named(o))
	}
	return op
}

// QualifiedName returns Class.Name, or Name when there is no class.
func (o *Operation) QualifiedName() string {
	if o.Class == "" {
		return o.Name
	}
	return o.Class + "." + o.Name
}

// Signature renders the full identity, e.g. "Calc.add(int,int)->int".
// Zero outputs render as "->void", several as "->(a,b)".
func (o *Operation) Signature() string {
	var b strings.Builder
	b.WriteString(o.QualifiedName())
	b.WriteByte('(')
	writeTypes(&b, o.Params)
	b.WriteString(")->")
	switch len(o.Outputs) {
	case 0:
		b.WriteString("void")
	case 1:
		b.WriteString(o.Outputs[0].Name)
	default:
		b.WriteByte('(')
		writeTypes(&b, o.Outputs)
		b.WriteByte(')')
	}
	return b.String()
}

// String returns the signature.
func (o *Operation) String() string {
	return o.Signature()
}

// Equal compares two operations by signature.
func (o *Operation) Equal(other *Operation) bool {
	if o == nil || other == nil {
		return o == other
	}
	return o.Signature() == other.Signature()
}

// ParamType returns the declared type of input position i.
func (o *Operation) ParamType(i int) (types.Type, bool) {
	if i < 0 || i >= len(o.Params) {
		return types.Type{}, false
	}
	return o.Params[i], true
}

// OutputType returns the declared type of output position i.
func (o *Operation) OutputType(i int) (types.Type, bool) {
	if i < 0 || i >= len(o.Outputs) {
		return types.Type{}, false
	}
	return o.Outputs[i], true
}

func writeTypes(b *strings.Builder, ts []types.Type) {
	for i, t := range ts {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(t.Name)
	}
}
