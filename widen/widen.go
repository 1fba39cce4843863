// Package widen converts captured primitive values to the kind of the
// statically declared type they were passed as.
//
// A generation engine may synthesize a primitive argument with a narrower
// representation than the declared parameter (a short literal for an int
// parameter, say). Persisted tuples must use the declared kind so every
// channel position holds one uniform kind.
//
// Widening follows the order byte < short < char < int < long < float < double.
// Narrowing is never performed.
package widen

import (
	"fmt"

	"github.com/kbukum/iocapture/errors"
	"github.com/kbukum/iocapture/types"
)

type conversion func(v any) any

// permitted lists, per source kind, every target kind it may be widened to.
var permitted = map[types.Kind][]types.Kind{
	types.Byte:  {types.Short, types.Char, types.Int, types.Long, types.Float, types.Double},
	types.Short: {types.Char, types.Int, types.Long, types.Float, types.Double},
	types.Char:  {types.Int, types.Long, types.Float, types.Double},
	types.Int:   {types.Long, types.Float, types.Double},
	types.Long:  {types.Float, types.Double},
	types.Float: {types.Double},
}

// conversions is the total table keyed by (source, target); nil entries are
// rejected pairs.
var conversions [types.Boolean + 1][types.Boolean + 1]conversion

func init() {
	for from, targets := range permitted {
		for _, to := range targets {
			conversions[from][to] = converter(from, to)
		}
	}
}

// Widen returns value converted to the kind of declared.
//
// A nil value, a declared type outside the primitive family, a value already of
// the declared kind, or a double value is returned unchanged. Any other pair
// without a permitted conversion yields a WIDENING_FAILED error.
func Widen(value any, declared types.Type) (any, error) {
	if value == nil {
		return nil, nil
	}
	target := declared.Kind()
	if target == types.Invalid {
		return value, nil
	}

	source := types.KindOf(value)
	if source == target || source == types.Double {
		return value, nil
	}

	if conv := lookup(source, target); conv != nil {
		return conv(value), nil
	}
	return nil, errors.WideningFailed(value, kindLabel(source, value), target.String())
}

// Allowed reports whether a value of kind from can be widened to kind to.
// Identical kinds are always allowed.
func Allowed(from, to types.Kind) bool {
	return from == to || lookup(from, to) != nil
}

func lookup(from, to types.Kind) conversion {
	if from < types.Invalid || from > types.Boolean || to < types.Invalid || to > types.Boolean {
		return nil
	}
	return conversions[from][to]
}

func converter(from, to types.Kind) conversion {
	if from == types.Float {
		return func(v any) any { return float64(v.(float32)) }
	}
	return func(v any) any { return castInteger(integerValue(v), to) }
}

// integerValue reads an integral primitive as int64; char is zero-extended.
func integerValue(v any) int64 {
	switch n := v.(type) {
	case int8:
		return int64(n)
	case int16:
		return int64(n)
	case uint16:
		return int64(n)
	case int32:
		return int64(n)
	case int64:
		return n
	}
	panic("widen: not an integral primitive")
}

func castInteger(n int64, to types.Kind) any {
	switch to {
	case types.Short:
		return int16(n)
	case types.Char:
		return uint16(n)
	case types.Int:
		return int32(n)
	case types.Long:
		return n
	case types.Float:
		return float32(n)
	case types.Double:
		return float64(n)
	}
	panic("widen: no integral target " + to.String())
}

// kindLabel names the kind of a rejected value; non-primitives are described
// by their Go type.
func kindLabel(k types.Kind, v any) string {
	if k == types.Invalid {
		return fmt.Sprintf("%T", v)
	}
	return k.String()
}
