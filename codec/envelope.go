package codec

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/kbukum/iocapture/types"
)

// Envelope kinds for values outside the primitive family.
const (
	KindNull   = "null"
	KindString = "string"
	KindValue  = "value"
)

// Envelope is the on-wire form of one captured value.
type Envelope struct {
	Kind  string `yaml:"kind" json:"kind"`
	Value any    `yaml:"value" json:"value"`
}

// Wrap builds the envelope for v. Non-finite floats are written as strings
// so every codec can carry them.
func Wrap(v any) Envelope {
	if v == nil {
		return Envelope{Kind: KindNull}
	}
	k := types.KindOf(v)
	switch k {
	case types.Invalid:
		if s, ok := v.(string); ok {
			return Envelope{Kind: KindString, Value: s}
		}
		return Envelope{Kind: KindValue, Value: v}
	case types.Float:
		f := float64(v.(float32))
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return Envelope{Kind: k.String(), Value: strconv.FormatFloat(f, 'g', -1, 32)}
		}
	case types.Double:
		f := v.(float64)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return Envelope{Kind: k.String(), Value: strconv.FormatFloat(f, 'g', -1, 64)}
		}
	}
	return Envelope{Kind: k.String(), Value: v}
}

// Unwrap restores the Go value carried by e.
func (e Envelope) Unwrap() (any, error) {
	switch e.Kind {
	case KindNull:
		return nil, nil
	case KindString:
		s, ok := e.Value.(string)
		if !ok {
			return nil, fmt.Errorf("string envelope holds %T", e.Value)
		}
		return s, nil
	case KindValue:
		if n, ok := e.Value.(json.Number); ok {
			if i, err := n.Int64(); err == nil {
				return i, nil
			}
			return n.Float64()
		}
		return e.Value, nil
	}

	switch k := types.ParseKind(e.Kind); k {
	case types.Boolean:
		b, ok := e.Value.(bool)
		if !ok {
			return nil, fmt.Errorf("boolean envelope holds %T", e.Value)
		}
		return b, nil
	case types.Byte:
		i, err := integer(e.Value, math.MinInt8, math.MaxInt8)
		return int8(i), err
	case types.Short:
		i, err := integer(e.Value, math.MinInt16, math.MaxInt16)
		return int16(i), err
	case types.Char:
		i, err := integer(e.Value, 0, math.MaxUint16)
		return uint16(i), err
	case types.Int:
		i, err := integer(e.Value, math.MinInt32, math.MaxInt32)
		return int32(i), err
	case types.Long:
		i, err := integer(e.Value, math.MinInt64, math.MaxInt64)
		return i, err
	case types.Float:
		f, err := float(e.Value, 32)
		return float32(f), err
	case types.Double:
		return float(e.Value, 64)
	default:
		return nil, fmt.Errorf("unknown envelope kind %q", e.Kind)
	}
}

func integer(raw any, lo, hi int64) (int64, error) {
	var i int64
	switch v := raw.(type) {
	case int:
		i = int64(v)
	case int64:
		i = v
	case uint64:
		if v > math.MaxInt64 {
			return 0, fmt.Errorf("integer %d out of range", v)
		}
		i = int64(v)
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, fmt.Errorf("not an integer: %s", v)
		}
		i = n
	default:
		return 0, fmt.Errorf("expected integer, got %T", raw)
	}
	if i < lo || i > hi {
		return 0, fmt.Errorf("integer %d out of range [%d, %d]", i, lo, hi)
	}
	return i, nil
}

func float(raw any, bits int) (float64, error) {
	switch v := raw.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case uint64:
		return float64(v), nil
	case json.Number:
		return strconv.ParseFloat(v.String(), bits)
	case string:
		f, err := strconv.ParseFloat(v, bits)
		if err != nil || !(math.IsNaN(f) || math.IsInf(f, 0)) {
			return 0, fmt.Errorf("expected non-finite float, got %q", v)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("expected float, got %T", raw)
	}
}
