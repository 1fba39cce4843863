package operation

import (
	"fmt"
	"strings"

	"github.com/kbukum/iocapture/errors"
	"github.com/kbukum/iocapture/types"
)

// Parse reads a signature in the form produced by Signature:
//
//	Calc.add(int,int)->int
//	Counter.reset(Counter)->void
//	pair(int)->(int,int)
//	java.util.List.size(java.util.List)->int
//
// The class is everything before the last "." of the callable path.
func Parse(signature string) (*Operation, error) {
	s := strings.TrimSpace(signature)
	open := strings.IndexByte(s, '(')
	arrow := strings.LastIndex(s, ")->")
	if open <= 0 || arrow < open {
		return nil, parseError(signature, "expected Name(params)->outputs")
	}

	op := &Operation{}
	path := s[:open]
	if dot := strings.LastIndexByte(path, '.'); dot >= 0 {
		op.Class, op.Name = path[:dot], path[dot+1:]
	} else {
		op.Name = path
	}
	if op.Name == "" {
		return nil, parseError(signature, "missing callable name")
	}

	params, err := splitTypes(s[open+1 : arrow])
	if err != nil {
		return nil, parseError(signature, err.Error())
	}
	op.Params = params

	switch out := strings.TrimSpace(s[arrow+3:]); {
	case out == "void":
	case strings.HasPrefix(out, "(") && strings.HasSuffix(out, ")"):
		if op.Outputs, err = splitTypes(out[1 : len(out)-1]); err != nil {
			return nil, parseError(signature, err.Error())
		}
	case out == "":
		return nil, parseError(signature, "missing output type")
	default:
		if op.Outputs, err = splitTypes(out); err != nil {
			return nil, parseError(signature, err.Error())
		}
	}
	return op, nil
}

func parseError(signature, reason string) error {
	return errors.DecodeFailed("signature", fmt.Errorf("%q: %s", signature, reason)).
		WithDetail("signature", signature)
}

// splitTypes splits a comma-separated type list, keeping generic arguments
// such as Map<K,V> together.
func splitTypes(list string) ([]types.Type, error) {
	if strings.TrimSpace(list) == "" {
		return nil, nil
	}
	var (
		names []string
		depth int
		start int
	)
	for i, r := range list {
		switch r {
		case '<':
			depth++
		case '>':
			if depth--; depth < 0 {
				return nil, fmt.Errorf("unbalanced '>' in %q", list)
			}
		case ',':
			if depth == 0 {
				names = append(names, list[start:i])
				start = i + 1
			}
		}
	}
	if depth != 0 {
		return nil, fmt.Errorf("unbalanced '<' in %q", list)
	}
	names = append(names, list[start:])

	out := make([]types.Type, 0, len(names))
	for _, name := range names {
		t := types.Named(name)
		if t.Name == "" {
			return nil, fmt.Errorf("empty type in %q", list)
		}
		out = append(out, t)
	}
	return out, nil
}
