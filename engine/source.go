package engine

import "context"

// Execution is one step together with the values captured while running it.
type Execution struct {
	Step    *Step
	Inputs  []any
	Outputs []any
}

// Source provides pull-based sequential access to executed steps.
type Source interface {
	// Next returns the next execution. Returns (zero, false, nil) when exhausted.
	Next(ctx context.Context) (Execution, bool, error)
	// Close releases any resources held by the source.
	Close() error
}

// FromSlice creates a source over a fixed list of executions.
func FromSlice(items []Execution) Source {
	return &sliceSource{items: items}
}

// SourceFunc adapts a function to a Source with a no-op Close.
type SourceFunc func(ctx context.Context) (Execution, bool, error)

// Next calls f.
func (f SourceFunc) Next(ctx context.Context) (Execution, bool, error) { return f(ctx) }

// Close does nothing.
func (f SourceFunc) Close() error { return nil }

type sliceSource struct {
	items []Execution
	index int
}

func (s *sliceSource) Next(_ context.Context) (Execution, bool, error) {
	if s.index >= len(s.items) {
		return Execution{}, false, nil
	}
	e := s.items[s.index]
	s.index++
	return e, true, nil
}

func (s *sliceSource) Close() error { return nil }
