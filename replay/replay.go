// Package replay reads and writes recorded step logs so a capture run can be
// reproduced without the generation engine.
//
// A step log is a stream of YAML documents, one per executed step:
//
//	operation: Calc.add(int,int)->int
//	outcome: normal
//	inputs:
//	  - {kind: int, value: 2}
//	  - {kind: int, value: 3}
//	outputs:
//	  - {kind: int, value: 5}
//
// A document with "absent: true" stands for a step the engine reported as nil.
// "literals" counts non-callable statements that precede the final one.
package replay

import (
	"context"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/kbukum/iocapture/codec"
	"github.com/kbukum/iocapture/engine"
	"github.com/kbukum/iocapture/errors"
	"github.com/kbukum/iocapture/operation"
)

// Record is one document of a step log.
type Record struct {
	Absent    bool             `yaml:"absent,omitempty"`
	Operation string           `yaml:"operation,omitempty"`
	Outcome   string           `yaml:"outcome,omitempty"`
	Literals  int              `yaml:"literals,omitempty"`
	Inputs    []codec.Envelope `yaml:"inputs,omitempty"`
	Outputs   []codec.Envelope `yaml:"outputs,omitempty"`
}

// Execution converts the record into an engine execution.
func (r Record) Execution() (engine.Execution, error) {
	if r.Absent {
		return engine.Execution{}, nil
	}

	if r.Literals < 0 {
		return engine.Execution{}, fmt.Errorf("negative literal count %d", r.Literals)
	}
	step := &engine.Step{Statements: make([]engine.Statement, r.Literals, r.Literals+1)}
	switch r.Outcome {
	case "", "normal":
	case "abnormal":
		step.Outcome = engine.Abnormal
	default:
		return engine.Execution{}, fmt.Errorf("unknown outcome %q", r.Outcome)
	}

	var final engine.Statement
	if r.Operation != "" {
		op, err := operation.Parse(r.Operation)
		if err != nil {
			return engine.Execution{}, err
		}
		final.Operation = op
	}
	step.Statements = append(step.Statements, final)

	inputs, err := unwrapAll(r.Inputs)
	if err != nil {
		return engine.Execution{}, fmt.Errorf("inputs: %w", err)
	}
	outputs, err := unwrapAll(r.Outputs)
	if err != nil {
		return engine.Execution{}, fmt.Errorf("outputs: %w", err)
	}
	return engine.Execution{Step: step, Inputs: inputs, Outputs: outputs}, nil
}

func unwrapAll(envs []codec.Envelope) ([]any, error) {
	values := make([]any, len(envs))
	for i, env := range envs {
		v, err := env.Unwrap()
		if err != nil {
			return nil, fmt.Errorf("position %d: %w", i, err)
		}
		values[i] = v
	}
	return values, nil
}

// NewRecord builds the record of an execution.
func NewRecord(e engine.Execution) Record {
	if e.Step == nil {
		return Record{Absent: true}
	}
	r := Record{Outcome: e.Step.Outcome.String()}
	if n := len(e.Step.Statements); n > 0 {
		r.Literals = n - 1
	}
	if op := e.Step.LastOperation(); op != nil {
		r.Operation = op.Signature()
	}
	for _, v := range e.Inputs {
		r.Inputs = append(r.Inputs, codec.Wrap(v))
	}
	for _, v := range e.Outputs {
		r.Outputs = append(r.Outputs, codec.Wrap(v))
	}
	return r
}

// Source replays a step log as an engine.Source.
type Source struct {
	name  string
	r     io.Reader
	dec   *yaml.Decoder
	index int
}

var _ engine.Source = (*Source)(nil)

// NewSource reads a step log from r. name identifies the log in errors.
// If r is an io.Closer, Close closes it.
func NewSource(name string, r io.Reader) *Source {
	return &Source{name: name, r: r, dec: yaml.NewDecoder(r)}
}

// Next decodes the next step.
func (s *Source) Next(ctx context.Context) (engine.Execution, bool, error) {
	if err := ctx.Err(); err != nil {
		return engine.Execution{}, false, err
	}
	var rec Record
	s.index++
	if err := s.dec.Decode(&rec); err != nil {
		if err == io.EOF {
			return engine.Execution{}, false, nil
		}
		return engine.Execution{}, false, s.decodeError(err)
	}
	exec, err := rec.Execution()
	if err != nil {
		return engine.Execution{}, false, s.decodeError(err)
	}
	return exec, true, nil
}

func (s *Source) decodeError(err error) error {
	return errors.DecodeFailed(s.name, err).WithDetail("step", s.index)
}

// Close closes the underlying reader when it is closable.
func (s *Source) Close() error {
	if c, ok := s.r.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Writer appends executions to a step log.
type Writer struct {
	w    io.Writer
	docs int
}

// NewWriter creates a step log writer.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Write appends one execution.
func (w *Writer) Write(e engine.Execution) error {
	data, err := yaml.Marshal(NewRecord(e))
	if err != nil {
		return err
	}
	if w.docs > 0 {
		data = append([]byte("---\n"), data...)
	}
	if _, err := w.w.Write(data); err != nil {
		return err
	}
	w.docs++
	return nil
}
