package replay

import (
	"bytes"
	"context"
	"reflect"
	"strings"
	"testing"

	"github.com/kbukum/iocapture/capture"
	"github.com/kbukum/iocapture/channel"
	"github.com/kbukum/iocapture/codec"
	"github.com/kbukum/iocapture/engine"
	"github.com/kbukum/iocapture/errors"
	"github.com/kbukum/iocapture/operation"
	"github.com/kbukum/iocapture/storage/memory"
)

const addLog = `operation: Calc.add(int,int)->int
inputs:
  - {kind: int, value: 2}
  - {kind: int, value: 3}
outputs:
  - {kind: int, value: 5}
---
absent: true
---
operation: Calc.add(int,int)->int
outcome: abnormal
inputs:
  - {kind: int, value: 1}
  - {kind: int, value: 0}
---
operation: Calc.add(int,int)->int
literals: 2
inputs:
  - {kind: byte, value: 4}
  - {kind: int, value: 5}
outputs:
  - {kind: int, value: 9}
`

func drain(t *testing.T, src engine.Source) []engine.Execution {
	t.Helper()
	var out []engine.Execution
	for {
		e, ok, err := src.Next(context.Background())
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if !ok {
			return out
		}
		out = append(out, e)
	}
}

func TestSourceDecodesSteps(t *testing.T) {
	execs := drain(t, NewSource("add.yaml", strings.NewReader(addLog)))
	if len(execs) != 4 {
		t.Fatalf("expected 4 steps, got %d", len(execs))
	}

	first := execs[0]
	if !first.Step.Normal() || first.Step.LastOperation().Signature() != "Calc.add(int,int)->int" {
		t.Errorf("unexpected first step %+v", first.Step)
	}
	if !reflect.DeepEqual(first.Inputs, []any{int32(2), int32(3)}) || !reflect.DeepEqual(first.Outputs, []any{int32(5)}) {
		t.Errorf("unexpected values %v %v", first.Inputs, first.Outputs)
	}
	if execs[1].Step != nil {
		t.Error("absent record must produce a nil step")
	}
	if execs[2].Step.Normal() {
		t.Error("abnormal record must produce an abnormal step")
	}
	if n := len(execs[3].Step.Statements); n != 3 {
		t.Errorf("expected 3 statements, got %d", n)
	}
	if execs[3].Inputs[0] != int8(4) {
		t.Errorf("expected byte input, got %#v", execs[3].Inputs[0])
	}
}

func TestSourceDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		log  string
	}{
		{"bad signature", "operation: add\n"},
		{"bad outcome", "operation: add()->int\noutcome: maybe\n"},
		{"bad value", "operation: add(byte)->int\ninputs:\n  - {kind: byte, value: 999}\n"},
		{"not yaml", "operation: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := NewSource("log", strings.NewReader(tt.log)).Next(context.Background())
			if !errors.Is(err, errors.ErrCodeDecodeFailed) {
				t.Errorf("expected DECODE_FAILED, got %v", err)
			}
		})
	}
}

func TestWriterRoundTrip(t *testing.T) {
	add := operation.New("Calc", "add", []string{"int", "int"}, "int")
	abnormal := engine.NewStep(add)
	abnormal.Outcome = engine.Abnormal
	want := []engine.Execution{
		{Step: engine.NewStep(add), Inputs: []any{int32(2), int32(3)}, Outputs: []any{int32(5)}},
		{},
		{Step: abnormal, Inputs: []any{int16(1), nil}},
	}

	var buf bytes.Buffer
	w := NewWriter(&buf)
	for _, e := range want {
		if err := w.Write(e); err != nil {
			t.Fatal(err)
		}
	}

	got := drain(t, NewSource("buf", &buf))
	if len(got) != len(want) {
		t.Fatalf("expected %d steps, got %d", len(want), len(got))
	}
	for i := range want {
		if (want[i].Step == nil) != (got[i].Step == nil) {
			t.Fatalf("step %d presence differs", i)
		}
		if want[i].Step == nil {
			continue
		}
		if got[i].Step.Outcome != want[i].Step.Outcome || !got[i].Step.LastOperation().Equal(want[i].Step.LastOperation()) {
			t.Errorf("step %d differs: %+v", i, got[i].Step)
		}
		if !reflect.DeepEqual(got[i].Inputs, want[i].Inputs) {
			t.Errorf("step %d inputs = %#v, want %#v", i, got[i].Inputs, want[i].Inputs)
		}
	}
}

func TestReplayThroughPipeline(t *testing.T) {
	store := memory.New()
	d := engine.NewDriver()
	p, err := capture.New(capture.Options{Pattern: "Calc.add", Storage: store, Collector: d.Collector()})
	if err != nil {
		t.Fatal(err)
	}
	stats, err := d.Run(context.Background(), p, NewSource("add.yaml", strings.NewReader(addLog)))
	if err != nil {
		t.Fatal(err)
	}
	if stats.Steps != 4 || p.Report().Tuples != 2 {
		t.Errorf("steps %d tuples %d", stats.Steps, p.Report().Tuples)
	}
	in0, err := channel.ReadAll(context.Background(), store, codec.YAML{}, channel.In, 0)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(in0, []any{int32(2), int32(4)}) {
		t.Errorf("in0 = %#v", in0)
	}
}
