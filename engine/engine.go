// Package engine defines the callback contract between a test-generation
// engine and the listeners observing it, plus a sequential Driver that replays
// a stream of steps through a Listener while honoring that contract.
//
// Ordering guarantees a conforming engine provides:
//
//  1. RunStarted is called exactly once, before any step callback.
//  2. StepCompleted is called once per attempted step, in generation order.
//     The step may be nil or abnormal.
//  3. ProgressUpdate may be called at any time, any number of times.
//  4. ShouldStop may be polled at any time.
//  5. RunEnded is called exactly once, after the last step callback.
package engine

import (
	"context"

	"github.com/kbukum/iocapture/operation"
)

// Outcome tags how a step finished executing.
type Outcome int

const (
	// Normal means every statement completed without an exception or failure.
	Normal Outcome = iota
	// Abnormal means the step threw, failed a check, or did not run.
	Abnormal
)

// String returns "normal" or "abnormal".
func (o Outcome) String() string {
	if o == Normal {
		return "normal"
	}
	return "abnormal"
}

// Statement is one slot of a step. Operation is nil for statements that do
// not invoke a callable (literal initialization, for instance).
type Statement struct {
	Operation *operation.Operation
}

// Step is one executed sequence produced by the engine. The last statement
// holds the operation the step invokes.
type Step struct {
	Statements []Statement
	Outcome    Outcome
}

// NewStep builds a normal step whose final statement invokes op.
func NewStep(op *operation.Operation) *Step {
	return &Step{Statements: []Statement{{Operation: op}}}
}

// Normal reports whether the step exists and executed normally.
func (s *Step) Normal() bool {
	return s != nil && s.Outcome == Normal
}

// LastOperation returns the operation invoked by the final statement, or nil.
func (s *Step) LastOperation() *operation.Operation {
	if s == nil || len(s.Statements) == 0 {
		return nil
	}
	return s.Statements[len(s.Statements)-1].Operation
}

// Collector exposes the values captured for the current step only: the
// ordered inputs and outputs of its final statement.
type Collector interface {
	Inputs() []any
	Outputs() []any
}

// Listener receives the engine's callbacks.
type Listener interface {
	RunStarted(ctx context.Context) error
	StepStarting(ctx context.Context)
	StepCompleted(ctx context.Context, step *Step) error
	ProgressUpdate()
	ShouldStop() bool
	RunEnded(ctx context.Context) error
}

// StaticCollector is a Collector over fixed slices, for engines that record
// values before invoking listeners.
type StaticCollector struct {
	In  []any
	Out []any
}

// Inputs returns the captured inputs.
func (c *StaticCollector) Inputs() []any { return c.In }

// Outputs returns the captured outputs.
func (c *StaticCollector) Outputs() []any { return c.Out }

// Set replaces the captured values.
func (c *StaticCollector) Set(in, out []any) {
	c.In, c.Out = in, out
}
