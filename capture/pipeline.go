package capture

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/iocapture/channel"
	"github.com/kbukum/iocapture/codec"
	"github.com/kbukum/iocapture/engine"
	"github.com/kbukum/iocapture/errors"
	"github.com/kbukum/iocapture/logger"
	"github.com/kbukum/iocapture/observability"
	"github.com/kbukum/iocapture/operation"
	"github.com/kbukum/iocapture/storage"
	"github.com/kbukum/iocapture/types"
	"github.com/kbukum/iocapture/widen"
)

// Options configures a Pipeline.
type Options struct {
	// Matcher selects the target operation. When nil, Pattern is compiled.
	Matcher *operation.Matcher
	// Pattern is used when Matcher is nil.
	Pattern string
	// Storage receives the channels. Required.
	Storage storage.Storage
	// Codec serializes values. Defaults to YAML.
	Codec codec.Codec
	// Collector exposes the values of the step being reported. Required.
	Collector engine.Collector
	// Logger defaults to a no-op logger.
	Logger *logger.Logger
	// Metrics is optional.
	Metrics *observability.Metrics
	// RunID tags logs and spans. Defaults to a random UUID.
	RunID string
}

// Schema is the shape locked by the first matching step.
type Schema struct {
	Operation *operation.Operation
	Inputs    int
	Outputs   int
}

// Report summarizes a run.
type Report struct {
	RunID string `yaml:"run_id"`
	// Operation is the locked signature, empty when nothing matched.
	Operation string `yaml:"operation"`
	Tuples    int    `yaml:"tuples"`
	Location  string `yaml:"location"`
}

type state int

const (
	unlocked state = iota
	locked
	closed
)

// Ignore reasons reported to metrics.
const (
	reasonAbsent   = "absent"
	reasonAbnormal = "abnormal"
	reasonNoMatch  = "no_match"
)

// Pipeline captures tuples of the target operation. It must be driven by a
// single caller; callbacks are not safe for concurrent use.
type Pipeline struct {
	matcher   *operation.Matcher
	store     storage.Storage
	codec     codec.Codec
	collector engine.Collector
	log       *logger.Logger
	metrics   *observability.Metrics
	runID     string

	state  state
	schema *Schema
	in     *channel.Set
	out    *channel.Set
	tuples int
	err    error

	started time.Time
	span    trace.Span
}

var _ engine.Listener = (*Pipeline)(nil)

// New creates a pipeline. It touches no storage until the first match.
func New(opts Options) (*Pipeline, error) {
	m := opts.Matcher
	if m == nil {
		var err error
		if m, err = operation.NewMatcher(opts.Pattern); err != nil {
			return nil, err
		}
	}
	if opts.Storage == nil {
		return nil, errors.InvalidConfig("storage", "a storage backend is required")
	}
	if opts.Collector == nil {
		return nil, errors.InvalidConfig("collector", "a value collector is required")
	}
	c := opts.Codec
	if c == nil {
		c = codec.YAML{}
	}
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	runID := opts.RunID
	if runID == "" {
		runID = uuid.NewString()
	}

	return &Pipeline{
		matcher:   m,
		store:     opts.Storage,
		codec:     c,
		collector: opts.Collector,
		log:       log.WithComponent("capture").WithFields(logger.Fields(logger.FieldRunID, runID)),
		metrics:   opts.Metrics,
		runID:     runID,
	}, nil
}

// RunStarted opens the run span.
func (p *Pipeline) RunStarted(ctx context.Context) error {
	if p.state == closed {
		return errors.Internal("run started after the run ended")
	}
	p.started = time.Now()
	_, p.span = observability.StartSpan(ctx, observability.SpanCaptureRun,
		trace.WithAttributes(attribute.String(observability.AttrRunID, p.runID)))
	p.log.Info("capture run started", logger.Fields(
		"pattern", p.matcher.Pattern(),
		logger.FieldCodec, p.codec.Name(),
		logger.FieldResource, p.store.Location(),
	))
	return nil
}

// StepStarting does nothing.
func (p *Pipeline) StepStarting(context.Context) {}

// StepCompleted captures the tuple of step when it is a normal execution of
// the target operation. Once aborted it keeps returning the fatal error,
// also after RunEnded.
func (p *Pipeline) StepCompleted(ctx context.Context, step *engine.Step) error {
	if p.err != nil {
		return p.err
	}
	if p.state == closed {
		return errors.Internal("step completed after the run ended")
	}

	if step == nil {
		p.metrics.RecordIgnored(ctx, reasonAbsent)
		return nil
	}
	if !step.Normal() {
		p.metrics.RecordIgnored(ctx, reasonAbnormal)
		return nil
	}
	op := step.LastOperation()
	if !p.matcher.Matches(op) {
		p.metrics.RecordIgnored(ctx, reasonNoMatch)
		return nil
	}

	inputs, outputs := p.collector.Inputs(), p.collector.Outputs()
	if p.state == unlocked {
		if err := p.lock(ctx, op, len(inputs), len(outputs)); err != nil {
			return p.fail(ctx, err)
		}
	} else if err := p.check(op, len(inputs), len(outputs)); err != nil {
		return p.fail(ctx, err)
	}

	if err := p.persist(ctx, op, inputs, outputs); err != nil {
		return p.fail(ctx, err)
	}
	p.tuples++
	p.metrics.RecordTuple(ctx, p.schema.Operation.Signature())
	return nil
}

func (p *Pipeline) lock(ctx context.Context, op *operation.Operation, inputs, outputs int) error {
	p.schema = &Schema{Operation: op, Inputs: inputs, Outputs: outputs}
	p.state = locked

	in, err := channel.Open(ctx, p.store, p.codec, channel.In, inputs)
	if err != nil {
		return err
	}
	p.in = in
	out, err := channel.Open(ctx, p.store, p.codec, channel.Out, outputs)
	if err != nil {
		return err
	}
	p.out = out

	if p.span != nil {
		p.span.SetAttributes(attribute.String(observability.AttrOperation, op.Signature()))
	}
	p.log.Info("run schema locked", logger.Fields(
		logger.FieldOperation, op.Signature(),
		logger.FieldInputs, inputs,
		logger.FieldOutputs, outputs,
	))
	return nil
}

func (p *Pipeline) check(op *operation.Operation, inputs, outputs int) error {
	want := p.schema.Operation
	if !want.Equal(op) {
		return errors.OperationMismatch(want.Signature(), op.Signature())
	}
	if inputs != p.schema.Inputs {
		return errors.ArityMismatch(want.Signature(), "input", p.schema.Inputs, inputs)
	}
	if outputs != p.schema.Outputs {
		return errors.ArityMismatch(want.Signature(), "output", p.schema.Outputs, outputs)
	}
	return nil
}

// persist widens the whole tuple before appending anything, so a widening
// failure leaves every channel at the same length.
func (p *Pipeline) persist(ctx context.Context, op *operation.Operation, inputs, outputs []any) error {
	in, err := widenAll(inputs, op.ParamType)
	if err != nil {
		return err
	}
	out, err := widenAll(outputs, op.OutputType)
	if err != nil {
		return err
	}
	if err := appendAll(p.in, in); err != nil {
		return err
	}
	return appendAll(p.out, out)
}

func widenAll(values []any, declared func(int) (types.Type, bool)) ([]any, error) {
	widened := make([]any, len(values))
	for i, v := range values {
		t, ok := declared(i)
		if !ok {
			widened[i] = v
			continue
		}
		w, err := widen.Widen(v, t)
		if err != nil {
			if appErr, ok := errors.AsAppError(err); ok {
				return nil, appErr.WithDetail(logger.FieldPosition, i)
			}
			return nil, err
		}
		widened[i] = w
	}
	return widened, nil
}

func appendAll(s *channel.Set, values []any) error {
	for i, v := range values {
		if err := s.Append(i, v); err != nil {
			return err
		}
	}
	return nil
}

func (p *Pipeline) fail(ctx context.Context, err error) error {
	p.err = err
	code := "UNKNOWN"
	if appErr, ok := errors.AsAppError(err); ok {
		code = string(appErr.Code)
	}
	p.metrics.RecordError(ctx, code)
	observability.SetSpanError(p.span, err)
	p.log.Error("capture aborted", logger.Fields(logger.FieldError, err.Error(), "code", code))
	return err
}

// ProgressUpdate does nothing.
func (p *Pipeline) ProgressUpdate() {}

// ShouldStop always returns false; capture never ends a run early.
func (p *Pipeline) ShouldStop() bool { return false }

// RunEnded closes every channel and reports the tuple count. Calling it
// again does nothing.
func (p *Pipeline) RunEnded(ctx context.Context) error {
	if p.state == closed {
		return nil
	}
	p.state = closed

	closeErr := stderrors.Join(p.in.CloseAll(), p.out.CloseAll())
	if closeErr != nil {
		p.metrics.RecordError(ctx, string(errors.ErrCodeChannelIO))
		observability.SetSpanError(p.span, closeErr)
		p.log.Error("closing channels failed", logger.Fields(logger.FieldError, closeErr.Error()))
	}

	r := p.Report()
	status := "ok"
	if p.err != nil || closeErr != nil {
		status = "error"
	}
	if !p.started.IsZero() {
		p.metrics.RecordRun(ctx, r.Operation, status, time.Since(p.started))
	}
	if p.span != nil {
		p.span.SetAttributes(attribute.Int(observability.AttrTuples, r.Tuples))
		p.span.End()
	}
	p.log.Info(fmt.Sprintf("generated %d input/output tuples for %s", r.Tuples, displayName(r.Operation)),
		logger.Fields(logger.FieldTuples, r.Tuples, logger.FieldOperation, r.Operation))
	return closeErr
}

func displayName(op string) string {
	if op == "" {
		return "no operation"
	}
	return op
}

// Schema returns the locked schema, or nil before the first match.
func (p *Pipeline) Schema() *Schema {
	return p.schema
}

// Err returns the error that aborted the run, if any.
func (p *Pipeline) Err() error {
	return p.err
}

// Report returns the current summary.
func (p *Pipeline) Report() Report {
	r := Report{RunID: p.runID, Tuples: p.tuples, Location: p.store.Location()}
	if p.schema != nil {
		r.Operation = p.schema.Operation.Signature()
	}
	return r
}
