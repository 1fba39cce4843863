package engine

import (
	"context"
	"errors"

	"github.com/kbukum/iocapture/logger"
)

// Stats summarizes a driven run.
type Stats struct {
	// Steps is the number of StepCompleted callbacks delivered.
	Steps int
	// Stopped is true when a listener asked the run to stop early.
	Stopped bool
}

// Driver replays executions through a Listener on the calling goroutine.
type Driver struct {
	collector     *StaticCollector
	progressEvery int
	log           *logger.Logger
}

// DriverOption configures a Driver.
type DriverOption func(*Driver)

// WithProgressEvery calls ProgressUpdate after every n steps. Zero disables it.
func WithProgressEvery(n int) DriverOption {
	return func(d *Driver) { d.progressEvery = n }
}

// WithLogger sets the driver's logger.
func WithLogger(l *logger.Logger) DriverOption {
	return func(d *Driver) { d.log = l }
}

// NewDriver creates a driver with its own value collector.
func NewDriver(opts ...DriverOption) *Driver {
	d := &Driver{
		collector: &StaticCollector{},
		log:       logger.Nop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.log = d.log.WithComponent("engine")
	return d
}

// Collector returns the collector listeners read captured values from. It
// only ever holds the values of the step being delivered.
func (d *Driver) Collector() Collector {
	return d.collector
}

// Run delivers every execution from src to l in order. RunEnded is always
// called exactly once, also when a callback fails or ctx is cancelled; its
// error is joined with the failure that ended the run.
func (d *Driver) Run(ctx context.Context, l Listener, src Source) (Stats, error) {
	defer src.Close() //nolint:errcheck // sources are read-only

	var stats Stats
	runErr := l.RunStarted(ctx)
	if runErr == nil {
		stats, runErr = d.loop(ctx, l, src)
	}
	d.collector.Set(nil, nil)

	endErr := l.RunEnded(context.WithoutCancel(ctx))
	if err := errors.Join(runErr, endErr); err != nil {
		d.log.Error("run aborted", logger.Fields("steps", stats.Steps, logger.FieldError, err.Error()))
		return stats, err
	}

	d.log.Debug("run finished", logger.Fields("steps", stats.Steps, "stopped", stats.Stopped))
	return stats, nil
}

func (d *Driver) loop(ctx context.Context, l Listener, src Source) (Stats, error) {
	var stats Stats
	for {
		if l.ShouldStop() {
			stats.Stopped = true
			return stats, nil
		}
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		exec, ok, err := src.Next(ctx)
		if err != nil {
			return stats, err
		}
		if !ok {
			return stats, nil
		}

		d.collector.Set(exec.Inputs, exec.Outputs)
		l.StepStarting(ctx)
		err = l.StepCompleted(ctx, exec.Step)
		stats.Steps++
		if d.progressEvery > 0 && stats.Steps%d.progressEvery == 0 {
			l.ProgressUpdate()
		}
		if err != nil {
			return stats, err
		}
	}
}
