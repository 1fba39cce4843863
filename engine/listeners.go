package engine

import (
	"context"
	"errors"
)

// Listeners fans every callback out to each member in order.
type Listeners []Listener

var _ Listener = Listeners(nil)

// RunStarted notifies every member; errors are joined.
func (ls Listeners) RunStarted(ctx context.Context) error {
	var errs []error
	for _, l := range ls {
		errs = append(errs, l.RunStarted(ctx))
	}
	return errors.Join(errs...)
}

// StepStarting notifies every member.
func (ls Listeners) StepStarting(ctx context.Context) {
	for _, l := range ls {
		l.StepStarting(ctx)
	}
}

// StepCompleted notifies every member; errors are joined.
func (ls Listeners) StepCompleted(ctx context.Context, step *Step) error {
	var errs []error
	for _, l := range ls {
		errs = append(errs, l.StepCompleted(ctx, step))
	}
	return errors.Join(errs...)
}

// ProgressUpdate notifies every member.
func (ls Listeners) ProgressUpdate() {
	for _, l := range ls {
		l.ProgressUpdate()
	}
}

// ShouldStop is true when any member asks to stop.
func (ls Listeners) ShouldStop() bool {
	for _, l := range ls {
		if l.ShouldStop() {
			return true
		}
	}
	return false
}

// RunEnded notifies every member, even after a failure; errors are joined.
func (ls Listeners) RunEnded(ctx context.Context) error {
	var errs []error
	for _, l := range ls {
		errs = append(errs, l.RunEnded(ctx))
	}
	return errors.Join(errs...)
}
