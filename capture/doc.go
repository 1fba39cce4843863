// Package capture records the input/output tuples of one target operation
// while a generation engine runs.
//
// A Pipeline is an engine.Listener. The first normally executed step whose
// final operation matches the configured pattern locks the run schema: the
// operation itself and its input and output arities. One channel per tuple
// position is opened at that point and every later matching step appends its
// values, widened to the operation's declared types, to those channels. Any
// step that disagrees with the locked schema aborts the run.
//
//	d := engine.NewDriver()
//	p, err := capture.New(capture.Options{
//		Pattern:   "Calculator.add",
//		Storage:   store,
//		Collector: d.Collector(),
//	})
//	stats, err := d.Run(ctx, p, src)
//	report := p.Report()
package capture
