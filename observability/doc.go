// Package observability provides OpenTelemetry tracing and metrics for
// capture runs.
//
// Tracing:
//
//	tp, err := observability.InitTracer(ctx, observability.DefaultTracerConfig("iocapture"))
//	defer tp.Shutdown(ctx)
//
//	ctx, span := observability.StartSpan(ctx, observability.SpanCaptureRun)
//	defer span.End()
//
// Metrics:
//
//	mp, err := observability.InitMeter(ctx, observability.DefaultMeterConfig("iocapture"))
//	defer mp.Shutdown(ctx)
//
//	metrics, err := observability.NewMetrics(observability.Meter("iocapture"))
//	metrics.RecordTuple(ctx, op.Signature())
//
// Setup wires both from a Config and returns a single shutdown function.
package observability
