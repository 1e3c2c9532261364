// Package trace is the event log of mapfold runs.
//
// The engine reports what it does with every logical output file (submitted,
// completed, composed, emitted, skipped) as trace events, so a build that
// silently drops a file can be explained after the fact.
//
// # Usage
//
//	mapfold replay --trace=- --trace-level=detail build.json
//
// # Tracers
//
//   - Nop: zero-overhead tracer when tracing is disabled
//   - StreamTracer: immediate write to output (file/stderr), text or NDJSON
//   - RingTracer: last N events in memory, dumped on failure
//   - MultiTracer: fan-out
//
// # Levels
//
//   - LevelOff: no tracing
//   - LevelError: only crash dumps
//   - LevelPhase: run boundaries and Finish
//   - LevelDetail: per-file events
//   - LevelDebug: everything
//
// # Context Propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	t := trace.FromContext(ctx)
//
//	span := trace.Begin(t, trace.ScopePhase, "finish", parentID)
//	defer span.End("")
package trace
