// Package sink implements the merger's output capability: push one
// envelope at a time, then flush a block. Table prints text tables,
// Recorder is an in-memory sink for tests, and Batcher feeds a future
// terminal UI.
package sink

import "github.com/fgeller/rkl/internal/kafka"

// Sink is the two-method capability the merger drives: Push appends one
// matched envelope, FlushBlock finalizes the current batch. Sinks are
// infallible from the merger's perspective (spec.md §7.5): implementations
// that can fail (e.g. a table writer hitting a closed stdout) swallow or
// log the error rather than propagating it.
type Sink interface {
	Push(kafka.MessageEnvelope)
	FlushBlock()
}

// Projection names which columns a Sink renders, mirroring the query's
// SELECT list.
type Projection struct {
	Key   bool
	Value bool
}
