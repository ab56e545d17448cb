package sink

import (
	"sync/atomic"

	"github.com/fgeller/rkl/internal/kafka"
)

// Batch is one flushed block of envelopes, tagged with the run that
// produced it so a future UI (out of scope here, per spec.md §1) can
// discard batches left over from a superseded run.
type Batch struct {
	RunID uint64
	Rows  []kafka.MessageEnvelope
}

// Batcher buffers envelopes and, on FlushBlock, sends a tagged Batch down
// Out. Grounded on original_source/src/tui/runner.rs's batch-tagging idea
// (filtered from the kept source; reconstructed from spec.md §4.6's own
// description of a UI event emitter).
//
// MaxBufferedRows bounds how many rows accumulate between flushes; once
// reached, the oldest buffered rows are dropped, mirroring the "drop
// oldest" policy spec.md §9 assigns to the UI's live row buffer.
type Batcher struct {
	Out             chan<- Batch
	MaxBufferedRows int

	runID   uint64
	pending []kafka.MessageEnvelope
}

// NewBatcher builds a Batcher tagging every batch with a fresh, process-wide
// monotonic run id.
func NewBatcher(out chan<- Batch, maxBufferedRows int) *Batcher {
	return &Batcher{
		Out:             out,
		MaxBufferedRows: maxBufferedRows,
		runID:           nextRunID(),
	}
}

var runIDCounter uint64

func nextRunID() uint64 { return atomic.AddUint64(&runIDCounter, 1) }

func (b *Batcher) Push(e kafka.MessageEnvelope) {
	b.pending = append(b.pending, e)
	if b.MaxBufferedRows > 0 && len(b.pending) > b.MaxBufferedRows {
		drop := len(b.pending) - b.MaxBufferedRows
		b.pending = b.pending[drop:]
	}
}

func (b *Batcher) FlushBlock() {
	if len(b.pending) == 0 {
		return
	}
	rows := b.pending
	b.pending = nil
	b.Out <- Batch{RunID: b.runID, Rows: rows}
}
