package sink

import (
	"sync"

	"github.com/fgeller/rkl/internal/kafka"
)

// Recorder is an in-memory sink for tests, grounded on spec.md §9's note
// that "tests implement an in-memory recording sink". Blocks records each
// FlushBlock as a separate slice so tests can assert both per-flush and
// overall ordering.
type Recorder struct {
	mu      sync.Mutex
	pending []kafka.MessageEnvelope
	blocks  [][]kafka.MessageEnvelope
	flushes int
}

func NewRecorder() *Recorder { return &Recorder{} }

func (r *Recorder) Push(e kafka.MessageEnvelope) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pending = append(r.pending, e)
}

func (r *Recorder) FlushBlock() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.flushes++
	if len(r.pending) == 0 {
		return
	}
	block := r.pending
	r.pending = nil
	r.blocks = append(r.blocks, block)
}

// All returns every pushed envelope across all blocks, in emission order.
func (r *Recorder) All() []kafka.MessageEnvelope {
	r.mu.Lock()
	defer r.mu.Unlock()
	var all []kafka.MessageEnvelope
	for _, b := range r.blocks {
		all = append(all, b...)
	}
	return all
}

// Blocks returns the envelopes grouped by the FlushBlock call that emitted
// them.
func (r *Recorder) Blocks() [][]kafka.MessageEnvelope {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.blocks
}

// Flushes returns the number of FlushBlock calls observed, including
// no-op flushes with nothing pending.
func (r *Recorder) Flushes() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.flushes
}
