package merge

import (
	"time"

	"github.com/fgeller/rkl/internal/kafka"
	"github.com/fgeller/rkl/internal/sink"
)

// Config is the immutable contract a Merger is built from, per spec.md
// §4.5.
type Config struct {
	Watermark     int           // heap size that triggers a half-drain
	FlushInterval time.Duration // periodic full-drain tick
	MaxMessages   int           // 0 means unbounded
	Order         OrderDir
}

// Merger drains a shared channel of matched envelopes into a bounded
// ordering heap and flushes to a sink on ticks, high-water marks, and
// channel closure, grounded on original_source/src/merger.rs.
type Merger struct {
	cfg  Config
	heap *envelopeHeap
}

// New builds a Merger for the given config. Construction never fails.
func New(cfg Config) *Merger {
	return &Merger{cfg: cfg, heap: newEnvelopeHeap(cfg.Order)}
}

// Run drains in until it closes, then completely drains the heap and
// returns. It returns early once MaxMessages envelopes have been emitted,
// regardless of whether in has closed.
//
// Scheduling bias: every iteration checks the ticker in a non-blocking
// pre-check before the blocking select, so Go's select (which has no
// "biased" keyword, unlike tokio::select!) still gives the periodic flush
// priority over a new envelope arrival, matching the "ticks never starve"
// guarantee in spec.md §4.5.
func (m *Merger) Run(in <-chan kafka.MessageEnvelope, out sink.Sink) {
	ticker := time.NewTicker(m.cfg.FlushInterval)
	defer ticker.Stop()

	emitted := 0
	closed := false

	for {
		if emitted >= m.cfg.MaxMessages && m.cfg.MaxMessages > 0 {
			return
		}

		select {
		case <-ticker.C:
			m.drainAll(out, &emitted)
			continue
		default:
		}

		select {
		case <-ticker.C:
			m.drainAll(out, &emitted)

		case e, ok := <-in:
			if !ok {
				closed = true
				break
			}
			m.heap.push(e)
			if m.heap.Len() >= m.cfg.Watermark && m.cfg.Watermark > 0 {
				m.drainHalf(out, &emitted)
			}
		}

		if closed {
			m.drainAll(out, &emitted)
			return
		}
	}
}

func (m *Merger) drainAll(out sink.Sink, emitted *int) {
	emittedAny := false
	for m.heap.Len() > 0 {
		if m.cfg.MaxMessages > 0 && *emitted >= m.cfg.MaxMessages {
			break
		}
		out.Push(m.heap.pop())
		*emitted++
		emittedAny = true
	}
	if emittedAny {
		out.FlushBlock()
	}
}

func (m *Merger) drainHalf(out sink.Sink, emitted *int) {
	n := m.heap.Len() / 2
	if n == 0 {
		return
	}
	emittedAny := false
	for i := 0; i < n; i++ {
		if m.cfg.MaxMessages > 0 && *emitted >= m.cfg.MaxMessages {
			break
		}
		out.Push(m.heap.pop())
		*emitted++
		emittedAny = true
	}
	if emittedAny {
		out.FlushBlock()
	}
}
