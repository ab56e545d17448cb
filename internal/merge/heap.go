// Package merge drains per-partition consumer output into a single
// timestamp-ordered stream through a bounded container/heap-based ordering
// heap, grounded on original_source/src/merger.rs's HeapKind/drain_heap.
package merge

import (
	"container/heap"

	"github.com/fgeller/rkl/internal/kafka"
)

// OrderDir selects whether the heap emits in ascending or descending
// (timestamp_ms, partition, offset) order.
type OrderDir int

const (
	Asc OrderDir = iota
	Desc
)

// envelopeHeap is a container/heap.Interface over buffered envelopes, total
// ordered by (timestamp_ms, partition, offset); ties on timestamp break on
// partition, then offset, per spec.md §3's SortableEnvelope invariant.
type envelopeHeap struct {
	items []kafka.MessageEnvelope
	dir   OrderDir
}

func (h envelopeHeap) Len() int { return len(h.items) }

func (h envelopeHeap) Less(i, j int) bool {
	a, b := h.items[i], h.items[j]
	less := less(a, b)
	if h.dir == Desc {
		return !less && !equal(a, b)
	}
	return less
}

func (h envelopeHeap) Swap(i, j int) { h.items[i], h.items[j] = h.items[j], h.items[i] }

func (h *envelopeHeap) Push(x any) {
	h.items = append(h.items, x.(kafka.MessageEnvelope))
}

func (h *envelopeHeap) Pop() any {
	old := h.items
	n := len(old)
	item := old[n-1]
	h.items = old[:n-1]
	return item
}

func less(a, b kafka.MessageEnvelope) bool {
	if a.TimestampMs != b.TimestampMs {
		return a.TimestampMs < b.TimestampMs
	}
	if a.Partition != b.Partition {
		return a.Partition < b.Partition
	}
	return a.Offset < b.Offset
}

func equal(a, b kafka.MessageEnvelope) bool {
	return a.TimestampMs == b.TimestampMs && a.Partition == b.Partition && a.Offset == b.Offset
}

func newEnvelopeHeap(dir OrderDir) *envelopeHeap {
	h := &envelopeHeap{dir: dir}
	heap.Init(h)
	return h
}

func (h *envelopeHeap) push(e kafka.MessageEnvelope) {
	heap.Push(h, e)
}

func (h *envelopeHeap) pop() kafka.MessageEnvelope {
	return heap.Pop(h).(kafka.MessageEnvelope)
}
