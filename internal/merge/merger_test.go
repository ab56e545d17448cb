package merge

import (
	"testing"
	"time"

	qt "github.com/frankban/quicktest"

	"github.com/fgeller/rkl/internal/kafka"
	"github.com/fgeller/rkl/internal/sink"
)

func env(p int32, off, ts int64) kafka.MessageEnvelope {
	return kafka.MessageEnvelope{Partition: p, Offset: off, TimestampMs: ts}
}

func TestHeapDrainOrderingAscending(t *testing.T) {
	c := qt.New(t)
	h := newEnvelopeHeap(Asc)
	for _, e := range []kafka.MessageEnvelope{
		env(0, 0, 3),
		env(1, 0, 1),
		env(0, 1, 2),
		env(1, 1, 1),
	} {
		h.push(e)
	}

	var got []kafka.MessageEnvelope
	for h.Len() > 0 {
		got = append(got, h.pop())
	}

	want := []kafka.MessageEnvelope{
		env(1, 0, 1),
		env(1, 1, 1),
		env(0, 1, 2),
		env(0, 0, 3),
	}
	c.Assert(got, qt.DeepEquals, want)
}

func TestHeapDrainOrderingDescending(t *testing.T) {
	c := qt.New(t)
	h := newEnvelopeHeap(Desc)
	for _, e := range []kafka.MessageEnvelope{
		env(0, 0, 3),
		env(1, 0, 1),
		env(0, 1, 2),
		env(1, 1, 1),
	} {
		h.push(e)
	}

	var got []kafka.MessageEnvelope
	for h.Len() > 0 {
		got = append(got, h.pop())
	}

	want := []kafka.MessageEnvelope{
		env(0, 0, 3),
		env(0, 1, 2),
		env(1, 1, 1),
		env(1, 0, 1),
	}
	c.Assert(got, qt.DeepEquals, want)
}

func TestMergerDrainsOnChannelClose(t *testing.T) {
	c := qt.New(t)
	m := New(Config{Watermark: 1000, FlushInterval: time.Hour, Order: Asc})
	in := make(chan kafka.MessageEnvelope, 8)
	rec := sink.NewRecorder()

	in <- env(0, 0, 3)
	in <- env(1, 0, 1)
	in <- env(0, 1, 2)
	in <- env(1, 1, 1)
	close(in)

	m.Run(in, rec)

	c.Assert(rec.All(), qt.DeepEquals, []kafka.MessageEnvelope{
		env(1, 0, 1),
		env(1, 1, 1),
		env(0, 1, 2),
		env(0, 0, 3),
	})
}

func TestMergerBoundedEmission(t *testing.T) {
	c := qt.New(t)
	m := New(Config{Watermark: 1000, FlushInterval: time.Hour, MaxMessages: 5, Order: Desc})
	in := make(chan kafka.MessageEnvelope, 64)
	rec := sink.NewRecorder()

	total := 0
	for partition := int32(0); partition < 3; partition++ {
		for off := int64(0); off < 10; off++ {
			in <- env(partition, off, int64(100-int(off)))
			total++
		}
	}
	close(in)

	m.Run(in, rec)

	got := rec.All()
	c.Assert(got, qt.HasLen, 5)
	for i := 1; i < len(got); i++ {
		c.Assert(got[i].TimestampMs <= got[i-1].TimestampMs, qt.IsTrue)
	}
}

func TestMergerWatermarkTriggersHalfDrain(t *testing.T) {
	c := qt.New(t)
	m := New(Config{Watermark: 4, FlushInterval: time.Hour, Order: Asc})
	in := make(chan kafka.MessageEnvelope)
	rec := sink.NewRecorder()

	done := make(chan struct{})
	go func() {
		m.Run(in, rec)
		close(done)
	}()

	for i := int64(0); i < 4; i++ {
		in <- env(0, i, i)
	}
	// Give the merger a chance to observe the watermark and drain half
	// before we close the channel.
	time.Sleep(50 * time.Millisecond)
	close(in)
	<-done

	c.Assert(rec.All(), qt.HasLen, 4)
	c.Assert(rec.Flushes() >= 2, qt.IsTrue)
}
