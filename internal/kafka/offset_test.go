package kafka

import (
	"testing"

	"github.com/Shopify/sarama"
	qt "github.com/frankban/quicktest"
)

func TestParseOffsetSpec(t *testing.T) {
	c := qt.New(t)

	spec, err := ParseOffsetSpec("beginning")
	c.Assert(err, qt.IsNil)
	c.Assert(spec.Kind, qt.Equals, OffsetBeginning)
	c.Assert(spec.Resolve(), qt.Equals, sarama.OffsetOldest)

	spec, err = ParseOffsetSpec("END")
	c.Assert(err, qt.IsNil)
	c.Assert(spec.Kind, qt.Equals, OffsetEnd)
	c.Assert(spec.Resolve(), qt.Equals, sarama.OffsetNewest)

	spec, err = ParseOffsetSpec("  42")
	c.Assert(err, qt.IsNil)
	c.Assert(spec.Kind, qt.Equals, OffsetAbsolute)
	c.Assert(spec.Resolve(), qt.Equals, int64(42))

	spec, err = ParseOffsetSpec("-17")
	c.Assert(err, qt.IsNil)
	c.Assert(spec.Resolve(), qt.Equals, int64(-17))

	_, err = ParseOffsetSpec("not-a-number")
	c.Assert(err, qt.Not(qt.IsNil))
}
