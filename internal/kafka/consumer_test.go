package kafka

import (
	"testing"
	"time"

	"github.com/Shopify/sarama"
	"github.com/google/go-cmp/cmp"
	qt "github.com/frankban/quicktest"

	"github.com/fgeller/rkl/internal/query"
)

func TestEvaluateKeysOnlyProjectionOmitsValue(t *testing.T) {
	c := qt.New(t)
	pc := NewPartitionConsumer(PartitionConsumerConfig{
		Partition:  3,
		Projection: Projection{IncludeValue: false},
	})

	msg := &sarama.ConsumerMessage{
		Partition: 3,
		Offset:    7,
		Key:       []byte("user-1"),
		Value:     []byte(`{"method":"GET"}`),
		Timestamp: time.UnixMilli(1700000000000),
	}

	env, ok := pc.evaluate(msg)
	c.Assert(ok, qt.IsTrue)

	want := MessageEnvelope{
		Partition:   3,
		Offset:      7,
		TimestampMs: 1700000000000,
		Key:         "user-1",
	}
	if diff := cmp.Diff(want, env); diff != "" {
		t.Fatalf("evaluate() mismatch (-want +got):\n%s", diff)
	}
}

func TestEvaluateAppliesPredicate(t *testing.T) {
	c := qt.New(t)
	pred := query.Cmp{
		Left:  query.JsonPath{Root: query.RootValue, Segments: []string{"method"}},
		Op:    query.Eq,
		Right: query.StringLiteral("PUT"),
	}
	pc := NewPartitionConsumer(PartitionConsumerConfig{
		Predicate:  pred,
		Projection: Projection{IncludeValue: true},
	})

	nonMatching := &sarama.ConsumerMessage{Key: []byte("k"), Value: []byte(`{"method":"GET"}`)}
	_, ok := pc.evaluate(nonMatching)
	c.Assert(ok, qt.IsFalse)

	matching := &sarama.ConsumerMessage{Key: []byte("k"), Value: []byte(`{"method":"PUT"}`)}
	env, ok := pc.evaluate(matching)
	c.Assert(ok, qt.IsTrue)
	c.Assert(env.Value, qt.Not(qt.IsNil))
}

func TestEvaluateNilKeyBecomesNullString(t *testing.T) {
	c := qt.New(t)
	pc := NewPartitionConsumer(PartitionConsumerConfig{Projection: Projection{IncludeValue: true}})

	msg := &sarama.ConsumerMessage{Key: nil, Value: nil}
	env, ok := pc.evaluate(msg)
	c.Assert(ok, qt.IsTrue)
	c.Assert(env.Key, qt.Equals, "null")
	c.Assert(*env.Value, qt.Equals, "null")
}

func TestEvaluateUnparsableValueFallsBackToRawText(t *testing.T) {
	c := qt.New(t)
	pc := NewPartitionConsumer(PartitionConsumerConfig{Projection: Projection{IncludeValue: true}})

	msg := &sarama.ConsumerMessage{Key: []byte("k"), Value: []byte("not json")}
	env, ok := pc.evaluate(msg)
	c.Assert(ok, qt.IsTrue)
	c.Assert(*env.Value, qt.Equals, "not json")
}

func TestSanitizeClientIDComponent(t *testing.T) {
	c := qt.New(t)
	c.Assert(sanitizeClientIDComponent("j.doe@example"), qt.Equals, "j_doe_example")
	c.Assert(sanitizeClientIDComponent("plain-user_1"), qt.Equals, "plain-user_1")
}
