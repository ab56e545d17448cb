package kafka

// MessageEnvelope is the merger-and-sink-facing record projection, stripped
// of any broker client types.
type MessageEnvelope struct {
	Partition   int32
	Offset      int64
	TimestampMs int64
	Key         string
	Value       *string
}
