package kafka

import (
	"context"
	"fmt"
	"os/user"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Shopify/sarama"
	"github.com/google/uuid"

	"github.com/fgeller/rkl/internal/jsonval"
	"github.com/fgeller/rkl/internal/query"
)

// Projection controls what MessageEnvelope.Value carries.
type Projection struct {
	IncludeValue bool
}

// PartitionConsumerConfig is the immutable contract a PartitionConsumer is
// built from, grounded on rogpeppe-contrib-kt/consume.go's consumeCmd
// fields generalized to one struct per partition instead of one struct per
// CLI invocation.
type PartitionConsumerConfig struct {
	Brokers     []string
	Topic       string
	Partition   int32
	Offset      OffsetSpec
	Predicate   query.Expr // nil accepts every record
	Projection  Projection
	Limit       int // 0 means unbounded
	SSL         SslMaterial
	Version     sarama.KafkaVersion
	RetryDelay  time.Duration // sleep between transient receive errors; 0 uses the package default
	ErrorLog    *ErrorLog
}

// PartitionConsumer streams one partition's matching records to a channel
// without ever committing a consumer-group offset. Each instance owns
// exactly one partition and shares nothing mutable with its siblings.
type PartitionConsumer struct {
	cfg PartitionConsumerConfig
}

// NewPartitionConsumer builds a consumer for the given partition. It does
// not connect to the broker until Run is called.
func NewPartitionConsumer(cfg PartitionConsumerConfig) *PartitionConsumer {
	return &PartitionConsumer{cfg: cfg}
}

const defaultRetryDelay = 500 * time.Millisecond

// Run connects to the broker, assigns itself exclusively to cfg.Partition
// at the resolved offset, and streams matching envelopes to out until ctx
// is cancelled, the consumer's local limit is reached, or sarama closes the
// partition's message channel. A send that blocks because nothing reads out
// any more ends when ctx is cancelled. Sarama reports no end-of-partition
// event, so reaching the current end of the partition does not end Run: it
// keeps waiting for new records.
func (p *PartitionConsumer) Run(ctx context.Context, out chan<- MessageEnvelope) error {
	cfg := p.cfg

	client, err := p.newClient()
	if err != nil {
		return fmt.Errorf("partition %d: failed to create client: %w", cfg.Partition, err)
	}
	defer logClose("client", client)

	consumer, err := sarama.NewConsumerFromClient(client)
	if err != nil {
		return fmt.Errorf("partition %d: failed to create consumer: %w", cfg.Partition, err)
	}
	defer logClose("consumer", consumer)

	pc, err := consumer.ConsumePartition(cfg.Topic, cfg.Partition, cfg.Offset.Resolve())
	if err != nil {
		return fmt.Errorf("partition %d: failed to consume: %w", cfg.Partition, err)
	}
	defer logClose("partition consumer", pc)

	retryDelay := cfg.RetryDelay
	if retryDelay <= 0 {
		retryDelay = defaultRetryDelay
	}

	matched := 0
	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-pc.Errors():
			if !ok {
				return nil
			}
			cfg.ErrorLog.Record(cfg.Partition, "receive error: %v", err)
			select {
			case <-time.After(retryDelay):
			case <-ctx.Done():
				return nil
			}
		case msg, ok := <-pc.Messages():
			if !ok {
				return nil
			}
			env, matches := p.evaluate(msg)
			if !matches {
				continue
			}
			select {
			case out <- env:
			case <-ctx.Done():
				return nil
			}
			matched++
			if cfg.Limit > 0 && matched >= cfg.Limit {
				return nil
			}
		}
	}
}

func (p *PartitionConsumer) newClient() (sarama.Client, error) {
	cfg := p.cfg

	scfg := sarama.NewConfig()
	scfg.Version = cfg.Version
	scfg.Consumer.Return.Errors = true
	scfg.Consumer.Offsets.Initial = sarama.OffsetOldest

	usr, err := user.Current()
	username := "unknown"
	if err == nil {
		username = usr.Username
	}
	// Never used to join a real consumer group (this consumer never
	// commits), but a unique, single-use identifier of this shape still
	// appears in broker-side logs and client metadata.
	groupID := fmt.Sprintf("rkl-%s-p%d", uuid.New().String(), cfg.Partition)
	scfg.ClientID = groupID + "-" + sanitizeClientIDComponent(username)

	tlsConfig, err := cfg.SSL.TLSConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to set up TLS: %w", err)
	}
	if tlsConfig != nil {
		scfg.Net.TLS.Enable = true
		scfg.Net.TLS.Config = tlsConfig
	}

	return sarama.NewClient(cfg.Brokers, scfg)
}

// evaluate decodes one sarama message, applies the predicate, and builds
// the matching envelope, grounded on spec step 4.4.3-4.4.4.
func (p *PartitionConsumer) evaluate(msg *sarama.ConsumerMessage) (MessageEnvelope, bool) {
	cfg := p.cfg

	key := "null"
	if msg.Key != nil {
		key = toUTF8(msg.Key)
	}

	var valueText *string
	var parsedValue any
	if msg.Value != nil {
		text := toUTF8(msg.Value)
		valueText = &text
		parsedValue = jsonval.Parse(msg.Value)
	}

	timestampMs := int64(0)
	if !msg.Timestamp.IsZero() {
		timestampMs = msg.Timestamp.UnixMilli()
	}

	if !query.Evaluate(cfg.Predicate, key, parsedValue, valueText, timestampMs) {
		return MessageEnvelope{}, false
	}

	env := MessageEnvelope{
		Partition:   msg.Partition,
		Offset:      msg.Offset,
		TimestampMs: timestampMs,
		Key:         key,
	}

	if cfg.Projection.IncludeValue {
		env.Value = renderValue(parsedValue, valueText)
	}

	return env, true
}

func renderValue(parsed any, raw *string) *string {
	if parsed != nil {
		if pretty, err := jsonval.Pretty(parsed); err == nil {
			return &pretty
		}
	}
	if raw != nil {
		return raw
	}
	null := "null"
	return &null
}

func toUTF8(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}
	return strings.ToValidUTF8(string(b), "�")
}

func sanitizeClientIDComponent(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}
