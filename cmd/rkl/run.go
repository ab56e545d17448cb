package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/fgeller/rkl/internal/envstore"
	"github.com/fgeller/rkl/internal/kafka"
	"github.com/fgeller/rkl/internal/logging"
	"github.com/fgeller/rkl/internal/merge"
	"github.com/fgeller/rkl/internal/query"
	"github.com/fgeller/rkl/internal/sink"
)

type runFlags struct {
	broker          string
	topic           string
	search          string
	queryText       string
	maxMessages     int
	partition       int
	offset          string
	keysOnly        bool
	channelCapacity int
	watermark       int
	flushIntervalMs int
	order           string
	sslCAPem        string
	sslCertPem      string
	sslKeyPem       string
	env             string
	verbose         bool
}

// newRunCmd wires the core pipeline: compile a query or raw search string,
// fan out one consumer per partition, merge into a single ordered stream,
// and print a table. Grounded on spec.md §6.1's flag list and
// rogpeppe-contrib-kt/consume.go's run()/consume() shape, generalized from
// "print every record" to "filter, merge, and print matches".
func newRunCmd() *cobra.Command {
	var f runFlags

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Search a topic concurrently across all partitions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipeline(cmd, f)
		},
	}

	cmd.Flags().StringVar(&f.broker, "broker", "localhost:9092", "Comma separated list of brokers")
	cmd.Flags().StringVar(&f.topic, "topic", "", "Topic to consume (required unless --query's FROM supplies one)")
	cmd.Flags().StringVar(&f.search, "search", "", "Raw substring search over key and value text")
	cmd.Flags().StringVar(&f.queryText, "query", "", "SQL-like query (see the query grammar)")
	cmd.Flags().IntVar(&f.maxMessages, "max-messages", 0, "Stop after this many matches (0 means unbounded, or the query's LIMIT)")
	cmd.Flags().IntVar(&f.partition, "partition", -1, "Consume only this partition (-1 means all partitions)")
	cmd.Flags().StringVar(&f.offset, "offset", "beginning", `Starting offset: "beginning", "end", or an integer`)
	cmd.Flags().BoolVar(&f.keysOnly, "keys-only", false, "Project only keys, never values")
	cmd.Flags().IntVar(&f.channelCapacity, "channel-capacity", 2048, "Bounded channel capacity between consumers and the merger")
	cmd.Flags().IntVar(&f.watermark, "watermark", 256, "Heap size that triggers a half-drain")
	cmd.Flags().IntVar(&f.flushIntervalMs, "flush-interval-ms", 250, "Periodic full-drain interval, in milliseconds")
	cmd.Flags().StringVar(&f.order, "order", "asc", `Merge order: "asc" or "desc" (overridden by the query's ORDER BY, if any)`)
	cmd.Flags().StringVar(&f.sslCAPem, "ssl-ca-pem", "", "Inline CA certificate PEM")
	cmd.Flags().StringVar(&f.sslCertPem, "ssl-certificate-pem", "", "Inline client certificate PEM")
	cmd.Flags().StringVar(&f.sslKeyPem, "ssl-key-pem", "", "Inline client key PEM")
	cmd.Flags().StringVar(&f.env, "env", "", "Name of a saved environment (see `rkl env`) to use for broker/TLS settings")
	cmd.Flags().BoolVar(&f.verbose, "verbose", false, "More verbose logging to stderr")

	cmd.MarkFlagsMutuallyExclusive("search", "query")

	return cmd
}

func runPipeline(cmd *cobra.Command, f runFlags) error {
	var sq *query.SelectQuery
	if f.queryText != "" {
		parsed, err := query.Parse(f.queryText)
		if err != nil {
			return fmt.Errorf("invalid query: %w", err)
		}
		sq = parsed
	} else if f.search != "" {
		sq = searchQuery(f.search, f.topic)
	} else {
		sq = &query.SelectQuery{Select: []query.SelectItem{query.Key, query.Value}, From: f.topic}
	}

	topic := sq.From
	if topic == "" {
		topic = f.topic
	}
	if topic == "" {
		return fmt.Errorf("--topic is required unless --query's FROM supplies one")
	}

	proj := sink.Projection{}
	for _, item := range sq.Select {
		switch item {
		case query.Key:
			proj.Key = true
		case query.Value:
			proj.Value = true
		}
	}
	if f.keysOnly {
		proj = sink.Projection{Key: true}
	}

	ssl := kafka.SslMaterial{CAPem: f.sslCAPem, CertificatePem: f.sslCertPem, KeyPem: f.sslKeyPem}
	brokers := splitBrokers(f.broker)
	if f.env != "" {
		env, err := lookupEnv(f.env)
		if err != nil {
			return err
		}
		brokers = splitBrokers(env.Host)
		ssl = kafka.SslMaterial{CAPem: env.SslCAPem, CertificatePem: env.PublicKeyPem, KeyPem: env.PrivateKeyPem}
	}

	offsetSpec, err := kafka.ParseOffsetSpec(f.offset)
	if err != nil {
		return fmt.Errorf("invalid --offset: %w", err)
	}

	maxMessages := f.maxMessages
	if maxMessages == 0 && sq.Limit != nil {
		maxMessages = *sq.Limit
	}

	order := merge.Asc
	orderText := strings.ToLower(f.order)
	if sq.Order != nil {
		if sq.Order.Dir == query.Desc {
			orderText = "desc"
		} else {
			orderText = "asc"
		}
	}
	if orderText == "desc" {
		order = merge.Desc
	}

	logger := logging.New(f.verbose)
	defer logger.Sync()

	errLogPath, err := logging.DefaultErrorLogPath()
	if err != nil {
		return err
	}
	errLogger, err := logging.NewErrorLog(errLogPath)
	if err != nil {
		return err
	}
	defer errLogger.Sync()
	errLog := kafka.NewErrorLog(errLogger)

	partitions, err := resolvePartitions(brokers, ssl, topic, f.partition)
	if err != nil {
		return fmt.Errorf("failed to resolve partitions: %w", err)
	}
	if len(partitions) == 0 {
		return fmt.Errorf("found no partitions to consume for topic %q", topic)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	out := make(chan kafka.MessageEnvelope, f.channelCapacity)

	g, gctx := errgroup.WithContext(ctx)
	for _, p := range partitions {
		p := p
		g.Go(func() error {
			consumer := kafka.NewPartitionConsumer(kafka.PartitionConsumerConfig{
				Brokers:    brokers,
				Topic:      topic,
				Partition:  p,
				Offset:     offsetSpec,
				Predicate:  sq.Where,
				Projection: kafka.Projection{IncludeValue: proj.Value},
				SSL:        ssl,
				Version:    kafkaVersion(""),
				ErrorLog:   errLog,
			})
			return consumer.Run(gctx, out)
		})
	}

	waitErr := make(chan error, 1)
	go func() {
		err := g.Wait()
		close(out)
		waitErr <- err
	}()

	merger := merge.New(merge.Config{
		Watermark:     f.watermark,
		FlushInterval: time.Duration(f.flushIntervalMs) * time.Millisecond,
		MaxMessages:   maxMessages,
		Order:         order,
	})

	table := sink.NewTable(cmd.OutOrStdout(), proj)
	merger.Run(out, table)

	// Stop consumers still blocked on a send once the merger has returned
	// early, then surface the first consumer setup error, if any.
	cancel()
	if err := <-waitErr; err != nil {
		return fmt.Errorf("consumer failed: %w", err)
	}
	return nil
}

func searchQuery(search, topic string) *query.SelectQuery {
	expr := query.Or{
		L: query.Cmp{Left: query.JsonPath{Root: query.RootKey}, Op: query.Contains, Right: query.StringLiteral(search)},
		R: query.Cmp{Left: query.JsonPath{Root: query.RootValue}, Op: query.Contains, Right: query.StringLiteral(search)},
	}
	return &query.SelectQuery{
		Select: []query.SelectItem{query.Key, query.Value},
		From:   topic,
		Where:  expr,
	}
}

func resolvePartitions(brokers []string, ssl kafka.SslMaterial, topic string, requested int) ([]int32, error) {
	all, err := kafka.Partitions(kafka.DiscoverConfig{Brokers: brokers, SSL: ssl, Version: kafkaVersion("")}, topic)
	if err != nil {
		return nil, err
	}
	if requested < 0 {
		return all, nil
	}
	for _, p := range all {
		if p == int32(requested) {
			return []int32{p}, nil
		}
	}
	return nil, fmt.Errorf("partition %d does not exist for topic %q", requested, topic)
}

func lookupEnv(name string) (envstore.Environment, error) {
	store := envstore.Load()
	for _, e := range store.Envs {
		if e.Name == name {
			return e, nil
		}
	}
	return envstore.Environment{}, fmt.Errorf("no saved environment named %q", name)
}
