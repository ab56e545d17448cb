package main

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fgeller/rkl/internal/kafka"
)

// newTopicsCmd adapts rogpeppe-contrib-kt/topic.go's topicCmd into a cobra
// subcommand: list topics (optionally filtered by regex) and, on request,
// their partitions' offset range, leader, and replicas.
func newTopicsCmd() *cobra.Command {
	var (
		brokers    string
		filter     string
		partitions bool
		leaders    bool
		replicas   bool
		sslCA      string
		sslCert    string
		sslKey     string
	)

	cmd := &cobra.Command{
		Use:   "topics",
		Short: "List topics and, optionally, their partitions",
		RunE: func(cmd *cobra.Command, args []string) error {
			re, err := regexp.Compile(filter)
			if err != nil {
				return fmt.Errorf("invalid --filter regex: %w", err)
			}

			cfg := kafka.DiscoverConfig{
				Brokers:        splitBrokers(brokers),
				SSL:            kafka.SslMaterial{CAPem: sslCA, CertificatePem: sslCert, KeyPem: sslKey},
				Version:        kafkaVersion(""),
				WithPartitions: partitions,
				WithLeaders:    leaders,
				WithReplicas:   replicas,
			}

			topics, err := kafka.ListTopics(cfg, re.MatchString)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, t := range topics {
				fmt.Fprintln(out, t.Name)
				for _, p := range t.Partitions {
					fmt.Fprintf(out, "  partition=%d oldest=%d newest=%d", p.ID, p.OldestOffset, p.NewestOffset)
					if p.Leader != "" {
						fmt.Fprintf(out, " leader=%s", p.Leader)
					}
					if len(p.Replicas) > 0 {
						fmt.Fprintf(out, " replicas=%v isrs=%v", p.Replicas, p.ISRs)
					}
					fmt.Fprintln(out)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&brokers, "broker", "localhost:9092", "Comma separated list of brokers")
	cmd.Flags().StringVar(&filter, "filter", "", "Regex to filter topic names")
	cmd.Flags().BoolVar(&partitions, "partitions", false, "Include per-partition detail")
	cmd.Flags().BoolVar(&leaders, "leaders", false, "Include partition leader")
	cmd.Flags().BoolVar(&replicas, "replicas", false, "Include partition replicas and ISRs")
	cmd.Flags().StringVar(&sslCA, "ssl-ca-pem", "", "Inline CA certificate PEM")
	cmd.Flags().StringVar(&sslCert, "ssl-certificate-pem", "", "Inline client certificate PEM")
	cmd.Flags().StringVar(&sslKey, "ssl-key-pem", "", "Inline client key PEM")

	return cmd
}

func splitBrokers(s string) []string {
	parts := strings.Split(s, ",")
	for i, b := range parts {
		b = strings.TrimSpace(b)
		if !strings.Contains(b, ":") {
			b += ":9092"
		}
		parts[i] = b
	}
	return parts
}
