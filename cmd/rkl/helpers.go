package main

import (
	"fmt"
	"os"

	"github.com/Shopify/sarama"
)

// kafkaVersion maps a Kafka version string to sarama's version type,
// falling back to Kafka 2.0.0 when s is empty or unrecognized, grounded on
// rogpeppe-contrib-kt's own kafkaVersion helper (same name, referenced but
// not present in this pack's retrieved subset).
func kafkaVersion(s string) sarama.KafkaVersion {
	if s == "" {
		return sarama.V2_0_0_0
	}
	v, err := sarama.ParseKafkaVersion(s)
	if err != nil {
		fmt.Fprintf(os.Stderr, "unrecognized kafka version %q, using default\n", s)
		return sarama.V2_0_0_0
	}
	return v
}
