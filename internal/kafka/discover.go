package kafka

import (
	"fmt"
	"os/user"

	"github.com/Shopify/sarama"
)

// TopicInfo mirrors rogpeppe-contrib-kt/topic.go's topic/partition structs,
// renamed and trimmed to what this module's "topics" subcommand needs.
type TopicInfo struct {
	Name       string
	Partitions []PartitionInfo
}

// PartitionInfo describes one partition's offset range and, optionally,
// its leader/replica assignment.
type PartitionInfo struct {
	ID           int32
	OldestOffset int64
	NewestOffset int64
	Leader       string
	Replicas     []int32
	ISRs         []int32
}

// DiscoverConfig selects how much partition detail ListTopics fetches.
type DiscoverConfig struct {
	Brokers        []string
	SSL            SslMaterial
	Version        sarama.KafkaVersion
	WithPartitions bool
	WithLeaders    bool
	WithReplicas   bool
}

func newDiscoverClient(cfg DiscoverConfig, clientIDPrefix string) (sarama.Client, error) {
	scfg := sarama.NewConfig()
	scfg.Version = cfg.Version

	usr, err := user.Current()
	username := "unknown"
	if err == nil {
		username = usr.Username
	}
	scfg.ClientID = clientIDPrefix + "-" + sanitizeClientIDComponent(username)

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

// ListTopics fetches topic metadata, grounded on
// rogpeppe-contrib-kt/topic.go's readTopic/run.
func ListTopics(cfg DiscoverConfig, filter func(string) bool) ([]TopicInfo, error) {
	client, err := newDiscoverClient(cfg, "rkl-topics")
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	defer logClose("client", client)

	all, err := client.Topics()
	if err != nil {
		return nil, fmt.Errorf("failed to read topics: %w", err)
	}

	var result []TopicInfo
	for _, name := range all {
		if filter != nil && !filter(name) {
			continue
		}
		info, err := readTopic(client, cfg, name)
		if err != nil {
			return nil, fmt.Errorf("failed to read info for topic %s: %w", name, err)
		}
		result = append(result, info)
	}
	return result, nil
}

// Partitions returns the partition ids for a topic, used by the run command
// to fan out one consumer per partition (or a single requested partition).
func Partitions(cfg DiscoverConfig, topic string) ([]int32, error) {
	client, err := newDiscoverClient(cfg, "rkl-partitions")
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	defer logClose("client", client)
	return client.Partitions(topic)
}

func readTopic(client sarama.Client, cfg DiscoverConfig, name string) (TopicInfo, error) {
	info := TopicInfo{Name: name}
	if !cfg.WithPartitions {
		return info, nil
	}

	ids, err := client.Partitions(name)
	if err != nil {
		return info, err
	}

	for _, id := range ids {
		p := PartitionInfo{ID: id}

		if p.OldestOffset, err = client.GetOffset(name, id, sarama.OffsetOldest); err != nil {
			return info, err
		}
		if p.NewestOffset, err = client.GetOffset(name, id, sarama.OffsetNewest); err != nil {
			return info, err
		}

		if cfg.WithLeaders {
			leader, err := client.Leader(name, id)
			if err != nil {
				return info, err
			}
			p.Leader = leader.Addr()
		}

		if cfg.WithReplicas {
			if p.Replicas, err = client.Replicas(name, id); err != nil {
				return info, err
			}
			if p.ISRs, err = client.InSyncReplicas(name, id); err != nil {
				return info, err
			}
		}

		info.Partitions = append(info.Partitions, p)
	}

	return info, nil
}
