// Package kafka fans out a compiled query across every partition of a topic
// using github.com/Shopify/sarama, without ever committing consumer-group
// offsets.
package kafka

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Shopify/sarama"
)

// OffsetKind tags the variant carried by an OffsetSpec.
type OffsetKind int

const (
	OffsetBeginning OffsetKind = iota
	OffsetEnd
	OffsetAbsolute
)

// OffsetSpec is the parsed --offset value: "beginning", "end", or a signed
// integer absolute offset.
type OffsetSpec struct {
	Kind     OffsetKind
	Absolute int64
}

// ParseOffsetSpec parses the text forms the CLI accepts. Unrecognized input
// is a reserved error, grounded on the interval/position grammar in
// rogpeppe-contrib-kt/consume.go's parseAnchorPos, narrowed to the three
// forms this query language actually needs.
func ParseOffsetSpec(s string) (OffsetSpec, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "beginning":
		return OffsetSpec{Kind: OffsetBeginning}, nil
	case "end":
		return OffsetSpec{Kind: OffsetEnd}, nil
	}
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return OffsetSpec{}, fmt.Errorf("invalid offset spec %q: must be \"beginning\", \"end\", or an integer", s)
	}
	return OffsetSpec{Kind: OffsetAbsolute, Absolute: n}, nil
}

// Resolve maps the spec to sarama's starting-offset convention for
// ConsumePartition. Beginning/End map directly to sarama's sentinel
// constants; an absolute offset passes through unchanged.
func (o OffsetSpec) Resolve() int64 {
	switch o.Kind {
	case OffsetBeginning:
		return sarama.OffsetOldest
	case OffsetEnd:
		return sarama.OffsetNewest
	default:
		return o.Absolute
	}
}
