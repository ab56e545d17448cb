package sink

import (
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/fgeller/rkl/internal/kafka"
)

// Table renders matched envelopes as a text table, keyed by the
// projection's columns, grounded on original_source/src/output.rs: on
// FlushBlock it emits the accumulated table and starts a fresh one with the
// same header.
type Table struct {
	w          io.Writer
	projection Projection
	rows       [][]string
}

// NewTable builds a table sink writing to w.
func NewTable(w io.Writer, projection Projection) *Table {
	return &Table{w: w, projection: projection}
}

func (t *Table) Push(e kafka.MessageEnvelope) {
	row := []string{
		formatInt32(e.Partition),
		formatInt64(e.Offset),
		formatTimestamp(e.TimestampMs),
	}
	if t.projection.Key {
		row = append(row, e.Key)
	}
	if t.projection.Value {
		row = append(row, valueOrNull(e.Value))
	}
	t.rows = append(t.rows, row)
}

func (t *Table) FlushBlock() {
	if len(t.rows) == 0 {
		return
	}

	tw := tablewriter.NewWriter(t.w)
	tw.SetHeader(t.header())
	tw.SetAutoWrapText(false)
	for _, row := range t.rows {
		tw.Append(row)
	}
	tw.Render()

	t.rows = nil
}

func (t *Table) header() []string {
	h := []string{"Partition", "Offset", "Timestamp"}
	if t.projection.Key {
		h = append(h, "Key")
	}
	if t.projection.Value {
		h = append(h, "Value")
	}
	return h
}

func valueOrNull(v *string) string {
	if v == nil {
		return "null"
	}
	return *v
}

func formatTimestamp(ms int64) string {
	if ms == 0 {
		return ""
	}
	return time.UnixMilli(ms).UTC().Format(time.RFC3339)
}

func formatInt32(n int32) string { return strconv.FormatInt(int64(n), 10) }

func formatInt64(n int64) string { return strconv.FormatInt(n, 10) }
