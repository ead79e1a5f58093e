package trades

// Record is a single parsed trade row. The fields the digest actually
// consumes are lifted into named members; everything else stays reachable
// through Fields so additional CSV columns survive parsing.
type Record struct {
	Timestamp  string // trade_datetime (or timestamp) column, raw
	Instrument string // instrument_type column
	Source     string // trade_source column, may be empty
	Fields     map[string]string
}

// Quantity returns the raw quantity field and whether the column was
// present in the row at all. Absent and empty are distinct: an absent
// column counts as zero contracts, an empty or malformed value is a
// parse failure for the aggregator to surface.
func (r Record) Quantity() (string, bool) {
	q, ok := r.Fields["quantity"]
	return q, ok
}

func newRecord(fields map[string]string) Record {
	ts := fields["trade_datetime"]
	if ts == "" {
		ts = fields["timestamp"]
	}
	return Record{
		Timestamp:  ts,
		Instrument: fields["instrument_type"],
		Source:     fields["trade_source"],
		Fields:     fields,
	}
}
