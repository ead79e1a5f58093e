package trades

import (
	"context"
	"strings"
	"time"

	"daily-fee-digest/internal/logger"
	"daily-fee-digest/internal/storage"
)

// ObjectKey derives the storage key for a processing date:
// {prefix}trades_{YYYYMMDD}.csv. The date is the processing date, not the
// session-shifted one.
func ObjectKey(prefix string, date time.Time) string {
	return prefix + "trades_" + date.Format("20060102") + ".csv"
}

// Loader fetches and parses the daily trade file.
type Loader struct {
	store  storage.ObjectStore
	bucket string
	prefix string
}

func NewLoader(store storage.ObjectStore, bucket, prefix string) *Loader {
	return &Loader{store: store, bucket: bucket, prefix: prefix}
}

// Load fetches the trade file for date and parses it. A missing object is
// reported as storage.ErrObjectNotFound so the caller can exit cleanly.
func (l *Loader) Load(ctx context.Context, date time.Time) ([]Record, error) {
	key := ObjectKey(l.prefix, date)

	op := logger.StartOperation(ctx, "fetch_trade_file", "bucket", l.bucket, "key", key)
	b, err := l.store.Get(op.Context(), l.bucket, key)
	if err != nil {
		op.EndWithError(err)
		return nil, err
	}
	op.End()

	records := Parse(string(b))
	logger.Info(ctx, "Trade file parsed", "key", key, "records", len(records))
	return records, nil
}

// Parse splits CSV text into records. The first line is a header of
// comma-separated field names, lower-cased. Data lines are split on commas
// positionally and zipped against the header; there is no quoting or
// escaping support, so fields containing literal commas are not supported
// and rows with mismatched column counts yield partial records. Blank
// lines are skipped. A file with fewer than two lines yields no records.
func Parse(content string) []Record {
	lines := strings.Split(strings.TrimSpace(content), "\n")
	if len(lines) < 2 {
		return nil
	}

	header := strings.Split(strings.ToLower(lines[0]), ",")

	var records []Record
	for _, line := range lines[1:] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		values := strings.Split(line, ",")
		fields := make(map[string]string, len(header))
		for i, name := range header {
			if i < len(values) {
				fields[name] = values[i]
			}
		}
		records = append(records, newRecord(fields))
	}
	return records
}
