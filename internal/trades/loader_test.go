package trades

import (
	"context"
	"errors"
	"testing"
	"time"

	"daily-fee-digest/internal/storage"
)

func TestObjectKey(t *testing.T) {
	date := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	got := ObjectKey("exegy/", date)
	want := "exegy/trades_20240115.csv"
	if got != want {
		t.Errorf("Expected key %q, got %q", want, got)
	}

	if got := ObjectKey("", date); got != "trades_20240115.csv" {
		t.Errorf("Expected bare key, got %q", got)
	}
}

func TestParseHeaderOnly(t *testing.T) {
	records := Parse("timestamp,symbol,quantity\n")
	if len(records) != 0 {
		t.Errorf("Expected 0 records from header-only file, got %d", len(records))
	}
}

func TestParseEmpty(t *testing.T) {
	if records := Parse(""); len(records) != 0 {
		t.Errorf("Expected 0 records from empty file, got %d", len(records))
	}
}

func TestParse(t *testing.T) {
	csv := "TRADE_DATETIME,Symbol,Quantity,INSTRUMENT_TYPE,trade_source\n" +
		"01/15/2024-09:30:00,ESH4,5,future,\n" +
		"\n" +
		"01/15/2024-09:31:00,SPXW,10,option,BLOCK\n"

	records := Parse(csv)
	if len(records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(records))
	}

	r := records[0]
	if r.Timestamp != "01/15/2024-09:30:00" {
		t.Errorf("Expected timestamp from trade_datetime column, got %q", r.Timestamp)
	}
	if r.Instrument != "future" {
		t.Errorf("Expected instrument future, got %q", r.Instrument)
	}
	if r.Source != "" {
		t.Errorf("Expected empty trade_source, got %q", r.Source)
	}
	// Header is case-normalized, extra columns stay reachable.
	if r.Fields["symbol"] != "ESH4" {
		t.Errorf("Expected symbol ESH4 under lower-cased key, got %v", r.Fields)
	}

	if records[1].Source != "BLOCK" {
		t.Errorf("Expected trade_source BLOCK, got %q", records[1].Source)
	}
}

func TestParseTimestampFallback(t *testing.T) {
	records := Parse("timestamp,quantity\n01/15/2024-10:00:00,3\n")
	if len(records) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(records))
	}
	if records[0].Timestamp != "01/15/2024-10:00:00" {
		t.Errorf("Expected fallback to timestamp column, got %q", records[0].Timestamp)
	}
}

func TestParseMismatchedColumns(t *testing.T) {
	// Short rows produce partial records, long rows drop the overflow.
	// This mirrors the source format's behavior and is intentional.
	records := Parse("a,b,c\n1,2\n1,2,3,4\n")
	if len(records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(records))
	}
	if _, ok := records[0].Fields["c"]; ok {
		t.Error("Expected column c to be absent in short row")
	}
	if records[1].Fields["c"] != "3" {
		t.Errorf("Expected overflow to be dropped, got %v", records[1].Fields)
	}
}

func TestParseNoQuoting(t *testing.T) {
	// A quoted field containing a comma is split anyway; misalignment is
	// the documented policy, not an error.
	records := Parse("a,b\n\"x,y\",z\n")
	if len(records) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(records))
	}
	if records[0].Fields["a"] != "\"x" || records[0].Fields["b"] != "y\"" {
		t.Errorf("Expected naive comma split, got %v", records[0].Fields)
	}
}

func TestRecordQuantity(t *testing.T) {
	records := Parse("instrument_type,quantity\noption,7\n")
	q, ok := records[0].Quantity()
	if !ok || q != "7" {
		t.Errorf("Expected quantity 7 present, got %q %v", q, ok)
	}

	records = Parse("instrument_type\noption\n")
	if _, ok := records[0].Quantity(); ok {
		t.Error("Expected quantity column to be absent")
	}
}

// fakeStore is an in-memory ObjectStore for loader tests.
type fakeStore struct {
	objects map[string][]byte
	err     error
}

func (f *fakeStore) Get(_ context.Context, bucket, key string) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	b, ok := f.objects[bucket+"/"+key]
	if !ok {
		return nil, storage.ErrObjectNotFound
	}
	return b, nil
}

func TestLoaderLoad(t *testing.T) {
	date := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	fs := &fakeStore{objects: map[string][]byte{
		"trade-files/exegy/trades_20240115.csv": []byte("instrument_type,quantity\noption,5\nfuture,1\n"),
	}}

	loader := NewLoader(fs, "trade-files", "exegy/")
	records, err := loader.Load(context.Background(), date)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(records) != 2 {
		t.Errorf("Expected 2 records, got %d", len(records))
	}
}

func TestLoaderLoadNotFound(t *testing.T) {
	loader := NewLoader(&fakeStore{objects: map[string][]byte{}}, "trade-files", "")
	_, err := loader.Load(context.Background(), time.Now())
	if !errors.Is(err, storage.ErrObjectNotFound) {
		t.Errorf("Expected ErrObjectNotFound, got %v", err)
	}
}

func TestLoaderLoadTransientError(t *testing.T) {
	transient := errors.New("connection reset")
	loader := NewLoader(&fakeStore{err: transient}, "trade-files", "")
	_, err := loader.Load(context.Background(), time.Now())
	if !errors.Is(err, transient) {
		t.Errorf("Expected transient error to surface, got %v", err)
	}
	if errors.Is(err, storage.ErrObjectNotFound) {
		t.Error("Transient error must stay distinguishable from not-found")
	}
}
