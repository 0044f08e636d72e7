package log

import (
	"io"
	"path/filepath"
	"testing"
	"time"
)

func writeEvents(t *testing.T, path string, events []Event) {
	t.Helper()
	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger() error = %v", err)
	}
	for _, e := range events {
		logger.Log(e)
	}
	if err := logger.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
}

func TestReaderReadsAllEvents(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bind.tlog")

	want := []Event{
		{Timestamp: time.Now().Truncate(time.Nanosecond), CorrelationID: "a", Layer: LayerWire, Category: CategoryMessage},
		{Timestamp: time.Now().Truncate(time.Nanosecond), CorrelationID: "b", Layer: LayerMessenger, Category: CategoryAttempt},
		{Timestamp: time.Now().Truncate(time.Nanosecond), CorrelationID: "c", Layer: LayerCrypto, Category: CategoryError},
	}
	writeEvents(t, path, want)

	r, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader() error = %v", err)
	}
	defer r.Close()

	var got []Event
	for {
		e, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Next() error = %v", err)
		}
		got = append(got, e)
	}

	if len(got) != len(want) {
		t.Fatalf("got %d events, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].CorrelationID != want[i].CorrelationID {
			t.Errorf("event %d: CorrelationID = %q, want %q", i, got[i].CorrelationID, want[i].CorrelationID)
		}
	}
}

func TestReaderFiltersByCorrelationID(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bind.tlog")

	writeEvents(t, path, []Event{
		{Timestamp: time.Now(), CorrelationID: "keep", Layer: LayerWire, Category: CategoryMessage},
		{Timestamp: time.Now(), CorrelationID: "skip", Layer: LayerWire, Category: CategoryMessage},
		{Timestamp: time.Now(), CorrelationID: "keep", Layer: LayerMessenger, Category: CategoryAttempt},
	})

	r, err := NewFilteredReader(path, Filter{CorrelationID: "keep"})
	if err != nil {
		t.Fatalf("NewFilteredReader() error = %v", err)
	}
	defer r.Close()

	count := 0
	for {
		e, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Next() error = %v", err)
		}
		if e.CorrelationID != "keep" {
			t.Errorf("filter leaked event with CorrelationID = %q", e.CorrelationID)
		}
		count++
	}
	if count != 2 {
		t.Fatalf("got %d matching events, want 2", count)
	}
}

func TestReaderFiltersByLayerAndCategory(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bind.tlog")

	writeEvents(t, path, []Event{
		{Timestamp: time.Now(), CorrelationID: "x", Layer: LayerWire, Category: CategoryMessage},
		{Timestamp: time.Now(), CorrelationID: "x", Layer: LayerMessenger, Category: CategoryAttempt},
		{Timestamp: time.Now(), CorrelationID: "x", Layer: LayerCrypto, Category: CategoryError},
	})

	wantLayer := LayerMessenger
	r, err := NewFilteredReader(path, Filter{Layer: &wantLayer})
	if err != nil {
		t.Fatalf("NewFilteredReader() error = %v", err)
	}
	defer r.Close()

	count := 0
	for {
		e, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Next() error = %v", err)
		}
		if e.Layer != LayerMessenger {
			t.Errorf("filter leaked event with Layer = %v", e.Layer)
		}
		count++
	}
	if count != 1 {
		t.Fatalf("got %d matching events, want 1", count)
	}
}

func TestReaderTimeRangeFilter(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bind.tlog")

	base := time.Now().Truncate(time.Second)
	writeEvents(t, path, []Event{
		{Timestamp: base, CorrelationID: "early", Layer: LayerWire, Category: CategoryMessage},
		{Timestamp: base.Add(time.Hour), CorrelationID: "late", Layer: LayerWire, Category: CategoryMessage},
	})

	start := base.Add(30 * time.Minute)
	r, err := NewFilteredReader(path, Filter{TimeStart: &start})
	if err != nil {
		t.Fatalf("NewFilteredReader() error = %v", err)
	}
	defer r.Close()

	e, err := r.Next()
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if e.CorrelationID != "late" {
		t.Errorf("CorrelationID = %q, want %q", e.CorrelationID, "late")
	}
	if _, err := r.Next(); err != io.EOF {
		t.Fatalf("expected io.EOF after the only matching event, got %v", err)
	}
}
