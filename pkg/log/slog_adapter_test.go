package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func newTestAdapter() (*SlogAdapter, *bytes.Buffer) {
	var buf bytes.Buffer
	handler := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	return NewSlogAdapter(slog.New(handler)), &buf
}

func TestSlogAdapterLogsMessageEvent(t *testing.T) {
	adapter, buf := newTestAdapter()

	adapter.Log(Event{
		Timestamp:     time.Now(),
		CorrelationID: "corr-1",
		Direction:     DirectionIn,
		Layer:         LayerWire,
		Category:      CategoryMessage,
		RemoteAddr:    "10.0.0.1:5697",
		Message:       &MessageEvent{Kind: 2, KeyCount: 2, SignatureCount: 1, Size: 200},
	})

	out := buf.String()
	for _, want := range []string{"corr-1", "10.0.0.1:5697", "key_count=2", "signature_count=1"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q: %s", want, out)
		}
	}
}

func TestSlogAdapterLogsAttemptEvent(t *testing.T) {
	adapter, buf := newTestAdapter()

	adapter.Log(Event{
		Timestamp:     time.Now(),
		CorrelationID: "corr-2",
		Direction:     DirectionOut,
		Layer:         LayerMessenger,
		Category:      CategoryAttempt,
		Attempt:       &AttemptEvent{AttemptNumber: 2, Outcome: AttemptOutcomeTimedOut, Timeout: 20 * time.Millisecond},
	})

	out := buf.String()
	for _, want := range []string{"corr-2", "attempt=2", "outcome=TIMED_OUT"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q: %s", want, out)
		}
	}
}

func TestSlogAdapterLogsErrorEvent(t *testing.T) {
	adapter, buf := newTestAdapter()

	adapter.Log(Event{
		Timestamp:     time.Now(),
		CorrelationID: "corr-3",
		Layer:         LayerCrypto,
		Category:      CategoryError,
		Error:         &ErrorEventData{Layer: LayerCrypto, Message: "boom", Context: "verify"},
	})

	out := buf.String()
	for _, want := range []string{"corr-3", "error_msg=boom", "error_context=verify"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q: %s", want, out)
		}
	}
}

func TestSlogAdapterInterfaceSatisfaction(t *testing.T) {
	var _ Logger = (*SlogAdapter)(nil)
}
