package log

import (
	"io"
	"testing"
	"time"
)

func TestEventCBORRoundTrip(t *testing.T) {
	original := Event{
		Timestamp:     time.Now().Truncate(time.Nanosecond),
		CorrelationID: "corr-001",
		Direction:     DirectionOut,
		Layer:         LayerWire,
		Category:      CategoryMessage,
		RemoteAddr:    "10.0.0.1:5697",
		Message: &MessageEvent{
			Kind:           2,
			KeyCount:       2,
			SignatureCount: 1,
			Size:           256,
		},
	}

	data, err := EncodeEvent(original)
	if err != nil {
		t.Fatalf("EncodeEvent() error = %v", err)
	}
	if len(data) == 0 {
		t.Fatal("EncodeEvent() returned empty output")
	}

	decoded, err := DecodeEvent(data)
	if err != nil {
		t.Fatalf("DecodeEvent() error = %v", err)
	}

	if decoded.CorrelationID != original.CorrelationID {
		t.Errorf("CorrelationID: got %q, want %q", decoded.CorrelationID, original.CorrelationID)
	}
	if decoded.Direction != original.Direction {
		t.Errorf("Direction: got %v, want %v", decoded.Direction, original.Direction)
	}
	if decoded.Layer != original.Layer {
		t.Errorf("Layer: got %v, want %v", decoded.Layer, original.Layer)
	}
	if decoded.RemoteAddr != original.RemoteAddr {
		t.Errorf("RemoteAddr: got %q, want %q", decoded.RemoteAddr, original.RemoteAddr)
	}
	if decoded.Message == nil {
		t.Fatal("Message is nil")
	}
	if decoded.Message.KeyCount != original.Message.KeyCount {
		t.Errorf("Message.KeyCount: got %d, want %d", decoded.Message.KeyCount, original.Message.KeyCount)
	}
	if decoded.Message.SignatureCount != original.Message.SignatureCount {
		t.Errorf("Message.SignatureCount: got %d, want %d", decoded.Message.SignatureCount, original.Message.SignatureCount)
	}
}

func TestAttemptEventCBORRoundTrip(t *testing.T) {
	original := Event{
		Timestamp:     time.Now().Truncate(time.Nanosecond),
		CorrelationID: "corr-002",
		Direction:     DirectionOut,
		Layer:         LayerMessenger,
		Category:      CategoryAttempt,
		RemoteAddr:    "192.168.1.5:5697",
		Attempt: &AttemptEvent{
			AttemptNumber: 2,
			Outcome:       AttemptOutcomeTimedOut,
			Timeout:       50 * time.Millisecond,
		},
	}

	data, err := EncodeEvent(original)
	if err != nil {
		t.Fatalf("EncodeEvent() error = %v", err)
	}

	decoded, err := DecodeEvent(data)
	if err != nil {
		t.Fatalf("DecodeEvent() error = %v", err)
	}

	if decoded.Attempt == nil {
		t.Fatal("Attempt is nil")
	}
	if decoded.Attempt.AttemptNumber != original.Attempt.AttemptNumber {
		t.Errorf("AttemptNumber: got %d, want %d", decoded.Attempt.AttemptNumber, original.Attempt.AttemptNumber)
	}
	if decoded.Attempt.Outcome != original.Attempt.Outcome {
		t.Errorf("Outcome: got %v, want %v", decoded.Attempt.Outcome, original.Attempt.Outcome)
	}
	if decoded.Attempt.Timeout != original.Attempt.Timeout {
		t.Errorf("Timeout: got %v, want %v", decoded.Attempt.Timeout, original.Attempt.Timeout)
	}
}

func TestErrorEventCBORRoundTrip(t *testing.T) {
	original := Event{
		Timestamp:     time.Now().Truncate(time.Nanosecond),
		CorrelationID: "corr-003",
		Direction:     DirectionIn,
		Layer:         LayerCrypto,
		Category:      CategoryError,
		Error: &ErrorEventData{
			Layer:   LayerCrypto,
			Message: "signature verification failed",
			Context: "advertisement verify",
		},
	}

	data, err := EncodeEvent(original)
	if err != nil {
		t.Fatalf("EncodeEvent() error = %v", err)
	}

	decoded, err := DecodeEvent(data)
	if err != nil {
		t.Fatalf("DecodeEvent() error = %v", err)
	}

	if decoded.Error == nil {
		t.Fatal("Error is nil")
	}
	if decoded.Error.Message != original.Error.Message {
		t.Errorf("Error.Message: got %q, want %q", decoded.Error.Message, original.Error.Message)
	}
	if decoded.Error.Context != original.Error.Context {
		t.Errorf("Error.Context: got %q, want %q", decoded.Error.Context, original.Error.Context)
	}
}

func TestEventCBOREncodingIsDeterministic(t *testing.T) {
	event := Event{
		Timestamp:     time.Now().Truncate(time.Nanosecond),
		CorrelationID: "corr-004",
		Direction:     DirectionOut,
		Layer:         LayerWire,
		Category:      CategoryMessage,
		Message:       &MessageEvent{Kind: 1, Size: 64},
	}

	a, err := EncodeEvent(event)
	if err != nil {
		t.Fatalf("EncodeEvent() error = %v", err)
	}
	b, err := EncodeEvent(event)
	if err != nil {
		t.Fatalf("EncodeEvent() error = %v", err)
	}
	if string(a) != string(b) {
		t.Fatal("encoding the same event twice produced different bytes")
	}
}

func TestDecodeEventRejectsGarbage(t *testing.T) {
	if _, err := DecodeEvent([]byte{0xff, 0x00, 0x01}); err == nil {
		t.Fatal("DecodeEvent() accepted garbage input")
	}
}

func TestNewEncoderNewDecoderRoundTrip(t *testing.T) {
	var buf writeBuffer
	enc := NewEncoder(&buf)

	events := []Event{
		{Timestamp: time.Now().Truncate(time.Nanosecond), CorrelationID: "a", Layer: LayerWire, Category: CategoryMessage},
		{Timestamp: time.Now().Truncate(time.Nanosecond), CorrelationID: "b", Layer: LayerMessenger, Category: CategoryAttempt},
	}
	for _, e := range events {
		if err := enc.Encode(e); err != nil {
			t.Fatalf("Encode() error = %v", err)
		}
	}

	dec := NewDecoder(&buf)
	for i, want := range events {
		var got Event
		if err := dec.Decode(&got); err != nil {
			t.Fatalf("Decode() error at index %d: %v", i, err)
		}
		if got.CorrelationID != want.CorrelationID {
			t.Errorf("index %d: CorrelationID = %q, want %q", i, got.CorrelationID, want.CorrelationID)
		}
	}
}

// writeBuffer is a minimal growable buffer implementing io.Reader and
// io.Writer for exercising NewEncoder/NewDecoder without pulling in
// bytes.Buffer just for this test.
type writeBuffer struct {
	data []byte
	pos  int
}

func (b *writeBuffer) Write(p []byte) (int, error) {
	b.data = append(b.data, p...)
	return len(p), nil
}

func (b *writeBuffer) Read(p []byte) (int, error) {
	if b.pos >= len(b.data) {
		return 0, io.EOF
	}
	n := copy(p, b.data[b.pos:])
	b.pos += n
	return n, nil
}
