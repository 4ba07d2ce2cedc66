package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/searchlabs/boolean-retrieval-platform/internal/ingestion"
)

func encodeEvent(t *testing.T, event ingestion.IngestEvent) []byte {
	t.Helper()
	data, err := json.Marshal(event)
	if err != nil {
		t.Fatal(err)
	}
	return data
}

func TestHandleIngestEventInvalidatesAndCounts(t *testing.T) {
	var (
		invalidated int
		pendingIDs  []string
	)
	handler := HandleIngestEvent(
		func(ctx context.Context) error {
			invalidated++
			return nil
		},
		func(docID string) {
			pendingIDs = append(pendingIDs, docID)
		},
	)

	value := encodeEvent(t, ingestion.IngestEvent{
		DocumentID: "d42",
		Title:      "late arrival",
		Body:       "arrives after the index is sealed",
		IngestedAt: time.Now().UTC(),
	})
	if err := handler(context.Background(), []byte("d42"), value); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if invalidated != 1 {
		t.Errorf("invalidate called %d times, want 1", invalidated)
	}
	if len(pendingIDs) != 1 || pendingIDs[0] != "d42" {
		t.Errorf("pendingIDs = %v, want [d42]", pendingIDs)
	}
}

func TestHandleIngestEventSkipsMalformedPayload(t *testing.T) {
	called := false
	handler := HandleIngestEvent(nil, func(string) { called = true })

	// Bad payloads are logged and dropped; returning an error would wedge
	// the consumer on a poison message.
	if err := handler(context.Background(), nil, []byte("{not json")); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if called {
		t.Error("onPending must not fire for undecodable events")
	}
}

func TestHandleIngestEventToleratesInvalidateFailure(t *testing.T) {
	handler := HandleIngestEvent(
		func(ctx context.Context) error { return errors.New("redis down") },
		nil,
	)
	value := encodeEvent(t, ingestion.IngestEvent{DocumentID: "d1"})
	if err := handler(context.Background(), []byte("d1"), value); err != nil {
		t.Errorf("invalidation failure must not propagate, got %v", err)
	}
}

func TestHandleIngestEventNilCallbacks(t *testing.T) {
	handler := HandleIngestEvent(nil, nil)
	value := encodeEvent(t, ingestion.IngestEvent{DocumentID: "d9"})
	if err := handler(context.Background(), []byte("d9"), value); err != nil {
		t.Errorf("handler returned error: %v", err)
	}
}
