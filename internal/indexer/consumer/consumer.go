// Package consumer reads document-ingest events from Kafka on the searcher
// side. The index follows a build-then-query lifecycle, so events arriving
// after the index is sealed do not mutate it; they invalidate the query
// cache and are counted as pending until the next rebuild.
package consumer

import (
	"context"
	"log/slog"

	"github.com/searchlabs/boolean-retrieval-platform/internal/ingestion"
	"github.com/searchlabs/boolean-retrieval-platform/pkg/kafka"
)

// IngestConsumer wraps a Kafka consumer tracking post-seal ingest events.
type IngestConsumer struct {
	consumer *kafka.Consumer
	logger   *slog.Logger
}

// New creates an IngestConsumer backed by the given Kafka consumer.
func New(kafkaConsumer *kafka.Consumer) *IngestConsumer {
	return &IngestConsumer{
		consumer: kafkaConsumer,
		logger:   slog.Default().With("component", "ingest-consumer"),
	}
}

// Start begins consuming Kafka messages. It blocks until ctx is cancelled.
func (ic *IngestConsumer) Start(ctx context.Context) error {
	ic.logger.Info("ingest consumer starting")
	return ic.consumer.Start(ctx)
}

// HandleIngestEvent returns a Kafka MessageHandler that records a pending
// document and invalidates cached query results, since the cached sets may
// no longer reflect the corpus. invalidate may be nil when caching is
// disabled; onPending is invoked once per decoded event.
func HandleIngestEvent(invalidate func(context.Context) error, onPending func(docID string)) kafka.MessageHandler {
	logger := slog.Default().With("component", "ingest-consumer")
	return func(ctx context.Context, key []byte, value []byte) error {
		event, err := kafka.DecodeJSON[ingestion.IngestEvent](value)
		if err != nil {
			logger.Error("failed to decode ingest event",
				"error", err,
				"key", string(key),
			)
			return nil
		}
		if onPending != nil {
			onPending(event.DocumentID)
		}
		if invalidate != nil {
			if err := invalidate(ctx); err != nil {
				logger.Error("cache invalidation failed",
					"doc_id", event.DocumentID,
					"error", err,
				)
			}
		}
		logger.Info("document pending until next index rebuild",
			"doc_id", event.DocumentID,
		)
		return nil
	}
}
