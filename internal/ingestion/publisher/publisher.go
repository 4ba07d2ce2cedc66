// Package publisher persists documents to the corpus store and publishes
// ingest events to Kafka so searchers can invalidate cached query results.
package publisher

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/searchlabs/boolean-retrieval-platform/internal/corpus"
	"github.com/searchlabs/boolean-retrieval-platform/internal/ingestion"
	"github.com/searchlabs/boolean-retrieval-platform/pkg/kafka"
)

// Publisher coordinates document persistence and Kafka event production.
type Publisher struct {
	store    *corpus.Store
	producer *kafka.Producer
	logger   *slog.Logger
}

// New creates a Publisher with the given corpus store and Kafka producer.
func New(store *corpus.Store, producer *kafka.Producer) *Publisher {
	return &Publisher{
		store:    store,
		producer: producer,
		logger:   slog.Default().With("component", "publisher"),
	}
}

// Ingest persists the document in the corpus store and publishes an
// IngestEvent to Kafka. The document becomes searchable on the next index
// rebuild, so the response status is PENDING.
func (p *Publisher) Ingest(ctx context.Context, req *ingestion.IngestRequest) (*ingestion.IngestResponse, error) {
	docID, err := p.store.Save(ctx, req.Title, req.Body, req.IdempotencyKey)
	if err != nil {
		return nil, fmt.Errorf("persisting document: %w", err)
	}

	event := kafka.Event{
		Key: docID,
		Value: ingestion.IngestEvent{
			DocumentID: docID,
			Title:      req.Title,
			Body:       req.Body,
			IngestedAt: time.Now().UTC(),
		},
	}
	if err := p.producer.Publish(ctx, event); err != nil {
		// The document is durable in postgres; searchers will pick it up
		// on the next rebuild even without the event.
		p.logger.Error("failed to publish ingest event",
			"doc_id", docID,
			"error", err,
		)
	}
	return &ingestion.IngestResponse{
		DocumentID: docID,
		Status:     "PENDING",
	}, nil
}

// IngestBatch persists and publishes several documents, batching the Kafka
// writes into a single call.
func (p *Publisher) IngestBatch(ctx context.Context, reqs []*ingestion.IngestRequest) ([]*ingestion.IngestResponse, error) {
	responses := make([]*ingestion.IngestResponse, 0, len(reqs))
	events := make([]kafka.Event, 0, len(reqs))
	for _, req := range reqs {
		docID, err := p.store.Save(ctx, req.Title, req.Body, req.IdempotencyKey)
		if err != nil {
			return responses, fmt.Errorf("persisting document in batch: %w", err)
		}
		responses = append(responses, &ingestion.IngestResponse{
			DocumentID: docID,
			Status:     "PENDING",
		})
		events = append(events, kafka.Event{
			Key: docID,
			Value: ingestion.IngestEvent{
				DocumentID: docID,
				Title:      req.Title,
				Body:       req.Body,
				IngestedAt: time.Now().UTC(),
			},
		})
	}
	if err := p.producer.PublishBatch(ctx, events); err != nil {
		p.logger.Error("failed to publish ingest event batch",
			"count", len(events),
			"error", err,
		)
	}
	return responses, nil
}
