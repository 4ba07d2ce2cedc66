// Package indexer drives the index build phase: it replays the corpus
// through the tokenizer, feeding (term, docID) pairs into the posting-list
// store, and seals the index for querying. Build is a single-pass,
// single-writer operation; once Seal returns, the store is read-only.
package indexer

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/searchlabs/boolean-retrieval-platform/internal/corpus"
	"github.com/searchlabs/boolean-retrieval-platform/internal/index"
	"github.com/searchlabs/boolean-retrieval-platform/internal/tokenizer"
)

// Builder populates an index.Store from document text.
type Builder struct {
	store       *index.Store
	logger      *slog.Logger
	totalDocs   atomic.Int64
	totalTokens atomic.Int64
}

// NewBuilder creates a Builder writing into the given store.
func NewBuilder(store *index.Store) *Builder {
	return &Builder{
		store:  store,
		logger: slog.Default().With("component", "index-builder"),
	}
}

// IndexDocument tokenizes a document and adds every (term, docID) pair to
// the store. Within-document term repeats collapse to a single posting via
// the store's idempotent Add. The document joins the universe even when its
// text normalises to zero terms, so Stats.Docs and the universe agree and
// NOT complements can return it.
func (b *Builder) IndexDocument(docID, title, body string) error {
	if docID == "" {
		return fmt.Errorf("indexing document: empty document id")
	}
	b.store.RegisterDoc(docID)
	tokens := tokenizer.Tokenize(title + " " + body)
	for _, tok := range tokens {
		b.store.Add(tok.Term, docID)
	}
	b.totalDocs.Add(1)
	b.totalTokens.Add(int64(len(tokens)))
	b.logger.Debug("document indexed",
		"doc_id", docID,
		"token_count", len(tokens),
	)
	return nil
}

// BuildFromCorpus replays every stored document into the index and seals
// the store. It returns the build statistics.
func (b *Builder) BuildFromCorpus(ctx context.Context, store *corpus.Store) (Stats, error) {
	start := time.Now()
	err := store.StreamAll(ctx, func(doc corpus.Document) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		return b.IndexDocument(doc.ID, doc.Title, doc.Body)
	})
	if err != nil {
		return Stats{}, fmt.Errorf("replaying corpus: %w", err)
	}
	b.Seal()
	stats := b.Stats()
	b.logger.Info("index build complete",
		"docs", stats.Docs,
		"unique_terms", stats.Terms,
		"universe_size", stats.UniverseSize,
		"duration", time.Since(start).Round(time.Millisecond),
	)
	return stats, nil
}

// Seal freezes the underlying store. Idempotent.
func (b *Builder) Seal() {
	b.store.Seal()
}

// Stats describes the built index.
type Stats struct {
	Docs         int64 `json:"docs"`
	Tokens       int64 `json:"tokens"`
	Terms        int   `json:"unique_terms"`
	UniverseSize int   `json:"universe_size"`
	Sealed       bool  `json:"sealed"`
}

// Stats returns the current build statistics.
func (b *Builder) Stats() Stats {
	return Stats{
		Docs:         b.totalDocs.Load(),
		Tokens:       b.totalTokens.Load(),
		Terms:        b.store.Terms(),
		UniverseSize: b.store.Universe().Size(),
		Sealed:       b.store.Sealed(),
	}
}
