// Package corpus implements the PostgreSQL-backed document store. It is the
// durable source of the collection: ingestion appends documents here, and
// the searcher replays the full corpus through the tokenizer at startup to
// build the inverted index.
package corpus

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	apperrors "github.com/searchlabs/boolean-retrieval-platform/pkg/errors"
	"github.com/searchlabs/boolean-retrieval-platform/pkg/postgres"
)

// Document is a stored corpus document.
type Document struct {
	ID         string
	Title      string
	Body       string
	IngestedAt time.Time
}

// Store persists and streams corpus documents.
type Store struct {
	db     *postgres.Client
	logger *slog.Logger
}

// NewStore creates a Store backed by the given PostgreSQL client.
func NewStore(db *postgres.Client) *Store {
	return &Store{
		db:     db,
		logger: slog.Default().With("component", "corpus-store"),
	}
}

// Save inserts a document and returns its assigned ID. When idempotencyKey
// is non-empty and already used, the existing document ID is returned with
// ErrIdempotencyConflict wrapped in the error chain only on true conflicts
// (same key, different content hash).
func (s *Store) Save(ctx context.Context, title, body, idempotencyKey string) (string, error) {
	contentHash := fmt.Sprintf("%x", sha256.Sum256([]byte(title+"\x00"+body)))

	if idempotencyKey != "" {
		existingID, existingHash, err := s.findByIdempotencyKey(ctx, idempotencyKey)
		if err != nil {
			return "", fmt.Errorf("checking idempotency key: %w", err)
		}
		if existingID != "" {
			if existingHash == contentHash {
				s.logger.Info("duplicate ingestion detected",
					"idempotency_key", idempotencyKey,
					"existing_id", existingID,
				)
				return existingID, nil
			}
			return "", apperrors.New(apperrors.ErrIdempotencyConflict, 409,
				"idempotency key already used with different content")
		}
	}

	var docID string
	err := s.db.InTx(ctx, func(tx *sql.Tx) error {
		return tx.QueryRowContext(ctx,
			`INSERT INTO documents (title, body, content_hash, idempotency_key)
			 VALUES ($1, $2, $3, $4)
			 RETURNING id`,
			title, body, contentHash, nullableString(idempotencyKey),
		).Scan(&docID)
	})
	if err != nil {
		return "", fmt.Errorf("inserting document: %w", err)
	}
	return docID, nil
}

// GetByID returns a single stored document. A missing ID yields an error
// wrapping ErrDocumentNotFound.
func (s *Store) GetByID(ctx context.Context, id string) (Document, error) {
	var doc Document
	err := s.db.DB.QueryRowContext(ctx,
		`SELECT id, title, body, ingested_at FROM documents WHERE id = $1`, id,
	).Scan(&doc.ID, &doc.Title, &doc.Body, &doc.IngestedAt)
	if err == sql.ErrNoRows {
		return Document{}, apperrors.Newf(apperrors.ErrDocumentNotFound, 404,
			"no document with id %q", id)
	}
	if err != nil {
		return Document{}, fmt.Errorf("querying document %q: %w", id, err)
	}
	return doc, nil
}

// StreamAll iterates every document in ascending ID order, invoking fn for
// each. Iteration stops at the first fn error.
func (s *Store) StreamAll(ctx context.Context, fn func(Document) error) error {
	rows, err := s.db.DB.QueryContext(ctx,
		`SELECT id, title, body, ingested_at FROM documents ORDER BY id`)
	if err != nil {
		return fmt.Errorf("querying corpus: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var doc Document
		if err := rows.Scan(&doc.ID, &doc.Title, &doc.Body, &doc.IngestedAt); err != nil {
			return fmt.Errorf("scanning document row: %w", err)
		}
		if err := fn(doc); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating corpus: %w", err)
	}
	return nil
}

// Count returns the number of stored documents.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM documents`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting documents: %w", err)
	}
	return n, nil
}

// EnsureSchema creates the documents table when it does not exist yet.
func (s *Store) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS documents (
			id              TEXT PRIMARY KEY DEFAULT ('d' || nextval('documents_seq')),
			title           TEXT NOT NULL,
			body            TEXT NOT NULL,
			content_hash    TEXT NOT NULL,
			idempotency_key TEXT UNIQUE,
			ingested_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
	}
	if _, err := s.db.DB.ExecContext(ctx,
		`CREATE SEQUENCE IF NOT EXISTS documents_seq`); err != nil {
		return fmt.Errorf("creating document id sequence: %w", err)
	}
	for _, stmt := range stmts {
		if _, err := s.db.DB.ExecContext(ctx, strings.TrimSpace(stmt)); err != nil {
			return fmt.Errorf("creating corpus schema: %w", err)
		}
	}
	return nil
}

// nullableString converts a Go string to a sql.NullString, treating the
// empty string as NULL.
func nullableString(v string) sql.NullString {
	if v == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: v, Valid: true}
}

func (s *Store) findByIdempotencyKey(ctx context.Context, key string) (id, contentHash string, err error) {
	err = s.db.DB.QueryRowContext(ctx,
		`SELECT id, content_hash FROM documents WHERE idempotency_key = $1`, key,
	).Scan(&id, &contentHash)
	if err == sql.ErrNoRows {
		return "", "", nil
	}
	if err != nil {
		return "", "", fmt.Errorf("querying by idempotency key: %w", err)
	}
	return id, contentHash, nil
}
