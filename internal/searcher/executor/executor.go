package executor

import (
	"context"
	"log/slog"

	"github.com/searchlabs/boolean-retrieval-platform/internal/index"
	"github.com/searchlabs/boolean-retrieval-platform/internal/query"
	"github.com/searchlabs/boolean-retrieval-platform/internal/tokenizer"
	apperrors "github.com/searchlabs/boolean-retrieval-platform/pkg/errors"
)

// SearchResult is the outcome of one boolean query: the matching document
// IDs in ascending order, truncated to the requested limit.
type SearchResult struct {
	Query     string         `json:"query"`
	TotalHits int            `json:"total_hits"`
	DocIDs    []string       `json:"doc_ids"`
	TermStats map[string]int `json:"term_stats,omitempty"`
}

// Executor parses and evaluates boolean queries against a sealed index.
type Executor struct {
	store  *index.Store
	logger *slog.Logger
}

// New creates an Executor reading from the given store.
func New(store *index.Store) *Executor {
	return &Executor{
		store:  store,
		logger: slog.Default().With("component", "query-executor"),
	}
}

// Execute parses rawQuery, evaluates the expression tree against the index,
// and returns up to limit matching document IDs. Malformed queries return
// an error wrapping errors.ErrSyntax; unknown terms match nothing and are
// not errors.
func (e *Executor) Execute(ctx context.Context, rawQuery string, limit int) (*SearchResult, error) {
	if !e.store.Sealed() {
		return nil, apperrors.New(apperrors.ErrIndexNotReady, 503,
			"index is still building")
	}
	expr, err := query.Parse(rawQuery, tokenizer.Normalize)
	if err != nil {
		return nil, err
	}

	matches := query.Evaluate(expr, e.store)

	termStats := make(map[string]int)
	for _, term := range query.Terms(expr) {
		termStats[term] = len(e.store.Lookup(term))
	}

	totalHits := len(matches)
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}

	e.logger.Info("query executed",
		"query", rawQuery,
		"expr", expr.String(),
		"total_hits", totalHits,
		"returned", len(matches),
	)
	return &SearchResult{
		Query:     rawQuery,
		TotalHits: totalHits,
		DocIDs:    matches,
		TermStats: termStats,
	}, nil
}

// Canonical returns the canonical parenthesised form of rawQuery, used for
// cache-key normalisation. It fails with the same syntax errors as Execute.
func Canonical(rawQuery string) (string, error) {
	expr, err := query.Parse(rawQuery, tokenizer.Normalize)
	if err != nil {
		return "", err
	}
	return expr.String(), nil
}
