package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/searchlabs/boolean-retrieval-platform/internal/indexer"
	"github.com/searchlabs/boolean-retrieval-platform/internal/searcher/cache"
	"github.com/searchlabs/boolean-retrieval-platform/internal/searcher/executor"
	apperrors "github.com/searchlabs/boolean-retrieval-platform/pkg/errors"
	"github.com/searchlabs/boolean-retrieval-platform/pkg/logger"
	"github.com/searchlabs/boolean-retrieval-platform/pkg/metrics"
)

// SearchExecutor evaluates a boolean query against the index.
type SearchExecutor interface {
	Execute(ctx context.Context, rawQuery string, limit int) (*executor.SearchResult, error)
}

// StatsFunc reports the current index build statistics.
type StatsFunc func() indexer.Stats

type Handler struct {
	executor     SearchExecutor
	cache        *cache.QueryCache
	stats        StatsFunc
	metrics      *metrics.Metrics
	defaultLimit int
	maxResults   int
	logger       *slog.Logger
}

func New(exec SearchExecutor, queryCache *cache.QueryCache, stats StatsFunc, m *metrics.Metrics, defaultLimit, maxResults int) *Handler {
	return &Handler{
		executor:     exec,
		cache:        queryCache,
		stats:        stats,
		metrics:      m,
		defaultLimit: defaultLimit,
		maxResults:   maxResults,
		logger:       slog.Default().With("component", "search-handler"),
	}
}

// Search handles GET /api/v1/search?q=<query>&limit=<n>. Malformed boolean
// queries return 400 with the parser's message verbatim; queries matching
// nothing return 200 with an empty doc_ids list.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()
	log := logger.FromContext(ctx)

	rawQuery := r.URL.Query().Get("q")
	if rawQuery == "" {
		h.writeError(w, http.StatusBadRequest, "query parameter 'q' is required")
		return
	}
	limit := h.defaultLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		// Zero is rejected too: the executor reads limit <= 0 as
		// unlimited, which would bypass the MaxResults cap.
		if err != nil || n <= 0 {
			h.writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}
	if h.maxResults > 0 && limit > h.maxResults {
		limit = h.maxResults
	}

	var (
		result    *executor.SearchResult
		cacheHit  bool
		err       error
		cacheUsed = h.cache != nil
	)
	if cacheUsed {
		result, cacheHit, err = h.cache.GetOrCompute(ctx, rawQuery, limit, func() (*executor.SearchResult, error) {
			return h.executor.Execute(ctx, rawQuery, limit)
		})
	} else {
		result, err = h.executor.Execute(ctx, rawQuery, limit)
	}
	if err != nil {
		statusCode := apperrors.HTTPStatusCode(err)
		if errors.Is(err, apperrors.ErrSyntax) {
			h.recordQuery("syntax_error", cacheHit, start, 0)
			log.Warn("query rejected", "query", rawQuery, "error", err)
			// Surface the parser's message verbatim alongside the query.
			h.writeJSON(w, statusCode, map[string]string{
				"error": err.Error(),
				"query": rawQuery,
			})
			return
		}
		log.Error("query execution failed", "query", rawQuery, "error", err)
		h.writeError(w, statusCode, "query execution failed")
		return
	}

	resultType := "ok"
	if result.TotalHits == 0 {
		resultType = "zero_result"
	}
	h.recordQuery(resultType, cacheHit, start, len(result.DocIDs))
	log.Info("search completed",
		"query", rawQuery,
		"total_hits", result.TotalHits,
		"cache_hit", cacheHit,
		"duration", time.Since(start).Round(time.Microsecond),
	)
	h.writeJSON(w, http.StatusOK, result)
}

// IndexStats handles GET /api/v1/index/stats.
func (h *Handler) IndexStats(w http.ResponseWriter, r *http.Request) {
	if h.stats == nil {
		h.writeError(w, http.StatusNotFound, "index stats unavailable")
		return
	}
	h.writeJSON(w, http.StatusOK, h.stats())
}

// CacheStats handles GET /api/v1/cache/stats.
func (h *Handler) CacheStats(w http.ResponseWriter, r *http.Request) {
	if h.cache == nil {
		h.writeJSON(w, http.StatusOK, map[string]any{"enabled": false})
		return
	}
	hits, misses := h.cache.Stats()
	h.writeJSON(w, http.StatusOK, map[string]any{
		"enabled": true,
		"hits":    hits,
		"misses":  misses,
	})
}

// CacheInvalidate handles POST /api/v1/cache/invalidate.
func (h *Handler) CacheInvalidate(w http.ResponseWriter, r *http.Request) {
	if h.cache == nil {
		h.writeJSON(w, http.StatusOK, map[string]any{"enabled": false})
		return
	}
	if err := h.cache.Invalidate(r.Context()); err != nil {
		h.logger.Error("cache invalidation failed", "error", err)
		h.writeError(w, http.StatusInternalServerError, "cache invalidation failed")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "invalidated"})
}

func (h *Handler) recordQuery(resultType string, cacheHit bool, start time.Time, results int) {
	if h.metrics == nil {
		return
	}
	h.metrics.QueriesTotal.WithLabelValues(resultType).Inc()
	cacheStatus := "miss"
	if cacheHit {
		cacheStatus = "hit"
		h.metrics.CacheHitsTotal.Inc()
	} else {
		h.metrics.CacheMissesTotal.Inc()
	}
	h.metrics.QueryLatency.WithLabelValues(cacheStatus).Observe(time.Since(start).Seconds())
	h.metrics.QueryResultsCount.Observe(float64(results))
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to write response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
