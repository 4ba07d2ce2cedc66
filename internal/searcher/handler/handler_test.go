package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/searchlabs/boolean-retrieval-platform/internal/index"
	"github.com/searchlabs/boolean-retrieval-platform/internal/indexer"
	"github.com/searchlabs/boolean-retrieval-platform/internal/searcher/executor"
)

func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	store := index.NewStore()
	b := indexer.NewBuilder(store)
	docs := []struct{ id, title, body string }{
		{"d1", "cat and mouse", "The cat chased a small mouse into the garden."},
		{"d2", "dog at the river", "A friendly dog played fetch by the river."},
		{"d7", "dog and cat", "The dog and the cat slept on the same couch."},
		{"d11", "black cat", "A black cat crossed the old stone bridge at night."},
		{"d12", "loyal dogs", "Dogs are loyal companions during long hikes."},
		{"d15", "dog and mouse", "The dog sniffed a cat but ignored the mouse."},
	}
	for _, doc := range docs {
		if err := b.IndexDocument(doc.id, doc.title, doc.body); err != nil {
			t.Fatal(err)
		}
	}
	b.Seal()
	return New(executor.New(store), nil, b.Stats, nil, 100, 1000)
}

func doSearch(t *testing.T, h *Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	h.Search(rec, req)
	return rec
}

func TestSearchReturnsMatches(t *testing.T) {
	h := newTestHandler(t)
	rec := doSearch(t, h, "/api/v1/search?q=dog+AND+cat")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body=%s", rec.Code, rec.Body.String())
	}
	var result executor.SearchResult
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatal(err)
	}
	want := []string{"d15", "d7"}
	if !reflect.DeepEqual(result.DocIDs, want) {
		t.Errorf("doc_ids = %v, want %v", result.DocIDs, want)
	}
	if result.TotalHits != 2 {
		t.Errorf("total_hits = %d, want 2", result.TotalHits)
	}
}

func TestSearchZeroResultsIsOK(t *testing.T) {
	h := newTestHandler(t)
	rec := doSearch(t, h, "/api/v1/search?q=zebra")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var result executor.SearchResult
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatal(err)
	}
	if result.TotalHits != 0 || len(result.DocIDs) != 0 {
		t.Errorf("got %d hits %v, want none", result.TotalHits, result.DocIDs)
	}
}

func TestSearchSyntaxErrorIncludesQuery(t *testing.T) {
	h := newTestHandler(t)
	rec := doSearch(t, h, "/api/v1/search?q=dog+AND")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["error"] == "" {
		t.Error("error message missing from response")
	}
	if body["query"] != "dog AND" {
		t.Errorf("query = %q, want %q", body["query"], "dog AND")
	}
}

func TestSearchRequiresQuery(t *testing.T) {
	h := newTestHandler(t)
	rec := doSearch(t, h, "/api/v1/search")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestSearchRejectsBadLimit(t *testing.T) {
	h := newTestHandler(t)
	for _, target := range []string{
		"/api/v1/search?q=cat&limit=abc",
		"/api/v1/search?q=cat&limit=-1",
		"/api/v1/search?q=cat&limit=0",
	} {
		rec := doSearch(t, h, target)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", target, rec.Code)
		}
	}
}

func TestSearchClampsLimitToMaxResults(t *testing.T) {
	store := index.NewStore()
	b := indexer.NewBuilder(store)
	if err := b.IndexDocument("d1", "cat", "cat"); err != nil {
		t.Fatal(err)
	}
	if err := b.IndexDocument("d2", "cat", "cat"); err != nil {
		t.Fatal(err)
	}
	if err := b.IndexDocument("d3", "cat", "cat"); err != nil {
		t.Fatal(err)
	}
	b.Seal()
	h := New(executor.New(store), nil, b.Stats, nil, 100, 2)

	rec := doSearch(t, h, "/api/v1/search?q=cat&limit=500")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var result executor.SearchResult
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatal(err)
	}
	if len(result.DocIDs) != 2 {
		t.Errorf("returned %d docs, want 2 (clamped)", len(result.DocIDs))
	}
	if result.TotalHits != 3 {
		t.Errorf("total_hits = %d, want 3", result.TotalHits)
	}
}

// A zero limit must not act as "unlimited" and leak the full result set
// past the configured cap.
func TestSearchLimitZeroDoesNotBypassCap(t *testing.T) {
	store := index.NewStore()
	b := indexer.NewBuilder(store)
	for _, id := range []string{"d1", "d2", "d3", "d4", "d5"} {
		if err := b.IndexDocument(id, "cat", "cat"); err != nil {
			t.Fatal(err)
		}
	}
	b.Seal()
	h := New(executor.New(store), nil, b.Stats, nil, 2, 2)

	rec := doSearch(t, h, "/api/v1/search?q=cat&limit=0")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var body map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if _, leaked := body["doc_ids"]; leaked {
		t.Errorf("response leaked documents: %v", body)
	}
}

func TestIndexStats(t *testing.T) {
	h := newTestHandler(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/index/stats", nil)
	rec := httptest.NewRecorder()
	h.IndexStats(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var stats indexer.Stats
	if err := json.NewDecoder(rec.Body).Decode(&stats); err != nil {
		t.Fatal(err)
	}
	if stats.Docs != 6 {
		t.Errorf("docs = %d, want 6", stats.Docs)
	}
	if !stats.Sealed {
		t.Error("index should report sealed")
	}
}

func TestCacheEndpointsWithoutCache(t *testing.T) {
	h := newTestHandler(t)

	rec := httptest.NewRecorder()
	h.CacheStats(rec, httptest.NewRequest(http.MethodGet, "/api/v1/cache/stats", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("CacheStats status = %d, want 200", rec.Code)
	}
	var body map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if enabled, _ := body["enabled"].(bool); enabled {
		t.Error("cache should report disabled")
	}

	rec = httptest.NewRecorder()
	h.CacheInvalidate(rec, httptest.NewRequest(http.MethodPost, "/api/v1/cache/invalidate", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("CacheInvalidate status = %d, want 200", rec.Code)
	}
}
