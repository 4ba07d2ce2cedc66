// Package e2e contains end-to-end tests that exercise the full stack:
// ingestion → PostgreSQL corpus → Kafka → searcher, with real services.
// The index follows a build-then-query lifecycle, so documents ingested
// here become searchable only after the searcher restarts and rebuilds;
// these tests verify the pending path, not immediate visibility.
//
// Prerequisites:
//   - PostgreSQL running with schema applied
//   - Kafka running
//   - Redis running (optional; cache endpoints degrade gracefully)
//   - ingestion and searcher services started
//
// Run with:
//
//	go test -v -timeout=120s ./test/e2e/...
package e2e

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"
)

type e2eConfig struct {
	IngestionURL string
	SearcherURL  string
}

func loadE2EConfig() e2eConfig {
	return e2eConfig{
		IngestionURL: envOrDefault("E2E_INGESTION_URL", "http://localhost:8081"),
		SearcherURL:  envOrDefault("E2E_SEARCHER_URL", "http://localhost:8080"),
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// TestServiceHealth verifies both services respond to health checks.
func TestServiceHealth(t *testing.T) {
	cfg := loadE2EConfig()

	services := []struct {
		name string
		url  string
	}{
		{"searcher /health/live", cfg.SearcherURL + "/health/live"},
		{"searcher /health/ready", cfg.SearcherURL + "/health/ready"},
		{"ingestion /health", cfg.IngestionURL + "/health"},
	}

	client := &http.Client{Timeout: 5 * time.Second}

	for _, svc := range services {
		t.Run(svc.name, func(t *testing.T) {
			resp, err := client.Get(svc.url)
			if err != nil {
				t.Skipf("service unavailable: %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				body, _ := io.ReadAll(resp.Body)
				t.Errorf("expected 200, got %d: %s", resp.StatusCode, body)
			}
		})
	}
}

// TestIngestPendingLifecycle exercises the document lifecycle up to the
// rebuild boundary: ingest → PENDING response → the new term stays
// unsearchable until the next index rebuild.
func TestIngestPendingLifecycle(t *testing.T) {
	cfg := loadE2EConfig()
	client := &http.Client{Timeout: 10 * time.Second}

	if _, err := client.Get(cfg.IngestionURL + "/health"); err != nil {
		t.Skipf("ingestion service unavailable: %v", err)
	}

	uniqueWord := fmt.Sprintf("e2eterm%d", time.Now().UnixNano())
	payload := fmt.Sprintf(
		`{"title":"%s document","body":"An end-to-end test document containing the word %s for verification."}`,
		uniqueWord, uniqueWord,
	)

	resp, err := client.Post(
		cfg.IngestionURL+"/api/v1/documents",
		"application/json",
		strings.NewReader(payload),
	)
	if err != nil {
		t.Fatalf("ingest request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusAccepted && resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("ingest: expected 202, got %d: %s", resp.StatusCode, body)
	}
	var ingestResp struct {
		DocumentID string `json:"document_id"`
		Status     string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&ingestResp); err != nil {
		t.Fatal(err)
	}
	if ingestResp.DocumentID == "" {
		t.Fatal("ingest response missing document_id")
	}
	if ingestResp.Status != "PENDING" {
		t.Errorf("status = %q, want PENDING", ingestResp.Status)
	}

	// Give the ingest event time to reach the searcher.
	time.Sleep(2 * time.Second)

	searchResp, err := client.Get(cfg.SearcherURL + "/api/v1/search?q=" + url.QueryEscape(uniqueWord))
	if err != nil {
		t.Skipf("searcher unavailable: %v", err)
	}
	defer searchResp.Body.Close()
	if searchResp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(searchResp.Body)
		t.Fatalf("search: expected 200, got %d: %s", searchResp.StatusCode, body)
	}
	var result struct {
		TotalHits int `json:"total_hits"`
	}
	if err := json.NewDecoder(searchResp.Body).Decode(&result); err != nil {
		t.Fatal(err)
	}
	if result.TotalHits != 0 {
		t.Errorf("new document visible before rebuild: total_hits = %d, want 0", result.TotalHits)
	}
}

// TestSearchEndpointContract checks the query surface of a running searcher.
func TestSearchEndpointContract(t *testing.T) {
	cfg := loadE2EConfig()
	client := &http.Client{Timeout: 10 * time.Second}

	if _, err := client.Get(cfg.SearcherURL + "/health/live"); err != nil {
		t.Skipf("searcher unavailable: %v", err)
	}

	t.Run("syntax error returns 400", func(t *testing.T) {
		resp, err := client.Get(cfg.SearcherURL + "/api/v1/search?q=" + url.QueryEscape("dog AND"))
		if err != nil {
			t.Fatal(err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", resp.StatusCode)
		}
	})

	t.Run("index stats", func(t *testing.T) {
		resp, err := client.Get(cfg.SearcherURL + "/api/v1/index/stats")
		if err != nil {
			t.Fatal(err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, want 200", resp.StatusCode)
		}
		var stats struct {
			Sealed bool `json:"sealed"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
			t.Fatal(err)
		}
		if !stats.Sealed {
			t.Error("running searcher should report a sealed index")
		}
	})

	t.Run("cache stats", func(t *testing.T) {
		resp, err := client.Get(cfg.SearcherURL + "/api/v1/cache/stats")
		if err != nil {
			t.Fatal(err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("status = %d, want 200", resp.StatusCode)
		}
	})
}
