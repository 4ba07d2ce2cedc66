// Command loadgen seeds the sample corpus through the ingestion service and
// fires the canonical boolean queries against the searcher, printing the
// matching document IDs for each.
//
// Usage:
//
//	go run ./cmd/loadgen [-ingest-url http://localhost:8081] [-search-url http://localhost:8080] [-seed] [-query]
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"
)

type document struct {
	ID    string
	Title string
	Body  string
}

// sampleCorpus is the fifteen-sentence test collection used throughout the
// project's examples and tests.
var sampleCorpus = []document{
	{"d1", "cat and mouse", "The cat chased a small mouse into the garden."},
	{"d2", "dog at the river", "A friendly dog played fetch by the river."},
	{"d3", "bm25", "BM25 is a ranking function widely used in search engines."},
	{"d4", "boolean retrieval", "Boolean retrieval uses logical operators like AND and OR."},
	{"d5", "tf-idf", "TF-IDF weights terms by frequency and rarity."},
	{"d6", "neural retrieval", "Neural retrieval uses dense embeddings for semantic search."},
	{"d7", "dog and cat", "The dog and the cat slept on the same couch."},
	{"d8", "library workshop", "The library hosts a workshop on information retrieval."},
	{"d9", "bm25 vs tf-idf", "Students implemented BM25 and compared it with TF-IDF."},
	{"d10", "roast chicken", "The chef roasted chicken with rosemary and garlic."},
	{"d11", "black cat", "A black cat crossed the old stone bridge at night."},
	{"d12", "loyal dogs", "Dogs are loyal companions during long hikes."},
	{"d13", "test dataset", "The dataset contains fifteen short sentences for testing."},
	{"d14", "reranking", "Reranking models reorder BM25 candidates using transformers."},
	{"d15", "dog and mouse", "The dog sniffed a cat but ignored the mouse."},
}

var testQueries = []string{
	"dog AND cat",
	"dog OR cat",
	"dog AND NOT cat",
	"(bm25 OR tf-idf) AND retrieval",
}

func main() {
	ingestURL := flag.String("ingest-url", "http://localhost:8081", "base URL of the ingestion service")
	searchURL := flag.String("search-url", "http://localhost:8080", "base URL of the searcher service")
	seed := flag.Bool("seed", true, "seed the sample corpus before querying")
	query := flag.Bool("query", true, "run the canonical boolean queries")
	flag.Parse()

	client := &http.Client{Timeout: 10 * time.Second}

	if *seed {
		if err := seedCorpus(client, *ingestURL); err != nil {
			fmt.Fprintf(os.Stderr, "seeding corpus: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("seeded %d documents\n", len(sampleCorpus))
	}
	if *query {
		for _, q := range testQueries {
			if err := runQuery(client, *searchURL, q); err != nil {
				fmt.Fprintf(os.Stderr, "query %q: %v\n", q, err)
			}
		}
	}
}

// seedCorpus posts the whole sample collection through the batch endpoint.
// Idempotency keys keep reruns from duplicating documents.
func seedCorpus(client *http.Client, baseURL string) error {
	batch := make([]map[string]string, 0, len(sampleCorpus))
	for _, doc := range sampleCorpus {
		batch = append(batch, map[string]string{
			"title":           doc.Title,
			"body":            doc.Body,
			"idempotency_key": "seed-" + doc.ID,
		})
	}
	payload, err := json.Marshal(batch)
	if err != nil {
		return err
	}
	resp, err := client.Post(baseURL+"/api/v1/documents/batch", "application/json", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("posting batch: %w", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusAccepted {
		return fmt.Errorf("posting batch: status %d: %s", resp.StatusCode, body)
	}
	return nil
}

func runQuery(client *http.Client, baseURL, q string) error {
	u := fmt.Sprintf("%s/api/v1/search?q=%s", baseURL, url.QueryEscape(q))
	resp, err := client.Get(u)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d: %s", resp.StatusCode, body)
	}
	var result struct {
		TotalHits int      `json:"total_hits"`
		DocIDs    []string `json:"doc_ids"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return err
	}
	fmt.Printf("query %-40q  hits=%-3d docs=%v\n", q, result.TotalHits, result.DocIDs)
	return nil
}
