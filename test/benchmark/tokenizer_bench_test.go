package benchmark

import (
	"fmt"
	"strings"
	"testing"

	"github.com/searchlabs/boolean-retrieval-platform/internal/tokenizer"
)

var sampleTexts = map[string]string{
	"short": "The quick brown fox jumps over the lazy dog",
	"medium": `Boolean retrieval answers queries by intersecting, uniting, and
        differencing sorted posting lists. Each term in the vocabulary maps to
        the ordered set of documents containing it. Queries combine terms with
        AND, OR, and NOT operators evaluated strictly left to right, so result
        sets stay exact rather than ranked. This model underpins the first
        generation of search engines and still powers filtering stages today.`,
	"long": strings.Repeat(`Information retrieval systems form the backbone of modern search
        infrastructure. These systems combine tokenization, stemming, and stop word
        removal to normalize text into searchable terms. The inverted index maps each
        term to the documents containing it, along with positional information for phrase
        queries. Posting lists stay sorted so that boolean operators reduce to linear
        merges. Caching layers reduce latency for repeated queries while the corpus
        store preserves every document for the next index rebuild. `, 20),
}

func BenchmarkTokenize(b *testing.B) {
	for name, text := range sampleTexts {
		b.Run(name, func(b *testing.B) {
			b.ReportAllocs()
			b.SetBytes(int64(len(text)))
			for i := 0; i < b.N; i++ {
				tokens := tokenizer.Tokenize(text)
				_ = tokens
			}
		})
	}
}

func BenchmarkTokenizeParallel(b *testing.B) {
	text := sampleTexts["medium"]
	b.ReportAllocs()
	b.SetBytes(int64(len(text)))
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			tokens := tokenizer.Tokenize(text)
			_ = tokens
		}
	})
}

func BenchmarkStemming(b *testing.B) {
	words := []string{
		"running", "retrieving", "searching", "indexing",
		"tokenization", "normalization", "efficiently",
		"processing", "intersection", "documents",
	}
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		for _, w := range words {
			tokens := tokenizer.Tokenize(w)
			_ = tokens
		}
	}
}

func BenchmarkNormalize(b *testing.B) {
	terms := []string{"Dogs", "retrieval", "TF-IDF", "running", "cat"}
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		term := tokenizer.Normalize(terms[i%len(terms)])
		_ = term
	}
}

func BenchmarkTokenizeVaryingSize(b *testing.B) {
	sizes := []int{10, 100, 500, 1000, 5000}
	baseWord := "boolean retrieval posting index query "
	for _, size := range sizes {
		text := strings.Repeat(baseWord, size/len(baseWord)+1)[:size]
		b.Run(fmt.Sprintf("bytes_%d", size), func(b *testing.B) {
			b.ReportAllocs()
			b.SetBytes(int64(len(text)))
			for i := 0; i < b.N; i++ {
				tokens := tokenizer.Tokenize(text)
				_ = tokens
			}
		})
	}
}
