package benchmark

import (
	"context"
	"testing"

	"github.com/searchlabs/boolean-retrieval-platform/internal/query"
	"github.com/searchlabs/boolean-retrieval-platform/internal/searcher/executor"
	"github.com/searchlabs/boolean-retrieval-platform/internal/tokenizer"
)

var benchQueries = []string{
	"dog AND cat",
	"dog OR cat",
	"dog AND NOT cat",
	"(boolean OR retrieval) AND index",
	"cat AND dog OR mouse AND NOT river",
}

// BenchmarkParse measures query parsing cost, including term normalisation.
func BenchmarkParse(b *testing.B) {
	for _, q := range benchQueries {
		b.Run(q, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				expr, err := query.Parse(q, tokenizer.Normalize)
				if err != nil {
					b.Fatal(err)
				}
				_ = expr
			}
		})
	}
}

// BenchmarkExecute measures end-to-end query latency (parse, evaluate,
// truncate) over a sealed index of 10 000 documents.
func BenchmarkExecute(b *testing.B) {
	store := buildStore(b, 10000)
	exec := executor.New(store)

	for _, q := range benchQueries {
		b.Run(q, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				result, err := exec.Execute(context.Background(), q, 100)
				if err != nil {
					b.Fatal(err)
				}
				_ = result
			}
		})
	}
}

// BenchmarkExecuteParallel measures concurrent query throughput against a
// sealed index.
func BenchmarkExecuteParallel(b *testing.B) {
	store := buildStore(b, 10000)
	exec := executor.New(store)

	b.ReportAllocs()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			result, err := exec.Execute(context.Background(), benchQueries[i%len(benchQueries)], 100)
			if err != nil {
				b.Fatal(err)
			}
			_ = result
			i++
		}
	})
}
