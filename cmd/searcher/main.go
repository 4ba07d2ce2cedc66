// Command searcher starts the boolean query service.
//
// On startup it replays the document corpus from PostgreSQL through the
// term normaliser to build the in-memory inverted index, seals the index,
// and then serves boolean queries (AND, OR, NOT, AND NOT) over HTTP. Query
// results are cached in Redis; document-ingest events consumed from Kafka
// invalidate the cache, and the ingested documents enter the index on the
// next restart.
//
// Usage:
//
//	go run ./cmd/searcher [-config configs/development.yaml]
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/searchlabs/boolean-retrieval-platform/internal/corpus"
	"github.com/searchlabs/boolean-retrieval-platform/internal/index"
	"github.com/searchlabs/boolean-retrieval-platform/internal/indexer"
	"github.com/searchlabs/boolean-retrieval-platform/internal/indexer/consumer"
	"github.com/searchlabs/boolean-retrieval-platform/internal/searcher/cache"
	"github.com/searchlabs/boolean-retrieval-platform/internal/searcher/executor"
	"github.com/searchlabs/boolean-retrieval-platform/internal/searcher/handler"
	"github.com/searchlabs/boolean-retrieval-platform/pkg/config"
	"github.com/searchlabs/boolean-retrieval-platform/pkg/health"
	"github.com/searchlabs/boolean-retrieval-platform/pkg/kafka"
	"github.com/searchlabs/boolean-retrieval-platform/pkg/logger"
	"github.com/searchlabs/boolean-retrieval-platform/pkg/metrics"
	"github.com/searchlabs/boolean-retrieval-platform/pkg/middleware"
	"github.com/searchlabs/boolean-retrieval-platform/pkg/postgres"
	pkgredis "github.com/searchlabs/boolean-retrieval-platform/pkg/redis"
	"github.com/searchlabs/boolean-retrieval-platform/pkg/resilience"
)

func main() {
	configPath := flag.String("config", "configs/development.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("starting searcher service", "port", cfg.Server.Port)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
		shutdownMetrics := metrics.StartServer(cfg.Metrics.Port)
		defer shutdownMetrics(context.Background())
	}

	var db *postgres.Client
	err = resilience.Retry(ctx, "postgres-connect", resilience.RetryConfig{MaxAttempts: 5}, func() error {
		var connErr error
		db, connErr = postgres.New(cfg.Postgres)
		return connErr
	})
	if err != nil {
		slog.Error("failed to connect to postgres", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	corpusStore := corpus.NewStore(db)
	if n, err := corpusStore.Count(ctx); err != nil {
		slog.Warn("failed to count corpus documents", "error", err)
	} else {
		slog.Info("replaying corpus", "documents", n)
	}

	store := index.NewStore()
	builder := indexer.NewBuilder(store)
	stats, err := builder.BuildFromCorpus(ctx, corpusStore)
	if err != nil {
		slog.Error("index build failed", "error", err)
		os.Exit(1)
	}
	slog.Info("index sealed",
		"docs", stats.Docs,
		"unique_terms", stats.Terms,
		"universe_size", stats.UniverseSize,
	)
	if m != nil {
		m.DocsIndexedTotal.Add(float64(stats.Docs))
		m.IndexTerms.Set(float64(stats.Terms))
		m.UniverseSize.Set(float64(stats.UniverseSize))
	}

	var queryCache *cache.QueryCache
	var redisClient *pkgredis.Client
	redisClient, err = pkgredis.NewClient(cfg.Redis)
	if err != nil {
		slog.Warn("redis unavailable, query caching disabled", "error", err)
	} else {
		defer redisClient.Close()
		queryCache = cache.New(redisClient, cfg.Redis)
		slog.Info("query cache enabled",
			"addr", cfg.Redis.Addr,
			"ttl", cfg.Redis.CacheTTL,
		)
	}

	var invalidate func(context.Context) error
	if queryCache != nil {
		invalidate = queryCache.Invalidate
	}
	onPending := func(docID string) {
		if m != nil {
			m.PendingDocs.Inc()
		}
	}
	ingestConsumer := consumer.New(kafka.NewConsumer(
		cfg.Kafka,
		cfg.Kafka.Topics.DocumentIngest,
		consumer.HandleIngestEvent(invalidate, onPending),
	))
	go func() {
		if err := ingestConsumer.Start(ctx); err != nil {
			slog.Error("ingest consumer error", "error", err)
		}
	}()

	checker := health.NewChecker()
	checker.Register("index", func(ctx context.Context) health.ComponentHealth {
		if store.Sealed() {
			return health.ComponentHealth{
				Status:  health.StatusUp,
				Message: fmt.Sprintf("%d docs, %d terms", store.Universe().Size(), store.Terms()),
			}
		}
		return health.ComponentHealth{Status: health.StatusDown, Message: "index not sealed"}
	})
	checker.Register("postgres", func(ctx context.Context) health.ComponentHealth {
		if err := db.DB.PingContext(ctx); err != nil {
			return health.ComponentHealth{Status: health.StatusDegraded, Message: err.Error()}
		}
		return health.ComponentHealth{Status: health.StatusUp}
	})
	checker.Register("redis", func(ctx context.Context) health.ComponentHealth {
		if redisClient == nil {
			return health.ComponentHealth{Status: health.StatusDegraded, Message: "not configured"}
		}
		if err := redisClient.Ping(ctx); err != nil {
			return health.ComponentHealth{Status: health.StatusDegraded, Message: err.Error()}
		}
		return health.ComponentHealth{Status: health.StatusUp}
	})

	exec := executor.New(store)
	h := handler.New(exec, queryCache, builder.Stats, m, cfg.Search.DefaultLimit, cfg.Search.MaxResults)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/search", h.Search)
	mux.HandleFunc("GET /api/v1/index/stats", h.IndexStats)
	mux.HandleFunc("GET /api/v1/cache/stats", h.CacheStats)
	mux.HandleFunc("POST /api/v1/cache/invalidate", h.CacheInvalidate)
	mux.HandleFunc("GET /health/live", checker.LiveHandler())
	mux.HandleFunc("GET /health/ready", checker.ReadyHandler())

	var chain http.Handler = mux
	if m != nil {
		chain = middleware.Metrics(m)(chain)
	}
	chain = middleware.Timeout(cfg.Server.WriteTimeout)(chain)
	chain = middleware.RequestID(chain)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      chain,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		<-ctx.Done()
		slog.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", "error", err)
		}
	}()

	slog.Info("searcher service listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	slog.Info("searcher service stopped")
}
