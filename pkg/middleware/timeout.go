package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"
)

// Timeout caps request handling. Query evaluation is in-memory and
// fast, so a request that outlives the deadline is stuck on a
// dependency; the client gets a 504 unless the handler already started
// writing its response.
func Timeout(limit time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), limit)
			defer cancel()

			rw := &replyTracker{ResponseWriter: w}
			done := make(chan struct{})
			go func() {
				defer close(done)
				next.ServeHTTP(rw, r.WithContext(ctx))
			}()

			select {
			case <-done:
			case <-ctx.Done():
				if !rw.replied.Load() {
					slog.Warn("request deadline exceeded",
						"method", r.Method,
						"path", r.URL.Path,
						"limit", limit,
					)
					http.Error(w, `{"error":"request timeout"}`, http.StatusGatewayTimeout)
				}
			}
		})
	}
}

// replyTracker records whether the wrapped handler wrote anything. The
// handler goroutine and the timeout branch observe the flag
// concurrently, hence the atomic.
type replyTracker struct {
	http.ResponseWriter
	replied atomic.Bool
}

func (rw *replyTracker) WriteHeader(code int) {
	rw.replied.Store(true)
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *replyTracker) Write(b []byte) (int, error) {
	rw.replied.Store(true)
	return rw.ResponseWriter.Write(b)
}
