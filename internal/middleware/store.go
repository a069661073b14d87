package middleware

import (
	"context"
	"net/http"
	"sync/atomic"

	"github.com/rs/zerolog/log"
)

// StoreChecker is the health side of the database handle
type StoreChecker interface {
	Check(ctx context.Context) error
	MarkStale()
}

// StoreHealth checks the store before each request and answers 503 when it
// cannot be reached. A request that reports a store failure marks the store
// stale so the next request rebuilds the connection.
func StoreHealth(store StoreChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := store.Check(r.Context()); err != nil {
				log.Error().Err(err).Str("path", r.URL.Path).Msg("Database unavailable")
				respondError(w, "Database unavailable", http.StatusServiceUnavailable)
				return
			}

			failed := new(atomic.Bool)
			ctx := context.WithValue(r.Context(), storeFailureKey, failed)
			next.ServeHTTP(w, r.WithContext(ctx))

			if failed.Load() {
				store.MarkStale()
			}
		})
	}
}

// ReportStoreFailure records that the database failed while serving the
// request. Other upstream failures must not call it.
func ReportStoreFailure(ctx context.Context) {
	if failed, ok := ctx.Value(storeFailureKey).(*atomic.Bool); ok {
		failed.Store(true)
	}
}
