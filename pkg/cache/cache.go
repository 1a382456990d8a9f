package cache

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/stride/stride-backend/pkg/logger"
)

// Config holds response cache configuration
type Config struct {
	TTL   time.Duration
	Paths []string // exact request paths eligible for caching
}

// DefaultConfig caches the read-only catalog listings
func DefaultConfig() Config {
	return Config{
		TTL:   5 * time.Minute,
		Paths: []string{"/api/sneakers", "/api/brands", "/api/retailers"},
	}
}

// Middleware caches successful GET responses in Redis. A nil client
// disables caching entirely.
func Middleware(client *redis.Client, cfg Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if client == nil || r.Method != http.MethodGet || !isPathCacheable(r.URL.Path, cfg.Paths) {
				next.ServeHTTP(w, r)
				return
			}

			key := cacheKey(r)
			ctx := r.Context()

			cached, err := client.Get(ctx, key).Bytes()
			if err == nil && len(cached) > 0 {
				logger.Logger.Debug().
					Str("path", r.URL.Path).
					Str("cache_key", key).
					Msg("Cache hit")

				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("X-Cache", "HIT")
				w.WriteHeader(http.StatusOK)
				w.Write(cached)
				return
			}

			rec := &recordingWriter{ResponseWriter: w, statusCode: http.StatusOK}
			rec.Header().Set("X-Cache", "MISS")
			next.ServeHTTP(rec, r)

			if rec.statusCode == http.StatusOK {
				if err := client.Set(ctx, key, rec.body.Bytes(), cfg.TTL).Err(); err != nil {
					logger.Logger.Warn().
						Err(err).
						Str("cache_key", key).
						Msg("Failed to cache response")
				} else {
					logger.Logger.Debug().
						Str("path", r.URL.Path).
						Dur("ttl", cfg.TTL).
						Int("size", rec.body.Len()).
						Msg("Response cached")
				}
			}
		})
	}
}

// Invalidate deletes all cached responses matching the given pattern
func Invalidate(ctx context.Context, client *redis.Client, pattern string) error {
	if client == nil {
		return nil
	}

	iter := client.Scan(ctx, 0, pattern, 0).Iterator()

	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}

	if len(keys) > 0 {
		if err := client.Del(ctx, keys...).Err(); err != nil {
			return err
		}
		logger.Logger.Info().
			Int("count", len(keys)).
			Str("pattern", pattern).
			Msg("Cache invalidated")
	}
	return nil
}

// recordingWriter duplicates the response body so it can be stored after
// the handler has written it
type recordingWriter struct {
	http.ResponseWriter
	statusCode int
	body       bytes.Buffer
}

func (rw *recordingWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *recordingWriter) Write(b []byte) (int, error) {
	rw.body.Write(b)
	return rw.ResponseWriter.Write(b)
}

func cacheKey(r *http.Request) string {
	components := fmt.Sprintf("%s:%s:%s", r.Method, r.URL.Path, r.URL.RawQuery)
	hash := sha256.Sum256([]byte(components))
	return fmt.Sprintf("cache:%s", hex.EncodeToString(hash[:]))
}

func isPathCacheable(path string, paths []string) bool {
	for _, p := range paths {
		if p == path {
			return true
		}
	}
	return false
}
