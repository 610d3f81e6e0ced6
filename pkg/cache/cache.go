// Package cache provides the Redis-backed cache store for shopstack.
//
// The cache is an optional accelerator, never a hard dependency: Connect
// failures leave the store in a disconnected state where every read is a
// deterministic miss and every write is a silent no-op. Callers therefore
// never branch on cache availability.
//
// Values are JSON-serialized. Keys follow the conventions in keys.go so
// whole entity families can be invalidated with a glob pattern.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/kart-io/logger"
	goredis "github.com/redis/go-redis/v9"

	"github.com/shopstack-io/shopstack/pkg/component/storage"
)

// Store is a key-value cache with per-key TTL, JSON values, and
// glob-pattern bulk invalidation. Safe for concurrent use.
type Store struct {
	rdb       *goredis.Client
	opts      *Options
	connected atomic.Bool
}

// Compile-time check that Store implements storage.Client.
var _ storage.Client = (*Store)(nil)

// New creates a disconnected cache store from the provided options.
// No I/O happens here; call Connect to attach the Redis backend.
func New(opts *Options) *Store {
	if opts == nil {
		opts = NewOptions()
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:         fmt.Sprintf("%s:%d", opts.Host, opts.Port),
		Password:     opts.Password,
		DB:           opts.Database,
		MaxRetries:   opts.MaxRetries,
		PoolSize:     opts.PoolSize,
		MinIdleConns: opts.MinIdleConns,
		DialTimeout:  opts.DialTimeout,
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
		PoolTimeout:  opts.PoolTimeout,
	})

	return &Store{rdb: rdb, opts: opts}
}

// Connect verifies the Redis backend with a bounded ping. On failure it
// logs a warning and leaves the store disconnected instead of returning
// an error: the rest of the system runs without the cache, just slower.
func (s *Store) Connect(ctx context.Context) {
	pingCtx, cancel := context.WithTimeout(ctx, s.opts.DialTimeout)
	defer cancel()

	if err := s.rdb.Ping(pingCtx).Err(); err != nil {
		logger.Warnw("cache unavailable, continuing without it",
			"addr", fmt.Sprintf("%s:%d", s.opts.Host, s.opts.Port),
			"error", err.Error(),
		)
		return
	}

	s.connected.Store(true)
	logger.Infow("cache connected", "addr", fmt.Sprintf("%s:%d", s.opts.Host, s.opts.Port))
}

// Connected reports whether the Redis backend is attached.
func (s *Store) Connected() bool {
	return s.connected.Load()
}

// Get reads the JSON value stored under key into dest and reports
// whether it was found. Missing keys, backend errors, and corrupt values
// all report a miss; a corrupt value is deleted so it cannot keep
// poisoning reads.
func (s *Store) Get(ctx context.Context, key string, dest interface{}) bool {
	if !s.connected.Load() {
		return false
	}

	data, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err != goredis.Nil {
			logger.Warnw("cache get failed", "key", key, "error", err.Error())
		}
		return false
	}

	if err := json.Unmarshal(data, dest); err != nil {
		logger.Warnw("cache value corrupt, dropping",
			"key", key,
			"error", storage.ErrSerialization.WithCause(err).Error(),
		)
		_ = s.rdb.Del(ctx, key).Err()
		return false
	}

	return true
}

// Set stores value under key as JSON. A positive ttl expires the entry
// automatically; zero or negative means no automatic expiry. While
// disconnected Set is a silent no-op.
func (s *Store) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if !s.connected.Load() {
		return
	}

	data, err := json.Marshal(value)
	if err != nil {
		logger.Warnw("cache set skipped, value not serializable",
			"key", key,
			"error", storage.ErrSerialization.WithCause(err).Error(),
		)
		return
	}

	if ttl < 0 {
		ttl = 0
	}
	if err := s.rdb.Set(ctx, key, data, ttl).Err(); err != nil {
		logger.Warnw("cache set failed", "key", key, "error", err.Error())
	}
}

// Del removes the given keys. Unknown keys and backend errors are
// ignored; while disconnected Del is a silent no-op.
func (s *Store) Del(ctx context.Context, keys ...string) {
	if !s.connected.Load() || len(keys) == 0 {
		return
	}
	if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
		logger.Warnw("cache del failed", "keys", keys, "error", err.Error())
	}
}

// Exists reports whether key is present. While disconnected it always
// reports false.
func (s *Store) Exists(ctx context.Context, key string) bool {
	if !s.connected.Load() {
		return false
	}

	n, err := s.rdb.Exists(ctx, key).Result()
	if err != nil {
		logger.Warnw("cache exists failed", "key", key, "error", err.Error())
		return false
	}
	return n > 0
}

// InvalidatePattern deletes every key matching the glob pattern, e.g.
// "product:*". It scans rather than using KEYS so large keyspaces do not
// block the backend. Matching zero keys is a no-op, not an error.
func (s *Store) InvalidatePattern(ctx context.Context, pattern string) {
	if !s.connected.Load() {
		return
	}

	iter := s.rdb.Scan(ctx, 0, pattern, 0).Iterator()

	deleted := 0
	for iter.Next(ctx) {
		if err := s.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			logger.Warnw("cache invalidation failed for key", "key", iter.Val(), "error", err.Error())
			continue
		}
		deleted++
	}
	if err := iter.Err(); err != nil {
		logger.Warnw("cache invalidation scan failed", "pattern", pattern, "error", err.Error())
		return
	}

	if deleted > 0 {
		logger.Debugw("cache invalidated", "pattern", pattern, "deleted", deleted)
	}
}

// Name returns the storage type identifier.
// Implements storage.Client interface.
func (s *Store) Name() string {
	return "redis"
}

// Ping checks the backend connection. Unlike the read/write paths, Ping
// surfaces the disconnected state so health reporting can see it.
// Implements storage.Client interface.
func (s *Store) Ping(ctx context.Context) error {
	if !s.connected.Load() {
		return storage.ErrNotConnected.WithMessage("cache store is not connected")
	}
	return s.rdb.Ping(ctx).Err()
}

// Close releases the Redis connection and flips the store back to
// disconnected. Safe to call more than once.
// Implements storage.Client interface.
func (s *Store) Close() error {
	s.connected.Store(false)
	return s.rdb.Close()
}

// Health returns a HealthChecker for the cache backend.
// Implements storage.Client interface.
func (s *Store) Health() storage.HealthChecker {
	return func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		return s.Ping(ctx)
	}
}
